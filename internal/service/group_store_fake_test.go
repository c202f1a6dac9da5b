package service

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/Pledgebase/pledgebase/internal/domain"
)

// fakeGroupRepository is an in-memory domain.GroupRepository. Team
// transactions are serialized per team and roll back on error, and at most
// one default group per team is accepted, like the partial unique index.
type fakeGroupRepository struct {
	mu        sync.Mutex
	teamLocks map[string]*sync.Mutex
	groups    map[string]*domain.Group
	seq       map[string]int
	next      int
	members   map[string]map[string]bool // group id -> user ids
	teamUsers map[string][]string

	transactions int
	failCreate   error
	// txHook runs inside every team transaction before fn
	txHook func(ctx context.Context) error
}

func newFakeGroupRepository() *fakeGroupRepository {
	return &fakeGroupRepository{
		teamLocks: map[string]*sync.Mutex{},
		groups:    map[string]*domain.Group{},
		seq:       map[string]int{},
		members:   map[string]map[string]bool{},
		teamUsers: map[string][]string{},
	}
}

func (r *fakeGroupRepository) addTeamUsers(teamID string, userIDs ...string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.teamUsers[teamID] = append(r.teamUsers[teamID], userIDs...)
}

// seed stores a group as is, bypassing every invariant
func (r *fakeGroupRepository) seed(g *domain.Group, userIDs ...string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.insertLocked(copyGroup(g))
	for _, u := range userIDs {
		r.members[g.ID][u] = true
	}
}

func (r *fakeGroupRepository) insertLocked(g *domain.Group) {
	r.next++
	r.groups[g.ID] = g
	r.seq[g.ID] = r.next
	if r.members[g.ID] == nil {
		r.members[g.ID] = map[string]bool{}
	}
}

func (r *fakeGroupRepository) teamGroupsLocked(teamID string) []*domain.Group {
	var out []*domain.Group
	for _, g := range r.groups {
		if g.TeamID == teamID {
			out = append(out, g)
		}
	}
	sort.Slice(out, func(i, j int) bool { return r.seq[out[i].ID] < r.seq[out[j].ID] })
	return out
}

func (r *fakeGroupRepository) withUsersLocked(g *domain.Group) *domain.Group {
	out := copyGroup(g)
	out.UserIDs = nil
	for u := range r.members[g.ID] {
		out.UserIDs = append(out.UserIDs, u)
	}
	sort.Strings(out.UserIDs)
	return out
}

// defaultGroups returns the default groups of the team
func (r *fakeGroupRepository) defaultGroups(teamID string) []*domain.Group {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*domain.Group
	for _, g := range r.teamGroupsLocked(teamID) {
		if g.IsDefaultGroup {
			out = append(out, r.withUsersLocked(g))
		}
	}
	return out
}

// userGroupIDs returns the ids of the groups the user belongs to
func (r *fakeGroupRepository) userGroupIDs(teamID, userID string) []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []string
	for _, g := range r.teamGroupsLocked(teamID) {
		if r.members[g.ID][userID] {
			out = append(out, g.ID)
		}
	}
	return out
}

func (r *fakeGroupRepository) GetGroup(_ context.Context, teamID, groupID string) (*domain.Group, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	g, ok := r.groups[groupID]
	if !ok || g.TeamID != teamID {
		return nil, domain.NewNotFoundError("group", groupID)
	}
	return r.withUsersLocked(g), nil
}

func (r *fakeGroupRepository) ListGroups(_ context.Context, teamID string) ([]*domain.Group, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*domain.Group
	for _, g := range r.teamGroupsLocked(teamID) {
		out = append(out, r.withUsersLocked(g))
	}
	return out, nil
}

func (r *fakeGroupRepository) GetDefaultGroup(_ context.Context, teamID string) (*domain.Group, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, g := range r.teamGroupsLocked(teamID) {
		if g.IsDefaultGroup {
			return r.withUsersLocked(g), nil
		}
	}
	return nil, domain.NewNotFoundError("default group", teamID)
}

func (r *fakeGroupRepository) ListUserGroups(_ context.Context, teamID, userID string) ([]*domain.Group, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*domain.Group
	for _, g := range r.teamGroupsLocked(teamID) {
		if r.members[g.ID][userID] {
			out = append(out, copyGroup(g))
		}
	}
	return out, nil
}

func (r *fakeGroupRepository) WithTeamTransaction(ctx context.Context, teamID string, fn func(store domain.GroupStore) error) error {
	r.mu.Lock()
	lock, ok := r.teamLocks[teamID]
	if !ok {
		lock = &sync.Mutex{}
		r.teamLocks[teamID] = lock
	}
	r.transactions++
	r.mu.Unlock()

	lock.Lock()
	defer lock.Unlock()

	if r.txHook != nil {
		if err := r.txHook(ctx); err != nil {
			return err
		}
	}

	snapshot := r.snapshot()
	if err := fn(&fakeGroupStore{repo: r, teamID: teamID}); err != nil {
		r.restore(snapshot)
		return err
	}
	return nil
}

type fakeSnapshot struct {
	groups  map[string]*domain.Group
	seq     map[string]int
	members map[string]map[string]bool
}

func (r *fakeGroupRepository) snapshot() fakeSnapshot {
	r.mu.Lock()
	defer r.mu.Unlock()
	s := fakeSnapshot{
		groups:  map[string]*domain.Group{},
		seq:     map[string]int{},
		members: map[string]map[string]bool{},
	}
	for id, g := range r.groups {
		s.groups[id] = copyGroup(g)
		s.seq[id] = r.seq[id]
	}
	for id, users := range r.members {
		s.members[id] = map[string]bool{}
		for u := range users {
			s.members[id][u] = true
		}
	}
	return s
}

func (r *fakeGroupRepository) restore(s fakeSnapshot) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.groups = s.groups
	r.seq = s.seq
	r.members = s.members
}

type fakeGroupStore struct {
	repo   *fakeGroupRepository
	teamID string
}

func (s *fakeGroupStore) GetDefaultGroup(ctx context.Context) (*domain.Group, error) {
	return s.repo.GetDefaultGroup(ctx, s.teamID)
}

func (s *fakeGroupStore) GetGroupByName(_ context.Context, name string) (*domain.Group, error) {
	r := s.repo
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, g := range r.teamGroupsLocked(s.teamID) {
		if g.Name == name {
			return copyGroup(g), nil
		}
	}
	return nil, domain.NewNotFoundError("group", name)
}

func (s *fakeGroupStore) GetGroup(ctx context.Context, groupID string) (*domain.Group, error) {
	return s.repo.GetGroup(ctx, s.teamID, groupID)
}

func (s *fakeGroupStore) CreateGroup(_ context.Context, group *domain.Group) error {
	r := s.repo
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failCreate != nil {
		return r.failCreate
	}
	if group.IsDefaultGroup {
		for _, g := range r.teamGroupsLocked(s.teamID) {
			if g.IsDefaultGroup {
				return errors.New("duplicate key value violates unique constraint \"groups_one_default_per_team\"")
			}
		}
	}
	now := time.Now().UTC()
	if group.ID == "" {
		group.ID = uuid.New().String()
	}
	group.TeamID = s.teamID
	group.CreatedAt = now
	group.UpdatedAt = now
	r.insertLocked(copyGroup(group))
	return nil
}

func (s *fakeGroupStore) UpdateGroup(_ context.Context, group *domain.Group) error {
	r := s.repo
	r.mu.Lock()
	defer r.mu.Unlock()
	existing, ok := r.groups[group.ID]
	if !ok || existing.TeamID != s.teamID {
		return domain.NewNotFoundError("group", group.ID)
	}
	if group.IsDefaultGroup {
		for _, g := range r.teamGroupsLocked(s.teamID) {
			if g.IsDefaultGroup && g.ID != group.ID {
				return errors.New("duplicate key value violates unique constraint \"groups_one_default_per_team\"")
			}
		}
	}
	group.UpdatedAt = time.Now().UTC()
	updated := copyGroup(group)
	updated.CreatedAt = existing.CreatedAt
	r.groups[group.ID] = updated
	return nil
}

func (s *fakeGroupStore) DeleteGroups(_ context.Context, groupIDs []string) error {
	r := s.repo
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, id := range groupIDs {
		if g, ok := r.groups[id]; ok && g.TeamID == s.teamID {
			delete(r.groups, id)
			delete(r.members, id)
		}
	}
	return nil
}

func (s *fakeGroupStore) ListTeamUserIDs(_ context.Context) ([]string, error) {
	r := s.repo
	r.mu.Lock()
	defer r.mu.Unlock()
	return domain.UniqueStrings(r.teamUsers[s.teamID]), nil
}

func (s *fakeGroupStore) ListUsersInNonDefaultGroups(_ context.Context) ([]string, error) {
	r := s.repo
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []string
	for _, g := range r.teamGroupsLocked(s.teamID) {
		if g.IsDefaultGroup {
			continue
		}
		for u := range r.members[g.ID] {
			out = append(out, u)
		}
	}
	return domain.UniqueStrings(out), nil
}

func (s *fakeGroupStore) AddMemberships(_ context.Context, groupID string, userIDs []string) error {
	r := s.repo
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.groups[groupID]; !ok {
		return domain.NewNotFoundError("group", groupID)
	}
	for _, u := range userIDs {
		r.members[groupID][u] = true
	}
	return nil
}

func (s *fakeGroupStore) RemoveMemberships(_ context.Context, groupID string, userIDs []string) error {
	r := s.repo
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range userIDs {
		delete(r.members[groupID], u)
	}
	return nil
}

func copyGroup(g *domain.Group) *domain.Group {
	out := *g
	out.Modules = append(domain.Modules{}, g.Modules...)
	out.ContactSubmodules = append(domain.ContactSubmodules{}, g.ContactSubmodules...)
	out.UserIDs = append([]string(nil), g.UserIDs...)
	return &out
}
