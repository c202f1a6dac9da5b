package service

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/Pledgebase/pledgebase/internal/domain"
	"github.com/Pledgebase/pledgebase/pkg/logger"
	"github.com/Pledgebase/pledgebase/pkg/tracing"
)

// GroupService owns group lifecycle. Every mutation runs under the team's
// group lock and ends with a default group reconciliation in the same
// transaction, so the default group invariants hold once it commits.
type GroupService struct {
	repo        domain.GroupRepository
	teamRepo    domain.TeamRepository
	authService domain.AuthService
	logger      logger.Logger

	// collapses concurrent in-process reconciliations of the same team
	ensureFlight singleflight.Group
}

func NewGroupService(repo domain.GroupRepository, teamRepo domain.TeamRepository, authService domain.AuthService, logger logger.Logger) *GroupService {
	return &GroupService{
		repo:        repo,
		teamRepo:    teamRepo,
		authService: authService,
		logger:      logger,
	}
}

// EnsureDefaultGroup creates, promotes or corrects the team's default group and
// re-derives its memberships. It is idempotent.
func (s *GroupService) EnsureDefaultGroup(ctx context.Context, teamID string) (*domain.Group, error) {
	ctx, span := tracing.StartTeamSpan(ctx, "GroupService", "EnsureDefaultGroup", teamID)
	defer span.End()

	// the flight outlives the request that started it; each caller only
	// stops waiting when its own context ends
	flightCtx := context.WithoutCancel(ctx)
	ch := s.ensureFlight.DoChan(teamID, func() (interface{}, error) {
		var group *domain.Group
		err := s.repo.WithTeamTransaction(flightCtx, teamID, func(store domain.GroupStore) error {
			var err error
			group, err = s.reconcile(flightCtx, store, teamID)
			return err
		})
		return group, err
	})

	var v interface{}
	var err error
	select {
	case <-ctx.Done():
		err = ctx.Err()
	case res := <-ch:
		v, err = res.Val, res.Err
	}
	if err != nil {
		tracing.MarkSpanError(ctx, err)
		s.logger.WithField("team_id", teamID).Error(fmt.Sprintf("Failed to ensure default group: %v", err))
		return nil, fmt.Errorf("failed to ensure default group: %w", err)
	}

	// callers sharing a flight must not share the struct
	group := *v.(*domain.Group)
	return &group, nil
}

// reconcile establishes the default group invariants inside a locked transaction
func (s *GroupService) reconcile(ctx context.Context, store domain.GroupStore, teamID string) (*domain.Group, error) {
	group, err := store.GetDefaultGroup(ctx)
	switch {
	case err == nil:
		if group.EnforceDefaultInvariants() {
			if err := store.UpdateGroup(ctx, group); err != nil {
				return nil, err
			}
			tracing.RecordDefaultGroupRepair(ctx, "correct")
			s.logger.WithField("team_id", teamID).WithField("group_id", group.ID).Info("Corrected default group settings")
		}
	case domain.IsNotFound(err):
		group, err = s.adoptOrCreateDefaultGroup(ctx, store, teamID)
		if err != nil {
			return nil, err
		}
	default:
		return nil, err
	}

	if err := s.syncDefaultMemberships(ctx, store, group); err != nil {
		return nil, err
	}
	return group, nil
}

// adoptOrCreateDefaultGroup promotes a group carrying the default name, or
// creates the default group when there is none
func (s *GroupService) adoptOrCreateDefaultGroup(ctx context.Context, store domain.GroupStore, teamID string) (*domain.Group, error) {
	named, err := store.GetGroupByName(ctx, domain.DefaultGroupName)
	if err == nil {
		named.EnforceDefaultInvariants()
		if err := store.UpdateGroup(ctx, named); err != nil {
			return nil, err
		}
		tracing.RecordDefaultGroupRepair(ctx, "promote")
		s.logger.WithField("team_id", teamID).WithField("group_id", named.ID).Info("Promoted existing group to default group")
		return named, nil
	}
	if !domain.IsNotFound(err) {
		return nil, err
	}

	group := domain.NewDefaultGroup("", teamID, time.Now().UTC())
	if err := store.CreateGroup(ctx, group); err != nil {
		return nil, err
	}
	tracing.RecordDefaultGroupRepair(ctx, "create")
	s.logger.WithField("team_id", teamID).WithField("group_id", group.ID).Info("Created default group")
	return group, nil
}

// syncDefaultMemberships puts every team member without another group into
// the default group and takes everyone else out of it
func (s *GroupService) syncDefaultMemberships(ctx context.Context, store domain.GroupStore, group *domain.Group) error {
	members, err := store.ListTeamUserIDs(ctx)
	if err != nil {
		return err
	}
	grouped, err := store.ListUsersInNonDefaultGroups(ctx)
	if err != nil {
		return err
	}

	inOtherGroup := make(map[string]bool, len(grouped))
	for _, id := range grouped {
		inOtherGroup[id] = true
	}
	ungrouped := make([]string, 0, len(members))
	for _, id := range members {
		if !inOtherGroup[id] {
			ungrouped = append(ungrouped, id)
		}
	}

	if err := store.AddMemberships(ctx, group.ID, ungrouped); err != nil {
		return err
	}
	if err := store.RemoveMemberships(ctx, group.ID, grouped); err != nil {
		return err
	}
	group.UserIDs = domain.UniqueStrings(ungrouped)
	return nil
}

// ensureDefaultGroupExists reconciles teams that never had a default group.
// Teams that already have one are left alone so read paths stay cheap.
func ensureDefaultGroupExists(ctx context.Context, repo domain.GroupRepository, groups domain.GroupService, teamID string) error {
	_, err := repo.GetDefaultGroup(ctx, teamID)
	if err == nil {
		return nil
	}
	if !domain.IsNotFound(err) {
		return fmt.Errorf("failed to get default group: %w", err)
	}
	_, err = groups.EnsureDefaultGroup(ctx, teamID)
	return err
}

func (s *GroupService) ListGroups(ctx context.Context, teamID string) ([]*domain.Group, error) {
	if _, err := s.authService.AuthenticateUserForTeam(ctx, teamID); err != nil {
		return nil, fmt.Errorf("failed to authenticate user: %w", err)
	}

	groups, err := s.repo.ListGroups(ctx, teamID)
	if err != nil {
		s.logger.WithField("team_id", teamID).Error(fmt.Sprintf("Failed to list groups: %v", err))
		return nil, fmt.Errorf("failed to list groups: %w", err)
	}
	for _, g := range groups {
		if g.IsDefaultGroup {
			return groups, nil
		}
	}

	// first access of the team
	if _, err := s.EnsureDefaultGroup(ctx, teamID); err != nil {
		return nil, err
	}
	groups, err = s.repo.ListGroups(ctx, teamID)
	if err != nil {
		s.logger.WithField("team_id", teamID).Error(fmt.Sprintf("Failed to list groups: %v", err))
		return nil, fmt.Errorf("failed to list groups: %w", err)
	}
	return groups, nil
}

func (s *GroupService) CreateGroup(ctx context.Context, req *domain.CreateGroupRequest) (*domain.Group, error) {
	if _, err := s.authService.AuthenticateUserForTeam(ctx, req.TeamID); err != nil {
		return nil, fmt.Errorf("failed to authenticate user: %w", err)
	}

	group, err := req.Validate()
	if err != nil {
		return nil, err
	}
	userIDs := domain.UniqueStrings(req.UserIDs)

	err = s.repo.WithTeamTransaction(ctx, req.TeamID, func(store domain.GroupStore) error {
		if err := requireTeamMembers(ctx, store, userIDs); err != nil {
			return err
		}
		if err := store.CreateGroup(ctx, group); err != nil {
			return err
		}
		if err := store.AddMemberships(ctx, group.ID, userIDs); err != nil {
			return err
		}
		_, err := s.reconcile(ctx, store, req.TeamID)
		return err
	})
	if err != nil {
		if domain.IsValidationError(err) {
			return nil, err
		}
		s.logger.WithField("team_id", req.TeamID).Error(fmt.Sprintf("Failed to create group: %v", err))
		return nil, fmt.Errorf("failed to create group: %w", err)
	}

	group.UserIDs = userIDs
	return group, nil
}

func (s *GroupService) UpdateGroup(ctx context.Context, req *domain.UpdateGroupRequest) (*domain.Group, error) {
	if _, err := s.authService.AuthenticateUserForTeam(ctx, req.TeamID); err != nil {
		return nil, fmt.Errorf("failed to authenticate user: %w", err)
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}

	var group *domain.Group
	err := s.repo.WithTeamTransaction(ctx, req.TeamID, func(store domain.GroupStore) error {
		g, err := store.GetGroup(ctx, req.ID)
		if err != nil {
			return err
		}
		req.Apply(g)
		if g.IsDefaultGroup {
			// the default group always grants full contact access
			g.EnforceDefaultInvariants()
		}
		if err := g.Validate(); err != nil {
			return domain.NewValidationError(err.Error())
		}
		if err := store.UpdateGroup(ctx, g); err != nil {
			return err
		}
		group = g
		_, err = s.reconcile(ctx, store, req.TeamID)
		return err
	})
	if err != nil {
		if domain.IsNotFound(err) || domain.IsValidationError(err) {
			return nil, err
		}
		s.logger.WithField("group_id", req.ID).Error(fmt.Sprintf("Failed to update group: %v", err))
		return nil, fmt.Errorf("failed to update group: %w", err)
	}
	return group, nil
}

// DeleteGroups removes the groups atomically. Contacts assigned to them become
// ungrouped and users left without a group fall back to the default group.
func (s *GroupService) DeleteGroups(ctx context.Context, teamID string, ids []string) error {
	if _, err := s.authService.AuthenticateUserForTeam(ctx, teamID); err != nil {
		return fmt.Errorf("failed to authenticate user: %w", err)
	}
	ids = domain.UniqueStrings(ids)
	if len(ids) == 0 {
		return domain.NewValidationError("ids must not be empty")
	}

	err := s.repo.WithTeamTransaction(ctx, teamID, func(store domain.GroupStore) error {
		for _, id := range ids {
			g, err := store.GetGroup(ctx, id)
			if err != nil {
				return err
			}
			if g.IsDefaultGroup {
				return domain.NewInvariantViolation(domain.MsgDefaultGroupDelete)
			}
		}
		if err := store.DeleteGroups(ctx, ids); err != nil {
			return err
		}
		_, err := s.reconcile(ctx, store, teamID)
		return err
	})
	if err != nil {
		if domain.IsNotFound(err) || domain.IsInvariantViolation(err) {
			return err
		}
		s.logger.WithField("team_id", teamID).Error(fmt.Sprintf("Failed to delete groups: %v", err))
		return fmt.Errorf("failed to delete groups: %w", err)
	}
	return nil
}

func (s *GroupService) AddUsersToGroup(ctx context.Context, teamID, groupID string, userIDs []string) error {
	return s.changeMemberships(ctx, teamID, groupID, userIDs, true)
}

func (s *GroupService) RemoveUsersFromGroup(ctx context.Context, teamID, groupID string, userIDs []string) error {
	return s.changeMemberships(ctx, teamID, groupID, userIDs, false)
}

// changeMemberships adds or removes explicit memberships of a non-default group
func (s *GroupService) changeMemberships(ctx context.Context, teamID, groupID string, userIDs []string, add bool) error {
	if _, err := s.authService.AuthenticateUserForTeam(ctx, teamID); err != nil {
		return fmt.Errorf("failed to authenticate user: %w", err)
	}
	userIDs = domain.UniqueStrings(userIDs)
	if len(userIDs) == 0 {
		return domain.NewValidationError("user_ids must not be empty")
	}

	err := s.repo.WithTeamTransaction(ctx, teamID, func(store domain.GroupStore) error {
		g, err := store.GetGroup(ctx, groupID)
		if err != nil {
			return err
		}
		if add {
			if g.IsDefaultGroup {
				return domain.NewInvariantViolation(domain.MsgDefaultGroupAssign)
			}
			if err := requireTeamMembers(ctx, store, userIDs); err != nil {
				return err
			}
			if err := store.AddMemberships(ctx, groupID, userIDs); err != nil {
				return err
			}
		} else {
			if g.IsDefaultGroup {
				return domain.NewInvariantViolation(domain.MsgDefaultGroupRemove)
			}
			if err := store.RemoveMemberships(ctx, groupID, userIDs); err != nil {
				return err
			}
		}
		_, err = s.reconcile(ctx, store, teamID)
		return err
	})
	if err != nil {
		if domain.IsNotFound(err) || domain.IsInvariantViolation(err) || domain.IsValidationError(err) {
			return err
		}
		s.logger.WithField("group_id", groupID).Error(fmt.Sprintf("Failed to update group memberships: %v", err))
		return fmt.Errorf("failed to update group memberships: %w", err)
	}
	return nil
}

// requireTeamMembers rejects user ids that are not members of the store's team
func requireTeamMembers(ctx context.Context, store domain.GroupStore, userIDs []string) error {
	if len(userIDs) == 0 {
		return nil
	}
	members, err := store.ListTeamUserIDs(ctx)
	if err != nil {
		return err
	}
	known := make(map[string]bool, len(members))
	for _, id := range members {
		known[id] = true
	}
	for _, id := range userIDs {
		if !known[id] {
			return domain.NewValidationError(fmt.Sprintf("user %s is not a member of the team", id))
		}
	}
	return nil
}

// GetUserPermissions merges the grants of the acting user's groups
func (s *GroupService) GetUserPermissions(ctx context.Context, teamID string) (*domain.UserPermissions, error) {
	actor, err := s.authService.AuthenticateUserForTeam(ctx, teamID)
	if err != nil {
		return nil, fmt.Errorf("failed to authenticate user: %w", err)
	}

	team, err := s.teamRepo.GetTeam(ctx, teamID)
	if err != nil {
		if domain.IsNotFound(err) {
			return nil, err
		}
		s.logger.WithField("team_id", teamID).Error(fmt.Sprintf("Failed to get team: %v", err))
		return nil, fmt.Errorf("failed to get team: %w", err)
	}

	if err := ensureDefaultGroupExists(ctx, s.repo, s, teamID); err != nil {
		return nil, err
	}
	groups, err := s.repo.ListUserGroups(ctx, teamID, actor.UserID)
	if err != nil {
		s.logger.WithField("team_id", teamID).WithField("user_id", actor.UserID).
			Error(fmt.Sprintf("Failed to list user groups: %v", err))
		return nil, fmt.Errorf("failed to list user groups: %w", err)
	}
	if actor.IsAdmin() {
		// platform admins hold every grant the team enables
		groups = append(groups, domain.NewDefaultGroup("", teamID, time.Time{}))
	}
	return domain.MergePermissions(teamID, actor.UserID, team.Modules, groups), nil
}
