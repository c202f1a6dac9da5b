package service

import (
	"context"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Pledgebase/pledgebase/internal/domain"
	"github.com/Pledgebase/pledgebase/internal/domain/mocks"
	"github.com/Pledgebase/pledgebase/pkg/logger"
)

func setupVisibility(t *testing.T) (*fakeGroupRepository, *VisibilityService) {
	ctrl := gomock.NewController(t)
	t.Cleanup(ctrl.Finish)

	repo := newFakeGroupRepository()
	log := logger.NewTestLogger(t)
	groups := NewGroupService(repo, mocks.NewMockTeamRepository(ctrl), mocks.NewMockAuthService(ctrl), log)
	return repo, NewVisibilityService(repo, groups, log)
}

func groupedContact(id string, groupID *string) *domain.ContactSnapshot {
	return &domain.ContactSnapshot{Contact: &domain.Contact{ID: id, TeamID: teamID, Name: id, GroupID: groupID}}
}

func strPtr(s string) *string { return &s }

func TestVisibilityService_ResolveContactVisibility(t *testing.T) {
	ctx := context.Background()

	ungrouped := groupedContact("ungrouped", nil)
	inG1 := groupedContact("in-g1", strPtr("g1"))
	inG2 := groupedContact("in-g2", strPtr("g2"))

	t.Run("no user means no restriction", func(t *testing.T) {
		repo, svc := setupVisibility(t)
		p, err := svc.ResolveContactVisibility(ctx, teamID, "", nil)
		require.NoError(t, err)
		assert.Nil(t, p)
		// nothing was touched
		assert.Zero(t, repo.transactions)
	})

	t.Run("platform admin bypass", func(t *testing.T) {
		_, svc := setupVisibility(t)
		p, err := svc.ResolveContactVisibility(ctx, teamID, "root", []domain.PlatformRole{domain.PlatformRoleUser, domain.PlatformRoleAdmin})
		require.NoError(t, err)
		assert.Nil(t, p)
	})

	t.Run("default group members see everything", func(t *testing.T) {
		repo, svc := setupVisibility(t)
		repo.addTeamUsers(teamID, "alice")

		p, err := svc.ResolveContactVisibility(ctx, teamID, "alice", nil)
		require.NoError(t, err)
		assert.Nil(t, p)
		// first touch bootstrapped the team
		assert.Len(t, repo.defaultGroups(teamID), 1)
	})

	t.Run("restricted groups", func(t *testing.T) {
		repo, svc := setupVisibility(t)
		repo.seed(domain.NewDefaultGroup("def", teamID, time.Now()))
		repo.seed(&domain.Group{ID: "g1", TeamID: teamID, Name: "Board"}, "bob")

		p, err := svc.ResolveContactVisibility(ctx, teamID, "bob", []domain.PlatformRole{domain.PlatformRoleUser})
		require.NoError(t, err)
		require.NotNil(t, p)
		assert.Equal(t, domain.Or{
			domain.Compare{Column: domain.ColumnGroupID, Op: domain.OpIsNull},
			domain.Compare{Column: domain.ColumnGroupID, Op: domain.OpIn, Value: []string{"g1"}},
		}, p)

		assert.True(t, p.Matches(ungrouped))
		assert.True(t, p.Matches(inG1))
		assert.False(t, p.Matches(inG2))
	})

	t.Run("one unrestricted group lifts the restriction", func(t *testing.T) {
		repo, svc := setupVisibility(t)
		repo.seed(domain.NewDefaultGroup("def", teamID, time.Now()))
		repo.seed(&domain.Group{ID: "g1", TeamID: teamID, Name: "Board"}, "bob")
		repo.seed(&domain.Group{ID: "g2", TeamID: teamID, Name: "Staff", CanAccessAllContacts: true}, "bob")

		p, err := svc.ResolveContactVisibility(ctx, teamID, "bob", nil)
		require.NoError(t, err)
		assert.Nil(t, p)
	})

	t.Run("users without memberships only see ungrouped contacts", func(t *testing.T) {
		repo, svc := setupVisibility(t)
		repo.seed(domain.NewDefaultGroup("def", teamID, time.Now()))

		p, err := svc.ResolveContactVisibility(ctx, teamID, "stranger", nil)
		require.NoError(t, err)
		assert.Equal(t, domain.Compare{Column: domain.ColumnGroupID, Op: domain.OpIsNull}, p)
		assert.True(t, p.Matches(ungrouped))
		assert.False(t, p.Matches(inG1))
	})

	t.Run("memberships in other teams do not count", func(t *testing.T) {
		repo, svc := setupVisibility(t)
		repo.seed(domain.NewDefaultGroup("def", teamID, time.Now()))
		repo.seed(domain.NewDefaultGroup("other-def", "team-2", time.Now()), "bob")

		p, err := svc.ResolveContactVisibility(ctx, teamID, "bob", nil)
		require.NoError(t, err)
		assert.Equal(t, domain.Compare{Column: domain.ColumnGroupID, Op: domain.OpIsNull}, p)
	})

	t.Run("resolution is deterministic", func(t *testing.T) {
		repo, svc := setupVisibility(t)
		repo.seed(domain.NewDefaultGroup("def", teamID, time.Now()))
		repo.seed(&domain.Group{ID: "g2", TeamID: teamID, Name: "B"}, "bob")
		repo.seed(&domain.Group{ID: "g1", TeamID: teamID, Name: "A"}, "bob")

		first, err := svc.ResolveContactVisibility(ctx, teamID, "bob", nil)
		require.NoError(t, err)
		second, err := svc.ResolveContactVisibility(ctx, teamID, "bob", nil)
		require.NoError(t, err)
		assert.Equal(t, first, second)
		assert.Equal(t, []string{"g1", "g2"}, first.(domain.Or)[1].(domain.Compare).Value)
	})
}
