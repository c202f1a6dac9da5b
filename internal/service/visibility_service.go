package service

import (
	"context"
	"fmt"

	"github.com/Pledgebase/pledgebase/internal/domain"
	"github.com/Pledgebase/pledgebase/pkg/logger"
)

// VisibilityService resolves which contacts a user may see from the groups the
// user belongs to
type VisibilityService struct {
	groupRepo    domain.GroupRepository
	groupService domain.GroupService
	logger       logger.Logger
}

func NewVisibilityService(groupRepo domain.GroupRepository, groupService domain.GroupService, logger logger.Logger) *VisibilityService {
	return &VisibilityService{
		groupRepo:    groupRepo,
		groupService: groupService,
		logger:       logger,
	}
}

// ResolveContactVisibility returns nil for unrestricted users. Otherwise the
// predicate matches ungrouped contacts and contacts of the user's groups.
func (s *VisibilityService) ResolveContactVisibility(ctx context.Context, teamID, userID string, roles []domain.PlatformRole) (domain.Predicate, error) {
	if userID == "" {
		return nil, nil
	}
	for _, role := range roles {
		if role == domain.PlatformRoleAdmin {
			return nil, nil
		}
	}

	if err := ensureDefaultGroupExists(ctx, s.groupRepo, s.groupService, teamID); err != nil {
		s.logger.WithField("team_id", teamID).Error(fmt.Sprintf("Failed to bootstrap default group: %v", err))
		return nil, err
	}

	groups, err := s.groupRepo.ListUserGroups(ctx, teamID, userID)
	if err != nil {
		s.logger.WithField("team_id", teamID).WithField("user_id", userID).
			Error(fmt.Sprintf("Failed to list user groups: %v", err))
		return nil, fmt.Errorf("failed to list user groups: %w", err)
	}

	groupIDs := make([]string, 0, len(groups))
	for _, g := range groups {
		if g.CanAccessAllContacts {
			return nil, nil
		}
		groupIDs = append(groupIDs, g.ID)
	}
	return visibleGroupsPredicate(groupIDs), nil
}

// visibleGroupsPredicate matches ungrouped contacts plus contacts of groupIDs.
// With no groups only ungrouped contacts are visible.
func visibleGroupsPredicate(groupIDs []string) domain.Predicate {
	ungrouped := domain.Compare{Column: domain.ColumnGroupID, Op: domain.OpIsNull}
	groupIDs = domain.UniqueStrings(groupIDs)
	if len(groupIDs) == 0 {
		return ungrouped
	}
	return domain.Or{
		ungrouped,
		domain.Compare{Column: domain.ColumnGroupID, Op: domain.OpIn, Value: groupIDs},
	}
}

// actorVisibility resolves the visibility predicate of the acting user
func actorVisibility(ctx context.Context, resolver domain.VisibilityResolver, teamID string, actor *domain.Actor) (domain.Predicate, error) {
	if actor == nil {
		return nil, domain.ErrUnauthenticated
	}
	vis, err := resolver.ResolveContactVisibility(ctx, teamID, actor.UserID, actor.Roles)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve contact visibility: %w", err)
	}
	return vis, nil
}
