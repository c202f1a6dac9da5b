package service

import (
	"context"
	"fmt"

	"github.com/Pledgebase/pledgebase/internal/domain"
	"github.com/Pledgebase/pledgebase/pkg/logger"
)

// TeamService manages team membership. Joining or leaving a team re-derives
// the default group memberships.
type TeamService struct {
	repo         domain.TeamRepository
	groupService domain.GroupService
	authService  domain.AuthService
	logger       logger.Logger
}

func NewTeamService(repo domain.TeamRepository, groupService domain.GroupService, authService domain.AuthService, logger logger.Logger) *TeamService {
	return &TeamService{
		repo:         repo,
		groupService: groupService,
		authService:  authService,
		logger:       logger,
	}
}

func (s *TeamService) AddMember(ctx context.Context, teamID, userID string) error {
	if _, err := s.authService.AuthenticateUserForTeam(ctx, teamID); err != nil {
		return fmt.Errorf("failed to authenticate user: %w", err)
	}
	if userID == "" {
		return domain.NewValidationError("user_id is required")
	}

	if _, err := s.repo.GetTeam(ctx, teamID); err != nil {
		if domain.IsNotFound(err) {
			return err
		}
		s.logger.WithField("team_id", teamID).Error(fmt.Sprintf("Failed to get team: %v", err))
		return fmt.Errorf("failed to get team: %w", err)
	}

	if err := s.repo.AddMember(ctx, teamID, userID); err != nil {
		s.logger.WithField("team_id", teamID).WithField("user_id", userID).
			Error(fmt.Sprintf("Failed to add team member: %v", err))
		return fmt.Errorf("failed to add team member: %w", err)
	}

	_, err := s.groupService.EnsureDefaultGroup(ctx, teamID)
	return err
}

// RemoveMember drops the user from the team and from every group of the team
func (s *TeamService) RemoveMember(ctx context.Context, teamID, userID string) error {
	if _, err := s.authService.AuthenticateUserForTeam(ctx, teamID); err != nil {
		return fmt.Errorf("failed to authenticate user: %w", err)
	}
	if userID == "" {
		return domain.NewValidationError("user_id is required")
	}

	if err := s.repo.RemoveMember(ctx, teamID, userID); err != nil {
		if domain.IsNotFound(err) {
			return err
		}
		s.logger.WithField("team_id", teamID).WithField("user_id", userID).
			Error(fmt.Sprintf("Failed to remove team member: %v", err))
		return fmt.Errorf("failed to remove team member: %w", err)
	}

	_, err := s.groupService.EnsureDefaultGroup(ctx, teamID)
	return err
}
