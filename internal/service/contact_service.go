package service

import (
	"context"
	"fmt"

	"github.com/Pledgebase/pledgebase/internal/domain"
	"github.com/Pledgebase/pledgebase/pkg/logger"
)

// ContactService exposes contacts through the acting user's visibility:
// contacts outside it are reported as not found
type ContactService struct {
	repo        domain.ContactRepository
	groupRepo   domain.GroupRepository
	evaluator   domain.FilterEvaluator
	visibility  domain.VisibilityResolver
	authService domain.AuthService
	logger      logger.Logger
}

func NewContactService(
	repo domain.ContactRepository,
	groupRepo domain.GroupRepository,
	evaluator domain.FilterEvaluator,
	visibility domain.VisibilityResolver,
	authService domain.AuthService,
	logger logger.Logger,
) *ContactService {
	return &ContactService{
		repo:        repo,
		groupRepo:   groupRepo,
		evaluator:   evaluator,
		visibility:  visibility,
		authService: authService,
		logger:      logger,
	}
}

func (s *ContactService) SearchContacts(ctx context.Context, req *domain.SearchContactsRequest) ([]*domain.Contact, error) {
	actor, err := s.authService.AuthenticateUserForTeam(ctx, req.TeamID)
	if err != nil {
		return nil, fmt.Errorf("failed to authenticate user: %w", err)
	}
	vis, err := actorVisibility(ctx, s.visibility, req.TeamID, actor)
	if err != nil {
		return nil, err
	}

	return s.evaluator.EvaluateContacts(ctx, domain.EvaluateContactsRequest{
		TeamID:     req.TeamID,
		Query:      req.Query,
		Visibility: vis,
		Filters:    req.Filters,
		Roles:      actor.Roles,
	})
}

func (s *ContactService) GetContact(ctx context.Context, teamID, id string) (*domain.Contact, error) {
	actor, err := s.authService.AuthenticateUserForTeam(ctx, teamID)
	if err != nil {
		return nil, fmt.Errorf("failed to authenticate user: %w", err)
	}
	return s.visibleContact(ctx, teamID, id, actor)
}

func (s *ContactService) CreateContact(ctx context.Context, req *domain.CreateContactRequest) (*domain.Contact, error) {
	if _, err := s.authService.AuthenticateUserForTeam(ctx, req.TeamID); err != nil {
		return nil, fmt.Errorf("failed to authenticate user: %w", err)
	}

	contact, err := req.Validate()
	if err != nil {
		return nil, err
	}
	if err := s.checkGroup(ctx, req.TeamID, contact.GroupID); err != nil {
		return nil, err
	}

	if err := s.repo.CreateContact(ctx, contact); err != nil {
		if domain.IsInvariantViolation(err) {
			return nil, err
		}
		s.logger.WithField("team_id", req.TeamID).Error(fmt.Sprintf("Failed to create contact: %v", err))
		return nil, fmt.Errorf("failed to create contact: %w", err)
	}
	return contact, nil
}

// UpdateContact applies the patch and records one change row per modified field
func (s *ContactService) UpdateContact(ctx context.Context, req *domain.UpdateContactRequest) (*domain.Contact, error) {
	actor, err := s.authService.AuthenticateUserForTeam(ctx, req.TeamID)
	if err != nil {
		return nil, fmt.Errorf("failed to authenticate user: %w", err)
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}

	before, err := s.visibleContact(ctx, req.TeamID, req.ID, actor)
	if err != nil {
		return nil, err
	}
	after := req.Apply(before)
	if err := after.Validate(); err != nil {
		return nil, domain.NewValidationError(err.Error())
	}
	if req.GroupID != nil {
		if err := s.checkGroup(ctx, req.TeamID, after.GroupID); err != nil {
			return nil, err
		}
	}

	changes := domain.DiffContacts(before, after)
	if len(changes) == 0 {
		return before, nil
	}
	userID := actor.UserID
	for _, change := range changes {
		change.UserID = &userID
	}

	if err := s.repo.UpdateContact(ctx, after, changes); err != nil {
		if domain.IsNotFound(err) || domain.IsInvariantViolation(err) {
			return nil, err
		}
		s.logger.WithField("contact_id", req.ID).Error(fmt.Sprintf("Failed to update contact: %v", err))
		return nil, fmt.Errorf("failed to update contact: %w", err)
	}
	return after, nil
}

func (s *ContactService) DeleteContact(ctx context.Context, teamID, id string) error {
	actor, err := s.authService.AuthenticateUserForTeam(ctx, teamID)
	if err != nil {
		return fmt.Errorf("failed to authenticate user: %w", err)
	}
	if _, err := s.visibleContact(ctx, teamID, id, actor); err != nil {
		return err
	}

	if err := s.repo.DeleteContact(ctx, teamID, id); err != nil {
		if domain.IsNotFound(err) {
			return err
		}
		s.logger.WithField("contact_id", id).Error(fmt.Sprintf("Failed to delete contact: %v", err))
		return fmt.Errorf("failed to delete contact: %w", err)
	}
	return nil
}

// GetContactChanges returns the change history of a visible contact, newest first
func (s *ContactService) GetContactChanges(ctx context.Context, teamID, id string) ([]*domain.ContactChange, error) {
	actor, err := s.authService.AuthenticateUserForTeam(ctx, teamID)
	if err != nil {
		return nil, fmt.Errorf("failed to authenticate user: %w", err)
	}
	if _, err := s.visibleContact(ctx, teamID, id, actor); err != nil {
		return nil, err
	}

	changes, err := s.repo.ListChanges(ctx, teamID, id)
	if err != nil {
		s.logger.WithField("contact_id", id).Error(fmt.Sprintf("Failed to list contact changes: %v", err))
		return nil, fmt.Errorf("failed to list contact changes: %w", err)
	}
	return changes, nil
}

// visibleContact loads a contact the actor may see
func (s *ContactService) visibleContact(ctx context.Context, teamID, id string, actor *domain.Actor) (*domain.Contact, error) {
	vis, err := actorVisibility(ctx, s.visibility, teamID, actor)
	if err != nil {
		return nil, err
	}

	where := domain.AllOf(domain.Compare{Column: domain.ColumnID, Op: domain.OpEq, Value: id}, vis)
	contacts, err := s.repo.SearchContacts(ctx, teamID, where)
	if err != nil {
		s.logger.WithField("contact_id", id).Error(fmt.Sprintf("Failed to get contact: %v", err))
		return nil, fmt.Errorf("failed to get contact: %w", err)
	}
	if len(contacts) == 0 {
		return nil, domain.NewNotFoundError("contact", id)
	}
	return contacts[0], nil
}

// checkGroup rejects owning groups of other teams
func (s *ContactService) checkGroup(ctx context.Context, teamID string, groupID *string) error {
	if groupID == nil {
		return nil
	}
	if _, err := s.groupRepo.GetGroup(ctx, teamID, *groupID); err != nil {
		if domain.IsNotFound(err) {
			return domain.NewValidationError(fmt.Sprintf("group %s does not exist", *groupID))
		}
		s.logger.WithField("group_id", *groupID).Error(fmt.Sprintf("Failed to get group: %v", err))
		return fmt.Errorf("failed to get group: %w", err)
	}
	return nil
}
