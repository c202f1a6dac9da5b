package service

import (
	"context"
	"fmt"

	"github.com/Pledgebase/pledgebase/internal/domain"
	"github.com/Pledgebase/pledgebase/pkg/logger"
)

type EventService struct {
	repo        domain.EventRepository
	contactRepo domain.ContactRepository
	visibility  domain.VisibilityResolver
	authService domain.AuthService
	logger      logger.Logger
}

func NewEventService(
	repo domain.EventRepository,
	contactRepo domain.ContactRepository,
	visibility domain.VisibilityResolver,
	authService domain.AuthService,
	logger logger.Logger,
) *EventService {
	return &EventService{
		repo:        repo,
		contactRepo: contactRepo,
		visibility:  visibility,
		authService: authService,
		logger:      logger,
	}
}

// AddParticipant records that a visible contact took part in an event under a role
func (s *EventService) AddParticipant(ctx context.Context, req *domain.AddParticipantRequest) (*domain.EventParticipant, error) {
	actor, err := s.authService.AuthenticateUserForTeam(ctx, req.TeamID)
	if err != nil {
		return nil, fmt.Errorf("failed to authenticate user: %w", err)
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}

	event, err := s.repo.GetEvent(ctx, req.TeamID, req.EventID)
	if err != nil {
		return nil, s.lookupError("event", req.EventID, err)
	}
	var role *domain.EventRole
	for _, r := range event.Roles {
		if r.ID == req.EventRoleID {
			role = r
			break
		}
	}
	if role == nil {
		return nil, domain.NewNotFoundError("event role", req.EventRoleID)
	}

	vis, err := actorVisibility(ctx, s.visibility, req.TeamID, actor)
	if err != nil {
		return nil, err
	}
	where := domain.AllOf(domain.Compare{Column: domain.ColumnID, Op: domain.OpEq, Value: req.ContactID}, vis)
	contacts, err := s.contactRepo.SearchContacts(ctx, req.TeamID, where)
	if err != nil {
		return nil, s.lookupError("contact", req.ContactID, err)
	}
	if len(contacts) == 0 {
		return nil, domain.NewNotFoundError("contact", req.ContactID)
	}

	participant := &domain.EventParticipant{
		EventID:     event.ID,
		ContactID:   req.ContactID,
		EventRoleID: role.ID,
		RoleName:    role.Name,
		Contact:     contacts[0],
	}
	if err := s.repo.AddParticipant(ctx, participant); err != nil {
		s.logger.WithField("event_id", req.EventID).Error(fmt.Sprintf("Failed to add participant: %v", err))
		return nil, fmt.Errorf("failed to add participant: %w", err)
	}
	return participant, nil
}

// ListParticipants returns the participation rows whose contact the actor may see
func (s *EventService) ListParticipants(ctx context.Context, teamID, eventID string) ([]*domain.EventParticipant, error) {
	actor, err := s.authService.AuthenticateUserForTeam(ctx, teamID)
	if err != nil {
		return nil, fmt.Errorf("failed to authenticate user: %w", err)
	}
	if _, err := s.repo.GetEvent(ctx, teamID, eventID); err != nil {
		return nil, s.lookupError("event", eventID, err)
	}

	vis, err := actorVisibility(ctx, s.visibility, teamID, actor)
	if err != nil {
		return nil, err
	}
	participants, err := s.repo.ListParticipants(ctx, teamID, eventID, vis)
	if err != nil {
		s.logger.WithField("event_id", eventID).Error(fmt.Sprintf("Failed to list participants: %v", err))
		return nil, fmt.Errorf("failed to list participants: %w", err)
	}
	return participants, nil
}

func (s *EventService) lookupError(entity, id string, err error) error {
	if domain.IsNotFound(err) {
		return err
	}
	s.logger.WithField("id", id).Error(fmt.Sprintf("Failed to get %s: %v", entity, err))
	return fmt.Errorf("failed to get %s: %w", entity, err)
}
