package domain

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/asaskevich/govalidator"
)

//go:generate mockgen -destination mocks/mock_event_repository.go -package mocks github.com/Pledgebase/pledgebase/internal/domain EventRepository

// Event is a team event contacts can participate in
type Event struct {
	ID        string       `json:"id"`
	TeamID    string       `json:"team_id"`
	Name      string       `json:"name"`
	StartsAt  *time.Time   `json:"starts_at,omitempty"`
	Roles     []*EventRole `json:"roles,omitempty"`
	CreatedAt time.Time    `json:"created_at"`
	UpdatedAt time.Time    `json:"updated_at"`
}

// EventRole is a participation role of an event (attendee, volunteer, speaker...)
type EventRole struct {
	ID      string `json:"id"`
	EventID string `json:"event_id"`
	Name    string `json:"name"`
}

// EventParticipant links a contact to an event under a role
type EventParticipant struct {
	EventID     string    `json:"event_id"`
	ContactID   string    `json:"contact_id"`
	EventRoleID string    `json:"event_role_id"`
	RoleName    string    `json:"role_name"`
	Contact     *Contact  `json:"contact,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

type AddParticipantRequest struct {
	TeamID      string `json:"team_id" valid:"required"`
	EventID     string `json:"event_id" valid:"required"`
	ContactID   string `json:"contact_id" valid:"required"`
	EventRoleID string `json:"event_role_id" valid:"required"`
}

func (r *AddParticipantRequest) Validate() error {
	if _, err := govalidator.ValidateStruct(r); err != nil {
		return NewValidationError(fmt.Sprintf("invalid add participant request: %v", err))
	}
	return nil
}

type ListParticipantsRequest struct {
	TeamID  string `json:"team_id" valid:"required"`
	EventID string `json:"event_id" valid:"required"`
}

func (r *ListParticipantsRequest) FromURLParams(queryParams url.Values) error {
	r.TeamID = queryParams.Get("team_id")
	r.EventID = queryParams.Get("event_id")
	if _, err := govalidator.ValidateStruct(r); err != nil {
		return NewValidationError(fmt.Sprintf("invalid list participants request: %v", err))
	}
	return nil
}

// EventRepository stores events, their roles and participation rows
type EventRepository interface {
	GetEvent(ctx context.Context, teamID, eventID string) (*Event, error)
	// GetEventRole returns the role only when its event belongs to the team
	GetEventRole(ctx context.Context, teamID, eventRoleID string) (*EventRole, error)
	// AddParticipant is idempotent on (event, contact, role)
	AddParticipant(ctx context.Context, participant *EventParticipant) error
	// ListParticipants returns the participation rows whose contact matches where
	ListParticipants(ctx context.Context, teamID, eventID string, where Predicate) ([]*EventParticipant, error)
}

// EventService is the event participation surface of the CRM
type EventService interface {
	AddParticipant(ctx context.Context, req *AddParticipantRequest) (*EventParticipant, error)
	ListParticipants(ctx context.Context, teamID, eventID string) ([]*EventParticipant, error)
}
