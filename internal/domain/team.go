package domain

import (
	"context"
	"fmt"
	"time"

	"github.com/asaskevich/govalidator"
)

//go:generate mockgen -destination mocks/mock_team_repository.go -package mocks github.com/Pledgebase/pledgebase/internal/domain TeamRepository

// Team is the tenant every contact, group and list belongs to
type Team struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Modules   Modules   `json:"modules"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type TeamMemberRequest struct {
	TeamID string `json:"team_id" valid:"required"`
	UserID string `json:"user_id" valid:"required"`
}

func (r *TeamMemberRequest) Validate() error {
	if _, err := govalidator.ValidateStruct(r); err != nil {
		return NewValidationError(fmt.Sprintf("invalid team member request: %v", err))
	}
	return nil
}

// TeamRepository stores teams and their user memberships
type TeamRepository interface {
	GetTeam(ctx context.Context, teamID string) (*Team, error)
	IsMember(ctx context.Context, teamID, userID string) (bool, error)
	AddMember(ctx context.Context, teamID, userID string) error
	// RemoveMember deletes the team membership and every group membership of
	// the user in that team
	RemoveMember(ctx context.Context, teamID, userID string) error
}

// TeamService manages team membership; every change reconciles the default group
type TeamService interface {
	AddMember(ctx context.Context, teamID, userID string) error
	RemoveMember(ctx context.Context, teamID, userID string) error
}
