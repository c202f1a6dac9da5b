package domain

import (
	"context"
)

//go:generate mockgen -destination mocks/mock_auth_service.go -package mocks github.com/Pledgebase/pledgebase/internal/domain AuthService

// Key for storing the authenticated user in context
type contextKey string

const (
	AuthUserKey contextKey = "auth_user"
)

// PlatformRole is a role granted by the identity provider, independent of teams
type PlatformRole string

const (
	// PlatformRoleAdmin bypasses team membership checks and contact visibility
	PlatformRoleAdmin PlatformRole = "ADMIN"
	PlatformRoleUser  PlatformRole = "USER"
)

// Actor is the user a request acts on behalf of
type Actor struct {
	UserID string         `json:"user_id"`
	Roles  []PlatformRole `json:"roles"`
}

// IsAdmin reports whether the actor holds the platform admin role
func (a *Actor) IsAdmin() bool {
	if a == nil {
		return false
	}
	for _, r := range a.Roles {
		if r == PlatformRoleAdmin {
			return true
		}
	}
	return false
}

// ContextWithActor stores the authenticated actor in the context
func ContextWithActor(ctx context.Context, actor *Actor) context.Context {
	return context.WithValue(ctx, AuthUserKey, actor)
}

// ActorFromContext returns the authenticated actor, if any
func ActorFromContext(ctx context.Context) (*Actor, bool) {
	actor, ok := ctx.Value(AuthUserKey).(*Actor)
	return actor, ok && actor != nil
}

// AuthService resolves the acting user of a request for a team
type AuthService interface {
	// AuthenticateUserForTeam returns the actor of ctx after checking it may act
	// on the team. Platform admins are accepted without membership.
	AuthenticateUserForTeam(ctx context.Context, teamID string) (*Actor, error)
}
