package domain

import (
	"context"
)

//go:generate mockgen -destination mocks/mock_visibility_resolver.go -package mocks github.com/Pledgebase/pledgebase/internal/domain VisibilityResolver
//go:generate mockgen -destination mocks/mock_filter_evaluator.go -package mocks github.com/Pledgebase/pledgebase/internal/domain FilterEvaluator

// VisibilityResolver decides which contacts of a team a user may see
type VisibilityResolver interface {
	// ResolveContactVisibility returns the predicate a contact must satisfy to be
	// visible to userID, or nil when the user is unrestricted. An empty userID and
	// the ADMIN platform role are both unrestricted.
	ResolveContactVisibility(ctx context.Context, teamID, userID string, roles []PlatformRole) (Predicate, error)
}

// EvaluateContactsRequest is the input of a filter evaluation
type EvaluateContactsRequest struct {
	TeamID     string
	Query      string
	Visibility Predicate
	// Scope further restricts the candidates, e.g. to the members of a MANUAL list
	Scope      Predicate
	Filters    ContactFilters
	Roles      []PlatformRole
}

// FilterEvaluator turns free text, visibility and filters into a contact query
type FilterEvaluator interface {
	// BuildPredicate ANDs the query match, the visibility predicate and every
	// complete filter. A nil result matches every contact of the team.
	BuildPredicate(ctx context.Context, req EvaluateContactsRequest) (Predicate, error)
	EvaluateContacts(ctx context.Context, req EvaluateContactsRequest) ([]*Contact, error)
	CountContacts(ctx context.Context, req EvaluateContactsRequest) (int, error)
}
