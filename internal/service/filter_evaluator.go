package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/Pledgebase/pledgebase/internal/domain"
	"github.com/Pledgebase/pledgebase/pkg/geo"
	"github.com/Pledgebase/pledgebase/pkg/logger"
	"github.com/Pledgebase/pledgebase/pkg/tracing"
)

// queryColumns are matched by the free-text query
var queryColumns = []domain.Column{
	domain.ColumnName,
	domain.ColumnEmail,
	domain.ColumnPhone,
	domain.ColumnAddress,
	domain.ColumnCity,
	domain.ColumnPostalCode,
	domain.ColumnState,
	domain.ColumnCountry,
}

// FilterEvaluator compiles query, visibility and filters into one predicate
// and runs it against the contact store
type FilterEvaluator struct {
	contactRepo domain.ContactRepository
	locator     domain.CentroidLocator
	logger      logger.Logger
}

func NewFilterEvaluator(contactRepo domain.ContactRepository, locator domain.CentroidLocator, logger logger.Logger) *FilterEvaluator {
	return &FilterEvaluator{
		contactRepo: contactRepo,
		locator:     locator,
		logger:      logger,
	}
}

func (e *FilterEvaluator) BuildPredicate(ctx context.Context, req domain.EvaluateContactsRequest) (domain.Predicate, error) {
	if err := req.Filters.Validate(); err != nil {
		return nil, err
	}

	parts := []domain.Predicate{queryPredicate(req.Query), req.Visibility, req.Scope}
	for _, f := range req.Filters.Complete() {
		p, err := e.filterPredicate(ctx, f)
		if err != nil {
			return nil, err
		}
		parts = append(parts, p)
	}
	return domain.AllOf(parts...), nil
}

func (e *FilterEvaluator) EvaluateContacts(ctx context.Context, req domain.EvaluateContactsRequest) ([]*domain.Contact, error) {
	ctx, span := tracing.StartTeamSpan(ctx, "FilterEvaluator", "EvaluateContacts", req.TeamID)
	defer span.End()
	start := time.Now()
	defer func() { tracing.RecordFilterEvaluation(ctx, "evaluate", time.Since(start)) }()

	where, err := e.BuildPredicate(ctx, req)
	if err != nil {
		tracing.MarkSpanError(ctx, err)
		return nil, err
	}
	contacts, err := e.contactRepo.SearchContacts(ctx, req.TeamID, where)
	if err != nil {
		tracing.MarkSpanError(ctx, err)
		e.logger.WithField("team_id", req.TeamID).Error(fmt.Sprintf("Failed to evaluate contacts: %v", err))
		return nil, fmt.Errorf("failed to evaluate contacts: %w", err)
	}
	tracing.AddAttribute(ctx, "contacts.count", len(contacts))
	return contacts, nil
}

func (e *FilterEvaluator) CountContacts(ctx context.Context, req domain.EvaluateContactsRequest) (int, error) {
	ctx, span := tracing.StartTeamSpan(ctx, "FilterEvaluator", "CountContacts", req.TeamID)
	defer span.End()
	start := time.Now()
	defer func() { tracing.RecordFilterEvaluation(ctx, "count", time.Since(start)) }()

	where, err := e.BuildPredicate(ctx, req)
	if err != nil {
		tracing.MarkSpanError(ctx, err)
		return 0, err
	}
	count, err := e.contactRepo.CountContacts(ctx, req.TeamID, where)
	if err != nil {
		tracing.MarkSpanError(ctx, err)
		e.logger.WithField("team_id", req.TeamID).Error(fmt.Sprintf("Failed to count contacts: %v", err))
		return 0, fmt.Errorf("failed to count contacts: %w", err)
	}
	return count, nil
}

// queryPredicate ORs a case-insensitive substring match over the query columns
func queryPredicate(query string) domain.Predicate {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil
	}
	or := make(domain.Or, 0, len(queryColumns))
	for _, col := range queryColumns {
		or = append(or, domain.Compare{Column: col, Op: domain.OpContains, Value: query})
	}
	return or
}

func (e *FilterEvaluator) filterPredicate(ctx context.Context, f domain.ContactFilter) (domain.Predicate, error) {
	switch f := f.(type) {
	case domain.ContactFieldFilter:
		col, _ := f.Field.Column()
		present := domain.Compare{Column: col, Op: domain.OpPresent}
		switch f.Operator {
		case domain.OperatorHas:
			return present, nil
		case domain.OperatorMissing:
			return domain.Not{Operand: present}, nil
		default:
			return domain.Compare{Column: col, Op: domain.OpContains, Value: strings.TrimSpace(f.Value)}, nil
		}

	case domain.AttributeFilter:
		op := domain.OpEq
		if f.Operator == domain.OperatorContains {
			op = domain.OpContains
		}
		return domain.AttributeCompare{Key: f.Key, Op: op, Value: f.Value}, nil

	case domain.GroupFilter:
		return domain.Compare{Column: domain.ColumnGroupID, Op: domain.OpEq, Value: f.GroupID}, nil

	case domain.EventRoleFilter:
		return domain.EventRoleExists{EventRoleID: f.EventRoleID}, nil

	case domain.CreatedAtFilter:
		from, to, err := f.Bounds()
		if err != nil {
			return nil, err
		}
		var and domain.And
		if from != nil {
			and = append(and, domain.Compare{Column: domain.ColumnCreatedAt, Op: domain.OpGte, Value: *from})
		}
		if to != nil {
			and = append(and, domain.Compare{Column: domain.ColumnCreatedAt, Op: domain.OpLt, Value: *to})
		}
		return and, nil

	case domain.DistanceFilter:
		return e.distancePredicate(ctx, f), nil
	}
	return nil, domain.NewValidationError(fmt.Sprintf("unsupported filter type: %s", f.Type()))
}

// distancePredicate matches contacts whose postal area lies within the radius.
// Lookup failures exclude every contact instead of failing the evaluation.
func (e *FilterEvaluator) distancePredicate(ctx context.Context, f domain.DistanceFilter) domain.Predicate {
	origin := geo.NormalizeKey(domain.PostalCodeKey{CountryCode: f.CountryCode, PostalCode: f.PostalCode})

	keys, err := e.locator.PostalCodesWithinRadius(ctx, origin, f.RadiusKm)
	if err != nil {
		tracing.RecordGeoLookupFailure(ctx)
		e.logger.WithFields(map[string]interface{}{
			"country_code": origin.CountryCode,
			"postal_code":  origin.PostalCode,
		}).Warn(fmt.Sprintf("Distance filter matches nothing: %v", err))
		return domain.Const(false)
	}
	if len(keys) == 0 {
		return domain.Const(false)
	}

	// one (country, postal codes) pair per country, in first-seen order
	var countries []string
	codes := map[string][]string{}
	for _, k := range keys {
		if _, ok := codes[k.CountryCode]; !ok {
			countries = append(countries, k.CountryCode)
		}
		codes[k.CountryCode] = append(codes[k.CountryCode], k.PostalCode)
	}
	or := make(domain.Or, 0, len(countries))
	for _, country := range countries {
		or = append(or, domain.And{
			domain.Compare{Column: domain.ColumnCountry, Op: domain.OpEq, Value: country},
			domain.Compare{Column: domain.ColumnPostalCode, Op: domain.OpIn, Value: codes[country]},
		})
	}
	if len(or) == 1 {
		return or[0]
	}
	return or
}
