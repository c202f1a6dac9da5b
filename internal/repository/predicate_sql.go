package repository

import (
	"fmt"
	"strings"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/lib/pq"

	"github.com/Pledgebase/pledgebase/internal/domain"
)

// contactAlias is the alias of the contacts table in every compiled query
const contactAlias = "c"

// allowedColumns whitelists the contact columns a predicate may reference
var allowedColumns = map[domain.Column]string{
	domain.ColumnID:         "c.id",
	domain.ColumnGroupID:    "c.group_id",
	domain.ColumnName:       "c.name",
	domain.ColumnEmail:      "c.email",
	domain.ColumnPhone:      "c.phone",
	domain.ColumnAddress:    "c.address",
	domain.ColumnCity:       "c.city",
	domain.ColumnPostalCode: "c.postal_code",
	domain.ColumnState:      "c.state",
	domain.ColumnCountry:    "c.country",
	domain.ColumnPronouns:   "c.pronouns",
	domain.ColumnWebsite:    "c.website",
	domain.ColumnSignal:     "c.signal",
	domain.ColumnCreatedAt:  "c.created_at",
}

// CompilePredicate converts a predicate into a parameterized condition over the
// contacts table aliased as "c". A nil predicate compiles to TRUE.
// The result uses "?" placeholders; callers set the placeholder format on the
// enclosing statement.
func CompilePredicate(p domain.Predicate) (sq.Sqlizer, error) {
	if p == nil {
		return sq.Expr("TRUE"), nil
	}

	switch v := p.(type) {
	case domain.And:
		return compileJunction(v, false)
	case domain.Or:
		return compileJunction(v, true)
	case domain.Not:
		if v.Operand == nil {
			return nil, fmt.Errorf("NOT requires an operand")
		}
		inner, err := CompilePredicate(v.Operand)
		if err != nil {
			return nil, err
		}
		query, args, err := inner.ToSql()
		if err != nil {
			return nil, err
		}
		return sq.Expr("NOT ("+query+")", args...), nil
	case domain.Compare:
		return compileCompare(v)
	case domain.AttributeCompare:
		return compileAttributeCompare(v)
	case domain.EventRoleExists:
		return sq.Expr(
			"EXISTS (SELECT 1 FROM event_participants ep WHERE ep.contact_id = c.id AND ep.event_role_id = ?)",
			v.EventRoleID,
		), nil
	case domain.ListMembership:
		return sq.Expr(
			"EXISTS (SELECT 1 FROM contact_list_members clm WHERE clm.contact_id = c.id AND clm.list_id = ?)",
			v.ListID,
		), nil
	case domain.Const:
		if v {
			return sq.Expr("TRUE"), nil
		}
		return sq.Expr("FALSE"), nil
	}
	return nil, fmt.Errorf("unsupported predicate %T", p)
}

func compileJunction(operands []domain.Predicate, disjunction bool) (sq.Sqlizer, error) {
	parts := make([]sq.Sqlizer, 0, len(operands))
	for _, op := range operands {
		if op == nil {
			continue
		}
		part, err := CompilePredicate(op)
		if err != nil {
			return nil, err
		}
		parts = append(parts, part)
	}
	switch {
	case len(parts) == 0 && disjunction:
		return sq.Expr("FALSE"), nil
	case len(parts) == 0:
		return sq.Expr("TRUE"), nil
	case len(parts) == 1:
		return parts[0], nil
	case disjunction:
		return sq.Or(parts), nil
	}
	return sq.And(parts), nil
}

func compileCompare(c domain.Compare) (sq.Sqlizer, error) {
	col, ok := allowedColumns[c.Column]
	if !ok {
		return nil, fmt.Errorf("unsupported column: %s", c.Column)
	}

	switch c.Op {
	case domain.OpEq:
		value, ok := c.Value.(string)
		if !ok {
			return nil, fmt.Errorf("eq on %s requires a string value", c.Column)
		}
		return sq.Eq{col: value}, nil
	case domain.OpIn:
		values, ok := c.Value.([]string)
		if !ok {
			return nil, fmt.Errorf("in on %s requires a string list", c.Column)
		}
		if len(values) == 0 {
			return sq.Expr("FALSE"), nil
		}
		return sq.Expr(col+" = ANY(?)", pq.Array(values)), nil
	case domain.OpContains:
		value, ok := c.Value.(string)
		if !ok {
			return nil, fmt.Errorf("contains on %s requires a string value", c.Column)
		}
		return sq.Expr(col+" ILIKE ?", likePattern(value)), nil
	case domain.OpPresent:
		return sq.Expr("(" + col + " IS NOT NULL AND btrim(" + col + ") <> '')"), nil
	case domain.OpIsNull:
		return sq.Eq{col: nil}, nil
	case domain.OpGte, domain.OpLt:
		t, ok := c.Value.(time.Time)
		if !ok {
			return nil, fmt.Errorf("%s on %s requires a time value", c.Op, c.Column)
		}
		if c.Op == domain.OpGte {
			return sq.GtOrEq{col: t}, nil
		}
		return sq.Lt{col: t}, nil
	}
	return nil, fmt.Errorf("unsupported operator %s on %s", c.Op, c.Column)
}

func compileAttributeCompare(a domain.AttributeCompare) (sq.Sqlizer, error) {
	const exists = "EXISTS (SELECT 1 FROM jsonb_array_elements(c.attributes) AS attr WHERE attr->>'key' = ? AND "
	switch a.Op {
	case domain.OpEq:
		return sq.Expr(exists+"attr->>'value' = ?)", a.Key, a.Value), nil
	case domain.OpContains:
		return sq.Expr(exists+"attr->>'value' ILIKE ?)", a.Key, likePattern(a.Value)), nil
	}
	return nil, fmt.Errorf("unsupported attribute operator: %s", a.Op)
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// likePattern wraps value for a substring ILIKE, escaping wildcard characters
func likePattern(value string) string {
	return "%" + likeEscaper.Replace(value) + "%"
}

// whereContacts compiles where and returns it as a condition for the contacts
// of teamID
func whereContacts(teamID string, where domain.Predicate) (sq.Sqlizer, error) {
	cond, err := CompilePredicate(where)
	if err != nil {
		return nil, fmt.Errorf("failed to compile contact predicate: %w", err)
	}
	return sq.And{sq.Eq{"c.team_id": teamID}, cond}, nil
}

// contactSelectColumns qualifies domain.ContactColumns with the contacts alias
func contactSelectColumns() []string {
	return qualify(contactAlias, domain.ContactColumns)
}
