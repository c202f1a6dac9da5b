package domain

import (
	"fmt"
	"strings"
	"time"
)

// Column is a contact column a predicate may compare
type Column string

const (
	ColumnID         Column = "id"
	ColumnGroupID    Column = "group_id"
	ColumnName       Column = "name"
	ColumnEmail      Column = "email"
	ColumnPhone      Column = "phone"
	ColumnAddress    Column = "address"
	ColumnCity       Column = "city"
	ColumnPostalCode Column = "postal_code"
	ColumnState      Column = "state"
	ColumnCountry    Column = "country"
	ColumnPronouns   Column = "pronouns"
	ColumnWebsite    Column = "website"
	ColumnSignal     Column = "signal"
	ColumnCreatedAt  Column = "created_at"
)

// CompareOp is the comparison of a Compare or AttributeCompare node
type CompareOp string

const (
	OpEq       CompareOp = "eq"
	OpIn       CompareOp = "in"
	OpContains CompareOp = "contains" // case-insensitive substring
	OpPresent  CompareOp = "present"  // not null and not empty
	OpIsNull   CompareOp = "is_null"
	OpGte      CompareOp = "gte"
	OpLt       CompareOp = "lt"
)

// ContactSnapshot is a contact together with the relations predicates can test
type ContactSnapshot struct {
	Contact      *Contact
	ListIDs      []string
	EventRoleIDs []string
}

// Predicate is a storage-agnostic boolean expression over contacts. Storage
// adapters compile it to their query language, Matches evaluates it in memory.
// Variants: And, Or, Not, Compare, AttributeCompare, EventRoleExists,
// ListMembership and Const.
type Predicate interface {
	Matches(s *ContactSnapshot) bool
	String() string

	isPredicate()
}

// And is true when every operand is true. An empty And is true.
type And []Predicate

// Or is true when at least one operand is true. An empty Or is false.
type Or []Predicate

// Not negates its operand
type Not struct {
	Operand Predicate
}

// Compare tests a contact column
type Compare struct {
	Column Column
	Op     CompareOp
	// Value is a string for eq/contains, []string for in, time.Time for gte/lt
	Value interface{}
}

// AttributeCompare tests the value of the profile attribute with Key
type AttributeCompare struct {
	Key   string
	Op    CompareOp // OpEq or OpContains
	Value string
}

// EventRoleExists is true when the contact participated in an event with the role
type EventRoleExists struct {
	EventRoleID string
}

// ListMembership is true when the contact has a membership row in the list
type ListMembership struct {
	ListID string
}

// Const is a constant predicate
type Const bool

func (And) isPredicate()              {}
func (Or) isPredicate()               {}
func (Not) isPredicate()              {}
func (Compare) isPredicate()          {}
func (AttributeCompare) isPredicate() {}
func (EventRoleExists) isPredicate()  {}
func (ListMembership) isPredicate()   {}
func (Const) isPredicate()            {}

func (p And) Matches(s *ContactSnapshot) bool {
	for _, op := range p {
		if op != nil && !op.Matches(s) {
			return false
		}
	}
	return true
}

func (p Or) Matches(s *ContactSnapshot) bool {
	for _, op := range p {
		if op != nil && op.Matches(s) {
			return true
		}
	}
	return false
}

func (p Not) Matches(s *ContactSnapshot) bool {
	return !p.Operand.Matches(s)
}

func (p Compare) Matches(s *ContactSnapshot) bool {
	if p.Column == ColumnCreatedAt {
		t, ok := p.Value.(time.Time)
		switch p.Op {
		case OpGte:
			return ok && !s.Contact.CreatedAt.Before(t)
		case OpLt:
			return ok && s.Contact.CreatedAt.Before(t)
		}
	}

	value, set := s.Contact.FieldValue(p.Column)
	switch p.Op {
	case OpIsNull:
		return !set
	case OpPresent:
		return set && strings.TrimSpace(value) != ""
	case OpEq:
		want, _ := p.Value.(string)
		return set && value == want
	case OpIn:
		if !set {
			return false
		}
		for _, want := range stringSlice(p.Value) {
			if value == want {
				return true
			}
		}
		return false
	case OpContains:
		want, _ := p.Value.(string)
		return set && containsFold(value, want)
	}
	return false
}

func (p AttributeCompare) Matches(s *ContactSnapshot) bool {
	attr, ok := s.Contact.Attributes.Get(p.Key)
	if !ok {
		return false
	}
	switch p.Op {
	case OpEq:
		return attr.Value == p.Value
	case OpContains:
		return containsFold(attr.Value, p.Value)
	}
	return false
}

func (p EventRoleExists) Matches(s *ContactSnapshot) bool {
	return containsString(s.EventRoleIDs, p.EventRoleID)
}

func (p ListMembership) Matches(s *ContactSnapshot) bool {
	return containsString(s.ListIDs, p.ListID)
}

func (p Const) Matches(*ContactSnapshot) bool {
	return bool(p)
}

func (p And) String() string { return joinPredicates("AND", p) }
func (p Or) String() string  { return joinPredicates("OR", p) }
func (p Not) String() string { return "NOT " + p.Operand.String() }
func (p Compare) String() string {
	return fmt.Sprintf("%s %s %v", p.Column, p.Op, p.Value)
}
func (p AttributeCompare) String() string {
	return fmt.Sprintf("attribute[%s] %s %s", p.Key, p.Op, p.Value)
}
func (p EventRoleExists) String() string { return "event_role " + p.EventRoleID }
func (p ListMembership) String() string  { return "list " + p.ListID }
func (p Const) String() string {
	if p {
		return "TRUE"
	}
	return "FALSE"
}

func joinPredicates(op string, ps []Predicate) string {
	parts := make([]string, 0, len(ps))
	for _, p := range ps {
		if p != nil {
			parts = append(parts, p.String())
		}
	}
	return "(" + strings.Join(parts, " "+op+" ") + ")"
}

// AllOf ANDs the non-nil predicates. It returns nil when none are given.
func AllOf(ps ...Predicate) Predicate {
	var out And
	for _, p := range ps {
		if p == nil {
			continue
		}
		if and, ok := p.(And); ok {
			out = append(out, and...)
			continue
		}
		out = append(out, p)
	}
	switch len(out) {
	case 0:
		return nil
	case 1:
		return out[0]
	}
	return out
}

func containsFold(haystack, needle string) bool {
	return strings.Contains(strings.ToLower(haystack), strings.ToLower(needle))
}

func containsString(values []string, v string) bool {
	for _, x := range values {
		if x == v {
			return true
		}
	}
	return false
}

func stringSlice(v interface{}) []string {
	switch vv := v.(type) {
	case []string:
		return vv
	case string:
		return []string{vv}
	}
	return nil
}
