package domain

import (
	"bytes"
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/tidwall/gjson"
)

// ContactFilterType is the discriminator of the ContactFilter JSON union
type ContactFilterType string

const (
	FilterTypeContactField ContactFilterType = "contactField"
	FilterTypeAttribute    ContactFilterType = "attribute"
	FilterTypeGroup        ContactFilterType = "group"
	FilterTypeEventRole    ContactFilterType = "eventRole"
	FilterTypeCreatedAt    ContactFilterType = "createdAt"
	FilterTypeDistance     ContactFilterType = "distance"
)

// FilterOperator values are part of the persisted filter format
type FilterOperator string

const (
	OperatorHas      FilterOperator = "has"
	OperatorMissing  FilterOperator = "missing"
	OperatorContains FilterOperator = "contains"
	OperatorEquals   FilterOperator = "equals"
)

// ContactField is a contact column a contactField filter may target
type ContactField string

const (
	ContactFieldName       ContactField = "name"
	ContactFieldEmail      ContactField = "email"
	ContactFieldPhone      ContactField = "phone"
	ContactFieldPronouns   ContactField = "pronouns"
	ContactFieldCity       ContactField = "city"
	ContactFieldWebsite    ContactField = "website"
	ContactFieldAddress    ContactField = "address"
	ContactFieldPostalCode ContactField = "postalCode"
	ContactFieldState      ContactField = "state"
	ContactFieldCountry    ContactField = "country"
	ContactFieldSignal     ContactField = "signal"
)

var contactFieldColumns = map[ContactField]Column{
	ContactFieldName:       ColumnName,
	ContactFieldEmail:      ColumnEmail,
	ContactFieldPhone:      ColumnPhone,
	ContactFieldPronouns:   ColumnPronouns,
	ContactFieldCity:       ColumnCity,
	ContactFieldWebsite:    ColumnWebsite,
	ContactFieldAddress:    ColumnAddress,
	ContactFieldPostalCode: ColumnPostalCode,
	ContactFieldState:      ColumnState,
	ContactFieldCountry:    ColumnCountry,
	ContactFieldSignal:     ColumnSignal,
}

// Column returns the contact column backing the field
func (f ContactField) Column() (Column, bool) {
	c, ok := contactFieldColumns[f]
	return c, ok
}

// ContactFilter is one user-composed predicate over contacts. The set of
// implementations is closed: ContactFieldFilter, AttributeFilter, GroupFilter,
// EventRoleFilter, CreatedAtFilter and DistanceFilter.
type ContactFilter interface {
	Type() ContactFilterType
	// Validate rejects invalid shapes (unknown enum values, non-finite numbers)
	Validate() error
	// IsComplete reports whether all fields needed for evaluation are set.
	// Incomplete filters are skipped, they never constrain a result.
	IsComplete() bool

	isContactFilter()
}

// ContactFieldFilter matches on presence or substring of a contact column
type ContactFieldFilter struct {
	Field    ContactField   `json:"field"`
	Operator FilterOperator `json:"operator"`
	Value    string         `json:"value,omitempty"`
}

func (ContactFieldFilter) Type() ContactFilterType { return FilterTypeContactField }
func (ContactFieldFilter) isContactFilter()        {}

// Validate rejects unknown enum values. Unset fields leave the filter
// incomplete rather than invalid.
func (f ContactFieldFilter) Validate() error {
	if _, ok := f.Field.Column(); f.Field != "" && !ok {
		return NewValidationError(fmt.Sprintf("invalid contact field: %s", f.Field))
	}
	switch f.Operator {
	case "", OperatorHas, OperatorMissing, OperatorContains:
		return nil
	}
	return NewValidationError(fmt.Sprintf("invalid contactField operator: %s (must be 'has', 'missing' or 'contains')", f.Operator))
}

func (f ContactFieldFilter) IsComplete() bool {
	if f.Field == "" || f.Operator == "" {
		return false
	}
	if f.Operator == OperatorContains {
		return strings.TrimSpace(f.Value) != ""
	}
	return true
}

// AttributeFilter matches a profile attribute value looked up by key
type AttributeFilter struct {
	Key      string         `json:"key"`
	Operator FilterOperator `json:"operator"`
	Value    string         `json:"value"`
}

func (AttributeFilter) Type() ContactFilterType { return FilterTypeAttribute }
func (AttributeFilter) isContactFilter()        {}

func (f AttributeFilter) Validate() error {
	switch f.Operator {
	case "", OperatorContains, OperatorEquals:
		return nil
	}
	return NewValidationError(fmt.Sprintf("invalid attribute operator: %s (must be 'contains' or 'equals')", f.Operator))
}

func (f AttributeFilter) IsComplete() bool {
	return f.Key != "" && f.Operator != "" && f.Value != ""
}

// GroupFilter matches contacts owned by a group
type GroupFilter struct {
	GroupID string `json:"groupId"`
}

func (GroupFilter) Type() ContactFilterType { return FilterTypeGroup }
func (GroupFilter) isContactFilter()        {}
func (GroupFilter) Validate() error         { return nil }
func (f GroupFilter) IsComplete() bool      { return f.GroupID != "" }

// EventRoleFilter matches contacts that participated in an event with a role
type EventRoleFilter struct {
	EventRoleID string `json:"eventRoleId"`
}

func (EventRoleFilter) Type() ContactFilterType { return FilterTypeEventRole }
func (EventRoleFilter) isContactFilter()        {}
func (EventRoleFilter) Validate() error         { return nil }
func (f EventRoleFilter) IsComplete() bool      { return f.EventRoleID != "" }

// CreatedAtFilter matches contacts created in [From, To). The bounds keep the
// caller's text form so the persisted JSON round-trips unchanged.
type CreatedAtFilter struct {
	From string `json:"from,omitempty"`
	To   string `json:"to,omitempty"`
}

func (CreatedAtFilter) Type() ContactFilterType { return FilterTypeCreatedAt }
func (CreatedAtFilter) isContactFilter()        {}

func (f CreatedAtFilter) Validate() error {
	if _, _, err := f.Bounds(); err != nil {
		return err
	}
	return nil
}

func (f CreatedAtFilter) IsComplete() bool { return f.From != "" || f.To != "" }

// Bounds parses the range. A date-only upper bound includes that whole day.
func (f CreatedAtFilter) Bounds() (from, to *time.Time, err error) {
	if f.From != "" {
		t, _, perr := parseFilterDate(f.From)
		if perr != nil {
			return nil, nil, NewValidationError(fmt.Sprintf("invalid createdAt from: %s", f.From))
		}
		from = &t
	}
	if f.To != "" {
		t, dateOnly, perr := parseFilterDate(f.To)
		if perr != nil {
			return nil, nil, NewValidationError(fmt.Sprintf("invalid createdAt to: %s", f.To))
		}
		if dateOnly {
			t = t.AddDate(0, 0, 1)
		}
		to = &t
	}
	return from, to, nil
}

func parseFilterDate(s string) (time.Time, bool, error) {
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return t.UTC(), true, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, false, err
	}
	return t.UTC(), false, nil
}

// DistanceFilter matches contacts whose postal centroid lies within RadiusKm
// of the centroid of (CountryCode, PostalCode)
type DistanceFilter struct {
	PostalCode  string  `json:"postalCode"`
	CountryCode string  `json:"countryCode"`
	RadiusKm    float64 `json:"radiusKm"`
}

func (DistanceFilter) Type() ContactFilterType { return FilterTypeDistance }
func (DistanceFilter) isContactFilter()        {}

func (f DistanceFilter) Validate() error {
	if math.IsNaN(f.RadiusKm) || math.IsInf(f.RadiusKm, 0) {
		return NewValidationError("radiusKm must be a finite number")
	}
	if f.RadiusKm < 0 {
		return NewValidationError("radiusKm must not be negative")
	}
	return nil
}

func (f DistanceFilter) IsComplete() bool {
	return strings.TrimSpace(f.PostalCode) != "" && strings.TrimSpace(f.CountryCode) != "" && f.RadiusKm > 0
}

// ContactFilters is the ordered filter sequence of a SMART list, stored as JSONB
type ContactFilters []ContactFilter

// Validate checks the shape of every filter
func (fs ContactFilters) Validate() error {
	for i, f := range fs {
		if f == nil {
			return NewValidationError(fmt.Sprintf("filter %d is nil", i))
		}
		if err := f.Validate(); err != nil {
			return fmt.Errorf("filter %d: %w", i, err)
		}
	}
	return nil
}

// Complete returns the filters that take part in evaluation
func (fs ContactFilters) Complete() ContactFilters {
	out := make(ContactFilters, 0, len(fs))
	for _, f := range fs {
		if f != nil && f.IsComplete() {
			out = append(out, f)
		}
	}
	return out
}

// MarshalJSON writes each filter with its "type" discriminator first
func (fs ContactFilters) MarshalJSON() ([]byte, error) {
	if fs == nil {
		return []byte("[]"), nil
	}
	parts := make([]json.RawMessage, 0, len(fs))
	for _, f := range fs {
		raw, err := MarshalContactFilter(f)
		if err != nil {
			return nil, err
		}
		parts = append(parts, raw)
	}
	return json.Marshal(parts)
}

// UnmarshalJSON decodes the tagged union
func (fs *ContactFilters) UnmarshalJSON(data []byte) error {
	var raws []json.RawMessage
	if err := json.Unmarshal(data, &raws); err != nil {
		return NewValidationError("filters must be a JSON array")
	}
	out := make(ContactFilters, 0, len(raws))
	for i, raw := range raws {
		f, err := UnmarshalContactFilter(raw)
		if err != nil {
			return fmt.Errorf("filter %d: %w", i, err)
		}
		out = append(out, f)
	}
	*fs = out
	return nil
}

// Scan implements the sql.Scanner interface
func (fs *ContactFilters) Scan(val interface{}) error {
	switch v := val.(type) {
	case nil:
		*fs = nil
		return nil
	case []byte:
		return fs.UnmarshalJSON(bytes.Clone(v))
	case string:
		return fs.UnmarshalJSON([]byte(v))
	}
	return fmt.Errorf("cannot scan %T into ContactFilters", val)
}

// Value implements the driver.Valuer interface. Nil filters are stored as NULL.
func (fs ContactFilters) Value() (driver.Value, error) {
	if fs == nil {
		return nil, nil
	}
	return fs.MarshalJSON()
}

// MarshalContactFilter encodes a single filter including its discriminator
func MarshalContactFilter(f ContactFilter) ([]byte, error) {
	var payload interface{}
	switch v := f.(type) {
	case ContactFieldFilter:
		payload = struct {
			Type ContactFilterType `json:"type"`
			ContactFieldFilter
		}{v.Type(), v}
	case AttributeFilter:
		payload = struct {
			Type ContactFilterType `json:"type"`
			AttributeFilter
		}{v.Type(), v}
	case GroupFilter:
		payload = struct {
			Type ContactFilterType `json:"type"`
			GroupFilter
		}{v.Type(), v}
	case EventRoleFilter:
		payload = struct {
			Type ContactFilterType `json:"type"`
			EventRoleFilter
		}{v.Type(), v}
	case CreatedAtFilter:
		payload = struct {
			Type ContactFilterType `json:"type"`
			CreatedAtFilter
		}{v.Type(), v}
	case DistanceFilter:
		payload = struct {
			Type ContactFilterType `json:"type"`
			DistanceFilter
		}{v.Type(), v}
	default:
		return nil, fmt.Errorf("unsupported contact filter %T", f)
	}
	return json.Marshal(payload)
}

// UnmarshalContactFilter decodes a single filter, picking the variant from "type"
func UnmarshalContactFilter(raw []byte) (ContactFilter, error) {
	if !gjson.ValidBytes(raw) {
		return nil, NewValidationError("filter is not valid JSON")
	}
	kind := gjson.GetBytes(raw, "type")
	if !kind.Exists() {
		return nil, NewValidationError("filter must have a 'type' field")
	}

	var (
		f   ContactFilter
		err error
	)
	switch ContactFilterType(kind.String()) {
	case FilterTypeContactField:
		var v ContactFieldFilter
		err = json.Unmarshal(raw, &v)
		f = v
	case FilterTypeAttribute:
		var v AttributeFilter
		err = json.Unmarshal(raw, &v)
		f = v
	case FilterTypeGroup:
		var v GroupFilter
		err = json.Unmarshal(raw, &v)
		f = v
	case FilterTypeEventRole:
		var v EventRoleFilter
		err = json.Unmarshal(raw, &v)
		f = v
	case FilterTypeCreatedAt:
		var v CreatedAtFilter
		err = json.Unmarshal(raw, &v)
		f = v
	case FilterTypeDistance:
		var v DistanceFilter
		err = json.Unmarshal(raw, &v)
		f = v
	default:
		return nil, NewValidationError(fmt.Sprintf("invalid filter type: %s", kind.String()))
	}
	if err != nil {
		return nil, NewValidationError(fmt.Sprintf("invalid %s filter: %v", kind.String(), err))
	}
	return f, nil
}
