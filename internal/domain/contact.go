package domain

import (
	"bytes"
	"context"
	"database/sql"
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/asaskevich/govalidator"

	"github.com/Pledgebase/pledgebase/pkg/geo"
)

//go:generate mockgen -destination mocks/mock_contact_repository.go -package mocks github.com/Pledgebase/pledgebase/internal/domain ContactRepository

// Contact is a person known to a team
type Contact struct {
	ID      string  `json:"id"`
	TeamID  string  `json:"team_id"`
	GroupID *string `json:"group_id,omitempty"`
	Name    string  `json:"name"`

	Email      *string `json:"email,omitempty"`
	Phone      *string `json:"phone,omitempty"`
	Address    *string `json:"address,omitempty"`
	City       *string `json:"city,omitempty"`
	PostalCode *string `json:"postal_code,omitempty"`
	State      *string `json:"state,omitempty"`
	Country    *string `json:"country,omitempty"`
	Pronouns   *string `json:"pronouns,omitempty"`
	Website    *string `json:"website,omitempty"`
	Signal     *string `json:"signal,omitempty"`

	Attributes ContactAttributes `json:"attributes"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Validate ensures that the contact has all required fields
func (c *Contact) Validate() error {
	if c.TeamID == "" {
		return fmt.Errorf("team_id is required")
	}
	if strings.TrimSpace(c.Name) == "" {
		return fmt.Errorf("name is required")
	}
	if c.Email != nil && !govalidator.IsEmail(*c.Email) {
		return fmt.Errorf("invalid email format")
	}
	if c.Website != nil && !govalidator.IsURL(*c.Website) {
		return fmt.Errorf("invalid website url")
	}
	for i, attr := range c.Attributes {
		if err := attr.Validate(); err != nil {
			return fmt.Errorf("attribute %d: %w", i, err)
		}
	}
	return nil
}

// Normalize brings the address into the canonical form used for postal
// centroid joins and lower-cases the email.
func (c *Contact) Normalize() {
	c.Name = strings.TrimSpace(c.Name)
	if c.Email != nil {
		email := strings.ToLower(strings.TrimSpace(*c.Email))
		c.Email = stringOrNil(email)
	}
	if c.Country != nil {
		c.Country = stringOrNil(geo.NormalizeCountryCode(*c.Country))
	}
	if c.PostalCode != nil {
		country := ""
		if c.Country != nil {
			country = *c.Country
		}
		c.PostalCode = stringOrNil(geo.NormalizePostalCode(country, *c.PostalCode))
	}
}

// FieldValue returns the text value of a contact column and whether it is set
func (c *Contact) FieldValue(column Column) (string, bool) {
	var v *string
	switch column {
	case ColumnID:
		return c.ID, c.ID != ""
	case ColumnName:
		return c.Name, c.Name != ""
	case ColumnGroupID:
		v = c.GroupID
	case ColumnEmail:
		v = c.Email
	case ColumnPhone:
		v = c.Phone
	case ColumnAddress:
		v = c.Address
	case ColumnCity:
		v = c.City
	case ColumnPostalCode:
		v = c.PostalCode
	case ColumnState:
		v = c.State
	case ColumnCountry:
		v = c.Country
	case ColumnPronouns:
		v = c.Pronouns
	case ColumnWebsite:
		v = c.Website
	case ColumnSignal:
		v = c.Signal
	case ColumnCreatedAt:
		return c.CreatedAt.UTC().Format(time.RFC3339Nano), !c.CreatedAt.IsZero()
	}
	if v == nil {
		return "", false
	}
	return *v, true
}

func stringOrNil(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// AttributeType is the declared type of a profile attribute value
type AttributeType string

const (
	AttributeTypeString   AttributeType = "STRING"
	AttributeTypeNumber   AttributeType = "NUMBER"
	AttributeTypeDate     AttributeType = "DATE"
	AttributeTypeLocation AttributeType = "LOCATION"
)

// ContactAttribute is a typed key/value profile attribute. Values are stored as text.
type ContactAttribute struct {
	Key   string        `json:"key"`
	Type  AttributeType `json:"type"`
	Value string        `json:"value"`
}

func (a ContactAttribute) Validate() error {
	if a.Key == "" {
		return fmt.Errorf("key is required")
	}
	switch a.Type {
	case AttributeTypeString, AttributeTypeLocation:
	case AttributeTypeNumber:
		if !govalidator.IsFloat(a.Value) {
			return fmt.Errorf("value of %s must be a number", a.Key)
		}
	case AttributeTypeDate:
		if _, err := time.Parse("2006-01-02", a.Value); err != nil {
			if _, err := time.Parse(time.RFC3339, a.Value); err != nil {
				return fmt.Errorf("value of %s must be a date", a.Key)
			}
		}
	default:
		return fmt.Errorf("invalid attribute type: %s", a.Type)
	}
	return nil
}

// ContactAttributes is stored as a JSONB array on the contacts row
type ContactAttributes []ContactAttribute

// Get returns the attribute with the given key
func (a ContactAttributes) Get(key string) (ContactAttribute, bool) {
	for _, attr := range a {
		if attr.Key == key {
			return attr, true
		}
	}
	return ContactAttribute{}, false
}

// Scan implements the sql.Scanner interface
func (a *ContactAttributes) Scan(val interface{}) error {
	var data []byte
	switch v := val.(type) {
	case []byte:
		// the driver reuses the buffer for the next row
		data = bytes.Clone(v)
	case string:
		data = []byte(v)
	case nil:
		*a = ContactAttributes{}
		return nil
	default:
		return fmt.Errorf("cannot scan %T into ContactAttributes", val)
	}
	return json.Unmarshal(data, a)
}

// Value implements the driver.Valuer interface
func (a ContactAttributes) Value() (driver.Value, error) {
	if a == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(a)
}

// For database scanning
type dbContact struct {
	ID         string
	TeamID     string
	GroupID    sql.NullString
	Name       string
	Email      sql.NullString
	Phone      sql.NullString
	Address    sql.NullString
	City       sql.NullString
	PostalCode sql.NullString
	State      sql.NullString
	Country    sql.NullString
	Pronouns   sql.NullString
	Website    sql.NullString
	Signal     sql.NullString
	Attributes ContactAttributes
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// ContactColumns lists the columns read by ScanContact, in order
var ContactColumns = []string{
	"id", "team_id", "group_id", "name", "email", "phone", "address", "city",
	"postal_code", "state", "country", "pronouns", "website", "signal",
	"attributes", "created_at", "updated_at",
}

// ScanContact scans a contact from the database
func ScanContact(scanner interface {
	Scan(dest ...interface{}) error
}) (*Contact, error) {
	var dbc dbContact
	if err := scanner.Scan(
		&dbc.ID,
		&dbc.TeamID,
		&dbc.GroupID,
		&dbc.Name,
		&dbc.Email,
		&dbc.Phone,
		&dbc.Address,
		&dbc.City,
		&dbc.PostalCode,
		&dbc.State,
		&dbc.Country,
		&dbc.Pronouns,
		&dbc.Website,
		&dbc.Signal,
		&dbc.Attributes,
		&dbc.CreatedAt,
		&dbc.UpdatedAt,
	); err != nil {
		return nil, err
	}

	c := &Contact{
		ID:         dbc.ID,
		TeamID:     dbc.TeamID,
		GroupID:    nullString(dbc.GroupID),
		Name:       dbc.Name,
		Email:      nullString(dbc.Email),
		Phone:      nullString(dbc.Phone),
		Address:    nullString(dbc.Address),
		City:       nullString(dbc.City),
		PostalCode: nullString(dbc.PostalCode),
		State:      nullString(dbc.State),
		Country:    nullString(dbc.Country),
		Pronouns:   nullString(dbc.Pronouns),
		Website:    nullString(dbc.Website),
		Signal:     nullString(dbc.Signal),
		Attributes: dbc.Attributes,
		CreatedAt:  dbc.CreatedAt,
		UpdatedAt:  dbc.UpdatedAt,
	}
	if c.Attributes == nil {
		c.Attributes = ContactAttributes{}
	}
	return c, nil
}

func nullString(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	s := ns.String
	return &s
}

// ContactChange is one field-level modification of a contact
type ContactChange struct {
	ID        string    `json:"id"`
	TeamID    string    `json:"team_id"`
	ContactID string    `json:"contact_id"`
	UserID    *string   `json:"user_id,omitempty"`
	Field     string    `json:"field"`
	OldValue  *string   `json:"old_value,omitempty"`
	NewValue  *string   `json:"new_value,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// DiffContacts lists the fields that differ between two versions of a contact.
// Ids and timestamps of the returned changes are left for the caller to fill.
func DiffContacts(before, after *Contact) []*ContactChange {
	var changes []*ContactChange
	add := func(field string, oldValue, newValue *string) {
		if equalStringPtr(oldValue, newValue) {
			return
		}
		changes = append(changes, &ContactChange{
			TeamID:    after.TeamID,
			ContactID: after.ID,
			Field:     field,
			OldValue:  oldValue,
			NewValue:  newValue,
		})
	}

	add("name", &before.Name, &after.Name)
	add("group_id", before.GroupID, after.GroupID)
	add("email", before.Email, after.Email)
	add("phone", before.Phone, after.Phone)
	add("address", before.Address, after.Address)
	add("city", before.City, after.City)
	add("postal_code", before.PostalCode, after.PostalCode)
	add("state", before.State, after.State)
	add("country", before.Country, after.Country)
	add("pronouns", before.Pronouns, after.Pronouns)
	add("website", before.Website, after.Website)
	add("signal", before.Signal, after.Signal)

	oldAttrs, _ := json.Marshal(before.Attributes)
	newAttrs, _ := json.Marshal(after.Attributes)
	if len(before.Attributes) == 0 {
		oldAttrs = []byte("[]")
	}
	if len(after.Attributes) == 0 {
		newAttrs = []byte("[]")
	}
	if !bytes.Equal(oldAttrs, newAttrs) {
		o, n := string(oldAttrs), string(newAttrs)
		add("attributes", &o, &n)
	}

	return changes
}

func equalStringPtr(a, b *string) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

// Request/Response types

type CreateContactRequest struct {
	TeamID     string            `json:"team_id" valid:"required"`
	GroupID    *string           `json:"group_id,omitempty"`
	Name       string            `json:"name" valid:"required,stringlength(1|255)"`
	Email      *string           `json:"email,omitempty"`
	Phone      *string           `json:"phone,omitempty"`
	Address    *string           `json:"address,omitempty"`
	City       *string           `json:"city,omitempty"`
	PostalCode *string           `json:"postal_code,omitempty"`
	State      *string           `json:"state,omitempty"`
	Country    *string           `json:"country,omitempty"`
	Pronouns   *string           `json:"pronouns,omitempty"`
	Website    *string           `json:"website,omitempty"`
	Signal     *string           `json:"signal,omitempty"`
	Attributes ContactAttributes `json:"attributes,omitempty"`
}

func (r *CreateContactRequest) Validate() (*Contact, error) {
	if _, err := govalidator.ValidateStruct(r); err != nil {
		return nil, NewValidationError(fmt.Sprintf("invalid create contact request: %v", err))
	}
	contact := &Contact{
		TeamID:     r.TeamID,
		GroupID:    r.GroupID,
		Name:       r.Name,
		Email:      r.Email,
		Phone:      r.Phone,
		Address:    r.Address,
		City:       r.City,
		PostalCode: r.PostalCode,
		State:      r.State,
		Country:    r.Country,
		Pronouns:   r.Pronouns,
		Website:    r.Website,
		Signal:     r.Signal,
		Attributes: r.Attributes,
	}
	contact.Normalize()
	if err := contact.Validate(); err != nil {
		return nil, NewValidationError(err.Error())
	}
	return contact, nil
}

// UpdateContactRequest patches a contact: absent fields are left unchanged,
// an empty string clears a nullable field.
type UpdateContactRequest struct {
	TeamID     string             `json:"team_id" valid:"required"`
	ID         string             `json:"id" valid:"required"`
	Name       *string            `json:"name,omitempty"`
	GroupID    *NullableString    `json:"group_id,omitempty"`
	Email      *NullableString    `json:"email,omitempty"`
	Phone      *NullableString    `json:"phone,omitempty"`
	Address    *NullableString    `json:"address,omitempty"`
	City       *NullableString    `json:"city,omitempty"`
	PostalCode *NullableString    `json:"postal_code,omitempty"`
	State      *NullableString    `json:"state,omitempty"`
	Country    *NullableString    `json:"country,omitempty"`
	Pronouns   *NullableString    `json:"pronouns,omitempty"`
	Website    *NullableString    `json:"website,omitempty"`
	Signal     *NullableString    `json:"signal,omitempty"`
	Attributes *ContactAttributes `json:"attributes,omitempty"`
}

func (r *UpdateContactRequest) Validate() error {
	if _, err := govalidator.ValidateStruct(r); err != nil {
		return NewValidationError(fmt.Sprintf("invalid update contact request: %v", err))
	}
	return nil
}

// Apply returns a copy of the contact with the patch applied and normalized
func (r *UpdateContactRequest) Apply(c *Contact) *Contact {
	updated := *c
	if r.Name != nil {
		updated.Name = *r.Name
	}
	r.GroupID.applyTo(&updated.GroupID)
	r.Email.applyTo(&updated.Email)
	r.Phone.applyTo(&updated.Phone)
	r.Address.applyTo(&updated.Address)
	r.City.applyTo(&updated.City)
	r.PostalCode.applyTo(&updated.PostalCode)
	r.State.applyTo(&updated.State)
	r.Country.applyTo(&updated.Country)
	r.Pronouns.applyTo(&updated.Pronouns)
	r.Website.applyTo(&updated.Website)
	r.Signal.applyTo(&updated.Signal)
	if r.Attributes != nil {
		updated.Attributes = append(ContactAttributes{}, (*r.Attributes)...)
	}
	updated.Normalize()
	return &updated
}

type DeleteContactRequest struct {
	TeamID string `json:"team_id" valid:"required"`
	ID     string `json:"id" valid:"required"`
}

func (r *DeleteContactRequest) Validate() error {
	if _, err := govalidator.ValidateStruct(r); err != nil {
		return NewValidationError(fmt.Sprintf("invalid delete contact request: %v", err))
	}
	return nil
}

// SearchContactsRequest is the ad hoc contact query: free text plus filters
type SearchContactsRequest struct {
	TeamID  string         `json:"team_id" valid:"required"`
	Query   string         `json:"query,omitempty"`
	Filters ContactFilters `json:"filters,omitempty"`
}

func (r *SearchContactsRequest) FromURLParams(queryParams url.Values) error {
	r.TeamID = queryParams.Get("team_id")
	r.Query = strings.TrimSpace(queryParams.Get("query"))

	if raw := queryParams.Get("filters"); raw != "" {
		var filters ContactFilters
		if err := json.Unmarshal([]byte(raw), &filters); err != nil {
			return NewValidationError(fmt.Sprintf("invalid filters: %v", err))
		}
		r.Filters = filters
	}

	if _, err := govalidator.ValidateStruct(r); err != nil {
		return NewValidationError(fmt.Sprintf("invalid search contacts request: %v", err))
	}
	return r.Filters.Validate()
}

// ContactRepository is the storage port of contacts. Every read takes a
// predicate that is ANDed with the team scope.
type ContactRepository interface {
	CreateContact(ctx context.Context, contact *Contact) error
	// UpdateContact persists the contact and its change log rows in one transaction
	UpdateContact(ctx context.Context, contact *Contact, changes []*ContactChange) error
	DeleteContact(ctx context.Context, teamID, id string) error
	SearchContacts(ctx context.Context, teamID string, where Predicate) ([]*Contact, error)
	CountContacts(ctx context.Context, teamID string, where Predicate) (int, error)
	ListChanges(ctx context.Context, teamID, contactID string) ([]*ContactChange, error)
}

// ContactService is consumed by the HTTP layer
type ContactService interface {
	SearchContacts(ctx context.Context, req *SearchContactsRequest) ([]*Contact, error)
	GetContact(ctx context.Context, teamID, id string) (*Contact, error)
	CreateContact(ctx context.Context, req *CreateContactRequest) (*Contact, error)
	UpdateContact(ctx context.Context, req *UpdateContactRequest) (*Contact, error)
	DeleteContact(ctx context.Context, teamID, id string) error
	GetContactChanges(ctx context.Context, teamID, id string) ([]*ContactChange, error)
}
