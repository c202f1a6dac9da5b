package domain

import (
	"context"
	"database/sql"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/asaskevich/govalidator"
)

//go:generate mockgen -destination mocks/mock_contact_list_service.go -package mocks github.com/Pledgebase/pledgebase/internal/domain ContactListService
//go:generate mockgen -destination mocks/mock_contact_list_repository.go -package mocks github.com/Pledgebase/pledgebase/internal/domain ContactListRepository

// ContactListType decides how a list's membership is determined
type ContactListType string

const (
	// ContactListTypeManual lists hold explicit membership rows
	ContactListTypeManual ContactListType = "MANUAL"
	// ContactListTypeSmart lists are computed live from their filters
	ContactListTypeSmart ContactListType = "SMART"
)

// Validate checks if the list type is valid
func (t ContactListType) Validate() error {
	switch t {
	case ContactListTypeManual, ContactListTypeSmart:
		return nil
	}
	return fmt.Errorf("invalid list type: %s (must be 'MANUAL' or 'SMART')", t)
}

// ContactList is a named, team-scoped collection of contacts
type ContactList struct {
	ID          string          `json:"id"`
	TeamID      string          `json:"team_id"`
	Name        string          `json:"name"`
	Description *string         `json:"description,omitempty"`
	Type        ContactListType `json:"type"`
	Filters     ContactFilters  `json:"filters"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`

	// computed per request, for the acting user
	ContactCount int `json:"contact_count"`
}

// IsSmart reports whether membership is computed from filters
func (l *ContactList) IsSmart() bool {
	return l.Type == ContactListTypeSmart
}

// NormalizeFilters applies the filter invariant of the list type: MANUAL lists
// carry no filters, SMART lists always carry a (possibly empty) filter sequence.
func (l *ContactList) NormalizeFilters() {
	if l.Type == ContactListTypeSmart {
		if l.Filters == nil {
			l.Filters = ContactFilters{}
		}
		return
	}
	l.Filters = nil
}

// Validate performs validation on the list fields
func (l *ContactList) Validate() error {
	if l.TeamID == "" {
		return NewValidationError("team_id is required")
	}
	if strings.TrimSpace(l.Name) == "" {
		return NewInvariantViolation(MsgListNameRequired)
	}
	if len(l.Name) > 255 {
		return NewValidationError("name length must be between 1 and 255")
	}
	if err := l.Type.Validate(); err != nil {
		return NewValidationError(err.Error())
	}
	if l.Type == ContactListTypeManual && len(l.Filters) > 0 {
		return NewInvariantViolation("manual lists cannot carry filters")
	}
	return l.Filters.Validate()
}

// ContactListColumns lists the columns read by ScanContactList, in order
var ContactListColumns = []string{
	"id", "team_id", "name", "description", "type", "filters", "created_at", "updated_at",
}

// For database scanning
type dbContactList struct {
	ID          string
	TeamID      string
	Name        string
	Description sql.NullString
	Type        string
	Filters     ContactFilters
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// ScanContactList scans a contact list from the database
func ScanContactList(scanner interface {
	Scan(dest ...interface{}) error
}) (*ContactList, error) {
	var dbl dbContactList
	if err := scanner.Scan(
		&dbl.ID,
		&dbl.TeamID,
		&dbl.Name,
		&dbl.Description,
		&dbl.Type,
		&dbl.Filters,
		&dbl.CreatedAt,
		&dbl.UpdatedAt,
	); err != nil {
		return nil, err
	}

	l := &ContactList{
		ID:          dbl.ID,
		TeamID:      dbl.TeamID,
		Name:        dbl.Name,
		Description: nullString(dbl.Description),
		Type:        ContactListType(dbl.Type),
		Filters:     dbl.Filters,
		CreatedAt:   dbl.CreatedAt,
		UpdatedAt:   dbl.UpdatedAt,
	}
	l.NormalizeFilters()
	return l, nil
}

// ContactListWithContacts is a list together with the contacts the acting user may see
type ContactListWithContacts struct {
	*ContactList
	Contacts []*Contact `json:"contacts"`
}

// Request/Response types

type CreateContactListRequest struct {
	TeamID      string          `json:"team_id" valid:"required"`
	Name        string          `json:"name"`
	Description *string         `json:"description,omitempty"`
	Type        ContactListType `json:"type"`
	Filters     ContactFilters  `json:"filters,omitempty"`
	ContactIDs  []string        `json:"contact_ids,omitempty"`
}

// Validate turns the request into a list; MANUAL lists drop any filters and
// SMART lists drop any seed contacts.
func (r *CreateContactListRequest) Validate() (list *ContactList, contactIDs []string, err error) {
	if _, err := govalidator.ValidateStruct(r); err != nil {
		return nil, nil, NewValidationError(fmt.Sprintf("invalid create list request: %v", err))
	}
	listType := r.Type
	if listType == "" {
		listType = ContactListTypeManual
	}
	list = &ContactList{
		TeamID:      r.TeamID,
		Name:        strings.TrimSpace(r.Name),
		Description: r.Description,
		Type:        listType,
		Filters:     r.Filters,
	}
	list.NormalizeFilters()
	if err := list.Validate(); err != nil {
		return nil, nil, err
	}
	if list.Type == ContactListTypeManual {
		contactIDs = UniqueStrings(r.ContactIDs)
	}
	return list, contactIDs, nil
}

type GetContactListRequest struct {
	TeamID string `json:"team_id" valid:"required"`
	ID     string `json:"id" valid:"required"`
}

func (r *GetContactListRequest) FromURLParams(queryParams url.Values) error {
	r.TeamID = queryParams.Get("team_id")
	r.ID = queryParams.Get("id")
	if _, err := govalidator.ValidateStruct(r); err != nil {
		return NewValidationError(fmt.Sprintf("invalid get list request: %v", err))
	}
	return nil
}

// UpdateContactListRequest patches a list. Filters is nil when absent.
type UpdateContactListRequest struct {
	TeamID      string           `json:"team_id" valid:"required"`
	ID          string           `json:"id" valid:"required"`
	Name        *string          `json:"name,omitempty"`
	Description *NullableString  `json:"description,omitempty"`
	Type        *ContactListType `json:"type,omitempty"`
	Filters     *ContactFilters  `json:"filters,omitempty"`
}

func (r *UpdateContactListRequest) Validate() error {
	if _, err := govalidator.ValidateStruct(r); err != nil {
		return NewValidationError(fmt.Sprintf("invalid update list request: %v", err))
	}
	if r.Name != nil && strings.TrimSpace(*r.Name) == "" {
		return NewInvariantViolation(MsgListNameRequired)
	}
	if r.Type != nil {
		if err := r.Type.Validate(); err != nil {
			return NewValidationError(err.Error())
		}
	}
	if r.Filters != nil {
		return r.Filters.Validate()
	}
	return nil
}

// Apply writes the patch into the list and re-establishes the filter invariant.
// MANUAL→SMART starts from the given filters (empty by default), SMART→MANUAL
// clears them.
func (r *UpdateContactListRequest) Apply(l *ContactList) {
	if r.Name != nil {
		l.Name = strings.TrimSpace(*r.Name)
	}
	r.Description.applyTo(&l.Description)

	previous := l.Type
	if r.Type != nil {
		l.Type = *r.Type
	}
	switch {
	case r.Filters != nil:
		l.Filters = append(ContactFilters{}, (*r.Filters)...)
	case previous != l.Type:
		l.Filters = nil
	}
	l.NormalizeFilters()
}

type DeleteContactListsRequest struct {
	TeamID string   `json:"team_id" valid:"required"`
	IDs    []string `json:"ids"`
}

func (r *DeleteContactListsRequest) Validate() error {
	if _, err := govalidator.ValidateStruct(r); err != nil {
		return NewValidationError(fmt.Sprintf("invalid delete lists request: %v", err))
	}
	if len(r.IDs) == 0 {
		return NewValidationError("ids must not be empty")
	}
	return nil
}

type ContactListMembersRequest struct {
	TeamID     string   `json:"team_id" valid:"required"`
	ListID     string   `json:"list_id" valid:"required"`
	ContactIDs []string `json:"contact_ids"`
}

func (r *ContactListMembersRequest) Validate() error {
	if _, err := govalidator.ValidateStruct(r); err != nil {
		return NewValidationError(fmt.Sprintf("invalid list members request: %v", err))
	}
	if len(r.ContactIDs) == 0 {
		return NewValidationError("contact_ids must not be empty")
	}
	return nil
}

// ContactListRepository stores lists and MANUAL list membership rows
type ContactListRepository interface {
	// CreateList inserts the list and its seed members in one transaction
	CreateList(ctx context.Context, list *ContactList, contactIDs []string) error
	GetList(ctx context.Context, teamID, id string) (*ContactList, error)
	ListLists(ctx context.Context, teamID string) ([]*ContactList, error)
	UpdateList(ctx context.Context, list *ContactList) error
	// DeleteLists removes the lists and their membership rows, returning how many lists were deleted
	DeleteLists(ctx context.Context, teamID string, ids []string) (int64, error)
	// AddMembers inserts membership rows for contacts of the same team; existing rows are kept.
	// AddMembers and RemoveMembers lock the list row and refuse SMART lists.
	AddMembers(ctx context.Context, teamID, listID string, contactIDs []string) error
	RemoveMembers(ctx context.Context, teamID, listID string, contactIDs []string) error
}

// ContactListService is the Contact List Manager
type ContactListService interface {
	CreateList(ctx context.Context, req *CreateContactListRequest) (*ContactList, error)
	GetListByID(ctx context.Context, teamID, id string) (*ContactListWithContacts, error)
	ListLists(ctx context.Context, teamID string) ([]*ContactList, error)
	UpdateList(ctx context.Context, req *UpdateContactListRequest) (*ContactList, error)
	DeleteLists(ctx context.Context, teamID string, ids []string) error
	AddContactsToList(ctx context.Context, teamID, listID string, contactIDs []string) error
	RemoveContactsFromList(ctx context.Context, teamID, listID string, contactIDs []string) error
	ExportList(ctx context.Context, teamID, id string) (filename string, data []byte, err error)
}
