package domain

import (
	"context"
	"fmt"
	"net/url"
	"sort"
	"strings"
	"time"

	"github.com/asaskevich/govalidator"
	"github.com/lib/pq"
)

//go:generate mockgen -destination mocks/mock_group_repository.go -package mocks github.com/Pledgebase/pledgebase/internal/domain GroupRepository
//go:generate mockgen -destination mocks/mock_group_service.go -package mocks github.com/Pledgebase/pledgebase/internal/domain GroupService

// DefaultGroupName is the name of the group created for every team on first access
const DefaultGroupName = "Default Access"

// Module is a top-level application module a group can be granted
type Module string

const (
	ModuleCRM           Module = "CRM"
	ModuleEvents        Module = "EVENTS"
	ModuleOrganizations Module = "ORGANIZATIONS"
	ModuleFunding       Module = "FUNDING"
	ModuleDonations     Module = "DONATIONS"
	ModuleIntegrations  Module = "INTEGRATIONS"
	ModuleAdmin         Module = "ADMIN"
)

// AllModules lists every recognized module
var AllModules = []Module{
	ModuleCRM,
	ModuleEvents,
	ModuleOrganizations,
	ModuleFunding,
	ModuleDonations,
	ModuleIntegrations,
	ModuleAdmin,
}

func (m Module) Validate() error {
	for _, known := range AllModules {
		if m == known {
			return nil
		}
	}
	return fmt.Errorf("invalid module: %s", m)
}

// ContactSubmodule is a feature flag inside the CRM module
type ContactSubmodule string

const (
	SubmoduleContacts     ContactSubmodule = "CONTACTS"
	SubmoduleLists        ContactSubmodule = "LISTS"
	SubmoduleEvents       ContactSubmodule = "EVENTS"
	SubmoduleEngagements  ContactSubmodule = "ENGAGEMENTS"
	SubmoduleImportExport ContactSubmodule = "IMPORT_EXPORT"
)

// AllContactSubmodules lists every recognized contact submodule
var AllContactSubmodules = []ContactSubmodule{
	SubmoduleContacts,
	SubmoduleLists,
	SubmoduleEvents,
	SubmoduleEngagements,
	SubmoduleImportExport,
}

func (s ContactSubmodule) Validate() error {
	for _, known := range AllContactSubmodules {
		if s == known {
			return nil
		}
	}
	return fmt.Errorf("invalid contact submodule: %s", s)
}

// Modules is a set of modules stored as TEXT[]
type Modules []Module

func (m Modules) Validate() error {
	for _, mod := range m {
		if err := mod.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// Contains reports whether the module is in the set
func (m Modules) Contains(module Module) bool {
	for _, mod := range m {
		if mod == module {
			return true
		}
	}
	return false
}

// Normalized returns the set without duplicates, in AllModules order
func (m Modules) Normalized() Modules {
	out := Modules{}
	for _, known := range AllModules {
		if m.Contains(known) {
			out = append(out, known)
		}
	}
	return out
}

// Strings returns the set as plain strings for TEXT[] columns
func (m Modules) Strings() []string {
	out := make([]string, len(m))
	for i, mod := range m {
		out[i] = string(mod)
	}
	return out
}

// ContactSubmodules is a set of submodules stored as TEXT[]
type ContactSubmodules []ContactSubmodule

func (s ContactSubmodules) Validate() error {
	for _, sub := range s {
		if err := sub.Validate(); err != nil {
			return err
		}
	}
	return nil
}

func (s ContactSubmodules) Contains(sub ContactSubmodule) bool {
	for _, x := range s {
		if x == sub {
			return true
		}
	}
	return false
}

func (s ContactSubmodules) Strings() []string {
	out := make([]string, len(s))
	for i, sub := range s {
		out[i] = string(sub)
	}
	return out
}

// Group is the access-control and permission unit of a team
type Group struct {
	ID                   string            `json:"id"`
	TeamID               string            `json:"team_id"`
	Name                 string            `json:"name"`
	Description          *string           `json:"description,omitempty"`
	CanAccessAllContacts bool              `json:"can_access_all_contacts"`
	IsDefaultGroup       bool              `json:"is_default_group"`
	Modules              Modules           `json:"modules"`
	ContactSubmodules    ContactSubmodules `json:"contact_submodules"`
	CreatedAt            time.Time         `json:"created_at"`
	UpdatedAt            time.Time         `json:"updated_at"`

	// joined server-side
	UserIDs []string `json:"user_ids,omitempty"`
}

// Validate performs validation on the group fields
func (g *Group) Validate() error {
	if g.TeamID == "" {
		return fmt.Errorf("team_id is required")
	}
	if strings.TrimSpace(g.Name) == "" {
		return fmt.Errorf("name is required")
	}
	if len(g.Name) > 255 {
		return fmt.Errorf("name length must be between 1 and 255")
	}
	if err := g.Modules.Validate(); err != nil {
		return err
	}
	return g.ContactSubmodules.Validate()
}

// EnforceDefaultInvariants corrects a default group in place and reports
// whether anything changed
func (g *Group) EnforceDefaultInvariants() bool {
	changed := false
	if !g.IsDefaultGroup {
		g.IsDefaultGroup = true
		changed = true
	}
	if !g.CanAccessAllContacts {
		g.CanAccessAllContacts = true
		changed = true
	}
	if len(g.Modules) == 0 {
		g.Modules = append(Modules{}, AllModules...)
		changed = true
	}
	return changed
}

// NewDefaultGroup builds the default group of a team
func NewDefaultGroup(id, teamID string, now time.Time) *Group {
	return &Group{
		ID:                   id,
		TeamID:               teamID,
		Name:                 DefaultGroupName,
		CanAccessAllContacts: true,
		IsDefaultGroup:       true,
		Modules:              append(Modules{}, AllModules...),
		ContactSubmodules:    append(ContactSubmodules{}, AllContactSubmodules...),
		CreatedAt:            now,
		UpdatedAt:            now,
	}
}

// GroupColumns lists the columns read by ScanGroup, in order
var GroupColumns = []string{
	"id", "team_id", "name", "description", "can_access_all_contacts",
	"is_default_group", "modules", "contact_submodules", "created_at", "updated_at",
}

// ScanGroup scans a group from the database
func ScanGroup(scanner interface {
	Scan(dest ...interface{}) error
}) (*Group, error) {
	var (
		g           Group
		description *string
		modules     pq.StringArray
		submodules  pq.StringArray
	)
	if err := scanner.Scan(
		&g.ID,
		&g.TeamID,
		&g.Name,
		&description,
		&g.CanAccessAllContacts,
		&g.IsDefaultGroup,
		&modules,
		&submodules,
		&g.CreatedAt,
		&g.UpdatedAt,
	); err != nil {
		return nil, err
	}
	g.Description = description
	g.Modules = Modules{}
	for _, m := range modules {
		g.Modules = append(g.Modules, Module(m))
	}
	g.ContactSubmodules = ContactSubmodules{}
	for _, s := range submodules {
		g.ContactSubmodules = append(g.ContactSubmodules, ContactSubmodule(s))
	}
	return &g, nil
}

// UserPermissions is the union of module grants over a user's groups
type UserPermissions struct {
	TeamID               string            `json:"team_id"`
	UserID               string            `json:"user_id"`
	Modules              Modules           `json:"modules"`
	ContactSubmodules    ContactSubmodules `json:"contact_submodules"`
	CanAccessAllContacts bool              `json:"can_access_all_contacts"`
}

// MergePermissions unions the grants of groups, restricted to the modules the
// team has enabled. ADMIN is available regardless of team enablement.
func MergePermissions(teamID, userID string, teamModules Modules, groups []*Group) *UserPermissions {
	perms := &UserPermissions{
		TeamID:            teamID,
		UserID:            userID,
		Modules:           Modules{},
		ContactSubmodules: ContactSubmodules{},
	}
	granted := Modules{}
	subs := map[ContactSubmodule]bool{}
	for _, g := range groups {
		granted = append(granted, g.Modules...)
		for _, s := range g.ContactSubmodules {
			subs[s] = true
		}
		if g.CanAccessAllContacts {
			perms.CanAccessAllContacts = true
		}
	}
	for _, m := range granted.Normalized() {
		if m == ModuleAdmin || teamModules.Contains(m) {
			perms.Modules = append(perms.Modules, m)
		}
	}
	for _, s := range AllContactSubmodules {
		if subs[s] {
			perms.ContactSubmodules = append(perms.ContactSubmodules, s)
		}
	}
	return perms
}

// Request types

type CreateGroupRequest struct {
	TeamID               string            `json:"team_id" valid:"required"`
	Name                 string            `json:"name" valid:"required,stringlength(1|255)"`
	Description          *string           `json:"description,omitempty"`
	CanAccessAllContacts bool              `json:"can_access_all_contacts"`
	Modules              Modules           `json:"modules"`
	ContactSubmodules    ContactSubmodules `json:"contact_submodules"`
	UserIDs              []string          `json:"user_ids,omitempty"`
}

func (r *CreateGroupRequest) Validate() (*Group, error) {
	if _, err := govalidator.ValidateStruct(r); err != nil {
		return nil, NewValidationError(fmt.Sprintf("invalid create group request: %v", err))
	}
	g := &Group{
		TeamID:               r.TeamID,
		Name:                 strings.TrimSpace(r.Name),
		Description:          r.Description,
		CanAccessAllContacts: r.CanAccessAllContacts,
		Modules:              r.Modules.Normalized(),
		ContactSubmodules:    r.ContactSubmodules,
	}
	if g.ContactSubmodules == nil {
		g.ContactSubmodules = ContactSubmodules{}
	}
	if err := r.Modules.Validate(); err != nil {
		return nil, NewValidationError(err.Error())
	}
	if err := g.Validate(); err != nil {
		return nil, NewValidationError(err.Error())
	}
	return g, nil
}

type UpdateGroupRequest struct {
	TeamID               string             `json:"team_id" valid:"required"`
	ID                   string             `json:"id" valid:"required"`
	Name                 *string            `json:"name,omitempty"`
	Description          *NullableString    `json:"description,omitempty"`
	CanAccessAllContacts *bool              `json:"can_access_all_contacts,omitempty"`
	Modules              *Modules           `json:"modules,omitempty"`
	ContactSubmodules    *ContactSubmodules `json:"contact_submodules,omitempty"`
}

func (r *UpdateGroupRequest) Validate() error {
	if _, err := govalidator.ValidateStruct(r); err != nil {
		return NewValidationError(fmt.Sprintf("invalid update group request: %v", err))
	}
	if r.Name != nil && strings.TrimSpace(*r.Name) == "" {
		return NewValidationError("name must not be empty")
	}
	if r.Modules != nil {
		if err := r.Modules.Validate(); err != nil {
			return NewValidationError(err.Error())
		}
	}
	if r.ContactSubmodules != nil {
		if err := r.ContactSubmodules.Validate(); err != nil {
			return NewValidationError(err.Error())
		}
	}
	return nil
}

// Apply writes the patch into the group
func (r *UpdateGroupRequest) Apply(g *Group) {
	if r.Name != nil {
		g.Name = strings.TrimSpace(*r.Name)
	}
	r.Description.applyTo(&g.Description)
	if r.CanAccessAllContacts != nil {
		g.CanAccessAllContacts = *r.CanAccessAllContacts
	}
	if r.Modules != nil {
		g.Modules = r.Modules.Normalized()
	}
	if r.ContactSubmodules != nil {
		g.ContactSubmodules = append(ContactSubmodules{}, (*r.ContactSubmodules)...)
	}
}

type DeleteGroupsRequest struct {
	TeamID string   `json:"team_id" valid:"required"`
	IDs    []string `json:"ids"`
}

func (r *DeleteGroupsRequest) Validate() error {
	if _, err := govalidator.ValidateStruct(r); err != nil {
		return NewValidationError(fmt.Sprintf("invalid delete groups request: %v", err))
	}
	if len(r.IDs) == 0 {
		return NewValidationError("ids must not be empty")
	}
	return nil
}

type GroupUsersRequest struct {
	TeamID  string   `json:"team_id" valid:"required"`
	GroupID string   `json:"group_id" valid:"required"`
	UserIDs []string `json:"user_ids"`
}

func (r *GroupUsersRequest) Validate() error {
	if _, err := govalidator.ValidateStruct(r); err != nil {
		return NewValidationError(fmt.Sprintf("invalid group users request: %v", err))
	}
	if len(r.UserIDs) == 0 {
		return NewValidationError("user_ids must not be empty")
	}
	return nil
}

type ListGroupsRequest struct {
	TeamID string `json:"team_id" valid:"required"`
}

func (r *ListGroupsRequest) FromURLParams(queryParams url.Values) error {
	r.TeamID = queryParams.Get("team_id")
	if _, err := govalidator.ValidateStruct(r); err != nil {
		return NewValidationError(fmt.Sprintf("invalid list groups request: %v", err))
	}
	return nil
}

// UniqueStrings returns the distinct non-empty values, sorted
func UniqueStrings(values []string) []string {
	seen := make(map[string]bool, len(values))
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v == "" || seen[v] {
			continue
		}
		seen[v] = true
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}

// GroupStore is the set of group operations available inside a team-locked
// transaction. All operations are scoped to the team the store was opened for.
type GroupStore interface {
	GetDefaultGroup(ctx context.Context) (*Group, error)
	GetGroupByName(ctx context.Context, name string) (*Group, error)
	GetGroup(ctx context.Context, groupID string) (*Group, error)
	CreateGroup(ctx context.Context, group *Group) error
	UpdateGroup(ctx context.Context, group *Group) error
	DeleteGroups(ctx context.Context, groupIDs []string) error
	// ListTeamUserIDs returns the users that are members of the team
	ListTeamUserIDs(ctx context.Context) ([]string, error)
	// ListUsersInNonDefaultGroups returns users with a membership in any group except the default one
	ListUsersInNonDefaultGroups(ctx context.Context) ([]string, error)
	AddMemberships(ctx context.Context, groupID string, userIDs []string) error
	RemoveMemberships(ctx context.Context, groupID string, userIDs []string) error
}

// GroupRepository gives read access to groups and opens team-locked write transactions
type GroupRepository interface {
	GetGroup(ctx context.Context, teamID, groupID string) (*Group, error)
	ListGroups(ctx context.Context, teamID string) ([]*Group, error)
	// GetDefaultGroup returns ErrNotFound when the team was never reconciled
	GetDefaultGroup(ctx context.Context, teamID string) (*Group, error)
	// ListUserGroups returns the groups of the team the user belongs to
	ListUserGroups(ctx context.Context, teamID, userID string) ([]*Group, error)
	// WithTeamTransaction runs fn in a transaction holding the team's group lock.
	// Any error returned by fn rolls the transaction back.
	WithTeamTransaction(ctx context.Context, teamID string, fn func(store GroupStore) error) error
}

// GroupService owns group lifecycle and the default group invariants
type GroupService interface {
	EnsureDefaultGroup(ctx context.Context, teamID string) (*Group, error)
	ListGroups(ctx context.Context, teamID string) ([]*Group, error)
	CreateGroup(ctx context.Context, req *CreateGroupRequest) (*Group, error)
	UpdateGroup(ctx context.Context, req *UpdateGroupRequest) (*Group, error)
	DeleteGroups(ctx context.Context, teamID string, ids []string) error
	AddUsersToGroup(ctx context.Context, teamID, groupID string, userIDs []string) error
	RemoveUsersFromGroup(ctx context.Context, teamID, groupID string, userIDs []string) error
	GetUserPermissions(ctx context.Context, teamID string) (*UserPermissions, error)
}
