package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/Pledgebase/pledgebase/internal/domain"
)

type groupRepository struct {
	db *sql.DB
}

// NewGroupRepository creates a new PostgreSQL group repository
func NewGroupRepository(db *sql.DB) domain.GroupRepository {
	return &groupRepository{db: db}
}

func (r *groupRepository) GetGroup(ctx context.Context, teamID, groupID string) (*domain.Group, error) {
	return getGroup(ctx, r.db, teamID, groupID)
}

func (r *groupRepository) ListGroups(ctx context.Context, teamID string) ([]*domain.Group, error) {
	query, args, err := psql.Select(domain.GroupColumns...).
		From("groups").
		Where("team_id = ?", teamID).
		OrderBy("is_default_group DESC", "name ASC", "id ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build select query: %w", err)
	}

	groups, err := queryGroups(ctx, r.db, query, args...)
	if err != nil {
		return nil, err
	}
	if err := attachGroupUsers(ctx, r.db, teamID, groups); err != nil {
		return nil, err
	}
	return groups, nil
}

// GetDefaultGroup returns the default group of the team, or a NotFound error
// when it has not been created yet
func (r *groupRepository) GetDefaultGroup(ctx context.Context, teamID string) (*domain.Group, error) {
	return getDefaultGroup(ctx, r.db, teamID)
}

// ListUserGroups returns the groups of teamID the user is a member of
func (r *groupRepository) ListUserGroups(ctx context.Context, teamID, userID string) ([]*domain.Group, error) {
	query, args, err := psql.Select(qualify("g", domain.GroupColumns)...).
		From("groups g").
		Join("user_groups ug ON ug.group_id = g.id").
		Where("g.team_id = ? AND ug.user_id = ?", teamID, userID).
		OrderBy("g.name ASC", "g.id ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build select query: %w", err)
	}
	return queryGroups(ctx, r.db, query, args...)
}

// WithTeamTransaction runs fn against a store bound to one transaction that
// holds the team's advisory lock. Concurrent callers for the same team are
// serialized until the transaction ends.
func (r *groupRepository) WithTeamTransaction(ctx context.Context, teamID string, fn func(store domain.GroupStore) error) error {
	return withTransaction(ctx, r.db, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `SELECT pg_advisory_xact_lock(hashtext($1))`, teamID); err != nil {
			return fmt.Errorf("failed to lock team %s: %w", teamID, err)
		}
		return fn(&groupStore{tx: tx, teamID: teamID})
	})
}

// groupStore is a domain.GroupStore scoped to one team and one transaction
type groupStore struct {
	tx     *sql.Tx
	teamID string
}

func (s *groupStore) GetDefaultGroup(ctx context.Context) (*domain.Group, error) {
	return getDefaultGroup(ctx, s.tx, s.teamID)
}

func (s *groupStore) GetGroupByName(ctx context.Context, name string) (*domain.Group, error) {
	query, args, err := psql.Select(domain.GroupColumns...).
		From("groups").
		Where("team_id = ? AND name = ?", s.teamID, name).
		OrderBy("created_at ASC", "id ASC").
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build select query: %w", err)
	}

	group, err := domain.ScanGroup(s.tx.QueryRowContext(ctx, query, args...))
	if err == sql.ErrNoRows {
		return nil, domain.NewNotFoundError("group", name)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get group by name: %w", err)
	}
	return group, nil
}

func (s *groupStore) GetGroup(ctx context.Context, groupID string) (*domain.Group, error) {
	return getGroup(ctx, s.tx, s.teamID, groupID)
}

func (s *groupStore) CreateGroup(ctx context.Context, group *domain.Group) error {
	now := time.Now().UTC()
	if group.ID == "" {
		group.ID = uuid.New().String()
	}
	group.TeamID = s.teamID
	group.CreatedAt = now
	group.UpdatedAt = now

	query, args, err := psql.Insert("groups").
		Columns(domain.GroupColumns...).
		Values(
			group.ID,
			group.TeamID,
			group.Name,
			group.Description,
			group.CanAccessAllContacts,
			group.IsDefaultGroup,
			pq.Array(group.Modules.Strings()),
			pq.Array(group.ContactSubmodules.Strings()),
			group.CreatedAt,
			group.UpdatedAt,
		).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build insert query: %w", err)
	}
	if _, err := s.tx.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to create group: %w", err)
	}
	return nil
}

func (s *groupStore) UpdateGroup(ctx context.Context, group *domain.Group) error {
	group.UpdatedAt = time.Now().UTC()

	query, args, err := psql.Update("groups").
		Set("name", group.Name).
		Set("description", group.Description).
		Set("can_access_all_contacts", group.CanAccessAllContacts).
		Set("is_default_group", group.IsDefaultGroup).
		Set("modules", pq.Array(group.Modules.Strings())).
		Set("contact_submodules", pq.Array(group.ContactSubmodules.Strings())).
		Set("updated_at", group.UpdatedAt).
		Where("team_id = ? AND id = ?", s.teamID, group.ID).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build update query: %w", err)
	}

	result, err := s.tx.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to update group: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return domain.NewNotFoundError("group", group.ID)
	}
	return nil
}

// DeleteGroups removes the groups; memberships cascade and contacts of the
// groups become ungrouped
func (s *groupStore) DeleteGroups(ctx context.Context, groupIDs []string) error {
	if len(groupIDs) == 0 {
		return nil
	}
	_, err := s.tx.ExecContext(ctx,
		`DELETE FROM groups WHERE team_id = $1 AND id = ANY($2)`,
		s.teamID, pq.Array(groupIDs),
	)
	if err != nil {
		return fmt.Errorf("failed to delete groups: %w", err)
	}
	return nil
}

func (s *groupStore) ListTeamUserIDs(ctx context.Context) ([]string, error) {
	return queryStrings(ctx, s.tx,
		`SELECT user_id FROM team_members WHERE team_id = $1 ORDER BY user_id`,
		s.teamID,
	)
}

func (s *groupStore) ListUsersInNonDefaultGroups(ctx context.Context) ([]string, error) {
	query := `
		SELECT DISTINCT ug.user_id
		FROM user_groups ug
		JOIN groups g ON g.id = ug.group_id
		WHERE g.team_id = $1 AND NOT g.is_default_group
		ORDER BY ug.user_id
	`
	return queryStrings(ctx, s.tx, query, s.teamID)
}

func (s *groupStore) AddMemberships(ctx context.Context, groupID string, userIDs []string) error {
	if len(userIDs) == 0 {
		return nil
	}
	query := `
		INSERT INTO user_groups (group_id, user_id, created_at)
		SELECT $1, u.user_id, $2
		FROM unnest($3::text[]) AS u(user_id)
		ON CONFLICT (group_id, user_id) DO NOTHING
	`
	if _, err := s.tx.ExecContext(ctx, query, groupID, time.Now().UTC(), pq.Array(userIDs)); err != nil {
		return fmt.Errorf("failed to add group memberships: %w", err)
	}
	return nil
}

func (s *groupStore) RemoveMemberships(ctx context.Context, groupID string, userIDs []string) error {
	if len(userIDs) == 0 {
		return nil
	}
	_, err := s.tx.ExecContext(ctx,
		`DELETE FROM user_groups WHERE group_id = $1 AND user_id = ANY($2)`,
		groupID, pq.Array(userIDs),
	)
	if err != nil {
		return fmt.Errorf("failed to remove group memberships: %w", err)
	}
	return nil
}

func getGroup(ctx context.Context, db execer, teamID, groupID string) (*domain.Group, error) {
	query, args, err := psql.Select(domain.GroupColumns...).
		From("groups").
		Where("team_id = ? AND id = ?", teamID, groupID).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build select query: %w", err)
	}

	group, err := domain.ScanGroup(db.QueryRowContext(ctx, query, args...))
	if err == sql.ErrNoRows {
		return nil, domain.NewNotFoundError("group", groupID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get group: %w", err)
	}

	userIDs, err := queryStrings(ctx, db,
		`SELECT user_id FROM user_groups WHERE group_id = $1 ORDER BY user_id`,
		group.ID,
	)
	if err != nil {
		return nil, err
	}
	group.UserIDs = userIDs
	return group, nil
}

func getDefaultGroup(ctx context.Context, db execer, teamID string) (*domain.Group, error) {
	query, args, err := psql.Select(domain.GroupColumns...).
		From("groups").
		Where("team_id = ? AND is_default_group", teamID).
		OrderBy("created_at ASC", "id ASC").
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build select query: %w", err)
	}

	group, err := domain.ScanGroup(db.QueryRowContext(ctx, query, args...))
	if err == sql.ErrNoRows {
		return nil, domain.NewNotFoundError("default group", teamID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get default group: %w", err)
	}
	return group, nil
}

func queryGroups(ctx context.Context, db execer, query string, args ...interface{}) ([]*domain.Group, error) {
	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list groups: %w", err)
	}
	defer rows.Close()

	groups := make([]*domain.Group, 0)
	for rows.Next() {
		group, err := domain.ScanGroup(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan group: %w", err)
		}
		groups = append(groups, group)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating groups: %w", err)
	}
	return groups, nil
}

// attachGroupUsers fills UserIDs of groups with one query over the team
func attachGroupUsers(ctx context.Context, db execer, teamID string, groups []*domain.Group) error {
	if len(groups) == 0 {
		return nil
	}

	query := `
		SELECT ug.group_id, ug.user_id
		FROM user_groups ug
		JOIN groups g ON g.id = ug.group_id
		WHERE g.team_id = $1
		ORDER BY ug.user_id
	`
	rows, err := db.QueryContext(ctx, query, teamID)
	if err != nil {
		return fmt.Errorf("failed to list group members: %w", err)
	}
	defer rows.Close()

	byID := make(map[string]*domain.Group, len(groups))
	for _, g := range groups {
		g.UserIDs = []string{}
		byID[g.ID] = g
	}
	for rows.Next() {
		var groupID, userID string
		if err := rows.Scan(&groupID, &userID); err != nil {
			return fmt.Errorf("failed to scan group member: %w", err)
		}
		if g, ok := byID[groupID]; ok {
			g.UserIDs = append(g.UserIDs, userID)
		}
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("error iterating group members: %w", err)
	}
	return nil
}

func queryStrings(ctx context.Context, db execer, query string, args ...interface{}) ([]string, error) {
	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query: %w", err)
	}
	defer rows.Close()

	values := make([]string, 0)
	for rows.Next() {
		var v string
		if err := rows.Scan(&v); err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}
		values = append(values, v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}
	return values, nil
}

func qualify(alias string, columns []string) []string {
	out := make([]string, len(columns))
	for i, col := range columns {
		out[i] = alias + "." + col
	}
	return out
}
