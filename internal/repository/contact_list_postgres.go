package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/Pledgebase/pledgebase/internal/domain"
)

type contactListRepository struct {
	db *sql.DB
}

// NewContactListRepository creates a new PostgreSQL contact list repository
func NewContactListRepository(db *sql.DB) domain.ContactListRepository {
	return &contactListRepository{db: db}
}

// CreateList stores the list and its seed memberships in one transaction
func (r *contactListRepository) CreateList(ctx context.Context, list *domain.ContactList, contactIDs []string) error {
	now := time.Now().UTC()
	if list.ID == "" {
		list.ID = uuid.New().String()
	}
	list.CreatedAt = now
	list.UpdatedAt = now

	return withTransaction(ctx, r.db, func(tx *sql.Tx) error {
		query, args, err := psql.Insert("contact_lists").
			Columns(domain.ContactListColumns...).
			Values(
				list.ID,
				list.TeamID,
				list.Name,
				list.Description,
				string(list.Type),
				list.Filters,
				list.CreatedAt,
				list.UpdatedAt,
			).
			ToSql()
		if err != nil {
			return fmt.Errorf("failed to build insert query: %w", err)
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("failed to create contact list: %w", err)
		}

		return insertMembers(ctx, tx, list.TeamID, list.ID, contactIDs, now)
	})
}

// insertMembers adds memberships for the contacts of teamID among contactIDs.
// Existing memberships and contacts of other teams are skipped.
func insertMembers(ctx context.Context, db execer, teamID, listID string, contactIDs []string, at time.Time) error {
	if len(contactIDs) == 0 {
		return nil
	}

	query := `
		INSERT INTO contact_list_members (list_id, contact_id, created_at)
		SELECT $1, c.id, $2
		FROM contacts c
		WHERE c.team_id = $3 AND c.id = ANY($4)
		ON CONFLICT (list_id, contact_id) DO NOTHING
	`
	if _, err := db.ExecContext(ctx, query, listID, at, teamID, pq.Array(contactIDs)); err != nil {
		return fmt.Errorf("failed to add list members: %w", err)
	}
	return nil
}

func (r *contactListRepository) GetList(ctx context.Context, teamID, id string) (*domain.ContactList, error) {
	query, args, err := psql.Select(domain.ContactListColumns...).
		From("contact_lists").
		Where("team_id = ? AND id = ?", teamID, id).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build select query: %w", err)
	}

	list, err := domain.ScanContactList(r.db.QueryRowContext(ctx, query, args...))
	if err == sql.ErrNoRows {
		return nil, domain.NewNotFoundError("contact list", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get contact list: %w", err)
	}
	return list, nil
}

func (r *contactListRepository) ListLists(ctx context.Context, teamID string) ([]*domain.ContactList, error) {
	query, args, err := psql.Select(domain.ContactListColumns...).
		From("contact_lists").
		Where("team_id = ?", teamID).
		OrderBy("name ASC", "id ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build select query: %w", err)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list contact lists: %w", err)
	}
	defer rows.Close()

	lists := make([]*domain.ContactList, 0)
	for rows.Next() {
		list, err := domain.ScanContactList(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan contact list: %w", err)
		}
		lists = append(lists, list)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating contact lists: %w", err)
	}
	return lists, nil
}

func (r *contactListRepository) UpdateList(ctx context.Context, list *domain.ContactList) error {
	list.UpdatedAt = time.Now().UTC()

	query, args, err := psql.Update("contact_lists").
		Set("name", list.Name).
		Set("description", list.Description).
		Set("type", string(list.Type)).
		Set("filters", list.Filters).
		Set("updated_at", list.UpdatedAt).
		Where("team_id = ? AND id = ?", list.TeamID, list.ID).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build update query: %w", err)
	}

	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to update contact list: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return domain.NewNotFoundError("contact list", list.ID)
	}
	return nil
}

// DeleteLists removes the lists of teamID among ids and returns how many were
// deleted. Memberships cascade.
func (r *contactListRepository) DeleteLists(ctx context.Context, teamID string, ids []string) (int64, error) {
	result, err := r.db.ExecContext(ctx,
		`DELETE FROM contact_lists WHERE team_id = $1 AND id = ANY($2)`,
		teamID, pq.Array(ids),
	)
	if err != nil {
		return 0, fmt.Errorf("failed to delete contact lists: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get affected rows: %w", err)
	}
	return rows, nil
}

func (r *contactListRepository) AddMembers(ctx context.Context, teamID, listID string, contactIDs []string) error {
	if len(contactIDs) == 0 {
		return nil
	}
	return withTransaction(ctx, r.db, func(tx *sql.Tx) error {
		if err := lockManualList(ctx, tx, teamID, listID); err != nil {
			return err
		}
		return insertMembers(ctx, tx, teamID, listID, contactIDs, time.Now().UTC())
	})
}

func (r *contactListRepository) RemoveMembers(ctx context.Context, teamID, listID string, contactIDs []string) error {
	if len(contactIDs) == 0 {
		return nil
	}
	return withTransaction(ctx, r.db, func(tx *sql.Tx) error {
		if err := lockManualList(ctx, tx, teamID, listID); err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx,
			`DELETE FROM contact_list_members WHERE list_id = $1 AND contact_id = ANY($2)`,
			listID, pq.Array(contactIDs),
		); err != nil {
			return fmt.Errorf("failed to remove list members: %w", err)
		}
		return nil
	})
}

// lockManualList holds the list row until tx ends so a concurrent type change
// cannot interleave with a membership write. SMART lists are refused.
func lockManualList(ctx context.Context, tx *sql.Tx, teamID, listID string) error {
	var listType string
	err := tx.QueryRowContext(ctx,
		`SELECT type FROM contact_lists WHERE team_id = $1 AND id = $2 FOR UPDATE`,
		teamID, listID,
	).Scan(&listType)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.NewNotFoundError("contact list", listID)
	}
	if err != nil {
		return fmt.Errorf("failed to lock contact list: %w", err)
	}
	if domain.ContactListType(listType) != domain.ContactListTypeManual {
		return domain.NewInvariantViolation(domain.MsgSmartListContactMutation)
	}
	return nil
}
