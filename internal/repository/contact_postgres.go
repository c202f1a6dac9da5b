package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/Pledgebase/pledgebase/internal/domain"
)

const contactsTeamEmailIndex = "contacts_team_email"

type contactRepository struct {
	db *sql.DB
}

// NewContactRepository creates a new PostgreSQL contact repository
func NewContactRepository(db *sql.DB) domain.ContactRepository {
	return &contactRepository{db: db}
}

func (r *contactRepository) CreateContact(ctx context.Context, contact *domain.Contact) error {
	now := time.Now().UTC()
	if contact.ID == "" {
		contact.ID = uuid.New().String()
	}
	contact.CreatedAt = now
	contact.UpdatedAt = now

	query, args, err := psql.Insert("contacts").
		Columns(domain.ContactColumns...).
		Values(
			contact.ID,
			contact.TeamID,
			contact.GroupID,
			contact.Name,
			contact.Email,
			contact.Phone,
			contact.Address,
			contact.City,
			contact.PostalCode,
			contact.State,
			contact.Country,
			contact.Pronouns,
			contact.Website,
			contact.Signal,
			contact.Attributes,
			contact.CreatedAt,
			contact.UpdatedAt,
		).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build insert query: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		if isUniqueViolation(err, contactsTeamEmailIndex) {
			return domain.NewInvariantViolation(domain.MsgContactEmailTaken)
		}
		return fmt.Errorf("failed to create contact: %w", err)
	}
	return nil
}

// UpdateContact stores the contact and its change log rows in one transaction
func (r *contactRepository) UpdateContact(ctx context.Context, contact *domain.Contact, changes []*domain.ContactChange) error {
	contact.UpdatedAt = time.Now().UTC()

	return withTransaction(ctx, r.db, func(tx *sql.Tx) error {
		query, args, err := psql.Update("contacts").
			SetMap(map[string]interface{}{
				"group_id":    contact.GroupID,
				"name":        contact.Name,
				"email":       contact.Email,
				"phone":       contact.Phone,
				"address":     contact.Address,
				"city":        contact.City,
				"postal_code": contact.PostalCode,
				"state":       contact.State,
				"country":     contact.Country,
				"pronouns":    contact.Pronouns,
				"website":     contact.Website,
				"signal":      contact.Signal,
				"attributes":  contact.Attributes,
				"updated_at":  contact.UpdatedAt,
			}).
			Where("id = ? AND team_id = ?", contact.ID, contact.TeamID).
			ToSql()
		if err != nil {
			return fmt.Errorf("failed to build update query: %w", err)
		}

		result, err := tx.ExecContext(ctx, query, args...)
		if err != nil {
			if isUniqueViolation(err, contactsTeamEmailIndex) {
				return domain.NewInvariantViolation(domain.MsgContactEmailTaken)
			}
			return fmt.Errorf("failed to update contact: %w", err)
		}
		rows, err := result.RowsAffected()
		if err != nil {
			return fmt.Errorf("failed to get affected rows: %w", err)
		}
		if rows == 0 {
			return domain.NewNotFoundError("contact", contact.ID)
		}

		return insertContactChanges(ctx, tx, changes, contact.UpdatedAt)
	})
}

func insertContactChanges(ctx context.Context, tx *sql.Tx, changes []*domain.ContactChange, at time.Time) error {
	if len(changes) == 0 {
		return nil
	}

	insert := psql.Insert("contact_change_logs").
		Columns("id", "team_id", "contact_id", "user_id", "field", "old_value", "new_value", "created_at")
	for _, change := range changes {
		if change.ID == "" {
			change.ID = uuid.New().String()
		}
		change.CreatedAt = at
		insert = insert.Values(
			change.ID,
			change.TeamID,
			change.ContactID,
			change.UserID,
			change.Field,
			change.OldValue,
			change.NewValue,
			change.CreatedAt,
		)
	}

	query, args, err := insert.ToSql()
	if err != nil {
		return fmt.Errorf("failed to build change log query: %w", err)
	}
	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to insert contact changes: %w", err)
	}
	return nil
}

// DeleteContact removes the contact; list memberships, event participation and
// change logs cascade
func (r *contactRepository) DeleteContact(ctx context.Context, teamID, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM contacts WHERE team_id = $1 AND id = $2`, teamID, id)
	if err != nil {
		return fmt.Errorf("failed to delete contact: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return domain.NewNotFoundError("contact", id)
	}
	return nil
}

// SearchContacts returns the team contacts matching where, ordered by name then id
func (r *contactRepository) SearchContacts(ctx context.Context, teamID string, where domain.Predicate) ([]*domain.Contact, error) {
	cond, err := whereContacts(teamID, where)
	if err != nil {
		return nil, err
	}

	query, args, err := psql.Select(contactSelectColumns()...).
		From("contacts c").
		Where(cond).
		OrderBy("c.name ASC", "c.id ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build search query: %w", err)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to search contacts: %w", err)
	}
	defer rows.Close()

	contacts := make([]*domain.Contact, 0)
	for rows.Next() {
		contact, err := domain.ScanContact(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan contact: %w", err)
		}
		contacts = append(contacts, contact)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating contacts: %w", err)
	}
	return contacts, nil
}

func (r *contactRepository) CountContacts(ctx context.Context, teamID string, where domain.Predicate) (int, error) {
	cond, err := whereContacts(teamID, where)
	if err != nil {
		return 0, err
	}

	query, args, err := psql.Select("COUNT(*)").From("contacts c").Where(cond).ToSql()
	if err != nil {
		return 0, fmt.Errorf("failed to build count query: %w", err)
	}

	var count int
	if err := r.db.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count contacts: %w", err)
	}
	return count, nil
}

// ListChanges returns the change log of a contact, newest first
func (r *contactRepository) ListChanges(ctx context.Context, teamID, contactID string) ([]*domain.ContactChange, error) {
	query := `
		SELECT id, team_id, contact_id, user_id, field, old_value, new_value, created_at
		FROM contact_change_logs
		WHERE team_id = $1 AND contact_id = $2
		ORDER BY created_at DESC, id ASC
	`
	rows, err := r.db.QueryContext(ctx, query, teamID, contactID)
	if err != nil {
		return nil, fmt.Errorf("failed to list contact changes: %w", err)
	}
	defer rows.Close()

	changes := make([]*domain.ContactChange, 0)
	for rows.Next() {
		var (
			change   domain.ContactChange
			userID   sql.NullString
			oldValue sql.NullString
			newValue sql.NullString
		)
		if err := rows.Scan(
			&change.ID,
			&change.TeamID,
			&change.ContactID,
			&userID,
			&change.Field,
			&oldValue,
			&newValue,
			&change.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan contact change: %w", err)
		}
		change.UserID = nullableString(userID)
		change.OldValue = nullableString(oldValue)
		change.NewValue = nullableString(newValue)
		changes = append(changes, &change)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating contact changes: %w", err)
	}
	return changes, nil
}

func nullableString(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	s := ns.String
	return &s
}
