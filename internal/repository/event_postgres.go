package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/Pledgebase/pledgebase/internal/domain"
)

type eventRepository struct {
	db *sql.DB
}

// NewEventRepository creates a new PostgreSQL event repository
func NewEventRepository(db *sql.DB) domain.EventRepository {
	return &eventRepository{db: db}
}

func (r *eventRepository) GetEvent(ctx context.Context, teamID, eventID string) (*domain.Event, error) {
	var (
		event    domain.Event
		startsAt sql.NullTime
	)
	err := r.db.QueryRowContext(ctx,
		`SELECT id, team_id, name, starts_at, created_at, updated_at FROM events WHERE team_id = $1 AND id = $2`,
		teamID, eventID,
	).Scan(&event.ID, &event.TeamID, &event.Name, &startsAt, &event.CreatedAt, &event.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, domain.NewNotFoundError("event", eventID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get event: %w", err)
	}
	if startsAt.Valid {
		event.StartsAt = &startsAt.Time
	}

	rows, err := r.db.QueryContext(ctx,
		`SELECT id, event_id, name FROM event_roles WHERE event_id = $1 ORDER BY name, id`,
		eventID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list event roles: %w", err)
	}
	defer rows.Close()

	event.Roles = make([]*domain.EventRole, 0)
	for rows.Next() {
		var role domain.EventRole
		if err := rows.Scan(&role.ID, &role.EventID, &role.Name); err != nil {
			return nil, fmt.Errorf("failed to scan event role: %w", err)
		}
		event.Roles = append(event.Roles, &role)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating event roles: %w", err)
	}
	return &event, nil
}

func (r *eventRepository) GetEventRole(ctx context.Context, teamID, eventRoleID string) (*domain.EventRole, error) {
	var role domain.EventRole
	err := r.db.QueryRowContext(ctx,
		`SELECT er.id, er.event_id, er.name
		FROM event_roles er
		JOIN events e ON e.id = er.event_id
		WHERE e.team_id = $1 AND er.id = $2`,
		teamID, eventRoleID,
	).Scan(&role.ID, &role.EventID, &role.Name)
	if err == sql.ErrNoRows {
		return nil, domain.NewNotFoundError("event role", eventRoleID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get event role: %w", err)
	}
	return &role, nil
}

func (r *eventRepository) AddParticipant(ctx context.Context, participant *domain.EventParticipant) error {
	if participant.CreatedAt.IsZero() {
		participant.CreatedAt = time.Now().UTC()
	}
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO event_participants (event_id, contact_id, event_role_id, created_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (event_id, contact_id, event_role_id) DO NOTHING`,
		participant.EventID, participant.ContactID, participant.EventRoleID, participant.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to add event participant: %w", err)
	}
	return nil
}

func (r *eventRepository) ListParticipants(ctx context.Context, teamID, eventID string, where domain.Predicate) ([]*domain.EventParticipant, error) {
	cond, err := whereContacts(teamID, where)
	if err != nil {
		return nil, err
	}

	columns := append([]string{"ep.event_id", "ep.event_role_id", "er.name", "ep.created_at"}, contactSelectColumns()...)
	query, args, err := psql.Select(columns...).
		From("event_participants ep").
		Join("event_roles er ON er.id = ep.event_role_id").
		Join("contacts c ON c.id = ep.contact_id").
		Where("ep.event_id = ?", eventID).
		Where(cond).
		OrderBy("c.name ASC", "c.id ASC", "er.name ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build participants query: %w", err)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list event participants: %w", err)
	}
	defer rows.Close()

	participants := make([]*domain.EventParticipant, 0)
	for rows.Next() {
		var p domain.EventParticipant
		contact, err := domain.ScanContact(prefixScanner{
			rows:   rows,
			prefix: []interface{}{&p.EventID, &p.EventRoleID, &p.RoleName, &p.CreatedAt},
		})
		if err != nil {
			return nil, fmt.Errorf("failed to scan event participant: %w", err)
		}
		p.ContactID = contact.ID
		p.Contact = contact
		participants = append(participants, &p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating event participants: %w", err)
	}
	return participants, nil
}

// prefixScanner scans leading columns into prefix before handing the rest
// of the row to a Scan helper
type prefixScanner struct {
	rows   *sql.Rows
	prefix []interface{}
}

func (s prefixScanner) Scan(dest ...interface{}) error {
	return s.rows.Scan(append(append([]interface{}{}, s.prefix...), dest...)...)
}
