package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/lib/pq"

	"github.com/Pledgebase/pledgebase/internal/domain"
)

type teamRepository struct {
	db *sql.DB
}

// NewTeamRepository creates a new PostgreSQL team repository
func NewTeamRepository(db *sql.DB) domain.TeamRepository {
	return &teamRepository{db: db}
}

func (r *teamRepository) GetTeam(ctx context.Context, teamID string) (*domain.Team, error) {
	var (
		team    domain.Team
		modules pq.StringArray
	)
	err := r.db.QueryRowContext(ctx,
		`SELECT id, name, modules, created_at, updated_at FROM teams WHERE id = $1`,
		teamID,
	).Scan(&team.ID, &team.Name, &modules, &team.CreatedAt, &team.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, domain.NewNotFoundError("team", teamID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get team: %w", err)
	}

	team.Modules = domain.Modules{}
	for _, m := range modules {
		team.Modules = append(team.Modules, domain.Module(m))
	}
	return &team, nil
}

func (r *teamRepository) IsMember(ctx context.Context, teamID, userID string) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM team_members WHERE team_id = $1 AND user_id = $2)`,
		teamID, userID,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check team membership: %w", err)
	}
	return exists, nil
}

func (r *teamRepository) AddMember(ctx context.Context, teamID, userID string) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO team_members (team_id, user_id, created_at) VALUES ($1, $2, $3)
		ON CONFLICT (team_id, user_id) DO NOTHING`,
		teamID, userID, time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("failed to add team member: %w", err)
	}
	return nil
}

func (r *teamRepository) RemoveMember(ctx context.Context, teamID, userID string) error {
	return withTransaction(ctx, r.db, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx,
			`DELETE FROM user_groups ug USING groups g
			WHERE g.id = ug.group_id AND g.team_id = $1 AND ug.user_id = $2`,
			teamID, userID,
		)
		if err != nil {
			return fmt.Errorf("failed to remove group memberships: %w", err)
		}

		result, err := tx.ExecContext(ctx,
			`DELETE FROM team_members WHERE team_id = $1 AND user_id = $2`,
			teamID, userID,
		)
		if err != nil {
			return fmt.Errorf("failed to remove team member: %w", err)
		}
		rows, err := result.RowsAffected()
		if err != nil {
			return fmt.Errorf("failed to get affected rows: %w", err)
		}
		if rows == 0 {
			return domain.NewNotFoundError("team member", userID)
		}
		return nil
	})
}
