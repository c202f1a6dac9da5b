package migrations

import (
	"context"
	"fmt"
)

// V2Migration enforces a single default group per team. Duplicates are folded
// into the oldest default group before the partial unique index is created.
type V2Migration struct{}

func (m *V2Migration) Version() int {
	return 2
}

func (m *V2Migration) Description() string {
	return "one default group per team"
}

// duplicateDefaults ranks every default group of a team; rank 1 is kept
const duplicateDefaults = `WITH ranked AS (
	SELECT id,
		ROW_NUMBER() OVER (PARTITION BY team_id ORDER BY created_at, id) AS rn,
		FIRST_VALUE(id) OVER (PARTITION BY team_id ORDER BY created_at, id) AS keep_id
	FROM groups
	WHERE is_default_group
)
`

var v2Statements = []struct {
	name  string
	query string
}{
	{
		name: "move memberships",
		query: duplicateDefaults + `INSERT INTO user_groups (group_id, user_id, created_at)
			SELECT r.keep_id, ug.user_id, ug.created_at
			FROM user_groups ug
			JOIN ranked r ON r.id = ug.group_id
			WHERE r.rn > 1
			ON CONFLICT (group_id, user_id) DO NOTHING`,
	},
	{
		name: "move contacts",
		query: duplicateDefaults + `UPDATE contacts c
			SET group_id = r.keep_id
			FROM ranked r
			WHERE c.group_id = r.id AND r.rn > 1`,
	},
	{
		name: "delete duplicates",
		query: duplicateDefaults + `DELETE FROM groups g
			USING ranked r
			WHERE g.id = r.id AND r.rn > 1`,
	},
	{
		name:  "create index",
		query: `CREATE UNIQUE INDEX IF NOT EXISTS groups_one_default_per_team ON groups (team_id) WHERE is_default_group`,
	},
}

func (m *V2Migration) Up(ctx context.Context, tx DBExecutor) error {
	for _, stmt := range v2Statements {
		if _, err := tx.ExecContext(ctx, stmt.query); err != nil {
			return fmt.Errorf("failed to %s: %w", stmt.name, err)
		}
	}
	return nil
}

func init() {
	schemaMigrations.Register(&V2Migration{})
}
