package schema

// TableDefinitions contains the statements that create the database tables.
// Statements are idempotent and run on every start.
var TableDefinitions = []string{
	`CREATE TABLE IF NOT EXISTS settings (
		key VARCHAR(255) PRIMARY KEY,
		value TEXT NOT NULL,
		created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE TABLE IF NOT EXISTS teams (
		id VARCHAR(36) PRIMARY KEY,
		name VARCHAR(255) NOT NULL,
		modules TEXT[] NOT NULL DEFAULT '{}',
		created_at TIMESTAMP NOT NULL,
		updated_at TIMESTAMP NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS team_members (
		team_id VARCHAR(36) NOT NULL REFERENCES teams(id) ON DELETE CASCADE,
		user_id VARCHAR(36) NOT NULL,
		created_at TIMESTAMP NOT NULL,
		PRIMARY KEY (team_id, user_id)
	)`,
	`CREATE TABLE IF NOT EXISTS groups (
		id VARCHAR(36) PRIMARY KEY,
		team_id VARCHAR(36) NOT NULL REFERENCES teams(id) ON DELETE CASCADE,
		name VARCHAR(255) NOT NULL,
		description TEXT,
		can_access_all_contacts BOOLEAN NOT NULL DEFAULT FALSE,
		is_default_group BOOLEAN NOT NULL DEFAULT FALSE,
		modules TEXT[] NOT NULL DEFAULT '{}',
		contact_submodules TEXT[] NOT NULL DEFAULT '{}',
		created_at TIMESTAMP NOT NULL,
		updated_at TIMESTAMP NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS user_groups (
		group_id VARCHAR(36) NOT NULL REFERENCES groups(id) ON DELETE CASCADE,
		user_id VARCHAR(36) NOT NULL,
		created_at TIMESTAMP NOT NULL,
		PRIMARY KEY (group_id, user_id)
	)`,
	`CREATE TABLE IF NOT EXISTS contacts (
		id VARCHAR(36) PRIMARY KEY,
		team_id VARCHAR(36) NOT NULL REFERENCES teams(id) ON DELETE CASCADE,
		group_id VARCHAR(36) REFERENCES groups(id) ON DELETE SET NULL,
		name VARCHAR(255) NOT NULL,
		email VARCHAR(255),
		phone VARCHAR(64),
		address TEXT,
		city VARCHAR(255),
		postal_code VARCHAR(32),
		state VARCHAR(255),
		country VARCHAR(2),
		pronouns VARCHAR(64),
		website TEXT,
		signal VARCHAR(64),
		attributes JSONB NOT NULL DEFAULT '[]'::jsonb,
		created_at TIMESTAMP NOT NULL,
		updated_at TIMESTAMP NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS contact_change_logs (
		id VARCHAR(36) PRIMARY KEY,
		team_id VARCHAR(36) NOT NULL,
		contact_id VARCHAR(36) NOT NULL REFERENCES contacts(id) ON DELETE CASCADE,
		user_id VARCHAR(36),
		field VARCHAR(64) NOT NULL,
		old_value TEXT,
		new_value TEXT,
		created_at TIMESTAMP NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS contact_lists (
		id VARCHAR(36) PRIMARY KEY,
		team_id VARCHAR(36) NOT NULL REFERENCES teams(id) ON DELETE CASCADE,
		name VARCHAR(255) NOT NULL,
		description TEXT,
		type VARCHAR(10) NOT NULL,
		filters JSONB,
		created_at TIMESTAMP NOT NULL,
		updated_at TIMESTAMP NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS contact_list_members (
		list_id VARCHAR(36) NOT NULL REFERENCES contact_lists(id) ON DELETE CASCADE,
		contact_id VARCHAR(36) NOT NULL REFERENCES contacts(id) ON DELETE CASCADE,
		created_at TIMESTAMP NOT NULL,
		PRIMARY KEY (list_id, contact_id)
	)`,
	`CREATE TABLE IF NOT EXISTS events (
		id VARCHAR(36) PRIMARY KEY,
		team_id VARCHAR(36) NOT NULL REFERENCES teams(id) ON DELETE CASCADE,
		name VARCHAR(255) NOT NULL,
		starts_at TIMESTAMP,
		created_at TIMESTAMP NOT NULL,
		updated_at TIMESTAMP NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS event_roles (
		id VARCHAR(36) PRIMARY KEY,
		event_id VARCHAR(36) NOT NULL REFERENCES events(id) ON DELETE CASCADE,
		name VARCHAR(255) NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS event_participants (
		event_id VARCHAR(36) NOT NULL REFERENCES events(id) ON DELETE CASCADE,
		contact_id VARCHAR(36) NOT NULL REFERENCES contacts(id) ON DELETE CASCADE,
		event_role_id VARCHAR(36) NOT NULL REFERENCES event_roles(id) ON DELETE CASCADE,
		created_at TIMESTAMP NOT NULL,
		PRIMARY KEY (event_id, contact_id, event_role_id)
	)`,
	`CREATE TABLE IF NOT EXISTS postal_code_centroids (
		country_code VARCHAR(2) NOT NULL,
		postal_code VARCHAR(32) NOT NULL,
		latitude DOUBLE PRECISION NOT NULL,
		longitude DOUBLE PRECISION NOT NULL,
		PRIMARY KEY (country_code, postal_code)
	)`,
	`CREATE INDEX IF NOT EXISTS idx_groups_team_id ON groups (team_id)`,
	`CREATE INDEX IF NOT EXISTS idx_user_groups_user_id ON user_groups (user_id)`,
	`CREATE INDEX IF NOT EXISTS idx_contacts_team_id ON contacts (team_id)`,
	`CREATE INDEX IF NOT EXISTS idx_contacts_group_id ON contacts (group_id)`,
	`CREATE INDEX IF NOT EXISTS idx_contacts_postal ON contacts (country, postal_code)`,
	`CREATE UNIQUE INDEX IF NOT EXISTS contacts_team_email ON contacts (team_id, lower(email)) WHERE email IS NOT NULL`,
	`CREATE INDEX IF NOT EXISTS idx_contact_change_logs_contact ON contact_change_logs (contact_id, created_at)`,
	`CREATE INDEX IF NOT EXISTS idx_contact_lists_team_id ON contact_lists (team_id)`,
	`CREATE INDEX IF NOT EXISTS idx_contact_list_members_contact ON contact_list_members (contact_id)`,
	`CREATE INDEX IF NOT EXISTS idx_event_participants_role ON event_participants (event_role_id)`,
	`CREATE INDEX IF NOT EXISTS idx_postal_code_centroids_lat_lng ON postal_code_centroids (latitude, longitude)`,
}

// TableNames returns a list of all table names in creation order
var TableNames = []string{
	"settings",
	"teams",
	"team_members",
	"groups",
	"user_groups",
	"contacts",
	"contact_change_logs",
	"contact_lists",
	"contact_list_members",
	"events",
	"event_roles",
	"event_participants",
	"postal_code_centroids",
}
