package migrations

import (
	"context"
	"database/sql"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/Pledgebase/pledgebase/config"
)

// BaselineVersion is the schema created by database.InitializeDatabase before
// any migration has run
const BaselineVersion = 1

// DBExecutor is satisfied by *sql.DB and *sql.Tx
type DBExecutor interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
}

// Migration moves the schema from Version-1 to Version. Up runs inside the
// transaction opened by the Manager.
type Migration interface {
	Version() int
	Description() string
	Up(ctx context.Context, tx DBExecutor) error
}

// Registry is an ordered set of migrations keyed by version
type Registry struct {
	mu         sync.RWMutex
	migrations map[int]Migration
}

func NewRegistry(migrations ...Migration) *Registry {
	r := &Registry{migrations: make(map[int]Migration)}
	for _, m := range migrations {
		r.Register(m)
	}
	return r
}

// Register adds a migration, replacing any migration of the same version
func (r *Registry) Register(m Migration) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.migrations[m.Version()] = m
}

// Between returns the migrations with from < version <= to, oldest first
func (r *Registry) Between(from, to int) []Migration {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Migration, 0, len(r.migrations))
	for v, m := range r.migrations {
		if v > from && v <= to {
			out = append(out, m)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Version() < out[j].Version() })
	return out
}

func (r *Registry) Get(version int) (Migration, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	m, ok := r.migrations[version]
	return m, ok
}

// schemaMigrations is filled by the init functions of the vN.go files
var schemaMigrations = NewRegistry()

// ParseVersion returns the major component of a release string like "v2.1"
func ParseVersion(release string) (int, error) {
	major, _, _ := strings.Cut(strings.TrimPrefix(strings.TrimSpace(release), "v"), ".")
	version, err := strconv.Atoi(major)
	if err != nil {
		return 0, fmt.Errorf("invalid major version: %q", major)
	}
	return version, nil
}

// CodeVersion is the schema version this build expects
func CodeVersion() (int, error) {
	return ParseVersion(config.VERSION)
}
