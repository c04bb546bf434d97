// Package testutil provides testing utilities for the roster engine:
// a Postgres testcontainer, domain fixtures, and a shared integration
// suite base.
package testutil

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

// PostgresContainer wraps a testcontainers PostgreSQL instance.
type PostgresContainer struct {
	*postgres.PostgresContainer
	DSN string
}

// PostgresContainerConfig configures the test PostgreSQL container.
type PostgresContainerConfig struct {
	Database string
	Username string
	Password string
	Image    string // Optional: defaults to postgres:15-alpine
}

// DefaultPostgresConfig returns sensible defaults for test containers.
func DefaultPostgresConfig() PostgresContainerConfig {
	return PostgresContainerConfig{
		Database: "roster_test",
		Username: "test",
		Password: "test",
		Image:    "postgres:15-alpine",
	}
}

// NewPostgresContainer creates a new PostgreSQL test container.
//
// Usage:
//
//	func TestMain(m *testing.M) {
//	    ctx := context.Background()
//	    container, err := testutil.NewPostgresContainer(ctx, testutil.DefaultPostgresConfig())
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//	    defer container.Terminate(ctx)
//
//	    // Run tests
//	    code := m.Run()
//	    os.Exit(code)
//	}
func NewPostgresContainer(ctx context.Context, cfg PostgresContainerConfig) (*PostgresContainer, error) {
	if cfg.Image == "" {
		cfg.Image = "postgres:15-alpine"
	}
	if cfg.Database == "" {
		cfg.Database = "roster_test"
	}
	if cfg.Username == "" {
		cfg.Username = "test"
	}
	if cfg.Password == "" {
		cfg.Password = "test"
	}

	container, err := postgres.RunContainer(ctx,
		testcontainers.WithImage(cfg.Image),
		postgres.WithDatabase(cfg.Database),
		postgres.WithUsername(cfg.Username),
		postgres.WithPassword(cfg.Password),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to start postgres container: %w", err)
	}

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		container.Terminate(ctx)
		return nil, fmt.Errorf("failed to get connection string: %w", err)
	}

	return &PostgresContainer{
		PostgresContainer: container,
		DSN:               dsn,
	}, nil
}

// Connect returns a sqlx.DB connection to the container.
func (c *PostgresContainer) Connect(ctx context.Context) (*sqlx.DB, error) {
	db, err := sqlx.ConnectContext(ctx, "postgres", c.DSN)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to test database: %w", err)
	}
	return db, nil
}

// Terminate stops and removes the container.
func (c *PostgresContainer) Terminate(ctx context.Context) error {
	return c.PostgresContainer.Terminate(ctx)
}

// CreateSchema creates every table the entity store (internal/roster/repository)
// queries. There is a single schema: no multi-tenancy, no RLS — the core
// contract treats the store as a single roster instance (§1's non-goals
// exclude multi-tenant isolation from this layer).
func (c *PostgresContainer) CreateSchema(ctx context.Context, db *sqlx.DB) error {
	if _, err := db.ExecContext(ctx, rosterSchemaSQL); err != nil {
		return fmt.Errorf("failed to create roster schema: %w", err)
	}
	return nil
}

var rosterSchemaSQL = `
	CREATE EXTENSION IF NOT EXISTS "pgcrypto";

	CREATE TABLE IF NOT EXISTS roles (
		id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
		name VARCHAR(100) NOT NULL UNIQUE
	);

	CREATE TABLE IF NOT EXISTS workers (
		id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
		first_name VARCHAR(100) NOT NULL,
		last_name VARCHAR(100) NOT NULL,
		available BOOLEAN NOT NULL DEFAULT true,
		shifts_per_roster INTEGER NOT NULL DEFAULT 0,
		max_shifts BOOLEAN NOT NULL DEFAULT false,
		enforce_shifts_per_roster BOOLEAN NOT NULL DEFAULT false,
		enforce_one_shift_per_day BOOLEAN NOT NULL DEFAULT false,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);

	CREATE TABLE IF NOT EXISTS worker_roles (
		worker_id UUID NOT NULL REFERENCES workers(id) ON DELETE CASCADE,
		role_id UUID NOT NULL REFERENCES roles(id) ON DELETE CASCADE,
		PRIMARY KEY (worker_id, role_id)
	);

	CREATE TABLE IF NOT EXISTS days (
		id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
		number INTEGER NOT NULL UNIQUE
	);

	CREATE TABLE IF NOT EXISTS day_groups (
		id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
		name VARCHAR(100) NOT NULL UNIQUE
	);

	CREATE TABLE IF NOT EXISTS day_group_days (
		day_group_id UUID NOT NULL REFERENCES day_groups(id) ON DELETE CASCADE,
		day_id UUID NOT NULL REFERENCES days(id) ON DELETE CASCADE,
		PRIMARY KEY (day_group_id, day_id)
	);

	CREATE TABLE IF NOT EXISTS shifts (
		id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
		shift_type VARCHAR(100) NOT NULL,
		day_group_id UUID REFERENCES day_groups(id)
	);

	CREATE TABLE IF NOT EXISTS skill_mix_rules (
		id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
		name VARCHAR(100) NOT NULL,
		shift_id UUID NOT NULL REFERENCES shifts(id) ON DELETE CASCADE
	);

	CREATE TABLE IF NOT EXISTS skill_mix_rule_roles (
		rule_id UUID NOT NULL REFERENCES skill_mix_rules(id) ON DELETE CASCADE,
		role_id UUID NOT NULL REFERENCES roles(id) ON DELETE CASCADE,
		count INTEGER NOT NULL,
		PRIMARY KEY (rule_id, role_id)
	);

	CREATE TABLE IF NOT EXISTS shift_sequences (
		id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
		name VARCHAR(100) NOT NULL,
		day_group_id UUID REFERENCES day_groups(id),
		description TEXT
	);

	CREATE TABLE IF NOT EXISTS shift_sequence_workers (
		sequence_id UUID NOT NULL REFERENCES shift_sequences(id) ON DELETE CASCADE,
		worker_id UUID NOT NULL REFERENCES workers(id) ON DELETE CASCADE,
		PRIMARY KEY (sequence_id, worker_id)
	);

	CREATE TABLE IF NOT EXISTS shift_sequence_shifts (
		sequence_id UUID NOT NULL REFERENCES shift_sequences(id) ON DELETE CASCADE,
		position INTEGER NOT NULL,
		shift_id UUID REFERENCES shifts(id),
		PRIMARY KEY (sequence_id, position)
	);

	CREATE TABLE IF NOT EXISTS timeslots (
		id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
		date DATE NOT NULL,
		shift_id UUID NOT NULL REFERENCES shifts(id) ON DELETE CASCADE
	);

	CREATE TABLE IF NOT EXISTS timeslot_assignments (
		timeslot_id UUID NOT NULL REFERENCES timeslots(id) ON DELETE CASCADE,
		worker_id UUID NOT NULL REFERENCES workers(id) ON DELETE CASCADE,
		PRIMARY KEY (timeslot_id, worker_id)
	);

	CREATE TABLE IF NOT EXISTS staff_requests (
		worker_id UUID NOT NULL REFERENCES workers(id) ON DELETE CASCADE,
		date DATE NOT NULL,
		shift_id UUID NOT NULL REFERENCES shifts(id) ON DELETE CASCADE,
		"like" BOOLEAN NOT NULL,
		priority INTEGER NOT NULL,
		PRIMARY KEY (worker_id, date, shift_id)
	);

	CREATE TABLE IF NOT EXISTS leaves (
		worker_id UUID NOT NULL REFERENCES workers(id) ON DELETE CASCADE,
		date DATE NOT NULL,
		description VARCHAR(255) NOT NULL,
		PRIMARY KEY (worker_id, date)
	);

	CREATE TABLE IF NOT EXISTS roster_settings (
		id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
		roster_publish_day VARCHAR(20)
	);
`
