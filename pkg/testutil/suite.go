package testutil

import (
	"context"
	"os"
	"sync"
	"testing"

	"github.com/jmoiron/sqlx"

	"github.com/rosterforge/roster-engine/pkg/database"
	"github.com/rosterforge/roster-engine/pkg/logger"
)

var (
	globalContainer *PostgresContainer
	globalDB        *sqlx.DB
	containerOnce   sync.Once
	containerErr    error
)

// IntegrationSuite wires a shared Postgres container to a roster schema
// for repository- and writer-level tests.
type IntegrationSuite struct {
	Container *PostgresContainer
	RawDB     *sqlx.DB
	DB        *database.DB
	Fixtures  *FixtureFactory
	Logger    *logger.Logger
}

// NewIntegrationSuite connects to the shared test container, (re)creates
// the roster schema, and returns a ready-to-use suite.
func NewIntegrationSuite(ctx context.Context) (*IntegrationSuite, error) {
	container, db, err := getOrCreateContainer(ctx)
	if err != nil {
		return nil, err
	}

	log := logger.New("test", "test")
	wrappedDB, err := database.NewWithDSN(container.DSN, log)
	if err != nil {
		return nil, err
	}

	if err := container.CreateSchema(ctx, db); err != nil {
		return nil, err
	}

	return &IntegrationSuite{
		Container: container,
		RawDB:     db,
		DB:        wrappedDB,
		Fixtures:  NewFixtureFactory(),
		Logger:    log,
	}, nil
}

func getOrCreateContainer(ctx context.Context) (*PostgresContainer, *sqlx.DB, error) {
	containerOnce.Do(func() {
		globalContainer, containerErr = NewPostgresContainer(ctx, DefaultPostgresConfig())
		if containerErr != nil {
			return
		}
		globalDB, containerErr = globalContainer.Connect(ctx)
	})
	return globalContainer, globalDB, containerErr
}

// Truncate clears every roster table between tests, keeping the schema
// itself (and the container) alive across the suite.
func (s *IntegrationSuite) Truncate(ctx context.Context) error {
	_, err := s.RawDB.ExecContext(ctx, `
		TRUNCATE TABLE
			timeslot_assignments, timeslots, staff_requests, leaves,
			shift_sequence_shifts, shift_sequence_workers, shift_sequences,
			skill_mix_rule_roles, skill_mix_rules, shifts,
			day_group_days, day_groups, days,
			worker_roles, workers, roles, roster_settings
		RESTART IDENTITY CASCADE`)
	return err
}

// TerminateContainer tears down the shared container. Call once from
// TestMain after the full package's tests have run.
func TerminateContainer(ctx context.Context) {
	if globalContainer != nil {
		globalContainer.Terminate(ctx)
	}
}

// UnitTestSuite wires a sqlmock-backed DB for repository unit tests that
// don't need a real Postgres instance.
type UnitTestSuite struct {
	MockDB   *MockDB
	Fixtures *FixtureFactory
	t        *testing.T
}

// NewUnitTestSuite creates a unit test suite.
func NewUnitTestSuite(t *testing.T) *UnitTestSuite {
	return &UnitTestSuite{MockDB: NewMockDB(t), Fixtures: NewFixtureFactory(), t: t}
}

// Cleanup verifies mock expectations and closes the mock DB.
func (s *UnitTestSuite) Cleanup() {
	s.MockDB.ExpectationsWereMet(s.t)
	s.MockDB.Close()
}

// GetEnvOrDefault returns the environment variable's value or a default.
func GetEnvOrDefault(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

// IsCI reports whether tests are running in a CI environment.
func IsCI() bool {
	return os.Getenv("CI") != ""
}
