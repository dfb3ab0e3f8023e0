package testutil

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/dom/kanban-board/internal/api"
	"github.com/dom/kanban-board/internal/clock"
	"github.com/dom/kanban-board/internal/config"
	"github.com/dom/kanban-board/internal/mail"
	"github.com/dom/kanban-board/internal/repository"
	repoPostgres "github.com/dom/kanban-board/internal/repository/postgres"
	"github.com/dom/kanban-board/internal/service"
	"github.com/testcontainers/testcontainers-go"
	tcPostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// TestDB manages a testcontainers PostgreSQL instance
type TestDB struct {
	Container testcontainers.Container
	DB        *gorm.DB
	DSN       string
}

// NewTestDB creates a new PostgreSQL testcontainer and returns a migrated connection
func NewTestDB(t *testing.T) *TestDB {
	t.Helper()

	ctx := context.Background()

	container, err := tcPostgres.Run(ctx,
		"postgres:15-alpine",
		tcPostgres.WithDatabase("test_kanban"),
		tcPostgres.WithUsername("test"),
		tcPostgres.WithPassword("test"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	if err != nil {
		t.Fatalf("failed to start postgres container: %v", err)
	}

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		t.Fatalf("failed to get connection string: %v", err)
	}

	db, err := repoPostgres.NewConnection(dsn, logger.Silent)
	if err != nil {
		t.Fatalf("failed to connect to database: %v", err)
	}

	if err := repoPostgres.Migrate(db); err != nil {
		t.Fatalf("failed to run migrations: %v", err)
	}

	testDB := &TestDB{
		Container: container,
		DB:        db,
		DSN:       dsn,
	}

	t.Cleanup(func() {
		testDB.Cleanup()
	})

	return testDB
}

// Cleanup terminates the container
func (tdb *TestDB) Cleanup() {
	if tdb.Container != nil {
		ctx := context.Background()
		tdb.Container.Terminate(ctx)
	}
}

// Truncate clears all tables for test isolation
func (tdb *TestDB) Truncate(t *testing.T) {
	t.Helper()

	tables := []string{
		"user_notifications",
		"user_invites",
		"board_card_comments",
		"board_cards",
		"board_columns",
		"board_members",
		"boards",
		"user_verifications",
		"users",
	}

	for _, table := range tables {
		if err := tdb.DB.Exec(fmt.Sprintf("TRUNCATE TABLE %s RESTART IDENTITY CASCADE", table)).Error; err != nil {
			t.Logf("warning: failed to truncate %s: %v", table, err)
		}
	}
}

// TestConfig returns a configuration suitable for testing
func TestConfig() *config.Config {
	return &config.Config{
		Port:               "0", // Random port
		Environment:        "test",
		BaseURL:            "http://kanban.test",
		JWTSecret:          "test-jwt-secret-key-for-testing-only",
		JWTExpirationHours: 1,
		SessionStampTTL:    6 * time.Hour,
		InviteTTL:          72 * time.Hour,
		InvitesPerDay:      5,
		VerifyCodeTTL:      15 * time.Minute,
		VerifyCodesPerDay:  3,
		Mail: config.MailConfig{
			Transport: config.MailTransportLog,
		},
	}
}

// DiscardLogger returns a logger that drops everything
func DiscardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// NewClock returns a mock clock pinned to the current second
func NewClock() *clock.Mock {
	return clock.NewMock(time.Now().UTC().Truncate(time.Second))
}

// Env is the service layer wired to a test database, a mock clock and an
// in-memory mailbox
type Env struct {
	DB         *TestDB
	Repos      *repository.Repositories
	Services   *service.Services
	Config     *config.Config
	Clock      *clock.Mock
	Mail       *mail.Recorder
	Dispatcher *mail.Dispatcher
}

// NewEnv builds an Env on a fresh database
func NewEnv(t *testing.T) *Env {
	t.Helper()
	return NewEnvWithDB(t, NewTestDB(t))
}

// NewEnvWithDB builds an Env on an existing database
func NewEnvWithDB(t *testing.T, testDB *TestDB) *Env {
	t.Helper()

	cfg := TestConfig()
	clk := NewClock()
	log := DiscardLogger()
	recorder := &mail.Recorder{}
	dispatcher := mail.NewDispatcher(recorder, log)

	repos := repoPostgres.NewRepositories(testDB.DB)
	services := service.NewServices(repos, cfg, clk, dispatcher, log)

	return &Env{
		DB:         testDB,
		Repos:      repos,
		Services:   services,
		Config:     cfg,
		Clock:      clk,
		Mail:       recorder,
		Dispatcher: dispatcher,
	}
}

// Reset truncates the database and clears recorded mail
func (e *Env) Reset(t *testing.T) {
	t.Helper()
	e.Dispatcher.Wait()
	e.DB.Truncate(t)
	e.Mail.Reset()
}

// Mails waits for in-flight deliveries and returns everything sent so far
func (e *Env) Mails() []mail.Message {
	e.Dispatcher.Wait()
	return e.Mail.Messages()
}

// TestServer holds all components for integration testing
type TestServer struct {
	*Env
	Server *httptest.Server
}

// NewTestServer creates a complete test server with all dependencies
func NewTestServer(t *testing.T) *TestServer {
	t.Helper()

	env := NewEnv(t)
	router := api.NewRouter(env.Services, env.Clock, DiscardLogger())
	server := httptest.NewServer(router)

	ts := &TestServer{
		Env:    env,
		Server: server,
	}

	t.Cleanup(func() {
		server.Close()
		env.Dispatcher.Wait()
	})

	return ts
}

// BaseURL returns the test server's base URL
func (ts *TestServer) BaseURL() string {
	return ts.Server.URL
}

// APIURL returns the full API URL for a given path
func (ts *TestServer) APIURL(path string) string {
	return fmt.Sprintf("%s/api/v1%s", ts.Server.URL, path)
}
