package testutil

import (
	"context"
	"fmt"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/mduret/dvdtheque-api/internal/api"
	"github.com/mduret/dvdtheque-api/internal/auth"
	"github.com/mduret/dvdtheque-api/internal/config"
	"github.com/mduret/dvdtheque-api/internal/domain"
	"github.com/mduret/dvdtheque-api/internal/ratelimit"
	"github.com/mduret/dvdtheque-api/internal/repository"
	repoPostgres "github.com/mduret/dvdtheque-api/internal/repository/postgres"
	"github.com/mduret/dvdtheque-api/internal/service"
	"github.com/testcontainers/testcontainers-go"
	tcPostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	gormPostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// TestDB manages a testcontainers PostgreSQL instance
type TestDB struct {
	Container testcontainers.Container
	DB        *gorm.DB
	DSN       string
}

// NewTestDB creates a new PostgreSQL testcontainer and returns a connection
func NewTestDB(t *testing.T) *TestDB {
	t.Helper()

	ctx := context.Background()

	container, err := tcPostgres.Run(ctx,
		"postgres:15-alpine",
		tcPostgres.WithDatabase("test_dvdtheque"),
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

	db, err := gorm.Open(gormPostgres.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("failed to connect to database: %v", err)
	}

	// Run migrations
	err = db.AutoMigrate(
		&domain.User{},
		&domain.PasswordReset{},
		&domain.DVD{},
	)
	if err != nil {
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
		"dvds",
		"password_resets",
		"users",
	}

	for _, table := range tables {
		if err := tdb.DB.Exec(fmt.Sprintf("TRUNCATE TABLE %s CASCADE", table)).Error; err != nil {
			t.Logf("warning: failed to truncate %s: %v", table, err)
		}
	}
}

// TestConfig returns a configuration suitable for testing
func TestConfig() *config.Config {
	return &config.Config{
		Port:            "0", // Random port
		Environment:     "test",
		JWTSecret:       "test-jwt-secret-key-for-testing-only",
		JWTTokenTTL:     time.Hour,
		FrontendURL:     "http://localhost:5173",
		ResendFromEmail: "test@dvdtheque.local",
	}
}

// CapturedMail records one message handed to the mailer.
type CapturedMail struct {
	To      string
	Subject string
	HTML    string
}

// CaptureMailer collects sent mail in memory so tests can inspect reset links.
type CaptureMailer struct {
	mu       sync.Mutex
	Messages []CapturedMail
}

func (m *CaptureMailer) Send(_ context.Context, to, subject, html string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Messages = append(m.Messages, CapturedMail{To: to, Subject: subject, HTML: html})
	return nil
}

// Last returns the most recently captured message.
func (m *CaptureMailer) Last(t *testing.T) CapturedMail {
	t.Helper()
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.Messages) == 0 {
		t.Fatal("no mail captured")
	}
	return m.Messages[len(m.Messages)-1]
}

// GenerousRateLimits returns limiters wide enough that ordinary test traffic
// never trips them. Rate-limit behavior itself is tested with tight limiters
// built per test.
func GenerousRateLimits() *api.RateLimits {
	return &api.RateLimits{
		Global:         ratelimit.NewWindow(time.Hour, 100000),
		Login:          ratelimit.NewWindow(time.Hour, 100000),
		Register:       ratelimit.NewWindow(time.Hour, 100000),
		ForgotPassword: ratelimit.NewWindow(time.Hour, 100000),
	}
}

// TestServer holds all components for integration testing
type TestServer struct {
	Server   *httptest.Server
	DB       *TestDB
	Repos    *repository.Repositories
	Services *service.Services
	Tokens   *auth.TokenManager
	Mailer   *CaptureMailer
	Config   *config.Config
}

// NewTestServer creates a complete test server with all dependencies
func NewTestServer(t *testing.T) *TestServer {
	t.Helper()

	testDB := NewTestDB(t)
	cfg := TestConfig()

	repos := repoPostgres.NewRepositories(testDB.DB)
	tokens := auth.NewTokenManager([]byte(cfg.JWTSecret), cfg.JWTTokenTTL)
	mailer := &CaptureMailer{}

	services := service.NewServices(repos, tokens, mailer, cfg)
	router := api.NewRouter(services, tokens, GenerousRateLimits(), cfg)

	server := httptest.NewServer(router)

	ts := &TestServer{
		Server:   server,
		DB:       testDB,
		Repos:    repos,
		Services: services,
		Tokens:   tokens,
		Mailer:   mailer,
		Config:   cfg,
	}

	t.Cleanup(func() {
		server.Close()
	})

	return ts
}

// BaseURL returns the test server's base URL
func (ts *TestServer) BaseURL() string {
	return ts.Server.URL
}

// APIURL returns the full API URL for a given path
func (ts *TestServer) APIURL(path string) string {
	return fmt.Sprintf("%s/api%s", ts.Server.URL, path)
}
