// Package testutils provides an end-to-end test suite backed by a real
// Postgres instance running in a Testcontainers container.
package testutils

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"runtime"
	"time"

	"github.com/amirasaad/walletd/infra"
	"github.com/amirasaad/walletd/infra/provider/mockpayment"
	"github.com/amirasaad/walletd/pkg/app"
	"github.com/amirasaad/walletd/pkg/config"
	"github.com/amirasaad/walletd/pkg/dto"
	"github.com/amirasaad/walletd/webapi"
	"github.com/amirasaad/walletd/webapi/common"
	"github.com/gofiber/fiber/v2"
	"github.com/golang-migrate/migrate/v4"
	migratepostgres "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// WebhookSecret signs test webhook payloads; the suite configures the app
// with the same secret.
const WebhookSecret = "sk_test_webhook_secret"

// E2ETestSuite provisions a Postgres container, runs migrations and exposes
// the assembled Fiber app for HTTP-level tests.
type E2ETestSuite struct {
	suite.Suite
	pgContainer *tcpostgres.PostgresContainer
	db          *gorm.DB
	fiberApp    *fiber.App
	cfg         *config.App

	// Gateway is the mock payment gateway wired into the app, exposed so
	// tests can inject failures and inspect initialized charges.
	Gateway *mockpayment.MockGateway
}

func (s *E2ETestSuite) startPostgresContainer(ctx context.Context) (*tcpostgres.PostgresContainer, error) {
	return tcpostgres.Run(
		ctx,
		"postgres:15-alpine",
		tcpostgres.WithDatabase("testdb"),
		tcpostgres.WithUsername("test"),
		tcpostgres.WithPassword("test"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).WithStartupTimeout(30*time.Second),
		),
	)
}

func (s *E2ETestSuite) runMigrations(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}

	driver, err := migratepostgres.WithInstance(sqlDB, &migratepostgres.Config{})
	if err != nil {
		return err
	}

	_, filename, _, _ := runtime.Caller(0)
	migrationsPath := filepath.Join(filepath.Dir(filename), "../../internal/migrations")

	m, err := migrate.NewWithDatabaseInstance(
		"file://"+migrationsPath,
		"postgres", driver)
	if err != nil {
		return err
	}

	err = m.Up()
	if err != nil && err != migrate.ErrNoChange {
		return err
	}
	return nil
}

func testConfig(dsn string) *config.App {
	return &config.App{
		Env:    "test",
		Server: &config.Server{Scheme: "http", Host: "localhost", Port: 3000},
		Log:    &config.Log{Format: "text", TimeFormat: "15:04:05", Prefix: "[walletd-test]"},
		DB:     &config.DB{Url: dsn},
		Auth: &config.Auth{
			Jwt: &config.Jwt{Secret: "test-secret-do-not-use", Expiry: time.Hour},
		},
		RateLimit: &config.RateLimit{MaxRequests: 10000, Window: time.Minute},
		Paystack: &config.Paystack{
			SecretKey:   WebhookSecret,
			BaseUrl:     "http://paystack.invalid",
			HTTPTimeout: time.Second,
		},
	}
}

// SetupSuite starts Postgres, migrates the schema and assembles the app with
// a mock payment gateway.
func (s *E2ETestSuite) SetupSuite() {
	ctx := context.Background()

	pg, err := s.startPostgresContainer(ctx)
	s.Require().NoError(err)
	s.pgContainer = pg

	dsn, err := pg.ConnectionString(ctx, "sslmode=disable")
	s.Require().NoError(err)

	s.db, err = gorm.Open(postgres.Open(dsn), &gorm.Config{TranslateError: true})
	s.Require().NoError(err)

	s.Require().NoError(s.runMigrations(s.db))

	s.cfg = testConfig(dsn)
	s.Gateway = mockpayment.New(WebhookSecret)

	a := app.New(config.Deps{
		Uow:     infra.NewUoW(s.db),
		Gateway: s.Gateway,
		Logger:  slog.Default(),
		Config:  s.cfg,
	})
	s.fiberApp = webapi.SetupApp(a)
}

// TearDownSuite terminates the Postgres container.
func (s *E2ETestSuite) TearDownSuite() {
	if s.pgContainer != nil {
		_ = s.pgContainer.Terminate(context.Background())
	}
}

// MakeRequest performs an HTTP request against the in-process app.
func (s *E2ETestSuite) MakeRequest(method, path, body, token string) *http.Response {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, bytes.NewBufferString(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := s.fiberApp.Test(req, -1)
	s.Require().NoError(err)
	return resp
}

// MakeAPIKeyRequest performs an HTTP request authenticated with an X-API-Key
// header instead of a Bearer token.
func (s *E2ETestSuite) MakeAPIKeyRequest(method, path, body, apiKey string) *http.Response {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, bytes.NewBufferString(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	req.Header.Set("X-API-Key", apiKey)
	resp, err := s.fiberApp.Test(req, -1)
	s.Require().NoError(err)
	return resp
}

// MakeSignedWebhookRequest posts a raw webhook body with the given signature
// header value.
func (s *E2ETestSuite) MakeSignedWebhookRequest(body []byte, signature string) *http.Response {
	req := httptest.NewRequest("POST", "/wallet/webhook", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if signature != "" {
		req.Header.Set("x-paystack-signature", signature)
	}
	resp, err := s.fiberApp.Test(req, -1)
	s.Require().NoError(err)
	return resp
}

// CreateTestUser registers a unique user via POST /user and returns it.
func (s *E2ETestSuite) CreateTestUser() *dto.UserRead {
	randomID := uuid.New().String()[:8]
	username := fmt.Sprintf("testuser_%s", randomID)
	email := fmt.Sprintf("test_%s@example.com", randomID)

	body := fmt.Sprintf(`{"username":%q,"email":%q,"password":"password123"}`, username, email)
	resp := s.MakeRequest("POST", "/user", body, "")
	s.Require().Equal(fiber.StatusCreated, resp.StatusCode)

	var response common.Response
	s.Require().NoError(json.NewDecoder(resp.Body).Decode(&response))

	raw, err := json.Marshal(response.Data)
	s.Require().NoError(err)
	var u dto.UserRead
	s.Require().NoError(json.Unmarshal(raw, &u))
	u.Email = email
	return &u
}

// LoginUser logs a user in over HTTP and returns the JWT.
func (s *E2ETestSuite) LoginUser(u *dto.UserRead) string {
	body := fmt.Sprintf(`{"identity":%q,"password":"password123"}`, u.Email)
	resp := s.MakeRequest("POST", "/auth/login", body, "")
	s.Require().Equal(fiber.StatusOK, resp.StatusCode)

	var response common.Response
	s.Require().NoError(json.NewDecoder(resp.Body).Decode(&response))

	dataMap, ok := response.Data.(map[string]any)
	s.Require().True(ok, "login response data must be an object")
	token, _ := dataMap["token"].(string)
	s.Require().NotEmpty(token, "no token found in login response")
	return token
}

// DB exposes the raw gorm handle for test assertions and fixtures.
func (s *E2ETestSuite) DB() *gorm.DB { return s.db }

// App exposes the in-process fiber app. Tests that fire requests from
// multiple goroutines go through this directly; suite assertions must not
// run off the test goroutine.
func (s *E2ETestSuite) App() *fiber.App { return s.fiberApp }
