package server

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"cadence/internal/config"
	"cadence/internal/database"
	"cadence/internal/models"
	"cadence/internal/repository"
	"cadence/internal/scoring"
	"cadence/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupTestServer(t *testing.T) (*Server, *fiber.App, *gorm.DB) {
	t.Helper()
	t.Setenv("APP_ENV", "test")

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))

	// Built by hand rather than through NewServerWithDeps so repeated test
	// setups do not re-register Prometheus collectors.
	cfg := &config.Config{Port: "0", Env: "test", UpsertMaxRetries: 3}
	srv := newBareServer(cfg, db)

	app := fiber.New()
	srv.SetupRoutes(app)
	return srv, app, db
}

// newBareServer wires repositories and services without metrics middleware.
func newBareServer(cfg *config.Config, db *gorm.DB) *Server {
	srv := &Server{
		config:        cfg,
		db:            db,
		userRepo:      repository.NewUserRepository(db),
		postRepo:      repository.NewPostRepository(db),
		tagRepo:       repository.NewTagRepository(db),
		analysisRepo:  repository.NewAnalysisRepository(db),
		analyticsRepo: repository.NewAnalyticsRepository(db),
		auditRepo:     repository.NewAuditRepository(db),
	}
	srv.userService = service.NewUserService(srv.userRepo)
	srv.analysisService = service.NewAnalysisService(srv.analysisRepo, cfg.UpsertMaxRetries)
	srv.postService = service.NewPostService(srv.postRepo, srv.analysisService, scoring.NewLexiconScorer())
	srv.tagService = service.NewTagService(srv.tagRepo)
	srv.analyticsService = service.NewAnalyticsService(srv.analyticsRepo)
	return srv
}

func doJSON(t *testing.T, app *fiber.App, method, path string, body any) *http.Response {
	t.Helper()
	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func decodeJSON(t *testing.T, resp *http.Response, dest any) {
	t.Helper()
	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(dest))
}

func TestParsePagination(t *testing.T) {
	app := fiber.New()
	var page Pagination
	app.Get("/", func(c *fiber.Ctx) error {
		page = parsePagination(c, 20)
		return c.SendStatus(fiber.StatusOK)
	})

	tests := []struct {
		name           string
		url            string
		expectedLimit  int
		expectedOffset int
	}{
		{"defaults", "/", 20, 0},
		{"explicit", "/?limit=5&offset=10", 5, 10},
		{"capped", "/?limit=5000", maxPaginationLimit, 0},
		{"negative offset", "/?offset=-3", 20, 0},
		{"zero limit", "/?limit=0", 20, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := app.Test(httptest.NewRequest(http.MethodGet, tt.url, nil))
			require.NoError(t, err)
			resp.Body.Close()
			assert.Equal(t, tt.expectedLimit, page.Limit)
			assert.Equal(t, tt.expectedOffset, page.Offset)
		})
	}
}

func TestStatusForError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected int
	}{
		{"not found", models.NewNotFoundError("Post", 1), fiber.StatusNotFound},
		{"duplicate", models.NewDuplicateKeyError("Tag", "name"), fiber.StatusConflict},
		{"conflict", models.NewConflictError("raced", nil), fiber.StatusConflict},
		{"validation", models.NewValidationError("nope"), fiber.StatusBadRequest},
		{"out of range", models.NewOutOfRangeError("sentiment", 2, -1, 1), fiber.StatusBadRequest},
		{"internal", models.NewInternalError(nil), fiber.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, statusForError(tt.err))
		})
	}
}
