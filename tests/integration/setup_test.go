package integration

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/gin-gonic/gin"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"wavz/internal/handlers"
	"wavz/internal/insightiq"
	"wavz/internal/logger"
	"wavz/internal/middleware"
	"wavz/internal/models"
	"wavz/internal/services"
	"wavz/internal/validator"
)

const testSyncAPIKey = "test-sync-key"

// stubInsightClient serves canned platform content so sync flows run without
// the real engagement provider.
type stubInsightClient struct {
	content []insightiq.ContentItem
	profile insightiq.Profile
	err     error
}

func (s *stubInsightClient) GetAccountContent(ctx context.Context, accountID string) ([]insightiq.ContentItem, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.content, nil
}

func (s *stubInsightClient) GetProfile(ctx context.Context, accountID string) (*insightiq.Profile, error) {
	if s.err != nil {
		return nil, s.err
	}
	p := s.profile
	return &p, nil
}

// testApp holds the full application stack for integration tests.
type testApp struct {
	DB      *gorm.DB
	Router  *gin.Engine
	Insight *stubInsightClient
}

// dbCounter ensures each test gets a unique in-memory database.
var dbCounter atomic.Int64

func init() {
	gin.SetMode(gin.TestMode)
	logger.Init("test")
	validator.Register()
}

// setupIsolatedDB creates an isolated in-memory SQLite database for a single test.
func setupIsolatedDB(t *testing.T) *gorm.DB {
	t.Helper()

	n := dbCounter.Add(1)
	dsn := fmt.Sprintf("file:testdb%d?mode=memory&cache=shared", n)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	allModels := []interface{}{
		&models.User{},
		&models.WavzProfile{},
		&models.ConnectedAccount{},
		&models.EngagementSnapshot{},
		&models.CPointsHistory{},
		&models.Beat{},
		&models.ScoreLedgerEntry{},
		&models.AuditLog{},
	}
	if err := db.AutoMigrate(allModels...); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	return db
}

// setupApp creates a full application stack backed by an isolated in-memory SQLite.
func setupApp(t *testing.T) *testApp {
	t.Helper()

	db := setupIsolatedDB(t)
	insight := &stubInsightClient{}

	// Services
	userService := services.NewUserService(db)
	accountService := services.NewAccountService(db)
	snapshotService := services.NewSnapshotService(db)
	cpointsService := services.NewCPointsService(db)
	sparksService := services.NewSparksService(db)
	beatService := services.NewBeatService(db)
	profileService := services.NewProfileService(db)
	auditService := services.NewAuditService(db)
	syncService := services.NewSyncService(db, insight, accountService, snapshotService, cpointsService, sparksService)

	// Handlers
	authHandler := handlers.NewAuthHandler(userService)
	accountHandler := handlers.NewAccountHandler(accountService, snapshotService, syncService, auditService)
	cpointsHandler := handlers.NewCPointsHandler(cpointsService, accountService, auditService)
	sparksHandler := handlers.NewSparksHandler(sparksService, auditService)
	beatHandler := handlers.NewBeatHandler(beatService, auditService)
	profileHandler := handlers.NewProfileHandler(profileService, auditService)
	syncHandler := handlers.NewSyncHandler(syncService)

	// Router
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.ErrorHandler())

	v1 := router.Group("/api/v1")

	// Public auth routes
	auth := v1.Group("/auth")
	auth.POST("/register", authHandler.Register)
	auth.POST("/login", authHandler.Login)
	auth.POST("/refresh", authHandler.Refresh)

	// Scheduler routes
	internal := v1.Group("/internal")
	internal.Use(middleware.SyncAuthMiddleware(testSyncAPIKey))
	internal.POST("/sync", syncHandler.SyncAll)

	// Protected routes
	protected := v1.Group("/")
	protected.Use(middleware.AuthMiddleware())

	protected.GET("/auth/me", authHandler.Me)
	protected.GET("/profile", profileHandler.GetProfile)
	protected.POST("/profile/rebuild", profileHandler.RebuildProfile)
	protected.GET("/ledger", profileHandler.GetLedger)

	accounts := protected.Group("/accounts")
	accounts.POST("", accountHandler.ConnectAccount)
	accounts.GET("", accountHandler.ListAccounts)
	accounts.GET("/:id", accountHandler.GetAccount)
	accounts.POST("/:id/sync", accountHandler.SyncAccount)
	accounts.GET("/:id/snapshots", accountHandler.ListSnapshots)

	cpoints := protected.Group("/cpoints")
	cpoints.GET("", cpointsHandler.GetHistory)
	cpoints.POST("/calculate", cpointsHandler.Calculate)

	sparks := protected.Group("/sparks")
	sparks.GET("", sparksHandler.GetSparks)
	sparks.POST("/refresh", sparksHandler.RefreshSparks)

	beats := protected.Group("/beats")
	beats.POST("", beatHandler.CreateBeat)
	beats.GET("", beatHandler.ListBeats)
	beats.GET("/:id", beatHandler.GetBeat)
	beats.DELETE("/:id", beatHandler.DeleteBeat)
	beats.POST("/:id/engagement", beatHandler.UpdateEngagement)
	beats.POST("/:id/proofs", beatHandler.AddProof)
	beats.GET("/:id/performance", beatHandler.AnalyzeBeat)

	return &testApp{DB: db, Router: router, Insight: insight}
}

// request makes an HTTP request to the test router and returns the recorder.
func (app *testApp) request(method, path, body, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	app.Router.ServeHTTP(rec, req)
	return rec
}

// requestWithAPIKey makes a request authenticated by the scheduler shared key.
func (app *testApp) requestWithAPIKey(method, path, body, apiKey string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if apiKey != "" {
		req.Header.Set("X-API-Key", apiKey)
	}
	rec := httptest.NewRecorder()
	app.Router.ServeHTTP(rec, req)
	return rec
}

// parseJSON parses the response body into a map.
func parseJSON(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var result map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatalf("failed to parse JSON: %v\nbody: %s", err, rec.Body.String())
	}
	return result
}

// registerUser registers a new user and returns the access token, refresh token, and user ID.
func (app *testApp) registerUser(t *testing.T, email, password string) (accessToken, refreshToken, userID string) {
	t.Helper()
	body := fmt.Sprintf(`{"email":%q,"password":%q,"display_name":"Test Creator"}`, email, password)
	rec := app.request("POST", "/api/v1/auth/register", body, "")
	if rec.Code != http.StatusCreated {
		t.Fatalf("register failed: %d %s", rec.Code, rec.Body.String())
	}
	result := parseJSON(t, rec)
	user := result["user"].(map[string]interface{})
	return result["access_token"].(string), result["refresh_token"].(string), user["id"].(string)
}

// loginUser logs in and returns the access and refresh tokens.
func (app *testApp) loginUser(t *testing.T, email, password string) (accessToken, refreshToken string) {
	t.Helper()
	body := fmt.Sprintf(`{"email":%q,"password":%q}`, email, password)
	rec := app.request("POST", "/api/v1/auth/login", body, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("login failed: %d %s", rec.Code, rec.Body.String())
	}
	result := parseJSON(t, rec)
	return result["access_token"].(string), result["refresh_token"].(string)
}

// connectAccount connects a platform account and returns its row ID.
func (app *testApp) connectAccount(t *testing.T, token, platform, accountID string) string {
	t.Helper()
	body := fmt.Sprintf(`{"platform":%q,"account_id":%q,"username":"creator"}`, platform, accountID)
	rec := app.request("POST", "/api/v1/accounts", body, token)
	if rec.Code != http.StatusCreated {
		t.Fatalf("connect account failed: %d %s", rec.Code, rec.Body.String())
	}
	result := parseJSON(t, rec)
	account := result["account"].(map[string]interface{})
	return account["id"].(string)
}
