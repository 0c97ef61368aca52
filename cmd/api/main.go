package main

import (
	"fmt"
	"net/http"
	"os"
	"time"

	"wavz/internal/config"
	"wavz/internal/database"
	"wavz/internal/handlers"
	"wavz/internal/insightiq"
	"wavz/internal/logger"
	"wavz/internal/middleware"
	"wavz/internal/services"
	"wavz/internal/thirdweb"
	"wavz/internal/validator"
	"wavz/internal/veriff"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "wavz/internal/docs" // Import swagger docs
)

// @title           Wavz API
// @version         1.0
// @description     Wavz turns raw creator engagement into cPoints, Sparks, Beats, and levels across connected platforms.
// @termsOfService  http://swagger.io/terms/

// @host      localhost:8080
// @BasePath  /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name X-API-Key
// @description Shared secret for scheduler-triggered endpoints.

func main() {
	logger.Init(os.Getenv("ENV"))
	defer logger.Sync()

	if err := run(); err != nil {
		logger.Get().Fatalf("Fatal error: %v", err)
	}
}

func run() error {
	log := logger.Get()

	appConfig, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	validator.Register()

	dbConfig, err := database.NewConfig()
	if err != nil {
		return fmt.Errorf("failed to load database configuration: %w", err)
	}

	dbManager, err := database.NewManager(dbConfig)
	if err != nil {
		return fmt.Errorf("failed to create database manager: %w", err)
	}

	if err := dbManager.Migrate(); err != nil {
		return fmt.Errorf("failed to run database migrations: %w", err)
	}

	// External collaborator clients
	insightClient := insightiq.NewHTTPClient(appConfig.InsightIQBaseURL, appConfig.InsightIQAPIKey)
	veriffClient := veriff.NewHTTPClient(appConfig.VeriffBaseURL, appConfig.VeriffAPIKey)
	thirdwebClient := thirdweb.NewHTTPClient(appConfig.ThirdwebBaseURL, appConfig.ThirdwebAPIKey)

	// Initialize services
	db := dbManager.DB()
	userService := services.NewUserService(db)
	accountService := services.NewAccountService(db)
	snapshotService := services.NewSnapshotService(db)
	cpointsService := services.NewCPointsService(db)
	sparksService := services.NewSparksService(db)
	beatService := services.NewBeatService(db)
	profileService := services.NewProfileService(db)
	auditService := services.NewAuditService(db)
	syncService := services.NewSyncService(db, insightClient, accountService, snapshotService, cpointsService, sparksService)
	verificationService := services.NewVerificationService(db, veriffClient, thirdwebClient, userService)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(userService)
	accountHandler := handlers.NewAccountHandler(accountService, snapshotService, syncService, auditService)
	cpointsHandler := handlers.NewCPointsHandler(cpointsService, accountService, auditService)
	sparksHandler := handlers.NewSparksHandler(sparksService, auditService)
	beatHandler := handlers.NewBeatHandler(beatService, auditService)
	profileHandler := handlers.NewProfileHandler(profileService, auditService)
	verificationHandler := handlers.NewVerificationHandler(verificationService, auditService)
	syncHandler := handlers.NewSyncHandler(syncService)

	// Initialize Gin router
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogging())
	router.Use(middleware.ErrorHandler())
	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Content-Type", "Authorization", "X-API-Key"},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}))

	// Swagger documentation
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Health check endpoint
	router.GET("/api/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// API v1 group
	v1 := router.Group("/api/v1")

	// Public routes
	auth := v1.Group("/auth")
	auth.POST("/register", authHandler.Register)
	auth.POST("/login", authHandler.Login)
	auth.POST("/refresh", authHandler.Refresh)

	// Scheduler routes, authenticated by shared API key
	internal := v1.Group("/internal")
	internal.Use(middleware.SyncAuthMiddleware(appConfig.SyncAPIKey))
	internal.POST("/sync", syncHandler.SyncAll)

	// Protected routes
	protected := v1.Group("/")
	protected.Use(middleware.AuthMiddleware())

	protected.GET("/auth/me", authHandler.Me)
	protected.GET("/profile", profileHandler.GetProfile)
	protected.POST("/profile/rebuild", profileHandler.RebuildProfile)
	protected.GET("/ledger", profileHandler.GetLedger)

	// Connected account routes
	accounts := protected.Group("/accounts")
	accounts.POST("", accountHandler.ConnectAccount)
	accounts.GET("", accountHandler.ListAccounts)
	accounts.GET("/:id", accountHandler.GetAccount)
	accounts.POST("/:id/sync", accountHandler.SyncAccount)
	accounts.GET("/:id/snapshots", accountHandler.ListSnapshots)

	// cPoints routes
	cpoints := protected.Group("/cpoints")
	cpoints.GET("", cpointsHandler.GetHistory)
	cpoints.POST("/calculate", cpointsHandler.Calculate)

	// Sparks routes
	sparks := protected.Group("/sparks")
	sparks.GET("", sparksHandler.GetSparks)
	sparks.POST("/refresh", sparksHandler.RefreshSparks)

	// Beat routes
	beats := protected.Group("/beats")
	beats.POST("", beatHandler.CreateBeat)
	beats.GET("", beatHandler.ListBeats)
	beats.GET("/:id", beatHandler.GetBeat)
	beats.DELETE("/:id", beatHandler.DeleteBeat)
	beats.POST("/:id/engagement", beatHandler.UpdateEngagement)
	beats.POST("/:id/proofs", beatHandler.AddProof)
	beats.GET("/:id/performance", beatHandler.AnalyzeBeat)

	// Verification routes
	verification := protected.Group("/verification")
	verification.POST("/sessions", verificationHandler.StartKYC)
	verification.GET("/sessions", verificationHandler.GetKYCStatus)
	protected.POST("/wallets", verificationHandler.CreateWallet)

	log.Infof("Starting Wavz backend server on port %s", appConfig.Port)
	log.Infof("Swagger documentation available at http://localhost:%s/swagger/index.html", appConfig.Port)
	return router.Run(":" + appConfig.Port)
}
