package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/farahhazhiyah00/Glowyze-Face-Analyzer/internal/ai"
	"github.com/farahhazhiyah00/Glowyze-Face-Analyzer/internal/audit"
	"github.com/farahhazhiyah00/Glowyze-Face-Analyzer/internal/capture"
	"github.com/farahhazhiyah00/Glowyze-Face-Analyzer/internal/config"
	"github.com/farahhazhiyah00/Glowyze-Face-Analyzer/internal/handler"
	"github.com/farahhazhiyah00/Glowyze-Face-Analyzer/internal/middleware"
	"github.com/farahhazhiyah00/Glowyze-Face-Analyzer/internal/pdf"
	"github.com/farahhazhiyah00/Glowyze-Face-Analyzer/internal/repository"
	"github.com/farahhazhiyah00/Glowyze-Face-Analyzer/internal/service"
	"github.com/farahhazhiyah00/Glowyze-Face-Analyzer/internal/store"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	// Initialize Zap logger
	var logger *zap.Logger
	if cfg.Server.Environment == "production" {
		logger, err = zap.NewProduction()
	} else {
		logger, err = zap.NewDevelopment()
	}
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	logger.Info("Configuration loaded successfully",
		zap.String("environment", cfg.Server.Environment),
		zap.String("port", cfg.Server.Port),
		zap.String("storage_backend", cfg.Storage.Backend),
		zap.String("ai_provider", cfg.AI.Provider),
	)

	// Initialize the persistence store
	st, err := store.New(context.Background(), store.Config{
		Backend:       cfg.Storage.Backend,
		FilePath:      cfg.Storage.FilePath,
		EncryptionKey: cfg.Storage.EncryptionKey,
		PostgresURL:   cfg.Storage.PostgresURL,
	}, logger)
	if err != nil {
		logger.Fatal("Failed to initialize storage", zap.Error(err))
	}
	defer st.Close()

	// Initialize the AI provider client. A missing key is not fatal;
	// AI-backed endpoints report the condition per request.
	aiClient, err := ai.New(context.Background(), ai.Config{
		Provider: cfg.AI.Provider,
		APIKey:   cfg.AI.APIKey,
		Model:    cfg.AI.Model,
	}, logger)
	if err != nil {
		logger.Fatal("Failed to initialize AI client", zap.Error(err))
	}

	// Initialize capture subsystem
	devices, err := capture.NewDeviceManager(cfg.Capture.DeviceSlots, logger)
	if err != nil {
		logger.Fatal("Failed to initialize device manager", zap.Error(err))
	}
	processor := capture.NewProcessor(cfg.Capture.LowLightThreshold)

	// Initialize repositories
	profileRepo := repository.NewProfileRepository(st, logger)
	scanRepo := repository.NewScanRepository(st, logger)
	chatRepo := repository.NewChatRepository(st, logger)
	checklistRepo := repository.NewChecklistRepository(st, logger)

	// Initialize audit trail
	trail := audit.NewTrail(st, logger)

	// Initialize services
	profileService := service.NewProfileService(profileRepo, logger)
	onboardingService := service.NewOnboardingService(profileRepo, logger)
	scanService := service.NewScanService(aiClient, service.NewAnalysisParser(logger), scanRepo, logger)
	chatService := service.NewChatService(chatRepo, profileRepo, aiClient, logger)
	checklistService := service.NewChecklistService(checklistRepo, profileRepo, time.Local, logger)
	recommendService := service.NewRecommendService(profileRepo, scanRepo, logger)
	reportService := service.NewReportService(profileRepo, scanRepo, checklistService, pdf.NewGenerator(logger), logger)
	accountService := service.NewAccountService(profileRepo, scanRepo, chatRepo, checklistRepo, trail, logger)

	// Initialize handlers
	healthHandler := handler.NewHealthHandler(st, logger)
	profileHandler := handler.NewProfileHandler(profileService, onboardingService, trail, logger)
	scanHandler := handler.NewScanHandler(scanService, devices, processor, trail, logger)
	chatHandler := handler.NewChatHandler(chatService, logger)
	checklistHandler := handler.NewChecklistHandler(checklistService, logger)
	insightsHandler := handler.NewInsightsHandler(recommendService, reportService, logger)
	accountHandler := handler.NewAccountHandler(accountService, logger)

	// Set Gin mode
	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Initialize Gin router
	r := gin.New()

	// Add recovery middleware (must be first)
	r.Use(middleware.RecoveryMiddleware(logger))

	// Add CORS middleware
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"}, // Configure appropriately for production
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Request-ID", "X-User-ID"},
		ExposeHeaders:    []string{"Content-Length", "X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	// Add request ID middleware
	r.Use(middleware.RequestIDMiddleware())

	// Resolve the acting user for request logging
	r.Use(middleware.UserContextMiddleware())

	// Add request logging middleware
	r.Use(middleware.RequestLoggingMiddleware(logger))

	// Add error logging middleware
	r.Use(middleware.ErrorLoggingMiddleware(logger))

	// Register routes
	r.GET("/health", healthHandler.GetHealth)

	v1 := r.Group("/api/v1")
	{
		v1.POST("/auth", profileHandler.PostAuth)
		v1.GET("/onboarding/steps", profileHandler.GetOnboardingSteps)

		users := v1.Group("/users/:userId")
		{
			users.GET("/app-state", profileHandler.GetAppState)
			users.GET("/profile", profileHandler.GetProfile)
			users.POST("/profile/theme", profileHandler.PostTheme)
			users.POST("/profile/language", profileHandler.PostLanguage)
			users.POST("/profile/photo", profileHandler.PostPhoto)
			users.POST("/onboarding/steps/:step", profileHandler.PostOnboardingStep)
			users.POST("/onboarding/complete", profileHandler.PostOnboardingComplete)

			users.POST("/scans/flows", scanHandler.PostFlow)
			users.GET("/scans/flows/:flowId", scanHandler.GetFlow)
			users.POST("/scans/flows/:flowId/image", scanHandler.PostImage)
			users.POST("/scans/flows/:flowId/retake", scanHandler.PostRetake)
			users.POST("/scans/flows/:flowId/save", scanHandler.PostSave)
			users.DELETE("/scans/flows/:flowId", scanHandler.DeleteFlow)
			users.GET("/scans", scanHandler.GetScans)

			users.GET("/chat/sessions", chatHandler.GetSessions)
			users.GET("/chat/sessions/new", chatHandler.GetNewSession)
			users.POST("/chat/messages", chatHandler.PostMessage)
			users.DELETE("/chat/sessions/:sessionId", chatHandler.DeleteSession)

			users.GET("/checklist", checklistHandler.GetDay)
			users.POST("/checklist/toggle", checklistHandler.PostToggle)
			users.POST("/checklist/items", checklistHandler.PostItem)
			users.DELETE("/checklist/items/:itemId", checklistHandler.DeleteItem)

			users.GET("/recommendations", insightsHandler.GetRecommendations)
			users.GET("/report", insightsHandler.GetReport)
			users.GET("/report/pdf", insightsHandler.GetReportPDF)

			users.GET("/export", accountHandler.GetExport)
			users.DELETE("", accountHandler.DeleteAccount)
		}
	}

	// Start server with graceful shutdown
	srv := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: r,
	}

	go func() {
		logger.Info("Starting server", zap.String("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("Server forced to shutdown", zap.Error(err))
	}

	// Flush the store
	if err := st.Close(); err != nil {
		logger.Error("Failed to close storage", zap.Error(err))
	}

	logger.Info("Server exited")
}
