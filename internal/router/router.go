package router

import (
	"github.com/Wakjira-Tesama/AI-Based-Desktop-Pooling-System/internal/config"
	"github.com/Wakjira-Tesama/AI-Based-Desktop-Pooling-System/internal/handler"
	"github.com/Wakjira-Tesama/AI-Based-Desktop-Pooling-System/internal/middleware"
	"github.com/Wakjira-Tesama/AI-Based-Desktop-Pooling-System/internal/ocr"
	"github.com/Wakjira-Tesama/AI-Based-Desktop-Pooling-System/internal/service"
	"github.com/Wakjira-Tesama/AI-Based-Desktop-Pooling-System/internal/store"
	"github.com/Wakjira-Tesama/AI-Based-Desktop-Pooling-System/internal/util"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// SetupRouter configures the Gin engine and wires all API routes.
func SetupRouter(cfg *config.Config, db *gorm.DB) *gin.Engine {
	if cfg.Server.Mode != "" {
		gin.SetMode(cfg.Server.Mode)
	}
	r := gin.New()
	r.Use(gin.Logger(), gin.Recovery())

	st := store.New(db)
	sessions := service.NewSessionService(st)
	desktops := service.NewDesktopService(st)
	pairings := service.NewPairingService(st)
	verifier := ocr.NewVerifier(&ocr.TesseractLocator{
		Language:       cfg.OCR.Language,
		TessdataPrefix: cfg.OCR.TessdataPrefix,
	})

	r.GET("/", func(c *gin.Context) {
		util.Success(c, util.Response{"message": "SDPMS API - Smart Desktop Pooling Management System"})
	})

	// ====== API ======
	api := r.Group("/api")

	jwtSecret := cfg.JWT.Secret
	// registration and login need no auth
	authHandler := handler.NewAuthHandler(st, jwtSecret, cfg.JWT.ExpireHours, cfg.Security.BcryptCost)
	api.POST("/auth/register", authHandler.Register)
	api.POST("/auth/login", authHandler.Login)

	// ID verification runs during registration, before a token exists
	verifyHandler := handler.NewVerifyHandler(verifier, cfg.OCR.MaxImageBytes)
	api.POST("/verify-id", verifyHandler.Verify)

	// agent reports are machine-to-machine, not student-facing
	agentHandler := handler.NewAgentHandler(desktops)
	api.POST("/agent/heartbeat", agentHandler.Heartbeat)

	desktopHandler := handler.NewDesktopHandler(desktops)
	api.GET("/desktops", desktopHandler.List)

	// everything below requires a login
	protected := api.Group("")
	protected.Use(middleware.AuthMiddleware(jwtSecret, db))

	protected.GET("/me", handler.GetMe)

	sessionHandler := handler.NewSessionHandler(sessions)
	protected.GET("/sessions/me", sessionHandler.Me)
	protected.POST("/sessions/start", sessionHandler.Start)
	protected.POST("/sessions/:id/end", sessionHandler.End)

	pairingHandler := handler.NewPairingHandler(pairings)
	protected.POST("/pairings/register", pairingHandler.Register)

	// admin surface
	admin := protected.Group("")
	admin.Use(middleware.AdminRequired())

	admin.GET("/students", handler.ListStudents(st))
	admin.POST("/desktops", desktopHandler.Create)
	admin.PATCH("/desktops/:id/status", desktopHandler.UpdateStatus)
	admin.DELETE("/desktops/:id", desktopHandler.Delete)
	admin.GET("/sessions/active", sessionHandler.Active)

	analyticsHandler := handler.NewAnalyticsHandler(st, sessions)
	admin.GET("/analytics/stats", analyticsHandler.Stats)
	admin.GET("/analytics/sessions/export.xlsx", analyticsHandler.ExportSessionsXLSX)

	return r
}
