package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/SAP-F-2025/activity-service/internal/services"
	"github.com/SAP-F-2025/activity-service/internal/utils"
	"github.com/SAP-F-2025/activity-service/internal/validator"
)

// Pinger reports whether a backing store is reachable
type Pinger interface {
	Ping(ctx context.Context) error
}

type HandlerManager struct {
	sessionHandler *SessionHandler
	sessions       *services.SessionService
	store          Pinger
}

func NewHandlerManager(
	sessions *services.SessionService,
	reports *services.ReportService,
	store Pinger,
	validator *validator.Validator,
	logger utils.Logger,
) *HandlerManager {
	return &HandlerManager{
		sessionHandler: NewSessionHandler(sessions, reports, validator, logger),
		sessions:       sessions,
		store:          store,
	}
}

// SetupRoutes sets up all API routes
func (hm *HandlerManager) SetupRoutes(router *gin.Engine) {
	// Health check endpoint
	router.GET("/health", hm.HealthCheck)

	// API v1 routes
	v1 := router.Group("/api/v1")
	{
		sessions := v1.Group("/sessions")
		{
			sessions.POST("", hm.sessionHandler.OpenSession)
			sessions.GET("/:id", hm.sessionHandler.GetSession)
			sessions.DELETE("/:id", hm.sessionHandler.CloseSession)
			sessions.POST("/:id/name", hm.sessionHandler.ConfirmName)
			sessions.POST("/:id/submit", hm.sessionHandler.Submit)
			sessions.POST("/:id/navigate", hm.sessionHandler.Navigate)
			sessions.GET("/:id/notices", hm.sessionHandler.DrainNotices)
			sessions.GET("/:id/result.xlsx", hm.sessionHandler.DownloadResult)

			// Quiz input
			sessions.POST("/:id/answer", hm.sessionHandler.SelectOption)

			// Anagram input
			sessions.POST("/:id/tiles/:tile/click", hm.sessionHandler.ClickTile)
			sessions.POST("/:id/slots/:slot/drop", hm.sessionHandler.DropTile)
			sessions.DELETE("/:id/slots/:slot", hm.sessionHandler.ClearSlot)
			sessions.POST("/:id/keys", hm.sessionHandler.TypeKey)
			sessions.POST("/:id/undo", hm.sessionHandler.UndoLetter)
			sessions.POST("/:id/reset", hm.sessionHandler.ResetWord)
		}
	}
}

func (hm *HandlerManager) HealthCheck(c *gin.Context) {
	status, code := "healthy", http.StatusOK
	if hm.store != nil {
		if err := hm.store.Ping(c.Request.Context()); err != nil {
			status, code = "degraded", http.StatusServiceUnavailable
		}
	}
	c.JSON(code, gin.H{
		"status":   status,
		"service":  "activity-service",
		"sessions": hm.sessions.Count(),
	})
}
