package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/SAP-F-2025/activity-service/internal/engine"
	"github.com/SAP-F-2025/activity-service/internal/services"
	"github.com/SAP-F-2025/activity-service/internal/utils"
)

// ===== COMMON RESPONSE STRUCTURES =====

// ErrorResponse represents an error response
type ErrorResponse struct {
	Message string      `json:"message"`
	Details interface{} `json:"details,omitempty"`
	Code    string      `json:"code,omitempty"`
}

// ===== BASE HANDLER STRUCT =====

// BaseHandler provides common logging functionality for all handlers
type BaseHandler struct {
	logger utils.Logger
}

func NewBaseHandler(logger utils.Logger) BaseHandler {
	return BaseHandler{
		logger: logger,
	}
}

// LogRequest logs incoming HTTP requests with the request scoped logger
func (h *BaseHandler) LogRequest(c *gin.Context, message string, additionalFields ...interface{}) {
	utils.GetLoggerFromContext(c, h.logger).Debug(message, additionalFields...)
}

// LogError logs error details with context information
func (h *BaseHandler) LogError(c *gin.Context, err error, message string, additionalFields ...interface{}) {
	utils.GetLoggerFromContext(c, h.logger).LogError(err, message, additionalFields...)
}

// RespondWithError sends a consistent error response and logs server failures
func (h *BaseHandler) RespondWithError(c *gin.Context, statusCode int, message string, err error, details ...interface{}) {
	errorResp := ErrorResponse{
		Message: message,
	}
	if len(details) > 0 {
		errorResp.Details = details[0]
	}

	if statusCode >= http.StatusInternalServerError && err != nil {
		h.LogError(c, err, message, "status_code", statusCode)
	}
	c.JSON(statusCode, errorResp)
}

// handleServiceError maps service and engine errors to HTTP responses.
// Rejected input is answered with 422, the reason and the unchanged state.
func (h *BaseHandler) handleServiceError(c *gin.Context, err error, state *services.SessionState) {
	var validationErrors services.ValidationErrors
	if errors.As(err, &validationErrors) {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Validation failed",
			Details: validationErrors,
		})
		return
	}

	if re, ok := engine.IsRejection(err); ok {
		resp := ErrorResponse{
			Message: engine.Message("", re.Reason),
			Code:    string(re.Reason),
		}
		if state != nil {
			resp.Message = engine.Message(state.Language, re.Reason)
			resp.Details = state
		}
		c.JSON(http.StatusUnprocessableEntity, resp)
		return
	}

	switch {
	case errors.Is(err, services.ErrActivityNotFound):
		h.RespondWithError(c, http.StatusNotFound, "Activity not found", err)
	case errors.Is(err, services.ErrSessionNotFound):
		h.RespondWithError(c, http.StatusNotFound, "Session not found", err)
	case errors.Is(err, services.ErrSessionLimit):
		h.RespondWithError(c, http.StatusServiceUnavailable, "Too many open sessions", err)
	case services.IsNotFound(err):
		h.RespondWithError(c, http.StatusNotFound, err.Error(), err)
	case services.IsValidation(err):
		h.RespondWithError(c, http.StatusBadRequest, err.Error(), err)
	case services.IsConflict(err):
		c.JSON(http.StatusConflict, ErrorResponse{
			Message: err.Error(),
			Details: state,
		})
	default:
		h.RespondWithError(c, http.StatusInternalServerError, "Internal server error", err)
	}
}
