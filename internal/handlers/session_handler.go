package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/SAP-F-2025/activity-service/internal/engine"
	"github.com/SAP-F-2025/activity-service/internal/services"
	"github.com/SAP-F-2025/activity-service/internal/utils"
	"github.com/SAP-F-2025/activity-service/internal/validator"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// ===== REQUEST STRUCTURES =====

type OpenSessionRequest struct {
	Activity string `json:"activity" validate:"required"`
}

type ConfirmNameRequest struct {
	Name string `json:"name" validate:"student_name"`
}

type SelectOptionRequest struct {
	Item   *int `json:"item" validate:"required,min=0"`
	Option *int `json:"option" validate:"required"`
}

type DropTileRequest struct {
	Tile *int `json:"tile" validate:"required,min=0"`
	Word *int `json:"word" validate:"omitempty,min=0"`
}

type TypeKeyRequest struct {
	Key   string `json:"key" validate:"required"`
	Focus string `json:"focus" validate:"omitempty,oneof=page text_field"`
}

type NavigateRequest struct {
	Action string `json:"action" validate:"required,oneof=next previous goto"`
	Index  int    `json:"index" validate:"min=0"`
}

type SessionHandler struct {
	BaseHandler
	sessions  *services.SessionService
	reports   *services.ReportService
	validator *validator.Validator
}

func NewSessionHandler(
	sessions *services.SessionService,
	reports *services.ReportService,
	validator *validator.Validator,
	logger utils.Logger,
) *SessionHandler {
	return &SessionHandler{
		BaseHandler: NewBaseHandler(logger),
		sessions:    sessions,
		reports:     reports,
		validator:   validator,
	}
}

// OpenSession starts an attempt for a shared activity link
// @Router /sessions [post]
func (h *SessionHandler) OpenSession(c *gin.Context) {
	var req OpenSessionRequest
	if !h.bind(c, &req) {
		return
	}

	h.LogRequest(c, "Opening session", "activity", req.Activity)

	session, err := h.sessions.Open(c.Request.Context(), req.Activity)
	if err != nil {
		h.handleServiceError(c, err, nil)
		return
	}

	c.JSON(http.StatusCreated, session.State())
}

// GetSession returns the current snapshot
// @Router /sessions/{id} [get]
func (h *SessionHandler) GetSession(c *gin.Context) {
	id := ParseStringIDParam(c, "id")
	if id == "" {
		return
	}

	state, err := h.sessions.State(c.Request.Context(), id)
	h.respond(c, state, err)
}

// CloseSession tears down the attempt and its timers
// @Router /sessions/{id} [delete]
func (h *SessionHandler) CloseSession(c *gin.Context) {
	id := ParseStringIDParam(c, "id")
	if id == "" {
		return
	}

	if err := h.sessions.Close(c.Request.Context(), id); err != nil {
		h.handleServiceError(c, err, nil)
		return
	}
	c.Status(http.StatusNoContent)
}

// ConfirmName starts the attempt with the student's name
// @Router /sessions/{id}/name [post]
func (h *SessionHandler) ConfirmName(c *gin.Context) {
	id := ParseStringIDParam(c, "id")
	if id == "" {
		return
	}
	var req ConfirmNameRequest
	if !h.bind(c, &req) {
		return
	}

	state, err := h.sessions.ConfirmName(c.Request.Context(), id, req.Name)
	h.respond(c, state, err)
}

// SelectOption answers a quiz question
// @Router /sessions/{id}/answer [post]
func (h *SessionHandler) SelectOption(c *gin.Context) {
	id := ParseStringIDParam(c, "id")
	if id == "" {
		return
	}
	var req SelectOptionRequest
	if !h.bind(c, &req) {
		return
	}

	state, err := h.sessions.SelectOption(c.Request.Context(), id, *req.Item, *req.Option)
	h.respond(c, state, err)
}

// ClickTile places a tile in the next empty slot
// @Router /sessions/{id}/tiles/{tile}/click [post]
func (h *SessionHandler) ClickTile(c *gin.Context) {
	id := ParseStringIDParam(c, "id")
	if id == "" {
		return
	}
	tile, ok := ParseIndexParam(c, "tile")
	if !ok {
		return
	}
	word, ok := ParseIntQuery(c, "word", services.CurrentWord)
	if !ok {
		return
	}

	state, err := h.sessions.ClickTile(c.Request.Context(), id, word, tile)
	h.respond(c, state, err)
}

// DropTile places a dragged tile in a specific slot
// @Router /sessions/{id}/slots/{slot}/drop [post]
func (h *SessionHandler) DropTile(c *gin.Context) {
	id := ParseStringIDParam(c, "id")
	if id == "" {
		return
	}
	slot, ok := ParseIndexParam(c, "slot")
	if !ok {
		return
	}
	var req DropTileRequest
	if !h.bind(c, &req) {
		return
	}
	word := services.CurrentWord
	if req.Word != nil {
		word = *req.Word
	}

	state, err := h.sessions.DropTile(c.Request.Context(), id, word, *req.Tile, slot)
	h.respond(c, state, err)
}

// ClearSlot takes the tile out of one slot
// @Router /sessions/{id}/slots/{slot} [delete]
func (h *SessionHandler) ClearSlot(c *gin.Context) {
	id := ParseStringIDParam(c, "id")
	if id == "" {
		return
	}
	slot, ok := ParseIndexParam(c, "slot")
	if !ok {
		return
	}
	word, ok := ParseIntQuery(c, "word", services.CurrentWord)
	if !ok {
		return
	}

	state, err := h.sessions.ClearSlot(c.Request.Context(), id, word, slot)
	h.respond(c, state, err)
}

// TypeKey forwards a keyboard key
// @Router /sessions/{id}/keys [post]
func (h *SessionHandler) TypeKey(c *gin.Context) {
	id := ParseStringIDParam(c, "id")
	if id == "" {
		return
	}
	var req TypeKeyRequest
	if !h.bind(c, &req) {
		return
	}
	focus := engine.FocusPage
	if req.Focus == "text_field" {
		focus = engine.FocusTextField
	}

	state, err := h.sessions.TypeKey(c.Request.Context(), id, req.Key, focus)
	h.respond(c, state, err)
}

// UndoLetter removes the last placed letter
// @Router /sessions/{id}/undo [post]
func (h *SessionHandler) UndoLetter(c *gin.Context) {
	id := ParseStringIDParam(c, "id")
	if id == "" {
		return
	}
	word, ok := ParseIntQuery(c, "word", services.CurrentWord)
	if !ok {
		return
	}

	state, err := h.sessions.UndoLetter(c.Request.Context(), id, word)
	h.respond(c, state, err)
}

// ResetWord empties every slot of a word
// @Router /sessions/{id}/reset [post]
func (h *SessionHandler) ResetWord(c *gin.Context) {
	id := ParseStringIDParam(c, "id")
	if id == "" {
		return
	}
	word, ok := ParseIntQuery(c, "word", services.CurrentWord)
	if !ok {
		return
	}

	state, err := h.sessions.ResetWord(c.Request.Context(), id, word)
	h.respond(c, state, err)
}

// Navigate moves between items
// @Router /sessions/{id}/navigate [post]
func (h *SessionHandler) Navigate(c *gin.Context) {
	id := ParseStringIDParam(c, "id")
	if id == "" {
		return
	}
	var req NavigateRequest
	if !h.bind(c, &req) {
		return
	}

	state, err := h.sessions.Navigate(c.Request.Context(), id, services.NavigationAction(req.Action), req.Index)
	h.respond(c, state, err)
}

// Submit finalizes the attempt
// @Router /sessions/{id}/submit [post]
func (h *SessionHandler) Submit(c *gin.Context) {
	id := ParseStringIDParam(c, "id")
	if id == "" {
		return
	}

	state, err := h.sessions.Submit(c.Request.Context(), id)
	h.respond(c, state, err)
}

// DrainNotices returns and clears pending notices
// @Router /sessions/{id}/notices [get]
func (h *SessionHandler) DrainNotices(c *gin.Context) {
	id := ParseStringIDParam(c, "id")
	if id == "" {
		return
	}

	notices, err := h.sessions.DrainNotices(id)
	if err != nil {
		h.handleServiceError(c, err, nil)
		return
	}
	c.JSON(http.StatusOK, gin.H{"notices": notices})
}

// DownloadResult returns the submitted attempt as a workbook
// @Router /sessions/{id}/result.xlsx [get]
func (h *SessionHandler) DownloadResult(c *gin.Context) {
	id := ParseStringIDParam(c, "id")
	if id == "" {
		return
	}

	def, result, err := h.sessions.Result(id)
	if err != nil {
		h.handleServiceError(c, err, nil)
		return
	}

	data, err := h.reports.AttemptWorkbook(def, result)
	if err != nil {
		h.handleServiceError(c, err, nil)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s-result.xlsx"`, def.ID))
	c.Data(http.StatusOK, xlsxContentType, data)
}

func (h *SessionHandler) bind(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return false
	}
	if err := h.validator.ValidateStruct(req); err != nil {
		h.handleServiceError(c, err, nil)
		return false
	}
	return true
}

func (h *SessionHandler) respond(c *gin.Context, state *services.SessionState, err error) {
	if err != nil {
		h.handleServiceError(c, err, state)
		return
	}
	c.JSON(http.StatusOK, state)
}
