package server

import (
	"context"
	"errors"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"accounfix/internal/domain"
	"accounfix/internal/integrations/ai"
	"accounfix/internal/integrations/erp"
	"accounfix/internal/report"
	"accounfix/internal/store"
)

// chatBusyReply replaces an empty assistant response; an empty reply is a
// soft condition, not an error.
const chatBusyReply = "The assistant is busy right now. Please try again."

type Handler struct {
	store           *store.ErrorStore
	gateway         ai.Gateway
	sync            *erp.Service
	defaultReporter string

	// runAsync launches the sync completion; tests swap it to run inline.
	runAsync func(fn func())
}

func NewHandler(s *store.ErrorStore, gw ai.Gateway, sync *erp.Service, defaultReporter string) *Handler {
	return &Handler{
		store:           s,
		gateway:         gw,
		sync:            sync,
		defaultReporter: defaultReporter,
		runAsync:        func(fn func()) { go fn() },
	}
}

func Register(e *echo.Echo, h *Handler) {
	e.GET("/health", h.Health)
	e.GET("/api/meta", h.Meta)
	e.GET("/api/stats", h.Stats)
	e.GET("/api/errors", h.ListErrors)
	e.GET("/api/errors/:id", h.GetError)
	e.POST("/api/errors", h.CreateError)
	e.PATCH("/api/errors/:id/status", h.UpdateStatus)
	e.POST("/api/errors/:id/chat", h.Chat)
	e.POST("/api/errors/:id/sync", h.Sync)
	e.GET("/api/export", h.Export)
}

func (h *Handler) Health(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]any{
		"status": "ok",
		"time":   time.Now().UTC().Format(time.RFC3339Nano),
	})
}

// Meta exposes the enum value sets so a front end can label controls
// without hard-coding them.
func (h *Handler) Meta(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]any{
		"categories": domain.Categories(),
		"priorities": domain.Priorities(),
		"statuses":   domain.Statuses(),
	})
}

func (h *Handler) Stats(c echo.Context) error {
	return c.JSON(http.StatusOK, h.store.Stats())
}

func (h *Handler) ListErrors(c echo.Context) error {
	return c.JSON(http.StatusOK, h.store.Filter(c.QueryParam("q")))
}

func (h *Handler) GetError(c echo.Context) error {
	rec, err := h.store.Get(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusNotFound, ErrorResponse{Error: "error record not found"})
	}
	return c.JSON(http.StatusOK, rec)
}

type createErrorReq struct {
	Title       string  `json:"title" validate:"required"`
	Description string  `json:"description" validate:"required"`
	Reporter    string  `json:"reporter"`
	Amount      float64 `json:"amount" validate:"gte=0"`
	VoucherNo   string  `json:"voucherNo"`
	ImageBase64 string  `json:"imageUrl"`
}

// CreateError validates the submission, asks the classifier for a verdict
// and stores the new record. Classification failure never blocks creation;
// the gateway hands back the fixed fallback instead.
func (h *Handler) CreateError(c echo.Context) error {
	var req createErrorReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	req.Title = strings.TrimSpace(req.Title)
	req.Description = strings.TrimSpace(req.Description)
	// Validation must block before any AI call is attempted.
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "validation failed", Details: ToFieldErrors(err)})
	}

	analysis := h.gateway.Analyze(c.Request().Context(), req.Description, req.ImageBase64)

	reporter := strings.TrimSpace(req.Reporter)
	if reporter == "" {
		reporter = h.defaultReporter
	}
	rec := h.store.Create(store.CreateInput{
		Title:           req.Title,
		Description:     req.Description,
		Category:        analysis.Category,
		Priority:        analysis.Priority,
		Reporter:        reporter,
		Amount:          req.Amount,
		VoucherNo:       req.VoucherNo,
		ImageBase64:     req.ImageBase64,
		AISuggestion:    analysis.Suggestion,
		PotentialImpact: analysis.PotentialImpact,
	})
	log.Printf("error created id=%s category=%s priority=%s reporter=%q", rec.ID, rec.Category, rec.Priority, rec.Reporter)
	return c.JSON(http.StatusCreated, rec)
}

type updateStatusReq struct {
	Status string `json:"status" validate:"required"`
}

func (h *Handler) UpdateStatus(c echo.Context) error {
	var req updateStatusReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "validation failed", Details: ToFieldErrors(err)})
	}

	rec, err := h.store.UpdateStatus(c.Param("id"), req.Status)
	switch {
	case errors.Is(err, store.ErrInvalidStatus):
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "unknown status value"})
	case errors.Is(err, store.ErrNotFound):
		return c.JSON(http.StatusNotFound, ErrorResponse{Error: "error record not found"})
	case err != nil:
		return c.JSON(http.StatusInternalServerError, ErrorResponse{Error: err.Error()})
	}
	log.Printf("status updated id=%s status=%s", rec.ID, rec.Status)
	return c.JSON(http.StatusOK, rec)
}

type chatReq struct {
	Message string `json:"message" validate:"required"`
}

// Chat appends the user's message first, then asks the assistant. On
// failure the user message stays and no reply is appended, so the user can
// simply resend.
func (h *Handler) Chat(c echo.Context) error {
	var req chatReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	req.Message = strings.TrimSpace(req.Message)
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "validation failed", Details: ToFieldErrors(err)})
	}

	id := c.Param("id")
	rec, err := h.store.Get(id)
	if err != nil {
		return c.JSON(http.StatusNotFound, ErrorResponse{Error: "error record not found"})
	}
	priorHistory := rec.ChatHistory

	if _, err := h.store.AppendChatMessage(id, domain.ChatMessage{Role: domain.RoleUser, Text: req.Message}); err != nil {
		return c.JSON(http.StatusNotFound, ErrorResponse{Error: "error record not found"})
	}

	reply, err := h.gateway.Chat(c.Request().Context(), rec, priorHistory, req.Message)
	if err != nil {
		log.Printf("chat failed record=%s err=%v", id, err)
		return c.JSON(http.StatusBadGateway, ErrorResponse{Error: "assistant unavailable, try again"})
	}
	if strings.TrimSpace(reply) == "" {
		reply = chatBusyReply
	}

	updated, err := h.store.AppendChatMessage(id, domain.ChatMessage{Role: domain.RoleModel, Text: reply})
	if err != nil {
		return c.JSON(http.StatusNotFound, ErrorResponse{Error: "error record not found"})
	}
	return c.JSON(http.StatusOK, updated)
}

// Sync acknowledges the push immediately and completes it in the
// background, preserving the started/completed two-phase feedback: the 202
// response is the start signal, the stamped externalSyncId (and log line)
// the completion.
func (h *Handler) Sync(c echo.Context) error {
	id := c.Param("id")
	if _, err := h.store.Get(id); err != nil {
		return c.JSON(http.StatusNotFound, ErrorResponse{Error: "error record not found"})
	}

	h.runAsync(func() {
		// Detached from the request context: the push outlives the 202.
		if _, err := h.sync.Sync(context.Background(), id); err != nil {
			log.Printf("background erp sync error record=%s err=%v", id, err)
		}
	})
	return c.JSON(http.StatusAccepted, map[string]string{
		"id":      id,
		"message": "connecting to Microsoft Dynamics 365, sync started",
	})
}

func (h *Handler) Export(c echo.Context) error {
	records := h.store.List()
	switch c.QueryParam("format") {
	case "", "csv":
		c.Response().Header().Set(echo.HeaderContentType, "text/csv; charset=utf-8")
		c.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename=`+report.CSVFileName)
		c.Response().WriteHeader(http.StatusOK)
		return report.WriteCSV(c.Response(), records)
	case "xlsx":
		c.Response().Header().Set(echo.HeaderContentType, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		c.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename=`+report.XLSXFileName)
		c.Response().WriteHeader(http.StatusOK)
		return report.WriteXLSX(c.Response(), records)
	default:
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "unknown export format"})
	}
}
