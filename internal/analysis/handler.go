package analysis

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"revisor-backend/internal/extract"
	"revisor-backend/internal/llm"
	"revisor-backend/internal/pending"
	"revisor-backend/internal/shared/server/middleware"
	"revisor-backend/internal/shared/server/respond"
	"revisor-backend/internal/shared/storage/object"
)

// maxUploadBytes caps analysis uploads at 20 MiB.
const maxUploadBytes = 20 << 20

// Handler wires HTTP handlers to the analysis service.
type Handler struct {
	Svc       *Service
	Store     object.ObjectStore
	MaxTokens int

	// extractFn is swappable in tests.
	extractFn func(ctx context.Context, data []byte, mimeType, fileName string) (string, error)
}

// NewHandler constructs a Handler.
func NewHandler(svc *Service, store object.ObjectStore, maxTokens int) *Handler {
	return &Handler{
		Svc:       svc,
		Store:     store,
		MaxTokens: maxTokens,
		extractFn: extract.ExtractTextFromBytes,
	}
}

// RegisterRoutes attaches analysis routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/analyses", h.beginAnalysis)
	rg.POST("/analyses/resume", h.resumeAnalysis)
	rg.GET("/analyses/runs", h.listRuns)
	rg.POST("/analyses/prompt-check", h.checkPrompt)
	rg.POST("/connection-test", h.testConnection)
}

type contextField struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

func (h *Handler) beginAnalysis(c *gin.Context) {
	ownerID := middleware.UserIDFromContext(c)

	userCtx, ok := parseContextField(c)
	if !ok {
		respond.Error(c, http.StatusBadRequest, "validation_error", "context must be a JSON array of {label, value}", nil)
		return
	}

	ptdText := c.PostForm("ptd_text")
	sourceFileKey := ""

	if ptdText == "" {
		fileHeader, err := c.FormFile("ptd_file")
		if err != nil {
			respond.Error(c, http.StatusBadRequest, "validation_error", "either ptd_file or ptd_text is required", nil)
			return
		}
		if fileHeader.Size > maxUploadBytes {
			respond.Error(c, http.StatusRequestEntityTooLarge, "validation_error", "file exceeds the upload limit", nil)
			return
		}

		file, err := fileHeader.Open()
		if err != nil {
			respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to read upload", nil)
			return
		}
		data, err := io.ReadAll(io.LimitReader(file, maxUploadBytes+1))
		file.Close()
		if err != nil || int64(len(data)) > maxUploadBytes {
			respond.Error(c, http.StatusBadRequest, "validation_error", "failed to read upload", nil)
			return
		}

		mimeType := fileHeader.Header.Get("Content-Type")
		if h.Store != nil {
			key, _, detected, err := h.Store.Save(c.Request.Context(), ownerID, fileHeader.Filename, bytes.NewReader(data))
			if err != nil {
				respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to store upload", nil)
				return
			}
			sourceFileKey = key
			if mimeType == "" {
				mimeType = detected
			}
		}

		ptdText, err = h.extractFn(c.Request.Context(), data, mimeType, fileHeader.Filename)
		if err != nil {
			if errors.Is(err, extract.ErrNoTextLayer) {
				result, beginErr := h.Svc.Begin(c.Request.Context(), ownerID, "", true, userCtx, sourceFileKey)
				if beginErr != nil {
					respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to start analysis", nil)
					return
				}
				respond.JSON(c, http.StatusAccepted, gin.H{
					"pdfProcessingRequired": true,
					"requestId":             result.RequestID,
					"sourceFileKey":         sourceFileKey,
					"totalTopics":           len(Topics()),
				})
				return
			}
			respond.Error(c, http.StatusUnprocessableEntity, "extraction_error", "could not extract text from the uploaded file", nil)
			return
		}
	}

	result, err := h.Svc.Begin(c.Request.Context(), ownerID, ptdText, false, userCtx, sourceFileKey)
	if err != nil {
		h.respondAnalysisError(c, err)
		return
	}

	respond.JSON(c, http.StatusOK, gin.H{"analysis": result.Report})
}

type resumeRequest struct {
	RequestID string `json:"requestId"`
	PTDText   string `json:"ptdText"`
}

func (h *Handler) resumeAnalysis(c *gin.Context) {
	ownerID := middleware.UserIDFromContext(c)

	var req resumeRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.RequestID == "" {
		respond.Error(c, http.StatusBadRequest, "validation_error", "requestId is required", nil)
		return
	}
	if req.PTDText == "" {
		respond.Error(c, http.StatusBadRequest, "validation_error", "ptdText is required", nil)
		return
	}

	report, err := h.Svc.Resume(c.Request.Context(), ownerID, req.RequestID, req.PTDText)
	if err != nil {
		switch {
		case errors.Is(err, pending.ErrExpired):
			respond.Error(c, http.StatusGone, "request_expired", "analysis request expired or is invalid, start over", nil)
		case errors.Is(err, pending.ErrOwnerMismatch):
			respond.Error(c, http.StatusForbidden, "access_denied", "analysis request belongs to another user", nil)
		default:
			h.respondAnalysisError(c, err)
		}
		return
	}

	respond.JSON(c, http.StatusOK, gin.H{"analysis": report})
}

func (h *Handler) listRuns(c *gin.Context) {
	ownerID := middleware.UserIDFromContext(c)

	limit := 20
	offset := 0
	if v := c.Query("limit"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil && parsed >= 0 {
			limit = parsed
		}
	}
	if v := c.Query("offset"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil && parsed >= 0 {
			offset = parsed
		}
	}

	runs, err := h.Svc.RunsForOwner(c.Request.Context(), ownerID, limit, offset)
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to list runs", nil)
		return
	}

	resp := make([]gin.H, 0, len(runs))
	for _, run := range runs {
		item := gin.H{
			"id":         run.ID,
			"mode":       run.Mode,
			"status":     run.Status,
			"durationMs": run.DurationMs,
			"createdAt":  run.CreatedAt,
		}
		if run.Error != "" {
			item["error"] = run.Error
		}
		resp = append(resp, item)
	}
	respond.JSON(c, http.StatusOK, resp)
}

type promptCheckRequest struct {
	Prompt string `json:"prompt"`
}

func (h *Handler) checkPrompt(c *gin.Context) {
	var req promptCheckRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Prompt == "" {
		respond.Error(c, http.StatusBadRequest, "validation_error", "prompt is required", nil)
		return
	}
	respond.JSON(c, http.StatusOK, llm.AnalyzePrompt(req.Prompt, h.MaxTokens))
}

func (h *Handler) testConnection(c *gin.Context) {
	message, err := h.Svc.TestConnection(c.Request.Context())
	if err != nil {
		respond.Error(c, http.StatusBadGateway, "connection_failed", err.Error(), nil)
		return
	}
	respond.JSON(c, http.StatusOK, gin.H{
		"message": "Conexão estabelecida com sucesso! API respondeu: " + message,
	})
}

func (h *Handler) respondAnalysisError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, llm.ErrConfiguration):
		respond.Error(c, http.StatusServiceUnavailable, "not_configured", "text-generation API is not configured", nil)
	case errors.Is(err, llm.ErrPromptTooLong):
		respond.Error(c, http.StatusUnprocessableEntity, "prompt_too_long", "documents are too large to analyze, use smaller files", nil)
	default:
		respond.Error(c, http.StatusInternalServerError, "internal_error", "analysis failed", nil)
	}
}

func parseContextField(c *gin.Context) (UserContext, bool) {
	raw := c.PostForm("context")
	if raw == "" {
		return NewUserContext(nil), true
	}
	var fields []contextField
	if err := json.Unmarshal([]byte(raw), &fields); err != nil {
		return UserContext{}, false
	}
	pairs := make([][2]string, 0, len(fields))
	for _, f := range fields {
		if f.Label == "" {
			continue
		}
		pairs = append(pairs, [2]string{f.Label, f.Value})
	}
	return NewUserContext(pairs), true
}
