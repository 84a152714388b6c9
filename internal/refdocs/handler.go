package refdocs

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"revisor-backend/internal/shared/server/respond"
)

// maxUploadBytes caps reference-document uploads at 32 MiB.
const maxUploadBytes = 32 << 20

// Handler wires HTTP handlers to the reference-document service.
type Handler struct {
	Svc *Service
}

// NewHandler constructs a Handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

// RegisterRoutes attaches reference-document routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/reference-documents", h.list)
	rg.POST("/reference-documents", h.upload)
	rg.DELETE("/reference-documents/:id", h.remove)
}

func (h *Handler) list(c *gin.Context) {
	docs, err := h.Svc.List(c.Request.Context())
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to list reference documents", nil)
		return
	}
	if docs == nil {
		docs = []Document{}
	}
	respond.JSON(c, http.StatusOK, docs)
}

func (h *Handler) upload(c *gin.Context) {
	identifier := c.PostForm("identifier")
	if identifier == "" {
		respond.Error(c, http.StatusBadRequest, "validation_error", "identifier is required", nil)
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "file is required", nil)
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

	doc, err := h.Svc.Upload(
		c.Request.Context(),
		identifier,
		c.PostForm("title"),
		c.PostForm("description"),
		fileHeader.Filename,
		data,
	)
	if err != nil {
		switch {
		case errors.Is(err, ErrDuplicateIdentifier):
			respond.Error(c, http.StatusConflict, "duplicate_identifier", "a document with this identifier already exists", nil)
		default:
			respond.Error(c, http.StatusUnprocessableEntity, "upload_failed", "could not process the uploaded document", nil)
		}
		return
	}

	respond.JSON(c, http.StatusCreated, doc)
}

func (h *Handler) remove(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		respond.Error(c, http.StatusBadRequest, "validation_error", "document id is required", nil)
		return
	}

	if err := h.Svc.Delete(c.Request.Context(), id); err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			respond.Error(c, http.StatusNotFound, "not_found", "reference document not found", nil)
		default:
			respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to delete reference document", nil)
		}
		return
	}

	c.Status(http.StatusNoContent)
}
