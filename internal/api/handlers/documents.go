package handlers

import (
	"errors"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/tanwk/gondotrack/internal/api"
	"github.com/tanwk/gondotrack/internal/db/repository"
	"github.com/tanwk/gondotrack/internal/models"
)

// maxDocumentSize bounds uploaded certificate files
const maxDocumentSize = 10 << 20 // 10 MiB

// DocumentHandler handles certificate document upload, listing and download
type DocumentHandler struct {
	docs     *repository.DocumentRepository
	gondolas *repository.GondolaRepository
	logger   *slog.Logger
}

// NewDocumentHandler creates a new document handler
func NewDocumentHandler(docs *repository.DocumentRepository, gondolas *repository.GondolaRepository, logger *slog.Logger) *DocumentHandler {
	return &DocumentHandler{docs: docs, gondolas: gondolas, logger: logger}
}

// Upload stores a document for a gondola. Multipart form fields: file,
// title, category, expiry (RFC 3339 date, optional — a document without an
// expiry never alerts).
// POST /api/gondolas/:id/documents
func (h *DocumentHandler) Upload(c *gin.Context) {
	gondolaID, ok := pathID(c, "id")
	if !ok {
		api.RespondError(c, http.StatusBadRequest, api.CodeValidation, "Invalid gondola id")
		return
	}

	if _, err := h.gondolas.GetByID(gondolaID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			api.RespondError(c, http.StatusNotFound, api.CodeNotFound, "Gondola not found")
			return
		}
		h.logger.Error("failed to get gondola", "error", err)
		api.RespondError(c, http.StatusInternalServerError, api.CodeDependency, "Failed to upload document")
		return
	}

	title := c.PostForm("title")
	if title == "" {
		api.RespondError(c, http.StatusBadRequest, api.CodeValidation, "Title is required")
		return
	}

	var expiry *time.Time
	if v := c.PostForm("expiry"); v != "" {
		t, err := time.Parse("2006-01-02", v)
		if err != nil {
			api.RespondError(c, http.StatusBadRequest, api.CodeValidation, "Expiry must be formatted as YYYY-MM-DD")
			return
		}
		expiry = &t
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		api.RespondError(c, http.StatusBadRequest, api.CodeValidation, "File is required")
		return
	}
	if fileHeader.Size > maxDocumentSize {
		api.RespondError(c, http.StatusBadRequest, api.CodeValidation, "File exceeds the 10 MiB limit")
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		h.logger.Error("failed to open upload", "error", err)
		api.RespondError(c, http.StatusInternalServerError, api.CodeDependency, "Failed to read upload")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, maxDocumentSize))
	if err != nil {
		h.logger.Error("failed to read upload", "error", err)
		api.RespondError(c, http.StatusInternalServerError, api.CodeDependency, "Failed to read upload")
		return
	}

	doc := &models.Document{
		GondolaID:   gondolaID,
		Title:       title,
		Category:    c.PostForm("category"),
		Expiry:      expiry,
		FileName:    fileHeader.Filename,
		ContentType: fileHeader.Header.Get("Content-Type"),
		FileData:    data,
	}
	if err := h.docs.Create(doc); err != nil {
		h.logger.Error("failed to store document", "error", err)
		api.RespondError(c, http.StatusInternalServerError, api.CodeDependency, "Failed to store document")
		return
	}

	api.RespondSuccess(c, doc)
}

// List lists a gondola's documents without file contents
// GET /api/gondolas/:id/documents
func (h *DocumentHandler) List(c *gin.Context) {
	gondolaID, ok := pathID(c, "id")
	if !ok {
		api.RespondError(c, http.StatusBadRequest, api.CodeValidation, "Invalid gondola id")
		return
	}

	docs, err := h.docs.ListByGondola(gondolaID)
	if err != nil {
		h.logger.Error("failed to list documents", "error", err)
		api.RespondError(c, http.StatusInternalServerError, api.CodeDependency, "Failed to list documents")
		return
	}

	api.RespondSuccess(c, docs)
}

// Download serves a document's file bytes
// GET /api/documents/:id/file
func (h *DocumentHandler) Download(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		api.RespondError(c, http.StatusBadRequest, api.CodeValidation, "Invalid document id")
		return
	}

	doc, err := h.docs.GetByID(id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			api.RespondError(c, http.StatusNotFound, api.CodeNotFound, "Document not found")
			return
		}
		h.logger.Error("failed to get document", "error", err)
		api.RespondError(c, http.StatusInternalServerError, api.CodeDependency, "Failed to get document")
		return
	}

	contentType := doc.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	if doc.FileName != "" {
		c.Header("Content-Disposition", `attachment; filename="`+doc.FileName+`"`)
	}
	c.Data(http.StatusOK, contentType, doc.FileData)
}

// Delete deletes a document
// DELETE /api/documents/:id
func (h *DocumentHandler) Delete(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		api.RespondError(c, http.StatusBadRequest, api.CodeValidation, "Invalid document id")
		return
	}

	if err := h.docs.Delete(id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			api.RespondError(c, http.StatusNotFound, api.CodeNotFound, "Document not found")
			return
		}
		h.logger.Error("failed to delete document", "error", err)
		api.RespondError(c, http.StatusInternalServerError, api.CodeDependency, "Failed to delete document")
		return
	}

	api.RespondSuccess(c, api.MessageResponse{Message: "Document deleted"})
}
