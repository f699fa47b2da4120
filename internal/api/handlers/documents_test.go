package handlers

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/tanwk/gondotrack/internal/db/repository"
	"github.com/tanwk/gondotrack/internal/models"
)

type documentEnv struct {
	router  *gin.Engine
	docs    *repository.DocumentRepository
	gondola *models.Gondola
}

func newDocumentEnv(t *testing.T) *documentEnv {
	t.Helper()

	database := newTestDB(t)
	gondolas := repository.NewGondolaRepository(database.DB)
	docs := repository.NewDocumentRepository(database.DB)
	handler := NewDocumentHandler(docs, gondolas, testLogger())

	gondola := &models.Gondola{SerialNumber: "GND-001", Status: models.GondolaStatusDeployed}
	require.NoError(t, gondolas.Create(gondola))

	router := gin.New()
	router.POST("/api/gondolas/:id/documents", handler.Upload)
	router.GET("/api/gondolas/:id/documents", handler.List)
	router.GET("/api/documents/:id/file", handler.Download)
	router.DELETE("/api/documents/:id", handler.Delete)

	return &documentEnv{router: router, docs: docs, gondola: gondola}
}

func uploadDocument(t *testing.T, router *gin.Engine, path string, fields map[string]string, fileName string, fileData []byte) *http.Response {
	t.Helper()

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	for key, value := range fields {
		require.NoError(t, writer.WriteField(key, value))
	}
	if fileName != "" {
		part, err := writer.CreateFormFile("file", fileName)
		require.NoError(t, err)
		_, err = part.Write(fileData)
		require.NoError(t, err)
	}
	require.NoError(t, writer.Close())

	req := httptest.NewRequest(http.MethodPost, path, &buf)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	return newRecorder(router, req).Result()
}

func TestDocumentUploadAndDownload(t *testing.T) {
	env := newDocumentEnv(t)

	resp := uploadDocument(t, env.router, "/api/gondolas/1/documents", map[string]string{
		"title":  "Load test certificate",
		"expiry": "2026-12-31",
	}, "cert.pdf", []byte("%PDF-1.4 fake"))
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var doc models.Document
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&doc))
	require.NotZero(t, doc.ID)
	require.NotNil(t, doc.Expiry)
	require.Equal(t, "cert.pdf", doc.FileName)

	// Listing omits the bytes; download serves them back
	req := httptest.NewRequest(http.MethodGet, "/api/gondolas/1/documents", nil)
	w := newRecorder(env.router, req)
	require.Equal(t, http.StatusOK, w.Code)

	var listed []*models.Document
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &listed))
	require.Len(t, listed, 1)

	req = httptest.NewRequest(http.MethodGet, "/api/documents/1/file", nil)
	w = newRecorder(env.router, req)
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, "%PDF-1.4 fake", w.Body.String())
	require.Contains(t, w.Header().Get("Content-Disposition"), "cert.pdf")
}

func TestDocumentUpload_Validation(t *testing.T) {
	env := newDocumentEnv(t)

	// Missing title
	resp := uploadDocument(t, env.router, "/api/gondolas/1/documents", map[string]string{}, "cert.pdf", []byte("x"))
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)

	// Bad expiry format
	resp = uploadDocument(t, env.router, "/api/gondolas/1/documents", map[string]string{
		"title":  "Cert",
		"expiry": "31/12/2026",
	}, "cert.pdf", []byte("x"))
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)

	// Missing file
	resp = uploadDocument(t, env.router, "/api/gondolas/1/documents", map[string]string{"title": "Cert"}, "", nil)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)

	// Unknown gondola
	resp = uploadDocument(t, env.router, "/api/gondolas/999/documents", map[string]string{"title": "Cert"}, "cert.pdf", []byte("x"))
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestDocumentDelete(t *testing.T) {
	env := newDocumentEnv(t)

	require.NoError(t, env.docs.Create(&models.Document{GondolaID: env.gondola.ID, Title: "Cert"}))

	req := httptest.NewRequest(http.MethodDelete, "/api/documents/1", nil)
	w := newRecorder(env.router, req)
	require.Equal(t, http.StatusOK, w.Code)

	req = httptest.NewRequest(http.MethodDelete, "/api/documents/1", nil)
	w = newRecorder(env.router, req)
	require.Equal(t, http.StatusNotFound, w.Code)
}
