package repository

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/tanwk/gondotrack/internal/models"
)

// DocumentRepository handles certificate-bearing document data access.
// File bytes live in a BLOB column; list queries leave them out so the
// expiry-alert evaluator never drags file contents through memory.
type DocumentRepository struct {
	db *sql.DB
}

// NewDocumentRepository creates a new document repository
func NewDocumentRepository(db *sql.DB) *DocumentRepository {
	return &DocumentRepository{db: db}
}

// Create stores a new document including its file bytes
func (r *DocumentRepository) Create(doc *models.Document) error {
	query := `
		INSERT INTO documents (gondola_id, title, category, expiry, file_name, content_type, file_data)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`

	result, err := r.db.Exec(query,
		doc.GondolaID,
		doc.Title,
		doc.Category,
		nullableTime(doc.Expiry),
		doc.FileName,
		doc.ContentType,
		doc.FileData,
	)
	if err != nil {
		return fmt.Errorf("failed to create document: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}

	doc.ID = id
	doc.UploadedAt = time.Now()

	return nil
}

// GetByID retrieves a document including file bytes
func (r *DocumentRepository) GetByID(id int64) (*models.Document, error) {
	query := `
		SELECT id, gondola_id, title, category, expiry, file_name, content_type, file_data, uploaded_at
		FROM documents
		WHERE id = ?
	`

	doc := &models.Document{}
	var category, fileName, contentType sql.NullString
	var expiry sql.NullTime

	err := r.db.QueryRow(query, id).Scan(
		&doc.ID,
		&doc.GondolaID,
		&doc.Title,
		&category,
		&expiry,
		&fileName,
		&contentType,
		&doc.FileData,
		&doc.UploadedAt,
	)

	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get document: %w", err)
	}

	doc.Category = category.String
	doc.FileName = fileName.String
	doc.ContentType = contentType.String
	doc.Expiry = timePtr(expiry)

	return doc, nil
}

// ListByGondola lists a gondola's documents without file bytes
func (r *DocumentRepository) ListByGondola(gondolaID int64) ([]*models.Document, error) {
	query := `
		SELECT id, gondola_id, title, category, expiry, file_name, content_type, uploaded_at
		FROM documents
		WHERE gondola_id = ?
		ORDER BY uploaded_at DESC
	`

	rows, err := r.db.Query(query, gondolaID)
	if err != nil {
		return nil, fmt.Errorf("failed to list documents: %w", err)
	}
	defer rows.Close()

	var docs []*models.Document

	for rows.Next() {
		doc := &models.Document{}
		var category, fileName, contentType sql.NullString
		var expiry sql.NullTime

		err := rows.Scan(
			&doc.ID,
			&doc.GondolaID,
			&doc.Title,
			&category,
			&expiry,
			&fileName,
			&contentType,
			&doc.UploadedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan document: %w", err)
		}

		doc.Category = category.String
		doc.FileName = fileName.String
		doc.ContentType = contentType.String
		doc.Expiry = timePtr(expiry)
		docs = append(docs, doc)
	}

	return docs, rows.Err()
}

// Delete deletes a document
func (r *DocumentRepository) Delete(id int64) error {
	res, err := r.db.Exec(`DELETE FROM documents WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete document: %w", err)
	}

	return requireAffected(res)
}
