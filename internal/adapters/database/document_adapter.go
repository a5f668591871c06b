package database

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/doug-martin/goqu/v9"
	"github.com/zatekoja/rfp-response-pipeline/internal/domain/entities"
	"github.com/zatekoja/rfp-response-pipeline/internal/domain/repositories"
	"github.com/zatekoja/rfp-response-pipeline/internal/infrastructure/clients/postgres"
	apperrors "github.com/zatekoja/rfp-response-pipeline/pkg/errors"
)

// DocumentAdapter implements document persistence in Postgres.
type DocumentAdapter struct {
	client *postgres.Client
	db     *goqu.Database
}

// NewDocumentAdapter creates a new document adapter.
func NewDocumentAdapter(client *postgres.Client) repositories.DocumentRepository {
	return &DocumentAdapter{
		client: client,
		db:     goqu.New("postgres", client.DB()),
	}
}

// Create inserts a document record.
func (a *DocumentAdapter) Create(ctx context.Context, document *entities.Document) error {
	if document == nil {
		return apperrors.NewInternalError("document is nil", fmt.Errorf("document is nil"))
	}

	record := goqu.Record{
		"id":           document.ID,
		"status":       string(document.Status),
		"content":      sql.NullString{String: document.Content, Valid: document.Content != ""},
		"client_name":  document.ClientName,
		"region":       document.Region,
		"industry":     document.Industry,
		"file_name":    document.FileName,
		"file_size":    document.FileSize,
		"content_type": document.ContentType,
		"storage_key":  document.StorageKey,
		"created_at":   document.CreatedAt,
		"updated_at":   document.UpdatedAt,
	}

	query, args, err := a.db.Insert("documents").Rows(record).ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build document insert query", err)
	}

	if _, err := a.client.DB().ExecContext(ctx, query, args...); err != nil {
		return apperrors.NewInternalError("failed to create document", err)
	}

	return nil
}

// GetByID retrieves a document by its id.
func (a *DocumentAdapter) GetByID(ctx context.Context, id string) (*entities.Document, error) {
	query, args, err := a.db.Select(
		"id",
		"status",
		"content",
		"client_name",
		"region",
		"industry",
		"file_name",
		"file_size",
		"content_type",
		"storage_key",
		"created_at",
		"updated_at",
	).
		From("documents").
		Where(goqu.Ex{"id": id}).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build document query", err)
	}

	var status string
	var content sql.NullString
	document := &entities.Document{}

	err = a.client.DB().QueryRowContext(ctx, query, args...).Scan(
		&document.ID,
		&status,
		&content,
		&document.ClientName,
		&document.Region,
		&document.Industry,
		&document.FileName,
		&document.FileSize,
		&document.ContentType,
		&document.StorageKey,
		&document.CreatedAt,
		&document.UpdatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("document with id %s not found", id))
	}
	if err != nil {
		return nil, apperrors.NewInternalError("failed to get document", err)
	}

	document.Status = entities.DocumentStatus(status)
	document.Content = content.String

	return document, nil
}

// Update persists the mutable document fields.
func (a *DocumentAdapter) Update(ctx context.Context, document *entities.Document) error {
	if document == nil {
		return apperrors.NewInternalError("document is nil", fmt.Errorf("document is nil"))
	}

	record := goqu.Record{
		"status":     string(document.Status),
		"content":    sql.NullString{String: document.Content, Valid: document.Content != ""},
		"updated_at": document.UpdatedAt,
	}

	query, args, err := a.db.Update("documents").
		Set(record).
		Where(goqu.Ex{"id": document.ID}).
		ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build document update query", err)
	}

	result, err := a.client.DB().ExecContext(ctx, query, args...)
	if err != nil {
		return apperrors.NewInternalError("failed to update document", err)
	}
	if rows, err := result.RowsAffected(); err == nil && rows == 0 {
		return apperrors.NewNotFoundError(fmt.Sprintf("document with id %s not found", document.ID))
	}

	return nil
}
