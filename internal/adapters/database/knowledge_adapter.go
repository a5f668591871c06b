package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/doug-martin/goqu/v9"
	"github.com/zatekoja/rfp-response-pipeline/internal/domain/entities"
	"github.com/zatekoja/rfp-response-pipeline/internal/domain/repositories"
	"github.com/zatekoja/rfp-response-pipeline/internal/infrastructure/clients/postgres"
	apperrors "github.com/zatekoja/rfp-response-pipeline/pkg/errors"
)

const knowledgeColumnsTable = "knowledge_entries"

// KnowledgeAdapter implements knowledge base persistence in Postgres.
type KnowledgeAdapter struct {
	client *postgres.Client
	db     *goqu.Database
}

// NewKnowledgeAdapter creates a new knowledge adapter.
func NewKnowledgeAdapter(client *postgres.Client) repositories.KnowledgeRepository {
	return &KnowledgeAdapter{
		client: client,
		db:     goqu.New("postgres", client.DB()),
	}
}

// Create inserts a knowledge entry.
func (a *KnowledgeAdapter) Create(ctx context.Context, entry *entities.KnowledgeEntry) error {
	if entry == nil {
		return apperrors.NewInternalError("knowledge entry is nil", fmt.Errorf("knowledge entry is nil"))
	}

	contentData, err := json.Marshal(entry.ContentData)
	if err != nil {
		return apperrors.NewInternalError("failed to marshal content data", err)
	}

	record := goqu.Record{
		"id":           entry.ContentID,
		"content_type": string(entry.ContentType),
		"title":        entry.Title,
		"content_data": contentData,
		"description":  sql.NullString{String: entry.Description, Valid: entry.Description != ""},
		"created_at":   entry.CreatedAt,
		"updated_at":   entry.UpdatedAt,
	}

	query, args, err := a.db.Insert(knowledgeColumnsTable).Rows(record).ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build knowledge insert query", err)
	}

	if _, err := a.client.DB().ExecContext(ctx, query, args...); err != nil {
		return apperrors.NewInternalError("failed to create knowledge entry", err)
	}

	return nil
}

// GetByID retrieves a knowledge entry by its id.
func (a *KnowledgeAdapter) GetByID(ctx context.Context, id string) (*entities.KnowledgeEntry, error) {
	query, args, err := a.selectQuery().
		Where(goqu.Ex{"id": id}).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build knowledge query", err)
	}

	row := a.client.DB().QueryRowContext(ctx, query, args...)
	entry, err := scanKnowledgeEntry(row.Scan)
	if err == sql.ErrNoRows {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("knowledge entry with id %s not found", id))
	}
	if err != nil {
		return nil, apperrors.NewInternalError("failed to get knowledge entry", err)
	}

	return entry, nil
}

// ListByType retrieves all entries of a content type.
func (a *KnowledgeAdapter) ListByType(ctx context.Context, contentType entities.KnowledgeContentType) ([]*entities.KnowledgeEntry, error) {
	query, args, err := a.selectQuery().
		Where(goqu.Ex{"content_type": string(contentType)}).
		Order(goqu.I("created_at").Asc()).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build knowledge list query", err)
	}

	return a.queryEntries(ctx, query, args)
}

// List retrieves all knowledge entries.
func (a *KnowledgeAdapter) List(ctx context.Context) ([]*entities.KnowledgeEntry, error) {
	query, args, err := a.selectQuery().
		Order(goqu.I("created_at").Asc()).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build knowledge list query", err)
	}

	return a.queryEntries(ctx, query, args)
}

// Update persists a knowledge entry's mutable fields.
func (a *KnowledgeAdapter) Update(ctx context.Context, entry *entities.KnowledgeEntry) error {
	if entry == nil {
		return apperrors.NewInternalError("knowledge entry is nil", fmt.Errorf("knowledge entry is nil"))
	}

	contentData, err := json.Marshal(entry.ContentData)
	if err != nil {
		return apperrors.NewInternalError("failed to marshal content data", err)
	}

	record := goqu.Record{
		"content_type": string(entry.ContentType),
		"title":        entry.Title,
		"content_data": contentData,
		"description":  sql.NullString{String: entry.Description, Valid: entry.Description != ""},
		"updated_at":   entry.UpdatedAt,
	}

	query, args, err := a.db.Update(knowledgeColumnsTable).
		Set(record).
		Where(goqu.Ex{"id": entry.ContentID}).
		ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build knowledge update query", err)
	}

	result, err := a.client.DB().ExecContext(ctx, query, args...)
	if err != nil {
		return apperrors.NewInternalError("failed to update knowledge entry", err)
	}
	if rows, err := result.RowsAffected(); err == nil && rows == 0 {
		return apperrors.NewNotFoundError(fmt.Sprintf("knowledge entry with id %s not found", entry.ContentID))
	}

	return nil
}

// Delete removes a knowledge entry.
func (a *KnowledgeAdapter) Delete(ctx context.Context, id string) error {
	query, args, err := a.db.Delete(knowledgeColumnsTable).
		Where(goqu.Ex{"id": id}).
		ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build knowledge delete query", err)
	}

	result, err := a.client.DB().ExecContext(ctx, query, args...)
	if err != nil {
		return apperrors.NewInternalError("failed to delete knowledge entry", err)
	}
	if rows, err := result.RowsAffected(); err == nil && rows == 0 {
		return apperrors.NewNotFoundError(fmt.Sprintf("knowledge entry with id %s not found", id))
	}

	return nil
}

func (a *KnowledgeAdapter) selectQuery() *goqu.SelectDataset {
	return a.db.Select(
		"id",
		"content_type",
		"title",
		"content_data",
		"description",
		"created_at",
		"updated_at",
	).From(knowledgeColumnsTable)
}

func (a *KnowledgeAdapter) queryEntries(ctx context.Context, query string, args []interface{}) ([]*entities.KnowledgeEntry, error) {
	rows, err := a.client.DB().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to list knowledge entries", err)
	}
	defer rows.Close()

	var entries []*entities.KnowledgeEntry
	for rows.Next() {
		entry, err := scanKnowledgeEntry(rows.Scan)
		if err != nil {
			return nil, apperrors.NewInternalError("failed to scan knowledge entry", err)
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewInternalError("failed to iterate knowledge entries", err)
	}

	return entries, nil
}

func scanKnowledgeEntry(scan func(dest ...interface{}) error) (*entities.KnowledgeEntry, error) {
	var contentType string
	var contentDataRaw []byte
	var description sql.NullString
	entry := &entities.KnowledgeEntry{}

	err := scan(
		&entry.ContentID,
		&contentType,
		&entry.Title,
		&contentDataRaw,
		&description,
		&entry.CreatedAt,
		&entry.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	entry.ContentType = entities.KnowledgeContentType(contentType)
	entry.Description = description.String
	if len(contentDataRaw) > 0 {
		_ = json.Unmarshal(contentDataRaw, &entry.ContentData)
	}

	return entry, nil
}
