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

// ProcessAdapter implements process persistence in Postgres. Stage
// state is stored as one JSONB column since it is always read and
// written as a unit by a single orchestrator run.
type ProcessAdapter struct {
	client *postgres.Client
	db     *goqu.Database
}

// NewProcessAdapter creates a new process adapter.
func NewProcessAdapter(client *postgres.Client) repositories.ProcessRepository {
	return &ProcessAdapter{
		client: client,
		db:     goqu.New("postgres", client.DB()),
	}
}

// Create inserts a process record.
func (a *ProcessAdapter) Create(ctx context.Context, process *entities.Process) error {
	if process == nil {
		return apperrors.NewInternalError("process is nil", fmt.Errorf("process is nil"))
	}

	steps, err := json.Marshal(process.Steps)
	if err != nil {
		return apperrors.NewInternalError("failed to marshal process steps", err)
	}

	record := goqu.Record{
		"id":           process.ID,
		"document_id":  process.DocumentID,
		"status":       string(process.Status),
		"steps":        steps,
		"response_key": sql.NullString{String: process.ResponseKey, Valid: process.ResponseKey != ""},
		"error":        sql.NullString{String: process.Error, Valid: process.Error != ""},
		"created_at":   process.CreatedAt,
		"updated_at":   process.UpdatedAt,
	}

	query, args, err := a.db.Insert("processes").Rows(record).ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build process insert query", err)
	}

	if _, err := a.client.DB().ExecContext(ctx, query, args...); err != nil {
		return apperrors.NewInternalError("failed to create process", err)
	}

	return nil
}

// GetByID retrieves a process by its id.
func (a *ProcessAdapter) GetByID(ctx context.Context, id string) (*entities.Process, error) {
	query, args, err := a.db.Select(
		"id",
		"document_id",
		"status",
		"steps",
		"response_key",
		"error",
		"created_at",
		"updated_at",
	).
		From("processes").
		Where(goqu.Ex{"id": id}).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build process query", err)
	}

	var status string
	var stepsRaw []byte
	var responseKey, processErr sql.NullString
	process := &entities.Process{}

	err = a.client.DB().QueryRowContext(ctx, query, args...).Scan(
		&process.ID,
		&process.DocumentID,
		&status,
		&stepsRaw,
		&responseKey,
		&processErr,
		&process.CreatedAt,
		&process.UpdatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("process with id %s not found", id))
	}
	if err != nil {
		return nil, apperrors.NewInternalError("failed to get process", err)
	}

	process.Status = entities.ProcessStatus(status)
	process.ResponseKey = responseKey.String
	process.Error = processErr.String

	if len(stepsRaw) > 0 {
		if err := json.Unmarshal(stepsRaw, &process.Steps); err != nil {
			return nil, apperrors.NewInternalError("failed to unmarshal process steps", err)
		}
	}

	return process, nil
}

// Update persists the process after a stage transition.
func (a *ProcessAdapter) Update(ctx context.Context, process *entities.Process) error {
	if process == nil {
		return apperrors.NewInternalError("process is nil", fmt.Errorf("process is nil"))
	}

	steps, err := json.Marshal(process.Steps)
	if err != nil {
		return apperrors.NewInternalError("failed to marshal process steps", err)
	}

	record := goqu.Record{
		"status":       string(process.Status),
		"steps":        steps,
		"response_key": sql.NullString{String: process.ResponseKey, Valid: process.ResponseKey != ""},
		"error":        sql.NullString{String: process.Error, Valid: process.Error != ""},
		"updated_at":   process.UpdatedAt,
	}

	query, args, err := a.db.Update("processes").
		Set(record).
		Where(goqu.Ex{"id": process.ID}).
		ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build process update query", err)
	}

	result, err := a.client.DB().ExecContext(ctx, query, args...)
	if err != nil {
		return apperrors.NewInternalError("failed to update process", err)
	}
	if rows, err := result.RowsAffected(); err == nil && rows == 0 {
		return apperrors.NewNotFoundError(fmt.Sprintf("process with id %s not found", process.ID))
	}

	return nil
}
