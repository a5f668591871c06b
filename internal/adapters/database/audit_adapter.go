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

// AuditAdapter implements the append-only audit log in Postgres.
// Expired rows are reaped out of band by a scheduled job on expires_at.
type AuditAdapter struct {
	client *postgres.Client
	db     *goqu.Database
}

// NewAuditAdapter creates a new audit adapter.
func NewAuditAdapter(client *postgres.Client) repositories.AuditRepository {
	return &AuditAdapter{
		client: client,
		db:     goqu.New("postgres", client.DB()),
	}
}

// Append inserts an audit entry.
func (a *AuditAdapter) Append(ctx context.Context, entry *entities.AuditEntry) error {
	if entry == nil {
		return apperrors.NewInternalError("audit entry is nil", fmt.Errorf("audit entry is nil"))
	}

	var data []byte
	if entry.Data != nil {
		marshaled, err := json.Marshal(entry.Data)
		if err != nil {
			return apperrors.NewInternalError("failed to marshal audit data", err)
		}
		data = marshaled
	}

	record := goqu.Record{
		"id":          entry.LogID,
		"process_id":  entry.ProcessID,
		"action_type": entry.ActionType,
		"description": entry.Description,
		"data":        data,
		"timestamp":   entry.Timestamp,
		"expires_at":  entry.ExpiresAt,
	}

	query, args, err := a.db.Insert("audit_log").Rows(record).ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build audit insert query", err)
	}

	if _, err := a.client.DB().ExecContext(ctx, query, args...); err != nil {
		return apperrors.NewInternalError("failed to append audit entry", err)
	}

	return nil
}

// ListByProcess retrieves audit entries for a process in order.
func (a *AuditAdapter) ListByProcess(ctx context.Context, processID string) ([]*entities.AuditEntry, error) {
	query, args, err := a.db.Select(
		"id",
		"process_id",
		"action_type",
		"description",
		"data",
		"timestamp",
		"expires_at",
	).
		From("audit_log").
		Where(goqu.Ex{"process_id": processID}).
		Order(goqu.I("timestamp").Asc()).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build audit list query", err)
	}

	rows, err := a.client.DB().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to list audit entries", err)
	}
	defer rows.Close()

	var entries []*entities.AuditEntry
	for rows.Next() {
		var dataRaw []byte
		var description sql.NullString
		entry := &entities.AuditEntry{}

		err := rows.Scan(
			&entry.LogID,
			&entry.ProcessID,
			&entry.ActionType,
			&description,
			&dataRaw,
			&entry.Timestamp,
			&entry.ExpiresAt,
		)
		if err != nil {
			return nil, apperrors.NewInternalError("failed to scan audit entry", err)
		}

		entry.Description = description.String
		if len(dataRaw) > 0 {
			_ = json.Unmarshal(dataRaw, &entry.Data)
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewInternalError("failed to iterate audit entries", err)
	}

	return entries, nil
}
