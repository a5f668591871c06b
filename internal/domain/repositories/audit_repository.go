package repositories

import (
	"context"

	"github.com/zatekoja/rfp-response-pipeline/internal/domain/entities"
)

// AuditRepository defines the interface for the append-only audit log.
type AuditRepository interface {
	Append(ctx context.Context, entry *entities.AuditEntry) error
	ListByProcess(ctx context.Context, processID string) ([]*entities.AuditEntry, error)
}
