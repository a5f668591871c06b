package services

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/zatekoja/rfp-response-pipeline/internal/domain/entities"
	"github.com/zatekoja/rfp-response-pipeline/internal/domain/repositories"
	"github.com/zatekoja/rfp-response-pipeline/internal/infrastructure/observability"
)

// auditRetention is how long audit entries are kept before expiry.
const auditRetention = 30 * 24 * time.Hour

// AuditService writes pipeline audit entries. Writes are best-effort:
// an audit failure is logged and never interrupts the pipeline.
type AuditService struct {
	repo repositories.AuditRepository
}

// NewAuditService creates a new audit service.
func NewAuditService(repo repositories.AuditRepository) *AuditService {
	return &AuditService{repo: repo}
}

// Record appends a single audit entry for a process action.
func (s *AuditService) Record(ctx context.Context, processID, actionType, description string, data map[string]interface{}) {
	now := time.Now().UTC()
	entry := &entities.AuditEntry{
		LogID:       uuid.New().String(),
		ProcessID:   processID,
		ActionType:  actionType,
		Description: description,
		Data:        data,
		Timestamp:   now,
		ExpiresAt:   now.Add(auditRetention),
	}

	if err := s.repo.Append(ctx, entry); err != nil {
		observability.LoggerFromContext(ctx).Warn().
			Err(err).
			Str("process_id", processID).
			Str("action_type", actionType).
			Msg("failed to write audit entry")
	}
}

// History returns the audit trail for a process.
func (s *AuditService) History(ctx context.Context, processID string) ([]*entities.AuditEntry, error) {
	return s.repo.ListByProcess(ctx, processID)
}
