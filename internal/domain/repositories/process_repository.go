package repositories

import (
	"context"

	"github.com/zatekoja/rfp-response-pipeline/internal/domain/entities"
)

// ProcessRepository defines the interface for process persistence.
// Each process record is owned exclusively by the orchestrator run that
// created it, so Update carries no concurrency control.
type ProcessRepository interface {
	Create(ctx context.Context, process *entities.Process) error
	GetByID(ctx context.Context, id string) (*entities.Process, error)
	Update(ctx context.Context, process *entities.Process) error
}
