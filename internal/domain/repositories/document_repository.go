package repositories

import (
	"context"

	"github.com/zatekoja/rfp-response-pipeline/internal/domain/entities"
)

// DocumentRepository defines the interface for document persistence.
type DocumentRepository interface {
	Create(ctx context.Context, document *entities.Document) error
	GetByID(ctx context.Context, id string) (*entities.Document, error)
	Update(ctx context.Context, document *entities.Document) error
}
