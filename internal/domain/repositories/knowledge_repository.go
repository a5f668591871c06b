package repositories

import (
	"context"

	"github.com/zatekoja/rfp-response-pipeline/internal/domain/entities"
)

// KnowledgeRepository defines the interface for knowledge base entries.
type KnowledgeRepository interface {
	Create(ctx context.Context, entry *entities.KnowledgeEntry) error
	GetByID(ctx context.Context, id string) (*entities.KnowledgeEntry, error)
	ListByType(ctx context.Context, contentType entities.KnowledgeContentType) ([]*entities.KnowledgeEntry, error)
	List(ctx context.Context) ([]*entities.KnowledgeEntry, error)
	Update(ctx context.Context, entry *entities.KnowledgeEntry) error
	Delete(ctx context.Context, id string) error
}
