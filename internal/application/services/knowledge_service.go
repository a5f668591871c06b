package services

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/zatekoja/rfp-response-pipeline/internal/domain/entities"
	"github.com/zatekoja/rfp-response-pipeline/internal/domain/repositories"
	"github.com/zatekoja/rfp-response-pipeline/internal/infrastructure/observability"
	apperrors "github.com/zatekoja/rfp-response-pipeline/pkg/errors"
)

// KnowledgeSearcher indexes and searches knowledge entries. The search
// index is an optional acceleration layer; the service works without it.
type KnowledgeSearcher interface {
	Index(ctx context.Context, entry *entities.KnowledgeEntry) error
	Delete(ctx context.Context, id string) error
	Search(ctx context.Context, query string, contentType entities.KnowledgeContentType, limit int) ([]*entities.KnowledgeEntry, error)
}

// KnowledgeService resolves knowledge base content into the typed
// bundles the pipeline embeds into prompts, and manages entries.
//
// The resolvers never fail: a storage error is treated identically to
// an empty knowledge base and the built-in defaults are used, so the
// pipeline cannot stall on missing or unreachable knowledge content.
type KnowledgeService struct {
	repo     repositories.KnowledgeRepository
	searcher KnowledgeSearcher
}

// NewKnowledgeService creates a new knowledge service. searcher may be
// nil when no search index is configured.
func NewKnowledgeService(repo repositories.KnowledgeRepository, searcher KnowledgeSearcher) *KnowledgeService {
	return &KnowledgeService{
		repo:     repo,
		searcher: searcher,
	}
}

// GetBusinessContext resolves the business context bundle. Each field
// falls back to its own default when the knowledge base has no value
// for it.
func (s *KnowledgeService) GetBusinessContext(ctx context.Context) *entities.BusinessContext {
	bc := defaultBusinessContext

	entries, err := s.repo.ListByType(ctx, entities.KnowledgeTypeBusinessContext)
	if err != nil {
		observability.LoggerFromContext(ctx).Warn().Err(err).Msg("business context lookup failed, using defaults")
		return &bc
	}

	for _, entry := range entries {
		applyBusinessContextField(&bc, entry.StringField("field"), entry.StringField("value"))
	}

	return &bc
}

// GetResponseTemplates resolves the response template text block.
func (s *KnowledgeService) GetResponseTemplates(ctx context.Context) string {
	return s.textBlock(ctx, entities.KnowledgeTypeTemplates, defaultResponseTemplates)
}

// GetComplianceRules resolves the compliance rules text block.
func (s *KnowledgeService) GetComplianceRules(ctx context.Context) string {
	return s.textBlock(ctx, entities.KnowledgeTypeComplianceRules, defaultComplianceRules)
}

func (s *KnowledgeService) textBlock(ctx context.Context, contentType entities.KnowledgeContentType, fallback string) string {
	entries, err := s.repo.ListByType(ctx, contentType)
	if err != nil {
		observability.LoggerFromContext(ctx).Warn().Err(err).Str("content_type", string(contentType)).Msg("knowledge lookup failed, using defaults")
		return fallback
	}
	if len(entries) == 0 {
		return fallback
	}

	var b strings.Builder
	for i, entry := range entries {
		if i > 0 {
			b.WriteString("\n\n")
		}
		b.WriteString(entry.Title)
		b.WriteString("\n")
		b.WriteString(entry.StringField("text"))
	}
	return b.String()
}

// CreateEntry validates and stores a new knowledge entry.
func (s *KnowledgeService) CreateEntry(ctx context.Context, entry *entities.KnowledgeEntry) error {
	if entry == nil {
		return apperrors.NewValidationError("entry is required")
	}
	if !entities.ValidKnowledgeContentType(entry.ContentType) {
		return apperrors.NewValidationError("unknown content type")
	}
	if entry.Title == "" {
		return apperrors.NewValidationError("title is required")
	}

	if entry.ContentID == "" {
		entry.ContentID = uuid.New().String()
	}
	now := time.Now().UTC()
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = now
	}
	entry.UpdatedAt = now

	if err := s.repo.Create(ctx, entry); err != nil {
		return err
	}
	s.indexEntry(ctx, entry)
	return nil
}

// GetEntry retrieves a knowledge entry by id.
func (s *KnowledgeService) GetEntry(ctx context.Context, id string) (*entities.KnowledgeEntry, error) {
	if id == "" {
		return nil, apperrors.NewValidationError("content id is required")
	}
	return s.repo.GetByID(ctx, id)
}

// ListEntries lists knowledge entries, optionally filtered by type.
func (s *KnowledgeService) ListEntries(ctx context.Context, contentType entities.KnowledgeContentType) ([]*entities.KnowledgeEntry, error) {
	if contentType == "" {
		return s.repo.List(ctx)
	}
	if !entities.ValidKnowledgeContentType(contentType) {
		return nil, apperrors.NewValidationError("unknown content type")
	}
	return s.repo.ListByType(ctx, contentType)
}

// UpdateEntry persists changes to an existing entry.
func (s *KnowledgeService) UpdateEntry(ctx context.Context, entry *entities.KnowledgeEntry) error {
	if entry == nil || entry.ContentID == "" {
		return apperrors.NewValidationError("content id is required")
	}
	if !entities.ValidKnowledgeContentType(entry.ContentType) {
		return apperrors.NewValidationError("unknown content type")
	}

	entry.UpdatedAt = time.Now().UTC()
	if err := s.repo.Update(ctx, entry); err != nil {
		return err
	}
	s.indexEntry(ctx, entry)
	return nil
}

// DeleteEntry removes an entry from storage and the search index.
func (s *KnowledgeService) DeleteEntry(ctx context.Context, id string) error {
	if id == "" {
		return apperrors.NewValidationError("content id is required")
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	if s.searcher != nil {
		if err := s.searcher.Delete(ctx, id); err != nil {
			observability.LoggerFromContext(ctx).Warn().Err(err).Str("content_id", id).Msg("failed to remove knowledge entry from search index")
		}
	}
	return nil
}

// SearchEntries searches the knowledge index.
func (s *KnowledgeService) SearchEntries(ctx context.Context, query string, contentType entities.KnowledgeContentType, limit int) ([]*entities.KnowledgeEntry, error) {
	if s.searcher == nil {
		return nil, apperrors.NewValidationError("knowledge search is not configured")
	}
	if query == "" {
		return nil, apperrors.NewValidationError("query is required")
	}
	return s.searcher.Search(ctx, query, contentType, limit)
}

func (s *KnowledgeService) indexEntry(ctx context.Context, entry *entities.KnowledgeEntry) {
	if s.searcher == nil {
		return
	}
	if err := s.searcher.Index(ctx, entry); err != nil {
		observability.LoggerFromContext(ctx).Warn().Err(err).Str("content_id", entry.ContentID).Msg("failed to index knowledge entry")
	}
}
