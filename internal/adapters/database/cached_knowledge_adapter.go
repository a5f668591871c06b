package database

import (
	"context"
	"encoding/json"
	"time"

	"github.com/zatekoja/rfp-response-pipeline/internal/domain/entities"
	"github.com/zatekoja/rfp-response-pipeline/internal/domain/providers"
	"github.com/zatekoja/rfp-response-pipeline/internal/domain/repositories"
	"github.com/zatekoja/rfp-response-pipeline/internal/infrastructure/observability"
)

const (
	knowledgeCacheTTL       = 5 * time.Minute
	knowledgeCacheKeyPrefix = "kb:type:"
)

// CachedKnowledgeAdapter wraps a knowledge repository with a cache on
// the per-type listings the pipeline reads on every run. Cache failures
// fall through to the underlying repository; mutations invalidate the
// affected type.
type CachedKnowledgeAdapter struct {
	inner repositories.KnowledgeRepository
	cache providers.CacheProvider
}

// NewCachedKnowledgeAdapter creates a caching wrapper around inner.
func NewCachedKnowledgeAdapter(inner repositories.KnowledgeRepository, cache providers.CacheProvider) repositories.KnowledgeRepository {
	return &CachedKnowledgeAdapter{
		inner: inner,
		cache: cache,
	}
}

// Create inserts an entry and invalidates its type listing.
func (a *CachedKnowledgeAdapter) Create(ctx context.Context, entry *entities.KnowledgeEntry) error {
	if err := a.inner.Create(ctx, entry); err != nil {
		return err
	}
	a.invalidate(ctx, entry.ContentType)
	return nil
}

// GetByID delegates to the underlying repository.
func (a *CachedKnowledgeAdapter) GetByID(ctx context.Context, id string) (*entities.KnowledgeEntry, error) {
	return a.inner.GetByID(ctx, id)
}

// ListByType retrieves entries of a content type, serving from cache
// when possible.
func (a *CachedKnowledgeAdapter) ListByType(ctx context.Context, contentType entities.KnowledgeContentType) ([]*entities.KnowledgeEntry, error) {
	key := knowledgeCacheKeyPrefix + string(contentType)

	if data, err := a.cache.Get(ctx, key); err == nil {
		var cached []*entities.KnowledgeEntry
		if err := json.Unmarshal(data, &cached); err == nil {
			return cached, nil
		}
	}

	entries, err := a.inner.ListByType(ctx, contentType)
	if err != nil {
		return nil, err
	}

	if data, err := json.Marshal(entries); err == nil {
		if err := a.cache.Set(ctx, key, data, int(knowledgeCacheTTL.Seconds())); err != nil {
			observability.GetLogger().Debug().Err(err).Str("key", key).Msg("failed to cache knowledge listing")
		}
	}

	return entries, nil
}

// List delegates to the underlying repository.
func (a *CachedKnowledgeAdapter) List(ctx context.Context) ([]*entities.KnowledgeEntry, error) {
	return a.inner.List(ctx)
}

// Update persists an entry and invalidates its type listing.
func (a *CachedKnowledgeAdapter) Update(ctx context.Context, entry *entities.KnowledgeEntry) error {
	if err := a.inner.Update(ctx, entry); err != nil {
		return err
	}
	a.invalidate(ctx, entry.ContentType)
	return nil
}

// Delete removes an entry, resolving its type first so the right
// listing can be invalidated.
func (a *CachedKnowledgeAdapter) Delete(ctx context.Context, id string) error {
	entry, err := a.inner.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := a.inner.Delete(ctx, id); err != nil {
		return err
	}
	a.invalidate(ctx, entry.ContentType)
	return nil
}

func (a *CachedKnowledgeAdapter) invalidate(ctx context.Context, contentType entities.KnowledgeContentType) {
	key := knowledgeCacheKeyPrefix + string(contentType)
	if err := a.cache.Delete(ctx, key); err != nil {
		observability.GetLogger().Debug().Err(err).Str("key", key).Msg("failed to invalidate knowledge cache")
	}
}
