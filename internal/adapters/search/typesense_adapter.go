package search

import (
	"context"
	"fmt"
	"time"

	"github.com/typesense/typesense-go/v2/typesense/api"
	"github.com/typesense/typesense-go/v2/typesense/api/pointer"
	"github.com/zatekoja/rfp-response-pipeline/internal/domain/entities"
	tsclient "github.com/zatekoja/rfp-response-pipeline/internal/infrastructure/clients/typesense"
)

// TypesenseAdapter indexes knowledge base entries for full-text search.
type TypesenseAdapter struct {
	client *tsclient.Client
}

// NewTypesenseAdapter creates a new Typesense knowledge search adapter.
func NewTypesenseAdapter(client *tsclient.Client) *TypesenseAdapter {
	return &TypesenseAdapter{client: client}
}

// InitSchema ensures the knowledge collection exists.
func (a *TypesenseAdapter) InitSchema(ctx context.Context) error {
	return a.client.InitSchema(ctx)
}

// Index upserts a knowledge entry into the search index. Content data
// is flattened into one searchable text field.
func (a *TypesenseAdapter) Index(ctx context.Context, entry *entities.KnowledgeEntry) error {
	document := map[string]interface{}{
		"id":           entry.ContentID,
		"content_id":   entry.ContentID,
		"content_type": string(entry.ContentType),
		"title":        entry.Title,
		"description":  entry.Description,
		"content":      flattenContentData(entry),
		"created_at":   entry.CreatedAt.Unix(),
	}

	_, err := a.client.Client().Collection(tsclient.KnowledgeCollection).Documents().Upsert(ctx, document)
	if err != nil {
		return fmt.Errorf("failed to index knowledge entry: %w", err)
	}

	return nil
}

// Delete removes a knowledge entry from the index.
func (a *TypesenseAdapter) Delete(ctx context.Context, id string) error {
	_, err := a.client.Client().Collection(tsclient.KnowledgeCollection).Document(id).Delete(ctx)
	if err != nil {
		return fmt.Errorf("failed to delete knowledge entry from index: %w", err)
	}
	return nil
}

// Search searches knowledge entries by free text, optionally filtered
// by content type.
func (a *TypesenseAdapter) Search(ctx context.Context, query string, contentType entities.KnowledgeContentType, limit int) ([]*entities.KnowledgeEntry, error) {
	if limit <= 0 {
		limit = 20
	}

	searchParams := &api.SearchCollectionParams{
		Q:       pointer.String(query),
		QueryBy: pointer.String("title,description,content"),
		PerPage: pointer.Int(limit),
	}
	if contentType != "" {
		searchParams.FilterBy = pointer.String(fmt.Sprintf("content_type:=%s", contentType))
	}

	result, err := a.client.Client().Collection(tsclient.KnowledgeCollection).Documents().Search(ctx, searchParams)
	if err != nil {
		return nil, fmt.Errorf("failed to search knowledge entries: %w", err)
	}

	entries := []*entities.KnowledgeEntry{}
	if result.Hits == nil {
		return entries, nil
	}

	for _, hit := range *result.Hits {
		doc := *hit.Document

		entry := &entities.KnowledgeEntry{}
		if val, ok := doc["content_id"].(string); ok {
			entry.ContentID = val
		}
		if val, ok := doc["content_type"].(string); ok {
			entry.ContentType = entities.KnowledgeContentType(val)
		}
		if val, ok := doc["title"].(string); ok {
			entry.Title = val
		}
		if val, ok := doc["description"].(string); ok {
			entry.Description = val
		}
		if val, ok := doc["created_at"].(float64); ok {
			entry.CreatedAt = time.Unix(int64(val), 0).UTC()
		}

		entries = append(entries, entry)
	}

	return entries, nil
}

func flattenContentData(entry *entities.KnowledgeEntry) string {
	text := entry.StringField("text")
	if text != "" {
		return text
	}
	// business_context entries carry field/value pairs
	field := entry.StringField("field")
	value := entry.StringField("value")
	if field != "" || value != "" {
		return field + " " + value
	}
	return ""
}
