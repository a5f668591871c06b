package typesense

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/typesense/typesense-go/v2/typesense"
	"github.com/typesense/typesense-go/v2/typesense/api"
	"github.com/zatekoja/rfp-response-pipeline/pkg/config"
	"github.com/zatekoja/rfp-response-pipeline/pkg/retry"
)

const (
	// KnowledgeCollection indexes knowledge base entries for full-text search.
	KnowledgeCollection = "knowledge_entries"
)

// Client represents a Typesense client
type Client struct {
	client *typesense.Client
}

// NewClient creates a new Typesense client with exponential backoff retry
func NewClient(cfg *config.TypesenseConfig) (*Client, error) {
	client := typesense.NewClient(
		typesense.WithServer(cfg.URL),
		typesense.WithAPIKey(cfg.APIKey),
		typesense.WithConnectionTimeout(5*time.Second),
	)

	retryConfig := retry.DefaultConfig()
	err := retry.DoWithLog(
		context.Background(),
		retryConfig,
		"Typesense",
		func() error {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_, err := client.Health(ctx, 2*time.Second)
			return err
		},
		func(attempt int, err error, nextDelay time.Duration) {
			log.Printf("Typesense connection attempt %d failed: %v. Retrying in %v...", attempt, err, nextDelay)
		},
	)

	if err != nil {
		return nil, fmt.Errorf("failed to connect to Typesense after retries: %w", err)
	}

	return &Client{client: client}, nil
}

// Client returns the underlying Typesense client
func (c *Client) Client() *typesense.Client {
	return c.client
}

// InitSchema ensures the knowledge entries collection exists
func (c *Client) InitSchema(ctx context.Context) error {
	collections, err := c.client.Collections().Retrieve(ctx)
	if err != nil {
		return fmt.Errorf("failed to retrieve collections: %w", err)
	}

	for _, col := range collections {
		if col.Name == KnowledgeCollection {
			return nil
		}
	}

	schema := &api.CollectionSchema{
		Name: KnowledgeCollection,
		Fields: []api.Field{
			{Name: "content_id", Type: "string"},
			{Name: "content_type", Type: "string", Facet: boolPtr(true)},
			{Name: "title", Type: "string"},
			{Name: "description", Type: "string"},
			{Name: "content", Type: "string"},
			{Name: "created_at", Type: "int64"},
		},
	}

	if _, err := c.client.Collections().Create(ctx, schema); err != nil {
		return fmt.Errorf("failed to create knowledge collection: %w", err)
	}
	return nil
}

func boolPtr(b bool) *bool {
	return &b
}
