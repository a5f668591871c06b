package main

import (
	"context"
	"log"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/zatekoja/rfp-response-pipeline/internal/adapters/database"
	"github.com/zatekoja/rfp-response-pipeline/internal/adapters/search"
	"github.com/zatekoja/rfp-response-pipeline/internal/domain/entities"
	"github.com/zatekoja/rfp-response-pipeline/internal/infrastructure/clients/postgres"
	"github.com/zatekoja/rfp-response-pipeline/internal/infrastructure/clients/typesense"
	"github.com/zatekoja/rfp-response-pipeline/pkg/config"
)

// Seeds the knowledge base with a starter set of business context
// fields, response templates, and compliance rules.
func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	pgClient, err := postgres.NewClient(&cfg.Database)
	if err != nil {
		log.Fatalf("Failed to connect to DB: %v", err)
	}
	defer pgClient.Close()

	var searchRepo *search.TypesenseAdapter
	if cfg.Typesense.Enabled {
		tsClient, err := typesense.NewClient(&cfg.Typesense)
		if err == nil {
			searchRepo = search.NewTypesenseAdapter(tsClient)
			if err := searchRepo.InitSchema(context.Background()); err != nil {
				log.Printf("Warning: failed to init search schema: %v", err)
			}
		}
	}

	knowledgeRepo := database.NewKnowledgeAdapter(pgClient)
	ctx := context.Background()

	if os.Getenv("RESET_DB") == "true" {
		log.Println("RESET_DB=true detected, truncating knowledge table before seeding")
		if _, err := pgClient.DB().ExecContext(ctx, `TRUNCATE TABLE knowledge_entries`); err != nil {
			log.Fatalf("Failed to truncate: %v", err)
		}
	}

	entries := []*entities.KnowledgeEntry{
		fieldEntry(entities.KnowledgeTypeBusinessContext, "Service regions", "service_regions", "North America, Europe"),
		fieldEntry(entities.KnowledgeTypeBusinessContext, "Capacity", "capacity", "Up to 3 concurrent major engagements"),
		fieldEntry(entities.KnowledgeTypeBusinessContext, "Experience", "experience", "12 years delivering enterprise software projects"),
		fieldEntry(entities.KnowledgeTypeBusinessContext, "Timeline", "timeline", "Typical delivery within 3-6 months"),
		fieldEntry(entities.KnowledgeTypeBusinessContext, "Team size", "team_size", "45 engineers and consultants"),
		textEntry(entities.KnowledgeTypeTemplates, "Executive summary template",
			"We are pleased to submit our response to this RFP. Our team brings proven "+
				"delivery experience and a structured approach tailored to your requirements."),
		textEntry(entities.KnowledgeTypeTemplates, "Pricing template",
			"Pricing is structured as a fixed fee per milestone with a detailed breakdown "+
				"provided in the pricing appendix."),
		textEntry(entities.KnowledgeTypeComplianceRules, "Data privacy",
			"All responses must confirm HIPAA alignment and describe data handling controls "+
				"for any engagement touching protected health information."),
		textEntry(entities.KnowledgeTypeComplianceRules, "Claims accuracy",
			"Certification, regional coverage, and timeline claims must match current "+
				"company capabilities exactly. No aspirational claims."),
	}

	for _, entry := range entries {
		if err := knowledgeRepo.Create(ctx, entry); err != nil {
			log.Fatalf("Failed to seed entry %q: %v", entry.Title, err)
		}
		if searchRepo != nil {
			if err := searchRepo.Index(ctx, entry); err != nil {
				log.Printf("Warning: failed to index %q: %v", entry.Title, err)
			}
		}
	}

	log.Printf("Seeded %d knowledge entries", len(entries))
}

func fieldEntry(contentType entities.KnowledgeContentType, title, field, value string) *entities.KnowledgeEntry {
	return newEntry(contentType, title, map[string]interface{}{
		"field": field,
		"value": value,
	})
}

func textEntry(contentType entities.KnowledgeContentType, title, text string) *entities.KnowledgeEntry {
	return newEntry(contentType, title, map[string]interface{}{
		"text": text,
	})
}

func newEntry(contentType entities.KnowledgeContentType, title string, data map[string]interface{}) *entities.KnowledgeEntry {
	now := time.Now().UTC()
	return &entities.KnowledgeEntry{
		ContentID:   uuid.New().String(),
		ContentType: contentType,
		Title:       title,
		ContentData: data,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}
