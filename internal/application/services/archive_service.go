package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/zatekoja/rfp-response-pipeline/internal/domain/entities"
	"github.com/zatekoja/rfp-response-pipeline/internal/domain/providers"
	apperrors "github.com/zatekoja/rfp-response-pipeline/pkg/errors"
)

// ArchiveService assembles the final response document and stores it in
// object storage. Archiving is a required pipeline step: a storage
// failure fails the process.
type ArchiveService struct {
	store providers.ObjectStore
}

// NewArchiveService creates a new archive service.
func NewArchiveService(store providers.ObjectStore) *ArchiveService {
	return &ArchiveService{store: store}
}

// Archive writes the assembled response text for a completed process
// and returns the storage key it was written under.
func (s *ArchiveService) Archive(ctx context.Context, process *entities.Process, document *entities.Document) (string, error) {
	if process == nil || process.Steps.Generation.Result == nil {
		return "", apperrors.NewValidationError("process has no generated draft to archive")
	}

	key := fmt.Sprintf("responses/%s/%s.txt", process.DocumentID, time.Now().UTC().Format("20060102T150405"))
	body := assembleResponseDocument(process, document)

	if err := s.store.Put(ctx, key, []byte(body), "text/plain; charset=utf-8"); err != nil {
		return "", apperrors.NewExternalError("failed to archive response", err)
	}
	return key, nil
}

// DownloadURL returns a short-lived signed URL for an archived response.
func (s *ArchiveService) DownloadURL(ctx context.Context, key string, ttl time.Duration) (string, error) {
	if key == "" {
		return "", apperrors.NewNotFoundError("no archived response for process")
	}
	return s.store.PresignedGet(ctx, key, ttl)
}

func assembleResponseDocument(process *entities.Process, document *entities.Document) string {
	var b strings.Builder

	b.WriteString("RFP RESPONSE\n")
	b.WriteString("============\n\n")
	if document != nil {
		fmt.Fprintf(&b, "Client: %s\n", document.ClientName)
		fmt.Fprintf(&b, "Region: %s\n", document.Region)
		fmt.Fprintf(&b, "Source document: %s\n", document.FileName)
	}
	fmt.Fprintf(&b, "Process: %s\n\n", process.ID)

	if d := process.Steps.Decision.Result; d != nil {
		b.WriteString("BID DECISION\n")
		b.WriteString("------------\n")
		fmt.Fprintf(&b, "Decision: %s (confidence %.2f)\n", d.Decision, d.Confidence)
		fmt.Fprintf(&b, "Reasoning: %s\n\n", d.Reasoning)
	}

	b.WriteString("DRAFT RESPONSE\n")
	b.WriteString("--------------\n")
	b.WriteString(process.Steps.Generation.Result.Content)
	b.WriteString("\n\n")

	if c := process.Steps.Compliance.Result; c != nil {
		b.WriteString("COMPLIANCE REVIEW\n")
		b.WriteString("-----------------\n")
		fmt.Fprintf(&b, "Status: %s\n", c.Status)
		fmt.Fprintf(&b, "Score: %.1f\n", c.ComplianceScore)
		fmt.Fprintf(&b, "Issues: %s\n", c.Issues)
		fmt.Fprintf(&b, "Recommendations: %s\n", c.Recommendations)
	}

	return b.String()
}
