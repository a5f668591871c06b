package services

import (
	"context"
	"fmt"
	"path"
	"time"

	"github.com/google/uuid"
	"github.com/zatekoja/rfp-response-pipeline/internal/domain/entities"
	"github.com/zatekoja/rfp-response-pipeline/internal/domain/providers"
	"github.com/zatekoja/rfp-response-pipeline/internal/domain/repositories"
	"github.com/zatekoja/rfp-response-pipeline/internal/infrastructure/observability"
	apperrors "github.com/zatekoja/rfp-response-pipeline/pkg/errors"
)

// StartUploadRequest carries the metadata for a new document upload.
type StartUploadRequest struct {
	FileName    string `json:"file_name"`
	ContentType string `json:"content_type"`
	FileSize    int64  `json:"file_size"`
	ClientName  string `json:"client_name"`
	Region      string `json:"region"`
	Industry    string `json:"industry"`
}

// StartUploadResponse carries the upload target for the client.
type StartUploadResponse struct {
	DocumentID string `json:"document_id"`
	UploadURL  string `json:"upload_url"`
	StorageKey string `json:"storage_key"`
}

// UploadService manages the document upload lifecycle: issuing signed
// upload URLs, then extracting text once the client confirms the
// upload.
type UploadService struct {
	documents repositories.DocumentRepository
	store     providers.ObjectStore
	extractor providers.ExtractionProvider
	uploadTTL time.Duration
}

// NewUploadService creates a new upload service.
func NewUploadService(documents repositories.DocumentRepository, store providers.ObjectStore, extractor providers.ExtractionProvider, uploadTTL time.Duration) *UploadService {
	return &UploadService{
		documents: documents,
		store:     store,
		extractor: extractor,
		uploadTTL: uploadTTL,
	}
}

// StartUpload registers a pending document and returns a signed URL the
// client uploads the file to.
func (s *UploadService) StartUpload(ctx context.Context, req *StartUploadRequest) (*StartUploadResponse, error) {
	if req == nil || req.FileName == "" {
		return nil, apperrors.NewValidationError("file_name is required")
	}
	if req.ContentType == "" {
		return nil, apperrors.NewValidationError("content_type is required")
	}

	documentID := uuid.New().String()
	storageKey := fmt.Sprintf("uploads/%s/%s", documentID, path.Base(req.FileName))

	uploadURL, err := s.store.PresignedPut(ctx, storageKey, req.ContentType, s.uploadTTL)
	if err != nil {
		return nil, apperrors.NewExternalError("failed to create upload URL", err)
	}

	now := time.Now().UTC()
	document := &entities.Document{
		ID:          documentID,
		Status:      entities.DocumentStatusPendingUpload,
		ClientName:  req.ClientName,
		Region:      req.Region,
		Industry:    req.Industry,
		FileName:    req.FileName,
		FileSize:    req.FileSize,
		ContentType: req.ContentType,
		StorageKey:  storageKey,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.documents.Create(ctx, document); err != nil {
		return nil, err
	}

	observability.LoggerFromContext(ctx).Info().
		Str("document_id", documentID).
		Str("storage_key", storageKey).
		Msg("upload started")

	return &StartUploadResponse{
		DocumentID: documentID,
		UploadURL:  uploadURL,
		StorageKey: storageKey,
	}, nil
}

// CompleteUpload extracts text from the uploaded file and marks the
// document ready for processing.
func (s *UploadService) CompleteUpload(ctx context.Context, documentID string) (*entities.Document, error) {
	document, err := s.documents.GetByID(ctx, documentID)
	if err != nil {
		return nil, err
	}
	if document.Status == entities.DocumentStatusUploaded {
		return document, nil
	}

	content, err := s.extractor.Extract(ctx, document.StorageKey)
	if err != nil {
		return nil, apperrors.NewExternalError("text extraction failed", err)
	}

	document.Content = content
	document.Status = entities.DocumentStatusUploaded
	document.UpdatedAt = time.Now().UTC()
	if err := s.documents.Update(ctx, document); err != nil {
		return nil, err
	}

	observability.LoggerFromContext(ctx).Info().
		Str("document_id", documentID).
		Int("content_length", len(content)).
		Msg("upload completed")

	return document, nil
}

// GetDocument retrieves a document by id.
func (s *UploadService) GetDocument(ctx context.Context, documentID string) (*entities.Document, error) {
	if documentID == "" {
		return nil, apperrors.NewValidationError("document id is required")
	}
	return s.documents.GetByID(ctx, documentID)
}
