package services_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/zatekoja/rfp-response-pipeline/internal/application/services"
	"github.com/zatekoja/rfp-response-pipeline/internal/domain/entities"
)

type MockExtractionProvider struct {
	mock.Mock
}

func (m *MockExtractionProvider) Extract(ctx context.Context, storageKey string) (string, error) {
	args := m.Called(ctx, storageKey)
	return args.String(0), args.Error(1)
}

func newUploadFixture() (*services.UploadService, *MockDocumentRepository, *MockObjectStore, *MockExtractionProvider) {
	documents := new(MockDocumentRepository)
	store := new(MockObjectStore)
	extractor := new(MockExtractionProvider)
	service := services.NewUploadService(documents, store, extractor, 15*time.Minute)
	return service, documents, store, extractor
}

func TestUploadService_StartUpload(t *testing.T) {
	t.Run("creates a pending document with a signed upload URL", func(t *testing.T) {
		service, documents, store, _ := newUploadFixture()

		store.On("PresignedPut", mock.Anything, mock.Anything, "application/pdf", 15*time.Minute).
			Return("https://storage.example/upload", nil)

		var created *entities.Document
		documents.On("Create", mock.Anything, mock.Anything).
			Run(func(args mock.Arguments) {
				created = args.Get(1).(*entities.Document)
			}).
			Return(nil)

		resp, err := service.StartUpload(context.Background(), &services.StartUploadRequest{
			FileName:    "rfp.pdf",
			ContentType: "application/pdf",
			FileSize:    2048,
			ClientName:  "Acme Health",
			Region:      "North America",
			Industry:    "Healthcare",
		})

		assert.NoError(t, err)
		assert.Equal(t, "https://storage.example/upload", resp.UploadURL)
		assert.NotEmpty(t, resp.DocumentID)
		assert.True(t, strings.HasPrefix(resp.StorageKey, "uploads/"+resp.DocumentID+"/"))
		assert.True(t, strings.HasSuffix(resp.StorageKey, "rfp.pdf"))

		assert.Equal(t, entities.DocumentStatusPendingUpload, created.Status)
		assert.Equal(t, "Acme Health", created.ClientName)
		assert.Equal(t, resp.StorageKey, created.StorageKey)
	})

	t.Run("rejects requests without a file name", func(t *testing.T) {
		service, documents, _, _ := newUploadFixture()

		_, err := service.StartUpload(context.Background(), &services.StartUploadRequest{
			ContentType: "application/pdf",
		})

		assert.Error(t, err)
		documents.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("strips directories from the file name", func(t *testing.T) {
		service, documents, store, _ := newUploadFixture()

		store.On("PresignedPut", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
			Return("https://storage.example/upload", nil)
		documents.On("Create", mock.Anything, mock.Anything).Return(nil)

		resp, err := service.StartUpload(context.Background(), &services.StartUploadRequest{
			FileName:    "../../etc/rfp.pdf",
			ContentType: "application/pdf",
		})

		assert.NoError(t, err)
		assert.NotContains(t, resp.StorageKey, "..")
	})
}

func TestUploadService_CompleteUpload(t *testing.T) {
	t.Run("extracts text and marks the document uploaded", func(t *testing.T) {
		service, documents, _, extractor := newUploadFixture()

		document := &entities.Document{
			ID:         "doc-1",
			Status:     entities.DocumentStatusPendingUpload,
			StorageKey: "uploads/doc-1/rfp.pdf",
		}
		documents.On("GetByID", mock.Anything, "doc-1").Return(document, nil)
		extractor.On("Extract", mock.Anything, "uploads/doc-1/rfp.pdf").
			Return("Request for proposal text", nil)
		documents.On("Update", mock.Anything, mock.MatchedBy(func(d *entities.Document) bool {
			return d.Status == entities.DocumentStatusUploaded && d.Content == "Request for proposal text"
		})).Return(nil)

		result, err := service.CompleteUpload(context.Background(), "doc-1")

		assert.NoError(t, err)
		assert.True(t, result.HasContent())
		documents.AssertExpectations(t)
	})

	t.Run("is a no-op for an already uploaded document", func(t *testing.T) {
		service, documents, _, extractor := newUploadFixture()

		document := &entities.Document{
			ID:      "doc-1",
			Status:  entities.DocumentStatusUploaded,
			Content: "already extracted",
		}
		documents.On("GetByID", mock.Anything, "doc-1").Return(document, nil)

		result, err := service.CompleteUpload(context.Background(), "doc-1")

		assert.NoError(t, err)
		assert.Equal(t, "already extracted", result.Content)
		extractor.AssertNotCalled(t, "Extract", mock.Anything, mock.Anything)
	})

	t.Run("surfaces extraction failures", func(t *testing.T) {
		service, documents, _, extractor := newUploadFixture()

		document := &entities.Document{
			ID:         "doc-1",
			Status:     entities.DocumentStatusPendingUpload,
			StorageKey: "uploads/doc-1/rfp.pdf",
		}
		documents.On("GetByID", mock.Anything, "doc-1").Return(document, nil)
		extractor.On("Extract", mock.Anything, mock.Anything).
			Return("", errors.New("ocr service down"))

		_, err := service.CompleteUpload(context.Background(), "doc-1")

		assert.Error(t, err)
		documents.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	})
}
