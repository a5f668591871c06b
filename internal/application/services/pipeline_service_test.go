package services_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/zatekoja/rfp-response-pipeline/internal/application/services"
	"github.com/zatekoja/rfp-response-pipeline/internal/domain/entities"
	apperrors "github.com/zatekoja/rfp-response-pipeline/pkg/errors"
)

// Mocks

type MockProcessRepository struct {
	mock.Mock
}

func (m *MockProcessRepository) Create(ctx context.Context, process *entities.Process) error {
	args := m.Called(ctx, process)
	return args.Error(0)
}

func (m *MockProcessRepository) GetByID(ctx context.Context, id string) (*entities.Process, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Process), args.Error(1)
}

func (m *MockProcessRepository) Update(ctx context.Context, process *entities.Process) error {
	args := m.Called(ctx, process)
	return args.Error(0)
}

type MockDocumentRepository struct {
	mock.Mock
}

func (m *MockDocumentRepository) Create(ctx context.Context, document *entities.Document) error {
	args := m.Called(ctx, document)
	return args.Error(0)
}

func (m *MockDocumentRepository) GetByID(ctx context.Context, id string) (*entities.Document, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Document), args.Error(1)
}

func (m *MockDocumentRepository) Update(ctx context.Context, document *entities.Document) error {
	args := m.Called(ctx, document)
	return args.Error(0)
}

type MockCompletionProvider struct {
	mock.Mock
}

func (m *MockCompletionProvider) Complete(ctx context.Context, prompt string, maxTokens int, temperature float64) (string, error) {
	args := m.Called(ctx, prompt, maxTokens, temperature)
	return args.String(0), args.Error(1)
}

type MockArchiver struct {
	mock.Mock
}

func (m *MockArchiver) Archive(ctx context.Context, process *entities.Process, document *entities.Document) (string, error) {
	args := m.Called(ctx, process, document)
	return args.String(0), args.Error(1)
}

func (m *MockArchiver) DownloadURL(ctx context.Context, key string, ttl time.Duration) (string, error) {
	args := m.Called(ctx, key, ttl)
	return args.String(0), args.Error(1)
}

// stubKnowledge resolves fixed knowledge bundles without storage.
type stubKnowledge struct{}

func (stubKnowledge) GetBusinessContext(ctx context.Context) *entities.BusinessContext {
	return &entities.BusinessContext{
		ServiceRegions: "North America, Europe",
		Specialties:    "enterprise software",
	}
}

func (stubKnowledge) GetResponseTemplates(ctx context.Context) string { return "template text" }
func (stubKnowledge) GetComplianceRules(ctx context.Context) string   { return "rule text" }

// recordingAudit captures audit actions without a repository.
type recordingAudit struct {
	actions []string
}

func (a *recordingAudit) Record(ctx context.Context, processID, actionType, description string, data map[string]interface{}) {
	a.actions = append(a.actions, actionType)
}

// Fixture

type pipelineFixture struct {
	processes  *MockProcessRepository
	documents  *MockDocumentRepository
	completion *MockCompletionProvider
	archiver   *MockArchiver
	audit      *recordingAudit
	service    *services.PipelineService

	created  *entities.Process
	statuses []entities.ProcessStatus
}

func newPipelineFixture() *pipelineFixture {
	f := &pipelineFixture{
		processes:  new(MockProcessRepository),
		documents:  new(MockDocumentRepository),
		completion: new(MockCompletionProvider),
		archiver:   new(MockArchiver),
		audit:      &recordingAudit{},
	}
	f.service = services.NewPipelineService(
		f.processes,
		f.documents,
		f.completion,
		stubKnowledge{},
		f.audit,
		f.archiver,
		nil,
		nil,
		15*time.Minute,
	)
	return f
}

func (f *pipelineFixture) expectPersistence() {
	f.processes.On("Create", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			f.created = args.Get(1).(*entities.Process)
		}).
		Return(nil)
	f.processes.On("Update", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			f.statuses = append(f.statuses, args.Get(1).(*entities.Process).Status)
		}).
		Return(nil)
}

func uploadedDocument(region string) *entities.Document {
	return &entities.Document{
		ID:         "doc-1",
		Status:     entities.DocumentStatusUploaded,
		Content:    "Request for proposal: build a claims processing platform.",
		ClientName: "Acme Health",
		Region:     region,
		Industry:   "Healthcare",
		FileName:   "rfp.pdf",
	}
}

const complianceResponse = "STATUS: PASS\n" +
	"ISSUES: None\n" +
	"RECOMMENDATIONS: None\n" +
	"✓ HIPAA\n✓ Standards\n✓ Certifications\n✓ Coverage\n✗ Risk management\n"

// Tests

func TestPipelineService_StartProcessing(t *testing.T) {
	t.Run("BID runs end to end and archives the response", func(t *testing.T) {
		f := newPipelineFixture()
		f.expectPersistence()
		f.documents.On("GetByID", mock.Anything, "doc-1").Return(uploadedDocument("Europe"), nil)

		f.completion.On("Complete", mock.Anything, mock.Anything, 500, 0.3).
			Return("BID\nStrong fit with our specialties.", nil).Once()
		f.completion.On("Complete", mock.Anything, mock.Anything, 2000, 0.5).
			Return("Executive Summary\nWe propose...", nil).Once()
		f.completion.On("Complete", mock.Anything, mock.Anything, 1000, 0.2).
			Return(complianceResponse, nil).Once()
		f.archiver.On("Archive", mock.Anything, mock.Anything, mock.Anything).
			Return("responses/doc-1/20260901T000000.txt", nil)

		resp, err := f.service.StartProcessing(context.Background(), "doc-1")

		assert.NoError(t, err)
		assert.Equal(t, entities.ProcessStatusProcessing, resp.Status)
		assert.NotEmpty(t, resp.ProcessID)

		process := f.created
		assert.Equal(t, entities.ProcessStatusCompleted, process.Status)
		assert.Equal(t, "responses/doc-1/20260901T000000.txt", process.ResponseKey)
		assert.Equal(t, entities.StageStatusCompleted, process.Steps.Decision.Status)
		assert.Equal(t, entities.StageStatusCompleted, process.Steps.Generation.Status)
		assert.Equal(t, entities.StageStatusCompleted, process.Steps.Compliance.Status)
		assert.Equal(t, entities.DecisionBid, process.Steps.Decision.Result.Decision)
		assert.Equal(t, 0.8, process.Steps.Decision.Result.Confidence)
		assert.Equal(t, 80.0, process.Steps.Compliance.Result.ComplianceScore)
		f.completion.AssertExpectations(t)
		f.archiver.AssertExpectations(t)
	})

	t.Run("stage prompts carry document details and decision reasoning", func(t *testing.T) {
		f := newPipelineFixture()
		f.expectPersistence()
		f.documents.On("GetByID", mock.Anything, "doc-1").Return(uploadedDocument("Europe"), nil)

		var decisionPrompt, draftPrompt, compliancePrompt string
		f.completion.On("Complete", mock.Anything, mock.Anything, 500, 0.3).
			Run(func(args mock.Arguments) { decisionPrompt = args.String(1) }).
			Return("BID\nStrong fit with our specialties.", nil).Once()
		f.completion.On("Complete", mock.Anything, mock.Anything, 2000, 0.5).
			Run(func(args mock.Arguments) { draftPrompt = args.String(1) }).
			Return("Executive Summary\nWe propose...", nil).Once()
		f.completion.On("Complete", mock.Anything, mock.Anything, 1000, 0.2).
			Run(func(args mock.Arguments) { compliancePrompt = args.String(1) }).
			Return(complianceResponse, nil).Once()
		f.archiver.On("Archive", mock.Anything, mock.Anything, mock.Anything).
			Return("responses/doc-1/archived.txt", nil)

		_, err := f.service.StartProcessing(context.Background(), "doc-1")
		assert.NoError(t, err)

		assert.Contains(t, decisionPrompt, "Acme Health")
		assert.Contains(t, decisionPrompt, "Europe")
		assert.Contains(t, decisionPrompt, "Healthcare")
		assert.Contains(t, decisionPrompt, "North America, Europe")

		assert.Contains(t, draftPrompt, "Strong fit with our specialties.")
		assert.Contains(t, draftPrompt, "Acme Health")
		assert.Contains(t, draftPrompt, "References")

		assert.Contains(t, compliancePrompt, "North America, Europe")
		assert.Contains(t, compliancePrompt, "rule text")
	})

	t.Run("NO_BID completes without generation or compliance", func(t *testing.T) {
		f := newPipelineFixture()
		f.expectPersistence()
		f.documents.On("GetByID", mock.Anything, "doc-1").Return(uploadedDocument("Europe"), nil)
		f.completion.On("Complete", mock.Anything, mock.Anything, 500, 0.3).
			Return("NO_BID: outside our delivery model", nil).Once()

		_, err := f.service.StartProcessing(context.Background(), "doc-1")

		assert.NoError(t, err)
		process := f.created
		assert.Equal(t, entities.ProcessStatusCompleted, process.Status)
		assert.Equal(t, entities.DecisionNoBid, process.Steps.Decision.Result.Decision)
		assert.Equal(t, entities.StageStatusPending, process.Steps.Generation.Status)
		assert.Equal(t, entities.StageStatusPending, process.Steps.Compliance.Status)
		assert.Empty(t, process.ResponseKey)
		assert.Equal(t, []entities.ProcessStatus{
			entities.ProcessStatusDecisionCompleted,
			entities.ProcessStatusCompleted,
		}, f.statuses)
		f.completion.AssertNumberOfCalls(t, "Complete", 1)
		f.archiver.AssertNotCalled(t, "Archive", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("completion outage falls back to BID for North America", func(t *testing.T) {
		f := newPipelineFixture()
		f.expectPersistence()
		f.documents.On("GetByID", mock.Anything, "doc-1").Return(uploadedDocument("North America"), nil)
		f.completion.On("Complete", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
			Return("", errors.New("connection refused"))
		f.archiver.On("Archive", mock.Anything, mock.Anything, mock.Anything).
			Return("responses/doc-1/archived.txt", nil)

		_, err := f.service.StartProcessing(context.Background(), "doc-1")

		assert.NoError(t, err)
		process := f.created
		decision := process.Steps.Decision.Result
		assert.Equal(t, entities.DecisionBid, decision.Decision)
		assert.Equal(t, 0.6, decision.Confidence)
		assert.Contains(t, decision.Reasoning, "Rule-based decision")
		assert.Contains(t, decision.Reasoning, "North America")

		// generation and compliance are degraded but still run
		assert.Equal(t, entities.StageStatusCompleted, process.Steps.Generation.Status)
		assert.NotEmpty(t, process.Steps.Generation.Result.Error)
		assert.Contains(t, process.Steps.Generation.Result.Content, "Error generating draft")
		assert.Equal(t, "error", process.Steps.Compliance.Result.Status)
		assert.Equal(t, 0.0, process.Steps.Compliance.Result.ComplianceScore)
		assert.Equal(t, entities.ProcessStatusCompleted, process.Status)
		assert.NotEmpty(t, process.ResponseKey)
	})

	t.Run("completion outage falls back to NO_BID outside North America", func(t *testing.T) {
		f := newPipelineFixture()
		f.expectPersistence()
		f.documents.On("GetByID", mock.Anything, "doc-1").Return(uploadedDocument("Asia"), nil)
		f.completion.On("Complete", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
			Return("", errors.New("connection refused"))

		_, err := f.service.StartProcessing(context.Background(), "doc-1")

		assert.NoError(t, err)
		process := f.created
		assert.Equal(t, entities.DecisionNoBid, process.Steps.Decision.Result.Decision)
		assert.Equal(t, entities.ProcessStatusCompleted, process.Status)
		assert.Equal(t, entities.StageStatusPending, process.Steps.Generation.Status)
		f.completion.AssertNumberOfCalls(t, "Complete", 1)
	})

	t.Run("rejects documents without extracted content", func(t *testing.T) {
		f := newPipelineFixture()
		doc := uploadedDocument("Europe")
		doc.Content = ""
		f.documents.On("GetByID", mock.Anything, "doc-1").Return(doc, nil)

		_, err := f.service.StartProcessing(context.Background(), "doc-1")

		assert.True(t, apperrors.IsNotFound(err))
		f.processes.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("archive failure fails the process", func(t *testing.T) {
		f := newPipelineFixture()
		f.expectPersistence()
		f.documents.On("GetByID", mock.Anything, "doc-1").Return(uploadedDocument("Europe"), nil)
		f.completion.On("Complete", mock.Anything, mock.Anything, 500, 0.3).
			Return("BID", nil).Once()
		f.completion.On("Complete", mock.Anything, mock.Anything, 2000, 0.5).
			Return("draft text", nil).Once()
		f.completion.On("Complete", mock.Anything, mock.Anything, 1000, 0.2).
			Return(complianceResponse, nil).Once()
		f.archiver.On("Archive", mock.Anything, mock.Anything, mock.Anything).
			Return("", errors.New("bucket unavailable"))

		_, err := f.service.StartProcessing(context.Background(), "doc-1")

		assert.NoError(t, err)
		process := f.created
		assert.Equal(t, entities.ProcessStatusFailed, process.Status)
		assert.NotEmpty(t, process.Error)
		assert.Empty(t, process.ResponseKey)
		assert.Contains(t, f.audit.actions, "processing_failed")
	})
}

func TestPipelineService_Retrieval(t *testing.T) {
	t.Run("getStatus is idempotent", func(t *testing.T) {
		f := newPipelineFixture()
		stored := entities.NewProcess("proc-1", "doc-1", time.Date(2026, 9, 1, 10, 0, 0, 0, time.UTC))
		f.processes.On("GetByID", mock.Anything, "proc-1").Return(stored, nil)

		first, err1 := f.service.GetStatus(context.Background(), "proc-1")
		second, err2 := f.service.GetStatus(context.Background(), "proc-1")

		assert.NoError(t, err1)
		assert.NoError(t, err2)
		assert.Equal(t, first, second)
	})

	t.Run("getDraft returns NotFound for a NO_BID process", func(t *testing.T) {
		f := newPipelineFixture()
		stored := entities.NewProcess("proc-1", "doc-1", time.Now().UTC())
		stored.Steps.Decision.Result = &entities.DecisionResult{Decision: entities.DecisionNoBid, Confidence: 0.8}
		stored.Status = entities.ProcessStatusCompleted
		f.processes.On("GetByID", mock.Anything, "proc-1").Return(stored, nil)

		draft, err := f.service.GetDraft(context.Background(), "proc-1")

		assert.Nil(t, draft)
		assert.True(t, apperrors.IsNotFound(err))
	})

	t.Run("getDecision returns NotFound before the stage completes", func(t *testing.T) {
		f := newPipelineFixture()
		stored := entities.NewProcess("proc-1", "doc-1", time.Now().UTC())
		f.processes.On("GetByID", mock.Anything, "proc-1").Return(stored, nil)

		_, err := f.service.GetDecision(context.Background(), "proc-1")

		assert.True(t, apperrors.IsNotFound(err))
	})

	t.Run("getResult projects the process record", func(t *testing.T) {
		f := newPipelineFixture()
		stored := entities.NewProcess("proc-1", "doc-1", time.Now().UTC())
		stored.Status = entities.ProcessStatusDecisionCompleted
		f.processes.On("GetByID", mock.Anything, "proc-1").Return(stored, nil)

		result, err := f.service.GetResult(context.Background(), "proc-1")

		assert.NoError(t, err)
		assert.Equal(t, entities.ProcessStatusDecisionCompleted, result.Status)
		assert.Equal(t, stored.Steps, result.Steps)
	})

	t.Run("downloadResponse requires an archived response", func(t *testing.T) {
		f := newPipelineFixture()
		stored := entities.NewProcess("proc-1", "doc-1", time.Now().UTC())
		f.processes.On("GetByID", mock.Anything, "proc-1").Return(stored, nil)

		_, err := f.service.DownloadResponse(context.Background(), "proc-1")

		assert.True(t, apperrors.IsNotFound(err))
		f.archiver.AssertNotCalled(t, "DownloadURL", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("downloadResponse resolves a signed URL", func(t *testing.T) {
		f := newPipelineFixture()
		stored := entities.NewProcess("proc-1", "doc-1", time.Now().UTC())
		stored.ResponseKey = "responses/doc-1/final.txt"
		f.processes.On("GetByID", mock.Anything, "proc-1").Return(stored, nil)
		f.archiver.On("DownloadURL", mock.Anything, "responses/doc-1/final.txt", 15*time.Minute).
			Return("https://storage.example/signed", nil)

		url, err := f.service.DownloadResponse(context.Background(), "proc-1")

		assert.NoError(t, err)
		assert.Equal(t, "https://storage.example/signed", url)
	})
}
