package services

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/zatekoja/rfp-response-pipeline/internal/domain/entities"
	"github.com/zatekoja/rfp-response-pipeline/internal/domain/providers"
	"github.com/zatekoja/rfp-response-pipeline/internal/domain/repositories"
	"github.com/zatekoja/rfp-response-pipeline/internal/infrastructure/observability"
	apperrors "github.com/zatekoja/rfp-response-pipeline/pkg/errors"
)

// KnowledgeResolver supplies the knowledge bundles embedded into stage
// prompts. Implementations never fail; they fall back to defaults.
type KnowledgeResolver interface {
	GetBusinessContext(ctx context.Context) *entities.BusinessContext
	GetResponseTemplates(ctx context.Context) string
	GetComplianceRules(ctx context.Context) string
}

// AuditRecorder records pipeline actions best-effort.
type AuditRecorder interface {
	Record(ctx context.Context, processID, actionType, description string, data map[string]interface{})
}

// ResponseArchiver stores the final response artifact and resolves
// download links for it.
type ResponseArchiver interface {
	Archive(ctx context.Context, process *entities.Process, document *entities.Document) (string, error)
	DownloadURL(ctx context.Context, key string, ttl time.Duration) (string, error)
}

const (
	draftFallbackText      = "Error generating draft. Manual draft preparation is required."
	complianceFallbackText = "Compliance review could not be completed. Manual review is required before submission."
)

// StartProcessingResponse is the snapshot returned to the caller when a
// pipeline run begins.
type StartProcessingResponse struct {
	ProcessID string                 `json:"process_id"`
	Status    entities.ProcessStatus `json:"status"`
}

// ProcessResult is the retrieval view of a process run.
type ProcessResult struct {
	Status    entities.ProcessStatus `json:"status"`
	Steps     entities.ProcessSteps  `json:"steps"`
	CreatedAt time.Time              `json:"created_at"`
	UpdatedAt time.Time              `json:"updated_at"`
}

// PipelineService orchestrates the stage sequence for one document:
// decision, then for BID decisions generation, compliance review and
// archiving. State is persisted after every stage so pollers always see
// the latest completed stage. External AI failures degrade individual
// stage results; they never abort the run.
type PipelineService struct {
	processes   repositories.ProcessRepository
	documents   repositories.DocumentRepository
	completion  providers.CompletionProvider
	knowledge   KnowledgeResolver
	audit       AuditRecorder
	archiver    ResponseArchiver
	events      providers.EventBus
	metrics     *observability.Metrics
	downloadTTL time.Duration
}

// NewPipelineService creates a new pipeline orchestrator. events and
// metrics may be nil.
func NewPipelineService(
	processes repositories.ProcessRepository,
	documents repositories.DocumentRepository,
	completion providers.CompletionProvider,
	knowledge KnowledgeResolver,
	audit AuditRecorder,
	archiver ResponseArchiver,
	events providers.EventBus,
	metrics *observability.Metrics,
	downloadTTL time.Duration,
) *PipelineService {
	return &PipelineService{
		processes:   processes,
		documents:   documents,
		completion:  completion,
		knowledge:   knowledge,
		audit:       audit,
		archiver:    archiver,
		events:      events,
		metrics:     metrics,
		downloadTTL: downloadTTL,
	}
}

// StartProcessing creates a process record for the document and runs
// the pipeline. The returned snapshot reflects the freshly created
// record; stage outcomes, including degraded ones, are observed through
// the retrieval operations.
func (s *PipelineService) StartProcessing(ctx context.Context, documentID string) (*StartProcessingResponse, error) {
	ctx, span := observability.StartSpan(ctx, "pipeline.start_processing")
	defer span.End()

	document, err := s.documents.GetByID(ctx, documentID)
	if err != nil {
		return nil, err
	}
	if !document.HasContent() {
		return nil, apperrors.NewNotFoundError("document has no extracted content")
	}

	process := entities.NewProcess(uuid.New().String(), documentID, time.Now().UTC())
	if err := s.processes.Create(ctx, process); err != nil {
		return nil, err
	}

	snapshot := &StartProcessingResponse{ProcessID: process.ID, Status: process.Status}

	s.publish(ctx, process, entities.ProcessEventStarted)
	s.audit.Record(ctx, process.ID, "processing_started", "pipeline run started", map[string]interface{}{
		"document_id": documentID,
	})

	s.run(ctx, process, document)
	return snapshot, nil
}

func (s *PipelineService) run(ctx context.Context, process *entities.Process, document *entities.Document) {
	decision := s.runDecision(ctx, process, document)

	process.Steps.Decision.Result = decision
	completeStage(&process.Steps.Decision.StageState)
	process.Status = entities.ProcessStatusDecisionCompleted
	if err := s.persist(ctx, process, entities.ProcessEventDecisionCompleted); err != nil {
		s.fail(ctx, process, err)
		return
	}
	s.audit.Record(ctx, process.ID, "decision_completed", "bid decision recorded", map[string]interface{}{
		"decision":   decision.Decision,
		"confidence": decision.Confidence,
	})

	if !decision.IsBid() {
		process.Status = entities.ProcessStatusCompleted
		if err := s.persist(ctx, process, entities.ProcessEventCompleted); err != nil {
			s.fail(ctx, process, err)
			return
		}
		s.audit.Record(ctx, process.ID, "processing_completed", "pipeline completed without bid", nil)
		return
	}

	draft := s.runGeneration(ctx, process, document)
	process.Steps.Generation.Result = draft
	completeStage(&process.Steps.Generation.StageState)
	if err := s.persist(ctx, process, entities.ProcessEventGenerationCompleted); err != nil {
		s.fail(ctx, process, err)
		return
	}
	s.audit.Record(ctx, process.ID, "generation_completed", "draft generated", map[string]interface{}{
		"degraded": draft.Error != "",
	})

	review := s.runCompliance(ctx, process, draft)
	process.Steps.Compliance.Result = review
	completeStage(&process.Steps.Compliance.StageState)
	if err := s.persist(ctx, process, entities.ProcessEventComplianceCompleted); err != nil {
		s.fail(ctx, process, err)
		return
	}
	s.audit.Record(ctx, process.ID, "compliance_completed", "compliance review recorded", map[string]interface{}{
		"status": review.Status,
		"score":  review.ComplianceScore,
	})

	key, err := s.archiver.Archive(ctx, process, document)
	if err != nil {
		s.fail(ctx, process, err)
		return
	}
	process.ResponseKey = key
	process.Status = entities.ProcessStatusCompleted
	if err := s.persist(ctx, process, entities.ProcessEventCompleted); err != nil {
		s.fail(ctx, process, err)
		return
	}
	s.audit.Record(ctx, process.ID, "processing_completed", "pipeline completed", map[string]interface{}{
		"response_key": key,
	})
}

func (s *PipelineService) runDecision(ctx context.Context, process *entities.Process, document *entities.Document) *entities.DecisionResult {
	start := time.Now()
	process.Steps.Decision.Status = entities.StageStatusInProgress

	bc := s.knowledge.GetBusinessContext(ctx)
	prompt := buildDecisionPrompt(document, bc)

	response, err := s.completion.Complete(ctx, prompt, decisionMaxTokens, decisionTemperature)
	if err != nil {
		observability.LoggerFromContext(ctx).Warn().
			Err(err).
			Str("process_id", process.ID).
			Msg("completion failed for decision stage, applying rule-based fallback")
		observability.RecordStageMetric(ctx, s.metrics, "decision", true, time.Since(start))
		return FallbackBidDecision(document.Region)
	}

	observability.RecordStageMetric(ctx, s.metrics, "decision", false, time.Since(start))
	return ParseBidDecision(response)
}

func (s *PipelineService) runGeneration(ctx context.Context, process *entities.Process, document *entities.Document) *entities.DraftResult {
	start := time.Now()
	process.Steps.Generation.Status = entities.StageStatusInProgress

	bc := s.knowledge.GetBusinessContext(ctx)
	templates := s.knowledge.GetResponseTemplates(ctx)
	reasoning := ""
	if process.Steps.Decision.Result != nil {
		reasoning = process.Steps.Decision.Result.Reasoning
	}
	prompt := buildDraftPrompt(document, reasoning, templates, bc)

	response, err := s.completion.Complete(ctx, prompt, draftMaxTokens, draftTemperature)
	if err != nil {
		observability.LoggerFromContext(ctx).Warn().
			Err(err).
			Str("process_id", process.ID).
			Msg("completion failed for generation stage, recording degraded draft")
		observability.RecordStageMetric(ctx, s.metrics, "generation", true, time.Since(start))
		return &entities.DraftResult{
			Content:     draftFallbackText,
			Error:       err.Error(),
			GeneratedAt: time.Now().UTC(),
		}
	}

	observability.RecordStageMetric(ctx, s.metrics, "generation", false, time.Since(start))
	return &entities.DraftResult{
		Content:     response,
		GeneratedAt: time.Now().UTC(),
	}
}

func (s *PipelineService) runCompliance(ctx context.Context, process *entities.Process, draft *entities.DraftResult) *entities.ComplianceResult {
	start := time.Now()
	process.Steps.Compliance.Status = entities.StageStatusInProgress

	bc := s.knowledge.GetBusinessContext(ctx)
	rules := s.knowledge.GetComplianceRules(ctx)
	prompt := buildCompliancePrompt(draft.Content, rules, bc)

	response, err := s.completion.Complete(ctx, prompt, complianceMaxTokens, complianceTemperature)
	if err != nil {
		observability.LoggerFromContext(ctx).Warn().
			Err(err).
			Str("process_id", process.ID).
			Msg("completion failed for compliance stage, recording degraded review")
		observability.RecordStageMetric(ctx, s.metrics, "compliance", true, time.Since(start))
		return &entities.ComplianceResult{
			Status:          "error",
			Issues:          complianceFallbackText,
			Recommendations: "Manual compliance review required",
			ComplianceScore: 0,
			Error:           err.Error(),
		}
	}

	observability.RecordStageMetric(ctx, s.metrics, "compliance", false, time.Since(start))
	return ParseComplianceReview(response)
}

// GetStatus returns the full process record.
func (s *PipelineService) GetStatus(ctx context.Context, processID string) (*entities.Process, error) {
	return s.processes.GetByID(ctx, processID)
}

// GetResult returns the summarized view of a process run.
func (s *PipelineService) GetResult(ctx context.Context, processID string) (*ProcessResult, error) {
	process, err := s.processes.GetByID(ctx, processID)
	if err != nil {
		return nil, err
	}
	return &ProcessResult{
		Status:    process.Status,
		Steps:     process.Steps,
		CreatedAt: process.CreatedAt,
		UpdatedAt: process.UpdatedAt,
	}, nil
}

// GetDecision returns the decision stage result, or NotFound when the
// stage has not completed.
func (s *PipelineService) GetDecision(ctx context.Context, processID string) (*entities.DecisionResult, error) {
	process, err := s.processes.GetByID(ctx, processID)
	if err != nil {
		return nil, err
	}
	if process.Steps.Decision.Result == nil {
		return nil, apperrors.NewNotFoundError("decision has not completed for process")
	}
	return process.Steps.Decision.Result, nil
}

// GetDraft returns the generation stage result, or NotFound when the
// stage has not completed.
func (s *PipelineService) GetDraft(ctx context.Context, processID string) (*entities.DraftResult, error) {
	process, err := s.processes.GetByID(ctx, processID)
	if err != nil {
		return nil, err
	}
	if process.Steps.Generation.Result == nil {
		return nil, apperrors.NewNotFoundError("draft has not been generated for process")
	}
	return process.Steps.Generation.Result, nil
}

// GetComplianceReview returns the compliance stage result, or NotFound
// when the stage has not completed.
func (s *PipelineService) GetComplianceReview(ctx context.Context, processID string) (*entities.ComplianceResult, error) {
	process, err := s.processes.GetByID(ctx, processID)
	if err != nil {
		return nil, err
	}
	if process.Steps.Compliance.Result == nil {
		return nil, apperrors.NewNotFoundError("compliance review has not completed for process")
	}
	return process.Steps.Compliance.Result, nil
}

// DownloadResponse returns a time-limited download URL for the archived
// response, or NotFound when no response has been archived.
func (s *PipelineService) DownloadResponse(ctx context.Context, processID string) (string, error) {
	process, err := s.processes.GetByID(ctx, processID)
	if err != nil {
		return "", err
	}
	if process.ResponseKey == "" {
		return "", apperrors.NewNotFoundError("no archived response for process")
	}
	return s.archiver.DownloadURL(ctx, process.ResponseKey, s.downloadTTL)
}

func (s *PipelineService) persist(ctx context.Context, process *entities.Process, eventType string) error {
	process.UpdatedAt = time.Now().UTC()
	if err := s.processes.Update(ctx, process); err != nil {
		return err
	}
	s.publish(ctx, process, eventType)
	return nil
}

// fail marks the process failed. The persistence attempt here is
// best-effort: if even the failure state cannot be written there is
// nothing left to do but log.
func (s *PipelineService) fail(ctx context.Context, process *entities.Process, cause error) {
	observability.LoggerFromContext(ctx).Error().
		Err(cause).
		Str("process_id", process.ID).
		Msg("pipeline run failed")

	process.Status = entities.ProcessStatusFailed
	process.Error = cause.Error()
	process.UpdatedAt = time.Now().UTC()
	if err := s.processes.Update(ctx, process); err != nil {
		observability.LoggerFromContext(ctx).Error().
			Err(err).
			Str("process_id", process.ID).
			Msg("failed to persist failure state")
	}
	s.publish(ctx, process, entities.ProcessEventFailed)
	s.audit.Record(ctx, process.ID, "processing_failed", cause.Error(), nil)
}

func (s *PipelineService) publish(ctx context.Context, process *entities.Process, eventType string) {
	if s.events == nil {
		return
	}
	event := &entities.ProcessEvent{
		ID:         uuid.New().String(),
		ProcessID:  process.ID,
		DocumentID: process.DocumentID,
		EventType:  eventType,
		Status:     process.Status,
		OccurredAt: time.Now().UTC(),
	}
	for _, channel := range []string{providers.EventChannelProcessUpdates, providers.GetProcessChannel(process.ID)} {
		if err := s.events.Publish(ctx, channel, event); err != nil {
			observability.LoggerFromContext(ctx).Warn().
				Err(err).
				Str("process_id", process.ID).
				Str("channel", channel).
				Msg("failed to publish process event")
		}
	}
}

func completeStage(stage *entities.StageState) {
	now := time.Now().UTC()
	stage.Status = entities.StageStatusCompleted
	stage.Timestamp = &now
}
