package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/zatekoja/rfp-response-pipeline/internal/application/services"
	"github.com/zatekoja/rfp-response-pipeline/internal/domain/entities"
)

// UploadService defines the upload operations used by the handler.
type UploadService interface {
	StartUpload(ctx context.Context, req *services.StartUploadRequest) (*services.StartUploadResponse, error)
	CompleteUpload(ctx context.Context, documentID string) (*entities.Document, error)
}

// PipelineService defines the pipeline operations used by the handler.
type PipelineService interface {
	StartProcessing(ctx context.Context, documentID string) (*services.StartProcessingResponse, error)
	GetStatus(ctx context.Context, processID string) (*entities.Process, error)
	GetResult(ctx context.Context, processID string) (*services.ProcessResult, error)
	GetDecision(ctx context.Context, processID string) (*entities.DecisionResult, error)
	GetDraft(ctx context.Context, processID string) (*entities.DraftResult, error)
	GetComplianceReview(ctx context.Context, processID string) (*entities.ComplianceResult, error)
	DownloadResponse(ctx context.Context, processID string) (string, error)
}

// RFPHandler handles RFP upload and pipeline endpoints.
type RFPHandler struct {
	uploads  UploadService
	pipeline PipelineService
}

// NewRFPHandler creates a new RFP handler.
func NewRFPHandler(uploads UploadService, pipeline PipelineService) *RFPHandler {
	return &RFPHandler{
		uploads:  uploads,
		pipeline: pipeline,
	}
}

// StartUpload handles POST /api/rfp
func (h *RFPHandler) StartUpload(w http.ResponseWriter, r *http.Request) {
	var payload services.StartUploadRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request payload")
		return
	}

	resp, err := h.uploads.StartUpload(r.Context(), &payload)
	if err != nil {
		respondWithServiceError(w, err)
		return
	}
	respondWithJSON(w, http.StatusCreated, resp)
}

type completeUploadRequest struct {
	DocumentID string `json:"document_id"`
}

// CompleteUpload handles POST /api/rfp/complete-upload
func (h *RFPHandler) CompleteUpload(w http.ResponseWriter, r *http.Request) {
	var payload completeUploadRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request payload")
		return
	}
	if payload.DocumentID == "" {
		respondWithError(w, http.StatusBadRequest, "document_id is required")
		return
	}

	document, err := h.uploads.CompleteUpload(r.Context(), payload.DocumentID)
	if err != nil {
		respondWithServiceError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"document_id": document.ID,
		"status":      document.Status,
	})
}

type startProcessingRequest struct {
	DocumentID string `json:"document_id"`
}

// StartProcessing handles POST /api/rfp/process
func (h *RFPHandler) StartProcessing(w http.ResponseWriter, r *http.Request) {
	var payload startProcessingRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request payload")
		return
	}
	if payload.DocumentID == "" {
		respondWithError(w, http.StatusBadRequest, "document_id is required")
		return
	}

	resp, err := h.pipeline.StartProcessing(r.Context(), payload.DocumentID)
	if err != nil {
		respondWithServiceError(w, err)
		return
	}
	respondWithJSON(w, http.StatusAccepted, resp)
}

// GetStatus handles GET /api/rfp/status/{process_id}
func (h *RFPHandler) GetStatus(w http.ResponseWriter, r *http.Request) {
	process, err := h.pipeline.GetStatus(r.Context(), r.PathValue("process_id"))
	if err != nil {
		respondWithServiceError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, process)
}

// GetResult handles GET /api/rfp/result/{process_id}
func (h *RFPHandler) GetResult(w http.ResponseWriter, r *http.Request) {
	result, err := h.pipeline.GetResult(r.Context(), r.PathValue("process_id"))
	if err != nil {
		respondWithServiceError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, result)
}

// GetDecision handles GET /api/rfp/decision/{process_id}
func (h *RFPHandler) GetDecision(w http.ResponseWriter, r *http.Request) {
	decision, err := h.pipeline.GetDecision(r.Context(), r.PathValue("process_id"))
	if err != nil {
		respondWithServiceError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, decision)
}

// GetDraft handles GET /api/rfp/draft/{process_id}
func (h *RFPHandler) GetDraft(w http.ResponseWriter, r *http.Request) {
	draft, err := h.pipeline.GetDraft(r.Context(), r.PathValue("process_id"))
	if err != nil {
		respondWithServiceError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, draft)
}

// GetComplianceReview handles GET /api/rfp/compliance/{process_id}
func (h *RFPHandler) GetComplianceReview(w http.ResponseWriter, r *http.Request) {
	review, err := h.pipeline.GetComplianceReview(r.Context(), r.PathValue("process_id"))
	if err != nil {
		respondWithServiceError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, review)
}

// DownloadResponse handles GET /api/rfp/download/{process_id}
func (h *RFPHandler) DownloadResponse(w http.ResponseWriter, r *http.Request) {
	url, err := h.pipeline.DownloadResponse(r.Context(), r.PathValue("process_id"))
	if err != nil {
		respondWithServiceError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, map[string]string{
		"download_url": url,
	})
}
