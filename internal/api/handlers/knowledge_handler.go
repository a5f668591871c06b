package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/zatekoja/rfp-response-pipeline/internal/domain/entities"
)

const defaultSearchLimit = 10

// KnowledgeService defines the knowledge base operations used by the
// handler.
type KnowledgeService interface {
	CreateEntry(ctx context.Context, entry *entities.KnowledgeEntry) error
	GetEntry(ctx context.Context, id string) (*entities.KnowledgeEntry, error)
	ListEntries(ctx context.Context, contentType entities.KnowledgeContentType) ([]*entities.KnowledgeEntry, error)
	UpdateEntry(ctx context.Context, entry *entities.KnowledgeEntry) error
	DeleteEntry(ctx context.Context, id string) error
	SearchEntries(ctx context.Context, query string, contentType entities.KnowledgeContentType, limit int) ([]*entities.KnowledgeEntry, error)
}

// KnowledgeHandler handles knowledge base endpoints.
type KnowledgeHandler struct {
	service KnowledgeService
}

// NewKnowledgeHandler creates a new knowledge handler.
func NewKnowledgeHandler(service KnowledgeService) *KnowledgeHandler {
	return &KnowledgeHandler{service: service}
}

// CreateEntry handles POST /api/knowledge-base
func (h *KnowledgeHandler) CreateEntry(w http.ResponseWriter, r *http.Request) {
	var entry entities.KnowledgeEntry
	if err := json.NewDecoder(r.Body).Decode(&entry); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request payload")
		return
	}

	if err := h.service.CreateEntry(r.Context(), &entry); err != nil {
		respondWithServiceError(w, err)
		return
	}
	respondWithJSON(w, http.StatusCreated, entry)
}

// GetEntry handles GET /api/knowledge-base/{content_id}
func (h *KnowledgeHandler) GetEntry(w http.ResponseWriter, r *http.Request) {
	entry, err := h.service.GetEntry(r.Context(), r.PathValue("content_id"))
	if err != nil {
		respondWithServiceError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, entry)
}

// ListEntries handles GET /api/knowledge-base
func (h *KnowledgeHandler) ListEntries(w http.ResponseWriter, r *http.Request) {
	contentType := entities.KnowledgeContentType(r.URL.Query().Get("content_type"))

	entries, err := h.service.ListEntries(r.Context(), contentType)
	if err != nil {
		respondWithServiceError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"entries": entries,
		"count":   len(entries),
	})
}

// UpdateEntry handles PUT /api/knowledge-base/{content_id}
func (h *KnowledgeHandler) UpdateEntry(w http.ResponseWriter, r *http.Request) {
	var entry entities.KnowledgeEntry
	if err := json.NewDecoder(r.Body).Decode(&entry); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request payload")
		return
	}
	entry.ContentID = r.PathValue("content_id")

	if err := h.service.UpdateEntry(r.Context(), &entry); err != nil {
		respondWithServiceError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, entry)
}

// DeleteEntry handles DELETE /api/knowledge-base/{content_id}
func (h *KnowledgeHandler) DeleteEntry(w http.ResponseWriter, r *http.Request) {
	if err := h.service.DeleteEntry(r.Context(), r.PathValue("content_id")); err != nil {
		respondWithServiceError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, map[string]string{
		"status": "deleted",
	})
}

// SearchEntries handles GET /api/knowledge-base/search
func (h *KnowledgeHandler) SearchEntries(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")
	contentType := entities.KnowledgeContentType(r.URL.Query().Get("content_type"))

	limit := defaultSearchLimit
	if rawLimit := r.URL.Query().Get("limit"); rawLimit != "" {
		parsed, err := strconv.Atoi(rawLimit)
		if err != nil || parsed < 1 {
			respondWithError(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = parsed
	}

	entries, err := h.service.SearchEntries(r.Context(), query, contentType, limit)
	if err != nil {
		respondWithServiceError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"entries": entries,
		"count":   len(entries),
	})
}
