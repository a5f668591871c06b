package routes

import (
	"net/http"

	"github.com/zatekoja/rfp-response-pipeline/internal/api/handlers"
	"github.com/zatekoja/rfp-response-pipeline/internal/api/middleware"
	"github.com/zatekoja/rfp-response-pipeline/internal/infrastructure/observability"
)

// Router holds all route handlers
type Router struct {
	mux *http.ServeMux

	rfpHandler       *handlers.RFPHandler
	knowledgeHandler *handlers.KnowledgeHandler
	streamHandler    *handlers.StreamHandler

	metrics *observability.Metrics
}

// NewRouter creates a new router
func NewRouter(
	rfpHandler *handlers.RFPHandler,
	knowledgeHandler *handlers.KnowledgeHandler,
	streamHandler *handlers.StreamHandler,
	metrics *observability.Metrics,
) *Router {
	return &Router{
		mux:              http.NewServeMux(),
		rfpHandler:       rfpHandler,
		knowledgeHandler: knowledgeHandler,
		streamHandler:    streamHandler,
		metrics:          metrics,
	}
}

// SetupRoutes configures all application routes
func (r *Router) SetupRoutes() http.Handler {
	// Health check endpoint
	r.mux.HandleFunc("GET /health", func(w http.ResponseWriter, req *http.Request) {
		w.WriteHeader(http.StatusOK)

		if _, err := w.Write([]byte("OK")); err != nil {
			return
		}
	})

	// RFP upload and pipeline endpoints
	r.mux.HandleFunc("POST /api/rfp", r.rfpHandler.StartUpload)
	r.mux.HandleFunc("POST /api/rfp/complete-upload", r.rfpHandler.CompleteUpload)
	r.mux.HandleFunc("POST /api/rfp/process", r.rfpHandler.StartProcessing)
	r.mux.HandleFunc("GET /api/rfp/status/{process_id}", r.rfpHandler.GetStatus)
	r.mux.HandleFunc("GET /api/rfp/result/{process_id}", r.rfpHandler.GetResult)
	r.mux.HandleFunc("GET /api/rfp/decision/{process_id}", r.rfpHandler.GetDecision)
	r.mux.HandleFunc("GET /api/rfp/draft/{process_id}", r.rfpHandler.GetDraft)
	r.mux.HandleFunc("GET /api/rfp/compliance/{process_id}", r.rfpHandler.GetComplianceReview)
	r.mux.HandleFunc("GET /api/rfp/download/{process_id}", r.rfpHandler.DownloadResponse)
	r.mux.HandleFunc("GET /api/rfp/stream/{process_id}", r.streamHandler.StreamProcessUpdates)

	// Knowledge base endpoints
	r.mux.HandleFunc("GET /api/knowledge-base", r.knowledgeHandler.ListEntries)
	r.mux.HandleFunc("POST /api/knowledge-base", r.knowledgeHandler.CreateEntry)
	r.mux.HandleFunc("GET /api/knowledge-base/search", r.knowledgeHandler.SearchEntries)
	r.mux.HandleFunc("GET /api/knowledge-base/{content_id}", r.knowledgeHandler.GetEntry)
	r.mux.HandleFunc("PUT /api/knowledge-base/{content_id}", r.knowledgeHandler.UpdateEntry)
	r.mux.HandleFunc("DELETE /api/knowledge-base/{content_id}", r.knowledgeHandler.DeleteEntry)

	// Apply middleware chain
	var handler http.Handler = r.mux
	handler = middleware.ObservabilityMiddleware(r.metrics)(handler)
	handler = middleware.LoggingMiddleware(handler)
	handler = middleware.CORSMiddleware(handler)

	return handler
}
