package chi

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/kailas-cloud/litsearch/internal/domain"
	"github.com/kailas-cloud/litsearch/internal/domain/search/request"
	logpkg "github.com/kailas-cloud/litsearch/internal/logger"
	documentuc "github.com/kailas-cloud/litsearch/internal/usecase/document"
	healthuc "github.com/kailas-cloud/litsearch/internal/usecase/health"
	retrievaluc "github.com/kailas-cloud/litsearch/internal/usecase/retrieval"
)

// maxBodyBytes caps POST bodies; queries are short.
const maxBodyBytes = 1 << 20

// msgQueryMissing is the 400 message for a search without a query.
const msgQueryMissing = "Query parameter is missing"

// errorHandler tries to handle a domain error. Returns true if handled.
type errorHandler func(w http.ResponseWriter, err error, msg string) bool

// Server serves the literature search HTTP API.
type Server struct {
	documents     *documentuc.Service
	retrieval     *retrievaluc.Service
	health        *healthuc.Service
	logger        *zap.Logger
	errorHandlers []errorHandler
}

// NewServer creates an HTTP API server.
func NewServer(
	documents *documentuc.Service,
	retrieval *retrievaluc.Service,
	health *healthuc.Service,
	logger *zap.Logger,
) *Server {
	s := &Server{
		documents: documents,
		retrieval: retrieval,
		health:    health,
		logger:    logger,
	}
	s.errorHandlers = []errorHandler{
		sentinelHandler(domain.ErrInvalidRequest, http.StatusBadRequest),
		sentinelHandler(domain.ErrNotFound, http.StatusNotFound),
		sentinelHandler(domain.ErrProviderUnavailable, http.StatusInternalServerError),
		sentinelHandler(domain.ErrIndexUnavailable, http.StatusInternalServerError),
	}
	return s
}

// HealthCheck handles GET /healthcheck.
func (s *Server) HealthCheck(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	if report.Status == healthuc.Unhealthy {
		logpkg.FromContext(r.Context()).Warn("Health check failed", zap.Error(report.Err))
		writeJSON(w, http.StatusInternalServerError, healthErrorResponse{Status: "Error", Message: "backend unavailable"})
		return
	}

	status := "OK"
	if report.Status == healthuc.Degraded {
		status = "Degraded"
	}
	checks := make(map[string]string, len(report.Checks))
	for k, v := range report.Checks {
		checks[k] = string(v)
	}
	writeJSON(w, http.StatusOK, healthResponse{
		Status: status,
		Backend: backendResponse{
			Checks: checks,
			Index: indexResponse{
				Name:           report.Index.Name,
				Exists:         report.Index.Exists,
				NumDocs:        report.Index.NumDocs,
				Indexing:       report.Index.Indexing,
				PercentIndexed: report.Index.PercentIndexed,
			},
		},
	})
}

// GetDocument handles GET /document/{id}. Embeddings are included with ?vectors=true.
func (s *Server) GetDocument(w http.ResponseWriter, r *http.Request) {
	withVectors, _ := strconv.ParseBool(r.URL.Query().Get("vectors"))

	doc, err := s.documents.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, documentToResponse(&doc, withVectors))
}

// Search handles POST /search.
func (s *Server) Search(w http.ResponseWriter, r *http.Request) {
	var body searchRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if strings.TrimSpace(body.Query) == "" {
		writeError(w, http.StatusBadRequest, msgQueryMissing)
		return
	}

	req, err := request.New(body.Query, body.Alpha)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	ctx, usage := domain.NewContextWithUsage(r.Context())
	res, err := s.retrieval.Search(ctx, &req)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	w.Header().Set("X-Embedding-Calls", strconv.FormatInt(usage.Calls(), 10))
	w.Header().Set("X-Embedding-Tokens", strconv.FormatInt(usage.Tokens(), 10))
	writeJSON(w, http.StatusOK, searchResultToResponse(&res))
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Error: message})
}

// safeDomainMessage returns a sentinel error message for the client without exposing internals.
func safeDomainMessage(err error) string {
	sentinels := []error{
		domain.ErrDocumentNotFound,
		domain.ErrNotFound,
		domain.ErrInvalidRequest,
		domain.ErrProviderUnavailable,
		domain.ErrIndexUnavailable,
	}
	for _, s := range sentinels {
		if errors.Is(err, s) {
			return s.Error()
		}
	}
	return "internal error"
}

// sentinelHandler returns an errorHandler that matches a single sentinel error.
func sentinelHandler(sentinel error, status int) errorHandler {
	return func(w http.ResponseWriter, err error, msg string) bool {
		if !errors.Is(err, sentinel) {
			return false
		}
		writeError(w, status, msg)
		return true
	}
}

func (s *Server) handleDomainError(w http.ResponseWriter, r *http.Request, err error) {
	log := logpkg.FromContext(r.Context())
	log.Warn("domain error", zap.Error(err))
	msg := safeDomainMessage(err)
	for _, h := range s.errorHandlers {
		if h(w, err, msg) {
			return
		}
	}
	log.Error("internal error", zap.Error(err))
	writeError(w, http.StatusInternalServerError, "internal error")
}
