// Package chi exposes the analysis pipeline over HTTP.
package chi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/kailas-cloud/glyphdex/internal/domain"
	"github.com/kailas-cloud/glyphdex/internal/logger"
	"github.com/kailas-cloud/glyphdex/internal/report"
	"github.com/kailas-cloud/glyphdex/internal/tokenize"
	corpusuc "github.com/kailas-cloud/glyphdex/internal/usecase/corpus"
	healthuc "github.com/kailas-cloud/glyphdex/internal/usecase/health"
)

const maxDocumentsPerRequest = 100

// errorHandler tries to handle a domain error. Returns true if handled.
type errorHandler func(w http.ResponseWriter, err error, msg string) bool

// Error codes returned in JSON error responses.
const (
	codeBadRequest       = "bad_request"
	codeValidationFailed = "validation_failed"
	codeSignalProvider   = "signal_provider_error"
	codeInternalError    = "internal_error"
)

// Server is the HTTP API server.
type Server struct {
	corpus        *corpusuc.Service
	health        *healthuc.Service
	tokenizer     *tokenize.Tokenizer
	logger        *zap.Logger
	errorHandlers []errorHandler
}

// NewServer creates an HTTP API server.
func NewServer(
	corpus *corpusuc.Service,
	health *healthuc.Service,
	tokenizer *tokenize.Tokenizer,
	logger *zap.Logger,
) *Server {
	s := &Server{
		corpus:    corpus,
		health:    health,
		tokenizer: tokenizer,
		logger:    logger,
	}
	s.errorHandlers = []errorHandler{
		sentinelHandler(domain.ErrInvalidInput, http.StatusBadRequest, codeValidationFailed),
		sentinelHandler(domain.ErrInvalidConfig, http.StatusBadRequest, codeValidationFailed),
		sentinelHandler(domain.ErrSignalProvider, http.StatusBadGateway, codeSignalProvider),
	}
	return s
}

// documentRequest is one input document.
type documentRequest struct {
	ID   string `json:"id"`
	Text string `json:"text"`
}

// analyzeRequest is the body of POST /v1/analyze and POST /v1/report.
type analyzeRequest struct {
	Documents []documentRequest `json:"documents"`
	TopGlyphs int               `json:"top_glyphs,omitempty"` // report only
}

// occurrenceResponse is one glyph occurrence.
type occurrenceResponse struct {
	DocID   string `json:"doc_id"`
	Start   int    `json:"start"`
	End     int    `json:"end"`
	Surface string `json:"surface"`
}

// glyphResponse is one ranked glyph.
type glyphResponse struct {
	ID             string               `json:"id"`
	Family         string               `json:"family"`
	Category       string               `json:"category,omitempty"`
	Bucket         int                  `json:"bucket"`
	Score          float64              `json:"score"`
	Count          int                  `json:"count"`
	Representative occurrenceResponse   `json:"representative"`
	Occurrences    []occurrenceResponse `json:"occurrences"`
}

// summaryResponse mirrors corpus.Summary with a millisecond duration.
type summaryResponse struct {
	RunID      string             `json:"run_id"`
	Documents  int                `json:"documents"`
	Processed  int                `json:"processed"`
	Skipped    int                `json:"skipped"`
	Failures   []corpusuc.Failure `json:"failures,omitempty"`
	Candidates int                `json:"candidates"`
	Glyphs     int                `json:"glyphs"`
	DurationMs int64              `json:"duration_ms"`
}

// analyzeResponse is the body of a successful POST /v1/analyze.
type analyzeResponse struct {
	Glyphs  []glyphResponse `json:"glyphs"`
	Summary summaryResponse `json:"summary"`
}

// Analyze handles POST /v1/analyze.
func (s *Server) Analyze(w http.ResponseWriter, r *http.Request) {
	res, ok := s.runPipeline(w, r)
	if !ok {
		return
	}

	glyphs := make([]glyphResponse, 0, res.Map.Len())
	for _, g := range res.Map.Glyphs() {
		glyphs = append(glyphs, glyphToResponse(g))
	}

	writeJSON(w, http.StatusOK, analyzeResponse{
		Glyphs:  glyphs,
		Summary: summaryToResponse(res.Summary),
	})
}

// Report handles POST /v1/report. Same input as Analyze, plain-text output.
func (s *Server) Report(w http.ResponseWriter, r *http.Request) {
	var req analyzeRequest
	res, ok := s.runPipelineWith(w, r, &req)
	if !ok {
		return
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(report.Render(res, report.Options{TopGlyphs: req.TopGlyphs})))
}

// HealthCheck handles GET /v1/health.
func (s *Server) HealthCheck(w http.ResponseWriter, r *http.Request) {
	rep := s.health.Check(r.Context())

	httpStatus := http.StatusOK
	if rep.Status != healthuc.Healthy {
		httpStatus = http.StatusServiceUnavailable
	}

	writeJSON(w, httpStatus, map[string]any{
		"status": rep.Status,
		"checks": rep.Checks,
	})
}

// Metrics handles GET /metrics.
func (s *Server) Metrics(w http.ResponseWriter, r *http.Request) {
	promhttp.Handler().ServeHTTP(w, r)
}

func (s *Server) runPipeline(w http.ResponseWriter, r *http.Request) (corpusuc.Result, bool) {
	var req analyzeRequest
	return s.runPipelineWith(w, r, &req)
}

func (s *Server) runPipelineWith(
	w http.ResponseWriter, r *http.Request, req *analyzeRequest,
) (corpusuc.Result, bool) {
	if err := json.NewDecoder(r.Body).Decode(req); err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "Invalid request body: "+err.Error())
		return corpusuc.Result{}, false
	}

	if len(req.Documents) == 0 || len(req.Documents) > maxDocumentsPerRequest {
		writeError(w, http.StatusBadRequest, codeValidationFailed,
			fmt.Sprintf("documents count must be between 1 and %d", maxDocumentsPerRequest))
		return corpusuc.Result{}, false
	}

	seen := make(map[string]struct{}, len(req.Documents))
	docs := make([]*domain.Document, 0, len(req.Documents))
	for i, d := range req.Documents {
		if d.ID == "" {
			writeError(w, http.StatusBadRequest, codeValidationFailed,
				fmt.Sprintf("documents[%d].id is required", i))
			return corpusuc.Result{}, false
		}
		if _, dup := seen[d.ID]; dup {
			writeError(w, http.StatusBadRequest, codeValidationFailed,
				fmt.Sprintf("duplicate document id %q", d.ID))
			return corpusuc.Result{}, false
		}
		seen[d.ID] = struct{}{}

		doc, err := s.tokenizer.Tokenize(d.ID, d.Text)
		if err != nil {
			s.handleDomainError(r.Context(), w, err)
			return corpusuc.Result{}, false
		}
		docs = append(docs, doc)
	}

	res, err := s.corpus.Analyze(r.Context(), docs)
	if err != nil {
		s.handleDomainError(r.Context(), w, err)
		return corpusuc.Result{}, false
	}
	return res, true
}

func glyphToResponse(g *domain.Glyph) glyphResponse {
	occs := make([]occurrenceResponse, len(g.Occurrences()))
	for i, o := range g.Occurrences() {
		occs[i] = occurrenceToResponse(o)
	}
	return glyphResponse{
		ID:             g.ID(),
		Family:         g.Family(),
		Category:       g.Category(),
		Bucket:         g.Bucket(),
		Score:          g.Score(),
		Count:          g.Count(),
		Representative: occurrenceToResponse(g.Representative()),
		Occurrences:    occs,
	}
}

func occurrenceToResponse(o domain.Occurrence) occurrenceResponse {
	return occurrenceResponse{
		DocID:   o.DocID,
		Start:   o.Span.Start,
		End:     o.Span.End,
		Surface: o.Surface,
	}
}

func summaryToResponse(s corpusuc.Summary) summaryResponse {
	return summaryResponse{
		RunID:      s.RunID,
		Documents:  s.Documents,
		Processed:  s.Processed,
		Skipped:    s.Skipped,
		Failures:   s.Failures,
		Candidates: s.Candidates,
		Glyphs:     s.Glyphs,
		DurationMs: s.Duration.Milliseconds(),
	}
}

// errorResponse is the JSON error body.
type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, errorResponse{Code: code, Message: message})
}

// safeDomainMessage returns a sentinel error message for the client without exposing internals.
func safeDomainMessage(err error) string {
	sentinels := []error{
		domain.ErrInvalidInput,
		domain.ErrInvalidConfig,
		domain.ErrSignalProvider,
	}
	for _, s := range sentinels {
		if errors.Is(err, s) {
			return s.Error()
		}
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return "request cancelled"
	}
	return "internal error"
}

// sentinelHandler returns an errorHandler that matches a single sentinel error.
func sentinelHandler(sentinel error, status int, code string) errorHandler {
	return func(w http.ResponseWriter, err error, msg string) bool {
		if !errors.Is(err, sentinel) {
			return false
		}
		writeError(w, status, code, msg)
		return true
	}
}

func (s *Server) handleDomainError(ctx context.Context, w http.ResponseWriter, err error) {
	log := logger.FromContext(ctx, s.logger)
	log.Warn("domain error", zap.Error(err))
	msg := safeDomainMessage(err)

	var inputErr *domain.InputError
	if errors.As(err, &inputErr) {
		writeError(w, http.StatusBadRequest, codeValidationFailed,
			fmt.Sprintf("document %q: %s", inputErr.DocID, inputErr.Reason))
		return
	}

	for _, h := range s.errorHandlers {
		if h(w, err, msg) {
			return
		}
	}
	log.Error("internal error", zap.Error(err))
	writeError(w, http.StatusInternalServerError, codeInternalError, "internal error")
}

// WithDeadline bounds request handling; 0 disables the deadline.
func WithDeadline(d time.Duration) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if d <= 0 {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx, cancel := context.WithTimeout(r.Context(), d)
			defer cancel()
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
