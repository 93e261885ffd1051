package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"time"

	"golang.org/x/time/rate"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/TFMV/codescope/analysis"
	"github.com/TFMV/codescope/config"
	"github.com/TFMV/codescope/db"
	"github.com/TFMV/codescope/types"
)

// DefaultFilename is used when a request omits the filename.
const DefaultFilename = "untitled.js"

const (
	serviceName         = "CodeScope API"
	defaultMaxBodyBytes = 2 << 20
)

// AnalyzeRequest is the body of POST /api/analyze.
type AnalyzeRequest struct {
	Code     *string `json:"code"`
	Filename *string `json:"filename"`
}

type detail struct {
	Detail string `json:"detail"`
}

// Server exposes the analyzer and the history sink over HTTP.
type Server struct {
	cfg          config.ServerConfig
	analyzer     *analysis.Analyzer
	store        db.DB
	historyLimit int
	limiter      *rate.Limiter
	now          func() time.Time
}

func New(cfg config.ServerConfig, analyzer *analysis.Analyzer, store db.DB, historyLimit int) *Server {
	if historyLimit <= 0 {
		historyLimit = db.DefaultHistoryLimit
	}
	if cfg.MaxBodyBytes <= 0 {
		cfg.MaxBodyBytes = defaultMaxBodyBytes
	}

	var limiter *rate.Limiter
	if cfg.RateLimit > 0 {
		limiter = rate.NewLimiter(rate.Limit(cfg.RateLimit), max(cfg.RateBurst, 1))
	}

	return &Server{
		cfg:          cfg,
		analyzer:     analyzer,
		store:        store,
		historyLimit: historyLimit,
		limiter:      limiter,
		now:          time.Now,
	}
}

// Handler returns the routed, CORS-wrapped handler.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	s.registerHandlers(mux)
	return cors(s.cfg.CORSOrigins, mux)
}

func (s *Server) registerHandlers(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/{$}", instrument("root", s.handleRoot))
	mux.HandleFunc("POST /api/analyze", instrument("analyze", rateLimit(s.limiter, s.handleAnalyze)))
	mux.HandleFunc("GET /api/history", instrument("history", s.handleHistory))
	mux.HandleFunc("GET /api/health", instrument("health", s.handleHealth))
	mux.Handle("GET /metrics", promhttp.Handler())
}

// Run listens on the configured address until ctx is canceled.
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.cfg.Addr)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", s.cfg.Addr, err)
	}
	return s.Serve(ctx, ln)
}

// Serve handles connections on ln until ctx is canceled, then shuts down
// gracefully.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.Handler(),
		ReadTimeout:       s.cfg.ReadTimeout,
		ReadHeaderTimeout: s.cfg.ReadTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Serve(ln)
	}()
	slog.Info("api server listening", "addr", ln.Addr().String())

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown error: %w", err)
	}
	<-errCh
	slog.Info("api server stopped")
	return nil
}

func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"message": serviceName})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok", "service": serviceName})
}

func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxBodyBytes)

	var req AnalyzeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeDetail(w, http.StatusRequestEntityTooLarge, fmt.Sprintf("request body exceeds %d bytes", tooLarge.Limit))
			return
		}
		writeDetail(w, http.StatusUnprocessableEntity, "invalid request body: "+err.Error())
		return
	}
	if req.Code == nil {
		writeDetail(w, http.StatusUnprocessableEntity, "field required: code")
		return
	}
	filename := DefaultFilename
	if req.Filename != nil {
		filename = *req.Filename
	}

	start := time.Now()
	result, err := s.analyzer.Analyze(*req.Code, filename)
	if errors.Is(err, analysis.ErrUnsupportedLanguage) {
		AnalysesTotal.WithLabelValues("unknown", "unsupported").Inc()
		writeJSON(w, http.StatusOK, types.NewUnsupportedResult(err))
		return
	}
	if err != nil {
		AnalysesTotal.WithLabelValues("unknown", "error").Inc()
		slog.Error("analysis failed", "filename", filename, "error", err)
		writeDetail(w, http.StatusInternalServerError, "analysis failed")
		return
	}
	AnalysisDuration.WithLabelValues(result.Language).Observe(time.Since(start).Seconds())
	AnalysesTotal.WithLabelValues(result.Language, "ok").Inc()

	record := types.NewAnalysisRecord(result, s.now())
	if err := s.store.StoreAnalysis(r.Context(), record); err != nil {
		HistoryStoreErrors.Inc()
		slog.Warn("failed to store analysis record", "filename", filename, "id", record.ID, "error", err)
	}

	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	limit := s.historyLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			writeDetail(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = n
	}

	records, err := s.store.ListRecent(r.Context(), limit)
	if err != nil {
		slog.Error("failed to list history", "error", err)
		writeDetail(w, http.StatusInternalServerError, "failed to list history")
		return
	}
	writeJSON(w, http.StatusOK, records)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Debug("failed to write response", "error", err)
	}
}

func writeDetail(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, detail{Detail: msg})
}
