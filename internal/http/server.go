// Package http serves the ops endpoints (health, version, metrics, audit
// log) and, when the HTTP transport is selected, the MCP endpoint.
package http

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/chatstory/storymcp/internal/db"
	"github.com/chatstory/storymcp/internal/telemetry"
)

// BuildInfo is injected at link time and reported by /version.
type BuildInfo struct {
	Version   string `json:"version"`
	GitCommit string `json:"git_commit"`
	BuildTime string `json:"build_time"`
}

// ToolCallReader is the read side of the audit store.
type ToolCallReader interface {
	GetToolCall(ctx context.Context, toolCallID string) (*db.ToolCall, error)
	ListToolCalls(ctx context.Context, f db.ToolCallFilter) ([]*db.ToolCall, error)
	Ping(ctx context.Context) error
}

const defaultWriteTimeout = 60 * time.Second

// Options configures a Server. ToolCalls and MCP are optional. WriteTimeout
// bounds every route except /mcp, whose streams stay open.
type Options struct {
	Logger       *slog.Logger
	Build        BuildInfo
	ToolCalls    ToolCallReader
	MCP          http.Handler
	WriteTimeout time.Duration
}

type Server struct {
	build     BuildInfo
	toolCalls ToolCallReader
	srv       *http.Server
	logger    *slog.Logger
}

func NewServer(addr string, opts Options) *Server {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	s := &Server{
		build:     opts.Build,
		toolCalls: opts.ToolCalls,
		logger:    logger,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", s.handleHealthz)
	mux.HandleFunc("GET /version", s.handleVersion)
	mux.HandleFunc("GET /metrics", s.handleMetrics)
	mux.HandleFunc("GET /api/v1/tool-calls", s.handleListToolCalls)
	mux.HandleFunc("GET /api/v1/tool-calls/{toolCallID}", s.handleGetToolCall)
	if opts.MCP != nil {
		mux.Handle("/mcp", streaming(logger, opts.MCP))
	}

	writeTimeout := opts.WriteTimeout
	if writeTimeout <= 0 {
		writeTimeout = defaultWriteTimeout
	}
	s.srv = &http.Server{
		Addr:         addr,
		Handler:      withLogging(logger, mux),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: writeTimeout,
		IdleTimeout:  120 * time.Second,
	}
	return s
}

func (s *Server) Handler() http.Handler { return s.srv.Handler }

func (s *Server) ListenAndServe() error {
	s.logger.Info("http server starting", "addr", s.srv.Addr)
	ln, err := net.Listen("tcp", s.srv.Addr)
	if err != nil {
		return err
	}
	return s.srv.Serve(ln)
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.srv.Shutdown(ctx)
}

func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	if s.toolCalls != nil {
		if err := s.toolCalls.Ping(r.Context()); err != nil {
			writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "degraded", "database": err.Error()})
			return
		}
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleVersion(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.build)
}

func (s *Server) handleMetrics(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; version=0.0.4")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(telemetry.RenderPrometheus()))
}

func (s *Server) handleListToolCalls(w http.ResponseWriter, r *http.Request) {
	if s.toolCalls == nil {
		writeErr(w, http.StatusNotFound, "audit store not configured")
		return
	}
	filter, err := parseToolCallListFilters(r)
	if err != nil {
		writeErr(w, http.StatusBadRequest, err.Error())
		return
	}
	calls, err := s.toolCalls.ListToolCalls(r.Context(), filter)
	if err != nil {
		writeErr(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"tool_calls": calls})
}

func (s *Server) handleGetToolCall(w http.ResponseWriter, r *http.Request) {
	if s.toolCalls == nil {
		writeErr(w, http.StatusNotFound, "audit store not configured")
		return
	}
	tc, err := s.toolCalls.GetToolCall(r.Context(), r.PathValue("toolCallID"))
	if err != nil {
		writeErr(w, http.StatusInternalServerError, err.Error())
		return
	}
	if tc == nil {
		writeErr(w, http.StatusNotFound, "tool call not found")
		return
	}
	writeJSON(w, http.StatusOK, tc)
}

func parseToolCallListFilters(r *http.Request) (db.ToolCallFilter, error) {
	q := r.URL.Query()
	f := db.ToolCallFilter{ToolName: strings.TrimSpace(q.Get("tool_name"))}

	switch status := strings.TrimSpace(q.Get("status")); status {
	case "", "ok", "fail":
		f.Status = status
	default:
		return f, fmt.Errorf("invalid status %q (valid: ok, fail)", status)
	}

	if raw := strings.TrimSpace(q.Get("limit")); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 || n > 500 {
			return f, fmt.Errorf("invalid limit %q (valid: 1-500)", raw)
		}
		f.Limit = n
	}
	return f, nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeErr(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// streaming clears the server write deadline so the MCP event stream is not
// cut off after WriteTimeout.
func streaming(logger *slog.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := http.NewResponseController(w).SetWriteDeadline(time.Time{}); err != nil {
			logger.Warn("clear write deadline failed", "path", r.URL.Path, "err", err)
		}
		next.ServeHTTP(w, r)
	})
}

func withLogging(logger *slog.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		sw := &statusWriter{ResponseWriter: w, status: 200}
		next.ServeHTTP(sw, r)
		logger.Info("http request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", sw.status,
			"duration", fmt.Sprintf("%dms", time.Since(start).Milliseconds()),
		)
	})
}

type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}

func (w *statusWriter) Unwrap() http.ResponseWriter { return w.ResponseWriter }

// Flush keeps streaming responses on /mcp working through the logging
// wrapper.
func (w *statusWriter) Flush() {
	if f, ok := w.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}
