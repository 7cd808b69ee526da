package transcriptserver

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/anatolykoptev/go_transcript/internal/engine"
	"github.com/anatolykoptev/go_transcript/internal/engine/transcript"
)

// NewRouter builds the REST surface served alongside the MCP transport:
// POST /api/transcript for the web front end, plus health and metrics.
func NewRouter() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(corsHeaders)

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Get("/metrics", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = w.Write([]byte(engine.FormatMetrics()))
	})

	r.Route("/api", func(r chi.Router) {
		r.Post("/transcript", handleTranscript)
	})

	return r
}

// corsHeaders lets the dev front end call the API from another origin.
func corsHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

type transcriptRequest struct {
	URL      string `json:"url"`
	Language string `json:"language,omitempty"`
}

type errorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
	Kind    string `json:"kind"`
}

func handleTranscript(w http.ResponseWriter, r *http.Request) {
	var req transcriptRequest
	body, err := io.ReadAll(io.LimitReader(r.Body, 64*1024))
	if err != nil || json.Unmarshal(body, &req) != nil || req.URL == "" {
		writeError(w, http.StatusBadRequest, transcript.Errf(transcript.KindInvalidURL, "request body must be JSON with a url field"))
		return
	}

	cacheKey := engine.CacheKey("rest_transcript", req.URL, req.Language)
	if res, ok := engine.CacheLoadJSON[transcript.Result](r.Context(), cacheKey); ok {
		writeJSON(w, http.StatusOK, res)
		return
	}

	res, err := transcript.Extract(r.Context(), req.URL, req.Language)
	if err != nil {
		writeError(w, kindStatus(transcript.KindOf(err)), err)
		return
	}

	engine.CacheStoreJSON(r.Context(), cacheKey, res)
	writeJSON(w, http.StatusOK, res)
}

// kindStatus maps failure kinds to HTTP statuses: caller mistakes are
// 4xx, upstream trouble is 502, 499 marks a client that went away.
func kindStatus(kind transcript.Kind) int {
	switch kind {
	case transcript.KindInvalidURL:
		return http.StatusBadRequest
	case transcript.KindNoCaptions, transcript.KindPageStructure:
		return http.StatusUnprocessableEntity
	case transcript.KindTransport, transcript.KindParse:
		return http.StatusBadGateway
	case transcript.KindCancelled:
		return 499 // client closed request
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Debug("response write failed", slog.Any("error", err))
	}
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, errorResponse{
		Success: false,
		Error:   err.Error(),
		Kind:    string(transcript.KindOf(err)),
	})
}
