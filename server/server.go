// Package server exposes the ranking engine over a small JSON HTTP API.
// Each request re-extracts the configured corpus directory, so the server
// stays stateless between requests; only the embedding model handle is
// shared.
package server

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/doclens/doclens/internal/models"
	"github.com/doclens/doclens/internal/types"
	"github.com/doclens/doclens/pkg/engine"
	"github.com/doclens/doclens/pkg/llm"
)

type Config struct {
	Addr            string
	DocsDir         string
	DefaultTopK     int
	DefaultMaxWords int
}

type Server struct {
	config    Config
	engine    *engine.Engine
	extractor types.Extractor
}

type analyzeRequest struct {
	Persona  string `json:"persona"`
	Task     string `json:"task"`
	TopK     int    `json:"top_k,omitempty"`
	MaxWords int    `json:"max_words,omitempty"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func New(config Config, eng *engine.Engine, extractor types.Extractor) *Server {
	if config.Addr == "" {
		config.Addr = ":8080"
	}
	if config.DefaultTopK == 0 {
		config.DefaultTopK = 5
	}
	if config.DefaultMaxWords == 0 {
		config.DefaultMaxWords = 500
	}
	return &Server{config: config, engine: eng, extractor: extractor}
}

func (s *Server) Routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/analyze", s.handleAnalyze)
	mux.HandleFunc("/summarize", s.handleSummarize)
	mux.HandleFunc("/healthz", s.handleHealth)
	return mux
}

func (s *Server) ListenAndServe() error {
	log.Printf("listening on %s, corpus dir %s", s.config.Addr, s.config.DocsDir)
	return http.ListenAndServe(s.config.Addr, s.Routes())
}

func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	req, intent, ok := s.decodeIntent(w, r)
	if !ok {
		return
	}
	k := req.TopK
	if k <= 0 {
		k = s.config.DefaultTopK
	}

	start := time.Now()
	fragments, err := s.extractor.Extract(r.Context(), s.config.DocsDir)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}

	sections, err := s.engine.RankAndRefine(r.Context(), fragments, intent, k)
	if err != nil {
		writeEngineError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, engine.BuildAnalysisReport(intent, fragments, sections, time.Since(start)))
}

func (s *Server) handleSummarize(w http.ResponseWriter, r *http.Request) {
	req, intent, ok := s.decodeIntent(w, r)
	if !ok {
		return
	}
	maxWords := req.MaxWords
	if maxWords <= 0 {
		maxWords = s.config.DefaultMaxWords
	}

	start := time.Now()
	fragments, err := s.extractor.Extract(r.Context(), s.config.DocsDir)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}

	summary, err := s.engine.AssembleSummary(r.Context(), fragments, intent, maxWords)
	if err != nil {
		writeEngineError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, engine.BuildSummaryReport(intent, fragments, summary, time.Since(start)))
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) decodeIntent(w http.ResponseWriter, r *http.Request) (analyzeRequest, models.Intent, bool) {
	var req analyzeRequest
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, errors.New("POST required"))
		return req, models.Intent{}, false
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return req, models.Intent{}, false
	}
	if req.Persona == "" || req.Task == "" {
		writeError(w, http.StatusBadRequest, errors.New("persona and task are required"))
		return req, models.Intent{}, false
	}
	return req, models.Intent{Persona: req.Persona, Task: req.Task}, true
}

func writeEngineError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	if errors.Is(err, llm.ErrModelUnavailable) {
		status = http.StatusServiceUnavailable
	}
	writeError(w, status, err)
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, errorResponse{Error: err.Error()})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("failed to encode response: %v", err)
	}
}
