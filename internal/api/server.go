// Package api exposes the pipeline executor over HTTP.
//
// Pipelines are submitted as YAML, triggers are delivered as JSON
// events, and runs execute asynchronously. Run state is held in
// memory only; logs and the journal are the durable side effects.
package api

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync"

	"github.com/go-chi/chi/v5"

	"forgeci/internal/core"
	"forgeci/internal/journal"
)

// Server owns the submitted pipelines and the in-memory run registry.
type Server struct {
	mu        sync.Mutex
	runner    *core.Runner
	journal   *journal.Journal
	branches  []string
	pipelines map[string]*core.Pipeline
	runs      map[string]*core.RunResult
	nextPipe  int
	nextRun   int
}

// NewServer creates a server. The journal may be nil when disabled.
// branches is the default allow-list for pipelines that declare none.
func NewServer(runner *core.Runner, jnl *journal.Journal, branches []string) *Server {
	return &Server{
		runner:    runner,
		journal:   jnl,
		branches:  branches,
		pipelines: make(map[string]*core.Pipeline),
		runs:      make(map[string]*core.RunResult),
	}
}

// Routes builds the chi router.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Post("/pipelines", s.handleSubmitPipeline)
	r.Post("/pipelines/{id}/triggers", s.handleTrigger)
	r.Get("/runs/{id}", s.handleGetRun)
	r.Get("/runs/{id}/steps/{config}/{step}/log", s.handleGetStepLog)
	r.Get("/journal/verify", s.handleVerifyJournal)
	return r
}

// POST /pipelines -> submit a pipeline definition (YAML body).
func (s *Server) handleSubmitPipeline(w http.ResponseWriter, r *http.Request) {
	data, err := io.ReadAll(r.Body)
	if err != nil {
		http.Error(w, "cannot read body", http.StatusBadRequest)
		return
	}

	pipeline, err := core.Parse(data)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if len(pipeline.Branches) == 0 {
		pipeline.Branches = s.branches
	}
	if err := core.Validate(pipeline); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	s.mu.Lock()
	s.nextPipe++
	id := fmt.Sprintf("p-%d", s.nextPipe)
	s.pipelines[id] = pipeline
	s.mu.Unlock()

	writeJSON(w, http.StatusCreated, map[string]string{"id": id})
}

// POST /pipelines/{id}/triggers -> deliver a push/pull_request event.
func (s *Server) handleTrigger(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	pipeline, ok := s.pipelines[chi.URLParam(r, "id")]
	s.mu.Unlock()
	if !ok {
		http.Error(w, "pipeline not found", http.StatusNotFound)
		return
	}

	var payload struct {
		Event  string `json:"event"`
		Branch string `json:"branch"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}
	event, err := core.ParseEventKind(payload.Event)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	trg := core.Trigger{Event: event, Branch: payload.Branch}

	// "Not triggered" is a valid non-error outcome: no run is created.
	if !pipeline.Matches(trg) {
		writeJSON(w, http.StatusOK, map[string]any{"triggered": false})
		return
	}

	s.mu.Lock()
	s.nextRun++
	runID := fmt.Sprintf("r-%d", s.nextRun)
	s.runs[runID] = &core.RunResult{
		ID:        runID,
		Pipeline:  pipeline.Name,
		Trigger:   trg,
		Triggered: true,
		Status:    core.StatusRunning,
	}
	s.mu.Unlock()

	go func() {
		res, err := s.runner.Run(context.Background(), runID, pipeline, trg)
		s.mu.Lock()
		defer s.mu.Unlock()
		if err != nil {
			// Validation happened at submit time, so this is unexpected;
			// record it as a failed run rather than losing it. Replace the
			// stored result instead of mutating it: readers may hold the
			// old pointer outside the lock.
			failed := *s.runs[runID]
			failed.Status = core.StatusFailed
			s.runs[runID] = &failed
			return
		}
		s.runs[runID] = res
	}()

	writeJSON(w, http.StatusAccepted, map[string]any{
		"triggered": true,
		"id":        runID,
		"status":    string(core.StatusRunning),
	})
}

// GET /runs/{id} -> full run result.
func (s *Server) handleGetRun(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	run, ok := s.runs[chi.URLParam(r, "id")]
	s.mu.Unlock()
	if !ok {
		http.Error(w, "run not found", http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, run)
}

// GET /runs/{id}/steps/{config}/{step}/log -> captured step output.
func (s *Server) handleGetStepLog(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	run, ok := s.runs[chi.URLParam(r, "id")]
	s.mu.Unlock()
	if !ok {
		http.Error(w, "run not found", http.StatusNotFound)
		return
	}

	configName := chi.URLParam(r, "config")
	stepName := chi.URLParam(r, "step")
	for _, cfg := range run.Configurations {
		if cfg.Name != configName {
			continue
		}
		for _, step := range cfg.Steps {
			if step.Name == stepName {
				w.Header().Set("Content-Type", "text/plain; charset=utf-8")
				_, _ = w.Write([]byte(step.Output))
				return
			}
		}
	}
	http.Error(w, "step not found", http.StatusNotFound)
}

// GET /journal/verify -> check the journal chain.
func (s *Server) handleVerifyJournal(w http.ResponseWriter, r *http.Request) {
	if s.journal == nil {
		http.Error(w, "journal disabled", http.StatusNotFound)
		return
	}
	if err := s.journal.Verify(); err != nil {
		http.Error(w, "journal verification failed: "+err.Error(), http.StatusConflict)
		return
	}
	_, _ = w.Write([]byte("journal verification ok"))
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
