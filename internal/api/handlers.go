// Package api HTTP handlers for DiaBuddy endpoints.
package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/diabeai/diabuddy/internal/flow"
	"github.com/diabeai/diabuddy/internal/models"
)

// healthStatus is the payload of the health endpoint.
type healthStatus struct {
	Status      string         `json:"status"`
	Timestamp   string         `json:"timestamp"`
	Uptime      string         `json:"uptime"`
	ChunkCounts map[string]int `json:"chunkCounts"`
}

func (s *Server) homeHandler(w http.ResponseWriter, r *http.Request) {
	slog.Debug("Server.homeHandler: processing request", "path", r.URL.Path)
	writeJSONResponse(w, http.StatusOK, models.SuccessWithMessage("DiaBuddy API is running", nil))
}

func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	slog.Debug("Server.healthHandler: processing health check")

	status := "ok"
	code := http.StatusOK
	if !s.agent.Ready() {
		status = "initializing"
		code = http.StatusServiceUnavailable
	}

	counts := make(map[string]int)
	for category, n := range s.agent.ChunkCounts() {
		counts[string(category)] = n
	}

	writeJSONResponse(w, code, models.Success(healthStatus{
		Status:      status,
		Timestamp:   time.Now().UTC().Format(time.RFC3339),
		Uptime:      time.Since(s.startTime).Round(time.Second).String(),
		ChunkCounts: counts,
	}))
}

func (s *Server) answerQuestionHandler(w http.ResponseWriter, r *http.Request) {
	if r.Body != nil {
		defer r.Body.Close()
	}
	slog.Debug("Server.answerQuestionHandler: processing request", "method", r.Method, "path", r.URL.Path)

	if !s.agent.Ready() {
		slog.Warn("Server.answerQuestionHandler: agent not ready")
		writeJSONResponse(w, http.StatusServiceUnavailable, models.Error("Service is still initializing, try again shortly"))
		return
	}

	var req models.AnswerQuestionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Warn("Server.answerQuestionHandler: failed to decode JSON", "error", err)
		writeJSONResponse(w, http.StatusBadRequest, models.Error("Invalid JSON format"))
		return
	}

	if err := req.Validate(); err != nil {
		slog.Warn("Server.answerQuestionHandler: validation failed", "error", err)
		writeJSONResponse(w, http.StatusBadRequest, models.Error(err.Error()))
		return
	}

	result, err := s.agent.AnswerQuestion(r.Context(), req)
	if err != nil {
		if errors.Is(err, flow.ErrNotInitialized) {
			writeJSONResponse(w, http.StatusServiceUnavailable, models.Error("Service is still initializing, try again shortly"))
			return
		}
		slog.Error("Server.answerQuestionHandler: failed to answer question", "error", err)
		writeJSONResponse(w, http.StatusInternalServerError, models.Error("Failed to process question"))
		return
	}

	slog.Info("Server.answerQuestionHandler: question answered", "followups", len(result.FollowupQuestions))
	writeJSONResponse(w, http.StatusOK, models.Success(result))
}
