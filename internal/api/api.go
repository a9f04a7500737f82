// Package api provides the HTTP server for DiaBuddy.
//
// It exposes the question-answering endpoint plus health and root routes,
// and owns the wiring between the transport layer and the flow agent. The
// server is deliberately thin: request decoding, validation mapping, and
// response envelopes live here, while all question-answering behavior lives
// in the flow package.
package api

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/diabeai/diabuddy/internal/flow"
	"github.com/diabeai/diabuddy/internal/genai"
	"github.com/diabeai/diabuddy/internal/models"
	"github.com/diabeai/diabuddy/internal/vectorstore"
)

// DefaultAddr is the listen address when none is configured.
const DefaultAddr = ":3001"

// Timeouts for the HTTP server. Handler timeout is generous because a
// single question can fan out into several hosted model calls.
const (
	readHeaderTimeout = 10 * time.Second
	shutdownTimeout   = 10 * time.Second
)

// QuestionAnswerer is the agent surface the server depends on.
// Implemented by flow.Agent.
type QuestionAnswerer interface {
	AnswerQuestion(ctx context.Context, req models.AnswerQuestionRequest) (models.AnswerQuestionResult, error)
	Ready() bool
	ChunkCounts() map[models.Category]int
}

// Server handles HTTP requests for DiaBuddy.
type Server struct {
	agent          QuestionAnswerer
	addr           string
	allowedOrigins []string
	startTime      time.Time
}

// Option configures a Server.
type Option func(*Server)

// WithAddr sets the listen address.
func WithAddr(addr string) Option {
	return func(s *Server) {
		if addr != "" {
			s.addr = addr
		}
	}
}

// WithAllowedOrigins sets the CORS allow-list. An entry of "*" allows any
// origin; an empty list disables CORS headers entirely.
func WithAllowedOrigins(origins []string) Option {
	return func(s *Server) { s.allowedOrigins = origins }
}

// NewServer creates a Server around an initialized agent.
func NewServer(agent QuestionAnswerer, opts ...Option) *Server {
	s := &Server{
		agent:     agent,
		addr:      DefaultAddr,
		startTime: time.Now(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Routes builds the HTTP router.
func (s *Server) Routes() http.Handler {
	r := mux.NewRouter()
	r.HandleFunc("/", s.homeHandler).Methods(http.MethodGet)
	r.HandleFunc("/health", s.healthHandler).Methods(http.MethodGet)
	r.HandleFunc("/api/answerQuestion", s.answerQuestionHandler).Methods(http.MethodPost, http.MethodOptions)
	r.Use(s.corsMiddleware)
	return r
}

// Start runs the HTTP server until ctx is canceled, then shuts it down
// gracefully.
func (s *Server) Start(ctx context.Context) error {
	httpServer := &http.Server{
		Addr:              s.addr,
		Handler:           s.Routes(),
		ReadHeaderTimeout: readHeaderTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("Server.Start: listening", "addr", s.addr)
		errCh <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
		slog.Info("Server.Start: shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown failed: %w", err)
		}
		return nil
	}
}

// Run wires the full application: model client, vector store, agent, then
// the HTTP server. It blocks until ctx is canceled or the server fails.
func Run(ctx context.Context, genaiOpts []genai.Option, agentOpts []flow.Option, apiOpts []Option) error {
	client, err := genai.NewClient(ctx, genaiOpts...)
	if err != nil {
		return fmt.Errorf("failed to create model client: %w", err)
	}

	store := vectorstore.New(vectorstore.NewEmbeddingFunc(client))
	agent := flow.NewAgent(client, store, agentOpts...)
	if err := agent.Initialize(ctx); err != nil {
		return fmt.Errorf("failed to initialize agent: %w", err)
	}

	server := NewServer(agent, apiOpts...)
	return server.Start(ctx)
}
