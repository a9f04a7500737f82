// Package testutil provides common test utilities and helpers for DiaBuddy tests.
package testutil

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/diabeai/diabuddy/internal/api"
	"github.com/diabeai/diabuddy/internal/genai"
	"github.com/diabeai/diabuddy/internal/models"
)

// StubAgent is a canned api.QuestionAnswerer for handler tests.
type StubAgent struct {
	Result    models.AnswerQuestionResult
	Err       error
	NotReady  bool
	Counts    map[models.Category]int
	Questions []models.AnswerQuestionRequest
}

// AnswerQuestion records the request and returns the scripted result.
func (a *StubAgent) AnswerQuestion(_ context.Context, req models.AnswerQuestionRequest) (models.AnswerQuestionResult, error) {
	a.Questions = append(a.Questions, req)
	if a.Err != nil {
		return models.AnswerQuestionResult{}, a.Err
	}
	return a.Result, nil
}

// Ready reports the scripted readiness.
func (a *StubAgent) Ready() bool { return !a.NotReady }

// ChunkCounts returns the scripted per-category counts.
func (a *StubAgent) ChunkCounts() map[models.Category]int {
	if a.Counts == nil {
		return map[models.Category]int{}
	}
	return a.Counts
}

// StubGenAI is a canned genai.ClientInterface returning fixed outputs.
type StubGenAI struct {
	GenerateReply string
	GenerateErr   error
	Embeddings    [][]float32
	EmbedErr      error
}

// GenerateWithMessages returns the scripted reply.
func (s *StubGenAI) GenerateWithMessages(context.Context, []genai.Message) (string, error) {
	return s.GenerateReply, s.GenerateErr
}

// EmbedTexts returns one scripted embedding per input text, cycling through
// Embeddings when fewer are scripted than requested.
func (s *StubGenAI) EmbedTexts(_ context.Context, texts []string) ([][]float32, error) {
	if s.EmbedErr != nil {
		return nil, s.EmbedErr
	}
	out := make([][]float32, len(texts))
	for i := range texts {
		if len(s.Embeddings) > 0 {
			out[i] = s.Embeddings[i%len(s.Embeddings)]
		} else {
			out[i] = []float32{1, 0, 0}
		}
	}
	return out, nil
}

// NewTestServer creates an API server around a stub agent.
func NewTestServer(agent *StubAgent, opts ...api.Option) *api.Server {
	return api.NewServer(agent, opts...)
}

// AssertHTTPStatus checks the HTTP status code and fails the test if it doesn't match.
func AssertHTTPStatus(t *testing.T, expected, actual int, context string) {
	t.Helper()
	if actual != expected {
		t.Errorf("%s: expected status %d, got %d", context, expected, actual)
	}
}

// AssertJSONResponse decodes a JSON response and validates the status field.
func AssertJSONResponse(t *testing.T, rr *httptest.ResponseRecorder, expectedStatus string) map[string]interface{} {
	t.Helper()
	var response map[string]interface{}
	if err := json.NewDecoder(rr.Body).Decode(&response); err != nil {
		t.Fatalf("failed to decode JSON response: %v", err)
	}

	if status, ok := response["status"].(string); ok {
		if status != expectedStatus {
			t.Errorf("expected status '%s', got '%s'", expectedStatus, status)
		}
	} else {
		t.Error("response missing or invalid 'status' field")
	}

	return response
}

// CreateHTTPRequest creates an HTTP request with an optional JSON body.
func CreateHTTPRequest(t *testing.T, method, url string, body interface{}) *http.Request {
	t.Helper()
	var reqBody *bytes.Buffer
	if body != nil {
		jsonData, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("failed to marshal request body: %v", err)
		}
		reqBody = bytes.NewBuffer(jsonData)
	} else {
		reqBody = bytes.NewBuffer(nil)
	}

	req, err := http.NewRequest(method, url, reqBody)
	if err != nil {
		t.Fatalf("failed to create HTTP request: %v", err)
	}
	return req
}
