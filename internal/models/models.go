// Package models defines the core data structures for DiaBuddy.
//
// It includes the question category enum, conversation history types, the
// per-question pipeline state, and the HTTP request/response types shared
// across modules.
package models

import (
	"errors"
	"strings"
	"time"
)

// Category classifies a diabetes question into one of five fixed topics.
type Category string

const (
	// CategoryGlucose covers blood sugar management questions.
	CategoryGlucose Category = "glucose"
	// CategoryMedication covers medications and treatments.
	CategoryMedication Category = "medication"
	// CategoryMeal covers nutrition and diet.
	CategoryMeal Category = "meal"
	// CategoryWellness covers emotional and mental health.
	CategoryWellness Category = "wellness"
	// CategoryGeneral covers general diabetes information and is the
	// fallback for anything that cannot be classified.
	CategoryGeneral Category = "general"
)

// Validation constants for input validation
const (
	// MaxQuestionLength defines the maximum allowed length for a question.
	MaxQuestionLength = 4096
	// MaxHistoryTurns defines the maximum number of conversation turns
	// accepted on a request.
	MaxHistoryTurns = 100
)

// Error variables for better error handling and testability
var (
	ErrEmptyQuestion   = errors.New("question cannot be empty")
	ErrQuestionTooLong = errors.New("question exceeds maximum length")
	ErrTooManyTurns    = errors.New("conversation history exceeds maximum length")
	ErrEmptyTurnRole   = errors.New("conversation turn role cannot be empty")
)

// Categories returns all valid categories in a fixed order.
func Categories() []Category {
	return []Category{CategoryGlucose, CategoryMedication, CategoryMeal, CategoryWellness, CategoryGeneral}
}

// IsValidCategory checks if the given category is one of the five allowed values.
func IsValidCategory(c Category) bool {
	switch c {
	case CategoryGlucose, CategoryMedication, CategoryMeal, CategoryWellness, CategoryGeneral:
		return true
	default:
		return false
	}
}

// ParseCategory normalizes a raw classification label and coerces anything
// outside the closed set to CategoryGeneral. All model-produced labels must
// pass through here; no unchecked string is allowed past this boundary.
func ParseCategory(raw string) Category {
	c := Category(strings.ToLower(strings.TrimSpace(raw)))
	if IsValidCategory(c) {
		return c
	}
	return CategoryGeneral
}

// ConversationTurn is a single message in a conversation, ordered and
// immutable once created.
type ConversationTurn struct {
	Role      string    `json:"role"` // "user", "assistant", or "system"
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp,omitempty"`
}

// QnAState is the state threaded through the answer pipeline for one
// question. Each pipeline step consumes a state value and returns a new one;
// steps never mutate a shared instance.
type QnAState struct {
	Question            string
	Category            Category
	RelevantDocs        string
	NeedsMoreInfo       bool
	Answer              string
	FollowupQuestions   []string
	ConversationHistory []ConversationTurn
}

// AnswerQuestionRequest is the payload for POST /api/answerQuestion.
type AnswerQuestionRequest struct {
	Question            string             `json:"question"`
	Category            Category           `json:"category,omitempty"`
	ConversationHistory []ConversationTurn `json:"conversationHistory,omitempty"`
}

// Validate performs input validation on an AnswerQuestionRequest.
func (r *AnswerQuestionRequest) Validate() error {
	if strings.TrimSpace(r.Question) == "" {
		return ErrEmptyQuestion
	}
	if len(r.Question) > MaxQuestionLength {
		return ErrQuestionTooLong
	}
	if len(r.ConversationHistory) > MaxHistoryTurns {
		return ErrTooManyTurns
	}
	for _, turn := range r.ConversationHistory {
		if turn.Role == "" {
			return ErrEmptyTurnRole
		}
	}
	return nil
}

// AnswerQuestionResult is the successful payload returned for a question.
type AnswerQuestionResult struct {
	Answer            string   `json:"answer"`
	FollowupQuestions []string `json:"followupQuestions"`
}

// APIStatus represents the status of an API response.
type APIStatus string

const (
	// APIStatusOK indicates an API request completed successfully.
	APIStatusOK APIStatus = "ok"
	// APIStatusError indicates an API request failed with an error.
	APIStatusError APIStatus = "error"
)

// APIResponse represents a standard API response with a status and optional data.
type APIResponse struct {
	Status  string      `json:"status"`            // status of the API response
	Message string      `json:"message,omitempty"` // optional message for error responses or additional info
	Result  interface{} `json:"result,omitempty"`  // optional result data for successful responses
}

// Success creates a successful API response with optional result data.
func Success(result interface{}) APIResponse {
	return APIResponse{Status: string(APIStatusOK), Result: result}
}

// SuccessWithMessage creates a successful API response with a message and result data.
func SuccessWithMessage(message string, result interface{}) APIResponse {
	return APIResponse{Status: string(APIStatusOK), Message: message, Result: result}
}

// Error creates an error API response with a message.
func Error(message string) APIResponse {
	return APIResponse{Status: string(APIStatusError), Message: message}
}
