package models

import (
	"strings"
	"testing"
)

func TestParseCategory_ValidLabels(t *testing.T) {
	for _, c := range Categories() {
		if got := ParseCategory(string(c)); got != c {
			t.Errorf("ParseCategory(%q) = %q, want %q", c, got, c)
		}
	}
}

func TestParseCategory_Normalization(t *testing.T) {
	cases := map[string]Category{
		"Glucose":      CategoryGlucose,
		"  MEAL  ":     CategoryMeal,
		"Medication\n": CategoryMedication,
	}
	for raw, want := range cases {
		if got := ParseCategory(raw); got != want {
			t.Errorf("ParseCategory(%q) = %q, want %q", raw, got, want)
		}
	}
}

func TestParseCategory_CoercesUnknownToGeneral(t *testing.T) {
	for _, raw := range []string{"", "diet", "glucose management", "meal.", "unknown", "glucose, medication"} {
		if got := ParseCategory(raw); got != CategoryGeneral {
			t.Errorf("ParseCategory(%q) = %q, want %q", raw, got, CategoryGeneral)
		}
	}
}

func TestIsValidCategory(t *testing.T) {
	if IsValidCategory(Category("snacks")) {
		t.Error("expected 'snacks' to be invalid")
	}
	if !IsValidCategory(CategoryWellness) {
		t.Error("expected 'wellness' to be valid")
	}
}

func TestAnswerQuestionRequestValidate(t *testing.T) {
	tests := []struct {
		name    string
		req     AnswerQuestionRequest
		wantErr error
	}{
		{"valid", AnswerQuestionRequest{Question: "What is an A1C test?"}, nil},
		{"empty question", AnswerQuestionRequest{Question: ""}, ErrEmptyQuestion},
		{"whitespace question", AnswerQuestionRequest{Question: "   \n"}, ErrEmptyQuestion},
		{"too long", AnswerQuestionRequest{Question: strings.Repeat("a", MaxQuestionLength+1)}, ErrQuestionTooLong},
		{"turn missing role", AnswerQuestionRequest{
			Question:            "hi",
			ConversationHistory: []ConversationTurn{{Content: "hello"}},
		}, ErrEmptyTurnRole},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.req.Validate(); err != tt.wantErr {
				t.Errorf("Validate() = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestAnswerQuestionRequestValidate_TooManyTurns(t *testing.T) {
	turns := make([]ConversationTurn, MaxHistoryTurns+1)
	for i := range turns {
		turns[i] = ConversationTurn{Role: "user", Content: "q"}
	}
	req := AnswerQuestionRequest{Question: "hi", ConversationHistory: turns}
	if err := req.Validate(); err != ErrTooManyTurns {
		t.Errorf("Validate() = %v, want %v", err, ErrTooManyTurns)
	}
}
