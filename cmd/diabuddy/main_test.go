package main

import (
	"reflect"
	"testing"
	"time"

	"github.com/diabeai/diabuddy/internal/flow"
)

func TestLoadEnvironmentConfigDefaults(t *testing.T) {
	for _, key := range []string{"GENAI_PROVIDER", "CHAT_MODEL", "EMBEDDING_MODEL", "API_ADDR", "PORT", "ALLOWED_ORIGINS", "TOP_K", "MODEL_TIMEOUT", "SUFFICIENCY_CHECK"} {
		t.Setenv(key, "")
	}

	config := loadEnvironmentConfig()

	if config.TopK != flow.DefaultTopK {
		t.Errorf("Expected default top-k %d, got %d", flow.DefaultTopK, config.TopK)
	}
	if config.ModelTimeout != 0 {
		t.Errorf("Expected model timeout disabled by default, got %v", config.ModelTimeout)
	}
	if config.APIAddr != "" {
		t.Errorf("Expected empty API address by default, got %q", config.APIAddr)
	}
	if len(config.AllowedOrigins) != 0 {
		t.Errorf("Expected no allowed origins by default, got %v", config.AllowedOrigins)
	}
}

func TestLoadEnvironmentConfigPortFallback(t *testing.T) {
	t.Setenv("API_ADDR", "")
	t.Setenv("PORT", "8080")

	config := loadEnvironmentConfig()

	if config.APIAddr != ":8080" {
		t.Errorf("Expected API address :8080 from PORT, got %q", config.APIAddr)
	}
}

func TestLoadEnvironmentConfigExplicitAddrWinsOverPort(t *testing.T) {
	t.Setenv("API_ADDR", ":3001")
	t.Setenv("PORT", "8080")

	config := loadEnvironmentConfig()

	if config.APIAddr != ":3001" {
		t.Errorf("Expected API_ADDR to win over PORT, got %q", config.APIAddr)
	}
}

func TestLoadEnvironmentConfigOrigins(t *testing.T) {
	t.Setenv("ALLOWED_ORIGINS", "https://a.example.com, https://b.example.com")

	config := loadEnvironmentConfig()

	want := []string{"https://a.example.com", "https://b.example.com"}
	if !reflect.DeepEqual(config.AllowedOrigins, want) {
		t.Errorf("Expected origins %v, got %v", want, config.AllowedOrigins)
	}
}

func TestBuildGenAIOptions(t *testing.T) {
	provider := "gemini"
	apiKey := "test-key"
	chatModel := ""
	embeddingModel := "embedding-001"
	flags := Flags{
		provider:       &provider,
		apiKey:         &apiKey,
		chatModel:      &chatModel,
		embeddingModel: &embeddingModel,
	}

	opts := buildGenAIOptions(flags)
	if len(opts) != 3 {
		t.Errorf("Expected 3 genai options (provider, key, embedding model), got %d", len(opts))
	}
}

func TestBuildAgentOptions(t *testing.T) {
	topK := 5
	modelTimeout := 30 * time.Second
	sufficiencyCheck := "model"
	flags := Flags{
		topK:             &topK,
		modelTimeout:     &modelTimeout,
		sufficiencyCheck: &sufficiencyCheck,
	}

	opts := buildAgentOptions(flags)
	if len(opts) != 3 {
		t.Errorf("Expected 3 agent options, got %d", len(opts))
	}

	topK = 0
	modelTimeout = 0
	sufficiencyCheck = "predicate"
	opts = buildAgentOptions(flags)
	if len(opts) != 0 {
		t.Errorf("Expected no agent options for zero values, got %d", len(opts))
	}
}

func TestBuildAPIOptions(t *testing.T) {
	apiAddr := ":3001"
	flags := Flags{
		apiAddr:        &apiAddr,
		allowedOrigins: []string{"*"},
	}

	opts := buildAPIOptions(flags)
	if len(opts) != 2 {
		t.Errorf("Expected 2 api options, got %d", len(opts))
	}
}
