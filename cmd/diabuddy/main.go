package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/diabeai/diabuddy/internal/api"
	"github.com/diabeai/diabuddy/internal/flow"
	"github.com/diabeai/diabuddy/internal/genai"
	"github.com/diabeai/diabuddy/internal/util"
)

func main() {
	initializeLogger()

	config := loadEnvironmentConfig()
	flags := parseCommandLineFlags(config)

	genaiOpts := buildGenAIOptions(flags)
	agentOpts := buildAgentOptions(flags)
	apiOpts := buildAPIOptions(flags)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	slog.Info("Bootstrapping DiaBuddy with configured modules")
	slog.Debug("Module options counts", "genai", len(genaiOpts), "agent", len(agentOpts), "api", len(apiOpts))
	if err := api.Run(ctx, genaiOpts, agentOpts, apiOpts); err != nil {
		slog.Error("DiaBuddy failed to run", "error", err)
		os.Exit(1)
	}
	slog.Info("DiaBuddy exited successfully")
}

// Config holds environment configuration
type Config struct {
	Provider         string
	APIKey           string
	ChatModel        string
	EmbeddingModel   string
	APIAddr          string
	AllowedOrigins   []string
	TopK             int
	ModelTimeout     time.Duration
	SufficiencyCheck string
}

// Flags holds command line flag values
type Flags struct {
	provider         *string
	apiKey           *string
	chatModel        *string
	embeddingModel   *string
	apiAddr          *string
	topK             *int
	modelTimeout     *time.Duration
	sufficiencyCheck *string
	allowedOrigins   []string
}

// initializeLogger sets up structured logging with debug level
func initializeLogger() {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))
	slog.SetDefault(logger)
}

// loadEnvironmentConfig loads configuration from environment variables and .env file
func loadEnvironmentConfig() Config {
	if err := godotenv.Load(); err != nil {
		slog.Debug("failed to load .env file", "error", err)
	} else {
		slog.Debug("successfully loaded .env file")
	}

	config := Config{
		Provider:         os.Getenv("GENAI_PROVIDER"),
		ChatModel:        os.Getenv("CHAT_MODEL"),
		EmbeddingModel:   os.Getenv("EMBEDDING_MODEL"),
		APIAddr:          os.Getenv("API_ADDR"),
		AllowedOrigins:   util.ParseListEnv("ALLOWED_ORIGINS", nil),
		TopK:             util.ParseIntEnv("TOP_K", flow.DefaultTopK),
		ModelTimeout:     util.ParseDurationEnv("MODEL_TIMEOUT", 0),
		SufficiencyCheck: os.Getenv("SUFFICIENCY_CHECK"),
	}

	// PORT is honored for parity with typical hosting environments when no
	// explicit address is configured.
	if config.APIAddr == "" {
		if port := os.Getenv("PORT"); port != "" {
			config.APIAddr = ":" + port
		}
	}

	slog.Debug("environment variables loaded",
		"GENAI_PROVIDER", config.Provider,
		"CHAT_MODEL", config.ChatModel,
		"EMBEDDING_MODEL", config.EmbeddingModel,
		"API_ADDR", config.APIAddr,
		"ALLOWED_ORIGINS", config.AllowedOrigins,
		"TOP_K", config.TopK,
		"MODEL_TIMEOUT", config.ModelTimeout,
		"SUFFICIENCY_CHECK", config.SufficiencyCheck,
		"GEMINI_API_KEY_SET", os.Getenv("GEMINI_API_KEY") != "",
		"OPENAI_API_KEY_SET", os.Getenv("OPENAI_API_KEY") != "")

	return config
}

// parseCommandLineFlags parses command line arguments with environment defaults
func parseCommandLineFlags(config Config) Flags {
	flags := Flags{
		provider:         flag.String("provider", config.Provider, "hosted model provider, gemini or openai (overrides $GENAI_PROVIDER)"),
		apiKey:           flag.String("api-key", "", "API key for the chosen provider (overrides $GEMINI_API_KEY / $OPENAI_API_KEY)"),
		chatModel:        flag.String("chat-model", config.ChatModel, "chat model name (overrides $CHAT_MODEL)"),
		embeddingModel:   flag.String("embedding-model", config.EmbeddingModel, "embedding model name (overrides $EMBEDDING_MODEL)"),
		apiAddr:          flag.String("api-addr", config.APIAddr, "API server address (overrides $API_ADDR / $PORT)"),
		topK:             flag.Int("top-k", config.TopK, "number of chunks retrieved per question (overrides $TOP_K)"),
		modelTimeout:     flag.Duration("model-timeout", config.ModelTimeout, "per-call timeout for hosted model requests, 0 disables (overrides $MODEL_TIMEOUT)"),
		sufficiencyCheck: flag.String("sufficiency-check", config.SufficiencyCheck, "sufficiency check mode, predicate or model (overrides $SUFFICIENCY_CHECK)"),
		allowedOrigins:   config.AllowedOrigins,
	}

	flag.Parse()

	slog.Debug("flags parsed",
		"provider", *flags.provider,
		"apiKeySet", *flags.apiKey != "",
		"chatModel", *flags.chatModel,
		"embeddingModel", *flags.embeddingModel,
		"apiAddr", *flags.apiAddr,
		"topK", *flags.topK,
		"modelTimeout", *flags.modelTimeout,
		"sufficiencyCheck", *flags.sufficiencyCheck)

	return flags
}

// buildGenAIOptions constructs model client configuration options
func buildGenAIOptions(flags Flags) []genai.Option {
	var genaiOpts []genai.Option
	if *flags.provider != "" {
		genaiOpts = append(genaiOpts, genai.WithProvider(genai.Provider(*flags.provider)))
	}
	if *flags.apiKey != "" {
		genaiOpts = append(genaiOpts, genai.WithAPIKey(*flags.apiKey))
	}
	if *flags.chatModel != "" {
		genaiOpts = append(genaiOpts, genai.WithChatModel(*flags.chatModel))
	}
	if *flags.embeddingModel != "" {
		genaiOpts = append(genaiOpts, genai.WithEmbeddingModel(*flags.embeddingModel))
	}
	return genaiOpts
}

// buildAgentOptions constructs flow agent configuration options
func buildAgentOptions(flags Flags) []flow.Option {
	var agentOpts []flow.Option
	if *flags.topK > 0 {
		agentOpts = append(agentOpts, flow.WithTopK(*flags.topK))
	}
	if *flags.modelTimeout > 0 {
		agentOpts = append(agentOpts, flow.WithModelTimeout(*flags.modelTimeout))
	}
	if *flags.sufficiencyCheck == "model" {
		agentOpts = append(agentOpts, flow.WithModelSufficiencyCheck())
	}
	return agentOpts
}

// buildAPIOptions constructs API server configuration options
func buildAPIOptions(flags Flags) []api.Option {
	var apiOpts []api.Option
	if *flags.apiAddr != "" {
		apiOpts = append(apiOpts, api.WithAddr(*flags.apiAddr))
	}
	if len(flags.allowedOrigins) > 0 {
		apiOpts = append(apiOpts, api.WithAllowedOrigins(flags.allowedOrigins))
	}
	return apiOpts
}
