package genai

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

// openAIClient implements ClientInterface on the OpenAI API.
type openAIClient struct {
	client         openai.Client
	chatModel      string
	embeddingModel string
}

func newOpenAIClient(o Options) *openAIClient {
	c := &openAIClient{
		client:         openai.NewClient(option.WithAPIKey(o.apiKey)),
		chatModel:      o.chatModel,
		embeddingModel: o.embeddingModel,
	}
	if c.chatModel == "" {
		c.chatModel = DefaultOpenAIChatModel
	}
	if c.embeddingModel == "" {
		c.embeddingModel = DefaultOpenAIEmbeddingModel
	}
	return c
}

// GenerateWithMessages produces a chat completion for the given messages.
func (c *openAIClient) GenerateWithMessages(ctx context.Context, messages []Message) (string, error) {
	params := openai.ChatCompletionNewParams{
		Model:    c.chatModel,
		Messages: make([]openai.ChatCompletionMessageParamUnion, 0, len(messages)),
	}
	for _, m := range messages {
		switch m.Role {
		case RoleSystem:
			params.Messages = append(params.Messages, openai.SystemMessage(m.Content))
		case RoleAssistant:
			params.Messages = append(params.Messages, openai.AssistantMessage(m.Content))
		default:
			params.Messages = append(params.Messages, openai.UserMessage(m.Content))
		}
	}

	resp, err := c.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return "", fmt.Errorf("openai chat completion failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("openai chat completion returned no choices")
	}
	slog.Debug("openAIClient.GenerateWithMessages: completion received", "model", c.chatModel, "messages", len(messages))
	return resp.Choices[0].Message.Content, nil
}

// EmbedTexts generates one embedding vector per input text.
func (c *openAIClient) EmbedTexts(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}
	resp, err := c.client.Embeddings.New(ctx, openai.EmbeddingNewParams{
		Model: c.embeddingModel,
		Input: openai.EmbeddingNewParamsInputUnion{OfArrayOfStrings: texts},
	})
	if err != nil {
		return nil, fmt.Errorf("openai embeddings failed: %w", err)
	}
	if len(resp.Data) != len(texts) {
		return nil, fmt.Errorf("openai embeddings returned %d vectors for %d inputs", len(resp.Data), len(texts))
	}

	vectors := make([][]float32, len(resp.Data))
	for i, d := range resp.Data {
		vec := make([]float32, len(d.Embedding))
		for j, v := range d.Embedding {
			vec[j] = float32(v)
		}
		vectors[i] = vec
	}
	return vectors, nil
}
