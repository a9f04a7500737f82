package genai

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	gogenai "google.golang.org/genai"
)

// geminiClient implements ClientInterface on the Google Gemini API.
type geminiClient struct {
	client         *gogenai.Client
	chatModel      string
	embeddingModel string
}

func newGeminiClient(ctx context.Context, o Options) (*geminiClient, error) {
	client, err := gogenai.NewClient(ctx, &gogenai.ClientConfig{
		APIKey:  o.apiKey,
		Backend: gogenai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}

	c := &geminiClient{
		client:         client,
		chatModel:      o.chatModel,
		embeddingModel: o.embeddingModel,
	}
	if c.chatModel == "" {
		c.chatModel = DefaultGeminiChatModel
	}
	if c.embeddingModel == "" {
		c.embeddingModel = DefaultGeminiEmbeddingModel
	}
	return c, nil
}

// GenerateWithMessages produces a chat completion for the given messages.
// System messages are folded into the system instruction; user and assistant
// messages become alternating user/model contents.
func (c *geminiClient) GenerateWithMessages(ctx context.Context, messages []Message) (string, error) {
	var systemParts []string
	var contents []*gogenai.Content
	for _, m := range messages {
		switch m.Role {
		case RoleSystem:
			systemParts = append(systemParts, m.Content)
		case RoleAssistant:
			contents = append(contents, gogenai.NewContentFromText(m.Content, gogenai.RoleModel))
		default:
			contents = append(contents, gogenai.NewContentFromText(m.Content, gogenai.RoleUser))
		}
	}

	config := &gogenai.GenerateContentConfig{
		MaxOutputTokens: DefaultMaxOutputTokens,
	}
	if len(systemParts) > 0 {
		config.SystemInstruction = gogenai.NewContentFromText(strings.Join(systemParts, "\n\n"), gogenai.RoleUser)
	}

	resp, err := c.client.Models.GenerateContent(ctx, c.chatModel, contents, config)
	if err != nil {
		return "", fmt.Errorf("gemini chat completion failed: %w", err)
	}
	text := resp.Text()
	if text == "" {
		return "", fmt.Errorf("gemini chat completion returned no text")
	}
	slog.Debug("geminiClient.GenerateWithMessages: completion received", "model", c.chatModel, "messages", len(messages))
	return text, nil
}

// EmbedTexts generates one embedding vector per input text.
func (c *geminiClient) EmbedTexts(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}
	contents := make([]*gogenai.Content, len(texts))
	for i, t := range texts {
		contents[i] = gogenai.NewContentFromText(t, gogenai.RoleUser)
	}

	resp, err := c.client.Models.EmbedContent(ctx, c.embeddingModel, contents, nil)
	if err != nil {
		return nil, fmt.Errorf("gemini embeddings failed: %w", err)
	}
	if len(resp.Embeddings) != len(texts) {
		return nil, fmt.Errorf("gemini embeddings returned %d vectors for %d inputs", len(resp.Embeddings), len(texts))
	}

	vectors := make([][]float32, len(resp.Embeddings))
	for i, e := range resp.Embeddings {
		vectors[i] = e.Values
	}
	return vectors, nil
}
