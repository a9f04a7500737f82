// Package vectorstore provides the per-category in-memory vector indexes
// used for retrieval.
//
// Each category owns one chromem-go collection. Collections are built once
// during ingestion and never mutated afterwards, so the query path needs no
// locking of its own.
package vectorstore

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	chromem "github.com/philippgille/chromem-go"

	"github.com/diabeai/diabuddy/internal/genai"
	"github.com/diabeai/diabuddy/internal/models"
)

// NewEmbeddingFunc creates a chromem-go EmbeddingFunc from a genai client.
// The returned function bridges the provider-neutral embedding API with
// chromem-go's single-text requirement; chromem-go normalizes vectors
// itself, so no manual normalization is needed.
func NewEmbeddingFunc(client genai.ClientInterface) chromem.EmbeddingFunc {
	return func(ctx context.Context, text string) ([]float32, error) {
		vectors, err := client.EmbedTexts(ctx, []string{text})
		if err != nil {
			return nil, fmt.Errorf("embed failed: %w", err)
		}
		if len(vectors) == 0 {
			return nil, fmt.Errorf("no embeddings returned")
		}
		return vectors[0], nil
	}
}

// Store holds one vector collection per question category.
type Store struct {
	db    *chromem.DB
	embed chromem.EmbeddingFunc
}

// New creates an empty Store using the given embedding function for both
// ingestion and queries.
func New(embed chromem.EmbeddingFunc) *Store {
	return &Store{
		db:    chromem.NewDB(),
		embed: embed,
	}
}

// Build replaces the category's collection with one built from the given
// chunks. Embedding happens here, one call per chunk. Building with no
// chunks yields a valid empty collection, which is the fallback state when
// every source for a category fails to load. Returns the stored chunk count.
func (s *Store) Build(ctx context.Context, category models.Category, chunks []string) (int, error) {
	name := string(category)
	if err := s.db.DeleteCollection(name); err != nil {
		return 0, fmt.Errorf("failed to reset collection %s: %w", name, err)
	}
	collection, err := s.db.CreateCollection(name, nil, s.embed)
	if err != nil {
		return 0, fmt.Errorf("failed to create collection %s: %w", name, err)
	}
	if len(chunks) == 0 {
		slog.Warn("Store.Build: built empty index", "category", category)
		return 0, nil
	}

	docs := make([]chromem.Document, 0, len(chunks))
	for _, chunk := range chunks {
		docs = append(docs, chromem.Document{
			ID:      uuid.NewString(),
			Content: chunk,
		})
	}
	// Concurrency 1 keeps ingestion to one embedding call in flight at a time.
	if err := collection.AddDocuments(ctx, docs, 1); err != nil {
		return 0, fmt.Errorf("failed to add documents to %s: %w", name, err)
	}
	slog.Info("Store.Build: index built", "category", category, "chunks", len(docs))
	return len(docs), nil
}

// Search returns the text of the top-k chunks most similar to the query,
// joined by blank lines. k is clamped to the collection size; an empty index
// yields an empty string, not an error.
func (s *Store) Search(ctx context.Context, category models.Category, query string, k int) (string, error) {
	collection := s.db.GetCollection(string(category), s.embed)
	if collection == nil {
		return "", fmt.Errorf("no index for category %s", category)
	}

	count := collection.Count()
	if count == 0 || k <= 0 {
		return "", nil
	}
	if k > count {
		k = count
	}

	results, err := collection.Query(ctx, query, k, nil, nil)
	if err != nil {
		return "", fmt.Errorf("query failed for category %s: %w", category, err)
	}

	texts := make([]string, 0, len(results))
	for _, r := range results {
		texts = append(texts, r.Content)
	}
	return strings.Join(texts, "\n\n"), nil
}

// Count reports the number of chunks indexed for a category. A category with
// no collection reports zero.
func (s *Store) Count(category models.Category) int {
	collection := s.db.GetCollection(string(category), s.embed)
	if collection == nil {
		return 0
	}
	return collection.Count()
}

// ChunkCounts reports the chunk count of every category, for health reporting.
func (s *Store) ChunkCounts() map[models.Category]int {
	counts := make(map[models.Category]int, len(models.Categories()))
	for _, c := range models.Categories() {
		counts[c] = s.Count(c)
	}
	return counts
}
