package enrich

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/openai/openai-go/shared"

	"github.com/citybeat-nyc/headline-harvester/internal/index"
	"github.com/citybeat-nyc/headline-harvester/internal/logger"
	"github.com/citybeat-nyc/headline-harvester/internal/store"
)

// Embedder computes a vector per keyword sub-token and persists it in the
// embeddings table. Writes are idempotent: re-embedding a sub-token simply
// overwrites its vector.
type Embedder struct {
	client *openai.Client
	model  string
	store  store.Store
	log    logger.Logger
}

// NewEmbedder builds the OpenAI-backed embedder writing into s.
func NewEmbedder(apiKey, model string, s store.Store, log logger.Logger) *Embedder {
	if log == nil {
		log = logger.NopLogger{}
	}
	return &Embedder{
		client: openai.NewClient(option.WithAPIKey(apiKey)),
		model:  model,
		store:  s,
		log:    log,
	}
}

// Embed vectorizes every sub-token of every keyword and stores the vectors.
// Sub-token normalization matches the reverse index so the two tables share
// keys.
func (e *Embedder) Embed(ctx context.Context, keywords []string) error {
	for _, keyword := range keywords {
		for _, sub := range index.SubTokens(keyword) {
			vector, err := e.embedOne(ctx, sub)
			if err != nil {
				return fmt.Errorf("embed sub-token %q: %w", sub, err)
			}

			encoded, err := json.Marshal(vector)
			if err != nil {
				return fmt.Errorf("encode vector for %q: %w", sub, err)
			}

			key := strings.ReplaceAll(sub, ":", "-")
			if err := e.store.SetField(ctx, store.TableEmbeddings, key, string(encoded)); err != nil {
				return fmt.Errorf("store vector for %q: %w", sub, err)
			}
		}
	}

	e.log.DebugObj("keyword embeddings stored", "embeddings_stored", map[string]any{
		"keywords": len(keywords),
	})
	return nil
}

func (e *Embedder) embedOne(ctx context.Context, word string) ([]float64, error) {
	resp, err := e.client.Embeddings.New(ctx, openai.EmbeddingNewParams{
		Input: openai.F[openai.EmbeddingNewParamsInputUnion](shared.UnionString(word)),
		Model: openai.F(openai.EmbeddingModel(e.model)),
	})
	if err != nil {
		return nil, err
	}
	if len(resp.Data) == 0 {
		return nil, fmt.Errorf("embedding response has no data")
	}
	return resp.Data[0].Embedding, nil
}
