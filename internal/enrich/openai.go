// Package enrich implements the external model ports: keyword classification,
// sentiment scoring and keyword embedding.
package enrich

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"github.com/citybeat-nyc/headline-harvester/internal/domain"
	"github.com/citybeat-nyc/headline-harvester/internal/logger"
)

const classifierSystemPrompt = "You are a linguist specializing in semantics and keyword " +
	"extraction, especially trained on issues or crimes in the five boroughs, or police or " +
	"NYPD or court involvement in New York City."

const classifierUserPrompt = `Take this sentence:

%s

After closely analyzing the sentence return a dictionary in format:

{ "related": boolean, "keywords": string[] }

Where related is whether the sentence is related to crime in New York City and keywords
are the most relevant keywords extracted from the sentence. Keywords should be one word each.

Only return the dictionary in json format. No Markdown formatting, no explanations, no
text before or after the JSON.`

// Classifier asks a chat model whether a headline is topically relevant and,
// if so, which keywords it carries.
type Classifier struct {
	client *openai.Client
	model  string
	log    logger.Logger
}

// NewClassifier builds the OpenAI-backed classifier.
func NewClassifier(apiKey, model string, log logger.Logger) *Classifier {
	if log == nil {
		log = logger.NopLogger{}
	}
	return &Classifier{
		client: openai.NewClient(option.WithAPIKey(apiKey)),
		model:  model,
		log:    log,
	}
}

// Classify returns the model's verdict for the combined headline text.
// A malformed model response is reported as (nil, nil): the caller treats it
// the same as "not related".
func (c *Classifier) Classify(ctx context.Context, text string) (*domain.Classification, error) {
	completion, err := c.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Messages: openai.F([]openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(classifierSystemPrompt),
			openai.UserMessage(fmt.Sprintf(classifierUserPrompt, text)),
		}),
		Model:       openai.F(c.model),
		Temperature: openai.Float(0.2),
	})
	if err != nil {
		return nil, fmt.Errorf("classification request: %w", err)
	}

	if len(completion.Choices) == 0 {
		c.log.WarnObj("classifier returned no choices", "classifier_empty", map[string]any{
			"model": c.model,
		})
		return nil, nil
	}

	raw := cleanModelResponse(completion.Choices[0].Message.Content)

	var verdict struct {
		Related  *bool     `json:"related"`
		Keywords *[]string `json:"keywords"`
	}
	if err := json.Unmarshal([]byte(raw), &verdict); err != nil || verdict.Related == nil || verdict.Keywords == nil {
		c.log.WarnObj("classifier response malformed", "classifier_malformed", map[string]any{
			"model":    c.model,
			"response": snippet(raw),
		})
		return nil, nil
	}

	return &domain.Classification{
		Related:  *verdict.Related,
		Keywords: *verdict.Keywords,
	}, nil
}

// cleanModelResponse strips Markdown code fences some models wrap around JSON
// despite instructions.
func cleanModelResponse(raw string) string {
	raw = strings.TrimSpace(raw)
	raw = strings.TrimPrefix(raw, "```json")
	raw = strings.TrimPrefix(raw, "```")
	raw = strings.TrimSuffix(raw, "```")
	return strings.TrimSpace(raw)
}

func snippet(s string) string {
	const maxLen = 256
	if len(s) > maxLen {
		return s[:maxLen] + "..."
	}
	if s == "" {
		return "<empty>"
	}
	return s
}
