// Package ingest runs the per-source fetch loop and the dedup-and-enrich
// pipeline that turns raw articles into stored headline records.
package ingest

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/citybeat-nyc/headline-harvester/internal/domain"
	"github.com/citybeat-nyc/headline-harvester/internal/logger"
	"github.com/citybeat-nyc/headline-harvester/internal/sentiment"
	"github.com/citybeat-nyc/headline-harvester/internal/store"
	"github.com/citybeat-nyc/headline-harvester/pkg/httpclient"
	"github.com/citybeat-nyc/headline-harvester/pkg/sources"
)

const maxPageBodyBytes = 1 << 20 // 1 MiB

// EnrichmentPort decides topical relevance and extracts keywords.
// A nil Classification with a nil error means the upstream response was
// malformed and the text is treated as not related.
type EnrichmentPort interface {
	Classify(ctx context.Context, text string) (*domain.Classification, error)
}

// SentimentPort reports per-class probabilities for a text.
type SentimentPort interface {
	Score(ctx context.Context, text string) (domain.SentimentScores, error)
}

// EmbeddingPort computes and persists vectors for the given keywords.
type EmbeddingPort interface {
	Embed(ctx context.Context, keywords []string) error
}

// ReverseIndexer records a headline under every sub-token of a keyword.
type ReverseIndexer interface {
	Append(ctx context.Context, keyword, headline string) error
}

// Ingestor coordinates concurrent page fetches for one source and runs each
// extracted article through the dedup-and-enrich pipeline.
type Ingestor struct {
	client   httpclient.Client
	store    store.Store
	enricher EnrichmentPort
	scorer   SentimentPort
	embedder EmbeddingPort
	indexer  ReverseIndexer
	log      logger.Logger
	now      func() time.Time
}

// New builds an Ingestor. All collaborators are required except log.
func New(
	client httpclient.Client,
	st store.Store,
	enricher EnrichmentPort,
	scorer SentimentPort,
	embedder EmbeddingPort,
	indexer ReverseIndexer,
	log logger.Logger,
) *Ingestor {
	if client == nil {
		client = httpclient.NewRestyClient(httpclient.DefaultTimeout)
	}
	if log == nil {
		log = logger.NopLogger{}
	}
	return &Ingestor{
		client:   client,
		store:    st,
		enricher: enricher,
		scorer:   scorer,
		embedder: embedder,
		indexer:  indexer,
		log:      log,
		now:      time.Now,
	}
}

// Run fetches pages [0, pageLimit) of the source concurrently and returns
// every headline newly stored during this run, keyed by sanitized headline.
//
// A page failure (network, status, parse) only empties that page; the run
// always completes. The returned error is non-nil only when the store became
// unavailable, and the mapping still holds everything ingested before that.
func (i *Ingestor) Run(ctx context.Context, src sources.Source, pageLimit int) (map[string]domain.SerializedHeadline, error) {
	if pageLimit <= 0 {
		return map[string]domain.SerializedHeadline{}, nil
	}

	// One result slot per page unit; merged after all units join, so no lock
	// is needed on the shared state.
	locals := make([]map[string]domain.SerializedHeadline, pageLimit)
	errs := make([]error, pageLimit)

	var wg sync.WaitGroup
	for page := 0; page < pageLimit; page++ {
		wg.Add(1)
		go func(page int) {
			defer wg.Done()
			locals[page], errs[page] = i.ingestPage(ctx, src, page)
		}(page)
	}
	wg.Wait()

	merged := make(map[string]domain.SerializedHeadline)
	var firstErr error
	for page := 0; page < pageLimit; page++ {
		for headline, serialized := range locals[page] {
			merged[headline] = serialized
		}
		if errs[page] != nil && firstErr == nil {
			firstErr = errs[page]
		}
	}

	i.log.InfoObj("source run finished", "run_done", map[string]any{
		"source_id": src.ID(),
		"pages":     pageLimit,
		"headlines": len(merged),
	})

	return merged, firstErr
}

// ingestPage fetches and processes one page. Fetch and parse failures yield
// an empty result; a store failure aborts the page and is returned together
// with whatever was ingested before it.
func (i *Ingestor) ingestPage(ctx context.Context, src sources.Source, page int) (map[string]domain.SerializedHeadline, error) {
	local := make(map[string]domain.SerializedHeadline)

	url := src.URL(page)
	resp, err := i.client.Get(ctx, url, sources.Headers())
	if err != nil {
		i.log.WarnObj("page fetch failed", "page_fetch_error", map[string]any{
			"source_id": src.ID(),
			"page":      page,
			"url":       url,
			"error":     err.Error(),
		})
		return local, nil
	}

	if resp.StatusCode() < 200 || resp.StatusCode() > 299 {
		i.log.WarnObj("page fetch returned bad status", "page_status_error", map[string]any{
			"source_id": src.ID(),
			"page":      page,
			"url":       url,
			"status":    resp.StatusCode(),
		})
		return local, nil
	}

	body := resp.Body()
	if len(body) > maxPageBodyBytes {
		i.log.InfoObj("page body truncated", "page_truncation", map[string]any{
			"source_id": src.ID(),
			"page":      page,
			"original":  len(body),
			"kept":      maxPageBodyBytes,
		})
		body = body[:maxPageBodyBytes]
	}

	articles, err := src.Articles(body)
	if err != nil {
		i.log.WarnObj("page parse failed", "page_parse_error", map[string]any{
			"source_id": src.ID(),
			"page":      page,
			"url":       url,
			"error":     err.Error(),
		})
		return local, nil
	}

	for _, article := range articles {
		raw, ok := src.Headline(article)
		if !ok {
			continue
		}
		headline := sanitizeText(raw)

		serialized, err := i.serializeHeadline(ctx, src, article, headline)
		if err != nil {
			i.log.ErrorObj("store unavailable, aborting page", "page_store_error", map[string]any{
				"source_id": src.ID(),
				"page":      page,
				"headline":  headline,
				"error":     err.Error(),
			})
			return local, err
		}
		if serialized != nil {
			local[headline] = *serialized
		}
	}

	return local, nil
}

// serializeHeadline is the dedup-and-enrich pipeline for one article. It
// returns nil when the article is discarded (missing fields, already stored,
// not related, model failure) and an error only on store failure.
//
// The existence check before enrichment is advisory, not a lock: two page
// units can both see "absent" and both enrich. The re-check before the write
// narrows that window; the reverse-index append stays ungated, so duplicate
// list entries are possible and accepted.
func (i *Ingestor) serializeHeadline(ctx context.Context, src sources.Source, article sources.Article, headline string) (*domain.SerializedHeadline, error) {
	rawDesc, _ := src.Description(article)
	description := sanitizeText(rawDesc)
	if headline == "" || description == "" {
		return nil, nil
	}

	exists, err := i.store.FieldExists(ctx, store.TableHeadlines, headline)
	if err != nil {
		return nil, fmt.Errorf("headline existence check: %w", err)
	}
	if exists {
		return nil, nil
	}

	text := headline + " " + description

	verdict, err := i.enricher.Classify(ctx, text)
	if err != nil {
		i.log.WarnObj("enrichment call failed, discarding article", "enrich_error", map[string]any{
			"source_id": src.ID(),
			"headline":  headline,
			"error":     err.Error(),
		})
		return nil, nil
	}
	if verdict == nil || !verdict.Related {
		return nil, nil
	}

	keywords := make([]string, 0, len(verdict.Keywords))
	for _, kw := range verdict.Keywords {
		keywords = append(keywords, sanitizeKeyword(kw))
	}

	scores, err := i.scorer.Score(ctx, text)
	if err != nil {
		i.log.WarnObj("sentiment call failed, discarding article", "sentiment_error", map[string]any{
			"source_id": src.ID(),
			"headline":  headline,
			"error":     err.Error(),
		})
		return nil, nil
	}

	date, _ := src.Date(article)
	link, _ := src.Link(article)

	serialized := domain.SerializedHeadline{
		Description: description,
		Date:        date,
		Link:        link,
		Sentiment:   sentiment.Normalize(scores),
		Keywords:    keywords,
	}

	// Re-check right before the write to narrow the check-then-act window.
	// Last write wins when two units race past both checks; both computed
	// equivalent records from the same text.
	exists, err = i.store.FieldExists(ctx, store.TableHeadlines, headline)
	if err != nil {
		return nil, fmt.Errorf("headline existence re-check: %w", err)
	}
	if !exists {
		encoded, err := json.Marshal(serialized)
		if err != nil {
			return nil, fmt.Errorf("encode headline record: %w", err)
		}
		if err := i.store.SetField(ctx, store.TableHeadlines, headline, string(encoded)); err != nil {
			return nil, fmt.Errorf("store headline record: %w", err)
		}
	}

	for _, kw := range keywords {
		if err := i.indexer.Append(ctx, kw, headline); err != nil {
			return nil, fmt.Errorf("reverse index update: %w", err)
		}
	}

	if err := i.embedder.Embed(ctx, keywords); err != nil {
		i.log.WarnObj("keyword embedding failed", "embed_error", map[string]any{
			"source_id": src.ID(),
			"headline":  headline,
			"error":     err.Error(),
		})
	}

	if err := i.store.SetScalar(ctx, store.KeyLastUpdated, strconv.FormatInt(i.now().Unix(), 10)); err != nil {
		return nil, fmt.Errorf("update last_updated: %w", err)
	}

	return &serialized, nil
}

var (
	textSanitizer    = strings.NewReplacer(`"`, "", "'", "", ":", "")
	keywordSanitizer = strings.NewReplacer(`"`, "", "'", "")
)

// sanitizeText strips the characters that would break store keys out of
// headlines and descriptions.
func sanitizeText(s string) string {
	return strings.TrimSpace(textSanitizer.Replace(s))
}

// sanitizeKeyword strips quote characters from model-returned keywords.
// Colons are kept; the reverse index handles them.
func sanitizeKeyword(s string) string {
	return strings.TrimSpace(keywordSanitizer.Replace(s))
}
