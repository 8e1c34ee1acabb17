// Command harvester ingests one news source's pages, enriches new headlines
// and fans them out to the configured publishers. Each replica of the
// process handles one source, selected by the SERVICE_LABEL environment
// variable.
package main

import (
	"context"
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"

	"github.com/citybeat-nyc/headline-harvester/internal/config"
	"github.com/citybeat-nyc/headline-harvester/internal/domain"
	"github.com/citybeat-nyc/headline-harvester/internal/enrich"
	"github.com/citybeat-nyc/headline-harvester/internal/index"
	"github.com/citybeat-nyc/headline-harvester/internal/ingest"
	"github.com/citybeat-nyc/headline-harvester/internal/logger"
	"github.com/citybeat-nyc/headline-harvester/internal/store"
	"github.com/citybeat-nyc/headline-harvester/pkg/httpclient"
	"github.com/citybeat-nyc/headline-harvester/pkg/publishers"
	"github.com/citybeat-nyc/headline-harvester/pkg/sources"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "harvester:", err)
		os.Exit(1)
	}
}

func run() error {
	_ = godotenv.Load()

	configPath := os.Getenv("HARVESTER_CONFIG")
	if configPath == "" {
		configPath = "config.yaml"
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	log, err := logger.New(cfg.LogLevel)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}

	label := 0
	if v := os.Getenv("SERVICE_LABEL"); v != "" {
		label, err = strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("parse SERVICE_LABEL %q: %w", v, err)
		}
	}

	srcCfg, err := cfg.SourceForLabel(label)
	if err != nil {
		return err
	}

	log.InfoObj("replica initialized", "replica_init", map[string]any{
		"label":     label,
		"source_id": srcCfg.ID,
	})

	st, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer st.Close()

	reg, err := buildSourceRegistry(cfg)
	if err != nil {
		return err
	}
	src, err := reg.SourceFor(srcCfg.ID)
	if err != nil {
		return err
	}

	client := httpclient.NewRestyClient(cfg.FetchTimeout())
	classifier := enrich.NewClassifier(cfg.OpenAI.APIKey, cfg.OpenAI.ClassifierModel, log)
	scorer := enrich.NewSentimentService(cfg.Sentiment.Endpoint, cfg.Sentiment.Model, cfg.SentimentTimeout(), log)
	embedder := enrich.NewEmbedder(cfg.OpenAI.APIKey, cfg.OpenAI.EmbeddingModel, st, log)
	indexer := index.New(st)

	ingestor := ingest.New(client, st, classifier, scorer, embedder, indexer, log)

	ctx := context.Background()
	headlines, runErr := ingestor.Run(ctx, src, cfg.PageLimit)

	if err := publish(ctx, cfg, src.ID(), headlines, log); err != nil {
		log.ErrorObj("publishing failed", "publish_error", map[string]any{
			"error": err.Error(),
		})
	}

	log.InfoObj("harvest complete", "harvest_done", map[string]any{
		"source_id":     src.ID(),
		"new_headlines": len(headlines),
	})

	if runErr != nil {
		return fmt.Errorf("run aborted: %w", runErr)
	}
	return nil
}

func openStore(cfg *config.Config) (store.Store, error) {
	if cfg.Store.Backend == "bolt" {
		return store.NewBoltStore(cfg.Store.Path)
	}
	return store.NewValkeyStore(cfg.Store.Addr, cfg.Store.Password, cfg.Store.DB)
}

func buildSourceRegistry(cfg *config.Config) (sources.Registry, error) {
	built := make([]sources.Source, 0, len(cfg.Sources))
	for _, sc := range cfg.Sources {
		switch sc.ID {
		case "cbs":
			built = append(built, sources.NewCBS(sc.BaseURL))
		case "nbc":
			built = append(built, sources.NewNBC(sc.BaseURL))
		case "nydaily":
			built = append(built, sources.NewNYDaily(sc.BaseURL))
		default:
			return nil, fmt.Errorf("unknown source id %q in config", sc.ID)
		}
	}
	return sources.NewRegistry(built...), nil
}

// publish fans every newly stored headline out to the configured sinks.
// Publishing is best-effort: a sink failure is logged and does not fail the
// harvest.
func publish(ctx context.Context, cfg *config.Config, sourceID string, headlines map[string]domain.SerializedHeadline, log logger.Logger) error {
	if cfg.PublishersFile == "" || len(headlines) == 0 {
		return nil
	}

	reg, err := publishers.LoadRegistry(cfg.PublishersFile)
	if err != nil {
		return fmt.Errorf("load publishers: %w", err)
	}

	pubs, err := publishers.BuildAll(ctx, publishers.DefaultRegistry(), reg.Enabled(), log)
	if err != nil {
		return fmt.Errorf("build publishers: %w", err)
	}

	for headline, record := range headlines {
		evt := publishers.Event{
			SourceID:  sourceID,
			Headline:  headline,
			Date:      record.Date,
			Link:      record.Link,
			Sentiment: record.Sentiment,
			Keywords:  record.Keywords,
		}
		for _, pub := range pubs {
			if err := pub.Publish(ctx, evt); err != nil {
				log.WarnObj("publisher delivery failed", "publish_sink_error", map[string]any{
					"publisher_id": pub.ID(),
					"headline":     headline,
					"error":        err.Error(),
				})
			}
		}
	}
	return nil
}
