package main

import (
	"context"
	"flag"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/povarna/generative-ai-agents/guardrail-agent/internal/config"
	"github.com/povarna/generative-ai-agents/guardrail-agent/internal/embedding"
	"github.com/povarna/generative-ai-agents/guardrail-agent/internal/llm/bedrock"
	"github.com/povarna/generative-ai-agents/guardrail-agent/internal/setup"
	"github.com/povarna/generative-ai-agents/guardrail-agent/internal/topic"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// indexer embeds the configured exemplars and writes the topic index snapshot
// that the serving binaries load at startup.
func main() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	output := flag.String("output", "", "Snapshot path (defaults to topic.snapshot_path)")
	flag.Parse()

	if err := godotenv.Load(); err != nil {
		log.Warn().Msg("No .env file found")
	}

	cfg := setup.LoadConfig()
	guardrailsCfg, err := config.LoadGuardrailsConfigFromFile(cfg.GuardrailsPath)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load guardrails config")
	}

	path := *output
	if path == "" {
		path = guardrailsCfg.Topic.SnapshotPath
	}
	if path == "" {
		log.Fatal().Msg("No snapshot path: pass -output or set topic.snapshot_path")
	}

	ctx := context.Background()
	runtime, err := bedrock.NewRuntime(ctx, cfg.AWSRegion)
	if err != nil {
		log.Fatal().Err(err).Msg("Unable to initialize Bedrock runtime")
	}

	embedder := embedding.NewTitanEmbedder(runtime, cfg.EmbeddingModelID, cfg.EmbeddingDimensions)
	builder := topic.NewBuilder(embedder, guardrailsCfg.Topic.BuildConcurrency, &log.Logger)

	start := time.Now()
	idx, err := builder.Build(ctx, guardrailsCfg.Topic.Exemplars)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to build topic index")
	}

	if err := topic.SaveFile(path, idx); err != nil {
		log.Fatal().Err(err).Str("file", path).Msg("Failed to write snapshot")
	}

	log.Info().
		Str("file", path).
		Int("exemplars", idx.Len()).
		Int("dimension", idx.Dimension()).
		Dur("duration", time.Since(start)).
		Msg("Topic index snapshot written")
}
