package setup

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/povarna/generative-ai-agents/guardrail-agent/internal/answer"
	"github.com/povarna/generative-ai-agents/guardrail-agent/internal/config"
	"github.com/povarna/generative-ai-agents/guardrail-agent/internal/embedding"
	"github.com/povarna/generative-ai-agents/guardrail-agent/internal/guardrails"
	"github.com/povarna/generative-ai-agents/guardrail-agent/internal/llm"
	"github.com/povarna/generative-ai-agents/guardrail-agent/internal/llm/bedrock"
	"github.com/povarna/generative-ai-agents/guardrail-agent/internal/llm/gpt"
	"github.com/povarna/generative-ai-agents/guardrail-agent/internal/metrics"
	"github.com/povarna/generative-ai-agents/guardrail-agent/internal/moderation"
	"github.com/povarna/generative-ai-agents/guardrail-agent/internal/prompt"
	redisconn "github.com/povarna/generative-ai-agents/guardrail-agent/internal/redis"
	"github.com/povarna/generative-ai-agents/guardrail-agent/internal/retrieval"
	"github.com/povarna/generative-ai-agents/guardrail-agent/internal/topic"
	"github.com/prometheus/client_golang/prometheus"
	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

type Config struct {
	AWSRegion           string
	ClaudeModelID       string
	ClaudeMiniModelID   string
	EmbeddingModelID    string
	EmbeddingDimensions int
	OpenAIKey           string
	OpenAIModelID       string
	OpenAIMiniModelID   string
	DefaultProvider     string
	RedisAddr           string
	RedisPassword       string
	EmbeddingCacheTTL   time.Duration
	DB                  retrieval.DBConfig
	GuardrailsPath      string
	LogLevel            string
}

type Dependencies struct {
	Pipeline   *guardrails.Pipeline
	Holder     *topic.Holder
	Builder    *topic.Builder
	Reloader   *topic.Reloader
	Guardrails *config.GuardrailsConfig
	Logger     *zerolog.Logger

	pool        *pgxpool.Pool
	redisClient *goredis.Client
}

func LoadConfig() *Config {
	return &Config{
		AWSRegion:           getEnv("AWS_REGION", "us-east-1"),
		ClaudeModelID:       getEnv("CLAUDE_MODEL_ID", ""),
		ClaudeMiniModelID:   getEnv("CLAUDE_MINI_MODEL_ID", ""),
		EmbeddingModelID:    getEnv("EMBEDDING_MODEL_ID", embedding.DefaultTitanModelID),
		EmbeddingDimensions: getEnvInt("EMBEDDING_DIMENSIONS", 1024),
		OpenAIKey:           getEnv("OPEN_AI_KEY", ""),
		OpenAIModelID:       getEnv("OPEN_AI_MODEL_ID", ""),
		OpenAIMiniModelID:   getEnv("OPEN_AI_MINI_MODEL_ID", ""),
		DefaultProvider:     getEnv("DEFAULT_LLM_PROVIDER", "bedrock"),
		RedisAddr:           getEnv("REDIS_ADDR", ""),
		RedisPassword:       getEnv("REDIS_PASSWORD", ""),
		EmbeddingCacheTTL:   getEnvDuration("EMBEDDING_CACHE_TTL", 24*time.Hour),
		DB: retrieval.DBConfig{
			Host:     getEnv("DB_HOST", ""),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", ""),
			Database: getEnv("DB_NAME", "postgres"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
		},
		GuardrailsPath: getEnv("GUARDRAILS_CONFIG_PATH", config.DefaultGuardrailsConfigPath),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
	}
}

// Wire builds the pipeline and its collaborators. A topic index that cannot
// be loaded is logged, not returned: the pipeline then reports configuration
// faults until a reload succeeds.
func Wire(ctx context.Context, cfg *Config, logger *zerolog.Logger) (*Dependencies, error) {
	guardrailsCfg, err := config.LoadGuardrailsConfigFromFile(cfg.GuardrailsPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load guardrails config: %w", err)
	}

	deps := &Dependencies{
		Guardrails: guardrailsCfg,
		Logger:     logger,
	}

	// One Bedrock runtime serves the embedder and, on the bedrock provider,
	// both Claude models.
	runtime, err := bedrock.NewRuntime(ctx, cfg.AWSRegion)
	if err != nil {
		return nil, fmt.Errorf("failed to create Bedrock runtime: %w", err)
	}

	// LLM clients
	generationModelID, moderationModelID := modelIDs(cfg)
	generationClient, err := createLLMClient(cfg.DefaultProvider, generationModelID, runtime, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create generation client: %w", err)
	}
	moderationClient, err := createLLMClient(cfg.DefaultProvider, moderationModelID, runtime, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create moderation client: %w", err)
	}

	// Embeddings
	var embedder embedding.Embedder = embedding.NewTitanEmbedder(runtime, cfg.EmbeddingModelID, cfg.EmbeddingDimensions)

	if cfg.RedisAddr != "" {
		client, err := redisconn.ConnectRedis(ctx, cfg.RedisAddr, cfg.RedisPassword, 5)
		if err != nil {
			logger.Warn().Err(err).Msg("Embedding cache disabled")
		} else {
			deps.redisClient = client
			embedder = embedding.NewCachedEmbedder(embedder, client, "embedding:"+cfg.EmbeddingModelID+":", cfg.EmbeddingDimensions, cfg.EmbeddingCacheTTL, logger)
		}
	}

	// Retrieval
	var retriever retrieval.Retriever = retrieval.EmptyRetriever{}
	if cfg.DB.Host != "" {
		pool, err := retrieval.Connect(ctx, cfg.DB)
		if err != nil {
			deps.Close()
			return nil, err
		}
		deps.pool = pool
		retriever = retrieval.NewPostgresRetriever(pool, embedder, logger)
	} else {
		logger.Warn().Msg("DB_HOST not set, answering without retrieved context")
	}

	// Topic index
	deps.Holder = topic.NewHolder(nil)
	deps.Builder = topic.NewBuilder(embedder, guardrailsCfg.Topic.BuildConcurrency, logger)
	deps.Reloader = topic.NewReloader(deps.Builder, deps.Holder, guardrailsCfg.Topic.Exemplars, guardrailsCfg.Topic.SnapshotPath, logger)
	if _, err := deps.Reloader.Reload(ctx); err != nil {
		logger.Error().Err(err).Msg("Topic index unavailable, requests will fail until reloaded")
	}
	topicFilter := topic.NewFilter(embedder, deps.Holder, guardrailsCfg.Topic.K, logger)

	// Moderation
	classifier, err := moderation.NewClassifier(
		guardrailsCfg.Moderation.Categories,
		guardrailsCfg.Moderation.Model.Sampling(),
		moderationClient,
		logger,
	)
	if err != nil {
		deps.Close()
		return nil, fmt.Errorf("failed to create moderation classifier: %w", err)
	}

	// Generation
	answerService := answer.NewService(
		retriever,
		prompt.NewBuilder(guardrailsCfg.Generation.Scope),
		generationClient,
		guardrailsCfg.Generation.Model.Sampling(),
		guardrailsCfg.Generation.PassageCount,
		logger,
	)

	pipelineCfg := guardrailsCfg.Pipeline
	deps.Pipeline = guardrails.NewPipeline(classifier, topicFilter, answerService, guardrails.Options{
		ParallelChecks:    pipelineCfg.ParallelChecks,
		MaxQueryChars:     pipelineCfg.MaxQueryChars,
		ModerationTimeout: pipelineCfg.ModerationTimeout,
		TopicTimeout:      pipelineCfg.TopicTimeout,
		GenerationTimeout: pipelineCfg.GenerationTimeout,
	}, logger).WithRecorder(metrics.NewRecorder(prometheus.DefaultRegisterer))

	return deps, nil
}

// Close releases the database pool and the Redis client.
func (d *Dependencies) Close() {
	if d.pool != nil {
		d.pool.Close()
	}
	if d.redisClient != nil {
		if err := d.redisClient.Close(); err != nil {
			d.Logger.Warn().Err(err).Msg("Failed to close Redis client")
		}
	}
}

func getEnv(key string, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		value = defaultValue
	}

	return value
}

func getEnvInt(key string, defaultValue int) int {
	value, err := strconv.Atoi(os.Getenv(key))
	if err != nil {
		return defaultValue
	}

	return value
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	value, err := time.ParseDuration(os.Getenv(key))
	if err != nil {
		return defaultValue
	}

	return value
}

// modelIDs returns the generation and moderation models for the configured
// provider. Moderation falls back to the generation model.
func modelIDs(cfg *Config) (string, string) {
	generation, moderation := cfg.ClaudeModelID, cfg.ClaudeMiniModelID
	if cfg.DefaultProvider == "openai" {
		generation, moderation = cfg.OpenAIModelID, cfg.OpenAIMiniModelID
	}
	if moderation == "" {
		moderation = generation
	}
	return generation, moderation
}

func createLLMClient(provider string, modelID string, runtime *bedrockruntime.Client, cfg *Config) (llm.LLMClient, error) {
	switch provider {
	case "bedrock":
		if modelID == "" {
			return nil, fmt.Errorf("Bedrock model ID is required")
		}
		return bedrock.NewClientFromRuntime(runtime, modelID), nil
	case "openai":
		return gpt.NewClient(cfg.OpenAIKey, modelID)
	default:
		return nil, fmt.Errorf("unsupported LLM provider %q", provider)
	}
}
