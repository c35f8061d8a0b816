package embedding

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// CachedEmbedder stores vectors in Redis keyed by model, dimension and text
// hash. Cache failures never fail the call; the underlying embedder is used
// instead.
type CachedEmbedder struct {
	next       Embedder
	client     *redis.Client
	prefix     string
	dimensions int
	ttl        time.Duration
	logger     *zerolog.Logger
}

// NewCachedEmbedder appends the dimension to prefix so vectors written under
// another EMBEDDING_DIMENSIONS setting are never read back.
func NewCachedEmbedder(next Embedder, client *redis.Client, prefix string, dimensions int, ttl time.Duration, logger *zerolog.Logger) *CachedEmbedder {
	return &CachedEmbedder{
		next:       next,
		client:     client,
		prefix:     fmt.Sprintf("%s%d:", prefix, dimensions),
		dimensions: dimensions,
		ttl:        ttl,
		logger:     logger,
	}
}

func (c *CachedEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	key := cacheKey(c.prefix, text)

	cached, err := c.client.Get(ctx, key).Bytes()
	if err == nil {
		if vector, ok := c.decode(cached); ok {
			return vector, nil
		}
		c.logger.Warn().Str("key", key).Msg("discarding invalid cached embedding")
	} else if !errors.Is(err, redis.Nil) {
		c.logger.Warn().Err(err).Msg("embedding cache lookup failed")
	}

	vector, err := c.next.Embed(ctx, text)
	if err != nil {
		return nil, err
	}

	if data, err := json.Marshal(vector); err == nil {
		if err := c.client.Set(ctx, key, data, c.ttl).Err(); err != nil {
			c.logger.Warn().Err(err).Msg("embedding cache write failed")
		}
	}

	return vector, nil
}

// decode accepts only a non-empty vector of the configured length.
func (c *CachedEmbedder) decode(data []byte) ([]float32, bool) {
	var vector []float32
	if err := json.Unmarshal(data, &vector); err != nil || len(vector) == 0 {
		return nil, false
	}
	if c.dimensions > 0 && len(vector) != c.dimensions {
		return nil, false
	}
	return vector, true
}

func cacheKey(prefix string, text string) string {
	sum := sha256.Sum256([]byte(text))
	return prefix + hex.EncodeToString(sum[:])
}
