package redis

import "time"

// DefaultClaimMinIdle is how long an entry must sit unacknowledged before
// another consumer may take it over.
const DefaultClaimMinIdle = time.Minute

type RedisStreamConfig struct {
	RedisAddr     string
	RedisPassword string
	Stream        string
	OutputStream  string
	Group         string
	ConsumerName  string
	ClaimMinIdle  time.Duration
}

func NewRedisStreamConfig(redisAddr string, redisPassword string, stream string, outputStream string, group string, consumerName string) *RedisStreamConfig {
	return &RedisStreamConfig{
		RedisAddr:     redisAddr,
		RedisPassword: redisPassword,
		Stream:        stream,
		OutputStream:  outputStream,
		Group:         group,
		ConsumerName:  consumerName,
		ClaimMinIdle:  DefaultClaimMinIdle,
	}
}
