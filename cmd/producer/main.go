package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/povarna/generative-ai-agents/guardrail-agent/internal/models"
	red "github.com/povarna/generative-ai-agents/guardrail-agent/internal/redis"
	streamredis "github.com/povarna/generative-ai-agents/guardrail-agent/internal/stream/redis"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	data := flag.String("d", "", "Inline JSON AskRequest")
	question := flag.String("q", "", "Question text (alternative to -d)")
	stream := flag.String("stream", "guard-requests", "Stream name")
	flag.Parse()

	if *data == "" && *question == "" {
		fmt.Fprintln(os.Stderr, "Usage: producer -q '<question>' | -d '<json>'")
		flag.PrintDefaults()
		os.Exit(1)
	}

	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	if err := run(*data, *question, *stream); err != nil {
		log.Error().Err(err).Msg("producer failed")
		os.Exit(1)
	}
}

func run(data, question, stream string) error {
	_ = godotenv.Load()

	req := models.AskRequest{Question: question}
	if data != "" {
		if err := json.Unmarshal([]byte(data), &req); err != nil {
			return err
		}
	}
	if req.RequestID == "" {
		req.RequestID = uuid.NewString()
	}

	values, err := streamredis.EncodeQuestion(req)
	if err != nil {
		return err
	}

	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		addr = "localhost:6379"
	}

	ctx := context.Background()
	client, err := red.ConnectRedis(ctx, addr, os.Getenv("REDIS_PASSWORD"), 3)
	if err != nil {
		return err
	}
	defer client.Close()

	id, err := client.XAdd(ctx, &redis.XAddArgs{
		Stream: stream,
		Values: values,
	}).Result()
	if err != nil {
		return err
	}

	log.Info().Str("stream", stream).Str("id", id).Str("request_id", req.RequestID).Msg("Published successfully!")
	return nil
}
