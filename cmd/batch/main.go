package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/povarna/generative-ai-agents/guardrail-agent/internal/batch"
	"github.com/povarna/generative-ai-agents/guardrail-agent/internal/setup"
	setuplogger "github.com/povarna/generative-ai-agents/guardrail-agent/internal/setup/logger"
	"github.com/rs/zerolog/log"
)

func main() {
	startTime := time.Now()

	input := flag.String("input", "", "Input JSONL file, or - for stdin")
	output := flag.String("output", "", "Output file (defaults to stdout)")
	format := flag.String("format", batch.FormatJSONL, "Output format. Supported formats: 'jsonl', 'summary'")
	workers := flag.Int("workers", 5, "Concurrent pipeline workers")
	dryRun := flag.Bool("dry-run", false, "Validate input without running the pipeline")
	validate := flag.Bool("validate", false, "Compare decisions with expected_outcome on every record")
	threshold := flag.Float64("agreement-threshold", 0.9, "Minimum agreement rate for -validate")

	flag.Parse()

	if *input == "" {
		log.Fatal().Msg("required flag -input not provided")
	}

	envErr := godotenv.Load()
	cfg := setup.LoadConfig()

	// stdout carries the JSONL results.
	log.Logger = setuplogger.New(os.Stderr, cfg.LogLevel)
	if envErr != nil {
		log.Warn().Msg("No .env file found, using environment variables")
	}

	ctx, cancel := setupGracefulShutdown()
	defer cancel()

	// Open input file
	var inputFile io.Reader
	if *input == "-" {
		inputFile = os.Stdin
		log.Info().Msg("Reading from stdin")
	} else {
		f, err := os.Open(*input)
		if err != nil {
			log.Fatal().Err(err).Str("file", *input).Msg("Failed to open input file")
		}
		defer f.Close()
		inputFile = f
		log.Info().Str("file", *input).Msg("Reading input file")
	}

	// Read records
	reader := batch.NewReader(inputFile, &log.Logger)
	var records []batch.InputRecord
	for record := range reader.ReadAll(ctx) {
		records = append(records, record)
	}

	log.Info().Int("total", len(records)).Msg("Input file parsed")

	if *dryRun {
		dryRunAndExit(records, *validate)
	}

	deps, err := setup.Wire(ctx, cfg, &log.Logger)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to wire dependencies")
	}
	defer deps.Close()

	if deps.Holder.Load() == nil {
		log.Fatal().Msg("Topic index is empty, run the indexer or fix the exemplar set")
	}

	processor := batch.NewProcessor(deps.Pipeline, *workers, deps.Logger)

	if *validate {
		runValidationMode(ctx, processor, records, *threshold)
		return
	}

	// Open output file
	var outputFile io.Writer
	if *output == "" {
		outputFile = os.Stdout
	} else {
		f, err := os.Create(*output)
		if err != nil {
			log.Fatal().Err(err).Str("file", *output).Msg("Failed to create output file")
		}
		defer f.Close()
		outputFile = f
		log.Info().Str("file", *output).Msg("Writing to output file")
	}

	writer, err := batch.NewWriter(outputFile, *format, deps.Logger)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create writer")
	}

	for result := range processor.Process(ctx, records) {
		if err := writer.Write(result); err != nil {
			log.Error().Err(err).Str("request_id", result.RequestID).Msg("Failed to write result")
		}
	}

	if err := writer.Close(); err != nil {
		log.Error().Err(err).Msg("Failed to flush output")
	}

	summary := writer.Summary()
	log.Info().
		Int("total", summary.Total).
		Int("errors", summary.Errors).
		Dur("duration", time.Since(startTime)).
		Msg("Batch processing complete")
}

func setupGracefulShutdown() (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-sigChan
		log.Warn().Msg("Received interrupt signal, finishing current work...")
		cancel()
	}()

	return ctx, cancel
}

func dryRunAndExit(records []batch.InputRecord, requireExpected bool) {
	errorCount := 0
	for _, record := range records {
		if record.Error != nil {
			log.Error().Int("line", record.LineNumber).Err(record.Error).Msg("Invalid record")
			errorCount++
			continue
		}
		if requireExpected && record.Request.ExpectedOutcome == "" {
			log.Error().Int("line", record.LineNumber).Msg("Record missing expected_outcome")
			errorCount++
		}
	}

	if errorCount > 0 {
		log.Fatal().Int("errors", errorCount).Msg("Validation failed")
	}

	log.Info().Msg("Validation successful")
	os.Exit(0)
}

func runValidationMode(ctx context.Context, processor *batch.Processor, records []batch.InputRecord, threshold float64) {
	log.Info().Msg("Validation mode enabled")

	missing := 0
	for _, record := range records {
		if record.Error == nil && record.Request.ExpectedOutcome == "" {
			log.Error().Int("line", record.LineNumber).Msg("Record missing expected_outcome")
			missing++
		}
	}
	if missing > 0 {
		log.Fatal().Int("missing", missing).Msg("Validation mode requires every record to have 'expected_outcome'")
	}

	var results []batch.Result
	for result := range processor.Process(ctx, records) {
		results = append(results, result)
	}

	validationResult, err := batch.ValidateOutcomes(results, threshold)
	if err != nil {
		log.Fatal().Err(err).Msg("Validation failed")
	}

	validationJSON, err := json.MarshalIndent(validationResult, "", "  ")
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to marshal validation result")
	}
	fmt.Println(string(validationJSON))

	status := "PASSED"
	if !validationResult.Passed {
		status = "FAILED"
	}
	log.Info().
		Int("records", validationResult.TotalRecords).
		Int("agreement", validationResult.AgreementCount).
		Float64("agreement_rate", validationResult.AgreementRate).
		Float64("threshold", threshold).
		Str("status", status).
		Msg("Validation complete")

	if !validationResult.Passed {
		log.Error().Msg("Review configs/guardrails.yaml exemplars and categories and re-run validation")
		os.Exit(1)
	}
}
