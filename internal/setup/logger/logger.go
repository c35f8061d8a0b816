package logger

import (
	"io"
	"strings"

	"github.com/rs/zerolog"
)

// New builds the JSON logger used by the non-interactive binaries. Unknown or
// empty levels fall back to info. Binaries that use stdout as a data channel
// (MCP stdio, batch JSONL) must pass os.Stderr.
func New(out io.Writer, level string) zerolog.Logger {
	normalized := strings.ToLower(strings.TrimSpace(level))
	lvl, err := zerolog.ParseLevel(normalized)
	if err != nil || normalized == "" {
		lvl = zerolog.InfoLevel
	}

	return zerolog.New(out).
		Level(lvl).
		With().
		Timestamp().
		Str("service", "guardrail-agent").
		Caller().
		Logger()
}
