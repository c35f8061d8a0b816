package topic

import "errors"

var (
	ErrEmptyIndex        = errors.New("topic index is empty")
	ErrDimensionMismatch = errors.New("embedding dimension mismatch")
	ErrInvalidK          = errors.New("k must be at least 1")

	// ErrDegenerateEmbedding is a zero or non-finite query vector. It is a
	// provider failure, not a configuration fault.
	ErrDegenerateEmbedding = errors.New("degenerate query embedding")
)

// IsConfigurationFault reports whether err comes from a misconfigured index
// rather than from a failed external call.
func IsConfigurationFault(err error) bool {
	return errors.Is(err, ErrEmptyIndex) ||
		errors.Is(err, ErrDimensionMismatch) ||
		errors.Is(err, ErrInvalidK)
}
