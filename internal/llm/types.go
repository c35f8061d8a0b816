package llm

// LLMRequest keeps instructions and user content in separate fields so user
// text is never spliced into the system block.
type LLMRequest struct {
	System      string
	Prompt      string
	MaxTokens   int
	Temperature float64
	TopK        int
}

type LLMResponse struct {
	Content    string
	StopReason string
}

// SamplingConfig mirrors the sampling options recognised by every provider.
type SamplingConfig struct {
	MaxTokens   int
	Temperature float64
	TopK        int
	Retry       bool
}

// NewRequest builds a request from an instruction block, a user block and
// the sampling options.
func NewRequest(system string, prompt string, sampling SamplingConfig) LLMRequest {
	return LLMRequest{
		System:      system,
		Prompt:      prompt,
		MaxTokens:   sampling.MaxTokens,
		Temperature: sampling.Temperature,
		TopK:        sampling.TopK,
	}
}
