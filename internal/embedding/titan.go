package embedding

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
)

const DefaultTitanModelID = "amazon.titan-embed-text-v2:0"

var ErrEmptyText = errors.New("text to embed is empty")

type titanRequest struct {
	InputText  string `json:"inputText"`
	Dimensions int    `json:"dimensions,omitempty"`
	Normalize  bool   `json:"normalize"`
}

type titanResponse struct {
	Embedding           []float32 `json:"embedding"`
	InputTextTokenCount int       `json:"inputTextTokenCount"`
}

// TitanEmbedder calls Amazon Titan text embeddings through Bedrock. Vectors are
// normalized so cosine distance is meaningful for the topic index.
type TitanEmbedder struct {
	client     *bedrockruntime.Client
	modelID    string
	dimensions int
}

func NewTitanEmbedder(client *bedrockruntime.Client, modelID string, dimensions int) *TitanEmbedder {
	if modelID == "" {
		modelID = DefaultTitanModelID
	}
	return &TitanEmbedder{
		client:     client,
		modelID:    modelID,
		dimensions: dimensions,
	}
}

func (e *TitanEmbedder) ModelID() string {
	return e.modelID
}

func (e *TitanEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	body, err := buildTitanRequest(text, e.dimensions)
	if err != nil {
		return nil, err
	}

	output, err := e.client.InvokeModel(ctx, &bedrockruntime.InvokeModelInput{
		ModelId:     aws.String(e.modelID),
		Body:        body,
		Accept:      aws.String("application/json"),
		ContentType: aws.String("application/json"),
	})
	if err != nil {
		return nil, fmt.Errorf("Unable to invoke embedding model. Error: %w", err)
	}

	return parseTitanResponse(output.Body)
}

func buildTitanRequest(text string, dimensions int) ([]byte, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, ErrEmptyText
	}

	body, err := json.Marshal(titanRequest{
		InputText:  text,
		Dimensions: dimensions,
		Normalize:  true,
	})
	if err != nil {
		return nil, fmt.Errorf("Unable to serialize embedding request. Error: %w", err)
	}
	return body, nil
}

func parseTitanResponse(body []byte) ([]float32, error) {
	var response titanResponse
	if err := json.Unmarshal(body, &response); err != nil {
		return nil, fmt.Errorf("Failed to unmarshal embedding response. Error: %w", err)
	}
	if len(response.Embedding) == 0 {
		return nil, fmt.Errorf("embedding response contains no vector")
	}
	return response.Embedding, nil
}
