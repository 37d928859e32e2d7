package embedding

import (
	"context"
	"fmt"

	oai "github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

type OpenAIProvider struct {
	client *oai.Client
	Model  string
}

func NewOpenAIProvider(apiKey, baseURL, model string) (EmbeddingProvider, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("openai embedding: api key is required")
	}
	if model == "" {
		model = "text-embedding-3-small"
	}
	opts := []option.RequestOption{option.WithAPIKey(apiKey)}
	if baseURL != "" {
		opts = append(opts, option.WithBaseURL(baseURL))
	}
	client := oai.NewClient(opts...)
	return &OpenAIProvider{client: &client, Model: model}, nil
}

func (p *OpenAIProvider) Generate(ctx context.Context, text string, taskType string) (*EmbeddingResponse, error) {
	resp, err := p.client.Embeddings.New(ctx, oai.EmbeddingNewParams{
		Input:      oai.EmbeddingNewParamsInputUnion{OfString: oai.String(text)},
		Model:      oai.EmbeddingModel(p.Model),
		Dimensions: oai.Int(Dimensions),
	})
	if err != nil {
		return nil, fmt.Errorf("openai embedding: %w", err)
	}
	if len(resp.Data) == 0 {
		return nil, fmt.Errorf("openai embedding: empty response")
	}

	raw := resp.Data[0].Embedding
	values := make([]float32, len(raw))
	for i, v := range raw {
		values[i] = float32(v)
	}
	return newResponse(values), nil
}
