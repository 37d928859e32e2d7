package openai

import (
	"context"
	"fmt"

	"okada-agent-be/pkg/llm"

	oai "github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/openai/openai-go/responses"
	"github.com/openai/openai-go/shared"
)

const defaultModel = "gpt-4o-mini"

// OpenAIProvider talks to the Responses API. BaseURL can point at any
// compatible gateway.
type OpenAIProvider struct {
	client    *oai.Client
	ModelName string
}

var _ llm.LLMProvider = &OpenAIProvider{}

func NewOpenAIProvider(apiKey, baseURL, modelName string) (*OpenAIProvider, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("openai: api key is required")
	}
	if modelName == "" {
		modelName = defaultModel
	}

	opts := []option.RequestOption{option.WithAPIKey(apiKey)}
	if baseURL != "" {
		opts = append(opts, option.WithBaseURL(baseURL))
	}

	client := oai.NewClient(opts...)
	return &OpenAIProvider{client: &client, ModelName: modelName}, nil
}

func (p *OpenAIProvider) Chat(ctx context.Context, history []llm.Message, opts ...llm.Option) (string, error) {
	options := llm.Apply(0.7, opts...)

	model := p.ModelName
	if options.Model != "" {
		model = options.Model
	}

	params := responses.ResponseNewParams{
		Model: shared.ResponsesModel(model),
		Input: responses.ResponseNewParamsInputUnion{
			OfInputItemList: convertMessages(history),
		},
		Temperature: oai.Float(options.Temperature),
	}
	if options.MaxTokens > 0 {
		params.MaxOutputTokens = oai.Int(int64(options.MaxTokens))
	}

	result, err := p.client.Responses.New(ctx, params)
	if err != nil {
		return "", fmt.Errorf("openai chat: %w", err)
	}
	return result.OutputText(), nil
}

func (p *OpenAIProvider) Generate(ctx context.Context, prompt string, opts ...llm.Option) (string, error) {
	return p.Chat(ctx, []llm.Message{{Role: llm.RoleUser, Content: prompt}}, opts...)
}

func convertMessages(history []llm.Message) responses.ResponseInputParam {
	items := make(responses.ResponseInputParam, 0, len(history))
	for _, m := range history {
		role := responses.EasyInputMessageRoleUser
		switch m.Role {
		case llm.RoleSystem:
			role = responses.EasyInputMessageRoleSystem
		case llm.RoleAssistant, "model":
			role = responses.EasyInputMessageRoleAssistant
		}
		items = append(items, responses.ResponseInputItemParamOfMessage(m.Content, role))
	}
	return items
}
