package anthropic

import (
	"context"
	"fmt"
	"strings"

	"okada-agent-be/pkg/llm"

	sdk "github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

const (
	defaultModel     = "claude-3-5-haiku-latest"
	defaultMaxTokens = 1024
)

type AnthropicProvider struct {
	client    *sdk.Client
	ModelName string
}

var _ llm.LLMProvider = &AnthropicProvider{}

func NewAnthropicProvider(apiKey, baseURL, modelName string) (*AnthropicProvider, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("anthropic: api key is required")
	}
	if modelName == "" {
		modelName = defaultModel
	}

	opts := []option.RequestOption{option.WithAPIKey(apiKey)}
	if baseURL != "" {
		opts = append(opts, option.WithBaseURL(baseURL))
	}

	client := sdk.NewClient(opts...)
	return &AnthropicProvider{client: &client, ModelName: modelName}, nil
}

func (p *AnthropicProvider) Chat(ctx context.Context, history []llm.Message, opts ...llm.Option) (string, error) {
	options := llm.Apply(0.7, opts...)

	model := p.ModelName
	if options.Model != "" {
		model = options.Model
	}
	maxTokens := options.MaxTokens
	if maxTokens <= 0 {
		maxTokens = defaultMaxTokens
	}

	system, turns := llm.SplitSystem(history)

	params := sdk.MessageNewParams{
		Model:       sdk.Model(model),
		MaxTokens:   int64(maxTokens),
		Messages:    convertMessages(turns),
		Temperature: sdk.Float(options.Temperature),
	}
	if system != "" {
		params.System = []sdk.TextBlockParam{{Text: system}}
	}

	msg, err := p.client.Messages.New(ctx, params)
	if err != nil {
		return "", fmt.Errorf("anthropic chat: %w", err)
	}

	var sb strings.Builder
	for _, block := range msg.Content {
		if b, ok := block.AsAny().(sdk.TextBlock); ok {
			sb.WriteString(b.Text)
		}
	}
	return sb.String(), nil
}

func (p *AnthropicProvider) Generate(ctx context.Context, prompt string, opts ...llm.Option) (string, error) {
	return p.Chat(ctx, []llm.Message{{Role: llm.RoleUser, Content: prompt}}, opts...)
}

func convertMessages(turns []llm.Message) []sdk.MessageParam {
	out := make([]sdk.MessageParam, 0, len(turns))
	for _, m := range turns {
		if m.Role == llm.RoleAssistant || m.Role == "model" {
			out = append(out, sdk.NewAssistantMessage(sdk.NewTextBlock(m.Content)))
			continue
		}
		out = append(out, sdk.NewUserMessage(sdk.NewTextBlock(m.Content)))
	}
	return out
}
