package ollama

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"okada-agent-be/pkg/llm"
)

const (
	DefaultBaseURL   = "http://localhost:11434"
	defaultTimeout   = 120 * time.Second
	defaultKeepAlive = 10 * time.Minute
)

// Config selects the model and how long the Ollama server keeps it loaded
// between turns.
type Config struct {
	BaseURL string
	Model   string
	// KeepAlive is sent with every request. Negative keeps the model
	// loaded indefinitely.
	KeepAlive time.Duration
	// ContextSize overrides the model's num_ctx when set.
	ContextSize int
	Timeout     time.Duration
}

// Provider talks to the /api/chat endpoint of a local Ollama server.
type Provider struct {
	cfg    Config
	client *http.Client
}

var _ llm.LLMProvider = (*Provider)(nil)

func New(cfg Config) *Provider {
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.KeepAlive == 0 {
		cfg.KeepAlive = defaultKeepAlive
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}
	return &Provider{cfg: cfg, client: &http.Client{Timeout: cfg.Timeout}}
}

func (p *Provider) BaseURL() string { return p.cfg.BaseURL }

type chatRequest struct {
	Model     string        `json:"model"`
	Messages  []chatMessage `json:"messages"`
	Stream    bool          `json:"stream"`
	KeepAlive string        `json:"keep_alive,omitempty"`
	Options   modelOptions  `json:"options"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type modelOptions struct {
	Temperature float64 `json:"temperature"`
	NumPredict  int     `json:"num_predict,omitempty"`
	NumCtx      int     `json:"num_ctx,omitempty"`
}

type chatResponse struct {
	Message    chatMessage `json:"message"`
	Done       bool        `json:"done"`
	DoneReason string      `json:"done_reason,omitempty"`
	Error      string      `json:"error,omitempty"`
}

// keepAlive renders d the way the server parses it; -1 pins the model.
func keepAlive(d time.Duration) string {
	if d < 0 {
		return "-1"
	}
	return d.String()
}

func (p *Provider) request(history []llm.Message, options *llm.Options) chatRequest {
	messages := make([]chatMessage, len(history))
	for i, msg := range history {
		role := msg.Role
		if role == "model" {
			role = llm.RoleAssistant
		}
		messages[i] = chatMessage{Role: role, Content: msg.Content}
	}

	model := p.cfg.Model
	if options.Model != "" {
		model = options.Model
	}
	return chatRequest{
		Model:     model,
		Messages:  messages,
		KeepAlive: keepAlive(p.cfg.KeepAlive),
		Options: modelOptions{
			Temperature: options.Temperature,
			NumPredict:  options.MaxTokens,
			NumCtx:      p.cfg.ContextSize,
		},
	}
}

func (p *Provider) Chat(ctx context.Context, history []llm.Message, opts ...llm.Option) (string, error) {
	body, err := json.Marshal(p.request(history, llm.Apply(0.7, opts...)))
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.cfg.BaseURL+"/api/chat", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("ollama request failed: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read response: %w", err)
	}

	var out chatResponse
	decodeErr := json.Unmarshal(raw, &out)
	if resp.StatusCode != http.StatusOK {
		msg := strings.TrimSpace(string(raw))
		if decodeErr == nil && out.Error != "" {
			msg = out.Error
		}
		return "", fmt.Errorf("ollama error: status %d: %s", resp.StatusCode, msg)
	}
	if decodeErr != nil {
		return "", fmt.Errorf("unmarshal response: %w", decodeErr)
	}
	if out.Error != "" {
		return "", fmt.Errorf("ollama error: %s", out.Error)
	}
	return out.Message.Content, nil
}

func (p *Provider) Generate(ctx context.Context, prompt string, opts ...llm.Option) (string, error) {
	return p.Chat(ctx, []llm.Message{{Role: llm.RoleUser, Content: prompt}}, opts...)
}
