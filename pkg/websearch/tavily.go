package websearch

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const DefaultTavilyURL = "https://api.tavily.com/search"

// TavilyClient queries the Tavily search API.
type TavilyClient struct {
	apiKey     string
	url        string
	maxResults int
	client     *http.Client
}

func NewTavilyClient(apiKey, url string, maxResults int) *TavilyClient {
	if url == "" {
		url = DefaultTavilyURL
	}
	if maxResults <= 0 {
		maxResults = 5
	}
	return &TavilyClient{
		apiKey:     apiKey,
		url:        url,
		maxResults: maxResults,
		client:     &http.Client{Timeout: 30 * time.Second},
	}
}

type tavilyRequest struct {
	APIKey        string `json:"api_key"`
	Query         string `json:"query"`
	MaxResults    int    `json:"max_results"`
	IncludeAnswer bool   `json:"include_answer"`
}

type tavilyResult struct {
	Title   string `json:"title"`
	URL     string `json:"url"`
	Content string `json:"content"`
}

type tavilyResponse struct {
	Answer  string         `json:"answer"`
	Results []tavilyResult `json:"results"`
}

// Search returns the summarised answer, if any, followed by one entry per hit.
func (c *TavilyClient) Search(ctx context.Context, query string) ([]string, error) {
	body, err := json.Marshal(tavilyRequest{
		APIKey:        c.apiKey,
		Query:         query,
		MaxResults:    c.maxResults,
		IncludeAnswer: true,
	})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("tavily request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return nil, fmt.Errorf("tavily error (status %d): %s", resp.StatusCode, strings.TrimSpace(string(msg)))
	}

	var parsed tavilyResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("decode tavily response: %w", err)
	}

	var out []string
	if a := strings.TrimSpace(parsed.Answer); a != "" {
		out = append(out, a)
	}
	for _, r := range parsed.Results {
		content := strings.TrimSpace(r.Content)
		if content == "" {
			continue
		}
		if r.Title != "" {
			out = append(out, fmt.Sprintf("%s (%s): %s", r.Title, r.URL, content))
		} else {
			out = append(out, content)
		}
	}
	return out, nil
}
