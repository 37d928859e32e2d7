package agent

import (
	"context"
	"strings"

	"okada-agent-be/pkg/llm"
)

type fakeLLM struct {
	chat     func(messages []llm.Message) (string, error)
	generate func(prompt string) (string, error)
	chats    [][]llm.Message
	prompts  []string
}

func (f *fakeLLM) Chat(ctx context.Context, messages []llm.Message, opts ...llm.Option) (string, error) {
	f.chats = append(f.chats, messages)
	if f.chat == nil {
		return "answer", nil
	}
	return f.chat(messages)
}

func (f *fakeLLM) Generate(ctx context.Context, prompt string, opts ...llm.Option) (string, error) {
	f.prompts = append(f.prompts, prompt)
	if f.generate == nil {
		return "", nil
	}
	return f.generate(prompt)
}

type fakeRetriever struct {
	fragments []Fragment
	err       error
	sessions  []string
}

func (f *fakeRetriever) Retrieve(ctx context.Context, sessionID, query string, k int) ([]Fragment, error) {
	f.sessions = append(f.sessions, sessionID)
	return f.fragments, f.err
}

type fakeSearcher struct {
	results []string
	err     error
	queries []string
}

func (f *fakeSearcher) Search(ctx context.Context, query string) ([]string, error) {
	f.queries = append(f.queries, query)
	return f.results, f.err
}

type fakeQuerier struct {
	result string
	err    error
}

func (f *fakeQuerier) RunStructuredQuery(ctx context.Context, filePath, question string) (string, error) {
	return f.result, f.err
}

type fakeFiles map[string]*FileInfo

func (f fakeFiles) GetSessionFileInfo(ctx context.Context, sessionID string) (*FileInfo, error) {
	return f[sessionID], nil
}

func csvAwareGenerate(intent, answer string) func(string) (string, error) {
	return func(prompt string) (string, error) {
		if strings.Contains(prompt, "analytical or semantic") {
			return intent, nil
		}
		return answer, nil
	}
}
