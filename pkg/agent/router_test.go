package agent

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"okada-agent-be/internal/pkg/logger"
	"okada-agent-be/pkg/llm"
)

func newTestRouter(deps Dependencies) *Router {
	deps.Logger = logger.NewNopLogger()
	return NewRouter(deps, DefaultConfig())
}

func userTurn(query string) TurnState {
	return TurnState{
		Messages:  []Message{UserMessage(query)},
		SessionID: "session-1",
	}
}

func TestRouter_EmptyRetrievalFallsBackToDirect(t *testing.T) {
	model := &fakeLLM{chat: func([]llm.Message) (string, error) { return "Rent is usually listed per month.", nil }}
	router := newTestRouter(Dependencies{
		LLM:       model,
		Retriever: &fakeRetriever{},
		Files:     fakeFiles{},
	})

	state := userTurn("What is the rent for 123 Main St?")
	state.UseRAG = true

	res, err := router.Run(context.Background(), state)
	require.NoError(t, err)

	require.Len(t, res.State.Messages, 3)
	require.Len(t, res.Appended, 2)
	assert.Equal(t, NoticeMessage(NoContextNotice), res.Appended[0])
	assert.Equal(t, AssistantMessage("Rent is usually listed per month."), res.Appended[1])
	assert.Equal(t, []Node{NodeEntry, NodeRetrieve, NodeRouteAfterRetrieve, NodeGenerateDirect}, res.Path)
	assert.Equal(t, NodeGenerateDirect, res.Terminal())
}

func TestRouter_AnalyticalCSVQuery(t *testing.T) {
	model := &fakeLLM{generate: csvAwareGenerate("analytical", "The average rent is $2,500.\n\n")}
	router := newTestRouter(Dependencies{
		LLM:     model,
		Querier: &fakeQuerier{result: "avg_rent\n2500"},
		Files:   fakeFiles{"session-1": {FileType: "csv", FilePath: "/data/data.csv"}},
	})

	state := userTurn("average rent")
	state.UseRAG = true

	res, err := router.Run(context.Background(), state)
	require.NoError(t, err)

	assert.Equal(t, []Node{NodeEntry, NodeClassifyCSVIntent, NodeQueryCSV}, res.Path)
	require.Len(t, res.Appended, 1)
	assert.Equal(t, "The average rent is $2,500.", res.Appended[0].Content)
	assert.NotContains(t, res.Appended[0].Content, "\n")
	assert.NotContains(t, res.Appended[0].Content, "avg_rent")
}

func TestRouter_SemanticCSVGoesToRetrieval(t *testing.T) {
	row := 4
	retriever := &fakeRetriever{fragments: []Fragment{{Text: "Unit 4B, 2 bedrooms", Source: "data.csv", Row: &row}}}
	model := &fakeLLM{generate: csvAwareGenerate("semantic", "")}
	router := newTestRouter(Dependencies{
		LLM:       model,
		Retriever: retriever,
		Files:     fakeFiles{"session-1": {FileType: "csv", FilePath: "/data/data.csv"}},
	})

	state := userTurn("describe unit 4B")
	state.UseRAG = true

	res, err := router.Run(context.Background(), state)
	require.NoError(t, err)

	assert.Equal(t, []Node{NodeEntry, NodeClassifyCSVIntent, NodeRetrieve, NodeRouteAfterRetrieve, NodeGenerateWithContext}, res.Path)
	require.Len(t, res.Appended, 1)
	require.Len(t, model.chats, 1)
	assert.Contains(t, model.chats[0][1].Content, "Source: data.csv (Row: 4)")
}

func TestRouter_RetrievalComesBeforeWebSearch(t *testing.T) {
	tests := []struct {
		name        string
		fragments   []Fragment
		wantPath    []Node
		wantNotice  bool
		wantQueries int
	}{
		{
			name:      "context found",
			fragments: []Fragment{{Text: "lease ends in May", Source: "lease.txt"}},
			wantPath:  []Node{NodeEntry, NodeRetrieve, NodeRouteAfterRetrieve, NodeGenerateWithContext},
		},
		{
			name:        "nothing found",
			wantPath:    []Node{NodeEntry, NodeRetrieve, NodeRouteAfterRetrieve, NodeWebSearch, NodeGenerateWithContext},
			wantNotice:  true,
			wantQueries: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			searcher := &fakeSearcher{results: []string{"Midtown rents rose 3%."}}
			router := newTestRouter(Dependencies{
				LLM:       &fakeLLM{},
				Retriever: &fakeRetriever{fragments: tt.fragments},
				Searcher:  searcher,
			})

			state := userTurn("when does my lease end?")
			state.UseRAG = true
			state.UseWebSearch = true

			res, err := router.Run(context.Background(), state)
			require.NoError(t, err)

			assert.Equal(t, tt.wantPath, res.Path)
			assert.Len(t, searcher.queries, tt.wantQueries)

			answers := 0
			for _, m := range res.Appended {
				if m.Role == RoleAssistant && !m.IsNotice() {
					answers++
				}
			}
			assert.Equal(t, 1, answers)
			if tt.wantNotice {
				require.Len(t, res.Appended, 2)
				assert.True(t, res.Appended[0].IsNotice())
				assert.Equal(t, NoContextNotice, res.Appended[0].Content)
			}
		})
	}
}

func TestRouter_WebSearchOnly(t *testing.T) {
	searcher := &fakeSearcher{results: []string{"result one"}}
	model := &fakeLLM{}
	router := newTestRouter(Dependencies{LLM: model, Searcher: searcher})

	state := userTurn("office vacancy rates")
	state.UseWebSearch = true

	res, err := router.Run(context.Background(), state)
	require.NoError(t, err)

	assert.Equal(t, []Node{NodeEntry, NodeWebSearch, NodeGenerateWithContext}, res.Path)
	assert.Equal(t, []string{"office vacancy rates in New York City"}, searcher.queries)
	assert.Contains(t, model.chats[0][1].Content, "Source: From a web search.")
}

func TestRouter_GenerateDirectSkipsWhenAssistantSpokeLast(t *testing.T) {
	model := &fakeLLM{}
	router := newTestRouter(Dependencies{LLM: model})

	state := TurnState{
		Messages: []Message{
			UserMessage("hello"),
			AssistantMessage("Hi! How can I help?"),
		},
		SessionID: "session-1",
	}

	res, err := router.Run(context.Background(), state)
	require.NoError(t, err)

	assert.Empty(t, res.Appended)
	assert.Len(t, res.State.Messages, 2)
	assert.Empty(t, model.chats)
}

func TestRouter_FailuresDegradeToMessages(t *testing.T) {
	t.Run("retrieval error", func(t *testing.T) {
		router := newTestRouter(Dependencies{
			LLM:       &fakeLLM{},
			Retriever: &fakeRetriever{err: errors.New("index down")},
		})
		state := userTurn("question")
		state.UseRAG = true

		res, err := router.Run(context.Background(), state)
		require.NoError(t, err)
		require.Len(t, res.Appended, 2)
		assert.True(t, res.Appended[0].IsNotice())
		assert.Equal(t, "answer", res.Appended[1].Content)
	})

	t.Run("model error", func(t *testing.T) {
		model := &fakeLLM{chat: func([]llm.Message) (string, error) { return "", errors.New("timeout") }}
		router := newTestRouter(Dependencies{LLM: model})

		res, err := router.Run(context.Background(), userTurn("question"))
		require.NoError(t, err)
		require.Len(t, res.Appended, 1)
		assert.Equal(t, GenerationFailedMessage, res.Appended[0].Content)
	})

	t.Run("web search error", func(t *testing.T) {
		model := &fakeLLM{}
		router := newTestRouter(Dependencies{LLM: model, Searcher: &fakeSearcher{err: errors.New("quota")}})
		state := userTurn("question")
		state.UseWebSearch = true

		res, err := router.Run(context.Background(), state)
		require.NoError(t, err)
		require.Len(t, res.Appended, 1)
		assert.Equal(t, NodeGenerateWithContext, res.Terminal())
	})

	t.Run("csv query error", func(t *testing.T) {
		router := newTestRouter(Dependencies{
			LLM:     &fakeLLM{generate: csvAwareGenerate("analytical", "unused")},
			Querier: &fakeQuerier{err: errors.New("bad sql")},
			Files:   fakeFiles{"session-1": {FilePath: "/data/rents.csv"}},
		})
		state := userTurn("sum of rents")
		state.UseRAG = true

		res, err := router.Run(context.Background(), state)
		require.NoError(t, err)
		require.Len(t, res.Appended, 1)
		assert.Equal(t, CSVQueryFailedMessage, res.Appended[0].Content)
	})

	t.Run("csv classification error", func(t *testing.T) {
		model := &fakeLLM{generate: func(string) (string, error) { return "", errors.New("down") }}
		router := newTestRouter(Dependencies{
			LLM:       model,
			Retriever: &fakeRetriever{},
			Files:     fakeFiles{"session-1": {FilePath: "/data/rents.csv"}},
		})
		state := userTurn("sum of rents")
		state.UseRAG = true

		res, err := router.Run(context.Background(), state)
		require.NoError(t, err)
		assert.True(t, res.Visited(NodeRetrieve))
		assert.False(t, res.Visited(NodeQueryCSV))
	})
}

func TestRouter_RecoversSessionIDFromCorrelationID(t *testing.T) {
	retriever := &fakeRetriever{}
	router := newTestRouter(Dependencies{LLM: &fakeLLM{}, Retriever: retriever})

	state := TurnState{Messages: []Message{UserMessage("question")}, UseRAG: true}
	ctx := WithCorrelationID(context.Background(), "from-transport")

	res, err := router.Run(ctx, state)
	require.NoError(t, err)
	assert.Equal(t, []string{"from-transport"}, retriever.sessions)
	assert.Equal(t, "from-transport", res.State.SessionID)
}

func TestRouter_MissingSessionIDDegradesToEmptyContext(t *testing.T) {
	retriever := &fakeRetriever{}
	router := newTestRouter(Dependencies{LLM: &fakeLLM{}, Retriever: retriever})

	state := TurnState{Messages: []Message{UserMessage("question")}, UseRAG: true}

	res, err := router.Run(context.Background(), state)
	require.NoError(t, err)
	assert.Empty(t, retriever.sessions)
	require.Len(t, res.Appended, 2)
	assert.True(t, res.Appended[0].IsNotice())
}

func TestRouter_DoesNotMutateInput(t *testing.T) {
	router := newTestRouter(Dependencies{LLM: &fakeLLM{}})

	msgs := make([]Message, 1, 8)
	msgs[0] = UserMessage("hi")
	state := TurnState{Messages: msgs, SessionID: "s"}

	_, err := router.Run(context.Background(), state)
	require.NoError(t, err)
	assert.Len(t, state.Messages, 1)
	assert.Equal(t, Message{}, msgs[:2][1])
}
