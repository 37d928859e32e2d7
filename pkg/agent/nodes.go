package agent

import (
	"context"
	"fmt"
	"strings"

	"okada-agent-be/pkg/llm"
)

func (r *Router) entry(ctx context.Context, t *turn) Event {
	if t.state.UseRAG {
		t.scratch.File = r.lookupFile(ctx, t)
	}
	return Triage(t.state.UseRAG, t.state.UseWebSearch, t.scratch.File)
}

func (r *Router) lookupFile(ctx context.Context, t *turn) *FileInfo {
	sessionID := r.sessionID(ctx, t)
	if r.deps.Files == nil || sessionID == "" {
		return nil
	}
	info, err := r.deps.Files.GetSessionFileInfo(ctx, sessionID)
	if err != nil {
		r.deps.Logger.Warn(module, "file info lookup failed", map[string]interface{}{
			"session_id": sessionID,
			"error":      err.Error(),
		})
		return nil
	}
	return info
}

func (r *Router) classifyCSVIntent(ctx context.Context, t *turn) Event {
	ctx, cancel := withTimeout(ctx, r.cfg.CompletionTimeout)
	defer cancel()

	raw, err := r.deps.LLM.Generate(ctx, fmt.Sprintf(csvIntentPrompt, t.state.LastUserQuery()), llm.WithTemperature(0))
	if err != nil {
		r.deps.Logger.Warn(module, "csv intent classification failed, using semantic", map[string]interface{}{"error": err.Error()})
	}
	t.scratch.CSVIntent = ParseCSVIntent(raw)
	return CSVBranch(t.scratch.CSVIntent)
}

func (r *Router) retrieve(ctx context.Context, t *turn) Event {
	t.scratch.Context = ""

	sessionID := r.sessionID(ctx, t)
	if sessionID == "" {
		r.deps.Logger.Warn(module, "no session id, skipping retrieval", nil)
		return EventRetrieved
	}
	if r.deps.Retriever == nil {
		return EventRetrieved
	}

	ctx, cancel := withTimeout(ctx, r.cfg.RetrievalTimeout)
	defer cancel()

	fragments, err := r.deps.Retriever.Retrieve(ctx, sessionID, t.state.LastUserQuery(), r.cfg.TopK)
	if err != nil {
		r.deps.Logger.Warn(module, "retrieval failed", map[string]interface{}{
			"session_id": sessionID,
			"error":      err.Error(),
		})
		return EventRetrieved
	}

	t.scratch.Context = FormatFragments(fragments)
	r.deps.Logger.Debug(module, "retrieved fragments", map[string]interface{}{
		"session_id": sessionID,
		"count":      len(fragments),
	})
	return EventRetrieved
}

func (r *Router) routeAfterRetrieve(t *turn) Event {
	event := RouteAfterRetrieve(t.scratch.Context, t.state.UseWebSearch)
	if event != EventContextFound {
		t.appendMessage(NoticeMessage(NoContextNotice))
	}
	return event
}

func (r *Router) webSearch(ctx context.Context, t *turn) Event {
	t.scratch.Context = ""
	if r.deps.Searcher == nil {
		return EventSearched
	}

	ctx, cancel := withTimeout(ctx, r.cfg.SearchTimeout)
	defer cancel()

	query := strings.TrimSpace(t.state.LastUserQuery() + " " + r.cfg.WebSearchScope)
	results, err := r.deps.Searcher.Search(ctx, query)
	if err != nil {
		r.deps.Logger.Warn(module, "web search failed", map[string]interface{}{"error": err.Error()})
		return EventSearched
	}
	t.scratch.Context = FormatSearchResults(results)
	return EventSearched
}

func (r *Router) generateWithContext(ctx context.Context, t *turn) Event {
	ctx, cancel := withTimeout(ctx, r.cfg.CompletionTimeout)
	defer cancel()

	prompt := fmt.Sprintf(contextPrompt, t.scratch.Context, t.state.LastUserQuery())
	answer, err := r.deps.LLM.Chat(ctx, []llm.Message{
		{Role: llm.RoleSystem, Content: systemPrompt},
		{Role: llm.RoleUser, Content: prompt},
	}, llm.WithTemperature(0.3))
	t.appendMessage(AssistantMessage(r.answerOrApology(answer, err)))
	return EventAnswered
}

// generateDirect answers from the model's own knowledge. It does nothing when
// the conversation already ends with an assistant answer.
func (r *Router) generateDirect(ctx context.Context, t *turn) Event {
	if last, ok := t.state.lastConversational(); ok && last.Role == RoleAssistant {
		r.deps.Logger.Warn(module, "last message is from the assistant, skipping generation", nil)
		return EventAnswered
	}

	ctx, cancel := withTimeout(ctx, r.cfg.CompletionTimeout)
	defer cancel()

	answer, err := r.deps.LLM.Chat(ctx, r.historyPrompt(t), llm.WithTemperature(0))
	t.appendMessage(AssistantMessage(r.answerOrApology(answer, err)))
	return EventAnswered
}

func (r *Router) historyPrompt(t *turn) []llm.Message {
	var history []Message
	for _, m := range t.state.Messages {
		if !m.IsNotice() {
			history = append(history, m)
		}
	}
	if len(history) > r.cfg.HistoryWindow {
		history = history[len(history)-r.cfg.HistoryWindow:]
	}

	out := make([]llm.Message, 0, len(history)+1)
	out = append(out, llm.Message{Role: llm.RoleSystem, Content: systemPrompt})
	for _, m := range history {
		out = append(out, llm.Message{Role: string(m.Role), Content: m.Content})
	}
	return out
}

func (r *Router) queryCSV(ctx context.Context, t *turn) Event {
	file := t.scratch.File
	if file == nil {
		file = r.lookupFile(ctx, t)
	}
	if file == nil || file.FilePath == "" || r.deps.Querier == nil {
		t.appendMessage(AssistantMessage(NoCSVFileMessage))
		return EventAnswered
	}

	question := t.state.LastUserQuery()

	qctx, cancel := withTimeout(ctx, r.cfg.QueryTimeout)
	defer cancel()

	raw, err := r.deps.Querier.RunStructuredQuery(qctx, file.FilePath, question)
	if err != nil {
		r.deps.Logger.Error(module, "csv query failed", map[string]interface{}{
			"file":  file.FilePath,
			"error": err.Error(),
		})
		t.appendMessage(AssistantMessage(CSVQueryFailedMessage))
		return EventAnswered
	}

	gctx, gcancel := withTimeout(ctx, r.cfg.CompletionTimeout)
	defer gcancel()

	answer, err := r.deps.LLM.Generate(gctx, fmt.Sprintf(csvRephrasePrompt, question, raw), llm.WithTemperature(0))
	if err != nil || strings.TrimSpace(answer) == "" {
		r.deps.Logger.Error(module, "csv answer rephrasing failed", map[string]interface{}{"error": fmt.Sprint(err)})
		t.appendMessage(AssistantMessage(CSVQueryFailedMessage))
		return EventAnswered
	}
	t.appendMessage(AssistantMessage(singleSentence(answer)))
	return EventAnswered
}

func (r *Router) answerOrApology(answer string, err error) string {
	if err != nil {
		r.deps.Logger.Error(module, "generation failed", map[string]interface{}{"error": err.Error()})
		return GenerationFailedMessage
	}
	if strings.TrimSpace(answer) == "" {
		return GenerationFailedMessage
	}
	return strings.TrimSpace(answer)
}
