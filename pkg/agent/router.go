package agent

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"okada-agent-be/internal/pkg/logger"
	"okada-agent-be/pkg/llm"
)

const module = "AgentRouter"

var ErrStepLimit = errors.New("router step limit exceeded")

type Config struct {
	TopK              int
	WebSearchScope    string
	HistoryWindow     int
	MaxSteps          int
	RetrievalTimeout  time.Duration
	SearchTimeout     time.Duration
	CompletionTimeout time.Duration
	QueryTimeout      time.Duration
}

func DefaultConfig() Config {
	return Config{
		TopK:              10,
		WebSearchScope:    "in New York City",
		HistoryWindow:     10,
		MaxSteps:          16,
		RetrievalTimeout:  15 * time.Second,
		SearchTimeout:     20 * time.Second,
		CompletionTimeout: 60 * time.Second,
		QueryTimeout:      60 * time.Second,
	}
}

// Dependencies are the collaborators the router calls out to. Retriever,
// Searcher, Querier and Files may be nil; the matching step then degrades
// the same way it does on failure.
type Dependencies struct {
	LLM       llm.LLMProvider
	Retriever Retriever
	Searcher  WebSearcher
	Querier   StructuredQuerier
	Files     FileInfoProvider
	Logger    logger.ILogger
}

// Router runs one turn through the routing table. It holds no per-turn state
// and can serve concurrent turns.
type Router struct {
	deps   Dependencies
	cfg    Config
	tracer trace.Tracer
}

func NewRouter(deps Dependencies, cfg Config) *Router {
	def := DefaultConfig()
	if cfg.TopK <= 0 {
		cfg.TopK = def.TopK
	}
	if cfg.MaxSteps <= 0 {
		cfg.MaxSteps = def.MaxSteps
	}
	if cfg.HistoryWindow <= 0 {
		cfg.HistoryWindow = def.HistoryWindow
	}
	if deps.Logger == nil {
		deps.Logger = logger.NewNopLogger()
	}
	return &Router{
		deps:   deps,
		cfg:    cfg,
		tracer: otel.Tracer("okada-agent-be/pkg/agent"),
	}
}

type turn struct {
	state   TurnState
	scratch Scratch
	start   int
	path    []Node
}

func (t *turn) appendMessage(m Message) {
	t.state.Messages = append(t.state.Messages, m)
}

// Run executes a single turn. The only errors returned are routing table
// violations; capability failures are turned into messages.
func (r *Router) Run(ctx context.Context, state TurnState) (*TurnResult, error) {
	ctx, span := r.tracer.Start(ctx, "agent.turn", trace.WithAttributes(
		attribute.String("session_id", state.SessionID),
		attribute.Bool("use_rag", state.UseRAG),
		attribute.Bool("use_web_search", state.UseWebSearch),
	))
	defer span.End()

	t := &turn{
		state: state,
		start: len(state.Messages),
	}
	t.state.Messages = append(make([]Message, 0, len(state.Messages)+2), state.Messages...)

	node := NodeEntry
	for steps := 0; node != NodeEnd; steps++ {
		if steps >= r.cfg.MaxSteps {
			span.RecordError(ErrStepLimit)
			return nil, fmt.Errorf("%w at %s", ErrStepLimit, node)
		}
		t.path = append(t.path, node)

		event := r.step(ctx, node, t)
		next, err := Next(node, event)
		if err != nil {
			span.RecordError(err)
			return nil, err
		}
		node = next
	}

	span.SetAttributes(attribute.Int("appended", len(t.state.Messages)-t.start))
	r.deps.Logger.Debug(module, "turn completed", map[string]interface{}{
		"session_id": t.state.SessionID,
		"path":       t.path,
	})

	return &TurnResult{
		State:    t.state,
		Appended: t.state.Messages[t.start:],
		Path:     t.path,
	}, nil
}

func (r *Router) step(ctx context.Context, node Node, t *turn) Event {
	ctx, span := r.tracer.Start(ctx, "agent."+string(node))
	defer span.End()

	var event Event
	switch node {
	case NodeEntry:
		event = r.entry(ctx, t)
	case NodeClassifyCSVIntent:
		event = r.classifyCSVIntent(ctx, t)
	case NodeRetrieve:
		event = r.retrieve(ctx, t)
	case NodeRouteAfterRetrieve:
		event = r.routeAfterRetrieve(t)
	case NodeWebSearch:
		event = r.webSearch(ctx, t)
	case NodeGenerateWithContext:
		event = r.generateWithContext(ctx, t)
	case NodeGenerateDirect:
		event = r.generateDirect(ctx, t)
	case NodeQueryCSV:
		event = r.queryCSV(ctx, t)
	}
	span.SetAttributes(attribute.String("event", string(event)))
	return event
}

// sessionID returns the turn's session id, recovering it from the
// correlation id when the caller left it blank.
func (r *Router) sessionID(ctx context.Context, t *turn) string {
	if t.state.SessionID != "" {
		return t.state.SessionID
	}
	if id, ok := CorrelationIDFrom(ctx); ok {
		r.deps.Logger.Info(module, "session id recovered from correlation id", map[string]interface{}{"session_id": id})
		t.state.SessionID = id
	}
	return t.state.SessionID
}

func withTimeout(ctx context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if d <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, d)
}
