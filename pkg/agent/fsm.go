package agent

import (
	"errors"
	"fmt"
	"strings"
)

type Node string

const (
	NodeEntry               Node = "entry"
	NodeClassifyCSVIntent   Node = "classify_csv_intent"
	NodeRetrieve            Node = "retrieve"
	NodeWebSearch           Node = "web_search"
	NodeRouteAfterRetrieve  Node = "route_after_retrieve"
	NodeGenerateWithContext Node = "generate_with_context"
	NodeGenerateDirect      Node = "generate_direct"
	NodeQueryCSV            Node = "query_csv"
	NodeEnd                 Node = "end"
)

type Event string

const (
	EventCSVAttached    Event = "csv_attached"
	EventRAG            Event = "rag"
	EventWebSearch      Event = "web_search"
	EventDirect         Event = "direct"
	EventAnalytical     Event = "analytical"
	EventSemantic       Event = "semantic"
	EventRetrieved      Event = "retrieved"
	EventContextFound   Event = "context_found"
	EventFallbackWeb    Event = "fallback_web"
	EventFallbackDirect Event = "fallback_direct"
	EventSearched       Event = "searched"
	EventAnswered       Event = "answered"
)

var ErrInvalidTransition = errors.New("invalid transition")

// transitions is the complete routing table. Anything not listed here is a
// programming error.
var transitions = map[Node]map[Event]Node{
	NodeEntry: {
		EventCSVAttached: NodeClassifyCSVIntent,
		EventRAG:         NodeRetrieve,
		EventWebSearch:   NodeWebSearch,
		EventDirect:      NodeGenerateDirect,
	},
	NodeClassifyCSVIntent: {
		EventAnalytical: NodeQueryCSV,
		EventSemantic:   NodeRetrieve,
	},
	NodeRetrieve: {
		EventRetrieved: NodeRouteAfterRetrieve,
	},
	NodeRouteAfterRetrieve: {
		EventContextFound:   NodeGenerateWithContext,
		EventFallbackWeb:    NodeWebSearch,
		EventFallbackDirect: NodeGenerateDirect,
	},
	NodeWebSearch: {
		EventSearched: NodeGenerateWithContext,
	},
	NodeGenerateWithContext: {EventAnswered: NodeEnd},
	NodeGenerateDirect:      {EventAnswered: NodeEnd},
	NodeQueryCSV:            {EventAnswered: NodeEnd},
}

// Next looks up the successor of from for event.
func Next(from Node, event Event) (Node, error) {
	to, ok := transitions[from][event]
	if !ok {
		return "", fmt.Errorf("%w: %s --%s-->", ErrInvalidTransition, from, event)
	}
	return to, nil
}

// Triage decides where a turn starts. RAG always wins over web search, with
// or without an attached file.
func Triage(useRAG, useWebSearch bool, file *FileInfo) Event {
	switch {
	case useRAG && file.IsCSV():
		return EventCSVAttached
	case useRAG:
		return EventRAG
	case useWebSearch:
		return EventWebSearch
	default:
		return EventDirect
	}
}

// ParseCSVIntent maps a raw classifier reply to an intent. Only a reply that
// mentions "analytical" selects the analytical branch.
func ParseCSVIntent(raw string) CSVIntent {
	if strings.Contains(strings.ToLower(strings.TrimSpace(raw)), string(CSVAnalytical)) {
		return CSVAnalytical
	}
	return CSVSemantic
}

func CSVBranch(intent CSVIntent) Event {
	if intent == CSVAnalytical {
		return EventAnalytical
	}
	return EventSemantic
}

// RouteAfterRetrieve picks the generator for the retrieved context. Blank
// context falls back to web search when enabled, otherwise to direct
// generation.
func RouteAfterRetrieve(context string, useWebSearch bool) Event {
	switch {
	case strings.TrimSpace(context) != "":
		return EventContextFound
	case useWebSearch:
		return EventFallbackWeb
	default:
		return EventFallbackDirect
	}
}
