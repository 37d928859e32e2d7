package agent

import (
	"fmt"
	"strings"
)

const (
	fragmentSeparator = "\n\n---\n\n"
	webSearchHeader   = "Source: From a web search.\n\n"
)

// FormatFragments renders fragments with their provenance so the generator
// can cite them.
func FormatFragments(fragments []Fragment) string {
	parts := make([]string, 0, len(fragments))
	for _, f := range fragments {
		if strings.TrimSpace(f.Text) == "" {
			continue
		}
		label := f.Source
		if label == "" {
			label = "unknown"
		}
		switch {
		case f.Row != nil:
			label = fmt.Sprintf("%s (Row: %d)", label, *f.Row)
		case f.Record != nil:
			label = fmt.Sprintf("%s (Record: %d)", label, *f.Record)
		}
		parts = append(parts, fmt.Sprintf("Source: %s\nContent: %s", label, f.Text))
	}
	return strings.Join(parts, fragmentSeparator)
}

// FormatSearchResults joins web results into one context block. No results
// means no context.
func FormatSearchResults(results []string) string {
	kept := make([]string, 0, len(results))
	for _, r := range results {
		if r = strings.TrimSpace(r); r != "" {
			kept = append(kept, r)
		}
	}
	if len(kept) == 0 {
		return ""
	}
	return webSearchHeader + strings.Join(kept, "\n\n")
}

// singleSentence flattens a model reply onto one line.
func singleSentence(s string) string {
	s = strings.Join(strings.Fields(s), " ")
	return strings.Trim(s, `"`)
}
