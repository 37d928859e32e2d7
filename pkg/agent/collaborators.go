package agent

import "context"

// Fragment is one retrieved piece of a session document. Row is set for CSV
// sources and Record for JSON sources.
type Fragment struct {
	Text   string
	Source string
	Row    *int
	Record *int
}

type Retriever interface {
	Retrieve(ctx context.Context, sessionID, query string, k int) ([]Fragment, error)
}

type WebSearcher interface {
	Search(ctx context.Context, query string) ([]string, error)
}

// StructuredQuerier answers a question against a tabular file and returns
// the raw result rows as text.
type StructuredQuerier interface {
	RunStructuredQuery(ctx context.Context, filePath, question string) (string, error)
}

// FileInfoProvider returns nil, nil when the session has no attached file.
type FileInfoProvider interface {
	GetSessionFileInfo(ctx context.Context, sessionID string) (*FileInfo, error)
}
