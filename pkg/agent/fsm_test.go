package agent

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTriage(t *testing.T) {
	csv := &FileInfo{FileType: "csv", FilePath: "/tmp/data.csv"}
	pdf := &FileInfo{FileType: "txt", FilePath: "/tmp/notes.txt"}

	tests := []struct {
		name   string
		useRAG bool
		useWeb bool
		file   *FileInfo
		want   Event
	}{
		{"rag with csv", true, false, csv, EventCSVAttached},
		{"rag with csv and web", true, true, csv, EventCSVAttached},
		{"rag with document", true, true, pdf, EventRAG},
		{"rag without file beats web", true, true, nil, EventRAG},
		{"web only", false, true, csv, EventWebSearch},
		{"nothing", false, false, nil, EventDirect},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Triage(tt.useRAG, tt.useWeb, tt.file))
		})
	}
}

func TestFileInfo_IsCSV(t *testing.T) {
	assert.True(t, (&FileInfo{FilePath: "rents.CSV"}).IsCSV())
	assert.True(t, (&FileInfo{FileType: "csv", FilePath: "upload"}).IsCSV())
	assert.False(t, (&FileInfo{FileType: "json", FilePath: "data.json"}).IsCSV())
	assert.False(t, (*FileInfo)(nil).IsCSV())
}

func TestParseCSVIntent(t *testing.T) {
	tests := []struct {
		raw  string
		want CSVIntent
	}{
		{"analytical", CSVAnalytical},
		{"  Analytical.\n", CSVAnalytical},
		{"The answer is ANALYTICAL", CSVAnalytical},
		{"semantic", CSVSemantic},
		{"", CSVSemantic},
		{"analysis", CSVSemantic},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got := ParseCSVIntent(tt.raw)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, got, ParseCSVIntent(tt.raw))
		})
	}

	assert.Equal(t, EventAnalytical, CSVBranch(CSVAnalytical))
	assert.Equal(t, EventSemantic, CSVBranch(CSVSemantic))
}

func TestRouteAfterRetrieve(t *testing.T) {
	assert.Equal(t, EventContextFound, RouteAfterRetrieve("Source: a\nContent: b", false))
	assert.Equal(t, EventFallbackWeb, RouteAfterRetrieve(" \n\t", true))
	assert.Equal(t, EventFallbackDirect, RouteAfterRetrieve("", false))
}

func TestNext(t *testing.T) {
	next, err := Next(NodeRetrieve, EventRetrieved)
	require.NoError(t, err)
	assert.Equal(t, NodeRouteAfterRetrieve, next)

	_, err = Next(NodeRetrieve, EventDirect)
	assert.ErrorIs(t, err, ErrInvalidTransition)

	_, err = Next(NodeEnd, EventAnswered)
	assert.ErrorIs(t, err, ErrInvalidTransition)
}

func TestFormatFragments(t *testing.T) {
	row, record := 3, 7
	got := FormatFragments([]Fragment{
		{Text: "rent 2500", Source: "rents.csv", Row: &row},
		{Text: "  ", Source: "skipped"},
		{Text: "lease terms", Source: "leases.json", Record: &record},
		{Text: "plain", Source: "notes.md"},
	})

	want := "Source: rents.csv (Row: 3)\nContent: rent 2500" +
		"\n\n---\n\n" +
		"Source: leases.json (Record: 7)\nContent: lease terms" +
		"\n\n---\n\n" +
		"Source: notes.md\nContent: plain"
	assert.Equal(t, want, got)
	assert.Empty(t, FormatFragments(nil))
}

func TestFormatSearchResults(t *testing.T) {
	assert.Empty(t, FormatSearchResults(nil))
	assert.Empty(t, FormatSearchResults([]string{"", "  "}))
	assert.Equal(t, "Source: From a web search.\n\none\n\ntwo", FormatSearchResults([]string{"one", " two "}))
}
