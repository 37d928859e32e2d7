package ingest

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestParseFile_CSV(t *testing.T) {
	path := writeFile(t, "listings.csv", "Address,Monthly Rent\n36 W 36th St,\"$4,000\"\n15 W 38th St,$2500\n")

	docs, err := ParseFile(path, "")

	require.NoError(t, err)
	require.Len(t, docs, 2)
	assert.Equal(t, "Address: 36 W 36th St\nMonthly Rent: $4,000", docs[0].Text)
	assert.Equal(t, "listings.csv", docs[0].Source)
	require.NotNil(t, docs[1].Row)
	assert.Equal(t, 1, *docs[1].Row)
	assert.Nil(t, docs[1].Record)
}

func TestParseFile_JSON(t *testing.T) {
	tests := []struct {
		name      string
		body      string
		wantTexts []string
	}{
		{name: "array", body: `[{"a":1},"plain"]`, wantTexts: []string{`{"a":1}`, "plain"}},
		{name: "object", body: `{"tenant":"Acme"}`, wantTexts: []string{`{"tenant":"Acme"}`}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			docs, err := ParseFile(writeFile(t, "data.json", tt.body), "json")
			require.NoError(t, err)
			require.Len(t, docs, len(tt.wantTexts))
			for i, d := range docs {
				assert.Equal(t, tt.wantTexts[i], d.Text)
				require.NotNil(t, d.Record)
				assert.Equal(t, i+1, *d.Record)
			}
		})
	}
}

func TestParseFile_Text(t *testing.T) {
	body := strings.Repeat("lease terms apply. ", 200)
	docs, err := ParseFile(writeFile(t, "lease.md", body), "")

	require.NoError(t, err)
	assert.Greater(t, len(docs), 1)
	for _, d := range docs {
		assert.Nil(t, d.Row)
		assert.Nil(t, d.Record)
		assert.Equal(t, "lease.md", d.Source)
	}
}

func TestParseFile_Errors(t *testing.T) {
	_, err := ParseFile(writeFile(t, "scan.pdf", "%PDF"), "")
	assert.ErrorIs(t, err, ErrUnsupportedFileType)

	_, err = ParseFile(filepath.Join(t.TempDir(), "missing.txt"), "")
	assert.Error(t, err)

	_, err = ParseFile(writeFile(t, "bad.json", "{"), "")
	assert.Error(t, err)
}

func TestFileType(t *testing.T) {
	assert.Equal(t, "csv", FileType("/tmp/a.CSV", ""))
	assert.Equal(t, "txt", FileType("/tmp/a", "text"))
	assert.Equal(t, "json", FileType("/tmp/a.txt", ".json"))
}
