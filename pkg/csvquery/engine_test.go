package csvquery

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"okada-agent-be/internal/pkg/logger"
	"okada-agent-be/pkg/llm"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sqlLLM struct {
	reply   string
	prompts []string
}

func (s *sqlLLM) Chat(ctx context.Context, history []llm.Message, opts ...llm.Option) (string, error) {
	return s.reply, nil
}

func (s *sqlLLM) Generate(ctx context.Context, prompt string, opts ...llm.Option) (string, error) {
	s.prompts = append(s.prompts, prompt)
	return s.reply, nil
}

const listings = `Property Address,Floor,Monthly Rent
36 W 36th St,2,"$4,000"
15 W 38th St,5,"$2,500"
1 Main St,1,$800
`

func writeCSV(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "listings.csv")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestEngine_RunStructuredQuery(t *testing.T) {
	path := writeCSV(t, listings)
	fake := &sqlLLM{reply: "```sql\nSELECT COUNT(*) AS n FROM data WHERE monthly_rent < 3000;\n```"}

	engine, err := NewEngine(fake, logger.NewNopLogger(), 4)
	require.NoError(t, err)
	defer engine.Close()

	out, err := engine.RunStructuredQuery(context.Background(), path, "How many listings are under $3000?")
	require.NoError(t, err)
	assert.Equal(t, "n\n2", out)

	require.Len(t, fake.prompts, 1)
	assert.Contains(t, fake.prompts[0], "property_address, floor, monthly_rent")
	assert.Contains(t, fake.prompts[0], "How many listings are under $3000?")
}

func TestEngine_ReloadsChangedFile(t *testing.T) {
	path := writeCSV(t, listings)
	fake := &sqlLLM{reply: "SELECT COUNT(*) FROM data"}

	engine, err := NewEngine(fake, logger.NewNopLogger(), 4)
	require.NoError(t, err)
	defer engine.Close()

	out, err := engine.RunStructuredQuery(context.Background(), path, "count")
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(out, "\n3"))

	require.NoError(t, os.WriteFile(path, []byte(listings+"2 Side St,3,$900\n"), 0o644))
	later := time.Now().Add(time.Minute)
	require.NoError(t, os.Chtimes(path, later, later))

	out, err = engine.RunStructuredQuery(context.Background(), path, "count")
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(out, "\n4"))
}

func TestEngine_ReloadClosesStaleTable(t *testing.T) {
	path := writeCSV(t, listings)
	engine, err := NewEngine(&sqlLLM{reply: "SELECT COUNT(*) FROM data"}, logger.NewNopLogger(), 4)
	require.NoError(t, err)
	defer engine.Close()

	_, err = engine.RunStructuredQuery(context.Background(), path, "count")
	require.NoError(t, err)
	stale, ok := engine.tables.Peek(path)
	require.True(t, ok)

	later := time.Now().Add(time.Minute)
	require.NoError(t, os.Chtimes(path, later, later))

	_, err = engine.RunStructuredQuery(context.Background(), path, "count")
	require.NoError(t, err)

	fresh, ok := engine.tables.Peek(path)
	require.True(t, ok)
	assert.NotSame(t, stale, fresh)
	assert.True(t, stale.isClosed())
	assert.False(t, fresh.isClosed())
	assert.Equal(t, 1, engine.tables.Len())
}

func TestTable_QueryAfterClose(t *testing.T) {
	path := writeCSV(t, listings)
	tbl, err := loadTable(context.Background(), path)
	require.NoError(t, err)

	out, err := tbl.query(context.Background(), "SELECT COUNT(*) AS n FROM data")
	require.NoError(t, err)
	assert.Equal(t, "n\n3", out)

	tbl.close()
	tbl.close()

	_, err = tbl.query(context.Background(), "SELECT COUNT(*) AS n FROM data")
	assert.ErrorIs(t, err, errTableClosed)
}

func TestEngine_RequeriesEvictedTable(t *testing.T) {
	path := writeCSV(t, listings)
	engine, err := NewEngine(&sqlLLM{reply: "SELECT COUNT(*) AS n FROM data"}, logger.NewNopLogger(), 4)
	require.NoError(t, err)
	defer engine.Close()

	evicting := &evictingLLM{engine: engine, reply: "SELECT COUNT(*) AS n FROM data"}
	engine.llm = evicting

	out, err := engine.RunStructuredQuery(context.Background(), path, "count")
	require.NoError(t, err)
	assert.Equal(t, "n\n3", out)
	assert.Equal(t, 1, evicting.calls)
}

// evictingLLM drops every cached table before answering.
type evictingLLM struct {
	engine *Engine
	reply  string
	calls  int
}

func (e *evictingLLM) Chat(ctx context.Context, history []llm.Message, opts ...llm.Option) (string, error) {
	return e.reply, nil
}

func (e *evictingLLM) Generate(ctx context.Context, prompt string, opts ...llm.Option) (string, error) {
	e.calls++
	e.engine.tables.Purge()
	return e.reply, nil
}

func TestEngine_RejectsWrites(t *testing.T) {
	path := writeCSV(t, listings)
	engine, err := NewEngine(&sqlLLM{reply: "DROP TABLE data"}, logger.NewNopLogger(), 4)
	require.NoError(t, err)
	defer engine.Close()

	_, err = engine.RunStructuredQuery(context.Background(), path, "delete everything")
	assert.ErrorIs(t, err, ErrUnsafeQuery)
}

func TestEngine_MissingFile(t *testing.T) {
	engine, err := NewEngine(&sqlLLM{}, logger.NewNopLogger(), 4)
	require.NoError(t, err)

	_, err = engine.RunStructuredQuery(context.Background(), filepath.Join(t.TempDir(), "nope.csv"), "q")
	assert.Error(t, err)
}

func TestExtractQuery(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		want    string
		wantErr bool
	}{
		{name: "plain", raw: "SELECT * FROM data", want: "SELECT * FROM data"},
		{name: "fenced with semicolon", raw: "Here:\n```sql\nselect floor from data;\n```", want: "select floor from data"},
		{name: "cte", raw: "WITH t AS (SELECT 1) SELECT * FROM t", want: "WITH t AS (SELECT 1) SELECT * FROM t"},
		{name: "two statements", raw: "SELECT 1; SELECT 2", wantErr: true},
		{name: "update", raw: "UPDATE data SET floor = 1", wantErr: true},
		{name: "hidden delete", raw: "WITH x AS (DELETE FROM data) SELECT 1", wantErr: true},
		{name: "empty", raw: "  ", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ExtractQuery(tt.raw)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrUnsafeQuery)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestColumnNames(t *testing.T) {
	got := ColumnNames([]string{"Property Address", "Rent ($/SF)", "", "rent ($/sf)"})
	assert.Equal(t, []string{"property_address", "rent_sf", "column_3", "rent_sf_2"}, got)
}
