package csvquery

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"regexp"
	"strconv"
	"strings"
	"sync"

	"okada-agent-be/internal/pkg/logger"
	"okada-agent-be/pkg/llm"

	lru "github.com/hashicorp/golang-lru/v2"
)

var ErrUnsafeQuery = errors.New("only a single read-only SELECT statement is allowed")

const maxResultRows = 20

var (
	codeFence      = regexp.MustCompile("(?s)```(?:sql|sqlite)?\\s*(.*?)```")
	forbiddenWords = regexp.MustCompile(`(?i)\b(insert|update|delete|drop|alter|create|attach|detach|pragma|replace|vacuum|reindex)\b`)
)

// Engine answers questions about CSV files by having the model write SQL
// against an in-memory copy of the file. Loaded files are kept in an LRU.
type Engine struct {
	llm    llm.LLMProvider
	logger logger.ILogger
	tables *lru.Cache[string, *table]
	mu     sync.Mutex
}

func NewEngine(provider llm.LLMProvider, log logger.ILogger, cacheSize int) (*Engine, error) {
	if cacheSize <= 0 {
		cacheSize = 16
	}
	tables, err := lru.NewWithEvict[string, *table](cacheSize, func(_ string, t *table) {
		t.close()
	})
	if err != nil {
		return nil, err
	}
	return &Engine{llm: provider, logger: log, tables: tables}, nil
}

// RunStructuredQuery returns the raw result rows, one per line with columns
// separated by " | ". The first line is the header.
func (e *Engine) RunStructuredQuery(ctx context.Context, filePath, question string) (string, error) {
	t, err := e.table(ctx, filePath)
	if err != nil {
		return "", fmt.Errorf("load csv: %w", err)
	}

	raw, err := e.llm.Generate(ctx, sqlPrompt(t, question), llm.WithTemperature(0))
	if err != nil {
		return "", fmt.Errorf("generate sql: %w", err)
	}
	query, err := ExtractQuery(raw)
	if err != nil {
		e.logger.Warn("CSVQuery", "rejected generated sql", map[string]interface{}{"sql": raw})
		return "", err
	}

	e.logger.Debug("CSVQuery", "running query", map[string]interface{}{"file": filePath, "sql": query})
	out, err := t.query(ctx, query)
	if errors.Is(err, errTableClosed) {
		// evicted or replaced while the model was writing the query
		if t, err = e.table(ctx, filePath); err != nil {
			return "", fmt.Errorf("load csv: %w", err)
		}
		out, err = t.query(ctx, query)
	}
	return out, err
}

func (e *Engine) table(ctx context.Context, path string) (*table, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	if t, ok := e.tables.Get(path); ok {
		if t.modTime.Equal(info.ModTime()) {
			return t, nil
		}
		// Remove runs the eviction callback, Add on an existing key does not.
		e.tables.Remove(path)
	}

	t, err := loadTable(ctx, path)
	if err != nil {
		return nil, err
	}
	e.tables.Add(path, t)
	e.logger.Info("CSVQuery", "csv loaded", map[string]interface{}{"file": path, "rows": t.rows, "columns": t.columns})
	return t, nil
}

// Close releases every loaded table.
func (e *Engine) Close() {
	e.tables.Purge()
}

// ExtractQuery pulls one statement out of a model reply and refuses anything
// that is not a plain read.
func ExtractQuery(raw string) (string, error) {
	q := raw
	if m := codeFence.FindStringSubmatch(raw); m != nil {
		q = m[1]
	}
	q = strings.TrimSpace(q)
	q = strings.TrimSpace(strings.TrimSuffix(q, ";"))

	if q == "" || strings.Contains(q, ";") {
		return "", ErrUnsafeQuery
	}
	fields := strings.Fields(strings.ToLower(q))
	if fields[0] != "select" && fields[0] != "with" {
		return "", ErrUnsafeQuery
	}
	if forbiddenWords.MatchString(q) {
		return "", ErrUnsafeQuery
	}
	return q, nil
}

func sqlPrompt(t *table, question string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "You write SQLite queries. The table is named %s with columns: %s.\n", TableName, strings.Join(t.columns, ", "))
	b.WriteString("Sample rows:\n")
	for _, row := range t.sample {
		b.WriteString(strings.Join(row, " | "))
		b.WriteString("\n")
	}
	fmt.Fprintf(&b, "\nWrite ONE SELECT statement that answers: %s\nReturn only the SQL.", question)
	return b.String()
}

func formatRows(rows *sql.Rows) (string, error) {
	cols, err := rows.Columns()
	if err != nil {
		return "", err
	}

	lines := []string{strings.Join(cols, " | ")}
	values := make([]interface{}, len(cols))
	ptrs := make([]interface{}, len(cols))
	for i := range values {
		ptrs[i] = &values[i]
	}

	count := 0
	for rows.Next() {
		if count == maxResultRows {
			lines = append(lines, "...")
			break
		}
		if err := rows.Scan(ptrs...); err != nil {
			return "", err
		}
		cells := make([]string, len(cols))
		for i, v := range values {
			cells[i] = formatValue(v)
		}
		lines = append(lines, strings.Join(cells, " | "))
		count++
	}
	if err := rows.Err(); err != nil {
		return "", err
	}
	if count == 0 {
		lines = append(lines, "(no rows)")
	}
	return strings.Join(lines, "\n"), nil
}

func formatValue(v interface{}) string {
	switch x := v.(type) {
	case nil:
		return "NULL"
	case int64:
		return strconv.FormatInt(x, 10)
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case []byte:
		return string(x)
	case string:
		return x
	default:
		return fmt.Sprint(x)
	}
}
