package csvquery

import (
	"context"
	"database/sql"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"regexp"
	"strconv"
	"strings"
	"sync"
	"time"

	_ "modernc.org/sqlite"
)

// TableName is the name every loaded CSV is exposed under.
const TableName = "data"

const sampleRows = 3

var nonIdent = regexp.MustCompile(`[^a-z0-9_]+`)

var errTableClosed = errors.New("csv table was unloaded")

// table is one CSV file loaded into its own in-memory sqlite database.
// Queries hold the read lock so close waits for them to finish.
type table struct {
	db      *sql.DB
	columns []string
	sample  [][]string
	rows    int
	modTime time.Time

	mu     sync.RWMutex
	closed bool
}

func (t *table) close() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.closed {
		return
	}
	t.closed = true
	if t.db != nil {
		_ = t.db.Close()
	}
}

func (t *table) isClosed() bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.closed
}

// query runs q and formats the result while the table is pinned open.
func (t *table) query(ctx context.Context, q string) (string, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	if t.closed {
		return "", errTableClosed
	}

	rows, err := t.db.QueryContext(ctx, q)
	if err != nil {
		return "", fmt.Errorf("execute sql: %w", err)
	}
	defer rows.Close()

	return formatRows(rows)
}

// loadTable reads path into a fresh in-memory database. Columns are untyped
// so numeric cells keep numeric affinity and text stays text.
func loadTable(ctx context.Context, path string) (*table, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	r.TrimLeadingSpace = true

	header, err := r.Read()
	if err != nil {
		return nil, fmt.Errorf("read csv header: %w", err)
	}
	columns := ColumnNames(header)

	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		return nil, err
	}
	// One connection so the in-memory database outlives individual queries.
	db.SetMaxOpenConns(1)

	t := &table{db: db, columns: columns, modTime: info.ModTime()}
	if err := t.fill(ctx, r); err != nil {
		t.close()
		return nil, err
	}
	return t, nil
}

func (t *table) fill(ctx context.Context, r *csv.Reader) error {
	quoted := make([]string, len(t.columns))
	marks := make([]string, len(t.columns))
	for i, c := range t.columns {
		quoted[i] = `"` + c + `"`
		marks[i] = "?"
	}

	if _, err := t.db.ExecContext(ctx, fmt.Sprintf("CREATE TABLE %s (%s)", TableName, strings.Join(quoted, ", "))); err != nil {
		return fmt.Errorf("create table: %w", err)
	}

	tx, err := t.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	stmt, err := tx.PrepareContext(ctx, fmt.Sprintf("INSERT INTO %s VALUES (%s)", TableName, strings.Join(marks, ", ")))
	if err != nil {
		_ = tx.Rollback()
		return err
	}
	defer stmt.Close()

	for {
		record, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("read csv row %d: %w", t.rows+1, err)
		}

		args := make([]interface{}, len(t.columns))
		for i := range t.columns {
			if i < len(record) {
				args[i] = cellValue(record[i])
			}
		}
		if _, err := stmt.ExecContext(ctx, args...); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("insert row %d: %w", t.rows+1, err)
		}

		if len(t.sample) < sampleRows {
			t.sample = append(t.sample, record)
		}
		t.rows++
	}
	return tx.Commit()
}

// ColumnNames turns a CSV header into unique lower-case identifiers.
func ColumnNames(header []string) []string {
	out := make([]string, len(header))
	seen := map[string]int{}
	for i, h := range header {
		name := strings.Trim(nonIdent.ReplaceAllString(strings.ToLower(strings.TrimSpace(h)), "_"), "_")
		if name == "" {
			name = fmt.Sprintf("column_%d", i+1)
		}
		if n := seen[name]; n > 0 {
			seen[name] = n + 1
			name = fmt.Sprintf("%s_%d", name, n+1)
		} else {
			seen[name] = 1
		}
		out[i] = name
	}
	return out
}

// cellValue stores numbers, including "$2,500" style amounts, as numbers.
func cellValue(raw string) interface{} {
	s := strings.TrimSpace(raw)
	if s == "" {
		return nil
	}
	cleaned := strings.NewReplacer("$", "", ",", "").Replace(s)
	if i, err := strconv.ParseInt(cleaned, 10, 64); err == nil {
		return i
	}
	if f, err := strconv.ParseFloat(cleaned, 64); err == nil {
		return f
	}
	return s
}
