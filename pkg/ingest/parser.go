package ingest

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"okada-agent-be/pkg/utils"
)

const (
	ChunkSize    = 1500
	ChunkOverlap = 200
)

var ErrUnsupportedFileType = errors.New("unsupported file type")

// Document is one retrievable piece of an attached file. Row is set for CSV
// rows (0-based), Record for JSON records (1-based).
type Document struct {
	Text   string
	Source string
	Row    *int
	Record *int
}

// FileType normalises an explicit type or falls back to the extension.
func FileType(path, declared string) string {
	t := strings.ToLower(strings.TrimPrefix(strings.TrimSpace(declared), "."))
	if t == "" {
		t = strings.ToLower(strings.TrimPrefix(filepath.Ext(path), "."))
	}
	switch t {
	case "text":
		return "txt"
	case "markdown":
		return "md"
	}
	return t
}

// ParseFile splits a file into documents according to its type.
func ParseFile(path, fileType string) ([]Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	source := filepath.Base(path)
	switch FileType(path, fileType) {
	case "csv":
		return parseCSV(f, source)
	case "json":
		return parseJSON(f, source)
	case "txt", "md":
		raw, err := io.ReadAll(f)
		if err != nil {
			return nil, err
		}
		return parseText(string(raw), source), nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFileType, fileType)
	}
}

func parseCSV(r io.Reader, source string) ([]Document, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err == io.EOF {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read csv header: %w", err)
	}

	var docs []Document
	for row := 0; ; row++ {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read csv row %d: %w", row, err)
		}

		lines := make([]string, 0, len(header))
		for i, col := range header {
			value := ""
			if i < len(record) {
				value = record[i]
			}
			lines = append(lines, fmt.Sprintf("%s: %s", strings.TrimSpace(col), strings.TrimSpace(value)))
		}
		n := row
		docs = append(docs, Document{Text: strings.Join(lines, "\n"), Source: source, Row: &n})
	}
	return docs, nil
}

// parseJSON accepts a top-level array (one document per element) or a single
// object (one document).
func parseJSON(r io.Reader, source string) ([]Document, error) {
	var root interface{}
	if err := json.NewDecoder(r).Decode(&root); err != nil {
		return nil, fmt.Errorf("decode json: %w", err)
	}

	items, ok := root.([]interface{})
	if !ok {
		items = []interface{}{root}
	}

	docs := make([]Document, 0, len(items))
	for i, item := range items {
		text, err := recordText(item)
		if err != nil {
			return nil, err
		}
		n := i + 1
		docs = append(docs, Document{Text: text, Source: source, Record: &n})
	}
	return docs, nil
}

func recordText(item interface{}) (string, error) {
	if s, ok := item.(string); ok {
		return s, nil
	}
	raw, err := json.Marshal(item)
	if err != nil {
		return "", err
	}
	return string(raw), nil
}

func parseText(text, source string) []Document {
	if strings.TrimSpace(text) == "" {
		return nil
	}
	chunks := utils.SplitText(text, ChunkSize, ChunkOverlap)
	docs := make([]Document, 0, len(chunks))
	for _, c := range chunks {
		if strings.TrimSpace(c) == "" {
			continue
		}
		docs = append(docs, Document{Text: c, Source: source})
	}
	return docs
}
