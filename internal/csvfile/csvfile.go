// Package csvfile reads and rewrites the comma-delimited task files the sync
// runs against. A file is a header line followed by rows; the header fixes the
// column set and order for every row.
package csvfile

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
)

// Row maps column names to cell values.
type Row map[string]string

// Get returns the trimmed value of a column, or "" when absent.
func (r Row) Get(column string) string {
	return strings.TrimSpace(r[column])
}

type Table struct {
	Header []string
	Rows   []Row
}

func (t *Table) HasColumn(name string) bool {
	for _, h := range t.Header {
		if h == name {
			return true
		}
	}
	return false
}

// EnsureColumn appends name to the header when missing.
func (t *Table) EnsureColumn(name string) {
	if !t.HasColumn(name) {
		t.Header = append(t.Header, name)
	}
}

func Read(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open csv file: %w", err)
	}
	defer f.Close()

	table, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return table, nil
}

func Parse(r io.Reader) (*Table, error) {
	reader := csv.NewReader(r)

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return &Table{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read csv header: %w", err)
	}
	header[0] = strings.TrimPrefix(header[0], "\ufeff")

	seen := make(map[string]struct{}, len(header))
	for _, h := range header {
		if _, dup := seen[h]; dup {
			return nil, fmt.Errorf("duplicate csv column %q", h)
		}
		seen[h] = struct{}{}
	}

	table := &Table{Header: header}
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read csv row: %w", err)
		}

		row := make(Row, len(header))
		for i, h := range header {
			row[h] = record[i]
		}
		table.Rows = append(table.Rows, row)
	}
	return table, nil
}

// Write encodes the table with its header order. Columns a row lacks are
// written empty.
func (t *Table) Write(w io.Writer) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(t.Header); err != nil {
		return fmt.Errorf("failed to write csv header: %w", err)
	}

	record := make([]string, len(t.Header))
	for _, row := range t.Rows {
		for i, h := range t.Header {
			record[i] = row[h]
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("failed to write csv row: %w", err)
		}
	}

	cw.Flush()
	return cw.Error()
}

// WriteFile replaces path with the encoded table. The previous file mode is
// kept when the file already exists.
func WriteFile(path string, t *Table) error {
	var sb strings.Builder
	if err := t.Write(&sb); err != nil {
		return err
	}

	perm := os.FileMode(0o644)
	if info, err := os.Stat(path); err == nil {
		perm = info.Mode().Perm()
	}

	return writeFileAtomic(path, []byte(sb.String()), perm)
}
