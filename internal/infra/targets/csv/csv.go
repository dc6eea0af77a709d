// Package csv writes a dataset to a CSV file: one header row, then one
// record per generated row. The table name is ignored; the file is the table.
package csv

import (
	"encoding/csv"
	"io"
	"os"
	"path/filepath"

	"github.com/mmrzaf/tabgen/internal/domain"
)

type CSVTarget struct {
	path   string
	f      *os.File
	w      *csv.Writer
	header []string
}

func NewCSVTarget(path string) *CSVTarget {
	return &CSVTarget{path: path}
}

func (t *CSVTarget) Connect() error {
	if dir := filepath.Dir(t.path); dir != "." {
		return os.MkdirAll(dir, 0o755)
	}
	return nil
}

func (t *CSVTarget) Close() error {
	if t.f == nil {
		return nil
	}
	t.w.Flush()
	werr := t.w.Error()
	cerr := t.f.Close()
	t.f = nil
	if werr != nil {
		return werr
	}
	return cerr
}

// CreateTableIfNotExists starts a fresh file with the header row.
func (t *CSVTarget) CreateTableIfNotExists(table string, columns []domain.ColumnDef) error {
	t.header = make([]string, len(columns))
	for i, c := range columns {
		t.header[i] = c.Name
	}
	if err := t.open(os.O_CREATE | os.O_TRUNC | os.O_WRONLY); err != nil {
		return err
	}
	return t.writeHeader()
}

func (t *CSVTarget) TruncateTable(table string) error {
	if t.f == nil {
		if err := t.open(os.O_CREATE | os.O_WRONLY); err != nil {
			return err
		}
	}
	t.w.Flush()
	if err := t.f.Truncate(0); err != nil {
		return err
	}
	if _, err := t.f.Seek(0, io.SeekStart); err != nil {
		return err
	}
	if t.header == nil {
		return nil
	}
	return t.writeHeader()
}

// InsertBatch appends records. In append mode the header is written only if
// the file is empty.
func (t *CSVTarget) InsertBatch(table string, columns []string, rows [][]interface{}) error {
	if t.f == nil {
		if err := t.open(os.O_CREATE | os.O_APPEND | os.O_WRONLY); err != nil {
			return err
		}
		info, err := t.f.Stat()
		if err != nil {
			return err
		}
		if info.Size() == 0 {
			t.header = columns
			if err := t.writeHeader(); err != nil {
				return err
			}
		}
	}

	rec := make([]string, len(columns))
	for _, row := range rows {
		for i, v := range row {
			rec[i] = domain.FormatValue(v)
		}
		if err := t.w.Write(rec); err != nil {
			return err
		}
	}
	t.w.Flush()
	return t.w.Error()
}

func (t *CSVTarget) open(flag int) error {
	f, err := os.OpenFile(t.path, flag, 0o644)
	if err != nil {
		return err
	}
	t.f = f
	t.w = csv.NewWriter(f)
	return nil
}

func (t *CSVTarget) writeHeader() error {
	if err := t.w.Write(t.header); err != nil {
		return err
	}
	t.w.Flush()
	return t.w.Error()
}
