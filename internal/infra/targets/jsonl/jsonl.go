// Package jsonl writes a dataset as JSON Lines: one object per row with keys
// in column order.
package jsonl

import (
	"bufio"
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/mmrzaf/tabgen/internal/domain"
)

type JSONLTarget struct {
	path string
	f    *os.File
}

func NewJSONLTarget(path string) *JSONLTarget {
	return &JSONLTarget{path: path}
}

func (t *JSONLTarget) Connect() error {
	if dir := filepath.Dir(t.path); dir != "." {
		return os.MkdirAll(dir, 0o755)
	}
	return nil
}

func (t *JSONLTarget) Close() error {
	if t.f == nil {
		return nil
	}
	err := t.f.Close()
	t.f = nil
	return err
}

func (t *JSONLTarget) CreateTableIfNotExists(table string, columns []domain.ColumnDef) error {
	return t.open(os.O_CREATE | os.O_TRUNC | os.O_WRONLY)
}

func (t *JSONLTarget) TruncateTable(table string) error {
	if t.f == nil {
		return t.open(os.O_CREATE | os.O_TRUNC | os.O_WRONLY)
	}
	if err := t.f.Truncate(0); err != nil {
		return err
	}
	_, err := t.f.Seek(0, 0)
	return err
}

func (t *JSONLTarget) InsertBatch(table string, columns []string, rows [][]interface{}) error {
	if t.f == nil {
		if err := t.open(os.O_CREATE | os.O_APPEND | os.O_WRONLY); err != nil {
			return err
		}
	}

	keys := make([][]byte, len(columns))
	for i, c := range columns {
		k, err := json.Marshal(c)
		if err != nil {
			return err
		}
		keys[i] = k
	}

	w := bufio.NewWriter(t.f)
	var line bytes.Buffer
	for _, row := range rows {
		line.Reset()
		line.WriteByte('{')
		for i, v := range row {
			if i > 0 {
				line.WriteByte(',')
			}
			line.Write(keys[i])
			line.WriteByte(':')
			val, err := json.Marshal(v)
			if err != nil {
				return err
			}
			line.Write(val)
		}
		line.WriteString("}\n")
		if _, err := w.Write(line.Bytes()); err != nil {
			return err
		}
	}
	return w.Flush()
}

func (t *JSONLTarget) open(flag int) error {
	f, err := os.OpenFile(t.path, flag, 0o644)
	if err != nil {
		return err
	}
	t.f = f
	return nil
}
