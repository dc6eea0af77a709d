package templates

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/mmrzaf/tabgen/internal/domain"
)

const (
	headerColumnName = "Column Name"
	headerRule       = "Rule"
)

// ParseCSV reads the spreadsheet layout:
//
//	Column Name,Rule
//	<anything>,<row count>
//	<column>,<rule>
//	...
//
// A row count that is not a non-negative integer fails the whole template.
func ParseCSV(r io.Reader) (*domain.Template, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, errors.New("empty template")
		}
		return nil, err
	}

	nameIdx, ruleIdx := -1, -1
	for i, h := range header {
		switch strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")) {
		case headerColumnName:
			nameIdx = i
		case headerRule:
			ruleIdx = i
		}
	}
	if nameIdx < 0 || ruleIdx < 0 {
		return nil, fmt.Errorf("template header must contain %q and %q", headerColumnName, headerRule)
	}

	first, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, errors.New("template has no row count")
		}
		return nil, err
	}
	if len(first) < 2 {
		return nil, errors.New("template has no row count")
	}
	rows, err := parseRowCount(first[1])
	if err != nil {
		return nil, err
	}

	tpl := &domain.Template{Rows: rows}
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}
		name := strings.TrimSpace(cell(rec, nameIdx))
		if name == "" {
			continue
		}
		tpl.Columns = append(tpl.Columns, domain.ColumnSpec{Name: name, Rule: cell(rec, ruleIdx)})
	}

	return tpl, nil
}

func cell(rec []string, i int) string {
	if i < len(rec) {
		return rec[i]
	}
	return ""
}

// parseRowCount accepts integers and integral floats ("500.0"), which is what
// spreadsheet exports produce.
func parseRowCount(s string) (int64, error) {
	s = strings.TrimSpace(s)
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		if n < 0 {
			return 0, fmt.Errorf("row count must not be negative: %d", n)
		}
		return n, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || f != float64(int64(f)) {
		return 0, fmt.Errorf("invalid row count %q", s)
	}
	if f < 0 {
		return 0, fmt.Errorf("row count must not be negative: %s", s)
	}
	return int64(f), nil
}

// WriteCSV writes tpl in the layout ParseCSV reads.
func WriteCSV(w io.Writer, tpl *domain.Template) error {
	cw := csv.NewWriter(w)
	records := [][]string{
		{headerColumnName, headerRule},
		{"rows", strconv.FormatInt(tpl.Rows, 10)},
	}
	for _, c := range tpl.Columns {
		records = append(records, []string{c.Name, c.Rule})
	}
	return cw.WriteAll(records)
}
