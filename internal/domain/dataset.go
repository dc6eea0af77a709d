package domain

import (
	"fmt"
	"strconv"
)

// ColumnResult holds the generated values of one column. Values always has
// exactly the run's row count; a failed column holds empty strings.
type ColumnResult struct {
	Name   string        `json:"name"`
	Type   string        `json:"type"`
	Values []interface{} `json:"values"`
	Failed bool          `json:"failed,omitempty"`
}

// Notice records a column that degraded to empty values.
type Notice struct {
	Column  string `json:"column"`
	Kind    string `json:"kind"`
	Message string `json:"message"`
}

type Dataset struct {
	Columns []ColumnResult `json:"columns"`
	Notices []Notice       `json:"notices,omitempty"`
	rows    int
}

func NewDataset(rows int) *Dataset {
	return &Dataset{Columns: make([]ColumnResult, 0), rows: rows}
}

func (d *Dataset) Rows() int { return d.rows }

func (d *Dataset) Add(col ColumnResult) {
	d.Columns = append(d.Columns, col)
}

func (d *Dataset) ColumnNames() []string {
	names := make([]string, len(d.Columns))
	for i, c := range d.Columns {
		names[i] = c.Name
	}
	return names
}

// Column returns the first column with the given name.
func (d *Dataset) Column(name string) (ColumnResult, bool) {
	for _, c := range d.Columns {
		if c.Name == name {
			return c, true
		}
	}
	return ColumnResult{}, false
}

func (d *Dataset) Row(i int) []interface{} {
	row := make([]interface{}, len(d.Columns))
	for j, c := range d.Columns {
		row[j] = c.Values[i]
	}
	return row
}

// AsMap returns column name -> values. Duplicate names keep the last column.
func (d *Dataset) AsMap() map[string][]interface{} {
	out := make(map[string][]interface{}, len(d.Columns))
	for _, c := range d.Columns {
		out[c.Name] = c.Values
	}
	return out
}

func EmptyValues(n int) []interface{} {
	vals := make([]interface{}, n)
	for i := range vals {
		vals[i] = ""
	}
	return vals
}

// ColumnKind is the storage class a sink uses for a column.
type ColumnKind string

const (
	KindInteger ColumnKind = "integer"
	KindFloat   ColumnKind = "float"
	KindBool    ColumnKind = "bool"
	KindText    ColumnKind = "text"
)

type ColumnDef struct {
	Name string
	Kind ColumnKind
}

// KindForType maps a rule type to its storage kind.
func KindForType(ruleType string) ColumnKind {
	switch ruleType {
	case "integer":
		return KindInteger
	case "decimal", "normal":
		return KindFloat
	case "boolean":
		return KindBool
	default:
		return KindText
	}
}

// ColumnDefs describes the dataset for sinks. Failed columns are text.
func (d *Dataset) ColumnDefs() []ColumnDef {
	defs := make([]ColumnDef, len(d.Columns))
	for i, c := range d.Columns {
		kind := KindForType(c.Type)
		if c.Failed {
			kind = KindText
		}
		defs[i] = ColumnDef{Name: c.Name, Kind: kind}
	}
	return defs
}

// FormatValue renders a generated value as text. Floats use the shortest
// representation that round-trips.
func FormatValue(v interface{}) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case bool:
		return strconv.FormatBool(x)
	case int64:
		return strconv.FormatInt(x, 10)
	case int:
		return strconv.Itoa(x)
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	default:
		return fmt.Sprint(x)
	}
}
