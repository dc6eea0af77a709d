package hashing

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"

	"github.com/mmrzaf/tabgen/internal/domain"
	"github.com/mmrzaf/tabgen/internal/rule"
)

type canonicalColumn struct {
	Name string `json:"name"`
	Rule string `json:"rule"`
}

type canonicalTemplate struct {
	Name    string            `json:"name"`
	Rows    int64             `json:"rows"`
	Table   string            `json:"table,omitempty"`
	Columns []canonicalColumn `json:"columns"`
}

// HashTemplate hashes what affects generated output. Rules are re-emitted
// through the parser, so whitespace, dropped segments and overridden
// duplicate keys do not change the hash. ID and description are ignored.
func HashTemplate(tpl *domain.Template) (string, error) {
	c := canonicalTemplate{
		Name:    tpl.Name,
		Rows:    tpl.Rows,
		Table:   tpl.Table,
		Columns: make([]canonicalColumn, len(tpl.Columns)),
	}
	for i, col := range tpl.Columns {
		c.Columns[i] = canonicalColumn{Name: col.Name, Rule: rule.Parse(col.Rule).String()}
	}

	data, err := json.Marshal(c)
	if err != nil {
		return "", err
	}
	hash := sha256.Sum256(data)
	return hex.EncodeToString(hash[:]), nil
}
