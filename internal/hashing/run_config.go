package hashing

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"

	"github.com/mmrzaf/tabgen/internal/domain"
)

type runConfigHashPayload struct {
	TemplateHash string `json:"template_hash"`
	TargetKind   string `json:"target_kind"`
	TargetSchema string `json:"target_schema,omitempty"`
	TargetDSN    string `json:"target_dsn"`
	Mode         string `json:"mode"`
	Rows         int64  `json:"rows"`
	Seed         int64  `json:"seed"`
}

// HashRunConfig identifies a run's full input: two runs with the same hash
// produce the same non-realistic columns.
func HashRunConfig(tpl *domain.Template, target *domain.TargetConfig, mode string, rows, seed int64) (string, error) {
	th, err := HashTemplate(tpl)
	if err != nil {
		return "", err
	}

	p := runConfigHashPayload{
		TemplateHash: th,
		TargetKind:   target.Kind,
		TargetSchema: target.Schema,
		TargetDSN:    target.DSN,
		Mode:         mode,
		Rows:         rows,
		Seed:         seed,
	}
	b, err := json.Marshal(p)
	if err != nil {
		return "", err
	}

	sum := sha256.Sum256(b)
	return hex.EncodeToString(sum[:]), nil
}
