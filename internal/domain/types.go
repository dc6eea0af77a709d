package domain

import (
	"encoding/json"
	"time"
)

type Template struct {
	ID          string       `json:"id" yaml:"id"`
	Name        string       `json:"name" yaml:"name" validate:"required"`
	Description string       `json:"description,omitempty" yaml:"description,omitempty"`
	Rows        int64        `json:"rows" yaml:"rows" validate:"gte=0"`
	Seed        *int64       `json:"seed,omitempty" yaml:"seed,omitempty"`
	Table       string       `json:"table,omitempty" yaml:"table,omitempty" validate:"omitempty,sqlident"`
	Columns     []ColumnSpec `json:"columns" yaml:"columns" validate:"required,min=1,dive"`
}

// ColumnSpec is one template row: a column name and its rule string.
type ColumnSpec struct {
	Name string `json:"name" yaml:"name" validate:"required"`
	Rule string `json:"rule" yaml:"rule"`
}

// Requests converts the template columns into engine requests, in order.
func (t *Template) Requests() []ColumnRequest {
	reqs := make([]ColumnRequest, len(t.Columns))
	for i, c := range t.Columns {
		reqs[i] = ColumnRequest{Name: c.Name, Rule: c.Rule}
	}
	return reqs
}

type ColumnRequest struct {
	Name string
	Rule string
}

type TargetConfig struct {
	ID       string            `json:"id" yaml:"id"`
	Name     string            `json:"name" yaml:"name" validate:"required"`
	Kind     string            `json:"kind" yaml:"kind" validate:"required,oneof=csv jsonl sqlite postgres elasticsearch"`
	DSN      string            `json:"dsn" yaml:"dsn" validate:"required"`
	Schema   string            `json:"schema,omitempty" yaml:"schema,omitempty" validate:"omitempty,sqlident"`
	Database string            `json:"database,omitempty" yaml:"database,omitempty" validate:"omitempty,sqlident"`
	Table    string            `json:"table,omitempty" yaml:"table,omitempty" validate:"omitempty,sqlident"`
	Options  map[string]string `json:"options,omitempty" yaml:"options,omitempty"`
}

type Run struct {
	ID           string          `json:"id" yaml:"id"`
	TemplateID   string          `json:"template_id" yaml:"template_id"`
	TemplateName string          `json:"template_name" yaml:"template_name"`
	TargetID     string          `json:"target_id" yaml:"target_id"`
	TargetName   string          `json:"target_name" yaml:"target_name"`
	TargetKind   string          `json:"target_kind" yaml:"target_kind"`
	Seed         int64           `json:"seed" yaml:"seed"`
	Rows         int64           `json:"rows" yaml:"rows"`
	Mode         string          `json:"mode" yaml:"mode"`
	ConfigHash   string          `json:"config_hash" yaml:"config_hash"`
	Status       RunStatus       `json:"status" yaml:"status"`
	StartedAt    time.Time       `json:"started_at" yaml:"started_at"`
	CompletedAt  *time.Time      `json:"completed_at,omitempty" yaml:"completed_at,omitempty"`
	Stats        json.RawMessage `json:"stats,omitempty" yaml:"-"`
	Error        string          `json:"error,omitempty" yaml:"error,omitempty"`
}

type RunStatus string

const (
	RunStatusPending RunStatus = "pending"
	RunStatusRunning RunStatus = "running"
	RunStatusSuccess RunStatus = "success"
	RunStatusFailed  RunStatus = "failed"
)

type RunStats struct {
	ColumnsGenerated int              `json:"columns_generated"`
	ColumnsFailed    int              `json:"columns_failed"`
	TotalRows        int64            `json:"total_rows"`
	OutputBytes      int64            `json:"output_bytes,omitempty"`
	DurationSeconds  float64          `json:"duration_seconds"`
	ColumnStats      []ColumnRunStats `json:"column_stats"`
}

type ColumnRunStats struct {
	ColumnName      string  `json:"column_name"`
	Type            string  `json:"type"`
	Failed          bool    `json:"failed,omitempty"`
	Error           string  `json:"error,omitempty"`
	DurationSeconds float64 `json:"duration_seconds"`
}

type RunRequest struct {
	TemplateID     string        `json:"template_id,omitempty"`
	TemplatePath   string        `json:"-"`
	Template       *Template     `json:"template,omitempty"`
	TargetID       string        `json:"target_id,omitempty"`
	Target         *TargetConfig `json:"target,omitempty"`
	Seed           *int64        `json:"seed,omitempty"`
	Rows           *int64        `json:"rows,omitempty" validate:"omitempty,gte=0"`
	Mode           string        `json:"mode,omitempty"`
	TargetDatabase string        `json:"target_database,omitempty"`
}

type TargetCheck struct {
	ID           string             `json:"id"`
	TargetID     string             `json:"target_id"`
	CheckedAt    time.Time          `json:"checked_at"`
	OK           bool               `json:"ok"`
	LatencyMS    int64              `json:"latency_ms"`
	ServerVer    string             `json:"server_version,omitempty"`
	Capabilities TargetCapabilities `json:"capabilities"`
	Error        string             `json:"error,omitempty"`
}

type TargetCapabilities struct {
	CanCreate   bool `json:"can_create"`
	CanInsert   bool `json:"can_insert"`
	CanTruncate bool `json:"can_truncate"`
}

const (
	TableModeCreate   = "create"
	TableModeTruncate = "truncate"
	TableModeAppend   = "append"
)
