package app

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/mmrzaf/tabgen/internal/domain"
	"github.com/mmrzaf/tabgen/internal/exec"
	"github.com/mmrzaf/tabgen/internal/infra/repos/targets"
	"github.com/mmrzaf/tabgen/internal/validation"
)

type serverVersioner interface {
	ServerVersion() (string, error)
}

type tableDropper interface {
	DropTable(table string) error
}

// CheckTarget connects to a target and probes whether it can create, insert
// into and truncate a scratch table. File targets are probed on a sibling
// scratch file so the real output is left alone.
func CheckTarget(t *domain.TargetConfig) (*domain.TargetCheck, error) {
	check := &domain.TargetCheck{
		ID:        uuid.NewString(),
		TargetID:  t.ID,
		CheckedAt: time.Now().UTC(),
	}

	val := validation.NewValidator(nil)
	if err := val.ValidateTarget(t); err != nil {
		check.Error = err.Error()
		return check, err
	}

	effective := resolveTargetForRun(t, "")
	if targets.IsFileKind(effective.Kind) {
		scratch := filepath.Join(filepath.Dir(effective.DSN), ".tabgen_check_"+uuid.NewString()+filepath.Ext(effective.DSN))
		effective.DSN = scratch
		defer os.Remove(scratch)
	}

	start := time.Now()
	sink, err := BuildSink(effective)
	if err != nil {
		check.Error = "unsupported target kind"
		return check, err
	}
	if err := sink.Connect(); err != nil {
		check.Error = err.Error()
		check.LatencyMS = time.Since(start).Milliseconds()
		return check, err
	}
	defer sink.Close()

	check.OK = true
	check.LatencyMS = time.Since(start).Milliseconds()
	if v, ok := sink.(serverVersioner); ok {
		if ver, verErr := v.ServerVersion(); verErr == nil {
			check.ServerVer = ver
		}
	}
	check.Capabilities = probeCapabilities(sink)
	return check, nil
}

func probeCapabilities(sink exec.Sink) domain.TargetCapabilities {
	table := fmt.Sprintf("tabgen_check_%d", time.Now().UnixNano())
	cols := []domain.ColumnDef{{Name: "id", Kind: domain.KindInteger}}

	var caps domain.TargetCapabilities
	if err := sink.CreateTableIfNotExists(table, cols); err != nil {
		return caps
	}
	caps.CanCreate = true
	if d, ok := sink.(tableDropper); ok {
		defer d.DropTable(table)
	}

	if err := sink.InsertBatch(table, []string{"id"}, [][]interface{}{{int64(1)}}); err != nil {
		return caps
	}
	caps.CanInsert = true

	if err := sink.TruncateTable(table); err != nil {
		return caps
	}
	caps.CanTruncate = true
	return caps
}
