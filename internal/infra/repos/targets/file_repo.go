package targets

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/mmrzaf/tabgen/internal/domain"
	"gopkg.in/yaml.v3"
)

type Repository interface {
	List() ([]*domain.TargetConfig, error)
	Get(id string) (*domain.TargetConfig, error)
}

// FileRepository reads one target config per YAML or JSON file. ${VAR}
// references in the DSN are expanded from the environment at load time so
// credentials can stay out of the files.
type FileRepository struct {
	baseDir string
}

func NewFileRepository(baseDir string) *FileRepository {
	return &FileRepository{baseDir: baseDir}
}

func (r *FileRepository) List() ([]*domain.TargetConfig, error) {
	if _, err := os.Stat(r.baseDir); os.IsNotExist(err) {
		return []*domain.TargetConfig{}, nil
	}

	entries, err := os.ReadDir(r.baseDir)
	if err != nil {
		return nil, err
	}

	targets := make([]*domain.TargetConfig, 0)
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}

		switch strings.ToLower(filepath.Ext(entry.Name())) {
		case ".yaml", ".yml", ".json":
		default:
			continue
		}

		target, err := Load(filepath.Join(r.baseDir, entry.Name()))
		if err != nil {
			continue
		}
		targets = append(targets, target)
	}

	sort.Slice(targets, func(i, j int) bool { return targets[i].ID < targets[j].ID })
	return targets, nil
}

func (r *FileRepository) Get(id string) (*domain.TargetConfig, error) {
	targets, err := r.List()
	if err != nil {
		return nil, err
	}

	for _, t := range targets {
		if t.ID == id || t.Name == id {
			return t, nil
		}
	}

	return nil, fmt.Errorf("target not found: %s", id)
}

func Load(path string) (*domain.TargetConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var target domain.TargetConfig
	if strings.EqualFold(filepath.Ext(path), ".json") {
		err = json.Unmarshal(data, &target)
	} else {
		err = yaml.Unmarshal(data, &target)
	}
	if err != nil {
		return nil, fmt.Errorf("error loading target %s: %w", path, err)
	}

	base := filepath.Base(path)
	stem := strings.TrimSuffix(base, filepath.Ext(base))
	if target.ID == "" {
		target.ID = stem
	}
	if target.Name == "" {
		target.Name = stem
	}
	target.Kind = strings.ToLower(strings.TrimSpace(target.Kind))
	target.DSN = os.ExpandEnv(target.DSN)

	return &target, nil
}
