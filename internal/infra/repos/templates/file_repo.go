package templates

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/mmrzaf/tabgen/internal/domain"
	"gopkg.in/yaml.v3"
)

type Repository interface {
	List() ([]*domain.Template, error)
	Get(id string) (*domain.Template, error)
	GetByPath(path string) (*domain.Template, error)
}

type FileRepository struct {
	baseDir string
}

func NewFileRepository(baseDir string) *FileRepository {
	return &FileRepository{baseDir: baseDir}
}

func isTemplateFile(name string) bool {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".yaml", ".yml", ".json", ".csv":
		return true
	}
	return false
}

// List loads every template in the base directory. Files that fail to parse
// are skipped.
func (r *FileRepository) List() ([]*domain.Template, error) {
	if _, err := os.Stat(r.baseDir); os.IsNotExist(err) {
		return []*domain.Template{}, nil
	}

	entries, err := os.ReadDir(r.baseDir)
	if err != nil {
		return nil, err
	}

	templates := make([]*domain.Template, 0)
	for _, entry := range entries {
		if entry.IsDir() || !isTemplateFile(entry.Name()) {
			continue
		}

		tpl, err := Load(filepath.Join(r.baseDir, entry.Name()))
		if err != nil {
			continue
		}
		templates = append(templates, tpl)
	}

	return templates, nil
}

func (r *FileRepository) Get(id string) (*domain.Template, error) {
	templates, err := r.List()
	if err != nil {
		return nil, err
	}

	for _, t := range templates {
		if t.ID == id || t.Name == id {
			return t, nil
		}
	}

	return nil, fmt.Errorf("template not found: %s", id)
}

// GetByPath loads a template file that must live under the base directory.
func (r *FileRepository) GetByPath(path string) (*domain.Template, error) {
	resolved, err := r.resolveInBase(path)
	if err != nil {
		return nil, err
	}
	return Load(resolved)
}

func (r *FileRepository) resolveInBase(path string) (string, error) {
	base, err := filepath.Abs(r.baseDir)
	if err != nil {
		return "", err
	}

	candidate := path
	if !filepath.IsAbs(candidate) {
		candidate = filepath.Join(base, candidate)
	}
	candidate, err = filepath.Abs(candidate)
	if err != nil {
		return "", err
	}

	rel, err := filepath.Rel(base, candidate)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("template path escapes %s: %s", r.baseDir, path)
	}
	return candidate, nil
}

// Load reads a template from any path. The format follows the extension:
// .json, .csv, anything else is YAML.
func Load(path string) (*domain.Template, error) {
	var (
		tpl *domain.Template
		err error
	)

	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		var f *os.File
		f, err = os.Open(path)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		tpl, err = ParseCSV(f)
	case ".json":
		var data []byte
		data, err = os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		tpl = &domain.Template{}
		err = json.Unmarshal(data, tpl)
	default:
		var data []byte
		data, err = os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		tpl = &domain.Template{}
		err = yaml.Unmarshal(data, tpl)
	}
	if err != nil {
		return nil, fmt.Errorf("error loading template %s: %w", path, err)
	}

	base := filepath.Base(path)
	stem := strings.TrimSuffix(base, filepath.Ext(base))
	if tpl.ID == "" {
		tpl.ID = stem
	}
	if tpl.Name == "" {
		tpl.Name = stem
	}

	return tpl, nil
}
