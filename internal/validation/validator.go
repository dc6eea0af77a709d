package validation

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/mmrzaf/tabgen/internal/domain"
	"github.com/mmrzaf/tabgen/internal/registry"
	"github.com/mmrzaf/tabgen/internal/rule"
)

type Validator struct {
	genRegistry *registry.GeneratorRegistry
	validate    *validator.Validate
}

// NewValidator builds a validator. genRegistry may be nil, in which case
// Lint does not report unknown types.
func NewValidator(genRegistry *registry.GeneratorRegistry) *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())
	_ = v.RegisterValidation("sqlident", func(fl validator.FieldLevel) bool {
		return IsValidIdentifier(fl.Field().String())
	})
	return &Validator{genRegistry: genRegistry, validate: v}
}

// identifier validation: allow simple SQL identifiers only (prevents injection via table/schema names).
var (
	identRe       = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)
	reservedWords = map[string]struct{}{
		"add": {}, "all": {}, "alter": {}, "and": {}, "any": {}, "as": {},
		"asc": {}, "between": {}, "by": {}, "case": {}, "check": {},
		"column": {}, "constraint": {}, "create": {}, "cross": {}, "current_date": {},
		"current_time": {}, "current_timestamp": {}, "database": {}, "default": {}, "delete": {},
		"desc": {}, "distinct": {}, "do": {}, "drop": {}, "else": {},
		"end": {}, "except": {}, "exists": {}, "false": {}, "for": {},
		"foreign": {}, "from": {}, "full": {}, "grant": {}, "group": {},
		"having": {}, "in": {}, "index": {}, "inner": {}, "insert": {},
		"intersect": {}, "into": {}, "is": {}, "join": {}, "key": {},
		"left": {}, "like": {}, "limit": {}, "natural": {}, "not": {},
		"null": {}, "offset": {}, "on": {}, "or": {}, "order": {},
		"outer": {}, "primary": {}, "references": {}, "returning": {}, "revoke": {},
		"right": {}, "schema": {}, "select": {}, "set": {}, "table": {},
		"then": {}, "to": {}, "true": {}, "truncate": {}, "union": {},
		"unique": {}, "update": {}, "user": {}, "using": {}, "values": {},
		"view": {}, "when": {}, "where": {}, "with": {},
	}
	nonIdentRe = regexp.MustCompile(`[^A-Za-z0-9_]+`)
)

func IsValidIdentifier(s string) bool {
	s = strings.TrimSpace(s)
	if s == "" {
		return false
	}
	if !identRe.MatchString(s) {
		return false
	}
	if _, ok := reservedWords[strings.ToLower(s)]; ok {
		return false
	}
	return true
}

// SanitizeIdentifier turns free text (a file name, a template name) into a
// valid identifier: runs of other characters become '_', a leading digit or a
// reserved word gets a 't_' prefix.
func SanitizeIdentifier(s string) string {
	s = strings.Trim(nonIdentRe.ReplaceAllString(strings.TrimSpace(s), "_"), "_")
	s = strings.ToLower(s)
	if s == "" {
		return "data"
	}
	if !IsValidIdentifier(s) {
		s = "t_" + s
	}
	return s
}

func IsValidMode(mode string) bool {
	switch mode {
	case domain.TableModeCreate, domain.TableModeTruncate, domain.TableModeAppend:
		return true
	default:
		return false
	}
}

func (v *Validator) ValidateTemplate(tpl *domain.Template) error {
	if tpl == nil {
		return errors.New("template is required")
	}
	if err := v.validate.Struct(tpl); err != nil {
		return describe("template", err)
	}

	seen := make(map[string]bool, len(tpl.Columns))
	for _, col := range tpl.Columns {
		if seen[col.Name] {
			return fmt.Errorf("duplicate column name: %s", col.Name)
		}
		seen[col.Name] = true
	}
	return nil
}

// Lint reports the columns that would degrade to empty values at generation
// time. It never fails a template; the engine tolerates every issue it finds.
func (v *Validator) Lint(tpl *domain.Template) []domain.Notice {
	var notices []domain.Notice
	for _, col := range tpl.Columns {
		p := rule.Parse(col.Rule)
		if err := rule.Check(p); err != nil {
			notices = append(notices, domain.Notice{Column: col.Name, Kind: domain.ErrorKind(err), Message: err.Error()})
			continue
		}
		if v.genRegistry != nil && !v.genRegistry.Has(p.Type()) {
			notices = append(notices, domain.Notice{
				Column:  col.Name,
				Kind:    domain.ErrorKind(domain.ErrUnknownType),
				Message: fmt.Sprintf("%s: %s", domain.ErrUnknownType, p.Type()),
			})
		}
	}
	return notices
}

func (v *Validator) ValidateTarget(t *domain.TargetConfig) error {
	if t == nil {
		return errors.New("target is required")
	}
	if err := v.validate.Struct(t); err != nil {
		return describe("target", err)
	}

	switch t.Kind {
	case "postgres":
	case "elasticsearch", "csv", "jsonl", "sqlite":
		if t.Schema != "" {
			return fmt.Errorf("%s targets must not set schema", t.Kind)
		}
		if t.Database != "" {
			return fmt.Errorf("%s targets must not set database", t.Kind)
		}
	}
	return nil
}

func (v *Validator) ValidateRunRequest(req *domain.RunRequest) error {
	sources := 0
	for _, set := range []bool{req.TemplateID != "", req.TemplatePath != "", req.Template != nil} {
		if set {
			sources++
		}
	}
	if sources == 0 {
		return errors.New("either template_id or template must be provided")
	}
	if sources > 1 {
		return errors.New("only one of template_id or template must be provided")
	}

	hasTargetID := req.TargetID != ""
	hasTarget := req.Target != nil
	if !hasTargetID && !hasTarget {
		return errors.New("either target_id or target must be provided")
	}
	if hasTargetID && hasTarget {
		return errors.New("only one of target_id or target must be provided")
	}

	if req.Mode != "" && !IsValidMode(req.Mode) {
		return fmt.Errorf("invalid mode: %s", req.Mode)
	}
	if req.TargetDatabase != "" && !IsValidIdentifier(req.TargetDatabase) {
		return fmt.Errorf("invalid target_database identifier: %s", req.TargetDatabase)
	}
	if req.Rows != nil && *req.Rows < 0 {
		return fmt.Errorf("rows must be >= 0, got %d", *req.Rows)
	}

	if req.Template != nil {
		if err := v.ValidateTemplate(req.Template); err != nil {
			return fmt.Errorf("template validation failed: %w", err)
		}
	}
	if req.Target != nil {
		if err := v.ValidateTarget(req.Target); err != nil {
			return fmt.Errorf("target validation failed: %w", err)
		}
	}
	return nil
}

func describe(what string, err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		ns := fe.Namespace()
		if i := strings.IndexByte(ns, '.'); i >= 0 {
			ns = ns[i+1:]
		}
		switch fe.Tag() {
		case "required":
			msgs = append(msgs, fmt.Sprintf("%s is required", ns))
		case "sqlident":
			msgs = append(msgs, fmt.Sprintf("%s is not a valid identifier: %v", ns, fe.Value()))
		case "oneof":
			msgs = append(msgs, fmt.Sprintf("%s must be one of [%s], got %v", ns, fe.Param(), fe.Value()))
		default:
			msgs = append(msgs, fmt.Sprintf("%s failed %s=%s", ns, fe.Tag(), fe.Param()))
		}
	}
	return fmt.Errorf("invalid %s: %s", what, strings.Join(msgs, "; "))
}
