package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/mmrzaf/tabgen/internal/app"
	"github.com/mmrzaf/tabgen/internal/domain"
	"github.com/mmrzaf/tabgen/internal/infra/repos/targets"
	"github.com/mmrzaf/tabgen/internal/infra/repos/templates"
	"github.com/mmrzaf/tabgen/internal/registry"
	"github.com/mmrzaf/tabgen/internal/rule"
)

// MaxGenerateRows bounds in-memory generation requests.
const MaxGenerateRows = 10000

type Handler struct {
	templateRepo templates.Repository
	targetRepo   targets.Repository
	genRegistry  *registry.GeneratorRegistry
	runService   *app.RunService
}

func NewHandler(templateRepo templates.Repository, targetRepo targets.Repository, genRegistry *registry.GeneratorRegistry, runService *app.RunService) *Handler {
	return &Handler{
		templateRepo: templateRepo,
		targetRepo:   targetRepo,
		genRegistry:  genRegistry,
		runService:   runService,
	}
}

// Routes registers every endpoint on mux.
func (h *Handler) Routes(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/v1/types", h.ListTypes)
	mux.HandleFunc("POST /api/v1/rules/parse", h.ParseRule)
	mux.HandleFunc("POST /api/v1/generate", h.Generate)

	mux.HandleFunc("GET /api/v1/templates", h.ListTemplates)
	mux.HandleFunc("GET /api/v1/templates/{id}", h.GetTemplate)

	mux.HandleFunc("GET /api/v1/targets", h.ListTargets)
	mux.HandleFunc("GET /api/v1/targets/{id}", h.GetTarget)
	mux.HandleFunc("POST /api/v1/targets/{id}/test", h.TestTarget)
	mux.HandleFunc("GET /api/v1/targets/{id}/checks", h.ListTargetChecks)

	mux.HandleFunc("POST /api/v1/runs", h.CreateRun)
	mux.HandleFunc("GET /api/v1/runs", h.ListRuns)
	mux.HandleFunc("GET /api/v1/runs/{id}", h.GetRun)
}

type typeInfo struct {
	Name     string   `json:"name"`
	Requires []string `json:"requires,omitempty"`
}

func (h *Handler) ListTypes(w http.ResponseWriter, r *http.Request) {
	reqs := rule.Requirements()
	names := h.genRegistry.List()
	out := make([]typeInfo, 0, len(names))
	for _, n := range names {
		out = append(out, typeInfo{Name: n, Requires: reqs[n]})
	}
	writeJSON(w, out)
}

type parseRuleRequest struct {
	Rule string `json:"rule"`
}

type parseRuleResponse struct {
	Params    map[string]string `json:"params"`
	Canonical string            `json:"canonical"`
	Valid     bool              `json:"valid"`
	Known     bool              `json:"known"`
	Message   string            `json:"message,omitempty"`
}

func (h *Handler) ParseRule(w http.ResponseWriter, r *http.Request) {
	var req parseRuleRequest
	if err := decodeJSONStrict(r, &req); err != nil {
		http.Error(w, "invalid json", http.StatusBadRequest)
		return
	}
	p := rule.Parse(req.Rule)
	valid, msg := rule.Validate(p)
	writeJSON(w, parseRuleResponse{
		Params:    p.Map(),
		Canonical: p.String(),
		Valid:     valid,
		Known:     h.genRegistry.Has(p.Type()),
		Message:   msg,
	})
}

type generateRequest struct {
	Template *domain.Template `json:"template"`
	Rows     *int64           `json:"rows,omitempty"`
	Seed     *int64           `json:"seed,omitempty"`
}

type generateResponse struct {
	Seed    int64                    `json:"seed"`
	Rows    int                      `json:"rows"`
	Order   []string                 `json:"order"`
	Columns map[string][]interface{} `json:"columns"`
	Notices []domain.Notice          `json:"notices"`
}

func (h *Handler) Generate(w http.ResponseWriter, r *http.Request) {
	var req generateRequest
	if err := decodeJSONStrict(r, &req); err != nil {
		http.Error(w, "invalid json", http.StatusBadRequest)
		return
	}
	if req.Template == nil {
		http.Error(w, "template is required", http.StatusBadRequest)
		return
	}
	rows := req.Template.Rows
	if req.Rows != nil {
		rows = *req.Rows
	}
	if rows > MaxGenerateRows {
		http.Error(w, "rows exceeds "+strconv.Itoa(MaxGenerateRows), http.StatusBadRequest)
		return
	}

	ds, seed, err := h.runService.Preview(req.Template, &rows, req.Seed)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	notices := ds.Notices
	if notices == nil {
		notices = []domain.Notice{}
	}
	writeJSON(w, generateResponse{
		Seed:    seed,
		Rows:    ds.Rows(),
		Order:   ds.ColumnNames(),
		Columns: ds.AsMap(),
		Notices: notices,
	})
}

func (h *Handler) ListTemplates(w http.ResponseWriter, r *http.Request) {
	list, err := h.templateRepo.List()
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, list)
}

func (h *Handler) GetTemplate(w http.ResponseWriter, r *http.Request) {
	tpl, err := h.templateRepo.Get(r.PathValue("id"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}
	writeJSON(w, tpl)
}

// Targets are read-only over HTTP and always redacted.

func (h *Handler) ListTargets(w http.ResponseWriter, r *http.Request) {
	list, err := h.targetRepo.List()
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, targets.RedactTargets(list))
}

func (h *Handler) GetTarget(w http.ResponseWriter, r *http.Request) {
	t, err := h.targetRepo.Get(r.PathValue("id"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}
	writeJSON(w, targets.RedactTarget(t))
}

func (h *Handler) TestTarget(w http.ResponseWriter, r *http.Request) {
	res, err := h.runService.CheckTarget(r.PathValue("id"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}
	writeJSON(w, res)
}

func (h *Handler) ListTargetChecks(w http.ResponseWriter, r *http.Request) {
	checks, err := h.runService.ListChecks(r.PathValue("id"), queryLimit(r, 20))
	if err != nil {
		http.Error(w, err.Error(), historyStatus(err))
		return
	}
	writeJSON(w, checks)
}

type runResponse struct {
	Run     *domain.Run      `json:"run"`
	Table   string           `json:"table,omitempty"`
	Stats   *domain.RunStats `json:"stats,omitempty"`
	Notices []domain.Notice  `json:"notices,omitempty"`
	Error   string           `json:"error,omitempty"`
}

// CreateRun executes synchronously. A run that fails after it was recorded
// is still returned, with a 500.
func (h *Handler) CreateRun(w http.ResponseWriter, r *http.Request) {
	var req domain.RunRequest
	if err := decodeJSONStrict(r, &req); err != nil {
		http.Error(w, "invalid json", http.StatusBadRequest)
		return
	}
	res, err := h.runService.StartRun(r.Context(), &req)
	if err != nil && res == nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	body := runResponse{Run: res.Run, Table: res.Table, Stats: res.Stats}
	if res.Dataset != nil {
		body.Notices = res.Dataset.Notices
	}
	if err != nil {
		body.Error = err.Error()
		writeJSONStatus(w, http.StatusInternalServerError, body)
		return
	}
	writeJSONStatus(w, http.StatusCreated, body)
}

func (h *Handler) ListRuns(w http.ResponseWriter, r *http.Request) {
	runs, err := h.runService.ListRuns(queryLimit(r, 50), r.URL.Query().Get("status"))
	if err != nil {
		http.Error(w, err.Error(), historyStatus(err))
		return
	}
	writeJSON(w, runs)
}

func (h *Handler) GetRun(w http.ResponseWriter, r *http.Request) {
	run, err := h.runService.GetRun(r.PathValue("id"))
	if err != nil {
		status := http.StatusNotFound
		if errors.Is(err, app.ErrNoHistory) {
			status = http.StatusServiceUnavailable
		}
		http.Error(w, err.Error(), status)
		return
	}
	writeJSON(w, run)
}

func queryLimit(r *http.Request, def int) int {
	if q := r.URL.Query().Get("limit"); q != "" {
		if n, err := strconv.Atoi(q); err == nil && n > 0 && n <= 1000 {
			return n
		}
	}
	return def
}

func historyStatus(err error) int {
	if errors.Is(err, app.ErrNoHistory) {
		return http.StatusServiceUnavailable
	}
	return http.StatusInternalServerError
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

func writeJSONStatus(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func decodeJSONStrict(r *http.Request, out any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(out)
}
