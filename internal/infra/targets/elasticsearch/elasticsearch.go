package elasticsearch

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/mmrzaf/tabgen/internal/domain"
)

type ElasticsearchTarget struct {
	baseURL string
	apiKey  string
	refresh bool
	client  *http.Client
	version string
}

// NewElasticsearchTarget accepts the options "api_key" (sent as an ApiKey
// authorization header) and "refresh" ("true" makes bulk writes visible
// immediately).
func NewElasticsearchTarget(dsn string, options map[string]string) *ElasticsearchTarget {
	return &ElasticsearchTarget{
		baseURL: normalizeURL(dsn),
		apiKey:  options["api_key"],
		refresh: strings.EqualFold(options["refresh"], "true"),
	}
}

func (t *ElasticsearchTarget) do(method, path, contentType string, body io.Reader) (*http.Response, []byte, error) {
	req, err := http.NewRequest(method, t.baseURL+path, body)
	if err != nil {
		return nil, nil, err
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if t.apiKey != "" {
		req.Header.Set("Authorization", "ApiKey "+t.apiKey)
	}
	resp, err := t.client.Do(req)
	if err != nil {
		return nil, nil, err
	}
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	return resp, data, err
}

func (t *ElasticsearchTarget) Connect() error {
	t.client = &http.Client{Timeout: 15 * time.Second}
	resp, body, err := t.do(http.MethodGet, "/", "", nil)
	if err != nil {
		return err
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("elasticsearch ping failed: status=%d body=%s", resp.StatusCode, strings.TrimSpace(string(body)))
	}
	var root struct {
		Version struct {
			Number string `json:"number"`
		} `json:"version"`
	}
	if err := json.Unmarshal(body, &root); err == nil {
		t.version = root.Version.Number
	}
	return nil
}

func (t *ElasticsearchTarget) Close() error { return nil }

// ServerVersion reports the version seen by Connect.
func (t *ElasticsearchTarget) ServerVersion() (string, error) {
	if t.version == "" {
		return "", fmt.Errorf("elasticsearch version unknown")
	}
	return t.version, nil
}

func (t *ElasticsearchTarget) CreateTableIfNotExists(table string, columns []domain.ColumnDef) error {
	props := make(map[string]any, len(columns))
	for _, col := range columns {
		props[col.Name] = map[string]string{"type": mapColumnKind(col.Kind)}
	}
	payload, err := json.Marshal(map[string]any{"mappings": map[string]any{"properties": props}})
	if err != nil {
		return err
	}

	resp, body, err := t.do(http.MethodPut, "/"+toIndexName(table), "application/json", bytes.NewReader(payload))
	if err != nil {
		return err
	}
	if resp.StatusCode == http.StatusOK || resp.StatusCode == http.StatusCreated {
		return nil
	}
	if resp.StatusCode == http.StatusBadRequest && strings.Contains(string(body), "resource_already_exists_exception") {
		return nil
	}
	return fmt.Errorf("elasticsearch create index failed: status=%d body=%s", resp.StatusCode, strings.TrimSpace(string(body)))
}

func mapColumnKind(kind domain.ColumnKind) string {
	switch kind {
	case domain.KindInteger:
		return "long"
	case domain.KindFloat:
		return "double"
	case domain.KindBool:
		return "boolean"
	default:
		return "keyword"
	}
}

func (t *ElasticsearchTarget) TruncateTable(table string) error {
	payload := []byte(`{"query":{"match_all":{}}}`)
	resp, body, err := t.do(http.MethodPost, "/"+toIndexName(table)+"/_delete_by_query", "application/json", bytes.NewReader(payload))
	if err != nil {
		return err
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("elasticsearch truncate failed: status=%d body=%s", resp.StatusCode, strings.TrimSpace(string(body)))
	}
	return nil
}

func (t *ElasticsearchTarget) DropTable(table string) error {
	resp, body, err := t.do(http.MethodDelete, "/"+toIndexName(table), "", nil)
	if err != nil {
		return err
	}
	if resp.StatusCode == http.StatusNotFound || (resp.StatusCode >= 200 && resp.StatusCode <= 299) {
		return nil
	}
	return fmt.Errorf("elasticsearch delete index failed: status=%d body=%s", resp.StatusCode, strings.TrimSpace(string(body)))
}

func (t *ElasticsearchTarget) InsertBatch(table string, columns []string, rows [][]interface{}) error {
	if len(rows) == 0 {
		return nil
	}
	indexName := toIndexName(table)
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	for _, row := range rows {
		if err := enc.Encode(map[string]any{"index": map[string]string{"_index": indexName}}); err != nil {
			return err
		}
		doc := make(map[string]any, len(columns))
		for i, col := range columns {
			doc[col] = row[i]
		}
		if err := enc.Encode(doc); err != nil {
			return err
		}
	}

	path := "/_bulk"
	if t.refresh {
		path += "?refresh=true"
	}
	resp, body, err := t.do(http.MethodPost, path, "application/x-ndjson", &buf)
	if err != nil {
		return err
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("elasticsearch bulk insert failed: status=%d body=%s", resp.StatusCode, strings.TrimSpace(string(body)))
	}
	var bulkResp struct {
		Errors bool `json:"errors"`
	}
	_ = json.Unmarshal(body, &bulkResp)
	if bulkResp.Errors {
		return fmt.Errorf("elasticsearch bulk insert returned errors")
	}
	return nil
}

func normalizeURL(dsn string) string {
	dsn = strings.TrimSpace(dsn)
	if dsn == "" {
		return "http://localhost:9200"
	}
	if strings.HasPrefix(dsn, "http://") || strings.HasPrefix(dsn, "https://") {
		return strings.TrimRight(dsn, "/")
	}
	return "http://" + strings.TrimRight(dsn, "/")
}

func toIndexName(name string) string {
	name = strings.ToLower(strings.TrimSpace(name))
	return url.PathEscape(name)
}
