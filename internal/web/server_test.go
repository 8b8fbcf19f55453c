package web

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/JonMunkholm/sitegrid/internal/config"
	"github.com/JonMunkholm/sitegrid/internal/core"
)

// fakeBackend keeps rows in memory and mimics the statuses of core.Service.
type fakeBackend struct {
	mu     sync.Mutex
	rows   map[string][]core.Row
	nextID int64
	err    error
	last   core.RequestMeta
}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{
		rows: map[string][]core.Row{
			"sites": {
				{"id": int64(1), "siteName": "Alpha", "siteAddresses": "https://alpha.example"},
			},
		},
		nextID: 2,
	}
}

func (f *fakeBackend) ListTabs() map[string][]core.TableInfo {
	return map[string][]core.TableInfo{
		"anime": {{Key: "sites", Tab: "anime", Title: "Sites"}},
	}
}

func (f *fakeBackend) TablesByTab(tab string) ([]string, core.Status) {
	if tab != "anime" {
		return nil, core.StatusTabNotFound
	}
	return []string{"sites"}, core.StatusUnknown
}

func (f *fakeBackend) FetchData(ctx context.Context, table string) ([]core.Row, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	rows, ok := f.rows[table]
	if !ok {
		return nil, core.ErrUnknownTable
	}
	return rows, nil
}

func (f *fakeBackend) Update(ctx context.Context, table string, row core.Row) (core.Status, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.last = core.RequestMetaFromContext(ctx)
	if f.err != nil {
		return core.StatusUnknown, f.err
	}
	rows, ok := f.rows[table]
	if !ok {
		return core.StatusTableNotFound, nil
	}
	id, _ := core.ParseRowID(row["id"])
	for i, r := range rows {
		if r["id"] == id {
			rows[i] = row
			return core.StatusUpdated, nil
		}
	}
	return core.StatusIDNotFound, nil
}

func (f *fakeBackend) Insert(ctx context.Context, table string, row core.Row) (core.Status, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.rows[table]; !ok {
		return core.StatusTableNotFound, nil
	}
	row = row.Clone()
	row["id"] = f.nextID
	f.nextID++
	f.rows[table] = append(f.rows[table], row)
	return core.StatusInserted, nil
}

func (f *fakeBackend) Delete(ctx context.Context, table, rawID string) (core.Status, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	rows, ok := f.rows[table]
	if !ok {
		return core.StatusTableNotFound, nil
	}
	id, _ := core.ParseRowID(rawID)
	for i, r := range rows {
		if r["id"] == id {
			f.rows[table] = append(rows[:i], rows[i+1:]...)
			return core.StatusDeleted, nil
		}
	}
	return core.StatusIDNotFound, nil
}

func testConfig() *config.Config {
	return &config.Config{
		Server:   config.ServerConfig{RequestTimeout: 5 * time.Second},
		Rate:     config.RateLimitConfig{Enabled: false},
		Security: config.SecurityConfig{EnableCSP: true},
		Logging:  config.LoggingConfig{Level: "info", Format: "text"},
	}
}

func newTestServer(t *testing.T, backend Backend, cfg *config.Config) *Server {
	t.Helper()
	s := NewServer(backend, cfg)
	t.Cleanup(func() { s.Shutdown(context.Background()) })
	return s
}

func do(t *testing.T, s *Server, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	rec := httptest.NewRecorder()
	s.Router().ServeHTTP(rec, req)
	return rec
}

func TestStatusResponses(t *testing.T) {
	tests := []struct {
		name   string
		method string
		path   string
		body   string
		want   core.Status
	}{
		{"update unknown table", http.MethodPost, "/api/update/nope", `{"id":1}`, core.StatusTableNotFound},
		{"update empty body", http.MethodPost, "/api/update/sites", "", core.StatusNoData},
		{"update empty object", http.MethodPost, "/api/update/sites", "{}", core.StatusNoData},
		{"update null", http.MethodPost, "/api/update/sites", "null", core.StatusNoData},
		{"update missing id", http.MethodPost, "/api/update/sites", `{"id":99,"siteName":"x"}`, core.StatusIDNotFound},
		{"update", http.MethodPost, "/api/update/sites", `{"id":1,"siteName":"Alpha 2"}`, core.StatusUpdated},
		{"insert", http.MethodPost, "/api/insert/sites", `{"siteName":"Beta"}`, core.StatusInserted},
		{"insert empty", http.MethodPost, "/api/insert/sites", "", core.StatusNoData},
		{"delete", http.MethodGet, "/api/delete/sites/1", "", core.StatusDeleted},
		{"delete missing id", http.MethodGet, "/api/delete/sites/42", "", core.StatusIDNotFound},
		{"delete unknown table", http.MethodGet, "/api/delete/nope/1", "", core.StatusTableNotFound},
		{"fetch unknown table", http.MethodGet, "/api/fetch/data/nope", "", core.StatusTableNotFound},
		{"fetch unknown tab", http.MethodGet, "/api/fetch/tables/manga", "", core.StatusTabNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestServer(t, newFakeBackend(), testConfig())
			rec := do(t, s, tt.method, tt.path, tt.body)

			if rec.Code != http.StatusOK {
				t.Fatalf("status code = %d, want 200", rec.Code)
			}
			if got := core.ParseStatus(rec.Body.String()); got != tt.want {
				t.Errorf("body = %q, want %q", rec.Body.String(), tt.want)
			}
		})
	}
}

func TestFetchData(t *testing.T) {
	s := newTestServer(t, newFakeBackend(), testConfig())

	rec := do(t, s, http.MethodGet, "/api/fetch/data/sites", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status code = %d, want 200", rec.Code)
	}

	var rows []core.Row
	if err := json.Unmarshal(rec.Body.Bytes(), &rows); err != nil {
		t.Fatalf("decode: %v", err)
	}
	want := []core.Row{{"id": float64(1), "siteName": "Alpha", "siteAddresses": "https://alpha.example"}}
	if diff := cmp.Diff(want, rows); diff != "" {
		t.Errorf("rows mismatch (-want +got):\n%s", diff)
	}
}

func TestFetchData_BackendError(t *testing.T) {
	backend := newFakeBackend()
	backend.err = errors.New("dial tcp: connection refused")
	s := newTestServer(t, backend, testConfig())

	rec := do(t, s, http.MethodGet, "/api/fetch/data/sites", "")
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status code = %d, want 500", rec.Code)
	}

	var resp ErrorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Code != "DB004" {
		t.Errorf("code = %q, want DB004", resp.Code)
	}
	if strings.Contains(rec.Body.String(), "dial tcp") {
		t.Error("technical error leaked to the client")
	}
}

func TestUpdate_InvalidJSON(t *testing.T) {
	s := newTestServer(t, newFakeBackend(), testConfig())

	rec := do(t, s, http.MethodPost, "/api/update/sites", "{not json")
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status code = %d, want 400", rec.Code)
	}
}

func TestUpdate_InvalidValue(t *testing.T) {
	backend := newFakeBackend()
	backend.err = fmt.Errorf("encode hasAds: %w", core.ErrInvalidValue)
	s := newTestServer(t, backend, testConfig())

	rec := do(t, s, http.MethodPost, "/api/update/sites", `{"id":1,"hasAds":"sometimes"}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status code = %d, want 400", rec.Code)
	}
	var resp ErrorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Code != "DB003" {
		t.Errorf("code = %q, want DB003", resp.Code)
	}
}

func TestUpdate_RecordsRequestMeta(t *testing.T) {
	backend := newFakeBackend()
	s := newTestServer(t, backend, testConfig())

	req := httptest.NewRequest(http.MethodPost, "/api/update/sites", strings.NewReader(`{"id":1,"siteName":"x"}`))
	req.Header.Set("User-Agent", "sitegrid-test")
	req.RemoteAddr = "203.0.113.9:5555"
	s.Router().ServeHTTP(httptest.NewRecorder(), req)

	want := core.RequestMeta{IPAddress: "203.0.113.9", UserAgent: "sitegrid-test"}
	if diff := cmp.Diff(want, backend.last); diff != "" {
		t.Errorf("request meta mismatch (-want +got):\n%s", diff)
	}
}

func TestFetchTables(t *testing.T) {
	s := newTestServer(t, newFakeBackend(), testConfig())

	rec := do(t, s, http.MethodGet, "/api/fetch/tables", "")
	var tabs map[string][]core.TableInfo
	if err := json.Unmarshal(rec.Body.Bytes(), &tabs); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(tabs["anime"]) != 1 || tabs["anime"][0].Key != "sites" {
		t.Errorf("tabs = %+v", tabs)
	}

	rec = do(t, s, http.MethodGet, "/api/fetch/tables/anime", "")
	var keys []string
	if err := json.Unmarshal(rec.Body.Bytes(), &keys); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if diff := cmp.Diff([]string{"sites"}, keys); diff != "" {
		t.Errorf("keys mismatch (-want +got):\n%s", diff)
	}
}

func TestHealthAndHeaders(t *testing.T) {
	s := newTestServer(t, newFakeBackend(), testConfig())

	rec := do(t, s, http.MethodGet, "/api/health", "")
	if rec.Code != http.StatusOK || rec.Body.String() != "Ok" {
		t.Errorf("health = %d %q", rec.Code, rec.Body.String())
	}
	if rec.Header().Get("X-Content-Type-Options") != "nosniff" {
		t.Error("missing X-Content-Type-Options")
	}
	if rec.Header().Get("Content-Security-Policy") == "" {
		t.Error("missing Content-Security-Policy")
	}
}

func TestEditorPage(t *testing.T) {
	s := newTestServer(t, newFakeBackend(), testConfig())

	rec := do(t, s, http.MethodGet, "/", "")
	body := rec.Body.String()
	for _, want := range []string{`id="editToggle"`, `id="save-sites"`, `data-target="sites"`, `style="display: none"`, "Enable Edit"} {
		if !strings.Contains(body, want) {
			t.Errorf("page missing %s", want)
		}
	}

	rec = do(t, s, http.MethodGet, "/?edit=true", "")
	if body := rec.Body.String(); strings.Contains(body, "display: none") || !strings.Contains(body, "Disable Edit") {
		t.Error("edit mode page should show controls and the disable label")
	}
}

func TestMutationsRequireAPIKey(t *testing.T) {
	cfg := testConfig()
	cfg.Security.RequireAPIKey = true
	cfg.Security.APIKeys = []string{"secret"}
	s := newTestServer(t, newFakeBackend(), cfg)

	if rec := do(t, s, http.MethodGet, "/api/delete/sites/1", ""); rec.Code != http.StatusUnauthorized {
		t.Errorf("delete without key = %d, want 401", rec.Code)
	}
	if rec := do(t, s, http.MethodGet, "/api/fetch/data/sites", ""); rec.Code != http.StatusOK {
		t.Errorf("fetch without key = %d, want 200", rec.Code)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/delete/sites/1", nil)
	req.Header.Set("X-API-Key", "secret")
	rec := httptest.NewRecorder()
	s.Router().ServeHTTP(rec, req)
	if rec.Body.String() != string(core.StatusDeleted) {
		t.Errorf("delete with key = %q, want deleted", rec.Body.String())
	}
}

func TestRateLimiter(t *testing.T) {
	cfg := testConfig()
	cfg.Rate = config.RateLimitConfig{Enabled: true, RequestsPerMinute: 2, MutationLimit: 1}
	s := newTestServer(t, newFakeBackend(), cfg)

	codes := make([]int, 3)
	for i := range codes {
		codes[i] = do(t, s, http.MethodGet, "/api/health", "").Code
	}
	want := []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}
	if diff := cmp.Diff(want, codes); diff != "" {
		t.Errorf("status codes mismatch (-want +got):\n%s", diff)
	}
}
