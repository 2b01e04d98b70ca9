package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/matzehuels/ledwall/pkg/catalog"
	"github.com/matzehuels/ledwall/pkg/observability"
	"github.com/matzehuels/ledwall/pkg/pipeline"
	"github.com/matzehuels/ledwall/pkg/project"
	"github.com/matzehuels/ledwall/pkg/wall"
)

func newTestServer(t *testing.T, opts ...Option) (*httptest.Server, *project.FileStore) {
	t.Helper()
	store, err := project.NewFileStore(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	srv := httptest.NewServer(New(pipeline.NewRunner(nil, nil, nil), store, opts...).Handler())
	t.Cleanup(srv.Close)
	return srv, store
}

func do(t *testing.T, method, url, body string) *http.Response {
	t.Helper()
	req, err := http.NewRequest(method, url, strings.NewReader(body))
	if err != nil {
		t.Fatal(err)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	var v T
	if err := json.NewDecoder(resp.Body).Decode(&v); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return v
}

func expectError(t *testing.T, resp *http.Response, status int, code string) {
	t.Helper()
	if resp.StatusCode != status {
		t.Errorf("status = %d, want %d", resp.StatusCode, status)
	}
	body := decode[errorBody](t, resp)
	if body.Code != code {
		t.Errorf("code = %q, want %q (message %q)", body.Code, code, body.Message)
	}
}

func TestHealth(t *testing.T) {
	srv, _ := newTestServer(t)
	resp := do(t, http.MethodGet, srv.URL+"/healthz", "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	if got := decode[map[string]string](t, resp); got["status"] != "ok" || got["version"] == "" {
		t.Errorf("body = %v", got)
	}
}

func TestCatalogRoutes(t *testing.T) {
	srv, _ := newTestServer(t)

	modules := decode[[]catalog.Module](t, do(t, http.MethodGet, srv.URL+"/v1/modules", ""))
	if len(modules) != 2 || modules[0].ID != "arakur-p29" {
		t.Errorf("modules = %+v", modules)
	}
	processors := decode[[]catalog.Processor](t, do(t, http.MethodGet, srv.URL+"/v1/processors", ""))
	if len(processors) != 5 {
		t.Errorf("processors = %d", len(processors))
	}
}

func TestComputeLayout(t *testing.T) {
	srv, _ := newTestServer(t)
	resp := do(t, http.MethodPost, srv.URL+"/v1/layout", `{"module":"arakur-p29","processor":"vx600","width":6,"height":4}`)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	res := decode[wall.Result](t, resp)
	if res.TotalModules != 24 || res.UTPInputs != 2 || res.UTPBridges != 22 {
		t.Errorf("result = %d modules, %d inputs, %d bridges", res.TotalModules, res.UTPInputs, res.UTPBridges)
	}
}

func TestComputeLayoutErrors(t *testing.T) {
	srv, _ := newTestServer(t)
	tests := []struct {
		name   string
		body   string
		status int
		code   string
	}{
		{"malformed", `{`, http.StatusBadRequest, "INVALID_INPUT"},
		{"unknown field", `{"colour":"red"}`, http.StatusBadRequest, "INVALID_INPUT"},
		{"unknown module", `{"module":"nope"}`, http.StatusNotFound, "MODULE_NOT_FOUND"},
		{"bad pattern", `{"pattern":"zigzag"}`, http.StatusBadRequest, "INVALID_PATTERN"},
		{"huge wall", `{"width":4e9,"height":4e9}`, http.StatusBadRequest, "INVALID_INPUT"},
		{"huge by-size wall", `{"mode":"by-size","width":1e7,"height":300}`, http.StatusBadRequest, "INVALID_INPUT"},
		{"strict", `{"processor":"msd300","width":20,"height":20,"strict":true}`, http.StatusUnprocessableEntity, "CAPACITY_EXCEEDED"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			expectError(t, do(t, http.MethodPost, srv.URL+"/v1/layout", tt.body), tt.status, tt.code)
		})
	}
}

func TestServerStrict(t *testing.T) {
	srv, _ := newTestServer(t, WithStrict(true))
	resp := do(t, http.MethodPost, srv.URL+"/v1/layout", `{"processor":"msd300","width":20,"height":20}`)
	expectError(t, resp, http.StatusUnprocessableEntity, "CAPACITY_EXCEEDED")
}

func TestRender(t *testing.T) {
	srv, _ := newTestServer(t)
	tests := []struct {
		format      string
		contentType string
		prefix      string
	}{
		{"svg", "image/svg+xml", "<svg"},
		{"dot", "text/vnd.graphviz", "digraph"},
		{"technical", "text/plain; charset=utf-8", "TECHNICAL"},
	}
	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			resp := do(t, http.MethodPost, srv.URL+"/v1/render/"+tt.format, `{"width":6,"height":4}`)
			if resp.StatusCode != http.StatusOK {
				t.Fatalf("status = %d", resp.StatusCode)
			}
			if got := resp.Header.Get("Content-Type"); got != tt.contentType {
				t.Errorf("Content-Type = %q", got)
			}
			var buf bytes.Buffer
			_, _ = buf.ReadFrom(resp.Body)
			if !strings.HasPrefix(buf.String(), tt.prefix) {
				t.Errorf("body starts with %q", buf.String()[:min(20, buf.Len())])
			}
		})
	}

	expectError(t, do(t, http.MethodPost, srv.URL+"/v1/render/gif", `{}`), http.StatusBadRequest, "INVALID_FORMAT")
}

func TestProjectLifecycle(t *testing.T) {
	srv, _ := newTestServer(t)
	base := srv.URL + "/v1/projects"

	resp := do(t, http.MethodPost, base, `{"name":"Main Stage"}`)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create status = %d", resp.StatusCode)
	}
	main := decode[project.Project](t, resp)

	resp = do(t, http.MethodPost, base, `{"name":"Side","config":{"module":"arakur-p29","processor":"vx1000","mode":"by-count","widthModules":8,"heightModules":5,"widthCm":512,"heightCm":320,"pattern":"vertical-down","colorScheme":"blue-green","groupIndexStart":1}}`)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create with config status = %d", resp.StatusCode)
	}
	side := decode[project.Project](t, resp)

	list := decode[[]project.Project](t, do(t, http.MethodGet, base, ""))
	if len(list) != 2 || list[0].Name != "Main Stage" {
		t.Errorf("list = %+v", list)
	}

	got := decode[project.Project](t, do(t, http.MethodGet, base+"/"+side.ID, ""))
	if got.Config.Processor != "vx1000" {
		t.Errorf("get = %+v", got)
	}

	resp = do(t, http.MethodPut, base+"/"+side.ID, `{"name":"Side Stage"}`)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("update status = %d", resp.StatusCode)
	}
	if got := decode[project.Project](t, resp); got.Name != "Side Stage" || got.Config.WidthModules != 8 {
		t.Errorf("update = %+v", got)
	}

	res := decode[wall.Result](t, do(t, http.MethodGet, base+"/"+side.ID+"/layout", ""))
	if res.TotalModules != 40 || res.Pattern != wall.VerticalDown {
		t.Errorf("project layout = %d modules, %s", res.TotalModules, res.Pattern)
	}

	resp = do(t, http.MethodGet, base+"/"+side.ID+"/render/commercial", "")
	if resp.StatusCode != http.StatusOK {
		t.Errorf("project render status = %d", resp.StatusCode)
	}

	if resp := do(t, http.MethodDelete, base+"/"+side.ID, ""); resp.StatusCode != http.StatusNoContent {
		t.Errorf("delete status = %d", resp.StatusCode)
	}
	expectError(t, do(t, http.MethodDelete, base+"/"+main.ID, ""), http.StatusConflict, "LAST_ENTRY")
	expectError(t, do(t, http.MethodGet, base+"/"+side.ID, ""), http.StatusNotFound, "PROJECT_NOT_FOUND")
}

func TestProjectListCreatesDefault(t *testing.T) {
	srv, _ := newTestServer(t)

	list := decode[[]project.Project](t, do(t, http.MethodGet, srv.URL+"/v1/projects", ""))
	if len(list) != 1 || list[0].Name != project.DefaultName {
		t.Fatalf("list = %+v", list)
	}
	again := decode[[]project.Project](t, do(t, http.MethodGet, srv.URL+"/v1/projects", ""))
	if len(again) != 1 || again[0].ID != list[0].ID {
		t.Errorf("second list = %+v", again)
	}
}

func TestProjectValidation(t *testing.T) {
	srv, _ := newTestServer(t)
	base := srv.URL + "/v1/projects"
	expectError(t, do(t, http.MethodPost, base, `{}`), http.StatusBadRequest, "INVALID_INPUT")
	expectError(t, do(t, http.MethodPost, base, `{"name":"x","config":{"module":""}}`), http.StatusBadRequest, "INVALID_PROJECT")
}

func TestProjectsWithoutStore(t *testing.T) {
	srv := httptest.NewServer(New(pipeline.NewRunner(nil, nil, nil), nil).Handler())
	defer srv.Close()
	expectError(t, do(t, http.MethodGet, srv.URL+"/v1/projects", ""), http.StatusNotImplemented, "UNSUPPORTED")
}

func TestNotFoundAndMethod(t *testing.T) {
	srv, _ := newTestServer(t)
	expectError(t, do(t, http.MethodGet, srv.URL+"/v2/nothing", ""), http.StatusNotFound, "NOT_FOUND")
	expectError(t, do(t, http.MethodDelete, srv.URL+"/v1/modules", ""), http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED")
}

type recordingHTTPHooks struct {
	mu     sync.Mutex
	routes []string
}

func (h *recordingHTTPHooks) OnRequestServed(_ context.Context, method, route string, status int, _ time.Duration) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.routes = append(h.routes, method+" "+route)
}

func TestRequestHooks(t *testing.T) {
	h := &recordingHTTPHooks{}
	observability.SetHTTPHooks(h)
	t.Cleanup(observability.Reset)

	srv, store := newTestServer(t)
	p, _ := project.New("Hooked")
	if err := store.Save(context.Background(), p); err != nil {
		t.Fatal(err)
	}
	do(t, http.MethodGet, srv.URL+"/v1/projects/"+p.ID, "")

	h.mu.Lock()
	defer h.mu.Unlock()
	if len(h.routes) != 1 {
		t.Fatalf("routes = %v", h.routes)
	}
	// The route pattern is reported, not the concrete path.
	if !strings.HasPrefix(h.routes[0], "GET /v1/projects/{id}") || strings.Contains(h.routes[0], p.ID) {
		t.Errorf("route = %q", h.routes[0])
	}
}
