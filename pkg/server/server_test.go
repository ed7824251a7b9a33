package server

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/vango-dev/compose"
	cerrors "github.com/vango-dev/compose/internal/errors"
	"github.com/vango-dev/compose/pkg/component"
	"github.com/vango-dev/compose/pkg/reactive"
	"github.com/vango-dev/compose/pkg/telemetry"
)

func testServer(t *testing.T, config *ServerConfig) *httptest.Server {
	t.Helper()
	catalog := component.NewCatalog()
	catalog.Register("card", &component.Definition{
		Template: component.HTML(`<h2 data-text="title"></h2>`),
	})
	catalog.Register("empty", &component.Definition{})

	loader := component.LoaderFunc(func(ctx context.Context, name string) (*component.Definition, error) {
		switch name {
		case "remote":
			return &component.Definition{Template: component.HTML(`<p>remote</p>`)}, nil
		case "down":
			return nil, errors.New("backend down")
		}
		return nil, nil
	})
	reg := component.Fallback{catalog, component.NewLoaderRegistry(loader, reactive.Immediate)}

	if config == nil {
		config = &ServerConfig{}
	}
	srv := httptest.NewServer(New(compose.New(compose.WithRegistry(reg)), config))
	t.Cleanup(srv.Close)
	return srv
}

func get(t *testing.T, url string) (int, string) {
	t.Helper()
	resp, err := http.Get(url)
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)
	return resp.StatusCode, string(body)
}

func TestHealthz(t *testing.T) {
	srv := testServer(t, nil)
	status, body := get(t, srv.URL+"/healthz")
	if status != http.StatusOK || body != "ok" {
		t.Errorf("healthz = %d %q", status, body)
	}
}

func TestRenderRoute(t *testing.T) {
	srv := testServer(t, nil)

	tests := []struct {
		path   string
		status int
		want   string
	}{
		{"/components/card?title=Hello", http.StatusOK, "<h2>Hello</h2>"},
		{"/components/card?title=Hello&raw=1", http.StatusOK, `<h2 data-text="title">Hello</h2>`},
		{"/components/remote", http.StatusOK, "<p>remote</p>"},
		{"/components/ghost", http.StatusNotFound, `"code":"E202"`},
		{"/components/down", http.StatusBadGateway, "backend down"},
		{"/components/empty", http.StatusInternalServerError, `"code":"E203"`},
		{"/components/bad..name", http.StatusBadRequest, `"code":"E201"`},
	}
	for _, tt := range tests {
		status, body := get(t, srv.URL+tt.path)
		if status != tt.status {
			t.Errorf("GET %s: status = %d, want %d (%s)", tt.path, status, tt.status, body)
		}
		if !strings.Contains(body, tt.want) {
			t.Errorf("GET %s: body = %q, want it to contain %q", tt.path, body, tt.want)
		}
	}
}

func TestRenderRoutePost(t *testing.T) {
	srv := testServer(t, nil)

	resp, err := http.Post(srv.URL+"/components/card", "application/json", strings.NewReader(`{"title":"Posted"}`))
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK || string(body) != "<h2>Posted</h2>" {
		t.Errorf("POST = %d %q", resp.StatusCode, body)
	}

	resp, err = http.Post(srv.URL+"/components/card", "application/json", strings.NewReader(`[1,2]`))
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("non-object body: status = %d", resp.StatusCode)
	}
}

func TestListAndMetricsRoutes(t *testing.T) {
	registry := prometheus.NewRegistry()
	telemetry.NewMetrics(telemetry.WithRegistry(registry)).Resolving("card", 1)

	srv := testServer(t, &ServerConfig{
		Names:      func() ([]string, error) { return []string{"remote", "card"}, nil },
		Gatherer:   registry,
		Registerer: registry,
	})

	status, body := get(t, srv.URL+"/components")
	if status != http.StatusOK {
		t.Fatalf("list status = %d", status)
	}
	var list struct{ Components []string }
	if err := json.Unmarshal([]byte(body), &list); err != nil {
		t.Fatal(err)
	}
	if strings.Join(list.Components, ",") != "card,remote" {
		t.Errorf("components = %v", list.Components)
	}

	get(t, srv.URL+"/components/card?title=x")

	status, body = get(t, srv.URL+"/metrics")
	if status != http.StatusOK {
		t.Fatalf("metrics status = %d", status)
	}
	for _, want := range []string{
		"compose_resolutions_total",
		`compose_http_requests_total{method="GET",route="/components/{name}",status="200"} 1`,
		"compose_live_sessions 0",
	} {
		if !strings.Contains(body, want) {
			t.Errorf("metrics output missing %q", want)
		}
	}
}

func TestOptionalRoutesAbsent(t *testing.T) {
	srv := testServer(t, nil)
	for _, path := range []string{"/components", "/metrics"} {
		if status, _ := get(t, srv.URL+path); status != http.StatusNotFound && status != http.StatusMethodNotAllowed {
			t.Errorf("GET %s = %d, want not found", path, status)
		}
	}
}

func TestStatusFor(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{context.DeadlineExceeded, http.StatusGatewayTimeout},
		{cerrors.New("E202").Kind(component.ErrUnknownComponent), http.StatusNotFound},
		{cerrors.New("E202").Kind(component.ErrUnknownComponent).Wrap(cerrors.New("E210")), http.StatusBadGateway},
		{cerrors.New("E201").Kind(component.ErrNoComponentName), http.StatusBadRequest},
		{errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		if got := statusFor(tt.err); got != tt.want {
			t.Errorf("statusFor(%v) = %d, want %d", tt.err, got, tt.want)
		}
	}
}

func TestSameOriginCheck(t *testing.T) {
	tests := []struct {
		origin string
		want   bool
	}{
		{"", true},
		{"http://example.com", true},
		{"http://evil.com", false},
		{"://bad", false},
	}
	for _, tt := range tests {
		r := httptest.NewRequest(http.MethodGet, "http://example.com/ws", nil)
		if tt.origin != "" {
			r.Header.Set("Origin", tt.origin)
		}
		if got := SameOriginCheck(r); got != tt.want {
			t.Errorf("SameOriginCheck(%q) = %v, want %v", tt.origin, got, tt.want)
		}
	}
}

func TestLiveSession(t *testing.T) {
	srv := testServer(t, nil)

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatal(err)
	}
	defer conn.Close()

	read := func() Message {
		t.Helper()
		conn.SetReadDeadline(time.Now().Add(2 * time.Second))
		var msg Message
		if err := conn.ReadJSON(&msg); err != nil {
			t.Fatalf("ReadJSON: %v", err)
		}
		return msg
	}
	mount := func(name string, params map[string]any) {
		t.Helper()
		if err := conn.WriteJSON(Message{Type: MessageMount, Name: name, Params: params}); err != nil {
			t.Fatal(err)
		}
	}

	mount("card", map[string]any{"title": "one"})
	if msg := read(); msg.Type != MessageHTML || msg.HTML != "<h2>one</h2>" {
		t.Errorf("first push = %+v", msg)
	}

	mount("ghost", nil)
	if msg := read(); msg.Type != MessageError || msg.Code != "E202" {
		t.Errorf("unknown component = %+v", msg)
	}

	mount("card", map[string]any{"title": "two"})
	if msg := read(); msg.Type != MessageHTML || msg.HTML != "<h2>two</h2>" {
		t.Errorf("remount = %+v", msg)
	}

	mount("remote", nil)
	if msg := read(); msg.Type != MessageHTML || msg.HTML != "<p>remote</p>" {
		t.Errorf("loaded component = %+v", msg)
	}
}
