package server

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/vango-dev/routemeta/internal/logging"
	"github.com/vango-dev/routemeta/pkg/component"
	"github.com/vango-dev/routemeta/pkg/middleware"
	"github.com/vango-dev/routemeta/pkg/reactive"
	"github.com/vango-dev/routemeta/pkg/registry"
	"github.com/vango-dev/routemeta/pkg/route"
	"github.com/vango-dev/routemeta/pkg/router"
)

var names = map[string]string{"1": "Ann", "2": "Bob"}

func testFields(fullName string, params map[string]string) map[string]any {
	if fullName == "members.show" {
		return map[string]any{"name": names[params["user_id"]]}
	}
	return nil
}

func newTestServer(t *testing.T, opts ...Option) *Server {
	t.Helper()
	root := route.Root(route.WithTitle("App")).Routes(
		route.Route("home@/", route.WithoutTitle()),
		route.Route("about", route.WithTitle("About")),
		route.Route("members@users", route.WithTitle("All Members")).Routes(
			route.Route("show@:user_id", route.WithTitle("User {{name}}")),
		),
		route.Route("catchall@*"),
	)
	r, err := router.ToRouter(root, router.Config{Logger: logging.Discard()})
	if err != nil {
		t.Fatal(err)
	}
	reg := registry.New(r.Root(), registry.WithLogger(logging.Discard()))

	opts = append([]Option{WithLogger(logging.Discard()), WithFields(testFields)}, opts...)
	s, err := New(r, reg, &Config{Display: component.Shown()}, opts...)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	return s
}

func get(t *testing.T, h http.Handler, path string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest("GET", path, nil))
	return rec
}

func TestPageTitles(t *testing.T) {
	s := newTestServer(t)

	tests := []struct {
		path  string
		title string
		route string
	}{
		{"/", "App", "home"},
		{"/about", "About - App", "about"},
		{"/users", "All Members - App", "members.index"},
		{"/users/1", "User Ann - All Members - App", "members.show"},
		{"/users/2", "User Bob - All Members - App", "members.show"},
		{"/somewhere/else", "Catchall - App", "catchall"},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			rec := get(t, s, tt.path)
			if rec.Code != http.StatusOK {
				t.Fatalf("status = %d, want 200", rec.Code)
			}
			body := rec.Body.String()
			if !strings.Contains(body, "<title>"+tt.title+"</title>") {
				t.Errorf("body missing title %q:\n%s", tt.title, body)
			}
			widget := `<div data-routemeta="document-title">` + tt.title + `</div>`
			if !strings.Contains(body, widget) {
				t.Errorf("body missing widget %q:\n%s", widget, body)
			}
			if !strings.Contains(body, `data-route="`+tt.route+`"`) {
				t.Errorf("body missing route %q", tt.route)
			}
			if ct := rec.Header().Get("Content-Type"); ct != "text/html; charset=utf-8" {
				t.Errorf("Content-Type = %q", ct)
			}
		})
	}
}

func TestPageCarriesFeedMessage(t *testing.T) {
	s := newTestServer(t)
	body := get(t, s, "/users/1").Body.String()
	want := `var ROUTE={"route":"members.show","params":{"user_id":"1"}};`
	if !strings.Contains(body, want) {
		t.Errorf("body missing %q:\n%s", want, body)
	}
	if !strings.Contains(body, FeedPath) {
		t.Error("body missing feed path")
	}

	body = get(t, s, "/a/b").Body.String()
	if !strings.Contains(body, `"params":{"wildcard":"a/b"}`) {
		t.Errorf("catch-all params not renamed:\n%s", body)
	}
}

func TestRoutesTable(t *testing.T) {
	s := newTestServer(t)
	rec := get(t, s, RoutesPath)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}

	var routes []RouteInfo
	if err := json.Unmarshal(rec.Body.Bytes(), &routes); err != nil {
		t.Fatalf("decode: %v", err)
	}

	byName := map[string]RouteInfo{}
	var order []string
	for _, r := range routes {
		byName[r.Name] = r
		order = append(order, r.Name)
	}
	wantOrder := "application home about members members.index members.show catchall"
	if got := strings.Join(order, " "); got != wantOrder {
		t.Errorf("order = %q, want %q", got, wantOrder)
	}

	show := byName["members.show"]
	if show.Path != "/users/:user_id" || show.Pattern != "/users/{user_id}" || !show.Leaf {
		t.Errorf("members.show = %+v", show)
	}
	if show.Title != `"User {{name}}"` {
		t.Errorf("members.show title = %q", show.Title)
	}
	if m := byName["members"]; !m.Resource || m.Leaf {
		t.Errorf("members = %+v", m)
	}
}

func TestMetricsEndpoint(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := middleware.NewMetrics(middleware.WithRegistry(reg))
	s := newTestServer(t, WithMetrics(m, reg))

	get(t, s, "/about")
	rec := get(t, s, MetricsPath)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	body := rec.Body.String()
	if !strings.Contains(body, `routemeta_http_requests_total{pattern="/about",status="200"} 1`) {
		t.Errorf("metrics missing page request:\n%s", body)
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
		r := httptest.NewRequest("GET", "http://example.com/_routemeta/ws", nil)
		if tt.origin != "" {
			r.Header.Set("Origin", tt.origin)
		}
		if got := SameOriginCheck(r); got != tt.want {
			t.Errorf("SameOriginCheck(%q) = %v, want %v", tt.origin, got, tt.want)
		}
	}
}

func TestConfigDefaults(t *testing.T) {
	cfg := (&Config{Address: ":9999"}).withDefaults()
	if cfg.Address != ":9999" {
		t.Errorf("Address = %q", cfg.Address)
	}
	if cfg.ShutdownTimeout != 30*time.Second || cfg.SessionConfig == nil || cfg.CheckOrigin == nil {
		t.Errorf("defaults not applied: %+v", cfg)
	}
	if (*Config)(nil).withDefaults().Address != ":3000" {
		t.Error("nil config should use defaults")
	}
}

// =============================================================================
// Title feed
// =============================================================================

func dialFeed(t *testing.T, ts *httptest.Server) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(ts.URL, "http") + FeedPath
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("Dial() error = %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

func readMessage(t *testing.T, conn *websocket.Conn) serverMessage {
	t.Helper()
	conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	var m serverMessage
	if err := conn.ReadJSON(&m); err != nil {
		t.Fatalf("ReadJSON() error = %v", err)
	}
	return m
}

func readTitle(t *testing.T, conn *websocket.Conn) string {
	t.Helper()
	m := readMessage(t, conn)
	if m.Title == nil {
		t.Fatalf("expected a title, got %+v", m)
	}
	return *m.Title
}

func TestFeed(t *testing.T) {
	s := newTestServer(t)
	ts := httptest.NewServer(s)
	defer ts.Close()

	conn := dialFeed(t, ts)

	send := func(msg clientMessage) {
		t.Helper()
		if err := conn.WriteJSON(msg); err != nil {
			t.Fatal(err)
		}
	}

	send(clientMessage{Route: "members.show", Params: map[string]string{"user_id": "1"}})
	if got := readTitle(t, conn); got != "User Ann - All Members - App" {
		t.Errorf("title = %q", got)
	}

	send(clientMessage{Route: "members.show", Params: map[string]string{"user_id": "2"}})
	if got := readTitle(t, conn); got != "User Bob - All Members - App" {
		t.Errorf("title after params = %q", got)
	}

	send(clientMessage{Route: "about"})
	if got := readTitle(t, conn); got != "About - App" {
		t.Errorf("title = %q", got)
	}

	send(clientMessage{Route: "nowhere"})
	if m := readMessage(t, conn); !strings.HasPrefix(m.Error, "E103") {
		t.Errorf("unknown route message = %+v", m)
	}

	if err := conn.WriteMessage(websocket.TextMessage, []byte("not json")); err != nil {
		t.Fatal(err)
	}
	if m := readMessage(t, conn); m.Error == "" {
		t.Errorf("bad message reply = %+v", m)
	}
}

func TestFeedSessionsAreIsolated(t *testing.T) {
	s := newTestServer(t)
	ts := httptest.NewServer(s)
	defer ts.Close()

	a := dialFeed(t, ts)
	b := dialFeed(t, ts)

	if err := a.WriteJSON(clientMessage{Route: "about"}); err != nil {
		t.Fatal(err)
	}
	if got := readTitle(t, a); got != "About - App" {
		t.Errorf("a title = %q", got)
	}

	if err := b.WriteJSON(clientMessage{Route: "members.index"}); err != nil {
		t.Fatal(err)
	}
	if got := readTitle(t, b); got != "All Members - App" {
		t.Errorf("b title = %q", got)
	}

	// a still sees its own route.
	if err := a.WriteJSON(clientMessage{Route: "home"}); err != nil {
		t.Fatal(err)
	}
	if got := readTitle(t, a); got != "App" {
		t.Errorf("a title = %q", got)
	}
}

func TestFeedIgnoresClientFields(t *testing.T) {
	s := newTestServer(t)
	ts := httptest.NewServer(s)
	defer ts.Close()

	a := dialFeed(t, ts)
	b := dialFeed(t, ts)

	show := clientMessage{Route: "members.show", Params: map[string]string{"user_id": "1"}}
	if err := a.WriteJSON(show); err != nil {
		t.Fatal(err)
	}
	if got := readTitle(t, a); got != "User Ann - All Members - App" {
		t.Fatalf("a title = %q", got)
	}

	raw := `{"route":"members.show","params":{"user_id":"1"},"fields":{"documentTitleToken":"pwned","name":"Mallory"}}`
	if err := b.WriteMessage(websocket.TextMessage, []byte(raw)); err != nil {
		t.Fatal(err)
	}
	if got := readTitle(t, b); got != "User Ann - All Members - App" {
		t.Errorf("b title = %q, want the server-derived title", got)
	}

	// Had b's fields reached the shared controller, a would read that
	// title before this one.
	if err := a.WriteJSON(clientMessage{Route: "about"}); err != nil {
		t.Fatal(err)
	}
	if got := readTitle(t, a); got != "About - App" {
		t.Errorf("a title = %q, want %q", got, "About - App")
	}

	body := get(t, s, "/users/1").Body.String()
	if !strings.Contains(body, "<title>User Ann - All Members - App</title>") {
		t.Errorf("page title changed by a feed client:\n%s", body)
	}
}

func TestRequestsLeaveNoTrackingState(t *testing.T) {
	s := newTestServer(t)
	before := reactive.TrackedGoroutines()

	for _, path := range []string{"/", "/about", "/users", "/users/1", "/a/b"} {
		get(t, s, path)
	}
	if got := reactive.TrackedGoroutines(); got > before {
		t.Errorf("TrackedGoroutines() after pages = %d, want at most %d", got, before)
	}

	ts := httptest.NewServer(s)
	defer ts.Close()
	conn := dialFeed(t, ts)
	if err := conn.WriteJSON(clientMessage{Route: "about"}); err != nil {
		t.Fatal(err)
	}
	readTitle(t, conn)
	conn.Close()

	deadline := time.Now().Add(5 * time.Second)
	for reactive.TrackedGoroutines() > before && time.Now().Before(deadline) {
		time.Sleep(10 * time.Millisecond)
	}
	if got := reactive.TrackedGoroutines(); got > before {
		t.Errorf("TrackedGoroutines() after feed = %d, want at most %d", got, before)
	}
}

func TestStartShutdown(t *testing.T) {
	s := newTestServer(t)
	s.config.Address = "127.0.0.1:0"
	if err := s.Start(context.Background()); err != nil {
		t.Fatalf("Start() error = %v", err)
	}

	resp, err := http.Get("http://" + s.Addr() + "/about")
	if err != nil {
		t.Fatalf("GET error = %v", err)
	}
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	if !strings.Contains(string(body), "<title>About - App</title>") {
		t.Errorf("body = %s", body)
	}

	if err := s.Shutdown(context.Background()); err != nil {
		t.Errorf("Shutdown() error = %v", err)
	}
}
