package main

import (
	"bytes"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/google/go-cmp/cmp"
	"github.com/gorilla/websocket"

	"github.com/myui-dev/myui/internal/config"
	"github.com/myui-dev/myui/pkg/dom"
	"github.com/myui-dev/myui/pkg/live"
	"github.com/myui-dev/myui/pkg/student"
)

func newTestServer(t *testing.T, mutate func(*config.Config)) (*server, *httptest.Server) {
	t.Helper()
	cfg := config.New()
	if mutate != nil {
		mutate(cfg)
	}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	srv := newServer(cfg, logger, student.NewMemoryStore())
	ts := httptest.NewServer(srv.handler)
	t.Cleanup(ts.Close)
	return srv, ts
}

func get(t *testing.T, url string) (int, string) {
	t.Helper()
	resp, err := http.Get(url)
	if err != nil {
		t.Fatalf("GET %s: %v", url, err)
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)
	return resp.StatusCode, string(body)
}

func TestHealth(t *testing.T) {
	_, ts := newTestServer(t, nil)
	code, body := get(t, ts.URL+"/healthz")
	if code != http.StatusOK {
		t.Fatalf("status = %d", code)
	}
	var got healthStatus
	if err := json.Unmarshal([]byte(body), &got); err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(healthStatus{Status: "ok", Driver: "memory"}, got); diff != "" {
		t.Errorf("health (-want +got):\n%s", diff)
	}
}

func TestStudentsRoundTrip(t *testing.T) {
	_, ts := newTestServer(t, nil)

	body := `{"name":"Asha","dob":"2001-04-09","gender":"Female","state":"Kerala","city":"Kochi","pincode":"682001"}`
	resp, err := http.Post(ts.URL+"/students", "application/json", strings.NewReader(body))
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusCreated && resp.StatusCode != http.StatusOK {
		t.Fatalf("POST status = %d", resp.StatusCode)
	}

	code, list := get(t, ts.URL+"/students")
	if code != http.StatusOK || !strings.Contains(list, `"Asha"`) {
		t.Errorf("GET /students = %d %s", code, list)
	}
}

func TestCORSPreflight(t *testing.T) {
	_, ts := newTestServer(t, nil)
	req, _ := http.NewRequest(http.MethodOptions, ts.URL+"/students", nil)
	req.Header.Set("Origin", "http://example.com")
	req.Header.Set("Access-Control-Request-Method", "POST")
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode >= 300 {
		t.Errorf("status = %d, want 2xx", resp.StatusCode)
	}
	if got := resp.Header.Get("Access-Control-Allow-Origin"); got != "*" && got != "http://example.com" {
		t.Errorf("Allow-Origin = %q", got)
	}
}

func TestMetricsEndpoint(t *testing.T) {
	_, ts := newTestServer(t, nil)
	get(t, ts.URL+"/students")

	code, body := get(t, ts.URL+"/metrics")
	if code != http.StatusOK {
		t.Fatalf("status = %d", code)
	}
	for _, want := range []string{
		`myui_http_requests_total{method="GET",route="/students",status="200"} 1`,
		"go_goroutines",
	} {
		if !strings.Contains(body, want) {
			t.Errorf("metrics miss %s", want)
		}
	}
}

func TestDisabledMetricsAndStatic(t *testing.T) {
	_, ts := newTestServer(t, func(c *config.Config) {
		off := false
		c.Metrics.Enabled = &off
		c.Server.Static = &off
	})
	for _, path := range []string{"/metrics", "/", "/live.js"} {
		if code, _ := get(t, ts.URL+path); code != http.StatusNotFound {
			t.Errorf("GET %s = %d, want 404", path, code)
		}
	}
}

func TestPage(t *testing.T) {
	_, ts := newTestServer(t, func(c *config.Config) { c.Live.Path = "/ws" })
	code, body := get(t, ts.URL+"/")
	if code != http.StatusOK || !strings.Contains(body, `data-live="/ws"`) {
		t.Errorf("GET / = %d %s", code, body)
	}
	if code, _ := get(t, ts.URL+"/live.js"); code != http.StatusOK {
		t.Errorf("GET /live.js = %d", code)
	}
}

func treeText(s *dom.Snapshot) string {
	if s == nil {
		return ""
	}
	var b strings.Builder
	b.WriteString(s.Text)
	for _, c := range s.Children {
		b.WriteString(treeText(c))
	}
	return b.String()
}

// An API write reloads the list of every open live session.
func TestLiveSessionSeesAPIChanges(t *testing.T) {
	srv, ts := newTestServer(t, nil)

	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(ts.URL, "http")+"/live", nil)
	if err != nil {
		t.Fatalf("Dial: %v", err)
	}
	defer conn.Close()

	read := func() live.ServerMessage {
		t.Helper()
		conn.SetReadDeadline(time.Now().Add(5 * time.Second))
		_, data, err := conn.ReadMessage()
		if err != nil {
			t.Fatalf("ReadMessage: %v", err)
		}
		var m live.ServerMessage
		if err := json.Unmarshal(data, &m); err != nil {
			t.Fatal(err)
		}
		return m
	}

	init := read()
	if init.Type != live.TypeInit || !strings.Contains(treeText(init.Tree), "Student Registry") {
		t.Fatalf("init = %s", treeText(init.Tree))
	}

	// Wait for the initial load to settle before writing.
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		if srv.hub.Len() == 1 {
			break
		}
		time.Sleep(5 * time.Millisecond)
	}

	body := `{"name":"Ravi","dob":"1999-12-01","gender":"Male","state":"Goa","city":"Panaji","pincode":"403001"}`
	resp, err := http.Post(ts.URL+"/students", "application/json", bytes.NewBufferString(body))
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()

	for {
		m := read()
		if m.Type != live.TypePatch {
			continue
		}
		for _, mut := range m.Mutations {
			if strings.Contains(treeText(mut.Tree), "Ravi") {
				return
			}
		}
	}
}

func TestConfigCommand(t *testing.T) {
	var out bytes.Buffer
	cmd := rootCmd()
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"config", "--defaults"})
	if err := cmd.Execute(); err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{"port: 3000", "driver: file", "path: /live"} {
		if !strings.Contains(out.String(), want) {
			t.Errorf("config output misses %q:\n%s", want, out.String())
		}
	}

	out.Reset()
	cmd = rootCmd()
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"config", "--env"})
	if err := cmd.Execute(); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out.String(), "MYUI_STORE_DRIVER") {
		t.Errorf("env output = %s", out.String())
	}
}

func TestVersionCommand(t *testing.T) {
	var out bytes.Buffer
	cmd := rootCmd()
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"version", "--short"})
	if err := cmd.Execute(); err != nil {
		t.Fatal(err)
	}
	if got := strings.TrimSpace(out.String()); got != version {
		t.Errorf("version = %q, want %q", got, version)
	}
}

func TestServeFlagsOverrideConfig(t *testing.T) {
	cmd := serveCmd(new(string))
	if err := cmd.ParseFlags([]string{"--port=8081", "--store=memory"}); err != nil {
		t.Fatal(err)
	}
	f := serveFlags{port: 8081, driver: "memory"}
	cfg := config.New()
	if err := f.apply(cmd, cfg); err != nil {
		t.Fatal(err)
	}
	if cfg.Server.Port != 8081 || cfg.Store.Driver != "memory" || cfg.Server.Host != config.DefaultHost {
		t.Errorf("cfg = %+v", cfg.Server)
	}

	bad := serveFlags{driver: "mongo"}
	cmd = serveCmd(new(string))
	_ = cmd.ParseFlags([]string{"--store=mongo"})
	if err := bad.apply(cmd, config.New()); err == nil {
		t.Error("unknown driver accepted")
	}
}

func TestErrorsCommand(t *testing.T) {
	run := func(args ...string) (string, error) {
		var out bytes.Buffer
		cmd := rootCmd()
		cmd.SetOut(&out)
		cmd.SetArgs(append([]string{"errors"}, args...))
		err := cmd.Execute()
		return out.String(), err
	}

	list, err := run()
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{"E001", "E062", "E082", "E123"} {
		if !strings.Contains(list, want) {
			t.Errorf("list misses %s:\n%s", want, list)
		}
	}

	one, err := run("e081")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(one, "E081") || !strings.Contains(one, "Invalid student") || strings.Contains(one, "E080") {
		t.Errorf("explain E081 = %s", one)
	}

	js, err := run("--json", "E062")
	if err != nil {
		t.Fatal(err)
	}
	var got struct {
		Code     string `json:"code"`
		Category string `json:"category"`
	}
	if err := json.Unmarshal([]byte(js), &got); err != nil || got.Code != "E062" || got.Category != "protocol" {
		t.Errorf("json = %s (%v)", js, err)
	}

	if _, err := run("E999"); err == nil {
		t.Error("unknown code accepted")
	}
}
