package middleware

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/google/go-cmp/cmp"
	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
)

// metricValue returns the value of the counter or gauge called name whose
// labels include want.
func metricValue(t *testing.T, reg *prometheus.Registry, name string, want map[string]string) float64 {
	t.Helper()
	families, err := reg.Gather()
	if err != nil {
		t.Fatal(err)
	}
	for _, mf := range families {
		if mf.GetName() != name {
			continue
		}
		for _, m := range mf.GetMetric() {
			if !labelsMatch(m, want) {
				continue
			}
			switch {
			case m.Counter != nil:
				return m.Counter.GetValue()
			case m.Gauge != nil:
				return m.Gauge.GetValue()
			case m.Histogram != nil:
				return float64(m.Histogram.GetSampleCount())
			}
		}
	}
	return 0
}

func labelsMatch(m *dto.Metric, want map[string]string) bool {
	got := map[string]string{}
	for _, lp := range m.GetLabel() {
		got[lp.GetName()] = lp.GetValue()
	}
	for k, v := range want {
		if got[k] != v {
			return false
		}
	}
	return true
}

func newRouter(mw ...func(http.Handler) http.Handler) *chi.Mux {
	r := chi.NewRouter()
	r.Use(mw...)
	r.Get("/students/{id}", func(w http.ResponseWriter, r *http.Request) {
		if chi.URLParam(r, "id") == "0" {
			http.Error(w, "missing", http.StatusNotFound)
			return
		}
		w.Write([]byte("ok"))
	})
	r.Get("/boom", func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	})
	r.Get("/fail", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})
	return r
}

func serve(h http.Handler, method, target string, hdr map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, nil)
	for k, v := range hdr {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestMetricsHandler(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetrics(WithRegistry(reg), WithNamespace("test"))
	r := newRouter(m.Handler)

	serve(r, "GET", "/students/1", nil)
	serve(r, "GET", "/students/2", nil)
	serve(r, "GET", "/students/0", nil)

	if got := metricValue(t, reg, "test_http_requests_total", map[string]string{"route": "/students/{id}", "status": "200"}); got != 2 {
		t.Errorf("200 requests = %v, want 2", got)
	}
	if got := metricValue(t, reg, "test_http_requests_total", map[string]string{"route": "/students/{id}", "status": "404"}); got != 1 {
		t.Errorf("404 requests = %v, want 1", got)
	}
	if got := metricValue(t, reg, "test_http_request_duration_seconds", map[string]string{"method": "GET"}); got != 3 {
		t.Errorf("duration samples = %v, want 3", got)
	}
	if got := metricValue(t, reg, "test_http_requests_in_flight", nil); got != 0 {
		t.Errorf("in flight = %v, want 0", got)
	}
}

func TestLiveRecorders(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetrics(WithRegistry(reg))

	m.SessionOpened()
	m.SessionOpened()
	m.SessionClosed()
	m.RecordEvent("click", time.Millisecond, nil)
	m.RecordEvent("click", time.Millisecond, errors.New("event target not found"))
	m.RecordMutations(4)
	m.RecordMutations(0)
	m.RecordWebSocketError("read")

	checks := []struct {
		name   string
		labels map[string]string
		want   float64
	}{
		{"myui_live_sessions_active", nil, 1},
		{"myui_live_events_total", map[string]string{"event": "click", "status": "success"}, 1},
		{"myui_live_events_total", map[string]string{"event": "click", "status": "not_found"}, 1},
		{"myui_live_event_duration_seconds", nil, 2},
		{"myui_live_mutations_sent_total", nil, 4},
		{"myui_live_websocket_errors_total", map[string]string{"type": "read"}, 1},
	}
	for _, c := range checks {
		if got := metricValue(t, reg, c.name, c.labels); got != c.want {
			t.Errorf("%s%v = %v, want %v", c.name, c.labels, got, c.want)
		}
	}
}

func TestNilMetricsIsNoop(t *testing.T) {
	var m *Metrics
	m.SessionOpened()
	m.SessionClosed()
	m.RecordEvent("input", 0, nil)
	m.RecordMutations(3)
	m.RecordWebSocketError("write")

	h := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {})
	if got := m.Handler(h); got == nil {
		t.Fatal("nil Metrics.Handler returned nil")
	}
}

func TestCategorizeError(t *testing.T) {
	tests := []struct {
		err  string
		want string
	}{
		{"read: i/o timeout", "timeout"},
		{"Event target not found", "not_found"},
		{"invalid client message", "validation"},
		{"websocket: close 1006", "websocket"},
		{"loop task panic", "panic"},
		{"disk full", "internal"},
	}
	for _, tt := range tests {
		if got := categorizeError(errors.New(tt.err)); got != tt.want {
			t.Errorf("categorizeError(%q) = %q, want %q", tt.err, got, tt.want)
		}
	}
}

type recordingTracer struct {
	noop.Tracer
	mu    sync.Mutex
	spans []string
	attrs [][]attribute.KeyValue
}

func (r *recordingTracer) Start(ctx context.Context, name string, opts ...trace.SpanStartOption) (context.Context, trace.Span) {
	cfg := trace.NewSpanStartConfig(opts...)
	r.mu.Lock()
	r.spans = append(r.spans, name)
	r.attrs = append(r.attrs, cfg.Attributes())
	r.mu.Unlock()
	return r.Tracer.Start(ctx, name, opts...)
}

func TestTracingStartsServerSpan(t *testing.T) {
	tr := &recordingTracer{}
	var sawSpan bool
	h := Tracing(WithTracer(tr), WithAttributeExtractor(func(*http.Request) []attribute.KeyValue {
		return []attribute.KeyValue{attribute.String("test.attr", "ok")}
	}))(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sawSpan = trace.SpanFromContext(r.Context()) != nil
	}))

	serve(chimw.RequestID(h), "GET", "/students", nil)

	if diff := cmp.Diff([]string{"GET /students"}, tr.spans); diff != "" {
		t.Errorf("spans (-want +got):\n%s", diff)
	}
	if !sawSpan {
		t.Error("handler context carried no span")
	}
	keys := map[attribute.Key]bool{}
	for _, kv := range tr.attrs[0] {
		keys[kv.Key] = true
	}
	for _, k := range []attribute.Key{"http.method", "http.target", "http.request_id", "test.attr"} {
		if !keys[k] {
			t.Errorf("missing attribute %s", k)
		}
	}
}

func TestTracingFilter(t *testing.T) {
	tr := &recordingTracer{}
	h := Tracing(WithTracer(tr), WithRequestFilter(func(r *http.Request) bool {
		return r.URL.Path != "/healthz"
	}))(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))

	serve(h, "GET", "/healthz", nil)
	serve(h, "GET", "/students", nil)

	if diff := cmp.Diff([]string{"GET /students"}, tr.spans); diff != "" {
		t.Errorf("spans (-want +got):\n%s", diff)
	}
}

func TestRequestLoggerLevels(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	r := newRouter(RequestLogger(logger))

	serve(r, "GET", "/students/1", nil)
	serve(r, "GET", "/students/0", nil)
	serve(r, "GET", "/fail", nil)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 3 {
		t.Fatalf("got %d log lines:\n%s", len(lines), buf.String())
	}
	for i, want := range []string{"level=DEBUG", "level=WARN", "level=ERROR"} {
		if !strings.Contains(lines[i], want) || !strings.Contains(lines[i], `msg="http request"`) {
			t.Errorf("line %d = %s, want %s", i, lines[i], want)
		}
	}
	if !strings.Contains(lines[1], "status=404") {
		t.Errorf("missing status: %s", lines[1])
	}
}

func TestRecoverer(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))
	r := newRouter(Recoverer(logger))

	rec := serve(r, "GET", "/boom", nil)
	if rec.Code != http.StatusInternalServerError {
		t.Errorf("status = %d, want 500", rec.Code)
	}
	if !strings.Contains(buf.String(), "handler panic") || !strings.Contains(buf.String(), "stack=") {
		t.Errorf("panic not logged: %s", buf.String())
	}
}

func TestCORS(t *testing.T) {
	reached := 0
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		reached++
		w.WriteHeader(http.StatusTeapot)
	})
	preflight := map[string]string{
		"Origin":                        "http://ui.test",
		"Access-Control-Request-Method": "PUT",
	}

	t.Run("any origin", func(t *testing.T) {
		h := CORS(DefaultCORSConfig())(next)
		rec := serve(h, "GET", "/students", map[string]string{"Origin": "http://ui.test"})
		if rec.Code != http.StatusTeapot {
			t.Errorf("code = %d", rec.Code)
		}
		if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "*" && got != "http://ui.test" {
			t.Errorf("Allow-Origin = %q", got)
		}
	})

	t.Run("preflight", func(t *testing.T) {
		reached = 0
		h := CORS(DefaultCORSConfig())(next)
		rec := serve(h, "OPTIONS", "/students/1", preflight)
		if reached != 0 || rec.Code >= 300 {
			t.Fatalf("preflight reached the router: code = %d", rec.Code)
		}
		if got := rec.Header().Get("Access-Control-Allow-Methods"); !strings.Contains(got, "PUT") {
			t.Errorf("Allow-Methods = %q", got)
		}
		if got := rec.Header().Get("Access-Control-Max-Age"); got != "600" {
			t.Errorf("Max-Age = %q", got)
		}
	})

	t.Run("listed origin", func(t *testing.T) {
		h := CORS(CORSConfig{AllowedOrigins: []string{"http://a.test/"}})(next)
		rec := serve(h, "GET", "/", map[string]string{"Origin": "http://a.test"})
		if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "http://a.test" {
			t.Errorf("Allow-Origin = %q", got)
		}
		if !strings.Contains(strings.Join(rec.Header().Values("Vary"), ","), "Origin") {
			t.Errorf("Vary = %q", rec.Header().Values("Vary"))
		}
		rec = serve(h, "GET", "/", map[string]string{"Origin": "http://evil.test"})
		if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "" {
			t.Errorf("disallowed origin got %q", got)
		}
	})

	t.Run("disallowed preflight is answered", func(t *testing.T) {
		reached = 0
		h := CORS(CORSConfig{AllowedOrigins: []string{"http://a.test"}})(next)
		rec := serve(h, "OPTIONS", "/students", preflight)
		if reached != 0 {
			t.Errorf("preflight from a disallowed origin reached the router (code %d)", rec.Code)
		}
		if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "" {
			t.Errorf("Allow-Origin = %q", got)
		}
	})

	t.Run("empty list allows none", func(t *testing.T) {
		h := CORS(CORSConfig{})(next)
		rec := serve(h, "GET", "/", map[string]string{"Origin": "http://ui.test"})
		if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "" {
			t.Errorf("Allow-Origin = %q", got)
		}
	})
}
