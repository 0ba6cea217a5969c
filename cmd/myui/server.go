package main

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/goccy/go-json"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel"

	"github.com/myui-dev/myui/internal/config"
	"github.com/myui-dev/myui/pkg/api"
	"github.com/myui-dev/myui/pkg/hooks"
	"github.com/myui-dev/myui/pkg/live"
	"github.com/myui-dev/myui/pkg/middleware"
	"github.com/myui-dev/myui/pkg/registryui"
	"github.com/myui-dev/myui/pkg/student"
	"github.com/myui-dev/myui/pkg/ui"
	"github.com/myui-dev/myui/pkg/vdom"
)

const tracerName = "github.com/myui-dev/myui"

// server wires the student store, the JSON API and the live UI into one
// HTTP handler.
type server struct {
	cfg      *config.Config
	logger   *slog.Logger
	store    student.Store
	hub      *live.Hub
	live     *live.Server
	registry *prometheus.Registry
	handler  http.Handler
}

// openStore opens the configured store wrapped with tracing spans.
func openStore(cfg *config.Config) (student.Store, error) {
	s, err := student.Open(student.Options{
		Driver:     cfg.Store.Driver,
		Path:       cfg.Store.Path,
		BoltPath:   cfg.Store.Bolt.Path,
		BoltBucket: cfg.Store.Bolt.Bucket,
		S3Bucket:   cfg.Store.S3.Bucket,
		S3Key:      cfg.Store.S3.Key,
		S3: student.S3ClientOptions{
			Region:       cfg.Store.S3.Region,
			Endpoint:     cfg.Store.S3.Endpoint,
			UsePathStyle: cfg.Store.S3.UsePathStyle,
		},
	})
	if err != nil {
		return nil, err
	}
	return student.Traced(s, otel.Tracer(tracerName)), nil
}

func newServer(cfg *config.Config, logger *slog.Logger, store student.Store) *server {
	s := &server{
		cfg:    cfg,
		logger: logger,
		store:  store,
		hub:    live.NewHub(),
	}

	var (
		httpMetrics   *middleware.Metrics
		renderMetrics *ui.Metrics
	)
	if cfg.MetricsEnabled() {
		s.registry = prometheus.NewRegistry()
		s.registry.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
		httpMetrics = middleware.NewMetrics(
			middleware.WithNamespace(cfg.Metrics.Namespace),
			middleware.WithRegistry(s.registry),
		)
		renderMetrics = ui.NewMetrics(ui.MetricsConfig{
			Namespace: cfg.Metrics.Namespace,
			Registry:  s.registry,
		})
	}

	hooks.DebugMode = cfg.Live.Debug

	s.live = live.NewServer(s.root,
		live.WithConfig(live.Config{PingInterval: cfg.Live.PingInterval.Std()}),
		live.WithLogger(logger.With("component", "live")),
		live.WithRecorder(httpMetrics),
		live.WithRenderMetrics(renderMetrics),
		live.WithTracer(otel.Tracer(tracerName)),
	)

	students := api.New(store,
		api.WithLogger(logger.With("component", "api")),
		api.WithOnChange(s.hub.Notify),
	)

	cors := middleware.DefaultCORSConfig()
	cors.AllowedOrigins = cfg.Server.CORSOrigins

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.Recoverer(logger))
	r.Use(httpMetrics.Handler)
	r.Use(middleware.Tracing(
		middleware.WithTracerName(tracerName),
		middleware.WithRequestFilter(s.traced),
	))
	r.Use(middleware.RequestLogger(logger))

	r.Group(func(r chi.Router) {
		r.Use(middleware.CORS(cors))
		students.Routes(r)
	})

	r.Get("/healthz", s.health)
	if s.registry != nil {
		r.Handle(cfg.Metrics.Path, promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{}))
	}
	if cfg.StaticEnabled() {
		r.Handle("/", live.PageHandler(live.PageOptions{
			LivePath: cfg.Live.Path,
			Debug:    cfg.Live.Debug,
		}))
		r.Handle("/live.js", live.ScriptHandler(cfg.Live.Debug))
	}
	r.Handle(cfg.Live.Path, s.live)

	s.handler = r
	return s
}

// root builds the registry UI for one live session.
func (s *server) root(sess *live.Session) *vdom.VNode {
	env := &registryui.Env{
		Store:    s.store,
		Dispatch: sess.Dispatch,
		Subscribe: func(fn func()) func() {
			return s.hub.Subscribe(sess.ID(), fn)
		},
		Changed: func() { s.hub.Publish(sess.ID()) },
		Context: sess.Context(),
		Logger:  sess.Logger(),
	}
	return vdom.C(registryui.App, vdom.Props{"env": env})
}

// traced skips spans for probes, scrapes and the long-lived WebSocket.
func (s *server) traced(r *http.Request) bool {
	switch r.URL.Path {
	case "/healthz", s.cfg.Metrics.Path, s.cfg.Live.Path:
		return false
	}
	return true
}

type healthStatus struct {
	Status   string `json:"status"`
	Driver   string `json:"driver,omitempty"`
	Sessions int    `json:"sessions"`
}

func (s *server) health(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	st := healthStatus{Status: "ok", Driver: student.DriverOf(s.store), Sessions: s.live.Len()}
	code := http.StatusOK
	if _, err := s.store.List(ctx); err != nil {
		s.logger.Warn("health check failed", "error", err)
		st.Status = "unavailable"
		code = http.StatusServiceUnavailable
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(st)
}

// shutdown closes the live sessions and then the store.
func (s *server) shutdown(ctx context.Context) error {
	err := s.live.Shutdown(ctx)
	if cerr := s.store.Close(); err == nil {
		err = cerr
	}
	return err
}
