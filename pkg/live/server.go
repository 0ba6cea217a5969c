package live

import (
	"context"
	stderrors "errors"
	"log/slog"
	"net/http"
	"net/url"
	"sort"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"github.com/myui-dev/myui/pkg/ui"
)

var errClosed = stderrors.New("live: session closed")

// Recorder receives session metrics. *middleware.Metrics implements it.
type Recorder interface {
	SessionOpened()
	SessionClosed()
	RecordEvent(event string, d time.Duration, err error)
	RecordMutations(n int)
	RecordWebSocketError(errorType string)
}

type nopRecorder struct{}

func (nopRecorder) SessionOpened() {}
func (nopRecorder) SessionClosed() {}
func (nopRecorder) RecordEvent(string, time.Duration, error) {}
func (nopRecorder) RecordMutations(int) {}
func (nopRecorder) RecordWebSocketError(string) {}

// Config holds the WebSocket settings of a Server.
type Config struct {
	// PingInterval is how often the server pings the client. The read
	// deadline is twice this.
	PingInterval time.Duration

	// WriteTimeout bounds every write.
	WriteTimeout time.Duration

	// MaxMessageSize is the largest client frame accepted, in bytes.
	MaxMessageSize int64

	ReadBufferSize  int
	WriteBufferSize int

	// CheckOrigin validates the Origin header of the upgrade request.
	// Nil means SameOriginCheck.
	CheckOrigin func(r *http.Request) bool
}

// DefaultConfig returns the default settings.
func DefaultConfig() Config {
	return Config{
		PingInterval:    30 * time.Second,
		WriteTimeout:    10 * time.Second,
		MaxMessageSize:  64 * 1024,
		ReadBufferSize:  4096,
		WriteBufferSize: 4096,
		CheckOrigin:     SameOriginCheck,
	}
}

func (c Config) readTimeout() time.Duration { return 2 * c.PingInterval }

// SameOriginCheck accepts requests without an Origin header and requests
// whose Origin host matches the request host.
func SameOriginCheck(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		return true
	}
	u, err := url.Parse(origin)
	if err != nil {
		return false
	}
	return r.Host != "" && u.Host == r.Host
}

// Option configures a Server.
type Option func(*Server)

// WithConfig replaces the connection settings. Zero fields keep their
// defaults.
func WithConfig(c Config) Option {
	return func(s *Server) {
		d := DefaultConfig()
		if c.PingInterval > 0 {
			d.PingInterval = c.PingInterval
		}
		if c.WriteTimeout > 0 {
			d.WriteTimeout = c.WriteTimeout
		}
		if c.MaxMessageSize > 0 {
			d.MaxMessageSize = c.MaxMessageSize
		}
		if c.ReadBufferSize > 0 {
			d.ReadBufferSize = c.ReadBufferSize
		}
		if c.WriteBufferSize > 0 {
			d.WriteBufferSize = c.WriteBufferSize
		}
		if c.CheckOrigin != nil {
			d.CheckOrigin = c.CheckOrigin
		}
		s.config = d
	}
}

// WithLogger sets the logger. Sessions log with a "session" attribute.
func WithLogger(l *slog.Logger) Option {
	return func(s *Server) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithRecorder sets the metrics recorder.
func WithRecorder(r Recorder) Option {
	return func(s *Server) {
		if r != nil {
			s.recorder = r
		}
	}
}

// WithRenderMetrics attaches render metrics to every session runtime.
func WithRenderMetrics(m *ui.Metrics) Option {
	return func(s *Server) { s.renderMetrics = m }
}

// WithTracer sets the tracer for event spans.
func WithTracer(t trace.Tracer) Option {
	return func(s *Server) {
		if t != nil {
			s.tracer = t
		}
	}
}

// Server upgrades HTTP requests to live sessions.
type Server struct {
	config        Config
	upgrader      websocket.Upgrader
	root          RootFunc
	logger        *slog.Logger
	recorder      Recorder
	renderMetrics *ui.Metrics
	tracer        trace.Tracer

	mu       sync.Mutex
	sessions map[string]*Session
	closing  bool
	wg       sync.WaitGroup
}

// NewServer returns a Server mounting root for every connection.
func NewServer(root RootFunc, opts ...Option) *Server {
	s := &Server{
		config:   DefaultConfig(),
		root:     root,
		logger:   slog.Default(),
		recorder: nopRecorder{},
		tracer:   otel.Tracer("github.com/myui-dev/myui/pkg/live"),
		sessions: make(map[string]*Session),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.upgrader = websocket.Upgrader{
		ReadBufferSize:  s.config.ReadBufferSize,
		WriteBufferSize: s.config.WriteBufferSize,
		CheckOrigin:     s.config.CheckOrigin,
	}
	return s
}

// ServeHTTP upgrades the request and runs the session until it closes.
func (srv *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	srv.mu.Lock()
	if srv.closing {
		srv.mu.Unlock()
		http.Error(w, "server shutting down", http.StatusServiceUnavailable)
		return
	}
	srv.wg.Add(1)
	srv.mu.Unlock()
	defer srv.wg.Done()

	conn, err := srv.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// The upgrader has already written the HTTP error.
		srv.logger.Warn("websocket upgrade failed",
			"code", "E060",
			"remote", r.RemoteAddr,
			"error", err)
		srv.recorder.RecordWebSocketError("upgrade")
		return
	}

	s := newSession(conn, srv)
	srv.add(s)
	defer srv.remove(s)

	srv.recorder.SessionOpened()
	s.logger.Info("session opened", "remote", r.RemoteAddr)

	if err := s.start(srv.root); err != nil {
		s.logger.Error("session start failed", "error", err)
		s.Close()
		go s.eventLoop()
		<-s.stopped
		return
	}

	go s.writeLoop()
	go s.eventLoop()
	s.readLoop()
	<-s.stopped
}

func (srv *Server) add(s *Session) {
	srv.mu.Lock()
	srv.sessions[s.id] = s
	closing := srv.closing
	srv.mu.Unlock()
	if closing {
		s.Close()
	}
}

func (srv *Server) remove(s *Session) {
	srv.mu.Lock()
	delete(srv.sessions, s.id)
	srv.mu.Unlock()
}

// Len returns the number of open sessions.
func (srv *Server) Len() int {
	srv.mu.Lock()
	defer srv.mu.Unlock()
	return len(srv.sessions)
}

// Session returns the open session with the given id.
func (srv *Server) Session(id string) (*Session, bool) {
	srv.mu.Lock()
	defer srv.mu.Unlock()
	s, ok := srv.sessions[id]
	return s, ok
}

// Stats returns the stats of every open session ordered by id.
func (srv *Server) Stats() []SessionStats {
	srv.mu.Lock()
	out := make([]SessionStats, 0, len(srv.sessions))
	for _, s := range srv.sessions {
		out = append(out, s.Stats())
	}
	srv.mu.Unlock()
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Shutdown closes every session and waits for their handlers to return or
// for ctx to end. New connections are refused.
func (srv *Server) Shutdown(ctx context.Context) error {
	srv.mu.Lock()
	srv.closing = true
	sessions := make([]*Session, 0, len(srv.sessions))
	for _, s := range srv.sessions {
		sessions = append(sessions, s)
	}
	srv.mu.Unlock()

	for _, s := range sessions {
		s.Close()
	}

	done := make(chan struct{})
	go func() {
		srv.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		srv.logger.Info("live server stopped", "sessions", len(sessions))
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
