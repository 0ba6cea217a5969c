package live

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"
	"github.com/oklog/ulid/v2"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/myui-dev/myui/internal/errors"
	"github.com/myui-dev/myui/pkg/dom"
	"github.com/myui-dev/myui/pkg/loop"
	"github.com/myui-dev/myui/pkg/ui"
	"github.com/myui-dev/myui/pkg/vdom"
)

// RootFunc returns the descriptor a new session mounts into its body.
type RootFunc func(s *Session) *vdom.VNode

// Session is one browser connection with its own document, event loop and
// runtime. Everything that touches the document runs on the loop goroutine.
type Session struct {
	id     string
	conn   *websocket.Conn
	config Config
	logger *slog.Logger

	doc  *dom.Document
	loop *loop.Loop
	rt   *ui.Runtime

	recorder Recorder
	tracer   trace.Tracer

	ctx    context.Context
	cancel context.CancelFunc

	// mu serializes writes to conn.
	mu      sync.Mutex
	seq     atomic.Uint64
	done    chan struct{}
	stopped chan struct{}
	closed  atomic.Bool

	eventCount    atomic.Uint64
	mutationCount atomic.Uint64
	created       time.Time
}

func newSession(conn *websocket.Conn, srv *Server) *Session {
	id := ulid.Make().String()
	ctx, cancel := context.WithCancel(context.Background())
	s := &Session{
		id:       id,
		conn:     conn,
		config:   srv.config,
		logger:   srv.logger.With("session", id),
		doc:      dom.NewDocument(),
		recorder: srv.recorder,
		tracer:   srv.tracer,
		ctx:      ctx,
		cancel:   cancel,
		done:     make(chan struct{}),
		stopped:  make(chan struct{}),
		created:  time.Now(),
	}
	s.loop = loop.New(
		loop.WithLogger(s.logger),
		loop.WithPanicHandler(s.onPanic),
	)
	opts := []ui.Option{ui.WithLogger(s.logger)}
	if srv.renderMetrics != nil {
		opts = append(opts, ui.WithMetrics(srv.renderMetrics))
	}
	s.rt = ui.New(s.doc, s.loop, opts...)
	s.rt.OnAfterRender(s.flush)
	return s
}

// ID returns the session id.
func (s *Session) ID() string { return s.id }

// Context is cancelled when the session closes.
func (s *Session) Context() context.Context { return s.ctx }

// Logger returns the session logger.
func (s *Session) Logger() *slog.Logger { return s.logger }

// Document returns the session document. Only touch it from the loop.
func (s *Session) Document() *dom.Document { return s.doc }

// Runtime returns the session runtime.
func (s *Session) Runtime() *ui.Runtime { return s.rt }

// Dispatch queues fn on the session loop. It reports false once the session
// has closed.
func (s *Session) Dispatch(fn func()) bool {
	if s.closed.Load() {
		return false
	}
	return s.loop.Dispatch(fn)
}

// Done is closed when the session closes.
func (s *Session) Done() <-chan struct{} { return s.done }

// IsClosed reports whether Close has been called.
func (s *Session) IsClosed() bool { return s.closed.Load() }

// SessionStats is a point-in-time view of a session.
type SessionStats struct {
	ID        string
	Events    uint64
	Mutations uint64
	Seq       uint64
	Age       time.Duration
}

// Stats returns the session counters.
func (s *Session) Stats() SessionStats {
	return SessionStats{
		ID:        s.id,
		Events:    s.eventCount.Load(),
		Mutations: s.mutationCount.Load(),
		Seq:       s.seq.Load(),
		Age:       time.Since(s.created),
	}
}

// start mounts root and sends the initial tree. Mutations are journaled
// from then on.
func (s *Session) start(root RootFunc) error {
	err := error(errors.New("E063").WithDetail("mount panicked"))
	s.loop.Do(func() {
		s.doc.SetRecording(false)
		if err = s.rt.Mount(root(s), s.doc.Body()); err != nil {
			return
		}
		err = s.send(ServerMessage{
			Type:    TypeInit,
			Session: s.id,
			Seq:     s.seq.Add(1),
			Tree:    s.doc.Body().Snapshot(),
		})
		s.doc.SetRecording(true)
	})
	return err
}

// flush sends the journaled mutations as one patch.
func (s *Session) flush() {
	muts := s.doc.TakeMutations()
	if len(muts) == 0 || s.closed.Load() {
		return
	}
	msg := ServerMessage{Type: TypePatch, Seq: s.seq.Add(1), Mutations: muts}
	if err := s.send(msg); err != nil {
		s.logger.Error("write error", "error", err)
		s.recorder.RecordWebSocketError("write")
		go s.Close()
		return
	}
	s.mutationCount.Add(uint64(len(muts)))
	s.recorder.RecordMutations(len(muts))
	s.logger.Debug("sent patch", "seq", msg.Seq, "count", len(muts))
}

func (s *Session) send(msg ServerMessage) error {
	data, err := EncodeServerMessage(msg)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed.Load() {
		return errClosed
	}
	s.conn.SetWriteDeadline(time.Now().Add(s.config.WriteTimeout))
	return s.conn.WriteMessage(websocket.TextMessage, data)
}

func (s *Session) sendError(err *errors.MyUIError) {
	if werr := s.send(errorMessage(err)); werr != nil && werr != errClosed {
		s.logger.Debug("error message not sent", "error", werr)
	}
}

func (s *Session) sendPing() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed.Load() {
		return errClosed
	}
	return s.conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(s.config.WriteTimeout))
}

// readLoop reads client frames until the connection fails or closes.
func (s *Session) readLoop() {
	defer s.Close()

	s.conn.SetReadLimit(s.config.MaxMessageSize)
	s.conn.SetReadDeadline(time.Now().Add(s.config.readTimeout()))
	s.conn.SetPongHandler(func(string) error {
		return s.conn.SetReadDeadline(time.Now().Add(s.config.readTimeout()))
	})

	for {
		_, data, err := s.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err,
				websocket.CloseGoingAway,
				websocket.CloseAbnormalClosure,
				websocket.CloseNormalClosure) {
				s.logger.Error("read error", "error", err)
				s.recorder.RecordWebSocketError("read")
			}
			return
		}
		s.conn.SetReadDeadline(time.Now().Add(s.config.readTimeout()))

		msg, err := DecodeClientMessage(data)
		if err != nil {
			s.logger.Warn("invalid client message", "error", err)
			s.recorder.RecordWebSocketError("decode")
			if me, ok := err.(*errors.MyUIError); ok {
				s.sendError(me)
			}
			continue
		}
		if !s.Dispatch(func() { s.handleEvent(msg) }) {
			return
		}
	}
}

// writeLoop pings the client until the session closes.
func (s *Session) writeLoop() {
	ticker := time.NewTicker(s.config.PingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-s.done:
			return
		case <-ticker.C:
			if err := s.sendPing(); err != nil {
				if err != errClosed {
					s.logger.Error("ping error", "error", err)
					s.recorder.RecordWebSocketError("ping")
				}
				s.Close()
				return
			}
		}
	}
}

// eventLoop runs the session loop until the session closes, then unmounts
// the root so that effect cleanups run.
func (s *Session) eventLoop() {
	defer close(s.stopped)
	_ = s.loop.Run(s.ctx)

	s.doc.SetRecording(false)
	if err := s.rt.Unmount(s.doc.Body()); err != nil {
		s.logger.Debug("unmount on close", "error", err)
	}
	s.loop.Close()
}

// handleEvent applies a client event to the document. Runs on the loop.
func (s *Session) handleEvent(msg ClientMessage) {
	start := time.Now()
	s.eventCount.Add(1)

	_, span := s.tracer.Start(s.ctx, "live."+msg.Event,
		trace.WithAttributes(
			attribute.String("live.session", s.id),
			attribute.Int64("live.node", int64(msg.Node)),
		),
	)
	defer span.End()

	node, ok := s.doc.NodeByID(msg.Node)
	if !ok {
		err := errors.New("E062").WithDetailf("node %d", msg.Node)
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Message)
		s.recorder.RecordEvent(msg.Event, time.Since(start), err)
		s.logger.Debug("event target not found", "node", msg.Node, "event", msg.Event)
		s.sendError(err)
		return
	}

	if msg.Value != nil && node.Type() == dom.ElementNode {
		node.SetValue(*msg.Value)
	}
	ev := dom.NewEvent(msg.Event)
	ev.Key = msg.Key
	node.DispatchEvent(ev)

	// Runs after any re-render the handlers scheduled.
	s.loop.QueueMicrotask(s.flush)
	s.recorder.RecordEvent(msg.Event, time.Since(start), nil)
}

func (s *Session) onPanic(r any, stack []byte) {
	s.logger.Error("session task panicked",
		"panic", r,
		"stack", string(stack))
	s.recorder.RecordWebSocketError("panic")
	s.sendError(errors.New("E063").WithDetailf("%v", r))
}

// Close ends the session. It is safe to call more than once and from any
// goroutine.
func (s *Session) Close() {
	if s.closed.Swap(true) {
		return
	}
	close(s.done)
	s.cancel()

	s.mu.Lock()
	s.conn.WriteControl(
		websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
		time.Now().Add(time.Second),
	)
	s.conn.Close()
	s.mu.Unlock()

	s.recorder.SessionClosed()
	s.logger.Info("session closed",
		"events", s.eventCount.Load(),
		"mutations", s.mutationCount.Load(),
		"duration", time.Since(s.created))
}
