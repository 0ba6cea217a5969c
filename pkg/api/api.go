// Package api serves the student registry over HTTP.
//
//	GET    /students       list every student
//	GET    /students/{id}  one student
//	POST   /students       create; responds with the created student
//	PUT    /students/{id}  merge the body into the student; {"success":true}
//	DELETE /students/{id}  remove; {"success":true}
//
// Unknown ids answer 404 and malformed or invalid bodies answer 400, both
// with {"success":false,"error":"..."}.
package api

import (
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/goccy/go-json"

	myerrors "github.com/myui-dev/myui/internal/errors"
	"github.com/myui-dev/myui/pkg/student"
)

// MaxBodyBytes bounds request bodies.
const MaxBodyBytes = 64 << 10

// Handler serves the /students routes.
type Handler struct {
	store  student.Store
	logger *slog.Logger
	// onChange runs after every successful mutation.
	onChange func()
}

// Option configures a Handler.
type Option func(*Handler)

// WithLogger sets the logger used for server errors.
func WithLogger(l *slog.Logger) Option {
	return func(h *Handler) {
		h.logger = l
	}
}

// WithOnChange registers fn to run after each create, update or delete.
func WithOnChange(fn func()) Option {
	return func(h *Handler) {
		h.onChange = fn
	}
}

// New returns a handler over store.
func New(store student.Store, opts ...Option) *Handler {
	h := &Handler{store: store, logger: slog.Default()}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Routes registers the student routes on r.
func (h *Handler) Routes(r chi.Router) {
	r.Route("/students", func(r chi.Router) {
		r.Get("/", h.list)
		r.Post("/", h.create)
		r.Get("/{id}", h.get)
		r.Put("/{id}", h.update)
		r.Delete("/{id}", h.remove)
	})
}

// Router returns a chi router serving only the student routes.
func (h *Handler) Router() chi.Router {
	r := chi.NewRouter()
	h.Routes(r)
	return r
}

// Result is the body of PUT and DELETE responses and of every error.
type Result struct {
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
	Code    string `json:"code,omitempty"`
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	students, err := h.store.List(r.Context())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, students)
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	id, ok := h.id(w, r)
	if !ok {
		return
	}
	s, err := h.store.Get(r.Context(), id)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, s)
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var in student.Student
	if !h.decode(w, r, &in) {
		return
	}
	s, err := h.store.Create(r.Context(), in)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.changed()
	writeJSON(w, http.StatusOK, s)
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	id, ok := h.id(w, r)
	if !ok {
		return
	}
	var p student.Patch
	if !h.decode(w, r, &p) {
		return
	}
	if _, err := h.store.Update(r.Context(), id, p); err != nil {
		h.fail(w, r, err)
		return
	}
	h.changed()
	writeJSON(w, http.StatusOK, Result{Success: true})
}

func (h *Handler) remove(w http.ResponseWriter, r *http.Request) {
	id, ok := h.id(w, r)
	if !ok {
		return
	}
	if err := h.store.Delete(r.Context(), id); err != nil {
		h.fail(w, r, err)
		return
	}
	h.changed()
	writeJSON(w, http.StatusOK, Result{Success: true})
}

func (h *Handler) changed() {
	if h.onChange != nil {
		h.onChange()
	}
}

func (h *Handler) id(w http.ResponseWriter, r *http.Request) (int64, bool) {
	raw := chi.URLParam(r, "id")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		// A non-numeric id can never match a stored student.
		writeError(w, http.StatusNotFound, myerrors.New("E080").WithDetailf("No student with id %q", raw))
		return 0, false
	}
	return id, true
}

func (h *Handler) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, MaxBodyBytes))
	if err != nil {
		writeError(w, http.StatusBadRequest, myerrors.New("E081").WithDetail("request body too large"))
		return false
	}
	if err := json.Unmarshal(body, v); err != nil {
		writeError(w, http.StatusBadRequest, myerrors.New("E081").WithDetail("body is not a JSON object").Wrap(err))
		return false
	}
	return true
}

// fail maps store errors to responses.
func (h *Handler) fail(w http.ResponseWriter, r *http.Request, err error) {
	var ve *student.ValidationError
	switch {
	case errors.Is(err, student.ErrNotFound):
		writeError(w, http.StatusNotFound, myerrors.New("E080").Wrap(err))
	case errors.As(err, &ve):
		writeError(w, http.StatusBadRequest, myerrors.New("E081").WithDetail(ve.Field+" "+ve.Message).Wrap(err))
	default:
		h.logger.Error("student store failed",
			"method", r.Method,
			"path", r.URL.Path,
			"error", err,
		)
		writeError(w, http.StatusInternalServerError, myerrors.FromError(err, "E082"))
	}
}

func writeError(w http.ResponseWriter, status int, e *myerrors.MyUIError) {
	msg := e.Message
	if e.Detail != "" {
		msg += ": " + e.Detail
	}
	writeJSON(w, status, Result{Success: false, Error: msg, Code: e.Code})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	w.Write(data)
}
