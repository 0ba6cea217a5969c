package student

import (
	"context"
	"errors"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "github.com/myui-dev/myui/pkg/student"

// TracedStore records one span per store operation.
type TracedStore struct {
	next   Store
	tracer trace.Tracer
	driver string
}

// Traced wraps s. A nil tracer uses the global provider.
func Traced(s Store, tracer trace.Tracer) *TracedStore {
	if tracer == nil {
		tracer = otel.Tracer(tracerName)
	}
	return &TracedStore{next: s, tracer: tracer, driver: DriverOf(s)}
}

// Unwrap returns the wrapped store.
func (t *TracedStore) Unwrap() Store { return t.next }

// Driver reports the wrapped store's driver.
func (t *TracedStore) Driver() string { return t.driver }

func (t *TracedStore) start(ctx context.Context, op string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	attrs = append(attrs, attribute.String("student.driver", t.driver))
	return t.tracer.Start(ctx, "student."+op,
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(attrs...),
	)
}

func end(span trace.Span, err error) {
	switch {
	case err == nil:
		span.SetStatus(codes.Ok, "")
	case errors.Is(err, ErrNotFound):
		span.SetAttributes(attribute.Bool("student.not_found", true))
	default:
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}

func (t *TracedStore) List(ctx context.Context) ([]Student, error) {
	ctx, span := t.start(ctx, "List")
	list, err := t.next.List(ctx)
	span.SetAttributes(attribute.Int("student.count", len(list)))
	end(span, err)
	return list, err
}

func (t *TracedStore) Get(ctx context.Context, id int64) (Student, error) {
	ctx, span := t.start(ctx, "Get", attribute.Int64("student.id", id))
	s, err := t.next.Get(ctx, id)
	end(span, err)
	return s, err
}

func (t *TracedStore) Create(ctx context.Context, s Student) (Student, error) {
	ctx, span := t.start(ctx, "Create")
	out, err := t.next.Create(ctx, s)
	if err == nil {
		span.SetAttributes(attribute.Int64("student.id", out.ID))
	}
	end(span, err)
	return out, err
}

func (t *TracedStore) Update(ctx context.Context, id int64, p Patch) (Student, error) {
	ctx, span := t.start(ctx, "Update", attribute.Int64("student.id", id))
	out, err := t.next.Update(ctx, id, p)
	end(span, err)
	return out, err
}

func (t *TracedStore) Delete(ctx context.Context, id int64) error {
	ctx, span := t.start(ctx, "Delete", attribute.Int64("student.id", id))
	err := t.next.Delete(ctx, id)
	end(span, err)
	return err
}

func (t *TracedStore) Close() error {
	return t.next.Close()
}
