package hooks

import (
	"errors"

	myerrors "github.com/myui-dev/myui/internal/errors"
)

// ErrInvalidHookContext is wrapped by the panic value of a hook called
// outside Run.
var ErrInvalidHookContext = errors.New("hooks: hook called outside a component render")

// ErrHookOrder is wrapped by the panic value of a hook order violation.
var ErrHookOrder = errors.New("hooks: hook order changed")

func contextError(hook string) error {
	return myerrors.New("E001").
		WithDetailf("%s called with no active render frame", hook).
		WithSuggestion("Call hooks from a component body rendered through hooks.Run.").
		Wrap(ErrInvalidHookContext)
}

func orderError(format string, args ...any) error {
	return myerrors.New("E002").WithDetailf(format, args...).Wrap(ErrHookOrder)
}
