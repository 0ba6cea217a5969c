package ui

import (
	"errors"

	myerrors "github.com/myui-dev/myui/internal/errors"
	"github.com/myui-dev/myui/pkg/vdom"
)

var (
	// ErrUnsupportedType is wrapped when a descriptor kind cannot be rendered.
	ErrUnsupportedType = errors.New("ui: unsupported descriptor type")

	// ErrUnknownRoot is wrapped when a target has no mounted root.
	ErrUnknownRoot = errors.New("ui: target has no root")

	// ErrNotChild is wrapped when Diff is given a node outside parent.
	ErrNotChild = errors.New("ui: node is not a child of parent")
)

func unsupportedType(desc *vdom.VNode) error {
	return myerrors.New("E020").
		WithDetailf("cannot render %s descriptor of type %T", desc.Kind, desc.Type).
		Wrap(ErrUnsupportedType)
}

func unknownRoot() error {
	return myerrors.New("E021").Wrap(ErrUnknownRoot)
}

func notChild() error {
	return myerrors.New("E022").Wrap(ErrNotChild)
}
