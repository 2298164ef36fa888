package controller

import "errors"

var (
	// ErrClosed is returned by every operation after Close.
	ErrClosed = errors.New("controller: closed")
	// ErrUnknownField is wrapped when an operation names a field the form
	// does not define.
	ErrUnknownField = errors.New("controller: unknown field")
	// ErrUnknownOption is wrapped when a value is not one of the field's
	// options.
	ErrUnknownOption = errors.New("controller: unknown option")
	// ErrTreeMismatch is returned by New when the tree was not rendered from
	// the definition.
	ErrTreeMismatch = errors.New("controller: tree does not match definition")
)
