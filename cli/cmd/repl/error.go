package repl

import "errors"

// Sentinel errors.
var (
	ErrNoWorkspace  = errors.New("no workspace")
	ErrOutOfBounds  = errors.New("index out of range")
	ErrEditDeclined = errors.New("decline edit")
)
