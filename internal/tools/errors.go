package tools

import "errors"

// Registry errors not already covered by types.ErrUnknownTool.
var (
	// ErrToolKeyEmpty is returned when a tool reports an empty Key().
	ErrToolKeyEmpty = errors.New("tool key cannot be empty")

	// ErrToolAlreadyRegistered is returned when registering a duplicate key.
	ErrToolAlreadyRegistered = errors.New("tool already registered")
)
