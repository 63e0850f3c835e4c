package errors

import (
	errorsmod "cosmossdk.io/errors"
)

// codespace matches exported.ModuleName. It is repeated here because exported
// depends on the types packages that register against these errors.
const codespace = "ismp"

var (
	// ErrUnauthorized is used whenever a privileged message is submitted by an
	// account other than the configured authority.
	ErrUnauthorized = errorsmod.Register(codespace, 2, "unauthorized")

	// ErrUnknownMessage is used when a message kind cannot be routed to a handler.
	ErrUnknownMessage = errorsmod.Register(codespace, 3, "unknown message")

	// ErrInvalidRequest defines an error where the message contains invalid data.
	ErrInvalidRequest = errorsmod.Register(codespace, 4, "invalid request")

	// ErrInvalidHeight defines an error for an invalid height
	ErrInvalidHeight = errorsmod.Register(codespace, 5, "invalid height")

	// ErrDecode is returned when a SCALE payload cannot be decoded.
	ErrDecode = errorsmod.Register(codespace, 6, "failed to decode payload")

	// ErrImplementationSpecific wraps failures surfaced by individual consensus
	// or state machine client implementations.
	ErrImplementationSpecific = errorsmod.Register(codespace, 7, "implementation specific error")

	// ErrLogic defines an internal logic error, e.g. an invariant or assertion
	// that is violated. It is a programmer error, not a user-facing error.
	ErrLogic = errorsmod.Register(codespace, 8, "internal logic error")

	// ErrNotFound defines an error when requested entity doesn't exist in the state.
	ErrNotFound = errorsmod.Register(codespace, 9, "not found")
)
