package exported

import (
	channeltypes "github.com/polytope-labs/ismp-go/modules/core/04-channel/types"
)

// IsmpRouter resolves the destination module of a request or response.
type IsmpRouter interface {
	// Module returns the module registered under the given id or an error if none is.
	Module(moduleID []byte) (IsmpModule, error)
}

// IsmpModule defines the callbacks a module receives for delivered requests,
// responses and timeouts. A returned error is recorded against the single
// item and never fails the message that carried it.
type IsmpModule interface {
	OnAccept(request channeltypes.PostRequest) error
	OnResponse(response channeltypes.Response) error
	OnTimeout(request channeltypes.Request) error
}
