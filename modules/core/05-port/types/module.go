package types

import (
	"context"

	channeltypes "github.com/polytope-labs/ismp-go/modules/core/04-channel/types"
)

// IsmpApp defines the callbacks an application must implement to send and
// receive ISMP requests. Each callback runs in its own cached context and its
// state changes are discarded if it returns an error.
type IsmpApp interface {
	// OnAccept is executed when a post request addressed to the application is delivered.
	OnAccept(ctx context.Context, request channeltypes.PostRequest) error

	// OnResponse is executed when a response to a request sent by the application is delivered.
	OnResponse(ctx context.Context, response channeltypes.Response) error

	// OnTimeout is executed when a request sent by the application has timed out.
	OnTimeout(ctx context.Context, request channeltypes.Request) error
}
