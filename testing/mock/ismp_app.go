package mock

import (
	"context"

	corestore "cosmossdk.io/core/store"

	channeltypes "github.com/polytope-labs/ismp-go/modules/core/04-channel/types"
	porttypes "github.com/polytope-labs/ismp-go/modules/core/05-port/types"
)

var _ porttypes.IsmpApp = (*IsmpApp)(nil)

var (
	acceptedPrefix  = []byte("accepted/")
	respondedPrefix = []byte("responded/")
	timedOutPrefix  = []byte("timedout/")
)

// IsmpApp records every callback it receives. If a store service is set, each
// callback also writes a marker keyed by the request commitment so tests can
// observe whether the callback state was committed.
type IsmpApp struct {
	storeService corestore.KVStoreService

	OnAcceptFn   func(ctx context.Context, request channeltypes.PostRequest) error
	OnResponseFn func(ctx context.Context, response channeltypes.Response) error
	OnTimeoutFn  func(ctx context.Context, request channeltypes.Request) error

	Accepted  []channeltypes.PostRequest
	Responses []channeltypes.Response
	TimedOut  []channeltypes.Request
}

// NewIsmpApp returns a mock application. storeService may be nil.
func NewIsmpApp(storeService corestore.KVStoreService) *IsmpApp {
	return &IsmpApp{storeService: storeService}
}

// OnAccept implements porttypes.IsmpApp.
func (app *IsmpApp) OnAccept(ctx context.Context, request channeltypes.PostRequest) error {
	app.Accepted = append(app.Accepted, request)
	app.mark(ctx, acceptedPrefix, request.Commitment().Bytes())

	if app.OnAcceptFn != nil {
		return app.OnAcceptFn(ctx, request)
	}
	return nil
}

// OnResponse implements porttypes.IsmpApp.
func (app *IsmpApp) OnResponse(ctx context.Context, response channeltypes.Response) error {
	app.Responses = append(app.Responses, response)
	app.mark(ctx, respondedPrefix, response.RequestCommitment().Bytes())

	if app.OnResponseFn != nil {
		return app.OnResponseFn(ctx, response)
	}
	return nil
}

// OnTimeout implements porttypes.IsmpApp.
func (app *IsmpApp) OnTimeout(ctx context.Context, request channeltypes.Request) error {
	app.TimedOut = append(app.TimedOut, request)
	app.mark(ctx, timedOutPrefix, request.Commitment().Bytes())

	if app.OnTimeoutFn != nil {
		return app.OnTimeoutFn(ctx, request)
	}
	return nil
}

// HasAcceptMarker returns true if the state written by OnAccept for the request was committed.
func (app *IsmpApp) HasAcceptMarker(ctx context.Context, request channeltypes.PostRequest) bool {
	return app.hasMark(ctx, acceptedPrefix, request.Commitment().Bytes())
}

// HasResponseMarker returns true if the state written by OnResponse for the request was committed.
func (app *IsmpApp) HasResponseMarker(ctx context.Context, request channeltypes.Request) bool {
	return app.hasMark(ctx, respondedPrefix, request.Commitment().Bytes())
}

// HasTimeoutMarker returns true if the state written by OnTimeout for the request was committed.
func (app *IsmpApp) HasTimeoutMarker(ctx context.Context, request channeltypes.Request) bool {
	return app.hasMark(ctx, timedOutPrefix, request.Commitment().Bytes())
}

func (app *IsmpApp) mark(ctx context.Context, prefix, key []byte) {
	if app.storeService == nil {
		return
	}

	if err := app.storeService.OpenKVStore(ctx).Set(append(append([]byte{}, prefix...), key...), []byte{1}); err != nil {
		panic(err)
	}
}

func (app *IsmpApp) hasMark(ctx context.Context, prefix, key []byte) bool {
	if app.storeService == nil {
		return false
	}

	has, err := app.storeService.OpenKVStore(ctx).Has(append(append([]byte{}, prefix...), key...))
	if err != nil {
		panic(err)
	}
	return has
}
