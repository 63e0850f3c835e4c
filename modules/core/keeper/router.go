package keeper

import (
	errorsmod "cosmossdk.io/errors"

	sdk "github.com/cosmos/cosmos-sdk/types"

	channeltypes "github.com/polytope-labs/ismp-go/modules/core/04-channel/types"
	porttypes "github.com/polytope-labs/ismp-go/modules/core/05-port/types"
	"github.com/polytope-labs/ismp-go/modules/core/exported"
)

var (
	_ exported.IsmpRouter = contextRouter{}
	_ exported.IsmpModule = cachedModule{}
)

// contextRouter binds the application router to the context of the message
// being executed.
type contextRouter struct {
	ctx    sdk.Context
	router *porttypes.Router
}

func newContextRouter(ctx sdk.Context, router *porttypes.Router) contextRouter {
	return contextRouter{ctx: ctx, router: router}
}

// Module implements exported.IsmpRouter.
func (r contextRouter) Module(moduleID []byte) (exported.IsmpModule, error) {
	if r.router == nil {
		return nil, errorsmod.Wrap(porttypes.ErrModuleNotFound, "router is not set")
	}

	app, err := r.router.Route(moduleID)
	if err != nil {
		return nil, err
	}

	return cachedModule{ctx: r.ctx, app: app}, nil
}

// cachedModule runs every callback in its own cache context so the state
// changes of a failing callback are discarded while its siblings are kept.
type cachedModule struct {
	ctx sdk.Context
	app porttypes.IsmpApp
}

// OnAccept implements exported.IsmpModule.
func (m cachedModule) OnAccept(request channeltypes.PostRequest) error {
	return m.run(func(ctx sdk.Context) error {
		return m.app.OnAccept(ctx, request)
	})
}

// OnResponse implements exported.IsmpModule.
func (m cachedModule) OnResponse(response channeltypes.Response) error {
	return m.run(func(ctx sdk.Context) error {
		return m.app.OnResponse(ctx, response)
	})
}

// OnTimeout implements exported.IsmpModule.
func (m cachedModule) OnTimeout(request channeltypes.Request) error {
	return m.run(func(ctx sdk.Context) error {
		return m.app.OnTimeout(ctx, request)
	})
}

func (m cachedModule) run(callback func(sdk.Context) error) error {
	cacheCtx, writeFn := m.ctx.CacheContext()
	if err := callback(cacheCtx); err != nil {
		return err
	}

	writeFn()
	return nil
}
