package keeper

import (
	"context"
	"errors"
	"strings"

	corestore "cosmossdk.io/core/store"
	"cosmossdk.io/log"

	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/polytope-labs/ismp-go/internal/scalecodec"
	client "github.com/polytope-labs/ismp-go/modules/core/02-client"
	clienttypes "github.com/polytope-labs/ismp-go/modules/core/02-client/types"
	porttypes "github.com/polytope-labs/ismp-go/modules/core/05-port/types"
	host "github.com/polytope-labs/ismp-go/modules/core/24-host"
	"github.com/polytope-labs/ismp-go/modules/core/exported"
)

// Keeper stores the ISMP protocol state of the host chain and executes
// incoming messages against it.
type Keeper struct {
	storeService     corestore.KVStoreService
	hostStateMachine clienttypes.StateMachine

	// ConsensusClients resolves the consensus client of every consensus state.
	ConsensusClients *client.Router

	// Router is used to route requests and responses to application callbacks.
	// NOTE: it must be explicitly set before usage.
	Router *porttypes.Router

	authority string
}

// NewKeeper creates a new ISMP Keeper
func NewKeeper(
	storeService corestore.KVStoreService,
	hostStateMachine clienttypes.StateMachine,
	consensusClients *client.Router,
	authority string,
) *Keeper {
	if err := hostStateMachine.Validate(); err != nil {
		panic(err)
	}

	if consensusClients == nil {
		panic(errors.New("cannot initialize ISMP keeper: nil consensus client router"))
	}

	if strings.TrimSpace(authority) == "" {
		panic(errors.New("authority must be non-empty"))
	}

	return &Keeper{
		storeService:     storeService,
		hostStateMachine: hostStateMachine,
		ConsensusClients: consensusClients,
		authority:        authority,
	}
}

// SetRouter sets the application Router of the keeper.
func (k *Keeper) SetRouter(rtr *porttypes.Router) {
	k.Router = rtr
}

// Logger returns a module-specific logger.
func (Keeper) Logger(ctx context.Context) log.Logger {
	sdkCtx := sdk.UnwrapSDKContext(ctx)
	return sdkCtx.Logger().With("module", "x/"+exported.ModuleName)
}

// GetAuthority returns the ISMP module's authority.
func (k *Keeper) GetAuthority() string {
	return k.authority
}

// HostStateMachine returns the identifier of the local state machine.
func (k *Keeper) HostStateMachine() clienttypes.StateMachine {
	return k.hostStateMachine
}

// Host returns the exported.Host backed by the store of ctx.
func (k *Keeper) Host(ctx context.Context) exported.Host {
	return newStoreHost(sdk.UnwrapSDKContext(ctx), k)
}

// GetParams returns the module params, falling back to the defaults if none were set.
func (k *Keeper) GetParams(ctx context.Context) clienttypes.Params {
	store := k.storeService.OpenKVStore(ctx)
	bz, err := store.Get(host.ParamsKey())
	if err != nil {
		panic(err)
	}
	if len(bz) == 0 {
		return clienttypes.DefaultParams()
	}

	var params clienttypes.Params
	if err := scalecodec.Unmarshal(bz, &params.AllowedConsensusClients); err != nil {
		panic(err)
	}
	return params
}

// SetParams validates and stores the module params.
func (k *Keeper) SetParams(ctx context.Context, params clienttypes.Params) error {
	if err := params.Validate(); err != nil {
		return err
	}

	bz, err := scalecodec.Marshal(params.AllowedConsensusClients)
	if err != nil {
		return err
	}

	store := k.storeService.OpenKVStore(ctx)
	if err := store.Set(host.ParamsKey(), bz); err != nil {
		panic(err)
	}
	return nil
}
