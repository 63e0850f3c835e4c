package keeper

import (
	"context"

	errorsmod "cosmossdk.io/errors"

	sdk "github.com/cosmos/cosmos-sdk/types"

	clienthandler "github.com/polytope-labs/ismp-go/modules/core/02-client/handler"
	clienttypes "github.com/polytope-labs/ismp-go/modules/core/02-client/types"
	ismperrors "github.com/polytope-labs/ismp-go/modules/core/errors"
	"github.com/polytope-labs/ismp-go/modules/core/handler"
	coretypes "github.com/polytope-labs/ismp-go/modules/core/types"
)

// CreateConsensusState bootstraps a consensus state. Only the module authority
// may create consensus states and the consensus client must be allowed by the
// module params.
func (k *Keeper) CreateConsensusState(goCtx context.Context, signer string, msg clienttypes.CreateConsensusState) (clienttypes.ConsensusClientCreated, error) {
	ctx := sdk.UnwrapSDKContext(goCtx)

	if k.GetAuthority() != signer {
		return clienttypes.ConsensusClientCreated{}, errorsmod.Wrapf(ismperrors.ErrUnauthorized, "expected %s, got %s", k.GetAuthority(), signer)
	}

	if !k.GetParams(ctx).IsAllowedClient(msg.ConsensusClientID) {
		return clienttypes.ConsensusClientCreated{}, errorsmod.Wrapf(
			clienttypes.ErrConsensusClientNotAllowed,
			"consensus client %s is not registered in the allowlist", msg.ConsensusClientID,
		)
	}

	cacheCtx, writeFn := ctx.CacheContext()
	created, err := clienthandler.CreateClient(k.Host(cacheCtx), msg)
	if err != nil {
		k.Logger(ctx).Error("create consensus state failed", "consensus-state-id", msg.ConsensusStateID.String(), "error", err)
		return clienttypes.ConsensusClientCreated{}, errorsmod.Wrapf(err, "create consensus state failed for %s", msg.ConsensusStateID)
	}

	writeFn()
	emitCreateConsensusClientEvent(ctx, created)

	return created, nil
}

// HandleMessage executes msg in a cache context. State changes are only
// written if the message succeeds. Module callback failures do not fail the
// message and are reported in the result and its events.
func (k *Keeper) HandleMessage(goCtx context.Context, msg coretypes.Message) (coretypes.MessageResult, error) {
	ctx := sdk.UnwrapSDKContext(goCtx)

	cacheCtx, writeFn := ctx.CacheContext()
	result, err := handler.HandleIncomingMessage(k.Host(cacheCtx), msg)
	if err != nil {
		k.Logger(ctx).Error("ismp message failed", "type", messageType(msg), "error", err)
		return coretypes.MessageResult{}, errorsmod.Wrapf(err, "%s message failed", messageType(msg))
	}

	writeFn()
	emitMessageResultEvents(ctx, result)

	return result, nil
}

// HandleRawMessage decodes a SCALE encoded message and executes it.
func (k *Keeper) HandleRawMessage(goCtx context.Context, bz []byte) (coretypes.MessageResult, error) {
	msg, err := coretypes.DecodeMessage(bz)
	if err != nil {
		return coretypes.MessageResult{}, err
	}

	return k.HandleMessage(goCtx, msg)
}

func messageType(msg coretypes.Message) string {
	kind, err := coretypes.KindOf(msg)
	if err != nil {
		return "unknown"
	}
	return kind.String()
}
