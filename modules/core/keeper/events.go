package keeper

import (
	"strconv"

	sdk "github.com/cosmos/cosmos-sdk/types"

	clienttypes "github.com/polytope-labs/ismp-go/modules/core/02-client/types"
	channeltypes "github.com/polytope-labs/ismp-go/modules/core/04-channel/types"
	coretypes "github.com/polytope-labs/ismp-go/modules/core/types"
)

// emitCreateConsensusClientEvent emits a create consensus client event
func emitCreateConsensusClientEvent(ctx sdk.Context, created clienttypes.ConsensusClientCreated) {
	ctx.EventManager().EmitEvents(sdk.Events{
		sdk.NewEvent(
			clienttypes.EventTypeCreateConsensusClient,
			sdk.NewAttribute(clienttypes.AttributeKeyConsensusStateID, created.ConsensusStateID.String()),
			sdk.NewAttribute(clienttypes.AttributeKeyConsensusClientID, created.ConsensusClientID.String()),
		),
		sdk.NewEvent(
			sdk.EventTypeMessage,
			sdk.NewAttribute(sdk.AttributeKeyModule, clienttypes.AttributeValueCategory),
		),
	})
}

// emitMessageResultEvents emits one event per updated state machine, frozen
// consensus state or dispatched item of a handled message.
func emitMessageResultEvents(ctx sdk.Context, result coretypes.MessageResult) {
	for _, updated := range result.ConsensusUpdated {
		ctx.EventManager().EmitEvent(
			sdk.NewEvent(
				clienttypes.EventTypeStateMachineUpdated,
				sdk.NewAttribute(clienttypes.AttributeKeyStateMachineID, updated.StateMachineID.String()),
				sdk.NewAttribute(clienttypes.AttributeKeyLatestHeight, strconv.FormatUint(updated.LatestHeight, 10)),
			),
		)
	}

	if result.FrozenClient != nil {
		ctx.EventManager().EmitEvent(
			sdk.NewEvent(
				clienttypes.EventTypeFreezeConsensusClient,
				sdk.NewAttribute(clienttypes.AttributeKeyConsensusStateID, result.FrozenClient.ConsensusStateID.String()),
			),
		)
	}

	eventType := dispatchEventType(result.Kind)
	for _, dispatch := range result.Dispatches {
		attributes := []sdk.Attribute{
			sdk.NewAttribute(channeltypes.AttributeKeyCommitment, dispatch.Commitment.Hex()),
			sdk.NewAttribute(channeltypes.AttributeKeySource, dispatch.Source.String()),
			sdk.NewAttribute(channeltypes.AttributeKeyDest, dispatch.Dest.String()),
			sdk.NewAttribute(channeltypes.AttributeKeyNonce, strconv.FormatUint(dispatch.Nonce, 10)),
			sdk.NewAttribute(channeltypes.AttributeKeySuccess, strconv.FormatBool(dispatch.Success())),
		}
		if !dispatch.Success() {
			attributes = append(attributes, sdk.NewAttribute(channeltypes.AttributeKeyError, dispatch.Err.Error()))
		}

		ctx.EventManager().EmitEvent(sdk.NewEvent(eventType, attributes...))
	}

	var category string
	switch result.Kind {
	case coretypes.MessageKindConsensus, coretypes.MessageKindFraudProof:
		category = clienttypes.AttributeValueCategory
	default:
		category = channeltypes.AttributeValueCategory
	}

	ctx.EventManager().EmitEvent(
		sdk.NewEvent(
			sdk.EventTypeMessage,
			sdk.NewAttribute(sdk.AttributeKeyModule, category),
		),
	)
}

func dispatchEventType(kind coretypes.MessageKind) string {
	switch kind {
	case coretypes.MessageKindResponse:
		return channeltypes.EventTypeResponseDispatched
	case coretypes.MessageKindTimeout:
		return channeltypes.EventTypeTimeoutDispatched
	default:
		return channeltypes.EventTypeRequestDispatched
	}
}
