// Package handler routes incoming ISMP messages to the consensus, request,
// response and timeout handlers. It holds no state of its own.
package handler

import (
	errorsmod "cosmossdk.io/errors"

	clienthandler "github.com/polytope-labs/ismp-go/modules/core/02-client/handler"
	clienttypes "github.com/polytope-labs/ismp-go/modules/core/02-client/types"
	channelhandler "github.com/polytope-labs/ismp-go/modules/core/04-channel/handler"
	channeltypes "github.com/polytope-labs/ismp-go/modules/core/04-channel/types"
	ismperrors "github.com/polytope-labs/ismp-go/modules/core/errors"
	"github.com/polytope-labs/ismp-go/modules/core/exported"
	"github.com/polytope-labs/ismp-go/modules/core/types"
)

// HandleIncomingMessage executes msg against host. Handler errors are returned
// unchanged and the caller must discard any writes the host buffered for msg.
func HandleIncomingMessage(host exported.Host, msg types.Message) (types.MessageResult, error) {
	var (
		result types.MessageResult
		err    error
	)

	switch msg := msg.(type) {
	case clienttypes.ConsensusMessage:
		result.Kind = types.MessageKindConsensus
		result.ConsensusUpdated, err = clienthandler.UpdateClient(host, msg)
	case clienttypes.FraudProofMessage:
		result.Kind = types.MessageKindFraudProof
		var frozen clienttypes.ConsensusClientFrozen
		if frozen, err = clienthandler.FreezeClient(host, msg); err == nil {
			result.FrozenClient = &frozen
		}
	case channeltypes.RequestMessage:
		result.Kind = types.MessageKindRequest
		result.Dispatches, err = channelhandler.HandleRequests(host, msg)
	case channeltypes.PostResponseMessage:
		result.Kind = types.MessageKindResponse
		result.Dispatches, err = channelhandler.HandlePostResponses(host, msg)
	case channeltypes.GetResponseMessage:
		result.Kind = types.MessageKindResponse
		result.Dispatches, err = channelhandler.HandleGetResponses(host, msg)
	case channeltypes.PostTimeoutMessage:
		result.Kind = types.MessageKindTimeout
		result.Dispatches, err = channelhandler.HandlePostTimeouts(host, msg)
	case channeltypes.GetTimeoutMessage:
		result.Kind = types.MessageKindTimeout
		result.Dispatches, err = channelhandler.HandleGetTimeouts(host, msg)
	default:
		return types.MessageResult{}, errorsmod.Wrapf(ismperrors.ErrUnknownMessage, "%T", msg)
	}

	if err != nil {
		return types.MessageResult{}, err
	}

	return result, nil
}
