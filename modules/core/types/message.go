package types

import (
	"fmt"

	errorsmod "cosmossdk.io/errors"

	clienttypes "github.com/polytope-labs/ismp-go/modules/core/02-client/types"
	channeltypes "github.com/polytope-labs/ismp-go/modules/core/04-channel/types"
	ismperrors "github.com/polytope-labs/ismp-go/modules/core/errors"
)

// MessageKind enumerates the messages accepted by the dispatcher.
type MessageKind uint8

const (
	MessageKindConsensus MessageKind = iota
	MessageKindFraudProof
	MessageKindRequest
	MessageKindResponse
	MessageKindTimeout
)

// String implements fmt.Stringer.
func (k MessageKind) String() string {
	switch k {
	case MessageKindConsensus:
		return "consensus"
	case MessageKindFraudProof:
		return "fraud_proof"
	case MessageKindRequest:
		return "request"
	case MessageKindResponse:
		return "response"
	case MessageKindTimeout:
		return "timeout"
	default:
		return fmt.Sprintf("unknown(%d)", uint8(k))
	}
}

// Message is any message accepted by the dispatcher:
// clienttypes.ConsensusMessage, clienttypes.FraudProofMessage,
// channeltypes.RequestMessage, channeltypes.PostResponseMessage,
// channeltypes.GetResponseMessage, channeltypes.PostTimeoutMessage or
// channeltypes.GetTimeoutMessage.
type Message interface {
	ValidateBasic() error
}

var (
	_ Message = clienttypes.ConsensusMessage{}
	_ Message = clienttypes.FraudProofMessage{}
	_ Message = channeltypes.RequestMessage{}
	_ Message = channeltypes.PostResponseMessage{}
	_ Message = channeltypes.GetResponseMessage{}
	_ Message = channeltypes.PostTimeoutMessage{}
	_ Message = channeltypes.GetTimeoutMessage{}
)

// KindOf returns the kind of msg or ErrUnknownMessage.
func KindOf(msg Message) (MessageKind, error) {
	switch msg.(type) {
	case clienttypes.ConsensusMessage:
		return MessageKindConsensus, nil
	case clienttypes.FraudProofMessage:
		return MessageKindFraudProof, nil
	case channeltypes.RequestMessage:
		return MessageKindRequest, nil
	case channeltypes.PostResponseMessage, channeltypes.GetResponseMessage:
		return MessageKindResponse, nil
	case channeltypes.PostTimeoutMessage, channeltypes.GetTimeoutMessage:
		return MessageKindTimeout, nil
	default:
		return 0, errorsmod.Wrapf(ismperrors.ErrUnknownMessage, "%T", msg)
	}
}

// MessageResult is the outcome of a successfully handled message. Only the
// fields matching Kind are set.
type MessageResult struct {
	Kind MessageKind

	// ConsensusUpdated lists the state machines that received new commitments.
	ConsensusUpdated []clienttypes.StateMachineUpdated

	// FrozenClient is set when a fraud proof froze a consensus state.
	FrozenClient *clienttypes.ConsensusClientFrozen

	// Dispatches holds one entry per request, response or timeout handed to a
	// module. Module failures are reported here rather than as message errors.
	Dispatches []channeltypes.DispatchResult
}

// Failed returns the dispatch results whose module callback returned an error.
func (r MessageResult) Failed() []channeltypes.DispatchResult {
	var failed []channeltypes.DispatchResult
	for _, dispatch := range r.Dispatches {
		if !dispatch.Success() {
			failed = append(failed, dispatch)
		}
	}
	return failed
}
