package handler

import (
	errorsmod "cosmossdk.io/errors"

	clienthandler "github.com/polytope-labs/ismp-go/modules/core/02-client/handler"
	channeltypes "github.com/polytope-labs/ismp-go/modules/core/04-channel/types"
	"github.com/polytope-labs/ismp-go/modules/core/exported"
	"github.com/polytope-labs/ismp-go/modules/core/internal/telemetry"
)

// HandleRequests delivers a batch of post requests to their destination modules.
// The membership proof covers the whole batch and is verified before any
// request is dispatched. Requests that were already delivered or have timed out
// are skipped. Every dispatched request is receipted, including those the
// module rejected.
func HandleRequests(host exported.Host, msg channeltypes.RequestMessage) ([]channeltypes.DispatchResult, error) {
	if err := msg.ValidateBasic(); err != nil {
		return nil, err
	}

	hostStateMachine := host.HostStateMachine()
	proofStateMachine := msg.Proof.Height.ID.StateID
	for _, request := range msg.Requests {
		if request.Dest != hostStateMachine {
			return nil, errorsmod.Wrapf(channeltypes.ErrInvalidMessageDestination, "request destination %s, host %s", request.Dest, hostStateMachine)
		}

		if request.Source != proofStateMachine {
			return nil, errorsmod.Wrapf(channeltypes.ErrInvalidProofHeight, "request source %s, proof state machine %s", request.Source, proofStateMachine)
		}
	}

	stateMachineClient, root, err := clienthandler.ValidateStateMachine(host, msg.Proof.Height)
	if err != nil {
		return nil, err
	}

	if err := stateMachineClient.VerifyMembership(host, channeltypes.NewPostRequests(msg.Requests...), root, msg.Proof); err != nil {
		return nil, errorsmod.Wrap(channeltypes.ErrMembershipProofVerificationFailed, err.Error())
	}

	router := host.IsmpRouter()
	now := host.Timestamp()

	results := make([]channeltypes.DispatchResult, 0, len(msg.Requests))
	for _, request := range msg.Requests {
		commitment := request.Commitment()

		if _, delivered := host.RequestReceipt(commitment); delivered {
			host.Logger().Debug("skipping delivered request", "commitment", commitment.Hex())
			continue
		}

		if request.TimedOut(now) {
			host.Logger().Debug("skipping timed out request", "commitment", commitment.Hex(), "timeout", request.TimeoutTimestamp)
			continue
		}

		err := dispatch(router, request.To, func(module exported.IsmpModule) error {
			return module.OnAccept(request)
		})
		if err != nil {
			host.Logger().Debug("module rejected request", "commitment", commitment.Hex(), "error", err.Error())
		}

		results = append(results, channeltypes.NewDispatchResult(request, err))
		host.StoreRequestReceipt(commitment, msg.Signer)
	}

	host.Logger().Info("requests delivered", "source", proofStateMachine.String(), "delivered", len(results), "total", len(msg.Requests))

	defer telemetry.ReportDispatch("request", results)

	return results, nil
}
