package handler

import (
	errorsmod "cosmossdk.io/errors"

	clienthandler "github.com/polytope-labs/ismp-go/modules/core/02-client/handler"
	channeltypes "github.com/polytope-labs/ismp-go/modules/core/04-channel/types"
	"github.com/polytope-labs/ismp-go/modules/core/exported"
	"github.com/polytope-labs/ismp-go/modules/core/internal/telemetry"
)

// HandlePostTimeouts times out post requests sent by the host. The destination
// must have passed each request's timeout at the proof height and the proof
// must show that none of the requests were received there. The request
// commitment is deleted after the module is notified, so a request can only
// be timed out once.
func HandlePostTimeouts(host exported.Host, msg channeltypes.PostTimeoutMessage) ([]channeltypes.DispatchResult, error) {
	if err := msg.ValidateBasic(); err != nil {
		return nil, err
	}

	hostStateMachine := host.HostStateMachine()
	proofHeight := msg.TimeoutProof.Height
	for _, request := range msg.Requests {
		if request.Source != hostStateMachine {
			return nil, errorsmod.Wrapf(channeltypes.ErrInvalidMessageDestination, "request source %s, host %s", request.Source, hostStateMachine)
		}

		if request.Dest != proofHeight.ID.StateID {
			return nil, errorsmod.Wrapf(channeltypes.ErrInvalidProofHeight, "request destination %s, proof state machine %s", request.Dest, proofHeight.ID.StateID)
		}

		if !host.HasRequestCommitment(request.Commitment()) {
			return nil, errorsmod.Wrapf(channeltypes.ErrRequestCommitmentNotFound, "commitment %s", request.Commitment().Hex())
		}
	}

	stateMachineClient, root, err := clienthandler.ValidateStateMachine(host, proofHeight)
	if err != nil {
		return nil, err
	}

	for _, request := range msg.Requests {
		if !request.TimedOut(root.Time()) {
			return nil, errorsmod.Wrapf(
				channeltypes.ErrRequestTimeoutNotElapsed,
				"request timeout %d, destination time %d", request.TimeoutTimestamp, root.Timestamp,
			)
		}
	}

	keys := stateMachineClient.ReceiptsStateTrieKey(channeltypes.NewPostRequests(msg.Requests...))
	values, err := stateMachineClient.VerifyStateProof(host, keys, root, msg.TimeoutProof)
	if err != nil {
		return nil, errorsmod.Wrap(channeltypes.ErrStateProofVerificationFailed, err.Error())
	}

	for _, key := range keys {
		if values[string(key)] != nil {
			return nil, errorsmod.Wrapf(channeltypes.ErrRequestAlreadyDelivered, "receipt %s is present on %s", key, proofHeight.ID.StateID)
		}
	}

	results := timeoutRequests(host, channeltypes.NewPostRequests(msg.Requests...))

	host.Logger().Info("post requests timed out", "destination", proofHeight.ID.StateID.String(), "timed-out", len(results))

	defer telemetry.ReportDispatch("post_timeout", results)

	return results, nil
}

// HandleGetTimeouts times out get requests whose timeout has passed on the host.
// No proof is needed since get requests are answered on the host itself.
func HandleGetTimeouts(host exported.Host, msg channeltypes.GetTimeoutMessage) ([]channeltypes.DispatchResult, error) {
	if err := msg.ValidateBasic(); err != nil {
		return nil, err
	}

	hostStateMachine := host.HostStateMachine()
	now := host.Timestamp()
	for _, request := range msg.Requests {
		commitment := request.Commitment()

		if request.Source != hostStateMachine {
			return nil, errorsmod.Wrapf(channeltypes.ErrInvalidMessageDestination, "get request source %s, host %s", request.Source, hostStateMachine)
		}

		if !host.HasRequestCommitment(commitment) {
			return nil, errorsmod.Wrapf(channeltypes.ErrRequestCommitmentNotFound, "commitment %s", commitment.Hex())
		}

		if _, answered := host.ResponseReceipt(commitment); answered {
			return nil, errorsmod.Wrapf(channeltypes.ErrRequestAlreadyDelivered, "get request %s has been answered", commitment.Hex())
		}

		if !request.TimedOut(now) {
			return nil, errorsmod.Wrapf(
				channeltypes.ErrRequestTimeoutNotElapsed,
				"request timeout %d, host time %d", request.TimeoutTimestamp, now.Unix(),
			)
		}
	}

	results := timeoutRequests(host, channeltypes.NewGetRequests(msg.Requests...))

	host.Logger().Info("get requests timed out", "timed-out", len(results))

	defer telemetry.ReportDispatch("get_timeout", results)

	return results, nil
}

// timeoutRequests notifies the sending module of every request and deletes its
// commitment. Duplicates within a batch are only timed out once.
func timeoutRequests(host exported.Host, requests channeltypes.Requests) []channeltypes.DispatchResult {
	router := host.IsmpRouter()

	results := make([]channeltypes.DispatchResult, 0, len(requests))
	for _, request := range requests {
		commitment := request.Commitment()
		if !host.HasRequestCommitment(commitment) {
			continue
		}

		err := dispatch(router, request.GetFrom(), func(module exported.IsmpModule) error {
			return module.OnTimeout(request)
		})

		results = append(results, channeltypes.NewDispatchResult(request, err))
		host.DeleteRequestCommitment(commitment)
	}

	return results
}
