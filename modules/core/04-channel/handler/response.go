package handler

import (
	"github.com/ethereum/go-ethereum/common"

	errorsmod "cosmossdk.io/errors"

	clienthandler "github.com/polytope-labs/ismp-go/modules/core/02-client/handler"
	channeltypes "github.com/polytope-labs/ismp-go/modules/core/04-channel/types"
	"github.com/polytope-labs/ismp-go/modules/core/exported"
	"github.com/polytope-labs/ismp-go/modules/core/internal/telemetry"
)

// HandlePostResponses delivers a batch of post responses to the modules that
// sent the requests. Only responses to pending requests that have not been
// answered yet are proven and dispatched, so resubmitting a delivered batch is
// a no-op. A receipt is stored for every dispatched response.
func HandlePostResponses(host exported.Host, msg channeltypes.PostResponseMessage) ([]channeltypes.DispatchResult, error) {
	if err := msg.ValidateBasic(); err != nil {
		return nil, err
	}

	hostStateMachine := host.HostStateMachine()
	proofStateMachine := msg.Proof.Height.ID.StateID
	for _, response := range msg.Responses {
		if response.GetDest() != hostStateMachine {
			return nil, errorsmod.Wrapf(channeltypes.ErrInvalidMessageDestination, "response destination %s, host %s", response.GetDest(), hostStateMachine)
		}

		if response.GetSource() != proofStateMachine {
			return nil, errorsmod.Wrapf(channeltypes.ErrInvalidProofHeight, "response source %s, proof state machine %s", response.GetSource(), proofStateMachine)
		}
	}

	stateMachineClient, root, err := clienthandler.ValidateStateMachine(host, msg.Proof.Height)
	if err != nil {
		return nil, err
	}

	now := host.Timestamp()
	responses := make([]channeltypes.PostResponse, 0, len(msg.Responses))
	for _, response := range msg.Responses {
		if !undelivered(host, response) {
			host.Logger().Debug("skipping response", "request-commitment", response.RequestCommitment().Hex())
			continue
		}

		if response.TimedOut(now) {
			host.Logger().Debug("skipping timed out response", "request-commitment", response.RequestCommitment().Hex())
			continue
		}

		responses = append(responses, response)
	}
	responses = dedupeResponses(responses)

	if len(responses) == 0 {
		return []channeltypes.DispatchResult{}, nil
	}

	if err := stateMachineClient.VerifyMembership(host, channeltypes.NewPostResponses(responses...), root, msg.Proof); err != nil {
		return nil, errorsmod.Wrap(channeltypes.ErrMembershipProofVerificationFailed, err.Error())
	}

	router := host.IsmpRouter()
	results := make([]channeltypes.DispatchResult, 0, len(responses))
	for _, response := range responses {
		err := dispatch(router, response.Post.From, func(module exported.IsmpModule) error {
			return module.OnResponse(response)
		})

		results = append(results, channeltypes.NewResponseDispatchResult(response, err))
		host.StoreResponseReceipt(response.RequestCommitment(), channeltypes.ResponseReceipt{
			Response: response.Commitment(),
			Relayer:  msg.Signer,
		})
	}

	host.Logger().Info("post responses delivered", "source", proofStateMachine.String(), "delivered", len(results), "total", len(msg.Responses))

	defer telemetry.ReportDispatch("post_response", results)

	return results, nil
}

// HandleGetResponses answers pending get requests with the values proven on
// their destination. The proof height must not be lower than the height each
// request asked to be read at. Every request is proven before any is dispatched.
func HandleGetResponses(host exported.Host, msg channeltypes.GetResponseMessage) ([]channeltypes.DispatchResult, error) {
	if err := msg.ValidateBasic(); err != nil {
		return nil, err
	}

	hostStateMachine := host.HostStateMachine()
	proofHeight := msg.Proof.Height
	for _, request := range msg.Requests {
		if request.Source != hostStateMachine {
			return nil, errorsmod.Wrapf(channeltypes.ErrInvalidMessageDestination, "get request source %s, host %s", request.Source, hostStateMachine)
		}

		if request.Dest != proofHeight.ID.StateID {
			return nil, errorsmod.Wrapf(channeltypes.ErrInvalidProofHeight, "get request destination %s, proof state machine %s", request.Dest, proofHeight.ID.StateID)
		}

		if proofHeight.Height < request.Height {
			return nil, errorsmod.Wrapf(channeltypes.ErrInsufficientProofHeight, "proof height %d, requested height %d", proofHeight.Height, request.Height)
		}
	}

	stateMachineClient, root, err := clienthandler.ValidateStateMachine(host, proofHeight)
	if err != nil {
		return nil, err
	}

	now := host.Timestamp()
	seen := make(map[common.Hash]struct{}, len(msg.Requests))
	responses := make([]channeltypes.GetResponse, 0, len(msg.Requests))
	for _, request := range msg.Requests {
		response := channeltypes.GetResponse{Get: request}
		if !undelivered(host, response) || request.TimedOut(now) {
			host.Logger().Debug("skipping get request", "commitment", request.Commitment().Hex())
			continue
		}

		commitment := request.Commitment()
		if _, ok := seen[commitment]; ok {
			continue
		}
		seen[commitment] = struct{}{}

		values, err := stateMachineClient.VerifyStateProof(host, request.Keys, root, msg.Proof)
		if err != nil {
			return nil, errorsmod.Wrap(channeltypes.ErrStateProofVerificationFailed, err.Error())
		}

		responses = append(responses, channeltypes.NewGetResponse(request, values))
	}

	router := host.IsmpRouter()
	results := make([]channeltypes.DispatchResult, 0, len(responses))
	for _, response := range responses {
		err := dispatch(router, response.Get.From, func(module exported.IsmpModule) error {
			return module.OnResponse(response)
		})

		results = append(results, channeltypes.NewResponseDispatchResult(response, err))
		host.StoreResponseReceipt(response.RequestCommitment(), channeltypes.ResponseReceipt{
			Response: response.Commitment(),
			Relayer:  msg.Signer,
		})
	}

	host.Logger().Info("get responses delivered", "source", proofHeight.ID.StateID.String(), "delivered", len(results), "total", len(msg.Requests))

	defer telemetry.ReportDispatch("get_response", results)

	return results, nil
}

// undelivered returns true if the answered request is still pending on the
// host and no response to it has been delivered.
func undelivered(host exported.Host, response channeltypes.Response) bool {
	requestCommitment := response.RequestCommitment()
	if !host.HasRequestCommitment(requestCommitment) {
		return false
	}

	_, delivered := host.ResponseReceipt(requestCommitment)
	return !delivered
}

// dedupeResponses keeps the first response to every request.
func dedupeResponses(responses []channeltypes.PostResponse) []channeltypes.PostResponse {
	seen := make(map[common.Hash]struct{}, len(responses))
	unique := responses[:0]
	for _, response := range responses {
		key := response.RequestCommitment()
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		unique = append(unique, response)
	}
	return unique
}
