package types

import (
	"github.com/ethereum/go-ethereum/common"

	clienttypes "github.com/polytope-labs/ismp-go/modules/core/02-client/types"
)

// DispatchResult records the outcome of handing one request, response or
// timeout to its module. A module failure is captured in Err and does not fail
// the message that carried it.
type DispatchResult struct {
	Commitment common.Hash
	Source     clienttypes.StateMachine
	Dest       clienttypes.StateMachine
	Nonce      uint64
	Err        error
}

// NewDispatchResult returns the result for request with the given module error.
func NewDispatchResult(request Request, err error) DispatchResult {
	return DispatchResult{
		Commitment: request.Commitment(),
		Source:     request.GetSource(),
		Dest:       request.GetDest(),
		Nonce:      request.GetNonce(),
		Err:        err,
	}
}

// NewResponseDispatchResult returns the result for response with the given module error.
func NewResponseDispatchResult(response Response, err error) DispatchResult {
	return DispatchResult{
		Commitment: response.Commitment(),
		Source:     response.GetSource(),
		Dest:       response.GetDest(),
		Nonce:      response.Request().GetNonce(),
		Err:        err,
	}
}

// Success returns true if the module accepted the dispatch.
func (r DispatchResult) Success() bool {
	return r.Err == nil
}
