package keeper

import (
	"context"

	"github.com/ethereum/go-ethereum/common"

	clienthandler "github.com/polytope-labs/ismp-go/modules/core/02-client/handler"
	clienttypes "github.com/polytope-labs/ismp-go/modules/core/02-client/types"
	channeltypes "github.com/polytope-labs/ismp-go/modules/core/04-channel/types"
	"github.com/polytope-labs/ismp-go/modules/core/exported"
)

// ConsensusClientStatus returns the status of a consensus state.
func (k *Keeper) ConsensusClientStatus(ctx context.Context, consensusStateID clienttypes.ConsensusStateID) exported.Status {
	return clienthandler.Status(k.Host(ctx), consensusStateID)
}

// GetConsensusState returns the trusted state bytes of a consensus state.
func (k *Keeper) GetConsensusState(ctx context.Context, consensusStateID clienttypes.ConsensusStateID) ([]byte, bool) {
	return k.Host(ctx).ConsensusState(consensusStateID)
}

// GetLatestStateMachineHeight returns the latest committed height of a state machine.
func (k *Keeper) GetLatestStateMachineHeight(ctx context.Context, id clienttypes.StateMachineID) (uint64, bool) {
	return k.Host(ctx).LatestCommitmentHeight(id)
}

// GetStateMachineCommitment returns the commitment stored at a state machine height.
func (k *Keeper) GetStateMachineCommitment(ctx context.Context, height clienttypes.StateMachineHeight) (clienttypes.StateCommitment, bool) {
	return k.Host(ctx).StateMachineCommitment(height)
}

// GetRequestReceipt returns the relayer that delivered an incoming request.
func (k *Keeper) GetRequestReceipt(ctx context.Context, commitment common.Hash) ([]byte, bool) {
	return k.Host(ctx).RequestReceipt(commitment)
}

// GetResponseReceipt returns the receipt of the response delivered for a request.
func (k *Keeper) GetResponseReceipt(ctx context.Context, requestCommitment common.Hash) (channeltypes.ResponseReceipt, bool) {
	return k.Host(ctx).ResponseReceipt(requestCommitment)
}
