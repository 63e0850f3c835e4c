package handler

import (
	errorsmod "cosmossdk.io/errors"

	clienttypes "github.com/polytope-labs/ismp-go/modules/core/02-client/types"
	"github.com/polytope-labs/ismp-go/modules/core/exported"
	"github.com/polytope-labs/ismp-go/modules/core/internal/telemetry"
)

// FreezeClient permanently freezes a consensus state once the consensus client
// accepts the two proofs as valid and conflicting. State commitments are left
// untouched. There is no way to unfreeze a consensus state.
func FreezeClient(host exported.Host, msg clienttypes.FraudProofMessage) (clienttypes.ConsensusClientFrozen, error) {
	consensusStateID := msg.ConsensusStateID

	// identical proofs are rejected here, before any client verification
	if err := msg.ValidateBasic(); err != nil {
		return clienttypes.ConsensusClientFrozen{}, err
	}

	clientID, consensusClient, err := resolveClient(host, consensusStateID)
	if err != nil {
		return clienttypes.ConsensusClientFrozen{}, err
	}

	if host.IsConsensusClientFrozen(consensusStateID) {
		return clienttypes.ConsensusClientFrozen{}, errorsmod.Wrapf(clienttypes.ErrConsensusClientFrozen, "consensus state %s is already frozen", consensusStateID)
	}

	trustedState, found := host.ConsensusState(consensusStateID)
	if !found {
		return clienttypes.ConsensusClientFrozen{}, errorsmod.Wrapf(clienttypes.ErrConsensusStateIDNotRecognized, "no trusted state for %s", consensusStateID)
	}

	if err := consensusClient.VerifyFraudProof(host, trustedState, msg.Proof1, msg.Proof2); err != nil {
		return clienttypes.ConsensusClientFrozen{}, errorsmod.Wrap(clienttypes.ErrFraudProofVerificationFailed, err.Error())
	}

	host.FreezeConsensusClient(consensusStateID)
	host.StoreConsensusUpdateTime(consensusStateID, host.Timestamp())

	host.Logger().Info(
		"consensus client frozen due to fraud proof",
		"consensus-state-id", consensusStateID.String(),
		"consensus-client-id", clientID.String(),
	)

	defer telemetry.ReportFreezeConsensusClient(clientID, consensusStateID)

	return clienttypes.ConsensusClientFrozen{ConsensusStateID: consensusStateID}, nil
}
