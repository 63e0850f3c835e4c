package handler

import (
	errorsmod "cosmossdk.io/errors"

	clienttypes "github.com/polytope-labs/ismp-go/modules/core/02-client/types"
	"github.com/polytope-labs/ismp-go/modules/core/exported"
)

// Status returns the status of a consensus state. Unknown is returned for a
// consensus state that was never created.
func Status(host exported.Host, consensusStateID clienttypes.ConsensusStateID) exported.Status {
	if _, found := host.ConsensusClientID(consensusStateID); !found {
		return exported.Unknown
	}

	if host.IsConsensusClientFrozen(consensusStateID) {
		return exported.Frozen
	}

	if checkNotExpired(host, consensusStateID) != nil {
		return exported.Expired
	}

	return exported.Active
}

// ValidateStateMachine checks that the commitment at proofHeight may be used as
// proof evidence and returns the verifier of its state machine together with
// the commitment. The consensus state must not be frozen and the challenge
// period must have elapsed since the height was committed on the host.
func ValidateStateMachine(host exported.Host, proofHeight clienttypes.StateMachineHeight) (exported.StateMachineClient, clienttypes.StateCommitment, error) {
	id := proofHeight.ID

	_, consensusClient, err := resolveClient(host, id.ConsensusStateID)
	if err != nil {
		return nil, clienttypes.StateCommitment{}, err
	}

	if host.IsConsensusClientFrozen(id.ConsensusStateID) {
		return nil, clienttypes.StateCommitment{}, errorsmod.Wrapf(clienttypes.ErrConsensusClientFrozen, "consensus state %s", id.ConsensusStateID)
	}

	challengePeriod, found := host.ChallengePeriod(id)
	if !found {
		return nil, clienttypes.StateCommitment{}, errorsmod.Wrapf(clienttypes.ErrChallengePeriodNotConfigured, "state machine %s", id)
	}

	updateTime, found := host.StateMachineUpdateTime(proofHeight)
	if !found {
		return nil, clienttypes.StateCommitment{}, errorsmod.Wrapf(clienttypes.ErrStateCommitmentNotFound, "no update time for %s", proofHeight)
	}

	now := host.Timestamp()
	if now.Before(updateTime.Add(challengePeriod)) {
		return nil, clienttypes.StateCommitment{}, errorsmod.Wrapf(
			clienttypes.ErrChallengePeriodNotElapsed,
			"current time %d, update time %d, challenge period %s", now.Unix(), updateTime.Unix(), challengePeriod,
		)
	}

	stateMachineClient, err := consensusClient.StateMachine(id.StateID)
	if err != nil {
		return nil, clienttypes.StateCommitment{}, errorsmod.Wrapf(clienttypes.ErrUnknownStateMachine, "%s: %s", id.StateID, err)
	}

	commitment, found := host.StateMachineCommitment(proofHeight)
	if !found {
		return nil, clienttypes.StateCommitment{}, errorsmod.Wrapf(clienttypes.ErrStateCommitmentNotFound, "height %s", proofHeight)
	}

	return stateMachineClient, commitment, nil
}

// resolveClient returns the consensus client a consensus state is verified with.
func resolveClient(host exported.Host, consensusStateID clienttypes.ConsensusStateID) (clienttypes.ConsensusClientID, exported.ConsensusClient, error) {
	clientID, found := host.ConsensusClientID(consensusStateID)
	if !found {
		return clienttypes.ConsensusClientID{}, nil, errorsmod.Wrapf(clienttypes.ErrConsensusStateIDNotRecognized, "consensus state %s", consensusStateID)
	}

	consensusClient, err := host.ConsensusClient(clientID)
	if err != nil {
		return clienttypes.ConsensusClientID{}, nil, err
	}

	return clientID, consensusClient, nil
}

// checkNotExpired returns ErrConsensusClientExpired if more than the unbonding
// period has passed since the consensus state was last updated.
func checkNotExpired(host exported.Host, consensusStateID clienttypes.ConsensusStateID) error {
	unbondingPeriod, found := host.UnbondingPeriod(consensusStateID)
	if !found {
		return nil
	}

	updateTime, found := host.ConsensusUpdateTime(consensusStateID)
	if !found {
		return nil
	}

	if elapsed := host.Timestamp().Sub(updateTime); elapsed > unbondingPeriod {
		return errorsmod.Wrapf(
			clienttypes.ErrConsensusClientExpired,
			"consensus state %s last updated %s ago, unbonding period %s", consensusStateID, elapsed, unbondingPeriod,
		)
	}

	return nil
}
