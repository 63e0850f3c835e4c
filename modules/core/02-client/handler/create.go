package handler

import (
	errorsmod "cosmossdk.io/errors"

	clienttypes "github.com/polytope-labs/ismp-go/modules/core/02-client/types"
	"github.com/polytope-labs/ismp-go/modules/core/exported"
	"github.com/polytope-labs/ismp-go/modules/core/internal/telemetry"
)

// CreateClient bootstraps the consensus state described by msg. Creation is
// unconditional, however bootstrap commitments never overwrite a commitment that
// already exists and the latest height of a state machine never decreases.
// Callers are responsible for authorizing the message.
func CreateClient(host exported.Host, msg clienttypes.CreateConsensusState) (clienttypes.ConsensusClientCreated, error) {
	if err := msg.ValidateBasic(); err != nil {
		return clienttypes.ConsensusClientCreated{}, err
	}

	if _, err := host.ConsensusClient(msg.ConsensusClientID); err != nil {
		return clienttypes.ConsensusClientCreated{}, errorsmod.Wrapf(err, "cannot create consensus state %s", msg.ConsensusStateID)
	}

	now := host.Timestamp()

	host.StoreConsensusClientID(msg.ConsensusStateID, msg.ConsensusClientID)
	host.StoreConsensusState(msg.ConsensusStateID, msg.ConsensusState)
	host.StoreUnbondingPeriod(msg.ConsensusStateID, msg.UnbondingDuration())
	host.StoreConsensusUpdateTime(msg.ConsensusStateID, now)

	for _, stateMachine := range msg.SortedChallengePeriods() {
		id := clienttypes.NewStateMachineID(stateMachine, msg.ConsensusStateID)
		host.StoreChallengePeriod(id, msg.ChallengeDuration(stateMachine))
	}

	for _, state := range msg.StateMachineCommitments {
		if _, found := host.StateMachineCommitment(state.Height); found {
			host.Logger().Debug("skipping existing bootstrap commitment", "height", state.Height.String())
			continue
		}

		host.StoreStateMachineCommitment(state.Height, state.Commitment)
		host.StoreStateMachineUpdateTime(state.Height, now)

		latest, found := host.LatestCommitmentHeight(state.Height.ID)
		if !found || state.Height.Height > latest {
			host.StoreLatestCommitmentHeight(state.Height)
		}
	}

	host.Logger().Info(
		"consensus client created",
		"consensus-state-id", msg.ConsensusStateID.String(),
		"consensus-client-id", msg.ConsensusClientID.String(),
		"bootstrap-commitments", len(msg.StateMachineCommitments),
	)

	defer telemetry.ReportCreateConsensusClient(msg.ConsensusClientID, msg.ConsensusStateID)

	return clienttypes.ConsensusClientCreated{
		ConsensusClientID: msg.ConsensusClientID,
		ConsensusStateID:  msg.ConsensusStateID,
	}, nil
}
