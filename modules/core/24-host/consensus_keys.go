package host

import (
	"fmt"

	sdk "github.com/cosmos/cosmos-sdk/types"

	clienttypes "github.com/polytope-labs/ismp-go/modules/core/02-client/types"
)

const (
	KeyConsensusStatePrefix  = "consensusStates"
	KeyConsensusState        = "state"
	KeyConsensusClientID     = "client"
	KeyConsensusUpdateTime   = "updateTime"
	KeyUnbondingPeriod       = "unbondingPeriod"
	KeyFrozen                = "frozen"
	KeyChallengePeriodPrefix = "challengePeriods"
	KeyStateCommitmentPrefix = "stateCommitments"
	KeyStateUpdateTimePrefix = "stateCommitmentUpdateTimes"
	KeyHeightPrefix          = "heights"
	KeyLatestHeight          = "latestHeight"
	KeyParams                = "params"
)

// FullConsensusStatePath returns the path of a field of a consensus state in the format:
// "consensusStates/{consensusStateID}/{path}".
func FullConsensusStatePath(consensusStateID clienttypes.ConsensusStateID, path string) string {
	return fmt.Sprintf("%s/%s/%s", KeyConsensusStatePrefix, consensusStateID, path)
}

// ConsensusStateKey returns the key under which the trusted consensus state bytes are stored.
func ConsensusStateKey(consensusStateID clienttypes.ConsensusStateID) []byte {
	return []byte(FullConsensusStatePath(consensusStateID, KeyConsensusState))
}

// ConsensusClientIDKey returns the key of the consensus client id a consensus state is verified with.
func ConsensusClientIDKey(consensusStateID clienttypes.ConsensusStateID) []byte {
	return []byte(FullConsensusStatePath(consensusStateID, KeyConsensusClientID))
}

// ConsensusUpdateTimeKey returns the key of the last update time of a consensus state.
func ConsensusUpdateTimeKey(consensusStateID clienttypes.ConsensusStateID) []byte {
	return []byte(FullConsensusStatePath(consensusStateID, KeyConsensusUpdateTime))
}

// UnbondingPeriodKey returns the key of the unbonding period of a consensus state.
func UnbondingPeriodKey(consensusStateID clienttypes.ConsensusStateID) []byte {
	return []byte(FullConsensusStatePath(consensusStateID, KeyUnbondingPeriod))
}

// FrozenKey returns the key of the frozen flag of a consensus state.
func FrozenKey(consensusStateID clienttypes.ConsensusStateID) []byte {
	return []byte(FullConsensusStatePath(consensusStateID, KeyFrozen))
}

// ChallengePeriodKey returns the key of the challenge period of a state machine.
func ChallengePeriodKey(id clienttypes.StateMachineID) []byte {
	return []byte(fmt.Sprintf("%s/%s", KeyChallengePeriodPrefix, id))
}

// StateCommitmentPrefixKey returns the prefix of all commitments of a state machine.
func StateCommitmentPrefixKey(id clienttypes.StateMachineID) []byte {
	return []byte(fmt.Sprintf("%s/%s/%s/", KeyStateCommitmentPrefix, id, KeyHeightPrefix))
}

// StateCommitmentKey returns the key of the commitment at a state machine height.
// Heights are big endian encoded so that prefix iteration is ordered by height.
func StateCommitmentKey(height clienttypes.StateMachineHeight) []byte {
	return append(StateCommitmentPrefixKey(height.ID), sdk.Uint64ToBigEndian(height.Height)...)
}

// StateUpdateTimeKey returns the key of the time a state machine height was committed on the host.
func StateUpdateTimeKey(height clienttypes.StateMachineHeight) []byte {
	key := []byte(fmt.Sprintf("%s/%s/%s/", KeyStateUpdateTimePrefix, height.ID, KeyHeightPrefix))
	return append(key, sdk.Uint64ToBigEndian(height.Height)...)
}

// LatestHeightKey returns the key of the latest committed height of a state machine.
func LatestHeightKey(id clienttypes.StateMachineID) []byte {
	return []byte(fmt.Sprintf("%s/%s/%s", KeyStateCommitmentPrefix, id, KeyLatestHeight))
}

// ParamsKey returns the key under which the module params are stored.
func ParamsKey() []byte {
	return []byte(KeyParams)
}
