package exported

import (
	"time"

	"github.com/ethereum/go-ethereum/common"

	"cosmossdk.io/log"

	clienttypes "github.com/polytope-labs/ismp-go/modules/core/02-client/types"
	channeltypes "github.com/polytope-labs/ismp-go/modules/core/04-channel/types"
)

// Host provides the handlers with the clock, storage and registries of the
// chain they execute on. Handlers never access storage or time any other way.
type Host interface {
	Logger() log.Logger

	// HostStateMachine returns the identifier of the local state machine.
	HostStateMachine() clienttypes.StateMachine

	// Timestamp returns the current time of the host.
	Timestamp() time.Time

	ConsensusClientID(consensusStateID clienttypes.ConsensusStateID) (clienttypes.ConsensusClientID, bool)
	StoreConsensusClientID(consensusStateID clienttypes.ConsensusStateID, clientID clienttypes.ConsensusClientID)
	// ConsensusClient returns the registered implementation of a consensus client id.
	ConsensusClient(clientID clienttypes.ConsensusClientID) (ConsensusClient, error)

	ConsensusState(consensusStateID clienttypes.ConsensusStateID) ([]byte, bool)
	StoreConsensusState(consensusStateID clienttypes.ConsensusStateID, state []byte)
	ConsensusUpdateTime(consensusStateID clienttypes.ConsensusStateID) (time.Time, bool)
	StoreConsensusUpdateTime(consensusStateID clienttypes.ConsensusStateID, timestamp time.Time)
	UnbondingPeriod(consensusStateID clienttypes.ConsensusStateID) (time.Duration, bool)
	StoreUnbondingPeriod(consensusStateID clienttypes.ConsensusStateID, period time.Duration)
	ChallengePeriod(id clienttypes.StateMachineID) (time.Duration, bool)
	StoreChallengePeriod(id clienttypes.StateMachineID, period time.Duration)
	IsConsensusClientFrozen(consensusStateID clienttypes.ConsensusStateID) bool
	FreezeConsensusClient(consensusStateID clienttypes.ConsensusStateID)

	StateMachineCommitment(height clienttypes.StateMachineHeight) (clienttypes.StateCommitment, bool)
	StoreStateMachineCommitment(height clienttypes.StateMachineHeight, commitment clienttypes.StateCommitment)
	StateMachineUpdateTime(height clienttypes.StateMachineHeight) (time.Time, bool)
	StoreStateMachineUpdateTime(height clienttypes.StateMachineHeight, timestamp time.Time)
	LatestCommitmentHeight(id clienttypes.StateMachineID) (uint64, bool)
	StoreLatestCommitmentHeight(height clienttypes.StateMachineHeight)

	// HasRequestCommitment returns true if an outgoing request is still pending.
	HasRequestCommitment(commitment common.Hash) bool
	DeleteRequestCommitment(commitment common.Hash)
	// RequestReceipt returns the relayer that delivered an incoming request.
	RequestReceipt(commitment common.Hash) ([]byte, bool)
	StoreRequestReceipt(commitment common.Hash, relayer []byte)
	ResponseReceipt(requestCommitment common.Hash) (channeltypes.ResponseReceipt, bool)
	StoreResponseReceipt(requestCommitment common.Hash, receipt channeltypes.ResponseReceipt)

	IsmpRouter() IsmpRouter
}
