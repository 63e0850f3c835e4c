package ismptesting

import (
	"time"

	"github.com/ethereum/go-ethereum/common"

	clienttypes "github.com/polytope-labs/ismp-go/modules/core/02-client/types"
)

const (
	ChainID = "ismp-testchain"

	// Authority is the module authority used by test chains.
	Authority = "cosmos10d07y265gmmuvt4z0w9aw880jnsr700j6zn9kn"

	DefaultUnbondingPeriod = 14 * 24 * time.Hour
	DefaultChallengePeriod = time.Hour
)

var (
	// HostStateMachine is the state machine of the test chain.
	HostStateMachine = clienttypes.TendermintStateMachine(ChainID)

	// CounterpartyStateMachine is the remote state machine tracked by the test chain.
	CounterpartyStateMachine = clienttypes.PolkadotStateMachine(2000)

	// ConsensusStateID is the consensus state the counterparty is tracked through.
	ConsensusStateID = clienttypes.ConsensusStateID{'P', 'A', 'R', 'A'}

	// DefaultTime is the block time test chains start at.
	DefaultTime = time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)

	// CounterpartyModuleID is the sending module on the counterparty.
	CounterpartyModuleID = []byte("counterparty-module")

	MockRelayer = []byte("relayer")

	MockStateRoot   = common.HexToHash("0x5a0e7c0b9c3d4a35b5d5b6a1f0a9d5f36c2d1e8f7a6b5c4d3e2f1a0b9c8d7e6f")
	MockOverlayRoot = common.HexToHash("0x1f2e3d4c5b6a79880f1e2d3c4b5a69788f9e0d1c2b3a49586f7e6d5c4b3a2918")
)

// CounterpartyID returns the id of the counterparty as tracked by the test consensus state.
func CounterpartyID() clienttypes.StateMachineID {
	return clienttypes.NewStateMachineID(CounterpartyStateMachine, ConsensusStateID)
}

// CounterpartyHeight returns a height of the counterparty state machine.
func CounterpartyHeight(height uint64) clienttypes.StateMachineHeight {
	return clienttypes.NewStateMachineHeight(CounterpartyID(), height)
}

// NewCommitment returns a state commitment whose timestamp is the given time.
func NewCommitment(timestamp time.Time) clienttypes.StateCommitment {
	overlay := MockOverlayRoot
	return clienttypes.StateCommitment{
		Timestamp:   uint64(timestamp.Unix()),
		OverlayRoot: &overlay,
		StateRoot:   MockStateRoot,
	}
}
