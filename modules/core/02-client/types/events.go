package types

import (
	"fmt"
)

// ISMP consensus client events
const (
	AttributeKeyConsensusStateID  = "consensus_state_id"
	AttributeKeyConsensusClientID = "consensus_client_id"
	AttributeKeyStateMachineID    = "state_machine_id"
	AttributeKeyLatestHeight      = "latest_height"
)

// ISMP consensus client events vars
var (
	EventTypeCreateConsensusClient = "create_consensus_client"
	EventTypeUpdateConsensusClient = "update_consensus_client"
	EventTypeFreezeConsensusClient = "freeze_consensus_client"
	EventTypeStateMachineUpdated   = "state_machine_updated"

	AttributeValueCategory = fmt.Sprintf("%s_%s", "ismp", SubModuleName)
)

// StateMachineUpdated is emitted when a consensus update stores at least one
// new height for a state machine.
type StateMachineUpdated struct {
	StateMachineID StateMachineID
	LatestHeight   uint64
}

// ConsensusClientCreated is emitted when a consensus state is bootstrapped.
type ConsensusClientCreated struct {
	ConsensusClientID ConsensusClientID
	ConsensusStateID  ConsensusStateID
}

// ConsensusClientFrozen is emitted when a fraud proof freezes a consensus state.
type ConsensusClientFrozen struct {
	ConsensusStateID ConsensusStateID
}
