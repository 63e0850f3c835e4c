package metrics

// Prometheus metric labels.
const (
	// 02-client labels

	LabelConsensusClientID = "consensus_client_id"
	LabelConsensusStateID  = "consensus_state_id"
	LabelStateMachineID    = "state_machine_id"
	LabelMsgType           = "msg_type"

	// Dispatch labels

	LabelSource      = "source"
	LabelDestination = "destination"
	LabelSuccess     = "success"
)
