package exported

import (
	clienttypes "github.com/polytope-labs/ismp-go/modules/core/02-client/types"
	channeltypes "github.com/polytope-labs/ismp-go/modules/core/04-channel/types"
)

// Status represents the status of a consensus client
type Status string

const (
	// Active is a status type of a client. An active client is allowed to be used.
	Active Status = "Active"

	// Frozen is a status type of a client. A frozen client is not allowed to be used.
	Frozen Status = "Frozen"

	// Expired is a status type of a client. An expired client is not allowed to be used.
	Expired Status = "Expired"

	// Unknown indicates there was an error in determining the status of a client.
	Unknown Status = "Unknown"
)

// String implements fmt.Stringer.
func (s Status) String() string {
	return string(s)
}

// ConsensusClient verifies the consensus proofs of one remote consensus mechanism.
// Implementations must be pure functions of their inputs and the host clock.
type ConsensusClient interface {
	// ConsensusClientID returns the id the client is registered under.
	ConsensusClientID() clienttypes.ConsensusClientID

	// VerifyConsensus verifies proof against the trusted state and returns the new
	// trusted state along with the state commitments the proof finalizes.
	VerifyConsensus(
		host Host,
		consensusStateID clienttypes.ConsensusStateID,
		trustedState []byte,
		proof []byte,
	) ([]byte, clienttypes.VerifiedCommitments, error)

	// VerifyFraudProof must only succeed if both proofs are valid against the
	// trusted state and conflict with each other.
	VerifyFraudProof(host Host, trustedState, proof1, proof2 []byte) error

	// StateMachine returns the proof verifier of a tracked state machine. It must
	// return an error for any state machine the client does not support.
	StateMachine(id clienttypes.StateMachine) (StateMachineClient, error)
}

// StateMachineClient verifies proofs against the state commitments of one remote state machine.
type StateMachineClient interface {
	// VerifyMembership verifies that every item of the batch is committed under root.
	VerifyMembership(
		host Host,
		item channeltypes.RequestResponse,
		root clienttypes.StateCommitment,
		proof channeltypes.Proof,
	) error

	// StateTrieKey returns the keys the batch items are committed under in the remote state trie.
	StateTrieKey(item channeltypes.RequestResponse) [][]byte

	// ReceiptsStateTrieKey returns the keys of the receipts the remote chain stores
	// once the batch items are delivered.
	ReceiptsStateTrieKey(item channeltypes.RequestResponse) [][]byte

	// VerifyStateProof verifies a proof of the given keys and returns their values.
	// A key without a value maps to nil.
	VerifyStateProof(
		host Host,
		keys [][]byte,
		root clienttypes.StateCommitment,
		proof channeltypes.Proof,
	) (map[string][]byte, error)
}
