package mock

import (
	"bytes"
	"fmt"

	"github.com/polytope-labs/ismp-go/internal/scalecodec"
	clienttypes "github.com/polytope-labs/ismp-go/modules/core/02-client/types"
	channeltypes "github.com/polytope-labs/ismp-go/modules/core/04-channel/types"
	host "github.com/polytope-labs/ismp-go/modules/core/24-host"
	"github.com/polytope-labs/ismp-go/modules/core/exported"
)

var (
	_ exported.ConsensusClient    = (*ConsensusClient)(nil)
	_ exported.StateMachineClient = (*StateMachineClient)(nil)
)

// ConsensusClient is a consensus client whose proofs are SCALE encoded lists of
// intermediate states. Every hook may be overridden to inject behaviour.
type ConsensusClient struct {
	ID clienttypes.ConsensusClientID

	// StateMachines holds the verifiers of the supported state machines.
	StateMachines map[clienttypes.StateMachine]*StateMachineClient

	VerifyConsensusFn func(
		host exported.Host,
		consensusStateID clienttypes.ConsensusStateID,
		trustedState []byte,
		proof []byte,
	) ([]byte, clienttypes.VerifiedCommitments, error)

	VerifyFraudProofFn func(host exported.Host, trustedState, proof1, proof2 []byte) error
}

// NewConsensusClient returns a mock consensus client supporting the given state machines.
func NewConsensusClient(stateMachines ...clienttypes.StateMachine) *ConsensusClient {
	client := &ConsensusClient{
		ID:            ConsensusClientID,
		StateMachines: make(map[clienttypes.StateMachine]*StateMachineClient),
	}
	for _, stateMachine := range stateMachines {
		client.StateMachines[stateMachine] = NewStateMachineClient()
	}
	return client
}

// ConsensusProof encodes intermediate states as a proof understood by the mock client.
func ConsensusProof(states ...clienttypes.IntermediateState) []byte {
	bz, err := scalecodec.MarshalSlice(states)
	if err != nil {
		panic(err)
	}
	return bz
}

// ConsensusClientID implements exported.ConsensusClient.
func (c *ConsensusClient) ConsensusClientID() clienttypes.ConsensusClientID {
	return c.ID
}

// VerifyConsensus implements exported.ConsensusClient. By default the proof is
// decoded as a list of intermediate states and the trusted state is kept.
func (c *ConsensusClient) VerifyConsensus(
	host exported.Host,
	consensusStateID clienttypes.ConsensusStateID,
	trustedState []byte,
	proof []byte,
) ([]byte, clienttypes.VerifiedCommitments, error) {
	if c.VerifyConsensusFn != nil {
		return c.VerifyConsensusFn(host, consensusStateID, trustedState, proof)
	}

	states, err := decodeProof(proof)
	if err != nil {
		return nil, nil, err
	}

	commitments := make(clienttypes.VerifiedCommitments)
	for _, state := range states {
		id := state.Height.ID
		commitments[id] = append(commitments[id], clienttypes.StateCommitmentHeight{
			Commitment: state.Commitment,
			Height:     state.Height.Height,
		})
	}

	return trustedState, commitments, nil
}

// VerifyFraudProof implements exported.ConsensusClient. By default both proofs
// must decode and commit to different roots at a common height.
func (c *ConsensusClient) VerifyFraudProof(host exported.Host, trustedState, proof1, proof2 []byte) error {
	if c.VerifyFraudProofFn != nil {
		return c.VerifyFraudProofFn(host, trustedState, proof1, proof2)
	}

	if bytes.Equal(proof1, proof2) {
		return fmt.Errorf("%w: identical proofs", ErrMockVerification)
	}

	first, err := decodeProof(proof1)
	if err != nil {
		return err
	}
	second, err := decodeProof(proof2)
	if err != nil {
		return err
	}

	for _, a := range first {
		for _, b := range second {
			if a.Height == b.Height && !a.Commitment.Equal(b.Commitment) {
				return nil
			}
		}
	}

	return fmt.Errorf("%w: proofs do not conflict", ErrMockVerification)
}

// StateMachine implements exported.ConsensusClient.
func (c *ConsensusClient) StateMachine(id clienttypes.StateMachine) (exported.StateMachineClient, error) {
	stateMachineClient, ok := c.StateMachines[id]
	if !ok {
		return nil, fmt.Errorf("state machine %s is not supported by the mock client", id)
	}
	return stateMachineClient, nil
}

func decodeProof(proof []byte) ([]clienttypes.IntermediateState, error) {
	states, err := scalecodec.UnmarshalSlice[clienttypes.IntermediateState](proof)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrMockVerification, err)
	}
	return states, nil
}

// StateMachineClient accepts every membership proof and answers state proofs
// from an in memory key value set unless a hook overrides it.
type StateMachineClient struct {
	// Values is the remote state returned by VerifyStateProof.
	Values map[string][]byte

	VerifyMembershipFn func(host exported.Host, item channeltypes.RequestResponse, root clienttypes.StateCommitment, proof channeltypes.Proof) error
	VerifyStateProofFn func(host exported.Host, keys [][]byte, root clienttypes.StateCommitment, proof channeltypes.Proof) (map[string][]byte, error)

	// MembershipCalls counts the invocations of VerifyMembership.
	MembershipCalls int
	// StateProofCalls counts the invocations of VerifyStateProof.
	StateProofCalls int
}

// NewStateMachineClient returns a mock state machine client with an empty remote state.
func NewStateMachineClient() *StateMachineClient {
	return &StateMachineClient{Values: make(map[string][]byte)}
}

// VerifyMembership implements exported.StateMachineClient.
func (c *StateMachineClient) VerifyMembership(host exported.Host, item channeltypes.RequestResponse, root clienttypes.StateCommitment, proof channeltypes.Proof) error {
	c.MembershipCalls++
	if c.VerifyMembershipFn != nil {
		return c.VerifyMembershipFn(host, item, root, proof)
	}
	return nil
}

// StateTrieKey implements exported.StateMachineClient.
func (*StateMachineClient) StateTrieKey(item channeltypes.RequestResponse) [][]byte {
	commitments := item.Commitments()
	keys := make([][]byte, 0, len(commitments))
	for _, commitment := range commitments {
		keys = append(keys, host.RequestCommitmentKey(commitment))
	}
	return keys
}

// ReceiptsStateTrieKey implements exported.StateMachineClient.
func (*StateMachineClient) ReceiptsStateTrieKey(item channeltypes.RequestResponse) [][]byte {
	commitments := item.Commitments()
	keys := make([][]byte, 0, len(commitments))
	for _, commitment := range commitments {
		keys = append(keys, host.RequestReceiptKey(commitment))
	}
	return keys
}

// VerifyStateProof implements exported.StateMachineClient.
func (c *StateMachineClient) VerifyStateProof(host exported.Host, keys [][]byte, root clienttypes.StateCommitment, proof channeltypes.Proof) (map[string][]byte, error) {
	c.StateProofCalls++
	if c.VerifyStateProofFn != nil {
		return c.VerifyStateProofFn(host, keys, root, proof)
	}

	values := make(map[string][]byte, len(keys))
	for _, key := range keys {
		values[string(key)] = c.Values[string(key)]
	}
	return values, nil
}
