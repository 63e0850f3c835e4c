package attestations

import (
	"bytes"

	errorsmod "cosmossdk.io/errors"

	"github.com/polytope-labs/ismp-go/internal/scalecodec"
	clienttypes "github.com/polytope-labs/ismp-go/modules/core/02-client/types"
	"github.com/polytope-labs/ismp-go/modules/core/exported"
)

var _ exported.ConsensusClient = (*ConsensusClient)(nil)

// ConsensusClient accepts state commitments attested by a quorum of a fixed
// attestor set. A fraud proof is a pair of quorum signed attestations for the
// same round that disagree.
type ConsensusClient struct {
	stateMachines map[clienttypes.StateMachine]bool
}

// NewConsensusClient returns an attestations consensus client tracking the given state machines.
func NewConsensusClient(stateMachines ...clienttypes.StateMachine) *ConsensusClient {
	supported := make(map[clienttypes.StateMachine]bool, len(stateMachines))
	for _, stateMachine := range stateMachines {
		supported[stateMachine] = true
	}

	return &ConsensusClient{stateMachines: supported}
}

// ConsensusClientID implements exported.ConsensusClient.
func (*ConsensusClient) ConsensusClientID() clienttypes.ConsensusClientID {
	return ConsensusClientID
}

// VerifyConsensus implements exported.ConsensusClient. The proof must be an
// AttestationProof for a round above the latest accepted round.
func (c *ConsensusClient) VerifyConsensus(
	host exported.Host,
	consensusStateID clienttypes.ConsensusStateID,
	trustedState []byte,
	proof []byte,
) ([]byte, clienttypes.VerifiedCommitments, error) {
	cs, err := decodeConsensusState(trustedState)
	if err != nil {
		return nil, nil, err
	}

	attestation, _, err := c.verifyAttestation(cs, proof)
	if err != nil {
		return nil, nil, err
	}

	if attestation.Height <= cs.LatestHeight {
		return nil, nil, errorsmod.Wrapf(ErrStaleAttestation, "attestation height %d, latest height %d", attestation.Height, cs.LatestHeight)
	}

	commitments := make(clienttypes.VerifiedCommitments)
	for _, state := range attestation.States {
		id := clienttypes.NewStateMachineID(state.StateMachine, consensusStateID)
		commitments[id] = append(commitments[id], clienttypes.StateCommitmentHeight{
			Commitment: state.Commitment,
			Height:     state.Height,
		})
	}

	cs.LatestHeight = attestation.Height
	newState, err := scalecodec.Marshal(cs)
	if err != nil {
		return nil, nil, err
	}

	host.Logger().Debug("attestation verified", "consensus-state-id", consensusStateID.String(), "height", attestation.Height, "states", len(attestation.States))

	return newState, commitments, nil
}

// VerifyFraudProof implements exported.ConsensusClient.
func (c *ConsensusClient) VerifyFraudProof(host exported.Host, trustedState, proof1, proof2 []byte) error {
	cs, err := decodeConsensusState(trustedState)
	if err != nil {
		return err
	}

	first, firstData, err := c.verifyAttestation(cs, proof1)
	if err != nil {
		return errorsmod.Wrap(err, "first proof")
	}

	second, secondData, err := c.verifyAttestation(cs, proof2)
	if err != nil {
		return errorsmod.Wrap(err, "second proof")
	}

	if first.Height != second.Height {
		return errorsmod.Wrapf(ErrNoConflict, "attestations are for heights %d and %d", first.Height, second.Height)
	}

	if bytes.Equal(firstData, secondData) {
		return errorsmod.Wrapf(ErrNoConflict, "attestations at height %d are identical", first.Height)
	}

	host.Logger().Info("conflicting attestations verified", "height", first.Height)

	return nil
}

// StateMachine implements exported.ConsensusClient.
func (c *ConsensusClient) StateMachine(id clienttypes.StateMachine) (exported.StateMachineClient, error) {
	if !c.stateMachines[id] {
		return nil, errorsmod.Wrapf(ErrUnsupportedStateMachine, "state machine %s", id)
	}

	return StateMachineClient{}, nil
}

// verifyAttestation decodes proofBz and checks its signatures against cs. It
// returns the attestation and the signed bytes.
func (c *ConsensusClient) verifyAttestation(cs ConsensusState, proofBz []byte) (Attestation, []byte, error) {
	var proof AttestationProof
	if err := scalecodec.Unmarshal(proofBz, &proof); err != nil {
		return Attestation{}, nil, errorsmod.Wrapf(ErrInvalidAttestationProof, "failed to decode proof: %v", err)
	}

	if err := proof.ValidateBasic(); err != nil {
		return Attestation{}, nil, err
	}

	if err := cs.verifySignatures(proof); err != nil {
		return Attestation{}, nil, err
	}

	attestation, err := proof.Attestation()
	if err != nil {
		return Attestation{}, nil, err
	}

	for _, state := range attestation.States {
		if !c.stateMachines[state.StateMachine] {
			return Attestation{}, nil, errorsmod.Wrapf(ErrUnsupportedStateMachine, "state machine %s", state.StateMachine)
		}
	}

	return attestation, proof.AttestationData, nil
}
