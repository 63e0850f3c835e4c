package attestations

import (
	"github.com/centrifuge/go-substrate-rpc-client/v4/scale"

	errorsmod "cosmossdk.io/errors"

	"github.com/polytope-labs/ismp-go/internal/scalecodec"
	clienttypes "github.com/polytope-labs/ismp-go/modules/core/02-client/types"
)

// StateAttestation attests to the commitment of one state machine at one height.
type StateAttestation struct {
	StateMachine clienttypes.StateMachine
	Height       uint64
	Commitment   clienttypes.StateCommitment
}

// Encode implements scale.Encodeable.
func (s StateAttestation) Encode(encoder scale.Encoder) error {
	if err := encoder.Encode(s.StateMachine); err != nil {
		return err
	}
	if err := encoder.Encode(s.Height); err != nil {
		return err
	}
	return encoder.Encode(s.Commitment)
}

// Decode implements scale.Decodeable.
func (s *StateAttestation) Decode(decoder scale.Decoder) error {
	if err := decoder.Decode(&s.StateMachine); err != nil {
		return err
	}
	if err := decoder.Decode(&s.Height); err != nil {
		return err
	}
	return decoder.Decode(&s.Commitment)
}

// Attestation is the data signed by the attestors in one round.
type Attestation struct {
	// Height is the round of the attestation. Rounds strictly increase.
	Height uint64
	States []StateAttestation
}

// ValidateBasic performs stateless validation of an attestation.
func (a Attestation) ValidateBasic() error {
	if a.Height == 0 {
		return errorsmod.Wrap(ErrInvalidAttestationData, "height cannot be 0")
	}
	if len(a.States) == 0 {
		return errorsmod.Wrap(ErrInvalidAttestationData, "states cannot be empty")
	}

	type stateHeight struct {
		stateMachine clienttypes.StateMachine
		height       uint64
	}

	seen := make(map[stateHeight]bool)
	for _, state := range a.States {
		if err := state.StateMachine.Validate(); err != nil {
			return errorsmod.Wrap(ErrInvalidAttestationData, err.Error())
		}

		key := stateHeight{stateMachine: state.StateMachine, height: state.Height}
		if seen[key] {
			return errorsmod.Wrapf(ErrInvalidAttestationData, "duplicate attestation for %s at height %d", state.StateMachine, state.Height)
		}
		seen[key] = true
	}

	return nil
}

// Encode implements scale.Encodeable.
func (a Attestation) Encode(encoder scale.Encoder) error {
	if err := encoder.Encode(a.Height); err != nil {
		return err
	}
	return scalecodec.EncodeSlice(encoder, a.States)
}

// Decode implements scale.Decodeable.
func (a *Attestation) Decode(decoder scale.Decoder) error {
	if err := decoder.Decode(&a.Height); err != nil {
		return err
	}

	states, err := scalecodec.DecodeSlice[StateAttestation](decoder)
	if err != nil {
		return err
	}
	a.States = states

	return nil
}

// AttestationProof is a SCALE encoded Attestation together with the attestor
// signatures over its sha256 digest.
type AttestationProof struct {
	AttestationData []byte
	Signatures      [][]byte
}

// NewAttestationProof encodes attestation into a proof carrying the given signatures.
func NewAttestationProof(attestation Attestation, signatures [][]byte) (AttestationProof, error) {
	data, err := scalecodec.Marshal(attestation)
	if err != nil {
		return AttestationProof{}, err
	}

	return AttestationProof{AttestationData: data, Signatures: signatures}, nil
}

// ValidateBasic performs stateless validation of the proof and its attestation.
func (p AttestationProof) ValidateBasic() error {
	if len(p.AttestationData) == 0 {
		return errorsmod.Wrap(ErrInvalidAttestationProof, "attestation data cannot be empty")
	}
	if len(p.Signatures) == 0 {
		return errorsmod.Wrap(ErrInvalidAttestationProof, "signatures cannot be empty")
	}

	_, err := p.Attestation()
	return err
}

// Attestation decodes the attested data.
func (p AttestationProof) Attestation() (Attestation, error) {
	var attestation Attestation
	if err := scalecodec.Unmarshal(p.AttestationData, &attestation); err != nil {
		return Attestation{}, errorsmod.Wrapf(ErrInvalidAttestationData, "failed to decode attestation: %v", err)
	}

	if err := attestation.ValidateBasic(); err != nil {
		return Attestation{}, err
	}

	return attestation, nil
}

// Encode implements scale.Encodeable.
func (p AttestationProof) Encode(encoder scale.Encoder) error {
	if err := encoder.Encode(p.AttestationData); err != nil {
		return err
	}
	return scalecodec.EncodeBytesSlice(encoder, p.Signatures)
}

// Decode implements scale.Decodeable.
func (p *AttestationProof) Decode(decoder scale.Decoder) error {
	if err := scalecodec.DecodeBytesInto(decoder, &p.AttestationData); err != nil {
		return err
	}

	signatures, err := scalecodec.DecodeBytesSlice(decoder)
	if err != nil {
		return err
	}
	p.Signatures = signatures

	return nil
}
