package types

import (
	"bytes"
	"math"
	"sort"
	"time"

	"github.com/centrifuge/go-substrate-rpc-client/v4/scale"

	errorsmod "cosmossdk.io/errors"

	"github.com/polytope-labs/ismp-go/internal/scalecodec"
)

// CreateConsensusState bootstraps a consensus state. It is a privileged message.
type CreateConsensusState struct {
	// ConsensusState is the client specific trusted state blob.
	ConsensusState    []byte
	ConsensusClientID ConsensusClientID
	ConsensusStateID  ConsensusStateID
	// UnbondingPeriod in seconds after which the client expires without updates.
	UnbondingPeriod uint64
	// ChallengePeriods in seconds keyed by the tracked state machine.
	ChallengePeriods map[StateMachine]uint64
	// StateMachineCommitments are trusted commitments to bootstrap with.
	StateMachineCommitments []IntermediateState
}

// MaxPeriod is the largest period in seconds that converts to a time.Duration.
const MaxPeriod = uint64(math.MaxInt64 / int64(time.Second))

// UnbondingDuration returns the unbonding period as a time.Duration.
func (msg CreateConsensusState) UnbondingDuration() time.Duration {
	return time.Duration(msg.UnbondingPeriod) * time.Second
}

// ChallengeDuration returns the challenge period of stateMachine as a time.Duration.
func (msg CreateConsensusState) ChallengeDuration(stateMachine StateMachine) time.Duration {
	return time.Duration(msg.ChallengePeriods[stateMachine]) * time.Second
}

// ValidateBasic performs stateless validation.
func (msg CreateConsensusState) ValidateBasic() error {
	if err := msg.ConsensusStateID.Validate(); err != nil {
		return err
	}

	if err := msg.ConsensusClientID.Validate(); err != nil {
		return err
	}

	if len(msg.ConsensusState) == 0 {
		return errorsmod.Wrap(ErrInvalidStateCommitment, "consensus state cannot be empty")
	}

	if msg.UnbondingPeriod == 0 {
		return errorsmod.Wrap(ErrInvalidParams, "unbonding period must be greater than zero")
	}

	if msg.UnbondingPeriod > MaxPeriod {
		return errorsmod.Wrapf(ErrInvalidParams, "unbonding period %d exceeds maximum %d seconds", msg.UnbondingPeriod, MaxPeriod)
	}

	for sm, period := range msg.ChallengePeriods {
		if err := sm.Validate(); err != nil {
			return err
		}

		if period > MaxPeriod {
			return errorsmod.Wrapf(ErrInvalidParams, "challenge period %d of %s exceeds maximum %d seconds", period, sm, MaxPeriod)
		}
	}

	for _, state := range msg.StateMachineCommitments {
		if err := state.Height.ID.Validate(); err != nil {
			return err
		}

		if state.Height.ID.ConsensusStateID != msg.ConsensusStateID {
			return errorsmod.Wrapf(ErrInvalidConsensusStateID, "intermediate state %s does not belong to consensus state %s", state.Height, msg.ConsensusStateID)
		}
	}

	return nil
}

// SortedChallengePeriods returns the state machines with a configured
// challenge period in a deterministic order.
func (msg CreateConsensusState) SortedChallengePeriods() []StateMachine {
	machines := make([]StateMachine, 0, len(msg.ChallengePeriods))
	for sm := range msg.ChallengePeriods {
		machines = append(machines, sm)
	}

	sort.Slice(machines, func(i, j int) bool {
		return machines[i].String() < machines[j].String()
	})

	return machines
}

// Encode implements scale.Encodeable.
func (msg CreateConsensusState) Encode(encoder scale.Encoder) error {
	if err := encoder.Encode(msg.ConsensusState); err != nil {
		return err
	}
	if err := encoder.Write(msg.ConsensusClientID[:]); err != nil {
		return err
	}
	if err := encoder.Write(msg.ConsensusStateID[:]); err != nil {
		return err
	}
	if err := encoder.Encode(msg.UnbondingPeriod); err != nil {
		return err
	}

	machines := msg.SortedChallengePeriods()
	if err := scalecodec.EncodeLength(encoder, len(machines)); err != nil {
		return err
	}
	for _, sm := range machines {
		if err := encoder.Encode(sm); err != nil {
			return err
		}
		if err := encoder.Encode(msg.ChallengePeriods[sm]); err != nil {
			return err
		}
	}

	if err := scalecodec.EncodeLength(encoder, len(msg.StateMachineCommitments)); err != nil {
		return err
	}
	for _, state := range msg.StateMachineCommitments {
		if err := encoder.Encode(state); err != nil {
			return err
		}
	}

	return nil
}

// Decode implements scale.Decodeable.
func (msg *CreateConsensusState) Decode(decoder scale.Decoder) error {
	if err := scalecodec.DecodeBytesInto(decoder, &msg.ConsensusState); err != nil {
		return err
	}
	if err := decoder.Read(msg.ConsensusClientID[:]); err != nil {
		return err
	}
	if err := decoder.Read(msg.ConsensusStateID[:]); err != nil {
		return err
	}
	if err := decoder.Decode(&msg.UnbondingPeriod); err != nil {
		return err
	}

	n, err := scalecodec.DecodeLength(decoder)
	if err != nil {
		return err
	}
	msg.ChallengePeriods = make(map[StateMachine]uint64)
	for i := 0; i < n; i++ {
		var (
			sm     StateMachine
			period uint64
		)
		if err := decoder.Decode(&sm); err != nil {
			return err
		}
		if err := decoder.Decode(&period); err != nil {
			return err
		}
		msg.ChallengePeriods[sm] = period
	}

	commitments, err := scalecodec.DecodeSlice[IntermediateState](decoder)
	if err != nil {
		return err
	}
	msg.StateMachineCommitments = commitments

	return nil
}

// ConsensusMessage carries a consensus proof for an existing consensus state.
type ConsensusMessage struct {
	ConsensusProof   []byte
	ConsensusStateID ConsensusStateID
	// Signer is the relayer that submitted the message.
	Signer []byte
}

// ValidateBasic performs stateless validation.
func (msg ConsensusMessage) ValidateBasic() error {
	if err := msg.ConsensusStateID.Validate(); err != nil {
		return err
	}

	if len(msg.ConsensusProof) == 0 {
		return errorsmod.Wrap(ErrConsensusProofVerificationFailed, "consensus proof cannot be empty")
	}

	return nil
}

// Encode implements scale.Encodeable.
func (msg ConsensusMessage) Encode(encoder scale.Encoder) error {
	if err := encoder.Encode(msg.ConsensusProof); err != nil {
		return err
	}
	if err := encoder.Write(msg.ConsensusStateID[:]); err != nil {
		return err
	}
	return encoder.Encode(msg.Signer)
}

// Decode implements scale.Decodeable.
func (msg *ConsensusMessage) Decode(decoder scale.Decoder) error {
	if err := scalecodec.DecodeBytesInto(decoder, &msg.ConsensusProof); err != nil {
		return err
	}
	if err := decoder.Read(msg.ConsensusStateID[:]); err != nil {
		return err
	}
	return scalecodec.DecodeBytesInto(decoder, &msg.Signer)
}

// FraudProofMessage carries two conflicting consensus proofs.
type FraudProofMessage struct {
	Proof1           []byte
	Proof2           []byte
	ConsensusStateID ConsensusStateID
	Signer           []byte
}

// ValidateBasic performs stateless validation.
func (msg FraudProofMessage) ValidateBasic() error {
	if err := msg.ConsensusStateID.Validate(); err != nil {
		return err
	}

	if len(msg.Proof1) == 0 || len(msg.Proof2) == 0 {
		return errorsmod.Wrap(ErrFraudProofVerificationFailed, "fraud proofs cannot be empty")
	}

	if bytes.Equal(msg.Proof1, msg.Proof2) {
		return errorsmod.Wrap(ErrIdenticalFraudProofs, "proofs are identical")
	}

	return nil
}

// Encode implements scale.Encodeable.
func (msg FraudProofMessage) Encode(encoder scale.Encoder) error {
	if err := encoder.Encode(msg.Proof1); err != nil {
		return err
	}
	if err := encoder.Encode(msg.Proof2); err != nil {
		return err
	}
	if err := encoder.Write(msg.ConsensusStateID[:]); err != nil {
		return err
	}
	return encoder.Encode(msg.Signer)
}

// Decode implements scale.Decodeable.
func (msg *FraudProofMessage) Decode(decoder scale.Decoder) error {
	if err := scalecodec.DecodeBytesInto(decoder, &msg.Proof1); err != nil {
		return err
	}
	if err := scalecodec.DecodeBytesInto(decoder, &msg.Proof2); err != nil {
		return err
	}
	if err := decoder.Read(msg.ConsensusStateID[:]); err != nil {
		return err
	}
	return scalecodec.DecodeBytesInto(decoder, &msg.Signer)
}
