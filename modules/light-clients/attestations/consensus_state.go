package attestations

import (
	"github.com/centrifuge/go-substrate-rpc-client/v4/scale"
	"github.com/ethereum/go-ethereum/common"

	errorsmod "cosmossdk.io/errors"

	"github.com/polytope-labs/ismp-go/internal/scalecodec"
	clienttypes "github.com/polytope-labs/ismp-go/modules/core/02-client/types"
)

const ModuleName = "ismp-attestations"

// attestorCapacity bounds the attestor set preallocated while decoding.
const attestorCapacity = 64

// ConsensusClientID is the id the attestations consensus client is registered under.
var ConsensusClientID = clienttypes.ConsensusClientID{'A', 'T', 'S', 'T'}

// ConsensusState is the trusted state of the attestations client: a fixed set
// of attestor addresses and the number of them that must sign an attestation.
type ConsensusState struct {
	Attestors       []common.Address
	MinRequiredSigs uint32
	// LatestHeight is the height of the latest accepted attestation.
	LatestHeight uint64
}

// NewConsensusState creates a new ConsensusState instance.
func NewConsensusState(attestors []common.Address, minRequiredSigs uint32, latestHeight uint64) ConsensusState {
	return ConsensusState{
		Attestors:       attestors,
		MinRequiredSigs: minRequiredSigs,
		LatestHeight:    latestHeight,
	}
}

// Validate performs basic validation of the consensus state fields.
func (cs ConsensusState) Validate() error {
	if len(cs.Attestors) == 0 {
		return errorsmod.Wrap(ErrInvalidConsensusState, "attestor addresses cannot be empty")
	}
	if cs.MinRequiredSigs == 0 {
		return errorsmod.Wrap(ErrInvalidConsensusState, "min required sigs cannot be 0")
	}
	if cs.MinRequiredSigs > uint32(len(cs.Attestors)) {
		return errorsmod.Wrap(ErrInvalidConsensusState, "min required sigs cannot exceed number of attestors")
	}

	seen := make(map[common.Address]bool)
	for _, addr := range cs.Attestors {
		if addr == (common.Address{}) {
			return errorsmod.Wrap(ErrInvalidConsensusState, "attestor address cannot be empty")
		}
		if seen[addr] {
			return errorsmod.Wrapf(ErrInvalidConsensusState, "duplicate attestor address %s", addr.Hex())
		}
		seen[addr] = true
	}

	return nil
}

// Encode implements scale.Encodeable.
func (cs ConsensusState) Encode(encoder scale.Encoder) error {
	if err := scalecodec.EncodeLength(encoder, len(cs.Attestors)); err != nil {
		return err
	}
	for _, addr := range cs.Attestors {
		if err := encoder.Write(addr.Bytes()); err != nil {
			return err
		}
	}

	if err := encoder.Encode(cs.MinRequiredSigs); err != nil {
		return err
	}
	return encoder.Encode(cs.LatestHeight)
}

// Decode implements scale.Decodeable.
func (cs *ConsensusState) Decode(decoder scale.Decoder) error {
	n, err := scalecodec.DecodeLength(decoder)
	if err != nil {
		return err
	}

	cs.Attestors = make([]common.Address, 0, min(n, attestorCapacity))
	for i := 0; i < n; i++ {
		var addr common.Address
		if err := decoder.Read(addr[:]); err != nil {
			return err
		}
		cs.Attestors = append(cs.Attestors, addr)
	}

	if err := decoder.Decode(&cs.MinRequiredSigs); err != nil {
		return err
	}
	return decoder.Decode(&cs.LatestHeight)
}

// decodeConsensusState decodes and validates a trusted state.
func decodeConsensusState(bz []byte) (ConsensusState, error) {
	var cs ConsensusState
	if err := scalecodec.Unmarshal(bz, &cs); err != nil {
		return ConsensusState{}, errorsmod.Wrapf(ErrInvalidConsensusState, "failed to decode consensus state: %v", err)
	}

	if err := cs.Validate(); err != nil {
		return ConsensusState{}, err
	}

	return cs, nil
}
