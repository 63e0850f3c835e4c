package types

import (
	"sort"
	"time"

	"github.com/centrifuge/go-substrate-rpc-client/v4/scale"
	"github.com/ethereum/go-ethereum/common"

	"github.com/polytope-labs/ismp-go/internal/scalecodec"
)

// StateCommitment holds the committed trie roots and wall clock time of one
// remote block height.
type StateCommitment struct {
	// Timestamp is the unix time in seconds of the committed block.
	Timestamp uint64
	// OverlayRoot optionally commits specifically to the ISMP request/response trie.
	OverlayRoot *common.Hash
	StateRoot   common.Hash
}

// Time returns the commitment timestamp as a time.Time.
func (c StateCommitment) Time() time.Time {
	return time.Unix(int64(c.Timestamp), 0)
}

// Equal returns true if both commitments hold the same timestamp and roots.
func (c StateCommitment) Equal(other StateCommitment) bool {
	if c.Timestamp != other.Timestamp || c.StateRoot != other.StateRoot {
		return false
	}

	if c.OverlayRoot == nil || other.OverlayRoot == nil {
		return c.OverlayRoot == nil && other.OverlayRoot == nil
	}

	return *c.OverlayRoot == *other.OverlayRoot
}

// Encode implements scale.Encodeable.
func (c StateCommitment) Encode(encoder scale.Encoder) error {
	if err := encoder.Encode(c.Timestamp); err != nil {
		return err
	}
	if err := scalecodec.EncodeOptionalHash(encoder, c.OverlayRoot); err != nil {
		return err
	}
	return encoder.Write(c.StateRoot.Bytes())
}

// Decode implements scale.Decodeable.
func (c *StateCommitment) Decode(decoder scale.Decoder) error {
	if err := decoder.Decode(&c.Timestamp); err != nil {
		return err
	}

	overlay, err := scalecodec.DecodeOptionalHash(decoder)
	if err != nil {
		return err
	}
	c.OverlayRoot = overlay

	return decoder.Read(c.StateRoot[:])
}

// StateCommitmentHeight is a commitment paired with the height it was produced at.
type StateCommitmentHeight struct {
	Commitment StateCommitment
	Height     uint64
}

// Encode implements scale.Encodeable.
func (c StateCommitmentHeight) Encode(encoder scale.Encoder) error {
	if err := encoder.Encode(c.Commitment); err != nil {
		return err
	}
	return encoder.Encode(c.Height)
}

// Decode implements scale.Decodeable.
func (c *StateCommitmentHeight) Decode(decoder scale.Decoder) error {
	if err := decoder.Decode(&c.Commitment); err != nil {
		return err
	}
	return decoder.Decode(&c.Height)
}

// IntermediateState is the atomic unit produced by consensus verification.
type IntermediateState struct {
	Height     StateMachineHeight
	Commitment StateCommitment
}

// NewIntermediateState returns a new IntermediateState.
func NewIntermediateState(height StateMachineHeight, commitment StateCommitment) IntermediateState {
	return IntermediateState{Height: height, Commitment: commitment}
}

// Encode implements scale.Encodeable.
func (s IntermediateState) Encode(encoder scale.Encoder) error {
	if err := encoder.Encode(s.Height); err != nil {
		return err
	}
	return encoder.Encode(s.Commitment)
}

// Decode implements scale.Decodeable.
func (s *IntermediateState) Decode(decoder scale.Decoder) error {
	if err := decoder.Decode(&s.Height); err != nil {
		return err
	}
	return decoder.Decode(&s.Commitment)
}

// VerifiedCommitments are the commitments a consensus client vouches for after
// verifying a consensus proof, grouped by state machine.
type VerifiedCommitments map[StateMachineID][]StateCommitmentHeight

// SortedStateMachineIDs returns the keys ordered by their string form so that
// callers iterate deterministically.
func (vc VerifiedCommitments) SortedStateMachineIDs() []StateMachineID {
	ids := make([]StateMachineID, 0, len(vc))
	for id := range vc {
		ids = append(ids, id)
	}

	sort.Slice(ids, func(i, j int) bool {
		return ids[i].String() < ids[j].String()
	})

	return ids
}
