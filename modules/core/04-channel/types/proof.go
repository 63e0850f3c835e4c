package types

import (
	"github.com/centrifuge/go-substrate-rpc-client/v4/scale"

	errorsmod "cosmossdk.io/errors"

	"github.com/polytope-labs/ismp-go/internal/scalecodec"
	clienttypes "github.com/polytope-labs/ismp-go/modules/core/02-client/types"
)

// Proof is an opaque state machine proof at a committed height.
type Proof struct {
	Height clienttypes.StateMachineHeight
	Proof  []byte
}

// NewProof returns a new Proof.
func NewProof(height clienttypes.StateMachineHeight, proof []byte) Proof {
	return Proof{Height: height, Proof: proof}
}

// ValidateBasic performs stateless validation.
func (p Proof) ValidateBasic() error {
	if err := p.Height.ID.Validate(); err != nil {
		return errorsmod.Wrap(ErrInvalidProof, err.Error())
	}
	if len(p.Proof) == 0 {
		return errorsmod.Wrap(ErrInvalidProof, "proof cannot be empty")
	}
	return nil
}

// Encode implements scale.Encodeable.
func (p Proof) Encode(encoder scale.Encoder) error {
	if err := encoder.Encode(p.Height); err != nil {
		return err
	}
	return encoder.Encode(p.Proof)
}

// Decode implements scale.Decodeable.
func (p *Proof) Decode(decoder scale.Decoder) error {
	if err := decoder.Decode(&p.Height); err != nil {
		return err
	}
	return scalecodec.DecodeBytesInto(decoder, &p.Proof)
}
