package types

import (
	"github.com/centrifuge/go-substrate-rpc-client/v4/scale"

	errorsmod "cosmossdk.io/errors"

	"github.com/polytope-labs/ismp-go/internal/scalecodec"
)

// RequestMessage delivers a batch of post requests proven against a committed
// height of their source state machine.
type RequestMessage struct {
	Requests []PostRequest
	Proof    Proof
	Signer   []byte
}

// ValidateBasic performs stateless validation.
func (msg RequestMessage) ValidateBasic() error {
	if len(msg.Requests) == 0 {
		return errorsmod.Wrap(ErrEmptyBatch, "requests cannot be empty")
	}
	for i, request := range msg.Requests {
		if err := request.ValidateBasic(); err != nil {
			return errorsmod.Wrapf(err, "request %d", i)
		}
	}
	return msg.Proof.ValidateBasic()
}

// Encode implements scale.Encodeable.
func (msg RequestMessage) Encode(encoder scale.Encoder) error {
	if err := scalecodec.EncodeSlice(encoder, msg.Requests); err != nil {
		return err
	}
	if err := encoder.Encode(msg.Proof); err != nil {
		return err
	}
	return encoder.Encode(msg.Signer)
}

// Decode implements scale.Decodeable.
func (msg *RequestMessage) Decode(decoder scale.Decoder) error {
	requests, err := scalecodec.DecodeSlice[PostRequest](decoder)
	if err != nil {
		return err
	}
	msg.Requests = requests

	if err := decoder.Decode(&msg.Proof); err != nil {
		return err
	}
	return scalecodec.DecodeBytesInto(decoder, &msg.Signer)
}

// PostResponseMessage delivers a batch of post responses proven against a
// committed height of the responding state machine.
type PostResponseMessage struct {
	Responses []PostResponse
	Proof     Proof
	Signer    []byte
}

// ValidateBasic performs stateless validation.
func (msg PostResponseMessage) ValidateBasic() error {
	if len(msg.Responses) == 0 {
		return errorsmod.Wrap(ErrEmptyBatch, "responses cannot be empty")
	}
	for i, response := range msg.Responses {
		if err := response.ValidateBasic(); err != nil {
			return errorsmod.Wrapf(err, "response %d", i)
		}
	}
	return msg.Proof.ValidateBasic()
}

// Encode implements scale.Encodeable.
func (msg PostResponseMessage) Encode(encoder scale.Encoder) error {
	if err := scalecodec.EncodeSlice(encoder, msg.Responses); err != nil {
		return err
	}
	if err := encoder.Encode(msg.Proof); err != nil {
		return err
	}
	return encoder.Encode(msg.Signer)
}

// Decode implements scale.Decodeable.
func (msg *PostResponseMessage) Decode(decoder scale.Decoder) error {
	responses, err := scalecodec.DecodeSlice[PostResponse](decoder)
	if err != nil {
		return err
	}
	msg.Responses = responses

	if err := decoder.Decode(&msg.Proof); err != nil {
		return err
	}
	return scalecodec.DecodeBytesInto(decoder, &msg.Signer)
}

// GetResponseMessage answers a batch of get requests with a state proof of the
// requested keys on their destination.
type GetResponseMessage struct {
	Requests []GetRequest
	Proof    Proof
	Signer   []byte
}

// ValidateBasic performs stateless validation.
func (msg GetResponseMessage) ValidateBasic() error {
	if len(msg.Requests) == 0 {
		return errorsmod.Wrap(ErrEmptyBatch, "requests cannot be empty")
	}
	for i, request := range msg.Requests {
		if err := request.ValidateBasic(); err != nil {
			return errorsmod.Wrapf(err, "request %d", i)
		}
	}
	return msg.Proof.ValidateBasic()
}

// Encode implements scale.Encodeable.
func (msg GetResponseMessage) Encode(encoder scale.Encoder) error {
	if err := scalecodec.EncodeSlice(encoder, msg.Requests); err != nil {
		return err
	}
	if err := encoder.Encode(msg.Proof); err != nil {
		return err
	}
	return encoder.Encode(msg.Signer)
}

// Decode implements scale.Decodeable.
func (msg *GetResponseMessage) Decode(decoder scale.Decoder) error {
	requests, err := scalecodec.DecodeSlice[GetRequest](decoder)
	if err != nil {
		return err
	}
	msg.Requests = requests

	if err := decoder.Decode(&msg.Proof); err != nil {
		return err
	}
	return scalecodec.DecodeBytesInto(decoder, &msg.Signer)
}

// PostTimeoutMessage times out post requests with a proof that their receipts
// are absent on the destination.
type PostTimeoutMessage struct {
	Requests     []PostRequest
	TimeoutProof Proof
	Signer       []byte
}

// ValidateBasic performs stateless validation.
func (msg PostTimeoutMessage) ValidateBasic() error {
	if len(msg.Requests) == 0 {
		return errorsmod.Wrap(ErrEmptyBatch, "requests cannot be empty")
	}
	for i, request := range msg.Requests {
		if err := request.ValidateBasic(); err != nil {
			return errorsmod.Wrapf(err, "request %d", i)
		}
	}
	return msg.TimeoutProof.ValidateBasic()
}

// Encode implements scale.Encodeable.
func (msg PostTimeoutMessage) Encode(encoder scale.Encoder) error {
	if err := scalecodec.EncodeSlice(encoder, msg.Requests); err != nil {
		return err
	}
	if err := encoder.Encode(msg.TimeoutProof); err != nil {
		return err
	}
	return encoder.Encode(msg.Signer)
}

// Decode implements scale.Decodeable.
func (msg *PostTimeoutMessage) Decode(decoder scale.Decoder) error {
	requests, err := scalecodec.DecodeSlice[PostRequest](decoder)
	if err != nil {
		return err
	}
	msg.Requests = requests

	if err := decoder.Decode(&msg.TimeoutProof); err != nil {
		return err
	}
	return scalecodec.DecodeBytesInto(decoder, &msg.Signer)
}

// GetTimeoutMessage times out get requests that expired on the local host.
type GetTimeoutMessage struct {
	Requests []GetRequest
	Signer   []byte
}

// ValidateBasic performs stateless validation.
func (msg GetTimeoutMessage) ValidateBasic() error {
	if len(msg.Requests) == 0 {
		return errorsmod.Wrap(ErrEmptyBatch, "requests cannot be empty")
	}
	for i, request := range msg.Requests {
		if err := request.ValidateBasic(); err != nil {
			return errorsmod.Wrapf(err, "request %d", i)
		}
	}
	return nil
}

// Encode implements scale.Encodeable.
func (msg GetTimeoutMessage) Encode(encoder scale.Encoder) error {
	if err := scalecodec.EncodeSlice(encoder, msg.Requests); err != nil {
		return err
	}
	return encoder.Encode(msg.Signer)
}

// Decode implements scale.Decodeable.
func (msg *GetTimeoutMessage) Decode(decoder scale.Decoder) error {
	requests, err := scalecodec.DecodeSlice[GetRequest](decoder)
	if err != nil {
		return err
	}
	msg.Requests = requests

	return scalecodec.DecodeBytesInto(decoder, &msg.Signer)
}
