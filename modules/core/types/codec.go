package types

import (
	"bytes"
	"fmt"

	"github.com/centrifuge/go-substrate-rpc-client/v4/scale"

	errorsmod "cosmossdk.io/errors"

	"github.com/polytope-labs/ismp-go/internal/scalecodec"
	clienttypes "github.com/polytope-labs/ismp-go/modules/core/02-client/types"
	channeltypes "github.com/polytope-labs/ismp-go/modules/core/04-channel/types"
	ismperrors "github.com/polytope-labs/ismp-go/modules/core/errors"
)

// Sub variants of response and timeout messages.
const (
	variantPost byte = iota
	variantGet
)

// EncodeMessage returns the SCALE encoding of msg. The first byte is the
// MessageKind. Response and timeout messages carry a second byte selecting
// the post or get variant.
func EncodeMessage(msg Message) ([]byte, error) {
	kind, err := KindOf(msg)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	encoder := scale.NewEncoder(&buf)
	if err := encoder.PushByte(byte(kind)); err != nil {
		return nil, err
	}

	switch msg := msg.(type) {
	case clienttypes.ConsensusMessage:
		err = encoder.Encode(msg)
	case clienttypes.FraudProofMessage:
		err = encoder.Encode(msg)
	case channeltypes.RequestMessage:
		err = encoder.Encode(msg)
	case channeltypes.PostResponseMessage:
		err = encodeVariant(encoder, variantPost, msg)
	case channeltypes.GetResponseMessage:
		err = encodeVariant(encoder, variantGet, msg)
	case channeltypes.PostTimeoutMessage:
		err = encodeVariant(encoder, variantPost, msg)
	case channeltypes.GetTimeoutMessage:
		err = encodeVariant(encoder, variantGet, msg)
	}
	if err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}

// DecodeMessage decodes a message produced by EncodeMessage. The returned
// message is always a value, never a pointer.
func DecodeMessage(bz []byte) (Message, error) {
	if len(bz) == 0 {
		return nil, errorsmod.Wrap(ismperrors.ErrDecode, "empty message")
	}

	kind, body := MessageKind(bz[0]), bz[1:]
	switch kind {
	case MessageKindConsensus:
		return decode[clienttypes.ConsensusMessage](body)
	case MessageKindFraudProof:
		return decode[clienttypes.FraudProofMessage](body)
	case MessageKindRequest:
		return decode[channeltypes.RequestMessage](body)
	case MessageKindResponse, MessageKindTimeout:
		if len(body) == 0 {
			return nil, errorsmod.Wrapf(ismperrors.ErrDecode, "missing %s variant", kind)
		}
		return decodeVariant(kind, body[0], body[1:])
	default:
		return nil, errorsmod.Wrapf(ismperrors.ErrUnknownMessage, "message kind %d", uint8(kind))
	}
}

func decodeVariant(kind MessageKind, variant byte, body []byte) (Message, error) {
	switch {
	case kind == MessageKindResponse && variant == variantPost:
		return decode[channeltypes.PostResponseMessage](body)
	case kind == MessageKindResponse && variant == variantGet:
		return decode[channeltypes.GetResponseMessage](body)
	case kind == MessageKindTimeout && variant == variantPost:
		return decode[channeltypes.PostTimeoutMessage](body)
	case kind == MessageKindTimeout && variant == variantGet:
		return decode[channeltypes.GetTimeoutMessage](body)
	default:
		return nil, errorsmod.Wrapf(ismperrors.ErrUnknownMessage, "%s variant %d", kind, variant)
	}
}

func encodeVariant(encoder *scale.Encoder, variant byte, msg interface{}) error {
	if err := encoder.PushByte(variant); err != nil {
		return err
	}
	return encoder.Encode(msg)
}

func decode[T Message](bz []byte) (Message, error) {
	var msg T
	if err := scalecodec.Unmarshal(bz, &msg); err != nil {
		return nil, errorsmod.Wrap(ismperrors.ErrDecode, fmt.Sprintf("%T: %s", msg, err))
	}
	return msg, nil
}
