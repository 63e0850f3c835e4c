package types

import (
	"time"

	"github.com/centrifuge/go-substrate-rpc-client/v4/scale"
	"github.com/ethereum/go-ethereum/common"

	errorsmod "cosmossdk.io/errors"

	"github.com/polytope-labs/ismp-go/internal/scalecodec"
	clienttypes "github.com/polytope-labs/ismp-go/modules/core/02-client/types"
)

// Request is implemented by PostRequest and GetRequest.
type Request interface {
	GetSource() clienttypes.StateMachine
	GetDest() clienttypes.StateMachine
	GetNonce() uint64
	GetFrom() []byte
	GetTimeoutTimestamp() uint64

	// Commitment returns the content addressed hash the request is stored under.
	Commitment() common.Hash
	// TimedOut returns true if the request can no longer be delivered at now.
	TimedOut(now time.Time) bool
	ValidateBasic() error
}

var (
	_ Request = PostRequest{}
	_ Request = GetRequest{}
)

// PostRequest asks a module on the destination to accept a payload.
type PostRequest struct {
	Source clienttypes.StateMachine
	Dest   clienttypes.StateMachine
	Nonce  uint64
	// From is the id of the sending module.
	From []byte
	// To is the id of the receiving module.
	To               []byte
	TimeoutTimestamp uint64
	Body             []byte
}

// NewPostRequest returns a new PostRequest.
func NewPostRequest(source, dest clienttypes.StateMachine, nonce uint64, from, to []byte, timeoutTimestamp uint64, body []byte) PostRequest {
	return PostRequest{
		Source:           source,
		Dest:             dest,
		Nonce:            nonce,
		From:             from,
		To:               to,
		TimeoutTimestamp: timeoutTimestamp,
		Body:             body,
	}
}

func (r PostRequest) GetSource() clienttypes.StateMachine { return r.Source }
func (r PostRequest) GetDest() clienttypes.StateMachine   { return r.Dest }
func (r PostRequest) GetNonce() uint64                    { return r.Nonce }
func (r PostRequest) GetFrom() []byte                     { return r.From }
func (r PostRequest) GetTimeoutTimestamp() uint64         { return r.TimeoutTimestamp }

// Commitment implements Request.
func (r PostRequest) Commitment() common.Hash {
	return CommitPostRequest(r)
}

// TimedOut implements Request.
func (r PostRequest) TimedOut(now time.Time) bool {
	return timedOut(r.TimeoutTimestamp, now)
}

// ValidateBasic implements Request.
func (r PostRequest) ValidateBasic() error {
	if err := r.Source.Validate(); err != nil {
		return errorsmod.Wrap(err, "invalid source")
	}
	if err := r.Dest.Validate(); err != nil {
		return errorsmod.Wrap(err, "invalid destination")
	}
	if len(r.From) == 0 {
		return errorsmod.Wrap(ErrInvalidRequest, "sending module cannot be empty")
	}
	if len(r.To) == 0 {
		return errorsmod.Wrap(ErrInvalidRequest, "receiving module cannot be empty")
	}
	return nil
}

// Encode implements scale.Encodeable.
func (r PostRequest) Encode(encoder scale.Encoder) error {
	if err := encoder.Encode(r.Source); err != nil {
		return err
	}
	if err := encoder.Encode(r.Dest); err != nil {
		return err
	}
	if err := encoder.Encode(r.Nonce); err != nil {
		return err
	}
	if err := encoder.Encode(r.From); err != nil {
		return err
	}
	if err := encoder.Encode(r.To); err != nil {
		return err
	}
	if err := encoder.Encode(r.TimeoutTimestamp); err != nil {
		return err
	}
	return encoder.Encode(r.Body)
}

// Decode implements scale.Decodeable.
func (r *PostRequest) Decode(decoder scale.Decoder) error {
	if err := decoder.Decode(&r.Source); err != nil {
		return err
	}
	if err := decoder.Decode(&r.Dest); err != nil {
		return err
	}
	if err := decoder.Decode(&r.Nonce); err != nil {
		return err
	}
	if err := scalecodec.DecodeBytesInto(decoder, &r.From); err != nil {
		return err
	}
	if err := scalecodec.DecodeBytesInto(decoder, &r.To); err != nil {
		return err
	}
	if err := decoder.Decode(&r.TimeoutTimestamp); err != nil {
		return err
	}
	return scalecodec.DecodeBytesInto(decoder, &r.Body)
}

// GetRequest asks the destination for the values of a set of storage keys
// at a given height. It is answered with a state proof.
type GetRequest struct {
	Source clienttypes.StateMachine
	Dest   clienttypes.StateMachine
	Nonce  uint64
	From   []byte
	Keys   [][]byte
	// Height is the destination height the keys must be read at.
	Height           uint64
	TimeoutTimestamp uint64
}

// NewGetRequest returns a new GetRequest.
func NewGetRequest(source, dest clienttypes.StateMachine, nonce uint64, from []byte, keys [][]byte, height, timeoutTimestamp uint64) GetRequest {
	return GetRequest{
		Source:           source,
		Dest:             dest,
		Nonce:            nonce,
		From:             from,
		Keys:             keys,
		Height:           height,
		TimeoutTimestamp: timeoutTimestamp,
	}
}

func (r GetRequest) GetSource() clienttypes.StateMachine { return r.Source }
func (r GetRequest) GetDest() clienttypes.StateMachine   { return r.Dest }
func (r GetRequest) GetNonce() uint64                    { return r.Nonce }
func (r GetRequest) GetFrom() []byte                     { return r.From }
func (r GetRequest) GetTimeoutTimestamp() uint64         { return r.TimeoutTimestamp }

// Commitment implements Request.
func (r GetRequest) Commitment() common.Hash {
	return CommitGetRequest(r)
}

// TimedOut implements Request.
func (r GetRequest) TimedOut(now time.Time) bool {
	return timedOut(r.TimeoutTimestamp, now)
}

// ValidateBasic implements Request.
func (r GetRequest) ValidateBasic() error {
	if err := r.Source.Validate(); err != nil {
		return errorsmod.Wrap(err, "invalid source")
	}
	if err := r.Dest.Validate(); err != nil {
		return errorsmod.Wrap(err, "invalid destination")
	}
	if len(r.From) == 0 {
		return errorsmod.Wrap(ErrInvalidRequest, "sending module cannot be empty")
	}
	if len(r.Keys) == 0 {
		return errorsmod.Wrap(ErrInvalidRequest, "get request must query at least one key")
	}
	for i, key := range r.Keys {
		if len(key) == 0 {
			return errorsmod.Wrapf(ErrInvalidRequest, "key %d cannot be empty", i)
		}
	}
	return nil
}

// Encode implements scale.Encodeable.
func (r GetRequest) Encode(encoder scale.Encoder) error {
	if err := encoder.Encode(r.Source); err != nil {
		return err
	}
	if err := encoder.Encode(r.Dest); err != nil {
		return err
	}
	if err := encoder.Encode(r.Nonce); err != nil {
		return err
	}
	if err := encoder.Encode(r.From); err != nil {
		return err
	}
	if err := scalecodec.EncodeBytesSlice(encoder, r.Keys); err != nil {
		return err
	}
	if err := encoder.Encode(r.Height); err != nil {
		return err
	}
	return encoder.Encode(r.TimeoutTimestamp)
}

// Decode implements scale.Decodeable.
func (r *GetRequest) Decode(decoder scale.Decoder) error {
	if err := decoder.Decode(&r.Source); err != nil {
		return err
	}
	if err := decoder.Decode(&r.Dest); err != nil {
		return err
	}
	if err := decoder.Decode(&r.Nonce); err != nil {
		return err
	}
	if err := scalecodec.DecodeBytesInto(decoder, &r.From); err != nil {
		return err
	}

	keys, err := scalecodec.DecodeBytesSlice(decoder)
	if err != nil {
		return err
	}
	r.Keys = keys

	if err := decoder.Decode(&r.Height); err != nil {
		return err
	}
	return decoder.Decode(&r.TimeoutTimestamp)
}

// timedOut returns true if timeoutTimestamp is set and now has reached it.
// A zero timeout never expires.
func timedOut(timeoutTimestamp uint64, now time.Time) bool {
	if timeoutTimestamp == 0 {
		return false
	}

	unix := now.Unix()
	return unix >= 0 && uint64(unix) >= timeoutTimestamp
}
