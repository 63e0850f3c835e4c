package types

import (
	"time"

	"github.com/centrifuge/go-substrate-rpc-client/v4/scale"
	"github.com/ethereum/go-ethereum/common"

	errorsmod "cosmossdk.io/errors"

	"github.com/polytope-labs/ismp-go/internal/scalecodec"
	clienttypes "github.com/polytope-labs/ismp-go/modules/core/02-client/types"
)

// Response is implemented by PostResponse and GetResponse.
type Response interface {
	// Request returns the request this response answers.
	Request() Request
	// GetSource returns the state machine that produced the response.
	GetSource() clienttypes.StateMachine
	// GetDest returns the state machine the response is delivered to.
	GetDest() clienttypes.StateMachine
	Commitment() common.Hash
	// RequestCommitment returns the commitment of the answered request.
	RequestCommitment() common.Hash
	TimedOut(now time.Time) bool
	ValidateBasic() error
}

var (
	_ Response = PostResponse{}
	_ Response = GetResponse{}
)

// PostResponse is the answer of a destination module to a PostRequest.
type PostResponse struct {
	Post             PostRequest
	Response         []byte
	TimeoutTimestamp uint64
}

// NewPostResponse returns a new PostResponse.
func NewPostResponse(post PostRequest, response []byte, timeoutTimestamp uint64) PostResponse {
	return PostResponse{
		Post:             post,
		Response:         response,
		TimeoutTimestamp: timeoutTimestamp,
	}
}

// Request implements Response.
func (r PostResponse) Request() Request { return r.Post }

// GetSource implements Response.
func (r PostResponse) GetSource() clienttypes.StateMachine { return r.Post.Dest }

// GetDest implements Response.
func (r PostResponse) GetDest() clienttypes.StateMachine { return r.Post.Source }

// Commitment implements Response.
func (r PostResponse) Commitment() common.Hash {
	return CommitPostResponse(r)
}

// RequestCommitment implements Response.
func (r PostResponse) RequestCommitment() common.Hash {
	return r.Post.Commitment()
}

// TimedOut implements Response.
func (r PostResponse) TimedOut(now time.Time) bool {
	return timedOut(r.TimeoutTimestamp, now)
}

// ValidateBasic implements Response.
func (r PostResponse) ValidateBasic() error {
	if err := r.Post.ValidateBasic(); err != nil {
		return errorsmod.Wrap(ErrInvalidResponse, err.Error())
	}
	return nil
}

// Encode implements scale.Encodeable.
func (r PostResponse) Encode(encoder scale.Encoder) error {
	if err := encoder.Encode(r.Post); err != nil {
		return err
	}
	if err := encoder.Encode(r.Response); err != nil {
		return err
	}
	return encoder.Encode(r.TimeoutTimestamp)
}

// Decode implements scale.Decodeable.
func (r *PostResponse) Decode(decoder scale.Decoder) error {
	if err := decoder.Decode(&r.Post); err != nil {
		return err
	}
	if err := scalecodec.DecodeBytesInto(decoder, &r.Response); err != nil {
		return err
	}
	return decoder.Decode(&r.TimeoutTimestamp)
}

// StorageValue is a key read from a remote state trie. A nil Value means the
// key is absent.
type StorageValue struct {
	Key   []byte
	Value []byte
}

// Encode implements scale.Encodeable.
func (v StorageValue) Encode(encoder scale.Encoder) error {
	if err := encoder.Encode(v.Key); err != nil {
		return err
	}
	return scalecodec.EncodeOptionalBytes(encoder, v.Value)
}

// Decode implements scale.Decodeable.
func (v *StorageValue) Decode(decoder scale.Decoder) error {
	if err := scalecodec.DecodeBytesInto(decoder, &v.Key); err != nil {
		return err
	}

	value, err := scalecodec.DecodeOptionalBytes(decoder)
	if err != nil {
		return err
	}
	v.Value = value

	return nil
}

// GetResponse carries the values proven for a GetRequest.
type GetResponse struct {
	Get    GetRequest
	Values []StorageValue
}

// NewGetResponse builds a GetResponse from a verified key/value map, keeping
// the key order of the request.
func NewGetResponse(get GetRequest, values map[string][]byte) GetResponse {
	storage := make([]StorageValue, 0, len(get.Keys))
	for _, key := range get.Keys {
		storage = append(storage, StorageValue{Key: key, Value: values[string(key)]})
	}

	return GetResponse{Get: get, Values: storage}
}

// Request implements Response.
func (r GetResponse) Request() Request { return r.Get }

// GetSource implements Response.
func (r GetResponse) GetSource() clienttypes.StateMachine { return r.Get.Dest }

// GetDest implements Response.
func (r GetResponse) GetDest() clienttypes.StateMachine { return r.Get.Source }

// Commitment implements Response.
func (r GetResponse) Commitment() common.Hash {
	return CommitGetResponse(r)
}

// RequestCommitment implements Response.
func (r GetResponse) RequestCommitment() common.Hash {
	return r.Get.Commitment()
}

// TimedOut implements Response. A GetResponse expires with its request.
func (r GetResponse) TimedOut(now time.Time) bool {
	return r.Get.TimedOut(now)
}

// ValidateBasic implements Response.
func (r GetResponse) ValidateBasic() error {
	if err := r.Get.ValidateBasic(); err != nil {
		return errorsmod.Wrap(ErrInvalidResponse, err.Error())
	}
	return nil
}

// Encode implements scale.Encodeable.
func (r GetResponse) Encode(encoder scale.Encoder) error {
	if err := encoder.Encode(r.Get); err != nil {
		return err
	}
	if err := scalecodec.EncodeLength(encoder, len(r.Values)); err != nil {
		return err
	}
	for _, value := range r.Values {
		if err := encoder.Encode(value); err != nil {
			return err
		}
	}
	return nil
}

// Decode implements scale.Decodeable.
func (r *GetResponse) Decode(decoder scale.Decoder) error {
	if err := decoder.Decode(&r.Get); err != nil {
		return err
	}

	values, err := scalecodec.DecodeSlice[StorageValue](decoder)
	if err != nil {
		return err
	}
	r.Values = values
	return nil
}

// ResponseReceipt records the delivery of a response on the requesting chain.
type ResponseReceipt struct {
	Response common.Hash
	Relayer  []byte
}

// Encode implements scale.Encodeable.
func (r ResponseReceipt) Encode(encoder scale.Encoder) error {
	if err := encoder.Write(r.Response.Bytes()); err != nil {
		return err
	}
	return encoder.Encode(r.Relayer)
}

// Decode implements scale.Decodeable.
func (r *ResponseReceipt) Decode(decoder scale.Decoder) error {
	if err := decoder.Read(r.Response[:]); err != nil {
		return err
	}
	return scalecodec.DecodeBytesInto(decoder, &r.Relayer)
}
