package types

import (
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"

	sdk "github.com/cosmos/cosmos-sdk/types"

	clienttypes "github.com/polytope-labs/ismp-go/modules/core/02-client/types"
)

// CommitPostRequest returns the commitment of a post request. The preimage is
// keccak(source) + keccak(dest) + nonce + timeout + keccak(from) + keccak(to) + keccak(body).
// NOTE: A fixed length preimage is ESSENTIAL to prevent relayers from being able
// to move bytes between adjacent variable length fields and produce a matching commitment.
func CommitPostRequest(request PostRequest) common.Hash {
	return crypto.Keccak256Hash(postRequestPreimage(request))
}

// CommitGetRequest returns the commitment of a get request. The preimage is
// keccak(source) + keccak(dest) + nonce + height + timeout + keccak(from) + keccak(keys).
func CommitGetRequest(request GetRequest) common.Hash {
	return crypto.Keccak256Hash(getRequestPreimage(request))
}

// CommitPostResponse returns the commitment of a post response, which binds the
// response body and its timeout to the request preimage.
func CommitPostResponse(response PostResponse) common.Hash {
	buf := postRequestPreimage(response.Post)
	buf = append(buf, crypto.Keccak256(response.Response)...)
	buf = append(buf, sdk.Uint64ToBigEndian(response.TimeoutTimestamp)...)

	return crypto.Keccak256Hash(buf)
}

// CommitGetResponse returns the commitment of a get response over the request
// preimage and every key/value pair. Absent values are distinguished from empty ones.
func CommitGetResponse(response GetResponse) common.Hash {
	buf := getRequestPreimage(response.Get)
	for _, value := range response.Values {
		buf = append(buf, crypto.Keccak256(value.Key)...)
		if value.Value == nil {
			buf = append(buf, 0)
			continue
		}
		buf = append(buf, 1)
		buf = append(buf, crypto.Keccak256(value.Value)...)
	}

	return crypto.Keccak256Hash(buf)
}

func postRequestPreimage(request PostRequest) []byte {
	buf := hashStateMachine(request.Source)
	buf = append(buf, hashStateMachine(request.Dest)...)
	buf = append(buf, sdk.Uint64ToBigEndian(request.Nonce)...)
	buf = append(buf, sdk.Uint64ToBigEndian(request.TimeoutTimestamp)...)
	buf = append(buf, crypto.Keccak256(request.From)...)
	buf = append(buf, crypto.Keccak256(request.To)...)
	buf = append(buf, crypto.Keccak256(request.Body)...)

	return buf
}

func getRequestPreimage(request GetRequest) []byte {
	buf := hashStateMachine(request.Source)
	buf = append(buf, hashStateMachine(request.Dest)...)
	buf = append(buf, sdk.Uint64ToBigEndian(request.Nonce)...)
	buf = append(buf, sdk.Uint64ToBigEndian(request.Height)...)
	buf = append(buf, sdk.Uint64ToBigEndian(request.TimeoutTimestamp)...)
	buf = append(buf, crypto.Keccak256(request.From)...)

	keys := make([]byte, 0, len(request.Keys)*common.HashLength)
	for _, key := range request.Keys {
		keys = append(keys, crypto.Keccak256(key)...)
	}
	buf = append(buf, crypto.Keccak256(keys)...)

	return buf
}

func hashStateMachine(sm clienttypes.StateMachine) []byte {
	return crypto.Keccak256([]byte(sm.String()))
}
