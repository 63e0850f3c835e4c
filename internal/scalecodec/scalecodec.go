// Package scalecodec wraps the SCALE codec of go-substrate-rpc-client with the
// handful of helpers the ISMP wire types need: length prefixes, options and
// strict whole-buffer decoding.
package scalecodec

import (
	"bytes"
	"fmt"
	"math/big"

	"github.com/centrifuge/go-substrate-rpc-client/v4/scale"
	"github.com/ethereum/go-ethereum/common"
)

// MaxLength bounds any decoded length prefix.
const MaxLength = 1 << 24

// chunkSize is the largest byte buffer allocated ahead of the bytes backing it.
const chunkSize = 1 << 12

// sliceCapacity is the largest number of items preallocated for a vector.
// Vectors grow as their items are read, never from the length prefix alone.
const sliceCapacity = 64

// Marshal returns the SCALE encoding of v.
func Marshal(v interface{}) ([]byte, error) {
	var buf bytes.Buffer
	if err := scale.NewEncoder(&buf).Encode(v); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}

// Unmarshal decodes bz into target. All of bz must be consumed.
func Unmarshal(bz []byte, target interface{}) error {
	reader := bytes.NewReader(bz)
	if err := scale.NewDecoder(reader).Decode(target); err != nil {
		return err
	}

	if reader.Len() != 0 {
		return fmt.Errorf("%d trailing bytes after decoding", reader.Len())
	}

	return nil
}

// EncodeLength writes n as a compact integer.
func EncodeLength(encoder scale.Encoder, n int) error {
	return encoder.EncodeUintCompact(*big.NewInt(int64(n)))
}

// DecodeLength reads a compact integer length prefix.
func DecodeLength(decoder scale.Decoder) (int, error) {
	n, err := decoder.DecodeUintCompact()
	if err != nil {
		return 0, err
	}

	if !n.IsUint64() || n.Uint64() > MaxLength {
		return 0, fmt.Errorf("length prefix %s exceeds maximum %d", n.String(), MaxLength)
	}

	return int(n.Uint64()), nil
}

// EncodeBytes writes a length prefixed byte vector.
func EncodeBytes(encoder scale.Encoder, bz []byte) error {
	if err := EncodeLength(encoder, len(bz)); err != nil {
		return err
	}
	return encoder.Write(bz)
}

// DecodeBytes reads a length prefixed byte vector. The buffer grows in chunks
// as bytes arrive, so a prefix larger than the remaining input fails after at
// most one chunk is allocated. An empty vector decodes as nil.
func DecodeBytes(decoder scale.Decoder) ([]byte, error) {
	n, err := DecodeLength(decoder)
	if err != nil {
		return nil, err
	}
	if n == 0 {
		return nil, nil
	}

	bz := make([]byte, 0, min(n, chunkSize))
	for len(bz) < n {
		start := len(bz)
		bz = append(bz, make([]byte, min(n-start, chunkSize))...)
		if err := decoder.Read(bz[start:]); err != nil {
			return nil, err
		}
	}

	return bz, nil
}

// DecodeBytesInto reads a length prefixed byte vector into target.
func DecodeBytesInto(decoder scale.Decoder, target *[]byte) error {
	bz, err := DecodeBytes(decoder)
	if err != nil {
		return err
	}

	*target = bz
	return nil
}

// EncodeBytesSlice writes a vector of byte vectors.
func EncodeBytesSlice(encoder scale.Encoder, items [][]byte) error {
	if err := EncodeLength(encoder, len(items)); err != nil {
		return err
	}

	for _, item := range items {
		if err := EncodeBytes(encoder, item); err != nil {
			return err
		}
	}

	return nil
}

// DecodeBytesSlice reads a vector of byte vectors.
func DecodeBytesSlice(decoder scale.Decoder) ([][]byte, error) {
	n, err := DecodeLength(decoder)
	if err != nil {
		return nil, err
	}

	items := make([][]byte, 0, min(n, sliceCapacity))
	for i := 0; i < n; i++ {
		item, err := DecodeBytes(decoder)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}

	return items, nil
}

// EncodeOptionalHash writes an Option<H256>.
func EncodeOptionalHash(encoder scale.Encoder, hash *common.Hash) error {
	if hash == nil {
		return encoder.PushByte(0)
	}

	if err := encoder.PushByte(1); err != nil {
		return err
	}

	return encoder.Write(hash.Bytes())
}

// DecodeOptionalHash reads an Option<H256>.
func DecodeOptionalHash(decoder scale.Decoder) (*common.Hash, error) {
	tag, err := decoder.ReadOneByte()
	if err != nil {
		return nil, err
	}

	switch tag {
	case 0:
		return nil, nil
	case 1:
		var hash common.Hash
		if err := decoder.Read(hash[:]); err != nil {
			return nil, err
		}
		return &hash, nil
	default:
		return nil, fmt.Errorf("invalid option tag %d", tag)
	}
}

// EncodeOptionalBytes writes an Option<Vec<u8>>. A nil slice encodes as None.
func EncodeOptionalBytes(encoder scale.Encoder, value []byte) error {
	if value == nil {
		return encoder.PushByte(0)
	}

	if err := encoder.PushByte(1); err != nil {
		return err
	}

	return EncodeBytes(encoder, value)
}

// DecodeOptionalBytes reads an Option<Vec<u8>>. None decodes as a nil slice and
// Some(empty) as a non-nil empty slice.
func DecodeOptionalBytes(decoder scale.Decoder) ([]byte, error) {
	tag, err := decoder.ReadOneByte()
	if err != nil {
		return nil, err
	}

	switch tag {
	case 0:
		return nil, nil
	case 1:
		value, err := DecodeBytes(decoder)
		if err != nil {
			return nil, err
		}
		if value == nil {
			value = []byte{}
		}
		return value, nil
	default:
		return nil, fmt.Errorf("invalid option tag %d", tag)
	}
}

// EncodeSlice writes a length prefixed vector, encoding every item through the
// encoder so that scale.Encodeable implementations are honored.
func EncodeSlice[T any](encoder scale.Encoder, items []T) error {
	if err := EncodeLength(encoder, len(items)); err != nil {
		return err
	}

	for _, item := range items {
		if err := encoder.Encode(item); err != nil {
			return err
		}
	}

	return nil
}

// DecodeSlice reads a length prefixed vector written by EncodeSlice.
func DecodeSlice[T any](decoder scale.Decoder) ([]T, error) {
	n, err := DecodeLength(decoder)
	if err != nil {
		return nil, err
	}

	items := make([]T, 0, min(n, sliceCapacity))
	for i := 0; i < n; i++ {
		var item T
		if err := decoder.Decode(&item); err != nil {
			return nil, err
		}
		items = append(items, item)
	}

	return items, nil
}

// MarshalSlice returns the SCALE encoding of a vector of items.
func MarshalSlice[T any](items []T) ([]byte, error) {
	var buf bytes.Buffer
	if err := EncodeSlice(*scale.NewEncoder(&buf), items); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}

// UnmarshalSlice decodes a vector written by MarshalSlice. All of bz must be consumed.
func UnmarshalSlice[T any](bz []byte) ([]T, error) {
	reader := bytes.NewReader(bz)
	items, err := DecodeSlice[T](*scale.NewDecoder(reader))
	if err != nil {
		return nil, err
	}

	if reader.Len() != 0 {
		return nil, fmt.Errorf("%d trailing bytes after decoding", reader.Len())
	}

	return items, nil
}
