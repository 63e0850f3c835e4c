package types

import (
	"encoding/hex"
	"fmt"
	"strings"

	errorsmod "cosmossdk.io/errors"
)

// ConsensusStateID identifies one instance of trusted consensus state, i.e. a
// remote chain tracked with a particular client configuration.
type ConsensusStateID [4]byte

// ConsensusClientID identifies the verification algorithm used by a
// ConsensusStateID. Many consensus states may share one client id.
type ConsensusClientID [4]byte

// IsZero returns true if no byte of the id is set.
func (id ConsensusStateID) IsZero() bool {
	return id == ConsensusStateID{}
}

// Validate returns an error if the id is the zero value.
func (id ConsensusStateID) Validate() error {
	if id.IsZero() {
		return errorsmod.Wrap(ErrInvalidConsensusStateID, "consensus state id cannot be empty")
	}
	return nil
}

// String returns the id as ascii when printable, otherwise as 0x-prefixed hex.
func (id ConsensusStateID) String() string {
	return formatID(id)
}

// MarshalText implements encoding.TextMarshaler.
func (id ConsensusStateID) MarshalText() ([]byte, error) {
	return []byte(id.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (id *ConsensusStateID) UnmarshalText(text []byte) error {
	parsed, err := ParseConsensusStateID(string(text))
	if err != nil {
		return err
	}
	*id = parsed
	return nil
}

// ParseConsensusStateID parses either a four character ascii id ("ETH0") or
// eight hex characters with an optional 0x prefix.
func ParseConsensusStateID(s string) (ConsensusStateID, error) {
	bz, err := parseID(s)
	if err != nil {
		return ConsensusStateID{}, errorsmod.Wrap(ErrInvalidConsensusStateID, err.Error())
	}
	return ConsensusStateID(bz), nil
}

// IsZero returns true if no byte of the id is set.
func (id ConsensusClientID) IsZero() bool {
	return id == ConsensusClientID{}
}

// Validate returns an error if the id is the zero value.
func (id ConsensusClientID) Validate() error {
	if id.IsZero() {
		return errorsmod.Wrap(ErrInvalidConsensusClientID, "consensus client id cannot be empty")
	}
	return nil
}

// String returns the id as ascii when printable, otherwise as 0x-prefixed hex.
func (id ConsensusClientID) String() string {
	return formatID(id)
}

// MarshalText implements encoding.TextMarshaler.
func (id ConsensusClientID) MarshalText() ([]byte, error) {
	return []byte(id.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (id *ConsensusClientID) UnmarshalText(text []byte) error {
	parsed, err := ParseConsensusClientID(string(text))
	if err != nil {
		return err
	}
	*id = parsed
	return nil
}

// ParseConsensusClientID parses either a four character ascii id ("ATST") or
// eight hex characters with an optional 0x prefix.
func ParseConsensusClientID(s string) (ConsensusClientID, error) {
	bz, err := parseID(s)
	if err != nil {
		return ConsensusClientID{}, errorsmod.Wrap(ErrInvalidConsensusClientID, err.Error())
	}
	return ConsensusClientID(bz), nil
}

func formatID(id [4]byte) string {
	for _, b := range id {
		if b < 0x21 || b > 0x7e {
			return "0x" + hex.EncodeToString(id[:])
		}
	}
	return string(id[:])
}

func parseID(s string) ([4]byte, error) {
	var id [4]byte
	switch {
	case len(s) == 4:
		copy(id[:], s)
	case len(s) == 10 && strings.HasPrefix(s, "0x"), len(s) == 8:
		bz, err := hex.DecodeString(strings.TrimPrefix(s, "0x"))
		if err != nil {
			return id, err
		}
		copy(id[:], bz)
	default:
		return id, fmt.Errorf("id %q must be 4 ascii characters or 4 hex encoded bytes", s)
	}
	return id, nil
}
