package types

import (
	"encoding/binary"
	"fmt"
	"strconv"
	"strings"

	"github.com/centrifuge/go-substrate-rpc-client/v4/scale"

	errorsmod "cosmossdk.io/errors"

	"github.com/polytope-labs/ismp-go/internal/scalecodec"
)

// StateMachineKind enumerates the families of state machines ISMP can track.
// The numeric values are the SCALE variant indices.
type StateMachineKind uint8

const (
	Evm StateMachineKind = iota
	Polkadot
	Kusama
	Substrate
	Tendermint
)

var stateMachinePrefixes = map[StateMachineKind]string{
	Evm:        "EVM",
	Polkadot:   "POLKADOT",
	Kusama:     "KUSAMA",
	Substrate:  "SUBSTRATE",
	Tendermint: "TNDRMINT",
}

// String returns the prefix used in the textual state machine representation.
func (k StateMachineKind) String() string {
	if prefix, ok := stateMachinePrefixes[k]; ok {
		return prefix
	}
	return fmt.Sprintf("UNKNOWN(%d)", uint8(k))
}

// StateMachine identifies a remote chain. ID holds the kind specific
// identifier: a decimal u32 for Evm, Polkadot and Kusama, four ascii bytes for
// Substrate and an arbitrary chain id for Tendermint.
type StateMachine struct {
	Kind StateMachineKind
	ID   string
}

// EvmStateMachine returns the state machine for an EVM chain id.
func EvmStateMachine(chainID uint32) StateMachine {
	return StateMachine{Kind: Evm, ID: strconv.FormatUint(uint64(chainID), 10)}
}

// PolkadotStateMachine returns the state machine for a Polkadot parachain.
func PolkadotStateMachine(paraID uint32) StateMachine {
	return StateMachine{Kind: Polkadot, ID: strconv.FormatUint(uint64(paraID), 10)}
}

// KusamaStateMachine returns the state machine for a Kusama parachain.
func KusamaStateMachine(paraID uint32) StateMachine {
	return StateMachine{Kind: Kusama, ID: strconv.FormatUint(uint64(paraID), 10)}
}

// SubstrateStateMachine returns the state machine for a solo substrate chain.
func SubstrateStateMachine(id [4]byte) StateMachine {
	return StateMachine{Kind: Substrate, ID: string(id[:])}
}

// TendermintStateMachine returns the state machine for a tendermint chain id.
func TendermintStateMachine(chainID string) StateMachine {
	return StateMachine{Kind: Tendermint, ID: chainID}
}

// ParseStateMachine parses the "<PREFIX>-<ID>" representation, e.g. "EVM-97".
func ParseStateMachine(s string) (StateMachine, error) {
	prefix, id, found := strings.Cut(s, "-")
	if !found {
		return StateMachine{}, errorsmod.Wrapf(ErrInvalidStateMachine, "missing separator in %q", s)
	}

	for kind, p := range stateMachinePrefixes {
		if p != prefix {
			continue
		}

		sm := StateMachine{Kind: kind, ID: id}
		if err := sm.Validate(); err != nil {
			return StateMachine{}, err
		}
		return sm, nil
	}

	return StateMachine{}, errorsmod.Wrapf(ErrInvalidStateMachine, "unknown state machine prefix %q", prefix)
}

// String implements fmt.Stringer.
func (sm StateMachine) String() string {
	return fmt.Sprintf("%s-%s", sm.Kind, sm.ID)
}

// MarshalText implements encoding.TextMarshaler.
func (sm StateMachine) MarshalText() ([]byte, error) {
	return []byte(sm.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (sm *StateMachine) UnmarshalText(text []byte) error {
	parsed, err := ParseStateMachine(string(text))
	if err != nil {
		return err
	}
	*sm = parsed
	return nil
}

// Validate performs a stateless check of the identifier.
func (sm StateMachine) Validate() error {
	switch sm.Kind {
	case Evm, Polkadot, Kusama:
		n, err := strconv.ParseUint(sm.ID, 10, 32)
		if err != nil {
			return errorsmod.Wrapf(ErrInvalidStateMachine, "%s id %q is not a u32", sm.Kind, sm.ID)
		}
		if strconv.FormatUint(n, 10) != sm.ID {
			return errorsmod.Wrapf(ErrInvalidStateMachine, "%s id %q is not canonical", sm.Kind, sm.ID)
		}
	case Substrate:
		if len(sm.ID) != 4 {
			return errorsmod.Wrapf(ErrInvalidStateMachine, "substrate id %q must be exactly 4 bytes", sm.ID)
		}
	case Tendermint:
		if strings.TrimSpace(sm.ID) == "" {
			return errorsmod.Wrap(ErrInvalidStateMachine, "tendermint chain id cannot be blank")
		}
	default:
		return errorsmod.Wrapf(ErrInvalidStateMachine, "unknown kind %d", sm.Kind)
	}
	return nil
}

// Encode implements scale.Encodeable.
func (sm StateMachine) Encode(encoder scale.Encoder) error {
	if err := sm.Validate(); err != nil {
		return err
	}

	if err := encoder.PushByte(byte(sm.Kind)); err != nil {
		return err
	}

	switch sm.Kind {
	case Evm, Polkadot, Kusama:
		// Validate guarantees a canonical u32
		n, _ := strconv.ParseUint(sm.ID, 10, 32)
		var bz [4]byte
		binary.LittleEndian.PutUint32(bz[:], uint32(n))
		return encoder.Write(bz[:])
	case Substrate:
		return encoder.Write([]byte(sm.ID))
	default:
		return encoder.Encode([]byte(sm.ID))
	}
}

// Decode implements scale.Decodeable.
func (sm *StateMachine) Decode(decoder scale.Decoder) error {
	tag, err := decoder.ReadOneByte()
	if err != nil {
		return err
	}

	kind := StateMachineKind(tag)
	switch kind {
	case Evm, Polkadot, Kusama:
		var bz [4]byte
		if err := decoder.Read(bz[:]); err != nil {
			return err
		}
		*sm = StateMachine{Kind: kind, ID: strconv.FormatUint(uint64(binary.LittleEndian.Uint32(bz[:])), 10)}
	case Substrate:
		var bz [4]byte
		if err := decoder.Read(bz[:]); err != nil {
			return err
		}
		*sm = SubstrateStateMachine(bz)
	case Tendermint:
		var bz []byte
		if err := scalecodec.DecodeBytesInto(decoder, &bz); err != nil {
			return err
		}
		*sm = TendermintStateMachine(string(bz))
	default:
		return errorsmod.Wrapf(ErrInvalidStateMachine, "unknown variant %d", tag)
	}

	return sm.Validate()
}

// StateMachineID is a remote chain as tracked through a specific consensus state.
type StateMachineID struct {
	StateID          StateMachine
	ConsensusStateID ConsensusStateID
}

// NewStateMachineID returns a new StateMachineID.
func NewStateMachineID(stateID StateMachine, consensusStateID ConsensusStateID) StateMachineID {
	return StateMachineID{StateID: stateID, ConsensusStateID: consensusStateID}
}

// String implements fmt.Stringer.
func (id StateMachineID) String() string {
	return fmt.Sprintf("%s/%s", id.StateID, id.ConsensusStateID)
}

// Validate performs a stateless check of the identifier.
func (id StateMachineID) Validate() error {
	if err := id.StateID.Validate(); err != nil {
		return err
	}
	return id.ConsensusStateID.Validate()
}

// Encode implements scale.Encodeable.
func (id StateMachineID) Encode(encoder scale.Encoder) error {
	if err := encoder.Encode(id.StateID); err != nil {
		return err
	}
	return encoder.Write(id.ConsensusStateID[:])
}

// Decode implements scale.Decodeable.
func (id *StateMachineID) Decode(decoder scale.Decoder) error {
	if err := decoder.Decode(&id.StateID); err != nil {
		return err
	}
	return decoder.Read(id.ConsensusStateID[:])
}

// StateMachineHeight is a specific block of a specific tracked chain.
type StateMachineHeight struct {
	ID     StateMachineID
	Height uint64
}

// NewStateMachineHeight returns a new StateMachineHeight.
func NewStateMachineHeight(id StateMachineID, height uint64) StateMachineHeight {
	return StateMachineHeight{ID: id, Height: height}
}

// String implements fmt.Stringer.
func (h StateMachineHeight) String() string {
	return fmt.Sprintf("%s@%d", h.ID, h.Height)
}

// Encode implements scale.Encodeable.
func (h StateMachineHeight) Encode(encoder scale.Encoder) error {
	if err := encoder.Encode(h.ID); err != nil {
		return err
	}
	return encoder.Encode(h.Height)
}

// Decode implements scale.Decodeable.
func (h *StateMachineHeight) Decode(decoder scale.Decoder) error {
	if err := decoder.Decode(&h.ID); err != nil {
		return err
	}
	return decoder.Decode(&h.Height)
}
