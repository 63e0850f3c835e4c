package attestations

import (
	errorsmod "cosmossdk.io/errors"
)

var (
	ErrInvalidConsensusState   = errorsmod.Register(ModuleName, 2, "invalid attestations consensus state")
	ErrInvalidAttestationProof = errorsmod.Register(ModuleName, 3, "invalid attestation proof")
	ErrInvalidAttestationData  = errorsmod.Register(ModuleName, 4, "invalid attestation data")
	ErrInvalidSignature        = errorsmod.Register(ModuleName, 5, "invalid signature")
	ErrDuplicateSigner         = errorsmod.Register(ModuleName, 6, "duplicate signer")
	ErrUnknownSigner           = errorsmod.Register(ModuleName, 7, "signer is not an attestor")
	ErrInvalidQuorum           = errorsmod.Register(ModuleName, 8, "quorum not met")
	ErrStaleAttestation        = errorsmod.Register(ModuleName, 9, "attestation height is not above the latest height")
	ErrUnsupportedStateMachine = errorsmod.Register(ModuleName, 10, "state machine is not supported")
	ErrNoConflict              = errorsmod.Register(ModuleName, 11, "attestations do not conflict")
	ErrInvalidProof            = errorsmod.Register(ModuleName, 12, "invalid state machine proof")
	ErrNotMember               = errorsmod.Register(ModuleName, 13, "membership proof does not match the committed root")
	ErrStateRootMismatch       = errorsmod.Register(ModuleName, 14, "state proof does not match the state root")
)
