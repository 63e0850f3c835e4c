package types

import (
	errorsmod "cosmossdk.io/errors"
)

// ISMP consensus client sentinel errors
var (
	ErrConsensusStateIDNotRecognized    = errorsmod.Register(codespace, 2, "consensus state id not recognized")
	ErrConsensusClientFrozen            = errorsmod.Register(codespace, 3, "consensus client is frozen")
	ErrConsensusClientExpired           = errorsmod.Register(codespace, 4, "consensus client unbonding period has elapsed")
	ErrConsensusClientNotFound          = errorsmod.Register(codespace, 5, "consensus client not registered")
	ErrChallengePeriodNotConfigured     = errorsmod.Register(codespace, 6, "challenge period not configured")
	ErrChallengePeriodNotElapsed        = errorsmod.Register(codespace, 7, "challenge period has not elapsed")
	ErrStateCommitmentNotFound          = errorsmod.Register(codespace, 8, "state commitment not found")
	ErrIdenticalFraudProofs             = errorsmod.Register(codespace, 9, "fraud proofs are identical")
	ErrFraudProofVerificationFailed     = errorsmod.Register(codespace, 10, "fraud proof verification failed")
	ErrConsensusProofVerificationFailed = errorsmod.Register(codespace, 11, "consensus proof verification failed")
	ErrInvalidConsensusStateID          = errorsmod.Register(codespace, 12, "invalid consensus state id")
	ErrInvalidConsensusClientID         = errorsmod.Register(codespace, 13, "invalid consensus client id")
	ErrInvalidStateMachine              = errorsmod.Register(codespace, 14, "invalid state machine")
	ErrInvalidStateCommitment           = errorsmod.Register(codespace, 15, "invalid state commitment")
	ErrConsensusClientNotAllowed        = errorsmod.Register(codespace, 16, "consensus client not on the allow list")
	ErrInvalidParams                    = errorsmod.Register(codespace, 17, "invalid params")
	ErrUnknownStateMachine              = errorsmod.Register(codespace, 18, "state machine not supported by consensus client")
)
