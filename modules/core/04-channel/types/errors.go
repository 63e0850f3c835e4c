package types

import (
	errorsmod "cosmossdk.io/errors"
)

// ISMP request/response sentinel errors
var (
	ErrInvalidRequest                    = errorsmod.Register(codespace, 2, "invalid request")
	ErrInvalidResponse                   = errorsmod.Register(codespace, 3, "invalid response")
	ErrRequestCommitmentNotFound         = errorsmod.Register(codespace, 4, "request commitment not found")
	ErrRequestTimeoutNotElapsed          = errorsmod.Register(codespace, 5, "request timeout has not elapsed")
	ErrMembershipProofVerificationFailed = errorsmod.Register(codespace, 6, "membership proof verification failed")
	ErrStateProofVerificationFailed      = errorsmod.Register(codespace, 7, "state proof verification failed")
	ErrInsufficientProofHeight           = errorsmod.Register(codespace, 8, "proof height is lower than the requested height")
	ErrInvalidMessageDestination         = errorsmod.Register(codespace, 9, "message destination does not match host state machine")
	ErrInvalidProofHeight                = errorsmod.Register(codespace, 10, "proof height does not match message source")
	ErrRequestAlreadyDelivered           = errorsmod.Register(codespace, 11, "request has been delivered on the destination")
	ErrInvalidProof                      = errorsmod.Register(codespace, 12, "invalid proof")
	ErrEmptyBatch                        = errorsmod.Register(codespace, 13, "message carries no requests or responses")
)
