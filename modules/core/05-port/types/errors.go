package types

import (
	errorsmod "cosmossdk.io/errors"
)

// ISMP module routing sentinel errors
var (
	ErrModuleNotFound = errorsmod.Register(codespace, 2, "no module registered for id")
)
