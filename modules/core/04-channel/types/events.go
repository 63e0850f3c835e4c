package types

import (
	"fmt"
)

// ISMP request/response events
const (
	AttributeKeyCommitment = "commitment"
	AttributeKeySource     = "source"
	AttributeKeyDest       = "dest"
	AttributeKeyNonce      = "nonce"
	AttributeKeySuccess    = "success"
	AttributeKeyError      = "error"
)

// ISMP request/response events vars
var (
	EventTypeRequestDispatched  = "request_dispatched"
	EventTypeResponseDispatched = "response_dispatched"
	EventTypeTimeoutDispatched  = "timeout_dispatched"

	AttributeValueCategory = fmt.Sprintf("%s_%s", "ismp", SubModuleName)
)
