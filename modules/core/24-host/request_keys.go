package host

import (
	"fmt"

	"github.com/ethereum/go-ethereum/common"
)

const (
	KeyRequestCommitmentPrefix  = "requestCommitments"
	KeyRequestReceiptPrefix     = "requestReceipts"
	KeyResponseCommitmentPrefix = "responseCommitments"
	KeyResponseReceiptPrefix    = "responseReceipts"
)

// These paths double as the state trie keys remote chains prove against, so
// they must stay identical on every host.

// RequestCommitmentKey returns the key under which an outgoing request commitment is stored.
func RequestCommitmentKey(commitment common.Hash) []byte {
	return []byte(fmt.Sprintf("%s/%s", KeyRequestCommitmentPrefix, commitment.Hex()))
}

// RequestReceiptKey returns the key under which the receipt of a delivered request is stored.
func RequestReceiptKey(commitment common.Hash) []byte {
	return []byte(fmt.Sprintf("%s/%s", KeyRequestReceiptPrefix, commitment.Hex()))
}

// ResponseCommitmentKey returns the key under which an outgoing response commitment is stored.
func ResponseCommitmentKey(commitment common.Hash) []byte {
	return []byte(fmt.Sprintf("%s/%s", KeyResponseCommitmentPrefix, commitment.Hex()))
}

// ResponseReceiptKey returns the key under which the receipt of a delivered response is
// stored. It is keyed by the commitment of the request being answered.
func ResponseReceiptKey(requestCommitment common.Hash) []byte {
	return []byte(fmt.Sprintf("%s/%s", KeyResponseReceiptPrefix, requestCommitment.Hex()))
}
