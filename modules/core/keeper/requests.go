package keeper

import (
	"context"

	"github.com/ethereum/go-ethereum/common"

	errorsmod "cosmossdk.io/errors"

	channeltypes "github.com/polytope-labs/ismp-go/modules/core/04-channel/types"
	host "github.com/polytope-labs/ismp-go/modules/core/24-host"
)

// SetRequestCommitment records an outgoing request so that a response or a
// timeout for it can later be delivered. The request must originate on the host.
func (k *Keeper) SetRequestCommitment(ctx context.Context, request channeltypes.Request) (common.Hash, error) {
	if err := request.ValidateBasic(); err != nil {
		return common.Hash{}, err
	}

	if request.GetSource() != k.hostStateMachine {
		return common.Hash{}, errorsmod.Wrapf(channeltypes.ErrInvalidRequest, "request source %s, host %s", request.GetSource(), k.hostStateMachine)
	}

	commitment := request.Commitment()
	store := k.storeService.OpenKVStore(ctx)
	if err := store.Set(host.RequestCommitmentKey(commitment), []byte{1}); err != nil {
		panic(err)
	}

	k.Logger(ctx).Debug("request committed", "commitment", commitment.Hex(), "dest", request.GetDest().String(), "nonce", request.GetNonce())

	return commitment, nil
}

// HasRequestCommitment returns true if an outgoing request is still pending.
func (k *Keeper) HasRequestCommitment(ctx context.Context, commitment common.Hash) bool {
	return k.Host(ctx).HasRequestCommitment(commitment)
}
