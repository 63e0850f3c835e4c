package keeper

import (
	"encoding/binary"
	"time"

	"github.com/ethereum/go-ethereum/common"

	corestore "cosmossdk.io/core/store"
	"cosmossdk.io/log"

	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/polytope-labs/ismp-go/internal/scalecodec"
	clienttypes "github.com/polytope-labs/ismp-go/modules/core/02-client/types"
	channeltypes "github.com/polytope-labs/ismp-go/modules/core/04-channel/types"
	host "github.com/polytope-labs/ismp-go/modules/core/24-host"
	"github.com/polytope-labs/ismp-go/modules/core/exported"
)

var _ exported.Host = (*storeHost)(nil)

// storeHost implements exported.Host on top of the module store of one sdk.Context.
// Times and durations are stored as big endian nanoseconds.
type storeHost struct {
	ctx    sdk.Context
	keeper *Keeper
}

func newStoreHost(ctx sdk.Context, keeper *Keeper) *storeHost {
	return &storeHost{ctx: ctx, keeper: keeper}
}

func (h *storeHost) store() corestore.KVStore {
	return h.keeper.storeService.OpenKVStore(h.ctx)
}

func (h *storeHost) get(key []byte) ([]byte, bool) {
	bz, err := h.store().Get(key)
	if err != nil {
		panic(err)
	}
	if len(bz) == 0 {
		return nil, false
	}
	return bz, true
}

func (h *storeHost) has(key []byte) bool {
	has, err := h.store().Has(key)
	if err != nil {
		panic(err)
	}
	return has
}

func (h *storeHost) set(key, value []byte) {
	if err := h.store().Set(key, value); err != nil {
		panic(err)
	}
}

func (h *storeHost) delete(key []byte) {
	if err := h.store().Delete(key); err != nil {
		panic(err)
	}
}

func (h *storeHost) getUint64(key []byte) (uint64, bool) {
	bz, found := h.get(key)
	if !found {
		return 0, false
	}
	return binary.BigEndian.Uint64(bz), true
}

func (h *storeHost) setUint64(key []byte, value uint64) {
	h.set(key, sdk.Uint64ToBigEndian(value))
}

func (h *storeHost) getTime(key []byte) (time.Time, bool) {
	nanos, found := h.getUint64(key)
	if !found {
		return time.Time{}, false
	}
	return time.Unix(0, int64(nanos)).UTC(), true
}

func (h *storeHost) setTime(key []byte, timestamp time.Time) {
	h.setUint64(key, uint64(timestamp.UnixNano()))
}

func (h *storeHost) getDuration(key []byte) (time.Duration, bool) {
	nanos, found := h.getUint64(key)
	return time.Duration(nanos), found
}

func (h *storeHost) setDuration(key []byte, duration time.Duration) {
	h.setUint64(key, uint64(duration))
}

// Logger implements exported.Host.
func (h *storeHost) Logger() log.Logger {
	return h.keeper.Logger(h.ctx)
}

// HostStateMachine implements exported.Host.
func (h *storeHost) HostStateMachine() clienttypes.StateMachine {
	return h.keeper.hostStateMachine
}

// Timestamp implements exported.Host. It returns the block time.
func (h *storeHost) Timestamp() time.Time {
	return h.ctx.BlockTime()
}

// ConsensusClientID implements exported.Host.
func (h *storeHost) ConsensusClientID(consensusStateID clienttypes.ConsensusStateID) (clienttypes.ConsensusClientID, bool) {
	bz, found := h.get(host.ConsensusClientIDKey(consensusStateID))
	if !found {
		return clienttypes.ConsensusClientID{}, false
	}

	var clientID clienttypes.ConsensusClientID
	copy(clientID[:], bz)
	return clientID, true
}

// StoreConsensusClientID implements exported.Host.
func (h *storeHost) StoreConsensusClientID(consensusStateID clienttypes.ConsensusStateID, clientID clienttypes.ConsensusClientID) {
	h.set(host.ConsensusClientIDKey(consensusStateID), clientID[:])
}

// ConsensusClient implements exported.Host.
func (h *storeHost) ConsensusClient(clientID clienttypes.ConsensusClientID) (exported.ConsensusClient, error) {
	return h.keeper.ConsensusClients.ConsensusClient(clientID)
}

// ConsensusState implements exported.Host.
func (h *storeHost) ConsensusState(consensusStateID clienttypes.ConsensusStateID) ([]byte, bool) {
	return h.get(host.ConsensusStateKey(consensusStateID))
}

// StoreConsensusState implements exported.Host.
func (h *storeHost) StoreConsensusState(consensusStateID clienttypes.ConsensusStateID, state []byte) {
	h.set(host.ConsensusStateKey(consensusStateID), state)
}

// ConsensusUpdateTime implements exported.Host.
func (h *storeHost) ConsensusUpdateTime(consensusStateID clienttypes.ConsensusStateID) (time.Time, bool) {
	return h.getTime(host.ConsensusUpdateTimeKey(consensusStateID))
}

// StoreConsensusUpdateTime implements exported.Host.
func (h *storeHost) StoreConsensusUpdateTime(consensusStateID clienttypes.ConsensusStateID, timestamp time.Time) {
	h.setTime(host.ConsensusUpdateTimeKey(consensusStateID), timestamp)
}

// UnbondingPeriod implements exported.Host.
func (h *storeHost) UnbondingPeriod(consensusStateID clienttypes.ConsensusStateID) (time.Duration, bool) {
	return h.getDuration(host.UnbondingPeriodKey(consensusStateID))
}

// StoreUnbondingPeriod implements exported.Host.
func (h *storeHost) StoreUnbondingPeriod(consensusStateID clienttypes.ConsensusStateID, period time.Duration) {
	h.setDuration(host.UnbondingPeriodKey(consensusStateID), period)
}

// ChallengePeriod implements exported.Host.
func (h *storeHost) ChallengePeriod(id clienttypes.StateMachineID) (time.Duration, bool) {
	return h.getDuration(host.ChallengePeriodKey(id))
}

// StoreChallengePeriod implements exported.Host.
func (h *storeHost) StoreChallengePeriod(id clienttypes.StateMachineID, period time.Duration) {
	h.setDuration(host.ChallengePeriodKey(id), period)
}

// IsConsensusClientFrozen implements exported.Host.
func (h *storeHost) IsConsensusClientFrozen(consensusStateID clienttypes.ConsensusStateID) bool {
	return h.has(host.FrozenKey(consensusStateID))
}

// FreezeConsensusClient implements exported.Host.
func (h *storeHost) FreezeConsensusClient(consensusStateID clienttypes.ConsensusStateID) {
	h.set(host.FrozenKey(consensusStateID), []byte{1})
}

// StateMachineCommitment implements exported.Host.
func (h *storeHost) StateMachineCommitment(height clienttypes.StateMachineHeight) (clienttypes.StateCommitment, bool) {
	bz, found := h.get(host.StateCommitmentKey(height))
	if !found {
		return clienttypes.StateCommitment{}, false
	}

	var commitment clienttypes.StateCommitment
	if err := scalecodec.Unmarshal(bz, &commitment); err != nil {
		panic(err)
	}
	return commitment, true
}

// StoreStateMachineCommitment implements exported.Host.
func (h *storeHost) StoreStateMachineCommitment(height clienttypes.StateMachineHeight, commitment clienttypes.StateCommitment) {
	h.set(host.StateCommitmentKey(height), mustMarshal(commitment))
}

// StateMachineUpdateTime implements exported.Host.
func (h *storeHost) StateMachineUpdateTime(height clienttypes.StateMachineHeight) (time.Time, bool) {
	return h.getTime(host.StateUpdateTimeKey(height))
}

// StoreStateMachineUpdateTime implements exported.Host.
func (h *storeHost) StoreStateMachineUpdateTime(height clienttypes.StateMachineHeight, timestamp time.Time) {
	h.setTime(host.StateUpdateTimeKey(height), timestamp)
}

// LatestCommitmentHeight implements exported.Host.
func (h *storeHost) LatestCommitmentHeight(id clienttypes.StateMachineID) (uint64, bool) {
	return h.getUint64(host.LatestHeightKey(id))
}

// StoreLatestCommitmentHeight implements exported.Host.
func (h *storeHost) StoreLatestCommitmentHeight(height clienttypes.StateMachineHeight) {
	h.setUint64(host.LatestHeightKey(height.ID), height.Height)
}

// HasRequestCommitment implements exported.Host.
func (h *storeHost) HasRequestCommitment(commitment common.Hash) bool {
	return h.has(host.RequestCommitmentKey(commitment))
}

// DeleteRequestCommitment implements exported.Host.
func (h *storeHost) DeleteRequestCommitment(commitment common.Hash) {
	h.delete(host.RequestCommitmentKey(commitment))
}

// RequestReceipt implements exported.Host. The receipt holds the relayer.
func (h *storeHost) RequestReceipt(commitment common.Hash) ([]byte, bool) {
	bz, found := h.get(host.RequestReceiptKey(commitment))
	if !found {
		return nil, false
	}

	var relayer []byte
	if err := scalecodec.Unmarshal(bz, &relayer); err != nil {
		panic(err)
	}
	return relayer, true
}

// StoreRequestReceipt implements exported.Host.
func (h *storeHost) StoreRequestReceipt(commitment common.Hash, relayer []byte) {
	h.set(host.RequestReceiptKey(commitment), mustMarshal(relayer))
}

// ResponseReceipt implements exported.Host.
func (h *storeHost) ResponseReceipt(requestCommitment common.Hash) (channeltypes.ResponseReceipt, bool) {
	bz, found := h.get(host.ResponseReceiptKey(requestCommitment))
	if !found {
		return channeltypes.ResponseReceipt{}, false
	}

	var receipt channeltypes.ResponseReceipt
	if err := scalecodec.Unmarshal(bz, &receipt); err != nil {
		panic(err)
	}
	return receipt, true
}

// StoreResponseReceipt implements exported.Host.
func (h *storeHost) StoreResponseReceipt(requestCommitment common.Hash, receipt channeltypes.ResponseReceipt) {
	h.set(host.ResponseReceiptKey(requestCommitment), mustMarshal(receipt))
}

// IsmpRouter implements exported.Host.
func (h *storeHost) IsmpRouter() exported.IsmpRouter {
	return newContextRouter(h.ctx, h.keeper.Router)
}

func mustMarshal(v interface{}) []byte {
	bz, err := scalecodec.Marshal(v)
	if err != nil {
		panic(err)
	}
	return bz
}
