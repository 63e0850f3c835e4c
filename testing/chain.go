package ismptesting

import (
	"testing"
	"time"

	cmtproto "github.com/cometbft/cometbft/proto/tendermint/types"
	dbm "github.com/cosmos/cosmos-db"
	"github.com/stretchr/testify/require"

	"cosmossdk.io/log"
	"cosmossdk.io/store"
	"cosmossdk.io/store/metrics"
	storetypes "cosmossdk.io/store/types"

	"github.com/cosmos/cosmos-sdk/runtime"
	sdk "github.com/cosmos/cosmos-sdk/types"

	client "github.com/polytope-labs/ismp-go/modules/core/02-client"
	clienttypes "github.com/polytope-labs/ismp-go/modules/core/02-client/types"
	channeltypes "github.com/polytope-labs/ismp-go/modules/core/04-channel/types"
	porttypes "github.com/polytope-labs/ismp-go/modules/core/05-port/types"
	"github.com/polytope-labs/ismp-go/modules/core/exported"
	"github.com/polytope-labs/ismp-go/modules/core/keeper"
	coretypes "github.com/polytope-labs/ismp-go/modules/core/types"
	"github.com/polytope-labs/ismp-go/testing/mock"
)

// TestChain is an in memory ISMP host with the mock consensus client and the
// mock application wired in.
type TestChain struct {
	TB testing.TB

	Ctx    sdk.Context
	Keeper *keeper.Keeper

	ConsensusClient *mock.ConsensusClient
	App             *mock.IsmpApp
}

// NewTestChain mounts fresh stores and returns a chain at DefaultTime.
func NewTestChain(tb testing.TB) *TestChain {
	tb.Helper()

	ismpKey := storetypes.NewKVStoreKey(exported.StoreKey)
	mockKey := storetypes.NewKVStoreKey(mock.StoreKey)

	db := dbm.NewMemDB()
	stateStore := store.NewCommitMultiStore(db, log.NewNopLogger(), metrics.NewNoOpMetrics())
	stateStore.MountStoreWithDB(ismpKey, storetypes.StoreTypeIAVL, nil)
	stateStore.MountStoreWithDB(mockKey, storetypes.StoreTypeIAVL, nil)
	require.NoError(tb, stateStore.LoadLatestVersion())

	ctx := sdk.NewContext(stateStore, cmtproto.Header{
		ChainID: ChainID,
		Height:  1,
		Time:    DefaultTime,
	}, false, log.NewNopLogger())

	consensusClient := mock.NewConsensusClient(CounterpartyStateMachine)
	consensusClients := client.NewRouter().AddRoute(consensusClient)

	app := mock.NewIsmpApp(runtime.NewKVStoreService(mockKey))
	router := porttypes.NewRouter().AddRoute(mock.ModuleID, app)

	k := keeper.NewKeeper(runtime.NewKVStoreService(ismpKey), HostStateMachine, consensusClients, Authority)
	k.SetRouter(router)

	return &TestChain{
		TB:              tb,
		Ctx:             ctx,
		Keeper:          k,
		ConsensusClient: consensusClient,
		App:             app,
	}
}

// Host returns the host view of the current context.
func (chain *TestChain) Host() exported.Host {
	return chain.Keeper.Host(chain.Ctx)
}

// Now returns the current block time.
func (chain *TestChain) Now() time.Time {
	return chain.Ctx.BlockTime()
}

// SetTime sets the block time of the chain.
func (chain *TestChain) SetTime(t time.Time) {
	chain.Ctx = chain.Ctx.WithBlockTime(t)
}

// AdvanceTime moves the block time of the chain forward by d.
func (chain *TestChain) AdvanceTime(d time.Duration) {
	chain.SetTime(chain.Now().Add(d))
}

// CreateConsensusStateMsg returns a message creating the test consensus state
// with the given challenge period for the counterparty.
func (chain *TestChain) CreateConsensusStateMsg(challengePeriod time.Duration) clienttypes.CreateConsensusState {
	return clienttypes.CreateConsensusState{
		ConsensusState:    mock.MockTrustedState,
		ConsensusClientID: mock.ConsensusClientID,
		ConsensusStateID:  ConsensusStateID,
		UnbondingPeriod:   uint64(DefaultUnbondingPeriod / time.Second),
		ChallengePeriods: map[clienttypes.StateMachine]uint64{
			CounterpartyStateMachine: uint64(challengePeriod / time.Second),
		},
	}
}

// CreateConsensusState creates the test consensus state through the keeper.
func (chain *TestChain) CreateConsensusState(challengePeriod time.Duration) {
	chain.TB.Helper()

	_, err := chain.Keeper.CreateConsensusState(chain.Ctx, Authority, chain.CreateConsensusStateMsg(challengePeriod))
	require.NoError(chain.TB, err)
}

// UpdateMsg returns a consensus message finalizing the given counterparty heights.
func (chain *TestChain) UpdateMsg(commitments map[uint64]clienttypes.StateCommitment) clienttypes.ConsensusMessage {
	states := make([]clienttypes.IntermediateState, 0, len(commitments))
	for height, commitment := range commitments {
		states = append(states, clienttypes.NewIntermediateState(CounterpartyHeight(height), commitment))
	}

	return clienttypes.ConsensusMessage{
		ConsensusProof:   mock.ConsensusProof(states...),
		ConsensusStateID: ConsensusStateID,
		Signer:           MockRelayer,
	}
}

// CommitCounterpartyHeight finalizes a counterparty height with a commitment
// timestamped at the given time.
func (chain *TestChain) CommitCounterpartyHeight(height uint64, timestamp time.Time) clienttypes.StateMachineHeight {
	chain.TB.Helper()

	msg := chain.UpdateMsg(map[uint64]clienttypes.StateCommitment{height: NewCommitment(timestamp)})
	_, err := chain.Keeper.HandleMessage(chain.Ctx, msg)
	require.NoError(chain.TB, err)

	return CounterpartyHeight(height)
}

// CommitAndElapse finalizes a counterparty height and moves time past the challenge period.
func (chain *TestChain) CommitAndElapse(height uint64, timestamp time.Time) clienttypes.StateMachineHeight {
	chain.TB.Helper()

	proofHeight := chain.CommitCounterpartyHeight(height, timestamp)
	chain.AdvanceTime(DefaultChallengePeriod)
	return proofHeight
}

// CounterpartyPostRequest returns a request from the counterparty to the mock module.
func (chain *TestChain) CounterpartyPostRequest(nonce, timeoutTimestamp uint64) channeltypes.PostRequest {
	return channeltypes.NewPostRequest(
		CounterpartyStateMachine, HostStateMachine, nonce,
		CounterpartyModuleID, mock.ModuleID, timeoutTimestamp, mock.MockRequestBody,
	)
}

// SendPostRequest commits a request from the mock module to the counterparty.
func (chain *TestChain) SendPostRequest(nonce, timeoutTimestamp uint64) channeltypes.PostRequest {
	chain.TB.Helper()

	request := channeltypes.NewPostRequest(
		HostStateMachine, CounterpartyStateMachine, nonce,
		mock.ModuleID, CounterpartyModuleID, timeoutTimestamp, mock.MockRequestBody,
	)
	_, err := chain.Keeper.SetRequestCommitment(chain.Ctx, request)
	require.NoError(chain.TB, err)

	return request
}

// SendGetRequest commits a get request from the mock module to the counterparty.
func (chain *TestChain) SendGetRequest(nonce uint64, keys [][]byte, height, timeoutTimestamp uint64) channeltypes.GetRequest {
	chain.TB.Helper()

	request := channeltypes.NewGetRequest(
		HostStateMachine, CounterpartyStateMachine, nonce,
		mock.ModuleID, keys, height, timeoutTimestamp,
	)
	_, err := chain.Keeper.SetRequestCommitment(chain.Ctx, request)
	require.NoError(chain.TB, err)

	return request
}

// StateMachineClient returns the mock verifier of the counterparty.
func (chain *TestChain) StateMachineClient() *mock.StateMachineClient {
	return chain.ConsensusClient.StateMachines[CounterpartyStateMachine]
}

// HandleMessage executes msg on the chain.
func (chain *TestChain) HandleMessage(msg coretypes.Message) (coretypes.MessageResult, error) {
	return chain.Keeper.HandleMessage(chain.Ctx, msg)
}
