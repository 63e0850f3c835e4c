package keeper_test

import (
	"context"
	"strconv"

	"github.com/ethereum/go-ethereum/common"

	abci "github.com/cometbft/cometbft/abci/types"

	sdk "github.com/cosmos/cosmos-sdk/types"

	clienttypes "github.com/polytope-labs/ismp-go/modules/core/02-client/types"
	channeltypes "github.com/polytope-labs/ismp-go/modules/core/04-channel/types"
	ismperrors "github.com/polytope-labs/ismp-go/modules/core/errors"
	"github.com/polytope-labs/ismp-go/modules/core/exported"
	coretypes "github.com/polytope-labs/ismp-go/modules/core/types"
	ismptesting "github.com/polytope-labs/ismp-go/testing"
	"github.com/polytope-labs/ismp-go/testing/mock"
)

type unknownMessage struct{}

func (unknownMessage) ValidateBasic() error { return nil }

func (s *KeeperTestSuite) events() []abci.Event {
	return s.chain.Ctx.EventManager().Events().ToABCIEvents()
}

func (s *KeeperTestSuite) resetEvents() {
	s.chain.Ctx = s.chain.Ctx.WithEventManager(sdk.NewEventManager())
}

func (s *KeeperTestSuite) TestCreateConsensusState() {
	var (
		signer string
		msg    clienttypes.CreateConsensusState
	)

	testCases := []struct {
		name     string
		malleate func()
		expErr   error
	}{
		{
			"success",
			func() {},
			nil,
		},
		{
			"success: client on allowlist",
			func() {
				s.Require().NoError(s.chain.Keeper.SetParams(s.chain.Ctx, clienttypes.NewParams(mock.ConsensusClientID.String())))
			},
			nil,
		},
		{
			"signer is not the authority",
			func() {
				signer = ismptesting.ChainID
			},
			ismperrors.ErrUnauthorized,
		},
		{
			"client not on allowlist",
			func() {
				s.Require().NoError(s.chain.Keeper.SetParams(s.chain.Ctx, clienttypes.NewParams("ATST")))
			},
			clienttypes.ErrConsensusClientNotAllowed,
		},
		{
			"client not registered",
			func() {
				msg.ConsensusClientID = clienttypes.ConsensusClientID{'N', 'O', 'N', 'E'}
			},
			clienttypes.ErrConsensusClientNotFound,
		},
		{
			"invalid unbonding period",
			func() {
				msg.UnbondingPeriod = 0
			},
			clienttypes.ErrInvalidParams,
		},
	}

	for _, tc := range testCases {
		s.Run(tc.name, func() {
			s.SetupTest()

			signer = ismptesting.Authority
			msg = s.chain.CreateConsensusStateMsg(ismptesting.DefaultChallengePeriod)

			tc.malleate()
			s.resetEvents()

			created, err := s.chain.Keeper.CreateConsensusState(s.chain.Ctx, signer, msg)

			if tc.expErr != nil {
				s.Require().ErrorIs(err, tc.expErr)
				s.Require().Equal(exported.Unknown, s.chain.Keeper.ConsensusClientStatus(s.chain.Ctx, ismptesting.ConsensusStateID))
				s.Require().Empty(s.events())
				return
			}

			s.Require().NoError(err)
			s.Require().Equal(ismptesting.ConsensusStateID, created.ConsensusStateID)
			s.Require().Equal(exported.Active, s.chain.Keeper.ConsensusClientStatus(s.chain.Ctx, ismptesting.ConsensusStateID))

			expectedEvents := []abci.Event{
				{
					Type: clienttypes.EventTypeCreateConsensusClient,
					Attributes: []abci.EventAttribute{
						{Key: clienttypes.AttributeKeyConsensusStateID, Value: ismptesting.ConsensusStateID.String()},
						{Key: clienttypes.AttributeKeyConsensusClientID, Value: mock.ConsensusClientID.String()},
					},
				},
			}
			ismptesting.AssertEvents(&s.Suite, expectedEvents, s.events())

			consensusStateID, err := ismptesting.ParseConsensusStateIDFromEvents(s.events())
			s.Require().NoError(err)
			s.Require().Equal(ismptesting.ConsensusStateID, consensusStateID)
		})
	}
}

func (s *KeeperTestSuite) TestHandleConsensusMessage() {
	s.chain.CreateConsensusState(ismptesting.DefaultChallengePeriod)
	s.resetEvents()

	result, err := s.chain.HandleMessage(s.chain.UpdateMsg(map[uint64]clienttypes.StateCommitment{
		100: ismptesting.NewCommitment(ismptesting.DefaultTime),
	}))
	s.Require().NoError(err)
	s.Require().Equal(coretypes.MessageKindConsensus, result.Kind)
	s.Require().Len(result.ConsensusUpdated, 1)

	expectedEvents := []abci.Event{
		{
			Type: clienttypes.EventTypeStateMachineUpdated,
			Attributes: []abci.EventAttribute{
				{Key: clienttypes.AttributeKeyStateMachineID, Value: ismptesting.CounterpartyID().String()},
				{Key: clienttypes.AttributeKeyLatestHeight, Value: "100"},
			},
		},
		{
			Type: sdk.EventTypeMessage,
			Attributes: []abci.EventAttribute{
				{Key: sdk.AttributeKeyModule, Value: clienttypes.AttributeValueCategory},
			},
		},
	}
	ismptesting.AssertEvents(&s.Suite, expectedEvents, s.events())

	latest, err := ismptesting.ParseLatestHeightFromEvents(ismptesting.CounterpartyID(), s.events())
	s.Require().NoError(err)
	s.Require().Equal(uint64(100), latest)
}

func (s *KeeperTestSuite) TestHandleMessageDiscardsStateOnFailure() {
	s.chain.CreateConsensusState(ismptesting.DefaultChallengePeriod)
	s.resetEvents()

	height := ismptesting.CounterpartyHeight(100)
	s.chain.ConsensusClient.VerifyConsensusFn = func(host exported.Host, _ clienttypes.ConsensusStateID, _, _ []byte) ([]byte, clienttypes.VerifiedCommitments, error) {
		host.StoreStateMachineCommitment(height, ismptesting.NewCommitment(ismptesting.DefaultTime))
		return nil, nil, mock.ErrMockVerification
	}

	_, err := s.chain.HandleMessage(s.chain.UpdateMsg(map[uint64]clienttypes.StateCommitment{}))
	s.Require().ErrorIs(err, clienttypes.ErrConsensusProofVerificationFailed)

	_, found := s.chain.Keeper.GetStateMachineCommitment(s.chain.Ctx, height)
	s.Require().False(found)
	s.Require().Empty(s.events())
}

func (s *KeeperTestSuite) TestHandleFraudProofMessage() {
	s.chain.CreateConsensusState(ismptesting.DefaultChallengePeriod)
	s.resetEvents()

	height := ismptesting.CounterpartyHeight(100)
	result, err := s.chain.HandleMessage(clienttypes.FraudProofMessage{
		Proof1:           mock.ConsensusProof(clienttypes.NewIntermediateState(height, ismptesting.NewCommitment(ismptesting.DefaultTime))),
		Proof2:           mock.ConsensusProof(clienttypes.NewIntermediateState(height, ismptesting.NewCommitment(ismptesting.DefaultTime.Add(1)))),
		ConsensusStateID: ismptesting.ConsensusStateID,
		Signer:           ismptesting.MockRelayer,
	})
	s.Require().NoError(err)
	s.Require().Equal(coretypes.MessageKindFraudProof, result.Kind)
	s.Require().NotNil(result.FrozenClient)

	expectedEvents := []abci.Event{
		{
			Type: clienttypes.EventTypeFreezeConsensusClient,
			Attributes: []abci.EventAttribute{
				{Key: clienttypes.AttributeKeyConsensusStateID, Value: ismptesting.ConsensusStateID.String()},
			},
		},
	}
	ismptesting.AssertEvents(&s.Suite, expectedEvents, s.events())
	s.Require().Equal(exported.Frozen, s.chain.Keeper.ConsensusClientStatus(s.chain.Ctx, ismptesting.ConsensusStateID))
}

func (s *KeeperTestSuite) TestHandleRequestMessageEvents() {
	s.chain.CreateConsensusState(ismptesting.DefaultChallengePeriod)
	proofHeight := s.chain.CommitAndElapse(100, ismptesting.DefaultTime)
	s.resetEvents()

	accepted := s.chain.CounterpartyPostRequest(1, 0)
	rejected := s.chain.CounterpartyPostRequest(2, 0)

	s.chain.App.OnAcceptFn = func(_ context.Context, request channeltypes.PostRequest) error {
		if request.Nonce == rejected.Nonce {
			return mock.MockApplicationCallbackError
		}
		return nil
	}

	result, err := s.chain.HandleMessage(channeltypes.RequestMessage{
		Requests: []channeltypes.PostRequest{accepted, rejected},
		Proof:    channeltypes.NewProof(proofHeight, []byte("proof")),
		Signer:   ismptesting.MockRelayer,
	})
	s.Require().NoError(err)
	s.Require().Len(result.Dispatches, 2)
	s.Require().Len(result.Failed(), 1)

	succeeded, failed, err := ismptesting.ParseDispatchCommitmentsFromEvents(channeltypes.EventTypeRequestDispatched, s.events())
	s.Require().NoError(err)
	s.Require().Equal([]common.Hash{accepted.Commitment()}, succeeded)
	s.Require().Equal([]common.Hash{rejected.Commitment()}, failed)

	expectedEvents := []abci.Event{
		{
			Type: channeltypes.EventTypeRequestDispatched,
			Attributes: []abci.EventAttribute{
				{Key: channeltypes.AttributeKeyCommitment, Value: rejected.Commitment().Hex()},
				{Key: channeltypes.AttributeKeySource, Value: ismptesting.CounterpartyStateMachine.String()},
				{Key: channeltypes.AttributeKeyDest, Value: ismptesting.HostStateMachine.String()},
				{Key: channeltypes.AttributeKeyNonce, Value: strconv.FormatUint(rejected.Nonce, 10)},
				{Key: channeltypes.AttributeKeySuccess, Value: "false"},
				{Key: channeltypes.AttributeKeyError, Value: mock.MockApplicationCallbackError.Error()},
			},
		},
		{
			Type: sdk.EventTypeMessage,
			Attributes: []abci.EventAttribute{
				{Key: sdk.AttributeKeyModule, Value: channeltypes.AttributeValueCategory},
			},
		},
	}
	ismptesting.AssertEvents(&s.Suite, expectedEvents, s.events())

	// the receipt of the rejected request is committed, its callback state is not
	_, found := s.chain.Keeper.GetRequestReceipt(s.chain.Ctx, rejected.Commitment())
	s.Require().True(found)
	s.Require().False(s.chain.App.HasAcceptMarker(s.chain.Ctx, rejected))
	s.Require().True(s.chain.App.HasAcceptMarker(s.chain.Ctx, accepted))
}

func (s *KeeperTestSuite) TestHandleUnknownMessage() {
	_, err := s.chain.HandleMessage(unknownMessage{})
	s.Require().ErrorIs(err, ismperrors.ErrUnknownMessage)
}

func (s *KeeperTestSuite) TestHandleRawMessage() {
	var bz []byte

	testCases := []struct {
		name     string
		malleate func()
		expErr   error
	}{
		{
			"success",
			func() {},
			nil,
		},
		{
			"empty payload",
			func() {
				bz = nil
			},
			ismperrors.ErrDecode,
		},
		{
			"unknown message kind",
			func() {
				bz[0] = 0xff
			},
			ismperrors.ErrUnknownMessage,
		},
		{
			"trailing bytes",
			func() {
				bz = append(bz, 0x00)
			},
			ismperrors.ErrDecode,
		},
	}

	for _, tc := range testCases {
		s.Run(tc.name, func() {
			s.SetupTest()
			s.chain.CreateConsensusState(ismptesting.DefaultChallengePeriod)

			var err error
			bz, err = coretypes.EncodeMessage(s.chain.UpdateMsg(map[uint64]clienttypes.StateCommitment{
				100: ismptesting.NewCommitment(ismptesting.DefaultTime),
			}))
			s.Require().NoError(err)

			tc.malleate()

			result, err := s.chain.Keeper.HandleRawMessage(s.chain.Ctx, bz)

			if tc.expErr != nil {
				s.Require().ErrorIs(err, tc.expErr)
				return
			}

			s.Require().NoError(err)
			s.Require().Equal(coretypes.MessageKindConsensus, result.Kind)

			latest, found := s.chain.Keeper.GetLatestStateMachineHeight(s.chain.Ctx, ismptesting.CounterpartyID())
			s.Require().True(found)
			s.Require().Equal(uint64(100), latest)
		})
	}
}
