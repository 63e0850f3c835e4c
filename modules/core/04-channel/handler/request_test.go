package handler_test

import (
	"context"
	"time"

	clienttypes "github.com/polytope-labs/ismp-go/modules/core/02-client/types"
	"github.com/polytope-labs/ismp-go/modules/core/04-channel/handler"
	channeltypes "github.com/polytope-labs/ismp-go/modules/core/04-channel/types"
	porttypes "github.com/polytope-labs/ismp-go/modules/core/05-port/types"
	"github.com/polytope-labs/ismp-go/modules/core/exported"
	ismptesting "github.com/polytope-labs/ismp-go/testing"
	"github.com/polytope-labs/ismp-go/testing/mock"
)

func (s *HandlerTestSuite) TestHandleRequests() {
	var msg channeltypes.RequestMessage

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
			"empty batch",
			func() {
				msg.Requests = nil
			},
			channeltypes.ErrEmptyBatch,
		},
		{
			"request not addressed to host",
			func() {
				msg.Requests[0].Dest = clienttypes.EvmStateMachine(1)
			},
			channeltypes.ErrInvalidMessageDestination,
		},
		{
			"request source does not match proof state machine",
			func() {
				msg.Requests[0].Source = clienttypes.KusamaStateMachine(2000)
			},
			channeltypes.ErrInvalidProofHeight,
		},
		{
			"challenge period not elapsed",
			func() {
				msg.Proof = s.proof(s.chain.CommitCounterpartyHeight(101, ismptesting.DefaultTime))
			},
			clienttypes.ErrChallengePeriodNotElapsed,
		},
		{
			"proof height not committed",
			func() {
				msg.Proof = s.proof(ismptesting.CounterpartyHeight(99))
			},
			clienttypes.ErrStateCommitmentNotFound,
		},
		{
			"membership proof rejected",
			func() {
				s.chain.StateMachineClient().VerifyMembershipFn = func(exported.Host, channeltypes.RequestResponse, clienttypes.StateCommitment, channeltypes.Proof) error {
					return mock.ErrMockVerification
				}
			},
			channeltypes.ErrMembershipProofVerificationFailed,
		},
	}

	for _, tc := range testCases {
		s.Run(tc.name, func() {
			s.SetupTest()

			proofHeight := s.chain.CommitAndElapse(100, ismptesting.DefaultTime)
			msg = channeltypes.RequestMessage{
				Requests: []channeltypes.PostRequest{s.chain.CounterpartyPostRequest(1, 0)},
				Proof:    s.proof(proofHeight),
				Signer:   ismptesting.MockRelayer,
			}

			tc.malleate()

			results, err := handler.HandleRequests(s.chain.Host(), msg)

			if tc.expErr != nil {
				s.Require().ErrorIs(err, tc.expErr)
				s.Require().Empty(s.chain.App.Accepted)
				return
			}

			s.Require().NoError(err)
			s.Require().Len(results, 1)
			s.Require().True(results[0].Success())

			request := msg.Requests[0]
			s.Require().Equal(request.Commitment(), results[0].Commitment)
			s.Require().Equal(request.Nonce, results[0].Nonce)

			relayer, found := s.chain.Host().RequestReceipt(request.Commitment())
			s.Require().True(found)
			s.Require().Equal(ismptesting.MockRelayer, relayer)

			s.Require().Equal([]channeltypes.PostRequest{request}, s.chain.App.Accepted)
			s.Require().True(s.chain.App.HasAcceptMarker(s.chain.Ctx, request))
			s.Require().Equal(1, s.chain.StateMachineClient().MembershipCalls)
		})
	}
}

func (s *HandlerTestSuite) TestHandleRequestsSkipsDeliveredAndTimedOut() {
	proofHeight := s.chain.CommitAndElapse(100, ismptesting.DefaultTime)
	now := uint64(s.chain.Now().Unix())

	delivered := s.chain.CounterpartyPostRequest(1, 0)
	timedOut := s.chain.CounterpartyPostRequest(2, now)
	pending := s.chain.CounterpartyPostRequest(3, now+1)

	s.chain.Host().StoreRequestReceipt(delivered.Commitment(), []byte("another relayer"))

	msg := channeltypes.RequestMessage{
		Requests: []channeltypes.PostRequest{delivered, timedOut, pending},
		Proof:    s.proof(proofHeight),
		Signer:   ismptesting.MockRelayer,
	}

	results, err := handler.HandleRequests(s.chain.Host(), msg)
	s.Require().NoError(err)
	s.Require().Len(results, 1)
	s.Require().Equal(pending.Commitment(), results[0].Commitment)
	s.Require().Equal([]channeltypes.PostRequest{pending}, s.chain.App.Accepted)

	// the original receipt is kept
	relayer, found := s.chain.Host().RequestReceipt(delivered.Commitment())
	s.Require().True(found)
	s.Require().Equal([]byte("another relayer"), relayer)

	_, found = s.chain.Host().RequestReceipt(timedOut.Commitment())
	s.Require().False(found)

	// resubmitting the same batch delivers nothing
	results, err = handler.HandleRequests(s.chain.Host(), msg)
	s.Require().NoError(err)
	s.Require().Empty(results)
	s.Require().Len(s.chain.App.Accepted, 1)
}

func (s *HandlerTestSuite) TestHandleRequestsModuleFailure() {
	proofHeight := s.chain.CommitAndElapse(100, ismptesting.DefaultTime)

	failing := s.chain.CounterpartyPostRequest(1, 0)
	accepted := s.chain.CounterpartyPostRequest(2, 0)
	unrouted := s.chain.CounterpartyPostRequest(3, 0)
	unrouted.To = []byte("unknown-module")

	s.chain.App.OnAcceptFn = func(_ context.Context, request channeltypes.PostRequest) error {
		if request.Nonce == failing.Nonce {
			return mock.MockApplicationCallbackError
		}
		return nil
	}

	results, err := handler.HandleRequests(s.chain.Host(), channeltypes.RequestMessage{
		Requests: []channeltypes.PostRequest{failing, accepted, unrouted},
		Proof:    s.proof(proofHeight),
		Signer:   ismptesting.MockRelayer,
	})
	s.Require().NoError(err)
	s.Require().Len(results, 3)

	s.Require().ErrorIs(results[0].Err, mock.MockApplicationCallbackError)
	s.Require().True(results[1].Success())
	s.Require().ErrorIs(results[2].Err, porttypes.ErrModuleNotFound)

	// every dispatched request is receipted regardless of the module outcome
	for _, request := range []channeltypes.PostRequest{failing, accepted, unrouted} {
		_, found := s.chain.Host().RequestReceipt(request.Commitment())
		s.Require().True(found)
	}

	// state written by the failing callback is discarded
	s.Require().False(s.chain.App.HasAcceptMarker(s.chain.Ctx, failing))
	s.Require().True(s.chain.App.HasAcceptMarker(s.chain.Ctx, accepted))
}

func (s *HandlerTestSuite) TestHandleRequestsAfterTimeoutOnHost() {
	proofHeight := s.chain.CommitAndElapse(100, ismptesting.DefaultTime)
	request := s.chain.CounterpartyPostRequest(1, uint64(s.chain.Now().Add(time.Minute).Unix()))

	s.chain.AdvanceTime(time.Minute)

	results, err := handler.HandleRequests(s.chain.Host(), channeltypes.RequestMessage{
		Requests: []channeltypes.PostRequest{request},
		Proof:    s.proof(proofHeight),
		Signer:   ismptesting.MockRelayer,
	})
	s.Require().NoError(err)
	s.Require().Empty(results)
	s.Require().Empty(s.chain.App.Accepted)
}
