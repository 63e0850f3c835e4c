package handler_test

import (
	"time"

	"github.com/polytope-labs/ismp-go/modules/core/02-client/handler"
	clienttypes "github.com/polytope-labs/ismp-go/modules/core/02-client/types"
	"github.com/polytope-labs/ismp-go/modules/core/exported"
	ismptesting "github.com/polytope-labs/ismp-go/testing"
	"github.com/polytope-labs/ismp-go/testing/mock"
)

func (s *HandlerTestSuite) TestFreezeClient() {
	var msg clienttypes.FraudProofMessage

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
			"identical proofs",
			func() {
				msg.Proof2 = msg.Proof1
			},
			clienttypes.ErrIdenticalFraudProofs,
		},
		{
			"proofs do not conflict",
			func() {
				msg.Proof2 = mock.ConsensusProof(clienttypes.NewIntermediateState(ismptesting.CounterpartyHeight(101), s.commitment(2)))
			},
			clienttypes.ErrFraudProofVerificationFailed,
		},
		{
			"consensus state not created",
			func() {
				msg.ConsensusStateID = clienttypes.ConsensusStateID{'N', 'O', 'N', 'E'}
			},
			clienttypes.ErrConsensusStateIDNotRecognized,
		},
		{
			"already frozen",
			func() {
				s.chain.Host().FreezeConsensusClient(ismptesting.ConsensusStateID)
			},
			clienttypes.ErrConsensusClientFrozen,
		},
	}

	for _, tc := range testCases {
		s.Run(tc.name, func() {
			s.SetupTest()
			s.createClient()

			msg = s.fraudProof(s.conflictingProofs(100))

			tc.malleate()

			frozen, err := handler.FreezeClient(s.chain.Host(), msg)

			if tc.expErr != nil {
				s.Require().ErrorIs(err, tc.expErr)
				return
			}

			s.Require().NoError(err)
			s.Require().Equal(ismptesting.ConsensusStateID, frozen.ConsensusStateID)
			s.requireStatus(exported.Frozen)
		})
	}
}

func (s *HandlerTestSuite) TestFrozenClientKeepsCommitments() {
	s.createClient()

	_, err := s.update(map[uint64]clienttypes.StateCommitment{100: s.commitment(100)})
	s.Require().NoError(err)

	_, err = handler.FreezeClient(s.chain.Host(), s.fraudProof(s.conflictingProofs(100)))
	s.Require().NoError(err)

	_, found := s.chain.Host().StateMachineCommitment(ismptesting.CounterpartyHeight(100))
	s.Require().True(found)

	// commitments of a frozen consensus state can no longer be used as evidence
	s.chain.AdvanceTime(ismptesting.DefaultChallengePeriod)
	_, _, err = handler.ValidateStateMachine(s.chain.Host(), ismptesting.CounterpartyHeight(100))
	s.Require().ErrorIs(err, clienttypes.ErrConsensusClientFrozen)

	// freezing is permanent
	s.chain.AdvanceTime(time.Hour)
	_, err = s.update(map[uint64]clienttypes.StateCommitment{101: s.commitment(101)})
	s.Require().ErrorIs(err, clienttypes.ErrConsensusClientFrozen)
	s.requireStatus(exported.Frozen)
}
