package handler_test

import (
	"time"

	"github.com/polytope-labs/ismp-go/modules/core/02-client/handler"
	clienttypes "github.com/polytope-labs/ismp-go/modules/core/02-client/types"
	"github.com/polytope-labs/ismp-go/modules/core/exported"
	ismptesting "github.com/polytope-labs/ismp-go/testing"
	"github.com/polytope-labs/ismp-go/testing/mock"
)

func (s *HandlerTestSuite) TestUpdateClient() {
	var msg clienttypes.ConsensusMessage

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
			"consensus state not created",
			func() {
				msg.ConsensusStateID = clienttypes.ConsensusStateID{'N', 'O', 'N', 'E'}
			},
			clienttypes.ErrConsensusStateIDNotRecognized,
		},
		{
			"consensus state frozen",
			func() {
				s.chain.Host().FreezeConsensusClient(ismptesting.ConsensusStateID)
			},
			clienttypes.ErrConsensusClientFrozen,
		},
		{
			"unbonding period elapsed",
			func() {
				s.chain.AdvanceTime(ismptesting.DefaultUnbondingPeriod + time.Second)
			},
			clienttypes.ErrConsensusClientExpired,
		},
		{
			"empty consensus proof",
			func() {
				msg.ConsensusProof = nil
			},
			clienttypes.ErrConsensusProofVerificationFailed,
		},
		{
			"consensus proof rejected by client",
			func() {
				s.chain.ConsensusClient.VerifyConsensusFn = func(exported.Host, clienttypes.ConsensusStateID, []byte, []byte) ([]byte, clienttypes.VerifiedCommitments, error) {
					return nil, nil, mock.ErrMockVerification
				}
			},
			clienttypes.ErrConsensusProofVerificationFailed,
		},
		{
			"client returns commitments for another consensus state",
			func() {
				other := clienttypes.NewStateMachineID(ismptesting.CounterpartyStateMachine, clienttypes.ConsensusStateID{'O', 'T', 'H', 'R'})
				s.chain.ConsensusClient.VerifyConsensusFn = func(_ exported.Host, _ clienttypes.ConsensusStateID, trustedState, _ []byte) ([]byte, clienttypes.VerifiedCommitments, error) {
					return trustedState, clienttypes.VerifiedCommitments{
						other: {{Commitment: s.commitment(1), Height: 1}},
					}, nil
				}
			},
			clienttypes.ErrInvalidConsensusStateID,
		},
	}

	for _, tc := range testCases {
		s.Run(tc.name, func() {
			s.SetupTest()
			s.createClient()

			msg = s.chain.UpdateMsg(map[uint64]clienttypes.StateCommitment{100: s.commitment(100)})
			updateTime, _ := s.chain.Host().ConsensusUpdateTime(ismptesting.ConsensusStateID)

			tc.malleate()

			updates, err := handler.UpdateClient(s.chain.Host(), msg)

			if tc.expErr != nil {
				s.Require().ErrorIs(err, tc.expErr)
				s.Require().Empty(updates)

				_, found := s.chain.Host().StateMachineCommitment(ismptesting.CounterpartyHeight(100))
				s.Require().False(found)

				storedTime, _ := s.chain.Host().ConsensusUpdateTime(ismptesting.ConsensusStateID)
				s.Require().True(updateTime.Equal(storedTime), "consensus update time must not change on failure")
				return
			}

			s.Require().NoError(err)
			s.Require().Equal([]clienttypes.StateMachineUpdated{{StateMachineID: ismptesting.CounterpartyID(), LatestHeight: 100}}, updates)

			commitment, found := s.chain.Host().StateMachineCommitment(ismptesting.CounterpartyHeight(100))
			s.Require().True(found)
			s.Require().True(s.commitment(100).Equal(commitment))

			committedAt, found := s.chain.Host().StateMachineUpdateTime(ismptesting.CounterpartyHeight(100))
			s.Require().True(found)
			s.Require().True(committedAt.Equal(s.chain.Now()))
		})
	}
}

func (s *HandlerTestSuite) TestUpdateClientMonotonicHeights() {
	s.createClient()

	_, err := s.update(map[uint64]clienttypes.StateCommitment{101: s.commitment(101)})
	s.Require().NoError(err)

	updates, err := s.update(map[uint64]clienttypes.StateCommitment{
		100: s.commitment(100),
		103: s.commitment(103),
		105: s.commitment(105),
	})
	s.Require().NoError(err)
	s.Require().Equal([]clienttypes.StateMachineUpdated{{StateMachineID: ismptesting.CounterpartyID(), LatestHeight: 105}}, updates)

	host := s.chain.Host()

	_, found := host.StateMachineCommitment(ismptesting.CounterpartyHeight(100))
	s.Require().False(found, "heights below the latest height must be skipped")

	for _, height := range []uint64{101, 103, 105} {
		_, found := host.StateMachineCommitment(ismptesting.CounterpartyHeight(height))
		s.Require().True(found, "height %d", height)
	}

	latest, found := host.LatestCommitmentHeight(ismptesting.CounterpartyID())
	s.Require().True(found)
	s.Require().Equal(uint64(105), latest)
}

func (s *HandlerTestSuite) TestUpdateClientResubmission() {
	s.createClient()

	commitments := map[uint64]clienttypes.StateCommitment{100: s.commitment(100)}

	updates, err := s.update(commitments)
	s.Require().NoError(err)
	s.Require().Len(updates, 1)

	s.chain.AdvanceTime(time.Minute)

	updates, err = s.update(commitments)
	s.Require().NoError(err)
	s.Require().Empty(updates)

	// the original commit time is kept so the challenge period is not restarted
	committedAt, found := s.chain.Host().StateMachineUpdateTime(ismptesting.CounterpartyHeight(100))
	s.Require().True(found)
	s.Require().True(committedAt.Equal(ismptesting.DefaultTime))
}

func (s *HandlerTestSuite) TestUpdateClientNeverOverwrites() {
	s.createClient()

	_, err := s.update(map[uint64]clienttypes.StateCommitment{100: s.commitment(100)})
	s.Require().NoError(err)

	host := s.chain.Host()
	height := ismptesting.CounterpartyHeight(120)

	existing := s.commitment(1)
	host.StoreStateMachineCommitment(height, existing)

	s.chain.AdvanceTime(time.Minute)

	updates, err := s.update(map[uint64]clienttypes.StateCommitment{
		120: s.commitment(2),
		125: s.commitment(125),
	})
	s.Require().NoError(err)
	s.Require().Equal([]clienttypes.StateMachineUpdated{{StateMachineID: ismptesting.CounterpartyID(), LatestHeight: 125}}, updates)

	commitment, found := host.StateMachineCommitment(height)
	s.Require().True(found)
	s.Require().True(existing.Equal(commitment), "existing commitment must not be overwritten")

	_, found = host.StateMachineUpdateTime(height)
	s.Require().False(found, "skipped commitment must not get an update time")

	commitment, found = host.StateMachineCommitment(ismptesting.CounterpartyHeight(125))
	s.Require().True(found)
	s.Require().True(s.commitment(125).Equal(commitment))

	latest, found := host.LatestCommitmentHeight(ismptesting.CounterpartyID())
	s.Require().True(found)
	s.Require().Equal(uint64(125), latest)
}

func (s *HandlerTestSuite) TestUpdateClientStoresNewTrustedState() {
	s.createClient()

	newState := []byte("next trusted state")
	s.chain.ConsensusClient.VerifyConsensusFn = func(exported.Host, clienttypes.ConsensusStateID, []byte, []byte) ([]byte, clienttypes.VerifiedCommitments, error) {
		return newState, clienttypes.VerifiedCommitments{}, nil
	}

	s.chain.AdvanceTime(time.Minute)

	updates, err := s.update(map[uint64]clienttypes.StateCommitment{})
	s.Require().NoError(err)
	s.Require().Empty(updates)

	state, found := s.chain.Host().ConsensusState(ismptesting.ConsensusStateID)
	s.Require().True(found)
	s.Require().Equal(newState, state)

	updateTime, found := s.chain.Host().ConsensusUpdateTime(ismptesting.ConsensusStateID)
	s.Require().True(found)
	s.Require().True(updateTime.Equal(s.chain.Now()))
}
