package attestations_test

import (
	"time"

	"github.com/ethereum/go-ethereum/crypto"

	"github.com/polytope-labs/ismp-go/internal/scalecodec"
	clienttypes "github.com/polytope-labs/ismp-go/modules/core/02-client/types"
	"github.com/polytope-labs/ismp-go/modules/light-clients/attestations"
	ismptesting "github.com/polytope-labs/ismp-go/testing"
)

func (s *AttestationsTestSuite) TestVerifyConsensus() {
	var (
		trustedState []byte
		proofBz      []byte
	)

	const latestHeight = 10

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
			"success: all attestors sign",
			func() {
				proofBz = s.marshalProof(s.createAttestationProof(s.attestation(latestHeight+1), 0, 1, 2, 3, 4))
			},
			nil,
		},
		{
			"success: ethereum recovery ids",
			func() {
				proof := s.createAttestationProof(s.attestation(latestHeight+1), 1, 2, 3)
				for _, sig := range proof.Signatures {
					sig[attestations.SignatureLength-1] += 27
				}
				proofBz = s.marshalProof(proof)
			},
			nil,
		},
		{
			"failure: quorum not met",
			func() {
				proofBz = s.marshalProof(s.createAttestationProof(s.attestation(latestHeight+1), 0, 1))
			},
			attestations.ErrInvalidQuorum,
		},
		{
			"failure: duplicate signer",
			func() {
				proofBz = s.marshalProof(s.createAttestationProof(s.attestation(latestHeight+1), 0, 0, 1))
			},
			attestations.ErrDuplicateSigner,
		},
		{
			"failure: signer is not an attestor",
			func() {
				outsider, err := crypto.GenerateKey()
				s.Require().NoError(err)

				proof := s.createAttestationProof(s.attestation(latestHeight+1), 0, 1)
				proof.Signatures = append(proof.Signatures, s.sign(proof.AttestationData, outsider)...)
				proofBz = s.marshalProof(proof)
			},
			attestations.ErrUnknownSigner,
		},
		{
			"failure: truncated signature",
			func() {
				proof := s.createAttestationProof(s.attestation(latestHeight+1), 0, 1, 2)
				proof.Signatures[1] = proof.Signatures[1][:attestations.SignatureLength-1]
				proofBz = s.marshalProof(proof)
			},
			attestations.ErrInvalidSignature,
		},
		{
			"failure: signatures over different data",
			func() {
				proof := s.createAttestationProof(s.attestation(latestHeight+1), 0, 1)
				other := s.createAttestationProof(s.attestation(latestHeight+2), 2)
				proof.Signatures = append(proof.Signatures, other.Signatures...)
				proofBz = s.marshalProof(proof)
			},
			attestations.ErrUnknownSigner,
		},
		{
			"failure: attestation height equals latest height",
			func() {
				proofBz = s.marshalProof(s.createAttestationProof(s.attestation(latestHeight), 0, 1, 2))
			},
			attestations.ErrStaleAttestation,
		},
		{
			"failure: state machine not supported",
			func() {
				state := s.stateAttestation(100, time.Unix(1, 0))
				state.StateMachine = clienttypes.EvmStateMachine(1)
				proofBz = s.marshalProof(s.createAttestationProof(s.attestation(latestHeight+1, state), 0, 1, 2))
			},
			attestations.ErrUnsupportedStateMachine,
		},
		{
			"failure: duplicate state attestation",
			func() {
				state := s.stateAttestation(100, time.Unix(1, 0))
				proofBz = s.marshalProof(s.createAttestationProof(s.attestation(latestHeight+1, state, state), 0, 1, 2))
			},
			attestations.ErrInvalidAttestationData,
		},
		{
			"failure: no signatures",
			func() {
				proofBz = s.marshalProof(s.createAttestationProof(s.attestation(latestHeight + 1)))
			},
			attestations.ErrInvalidAttestationProof,
		},
		{
			"failure: undecodable proof",
			func() {
				proofBz = []byte{0x01}
			},
			attestations.ErrInvalidAttestationProof,
		},
		{
			"failure: undecodable trusted state",
			func() {
				trustedState = []byte{0x01}
			},
			attestations.ErrInvalidConsensusState,
		},
		{
			"failure: invalid trusted state",
			func() {
				bz, err := scalecodec.Marshal(attestations.NewConsensusState(s.attestorAddrs, 0, latestHeight))
				s.Require().NoError(err)
				trustedState = bz
			},
			attestations.ErrInvalidConsensusState,
		},
	}

	for _, tc := range testCases {
		s.Run(tc.name, func() {
			s.SetupTest()

			trustedState = s.trustedState(latestHeight)
			proofBz = s.marshalProof(s.createAttestationProof(s.attestation(latestHeight+1), 0, 2, 4))

			tc.malleate()

			newState, commitments, err := s.client.VerifyConsensus(s.host, ismptesting.ConsensusStateID, trustedState, proofBz)
			if tc.expErr != nil {
				s.Require().ErrorIs(err, tc.expErr)
				s.Require().Nil(newState)
				s.Require().Nil(commitments)
				return
			}

			s.Require().NoError(err)

			var cs attestations.ConsensusState
			s.Require().NoError(scalecodec.Unmarshal(newState, &cs))
			s.Require().Equal(uint64(latestHeight+1), cs.LatestHeight)
			s.Require().Equal(s.attestorAddrs, cs.Attestors)
			s.Require().Equal(s.minRequiredSigs, cs.MinRequiredSigs)

			id := clienttypes.NewStateMachineID(ismptesting.CounterpartyStateMachine, ismptesting.ConsensusStateID)
			s.Require().Len(commitments, 1)
			s.Require().Equal([]clienttypes.StateCommitmentHeight{
				{Commitment: ismptesting.NewCommitment(time.Unix(1, 0)), Height: 100},
			}, commitments[id])
		})
	}
}

func (s *AttestationsTestSuite) TestVerifyConsensusMultipleHeights() {
	attestation := s.attestation(
		1,
		s.stateAttestation(100, time.Unix(1, 0)),
		s.stateAttestation(101, time.Unix(2, 0)),
	)
	proofBz := s.marshalProof(s.createAttestationProof(attestation, 0, 1, 2))

	_, commitments, err := s.client.VerifyConsensus(s.host, ismptesting.ConsensusStateID, s.trustedState(0), proofBz)
	s.Require().NoError(err)

	id := clienttypes.NewStateMachineID(ismptesting.CounterpartyStateMachine, ismptesting.ConsensusStateID)
	s.Require().Len(commitments[id], 2)
	s.Require().Equal(uint64(100), commitments[id][0].Height)
	s.Require().Equal(uint64(101), commitments[id][1].Height)
}

func (s *AttestationsTestSuite) TestVerifyFraudProof() {
	var proof1, proof2 []byte

	const height = 11

	testCases := []struct {
		name     string
		malleate func()
		expErr   error
	}{
		{
			"success: conflicting attestations",
			func() {},
			nil,
		},
		{
			"success: conflicting attestations from different quorums",
			func() {
				proof1 = s.marshalProof(s.createAttestationProof(s.attestation(height, s.stateAttestation(100, time.Unix(1, 0))), 0, 1, 2))
				proof2 = s.marshalProof(s.createAttestationProof(s.attestation(height, s.stateAttestation(100, time.Unix(2, 0))), 3, 4, 0))
			},
			nil,
		},
		{
			"failure: same attestation signed by different quorums",
			func() {
				attestation := s.attestation(height)
				proof1 = s.marshalProof(s.createAttestationProof(attestation, 0, 1, 2))
				proof2 = s.marshalProof(s.createAttestationProof(attestation, 2, 3, 4))
			},
			attestations.ErrNoConflict,
		},
		{
			"failure: attestations for different heights",
			func() {
				proof2 = s.marshalProof(s.createAttestationProof(s.attestation(height+1, s.stateAttestation(100, time.Unix(2, 0))), 0, 1, 2))
			},
			attestations.ErrNoConflict,
		},
		{
			"failure: second proof below quorum",
			func() {
				proof2 = s.marshalProof(s.createAttestationProof(s.attestation(height, s.stateAttestation(100, time.Unix(2, 0))), 0, 1))
			},
			attestations.ErrInvalidQuorum,
		},
		{
			"failure: first proof signed by an outsider",
			func() {
				outsider, err := crypto.GenerateKey()
				s.Require().NoError(err)

				proof := s.createAttestationProof(s.attestation(height), 0, 1)
				proof.Signatures = append(proof.Signatures, s.sign(proof.AttestationData, outsider)...)
				proof1 = s.marshalProof(proof)
			},
			attestations.ErrUnknownSigner,
		},
	}

	for _, tc := range testCases {
		s.Run(tc.name, func() {
			s.SetupTest()

			proof1 = s.marshalProof(s.createAttestationProof(s.attestation(height, s.stateAttestation(100, time.Unix(1, 0))), 0, 1, 2))
			proof2 = s.marshalProof(s.createAttestationProof(s.attestation(height, s.stateAttestation(100, time.Unix(2, 0))), 0, 1, 2))

			tc.malleate()

			err := s.client.VerifyFraudProof(s.host, s.trustedState(height-1), proof1, proof2)
			if tc.expErr != nil {
				s.Require().ErrorIs(err, tc.expErr)
				return
			}
			s.Require().NoError(err)
		})
	}
}

func (s *AttestationsTestSuite) TestStateMachine() {
	smClient, err := s.client.StateMachine(ismptesting.CounterpartyStateMachine)
	s.Require().NoError(err)
	s.Require().Equal(attestations.StateMachineClient{}, smClient)

	smClient, err = s.client.StateMachine(clienttypes.EvmStateMachine(1))
	s.Require().ErrorIs(err, attestations.ErrUnsupportedStateMachine)
	s.Require().Nil(smClient)

	s.Require().Equal(attestations.ConsensusClientID, s.client.ConsensusClientID())
}
