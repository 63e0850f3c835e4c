package attestations_test

import (
	"github.com/ComposableFi/go-merkle-trees/merkle"
	"github.com/ethereum/go-ethereum/common"

	"github.com/polytope-labs/ismp-go/internal/scalecodec"
	clienttypes "github.com/polytope-labs/ismp-go/modules/core/02-client/types"
	channeltypes "github.com/polytope-labs/ismp-go/modules/core/04-channel/types"
	host "github.com/polytope-labs/ismp-go/modules/core/24-host"
	"github.com/polytope-labs/ismp-go/modules/light-clients/attestations"
	ismptesting "github.com/polytope-labs/ismp-go/testing"
)

const leafCount = 5

// counterpartyRequests returns leafCount counterparty post requests and their commitments.
func (s *AttestationsTestSuite) counterpartyRequests() ([]channeltypes.PostRequest, [][]byte) {
	requests := make([]channeltypes.PostRequest, leafCount)
	leaves := make([][]byte, leafCount)
	for i := range requests {
		requests[i] = s.chain.CounterpartyPostRequest(uint64(i), 0)
		leaves[i] = requests[i].Commitment().Bytes()
	}

	return requests, leaves
}

// merkleProof returns the root of the tree over leaves and the proof hashes of
// the leaves at indices, which must be sorted.
func (s *AttestationsTestSuite) merkleProof(leaves [][]byte, indices ...uint32) (common.Hash, [][]byte) {
	tree, err := merkle.NewTree(attestations.Keccak256{}).FromLeaves(leaves)
	s.Require().NoError(err)

	return common.BytesToHash(tree.Root()), tree.Proof(indices).ProofHashes()
}

func (s *AttestationsTestSuite) proof(v interface{}) channeltypes.Proof {
	bz, err := scalecodec.Marshal(v)
	s.Require().NoError(err)
	return channeltypes.NewProof(ismptesting.CounterpartyHeight(100), bz)
}

func (s *AttestationsTestSuite) TestVerifyMembership() {
	var (
		item       channeltypes.RequestResponse
		root       clienttypes.StateCommitment
		membership attestations.MembershipProof
	)

	requests, leaves := s.counterpartyRequests()
	overlayRoot, proofHashes := s.merkleProof(leaves, 1, 3)

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
			"success: batch order differs from leaf order",
			func() {
				item = channeltypes.NewPostRequests(requests[3], requests[1])
				membership.LeafIndices = []uint32{3, 1}
			},
			nil,
		},
		{
			"success: single request",
			func() {
				item = channeltypes.NewPostRequests(requests[4])
				membership.LeafIndices = []uint32{4}
				_, membership.ProofHashes = s.merkleProof(leaves, 4)
			},
			nil,
		},
		{
			"success: repeated request",
			func() {
				item = channeltypes.NewPostRequests(requests[1], requests[3], requests[1])
				membership.LeafIndices = []uint32{1, 3, 1}
			},
			nil,
		},
		{
			"success: state root when no overlay root is committed",
			func() {
				root = clienttypes.StateCommitment{Timestamp: 1, StateRoot: overlayRoot}
			},
			nil,
		},
		{
			"failure: overlay root takes precedence over the state root",
			func() {
				other := ismptesting.MockOverlayRoot
				root = clienttypes.StateCommitment{Timestamp: 1, OverlayRoot: &other, StateRoot: overlayRoot}
			},
			attestations.ErrNotMember,
		},
		{
			"failure: request not in tree",
			func() {
				item = channeltypes.NewPostRequests(requests[1], s.chain.CounterpartyPostRequest(leafCount, 0))
			},
			attestations.ErrNotMember,
		},
		{
			"failure: leaf indices swapped",
			func() {
				membership.LeafIndices = []uint32{3, 1}
			},
			attestations.ErrNotMember,
		},
		{
			"failure: different request claims the same leaf index",
			func() {
				forged := requests[1]
				forged.Nonce = 999
				forged.Body = []byte("mint 1000000 to attacker")

				item = channeltypes.NewPostRequests(requests[1], forged)
				membership.LeafIndices = []uint32{1, 1}
				_, membership.ProofHashes = s.merkleProof(leaves, 1)
			},
			attestations.ErrInvalidProof,
		},
		{
			"failure: leaf index out of range",
			func() {
				membership.LeafIndices = []uint32{1, leafCount}
			},
			attestations.ErrInvalidProof,
		},
		{
			"failure: leaf index count mismatch",
			func() {
				membership.LeafIndices = []uint32{1}
			},
			attestations.ErrInvalidProof,
		},
	}

	for _, tc := range testCases {
		s.Run(tc.name, func() {
			item = channeltypes.NewPostRequests(requests[1], requests[3])
			overlay := overlayRoot
			root = clienttypes.StateCommitment{Timestamp: 1, OverlayRoot: &overlay, StateRoot: ismptesting.MockStateRoot}
			membership = attestations.MembershipProof{
				LeafIndices: []uint32{1, 3},
				LeafCount:   leafCount,
				ProofHashes: proofHashes,
			}

			tc.malleate()

			err := attestations.StateMachineClient{}.VerifyMembership(s.host, item, root, s.proof(membership))
			if tc.expErr != nil {
				s.Require().ErrorIs(err, tc.expErr)
				return
			}
			s.Require().NoError(err)
		})
	}
}

func (s *AttestationsTestSuite) TestVerifyMembershipResponses() {
	requests, _ := s.counterpartyRequests()
	responses := []channeltypes.PostResponse{
		channeltypes.NewPostResponse(requests[0], []byte("first"), 0),
		channeltypes.NewPostResponse(requests[1], []byte("second"), 0),
	}

	overlay, proofHashes := s.merkleProof([][]byte{responses[0].Commitment().Bytes(), responses[1].Commitment().Bytes()}, 1)
	root := clienttypes.StateCommitment{Timestamp: 1, OverlayRoot: &overlay, StateRoot: ismptesting.MockStateRoot}
	membership := attestations.MembershipProof{
		LeafIndices: []uint32{1},
		LeafCount:   2,
		ProofHashes: proofHashes,
	}

	err := attestations.StateMachineClient{}.VerifyMembership(s.host, channeltypes.NewPostResponses(responses[1]), root, s.proof(membership))
	s.Require().NoError(err)

	// the request commitment is not a leaf of the response tree
	err = attestations.StateMachineClient{}.VerifyMembership(s.host, channeltypes.NewPostRequests(requests[1]), root, s.proof(membership))
	s.Require().ErrorIs(err, attestations.ErrNotMember)
}

func (s *AttestationsTestSuite) TestVerifyMembershipUndecodableProof() {
	requests, _ := s.counterpartyRequests()
	root := ismptesting.NewCommitment(s.chain.Now())

	err := attestations.StateMachineClient{}.VerifyMembership(
		s.host,
		channeltypes.NewPostRequests(requests[0]),
		root,
		channeltypes.NewProof(ismptesting.CounterpartyHeight(100), []byte{0xff}),
	)
	s.Require().ErrorIs(err, attestations.ErrInvalidProof)
}

func (s *AttestationsTestSuite) TestVerifyStateProof() {
	var (
		entries []channeltypes.StorageValue
		root    clienttypes.StateCommitment
	)

	keys := [][]byte{[]byte("key-b"), []byte("key-z")}

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
			"failure: state root mismatch",
			func() {
				root.StateRoot = ismptesting.MockStateRoot
			},
			attestations.ErrStateRootMismatch,
		},
		{
			"failure: entry omitted from the proof",
			func() {
				entries = entries[1:]
			},
			attestations.ErrStateRootMismatch,
		},
		{
			"failure: entries not sorted",
			func() {
				entries[0], entries[1] = entries[1], entries[0]
			},
			attestations.ErrInvalidProof,
		},
		{
			"failure: entry without a value",
			func() {
				entries[2].Value = nil
			},
			attestations.ErrInvalidProof,
		},
		{
			"failure: empty proof",
			func() {
				entries = nil
			},
			attestations.ErrInvalidProof,
		},
	}

	for _, tc := range testCases {
		s.Run(tc.name, func() {
			entries = []channeltypes.StorageValue{
				{Key: []byte("key-a"), Value: []byte("value-a")},
				{Key: []byte("key-b"), Value: []byte("value-b")},
				{Key: []byte("key-c"), Value: []byte("value-c")},
			}

			stateRoot, err := attestations.StateRoot(entries)
			s.Require().NoError(err)
			root = clienttypes.StateCommitment{Timestamp: 1, StateRoot: stateRoot}

			tc.malleate()

			values, err := attestations.StateMachineClient{}.VerifyStateProof(s.host, keys, root, s.proof(attestations.StateProof{Entries: entries}))
			if tc.expErr != nil {
				s.Require().ErrorIs(err, tc.expErr)
				s.Require().Nil(values)
				return
			}

			s.Require().NoError(err)
			s.Require().Equal(map[string][]byte{
				"key-b": []byte("value-b"),
				"key-z": nil,
			}, values)
		})
	}
}

func (s *AttestationsTestSuite) TestStateTrieKeys() {
	requests, _ := s.counterpartyRequests()
	response := channeltypes.NewPostResponse(requests[2], []byte("response"), 0)

	smClient := attestations.StateMachineClient{}

	reqs := channeltypes.NewPostRequests(requests[0], requests[1])
	s.Require().Equal([][]byte{
		host.RequestCommitmentKey(requests[0].Commitment()),
		host.RequestCommitmentKey(requests[1].Commitment()),
	}, smClient.StateTrieKey(reqs))
	s.Require().Equal([][]byte{
		host.RequestReceiptKey(requests[0].Commitment()),
		host.RequestReceiptKey(requests[1].Commitment()),
	}, smClient.ReceiptsStateTrieKey(reqs))

	resps := channeltypes.NewPostResponses(response)
	s.Require().Equal([][]byte{host.ResponseCommitmentKey(response.Commitment())}, smClient.StateTrieKey(resps))
	s.Require().Equal([][]byte{host.ResponseReceiptKey(requests[2].Commitment())}, smClient.ReceiptsStateTrieKey(resps))
}
