package types_test

import (
	clienttypes "github.com/polytope-labs/ismp-go/modules/core/02-client/types"
	"github.com/polytope-labs/ismp-go/modules/core/04-channel/types"
)

func (s *TypesTestSuite) TestMessagesValidateBasic() {
	proof := types.NewProof(proofHeight, []byte("proof"))
	post := s.postRequest()
	get := s.getRequest()

	testCases := []struct {
		name   string
		msg    interface{ ValidateBasic() error }
		expErr error
	}{
		{"request message", types.RequestMessage{Requests: []types.PostRequest{post}, Proof: proof}, nil},
		{"empty request message", types.RequestMessage{Proof: proof}, types.ErrEmptyBatch},
		{"request message with empty proof", types.RequestMessage{Requests: []types.PostRequest{post}, Proof: types.NewProof(proofHeight, nil)}, types.ErrInvalidProof},
		{"invalid request in batch", types.RequestMessage{Requests: []types.PostRequest{post, {}}, Proof: proof}, clienttypes.ErrInvalidStateMachine},
		{"post response message", types.PostResponseMessage{Responses: []types.PostResponse{types.NewPostResponse(post, nil, 0)}, Proof: proof}, nil},
		{"empty post response message", types.PostResponseMessage{Proof: proof}, types.ErrEmptyBatch},
		{"get response message", types.GetResponseMessage{Requests: []types.GetRequest{get}, Proof: proof}, nil},
		{"empty get response message", types.GetResponseMessage{Proof: proof}, types.ErrEmptyBatch},
		{"post timeout message", types.PostTimeoutMessage{Requests: []types.PostRequest{post}, TimeoutProof: proof}, nil},
		{"empty post timeout message", types.PostTimeoutMessage{TimeoutProof: proof}, types.ErrEmptyBatch},
		{"get timeout message", types.GetTimeoutMessage{Requests: []types.GetRequest{get}}, nil},
		{"empty get timeout message", types.GetTimeoutMessage{}, types.ErrEmptyBatch},
	}

	for _, tc := range testCases {
		s.Run(tc.name, func() {
			err := tc.msg.ValidateBasic()
			if tc.expErr == nil {
				s.Require().NoError(err)
			} else {
				s.Require().ErrorIs(err, tc.expErr)
			}
		})
	}
}
