package types_test

import (
	"time"

	"github.com/polytope-labs/ismp-go/internal/scalecodec"
	clienttypes "github.com/polytope-labs/ismp-go/modules/core/02-client/types"
	"github.com/polytope-labs/ismp-go/modules/core/04-channel/types"
)

func (s *TypesTestSuite) TestTimedOut() {
	testCases := []struct {
		name    string
		timeout uint64
		now     time.Time
		expPass bool
	}{
		{"zero timeout never expires", 0, time.Unix(1<<40, 0), false},
		{"before timeout", 100, time.Unix(99, 0), false},
		{"at timeout", 100, time.Unix(100, 0), true},
		{"after timeout", 100, time.Unix(101, 0), true},
		{"sub second before timeout", 100, time.Unix(99, int64(999*time.Millisecond)), false},
	}

	for _, tc := range testCases {
		s.Run(tc.name, func() {
			post := s.postRequest()
			post.TimeoutTimestamp = tc.timeout
			s.Require().Equal(tc.expPass, post.TimedOut(tc.now))

			get := s.getRequest()
			get.TimeoutTimestamp = tc.timeout
			s.Require().Equal(tc.expPass, get.TimedOut(tc.now))

			// get responses expire with their request
			s.Require().Equal(tc.expPass, types.NewGetResponse(get, nil).TimedOut(tc.now))

			// post responses carry their own timeout
			response := types.NewPostResponse(s.postRequest(), []byte("response"), tc.timeout)
			s.Require().Equal(tc.expPass, response.TimedOut(tc.now))
		})
	}
}

func (s *TypesTestSuite) TestPostRequestValidateBasic() {
	var request types.PostRequest

	testCases := []struct {
		name     string
		malleate func()
		expErr   error
	}{
		{"success", func() {}, nil},
		{"success: empty body", func() { request.Body = nil }, nil},
		{"invalid source", func() { request.Source = clienttypes.StateMachine{Kind: clienttypes.Evm} }, clienttypes.ErrInvalidStateMachine},
		{"invalid dest", func() { request.Dest = clienttypes.StateMachine{Kind: clienttypes.Tendermint} }, clienttypes.ErrInvalidStateMachine},
		{"empty from", func() { request.From = nil }, types.ErrInvalidRequest},
		{"empty to", func() { request.To = nil }, types.ErrInvalidRequest},
	}

	for _, tc := range testCases {
		s.Run(tc.name, func() {
			request = s.postRequest()

			tc.malleate()

			err := request.ValidateBasic()
			if tc.expErr == nil {
				s.Require().NoError(err)
			} else {
				s.Require().ErrorIs(err, tc.expErr)
			}
		})
	}
}

func (s *TypesTestSuite) TestGetRequestValidateBasic() {
	var request types.GetRequest

	testCases := []struct {
		name     string
		malleate func()
		expErr   error
	}{
		{"success", func() {}, nil},
		{"empty from", func() { request.From = nil }, types.ErrInvalidRequest},
		{"no keys", func() { request.Keys = nil }, types.ErrInvalidRequest},
		{"empty key", func() { request.Keys = [][]byte{[]byte("key"), {}} }, types.ErrInvalidRequest},
	}

	for _, tc := range testCases {
		s.Run(tc.name, func() {
			request = s.getRequest()

			tc.malleate()

			err := request.ValidateBasic()
			if tc.expErr == nil {
				s.Require().NoError(err)
			} else {
				s.Require().ErrorIs(err, tc.expErr)
			}
		})
	}
}

func (s *TypesTestSuite) TestRequestEncoding() {
	post := s.postRequest()
	bz, err := scalecodec.Marshal(post)
	s.Require().NoError(err)

	var decodedPost types.PostRequest
	s.Require().NoError(scalecodec.Unmarshal(bz, &decodedPost))
	s.Require().Equal(post, decodedPost)
	s.Require().Equal(post.Commitment(), decodedPost.Commitment())

	get := s.getRequest()
	bz, err = scalecodec.Marshal(get)
	s.Require().NoError(err)

	var decodedGet types.GetRequest
	s.Require().NoError(scalecodec.Unmarshal(bz, &decodedGet))
	s.Require().Equal(get, decodedGet)
}
