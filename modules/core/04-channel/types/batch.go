package types

import (
	"github.com/ethereum/go-ethereum/common"
)

// RequestResponse is a batch of requests or responses proven together by a
// single membership proof.
type RequestResponse interface {
	Len() int
	// Commitments returns the commitment of every item in batch order.
	Commitments() []common.Hash
}

var (
	_ RequestResponse = Requests{}
	_ RequestResponse = Responses{}
)

// Requests is a batch of requests.
type Requests []Request

// NewPostRequests returns the batch of the given post requests.
func NewPostRequests(requests ...PostRequest) Requests {
	batch := make(Requests, len(requests))
	for i, request := range requests {
		batch[i] = request
	}
	return batch
}

// NewGetRequests returns the batch of the given get requests.
func NewGetRequests(requests ...GetRequest) Requests {
	batch := make(Requests, len(requests))
	for i, request := range requests {
		batch[i] = request
	}
	return batch
}

// Len implements RequestResponse.
func (r Requests) Len() int { return len(r) }

// Commitments implements RequestResponse.
func (r Requests) Commitments() []common.Hash {
	commitments := make([]common.Hash, len(r))
	for i, request := range r {
		commitments[i] = request.Commitment()
	}
	return commitments
}

// Responses is a batch of responses.
type Responses []Response

// NewPostResponses returns the batch of the given post responses.
func NewPostResponses(responses ...PostResponse) Responses {
	batch := make(Responses, len(responses))
	for i, response := range responses {
		batch[i] = response
	}
	return batch
}

// Len implements RequestResponse.
func (r Responses) Len() int { return len(r) }

// Commitments implements RequestResponse.
func (r Responses) Commitments() []common.Hash {
	commitments := make([]common.Hash, len(r))
	for i, response := range r {
		commitments[i] = response.Commitment()
	}
	return commitments
}
