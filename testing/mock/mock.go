package mock

import (
	"errors"

	clienttypes "github.com/polytope-labs/ismp-go/modules/core/02-client/types"
)

const (
	ModuleName = "mock"

	StoreKey = ModuleName
)

var (
	// ConsensusClientID is the id the mock consensus client is registered under.
	ConsensusClientID = clienttypes.ConsensusClientID{'M', 'O', 'C', 'K'}

	// ModuleID is the id the mock application is routed under.
	ModuleID = []byte("mock-module")

	MockTrustedState = []byte("mock trusted state")
	MockRequestBody  = []byte("mock request body")
	MockResponseBody = []byte("mock response body")

	// MockApplicationCallbackError should be returned when an application callback should fail. It is possible to
	// test that this error was returned using ErrorIs.
	MockApplicationCallbackError error = &applicationCallbackError{}

	// ErrMockVerification is returned by mock verifiers that were configured to fail.
	ErrMockVerification = errors.New("mock verification failed")
)

// applicationCallbackError is a custom error type that will be unique for testing purposes.
type applicationCallbackError struct{}

func (e applicationCallbackError) Error() string {
	return "mock application callback failed"
}
