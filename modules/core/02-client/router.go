package client

import (
	"fmt"

	errorsmod "cosmossdk.io/errors"

	clienttypes "github.com/polytope-labs/ismp-go/modules/core/02-client/types"
	"github.com/polytope-labs/ismp-go/modules/core/exported"
)

// Router is a map from consensus client id to the ConsensusClient implementing it.
type Router struct {
	routes map[clienttypes.ConsensusClientID]exported.ConsensusClient
}

// NewRouter returns an empty Router.
func NewRouter() *Router {
	return &Router{
		routes: make(map[clienttypes.ConsensusClientID]exported.ConsensusClient),
	}
}

// AddRoute registers a consensus client under the id it reports. It returns the
// Router so AddRoute calls can be linked.
//
// Panics:
//   - if the client id is empty
//   - if a client with the same id has already been registered
func (rtr *Router) AddRoute(consensusClient exported.ConsensusClient) *Router {
	clientID := consensusClient.ConsensusClientID()
	if err := clientID.Validate(); err != nil {
		panic(err)
	}

	if rtr.HasRoute(clientID) {
		panic(fmt.Errorf("route %s has already been registered", clientID))
	}

	rtr.routes[clientID] = consensusClient

	return rtr
}

// HasRoute returns true if the Router has a client registered for clientID.
func (rtr *Router) HasRoute(clientID clienttypes.ConsensusClientID) bool {
	_, ok := rtr.routes[clientID]
	return ok
}

// GetRoute returns the ConsensusClient registered for clientID.
func (rtr *Router) GetRoute(clientID clienttypes.ConsensusClientID) (exported.ConsensusClient, bool) {
	consensusClient, ok := rtr.routes[clientID]
	return consensusClient, ok
}

// ConsensusClient returns the ConsensusClient registered for clientID or
// ErrConsensusClientNotFound.
func (rtr *Router) ConsensusClient(clientID clienttypes.ConsensusClientID) (exported.ConsensusClient, error) {
	consensusClient, ok := rtr.GetRoute(clientID)
	if !ok {
		return nil, errorsmod.Wrapf(clienttypes.ErrConsensusClientNotFound, "consensus client %s", clientID)
	}

	return consensusClient, nil
}
