package types

import (
	"fmt"
	"slices"

	"gopkg.in/yaml.v2"
)

// AllowAllClients is the value that, when set in AllowedConsensusClients,
// allows every registered consensus client.
const AllowAllClients = "*"

// Params defines the configuration of the ISMP consensus sub module.
type Params struct {
	// AllowedConsensusClients lists the consensus client ids that may be
	// used when bootstrapping a consensus state.
	AllowedConsensusClients []string `json:"allowed_consensus_clients" yaml:"allowed_consensus_clients"`
}

// NewParams creates a new parameter configuration for the consensus sub module.
func NewParams(allowedClients ...string) Params {
	return Params{
		AllowedConsensusClients: allowedClients,
	}
}

// DefaultParams allows every registered consensus client.
func DefaultParams() Params {
	return NewParams(AllowAllClients)
}

// Validate all consensus sub module parameters
func (p Params) Validate() error {
	return validateClients(p.AllowedConsensusClients)
}

// String implements the Stringer interface.
func (p Params) String() string {
	out, _ := yaml.Marshal(p)
	return string(out)
}

// IsAllowedClient checks if the given consensus client id is on the allowlist.
func (p Params) IsAllowedClient(clientID ConsensusClientID) bool {
	if slices.Contains(p.AllowedConsensusClients, AllowAllClients) {
		return true
	}

	return slices.Contains(p.AllowedConsensusClients, clientID.String())
}

// validateClients checks that every entry is the wildcard or a valid consensus client id.
func validateClients(clients []string) error {
	for i, clientID := range clients {
		if clientID == AllowAllClients {
			if len(clients) > 1 {
				return fmt.Errorf("wildcard %q cannot be combined with other client ids", AllowAllClients)
			}
			continue
		}

		if _, err := ParseConsensusClientID(clientID); err != nil {
			return fmt.Errorf("client id %d is invalid: %w", i, err)
		}
	}

	return nil
}
