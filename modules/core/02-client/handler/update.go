package handler

import (
	"sort"

	errorsmod "cosmossdk.io/errors"

	clienttypes "github.com/polytope-labs/ismp-go/modules/core/02-client/types"
	"github.com/polytope-labs/ismp-go/modules/core/exported"
	"github.com/polytope-labs/ismp-go/modules/core/internal/telemetry"
)

// UpdateClient verifies a consensus proof and stores the state commitments it
// finalizes. Nothing is written unless verification succeeds. Heights that are
// not above the latest height of their state machine, or that already hold a
// commitment, are skipped without error.
func UpdateClient(host exported.Host, msg clienttypes.ConsensusMessage) ([]clienttypes.StateMachineUpdated, error) {
	if err := msg.ValidateBasic(); err != nil {
		return nil, err
	}

	consensusStateID := msg.ConsensusStateID
	clientID, consensusClient, err := resolveClient(host, consensusStateID)
	if err != nil {
		return nil, err
	}

	if host.IsConsensusClientFrozen(consensusStateID) {
		return nil, errorsmod.Wrapf(clienttypes.ErrConsensusClientFrozen, "cannot update consensus state %s", consensusStateID)
	}

	if err := checkNotExpired(host, consensusStateID); err != nil {
		return nil, err
	}

	trustedState, found := host.ConsensusState(consensusStateID)
	if !found {
		return nil, errorsmod.Wrapf(clienttypes.ErrConsensusStateIDNotRecognized, "no trusted state for %s", consensusStateID)
	}

	newState, commitments, err := consensusClient.VerifyConsensus(host, consensusStateID, trustedState, msg.ConsensusProof)
	if err != nil {
		return nil, errorsmod.Wrap(clienttypes.ErrConsensusProofVerificationFailed, err.Error())
	}

	stateMachineIDs := commitments.SortedStateMachineIDs()
	for _, id := range stateMachineIDs {
		if id.ConsensusStateID != consensusStateID {
			return nil, errorsmod.Wrapf(
				clienttypes.ErrInvalidConsensusStateID,
				"consensus state %s returned commitments for %s", consensusStateID, id,
			)
		}
	}

	now := host.Timestamp()
	host.StoreConsensusState(consensusStateID, newState)
	host.StoreConsensusUpdateTime(consensusStateID, now)

	var updates []clienttypes.StateMachineUpdated
	for _, id := range stateMachineIDs {
		heights := make([]clienttypes.StateCommitmentHeight, len(commitments[id]))
		copy(heights, commitments[id])
		sort.SliceStable(heights, func(i, j int) bool {
			return heights[i].Height < heights[j].Height
		})

		previous, hasPrevious := host.LatestCommitmentHeight(id)

		var (
			latest uint64
			stored bool
		)
		for _, commitment := range heights {
			height := clienttypes.NewStateMachineHeight(id, commitment.Height)

			if hasPrevious && commitment.Height <= previous {
				host.Logger().Debug("skipping stale state commitment", "height", height.String(), "latest", previous)
				continue
			}

			if _, exists := host.StateMachineCommitment(height); exists {
				host.Logger().Debug("skipping existing state commitment", "height", height.String())
				continue
			}

			host.StoreStateMachineCommitment(height, commitment.Commitment)
			host.StoreStateMachineUpdateTime(height, now)

			if !stored || commitment.Height > latest {
				latest = commitment.Height
			}
			stored = true
		}

		if !stored {
			continue
		}

		host.StoreLatestCommitmentHeight(clienttypes.NewStateMachineHeight(id, latest))
		updates = append(updates, clienttypes.StateMachineUpdated{
			StateMachineID: id,
			LatestHeight:   latest,
		})

		host.Logger().Info("state machine updated", "state-machine-id", id.String(), "latest-height", latest)
	}

	host.Logger().Info(
		"consensus client updated",
		"consensus-state-id", consensusStateID.String(),
		"consensus-client-id", clientID.String(),
		"updated-state-machines", len(updates),
	)

	defer telemetry.ReportUpdateConsensusClient(clientID, consensusStateID, updates)

	return updates, nil
}
