package telemetry

import (
	"strconv"

	"github.com/hashicorp/go-metrics"

	"github.com/cosmos/cosmos-sdk/telemetry"

	clienttypes "github.com/polytope-labs/ismp-go/modules/core/02-client/types"
	channeltypes "github.com/polytope-labs/ismp-go/modules/core/04-channel/types"
	coremetrics "github.com/polytope-labs/ismp-go/modules/core/metrics"
)

func ReportCreateConsensusClient(clientID clienttypes.ConsensusClientID, consensusStateID clienttypes.ConsensusStateID) {
	telemetry.IncrCounterWithLabels(
		[]string{"ismp", "consensus", "create"},
		1,
		[]metrics.Label{
			telemetry.NewLabel(coremetrics.LabelConsensusClientID, clientID.String()),
			telemetry.NewLabel(coremetrics.LabelConsensusStateID, consensusStateID.String()),
		},
	)
}

func ReportUpdateConsensusClient(clientID clienttypes.ConsensusClientID, consensusStateID clienttypes.ConsensusStateID, updates []clienttypes.StateMachineUpdated) {
	labels := []metrics.Label{
		telemetry.NewLabel(coremetrics.LabelConsensusClientID, clientID.String()),
		telemetry.NewLabel(coremetrics.LabelConsensusStateID, consensusStateID.String()),
	}

	telemetry.IncrCounterWithLabels([]string{"ismp", "consensus", "update"}, 1, labels)

	for _, update := range updates {
		telemetry.SetGaugeWithLabels(
			[]string{"ismp", "state_machine", "latest_height"},
			float32(update.LatestHeight),
			[]metrics.Label{telemetry.NewLabel(coremetrics.LabelStateMachineID, update.StateMachineID.String())},
		)
	}
}

func ReportFreezeConsensusClient(clientID clienttypes.ConsensusClientID, consensusStateID clienttypes.ConsensusStateID) {
	telemetry.IncrCounterWithLabels(
		[]string{"ismp", "consensus", "freeze"},
		1,
		[]metrics.Label{
			telemetry.NewLabel(coremetrics.LabelConsensusClientID, clientID.String()),
			telemetry.NewLabel(coremetrics.LabelConsensusStateID, consensusStateID.String()),
		},
	)
}

// ReportDispatch counts the module callbacks of one message kind by outcome.
func ReportDispatch(msgType string, results []channeltypes.DispatchResult) {
	for _, result := range results {
		telemetry.IncrCounterWithLabels(
			[]string{"ismp", "dispatch"},
			1,
			[]metrics.Label{
				telemetry.NewLabel(coremetrics.LabelMsgType, msgType),
				telemetry.NewLabel(coremetrics.LabelSource, result.Source.String()),
				telemetry.NewLabel(coremetrics.LabelDestination, result.Dest.String()),
				telemetry.NewLabel(coremetrics.LabelSuccess, strconv.FormatBool(result.Success())),
			},
		)
	}
}
