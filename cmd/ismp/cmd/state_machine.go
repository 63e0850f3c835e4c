package cmd

import (
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/polytope-labs/ismp-go/internal/scalecodec"
	clienttypes "github.com/polytope-labs/ismp-go/modules/core/02-client/types"
)

// StateMachineOutput is the result of the state-machine command.
type StateMachineOutput struct {
	StateMachine clienttypes.StateMachine `json:"state_machine" yaml:"state_machine"`
	Kind         string                   `json:"kind" yaml:"kind"`
	ID           string                   `json:"id" yaml:"id"`
	Encoded      string                   `json:"scale" yaml:"scale"`
}

func stateMachineCmd(cfg *viper.Viper) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "state-machine [identifier]",
		Short:   "Parse and validate a state machine identifier",
		Long:    "Parse a state machine identifier such as EVM-97, POLKADOT-3367, KUSAMA-2000, SUBSTRATE-cere or TNDRMINT-celestia and print its SCALE encoding.",
		Example: "ismp state-machine POLKADOT-3367",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sm, err := clienttypes.ParseStateMachine(args[0])
			if err != nil {
				return err
			}

			bz, err := scalecodec.Marshal(sm)
			if err != nil {
				return err
			}

			out := StateMachineOutput{
				StateMachine: sm,
				Kind:         sm.Kind.String(),
				ID:           sm.ID,
				Encoded:      hexutil.Encode(bz),
			}

			return printOutput(cmd, cfg, out)
		},
	}

	return cmd
}
