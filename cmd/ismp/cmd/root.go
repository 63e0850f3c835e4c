package cmd

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cast"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v2"
)

const (
	// EnvPrefix is the prefix of the environment variables bound to flags,
	// e.g. ISMP_OUTPUT for --output.
	EnvPrefix = "ISMP"

	FlagOutput = "output"

	OutputText = "text"
	OutputJSON = "json"
)

// NewRootCmd returns the root command of the ismp tool. Every flag can also
// be set through an ISMP_ prefixed environment variable.
func NewRootCmd() *cobra.Command {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	rootCmd := &cobra.Command{
		Use:          "ismp",
		Short:        "Inspect ISMP messages, commitments and state machine identifiers",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if err := v.BindPFlags(cmd.Flags()); err != nil {
				return err
			}

			switch output := outputFormat(v); output {
			case OutputText, OutputJSON:
				return nil
			default:
				return fmt.Errorf("unsupported output format %q, expected %s or %s", output, OutputText, OutputJSON)
			}
		},
	}

	rootCmd.PersistentFlags().StringP(FlagOutput, "o", OutputText, "Output format (text|json)")

	rootCmd.AddCommand(
		commitmentCmd(v),
		decodeCmd(v),
		stateMachineCmd(v),
	)

	return rootCmd
}

// outputFormat returns the selected output format, read from the flag or
// the ISMP_OUTPUT environment variable.
func outputFormat(cfg *viper.Viper) string {
	return cast.ToString(cfg.Get(FlagOutput))
}

// printOutput writes v as indented JSON when the json output is selected and
// as YAML otherwise.
func printOutput(cmd *cobra.Command, cfg *viper.Viper, v interface{}) error {
	var (
		bz  []byte
		err error
	)
	if outputFormat(cfg) == OutputJSON {
		bz, err = json.MarshalIndent(v, "", "  ")
	} else {
		bz, err = yaml.Marshal(v)
	}
	if err != nil {
		return err
	}

	fmt.Fprintln(cmd.OutOrStdout(), strings.TrimSpace(string(bz)))
	return nil
}
