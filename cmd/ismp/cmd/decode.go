package cmd

import (
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	clienttypes "github.com/polytope-labs/ismp-go/modules/core/02-client/types"
	channeltypes "github.com/polytope-labs/ismp-go/modules/core/04-channel/types"
	"github.com/polytope-labs/ismp-go/modules/core/types"
)

// DecodeOutput is the result of the decode command. The decoded message itself
// is only part of the json output.
type DecodeOutput struct {
	Kind             string            `json:"kind" yaml:"kind"`
	Type             string            `json:"type" yaml:"type"`
	ConsensusStateID string            `json:"consensus_state_id,omitempty" yaml:"consensus_state_id,omitempty"`
	ProofSizes       []int             `json:"proof_sizes,omitempty" yaml:"proof_sizes,omitempty"`
	Proof            *ProofSummary     `json:"proof,omitempty" yaml:"proof,omitempty"`
	Requests         []RequestSummary  `json:"requests,omitempty" yaml:"requests,omitempty"`
	Responses        []ResponseSummary `json:"responses,omitempty" yaml:"responses,omitempty"`
	Message          types.Message     `json:"message" yaml:"-"`
}

// ProofSummary describes a state proof.
type ProofSummary struct {
	Height string `json:"height" yaml:"height"`
	Size   int    `json:"size" yaml:"size"`
}

// RequestSummary describes a request carried by a message.
type RequestSummary struct {
	Commitment       common.Hash              `json:"commitment" yaml:"commitment"`
	Source           clienttypes.StateMachine `json:"source" yaml:"source"`
	Dest             clienttypes.StateMachine `json:"dest" yaml:"dest"`
	Nonce            uint64                   `json:"nonce" yaml:"nonce"`
	TimeoutTimestamp uint64                   `json:"timeout_timestamp" yaml:"timeout_timestamp"`
}

// ResponseSummary describes a response carried by a message.
type ResponseSummary struct {
	Commitment        common.Hash `json:"commitment" yaml:"commitment"`
	RequestCommitment common.Hash `json:"request_commitment" yaml:"request_commitment"`
}

func decodeCmd(cfg *viper.Viper) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "decode [scale-hex]",
		Short:   "Decode a SCALE encoded ISMP message",
		Long:    "Decode a SCALE encoded ISMP message and run its stateless validation.",
		Example: "ismp decode 0x02... --output json",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			bz, err := hexutil.Decode(args[0])
			if err != nil {
				return fmt.Errorf("invalid hex input: %w", err)
			}

			msg, err := types.DecodeMessage(bz)
			if err != nil {
				return err
			}

			if err := msg.ValidateBasic(); err != nil {
				return err
			}

			kind, err := types.KindOf(msg)
			if err != nil {
				return err
			}

			out := summarize(msg)
			out.Kind = kind.String()
			out.Type = fmt.Sprintf("%T", msg)
			out.Message = msg

			return printOutput(cmd, cfg, out)
		},
	}

	return cmd
}

// summarize returns a short human readable description of msg.
func summarize(msg types.Message) DecodeOutput {
	var out DecodeOutput
	switch msg := msg.(type) {
	case clienttypes.ConsensusMessage:
		out.ConsensusStateID = msg.ConsensusStateID.String()
		out.ProofSizes = []int{len(msg.ConsensusProof)}
	case clienttypes.FraudProofMessage:
		out.ConsensusStateID = msg.ConsensusStateID.String()
		out.ProofSizes = []int{len(msg.Proof1), len(msg.Proof2)}
	case channeltypes.RequestMessage:
		out.Proof = summarizeProof(msg.Proof)
		for _, request := range msg.Requests {
			out.Requests = append(out.Requests, summarizeRequest(request))
		}
	case channeltypes.PostResponseMessage:
		out.Proof = summarizeProof(msg.Proof)
		for _, response := range msg.Responses {
			out.Responses = append(out.Responses, ResponseSummary{
				Commitment:        response.Commitment(),
				RequestCommitment: response.RequestCommitment(),
			})
		}
	case channeltypes.GetResponseMessage:
		out.Proof = summarizeProof(msg.Proof)
		for _, request := range msg.Requests {
			out.Requests = append(out.Requests, summarizeRequest(request))
		}
	case channeltypes.PostTimeoutMessage:
		out.Proof = summarizeProof(msg.TimeoutProof)
		for _, request := range msg.Requests {
			out.Requests = append(out.Requests, summarizeRequest(request))
		}
	case channeltypes.GetTimeoutMessage:
		for _, request := range msg.Requests {
			out.Requests = append(out.Requests, summarizeRequest(request))
		}
	}

	return out
}

func summarizeProof(proof channeltypes.Proof) *ProofSummary {
	return &ProofSummary{
		Height: proof.Height.String(),
		Size:   len(proof.Proof),
	}
}

func summarizeRequest(r channeltypes.Request) RequestSummary {
	return RequestSummary{
		Commitment:       r.Commitment(),
		Source:           r.GetSource(),
		Dest:             r.GetDest(),
		Nonce:            r.GetNonce(),
		TimeoutTimestamp: r.GetTimeoutTimestamp(),
	}
}
