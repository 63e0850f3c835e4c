package cmd

import (
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/polytope-labs/ismp-go/internal/scalecodec"
	channeltypes "github.com/polytope-labs/ismp-go/modules/core/04-channel/types"
	host "github.com/polytope-labs/ismp-go/modules/core/24-host"
)

const (
	kindPostRequest  = "post-request"
	kindGetRequest   = "get-request"
	kindPostResponse = "post-response"
	kindGetResponse  = "get-response"
)

// CommitmentOutput is the result of the commitment command.
type CommitmentOutput struct {
	Kind          string      `json:"kind" yaml:"kind"`
	Commitment    common.Hash `json:"commitment" yaml:"commitment"`
	CommitmentKey string      `json:"commitment_key" yaml:"commitment_key"`
	ReceiptKey    string      `json:"receipt_key" yaml:"receipt_key"`
}

func commitmentCmd(cfg *viper.Viper) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "commitment [post-request|get-request|post-response|get-response] [scale-hex]",
		Short: "Compute the commitment of a SCALE encoded request or response",
		Long: `Compute the keccak256 commitment of a SCALE encoded request or response
together with the store keys its commitment and receipt are written under.`,
		Example: "ismp commitment post-request 0x0100000000...",
		Args:    cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			bz, err := hexutil.Decode(args[1])
			if err != nil {
				return fmt.Errorf("invalid hex input: %w", err)
			}

			out, err := computeCommitment(args[0], bz)
			if err != nil {
				return err
			}

			return printOutput(cmd, cfg, out)
		},
	}

	return cmd
}

// computeCommitment decodes bz as the given kind and returns its commitment and keys.
func computeCommitment(kind string, bz []byte) (CommitmentOutput, error) {
	var (
		commitment    common.Hash
		commitmentKey []byte
		receiptKey    []byte
	)

	switch kind {
	case kindPostRequest:
		var request channeltypes.PostRequest
		if err := scalecodec.Unmarshal(bz, &request); err != nil {
			return CommitmentOutput{}, err
		}
		commitment = request.Commitment()
		commitmentKey = host.RequestCommitmentKey(commitment)
		receiptKey = host.RequestReceiptKey(commitment)
	case kindGetRequest:
		var request channeltypes.GetRequest
		if err := scalecodec.Unmarshal(bz, &request); err != nil {
			return CommitmentOutput{}, err
		}
		commitment = request.Commitment()
		commitmentKey = host.RequestCommitmentKey(commitment)
		receiptKey = host.RequestReceiptKey(commitment)
	case kindPostResponse:
		var response channeltypes.PostResponse
		if err := scalecodec.Unmarshal(bz, &response); err != nil {
			return CommitmentOutput{}, err
		}
		commitment = response.Commitment()
		commitmentKey = host.ResponseCommitmentKey(commitment)
		receiptKey = host.ResponseReceiptKey(response.RequestCommitment())
	case kindGetResponse:
		var response channeltypes.GetResponse
		if err := scalecodec.Unmarshal(bz, &response); err != nil {
			return CommitmentOutput{}, err
		}
		commitment = response.Commitment()
		commitmentKey = host.ResponseCommitmentKey(commitment)
		receiptKey = host.ResponseReceiptKey(response.RequestCommitment())
	default:
		return CommitmentOutput{}, fmt.Errorf("unknown kind %q, expected one of %s, %s, %s or %s", kind, kindPostRequest, kindGetRequest, kindPostResponse, kindGetResponse)
	}

	return CommitmentOutput{
		Kind:          kind,
		Commitment:    commitment,
		CommitmentKey: string(commitmentKey),
		ReceiptKey:    string(receiptKey),
	}, nil
}
