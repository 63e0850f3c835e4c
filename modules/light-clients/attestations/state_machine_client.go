package attestations

import (
	"bytes"
	"sort"

	"github.com/ComposableFi/go-merkle-trees/merkle"
	"github.com/centrifuge/go-substrate-rpc-client/v4/scale"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"

	errorsmod "cosmossdk.io/errors"

	"github.com/polytope-labs/ismp-go/internal/scalecodec"
	clienttypes "github.com/polytope-labs/ismp-go/modules/core/02-client/types"
	channeltypes "github.com/polytope-labs/ismp-go/modules/core/04-channel/types"
	host "github.com/polytope-labs/ismp-go/modules/core/24-host"
	"github.com/polytope-labs/ismp-go/modules/core/exported"
)

var _ exported.StateMachineClient = StateMachineClient{}

// Keccak256 is the hasher of the request and state merkle trees.
type Keccak256 struct{}

func (Keccak256) Merge(left, right interface{}) interface{} {
	l := left.([]byte)
	r := right.([]byte)
	return crypto.Keccak256(append(append([]byte{}, l...), r...))
}

func (Keccak256) Hash(data []byte) ([]byte, error) {
	return crypto.Keccak256(data), nil
}

// MembershipProof is a merkle multiproof of request or response commitments
// under the overlay root. LeafIndices holds the index of every proven
// commitment in batch order.
type MembershipProof struct {
	LeafIndices []uint32
	LeafCount   uint32
	ProofHashes [][]byte
}

// Encode implements scale.Encodeable.
func (p MembershipProof) Encode(encoder scale.Encoder) error {
	if err := scalecodec.EncodeSlice(encoder, p.LeafIndices); err != nil {
		return err
	}
	if err := encoder.Encode(p.LeafCount); err != nil {
		return err
	}
	return scalecodec.EncodeBytesSlice(encoder, p.ProofHashes)
}

// Decode implements scale.Decodeable.
func (p *MembershipProof) Decode(decoder scale.Decoder) error {
	indices, err := scalecodec.DecodeSlice[uint32](decoder)
	if err != nil {
		return err
	}
	p.LeafIndices = indices

	if err := decoder.Decode(&p.LeafCount); err != nil {
		return err
	}

	hashes, err := scalecodec.DecodeBytesSlice(decoder)
	if err != nil {
		return err
	}
	p.ProofHashes = hashes

	return nil
}

// StateProof discloses every entry of the attested state, sorted by key. The
// merkle root of the entries must equal the state root, which proves both the
// presence and the absence of keys.
type StateProof struct {
	Entries []channeltypes.StorageValue
}

// Encode implements scale.Encodeable.
func (p StateProof) Encode(encoder scale.Encoder) error {
	return scalecodec.EncodeSlice(encoder, p.Entries)
}

// Decode implements scale.Decodeable.
func (p *StateProof) Decode(decoder scale.Decoder) error {
	entries, err := scalecodec.DecodeSlice[channeltypes.StorageValue](decoder)
	if err != nil {
		return err
	}
	p.Entries = entries

	return nil
}

// StateLeaf returns the merkle leaf of a state entry.
func StateLeaf(key, value []byte) []byte {
	return crypto.Keccak256(key, crypto.Keccak256(value))
}

// StateRoot returns the merkle root of the state entries, which must be sorted by key.
func StateRoot(entries []channeltypes.StorageValue) (common.Hash, error) {
	if len(entries) == 0 {
		return common.Hash{}, errorsmod.Wrap(ErrInvalidProof, "state proof cannot be empty")
	}

	leaves := make([][]byte, len(entries))
	for i, entry := range entries {
		if i > 0 && bytes.Compare(entries[i-1].Key, entry.Key) >= 0 {
			return common.Hash{}, errorsmod.Wrapf(ErrInvalidProof, "entry %d is not sorted by key", i)
		}
		if entry.Value == nil {
			return common.Hash{}, errorsmod.Wrapf(ErrInvalidProof, "entry %d has no value", i)
		}

		leaves[i] = StateLeaf(entry.Key, entry.Value)
	}

	tree, err := merkle.NewTree(Keccak256{}).FromLeaves(leaves)
	if err != nil {
		return common.Hash{}, errorsmod.Wrap(ErrInvalidProof, err.Error())
	}

	return common.BytesToHash(tree.Root()), nil
}

// StateMachineClient verifies merkle proofs against attested state commitments.
type StateMachineClient struct{}

// VerifyMembership implements exported.StateMachineClient. Commitments are
// proven against the overlay root, or the state root when no overlay root was attested.
func (StateMachineClient) VerifyMembership(
	_ exported.Host,
	item channeltypes.RequestResponse,
	root clienttypes.StateCommitment,
	proof channeltypes.Proof,
) error {
	var membership MembershipProof
	if err := scalecodec.Unmarshal(proof.Proof, &membership); err != nil {
		return errorsmod.Wrapf(ErrInvalidProof, "failed to decode membership proof: %v", err)
	}

	commitments := item.Commitments()
	if len(membership.LeafIndices) != len(commitments) {
		return errorsmod.Wrapf(ErrInvalidProof, "expected %d leaf indices, got %d", len(commitments), len(membership.LeafIndices))
	}

	leaves := make([]merkle.Leaf, 0, len(commitments))
	seen := make(map[uint32]common.Hash)
	for i, commitment := range commitments {
		index := membership.LeafIndices[i]
		if index >= membership.LeafCount {
			return errorsmod.Wrapf(ErrInvalidProof, "leaf index %d out of range %d", index, membership.LeafCount)
		}
		// a repeated index may only carry the commitment already proven at it
		if prev, ok := seen[index]; ok {
			if prev != commitment {
				return errorsmod.Wrapf(ErrInvalidProof, "leaf index %d claimed by different commitments %s and %s", index, prev.Hex(), commitment.Hex())
			}
			continue
		}
		seen[index] = commitment

		leaves = append(leaves, merkle.Leaf{
			Hash:  commitment.Bytes(),
			Index: index,
		})
	}

	sort.Slice(leaves, func(i, j int) bool {
		return leaves[i].Index < leaves[j].Index
	})

	rootHash := root.StateRoot
	if root.OverlayRoot != nil {
		rootHash = *root.OverlayRoot
	}

	valid, err := merkle.NewProof(leaves, membership.ProofHashes, membership.LeafCount, Keccak256{}).Verify(rootHash.Bytes())
	if err != nil {
		return errorsmod.Wrap(ErrNotMember, err.Error())
	}
	if !valid {
		return errorsmod.Wrapf(ErrNotMember, "root %s", rootHash.Hex())
	}

	return nil
}

// StateTrieKey implements exported.StateMachineClient.
func (StateMachineClient) StateTrieKey(item channeltypes.RequestResponse) [][]byte {
	keys := make([][]byte, 0, item.Len())
	switch item := item.(type) {
	case channeltypes.Requests:
		for _, request := range item {
			keys = append(keys, host.RequestCommitmentKey(request.Commitment()))
		}
	case channeltypes.Responses:
		for _, response := range item {
			keys = append(keys, host.ResponseCommitmentKey(response.Commitment()))
		}
	}
	return keys
}

// ReceiptsStateTrieKey implements exported.StateMachineClient.
func (StateMachineClient) ReceiptsStateTrieKey(item channeltypes.RequestResponse) [][]byte {
	keys := make([][]byte, 0, item.Len())
	switch item := item.(type) {
	case channeltypes.Requests:
		for _, request := range item {
			keys = append(keys, host.RequestReceiptKey(request.Commitment()))
		}
	case channeltypes.Responses:
		for _, response := range item {
			keys = append(keys, host.ResponseReceiptKey(response.RequestCommitment()))
		}
	}
	return keys
}

// VerifyStateProof implements exported.StateMachineClient.
func (StateMachineClient) VerifyStateProof(
	_ exported.Host,
	keys [][]byte,
	root clienttypes.StateCommitment,
	proof channeltypes.Proof,
) (map[string][]byte, error) {
	var stateProof StateProof
	if err := scalecodec.Unmarshal(proof.Proof, &stateProof); err != nil {
		return nil, errorsmod.Wrapf(ErrInvalidProof, "failed to decode state proof: %v", err)
	}

	stateRoot, err := StateRoot(stateProof.Entries)
	if err != nil {
		return nil, err
	}

	if stateRoot != root.StateRoot {
		return nil, errorsmod.Wrapf(ErrStateRootMismatch, "expected %s, got %s", root.StateRoot.Hex(), stateRoot.Hex())
	}

	entries := make(map[string][]byte, len(stateProof.Entries))
	for _, entry := range stateProof.Entries {
		entries[string(entry.Key)] = entry.Value
	}

	values := make(map[string][]byte, len(keys))
	for _, key := range keys {
		values[string(key)] = entries[string(key)]
	}

	return values, nil
}
