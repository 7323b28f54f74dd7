package relay

import (
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
)

// TransferPayload is the controller-level message carried inside a
// BridgedMessage for asset transfers.
type TransferPayload struct {
	TransferID common.Hash
	Recipient  common.Address
	Amount     *big.Int
	Unwrap     bool
}

var transferArgs abi.Arguments

func init() {
	bytes32Type, _ := abi.NewType("bytes32", "", nil)
	addressType, _ := abi.NewType("address", "", nil)
	uint256Type, _ := abi.NewType("uint256", "", nil)
	boolType, _ := abi.NewType("bool", "", nil)
	transferArgs = abi.Arguments{
		{Name: "transferId", Type: bytes32Type},
		{Name: "recipient", Type: addressType},
		{Name: "amount", Type: uint256Type},
		{Name: "unwrap", Type: boolType},
	}
}

func EncodeTransferPayload(p *TransferPayload) ([]byte, error) {
	return transferArgs.Pack([32]byte(p.TransferID), p.Recipient, p.Amount, p.Unwrap)
}

func DecodeTransferPayload(payload []byte) (*TransferPayload, error) {
	values, err := transferArgs.Unpack(payload)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidParams, err)
	}

	p := new(TransferPayload)
	p.TransferID = common.Hash(values[0].([32]byte))
	p.Recipient = values[1].(common.Address)
	p.Amount = values[2].(*big.Int)
	p.Unwrap = values[3].(bool)
	return p, nil
}

// TransferID derives the unique id for one logical cross-chain transfer.
// Resend attempts reuse the id of the original transfer.
func TransferID(
	originChainID uint64,
	destChainID uint64,
	originController common.Address,
	recipient common.Address,
	amount *big.Int,
	nonce uint64,
) common.Hash {
	uint64Type, _ := abi.NewType("uint64", "", nil)
	addressType, _ := abi.NewType("address", "", nil)
	uint256Type, _ := abi.NewType("uint256", "", nil)
	args := abi.Arguments{
		{Type: uint64Type},
		{Type: uint64Type},
		{Type: addressType},
		{Type: addressType},
		{Type: uint256Type},
		{Type: uint64Type},
	}
	b, _ := args.Pack(originChainID, destChainID, originController, recipient, amount, nonce)
	return crypto.Keccak256Hash(b)
}
