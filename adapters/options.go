// The Licensed Work is (c) 2026 Crosslink
// SPDX-License-Identifier: LGPL-3.0-only

package adapters

import (
	"math/big"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"

	"github.com/crosslinktech/crosslink-relay/relay"
)

// OptionsKind selects the relay-options encoding a bridge understands.
type OptionsKind int

const (
	// OptionsRefund encodes (address refund).
	OptionsRefund OptionsKind = iota
	// OptionsRefundGas encodes (address refund, uint256 gasLimit).
	OptionsRefundGas
	// OptionsRefundChainGas encodes (address refund, uint256 refundChainId,
	// uint256 gasLimit).
	OptionsRefundChainGas
)

// Options are the decoded caller-supplied relay options. Refund defaults to
// the caller when left zero.
type Options struct {
	Refund        common.Address
	RefundChainID uint64
	GasLimit      uint64
}

var (
	refundArgs         abi.Arguments
	refundGasArgs      abi.Arguments
	refundChainGasArgs abi.Arguments
)

func init() {
	addressType, _ := abi.NewType("address", "", nil)
	uint256Type, _ := abi.NewType("uint256", "", nil)
	refundArgs = abi.Arguments{
		{Name: "refund", Type: addressType},
	}
	refundGasArgs = abi.Arguments{
		{Name: "refund", Type: addressType},
		{Name: "gasLimit", Type: uint256Type},
	}
	refundChainGasArgs = abi.Arguments{
		{Name: "refund", Type: addressType},
		{Name: "refundChainId", Type: uint256Type},
		{Name: "gasLimit", Type: uint256Type},
	}
}

func EncodeOptions(kind OptionsKind, o *Options) ([]byte, error) {
	switch kind {
	case OptionsRefund:
		return refundArgs.Pack(o.Refund)
	case OptionsRefundGas:
		return refundGasArgs.Pack(o.Refund, new(big.Int).SetUint64(o.GasLimit))
	case OptionsRefundChainGas:
		return refundChainGasArgs.Pack(o.Refund, new(big.Int).SetUint64(o.RefundChainID), new(big.Int).SetUint64(o.GasLimit))
	default:
		return nil, relay.ErrInvalidParams
	}
}

func DecodeOptions(kind OptionsKind, raw []byte) (*Options, error) {
	o := new(Options)
	if len(raw) == 0 {
		return o, nil
	}

	switch kind {
	case OptionsRefund:
		values, err := refundArgs.Unpack(raw)
		if err != nil {
			return nil, relay.ErrInvalidParams
		}
		o.Refund = values[0].(common.Address)
	case OptionsRefundGas:
		values, err := refundGasArgs.Unpack(raw)
		if err != nil {
			return nil, relay.ErrInvalidParams
		}
		o.Refund = values[0].(common.Address)
		o.GasLimit = values[1].(*big.Int).Uint64()
	case OptionsRefundChainGas:
		values, err := refundChainGasArgs.Unpack(raw)
		if err != nil {
			return nil, relay.ErrInvalidParams
		}
		o.Refund = values[0].(common.Address)
		o.RefundChainID = values[1].(*big.Int).Uint64()
		o.GasLimit = values[2].(*big.Int).Uint64()
	default:
		return nil, relay.ErrInvalidParams
	}

	return o, nil
}
