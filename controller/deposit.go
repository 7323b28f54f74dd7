// The Licensed Work is (c) 2026 Crosslink
// SPDX-License-Identifier: LGPL-3.0-only

package controller

import (
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
)

// DepositAdapter exposes a controller as a DepositTarget so the relay wrapper
// can forward deposits through it. The holder account owns the deposited
// tokens and pays the relay fee; data carries the relay options for the
// configured adapter.
type DepositAdapter struct {
	controller *Controller
	holder     common.Address
	adapter    common.Address
	relayFee   *big.Int
}

func NewDepositAdapter(ctrl *Controller, holder, adapter common.Address, relayFee *big.Int) *DepositAdapter {
	return &DepositAdapter{
		controller: ctrl,
		holder:     holder,
		adapter:    adapter,
		relayFee:   relayFee,
	}
}

func (d *DepositAdapter) Deposit(ctx context.Context, recipient common.Address, amount *big.Int, destChainID uint64, data []byte) (common.Hash, error) {
	// the controller pulls via allowance; grant exactly the deposited amount
	if err := d.controller.Token().Approve(d.holder, d.controller.Address(), amount); err != nil {
		return common.Hash{}, err
	}

	return d.controller.TransferTo(
		ctx, d.holder, d.holder, recipient, amount, false, destChainID,
		d.adapter, d.relayFee, data,
	)
}
