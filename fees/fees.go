// The Licensed Work is (c) 2026 Crosslink
// SPDX-License-Identifier: LGPL-3.0-only

package fees

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"

	"github.com/crosslinktech/crosslink-relay/ledger"
	"github.com/crosslinktech/crosslink-relay/relay"
)

const (
	// FeeDecimals is the denominator of every proportional fee in the
	// system. One percent equals 1000 units.
	FeeDecimals = 100_000
	// MaxFeeRate caps any configurable proportional rate at 10%.
	MaxFeeRate = 10_000
)

// Calculate returns amount * rate / FeeDecimals. Integer truncation always
// favors the payer.
func Calculate(amount *big.Int, rate uint64) *big.Int {
	fee := new(big.Int).Mul(amount, new(big.Int).SetUint64(rate))
	return fee.Div(fee, big.NewInt(FeeDecimals))
}

// Collector charges a flat minimum fee off the top of a supplied value.
type Collector struct {
	MinimumGas *big.Int
	Recipient  common.Address
}

func NewCollector(minimumGas *big.Int, recipient common.Address) *Collector {
	if minimumGas == nil {
		minimumGas = new(big.Int)
	}
	return &Collector{
		MinimumGas: minimumGas,
		Recipient:  recipient,
	}
}

// Deduct transfers exactly MinimumGas from payer to Recipient and returns
// the remaining value. A zero MinimumGas is a no-op. A failed payout aborts
// the whole operation.
func (c *Collector) Deduct(l ledger.Transferor, payer common.Address, gross *big.Int) (*big.Int, error) {
	if c.MinimumGas == nil || c.MinimumGas.Sign() == 0 {
		return new(big.Int).Set(gross), nil
	}

	if gross.Cmp(c.MinimumGas) < 0 {
		return nil, &relay.FeeTooLowError{Required: new(big.Int).Set(c.MinimumGas), Supplied: new(big.Int).Set(gross)}
	}

	if err := l.Transfer(payer, c.Recipient, c.MinimumGas); err != nil {
		return nil, relay.ErrFeeTransferFailed
	}

	return new(big.Int).Sub(gross, c.MinimumGas), nil
}
