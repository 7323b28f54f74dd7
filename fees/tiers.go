// The Licensed Work is (c) 2026 Crosslink
// SPDX-License-Identifier: LGPL-3.0-only

package fees

import (
	"math/big"

	"github.com/crosslinktech/crosslink-relay/relay"
)

// MaxTiers limits how many tiers a schedule may hold.
const MaxTiers = 3

// Tier taxes the slice of an amount between the previous tier's threshold
// and Threshold at RateBps. The last active tier consumes the remainder.
type Tier struct {
	Threshold *big.Int
	RateBps   uint64
}

// TierSchedule is a piecewise fee schedule with strictly ascending
// thresholds.
type TierSchedule struct {
	Tiers []Tier
}

// NewTierSchedule validates and builds a schedule. Thresholds must be
// strictly ascending and every rate must stay below MaxFeeRate.
func NewTierSchedule(tiers []Tier) (*TierSchedule, error) {
	if len(tiers) == 0 || len(tiers) > MaxTiers {
		return nil, relay.ErrInvalidParams
	}

	var prev *big.Int
	for _, t := range tiers {
		if t.Threshold == nil || t.Threshold.Sign() <= 0 {
			return nil, relay.ErrInvalidParams
		}
		if prev != nil && t.Threshold.Cmp(prev) <= 0 {
			return nil, relay.ErrInvalidParams
		}
		if t.RateBps > MaxFeeRate {
			return nil, relay.ErrInvalidParams
		}
		prev = t.Threshold
	}

	return &TierSchedule{Tiers: tiers}, nil
}

// Quote walks the tiers in ascending threshold order and accumulates the fee
// for amount. Amounts above the last threshold are taxed at the last tier's
// rate.
func (s *TierSchedule) Quote(amount *big.Int) *big.Int {
	fee := new(big.Int)
	remaining := new(big.Int).Set(amount)
	prevThreshold := new(big.Int)

	for i, t := range s.Tiers {
		if remaining.Sign() == 0 {
			break
		}

		slice := new(big.Int).Set(remaining)
		if i < len(s.Tiers)-1 {
			width := new(big.Int).Sub(t.Threshold, prevThreshold)
			if slice.Cmp(width) > 0 {
				slice.Set(width)
			}
		}

		fee.Add(fee, Calculate(slice, t.RateBps))
		remaining.Sub(remaining, slice)
		prevThreshold = t.Threshold
	}

	return fee
}

// Config resolves the fee for one controller and destination chain. The
// tiered schedule wins over the flat rate when configured; the destination
// premium is additive on top of either branch.
type Config struct {
	Schedule    *TierSchedule
	FlatRateBps uint64
	// destination chain id -> premium bps
	PremiumBps map[uint64]uint64
}

// Quote returns (fee, net) for amount sent to destChainID. fee + net always
// equals amount exactly.
func (c *Config) Quote(destChainID uint64, amount *big.Int) (*big.Int, *big.Int) {
	var fee *big.Int
	if c.Schedule != nil && len(c.Schedule.Tiers) > 0 {
		fee = c.Schedule.Quote(amount)
	} else {
		fee = Calculate(amount, c.FlatRateBps)
	}

	if premium, ok := c.PremiumBps[destChainID]; ok {
		fee.Add(fee, Calculate(amount, premium))
	}

	net := new(big.Int).Sub(amount, fee)
	return fee, net
}
