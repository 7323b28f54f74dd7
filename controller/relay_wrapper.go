// The Licensed Work is (c) 2026 Crosslink
// SPDX-License-Identifier: LGPL-3.0-only

package controller

import (
	"context"
	"math/big"
	"sync"

	"github.com/ethereum/go-ethereum/common"
	"github.com/rs/zerolog/log"

	"github.com/crosslinktech/crosslink-relay/access"
	"github.com/crosslinktech/crosslink-relay/fees"
	"github.com/crosslinktech/crosslink-relay/ledger"
	"github.com/crosslinktech/crosslink-relay/relay"
)

// DepositTarget is a third-party bridge deposit entry point, an Across-style
// spoke pool or similar. The wrapper only fronts it; routing and settlement
// are the target's concern.
type DepositTarget interface {
	Deposit(ctx context.Context, recipient common.Address, amount *big.Int, destChainID uint64, data []byte) (common.Hash, error)
}

// RelayWrapper is the flat-skim special case of the controller wrapper: one
// deposit target, one flat rate, fee to treasury, remainder deposited.
type RelayWrapper struct {
	mu sync.Mutex

	address  common.Address
	treasury common.Address
	token    ledger.Ledger
	target   DepositTarget
	rateBps  uint64
	acl      *access.Control
}

func NewRelayWrapper(address, treasury common.Address, token ledger.Ledger, target DepositTarget, rateBps uint64, acl *access.Control) (*RelayWrapper, error) {
	if rateBps > fees.MaxFeeRate {
		return nil, relay.ErrInvalidParams
	}

	return &RelayWrapper{
		address:  address,
		treasury: treasury,
		token:    token,
		target:   target,
		rateBps:  rateBps,
		acl:      acl,
	}, nil
}

// Quote returns (fee, net) for a deposit of amount. fee + net == amount.
func (w *RelayWrapper) Quote(amount *big.Int) (*big.Int, *big.Int, error) {
	if amount == nil || amount.Sign() <= 0 {
		return nil, nil, relay.ErrInvalidParams
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	fee := fees.Calculate(amount, w.rateBps)
	return fee, new(big.Int).Sub(amount, fee), nil
}

// Deposit pulls amount from the caller, skims the flat fee to the treasury
// and forwards the net amount into the deposit target. Fee-on-transfer
// tokens are returned whole and rejected.
func (w *RelayWrapper) Deposit(ctx context.Context, caller, recipient common.Address, amount *big.Int, destChainID uint64, data []byte) (common.Hash, error) {
	fee, net, err := w.Quote(amount)
	if err != nil {
		return common.Hash{}, err
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	before := w.token.BalanceOf(w.address)
	if err := w.token.TransferFrom(w.address, caller, w.address, amount); err != nil {
		return common.Hash{}, err
	}
	received := new(big.Int).Sub(w.token.BalanceOf(w.address), before)
	if received.Cmp(amount) != 0 {
		_ = w.token.Transfer(w.address, caller, received)
		return common.Hash{}, relay.ErrFeeOnTransferToken
	}

	if err := w.token.Transfer(w.address, w.treasury, fee); err != nil {
		return common.Hash{}, relay.ErrFeeTransferFailed
	}

	id, err := w.target.Deposit(ctx, recipient, net, destChainID, data)
	if err != nil {
		// unwind the skim and the pull, the deposit never happened
		_ = w.token.Transfer(w.treasury, w.address, fee)
		_ = w.token.Transfer(w.address, caller, amount)
		return common.Hash{}, err
	}

	log.Info().
		Str("depositId", id.Hex()).
		Uint64("destChainId", destChainID).
		Msgf("Deposited %s for %s, fee %s", net, recipient.Hex(), fee)
	return id, nil
}

func (w *RelayWrapper) SetFeeRate(caller common.Address, rateBps uint64) error {
	if err := w.acl.Require(caller, access.RoleManager); err != nil {
		return err
	}
	if rateBps > fees.MaxFeeRate {
		return relay.ErrInvalidParams
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	w.rateBps = rateBps
	return nil
}

func (w *RelayWrapper) SetTreasury(caller common.Address, treasury common.Address) error {
	if err := w.acl.Require(caller, access.RoleAdmin); err != nil {
		return err
	}
	if treasury == (common.Address{}) {
		return relay.ErrInvalidParams
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	w.treasury = treasury
	return nil
}
