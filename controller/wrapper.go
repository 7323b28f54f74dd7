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

// PermitLedger is satisfied by token ledgers that support signature-based
// approvals.
type PermitLedger interface {
	Permit(owner, spender common.Address, amount *big.Int, deadline uint64, nowUnix uint64, sig []byte) error
}

// Wrapper is the permissioned gateway in front of controllers. It computes
// tiered and premium fees, pulls the gross amount, pays the fee to the
// treasury and hands the controller an approval for exactly the net amount.
// The fee charged at transfer time is always the fee Quote returned for the
// same inputs.
type Wrapper struct {
	mu sync.Mutex

	address  common.Address
	treasury common.Address
	native   ledger.Ledger
	acl      *access.Control

	controllers map[common.Address]*Controller
	// controller -> destination chain id -> tier schedule
	tiers map[common.Address]map[uint64]*fees.TierSchedule
	// controller -> flat fallback rate
	flatRates map[common.Address]uint64
	// destination chain id -> additive premium
	premiums map[uint64]uint64
}

func NewWrapper(address, treasury common.Address, native ledger.Ledger, acl *access.Control) *Wrapper {
	return &Wrapper{
		address:     address,
		treasury:    treasury,
		native:      native,
		acl:         acl,
		controllers: make(map[common.Address]*Controller),
		tiers:       make(map[common.Address]map[uint64]*fees.TierSchedule),
		flatRates:   make(map[common.Address]uint64),
		premiums:    make(map[uint64]uint64),
	}
}

func (w *Wrapper) Address() common.Address {
	return w.address
}

// Quote returns (fee, net) for amount sent through controller to
// destChainID. fee + net equals amount exactly and repeated calls with
// unchanged configuration return identical results.
func (w *Wrapper) Quote(controller common.Address, destChainID uint64, amount *big.Int) (*big.Int, *big.Int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	return w.quote(controller, destChainID, amount)
}

func (w *Wrapper) quote(controller common.Address, destChainID uint64, amount *big.Int) (*big.Int, *big.Int, error) {
	if _, ok := w.controllers[controller]; !ok {
		return nil, nil, relay.ErrInvalidParams
	}
	if amount == nil || amount.Sign() <= 0 {
		return nil, nil, relay.ErrInvalidParams
	}

	cfg := &fees.Config{
		Schedule:    w.tiers[controller][destChainID],
		FlatRateBps: w.flatRates[controller],
		PremiumBps:  w.premiums,
	}
	fee, net := cfg.Quote(destChainID, amount)
	return fee, net, nil
}

// TransferTo pulls the gross amount from the caller, skims the quoted fee to
// the treasury and forwards the net amount through the controller. If the
// controller fails after its value effect (an adapter announcement failure
// leaves the principal moved and the record resendable) the transfer id is
// returned alongside the error and the fee stays with the treasury; only a
// failure before the value effect unwinds the pull.
func (w *Wrapper) TransferTo(
	ctx context.Context,
	caller common.Address,
	controller common.Address,
	recipient common.Address,
	amount *big.Int,
	unwrap bool,
	destChainID uint64,
	adapterAddrs []common.Address,
	relayFees []*big.Int,
	options [][]byte,
) (common.Hash, error) {
	w.mu.Lock()

	fee, net, err := w.quote(controller, destChainID, amount)
	if err != nil {
		w.mu.Unlock()
		return common.Hash{}, err
	}
	ctrl := w.controllers[controller]
	treasury := w.treasury
	w.mu.Unlock()

	if err := w.process(ctrl, caller, amount, fee, net, treasury); err != nil {
		return common.Hash{}, err
	}

	id, err := ctrl.TransferToMulti(
		ctx, w.address, caller, recipient, net, unwrap, destChainID,
		adapterAddrs, relayFees, options,
	)
	if err != nil {
		// a zero id means the controller failed before moving value; a
		// non-zero id means the net was already burned or locked and the
		// recorded transfer can be re-announced under that id
		if id == (common.Hash{}) {
			w.unwind(ctrl, caller, amount, fee, treasury)
			return common.Hash{}, err
		}

		log.Warn().
			Str("controller", controller.Hex()).
			Str("transferId", id.Hex()).
			Msgf("Wrapped transfer dispatch failed, record is resendable: %v", err)
		return id, err
	}

	log.Info().
		Str("controller", controller.Hex()).
		Str("transferId", id.Hex()).
		Msgf("Wrapped transfer: gross %s, fee %s, net %s", amount, fee, net)
	return id, nil
}

// TransferToWithPermit consumes a signed approval before pulling funds.
// Permit success does not imply sufficient balance; the pull can still fail.
func (w *Wrapper) TransferToWithPermit(
	ctx context.Context,
	caller common.Address,
	controller common.Address,
	recipient common.Address,
	amount *big.Int,
	unwrap bool,
	destChainID uint64,
	adapterAddrs []common.Address,
	relayFees []*big.Int,
	options [][]byte,
	deadline uint64,
	nowUnix uint64,
	sig []byte,
) (common.Hash, error) {
	w.mu.Lock()
	ctrl, ok := w.controllers[controller]
	w.mu.Unlock()
	if !ok {
		return common.Hash{}, relay.ErrInvalidParams
	}

	permitter, ok := ctrl.Token().(PermitLedger)
	if !ok {
		return common.Hash{}, relay.ErrInvalidParams
	}
	if err := permitter.Permit(caller, w.address, amount, deadline, nowUnix, sig); err != nil {
		return common.Hash{}, err
	}

	return w.TransferTo(ctx, caller, controller, recipient, amount, unwrap, destChainID, adapterAddrs, relayFees, options)
}

// process pulls the gross amount and splits it. The balance delta of the
// pull must equal the requested amount exactly; fee-on-transfer tokens are
// rejected with no net balance change to the wrapper.
func (w *Wrapper) process(ctrl *Controller, caller common.Address, amount, fee, net *big.Int, treasury common.Address) error {
	token := ctrl.Token()

	before := token.BalanceOf(w.address)
	if err := token.TransferFrom(w.address, caller, w.address, amount); err != nil {
		return err
	}
	received := new(big.Int).Sub(token.BalanceOf(w.address), before)
	if received.Cmp(amount) != 0 {
		_ = token.Transfer(w.address, caller, received)
		return relay.ErrFeeOnTransferToken
	}

	if err := token.Transfer(w.address, treasury, fee); err != nil {
		return relay.ErrFeeTransferFailed
	}

	// approve exactly the net amount; the controller consumes it in full
	// within this call, leaving no stale allowance behind
	return token.Approve(w.address, ctrl.Address(), net)
}

// unwind returns the skimmed fee and the pulled principal after a controller
// failure that happened before the value effect and clears the controller's
// allowance.
func (w *Wrapper) unwind(ctrl *Controller, caller common.Address, amount, fee *big.Int, treasury common.Address) {
	token := ctrl.Token()
	_ = token.Approve(w.address, ctrl.Address(), new(big.Int))
	_ = token.Transfer(treasury, w.address, fee)
	_ = token.Transfer(w.address, caller, amount)
}

func (w *Wrapper) RegisterController(caller common.Address, ctrl *Controller) error {
	if err := w.acl.Require(caller, access.RoleManager); err != nil {
		return err
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	w.controllers[ctrl.Address()] = ctrl
	return nil
}

// SetControllerFeeTiers replaces the tier schedule for one controller and
// destination chain. A nil schedule falls back to the flat rate.
func (w *Wrapper) SetControllerFeeTiers(caller common.Address, controller common.Address, destChainID uint64, tiers []fees.Tier) error {
	if err := w.acl.Require(caller, access.RoleManager); err != nil {
		return err
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	if _, ok := w.controllers[controller]; !ok {
		return relay.ErrInvalidParams
	}

	if tiers == nil {
		delete(w.tiers[controller], destChainID)
		return nil
	}

	schedule, err := fees.NewTierSchedule(tiers)
	if err != nil {
		return err
	}

	byChain, ok := w.tiers[controller]
	if !ok {
		byChain = make(map[uint64]*fees.TierSchedule)
		w.tiers[controller] = byChain
	}
	byChain[destChainID] = schedule
	return nil
}

func (w *Wrapper) SetFeeRate(caller common.Address, controller common.Address, rateBps uint64) error {
	if err := w.acl.Require(caller, access.RoleManager); err != nil {
		return err
	}
	if rateBps > fees.MaxFeeRate {
		return relay.ErrInvalidParams
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	if _, ok := w.controllers[controller]; !ok {
		return relay.ErrInvalidParams
	}
	w.flatRates[controller] = rateBps
	return nil
}

func (w *Wrapper) SetDestChainPremiumRate(caller common.Address, destChainID uint64, rateBps uint64) error {
	if err := w.acl.Require(caller, access.RoleManager); err != nil {
		return err
	}
	if rateBps > fees.MaxFeeRate {
		return relay.ErrInvalidParams
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	w.premiums[destChainID] = rateBps
	return nil
}

func (w *Wrapper) SetTreasury(caller common.Address, treasury common.Address) error {
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
