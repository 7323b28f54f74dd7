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
	"github.com/crosslinktech/crosslink-relay/adapters"
	"github.com/crosslinktech/crosslink-relay/cache"
	"github.com/crosslinktech/crosslink-relay/ledger"
	"github.com/crosslinktech/crosslink-relay/relay"
	"github.com/crosslinktech/crosslink-relay/store"
)

type Mode int

const (
	// ModeMintBurn burns outbound principal and mints on receipt.
	ModeMintBurn Mode = iota
	// ModeLockRelease locks outbound principal in the controller's custody
	// and releases it on receipt.
	ModeLockRelease
)

// ChainLimit caps cumulative transferred value per counterparty chain. A nil
// cap means unlimited.
type ChainLimit struct {
	SendCap    *big.Int
	ReceiveCap *big.Int

	sent     *big.Int
	received *big.Int
}

type adapterEntry struct {
	adapter *adapters.Adapter
	enabled bool
}

// Controller owns a token's cross-chain supply and issues transfer
// instructions through whitelisted adapters. The value effect of a transfer
// happens exactly once no matter how many adapters announce it.
type Controller struct {
	mu sync.Mutex

	address common.Address
	chainID uint64
	symbol  string
	mode    Mode

	token  ledger.Ledger
	native ledger.Ledger

	adapters          map[common.Address]*adapterEntry
	remoteControllers map[uint64]common.Address
	limits            map[uint64]*ChainLimit

	transfers *store.TransferStore
	delivered *cache.DeliveryCache
	nonce     uint64

	acl    *access.Control
	paused bool
}

func NewController(
	address common.Address,
	chainID uint64,
	symbol string,
	mode Mode,
	token ledger.Ledger,
	native ledger.Ledger,
	transfers *store.TransferStore,
	acl *access.Control,
) *Controller {
	return &Controller{
		address:           address,
		chainID:           chainID,
		symbol:            symbol,
		mode:              mode,
		token:             token,
		native:            native,
		adapters:          make(map[common.Address]*adapterEntry),
		remoteControllers: make(map[uint64]common.Address),
		limits:            make(map[uint64]*ChainLimit),
		transfers:         transfers,
		delivered:         cache.NewDeliveryCache(address, transfers),
		nonce:             transfers.GetNonce(address),
		acl:               acl,
	}
}

func (c *Controller) Address() common.Address {
	return c.address
}

func (c *Controller) Token() ledger.Ledger {
	return c.token
}

func (c *Controller) Symbol() string {
	return c.symbol
}

// TransferTo is the single-adapter variant of TransferToMulti.
func (c *Controller) TransferTo(
	ctx context.Context,
	tokenFrom common.Address,
	feePayer common.Address,
	recipient common.Address,
	amount *big.Int,
	unwrap bool,
	destChainID uint64,
	adapter common.Address,
	relayFee *big.Int,
	options []byte,
) (common.Hash, error) {
	return c.TransferToMulti(
		ctx, tokenFrom, feePayer, recipient, amount, unwrap, destChainID,
		[]common.Address{adapter}, []*big.Int{relayFee}, [][]byte{options},
	)
}

// TransferToMulti moves amount exactly once and announces the transfer
// through every listed adapter (N-of-N redundant send). Adapter announcement
// failures after the value effect do not undo it; the recorded transfer can
// be re-announced with ResendTransfer.
func (c *Controller) TransferToMulti(
	ctx context.Context,
	tokenFrom common.Address,
	feePayer common.Address,
	recipient common.Address,
	amount *big.Int,
	unwrap bool,
	destChainID uint64,
	adapterAddrs []common.Address,
	relayFees []*big.Int,
	options [][]byte,
) (common.Hash, error) {
	c.mu.Lock()

	if c.paused {
		c.mu.Unlock()
		return common.Hash{}, relay.ErrPaused
	}
	if amount == nil || amount.Sign() <= 0 || recipient == (common.Address{}) {
		c.mu.Unlock()
		return common.Hash{}, relay.ErrInvalidParams
	}

	selected, err := c.selectAdapters(adapterAddrs, relayFees, options)
	if err != nil {
		c.mu.Unlock()
		return common.Hash{}, err
	}

	remote := c.remoteControllers[destChainID]
	if remote == (common.Address{}) {
		c.mu.Unlock()
		return common.Hash{}, relay.ErrInvalidParams
	}

	limit := c.limits[destChainID]
	if limit != nil && limit.SendCap != nil {
		if new(big.Int).Add(limit.sent, amount).Cmp(limit.SendCap) > 0 {
			c.mu.Unlock()
			return common.Hash{}, relay.ErrLimitExceeded
		}
	}

	// native fees first so a failed principal pull leaves nothing to undo
	// beyond the journal
	journal := ledger.NewJournal(c.native)
	if err := journal.Transfer(feePayer, c.address, totalFees(relayFees)); err != nil {
		c.mu.Unlock()
		return common.Hash{}, relay.ErrFeeTransferFailed
	}

	if err := c.token.TransferFrom(c.address, tokenFrom, c.address, amount); err != nil {
		journal.Rollback()
		c.mu.Unlock()
		return common.Hash{}, err
	}
	if c.mode == ModeMintBurn {
		// cannot fail, the pull just credited the controller
		_ = c.token.Burn(c.address, amount)
	}

	if limit != nil {
		if limit.sent == nil {
			limit.sent = new(big.Int)
		}
		limit.sent.Add(limit.sent, amount)
	}

	// the nonce feeds the transfer id and must be durable; a restart that
	// reset it would reissue an already-used id
	c.nonce++
	if err := c.transfers.SaveNonce(c.address, c.nonce); err != nil {
		c.nonce--
		journal.Rollback()
		c.undoPrincipal(tokenFrom, amount, limit)
		c.mu.Unlock()
		return common.Hash{}, err
	}
	transferID := relay.TransferID(c.chainID, destChainID, c.address, recipient, amount, c.nonce)

	record := &store.TransferRecord{
		TransferID:  transferID,
		Recipient:   recipient,
		Amount:      new(big.Int).Set(amount),
		DestChainID: destChainID,
		Unwrap:      unwrap,
	}
	if err := c.transfers.SaveTransfer(c.address, record); err != nil {
		// the record backs resends; without it the transfer must not move
		journal.Rollback()
		c.undoPrincipal(tokenFrom, amount, limit)
		c.mu.Unlock()
		return common.Hash{}, err
	}

	c.mu.Unlock()

	// dispatch outside the lock: adapters take their own locks and inbound
	// deliveries may call back into this controller concurrently
	if err := c.announce(ctx, record, remote, selected, relayFees, options, feePayer); err != nil {
		return transferID, err
	}

	log.Info().
		Str("transferId", transferID.Hex()).
		Uint64("destChainId", destChainID).
		Str("token", c.symbol).
		Msgf("Dispatched transfer of %s to %s", amount, recipient)
	return transferID, nil
}

// ResendTransfer is the single-adapter variant of ResendTransferMulti.
func (c *Controller) ResendTransfer(
	ctx context.Context,
	feePayer common.Address,
	transferID common.Hash,
	adapter common.Address,
	relayFee *big.Int,
	options []byte,
) error {
	return c.ResendTransferMulti(
		ctx, feePayer, transferID,
		[]common.Address{adapter}, []*big.Int{relayFee}, [][]byte{options},
	)
}

// ResendTransferMulti re-announces a recorded transfer through a new adapter
// set. Principal is never touched again; only relay fees are paid. The
// announced values are always the recorded originals, so a fabricated
// transfer id cannot mint an unbacked announcement.
func (c *Controller) ResendTransferMulti(
	ctx context.Context,
	feePayer common.Address,
	transferID common.Hash,
	adapterAddrs []common.Address,
	relayFees []*big.Int,
	options [][]byte,
) error {
	c.mu.Lock()

	if c.paused {
		c.mu.Unlock()
		return relay.ErrPaused
	}

	selected, err := c.selectAdapters(adapterAddrs, relayFees, options)
	if err != nil {
		c.mu.Unlock()
		return err
	}

	record, err := c.transfers.GetTransfer(c.address, transferID)
	if err != nil {
		c.mu.Unlock()
		return err
	}

	remote := c.remoteControllers[record.DestChainID]
	if remote == (common.Address{}) {
		c.mu.Unlock()
		return relay.ErrInvalidParams
	}

	journal := ledger.NewJournal(c.native)
	if err := journal.Transfer(feePayer, c.address, totalFees(relayFees)); err != nil {
		c.mu.Unlock()
		return relay.ErrFeeTransferFailed
	}

	c.mu.Unlock()

	return c.announce(ctx, record, remote, selected, relayFees, options, feePayer)
}

// ReceiveMessage credits a transfer delivered by a whitelisted adapter. A
// transfer id that was already credited, announced through another adapter,
// is detected and ignored rather than double-credited.
func (c *Controller) ReceiveMessage(
	ctx context.Context,
	caller common.Address,
	msg []byte,
	originChainID uint64,
	originController common.Address,
) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.paused {
		return relay.ErrPaused
	}

	entry, ok := c.adapters[caller]
	if !ok || !entry.enabled {
		return relay.ErrNotWhitelisted
	}

	remote := c.remoteControllers[originChainID]
	if remote == (common.Address{}) || remote != originController {
		return &relay.UntrustedOriginError{ChainID: originChainID, Origin: originController}
	}

	p, err := relay.DecodeTransferPayload(msg)
	if err != nil {
		return err
	}

	if c.delivered.Seen(p.TransferID) {
		log.Debug().
			Str("transferId", p.TransferID.Hex()).
			Msg("Ignoring duplicate transfer delivery")
		return nil
	}

	limit := c.limits[originChainID]
	if limit != nil && limit.ReceiveCap != nil {
		received := limit.received
		if received == nil {
			received = new(big.Int)
		}
		if new(big.Int).Add(received, p.Amount).Cmp(limit.ReceiveCap) > 0 {
			return relay.ErrLimitExceeded
		}
	}

	// mark the delivery before crediting: a transport redelivery racing a
	// failed credit must hit the duplicate guard, never a second credit
	if err := c.delivered.Record(p.TransferID); err != nil {
		return err
	}

	switch c.mode {
	case ModeMintBurn:
		if err := c.token.Mint(p.Recipient, p.Amount); err != nil {
			return c.revertDelivery(p.TransferID, err)
		}
	case ModeLockRelease:
		if err := c.token.Transfer(c.address, p.Recipient, p.Amount); err != nil {
			return c.revertDelivery(p.TransferID, err)
		}
	}

	if limit != nil {
		if limit.received == nil {
			limit.received = new(big.Int)
		}
		limit.received.Add(limit.received, p.Amount)
	}

	log.Info().
		Str("transferId", p.TransferID.Hex()).
		Uint64("originChainId", originChainID).
		Str("token", c.symbol).
		Msgf("Credited transfer of %s to %s", p.Amount, p.Recipient)
	return nil
}

func (c *Controller) SetAdapter(caller common.Address, adapter *adapters.Adapter, enabled bool) error {
	if err := c.acl.Require(caller, access.RoleAdmin); err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.adapters[adapter.Address()] = &adapterEntry{adapter: adapter, enabled: enabled}
	return nil
}

func (c *Controller) SetRemoteController(caller common.Address, chainID uint64, remote common.Address) error {
	if err := c.acl.Require(caller, access.RoleAdmin); err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.remoteControllers[chainID] = remote
	return nil
}

func (c *Controller) SetLimits(caller common.Address, chainID uint64, sendCap, receiveCap *big.Int) error {
	if err := c.acl.Require(caller, access.RoleAdmin); err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	limit, ok := c.limits[chainID]
	if !ok {
		limit = &ChainLimit{sent: new(big.Int), received: new(big.Int)}
		c.limits[chainID] = limit
	}
	limit.SendCap = sendCap
	limit.ReceiveCap = receiveCap
	return nil
}

func (c *Controller) Pause(caller common.Address) error {
	if err := c.acl.Require(caller, access.RoleAdmin); err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.paused = true
	return nil
}

func (c *Controller) Unpause(caller common.Address) error {
	if err := c.acl.Require(caller, access.RoleAdmin); err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.paused = false
	return nil
}

// RescueTokens sweeps stray token balance beyond locked custody to the given
// address. Lock-mode custody is not rescuable.
func (c *Controller) RescueTokens(caller common.Address, to common.Address) error {
	if err := c.acl.Require(caller, access.RoleAdmin); err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.mode == ModeLockRelease {
		return relay.ErrInvalidParams
	}

	balance := c.token.BalanceOf(c.address)
	if balance.Sign() == 0 {
		return nil
	}
	return c.token.Transfer(c.address, to, balance)
}

func (c *Controller) selectAdapters(adapterAddrs []common.Address, relayFees []*big.Int, options [][]byte) ([]*adapters.Adapter, error) {
	if len(adapterAddrs) == 0 {
		return nil, relay.ErrInvalidParams
	}
	if len(adapterAddrs) != len(relayFees) || len(adapterAddrs) != len(options) {
		return nil, relay.ErrLengthMismatch
	}

	selected := make([]*adapters.Adapter, 0, len(adapterAddrs))
	for _, addr := range adapterAddrs {
		entry, ok := c.adapters[addr]
		if !ok || !entry.enabled {
			return nil, relay.ErrNotWhitelisted
		}
		selected = append(selected, entry.adapter)
	}
	return selected, nil
}

// announce relays the recorded transfer through each adapter. Fees not
// consumed by a successful relay are returned to the fee payer.
func (c *Controller) announce(
	ctx context.Context,
	record *store.TransferRecord,
	remote common.Address,
	selected []*adapters.Adapter,
	relayFees []*big.Int,
	options [][]byte,
	feePayer common.Address,
) error {
	payload, err := relay.EncodeTransferPayload(&relay.TransferPayload{
		TransferID: record.TransferID,
		Recipient:  record.Recipient,
		Amount:     record.Amount,
		Unwrap:     record.Unwrap,
	})
	if err != nil {
		return err
	}

	for i, a := range selected {
		_, err := a.RelayMessage(ctx, c.address, record.DestChainID, remote, relayFees[i], options[i], payload)
		if err != nil {
			// a failed adapter rolled back its own charge, so its fee and
			// every unattempted fee are still held here
			remaining := totalFees(relayFees[i:])
			if remaining.Sign() > 0 {
				_ = c.native.Transfer(c.address, feePayer, remaining)
			}
			return err
		}
	}
	return nil
}

// revertDelivery clears the staged delivery marker after a failed credit so
// the transport can redeliver. A marker stuck by a failed clear blocks
// redelivery but cannot double-credit.
func (c *Controller) revertDelivery(id common.Hash, err error) error {
	if ferr := c.delivered.Forget(id); ferr != nil {
		log.Error().
			Str("transferId", id.Hex()).
			Msgf("Failed clearing delivery marker after failed credit: %v", ferr)
	}
	return err
}

func (c *Controller) undoPrincipal(tokenFrom common.Address, amount *big.Int, limit *ChainLimit) {
	if c.mode == ModeMintBurn {
		_ = c.token.Mint(c.address, amount)
	}
	_ = c.token.Transfer(c.address, tokenFrom, amount)
	if limit != nil && limit.sent != nil {
		limit.sent.Sub(limit.sent, amount)
	}
}

func totalFees(fees []*big.Int) *big.Int {
	total := new(big.Int)
	for _, f := range fees {
		if f != nil {
			total.Add(total, f)
		}
	}
	return total
}
