// The Licensed Work is (c) 2026 Crosslink
// SPDX-License-Identifier: LGPL-3.0-only

package adapters

import (
	"context"
	"math/big"
	"sync"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/rs/zerolog/log"

	"github.com/crosslinktech/crosslink-relay/access"
	"github.com/crosslinktech/crosslink-relay/cache"
	"github.com/crosslinktech/crosslink-relay/fees"
	"github.com/crosslinktech/crosslink-relay/ledger"
	"github.com/crosslinktech/crosslink-relay/metrics"
	"github.com/crosslinktech/crosslink-relay/relay"
)

// Config holds the static parameters of one adapter instance.
type Config struct {
	Name         string
	Address      common.Address
	FeeBps       uint64
	MinimumGas   *big.Int
	FeeRecipient common.Address
	OptionsKind  OptionsKind
}

// Adapter normalizes one bridge transport into the uniform relay interface.
// Fee math, trust-map lookups and envelope handling live here; the transport
// supplies only the bridge-specific quote, send and verify calls.
type Adapter struct {
	mu sync.Mutex

	name        string
	address     common.Address
	transport   Transport
	optionsKind OptionsKind

	feeBps       uint64
	collector    *fees.Collector
	feeRecipient common.Address

	native     ledger.Ledger
	deliveries *cache.DeliveryCache
	acl        *access.Control
	metrics    *metrics.RelayMetrics

	paused bool

	// bridge domain id <-> chain id, always mutated together
	domainIDChains map[uint64]uint64
	chainIDDomains map[uint64]uint64
	// chain id -> only origin allowed to deliver for that chain
	trustedAdapters map[uint64]common.Address

	controllers map[common.Address]InboundHandler
}

func NewAdapter(
	cfg Config,
	transport Transport,
	native ledger.Ledger,
	deliveries *cache.DeliveryCache,
	acl *access.Control,
	m *metrics.RelayMetrics,
) (*Adapter, error) {
	if cfg.FeeBps > fees.MaxFeeRate {
		return nil, relay.ErrInvalidParams
	}

	return &Adapter{
		name:            cfg.Name,
		address:         cfg.Address,
		transport:       transport,
		optionsKind:     cfg.OptionsKind,
		feeBps:          cfg.FeeBps,
		collector:       fees.NewCollector(cfg.MinimumGas, cfg.FeeRecipient),
		feeRecipient:    cfg.FeeRecipient,
		native:          native,
		deliveries:      deliveries,
		acl:             acl,
		metrics:         m,
		domainIDChains:  make(map[uint64]uint64),
		chainIDDomains:  make(map[uint64]uint64),
		trustedAdapters: make(map[uint64]common.Address),
		controllers:     make(map[common.Address]InboundHandler),
	}, nil
}

func (a *Adapter) Name() string {
	return a.name
}

func (a *Adapter) Address() common.Address {
	return a.address
}

// RegisterController makes a local controller reachable as a delivery target.
func (a *Adapter) RegisterController(address common.Address, handler InboundHandler) {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.controllers[address] = handler
}

func (a *Adapter) IsChainIDSupported(chainID uint64) bool {
	a.mu.Lock()
	defer a.mu.Unlock()

	return a.chainIDDomains[chainID] != 0 && a.trustedAdapters[chainID] != (common.Address{})
}

// RelayMessage dispatches message to the trusted adapter on destChainID.
// The supplied value has to cover the transport's own delivery fee plus the
// protocol fee; any excess is refunded to the options refund address. The
// relay is at-least-once attempted, not guaranteed delivered.
func (a *Adapter) RelayMessage(
	ctx context.Context,
	caller common.Address,
	destChainID uint64,
	destination common.Address,
	value *big.Int,
	options []byte,
	message []byte,
) (common.Hash, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.paused {
		return common.Hash{}, relay.ErrPaused
	}
	if value == nil {
		value = new(big.Int)
	}

	domain := a.chainIDDomains[destChainID]
	trusted := a.trustedAdapters[destChainID]
	if domain == 0 || trusted == (common.Address{}) {
		return common.Hash{}, relay.ErrInvalidParams
	}

	opts, err := DecodeOptions(a.optionsKind, options)
	if err != nil {
		return common.Hash{}, err
	}
	if opts.Refund == (common.Address{}) {
		opts.Refund = caller
	}

	payload, err := relay.EncodeBridgedMessage(&relay.BridgedMessage{
		Message:          message,
		OriginController: caller,
		DestController:   destination,
	})
	if err != nil {
		return common.Hash{}, err
	}

	transportFee, err := a.transport.Quote(ctx, domain, payload, opts.GasLimit)
	if err != nil {
		return common.Hash{}, &relay.TransportError{Transport: a.name, Err: err}
	}

	protocolFee := fees.Calculate(transportFee, a.feeBps)
	required := new(big.Int).Add(transportFee, protocolFee)
	requiredTotal := new(big.Int).Add(required, a.collector.MinimumGas)

	journal := ledger.NewJournal(a.native)
	if err := journal.Transfer(caller, a.address, value); err != nil {
		journal.Rollback()
		return common.Hash{}, &relay.FeeTooLowError{Required: requiredTotal, Supplied: value}
	}

	net, err := a.collector.Deduct(journal, a.address, value)
	if err != nil {
		journal.Rollback()
		return common.Hash{}, err
	}

	if net.Cmp(required) < 0 {
		journal.Rollback()
		return common.Hash{}, &relay.FeeTooLowError{Required: requiredTotal, Supplied: value}
	}

	if err := journal.Transfer(a.address, a.feeRecipient, protocolFee); err != nil {
		journal.Rollback()
		return common.Hash{}, relay.ErrFeeTransferFailed
	}

	// the relay must not proceed if the refund cannot be guaranteed
	refund := new(big.Int).Sub(net, required)
	if err := journal.Transfer(a.address, opts.Refund, refund); err != nil {
		journal.Rollback()
		return common.Hash{}, relay.ErrFeeTransferFailed
	}

	id, err := a.transport.Send(ctx, domain, trusted, payload, transportFee, opts.GasLimit)
	if err != nil {
		journal.Rollback()
		return common.Hash{}, &relay.TransportError{Transport: a.name, Err: err}
	}

	// escrow still holds exactly the transport fee at this point
	_ = a.native.Transfer(a.address, transportFeeAccount(a.name), transportFee)

	a.metrics.TrackRelay(a.name, destChainID, requiredTotal)
	log.Debug().
		Str("adapter", a.name).
		Uint64("destChainId", destChainID).
		Str("transferId", id.Hex()).
		Msgf("Relayed message to %s", destination)
	return id, nil
}

// QuoteMessage returns the total value RelayMessage would require for the
// same inputs. It is read-only and uses the exact same fee formula.
func (a *Adapter) QuoteMessage(ctx context.Context, destChainID uint64, options []byte, message []byte) (*big.Int, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	domain := a.chainIDDomains[destChainID]
	trusted := a.trustedAdapters[destChainID]
	if domain == 0 || trusted == (common.Address{}) {
		return nil, relay.ErrInvalidParams
	}

	opts, err := DecodeOptions(a.optionsKind, options)
	if err != nil {
		return nil, err
	}

	payload, err := relay.EncodeBridgedMessage(&relay.BridgedMessage{Message: message})
	if err != nil {
		return nil, err
	}

	transportFee, err := a.transport.Quote(ctx, domain, payload, opts.GasLimit)
	if err != nil {
		return nil, &relay.TransportError{Transport: a.name, Err: err}
	}

	total := new(big.Int).Add(transportFee, fees.Calculate(transportFee, a.feeBps))
	return total.Add(total, a.collector.MinimumGas), nil
}

// ReceiveMessage verifies raw transport evidence and dispatches the decoded
// envelope to the destination controller. Two independent origin checks are
// mandatory: the transport's own authentication and the trusted-adapter map.
// A handler error aborts the delivery without recording it, so the transport
// may redeliver.
func (a *Adapter) ReceiveMessage(ctx context.Context, evidence []byte) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.paused {
		return relay.ErrPaused
	}

	d, err := a.transport.VerifyOrigin(ctx, evidence)
	if err != nil {
		return &relay.TransportError{Transport: a.name, Err: err}
	}

	originChainID := a.domainIDChains[d.OriginDomain]
	if originChainID == 0 {
		return relay.ErrInvalidParams
	}

	trusted := a.trustedAdapters[originChainID]
	if trusted == (common.Address{}) || d.OriginSender != trusted {
		return &relay.UntrustedOriginError{ChainID: originChainID, Origin: d.OriginSender}
	}

	if a.deliveries.Seen(d.DeliveryID) {
		a.metrics.TrackReplayRejected(a.name)
		return relay.ErrAlreadyDelivered
	}

	env, err := relay.DecodeBridgedMessage(d.Payload)
	if err != nil {
		return err
	}

	handler, ok := a.controllers[env.DestController]
	if !ok {
		return relay.ErrNotWhitelisted
	}

	if err := handler.ReceiveMessage(ctx, a.address, env.Message, originChainID, env.OriginController); err != nil {
		return err
	}

	if err := a.deliveries.Record(d.DeliveryID); err != nil {
		return err
	}

	a.metrics.TrackDelivery(a.name, originChainID)
	log.Debug().
		Str("adapter", a.name).
		Uint64("originChainId", originChainID).
		Str("deliveryId", d.DeliveryID.Hex()).
		Msg("Delivered inbound message")
	return nil
}

// SetDomainIDs overwrites both directions of the domain<->chain mapping in
// one call so they cannot drift apart.
func (a *Adapter) SetDomainIDs(caller common.Address, domainIDs []uint64, chainIDs []uint64) error {
	if err := a.acl.Require(caller, access.RoleAdmin); err != nil {
		return err
	}
	if len(domainIDs) != len(chainIDs) {
		return relay.ErrLengthMismatch
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	for i := range domainIDs {
		if domainIDs[i] == 0 || chainIDs[i] == 0 {
			return relay.ErrInvalidParams
		}
		a.domainIDChains[domainIDs[i]] = chainIDs[i]
		a.chainIDDomains[chainIDs[i]] = domainIDs[i]
	}
	return nil
}

// SetTrustedAdapter configures the only origin accepted for chainID. A zero
// address disables the chain.
func (a *Adapter) SetTrustedAdapter(caller common.Address, chainID uint64, adapter common.Address) error {
	if err := a.acl.Require(caller, access.RoleAdmin); err != nil {
		return err
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	a.trustedAdapters[chainID] = adapter
	return nil
}

func (a *Adapter) SetFeeRate(caller common.Address, feeBps uint64) error {
	if err := a.acl.Require(caller, access.RoleAdmin); err != nil {
		return err
	}
	if feeBps > fees.MaxFeeRate {
		return relay.ErrInvalidParams
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	a.feeBps = feeBps
	return nil
}

func (a *Adapter) SetTreasury(caller common.Address, treasury common.Address) error {
	if err := a.acl.Require(caller, access.RoleAdmin); err != nil {
		return err
	}
	if treasury == (common.Address{}) {
		return relay.ErrInvalidParams
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	a.feeRecipient = treasury
	a.collector.Recipient = treasury
	return nil
}

func (a *Adapter) Pause(caller common.Address) error {
	if err := a.acl.Require(caller, access.RoleAdmin); err != nil {
		return err
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	a.paused = true
	return nil
}

func (a *Adapter) Unpause(caller common.Address) error {
	if err := a.acl.Require(caller, access.RoleAdmin); err != nil {
		return err
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	a.paused = false
	return nil
}

// Rescue sweeps any stray value held by the adapter to the given address.
func (a *Adapter) Rescue(caller common.Address, to common.Address) error {
	if err := a.acl.Require(caller, access.RoleAdmin); err != nil {
		return err
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	balance := a.native.BalanceOf(a.address)
	if balance.Sign() == 0 {
		return nil
	}
	return a.native.Transfer(a.address, to, balance)
}

func transportFeeAccount(name string) common.Address {
	return common.BytesToAddress(crypto.Keccak256([]byte("transport:" + name))[12:])
}
