// The Licensed Work is (c) 2026 Crosslink
// SPDX-License-Identifier: LGPL-3.0-only

package optimism

import (
	"context"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"

	"github.com/crosslinktech/crosslink-relay/adapters"
	"github.com/crosslinktech/crosslink-relay/relay"
)

// MessengerClient wraps the Optimism cross-domain messenger pair. Delivery
// costs are covered by the deposit's gas, so there is no transport fee.
type MessengerClient interface {
	SendMessage(ctx context.Context, target common.Address, message []byte, gasLimit uint32) error
	XDomainMessageSender(ctx context.Context) (common.Address, error)
}

type Evidence struct {
	Nonce    uint64         `json:"nonce"`
	CallData []byte         `json:"callData"`
	Caller   common.Address `json:"caller"`
}

func EncodeEvidence(e *Evidence) ([]byte, error) {
	return json.Marshal(e)
}

// Transport connects exactly one L1/L2 pair; peerDomain identifies the other
// side of the messenger.
type Transport struct {
	messenger        MessengerClient
	messengerAddress common.Address
	peerDomain       uint64
}

func NewTransport(messenger MessengerClient, messengerAddress common.Address, peerDomain uint64) *Transport {
	return &Transport{
		messenger:        messenger,
		messengerAddress: messengerAddress,
		peerDomain:       peerDomain,
	}
}

func (t *Transport) Name() string {
	return "optimism"
}

func (t *Transport) Quote(ctx context.Context, destDomain uint64, payload []byte, gasLimit uint64) (*big.Int, error) {
	if destDomain != t.peerDomain {
		return nil, relay.ErrInvalidParams
	}
	return new(big.Int), nil
}

// Send produces no transfer id; callers should ignore the returned value.
func (t *Transport) Send(ctx context.Context, destDomain uint64, destination common.Address, payload []byte, fee *big.Int, gasLimit uint64) (common.Hash, error) {
	if destDomain != t.peerDomain {
		return common.Hash{}, relay.ErrInvalidParams
	}
	// nolint:gosec
	return common.Hash{}, t.messenger.SendMessage(ctx, destination, payload, uint32(gasLimit))
}

// VerifyOrigin requires the call to come from the messenger and resolves the
// true origin via xDomainMessageSender, the messenger's own authentication.
func (t *Transport) VerifyOrigin(ctx context.Context, evidence []byte) (*adapters.Delivery, error) {
	e := new(Evidence)
	if err := json.Unmarshal(evidence, e); err != nil {
		return nil, relay.ErrInvalidParams
	}

	if e.Caller != t.messengerAddress {
		return nil, fmt.Errorf("caller %s is not the messenger: %w", e.Caller, relay.ErrUnauthorised)
	}

	sender, err := t.messenger.XDomainMessageSender(ctx)
	if err != nil {
		return nil, err
	}

	nonce := make([]byte, 8)
	binary.BigEndian.PutUint64(nonce, e.Nonce)
	return &adapters.Delivery{
		OriginDomain: t.peerDomain,
		OriginSender: sender,
		DeliveryID:   crypto.Keccak256Hash(nonce, e.CallData),
		Payload:      e.CallData,
	}, nil
}
