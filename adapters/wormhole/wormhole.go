// The Licensed Work is (c) 2026 Crosslink
// SPDX-License-Identifier: LGPL-3.0-only

package wormhole

import (
	"context"
	"encoding/json"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"

	"github.com/crosslinktech/crosslink-relay/adapters"
	"github.com/crosslinktech/crosslink-relay/relay"
)

// RelayerClient is the standard Wormhole relayer surface. Wormhole chain ids
// are the bridge domain ids.
type RelayerClient interface {
	QuoteDeliveryPrice(ctx context.Context, targetChain uint16, gasLimit uint64) (*big.Int, error)
	SendPayloadToEvm(ctx context.Context, targetChain uint16, target common.Address, payload []byte, fee *big.Int, gasLimit uint64) (uint64, error)
}

// Evidence mirrors receiveWormholeMessages(payload, additionalMessages,
// sourceAddress, sourceChain, deliveryHash). The delivery hash doubles as the
// replay key; Wormhole itself does not reject duplicate deliveries.
type Evidence struct {
	Payload       []byte         `json:"payload"`
	SourceAddress common.Hash    `json:"sourceAddress"`
	SourceChain   uint16         `json:"sourceChain"`
	DeliveryHash  common.Hash    `json:"deliveryHash"`
	Caller        common.Address `json:"caller"`
}

func EncodeEvidence(e *Evidence) ([]byte, error) {
	return json.Marshal(e)
}

type Transport struct {
	relayer        RelayerClient
	relayerAddress common.Address
}

func NewTransport(relayer RelayerClient, relayerAddress common.Address) *Transport {
	return &Transport{
		relayer:        relayer,
		relayerAddress: relayerAddress,
	}
}

func (t *Transport) Name() string {
	return "wormhole"
}

func (t *Transport) Quote(ctx context.Context, destDomain uint64, payload []byte, gasLimit uint64) (*big.Int, error) {
	return t.relayer.QuoteDeliveryPrice(ctx, uint16(destDomain), gasLimit)
}

func (t *Transport) Send(ctx context.Context, destDomain uint64, destination common.Address, payload []byte, fee *big.Int, gasLimit uint64) (common.Hash, error) {
	sequence, err := t.relayer.SendPayloadToEvm(ctx, uint16(destDomain), destination, payload, fee, gasLimit)
	if err != nil {
		return common.Hash{}, err
	}

	return common.BigToHash(new(big.Int).SetUint64(sequence)), nil
}

// VerifyOrigin accepts signed deliveries performed by the configured relayer
// only; the relayer has already verified the guardian signatures.
func (t *Transport) VerifyOrigin(ctx context.Context, evidence []byte) (*adapters.Delivery, error) {
	e := new(Evidence)
	if err := json.Unmarshal(evidence, e); err != nil {
		return nil, relay.ErrInvalidParams
	}

	if e.Caller != t.relayerAddress {
		return nil, fmt.Errorf("caller %s is not the wormhole relayer: %w", e.Caller, relay.ErrUnauthorised)
	}

	return &adapters.Delivery{
		OriginDomain: uint64(e.SourceChain),
		OriginSender: common.BytesToAddress(e.SourceAddress.Bytes()[12:]),
		DeliveryID:   e.DeliveryHash,
		Payload:      e.Payload,
	}, nil
}
