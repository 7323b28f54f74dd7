// The Licensed Work is (c) 2026 Crosslink
// SPDX-License-Identifier: LGPL-3.0-only

package connext

import (
	"context"
	"encoding/json"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"

	"github.com/crosslinktech/crosslink-relay/adapters"
	"github.com/crosslinktech/crosslink-relay/relay"
)

type ConnextClient interface {
	QuoteRelayerFee(ctx context.Context, destDomain uint32) (*big.Int, error)
	XCall(ctx context.Context, destDomain uint32, to common.Address, callData []byte, relayerFee *big.Int) (common.Hash, error)
}

// Evidence mirrors xReceive(transferId, amount, asset, originSender, origin,
// callData). Caller is the local endpoint that performed the delivery.
type Evidence struct {
	TransferID   common.Hash    `json:"transferId"`
	Amount       *big.Int       `json:"amount"`
	Asset        common.Address `json:"asset"`
	OriginSender common.Address `json:"originSender"`
	Origin       uint32         `json:"origin"`
	CallData     []byte         `json:"callData"`
	Caller       common.Address `json:"caller"`
}

func EncodeEvidence(e *Evidence) ([]byte, error) {
	return json.Marshal(e)
}

// Transport relays through Connext xcall. Only deliveries performed by the
// configured Connext endpoint are accepted.
type Transport struct {
	client   ConnextClient
	endpoint common.Address
}

func NewTransport(client ConnextClient, endpoint common.Address) *Transport {
	return &Transport{
		client:   client,
		endpoint: endpoint,
	}
}

func (t *Transport) Name() string {
	return "connext"
}

func (t *Transport) Quote(ctx context.Context, destDomain uint64, payload []byte, gasLimit uint64) (*big.Int, error) {
	return t.client.QuoteRelayerFee(ctx, uint32(destDomain))
}

func (t *Transport) Send(ctx context.Context, destDomain uint64, destination common.Address, payload []byte, fee *big.Int, gasLimit uint64) (common.Hash, error) {
	return t.client.XCall(ctx, uint32(destDomain), destination, payload, fee)
}

func (t *Transport) VerifyOrigin(ctx context.Context, evidence []byte) (*adapters.Delivery, error) {
	e := new(Evidence)
	if err := json.Unmarshal(evidence, e); err != nil {
		return nil, relay.ErrInvalidParams
	}

	if e.Caller != t.endpoint {
		return nil, fmt.Errorf("caller %s is not the connext endpoint: %w", e.Caller, relay.ErrUnauthorised)
	}

	return &adapters.Delivery{
		OriginDomain: uint64(e.Origin),
		OriginSender: e.OriginSender,
		DeliveryID:   e.TransferID,
		Payload:      e.CallData,
	}, nil
}
