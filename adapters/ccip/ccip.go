// The Licensed Work is (c) 2026 Crosslink
// SPDX-License-Identifier: LGPL-3.0-only

package ccip

import (
	"context"
	"encoding/json"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"

	"github.com/crosslinktech/crosslink-relay/adapters"
	"github.com/crosslinktech/crosslink-relay/relay"
)

// RouterClient is the CCIP router surface. Chain selectors are the bridge
// domain ids.
type RouterClient interface {
	GetFee(ctx context.Context, destSelector uint64, receiver common.Address, data []byte, gasLimit uint64) (*big.Int, error)
	CCIPSend(ctx context.Context, destSelector uint64, receiver common.Address, data []byte, fee *big.Int, gasLimit uint64) (common.Hash, error)
	IsOffRamp(ctx context.Context, sourceSelector uint64, offRamp common.Address) (bool, error)
}

// Evidence mirrors the Any2EVMMessage delivered by a CCIP off-ramp, plus the
// off-ramp itself so it can be validated against the router.
type Evidence struct {
	MessageID           common.Hash    `json:"messageId"`
	SourceChainSelector uint64         `json:"sourceChainSelector"`
	Sender              common.Address `json:"sender"`
	Data                []byte         `json:"data"`
	OffRamp             common.Address `json:"offRamp"`
}

func EncodeEvidence(e *Evidence) ([]byte, error) {
	return json.Marshal(e)
}

type Transport struct {
	router RouterClient
}

func NewTransport(router RouterClient) *Transport {
	return &Transport{router: router}
}

func (t *Transport) Name() string {
	return "ccip"
}

func (t *Transport) Quote(ctx context.Context, destDomain uint64, payload []byte, gasLimit uint64) (*big.Int, error) {
	return t.router.GetFee(ctx, destDomain, common.Address{}, payload, gasLimit)
}

func (t *Transport) Send(ctx context.Context, destDomain uint64, destination common.Address, payload []byte, fee *big.Int, gasLimit uint64) (common.Hash, error) {
	return t.router.CCIPSend(ctx, destDomain, destination, payload, fee, gasLimit)
}

// VerifyOrigin accepts a delivery only from an off-ramp the router knows for
// the source chain.
func (t *Transport) VerifyOrigin(ctx context.Context, evidence []byte) (*adapters.Delivery, error) {
	e := new(Evidence)
	if err := json.Unmarshal(evidence, e); err != nil {
		return nil, relay.ErrInvalidParams
	}

	valid, err := t.router.IsOffRamp(ctx, e.SourceChainSelector, e.OffRamp)
	if err != nil {
		return nil, err
	}
	if !valid {
		return nil, fmt.Errorf("off-ramp %s: %w", e.OffRamp, relay.ErrUnauthorised)
	}

	return &adapters.Delivery{
		OriginDomain: e.SourceChainSelector,
		OriginSender: e.Sender,
		DeliveryID:   e.MessageID,
		Payload:      e.Data,
	}, nil
}
