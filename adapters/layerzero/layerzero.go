// The Licensed Work is (c) 2026 Crosslink
// SPDX-License-Identifier: LGPL-3.0-only

package layerzero

import (
	"context"
	"encoding/json"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"

	"github.com/crosslinktech/crosslink-relay/adapters"
	"github.com/crosslinktech/crosslink-relay/relay"
)

// EndpointClient is the LayerZero v2 endpoint surface. Endpoint ids are the
// bridge domain ids.
type EndpointClient interface {
	Quote(ctx context.Context, dstEid uint32, message []byte, gasLimit uint64) (*big.Int, error)
	Send(ctx context.Context, dstEid uint32, receiver common.Hash, message []byte, fee *big.Int, gasLimit uint64) (common.Hash, error)
}

// Evidence mirrors _lzReceive(origin, guid, payload, executor, extraData)
// with origin flattened.
type Evidence struct {
	SrcEid  uint32         `json:"srcEid"`
	Sender  common.Hash    `json:"sender"`
	Nonce   uint64         `json:"nonce"`
	GUID    common.Hash    `json:"guid"`
	Message []byte         `json:"message"`
	Caller  common.Address `json:"caller"`
}

func EncodeEvidence(e *Evidence) ([]byte, error) {
	return json.Marshal(e)
}

type Transport struct {
	endpoint        EndpointClient
	endpointAddress common.Address
}

func NewTransport(endpoint EndpointClient, endpointAddress common.Address) *Transport {
	return &Transport{
		endpoint:        endpoint,
		endpointAddress: endpointAddress,
	}
}

func (t *Transport) Name() string {
	return "layerzero"
}

func (t *Transport) Quote(ctx context.Context, destDomain uint64, payload []byte, gasLimit uint64) (*big.Int, error) {
	return t.endpoint.Quote(ctx, uint32(destDomain), payload, gasLimit)
}

func (t *Transport) Send(ctx context.Context, destDomain uint64, destination common.Address, payload []byte, fee *big.Int, gasLimit uint64) (common.Hash, error) {
	return t.endpoint.Send(ctx, uint32(destDomain), common.BytesToHash(destination.Bytes()), payload, fee, gasLimit)
}

func (t *Transport) VerifyOrigin(ctx context.Context, evidence []byte) (*adapters.Delivery, error) {
	e := new(Evidence)
	if err := json.Unmarshal(evidence, e); err != nil {
		return nil, relay.ErrInvalidParams
	}

	if e.Caller != t.endpointAddress {
		return nil, fmt.Errorf("caller %s is not the endpoint: %w", e.Caller, relay.ErrUnauthorised)
	}

	return &adapters.Delivery{
		OriginDomain: uint64(e.SrcEid),
		OriginSender: common.BytesToAddress(e.Sender.Bytes()[12:]),
		DeliveryID:   e.GUID,
		Payload:      e.Message,
	}, nil
}
