// The Licensed Work is (c) 2026 Crosslink
// SPDX-License-Identifier: LGPL-3.0-only

package polymer

import (
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"

	"github.com/crosslinktech/crosslink-relay/adapters"
	"github.com/crosslinktech/crosslink-relay/relay"
)

// EventProof is the prover's verdict on one proven origin-chain event. Proof
// verification internals are the prover's concern; the transport only
// consumes its output.
type EventProof struct {
	ChainID uint64
	Emitter common.Address
	Payload []byte
}

type ProverClient interface {
	QuoteProof(ctx context.Context, destChainID uint64) (*big.Int, error)
	EmitMessage(ctx context.Context, destChainID uint64, destination common.Address, payload []byte) (common.Hash, error)
	ValidateEvent(ctx context.Context, proof []byte) (*EventProof, error)
}

// Transport is proof-based: inbound evidence is the raw proof handed to the
// prover, not a delivery frame from a known caller.
type Transport struct {
	prover ProverClient
}

func NewTransport(prover ProverClient) *Transport {
	return &Transport{prover: prover}
}

func (t *Transport) Name() string {
	return "polymer"
}

func (t *Transport) Quote(ctx context.Context, destDomain uint64, payload []byte, gasLimit uint64) (*big.Int, error) {
	return t.prover.QuoteProof(ctx, destDomain)
}

func (t *Transport) Send(ctx context.Context, destDomain uint64, destination common.Address, payload []byte, fee *big.Int, gasLimit uint64) (common.Hash, error) {
	return t.prover.EmitMessage(ctx, destDomain, destination, payload)
}

func (t *Transport) VerifyOrigin(ctx context.Context, evidence []byte) (*adapters.Delivery, error) {
	p, err := t.prover.ValidateEvent(ctx, evidence)
	if err != nil {
		return nil, relay.ErrInvalidProof
	}

	return &adapters.Delivery{
		OriginDomain: p.ChainID,
		OriginSender: p.Emitter,
		// a proof for the same event hashes to the same id
		DeliveryID: crypto.Keccak256Hash(evidence),
		Payload:    p.Payload,
	}, nil
}
