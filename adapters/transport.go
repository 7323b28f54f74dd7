// The Licensed Work is (c) 2026 Crosslink
// SPDX-License-Identifier: LGPL-3.0-only

package adapters

import (
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
)

// Delivery is the transport-verified view of one inbound message. OriginSender
// is the address the transport itself authenticated; the adapter still checks
// it against its own trust map before dispatching.
type Delivery struct {
	OriginDomain uint64
	OriginSender common.Address
	DeliveryID   common.Hash
	Payload      []byte
}

// Transport abstracts one bridge backend. Quote and Send speak the bridge's
// domain ids; VerifyOrigin authenticates raw bridge-specific evidence by the
// transport's own means (caller check, proof validation or signed delivery)
// and normalizes it into a Delivery.
type Transport interface {
	Name() string
	Quote(ctx context.Context, destDomain uint64, payload []byte, gasLimit uint64) (*big.Int, error)
	Send(ctx context.Context, destDomain uint64, destination common.Address, payload []byte, fee *big.Int, gasLimit uint64) (common.Hash, error)
	VerifyOrigin(ctx context.Context, evidence []byte) (*Delivery, error)
}

// InboundHandler receives a decoded envelope addressed to one controller.
type InboundHandler interface {
	ReceiveMessage(ctx context.Context, caller common.Address, msg []byte, originChainID uint64, originController common.Address) error
}
