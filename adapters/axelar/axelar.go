// The Licensed Work is (c) 2026 Crosslink
// SPDX-License-Identifier: LGPL-3.0-only

package axelar

import (
	"context"
	"encoding/json"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"

	"github.com/crosslinktech/crosslink-relay/adapters"
	"github.com/crosslinktech/crosslink-relay/relay"
)

// GatewayClient is the Axelar gateway surface the transport needs. Commands
// are validated against the gateway before dispatch: approval there is the
// transport-level authentication.
type GatewayClient interface {
	CallContract(ctx context.Context, destChain string, destAddress string, payload []byte) error
	ValidateContractCall(ctx context.Context, commandID common.Hash, sourceChain string, sourceAddress string, payloadHash common.Hash) (bool, error)
}

type GasServiceClient interface {
	EstimateGasFee(ctx context.Context, destChain string, payloadLen int, gasLimit uint64) (*big.Int, error)
}

// Evidence is the inbound execution frame, mirroring
// _execute(commandId, sourceChain, sourceAddress, payload).
type Evidence struct {
	CommandID     common.Hash `json:"commandId"`
	SourceChain   string      `json:"sourceChain"`
	SourceAddress string      `json:"sourceAddress"`
	Payload       []byte      `json:"payload"`
}

func EncodeEvidence(e *Evidence) ([]byte, error) {
	return json.Marshal(e)
}

// Transport relays through the Axelar gateway. Axelar addresses chains by
// name, so the bridge domain ids map to chain names here.
type Transport struct {
	gateway    GatewayClient
	gasService GasServiceClient

	// bridge domain id -> axelar chain name and back
	chainNames  map[uint64]string
	nameDomains map[string]uint64
}

func NewTransport(gateway GatewayClient, gasService GasServiceClient, chainNames map[uint64]string) *Transport {
	nameDomains := make(map[string]uint64)
	for domain, name := range chainNames {
		nameDomains[name] = domain
	}

	return &Transport{
		gateway:     gateway,
		gasService:  gasService,
		chainNames:  chainNames,
		nameDomains: nameDomains,
	}
}

func (t *Transport) Name() string {
	return "axelar"
}

func (t *Transport) Quote(ctx context.Context, destDomain uint64, payload []byte, gasLimit uint64) (*big.Int, error) {
	name, ok := t.chainNames[destDomain]
	if !ok {
		return nil, relay.ErrInvalidParams
	}

	return t.gasService.EstimateGasFee(ctx, name, len(payload), gasLimit)
}

// Send dispatches the payload through the gateway. Axelar produces no
// transfer id at call time; callers should ignore the returned value.
func (t *Transport) Send(ctx context.Context, destDomain uint64, destination common.Address, payload []byte, fee *big.Int, gasLimit uint64) (common.Hash, error) {
	name, ok := t.chainNames[destDomain]
	if !ok {
		return common.Hash{}, relay.ErrInvalidParams
	}

	return common.Hash{}, t.gateway.CallContract(ctx, name, destination.Hex(), payload)
}

func (t *Transport) VerifyOrigin(ctx context.Context, evidence []byte) (*adapters.Delivery, error) {
	e := new(Evidence)
	if err := json.Unmarshal(evidence, e); err != nil {
		return nil, relay.ErrInvalidParams
	}

	valid, err := t.gateway.ValidateContractCall(ctx, e.CommandID, e.SourceChain, e.SourceAddress, crypto.Keccak256Hash(e.Payload))
	if err != nil {
		return nil, err
	}
	if !valid {
		return nil, fmt.Errorf("command %s: %w", e.CommandID, relay.ErrUnauthorised)
	}

	domain, ok := t.nameDomains[e.SourceChain]
	if !ok {
		return nil, relay.ErrInvalidParams
	}

	return &adapters.Delivery{
		OriginDomain: domain,
		OriginSender: common.HexToAddress(e.SourceAddress),
		DeliveryID:   e.CommandID,
		Payload:      e.Payload,
	}, nil
}
