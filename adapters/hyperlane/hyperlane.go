// The Licensed Work is (c) 2026 Crosslink
// SPDX-License-Identifier: LGPL-3.0-only

package hyperlane

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

// MailboxClient covers dispatch through the Hyperlane mailbox and gas
// payment quoting through the interchain gas paymaster.
type MailboxClient interface {
	Dispatch(ctx context.Context, destDomain uint32, recipient common.Hash, body []byte) (common.Hash, error)
	QuoteGasPayment(ctx context.Context, destDomain uint32, gasLimit uint64) (*big.Int, error)
}

// Evidence mirrors handle(origin, originSender, callData). Hyperlane
// addresses are 32 bytes; EVM senders occupy the low 20.
type Evidence struct {
	Origin   uint32         `json:"origin"`
	Sender   common.Hash    `json:"sender"`
	Body     []byte         `json:"body"`
	Caller   common.Address `json:"caller"`
}

func EncodeEvidence(e *Evidence) ([]byte, error) {
	return json.Marshal(e)
}

type Transport struct {
	mailbox        MailboxClient
	mailboxAddress common.Address
}

func NewTransport(mailbox MailboxClient, mailboxAddress common.Address) *Transport {
	return &Transport{
		mailbox:        mailbox,
		mailboxAddress: mailboxAddress,
	}
}

func (t *Transport) Name() string {
	return "hyperlane"
}

func (t *Transport) Quote(ctx context.Context, destDomain uint64, payload []byte, gasLimit uint64) (*big.Int, error) {
	return t.mailbox.QuoteGasPayment(ctx, uint32(destDomain), gasLimit)
}

func (t *Transport) Send(ctx context.Context, destDomain uint64, destination common.Address, payload []byte, fee *big.Int, gasLimit uint64) (common.Hash, error) {
	return t.mailbox.Dispatch(ctx, uint32(destDomain), common.BytesToHash(destination.Bytes()), payload)
}

// VerifyOrigin requires the delivery to come from the mailbox itself; the
// mailbox has already run the message's interchain security module.
func (t *Transport) VerifyOrigin(ctx context.Context, evidence []byte) (*adapters.Delivery, error) {
	e := new(Evidence)
	if err := json.Unmarshal(evidence, e); err != nil {
		return nil, relay.ErrInvalidParams
	}

	if e.Caller != t.mailboxAddress {
		return nil, fmt.Errorf("caller %s is not the mailbox: %w", e.Caller, relay.ErrUnauthorised)
	}

	return &adapters.Delivery{
		OriginDomain: uint64(e.Origin),
		OriginSender: common.BytesToAddress(e.Sender.Bytes()[12:]),
		DeliveryID:   messageID(e),
		Payload:      e.Body,
	}, nil
}

// messageID reproduces the mailbox's message id over origin, sender and body.
func messageID(e *Evidence) common.Hash {
	origin := make([]byte, 4)
	binary.BigEndian.PutUint32(origin, e.Origin)
	return crypto.Keccak256Hash(origin, e.Sender.Bytes(), e.Body)
}
