// The Licensed Work is (c) 2026 Crosslink
// SPDX-License-Identifier: LGPL-3.0-only

package controller

import (
	"context"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/rs/zerolog/log"
	"github.com/sygmaprotocol/sygma-core/relayer/message"
	"github.com/sygmaprotocol/sygma-core/relayer/proposal"

	"github.com/crosslinktech/crosslink-relay/relay"
)

// TransferMessageHandler executes API-initiated transfer requests against the
// registered controllers. The outcome is reported back through the request's
// error channel.
type TransferMessageHandler struct {
	controllers map[common.Address]*Controller
	wrapper     *Wrapper
}

func NewTransferMessageHandler(controllers map[common.Address]*Controller, wrapper *Wrapper) *TransferMessageHandler {
	return &TransferMessageHandler{
		controllers: controllers,
		wrapper:     wrapper,
	}
}

func (h *TransferMessageHandler) HandleMessage(m *message.Message) (*proposal.Proposal, error) {
	data := m.Data.(*relay.TransferRequestData)

	ctrl, ok := h.controllers[data.Controller]
	if !ok {
		err := fmt.Errorf("no controller registered at %s: %w", data.Controller, relay.ErrInvalidParams)
		data.ErrChn <- err
		return nil, err
	}

	var id common.Hash
	var err error
	if h.wrapper != nil {
		id, err = h.wrapper.TransferTo(
			context.Background(),
			data.Caller,
			data.Controller,
			data.Recipient,
			data.Amount,
			data.Unwrap,
			data.Destination,
			data.Adapters,
			data.Fees,
			data.Options,
		)
	} else {
		id, err = ctrl.TransferToMulti(
			context.Background(),
			data.Caller,
			data.Caller,
			data.Recipient,
			data.Amount,
			data.Unwrap,
			data.Destination,
			data.Adapters,
			data.Fees,
			data.Options,
		)
	}
	if err != nil {
		// a non-zero id means value moved before dispatch failed; hand the
		// id back so the caller can resend instead of transferring again
		if id != (common.Hash{}) {
			err = fmt.Errorf("dispatch failed for resendable transfer %s: %w", id.Hex(), err)
		}
		data.ErrChn <- err
		return nil, err
	}

	log.Info().Msgf("Executed transfer %s from chain %d to chain %d", id.Hex(), data.Source, data.Destination)
	data.ErrChn <- nil
	return nil, nil
}

// ResendMessageHandler re-announces already recorded transfers. Principal is
// never moved again; only relay fees are charged.
type ResendMessageHandler struct {
	controllers map[common.Address]*Controller
}

func NewResendMessageHandler(controllers map[common.Address]*Controller) *ResendMessageHandler {
	return &ResendMessageHandler{
		controllers: controllers,
	}
}

func (h *ResendMessageHandler) HandleMessage(m *message.Message) (*proposal.Proposal, error) {
	data := m.Data.(*relay.ResendRequestData)

	ctrl, ok := h.controllers[data.Controller]
	if !ok {
		err := fmt.Errorf("no controller registered at %s: %w", data.Controller, relay.ErrInvalidParams)
		data.ErrChn <- err
		return nil, err
	}

	err := ctrl.ResendTransferMulti(
		context.Background(),
		data.Caller,
		data.TransferID,
		data.Adapters,
		data.Fees,
		data.Options,
	)
	if err != nil {
		data.ErrChn <- err
		return nil, err
	}

	log.Info().Msgf("Resent transfer %s on chain %d", data.TransferID.Hex(), data.Source)
	data.ErrChn <- nil
	return nil, nil
}
