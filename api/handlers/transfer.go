package handlers

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
	"math/big"
	"net/http"

	"github.com/ethereum/go-ethereum/common"
	"github.com/gorilla/mux"
	"github.com/sygmaprotocol/sygma-core/relayer/message"

	"github.com/crosslinktech/crosslink-relay/relay"
)

type TransferBody struct {
	Caller      string    `json:"caller"`
	Recipient   string    `json:"recipient"`
	Amount      *BigInt   `json:"amount"`
	Unwrap      bool      `json:"unwrap"`
	DestChainId uint64    `json:"destChainId"`
	Adapters    []string  `json:"adapters"`
	Fees        []*BigInt `json:"fees"`
	Options     []string  `json:"options"`
	Value       *BigInt   `json:"value"`
}

type TransferHandler struct {
	msgChan chan []*message.Message
	chainID uint64
	chains  map[uint64]struct{}
}

func NewTransferHandler(msgChan chan []*message.Message, chainID uint64, chains map[uint64]struct{}) *TransferHandler {
	return &TransferHandler{
		msgChan: msgChan,
		chainID: chainID,
		chains:  chains,
	}
}

// HandleTransfer sends a transfer request to the controller message handler
// and returns 202 once the transfer has been dispatched.
func (h *TransferHandler) HandleTransfer(w http.ResponseWriter, r *http.Request) {
	b := &TransferBody{}
	d := json.NewDecoder(r.Body)
	err := d.Decode(b)
	if err != nil {
		JSONError(w, fmt.Errorf("invalid request body: %s", err), http.StatusBadRequest)
		return
	}

	vars := mux.Vars(r)
	controller, err := parseAddress(vars["controller"])
	if err != nil {
		JSONError(w, err, http.StatusBadRequest)
		return
	}
	if err := h.validate(b); err != nil {
		JSONError(w, fmt.Errorf("invalid request body: %s", err), http.StatusBadRequest)
		return
	}

	adapters, fees, options, err := parseAdapterParams(b.Adapters, b.Fees, b.Options)
	if err != nil {
		JSONError(w, err, http.StatusBadRequest)
		return
	}
	if err := checkFeeValue(b.Value, fees); err != nil {
		JSONError(w, err, http.StatusBadRequest)
		return
	}

	errChn := make(chan error, 1)
	m := relay.NewTransferRequestMessage(h.chainID, b.DestChainId, &relay.TransferRequestData{
		ErrChn:      errChn,
		Controller:  controller,
		Caller:      common.HexToAddress(b.Caller),
		Recipient:   common.HexToAddress(b.Recipient),
		Amount:      b.Amount.Int,
		Unwrap:      b.Unwrap,
		Adapters:    adapters,
		Fees:        fees,
		Options:     options,
		Source:      h.chainID,
		Destination: b.DestChainId,
	})
	h.msgChan <- []*message.Message{m}

	err = <-errChn
	if err != nil {
		JSONError(w, fmt.Errorf("transfer failed: %s", err), http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusAccepted)
}

func (h *TransferHandler) validate(b *TransferBody) error {
	if b.Caller == "" {
		return fmt.Errorf("missing field 'caller'")
	}
	if b.Recipient == "" {
		return fmt.Errorf("missing field 'recipient'")
	}
	if b.Amount == nil {
		return fmt.Errorf("missing field 'amount'")
	}
	if b.DestChainId == 0 {
		return fmt.Errorf("missing field 'destChainId'")
	}
	if len(b.Adapters) == 0 {
		return fmt.Errorf("missing field 'adapters'")
	}

	_, ok := h.chains[b.DestChainId]
	if !ok {
		return fmt.Errorf("chain '%d' not supported", b.DestChainId)
	}

	return nil
}

type ResendBody struct {
	Caller   string    `json:"caller"`
	Adapters []string  `json:"adapters"`
	Fees     []*BigInt `json:"fees"`
	Options  []string  `json:"options"`
	Value    *BigInt   `json:"value"`
}

type ResendHandler struct {
	msgChan chan []*message.Message
	chainID uint64
}

func NewResendHandler(msgChan chan []*message.Message, chainID uint64) *ResendHandler {
	return &ResendHandler{
		msgChan: msgChan,
		chainID: chainID,
	}
}

// HandleResend re-announces a recorded transfer through a new adapter set.
func (h *ResendHandler) HandleResend(w http.ResponseWriter, r *http.Request) {
	b := &ResendBody{}
	d := json.NewDecoder(r.Body)
	err := d.Decode(b)
	if err != nil {
		JSONError(w, fmt.Errorf("invalid request body: %s", err), http.StatusBadRequest)
		return
	}

	vars := mux.Vars(r)
	controller, err := parseAddress(vars["controller"])
	if err != nil {
		JSONError(w, err, http.StatusBadRequest)
		return
	}
	transferID := vars["transferId"]
	if len(common.FromHex(transferID)) != common.HashLength {
		JSONError(w, fmt.Errorf("field 'transferId' invalid"), http.StatusBadRequest)
		return
	}
	if b.Caller == "" {
		JSONError(w, fmt.Errorf("missing field 'caller'"), http.StatusBadRequest)
		return
	}

	adapters, fees, options, err := parseAdapterParams(b.Adapters, b.Fees, b.Options)
	if err != nil {
		JSONError(w, err, http.StatusBadRequest)
		return
	}
	if err := checkFeeValue(b.Value, fees); err != nil {
		JSONError(w, err, http.StatusBadRequest)
		return
	}

	errChn := make(chan error, 1)
	m := relay.NewResendRequestMessage(h.chainID, &relay.ResendRequestData{
		ErrChn:     errChn,
		Controller: controller,
		Caller:     common.HexToAddress(b.Caller),
		TransferID: common.HexToHash(transferID),
		Adapters:   adapters,
		Fees:       fees,
		Options:    options,
		Source:     h.chainID,
	})
	h.msgChan <- []*message.Message{m}

	err = <-errChn
	if err != nil {
		JSONError(w, fmt.Errorf("resend failed: %s", err), http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusAccepted)
}

func parseAdapterParams(rawAdapters []string, rawFees []*BigInt, rawOptions []string) ([]common.Address, []*big.Int, [][]byte, error) {
	if len(rawAdapters) != len(rawFees) {
		return nil, nil, nil, fmt.Errorf("'adapters' and 'fees' length mismatch")
	}

	adapters := make([]common.Address, len(rawAdapters))
	for i, a := range rawAdapters {
		addr, err := parseAddress(a)
		if err != nil {
			return nil, nil, nil, err
		}
		adapters[i] = addr
	}

	fees := make([]*big.Int, len(rawFees))
	for i, f := range rawFees {
		fees[i] = bigOrZero(f)
	}

	options := make([][]byte, len(rawAdapters))
	for i := range rawAdapters {
		if i >= len(rawOptions) || rawOptions[i] == "" {
			continue
		}
		o, err := hex.DecodeString(trimHexPrefix(rawOptions[i]))
		if err != nil {
			return nil, nil, nil, fmt.Errorf("field 'options' invalid: %s", err)
		}
		options[i] = o
	}

	return adapters, fees, options, nil
}

// checkFeeValue rejects a request whose declared native value cannot cover
// the relay fees it quotes. A request without a value is accepted; the
// controller charges fees from the caller's native balance either way.
func checkFeeValue(value *BigInt, fees []*big.Int) error {
	if value == nil || value.Int == nil {
		return nil
	}

	required := new(big.Int)
	for _, f := range fees {
		required.Add(required, f)
	}
	if value.Cmp(required) < 0 {
		return &relay.FeeTooLowError{Required: required, Supplied: value.Int}
	}
	return nil
}

func parseAddress(s string) (common.Address, error) {
	if !common.IsHexAddress(s) {
		return common.Address{}, fmt.Errorf("invalid address '%s'", s)
	}
	return common.HexToAddress(s), nil
}

func bigOrZero(b *BigInt) *big.Int {
	if b == nil || b.Int == nil {
		return new(big.Int)
	}
	return b.Int
}

func trimHexPrefix(s string) string {
	if len(s) >= 2 && s[0:2] == "0x" {
		return s[2:]
	}
	return s
}
