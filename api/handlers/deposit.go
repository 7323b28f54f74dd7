package handlers

import (
	"context"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"math/big"
	"net/http"

	"github.com/ethereum/go-ethereum/common"
)

// Depositor fronts a deposit target behind a flat fee skim.
type Depositor interface {
	Deposit(ctx context.Context, caller, recipient common.Address, amount *big.Int, destChainID uint64, data []byte) (common.Hash, error)
}

type DepositBody struct {
	Caller      string  `json:"caller"`
	Recipient   string  `json:"recipient"`
	Amount      *BigInt `json:"amount"`
	DestChainId uint64  `json:"destChainId"`
	Data        string  `json:"data"`
}

type DepositResponse struct {
	DepositId string `json:"depositId"`
}

type DepositHandler struct {
	depositor Depositor
}

func NewDepositHandler(depositor Depositor) *DepositHandler {
	return &DepositHandler{
		depositor: depositor,
	}
}

// HandleDeposit pulls the deposit amount from the caller, skims the flat fee
// and forwards the remainder into the deposit target.
func (h *DepositHandler) HandleDeposit(w http.ResponseWriter, r *http.Request) {
	b := &DepositBody{}
	d := json.NewDecoder(r.Body)
	err := d.Decode(b)
	if err != nil {
		JSONError(w, fmt.Errorf("invalid request body: %s", err), http.StatusBadRequest)
		return
	}

	caller, err := parseAddress(b.Caller)
	if err != nil {
		JSONError(w, err, http.StatusBadRequest)
		return
	}
	recipient, err := parseAddress(b.Recipient)
	if err != nil {
		JSONError(w, err, http.StatusBadRequest)
		return
	}
	if b.Amount == nil || b.DestChainId == 0 {
		JSONError(w, fmt.Errorf("missing field 'amount' or 'destChainId'"), http.StatusBadRequest)
		return
	}

	var data []byte
	if b.Data != "" {
		data, err = hex.DecodeString(trimHexPrefix(b.Data))
		if err != nil {
			JSONError(w, fmt.Errorf("field 'data' invalid: %s", err), http.StatusBadRequest)
			return
		}
	}

	id, err := h.depositor.Deposit(r.Context(), caller, recipient, b.Amount.Int, b.DestChainId, data)
	if err != nil {
		JSONError(w, fmt.Errorf("deposit failed: %s", err), http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusAccepted)
	_ = json.NewEncoder(w).Encode(&DepositResponse{DepositId: id.Hex()})
}
