package handlers

import (
	"context"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"math/big"
	"net/http"

	"github.com/ethereum/go-ethereum/common"
	"github.com/gorilla/mux"
)

// TransferQuoter prices a wrapped transfer: (fee, net) for a gross amount.
type TransferQuoter interface {
	Quote(controller common.Address, destChainID uint64, amount *big.Int) (*big.Int, *big.Int, error)
}

type QuoteResponse struct {
	Fee *BigInt `json:"fee"`
	Net *BigInt `json:"net"`
}

type QuoteHandler struct {
	quoter TransferQuoter
}

func NewQuoteHandler(quoter TransferQuoter) *QuoteHandler {
	return &QuoteHandler{
		quoter: quoter,
	}
}

// HandleQuote prices a transfer without committing funds. The same fee is
// charged when the transfer is executed with unchanged configuration.
func (h *QuoteHandler) HandleQuote(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	controller, err := parseAddress(vars["controller"])
	if err != nil {
		JSONError(w, err, http.StatusBadRequest)
		return
	}

	destChainID, ok := new(big.Int).SetString(r.URL.Query().Get("destChainId"), 10)
	if !ok {
		JSONError(w, fmt.Errorf("field 'destChainId' invalid"), http.StatusBadRequest)
		return
	}
	amount, ok := new(big.Int).SetString(r.URL.Query().Get("amount"), 10)
	if !ok {
		JSONError(w, fmt.Errorf("field 'amount' invalid"), http.StatusBadRequest)
		return
	}

	fee, net, err := h.quoter.Quote(controller, destChainID.Uint64(), amount)
	if err != nil {
		JSONError(w, fmt.Errorf("quote failed: %s", err), http.StatusBadRequest)
		return
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	_ = json.NewEncoder(w).Encode(&QuoteResponse{
		Fee: &BigInt{fee},
		Net: &BigInt{net},
	})
}

// AdapterQuoter prices a relay through one adapter.
type AdapterQuoter interface {
	QuoteMessage(ctx context.Context, destChainID uint64, options []byte, message []byte) (*big.Int, error)
}

type RelayQuoteResponse struct {
	Total *BigInt `json:"total"`
}

type RelayQuoteHandler struct {
	adapters map[common.Address]AdapterQuoter
}

func NewRelayQuoteHandler(adapters map[common.Address]AdapterQuoter) *RelayQuoteHandler {
	return &RelayQuoteHandler{
		adapters: adapters,
	}
}

// HandleQuote returns the total native value a relayMessage call through the
// given adapter would require.
func (h *RelayQuoteHandler) HandleQuote(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	adapter, err := parseAddress(vars["adapter"])
	if err != nil {
		JSONError(w, err, http.StatusBadRequest)
		return
	}

	quoter, ok := h.adapters[adapter]
	if !ok {
		JSONError(w, fmt.Errorf("adapter '%s' not found", vars["adapter"]), http.StatusNotFound)
		return
	}

	destChainID, ok := new(big.Int).SetString(r.URL.Query().Get("destChainId"), 10)
	if !ok {
		JSONError(w, fmt.Errorf("field 'destChainId' invalid"), http.StatusBadRequest)
		return
	}

	var options []byte
	if raw := r.URL.Query().Get("options"); raw != "" {
		options, err = hex.DecodeString(trimHexPrefix(raw))
		if err != nil {
			JSONError(w, fmt.Errorf("field 'options' invalid: %s", err), http.StatusBadRequest)
			return
		}
	}

	var message []byte
	if raw := r.URL.Query().Get("message"); raw != "" {
		message, err = hex.DecodeString(trimHexPrefix(raw))
		if err != nil {
			JSONError(w, fmt.Errorf("field 'message' invalid: %s", err), http.StatusBadRequest)
			return
		}
	}

	total, err := quoter.QuoteMessage(r.Context(), destChainID.Uint64(), options, message)
	if err != nil {
		JSONError(w, fmt.Errorf("quote failed: %s", err), http.StatusBadRequest)
		return
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	_ = json.NewEncoder(w).Encode(&RelayQuoteResponse{
		Total: &BigInt{total},
	})
}
