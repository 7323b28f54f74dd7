package handlers

import (
	"encoding/json"
	"fmt"
	"math/big"
	"net/http"
	"strconv"
	"strings"
)

// BigInt decodes JSON numbers supplied as decimal strings, which keeps
// amounts above 2^53 intact.
type BigInt struct {
	*big.Int
}

func (b *BigInt) UnmarshalJSON(data []byte) error {
	if b.Int == nil {
		b.Int = new(big.Int)
	}

	s := strings.Trim(string(data), "\"")
	if _, ok := b.SetString(s, 10); !ok {
		return fmt.Errorf("failed to parse big.Int from %s", s)
	}
	return nil
}

func (b *BigInt) MarshalJSON() ([]byte, error) {
	return []byte(strconv.Quote(b.String())), nil
}

func JSONError(w http.ResponseWriter, err error, code int) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.WriteHeader(code)

	resp := struct {
		Code   int    `json:"code"`
		Reason string `json:"reason"`
	}{
		Code:   code,
		Reason: err.Error(),
	}
	_ = json.NewEncoder(w).Encode(resp)
}
