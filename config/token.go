// The Licensed Work is (c) 2026 Crosslink
// SPDX-License-Identifier: LGPL-3.0-only

package config

import (
	"fmt"
)

// TokenConfig describes one asset the relay daemon keeps a ledger for.
// TaxBps marks fee-on-transfer tokens; wrappers reject them on pull.
type TokenConfig struct {
	Symbol   string `mapstructure:"symbol" json:"symbol"`
	Decimals uint8  `mapstructure:"decimals" json:"decimals" default:"18"`
	TaxBps   uint64 `mapstructure:"taxBps" json:"taxBps"`
}

type TokenStore struct {
	Tokens map[string]TokenConfig
}

func NewTokenStore(tokens []TokenConfig) *TokenStore {
	store := &TokenStore{
		Tokens: make(map[string]TokenConfig),
	}
	for _, t := range tokens {
		store.Tokens[t.Symbol] = t
	}
	return store
}

func (s *TokenStore) ConfigBySymbol(symbol string) (TokenConfig, error) {
	c, ok := s.Tokens[symbol]
	if !ok {
		return TokenConfig{}, fmt.Errorf("no config for token %s", symbol)
	}

	return c, nil
}
