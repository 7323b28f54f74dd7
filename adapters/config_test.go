// The Licensed Work is (c) 2026 Crosslink
// SPDX-License-Identifier: LGPL-3.0-only

package adapters_test

import (
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/suite"

	"github.com/crosslinktech/crosslink-relay/adapters"
	"github.com/crosslinktech/crosslink-relay/config/chain"
)

type NewBridgeConfigTestSuite struct {
	suite.Suite
}

func TestRunNewBridgeConfigTestSuite(t *testing.T) {
	suite.Run(t, new(NewBridgeConfigTestSuite))
}

func (s *NewBridgeConfigTestSuite) Test_FailedDecode() {
	_, err := adapters.NewBridgeConfig(map[string]interface{}{
		"feeBps": "invalid",
	})

	s.NotNil(err)
}

func (s *NewBridgeConfigTestSuite) Test_FailedGeneralConfigValidation() {
	_, err := adapters.NewBridgeConfig(map[string]interface{}{})

	s.NotNil(err)
}

func (s *NewBridgeConfigTestSuite) Test_InvalidAdapterAddress() {
	_, err := adapters.NewBridgeConfig(map[string]interface{}{
		"name":         "hyperlane-mainnet",
		"type":         "hyperlane",
		"endpoint":     "http://localhost:9090",
		"address":      "not-an-address",
		"feeRecipient": "0x5c1F5d614DD0F9d1a66a18b618b72Df7dD3B0247",
	})

	s.NotNil(err)
}

func (s *NewBridgeConfigTestSuite) Test_DomainChainLengthMismatch() {
	_, err := adapters.NewBridgeConfig(map[string]interface{}{
		"name":         "hyperlane-mainnet",
		"type":         "hyperlane",
		"endpoint":     "http://localhost:9090",
		"address":      "0xbe526bA5d1ad94cC59D7A79d99A59F607d31A657",
		"feeRecipient": "0x5c1F5d614DD0F9d1a66a18b618b72Df7dD3B0247",
		"domainIds":    []uint64{1, 2},
		"chainIds":     []uint64{10},
	})

	s.NotNil(err)
}

func (s *NewBridgeConfigTestSuite) Test_InvalidOptionsKind() {
	_, err := adapters.NewBridgeConfig(map[string]interface{}{
		"name":         "hyperlane-mainnet",
		"type":         "hyperlane",
		"endpoint":     "http://localhost:9090",
		"address":      "0xbe526bA5d1ad94cC59D7A79d99A59F607d31A657",
		"feeRecipient": "0x5c1F5d614DD0F9d1a66a18b618b72Df7dD3B0247",
		"options":      "unknown",
	})

	s.NotNil(err)
}

func (s *NewBridgeConfigTestSuite) Test_InvalidTrustedAdapter() {
	_, err := adapters.NewBridgeConfig(map[string]interface{}{
		"name":         "hyperlane-mainnet",
		"type":         "hyperlane",
		"endpoint":     "http://localhost:9090",
		"address":      "0xbe526bA5d1ad94cC59D7A79d99A59F607d31A657",
		"feeRecipient": "0x5c1F5d614DD0F9d1a66a18b618b72Df7dD3B0247",
		"trustedAdapters": map[string]string{
			"10": "not-an-address",
		},
	})

	s.NotNil(err)
}

func (s *NewBridgeConfigTestSuite) Test_ValidConfig() {
	rawConfig := map[string]interface{}{
		"name":         "axelar-mainnet",
		"type":         "axelar",
		"endpoint":     "http://localhost:9090",
		"address":      "0xbe526bA5d1ad94cC59D7A79d99A59F607d31A657",
		"bridge":       "0x4F4495243837681061C4743b74B3eEdf548D56A5",
		"feeBps":       uint64(1000),
		"minimumGas":   "50",
		"feeRecipient": "0x5c1F5d614DD0F9d1a66a18b618b72Df7dD3B0247",
		"domainIds":    []uint64{2},
		"chainIds":     []uint64{10},
		"trustedAdapters": map[string]string{
			"10": "0x92E9fC5Ba65B13B438bcD7A215Baf1C7689880a9",
		},
		"chainNames": map[string]string{
			"2": "ethereum",
		},
	}

	actualConfig, err := adapters.NewBridgeConfig(rawConfig)

	s.Nil(err)
	s.Equal(*actualConfig, adapters.BridgeConfig{
		GeneralBridgeConfig: chain.GeneralBridgeConfig{
			Name:     "axelar-mainnet",
			Type:     "axelar",
			Endpoint: "http://localhost:9090",
		},
		Adapter: adapters.Config{
			Name:         "axelar-mainnet",
			Address:      common.HexToAddress("0xbe526bA5d1ad94cC59D7A79d99A59F607d31A657"),
			FeeBps:       1000,
			MinimumGas:   big.NewInt(50),
			FeeRecipient: common.HexToAddress("0x5c1F5d614DD0F9d1a66a18b618b72Df7dD3B0247"),
			OptionsKind:  adapters.OptionsRefundGas,
		},
		Bridge:    common.HexToAddress("0x4F4495243837681061C4743b74B3eEdf548D56A5"),
		DomainIDs: []uint64{2},
		ChainIDs:  []uint64{10},
		TrustedAdapters: map[uint64]common.Address{
			10: common.HexToAddress("0x92E9fC5Ba65B13B438bcD7A215Baf1C7689880a9"),
		},
		ChainNames: map[uint64]string{
			2: "ethereum",
		},
	})
}
