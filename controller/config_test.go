// The Licensed Work is (c) 2026 Crosslink
// SPDX-License-Identifier: LGPL-3.0-only

package controller_test

import (
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/suite"

	"github.com/crosslinktech/crosslink-relay/controller"
	"github.com/crosslinktech/crosslink-relay/fees"
)

type NewControllerConfigTestSuite struct {
	suite.Suite
}

func TestRunNewControllerConfigTestSuite(t *testing.T) {
	suite.Run(t, new(NewControllerConfigTestSuite))
}

func (s *NewControllerConfigTestSuite) Test_InvalidAddress() {
	_, err := controller.NewControllerConfig(map[string]interface{}{
		"address": "not-an-address",
		"token":   "USDC",
	})

	s.NotNil(err)
}

func (s *NewControllerConfigTestSuite) Test_MissingToken() {
	_, err := controller.NewControllerConfig(map[string]interface{}{
		"address": "0xbe526bA5d1ad94cC59D7A79d99A59F607d31A657",
	})

	s.NotNil(err)
}

func (s *NewControllerConfigTestSuite) Test_UnknownMode() {
	_, err := controller.NewControllerConfig(map[string]interface{}{
		"address": "0xbe526bA5d1ad94cC59D7A79d99A59F607d31A657",
		"token":   "USDC",
		"mode":    "escrow",
	})

	s.NotNil(err)
}

func (s *NewControllerConfigTestSuite) Test_InvalidSendCap() {
	_, err := controller.NewControllerConfig(map[string]interface{}{
		"address": "0xbe526bA5d1ad94cC59D7A79d99A59F607d31A657",
		"token":   "USDC",
		"limits": map[string]interface{}{
			"10": map[string]interface{}{
				"sendCap": "not-a-number",
			},
		},
	})

	s.NotNil(err)
}

func (s *NewControllerConfigTestSuite) Test_ValidConfig() {
	rawConfig := map[string]interface{}{
		"address": "0xbe526bA5d1ad94cC59D7A79d99A59F607d31A657",
		"token":   "USDC",
		"mode":    "lockrelease",
		"remotes": map[string]string{
			"10": "0x92E9fC5Ba65B13B438bcD7A215Baf1C7689880a9",
		},
		"limits": map[string]interface{}{
			"10": map[string]interface{}{
				"sendCap":    "1000000",
				"receiveCap": "2000000",
			},
		},
		"adapters": []string{"0x5c1F5d614DD0F9d1a66a18b618b72Df7dD3B0247"},
	}

	actualConfig, err := controller.NewControllerConfig(rawConfig)

	s.Nil(err)
	s.Equal(*actualConfig, controller.ControllerConfig{
		Address: common.HexToAddress("0xbe526bA5d1ad94cC59D7A79d99A59F607d31A657"),
		Token:   "USDC",
		Mode:    controller.ModeLockRelease,
		Remotes: map[uint64]common.Address{
			10: common.HexToAddress("0x92E9fC5Ba65B13B438bcD7A215Baf1C7689880a9"),
		},
		Limits: map[uint64]controller.LimitConfig{
			10: {
				SendCap:    big.NewInt(1000000),
				ReceiveCap: big.NewInt(2000000),
			},
		},
		Adapters: []common.Address{common.HexToAddress("0x5c1F5d614DD0F9d1a66a18b618b72Df7dD3B0247")},
	})
}

type NewWrapperConfigTestSuite struct {
	suite.Suite
}

func TestRunNewWrapperConfigTestSuite(t *testing.T) {
	suite.Run(t, new(NewWrapperConfigTestSuite))
}

func (s *NewWrapperConfigTestSuite) Test_InvalidTreasury() {
	_, err := controller.NewWrapperConfig(map[string]interface{}{
		"address":  "0xbe526bA5d1ad94cC59D7A79d99A59F607d31A657",
		"treasury": "not-an-address",
	})

	s.NotNil(err)
}

func (s *NewWrapperConfigTestSuite) Test_InvalidTierThreshold() {
	_, err := controller.NewWrapperConfig(map[string]interface{}{
		"address":  "0xbe526bA5d1ad94cC59D7A79d99A59F607d31A657",
		"treasury": "0x5c1F5d614DD0F9d1a66a18b618b72Df7dD3B0247",
		"controllers": []map[string]interface{}{
			{
				"address": "0x92E9fC5Ba65B13B438bcD7A215Baf1C7689880a9",
				"tiers": map[string]interface{}{
					"10": []map[string]interface{}{
						{"threshold": "not-a-number", "rateBps": uint64(1000)},
					},
				},
			},
		},
	})

	s.NotNil(err)
}

func (s *NewWrapperConfigTestSuite) Test_ValidConfig() {
	rawConfig := map[string]interface{}{
		"address":  "0xbe526bA5d1ad94cC59D7A79d99A59F607d31A657",
		"treasury": "0x5c1F5d614DD0F9d1a66a18b618b72Df7dD3B0247",
		"premiums": map[string]uint64{
			"10": 200,
		},
		"controllers": []map[string]interface{}{
			{
				"address":     "0x92E9fC5Ba65B13B438bcD7A215Baf1C7689880a9",
				"flatRateBps": uint64(300),
				"tiers": map[string]interface{}{
					"10": []map[string]interface{}{
						{"threshold": "1000", "rateBps": uint64(1000)},
						{"threshold": "5000", "rateBps": uint64(500)},
					},
				},
			},
		},
	}

	actualConfig, err := controller.NewWrapperConfig(rawConfig)

	s.Nil(err)
	s.Equal(*actualConfig, controller.WrapperConfig{
		Address:  common.HexToAddress("0xbe526bA5d1ad94cC59D7A79d99A59F607d31A657"),
		Treasury: common.HexToAddress("0x5c1F5d614DD0F9d1a66a18b618b72Df7dD3B0247"),
		Premiums: map[uint64]uint64{10: 200},
		Controllers: []controller.WrapperControllerConfig{
			{
				Address:     common.HexToAddress("0x92E9fC5Ba65B13B438bcD7A215Baf1C7689880a9"),
				FlatRateBps: 300,
				Tiers: map[uint64][]fees.Tier{
					10: {
						{Threshold: big.NewInt(1000), RateBps: 1000},
						{Threshold: big.NewInt(5000), RateBps: 500},
					},
				},
			},
		},
	})
}

type NewRelayWrapperConfigTestSuite struct {
	suite.Suite
}

func TestRunNewRelayWrapperConfigTestSuite(t *testing.T) {
	suite.Run(t, new(NewRelayWrapperConfigTestSuite))
}

func (s *NewRelayWrapperConfigTestSuite) Test_MissingToken() {
	_, err := controller.NewRelayWrapperConfig(map[string]interface{}{
		"address":    "0xbe526bA5d1ad94cC59D7A79d99A59F607d31A657",
		"treasury":   "0x5c1F5d614DD0F9d1a66a18b618b72Df7dD3B0247",
		"controller": "0x92E9fC5Ba65B13B438bcD7A215Baf1C7689880a9",
		"adapter":    "0x4F4495243837681061C4743b74B3eEdf548D56A5",
	})

	s.NotNil(err)
}

func (s *NewRelayWrapperConfigTestSuite) Test_ValidConfig() {
	rawConfig := map[string]interface{}{
		"address":    "0xbe526bA5d1ad94cC59D7A79d99A59F607d31A657",
		"treasury":   "0x5c1F5d614DD0F9d1a66a18b618b72Df7dD3B0247",
		"token":      "USDC",
		"rateBps":    uint64(1000),
		"controller": "0x92E9fC5Ba65B13B438bcD7A215Baf1C7689880a9",
		"adapter":    "0x4F4495243837681061C4743b74B3eEdf548D56A5",
		"relayFee":   "100",
	}

	actualConfig, err := controller.NewRelayWrapperConfig(rawConfig)

	s.Nil(err)
	s.Equal(*actualConfig, controller.RelayWrapperConfig{
		Address:    common.HexToAddress("0xbe526bA5d1ad94cC59D7A79d99A59F607d31A657"),
		Treasury:   common.HexToAddress("0x5c1F5d614DD0F9d1a66a18b618b72Df7dD3B0247"),
		Token:      "USDC",
		RateBps:    1000,
		Controller: common.HexToAddress("0x92E9fC5Ba65B13B438bcD7A215Baf1C7689880a9"),
		Adapter:    common.HexToAddress("0x4F4495243837681061C4743b74B3eEdf548D56A5"),
		RelayFee:   big.NewInt(100),
	})
}
