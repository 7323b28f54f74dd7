// The Licensed Work is (c) 2026 Crosslink
// SPDX-License-Identifier: LGPL-3.0-only

package adapters

import (
	"fmt"
	"math/big"
	"strconv"

	"github.com/creasty/defaults"
	"github.com/ethereum/go-ethereum/common"
	"github.com/mitchellh/mapstructure"

	"github.com/crosslinktech/crosslink-relay/config/chain"
)

// BridgeConfig is the decoded configuration of one bridge connection: the
// adapter parameters plus everything the transport behind it needs.
type BridgeConfig struct {
	GeneralBridgeConfig chain.GeneralBridgeConfig
	Adapter             Config

	// the bridge's own on-chain endpoint: gateway, mailbox, messenger,
	// router or relayer depending on the transport type
	Bridge common.Address

	DomainIDs       []uint64
	ChainIDs        []uint64
	TrustedAdapters map[uint64]common.Address

	// axelar addresses chains by name
	ChainNames map[uint64]string
	// optimism connects exactly one L1/L2 pair
	PeerDomain uint64
}

type RawBridgeConfig struct {
	chain.GeneralBridgeConfig `mapstructure:",squash"`

	Address      string `mapstructure:"address"`
	FeeBps       uint64 `mapstructure:"feeBps"`
	MinimumGas   string `mapstructure:"minimumGas" default:"0"`
	FeeRecipient string `mapstructure:"feeRecipient"`
	Options      string `mapstructure:"options" default:"refundGas"`

	Bridge          string            `mapstructure:"bridge"`
	DomainIDs       []uint64          `mapstructure:"domainIds"`
	ChainIDs        []uint64          `mapstructure:"chainIds"`
	TrustedAdapters map[string]string `mapstructure:"trustedAdapters"`

	ChainNames map[string]string `mapstructure:"chainNames"`
	PeerDomain uint64            `mapstructure:"peerDomain"`
}

func (c *RawBridgeConfig) Validate() error {
	if err := c.GeneralBridgeConfig.Validate(); err != nil {
		return err
	}
	if !common.IsHexAddress(c.Address) {
		return fmt.Errorf("invalid adapter address %s for bridge %s", c.Address, c.Name)
	}
	if !common.IsHexAddress(c.FeeRecipient) {
		return fmt.Errorf("invalid fee recipient %s for bridge %s", c.FeeRecipient, c.Name)
	}
	if len(c.DomainIDs) != len(c.ChainIDs) {
		return fmt.Errorf("domainIds and chainIds length mismatch for bridge %s", c.Name)
	}
	return nil
}

// NewBridgeConfig decodes and validates one bridge connection from raw chain
// config.
func NewBridgeConfig(bridgeConfig map[string]interface{}) (*BridgeConfig, error) {
	var c RawBridgeConfig
	err := mapstructure.Decode(bridgeConfig, &c)
	if err != nil {
		return nil, err
	}

	err = defaults.Set(&c)
	if err != nil {
		return nil, err
	}

	err = c.Validate()
	if err != nil {
		return nil, err
	}

	optionsKind, err := ParseOptionsKind(c.Options)
	if err != nil {
		return nil, err
	}

	minimumGas, ok := new(big.Int).SetString(c.MinimumGas, 10)
	if !ok {
		return nil, fmt.Errorf("invalid minimumGas %s for bridge %s", c.MinimumGas, c.Name)
	}

	trusted, err := parseAddressMap(c.TrustedAdapters)
	if err != nil {
		return nil, err
	}

	chainNames := make(map[uint64]string)
	for domain, name := range c.ChainNames {
		d, err := strconv.ParseUint(domain, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid domain id %s in chainNames", domain)
		}
		chainNames[d] = name
	}

	c.ParseFlags()
	config := &BridgeConfig{
		GeneralBridgeConfig: c.GeneralBridgeConfig,
		Adapter: Config{
			Name:         c.Name,
			Address:      common.HexToAddress(c.Address),
			FeeBps:       c.FeeBps,
			MinimumGas:   minimumGas,
			FeeRecipient: common.HexToAddress(c.FeeRecipient),
			OptionsKind:  optionsKind,
		},
		Bridge:          common.HexToAddress(c.Bridge),
		DomainIDs:       c.DomainIDs,
		ChainIDs:        c.ChainIDs,
		TrustedAdapters: trusted,
		ChainNames:      chainNames,
		PeerDomain:      c.PeerDomain,
	}

	return config, nil
}

func ParseOptionsKind(s string) (OptionsKind, error) {
	switch s {
	case "refund":
		return OptionsRefund, nil
	case "refundGas":
		return OptionsRefundGas, nil
	case "refundChainGas":
		return OptionsRefundChainGas, nil
	default:
		return 0, fmt.Errorf("options kind '%s' not recognized", s)
	}
}

func parseAddressMap(raw map[string]string) (map[uint64]common.Address, error) {
	parsed := make(map[uint64]common.Address)
	for chainID, address := range raw {
		id, err := strconv.ParseUint(chainID, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid chain id %s in trustedAdapters", chainID)
		}
		if !common.IsHexAddress(address) {
			return nil, fmt.Errorf("invalid trusted adapter address %s for chain %s", address, chainID)
		}
		parsed[id] = common.HexToAddress(address)
	}
	return parsed, nil
}
