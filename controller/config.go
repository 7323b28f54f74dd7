// The Licensed Work is (c) 2026 Crosslink
// SPDX-License-Identifier: LGPL-3.0-only

package controller

import (
	"fmt"
	"math/big"
	"strconv"

	"github.com/creasty/defaults"
	"github.com/ethereum/go-ethereum/common"
	"github.com/mitchellh/mapstructure"

	"github.com/crosslinktech/crosslink-relay/fees"
)

// ControllerConfig is the decoded configuration of one asset controller.
type ControllerConfig struct {
	Address common.Address
	Token   string
	Mode    Mode

	// destination chain id -> controller on that chain
	Remotes map[uint64]common.Address
	Limits  map[uint64]LimitConfig
	// whitelisted adapter addresses
	Adapters []common.Address
}

type LimitConfig struct {
	SendCap    *big.Int
	ReceiveCap *big.Int
}

type RawControllerConfig struct {
	Address  string              `mapstructure:"address"`
	Token    string              `mapstructure:"token"`
	Mode     string              `mapstructure:"mode" default:"mintburn"`
	Remotes  map[string]string   `mapstructure:"remotes"`
	Limits   map[string]RawLimit `mapstructure:"limits"`
	Adapters []string            `mapstructure:"adapters"`
}

type RawLimit struct {
	SendCap    string `mapstructure:"sendCap"`
	ReceiveCap string `mapstructure:"receiveCap"`
}

func (c *RawControllerConfig) Validate() error {
	if !common.IsHexAddress(c.Address) {
		return fmt.Errorf("invalid controller address %s", c.Address)
	}
	if c.Token == "" {
		return fmt.Errorf("required field controller.Token empty for controller %s", c.Address)
	}
	if c.Mode != "mintburn" && c.Mode != "lockrelease" {
		return fmt.Errorf("controller mode '%s' not recognized", c.Mode)
	}
	for _, address := range c.Adapters {
		if !common.IsHexAddress(address) {
			return fmt.Errorf("invalid adapter address %s for controller %s", address, c.Address)
		}
	}
	return nil
}

// NewControllerConfig decodes and validates one controller from raw config.
func NewControllerConfig(controllerConfig map[string]interface{}) (*ControllerConfig, error) {
	var c RawControllerConfig
	err := mapstructure.Decode(controllerConfig, &c)
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

	mode := ModeMintBurn
	if c.Mode == "lockrelease" {
		mode = ModeLockRelease
	}

	remotes := make(map[uint64]common.Address)
	for chainID, address := range c.Remotes {
		id, err := strconv.ParseUint(chainID, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid chain id %s in remotes", chainID)
		}
		if !common.IsHexAddress(address) {
			return nil, fmt.Errorf("invalid remote controller address %s for chain %s", address, chainID)
		}
		remotes[id] = common.HexToAddress(address)
	}

	limits := make(map[uint64]LimitConfig)
	for chainID, rawLimit := range c.Limits {
		id, err := strconv.ParseUint(chainID, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid chain id %s in limits", chainID)
		}

		limit := LimitConfig{}
		if rawLimit.SendCap != "" {
			sendCap, ok := new(big.Int).SetString(rawLimit.SendCap, 10)
			if !ok {
				return nil, fmt.Errorf("invalid sendCap %s for chain %s", rawLimit.SendCap, chainID)
			}
			limit.SendCap = sendCap
		}
		if rawLimit.ReceiveCap != "" {
			receiveCap, ok := new(big.Int).SetString(rawLimit.ReceiveCap, 10)
			if !ok {
				return nil, fmt.Errorf("invalid receiveCap %s for chain %s", rawLimit.ReceiveCap, chainID)
			}
			limit.ReceiveCap = receiveCap
		}
		limits[id] = limit
	}

	adapters := make([]common.Address, 0, len(c.Adapters))
	for _, address := range c.Adapters {
		adapters = append(adapters, common.HexToAddress(address))
	}

	return &ControllerConfig{
		Address:  common.HexToAddress(c.Address),
		Token:    c.Token,
		Mode:     mode,
		Remotes:  remotes,
		Limits:   limits,
		Adapters: adapters,
	}, nil
}

// WrapperConfig is the decoded configuration of the fee gateway in front of
// the controllers.
type WrapperConfig struct {
	Address  common.Address
	Treasury common.Address

	// destination chain id -> additive premium bps
	Premiums    map[uint64]uint64
	Controllers []WrapperControllerConfig
}

type WrapperControllerConfig struct {
	Address     common.Address
	FlatRateBps uint64
	// destination chain id -> tier schedule
	Tiers map[uint64][]fees.Tier
}

type RawWrapperConfig struct {
	Address     string                       `mapstructure:"address"`
	Treasury    string                       `mapstructure:"treasury"`
	Premiums    map[string]uint64            `mapstructure:"premiums"`
	Controllers []RawWrapperControllerConfig `mapstructure:"controllers"`
}

type RawWrapperControllerConfig struct {
	Address     string               `mapstructure:"address"`
	FlatRateBps uint64               `mapstructure:"flatRateBps"`
	Tiers       map[string][]RawTier `mapstructure:"tiers"`
}

type RawTier struct {
	Threshold string `mapstructure:"threshold"`
	RateBps   uint64 `mapstructure:"rateBps"`
}

func (c *RawWrapperConfig) Validate() error {
	if !common.IsHexAddress(c.Address) {
		return fmt.Errorf("invalid wrapper address %s", c.Address)
	}
	if !common.IsHexAddress(c.Treasury) {
		return fmt.Errorf("invalid wrapper treasury %s", c.Treasury)
	}
	for _, controller := range c.Controllers {
		if !common.IsHexAddress(controller.Address) {
			return fmt.Errorf("invalid controller address %s in wrapper config", controller.Address)
		}
	}
	return nil
}

// NewWrapperConfig decodes and validates the wrapper section of the config.
func NewWrapperConfig(wrapperConfig map[string]interface{}) (*WrapperConfig, error) {
	var c RawWrapperConfig
	err := mapstructure.Decode(wrapperConfig, &c)
	if err != nil {
		return nil, err
	}

	err = c.Validate()
	if err != nil {
		return nil, err
	}

	premiums := make(map[uint64]uint64)
	for chainID, bps := range c.Premiums {
		id, err := strconv.ParseUint(chainID, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid chain id %s in premiums", chainID)
		}
		premiums[id] = bps
	}

	controllers := make([]WrapperControllerConfig, 0, len(c.Controllers))
	for _, rawController := range c.Controllers {
		tiers := make(map[uint64][]fees.Tier)
		for chainID, rawTiers := range rawController.Tiers {
			id, err := strconv.ParseUint(chainID, 10, 64)
			if err != nil {
				return nil, fmt.Errorf("invalid chain id %s in tiers", chainID)
			}

			schedule := make([]fees.Tier, 0, len(rawTiers))
			for _, rawTier := range rawTiers {
				threshold, ok := new(big.Int).SetString(rawTier.Threshold, 10)
				if !ok {
					return nil, fmt.Errorf("invalid tier threshold %s", rawTier.Threshold)
				}
				schedule = append(schedule, fees.Tier{
					Threshold: threshold,
					RateBps:   rawTier.RateBps,
				})
			}
			tiers[id] = schedule
		}

		controllers = append(controllers, WrapperControllerConfig{
			Address:     common.HexToAddress(rawController.Address),
			FlatRateBps: rawController.FlatRateBps,
			Tiers:       tiers,
		})
	}

	return &WrapperConfig{
		Address:     common.HexToAddress(c.Address),
		Treasury:    common.HexToAddress(c.Treasury),
		Premiums:    premiums,
		Controllers: controllers,
	}, nil
}

// RelayWrapperConfig is the decoded configuration of the flat-skim wrapper in
// front of one deposit target.
type RelayWrapperConfig struct {
	Address    common.Address
	Treasury   common.Address
	Token      string
	RateBps    uint64
	Controller common.Address
	Adapter    common.Address
	RelayFee   *big.Int
}

type RawRelayWrapperConfig struct {
	Address    string `mapstructure:"address"`
	Treasury   string `mapstructure:"treasury"`
	Token      string `mapstructure:"token"`
	RateBps    uint64 `mapstructure:"rateBps"`
	Controller string `mapstructure:"controller"`
	Adapter    string `mapstructure:"adapter"`
	RelayFee   string `mapstructure:"relayFee" default:"0"`
}

func (c *RawRelayWrapperConfig) Validate() error {
	if !common.IsHexAddress(c.Address) {
		return fmt.Errorf("invalid relay wrapper address %s", c.Address)
	}
	if !common.IsHexAddress(c.Treasury) {
		return fmt.Errorf("invalid relay wrapper treasury %s", c.Treasury)
	}
	if !common.IsHexAddress(c.Controller) {
		return fmt.Errorf("invalid relay wrapper controller %s", c.Controller)
	}
	if !common.IsHexAddress(c.Adapter) {
		return fmt.Errorf("invalid relay wrapper adapter %s", c.Adapter)
	}
	if c.Token == "" {
		return fmt.Errorf("required field relayWrapper.Token empty")
	}
	return nil
}

// NewRelayWrapperConfig decodes and validates the relay wrapper section of
// the config.
func NewRelayWrapperConfig(relayWrapperConfig map[string]interface{}) (*RelayWrapperConfig, error) {
	var c RawRelayWrapperConfig
	err := mapstructure.Decode(relayWrapperConfig, &c)
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

	relayFee, ok := new(big.Int).SetString(c.RelayFee, 10)
	if !ok {
		return nil, fmt.Errorf("invalid relayFee %s in relay wrapper config", c.RelayFee)
	}

	return &RelayWrapperConfig{
		Address:    common.HexToAddress(c.Address),
		Treasury:   common.HexToAddress(c.Treasury),
		Token:      c.Token,
		RateBps:    c.RateBps,
		Controller: common.HexToAddress(c.Controller),
		Adapter:    common.HexToAddress(c.Adapter),
		RelayFee:   relayFee,
	}, nil
}
