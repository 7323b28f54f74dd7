// The Licensed Work is (c) 2026 Crosslink
// SPDX-License-Identifier: LGPL-3.0-only

package chain

import (
	"fmt"

	"github.com/crosslinktech/crosslink-relay/config"
	"github.com/spf13/viper"
)

// GeneralBridgeConfig carries the fields every bridge connection shares
// regardless of its transport type.
type GeneralBridgeConfig struct {
	Name           string `mapstructure:"name"`
	Type           string `mapstructure:"type"`
	Endpoint       string `mapstructure:"endpoint"`
	BlockstorePath string `mapstructure:"blockstorePath"`
}

func (c *GeneralBridgeConfig) Validate() error {
	if c.Name == "" {
		return fmt.Errorf("required field bridge.Name empty")
	}
	if c.Type == "" {
		return fmt.Errorf("required field bridge.Type empty for bridge %s", c.Name)
	}
	if c.Endpoint == "" {
		return fmt.Errorf("required field bridge.Endpoint empty for bridge %s", c.Name)
	}
	return nil
}

func (c *GeneralBridgeConfig) ParseFlags() {
	blockstore := viper.GetString(config.BlockstoreFlagName)
	if blockstore != "" {
		c.BlockstorePath = blockstore
	}
}
