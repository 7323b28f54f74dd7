// The Licensed Work is (c) 2026 Crosslink
// SPDX-License-Identifier: LGPL-3.0-only

package config

import (
	"fmt"
	"strings"

	"github.com/creasty/defaults"
	"github.com/imdario/mergo"
	"github.com/mitchellh/mapstructure"
	"github.com/spf13/viper"
)

type Config struct {
	RelayConfig   RelayConfig
	Tokens        []TokenConfig
	BridgeConfigs []map[string]interface{}
	Controllers   []map[string]interface{}
	Wrapper       map[string]interface{}
	RelayWrapper  map[string]interface{}
}

type RawConfig struct {
	RelayConfig   RawRelayConfig           `mapstructure:"relay" json:"relay"`
	Tokens        []TokenConfig            `mapstructure:"tokens" json:"tokens"`
	BridgeConfigs []map[string]interface{} `mapstructure:"bridges" json:"bridges"`
	Controllers   []map[string]interface{} `mapstructure:"controllers" json:"controllers"`
	Wrapper       map[string]interface{}   `mapstructure:"wrapper" json:"wrapper"`
	RelayWrapper  map[string]interface{}   `mapstructure:"relayWrapper" json:"relayWrapper"`
}

// RelayConfig holds the process-wide settings shared by every bridge
// connection.
type RelayConfig struct {
	Id                        string
	Env                       string
	LogLevel                  string
	ApiAddr                   string
	HealthPort                uint16
	OpenTelemetryCollectorURL string
	ChainId                   uint64
	Admin                     string
	NativeSymbol              string
}

type RawRelayConfig struct {
	Id                        string `mapstructure:"id" json:"id"`
	Env                       string `mapstructure:"env" json:"env"`
	LogLevel                  string `mapstructure:"logLevel" json:"logLevel" default:"info"`
	ApiAddr                   string `mapstructure:"apiAddr" json:"apiAddr" default:":8080"`
	HealthPort                uint16 `mapstructure:"healthPort" json:"healthPort" default:"9001"`
	OpenTelemetryCollectorURL string `mapstructure:"opentelemetryCollectorURL" json:"opentelemetryCollectorURL"`
	ChainId                   uint64 `mapstructure:"chainId" json:"chainId"`
	Admin                     string `mapstructure:"admin" json:"admin"`
	NativeSymbol              string `mapstructure:"nativeSymbol" json:"nativeSymbol" default:"NATIVE"`
}

func (c *RawConfig) Validate() error {
	if c.RelayConfig.ChainId == 0 {
		return fmt.Errorf("required field relay.ChainId empty")
	}
	if c.RelayConfig.Admin == "" {
		return fmt.Errorf("required field relay.Admin empty")
	}
	for _, bridge := range c.BridgeConfigs {
		if bridge["type"] == "" || bridge["type"] == nil {
			return fmt.Errorf("bridge 'type' must be provided for every configured bridge")
		}
	}
	for _, token := range c.Tokens {
		if token.Symbol == "" {
			return fmt.Errorf("token 'symbol' must be provided for every configured token")
		}
	}
	return nil
}

// GetConfigFromFile reads the configuration at path and merges it on top of
// baseConfig. Values from the file win over the base.
func GetConfigFromFile(path string, baseConfig *Config) (*Config, error) {
	rawConfig := RawConfig{}

	viper.SetConfigFile(path)
	viper.SetConfigType("json")

	err := viper.ReadInConfig()
	if err != nil {
		return baseConfig, err
	}

	err = viper.Unmarshal(&rawConfig)
	if err != nil {
		return baseConfig, err
	}

	return resolveConfig(&rawConfig, baseConfig)
}

// GetConfigFromENV builds configuration from CLX_ prefixed environment
// variables merged on top of baseConfig. Only the relay section can come
// from the environment; bridges, tokens and controllers need a file.
func GetConfigFromENV(baseConfig *Config) (*Config, error) {
	rawConfig := RawConfig{}

	viper.SetEnvPrefix("CLX")
	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	err := loadFromEnv(&rawConfig)
	if err != nil {
		return baseConfig, err
	}

	return resolveConfig(&rawConfig, baseConfig)
}

func resolveConfig(rawConfig *RawConfig, baseConfig *Config) (*Config, error) {
	err := defaults.Set(rawConfig)
	if err != nil {
		return baseConfig, err
	}

	config := newConfig(rawConfig)
	if baseConfig != nil {
		err = mergo.Merge(config, baseConfig)
		if err != nil {
			return baseConfig, err
		}
	}

	raw := rawFromConfig(config)
	err = raw.Validate()
	if err != nil {
		return baseConfig, err
	}

	return config, nil
}

func loadFromEnv(rawConfig *RawConfig) error {
	relay := map[string]interface{}{
		"id":                        viper.Get("RELAY_ID"),
		"env":                       viper.Get("RELAY_ENV"),
		"logLevel":                  viper.Get("RELAY_LOGLEVEL"),
		"apiAddr":                   viper.Get("RELAY_APIADDR"),
		"healthPort":                viper.Get("RELAY_HEALTHPORT"),
		"opentelemetryCollectorURL": viper.Get("RELAY_OPENTELEMETRYCOLLECTORURL"),
		"chainId":                   viper.Get("RELAY_CHAINID"),
		"admin":                     viper.Get("RELAY_ADMIN"),
		"nativeSymbol":              viper.Get("RELAY_NATIVESYMBOL"),
	}
	return mapstructure.Decode(map[string]interface{}{"relay": relay}, rawConfig)
}

func newConfig(raw *RawConfig) *Config {
	return &Config{
		RelayConfig: RelayConfig{
			Id:                        raw.RelayConfig.Id,
			Env:                       raw.RelayConfig.Env,
			LogLevel:                  raw.RelayConfig.LogLevel,
			ApiAddr:                   raw.RelayConfig.ApiAddr,
			HealthPort:                raw.RelayConfig.HealthPort,
			OpenTelemetryCollectorURL: raw.RelayConfig.OpenTelemetryCollectorURL,
			ChainId:                   raw.RelayConfig.ChainId,
			Admin:                     raw.RelayConfig.Admin,
			NativeSymbol:              raw.RelayConfig.NativeSymbol,
		},
		Tokens:        raw.Tokens,
		BridgeConfigs: raw.BridgeConfigs,
		Controllers:   raw.Controllers,
		Wrapper:       raw.Wrapper,
		RelayWrapper:  raw.RelayWrapper,
	}
}

func rawFromConfig(config *Config) *RawConfig {
	return &RawConfig{
		RelayConfig: RawRelayConfig{
			Id:                        config.RelayConfig.Id,
			Env:                       config.RelayConfig.Env,
			LogLevel:                  config.RelayConfig.LogLevel,
			ApiAddr:                   config.RelayConfig.ApiAddr,
			HealthPort:                config.RelayConfig.HealthPort,
			OpenTelemetryCollectorURL: config.RelayConfig.OpenTelemetryCollectorURL,
			ChainId:                   config.RelayConfig.ChainId,
			Admin:                     config.RelayConfig.Admin,
			NativeSymbol:              config.RelayConfig.NativeSymbol,
		},
		Tokens:        config.Tokens,
		BridgeConfigs: config.BridgeConfigs,
		Controllers:   config.Controllers,
		Wrapper:       config.Wrapper,
		RelayWrapper:  config.RelayWrapper,
	}
}
