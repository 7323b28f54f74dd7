// The Licensed Work is (c) 2026 Crosslink
// SPDX-License-Identifier: LGPL-3.0-only

package app

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/ethereum/go-ethereum/common"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
	"github.com/sygmaprotocol/sygma-core/observability"
	"github.com/sygmaprotocol/sygma-core/relayer/message"
	"github.com/sygmaprotocol/sygma-core/store/lvldb"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"

	"github.com/crosslinktech/crosslink-relay/access"
	"github.com/crosslinktech/crosslink-relay/adapters"
	"github.com/crosslinktech/crosslink-relay/adapters/axelar"
	"github.com/crosslinktech/crosslink-relay/adapters/ccip"
	"github.com/crosslinktech/crosslink-relay/adapters/connext"
	"github.com/crosslinktech/crosslink-relay/adapters/hyperlane"
	"github.com/crosslinktech/crosslink-relay/adapters/layerzero"
	"github.com/crosslinktech/crosslink-relay/adapters/optimism"
	"github.com/crosslinktech/crosslink-relay/adapters/polymer"
	"github.com/crosslinktech/crosslink-relay/adapters/wormhole"
	"github.com/crosslinktech/crosslink-relay/api"
	"github.com/crosslinktech/crosslink-relay/api/handlers"
	"github.com/crosslinktech/crosslink-relay/cache"
	"github.com/crosslinktech/crosslink-relay/config"
	"github.com/crosslinktech/crosslink-relay/controller"
	"github.com/crosslinktech/crosslink-relay/fees"
	"github.com/crosslinktech/crosslink-relay/health"
	"github.com/crosslinktech/crosslink-relay/ledger"
	"github.com/crosslinktech/crosslink-relay/metrics"
	"github.com/crosslinktech/crosslink-relay/relay"
	"github.com/crosslinktech/crosslink-relay/store"
)

var Version string

func Run() error {
	var err error

	configFlag := viper.GetString(config.ConfigFlagName)

	var configuration *config.Config
	if strings.ToLower(configFlag) == "env" {
		configuration, err = config.GetConfigFromENV(nil)
		panicOnError(err)
	} else {
		configuration, err = config.GetConfigFromFile(configFlag, nil)
		panicOnError(err)
	}

	logLevel, err := zerolog.ParseLevel(configuration.RelayConfig.LogLevel)
	panicOnError(err)
	observability.ConfigureLogger(logLevel, os.Stdout)

	log.Info().Msg("Successfully loaded configuration")

	admin := common.HexToAddress(configuration.RelayConfig.Admin)
	acl := access.NewControl(admin)
	chainID := configuration.RelayConfig.ChainId

	go health.StartHealthEndpoint(configuration.RelayConfig.HealthPort)

	db, err := lvldb.NewLvlDB(viper.GetString(config.BlockstoreFlagName))
	panicOnError(err)
	transfers := store.NewTransferStore(db)

	mp, err := observability.InitMetricProvider(context.Background(), configuration.RelayConfig.OpenTelemetryCollectorURL)
	panicOnError(err)
	defer func() {
		if err := mp.Shutdown(context.Background()); err != nil {
			log.Error().Msgf("Error shutting down meter provider: %v", err)
		}
	}()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	relayMetrics, err := metrics.NewRelayMetrics(
		mp.Meter("relay-metric-provider"),
		metric.WithAttributes(
			attribute.String("relay.env", configuration.RelayConfig.Env),
			attribute.String("relay.id", configuration.RelayConfig.Id),
			attribute.String("relay.version", Version),
		))
	panicOnError(err)

	native := ledger.NewTokenLedger(configuration.RelayConfig.NativeSymbol)
	tokenStore := config.NewTokenStore(configuration.Tokens)
	ledgers := make(map[string]ledger.Ledger)
	for symbol, tokenConfig := range tokenStore.Tokens {
		l := ledger.NewTokenLedger(symbol)
		l.TaxBps = tokenConfig.TaxBps
		ledgers[symbol] = l
	}

	adapterMap := make(map[common.Address]*adapters.Adapter)
	adapterQuoters := make(map[common.Address]handlers.AdapterQuoter)
	for _, bridgeConfig := range configuration.BridgeConfigs {
		cfg, err := adapters.NewBridgeConfig(bridgeConfig)
		panicOnError(err)

		transport, err := newTransport(cfg)
		panicOnError(err)

		a, err := adapters.NewAdapter(
			cfg.Adapter,
			transport,
			native,
			cache.NewDeliveryCache(cfg.Adapter.Address, transfers),
			acl,
			relayMetrics,
		)
		panicOnError(err)

		if len(cfg.DomainIDs) > 0 {
			panicOnError(a.SetDomainIDs(admin, cfg.DomainIDs, cfg.ChainIDs))
		}
		for trustedChainID, trusted := range cfg.TrustedAdapters {
			panicOnError(a.SetTrustedAdapter(admin, trustedChainID, trusted))
		}

		adapterMap[a.Address()] = a
		adapterQuoters[a.Address()] = a
		log.Info().
			Str("bridge", cfg.GeneralBridgeConfig.Name).
			Str("type", cfg.GeneralBridgeConfig.Type).
			Msgf("Registered adapter at %s", a.Address())
	}

	supportedChains := make(map[uint64]struct{})
	controllers := make(map[common.Address]*controller.Controller)
	for _, controllerConfig := range configuration.Controllers {
		cfg, err := controller.NewControllerConfig(controllerConfig)
		panicOnError(err)

		tokenLedger, ok := ledgers[cfg.Token]
		if !ok {
			panic(fmt.Errorf("no token configured with symbol %s", cfg.Token))
		}

		ctrl := controller.NewController(cfg.Address, chainID, cfg.Token, cfg.Mode, tokenLedger, native, transfers, acl)
		for remoteChainID, remote := range cfg.Remotes {
			panicOnError(ctrl.SetRemoteController(admin, remoteChainID, remote))
			supportedChains[remoteChainID] = struct{}{}
		}
		for limitChainID, limit := range cfg.Limits {
			panicOnError(ctrl.SetLimits(admin, limitChainID, limit.SendCap, limit.ReceiveCap))
		}
		for _, adapterAddress := range cfg.Adapters {
			a, ok := adapterMap[adapterAddress]
			if !ok {
				panic(fmt.Errorf("no adapter configured at %s", adapterAddress))
			}
			panicOnError(ctrl.SetAdapter(admin, a, true))
			a.RegisterController(cfg.Address, ctrl)
		}

		controllers[cfg.Address] = ctrl
		log.Info().
			Str("token", cfg.Token).
			Msgf("Registered controller at %s", cfg.Address)
	}

	destinationChains := maps.Keys(supportedChains)
	slices.Sort(destinationChains)
	log.Info().Msgf("Supported destination chains: %v", destinationChains)

	var wrapper *controller.Wrapper
	var quoteHandler *handlers.QuoteHandler
	if configuration.Wrapper != nil {
		cfg, err := controller.NewWrapperConfig(configuration.Wrapper)
		panicOnError(err)

		wrapper = controller.NewWrapper(cfg.Address, cfg.Treasury, native, acl)
		for premiumChainID, bps := range cfg.Premiums {
			panicOnError(wrapper.SetDestChainPremiumRate(admin, premiumChainID, bps))
		}
		for _, wrapped := range cfg.Controllers {
			ctrl, ok := controllers[wrapped.Address]
			if !ok {
				panic(fmt.Errorf("no controller configured at %s", wrapped.Address))
			}
			panicOnError(wrapper.RegisterController(admin, ctrl))
			panicOnError(wrapper.SetFeeRate(admin, wrapped.Address, wrapped.FlatRateBps))
			for tierChainID, tiers := range wrapped.Tiers {
				panicOnError(wrapper.SetControllerFeeTiers(admin, wrapped.Address, tierChainID, tiers))
			}
		}

		quoteHandler = handlers.NewQuoteHandler(wrapper)
		log.Info().Msgf("Registered controller wrapper at %s", cfg.Address)
	}

	var depositHandler *handlers.DepositHandler
	if configuration.RelayWrapper != nil {
		cfg, err := controller.NewRelayWrapperConfig(configuration.RelayWrapper)
		panicOnError(err)

		ctrl, ok := controllers[cfg.Controller]
		if !ok {
			panic(fmt.Errorf("no controller configured at %s", cfg.Controller))
		}
		tokenLedger, ok := ledgers[cfg.Token]
		if !ok {
			panic(fmt.Errorf("no token configured with symbol %s", cfg.Token))
		}

		target := controller.NewDepositAdapter(ctrl, cfg.Address, cfg.Adapter, cfg.RelayFee)
		relayWrapper, err := controller.NewRelayWrapper(cfg.Address, cfg.Treasury, tokenLedger, target, cfg.RateBps, acl)
		panicOnError(err)

		depositHandler = handlers.NewDepositHandler(relayWrapper)
		log.Info().Msgf("Registered relay wrapper at %s with rate %d/%d", cfg.Address, cfg.RateBps, fees.FeeDecimals)
	}

	msgChan := make(chan []*message.Message)
	mh := message.NewMessageHandler()
	mh.RegisterMessageHandler(relay.TransferRequestMessage, controller.NewTransferMessageHandler(controllers, wrapper))
	mh.RegisterMessageHandler(relay.ResendRequestMessage, controller.NewResendMessageHandler(controllers))

	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case msgs := <-msgChan:
				for _, m := range msgs {
					go func(m *message.Message) {
						if _, err := mh.HandleMessage(m); err != nil {
							log.Err(err).Msgf("Failed handling %s message", m.Type)
						}
					}(m)
				}
			}
		}
	}()

	pausableAdapters := make(map[common.Address]handlers.Pausable)
	for address, a := range adapterMap {
		pausableAdapters[address] = a
	}
	pausableControllers := make(map[common.Address]handlers.Pausable)
	for address, ctrl := range controllers {
		pausableControllers[address] = ctrl
	}
	adminHandler := handlers.NewAdminHandler(pausableAdapters, pausableControllers)

	transferHandler := handlers.NewTransferHandler(msgChan, chainID, supportedChains)
	resendHandler := handlers.NewResendHandler(msgChan, chainID)
	relayQuoteHandler := handlers.NewRelayQuoteHandler(adapterQuoters)
	go api.Serve(ctx, configuration.RelayConfig.ApiAddr, transferHandler, resendHandler, quoteHandler, relayQuoteHandler, depositHandler, adminHandler)

	sysErr := make(chan os.Signal, 1)
	signal.Notify(sysErr,
		syscall.SIGTERM,
		syscall.SIGINT,
		syscall.SIGHUP,
		syscall.SIGQUIT)

	relayName := viper.GetString("name")
	log.Info().Msgf("Started relay: %s on chain %d. Version: v%s", relayName, chainID, Version)

	sig := <-sysErr
	log.Info().Msgf("terminating got ` [%v] signal", sig)
	return nil
}

func newTransport(cfg *adapters.BridgeConfig) (adapters.Transport, error) {
	endpoint := cfg.GeneralBridgeConfig.Endpoint
	switch cfg.GeneralBridgeConfig.Type {
	case "axelar":
		client := axelar.NewClient(endpoint)
		return axelar.NewTransport(client, client, cfg.ChainNames), nil
	case "ccip":
		return ccip.NewTransport(ccip.NewClient(endpoint)), nil
	case "connext":
		return connext.NewTransport(connext.NewClient(endpoint), cfg.Bridge), nil
	case "hyperlane":
		return hyperlane.NewTransport(hyperlane.NewClient(endpoint), cfg.Bridge), nil
	case "layerzero":
		return layerzero.NewTransport(layerzero.NewClient(endpoint), cfg.Bridge), nil
	case "optimism":
		return optimism.NewTransport(optimism.NewClient(endpoint), cfg.Bridge, cfg.PeerDomain), nil
	case "polymer":
		return polymer.NewTransport(polymer.NewClient(endpoint)), nil
	case "wormhole":
		return wormhole.NewTransport(wormhole.NewClient(endpoint), cfg.Bridge), nil
	default:
		return nil, fmt.Errorf("type '%s' not recognized", cfg.GeneralBridgeConfig.Type)
	}
}

func panicOnError(err error) {
	if err != nil {
		panic(err)
	}
}
