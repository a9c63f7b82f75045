package main

import (
	"context"
	"fmt"
	"net/http"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"

	"github.com/chatcheckout/checkout-daemon/internal/config"
	"github.com/chatcheckout/checkout-daemon/internal/core/application"
	"github.com/chatcheckout/checkout-daemon/internal/core/ports"
	"github.com/chatcheckout/checkout-daemon/internal/infrastructure/priceoracle"
	"github.com/chatcheckout/checkout-daemon/internal/infrastructure/settlement"
	dbbadger "github.com/chatcheckout/checkout-daemon/internal/infrastructure/storage/db/badger"
	"github.com/chatcheckout/checkout-daemon/internal/infrastructure/storage/db/inmemory"
	"github.com/chatcheckout/checkout-daemon/internal/infrastructure/swaprouter"
	"github.com/chatcheckout/checkout-daemon/internal/infrastructure/tracker"
	"github.com/chatcheckout/checkout-daemon/internal/infrastructure/wallet"
	httpinterface "github.com/chatcheckout/checkout-daemon/internal/interfaces/http"
	"github.com/chatcheckout/checkout-daemon/pkg/stats"
)

func main() {
	if err := config.InitConfig(); err != nil {
		log.WithError(err).Fatal("invalid configuration")
	}
	log.SetLevel(log.Level(config.GetInt(config.LogLevelKey)))

	repoManager, err := newRepoManager()
	if err != nil {
		log.WithError(err).Fatal("error while opening database")
	}
	defer repoManager.Close()

	collaboratorTimeout := config.GetSeconds(config.CollaboratorTimeoutKey)

	slippageCeiling, err := decimal.NewFromString(
		config.GetString(config.SlippageCeilingKey),
	)
	if err != nil {
		log.WithError(err).Fatal("invalid slippage ceiling")
	}

	checkoutSvc := application.NewCheckoutService(
		repoManager,
		newAssetDetector(collaboratorTimeout),
		newPriceSource(collaboratorTimeout),
		newSwapRouter(collaboratorTimeout),
		newSettlementService(collaboratorTimeout),
		tracker.NewService(
			config.GetStringSlice(config.TrackerWebhooksKey), collaboratorTimeout,
		),
		application.CheckoutConfig{
			SlippageCeilingPct:    slippageCeiling,
			QuoteTTL:              config.GetSeconds(config.QuoteExpiryTimeKey),
			CollaboratorTimeout:   collaboratorTimeout,
			FiatCurrency:          config.GetString(config.FiatCurrencyKey),
			PreferredSourceAssets: config.GetStringSlice(config.PreferredSourceAssetsKey),
		},
	)

	addr := fmt.Sprintf(":%d", config.GetInt(config.ListeningPortKey))
	server := &http.Server{
		Addr:    addr,
		Handler: httpinterface.NewRouter(checkoutSvc),
	}

	ctx, stop := signal.NotifyContext(
		context.Background(), syscall.SIGTERM, syscall.SIGINT,
	)
	defer stop()

	if config.GetBool(config.EnableProfilerKey) {
		stats.EnableRuntimeStatistics(
			ctx,
			config.GetSeconds(config.StatsIntervalKey),
			filepath.Join(config.GetDatadir(), config.ProfilerLocation, "stats"),
		)
	}

	go func() {
		log.Infof("checkout interface is listening on %s", addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.WithError(err).Fatal("error listening on checkout interface")
		}
	}()

	<-ctx.Done()
	log.Debug("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Warn("error while shutting down server")
	}

	log.Debug("exiting")
}

func newRepoManager() (ports.RepoManager, error) {
	switch config.GetString(config.DBTypeKey) {
	case config.DBInMemory:
		return inmemory.NewRepoManager(), nil
	default:
		dbDir := filepath.Join(config.GetDatadir(), config.DbLocation)
		return dbbadger.NewRepoManager(dbDir, nil)
	}
}

func newAssetDetector(timeout time.Duration) ports.AssetDetector {
	if addr := config.GetString(config.WalletAddrKey); len(addr) > 0 {
		return wallet.NewHTTPAssetDetector(addr, timeout)
	}
	log.Info("no wallet endpoint configured, using demo asset detector")
	return wallet.NewStaticAssetDetector(nil)
}

func newPriceSource(timeout time.Duration) ports.PriceSource {
	if addr := config.GetString(config.PriceOracleAddrKey); len(addr) > 0 {
		return priceoracle.NewHTTPPriceSource(addr, timeout)
	}
	log.Info("no price oracle configured, using static rate table")
	return priceoracle.NewStaticPriceSource(nil)
}

func newSwapRouter(timeout time.Duration) ports.SwapRouter {
	if addr := config.GetString(config.SwapRouterAddrKey); len(addr) > 0 {
		return swaprouter.NewHTTPSwapRouter(addr, timeout)
	}
	log.Info("no swap router configured, using static conversion table")
	return swaprouter.NewStaticSwapRouter(
		nil, decimal.RequireFromString("0.3"),
	)
}

func newSettlementService(timeout time.Duration) ports.SettlementService {
	if addr := config.GetString(config.SettlementAddrKey); len(addr) > 0 {
		return settlement.NewHTTPSettlementService(addr, timeout)
	}
	log.Warn("no settlement gateway configured, using fake settlement service")
	return settlement.NewStaticSettlementService()
}
