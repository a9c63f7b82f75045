package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/viper"
)

const (
	// ListeningPortKey is the port where the HTTP checkout interface will listen on
	ListeningPortKey = "LISTENING_PORT"
	// DatadirKey is the local data directory to store the internal state of the daemon
	DatadirKey = "DATADIR"
	// LogLevelKey are the different logging levels. For reference on the values https://godoc.org/github.com/sirupsen/logrus#Level
	LogLevelKey = "LOG_LEVEL"
	// DBTypeKey is used to switch database type between those supported (badger, inmemory)
	DBTypeKey = "DB_TYPE"
	// FiatCurrencyKey is the merchant's pricing currency
	FiatCurrencyKey = "FIAT_CURRENCY"
	// SlippageCeilingKey is the maximum acceptable slippage bound (in percentage) for a swap preview
	SlippageCeilingKey = "SLIPPAGE_CEILING"
	// QuoteExpiryTimeKey is the duration in seconds a stored quote stays valid for confirmation
	QuoteExpiryTimeKey = "QUOTE_EXPIRY_TIME"
	// CollaboratorTimeoutKey is the timeout in seconds applied to every outbound collaborator call
	CollaboratorTimeoutKey = "COLLABORATOR_TIMEOUT"
	// PreferredSourceAssetsKey is the ordered list of assets to pay with when the wallet holds more than one
	PreferredSourceAssetsKey = "PREFERRED_SOURCE_ASSETS"
	// PriceOracleAddrKey is the endpoint of the external rate oracle. Empty means the built-in static table
	PriceOracleAddrKey = "PRICE_ORACLE_ADDR"
	// SwapRouterAddrKey is the endpoint of the external swap simulator. Empty means the built-in static table
	SwapRouterAddrKey = "SWAP_ROUTER_ADDR"
	// SettlementAddrKey is the endpoint of the settlement gateway. Empty means the built-in fake gateway
	SettlementAddrKey = "SETTLEMENT_ADDR"
	// WalletAddrKey is the endpoint of the wallet horizon used for asset detection. Empty means the built-in demo wallet
	WalletAddrKey = "WALLET_ADDR"
	// TrackerWebhooksKey is the list of endpoints notified of every settled purchase
	TrackerWebhooksKey = "TRACKER_WEBHOOKS"
	// EnableProfilerKey enables periodic runtime statistics logging
	EnableProfilerKey = "ENABLE_PROFILER"
	// StatsIntervalKey defines interval in seconds for printing basic daemon statistics
	StatsIntervalKey = "STATS_INTERVAL"

	// DBBadger ...
	DBBadger = "badger"
	// DBInMemory ...
	DBInMemory = "inmemory"

	// DbLocation ...
	DbLocation = "db"
	// ProfilerLocation ...
	ProfilerLocation = "stats"
)

var vip *viper.Viper

func InitConfig() error {
	vip = viper.New()
	vip.SetEnvPrefix("CHECKOUT")
	vip.AutomaticEnv()

	vip.SetDefault(ListeningPortKey, 9945)
	vip.SetDefault(LogLevelKey, 4)
	vip.SetDefault(DatadirKey, defaultDatadir())
	vip.SetDefault(DBTypeKey, DBBadger)
	vip.SetDefault(FiatCurrencyKey, "BRL")
	vip.SetDefault(SlippageCeilingKey, "0.4")
	vip.SetDefault(QuoteExpiryTimeKey, 120)
	vip.SetDefault(CollaboratorTimeoutKey, 15)
	vip.SetDefault(PreferredSourceAssetsKey, []string{"AQUA", "XLM"})
	vip.SetDefault(EnableProfilerKey, false)
	vip.SetDefault(StatsIntervalKey, 600)

	if err := validate(); err != nil {
		return fmt.Errorf("error while validating config: %s", err)
	}

	if err := initDatadir(); err != nil {
		return fmt.Errorf("error while creating datadir: %s", err)
	}

	return nil
}

func GetString(key string) string {
	return vip.GetString(key)
}

func GetInt(key string) int {
	return vip.GetInt(key)
}

func GetStringSlice(key string) []string {
	return vip.GetStringSlice(key)
}

func GetBool(key string) bool {
	return vip.GetBool(key)
}

func GetSeconds(key string) time.Duration {
	return time.Duration(vip.GetInt(key)) * time.Second
}

func GetDatadir() string {
	return GetString(DatadirKey)
}

func validate() error {
	datadir := GetString(DatadirKey)
	if len(datadir) <= 0 {
		return fmt.Errorf("missing datadir")
	}

	switch dbType := GetString(DBTypeKey); dbType {
	case DBBadger, DBInMemory:
	default:
		return fmt.Errorf("unsupported database type %s", dbType)
	}

	if GetInt(QuoteExpiryTimeKey) <= 0 {
		return fmt.Errorf("%s must be a positive number of seconds", QuoteExpiryTimeKey)
	}
	if GetInt(CollaboratorTimeoutKey) <= 0 {
		return fmt.Errorf("%s must be a positive number of seconds", CollaboratorTimeoutKey)
	}

	return nil
}

func defaultDatadir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".checkout-daemon"
	}
	return filepath.Join(home, ".checkout-daemon")
}

func initDatadir() error {
	datadir := GetDatadir()
	if err := makeDirectoryIfNotExists(filepath.Join(datadir, DbLocation)); err != nil {
		return err
	}

	if GetBool(EnableProfilerKey) {
		if err := makeDirectoryIfNotExists(filepath.Join(datadir, ProfilerLocation)); err != nil {
			return err
		}
	}
	return nil
}

func makeDirectoryIfNotExists(path string) error {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return os.MkdirAll(path, os.ModeDir|0755)
	}
	return nil
}
