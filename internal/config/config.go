package config

import (
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	App    AppConfig    `mapstructure:"app"`
	Server ServerConfig `mapstructure:"server"`
	Log    LogConfig    `mapstructure:"log"`
	DB     DBConfig     `mapstructure:"db"`
	Oracle OracleConfig `mapstructure:"oracle"`
	Raffle RaffleConfig `mapstructure:"raffle"`
	Cron   CronConfig   `mapstructure:"cron"`
	Stream StreamConfig `mapstructure:"stream"`
}

type AppConfig struct {
	Env string `mapstructure:"env"`
}

type ServerConfig struct {
	HTTPAddr string `mapstructure:"http_addr"`
}

type LogConfig struct {
	Level             string `mapstructure:"level"`
	Encoding          string `mapstructure:"encoding"`
	Development       bool   `mapstructure:"development"`
	DisableCaller     bool   `mapstructure:"disable_caller"`
	DisableStacktrace bool   `mapstructure:"disable_stacktrace"`
}

type DBConfig struct {
	Driver          string        `mapstructure:"driver"`
	DSN             string        `mapstructure:"dsn"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
	ConnMaxIdleTime time.Duration `mapstructure:"conn_max_idle_time"`
}

type OracleConfig struct {
	BaseURL string        `mapstructure:"base_url"`
	Timeout time.Duration `mapstructure:"timeout"`
	// PendingTTL bounds how long a creation may sit unresolved before the
	// sweeper aborts it.
	PendingTTL time.Duration `mapstructure:"pending_ttl"`
}

type RaffleConfig struct {
	// CustodianAccount is the holder the oracle must report for a prize asset
	// before a raffle commits.
	CustodianAccount string `mapstructure:"custodian_account"`
	// OperatorAccount may close raffles besides their creators; the sweeper
	// closes as this account.
	OperatorAccount string `mapstructure:"operator_account"`
	// EscrowAccount briefly holds each attached payment while it is split.
	EscrowAccount string `mapstructure:"escrow_account"`
	// FeeAccount collects storage-cost and duplicate-entry retentions.
	FeeAccount string `mapstructure:"fee_account"`

	// StorageCost is deducted from every forwarded ticket price.
	StorageCost uint64 `mapstructure:"storage_cost"`
	// DuplicateFee is retained from the refund of a rejected duplicate entry.
	DuplicateFee uint64 `mapstructure:"duplicate_fee"`

	DrawPolicy    string `mapstructure:"draw_policy"`     // with_replacement | without_replacement
	EndTimePolicy string `mapstructure:"end_time_policy"` // strict | advisory
	AutoClose     bool   `mapstructure:"auto_close"`
}

type CronConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Sweep   string `mapstructure:"sweep"`
}

type StreamConfig struct {
	Enabled bool `mapstructure:"enabled"`
	Buffer  int  `mapstructure:"buffer"`
}

func Load(path string, envOnly bool) (Config, error) {
	v := viper.New()
	v.SetEnvPrefix("RL")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	v.AutomaticEnv()

	v.SetDefault("app.env", "dev")
	v.SetDefault("server.http_addr", ":8080")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.encoding", "console")
	v.SetDefault("log.development", true)
	v.SetDefault("log.disable_caller", false)
	v.SetDefault("log.disable_stacktrace", false)
	v.SetDefault("db.driver", "sqlite")
	v.SetDefault("db.dsn", "raffleland.db")
	v.SetDefault("db.max_open_conns", 20)
	v.SetDefault("db.max_idle_conns", 5)
	v.SetDefault("db.conn_max_lifetime", "30m")
	v.SetDefault("db.conn_max_idle_time", "5m")
	v.SetDefault("oracle.base_url", "http://localhost:9090")
	v.SetDefault("oracle.timeout", "15s")
	v.SetDefault("oracle.pending_ttl", "10m")
	v.SetDefault("raffle.custodian_account", "custodian.raffleland")
	v.SetDefault("raffle.operator_account", "operator.raffleland")
	v.SetDefault("raffle.escrow_account", "escrow.raffleland")
	v.SetDefault("raffle.fee_account", "fees.raffleland")
	v.SetDefault("raffle.storage_cost", 10)
	v.SetDefault("raffle.duplicate_fee", 1)
	v.SetDefault("raffle.draw_policy", "without_replacement")
	v.SetDefault("raffle.end_time_policy", "advisory")
	v.SetDefault("raffle.auto_close", true)
	v.SetDefault("cron.enabled", true)
	v.SetDefault("cron.sweep", "@every 1m")
	v.SetDefault("stream.enabled", true)
	v.SetDefault("stream.buffer", 64)

	if !envOnly {
		if err := v.ReadInConfig(); err != nil {
			return Config{}, err
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, err
	}

	return cfg, nil
}
