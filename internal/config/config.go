// Package config loads engine settings from flags, AUCTION_* environment
// variables and defaults, in that order of precedence.
package config

import (
	"fmt"
	"strings"
	"time"

	"auction-engine/internal/auctionerrors"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// EnvPrefix is prepended to every environment variable name
const EnvPrefix = "AUCTION"

// Config holds every engine setting
type Config struct {
	Port          int
	LogLevel      string
	BidWindow     time.Duration
	TickInterval  time.Duration
	CodeAttempts  int
	MySQLDSN      string
	AMQPURL       string
	AMQPExchange  string
	VerifiedUsers []string
}

// Default returns the settings used when nothing is configured
func Default() Config {
	return Config{
		Port:         8080,
		LogLevel:     "info",
		BidWindow:    15 * time.Second,
		TickInterval: time.Second,
		CodeAttempts: 10,
		AMQPExchange: "auction_events",
	}
}

// New returns a viper instance reading AUCTION_* variables with defaults set
func New() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	d := Default()
	v.SetDefault("port", d.Port)
	v.SetDefault("log_level", d.LogLevel)
	v.SetDefault("bid_window", d.BidWindow)
	v.SetDefault("tick_interval", d.TickInterval)
	v.SetDefault("code_attempts", d.CodeAttempts)
	v.SetDefault("mysql_dsn", d.MySQLDSN)
	v.SetDefault("amqp_url", d.AMQPURL)
	v.SetDefault("amqp_exchange", d.AMQPExchange)
	v.SetDefault("verified_users", "")
	return v
}

// RegisterFlags adds a flag for each setting and binds it into v
func RegisterFlags(flags *pflag.FlagSet, v *viper.Viper) error {
	d := Default()
	flags.Int("port", d.Port, "HTTP listen port")
	flags.String("log-level", d.LogLevel, "log level: debug, info, warn, error")
	flags.Duration("bid-window", d.BidWindow, "countdown restarted by every new highest bid")
	flags.Duration("tick-interval", d.TickInterval, "how often lot countdowns are checked")
	flags.Int("code-attempts", d.CodeAttempts, "join code draws before auction creation fails")
	flags.String("mysql-dsn", d.MySQLDSN, "MySQL DSN for snapshots; empty keeps them in memory")
	flags.String("amqp-url", d.AMQPURL, "RabbitMQ URL for the roster feed; empty disables it")
	flags.String("amqp-exchange", d.AMQPExchange, "topic exchange the roster feed publishes to")
	flags.String("verified-users", "", "comma separated user ids registered as verified at startup")

	for _, name := range []string{
		"port", "log-level", "bid-window", "tick-interval", "code-attempts",
		"mysql-dsn", "amqp-url", "amqp-exchange", "verified-users",
	} {
		if err := v.BindPFlag(strings.ReplaceAll(name, "-", "_"), flags.Lookup(name)); err != nil {
			return fmt.Errorf("config: bind flag %s: %w", name, err)
		}
	}
	return nil
}

// Load reads and validates the settings held by v
func Load(v *viper.Viper) (Config, error) {
	cfg := Config{
		Port:          v.GetInt("port"),
		LogLevel:      strings.ToLower(strings.TrimSpace(v.GetString("log_level"))),
		BidWindow:     v.GetDuration("bid_window"),
		TickInterval:  v.GetDuration("tick_interval"),
		CodeAttempts:  v.GetInt("code_attempts"),
		MySQLDSN:      strings.TrimSpace(v.GetString("mysql_dsn")),
		AMQPURL:       strings.TrimSpace(v.GetString("amqp_url")),
		AMQPExchange:  strings.TrimSpace(v.GetString("amqp_exchange")),
		VerifiedUsers: splitList(v.GetString("verified_users")),
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate reports the first invalid setting
func (c Config) Validate() error {
	switch {
	case c.Port <= 0 || c.Port > 65535:
		return fmt.Errorf("config: %w - port %d out of range", auctionerrors.ErrInvalidConfig, c.Port)
	case c.BidWindow <= 0:
		return fmt.Errorf("config: %w - bid window must be positive", auctionerrors.ErrInvalidConfig)
	case c.TickInterval <= 0:
		return fmt.Errorf("config: %w - tick interval must be positive", auctionerrors.ErrInvalidConfig)
	case c.TickInterval > c.BidWindow:
		return fmt.Errorf("config: %w - tick interval %s exceeds bid window %s", auctionerrors.ErrInvalidConfig, c.TickInterval, c.BidWindow)
	case c.CodeAttempts <= 0:
		return fmt.Errorf("config: %w - code attempts must be positive", auctionerrors.ErrInvalidConfig)
	case c.AMQPURL != "" && c.AMQPExchange == "":
		return fmt.Errorf("config: %w - amqp exchange is required with an amqp url", auctionerrors.ErrInvalidConfig)
	}
	switch c.LogLevel {
	case "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("config: %w - unknown log level %q", auctionerrors.ErrInvalidConfig, c.LogLevel)
	}
	return nil
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
