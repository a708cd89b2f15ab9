package config

import (
	"errors"
	"fmt"
	"strings"
	"sync/atomic"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

// EarningsConfig tunes the earnings read paths. It is reloaded without restart.
type EarningsConfig struct {
	Timezone        string `mapstructure:"timezone"`
	DefaultPageSize int    `mapstructure:"defaultPageSize"`
	MaxPageSize     int    `mapstructure:"maxPageSize"`
	DashboardRange  string `mapstructure:"dashboardRange"`
}

func DefaultEarningsConfig() EarningsConfig {
	return EarningsConfig{
		Timezone:        "Local",
		DefaultPageSize: 10,
		MaxPageSize:     100,
		DashboardRange:  "week",
	}
}

// Location resolves the timezone used for day and month windows.
func (c EarningsConfig) Location() *time.Location {
	loc, err := time.LoadLocation(strings.TrimSpace(c.Timezone))
	if err != nil {
		return time.Local
	}
	return loc
}

type EarningsConfigHolder struct {
	current atomic.Value // holds EarningsConfig
}

// NewStaticEarningsConfigHolder returns a holder that never reloads.
func NewStaticEarningsConfigHolder(cfg EarningsConfig) *EarningsConfigHolder {
	holder := &EarningsConfigHolder{}
	holder.current.Store(cfg)
	return holder
}

func NewEarningsConfigHolder(log *zap.Logger) (*EarningsConfigHolder, error) {
	log = log.Named("config.earnings")
	v := viper.New()

	v.SetConfigName("earnings")
	v.SetConfigType("yml")
	v.AddConfigPath("/var/lib/yieldbook/config")
	v.AddConfigPath("/etc/yieldbook")
	v.AddConfigPath(".")

	v.SetEnvPrefix("YIELDBOOK")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	defaults := DefaultEarningsConfig()
	v.SetDefault("earnings.timezone", defaults.Timezone)
	v.SetDefault("earnings.defaultPageSize", defaults.DefaultPageSize)
	v.SetDefault("earnings.maxPageSize", defaults.MaxPageSize)
	v.SetDefault("earnings.dashboardRange", defaults.DashboardRange)

	fileLoaded := true
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
		fileLoaded = false
	}

	var cfg EarningsConfig
	if err := v.UnmarshalKey("earnings", &cfg); err != nil {
		return nil, err
	}
	if err := validateEarningsConfig(cfg); err != nil {
		return nil, err
	}

	holder := NewStaticEarningsConfigHolder(cfg)
	if !fileLoaded {
		log.Info("earnings config file not found, using defaults")
		return holder, nil
	}

	v.WatchConfig()
	v.OnConfigChange(func(e fsnotify.Event) {
		var updated EarningsConfig
		if err := v.UnmarshalKey("earnings", &updated); err != nil {
			log.Warn("earnings config reload failed", zap.Error(err))
			return
		}
		if err := validateEarningsConfig(updated); err != nil {
			log.Warn("invalid earnings config ignored", zap.Error(err))
			return
		}
		holder.current.Store(updated)
		log.Info("earnings config reloaded", zap.String("file", e.Name))
	})

	return holder, nil
}

func (h *EarningsConfigHolder) Get() EarningsConfig {
	if h == nil {
		return DefaultEarningsConfig()
	}
	cfg, ok := h.current.Load().(EarningsConfig)
	if !ok {
		return DefaultEarningsConfig()
	}
	return cfg
}

func validateEarningsConfig(cfg EarningsConfig) error {
	if cfg.DefaultPageSize <= 0 {
		return errors.New("earnings.defaultPageSize must be positive")
	}
	if cfg.MaxPageSize < cfg.DefaultPageSize {
		return errors.New("earnings.maxPageSize cannot be below earnings.defaultPageSize")
	}
	if _, err := time.LoadLocation(strings.TrimSpace(cfg.Timezone)); err != nil {
		return fmt.Errorf("earnings.timezone: %w", err)
	}
	switch strings.ToLower(strings.TrimSpace(cfg.DashboardRange)) {
	case "week", "month", "year":
	default:
		return fmt.Errorf("earnings.dashboardRange %q is not one of week, month, year", cfg.DashboardRange)
	}
	return nil
}
