package config

import (
	"fmt"
	"time"
)

// PriceRangeConfig is the initial inclusive price filter
type PriceRangeConfig struct {
	Min float64 `yaml:"min"`
	Max float64 `yaml:"max"`
}

// DashboardConfig configures session timing and defaults
type DashboardConfig struct {
	TransitionDuration time.Duration    `yaml:"transition_duration"`
	TransitionDecimals int32            `yaml:"transition_decimals"`
	HighlightDuration  time.Duration    `yaml:"highlight_duration"`
	DefaultPriceRange  PriceRangeConfig `yaml:"default_price_range"`
	NotificationsLimit int              `yaml:"notifications_limit"`
}

func GetDefaultDashboardConfig() DashboardConfig {
	return DashboardConfig{
		TransitionDuration: time.Second,
		TransitionDecimals: 2,
		HighlightDuration:  2 * time.Second,
		DefaultPriceRange:  PriceRangeConfig{Min: 0, Max: 1_000_000},
		NotificationsLimit: 20,
	}
}

func (c *DashboardConfig) Validate() error {
	if c.TransitionDuration <= 0 || c.HighlightDuration <= 0 {
		return fmt.Errorf("dashboard: transition_duration and highlight_duration must be greater than 0")
	}
	if c.TransitionDecimals < 0 {
		return fmt.Errorf("dashboard: transition_decimals cannot be negative")
	}
	if c.DefaultPriceRange.Max < c.DefaultPriceRange.Min {
		return fmt.Errorf("dashboard: default_price_range max (%v) must be >= min (%v)",
			c.DefaultPriceRange.Max, c.DefaultPriceRange.Min)
	}
	return nil
}
