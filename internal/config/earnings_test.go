package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateEarningsConfig(t *testing.T) {
	require.NoError(t, validateEarningsConfig(DefaultEarningsConfig()))

	cfg := DefaultEarningsConfig()
	cfg.DefaultPageSize = 0
	assert.Error(t, validateEarningsConfig(cfg))

	cfg = DefaultEarningsConfig()
	cfg.MaxPageSize = 5
	assert.Error(t, validateEarningsConfig(cfg))

	cfg = DefaultEarningsConfig()
	cfg.Timezone = "Mars/Olympus"
	assert.Error(t, validateEarningsConfig(cfg))

	cfg = DefaultEarningsConfig()
	cfg.DashboardRange = "decade"
	assert.Error(t, validateEarningsConfig(cfg))
}

func TestEarningsConfigHolder(t *testing.T) {
	var nilHolder *EarningsConfigHolder
	assert.Equal(t, DefaultEarningsConfig(), nilHolder.Get())

	holder := NewStaticEarningsConfigHolder(EarningsConfig{
		Timezone:        "UTC",
		DefaultPageSize: 25,
		MaxPageSize:     50,
		DashboardRange:  "month",
	})
	got := holder.Get()
	assert.Equal(t, 25, got.DefaultPageSize)
	assert.Equal(t, time.UTC, got.Location())
}
