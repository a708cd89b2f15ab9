package metrics

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric/noop"
)

func TestFilterAttributesDropsHighCardinalityLabels(t *testing.T) {
	attrs := FilterAttributes(
		attribute.String("role", "provider"),
		attribute.String("user_id", "456"),
		attribute.String("source", "ledger"),
	)
	require.Len(t, attrs, 2)
	assert.Equal(t, attribute.Key("role"), attrs[0].Key)
	assert.Equal(t, attribute.Key("source"), attrs[1].Key)
}

func TestMetricsNilSafe(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.RecordEarningsRead(context.Background(), "stats", "provider", "ledger")
		m.RecordLedgerFallback(context.Background(), "stats", "provider", "empty")
		m.RecordSchemaDrift(context.Background(), "stats")
	})
}

func TestNewWithNoopProvider(t *testing.T) {
	m, err := New(Config{}, noop.NewMeterProvider())
	require.NoError(t, err)
	assert.NotPanics(t, func() {
		m.RecordEarningsRead(context.Background(), "chart", "labour", "reconstructed")
		m.RecordRateLimitDenied(context.Background(), "/api/earnings/:role", "user-rate")
	})
}
