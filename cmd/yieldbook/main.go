package main

import (
	"github.com/shopspring/decimal"
	"github.com/smallbiznis/yieldbook/internal/clock"
	"github.com/smallbiznis/yieldbook/internal/config"
	"github.com/smallbiznis/yieldbook/internal/migration"
	"github.com/smallbiznis/yieldbook/internal/observability"
	"github.com/smallbiznis/yieldbook/internal/server"
	"github.com/smallbiznis/yieldbook/pkg/db"
	"go.uber.org/fx"
)

func main() {
	// Amounts are rendered as JSON numbers.
	decimal.MarshalJSONWithoutQuotes = true

	app := fx.New(
		// Core Infrastructure
		config.Module,
		observability.Module,
		db.Module,
		clock.Module,
		migration.Module,

		// HTTP surface and the earnings domain
		server.Module,
	)
	app.Run()
}
