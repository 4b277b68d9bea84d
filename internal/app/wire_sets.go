//go:build wireinject
// +build wireinject

package app

import (
	"github.com/google/wire"
)

var CoreInfraSet = wire.NewSet(
	NewLogging,
	NewLogger,
	NewMetricsRegistry,
	NewMetrics,
	NewHealthTracker,
)

var SyncSet = wire.NewSet(
	NewRootLocator,
	NewCatalogBuilder,
	NewSyncerProvider,
)

var AppSet = wire.NewSet(
	CoreInfraSet,
	SyncSet,
	wire.Struct(new(ApplicationOptions), "*"),
	NewApplication,
)
