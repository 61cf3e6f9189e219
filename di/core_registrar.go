package di

import (
	"github.com/KOMKZ/go-yogan-calcul/logger"
	"github.com/samber/do/v2"
)

// RegisterCoreProviders registers all providers, lazily, by dependency level
func RegisterCoreProviders(injector *do.RootScope, opts ConfigOptions) {
	// ═══════════════════════════════════════════════════════════
	// Layer 0: Config (no dependencies)
	// ═══════════════════════════════════════════════════════════
	do.Provide(injector, ProvideConfigLoader(opts))

	// ═══════════════════════════════════════════════════════════
	// Layer 1: Logger (depends on Config)
	// ═══════════════════════════════════════════════════════════
	var logOpts []logger.ManagerOption
	if opts.LogOutput != nil {
		logOpts = append(logOpts, logger.WithConsoleWriter(opts.LogOutput))
	}
	do.Provide(injector, ProvideLoggerManager(logOpts...))
	do.Provide(injector, ProvideCtxLogger("calcul"))

	// ═══════════════════════════════════════════════════════════
	// Layer 2: Infrastructure (only built when the data source needs them)
	// ═══════════════════════════════════════════════════════════
	do.Provide(injector, ProvideDatabaseManager)
	do.Provide(injector, ProvideRedisManager)
	do.Provide(injector, ProvideTelemetryManager(opts.LogOutput))

	// ═══════════════════════════════════════════════════════════
	// Layer 3: Capability container
	// ═══════════════════════════════════════════════════════════
	do.Provide(injector, ProvideDataSourceConfig)
	do.Provide(injector, ProvideContainer)
}
