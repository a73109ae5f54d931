//go:build wireinject
// +build wireinject

package di

import (
	"github.com/google/wire"

	"BuyBio/internal/usecase"
	"BuyBio/pkg/config"
	"BuyBio/pkg/server"
)

var analyzerSet = wire.NewSet(
	// Observability
	ProvideLogger,
	ProvideMetrics,

	// Analysis core
	ProvideIndicatorLibrary,
	ProvideEngine,

	// Repositories
	ProvideCompanyStore,
	ProvideHistorySource,
	ProvidePublisher,

	// Use cases
	ProvideBatchRunner,
	ProvideCohortAnalyzer,
)

// InitializeApp wires up all dependencies and returns the application.
// Wire will generate the implementation of this function.
func InitializeApp(cfg *config.Config) (*server.App, func(), error) {
	wire.Build(
		analyzerSet,
		ProvideScheduler,
		ProvideHTTPServer,
		ProvideApp,
	)
	return nil, nil, nil
}

// InitializeAnalyzer wires the analyzer alone for one-shot commands.
func InitializeAnalyzer(cfg *config.Config) (*usecase.CohortAnalyzer, func(), error) {
	wire.Build(analyzerSet)
	return nil, nil, nil
}
