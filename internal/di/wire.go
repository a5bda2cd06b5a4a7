//go:build wireinject
// +build wireinject

package di

import (
	"SmartTrade/pkg/config"
	"SmartTrade/pkg/server"

	"github.com/google/wire"
)

// InitializeApp wires up all dependencies and returns the application.
// Wire will generate the implementation of this function.
func InitializeApp(cfg *config.Config) (*server.App, func(), error) {
	wire.Build(
		// Ambient
		ProvideLogger,
		ProvideMetrics,
		ProvideCache,

		// Upstream clients
		ProvideCryptoMarket,
		ProvideEquityMarket,
		ProvideRecommender,

		// Repositories
		ProvideEventPublisher,

		// Use cases
		ProvideMarketAnalyzer,

		// HTTP
		ProvideRateLimiter,
		ProvideHTTPHandler,

		// Application server
		ProvideApp,
	)
	return nil, nil, nil
}
