// Package cexprice implements the CEX orderbook pricing bounded context.
package cexprice

import (
	"context"
	"time"

	"github.com/ardika/scanarb/business/cexprice/app"
	cexDI "github.com/ardika/scanarb/business/cexprice/di"
	"github.com/ardika/scanarb/business/cexprice/infra/books"
	"github.com/ardika/scanarb/business/cexprice/infra/stream"
	"github.com/ardika/scanarb/internal/config"
	"github.com/ardika/scanarb/internal/di"
	"github.com/ardika/scanarb/internal/httpclient"
	"github.com/ardika/scanarb/internal/logger"
	"github.com/ardika/scanarb/internal/monolith"
)

// SinkService is the registry key under which an optional ResultSink is
// published (the UI registers one, headless runs don't).
const SinkService = "cexprice.sink"

// Module implements the cexprice bounded context.
type Module struct{}

// RegisterServices registers all cexprice services with the DI container.
func (m *Module) RegisterServices(c di.Container) error {
	di.RegisterToken(c, cexDI.BookProvider, func(sr di.ServiceRegistry) app.BookProvider {
		cfg := sr.Get("config").(*config.Config)
		log := sr.Get("logger").(logger.LoggerInterface)

		client, err := httpclient.NewInstrumentedClient(
			httpclient.WithProviderName("cex-orderbooks"),
			httpclient.WithRequestTimeout(cfg.Scanner.QuoteTimeout()),
		)
		if err != nil {
			panic("failed to create cex http client: " + err.Error())
		}
		return books.NewClient(client, cfg.Exchanges.Endpoints, log)
	})

	di.RegisterToken(c, cexDI.FeeSource, func(sr di.ServiceRegistry) app.FeeSource {
		cfg := sr.Get("config").(*config.Config)
		return books.NewConfigFeeSource(cfg.Exchanges.Endpoints)
	})

	di.RegisterToken(c, cexDI.PriceService, func(sr di.ServiceRegistry) *app.PriceService {
		cfg := sr.Get("config").(*config.Config)
		log := sr.Get("logger").(logger.LoggerInterface)

		fxClient, err := httpclient.NewInstrumentedClient(
			httpclient.WithProviderName("indodax-fx"),
			httpclient.WithRequestTimeout(10*time.Second),
		)
		if err != nil {
			panic("failed to create fx http client: " + err.Error())
		}
		fx := books.NewFXRateProvider(fxClient, cfg.Exchanges.FXRateURL, cfg.Exchanges.FXRateTTL, log)

		factory := func(kind string) (app.Normalizer, error) {
			return books.ForKind(kind, fx, log)
		}

		var sink app.ResultSink
		if s, ok := sr.Lookup(SinkService); ok {
			sink = s.(app.ResultSink)
		}

		return app.NewPriceService(
			cexDI.GetBookProvider(sr),
			factory,
			di.GetToken(sr, cexDI.FeeSource),
			cfg.Exchanges.Endpoints,
			cfg.Exchanges.Depth,
			sink,
			log,
		)
	})

	di.RegisterToken(c, cexDI.RetryFetcher, func(sr di.ServiceRegistry) *app.RetryFetcher {
		cfg := sr.Get("config").(*config.Config)
		log := sr.Get("logger").(logger.LoggerInterface)

		return app.NewRetryFetcher(
			cexDI.GetPriceService(sr),
			cfg.Exchanges.RetryAttempts,
			time.Duration(cfg.Exchanges.RetryBaseMs)*time.Millisecond,
			cfg.Exchanges.CacheTTL,
			int64(cfg.Scanner.MaxConcurrent),
			log,
		)
	})

	di.RegisterToken(c, cexDI.TickerFeed, func(sr di.ServiceRegistry) *stream.Feed {
		cfg := sr.Get("config").(*config.Config)
		log := sr.Get("logger").(logger.LoggerInterface)

		feed, err := stream.NewFeed(stream.Config{
			BaseURL:      cfg.Stream.WebSocketURL,
			Symbols:      cfg.Stream.Symbols,
			StaleTimeout: cfg.Stream.StaleTimeout,
		}, log)
		if err != nil {
			panic("failed to create bookticker feed: " + err.Error())
		}
		return feed
	})

	return nil
}

// Startup connects the warm ticker feed when enabled. A connect failure
// does not block startup; the feed retries in the background.
func (m *Module) Startup(ctx context.Context, mono monolith.Monolith) error {
	log := mono.Logger()
	cfg := mono.Config()

	if cfg.Stream.Enabled {
		feed := cexDI.GetTickerFeed(mono.Services())

		connectCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
		defer cancel()

		if err := feed.Connect(connectCtx); err != nil {
			log.Warn(ctx, "bookticker feed connection failed, retrying in background", "error", err)
			go func() {
				for {
					select {
					case <-ctx.Done():
						return
					case <-time.After(5 * time.Second):
						if err := feed.Connect(ctx); err != nil {
							log.Warn(ctx, "bookticker feed retry failed", "error", err)
						} else {
							return
						}
					}
				}
			}()
		}
	}

	log.Info(ctx, "cexprice module started")
	return nil
}
