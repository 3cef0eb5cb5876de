// Package scanner implements the spread scanning bounded context.
package scanner

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/shopspring/decimal"

	"github.com/ardika/scanarb/business/cexprice"
	cexapp "github.com/ardika/scanarb/business/cexprice/app"
	cexDI "github.com/ardika/scanarb/business/cexprice/di"
	cexdomain "github.com/ardika/scanarb/business/cexprice/domain"
	"github.com/ardika/scanarb/business/cexprice/infra/stream"
	dexDI "github.com/ardika/scanarb/business/dexquote/di"
	"github.com/ardika/scanarb/business/scanner/app"
	scanDI "github.com/ardika/scanarb/business/scanner/di"
	"github.com/ardika/scanarb/business/scanner/domain"
	"github.com/ardika/scanarb/business/scanner/infra"
	"github.com/ardika/scanarb/internal/asset"
	"github.com/ardika/scanarb/internal/config"
	"github.com/ardika/scanarb/internal/di"
	"github.com/ardika/scanarb/internal/logger"
	"github.com/ardika/scanarb/internal/monolith"
	"github.com/ardika/scanarb/pkg/ui"
)

// Module implements the scanner bounded context. It depends on the
// cexprice and dexquote modules being registered first.
type Module struct{}

// RegisterServices registers the reporter and the scan loop.
func (m *Module) RegisterServices(c di.Container) error {
	di.RegisterToken(c, scanDI.Reporter, func(sr di.ServiceRegistry) app.Reporter {
		cfg := sr.Get("config").(*config.Config)
		if cfg.Scanner.TUIMode {
			return infra.NewTUIReporter(cfg.Scanner.Chain)
		}
		return infra.NewConsoleReporter()
	})

	// Surface successful CEX fetches in the dashboard log line.
	c.RegisterFactory(cexprice.SinkService, func(sr di.ServiceRegistry) any {
		cfg := sr.Get("config").(*config.Config)
		if !cfg.Scanner.TUIMode {
			return cexapp.ResultSink(nil)
		}
		tui, ok := scanDI.GetReporter(sr).(*infra.TUIReporter)
		if !ok {
			return cexapp.ResultSink(nil)
		}
		return cexapp.ResultSink(func(res *cexdomain.CexQuoteResult) {
			tui.Send(ui.LogMsg{
				Level: "info",
				Message: fmt.Sprintf("%s %s-%s bid %s ask %s",
					res.Cex, res.Token, res.Pair,
					res.PriceSellToken.StringFixed(4), res.PriceBuyToken.StringFixed(4)),
			})
		})
	})

	di.RegisterToken(c, scanDI.Scanner, func(sr di.ServiceRegistry) *app.Scanner {
		cfg := sr.Get("config").(*config.Config)
		log := sr.Get("logger").(logger.LoggerInterface)

		scanCfg := buildScanConfig(cfg, log)

		var ticker app.TickerSource
		if cfg.Stream.Enabled {
			ticker = infra.NewFeedTicker(di.GetToken(sr, cexDI.TickerFeed))
		}

		calc := app.NewProfitCalculator(
			decimal.NewFromFloat(cfg.Scanner.MinProfitBps),
			decimal.NewFromFloat(cfg.Scanner.MinProfitUSD),
		)

		return app.NewScanner(
			cexDI.GetRetryFetcher(sr),
			dexDI.GetQuoteService(sr),
			ticker,
			calc,
			scanDI.GetReporter(sr),
			sr.Get("assetRegistry").(*asset.Registry),
			scanCfg,
			log,
		)
	})

	return nil
}

// buildScanConfig translates file configuration into the loop config,
// dropping pairs that do not parse.
func buildScanConfig(cfg *config.Config, log logger.LoggerInterface) app.Config {
	pairs := make([]domain.Pair, 0, len(cfg.Scanner.Pairs))
	for _, raw := range cfg.Scanner.Pairs {
		p, err := domain.ParsePair(raw)
		if err != nil {
			log.Warn(context.Background(), "skipping malformed pair", "pair", raw, "error", err)
			continue
		}
		pairs = append(pairs, p)
	}

	exchanges := make([]string, 0, len(cfg.Exchanges.Endpoints))
	for name, ex := range cfg.Exchanges.Endpoints {
		if ex.Enabled {
			exchanges = append(exchanges, name)
		}
	}

	chainCode := ""
	var chainID uint64
	if chain, ok := cfg.Chains[cfg.Scanner.Chain]; ok {
		chainCode = chain.Code
		chainID, _ = strconv.ParseUint(chain.Code, 10, 64)
	}

	return app.Config{
		Pairs:            pairs,
		Exchanges:        exchanges,
		Aggregators:      cfg.Scanner.Aggregators,
		Chain:            cfg.Scanner.Chain,
		ChainCode:        chainCode,
		ChainID:          chainID,
		TradeSizes:       cfg.Scanner.TradeSizesDecimal(),
		Interval:         time.Duration(cfg.Scanner.SpeedScanSeconds) * time.Second,
		MoveThresholdBps: decimal.NewFromInt(1),
		MaxConcurrent:    cfg.Scanner.MaxConcurrent,
	}
}

// Startup launches the scan loop in the background.
func (m *Module) Startup(ctx context.Context, mono monolith.Monolith) error {
	log := mono.Logger()
	cfg := mono.Config()
	sc := scanDI.GetScanner(mono.Services())

	go func() {
		if err := sc.Run(ctx); err != nil {
			log.Error(ctx, "scan loop stopped", "error", err)
		}
	}()

	if cfg.Scanner.TUIMode && cfg.Stream.Enabled {
		if tui, ok := scanDI.GetReporter(mono.Services()).(*infra.TUIReporter); ok {
			feed := di.GetToken(mono.Services(), cexDI.TickerFeed)
			go bridgeStream(ctx, tui, feed, cfg.Stream)
		}
	}

	log.Info(ctx, "scanner module started")
	return nil
}

// bridgeStream pushes warm-feed state into the dashboard.
func bridgeStream(ctx context.Context, tui *infra.TUIReporter, feed *stream.Feed, cfg config.StreamConfig) {
	stale := cfg.StaleTimeout
	if stale <= 0 {
		stale = 10 * time.Second
	}

	ticker := time.NewTicker(2 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			last := feed.LastUpdate()
			tui.Send(ui.ConnectionStatusMsg{
				Name:      "binance-stream",
				Connected: !last.IsZero() && time.Since(last) < stale,
			})
			for _, symbol := range cfg.Symbols {
				if top, ok := feed.Top(symbol); ok {
					tui.Send(ui.TickerMsg{
						Symbol: top.Symbol,
						Bid:    top.Bid.StringFixed(4),
						Ask:    top.Ask.StringFixed(4),
					})
				}
			}
		}
	}
}
