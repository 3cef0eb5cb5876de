package app

import (
	"context"
	"sync"
	"time"

	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	cexdomain "github.com/ardika/scanarb/business/cexprice/domain"
	dexdomain "github.com/ardika/scanarb/business/dexquote/domain"
	"github.com/ardika/scanarb/business/scanner/domain"
	"github.com/ardika/scanarb/internal/asset"
	"github.com/ardika/scanarb/internal/logger"
)

// Config drives one Scanner.
type Config struct {
	Pairs       []domain.Pair
	Exchanges   []string
	Aggregators []string
	Chain       string // chain registry key, e.g. "bsc"
	ChainCode   string // numeric chain id as string
	ChainID     uint64
	TradeSizes  []decimal.Decimal // in quote currency
	Interval    time.Duration
	// MoveThresholdBps is the minimum top-of-book move since the last
	// cycle before a pair is rescanned. Zero disables the prefilter.
	MoveThresholdBps decimal.Decimal
	MaxConcurrent    int
}

type scannerMetrics struct {
	cycles        metric.Int64Counter
	opportunities metric.Int64Counter
	skipped       metric.Int64Counter
}

// Scanner ticks over the configured pairs, fetches CEX and DEX quotes,
// and reports spread/profit rows.
type Scanner struct {
	fetcher  CEXFetcher
	quoter   DEXQuoter
	ticker   TickerSource // nil when the warm feed is disabled
	calc     *ProfitCalculator
	reporter Reporter
	registry *asset.Registry
	cfg      Config
	log      logger.LoggerInterface
	tracer   trace.Tracer
	metrics  scannerMetrics

	mu       sync.Mutex
	lastMid  map[string]decimal.Decimal
	lastScan time.Time
	cycles   uint64
}

// NewScanner wires the scan loop.
func NewScanner(
	fetcher CEXFetcher,
	quoter DEXQuoter,
	ticker TickerSource,
	calc *ProfitCalculator,
	reporter Reporter,
	registry *asset.Registry,
	cfg Config,
	log logger.LoggerInterface,
) *Scanner {
	meter := otel.Meter("scanner")
	cycles, _ := meter.Int64Counter("scanner.cycles")
	opps, _ := meter.Int64Counter("scanner.opportunities")
	skipped, _ := meter.Int64Counter("scanner.pairs_skipped")

	if cfg.Interval <= 0 {
		cfg.Interval = 10 * time.Second
	}
	if cfg.MaxConcurrent <= 0 {
		cfg.MaxConcurrent = 4
	}

	return &Scanner{
		fetcher:  fetcher,
		quoter:   quoter,
		ticker:   ticker,
		calc:     calc,
		reporter: reporter,
		registry: registry,
		cfg:      cfg,
		log:      log,
		tracer:   otel.Tracer("scanner"),
		metrics:  scannerMetrics{cycles: cycles, opportunities: opps, skipped: skipped},
		lastMid:  make(map[string]decimal.Decimal),
	}
}

// LastScan reports when the last cycle finished, for health checks.
func (s *Scanner) LastScan() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastScan
}

// Run starts the reporter and loops until ctx is cancelled.
func (s *Scanner) Run(ctx context.Context) error {
	if err := s.reporter.Start(ctx); err != nil {
		return err
	}
	defer s.reporter.Stop()

	s.log.Info(ctx, "scanner started",
		"pairs", len(s.cfg.Pairs),
		"exchanges", len(s.cfg.Exchanges),
		"aggregators", len(s.cfg.Aggregators),
		"interval", s.cfg.Interval.String())

	ticker := time.NewTicker(s.cfg.Interval)
	defer ticker.Stop()

	s.RunCycle(ctx)
	for {
		select {
		case <-ctx.Done():
			s.log.Info(ctx, "scanner stopping", "reason", ctx.Err())
			return nil
		case <-ticker.C:
			s.RunCycle(ctx)
		}
	}
}

// CycleObserver is an optional Reporter extension notified after each
// completed cycle.
type CycleObserver interface {
	Cycle(count uint64, took time.Duration)
}

// RunCycle scans every configured pair once.
func (s *Scanner) RunCycle(ctx context.Context) {
	ctx, span := s.tracer.Start(ctx, "scanner.cycle")
	defer span.End()
	start := time.Now()

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.cfg.MaxConcurrent)

	for _, pair := range s.cfg.Pairs {
		if s.skipUnmoved(pair) {
			s.metrics.skipped.Add(ctx, 1, metric.WithAttributes(attribute.String("pair", pair.String())))
			continue
		}
		g.Go(func() error {
			s.scanPair(gctx, pair)
			return nil
		})
	}
	g.Wait()

	s.mu.Lock()
	s.lastScan = time.Now()
	s.cycles++
	count := s.cycles
	s.mu.Unlock()
	s.metrics.cycles.Add(ctx, 1)

	if obs, ok := s.reporter.(CycleObserver); ok {
		obs.Cycle(count, time.Since(start))
	}
}

// skipUnmoved consults the warm feed: a pair whose top-of-book mid has
// not moved past the threshold since the last cycle is not rescanned.
func (s *Scanner) skipUnmoved(pair domain.Pair) bool {
	if s.ticker == nil || s.cfg.MoveThresholdBps.IsZero() {
		return false
	}
	bid, ask, ok := s.ticker.Top(pair.StreamSymbol())
	if !ok || bid.IsZero() {
		return false
	}
	mid := bid.Add(ask).Div(decimal.NewFromInt(2))

	s.mu.Lock()
	defer s.mu.Unlock()
	prev, seen := s.lastMid[pair.StreamSymbol()]
	s.lastMid[pair.StreamSymbol()] = mid
	if !seen || s.cycles == 0 || prev.IsZero() {
		return false
	}
	moveBps := mid.Sub(prev).Abs().Div(prev).Mul(decimal.NewFromInt(10000))
	return moveBps.LessThan(s.cfg.MoveThresholdBps)
}

func (s *Scanner) scanPair(ctx context.Context, pair domain.Pair) {
	base, ok := s.registry.GetBySymbolAndChain(pair.Base, s.cfg.ChainID)
	if !ok {
		s.log.Warn(ctx, "base asset not registered on chain", "pair", pair.String(), "chain", s.cfg.Chain)
		return
	}
	quote, ok := s.registry.GetBySymbolAndChain(pair.Quote, s.cfg.ChainID)
	if !ok {
		s.log.Warn(ctx, "quote asset not registered on chain", "pair", pair.String(), "chain", s.cfg.Chain)
		return
	}

	for _, exchange := range s.cfg.Exchanges {
		res := s.fetcher.FetchCEXWithRetry(ctx, cexdomain.PairRequest{
			Token:     pair.Base,
			Pair:      pair.Quote,
			Exchange:  exchange,
			ScIn:      base.Address().Hex(),
			ScOut:     quote.Address().Hex(),
			ChainName: s.cfg.Chain,
		})
		if !res.OK {
			s.log.Warn(ctx, "cex fetch failed, skipping pair on exchange",
				"pair", pair.String(), "exchange", exchange, "error", res.Err)
			continue
		}

		for _, aggregator := range s.cfg.Aggregators {
			for _, size := range s.cfg.TradeSizes {
				s.scanDirections(ctx, pair, exchange, aggregator, size, base, quote, res.Data)
			}
		}
	}
}

// scanDirections prices one (pair, exchange, aggregator, size) cell in
// both directions.
func (s *Scanner) scanDirections(
	ctx context.Context,
	pair domain.Pair,
	exchange, aggregator string,
	size decimal.Decimal,
	base, quote *asset.Asset,
	cex *cexdomain.CexQuoteResult,
) {
	now := time.Now()

	// CEX→DEX: buy tokens on the CEX at the ask, sell them on the DEX.
	if cex.PriceBuyToken.IsPositive() {
		tokens := size.Div(cex.PriceBuyToken)
		q, err := s.quoter.GetPriceDEX(ctx, s.quoteParams(pair, exchange, aggregator, base, quote, tokens, domain.DirectionCEXToDEX))
		if err != nil {
			s.log.Debug(ctx, "dex quote failed", "pair", pair.String(), "aggregator", aggregator, "direction", "cex_to_dex", "error", err)
		} else if q.AmountOut.IsPositive() {
			dexPrice := q.AmountOut.Div(tokens)
			spread := domain.CalculateSpread(cex.PriceBuyToken, dexPrice)
			profit := s.calc.Calculate(spread, domain.DirectionCEXToDEX, size, cex.FeeWDToken, q.FeeSwapUSD)
			s.report(ctx, &domain.Opportunity{
				Timestamp:  now,
				Pair:       pair,
				Exchange:   exchange,
				Aggregator: aggregator,
				DexTitle:   q.DexTitle,
				Chain:      s.cfg.Chain,
				Direction:  domain.DirectionCEXToDEX,
				TradeSize:  size,
				Spread:     spread,
				Profit:     profit,
			})
		}
	}

	// DEX→CEX: buy tokens on the DEX with quote currency, sell them on
	// the CEX at the bid.
	if cex.PriceSellToken.IsPositive() {
		q, err := s.quoter.GetPriceDEX(ctx, s.quoteParams(pair, exchange, aggregator, base, quote, size, domain.DirectionDEXToCEX))
		if err != nil {
			s.log.Debug(ctx, "dex quote failed", "pair", pair.String(), "aggregator", aggregator, "direction", "dex_to_cex", "error", err)
		} else if q.AmountOut.IsPositive() {
			dexPrice := size.Div(q.AmountOut) // effective buy price per token
			spread := domain.CalculateSpread(cex.PriceSellToken, dexPrice)
			profit := s.calc.Calculate(spread, domain.DirectionDEXToCEX, size, cex.FeeWDToken, q.FeeSwapUSD)
			s.report(ctx, &domain.Opportunity{
				Timestamp:  now,
				Pair:       pair,
				Exchange:   exchange,
				Aggregator: aggregator,
				DexTitle:   q.DexTitle,
				Chain:      s.cfg.Chain,
				Direction:  domain.DirectionDEXToCEX,
				TradeSize:  size,
				Spread:     spread,
				Profit:     profit,
			})
		}
	}
}

// quoteParams builds the DEX request for one direction. CEX→DEX sells
// base tokens for quote; DEX→CEX spends quote currency on base tokens.
func (s *Scanner) quoteParams(
	pair domain.Pair,
	exchange, aggregator string,
	base, quote *asset.Asset,
	amountIn decimal.Decimal,
	dir domain.Direction,
) dexdomain.QuoteParams {
	p := dexdomain.QuoteParams{
		ChainName:   s.cfg.Chain,
		ChainCode:   s.cfg.ChainCode,
		AmountIn:    amountIn,
		ExchangeKey: exchange,
		Aggregator:  aggregator,
	}
	if dir == domain.DirectionCEXToDEX {
		p.SymbolIn = pair.Base
		p.SymbolOut = pair.Quote
		p.ContractIn = base.Address().Hex()
		p.ContractOut = quote.Address().Hex()
		p.DecimalsIn = int(base.Decimals())
		p.DecimalsOut = int(quote.Decimals())
		p.Direction = dexdomain.TokenToPair
	} else {
		p.SymbolIn = pair.Quote
		p.SymbolOut = pair.Base
		p.ContractIn = quote.Address().Hex()
		p.ContractOut = base.Address().Hex()
		p.DecimalsIn = int(quote.Decimals())
		p.DecimalsOut = int(base.Decimals())
		p.Direction = dexdomain.PairToToken
	}
	return p
}

func (s *Scanner) report(ctx context.Context, opp *domain.Opportunity) {
	s.reporter.Report(opp)
	if opp.IsProfitable() {
		s.metrics.opportunities.Add(ctx, 1, metric.WithAttributes(
			attribute.String("pair", opp.Pair.String()),
			attribute.String("exchange", opp.Exchange),
			attribute.String("aggregator", opp.Aggregator),
		))
	}
}
