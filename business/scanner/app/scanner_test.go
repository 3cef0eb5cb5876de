package app

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/shopspring/decimal"

	cexapp "github.com/ardika/scanarb/business/cexprice/app"
	cexdomain "github.com/ardika/scanarb/business/cexprice/domain"
	dexdomain "github.com/ardika/scanarb/business/dexquote/domain"
	"github.com/ardika/scanarb/business/scanner/domain"
	"github.com/ardika/scanarb/internal/asset"
	"github.com/ardika/scanarb/internal/logger"
)

type fakeFetcher struct {
	mu    sync.Mutex
	calls int
	res   cexapp.Result
}

func (f *fakeFetcher) FetchCEXWithRetry(ctx context.Context, req cexdomain.PairRequest) cexapp.Result {
	f.mu.Lock()
	f.calls++
	f.mu.Unlock()
	return f.res
}

func (f *fakeFetcher) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

// fakeQuoter prices every swap at a fixed token price.
type fakeQuoter struct {
	price decimal.Decimal
	fee   decimal.Decimal
	err   error
}

func (q *fakeQuoter) GetPriceDEX(ctx context.Context, p dexdomain.QuoteParams) (*dexdomain.DexQuote, error) {
	if q.err != nil {
		return nil, q.err
	}
	var out decimal.Decimal
	if p.Direction == dexdomain.TokenToPair {
		out = p.AmountIn.Mul(q.price)
	} else {
		out = p.AmountIn.Div(q.price)
	}
	return &dexdomain.DexQuote{
		DexTitle:   "KYBER",
		AmountOut:  out,
		FeeSwapUSD: q.fee,
	}, nil
}

type fakeReporter struct {
	mu   sync.Mutex
	opps []*domain.Opportunity
}

func (r *fakeReporter) Start(ctx context.Context) error { return nil }
func (r *fakeReporter) Stop() error                     { return nil }
func (r *fakeReporter) Report(opp *domain.Opportunity) {
	r.mu.Lock()
	r.opps = append(r.opps, opp)
	r.mu.Unlock()
}

func (r *fakeReporter) reported() []*domain.Opportunity {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*domain.Opportunity, len(r.opps))
	copy(out, r.opps)
	return out
}

type fakeTicker struct {
	bid, ask decimal.Decimal
	ok       bool
}

func (t *fakeTicker) Top(symbol string) (decimal.Decimal, decimal.Decimal, bool) {
	return t.bid, t.ask, t.ok
}

func testRegistry(t *testing.T) *asset.Registry {
	t.Helper()
	r := asset.NewRegistry()
	r.Register(asset.NewAssetWithName(
		asset.NewTokenAssetID(asset.ChainIDBSC, common.HexToAddress("0x2170Ed0880ac9A755fd29B2688956BD959F933F8")),
		"ETH", "Ethereum (BSC)", 18))
	r.Register(asset.NewAssetWithName(
		asset.NewTokenAssetID(asset.ChainIDBSC, common.HexToAddress("0x55d398326f99059fF775485246999027B3197955")),
		"USDT", "Tether USD (BSC)", 18))
	return r
}

func testScanConfig() Config {
	return Config{
		Pairs:         []domain.Pair{{Base: "ETH", Quote: "USDT"}},
		Exchanges:     []string{"binance"},
		Aggregators:   []string{"kyber"},
		Chain:         "bsc",
		ChainCode:     "56",
		ChainID:       asset.ChainIDBSC,
		TradeSizes:    []decimal.Decimal{decimal.NewFromInt(1000)},
		Interval:      time.Second,
		MaxConcurrent: 2,
	}
}

func goodCEXResult() cexapp.Result {
	return cexapp.Result{
		OK: true,
		Data: &cexdomain.CexQuoteResult{
			PriceBuyToken:  decimal.NewFromInt(3400),
			PriceSellToken: decimal.NewFromInt(3399),
			FeeWDToken:     decimal.NewFromInt(1),
		},
	}
}

func TestScannerRunCycle(t *testing.T) {
	fetcher := &fakeFetcher{res: goodCEXResult()}
	// DEX pays 3417 per token: 50bps above the CEX ask.
	quoter := &fakeQuoter{price: decimal.NewFromInt(3417), fee: decimal.NewFromFloat(0.5)}
	reporter := &fakeReporter{}

	calc := NewProfitCalculator(decimal.NewFromInt(10), decimal.NewFromInt(1))
	sc := NewScanner(fetcher, quoter, nil, calc, reporter, testRegistry(t), testScanConfig(), logger.NewNop())

	sc.RunCycle(context.Background())

	opps := reporter.reported()
	if len(opps) != 2 {
		t.Fatalf("expected 2 opportunities (both directions), got %d", len(opps))
	}

	byDir := map[domain.Direction]*domain.Opportunity{}
	for _, o := range opps {
		byDir[o.Direction] = o
	}

	c2d, ok := byDir[domain.DirectionCEXToDEX]
	if !ok {
		t.Fatal("missing CEX→DEX opportunity")
	}
	if !c2d.Spread.DEXPrice.Equal(decimal.NewFromInt(3417)) {
		t.Errorf("CEX→DEX dex price = %s, want 3417", c2d.Spread.DEXPrice)
	}
	if !c2d.IsProfitable() {
		t.Errorf("CEX→DEX should be profitable: %+v", c2d.Profit)
	}

	d2c, ok := byDir[domain.DirectionDEXToCEX]
	if !ok {
		t.Fatal("missing DEX→CEX opportunity")
	}
	// Buying on the DEX above the CEX bid loses money.
	if d2c.IsProfitable() {
		t.Errorf("DEX→CEX should not be profitable: %+v", d2c.Profit)
	}

	if sc.LastScan().IsZero() {
		t.Error("LastScan not updated after cycle")
	}
}

func TestScannerSkipsFailedCEXFetch(t *testing.T) {
	fetcher := &fakeFetcher{res: cexapp.Result{OK: false, Err: errors.New("orderbook down")}}
	quoter := &fakeQuoter{price: decimal.NewFromInt(3417)}
	reporter := &fakeReporter{}

	calc := NewProfitCalculator(decimal.Zero, decimal.Zero)
	sc := NewScanner(fetcher, quoter, nil, calc, reporter, testRegistry(t), testScanConfig(), logger.NewNop())

	sc.RunCycle(context.Background())

	if got := len(reporter.reported()); got != 0 {
		t.Errorf("expected no opportunities after failed fetch, got %d", got)
	}
}

func TestScannerSkipsUnregisteredPair(t *testing.T) {
	fetcher := &fakeFetcher{res: goodCEXResult()}
	reporter := &fakeReporter{}
	cfg := testScanConfig()
	cfg.Pairs = []domain.Pair{{Base: "DOGE", Quote: "USDT"}}

	calc := NewProfitCalculator(decimal.Zero, decimal.Zero)
	sc := NewScanner(fetcher, &fakeQuoter{price: decimal.NewFromInt(1)}, nil, calc, reporter, testRegistry(t), cfg, logger.NewNop())

	sc.RunCycle(context.Background())

	if fetcher.callCount() != 0 {
		t.Error("unregistered pair must not reach the CEX fetcher")
	}
	if got := len(reporter.reported()); got != 0 {
		t.Errorf("expected no opportunities, got %d", got)
	}
}

func TestScannerDEXQuoteFailure(t *testing.T) {
	fetcher := &fakeFetcher{res: goodCEXResult()}
	quoter := &fakeQuoter{err: errors.New("all aggregators down")}
	reporter := &fakeReporter{}

	calc := NewProfitCalculator(decimal.Zero, decimal.Zero)
	sc := NewScanner(fetcher, quoter, nil, calc, reporter, testRegistry(t), testScanConfig(), logger.NewNop())

	sc.RunCycle(context.Background())

	if got := len(reporter.reported()); got != 0 {
		t.Errorf("expected no opportunities when every quote fails, got %d", got)
	}
}

func TestScannerUnmovedPrefilter(t *testing.T) {
	fetcher := &fakeFetcher{res: goodCEXResult()}
	quoter := &fakeQuoter{price: decimal.NewFromInt(3417), fee: decimal.Zero}
	reporter := &fakeReporter{}
	ticker := &fakeTicker{
		bid: decimal.NewFromInt(3399),
		ask: decimal.NewFromInt(3400),
		ok:  true,
	}

	cfg := testScanConfig()
	cfg.MoveThresholdBps = decimal.NewFromInt(1)

	calc := NewProfitCalculator(decimal.Zero, decimal.Zero)
	sc := NewScanner(fetcher, quoter, ticker, calc, reporter, testRegistry(t), cfg, logger.NewNop())

	sc.RunCycle(context.Background())
	first := fetcher.callCount()
	if first == 0 {
		t.Fatal("first cycle must scan the pair")
	}

	// Top of book unchanged: the second cycle skips the pair.
	sc.RunCycle(context.Background())
	if fetcher.callCount() != first {
		t.Error("unmoved pair was rescanned")
	}

	// A real move rescans.
	ticker.bid = decimal.NewFromInt(3450)
	ticker.ask = decimal.NewFromInt(3451)
	sc.RunCycle(context.Background())
	if fetcher.callCount() <= first {
		t.Error("moved pair was not rescanned")
	}
}

func TestScannerCycleObserver(t *testing.T) {
	fetcher := &fakeFetcher{res: goodCEXResult()}
	reporter := &observingReporter{}

	calc := NewProfitCalculator(decimal.Zero, decimal.Zero)
	sc := NewScanner(fetcher, &fakeQuoter{price: decimal.NewFromInt(3417)}, nil, calc, reporter, testRegistry(t), testScanConfig(), logger.NewNop())

	sc.RunCycle(context.Background())
	sc.RunCycle(context.Background())

	if got := reporter.lastCount(); got != 2 {
		t.Errorf("cycle observer count = %d, want 2", got)
	}
}

type observingReporter struct {
	fakeReporter
	mu    sync.Mutex
	count uint64
}

func (r *observingReporter) Cycle(count uint64, took time.Duration) {
	r.mu.Lock()
	r.count = count
	r.mu.Unlock()
}

func (r *observingReporter) lastCount() uint64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.count
}
