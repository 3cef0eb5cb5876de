package app

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/ardika/scanarb/business/dexquote/domain"
	"github.com/ardika/scanarb/business/dexquote/infra/aggregators"
	"github.com/ardika/scanarb/business/dexquote/infra/fallback"
	"github.com/ardika/scanarb/internal/httpclient"
	"github.com/ardika/scanarb/internal/logger"
	"github.com/ardika/scanarb/internal/signer"
)

type fixedFees struct {
	fee decimal.Decimal
}

func (f fixedFees) FeeSwapUSD(string) decimal.Decimal { return f.fee }

// pathCounter counts requests per path prefix.
type pathCounter struct {
	mu     sync.Mutex
	counts map[string]int
}

func (p *pathCounter) bump(path string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.counts == nil {
		p.counts = make(map[string]int)
	}
	p.counts[path]++
}

func (p *pathCounter) get(path string) int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.counts[path]
}

func newTestService(t *testing.T, handler http.Handler, plans map[string]Plan) (*QuoteService, *httptest.Server) {
	return newTestServiceURLs(t, handler, plans, nil)
}

// newTestServiceURLs is newTestService with per-aggregator base URL
// overrides, for pointing a provider at an unreachable endpoint.
func newTestServiceURLs(t *testing.T, handler http.Handler, plans map[string]Plan, overrides map[string]string) (*QuoteService, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	client, err := httpclient.NewInstrumentedClient(
		httpclient.WithProviderName("test"),
	)
	if err != nil {
		t.Fatalf("new client: %v", err)
	}

	fees := fixedFees{fee: decimal.RequireFromString("0.5")}
	deps := aggregators.Deps{
		Wallet: "0x1111111111111111111111111111111111111111",
		Keys:   signer.NewKeyPool(nil),
		Fees:   fees,
		BaseURLs: map[string]string{
			"odos":     srv.URL + "/odos",
			"hinkal":   srv.URL + "/hinkal",
			"1inch":    srv.URL + "/1inch",
			"kyber":    srv.URL + "/kyber",
			"paraswap": srv.URL + "/paraswap",
		},
	}
	for key, url := range overrides {
		deps.BaseURLs[key] = url
	}

	lifi := &fallback.LiFi{BaseURL: srv.URL + "/lifi", Fees: fees}
	fallbacks := map[string]Attempter{
		"swoop": &fallback.Swoop{BaseURL: srv.URL + "/swoop", Fees: fees},
		"lifi":  lifi,
		"dzap":  &fallback.DZAP{LiFi: lifi},
	}

	svc := NewQuoteService(
		client,
		deps,
		fallbacks,
		StaticPlans{Plans: plans},
		StaticProxy{},
		NewDexLinks(nil),
		logger.NewNop(),
	)
	return svc, srv
}

func quoteParams(aggregator string, dir domain.Direction) domain.QuoteParams {
	return domain.QuoteParams{
		SymbolIn:    "ETH",
		SymbolOut:   "USDT",
		ContractIn:  "0xaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa",
		ContractOut: "0xbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbb",
		DecimalsIn:  18,
		DecimalsOut: 6,
		ChainName:   "bsc",
		ChainCode:   "56",
		AmountIn:    decimal.RequireFromString("100"),
		Direction:   dir,
		Aggregator:  aggregator,
	}
}

func TestOdosEscalatesToConfiguredAlternative(t *testing.T) {
	counter := &pathCounter{}
	mux := http.NewServeMux()
	mux.HandleFunc("/odos", func(w http.ResponseWriter, r *http.Request) {
		counter.bump("/odos")
		http.Error(w, "internal", http.StatusInternalServerError)
	})
	mux.HandleFunc("/hinkal", func(w http.ResponseWriter, r *http.Request) {
		counter.bump("/hinkal")
		w.Write([]byte(`{"outputTokens":[{"amount":"1500000"}]}`))
	})

	svc, _ := newTestService(t, mux, map[string]Plan{
		"odos.token_to_pair": {Primary: "odos", Alternative: "hinkal"},
	})

	quote, err := svc.GetPriceDEX(context.Background(), quoteParams("odos", domain.TokenToPair))
	if err != nil {
		t.Fatalf("GetPriceDEX: %v", err)
	}
	if quote.DexTitle != "HINKAL" {
		t.Errorf("DexTitle = %q, want HINKAL", quote.DexTitle)
	}
	if !quote.AmountOut.Equal(decimal.RequireFromString("1.5")) {
		t.Errorf("AmountOut = %s", quote.AmountOut)
	}
	if counter.get("/odos") != 1 || counter.get("/hinkal") != 1 {
		t.Errorf("calls: odos=%d hinkal=%d, want 1/1", counter.get("/odos"), counter.get("/hinkal"))
	}
}

func TestOdosDefaultsAlternativeToHinkal(t *testing.T) {
	counter := &pathCounter{}
	mux := http.NewServeMux()
	mux.HandleFunc("/odos", func(w http.ResponseWriter, r *http.Request) {
		counter.bump("/odos")
		http.Error(w, "rate limited", http.StatusTooManyRequests)
	})
	mux.HandleFunc("/hinkal", func(w http.ResponseWriter, r *http.Request) {
		counter.bump("/hinkal")
		w.Write([]byte(`{"outputTokens":[{"amount":"2000000"}]}`))
	})

	// No plan configured: token-to-pair still falls back to hinkal.
	svc, _ := newTestService(t, mux, nil)

	quote, err := svc.GetPriceDEX(context.Background(), quoteParams("odos", domain.TokenToPair))
	if err != nil {
		t.Fatalf("GetPriceDEX: %v", err)
	}
	if quote.DexTitle != "HINKAL" {
		t.Errorf("DexTitle = %q, want HINKAL", quote.DexTitle)
	}
	if counter.get("/hinkal") != 1 {
		t.Errorf("hinkal calls = %d, want 1", counter.get("/hinkal"))
	}
}

func TestParaswapServerErrorDoesNotEscalate(t *testing.T) {
	counter := &pathCounter{}
	mux := http.NewServeMux()
	mux.HandleFunc("/paraswap/prices", func(w http.ResponseWriter, r *http.Request) {
		counter.bump("/paraswap/prices")
		http.Error(w, "internal", http.StatusInternalServerError)
	})

	svc, _ := newTestService(t, mux, nil)

	_, err := svc.GetPriceDEX(context.Background(), quoteParams("paraswap", domain.TokenToPair))
	if err == nil {
		t.Fatal("expected error")
	}
	var qerr *domain.QuoteError
	if !errors.As(err, &qerr) {
		t.Fatalf("error type %T, want *domain.QuoteError", err)
	}
	if qerr.StatusCode != http.StatusInternalServerError {
		t.Errorf("status = %d, want 500", qerr.StatusCode)
	}
	if qerr.DexKey != "paraswap" {
		t.Errorf("dexKey = %q", qerr.DexKey)
	}
	if qerr.DexURL == "" {
		t.Error("rejection should carry a deep link")
	}
	if counter.get("/paraswap/prices") != 1 {
		t.Errorf("paraswap calls = %d, want exactly 1 (no second attempt)", counter.get("/paraswap/prices"))
	}
}

func TestRateLimitEscalatesToLiFi(t *testing.T) {
	counter := &pathCounter{}
	mux := http.NewServeMux()
	mux.HandleFunc("/1inch", func(w http.ResponseWriter, r *http.Request) {
		counter.bump("/1inch")
		http.Error(w, "slow down", http.StatusTooManyRequests)
	})
	mux.HandleFunc("/lifi", func(w http.ResponseWriter, r *http.Request) {
		counter.bump("/lifi")
		w.Write([]byte(`{"routes":[{"toAmount":"99000000","gasCostUSD":"0.2","steps":[{"tool":"kyberswap"}]}]}`))
	})

	svc, _ := newTestService(t, mux, map[string]Plan{
		"1inch.pair_to_token": {Primary: "1inch", Alternative: "lifi"},
	})

	quote, err := svc.GetPriceDEX(context.Background(), quoteParams("1inch", domain.PairToToken))
	if err != nil {
		t.Fatalf("GetPriceDEX: %v", err)
	}
	// The fill is attributed to the tool that executed the route, not
	// the literal requested aggregator.
	if quote.DexTitle != "KYBER" {
		t.Errorf("DexTitle = %q, want KYBER", quote.DexTitle)
	}
	if quote.RouteOverrideDex != "kyber" {
		t.Errorf("RouteOverrideDex = %q", quote.RouteOverrideDex)
	}
	if counter.get("/1inch") != 1 || counter.get("/lifi") != 1 {
		t.Errorf("calls: 1inch=%d lifi=%d", counter.get("/1inch"), counter.get("/lifi"))
	}
}

func TestEmbeddedUpstreamErrorEscalates(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/1inch", func(w http.ResponseWriter, r *http.Request) {
		// 200 with an embedded error payload, typical proxy behavior.
		w.Write([]byte(`{"statusCode":429,"message":"upstream rate limit"}`))
	})
	mux.HandleFunc("/lifi", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"routes":[{"toAmount":"50000000","steps":[{"tool":"1inch"}]}]}`))
	})

	svc, _ := newTestService(t, mux, map[string]Plan{
		"1inch.token_to_pair": {Primary: "1inch", Alternative: "lifi"},
	})

	quote, err := svc.GetPriceDEX(context.Background(), quoteParams("1inch", domain.TokenToPair))
	if err != nil {
		t.Fatalf("GetPriceDEX: %v", err)
	}
	if !quote.AmountOut.Equal(decimal.RequireFromString("50")) {
		t.Errorf("AmountOut = %s, want 50", quote.AmountOut)
	}
}

// deadEndpoint returns a URL whose port no longer accepts connections.
func deadEndpoint(t *testing.T) string {
	t.Helper()
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()
	return url
}

func TestKyberNoResponseFallsBackToSwoop(t *testing.T) {
	counter := &pathCounter{}
	mux := http.NewServeMux()
	mux.HandleFunc("/swoop", func(w http.ResponseWriter, r *http.Request) {
		counter.bump("/swoop")
		w.Write([]byte(`{"amountOutWei":"250000000","gasCostUsd":"0.3"}`))
	})

	// No plan configured and the kyber endpoint refuses connections:
	// token-to-pair still gets one attempt against the default fallback.
	svc, _ := newTestServiceURLs(t, mux, nil, map[string]string{
		"kyber": deadEndpoint(t),
	})

	quote, err := svc.GetPriceDEX(context.Background(), quoteParams("kyber", domain.TokenToPair))
	if err != nil {
		t.Fatalf("GetPriceDEX: %v", err)
	}
	if quote.DexTitle != "SWOOP" {
		t.Errorf("DexTitle = %q, want SWOOP", quote.DexTitle)
	}
	if !quote.AmountOut.Equal(decimal.RequireFromString("250")) {
		t.Errorf("AmountOut = %s, want 250", quote.AmountOut)
	}
	if counter.get("/swoop") != 1 {
		t.Errorf("swoop calls = %d, want 1", counter.get("/swoop"))
	}
}

func TestKyberNoResponseFallsBackToLiFi(t *testing.T) {
	counter := &pathCounter{}
	mux := http.NewServeMux()
	mux.HandleFunc("/lifi", func(w http.ResponseWriter, r *http.Request) {
		counter.bump("/lifi")
		w.Write([]byte(`{"routes":[{"toAmount":"42000000","gasCostUSD":"0.4"}]}`))
	})

	svc, _ := newTestServiceURLs(t, mux, nil, map[string]string{
		"kyber": deadEndpoint(t),
	})

	quote, err := svc.GetPriceDEX(context.Background(), quoteParams("kyber", domain.PairToToken))
	if err != nil {
		t.Fatalf("GetPriceDEX: %v", err)
	}
	if !quote.AmountOut.Equal(decimal.RequireFromString("42")) {
		t.Errorf("AmountOut = %s, want 42", quote.AmountOut)
	}
	if !strings.Contains(quote.APIURL, "/lifi") {
		t.Errorf("APIURL = %q, want the lifi routes endpoint", quote.APIURL)
	}
	if counter.get("/lifi") != 1 {
		t.Errorf("lifi calls = %d, want 1", counter.get("/lifi"))
	}
}

func TestTotalFailureReturnsAlternativeError(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/odos", func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "down", http.StatusInternalServerError)
	})
	mux.HandleFunc("/hinkal", func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "also down", http.StatusServiceUnavailable)
	})

	svc, _ := newTestService(t, mux, map[string]Plan{
		"odos.token_to_pair": {Primary: "odos", Alternative: "hinkal"},
	})

	_, err := svc.GetPriceDEX(context.Background(), quoteParams("odos", domain.TokenToPair))
	if err == nil {
		t.Fatal("expected error")
	}
	var qerr *domain.QuoteError
	if !errors.As(err, &qerr) {
		t.Fatalf("error type %T", err)
	}
	if qerr.DexKey != "hinkal" {
		t.Errorf("final error should be the alternative's, got dexKey %q", qerr.DexKey)
	}
	if qerr.StatusCode != http.StatusServiceUnavailable {
		t.Errorf("status = %d, want 503", qerr.StatusCode)
	}
}

func TestUnknownAggregatorRejectsImmediately(t *testing.T) {
	svc, _ := newTestService(t, http.NewServeMux(), nil)

	_, err := svc.GetPriceDEX(context.Background(), quoteParams("uniswapx", domain.TokenToPair))
	if err == nil {
		t.Fatal("expected error for unknown aggregator")
	}
}

func TestStaticPlansDefault(t *testing.T) {
	plans := StaticPlans{Plans: map[string]Plan{
		"kyber.token_to_pair": {Primary: "kyber", Alternative: "swoop"},
	}}

	got := plans.Resolve("kyber", domain.TokenToPair)
	if got.Alternative != "swoop" {
		t.Errorf("configured plan not resolved: %+v", got)
	}

	got = plans.Resolve("fly", domain.PairToToken)
	if got.Primary != "fly" || got.Alternative != "" {
		t.Errorf("default plan = %+v, want primary=fly no alternative", got)
	}
}
