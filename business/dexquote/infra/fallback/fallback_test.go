package fallback

import (
	"encoding/json"
	"math/big"
	"strings"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/ardika/scanarb/business/dexquote/domain"
)

type fixedFees struct {
	fee decimal.Decimal
}

func (f fixedFees) FeeSwapUSD(string) decimal.Decimal { return f.fee }

type fixedGas struct {
	price *big.Int
}

func (f fixedGas) GasPriceWei(string) *big.Int { return f.price }

func testParams() domain.QuoteParams {
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
		Direction:   domain.TokenToPair,
		Aggregator:  "1inch",
	}
}

func TestSwoopBuildRequest(t *testing.T) {
	s := &Swoop{
		Wallet: "0x1111111111111111111111111111111111111111",
		Gas:    fixedGas{price: big.NewInt(5_000_000_000)},
		Fees:   fixedFees{fee: decimal.RequireFromString("0.3")},
	}

	spec, err := s.BuildRequest(testParams())
	if err != nil {
		t.Fatalf("BuildRequest: %v", err)
	}
	if spec.Method != "POST" {
		t.Errorf("method = %s, want POST", spec.Method)
	}

	raw, err := json.Marshal(spec.Body)
	if err != nil {
		t.Fatalf("marshal body: %v", err)
	}
	var req swoopRequest
	if err := json.Unmarshal(raw, &req); err != nil {
		t.Fatalf("unmarshal body: %v", err)
	}
	if req.ChainID != 56 {
		t.Errorf("chainId = %d, want 56", req.ChainID)
	}
	if req.AmountIn != "100000000000000000000" {
		t.Errorf("amountIn = %s", req.AmountIn)
	}
	if req.SlippageBps != 100 {
		t.Errorf("slippageBps = %d, want 100", req.SlippageBps)
	}
	if req.GasPrice != "5000000000" {
		t.Errorf("gasPrice = %s", req.GasPrice)
	}
	if req.TokenOut.Decimals != 6 {
		t.Errorf("tokenOut decimals = %d", req.TokenOut.Decimals)
	}
}

func TestSwoopParse(t *testing.T) {
	s := &Swoop{Fees: fixedFees{fee: decimal.RequireFromString("0.3")}}

	quote, err := s.ParseResponse([]byte(`{"amountOutWei":"1500000"}`), testParams())
	if err != nil {
		t.Fatalf("ParseResponse: %v", err)
	}
	if !quote.AmountOut.Equal(decimal.RequireFromString("1.5")) {
		t.Errorf("AmountOut = %s, want 1.5", quote.AmountOut)
	}
	if quote.DexTitle != "SWOOP" {
		t.Errorf("DexTitle = %q", quote.DexTitle)
	}
	if !quote.FeeSwapUSD.Equal(decimal.RequireFromString("0.3")) {
		t.Errorf("FeeSwapUSD = %s, want chain fallback 0.3", quote.FeeSwapUSD)
	}

	if _, err := s.ParseResponse([]byte(`{}`), testParams()); err == nil {
		t.Error("missing amountOutWei should fail")
	}
}

func TestLiFiToolAttribution(t *testing.T) {
	l := &LiFi{Fees: fixedFees{fee: decimal.RequireFromString("0.3")}}
	body := []byte(`{"routes":[{"toAmount":"99000000","gasCostUSD":"0.2","steps":[{"tool":"kyberswap"}]}]}`)

	quote, err := l.ParseResponse(body, testParams())
	if err != nil {
		t.Fatalf("ParseResponse: %v", err)
	}
	if quote.RouteOverrideDex != "kyber" {
		t.Errorf("RouteOverrideDex = %q, want kyber", quote.RouteOverrideDex)
	}
	if quote.DexTitle != "KYBER" {
		t.Errorf("DexTitle = %q, want KYBER (attributed to executing tool)", quote.DexTitle)
	}
	if quote.RouteTool != "kyberswap" {
		t.Errorf("RouteTool = %q", quote.RouteTool)
	}
}

func TestLiFiUnmappedToolKeepsRequestedTitle(t *testing.T) {
	l := &LiFi{Fees: fixedFees{fee: decimal.Zero}}
	body := []byte(`{"routes":[{"toAmount":"99000000","steps":[{"tool":"sushiswap"}]}]}`)

	quote, err := l.ParseResponse(body, testParams())
	if err != nil {
		t.Fatalf("ParseResponse: %v", err)
	}
	if quote.DexTitle != "1INCH" {
		t.Errorf("unmapped tool should keep requested title, got %q", quote.DexTitle)
	}
	if quote.RouteOverrideDex != "" {
		t.Errorf("RouteOverrideDex should be empty for unmapped tool, got %q", quote.RouteOverrideDex)
	}
}

func TestDZAPPinsExchangeAndTitle(t *testing.T) {
	d := &DZAP{LiFi: &LiFi{Fees: fixedFees{fee: decimal.Zero}}}
	p := testParams()
	p.Aggregator = "kyber"

	spec, err := d.BuildRequest(p)
	if err != nil {
		t.Fatalf("BuildRequest: %v", err)
	}
	raw, _ := json.Marshal(spec.Body)
	if !strings.Contains(string(raw), `"allow":["kyberswap"]`) {
		t.Errorf("body should pin LiFi slug kyberswap: %s", raw)
	}

	// Even if another tool executed, DZAP keeps the requested title.
	body := []byte(`{"routes":[{"toAmount":"99000000","steps":[{"tool":"kyberswap"}]}]}`)
	quote, err := d.ParseResponse(body, p)
	if err != nil {
		t.Fatalf("ParseResponse: %v", err)
	}
	if quote.DexTitle != "KYBER" {
		t.Errorf("DexTitle = %q, want KYBER", quote.DexTitle)
	}
	if quote.RouteOverrideDex != "" {
		t.Errorf("DZAP should not attribute routes, got override %q", quote.RouteOverrideDex)
	}
}
