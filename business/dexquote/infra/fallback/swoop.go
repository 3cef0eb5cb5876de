// Package fallback implements the secondary quoting paths used when a
// primary aggregator fails.
package fallback

import (
	"encoding/json"
	"math/big"
	"strconv"

	"github.com/shopspring/decimal"

	"github.com/ardika/scanarb/business/dexquote/domain"
	"github.com/ardika/scanarb/business/dexquote/infra/aggregators"
	"github.com/ardika/scanarb/internal/apperror"
)

const swoopQuoteURL = "https://bff.swoop.exchange/v1/swap/quote"

// GasPriceSource supplies a cached per-chain gas price for quote
// payloads that want one. A nil price is acceptable, the backend will
// use its own estimate.
type GasPriceSource interface {
	GasPriceWei(chain string) *big.Int
}

// Swoop posts a normalized swap-quote payload and reads amountOutWei.
// It is the default fallback for the token-to-pair direction.
type Swoop struct {
	BaseURL string
	Wallet  string
	Gas     GasPriceSource
	Fees    aggregators.FeeEstimator
}

// Name returns the plan key this provider answers to.
func (s *Swoop) Name() string { return "swoop" }

type swoopToken struct {
	Address  string `json:"address"`
	Symbol   string `json:"symbol"`
	Decimals int    `json:"decimals"`
}

type swoopRequest struct {
	ChainID     int64      `json:"chainId"`
	Aggregator  string     `json:"aggregator"`
	Sender      string     `json:"sender"`
	TokenIn     swoopToken `json:"tokenIn"`
	TokenOut    swoopToken `json:"tokenOut"`
	AmountIn    string     `json:"amountIn"`
	SlippageBps int        `json:"slippageBps"`
	GasPrice    string     `json:"gasPrice,omitempty"`
}

// BuildRequest assembles the quote POST.
func (s *Swoop) BuildRequest(p domain.QuoteParams) (aggregators.RequestSpec, error) {
	chainID, err := strconv.ParseInt(p.ChainCode, 10, 64)
	if err != nil {
		return aggregators.RequestSpec{}, apperror.New(apperror.CodeQuoteSchemaInvalid,
			apperror.WithContext("chain_code", p.ChainCode))
	}

	req := swoopRequest{
		ChainID:    chainID,
		Aggregator: p.Aggregator,
		Sender:     s.Wallet,
		TokenIn: swoopToken{
			Address:  p.ContractIn,
			Symbol:   p.SymbolIn,
			Decimals: p.DecimalsIn,
		},
		TokenOut: swoopToken{
			Address:  p.ContractOut,
			Symbol:   p.SymbolOut,
			Decimals: p.DecimalsOut,
		},
		AmountIn:    p.AmountInRaw().String(),
		SlippageBps: 100,
	}
	if s.Gas != nil {
		if gp := s.Gas.GasPriceWei(p.ChainName); gp != nil {
			req.GasPrice = gp.String()
		}
	}

	url := s.BaseURL
	if url == "" {
		url = swoopQuoteURL
	}
	return aggregators.RequestSpec{Method: "POST", URL: url, Body: req}, nil
}

type swoopResponse struct {
	AmountOutWei string `json:"amountOutWei"`
	GasCostUSD   string `json:"gasCostUsd"`
}

// ParseResponse reads amountOutWei and divides by 10^decimalsOut.
func (s *Swoop) ParseResponse(body []byte, p domain.QuoteParams) (*domain.DexQuote, error) {
	var resp swoopResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, apperror.New(apperror.CodeQuoteParseError,
			apperror.WithCause(err),
			apperror.WithContext("provider", s.Name()))
	}
	if resp.AmountOutWei == "" {
		return nil, apperror.New(apperror.CodeQuoteSchemaInvalid,
			apperror.WithContext("provider", s.Name()),
			apperror.WithContext("missing_field", "amountOutWei"))
	}
	out, err := domain.DivideRaw(resp.AmountOutWei, p.DecimalsOut)
	if err != nil {
		return nil, err
	}

	fee := s.Fees.FeeSwapUSD(p.ChainName)
	if resp.GasCostUSD != "" {
		if reported, perr := decimal.NewFromString(resp.GasCostUSD); perr == nil && !reported.IsNegative() {
			fee = reported
		}
	}
	return &domain.DexQuote{
		DexTitle:    "SWOOP",
		ScIn:        p.ContractIn,
		DecimalsIn:  p.DecimalsIn,
		ScOut:       p.ContractOut,
		DecimalsOut: p.DecimalsOut,
		FeeSwapUSD:  fee,
		AmountOut:   out,
	}, nil
}
