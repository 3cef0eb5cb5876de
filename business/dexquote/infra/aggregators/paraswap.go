package aggregators

import (
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"

	"github.com/ardika/scanarb/business/dexquote/domain"
)

const paraswapBaseURL = "https://api.paraswap.io"

type paraswapStrategy struct {
	deps Deps
}

func (s *paraswapStrategy) Kind() Kind        { return KindParaswap }
func (s *paraswapStrategy) AllowsProxy() bool { return true }

func (s *paraswapStrategy) BuildRequest(p domain.QuoteParams) (RequestSpec, error) {
	q := url.Values{}
	q.Set("srcToken", p.ContractIn)
	q.Set("destToken", p.ContractOut)
	q.Set("amount", p.AmountInRaw().String())
	q.Set("srcDecimals", strconv.Itoa(p.DecimalsIn))
	q.Set("destDecimals", strconv.Itoa(p.DecimalsOut))
	q.Set("network", p.ChainCode)
	q.Set("side", "SELL")

	base := s.deps.baseURL(KindParaswap, paraswapBaseURL)
	return RequestSpec{
		Method: "GET",
		URL:    fmt.Sprintf("%s/prices?%s", base, q.Encode()),
	}, nil
}

type paraswapResponse struct {
	PriceRoute *struct {
		DestAmount string `json:"destAmount"`
		GasCostUSD string `json:"gasCostUSD"`
	} `json:"priceRoute"`
}

func (s *paraswapStrategy) ParseResponse(body []byte, p domain.QuoteParams) (*domain.DexQuote, error) {
	var resp paraswapResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, parseErr(KindParaswap, err)
	}
	if resp.PriceRoute == nil || resp.PriceRoute.DestAmount == "" {
		return nil, schemaErr(KindParaswap, "priceRoute.destAmount")
	}
	fee := feeOrFallback(s.deps.Fees, p.ChainName, resp.PriceRoute.GasCostUSD)
	return quoteFromRaw(KindParaswap, resp.PriceRoute.DestAmount, fee, p)
}
