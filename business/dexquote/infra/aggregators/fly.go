package aggregators

import (
	"encoding/json"
	"fmt"
	"net/url"

	"github.com/ardika/scanarb/business/dexquote/domain"
)

const flyBaseURL = "https://api.fly.trade"

type flyStrategy struct {
	deps Deps
}

func (s *flyStrategy) Kind() Kind        { return KindFly }
func (s *flyStrategy) AllowsProxy() bool { return true }

func (s *flyStrategy) BuildRequest(p domain.QuoteParams) (RequestSpec, error) {
	q := url.Values{}
	q.Set("network", p.ChainName)
	q.Set("fromTokenAddress", p.ContractIn)
	q.Set("toTokenAddress", p.ContractOut)
	q.Set("sellAmount", p.AmountInRaw().String())
	if s.deps.Wallet != "" {
		q.Set("fromAddress", s.deps.Wallet)
		q.Set("toAddress", s.deps.Wallet)
	}
	q.Set("slippage", "0.01")

	base := s.deps.baseURL(KindFly, flyBaseURL)
	return RequestSpec{
		Method: "GET",
		URL:    fmt.Sprintf("%s/aggregator/quote?%s", base, q.Encode()),
	}, nil
}

type flyResponse struct {
	AmountOut string `json:"amountOut"`
}

func (s *flyStrategy) ParseResponse(body []byte, p domain.QuoteParams) (*domain.DexQuote, error) {
	var resp flyResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, parseErr(KindFly, err)
	}
	if resp.AmountOut == "" {
		return nil, schemaErr(KindFly, "amountOut")
	}
	fee := s.deps.Fees.FeeSwapUSD(p.ChainName)
	return quoteFromRaw(KindFly, resp.AmountOut, fee, p)
}
