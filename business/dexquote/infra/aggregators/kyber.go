package aggregators

import (
	"encoding/json"
	"fmt"
	"net/url"

	"github.com/ardika/scanarb/business/dexquote/domain"
)

const kyberBaseURL = "https://aggregator-api.kyberswap.com"

type kyberStrategy struct {
	deps Deps
}

func (s *kyberStrategy) Kind() Kind        { return KindKyber }
func (s *kyberStrategy) AllowsProxy() bool { return true }

func (s *kyberStrategy) BuildRequest(p domain.QuoteParams) (RequestSpec, error) {
	q := url.Values{}
	q.Set("tokenIn", p.ContractIn)
	q.Set("tokenOut", p.ContractOut)
	q.Set("amountIn", p.AmountInRaw().String())
	q.Set("gasInclude", "true")

	base := s.deps.baseURL(KindKyber, kyberBaseURL)
	return RequestSpec{
		Method: "GET",
		URL:    fmt.Sprintf("%s/%s/api/v1/routes?%s", base, p.ChainName, q.Encode()),
	}, nil
}

type kyberResponse struct {
	Data *struct {
		RouteSummary *struct {
			AmountOut string `json:"amountOut"`
			GasUsd    string `json:"gasUsd"`
		} `json:"routeSummary"`
	} `json:"data"`
}

func (s *kyberStrategy) ParseResponse(body []byte, p domain.QuoteParams) (*domain.DexQuote, error) {
	var resp kyberResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, parseErr(KindKyber, err)
	}
	if resp.Data == nil || resp.Data.RouteSummary == nil {
		return nil, schemaErr(KindKyber, "data.routeSummary")
	}
	rs := resp.Data.RouteSummary
	if rs.AmountOut == "" {
		return nil, schemaErr(KindKyber, "data.routeSummary.amountOut")
	}
	fee := feeOrFallback(s.deps.Fees, p.ChainName, rs.GasUsd)
	return quoteFromRaw(KindKyber, rs.AmountOut, fee, p)
}
