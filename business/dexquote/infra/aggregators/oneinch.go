package aggregators

import (
	"encoding/json"

	"github.com/ardika/scanarb/business/dexquote/domain"
)

const lifiRoutesURL = "https://li.quest/v1/advanced/routes"

// oneInchStrategy quotes through the LiFi routing backend, which in
// practice resolves to 1inch on most EVM chains. Aliased from both
// "1inch" and "lifi" keys.
type oneInchStrategy struct {
	deps Deps
}

func (s *oneInchStrategy) Kind() Kind        { return KindOneInch }
func (s *oneInchStrategy) AllowsProxy() bool { return true }

type lifiRouteRequest struct {
	FromAmount       string           `json:"fromAmount"`
	FromChainID      string           `json:"fromChainId"`
	FromTokenAddress string           `json:"fromTokenAddress"`
	ToChainID        string           `json:"toChainId"`
	ToTokenAddress   string           `json:"toTokenAddress"`
	Options          lifiRouteOptions `json:"options"`
}

type lifiRouteOptions struct {
	Integrator       string        `json:"integrator"`
	Order            string        `json:"order"`
	AllowSwitchChain bool          `json:"allowSwitchChain"`
	Exchanges        *lifiExchange `json:"exchanges,omitempty"`
}

type lifiExchange struct {
	Allow []string `json:"allow"`
}

func (s *oneInchStrategy) BuildRequest(p domain.QuoteParams) (RequestSpec, error) {
	spec := RequestSpec{
		Method: "POST",
		URL:    s.deps.baseURL(KindOneInch, lifiRoutesURL),
		Body: lifiRouteRequest{
			FromAmount:       p.AmountInRaw().String(),
			FromChainID:      p.ChainCode,
			FromTokenAddress: p.ContractIn,
			ToChainID:        p.ChainCode,
			ToTokenAddress:   p.ContractOut,
			Options: lifiRouteOptions{
				Integrator:       "scanarb",
				Order:            "CHEAPEST",
				AllowSwitchChain: true,
			},
		},
	}
	if key := s.deps.apiKey(KindOneInch); key != "" {
		spec.Headers = map[string]string{"x-lifi-api-key": key}
	}
	return spec, nil
}

type lifiRoutesResponse struct {
	Routes []struct {
		ToAmount   string `json:"toAmount"`
		GasCostUSD string `json:"gasCostUSD"`
		Steps      []struct {
			Tool string `json:"tool"`
		} `json:"steps"`
	} `json:"routes"`
}

func (s *oneInchStrategy) ParseResponse(body []byte, p domain.QuoteParams) (*domain.DexQuote, error) {
	var resp lifiRoutesResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, parseErr(KindOneInch, err)
	}
	if len(resp.Routes) == 0 {
		return nil, schemaErr(KindOneInch, "routes[0]")
	}
	route := resp.Routes[0]
	if route.ToAmount == "" {
		return nil, schemaErr(KindOneInch, "routes[0].toAmount")
	}
	fee := feeOrFallback(s.deps.Fees, p.ChainName, route.GasCostUSD)
	quote, err := quoteFromRaw(KindOneInch, route.ToAmount, fee, p)
	if err != nil {
		return nil, err
	}
	if len(route.Steps) > 0 {
		quote.RouteTool = route.Steps[0].Tool
	}
	return quote, nil
}
