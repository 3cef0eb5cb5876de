package fallback

import (
	"encoding/json"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/ardika/scanarb/business/dexquote/domain"
	"github.com/ardika/scanarb/business/dexquote/infra/aggregators"
	"github.com/ardika/scanarb/internal/apperror"
)

const lifiRoutesURL = "https://li.quest/v1/advanced/routes"

// DefaultToolMap maps LiFi step tool identifiers back to canonical
// aggregator keys so a fill can be attributed to the venue that
// actually executed it. Unmapped tools fall back to the originally
// requested aggregator's title.
func DefaultToolMap() map[string]string {
	return map[string]string{
		"1inch":     "1inch",
		"0x":        "0x",
		"kyberswap": "kyber",
		"odos":      "odos",
		"okx":       "okx",
	}
}

// LiFi quotes via the advanced routes endpoint with no exchange filter,
// letting the router pick freely. Default fallback for pair-to-token.
type LiFi struct {
	BaseURL string
	APIKey  string
	Fees    aggregators.FeeEstimator
	// ToolMap overrides DefaultToolMap when non-nil.
	ToolMap map[string]string
}

// Name returns the plan key this provider answers to.
func (l *LiFi) Name() string { return "lifi" }

type lifiRequest struct {
	FromAmount       string      `json:"fromAmount"`
	FromChainID      string      `json:"fromChainId"`
	FromTokenAddress string      `json:"fromTokenAddress"`
	ToChainID        string      `json:"toChainId"`
	ToTokenAddress   string      `json:"toTokenAddress"`
	Options          lifiOptions `json:"options"`
}

type lifiOptions struct {
	Integrator       string         `json:"integrator"`
	Order            string         `json:"order"`
	AllowSwitchChain bool           `json:"allowSwitchChain"`
	Exchanges        *lifiExchanges `json:"exchanges,omitempty"`
}

type lifiExchanges struct {
	Allow []string `json:"allow"`
}

func (l *LiFi) buildRequest(p domain.QuoteParams, allow []string) aggregators.RequestSpec {
	url := l.BaseURL
	if url == "" {
		url = lifiRoutesURL
	}
	opts := lifiOptions{
		Integrator:       "scanarb",
		Order:            "CHEAPEST",
		AllowSwitchChain: true,
	}
	if len(allow) > 0 {
		opts.Exchanges = &lifiExchanges{Allow: allow}
	}
	spec := aggregators.RequestSpec{
		Method: "POST",
		URL:    url,
		Body: lifiRequest{
			FromAmount:       p.AmountInRaw().String(),
			FromChainID:      p.ChainCode,
			FromTokenAddress: p.ContractIn,
			ToChainID:        p.ChainCode,
			ToTokenAddress:   p.ContractOut,
			Options:          opts,
		},
	}
	if l.APIKey != "" {
		spec.Headers = map[string]string{"x-lifi-api-key": l.APIKey}
	}
	return spec
}

// BuildRequest assembles the unfiltered routes POST.
func (l *LiFi) BuildRequest(p domain.QuoteParams) (aggregators.RequestSpec, error) {
	return l.buildRequest(p, nil), nil
}

type lifiResponse struct {
	Routes []struct {
		ToAmount   string `json:"toAmount"`
		GasCostUSD string `json:"gasCostUSD"`
		Steps      []struct {
			Tool string `json:"tool"`
		} `json:"steps"`
	} `json:"routes"`
}

func (l *LiFi) parse(body []byte, p domain.QuoteParams, title string, attribute bool) (*domain.DexQuote, error) {
	var resp lifiResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, apperror.New(apperror.CodeQuoteParseError,
			apperror.WithCause(err),
			apperror.WithContext("provider", l.Name()))
	}
	if len(resp.Routes) == 0 || resp.Routes[0].ToAmount == "" {
		return nil, apperror.New(apperror.CodeQuoteSchemaInvalid,
			apperror.WithContext("provider", l.Name()),
			apperror.WithContext("missing_field", "routes[0].toAmount"))
	}
	route := resp.Routes[0]

	out, err := domain.DivideRaw(route.ToAmount, p.DecimalsOut)
	if err != nil {
		return nil, err
	}

	quote := &domain.DexQuote{
		DexTitle:    title,
		ScIn:        p.ContractIn,
		DecimalsIn:  p.DecimalsIn,
		ScOut:       p.ContractOut,
		DecimalsOut: p.DecimalsOut,
		FeeSwapUSD:  l.Fees.FeeSwapUSD(p.ChainName),
		AmountOut:   out,
	}
	if route.GasCostUSD != "" {
		if fee, perr := decimal.NewFromString(route.GasCostUSD); perr == nil && !fee.IsNegative() {
			quote.FeeSwapUSD = fee
		}
	}

	if len(route.Steps) > 0 {
		quote.RouteTool = route.Steps[0].Tool
		if attribute {
			toolMap := l.ToolMap
			if toolMap == nil {
				toolMap = DefaultToolMap()
			}
			if canonical, ok := toolMap[strings.ToLower(route.Steps[0].Tool)]; ok {
				quote.RouteOverrideDex = canonical
				quote.DexTitle = strings.ToUpper(canonical)
			}
		}
	}
	return quote, nil
}

// ParseResponse reads routes[0] and attributes the fill to the tool
// that executed it.
func (l *LiFi) ParseResponse(body []byte, p domain.QuoteParams) (*domain.DexQuote, error) {
	return l.parse(body, p, strings.ToUpper(p.Aggregator), true)
}
