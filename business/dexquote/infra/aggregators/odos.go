package aggregators

import (
	"encoding/json"
	"strconv"

	"github.com/ardika/scanarb/business/dexquote/domain"
)

const (
	odosBaseURL   = "https://api.odos.xyz/sor/quote/v2"
	hinkalBaseURL = "https://quote.hinkal.pro/sor/quote/v2"
)

// odosStrategy covers both Odos and Hinkal. Hinkal fronts the same SOR
// engine behind a privacy relay and answers with outputTokens instead
// of outAmounts.
type odosStrategy struct {
	deps Deps
	kind Kind
}

func (s *odosStrategy) Kind() Kind        { return s.kind }
func (s *odosStrategy) AllowsProxy() bool { return true }

type odosTokenIn struct {
	TokenAddress string `json:"tokenAddress"`
	Amount       string `json:"amount"`
}

type odosTokenOut struct {
	TokenAddress string `json:"tokenAddress"`
	Proportion   int    `json:"proportion"`
}

type odosRequest struct {
	ChainID              int64          `json:"chainId"`
	InputTokens          []odosTokenIn  `json:"inputTokens"`
	OutputTokens         []odosTokenOut `json:"outputTokens"`
	UserAddr             string         `json:"userAddr,omitempty"`
	SlippageLimitPercent float64        `json:"slippageLimitPercent"`
	Compact              bool           `json:"compact"`
}

func (s *odosStrategy) BuildRequest(p domain.QuoteParams) (RequestSpec, error) {
	chainID, err := strconv.ParseInt(p.ChainCode, 10, 64)
	if err != nil {
		return RequestSpec{}, schemaErr(s.kind, "chainCode")
	}

	def := odosBaseURL
	if s.kind == KindHinkal {
		def = hinkalBaseURL
	}

	return RequestSpec{
		Method: "POST",
		URL:    s.deps.baseURL(s.kind, def),
		Body: odosRequest{
			ChainID:              chainID,
			InputTokens:          []odosTokenIn{{TokenAddress: p.ContractIn, Amount: p.AmountInRaw().String()}},
			OutputTokens:         []odosTokenOut{{TokenAddress: p.ContractOut, Proportion: 1}},
			UserAddr:             s.deps.Wallet,
			SlippageLimitPercent: 1,
			Compact:              true,
		},
	}, nil
}

type odosResponse struct {
	OutAmounts       []string `json:"outAmounts"`
	GasEstimateValue float64  `json:"gasEstimateValue"`
	OutputTokens     []struct {
		Amount string `json:"amount"`
	} `json:"outputTokens"`
}

func (s *odosStrategy) ParseResponse(body []byte, p domain.QuoteParams) (*domain.DexQuote, error) {
	var resp odosResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, parseErr(s.kind, err)
	}

	var rawOut string
	switch {
	case len(resp.OutAmounts) > 0:
		rawOut = resp.OutAmounts[0]
	case len(resp.OutputTokens) > 0:
		rawOut = resp.OutputTokens[0].Amount
	}
	if rawOut == "" {
		return nil, schemaErr(s.kind, "outAmounts")
	}

	fee := s.deps.Fees.FeeSwapUSD(p.ChainName)
	if resp.GasEstimateValue > 0 {
		fee = feeOrFallback(s.deps.Fees, p.ChainName, strconv.FormatFloat(resp.GasEstimateValue, 'f', -1, 64))
	}
	return quoteFromRaw(s.kind, rawOut, fee, p)
}
