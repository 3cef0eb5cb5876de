package aggregators

import (
	"encoding/json"
	"fmt"
	"net/url"

	"github.com/ardika/scanarb/business/dexquote/domain"
)

const (
	zeroXBaseURL    = "https://api.0x.org"
	matchaSolanaURL = "https://matcha.xyz/api/swap/price/solana"
	solanaChainCode = "501"
)

// zeroXStrategy quotes the 0x swap API. The zero-1inch and zero-kyber
// variants pin the route to a single liquidity source, which lets a
// scan read 1inch/Kyber pricing through 0x when the direct API is
// unavailable.
type zeroXStrategy struct {
	deps    Deps
	kind    Kind
	sources string // includedSources filter, empty for unrestricted
}

func (s *zeroXStrategy) Kind() Kind        { return s.kind }
func (s *zeroXStrategy) AllowsProxy() bool { return true }

func (s *zeroXStrategy) BuildRequest(p domain.QuoteParams) (RequestSpec, error) {
	q := url.Values{}
	q.Set("sellToken", p.ContractIn)
	q.Set("buyToken", p.ContractOut)
	q.Set("sellAmount", p.AmountInRaw().String())

	var endpoint string
	if p.ChainCode == solanaChainCode {
		// Solana price lives on the Matcha front-end API, different
		// path shape, no chainId parameter.
		endpoint = fmt.Sprintf("%s?%s", matchaSolanaURL, q.Encode())
	} else {
		q.Set("chainId", p.ChainCode)
		if s.sources != "" {
			q.Set("includedSources", s.sources)
		}
		base := s.deps.baseURL(s.kind, zeroXBaseURL)
		endpoint = fmt.Sprintf("%s/swap/permit2/price?%s", base, q.Encode())
	}

	spec := RequestSpec{Method: "GET", URL: endpoint}
	if key := s.deps.apiKey(KindZeroX); key != "" {
		spec.Headers = map[string]string{
			"0x-api-key": key,
			"0x-version": "v2",
		}
	}
	return spec, nil
}

type zeroXResponse struct {
	BuyAmount string `json:"buyAmount"`
}

func (s *zeroXStrategy) ParseResponse(body []byte, p domain.QuoteParams) (*domain.DexQuote, error) {
	var resp zeroXResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, parseErr(s.kind, err)
	}
	if resp.BuyAmount == "" {
		return nil, schemaErr(s.kind, "buyAmount")
	}
	fee := s.deps.Fees.FeeSwapUSD(p.ChainName)
	return quoteFromRaw(s.kind, resp.BuyAmount, fee, p)
}
