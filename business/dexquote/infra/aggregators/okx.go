package aggregators

import (
	"encoding/json"
	"fmt"
	"net/url"
	"time"

	"github.com/ardika/scanarb/business/dexquote/domain"
)

const (
	okxBaseURL   = "https://www.okx.com"
	okxQuotePath = "/api/v5/dex/aggregator/quote"
)

// okxStrategy issues signed quote requests against the OKX DEX API,
// rotating credentials from the key pool per call. Signed requests
// never go through a proxy: the signature covers the request path.
type okxStrategy struct {
	deps Deps
	// now is injectable so tests can pin the signing timestamp.
	now func() time.Time
}

func (s *okxStrategy) Kind() Kind        { return KindOKX }
func (s *okxStrategy) AllowsProxy() bool { return false }

func (s *okxStrategy) BuildRequest(p domain.QuoteParams) (RequestSpec, error) {
	key, err := s.deps.Keys.Pick()
	if err != nil {
		return RequestSpec{}, err
	}

	q := url.Values{}
	q.Set("chainId", p.ChainCode)
	q.Set("fromTokenAddress", p.ContractIn)
	q.Set("toTokenAddress", p.ContractOut)
	q.Set("amount", p.AmountInRaw().String())
	requestPath := okxQuotePath + "?" + q.Encode()

	nowFn := s.now
	if nowFn == nil {
		nowFn = time.Now
	}
	timestamp := nowFn().UTC().Format("2006-01-02T15:04:05.000Z")
	signature := key.Sign(timestamp + "GET" + requestPath)

	return RequestSpec{
		Method: "GET",
		URL:    s.deps.baseURL(KindOKX, okxBaseURL) + requestPath,
		Headers: map[string]string{
			"OK-ACCESS-KEY":        key.APIKey,
			"OK-ACCESS-SIGN":       signature,
			"OK-ACCESS-TIMESTAMP":  timestamp,
			"OK-ACCESS-PASSPHRASE": key.Passphrase,
		},
	}, nil
}

type okxResponse struct {
	Code string `json:"code"`
	Msg  string `json:"msg"`
	Data []struct {
		ToTokenAmount string `json:"toTokenAmount"`
	} `json:"data"`
}

func (s *okxStrategy) ParseResponse(body []byte, p domain.QuoteParams) (*domain.DexQuote, error) {
	var resp okxResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, parseErr(KindOKX, err)
	}
	if resp.Code != "" && resp.Code != "0" {
		return nil, schemaErr(KindOKX, fmt.Sprintf("code=%s msg=%s", resp.Code, resp.Msg))
	}
	if len(resp.Data) == 0 || resp.Data[0].ToTokenAmount == "" {
		return nil, schemaErr(KindOKX, "data[0].toTokenAmount")
	}
	fee := s.deps.Fees.FeeSwapUSD(p.ChainName)
	return quoteFromRaw(KindOKX, resp.Data[0].ToTokenAmount, fee, p)
}
