package books

import (
	"context"
	"strings"

	"github.com/ardika/scanarb/internal/apperror"
	"github.com/ardika/scanarb/internal/config"
	"github.com/ardika/scanarb/internal/httpclient"
	"github.com/ardika/scanarb/internal/httpstatus"
	"github.com/ardika/scanarb/internal/logger"
)

// Client fetches raw orderbook payloads from configured exchange endpoints.
type Client struct {
	http      httpclient.Client
	endpoints map[string]config.ExchangeConfig
	log       logger.LoggerInterface
}

// NewClient creates a books client over the configured endpoints.
func NewClient(http httpclient.Client, endpoints map[string]config.ExchangeConfig, log logger.LoggerInterface) *Client {
	return &Client{
		http:      http,
		endpoints: endpoints,
		log:       log,
	}
}

// Endpoint resolves the configuration for an exchange key.
func (c *Client) Endpoint(exchange string) (config.ExchangeConfig, error) {
	cfg, ok := c.endpoints[strings.ToUpper(exchange)]
	if !ok || !cfg.Enabled {
		return config.ExchangeConfig{}, apperror.New(apperror.CodeExchangeNotFound,
			apperror.WithContext("exchange", exchange),
		)
	}
	return cfg, nil
}

// FetchRaw downloads one orderbook payload for base/quote on the exchange.
func (c *Client) FetchRaw(ctx context.Context, exchange, base, quote string) ([]byte, error) {
	cfg, err := c.Endpoint(exchange)
	if err != nil {
		return nil, err
	}

	url := strings.Replace(cfg.OrderbookURL, "{symbol}", SymbolFor(exchange, base, quote), 1)

	resp, err := c.http.NewRequestWithOptions(
		httpclient.WithLabels(httpclient.NewLabel("exchange", strings.ToUpper(exchange))),
		httpclient.WithResponseErrorHandler(func(statusCode int, body []byte) error {
			if httpstatus.IsRateLimited(statusCode) {
				return apperror.New(apperror.CodeExchangeRateLimited,
					apperror.WithStatusCode(statusCode),
					apperror.WithContext("exchange", exchange),
				)
			}
			if statusCode >= 400 {
				return apperror.New(apperror.CodeExchangeAPIError,
					apperror.WithStatusCode(statusCode),
					apperror.WithContext("exchange", exchange),
					apperror.WithContext("status", httpstatus.Describe(statusCode)),
				)
			}
			return nil
		}),
	).Get(ctx, url)
	if err != nil {
		if apperror.IsAppError(err) {
			return nil, err
		}
		return nil, apperror.New(apperror.CodeOrderbookFetchFailed,
			apperror.WithCause(err),
			apperror.WithContext("exchange", exchange),
		)
	}

	return resp.Body(), nil
}

// SymbolFor renders the exchange's ticker symbol convention for a pair.
func SymbolFor(exchange, base, quote string) string {
	base = strings.ToUpper(base)
	quote = strings.ToUpper(quote)

	switch strings.ToUpper(exchange) {
	case "KUCOIN":
		return base + "-" + quote
	case "INDODAX":
		// Indodax books are IDR-quoted regardless of the requested pair.
		return strings.ToLower(base) + "idr"
	default:
		return base + quote
	}
}
