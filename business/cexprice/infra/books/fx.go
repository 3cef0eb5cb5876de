package books

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/ardika/scanarb/internal/apperror"
	"github.com/ardika/scanarb/internal/cache"
	"github.com/ardika/scanarb/internal/httpclient"
	"github.com/ardika/scanarb/internal/logger"
)

const fxCacheKey = "usdt-idr"

// FXRateProvider fetches the USDT/IDR ticker and caches the rate.
type FXRateProvider struct {
	client httpclient.Client
	url    string
	cache  *cache.Cache[string, decimal.Decimal]
	log    logger.LoggerInterface
}

// NewFXRateProvider creates a provider polling url with the given TTL.
func NewFXRateProvider(client httpclient.Client, url string, ttl time.Duration, log logger.LoggerInterface) *FXRateProvider {
	return &FXRateProvider{
		client: client,
		url:    url,
		cache:  cache.New[string, decimal.Decimal](ttl),
		log:    log,
	}
}

// IDRPerUSDT returns the cached rate, refreshing it when expired.
func (p *FXRateProvider) IDRPerUSDT(ctx context.Context) (decimal.Decimal, error) {
	if rate, ok := p.cache.Get(ctx, fxCacheKey); ok {
		return rate, nil
	}

	var result struct {
		Ticker struct {
			Last string `json:"last"`
		} `json:"ticker"`
	}

	resp, err := p.client.NewRequest().
		SetResult(&result).
		Get(ctx, p.url)
	if err != nil {
		return decimal.Zero, apperror.New(apperror.CodeMissingFXRate, apperror.WithCause(err))
	}
	if resp.IsError() || resp.DecodeErr() != nil || result.Ticker.Last == "" {
		return decimal.Zero, apperror.New(apperror.CodeMissingFXRate,
			apperror.WithStatusCode(resp.StatusCode),
		)
	}

	rate, err := decimal.NewFromString(result.Ticker.Last)
	if err != nil || rate.Sign() <= 0 {
		return decimal.Zero, apperror.New(apperror.CodeMissingFXRate, apperror.WithCause(err))
	}

	p.cache.Set(ctx, fxCacheKey, rate)
	p.log.Debug(ctx, "refreshed usdt/idr rate", "rate", rate.String())
	return rate, nil
}
