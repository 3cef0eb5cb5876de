// Package di exposes the dexquote context's service tokens.
package di

import (
	"github.com/ardika/scanarb/business/dexquote/app"
	"github.com/ardika/scanarb/business/dexquote/infra/fees"
	"github.com/ardika/scanarb/internal/di"
)

// Public tokens, consumed by other contexts.
var (
	QuoteService = di.NewToken[*app.QuoteService]("dexquote.quote_service")
	FeeEstimator = di.NewToken[*fees.Estimator]("dexquote.fee_estimator")
)

// GetQuoteService resolves the quote orchestrator.
func GetQuoteService(c di.ServiceRegistry) *app.QuoteService {
	return di.GetToken(c, QuoteService)
}

// GetFeeEstimator resolves the chain fee estimator.
func GetFeeEstimator(c di.ServiceRegistry) *fees.Estimator {
	return di.GetToken(c, FeeEstimator)
}
