package app

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/ardika/scanarb/business/cexprice/domain"
	"github.com/ardika/scanarb/internal/apperror"
	"github.com/ardika/scanarb/internal/asset"
	"github.com/ardika/scanarb/internal/config"
	"github.com/ardika/scanarb/internal/logger"
	"github.com/ardika/scanarb/internal/ratelimit"
)

// stableDepthVolume is the synthetic per-level notional used when a leg is
// a stablecoin and its book is never fetched.
var stableDepthVolume = decimal.NewFromInt(10000)

// PriceService resolves CEX quotes: two orderbook legs fetched in
// parallel, normalized, and folded into one CexQuoteResult.
type PriceService struct {
	books       BookProvider
	normalizers NormalizerFactory
	fees        FeeSource
	pacer       *ratelimit.Pacer
	depth       int
	sink        ResultSink
	log         logger.LoggerInterface
}

// NewPriceService wires the service and configures per-exchange pacing
// from the endpoint config.
func NewPriceService(
	books BookProvider,
	normalizers NormalizerFactory,
	fees FeeSource,
	endpoints map[string]config.ExchangeConfig,
	depth int,
	sink ResultSink,
	log logger.LoggerInterface,
) *PriceService {
	pacer := ratelimit.NewPacer(0)
	for name, ex := range endpoints {
		pacer.Configure(name, time.Duration(ex.JedaMs)*time.Millisecond)
	}

	return &PriceService{
		books:       books,
		normalizers: normalizers,
		fees:        fees,
		pacer:       pacer,
		depth:       depth,
		sink:        sink,
		log:         log,
	}
}

// GetPriceCEX fetches both legs of req concurrently. A failure in either
// leg fails the whole call.
func (s *PriceService) GetPriceCEX(ctx context.Context, req domain.PairRequest) (*domain.CexQuoteResult, error) {
	var tokenLeg, pairLeg *domain.LegQuote

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		leg, err := s.fetchLeg(gctx, req.Exchange, req.Token, req.Pair)
		if err != nil {
			return err
		}
		tokenLeg = leg
		return nil
	})
	g.Go(func() error {
		leg, err := s.fetchLeg(gctx, req.Exchange, req.Pair, "USDT")
		if err != nil {
			return err
		}
		pairLeg = leg
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	result := &domain.CexQuoteResult{
		Token:     req.Token,
		Pair:      req.Pair,
		Cex:       req.Exchange,
		ScIn:      req.ScIn,
		ScOut:     req.ScOut,
		ChainName: req.ChainName,

		PriceSellToken: tokenLeg.PriceSell,
		PriceBuyToken:  tokenLeg.PriceBuy,
		PriceSellPair:  pairLeg.PriceSell,
		PriceBuyPair:   pairLeg.PriceBuy,

		VolumesSellToken: tokenLeg.VolumesSell,
		VolumesBuyToken:  tokenLeg.VolumesBuy,
		VolumesSellPair:  pairLeg.VolumesSell,
		VolumesBuyPair:   pairLeg.VolumesBuy,

		FeeWDToken: tokenLeg.FeeWD,
		FeeWDPair:  pairLeg.FeeWD,
	}
	if err := result.Validate(); err != nil {
		return nil, err
	}

	if s.sink != nil {
		s.sink(result)
	}
	return result, nil
}

// fetchLeg resolves one orderbook leg. Stablecoin legs never hit the
// network: they price at exactly 1 with synthetic depth.
func (s *PriceService) fetchLeg(ctx context.Context, exchange, base, quote string) (*domain.LegQuote, error) {
	rawFee := s.fees.WithdrawFeeRaw(exchange, base)

	if asset.IsStableSymbol(base) {
		return s.stableLeg(exchange, base, rawFee)
	}

	endpoint, err := s.books.Endpoint(exchange)
	if err != nil {
		return nil, err
	}

	if err := s.pacer.Wait(ctx, exchange); err != nil {
		return nil, err
	}

	raw, err := s.books.FetchRaw(ctx, exchange, base, quote)
	if err != nil {
		return nil, err
	}

	normalizer, err := s.normalizers(endpoint.Parser)
	if err != nil {
		return nil, err
	}

	book, err := normalizer.Normalize(ctx, raw, s.depth)
	if err != nil {
		return nil, err
	}
	if book.IsEmpty() {
		s.log.Warn(ctx, "empty orderbook leg", "exchange", exchange, "symbol", base)
	}

	// A market taker pays the best ask and receives the best bid.
	priceBuy := book.BestAsk()
	priceSell := book.BestBid()
	if priceBuy.Sign() <= 0 || priceSell.Sign() <= 0 {
		return nil, apperror.New(apperror.CodeInvalidPrice,
			apperror.WithContext("exchange", exchange),
			apperror.WithContext("symbol", base),
		)
	}

	feeWD := rawFee.Mul(priceBuy)
	if feeWD.Sign() < 0 {
		return nil, apperror.New(apperror.CodeInvalidFee,
			apperror.WithContext("exchange", exchange),
			apperror.WithContext("symbol", base),
		)
	}

	return &domain.LegQuote{
		PriceSell:   priceSell,
		PriceBuy:    priceBuy,
		VolumesSell: domain.Volumes(book.BuyLevels),
		VolumesBuy:  domain.Volumes(book.SellLevels),
		FeeWD:       feeWD,
	}, nil
}

func (s *PriceService) stableLeg(exchange, symbol string, rawFee decimal.Decimal) (*domain.LegQuote, error) {
	if rawFee.Sign() < 0 {
		return nil, apperror.New(apperror.CodeInvalidFee,
			apperror.WithContext("exchange", exchange),
			apperror.WithContext("symbol", symbol),
		)
	}

	one := decimal.NewFromInt(1)
	volumes := make([]decimal.Decimal, s.depth)
	for i := range volumes {
		volumes[i] = stableDepthVolume
	}

	return &domain.LegQuote{
		PriceSell:   one,
		PriceBuy:    one,
		VolumesSell: volumes,
		VolumesBuy:  volumes,
		FeeWD:       rawFee, // price is exactly 1
	}, nil
}
