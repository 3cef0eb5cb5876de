// Package fees estimates the USD cost of a swap per chain. Every chain
// has a static fallback from config; chains with an RPC endpoint get a
// live estimate refreshed from the node's suggested gas price.
package fees

import (
	"context"
	"math/big"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/shopspring/decimal"

	"github.com/ardika/scanarb/internal/apperror"
	"github.com/ardika/scanarb/internal/cache"
	"github.com/ardika/scanarb/internal/circuitbreaker"
	"github.com/ardika/scanarb/internal/config"
	"github.com/ardika/scanarb/internal/logger"
)

var weiPerEther = decimal.New(1, 18)

type chainState struct {
	cfg     config.ChainConfig
	client  *ethclient.Client
	breaker *circuitbreaker.CircuitBreaker[*big.Int]
	mu      sync.Mutex
}

// Estimator answers FeeSwapUSD lookups from a static table, upgraded
// by live gas prices where an RPC is configured.
type Estimator struct {
	chains map[string]*chainState
	prices *cache.Cache[string, *big.Int] // chain -> last gas price in wei
	fees   *cache.Cache[string, decimal.Decimal]
	log    logger.LoggerInterface
}

// NewEstimator builds an estimator over the configured chains. RPC
// connections are dialed lazily on first refresh.
func NewEstimator(chains map[string]config.ChainConfig, ttl time.Duration, log logger.LoggerInterface) *Estimator {
	if ttl <= 0 {
		ttl = 12 * time.Second
	}
	states := make(map[string]*chainState, len(chains))
	for name, c := range chains {
		states[name] = &chainState{
			cfg:     c,
			breaker: circuitbreaker.New[*big.Int](circuitbreaker.DefaultConfig("gas-" + name)),
		}
	}
	return &Estimator{
		chains: states,
		prices: cache.New[string, *big.Int](ttl),
		fees:   cache.New[string, decimal.Decimal](ttl),
		log:    log,
	}
}

// FeeSwapUSD returns the current swap fee estimate for a chain. Falls
// back to the static config value when no live estimate is cached, and
// to zero for unknown chains.
func (e *Estimator) FeeSwapUSD(chain string) decimal.Decimal {
	if fee, ok := e.fees.Get(context.Background(), chain); ok {
		return fee
	}
	if st, ok := e.chains[chain]; ok {
		return decimal.NewFromFloat(st.cfg.FeeSwapUSD)
	}
	return decimal.Zero
}

// GasPriceWei returns the last observed gas price for a chain, nil when
// none has been fetched yet.
func (e *Estimator) GasPriceWei(chain string) *big.Int {
	if gp, ok := e.prices.Get(context.Background(), chain); ok {
		return gp
	}
	return nil
}

// Refresh pulls gas prices for every chain that has an RPC endpoint and
// recomputes the live USD fee. Errors degrade to the static estimate.
func (e *Estimator) Refresh(ctx context.Context) {
	for name, st := range e.chains {
		if st.cfg.RPCURL == "" || st.cfg.NativeUSD <= 0 || st.cfg.GasUnits == 0 {
			continue
		}
		gasPrice, err := e.fetchGasPrice(ctx, name, st)
		if err != nil {
			e.log.Warn(ctx, "gas price refresh failed", "chain", name, "error", err)
			continue
		}

		e.prices.Set(ctx, name, gasPrice)

		// fee = gasPrice × gasUnits / 1e18 × nativeUSD
		gasWei := decimal.NewFromBigInt(gasPrice, 0).
			Mul(decimal.NewFromInt(int64(st.cfg.GasUnits)))
		feeUSD := gasWei.Div(weiPerEther).Mul(decimal.NewFromFloat(st.cfg.NativeUSD))
		e.fees.Set(ctx, name, feeUSD)

		e.log.Debug(ctx, "gas fee refreshed",
			"chain", name,
			"gas_price_wei", gasPrice.String(),
			"fee_usd", feeUSD.StringFixed(4))
	}
}

// Run refreshes on a fixed interval until ctx is cancelled.
func (e *Estimator) Run(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = 15 * time.Second
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	e.Refresh(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			e.Refresh(ctx)
		}
	}
}

func (e *Estimator) fetchGasPrice(ctx context.Context, name string, st *chainState) (*big.Int, error) {
	st.mu.Lock()
	if st.client == nil {
		client, err := ethclient.DialContext(ctx, st.cfg.RPCURL)
		if err != nil {
			st.mu.Unlock()
			return nil, apperror.New(apperror.CodeRPCError,
				apperror.WithCause(err),
				apperror.WithContext("chain", name))
		}
		st.client = client
	}
	client := st.client
	st.mu.Unlock()

	return st.breaker.Execute(func() (*big.Int, error) {
		gasPrice, err := client.SuggestGasPrice(ctx)
		if err != nil {
			return nil, apperror.New(apperror.CodeGasEstimationFailed,
				apperror.WithCause(err),
				apperror.WithContext("chain", name))
		}
		return gasPrice, nil
	})
}

// Close releases RPC connections.
func (e *Estimator) Close() {
	for _, st := range e.chains {
		st.mu.Lock()
		if st.client != nil {
			st.client.Close()
			st.client = nil
		}
		st.mu.Unlock()
	}
}
