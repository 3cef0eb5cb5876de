// Package dexquote implements the DEX aggregator quoting bounded context.
package dexquote

import (
	"context"
	"strings"
	"time"

	"github.com/ardika/scanarb/business/dexquote/app"
	dexDI "github.com/ardika/scanarb/business/dexquote/di"
	"github.com/ardika/scanarb/business/dexquote/infra/aggregators"
	"github.com/ardika/scanarb/business/dexquote/infra/fallback"
	"github.com/ardika/scanarb/business/dexquote/infra/fees"
	"github.com/ardika/scanarb/internal/config"
	"github.com/ardika/scanarb/internal/di"
	"github.com/ardika/scanarb/internal/httpclient"
	"github.com/ardika/scanarb/internal/logger"
	"github.com/ardika/scanarb/internal/monolith"
	"github.com/ardika/scanarb/internal/signer"
)

// Module implements the dexquote bounded context.
type Module struct{}

// RegisterServices registers all dexquote services with the DI container.
func (m *Module) RegisterServices(c di.Container) error {
	di.RegisterToken(c, dexDI.FeeEstimator, func(sr di.ServiceRegistry) *fees.Estimator {
		cfg := sr.Get("config").(*config.Config)
		log := sr.Get("logger").(logger.LoggerInterface)
		return fees.NewEstimator(cfg.Chains, 12*time.Second, log)
	})

	di.RegisterToken(c, dexDI.QuoteService, func(sr di.ServiceRegistry) *app.QuoteService {
		cfg := sr.Get("config").(*config.Config)
		log := sr.Get("logger").(logger.LoggerInterface)

		client, err := httpclient.NewInstrumentedClient(
			httpclient.WithProviderName("dex-aggregators"),
			httpclient.WithRequestTimeout(cfg.Scanner.QuoteTimeout()),
		)
		if err != nil {
			panic("failed to create dex http client: " + err.Error())
		}

		estimator := dexDI.GetFeeEstimator(sr)

		keys := make([]signer.Credentials, 0, len(cfg.Aggregators.OKXKeys))
		for _, k := range cfg.Aggregators.OKXKeys {
			keys = append(keys, signer.Credentials{
				APIKey:     k.APIKey,
				Secret:     k.Secret,
				Passphrase: k.Passphrase,
			})
		}

		baseURLs := make(map[string]string)
		apiKeys := make(map[string]string)
		proxied := make(map[string]bool)
		for key, entry := range cfg.Aggregators.Entries {
			key = strings.ToLower(key)
			if entry.BaseURL != "" {
				baseURLs[key] = entry.BaseURL
			}
			if entry.APIKey != "" {
				apiKeys[key] = entry.APIKey
			}
			if entry.Proxy {
				proxied[key] = true
			}
		}

		deps := aggregators.Deps{
			Wallet:   cfg.Aggregators.WalletAddress,
			Keys:     signer.NewKeyPool(keys),
			Fees:     estimator,
			BaseURLs: baseURLs,
			APIKeys:  apiKeys,
		}

		lifi := &fallback.LiFi{
			BaseURL: baseURLs["lifi"],
			APIKey:  apiKeys["lifi"],
			Fees:    estimator,
		}
		fallbacks := map[string]app.Attempter{
			"swoop": &fallback.Swoop{
				BaseURL: baseURLs["swoop"],
				Wallet:  cfg.Aggregators.WalletAddress,
				Gas:     estimator,
				Fees:    estimator,
			},
			"lifi": lifi,
			"dzap": &fallback.DZAP{LiFi: lifi},
		}

		plans := make(map[string]app.Plan, len(cfg.Aggregators.Plans))
		for key, plan := range cfg.Aggregators.Plans {
			plans[strings.ToLower(key)] = app.Plan{
				Primary:     plan.Primary,
				Alternative: plan.Alternative,
			}
		}

		return app.NewQuoteService(
			client,
			deps,
			fallbacks,
			app.StaticPlans{Plans: plans},
			app.StaticProxy{Prefix: cfg.Aggregators.ProxyPrefix, Proxied: proxied},
			app.NewDexLinks(nil),
			log,
		)
	})

	return nil
}

// Startup begins the background gas fee refresh for chains with an RPC.
func (m *Module) Startup(ctx context.Context, mono monolith.Monolith) error {
	estimator := dexDI.GetFeeEstimator(mono.Services())
	go estimator.Run(ctx, 15*time.Second)

	mono.Logger().Info(ctx, "dexquote module started")
	return nil
}
