package app

import (
	"context"
	"fmt"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/ardika/scanarb/business/dexquote/domain"
	"github.com/ardika/scanarb/business/dexquote/infra/aggregators"
	"github.com/ardika/scanarb/internal/httpclient"
	"github.com/ardika/scanarb/internal/logger"
)

// QuoteService resolves DEX quotes through a two-tier cascade: the
// primary strategy for the requested aggregator, then at most one
// alternative when the failure class warrants it.
type QuoteService struct {
	http      httpclient.Client
	deps      aggregators.Deps
	fallbacks map[string]Attempter
	plans     PlanResolver
	proxy     ProxyPolicy
	links     LinkBuilder
	log       logger.LoggerInterface
	tracer    trace.Tracer
}

// NewQuoteService wires the orchestrator.
func NewQuoteService(
	http httpclient.Client,
	deps aggregators.Deps,
	fallbacks map[string]Attempter,
	plans PlanResolver,
	proxy ProxyPolicy,
	links LinkBuilder,
	log logger.LoggerInterface,
) *QuoteService {
	return &QuoteService{
		http:      http,
		deps:      deps,
		fallbacks: fallbacks,
		plans:     plans,
		proxy:     proxy,
		links:     links,
		log:       log,
		tracer:    otel.Tracer("dexquote"),
	}
}

// GetPriceDEX resolves one quote. On failure of the primary path it
// classifies the error and escalates to a single alternative per
// policy; once an alternative is attempted, its outcome is final.
func (s *QuoteService) GetPriceDEX(ctx context.Context, p domain.QuoteParams) (*domain.DexQuote, error) {
	ctx, span := s.tracer.Start(ctx, "dexquote.get_price",
		trace.WithAttributes(
			attribute.String("aggregator", p.Aggregator),
			attribute.String("direction", p.Direction.String()),
			attribute.String("chain", p.ChainName),
		),
	)
	defer span.End()

	kind, err := aggregators.ParseKind(p.Aggregator)
	if err != nil {
		return nil, err
	}

	plan := s.plans.Resolve(kind.String(), p.Direction)
	primaryKey := plan.Primary
	if primaryKey == "" {
		primaryKey = kind.String()
	}

	primary, primaryProxy, err := s.attempterFor(primaryKey)
	if err != nil {
		return nil, err
	}

	quote, qerr := s.attempt(ctx, primary, primaryKey, primaryProxy, p)
	if qerr == nil {
		span.SetAttributes(attribute.String("resolved_by", primaryKey))
		return quote, nil
	}

	altKey, escalate := s.decideEscalation(kind, plan, qerr, p.Direction)
	if !escalate {
		qerr.DexURL = s.links.DeepLink(primaryKey, p)
		span.SetAttributes(attribute.String("rejected_by", primaryKey))
		return nil, qerr
	}

	s.log.Debug(ctx, "escalating quote to alternative",
		"aggregator", p.Aggregator,
		"primary", primaryKey,
		"alternative", altKey,
		"reason", string(qerr.Reason),
		"status", qerr.StatusCode)

	alt, altProxy, err := s.attempterFor(altKey)
	if err != nil {
		return nil, err
	}

	// The primary's error is discarded once an alternative runs.
	quote, qerr = s.attempt(ctx, alt, altKey, altProxy, p)
	if qerr != nil {
		qerr.DexURL = s.links.DeepLink(altKey, p)
		span.SetAttributes(attribute.String("rejected_by", altKey))
		return nil, qerr
	}
	span.SetAttributes(attribute.String("resolved_by", altKey))
	return quote, nil
}

// decideEscalation applies the fallback policy to a classified failure.
func (s *QuoteService) decideEscalation(kind aggregators.Kind, plan Plan, qerr *domain.QuoteError, dir domain.Direction) (string, bool) {
	altKey := strings.ToLower(plan.Alternative)

	switch {
	case kind.IsOdosFamily():
		// ODOS and Hinkal front the same engine; any failure is worth
		// one try against the sibling.
		if altKey == "" && dir == domain.TokenToPair {
			altKey = aggregators.KindHinkal.String()
		}
		if altKey == "" || altKey == kind.String() {
			return "", false
		}
		return altKey, true
	case qerr.IsRateLimited():
		return altKey, altKey != ""
	case qerr.NoResponse() && kind == aggregators.KindKyber:
		if altKey == "" {
			altKey = defaultFallbackKey(dir)
		}
		return altKey, true
	default:
		return "", false
	}
}

// defaultFallbackKey picks the directional default fallback provider.
func defaultFallbackKey(dir domain.Direction) string {
	if dir == domain.PairToToken {
		return "lifi"
	}
	return "swoop"
}

// attempterFor resolves a plan key to a strategy or fallback provider,
// plus whether a proxy prefix may be applied to its requests.
func (s *QuoteService) attempterFor(key string) (Attempter, bool, error) {
	key = strings.ToLower(key)
	if fb, ok := s.fallbacks[key]; ok {
		return fb, s.proxy.WantsProxy(key), nil
	}

	kind, err := aggregators.ParseKind(key)
	if err != nil {
		return nil, false, err
	}
	strategy, err := aggregators.For(kind, s.deps)
	if err != nil {
		return nil, false, err
	}
	allowProxy := strategy.AllowsProxy() && s.proxy.WantsProxy(kind.String())
	return strategy, allowProxy, nil
}

// attempt builds, sends and parses one quote request.
func (s *QuoteService) attempt(ctx context.Context, att Attempter, key string, useProxy bool, p domain.QuoteParams) (*domain.DexQuote, *domain.QuoteError) {
	spec, err := att.BuildRequest(p)
	if err != nil {
		return nil, &domain.QuoteError{
			Reason:  domain.ReasonSchema,
			Message: err.Error(),
			DexKey:  key,
			Cause:   err,
		}
	}

	requestURL := spec.URL
	if useProxy {
		if prefix := s.proxy.ProxyPrefix(); prefix != "" {
			requestURL = prefix + requestURL
		}
	}

	req := s.http.NewRequest()
	if len(spec.Headers) > 0 {
		req = req.SetHeaders(spec.Headers)
	}
	if spec.Body != nil {
		req = req.SetBody(spec.Body)
	}

	var resp *httpclient.Response
	switch spec.Method {
	case "POST":
		resp, err = req.Post(ctx, requestURL)
	case "GET":
		resp, err = req.Get(ctx, requestURL)
	default:
		return nil, &domain.QuoteError{
			Reason:  domain.ReasonSchema,
			Message: fmt.Sprintf("unsupported method %q", spec.Method),
			DexKey:  key,
		}
	}
	if err != nil {
		return nil, classifyTransport(err, key)
	}

	if qerr := classifyResponse(resp, key); qerr != nil {
		return nil, qerr
	}

	quote, err := att.ParseResponse(resp.Body(), p)
	if err != nil {
		return nil, classifyParse(err, key)
	}
	quote.APIURL = spec.URL
	return quote, nil
}
