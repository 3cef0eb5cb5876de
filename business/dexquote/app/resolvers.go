package app

import (
	"strings"

	"github.com/ardika/scanarb/business/dexquote/domain"
)

// StaticPlans resolves fetch plans from a map keyed
// "<aggregator>.<direction>", matching the config layout.
type StaticPlans struct {
	Plans map[string]Plan
}

// Resolve implements PlanResolver. An unconfigured combination gets
// the aggregator itself as primary with no alternative.
func (s StaticPlans) Resolve(aggregator string, dir domain.Direction) Plan {
	key := strings.ToLower(aggregator) + "." + dir.String()
	if plan, ok := s.Plans[key]; ok {
		return plan
	}
	return Plan{Primary: strings.ToLower(aggregator)}
}

// StaticProxy applies one proxy prefix to the aggregators that opted in.
type StaticProxy struct {
	Prefix  string
	Proxied map[string]bool
}

// ProxyPrefix implements ProxyPolicy.
func (s StaticProxy) ProxyPrefix() string { return s.Prefix }

// WantsProxy implements ProxyPolicy.
func (s StaticProxy) WantsProxy(aggregator string) bool {
	return s.Proxied[strings.ToLower(aggregator)]
}
