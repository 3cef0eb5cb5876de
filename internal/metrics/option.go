package metrics

// Provider names a metrics exporter backend.
type Provider string

const (
	PrometheusProvider Provider = "prometheus"
	OTLPCollector      Provider = "otlpCollector"
)

// Config holds the meter provider configuration.
type Config struct {
	ServiceName string
	Providers   []ProviderCfg
}

// ProviderCfg configures one exporter.
type ProviderCfg struct {
	Provider Provider
	Endpoint string
	Headers  map[string]string
	Insecure bool
}

// OptionFn mutates the metrics Config.
type OptionFn func(config Config) Config

// WithServiceName tags exported metrics with the service name.
func WithServiceName(serviceName string) OptionFn {
	return func(config Config) Config {
		config.ServiceName = serviceName
		return config
	}
}

// WithPrometheus adds the pull-based Prometheus exporter.
func WithPrometheus() OptionFn {
	return func(config Config) Config {
		config.Providers = append(config.Providers, ProviderCfg{Provider: PrometheusProvider})
		return config
	}
}

// WithOTLPCollector adds a push exporter targeting an OTLP collector.
func WithOTLPCollector(endpoint string, headers map[string]string, insecure bool) OptionFn {
	return func(config Config) Config {
		config.Providers = append(config.Providers, ProviderCfg{
			Provider: OTLPCollector,
			Endpoint: endpoint,
			Headers:  headers,
			Insecure: insecure,
		})
		return config
	}
}
