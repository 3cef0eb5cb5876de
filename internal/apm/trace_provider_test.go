package apm_test

import (
	"testing"

	"github.com/ardika/scanarb/internal/apm"
	"github.com/ardika/scanarb/internal/config"
	"github.com/ardika/scanarb/internal/logger"
)

func TestNewTraceProviderDisabled(t *testing.T) {
	cfg := config.TelemetryConfig{Enabled: false}

	tp := apm.NewTraceProvider(cfg, apm.ZipkinProvider, logger.NewNop())
	if tp == nil {
		t.Fatal("disabled telemetry must still return a provider")
	}
	if err := tp.Stop(); err != nil {
		t.Errorf("no-op Stop: %v", err)
	}
}

func TestNewTraceProviderEmptyProvider(t *testing.T) {
	cfg := config.TelemetryConfig{Enabled: true, ServiceName: "scanarb"}

	tp := apm.NewTraceProvider(cfg, apm.EmptyProvider, logger.NewNop())
	if tp == nil {
		t.Fatal("empty provider must still return a provider")
	}
	if err := tp.Stop(); err != nil {
		t.Errorf("no-op Stop: %v", err)
	}
}

func TestNewTraceProviderZipkin(t *testing.T) {
	cfg := config.TelemetryConfig{
		Enabled:      true,
		ServiceName:  "scanarb",
		OTLPEndpoint: "http://127.0.0.1:9411/api/v2/spans",
	}

	// Exporter construction is lazy; no collector needs to be running.
	tp := apm.NewTraceProvider(cfg, apm.ZipkinProvider, logger.NewNop())
	if tp == nil {
		t.Fatal("expected a provider")
	}
	if err := tp.Stop(); err != nil {
		t.Errorf("Stop: %v", err)
	}
}
