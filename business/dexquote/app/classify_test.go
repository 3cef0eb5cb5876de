package app

import (
	"context"
	"testing"

	"github.com/ardika/scanarb/business/dexquote/domain"
	"github.com/ardika/scanarb/internal/apperror"
)

func TestClassifyTransportTimeout(t *testing.T) {
	qerr := classifyTransport(context.DeadlineExceeded, "kyber")
	if qerr.Reason != domain.ReasonTimeout {
		t.Errorf("reason = %s, want timeout", qerr.Reason)
	}
	if qerr.StatusCode != 0 {
		t.Errorf("status = %d, want 0", qerr.StatusCode)
	}
	if qerr.DexKey != "kyber" {
		t.Errorf("dexKey = %q", qerr.DexKey)
	}
}

func TestSniffUpstreamStatus(t *testing.T) {
	tests := []struct {
		name string
		body string
		want int // 0 means sniffs clean
	}{
		{"statusCode field", `{"statusCode":429,"message":"too many requests"}`, 429},
		{"status field", `{"status":503}`, 503},
		{"numeric code", `{"code":500,"msg":"upstream broke"}`, 500},
		{"string code", `{"code":"502"}`, 502},
		{"success code ignored", `{"code":0,"data":{}}`, 0},
		{"2xx status ignored", `{"statusCode":200}`, 0},
		{"plain quote body", `{"routes":[{"toAmount":"1"}]}`, 0},
		{"not json", `<html>teapot</html>`, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			qerr := sniffUpstreamStatus([]byte(tt.body), "1inch")
			if tt.want == 0 {
				if qerr != nil {
					t.Fatalf("expected clean sniff, got %v", qerr)
				}
				return
			}
			if qerr == nil {
				t.Fatal("expected embedded error")
			}
			if qerr.StatusCode != tt.want {
				t.Errorf("status = %d, want %d", qerr.StatusCode, tt.want)
			}
			if qerr.Reason != domain.ReasonUpstream {
				t.Errorf("reason = %s, want upstream", qerr.Reason)
			}
		})
	}
}

func TestSniffUpstreamMessagePreference(t *testing.T) {
	qerr := sniffUpstreamStatus([]byte(`{"statusCode":500,"message":"exact provider words"}`), "odos")
	if qerr.Message != "exact provider words" {
		t.Errorf("message = %q", qerr.Message)
	}

	qerr = sniffUpstreamStatus([]byte(`{"statusCode":500}`), "odos")
	if qerr.Message == "" {
		t.Error("message should fall back to the status description")
	}
}

func TestClassifyParseReasons(t *testing.T) {
	parse := apperror.New(apperror.CodeQuoteParseError)
	if got := classifyParse(parse, "kyber"); got.Reason != domain.ReasonParse {
		t.Errorf("parse error reason = %s", got.Reason)
	}

	schema := apperror.New(apperror.CodeQuoteSchemaInvalid)
	if got := classifyParse(schema, "kyber"); got.Reason != domain.ReasonSchema {
		t.Errorf("schema error reason = %s", got.Reason)
	}
}
