package httpstatus

import (
	"strings"
	"testing"
)

func TestDescribe_KnownCodes(t *testing.T) {
	cases := []struct {
		code int
		want string
	}{
		{429, "Rate limit"},
		{503, "maintenance"},
		{504, "Gateway timeout"},
		{404, "Not found"},
	}

	for _, tc := range cases {
		got := Describe(tc.code)
		if !strings.Contains(got, tc.want) {
			t.Errorf("Describe(%d) = %q, want substring %q", tc.code, got, tc.want)
		}
	}
}

func TestDescribe_UnknownCodeFallback(t *testing.T) {
	got := Describe(599)
	want := "HTTP 599 — server-side error"
	if got != want {
		t.Errorf("Describe(599) = %q, want %q", got, want)
	}
}

func TestIsRateLimited(t *testing.T) {
	if !IsRateLimited(429) {
		t.Error("429 should be rate limited")
	}
	if IsRateLimited(500) {
		t.Error("500 should not be rate limited")
	}
}

func TestIsServerError(t *testing.T) {
	for code, want := range map[int]bool{499: false, 500: true, 504: true, 599: true, 600: false} {
		if got := IsServerError(code); got != want {
			t.Errorf("IsServerError(%d) = %v, want %v", code, got, want)
		}
	}
}
