package asset_test

import (
	"errors"
	"math/big"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/ardika/scanarb/internal/asset"
)

func TestToRaw(t *testing.T) {
	tests := []struct {
		amount   string
		decimals int
		want     string
	}{
		{"1", 18, "1000000000000000000"},
		{"1.5", 6, "1500000"},
		{"0", 18, "0"},
		// Finer than the token's precision rounds to the nearest unit.
		{"0.0000015", 6, "2"},
		{"123456.789", 18, "123456789000000000000000"},
	}

	for _, tt := range tests {
		got := asset.ToRaw(decimal.RequireFromString(tt.amount), tt.decimals)
		if got.String() != tt.want {
			t.Errorf("ToRaw(%s, %d) = %s, want %s", tt.amount, tt.decimals, got, tt.want)
		}
	}
}

func TestFromRaw(t *testing.T) {
	got, err := asset.FromRaw("1500000", 6)
	if err != nil {
		t.Fatalf("FromRaw: %v", err)
	}
	if !got.Equal(decimal.RequireFromString("1.5")) {
		t.Errorf("FromRaw(1500000, 6) = %s, want 1.5", got)
	}

	if _, err := asset.FromRaw("abc", 18); !errors.Is(err, asset.ErrInvalidRaw) {
		t.Errorf("non-numeric input: got %v, want ErrInvalidRaw", err)
	}
	if _, err := asset.FromRaw("1.5", 18); !errors.Is(err, asset.ErrInvalidRaw) {
		t.Errorf("fractional raw input: got %v, want ErrInvalidRaw", err)
	}
}

func TestToRawFromRawRoundTrip(t *testing.T) {
	in := decimal.RequireFromString("250.125")
	raw := asset.ToRaw(in, 18)

	out, err := asset.FromRaw(raw.String(), 18)
	if err != nil {
		t.Fatalf("FromRaw: %v", err)
	}
	if !out.Equal(in) {
		t.Errorf("round trip = %s, want %s", out, in)
	}
}

func TestFromRawBig(t *testing.T) {
	got, err := asset.FromRawBig(big.NewInt(1e18), 18)
	if err != nil {
		t.Fatalf("FromRawBig: %v", err)
	}
	if !got.Equal(decimal.NewFromInt(1)) {
		t.Errorf("FromRawBig(1e18, 18) = %s, want 1", got)
	}

	if _, err := asset.FromRawBig(nil, 18); err == nil {
		t.Error("expected error for nil raw value")
	}
	if _, err := asset.FromRawBig(big.NewInt(-1), 18); !errors.Is(err, asset.ErrNegativeAmount) {
		t.Errorf("negative raw: got %v, want ErrNegativeAmount", err)
	}
}
