package signer

import (
	"errors"
	"testing"

	"github.com/ardika/scanarb/internal/apperror"
)

func TestSignHex(t *testing.T) {
	// Known HMAC-SHA256 vector: key "key", message "The quick brown fox jumps over the lazy dog"
	got := SignHex("key", "The quick brown fox jumps over the lazy dog")
	want := "f7bc83f430538424b13298e6aa6fb143ef4d59a14946175997479dbc2d1a3cd8"
	if got != want {
		t.Errorf("SignHex = %s, want %s", got, want)
	}
}

func TestSignBase64(t *testing.T) {
	got := SignBase64("key", "The quick brown fox jumps over the lazy dog")
	want := "97yD9DBThCSxMpjmqm+xQ+9NWaFJRhdZl0edvC0aPNg="
	if got != want {
		t.Errorf("SignBase64 = %s, want %s", got, want)
	}
}

func TestKeyPool_Pick(t *testing.T) {
	pool := NewKeyPool([]Credentials{
		{APIKey: "a", Secret: "s1"},
		{APIKey: "b", Secret: "s2"},
		{APIKey: "c", Secret: "s3"},
	})
	pool.rand = func(n int) int { return 1 }

	got, err := pool.Pick()
	if err != nil {
		t.Fatalf("Pick failed: %v", err)
	}
	if got.APIKey != "b" {
		t.Errorf("expected key b, got %s", got.APIKey)
	}
}

func TestKeyPool_Empty(t *testing.T) {
	pool := NewKeyPool(nil)
	_, err := pool.Pick()
	if err == nil {
		t.Fatal("expected error from empty pool")
	}
	if !errors.Is(err, apperror.New(apperror.CodeSigningKeyUnavailable)) {
		t.Errorf("expected SIGNING_KEY_UNAVAILABLE, got %v", err)
	}
}
