// AngelaMos | 2026
// resolver_test.go

package pricing

import (
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/proofofhustle/api/internal/config"
)

func TestTierForCountry(t *testing.T) {
	t.Parallel()

	tests := []struct {
		country  string
		currency string
	}{
		{"IN", "INR"},
		{"US", "USD"},
		{"DE", "EUR"},
		{"", "EUR"},
	}

	for _, tt := range tests {
		tier := TierForCountry(tt.country)
		assert.Equal(t, tt.currency, tier.Currency, "country %q", tt.country)
		assert.NotZero(t, tier.Premium.ThreeMonths)
		assert.Greater(t, tier.Inner.ThreeMonths, tier.Premium.ThreeMonths,
			"inner always costs more than premium")
	}
}

func TestResolveHintSkipsLookup(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			t.Error("lookup must not fire when a hint is given")
		}),
	)
	defer srv.Close()

	resolver := NewResolver(config.PricingConfig{
		LookupURL:     srv.URL,
		LookupTimeout: time.Second,
	}, slog.Default())

	tier := resolver.Resolve(context.Background(), "IN")
	assert.Equal(t, "INR", tier.Currency)
}

func TestResolveUsesGeolocation(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"country_code":"US","city":"Denver"}`))
		}),
	)
	defer srv.Close()

	resolver := NewResolver(config.PricingConfig{
		LookupURL:     srv.URL,
		LookupTimeout: time.Second,
	}, slog.Default())

	tier := resolver.Resolve(context.Background(), "")
	assert.Equal(t, "USD", tier.Currency)
}

func TestResolveFailsSoftToDefaultTier(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
		}),
	)
	defer srv.Close()

	resolver := NewResolver(config.PricingConfig{
		LookupURL:     srv.URL,
		LookupTimeout: time.Second,
	}, slog.Default())

	tier := resolver.Resolve(context.Background(), "")
	assert.Equal(t, "EUR", tier.Currency)

	// no lookup endpoint at all behaves the same
	resolver = NewResolver(config.PricingConfig{
		LookupTimeout: time.Second,
	}, slog.Default())
	tier = resolver.Resolve(context.Background(), "")
	assert.Equal(t, "EUR", tier.Currency)
}
