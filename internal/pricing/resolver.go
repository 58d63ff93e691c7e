// AngelaMos | 2026
// resolver.go

package pricing

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/proofofhustle/api/internal/config"
)

// PlanPrices maps a plan duration in months to the price in whole
// currency units.
type PlanPrices struct {
	ThreeMonths  int64 `json:"3"`
	SixMonths    int64 `json:"6"`
	TwelveMonths int64 `json:"12"`
}

type Tier struct {
	Currency string     `json:"currency"`
	Symbol   string     `json:"symbol"`
	Premium  PlanPrices `json:"premium"`
	Inner    PlanPrices `json:"inner"`
}

// tiersByCountry holds the regional price table. Anything outside the
// listed countries falls back to the EUR tier.
var tiersByCountry = map[string]Tier{
	"IN": {
		Currency: "INR",
		Symbol:   "₹",
		Premium:  PlanPrices{ThreeMonths: 799, SixMonths: 1499, TwelveMonths: 2499},
		Inner:    PlanPrices{ThreeMonths: 1999, SixMonths: 3499, TwelveMonths: 4999},
	},
	"US": {
		Currency: "USD",
		Symbol:   "$",
		Premium:  PlanPrices{ThreeMonths: 19, SixMonths: 29, TwelveMonths: 49},
		Inner:    PlanPrices{ThreeMonths: 59, SixMonths: 79, TwelveMonths: 99},
	},
}

var defaultTier = Tier{
	Currency: "EUR",
	Symbol:   "€",
	Premium:  PlanPrices{ThreeMonths: 17, SixMonths: 27, TwelveMonths: 47},
	Inner:    PlanPrices{ThreeMonths: 57, SixMonths: 77, TwelveMonths: 97},
}

func TierForCountry(countryCode string) Tier {
	if tier, ok := tiersByCountry[countryCode]; ok {
		return tier
	}
	return defaultTier
}

// Resolver resolves a caller's pricing tier, optionally consulting an
// ip-geolocation service. Lookup failures fall back to the default tier;
// pricing is presentation only and never gates access.
type Resolver struct {
	cfg    config.PricingConfig
	client *http.Client
	logger *slog.Logger
}

func NewResolver(cfg config.PricingConfig, logger *slog.Logger) *Resolver {
	return &Resolver{
		cfg:    cfg,
		client: &http.Client{Timeout: cfg.LookupTimeout},
		logger: logger,
	}
}

type lookupResponse struct {
	CountryCode string `json:"country_code"`
}

// Resolve returns the tier for the given country hint, falling back to a
// geolocation lookup when the hint is empty.
func (r *Resolver) Resolve(ctx context.Context, countryHint string) Tier {
	if countryHint != "" {
		return TierForCountry(countryHint)
	}

	code, err := r.lookupCountry(ctx)
	if err != nil {
		r.logger.Warn("pricing lookup failed, using default tier",
			"error", err,
		)
		return defaultTier
	}

	return TierForCountry(code)
}

func (r *Resolver) lookupCountry(ctx context.Context) (string, error) {
	if r.cfg.LookupURL == "" {
		return "", fmt.Errorf("no lookup url configured")
	}

	req, err := http.NewRequestWithContext(
		ctx,
		http.MethodGet,
		r.cfg.LookupURL,
		nil,
	)
	if err != nil {
		return "", fmt.Errorf("build lookup request: %w", err)
	}

	resp, err := r.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("geolocation lookup: %w", err)
	}
	defer func() { _ = resp.Body.Close() }() //nolint:errcheck

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("geolocation lookup: status %d", resp.StatusCode)
	}

	var body lookupResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return "", fmt.Errorf("decode lookup response: %w", err)
	}

	return body.CountryCode, nil
}
