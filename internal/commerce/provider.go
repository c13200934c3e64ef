package commerce

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// DiscountCode is a provider-side discount code attached to a price rule.
type DiscountCode struct {
	ProviderRef string
	Code        string
}

// Order is the slice of a storefront order the commission sync needs.
type Order struct {
	ProviderRef string
	Total       decimal.Decimal
	Currency    string
	PlacedAt    time.Time
}

// Provider abstracts the commerce platform: coupon provisioning and
// order lookups for commission accounting.
type Provider interface {
	CreateDiscountCode(ctx context.Context, code string) (*DiscountCode, error)
	DeleteDiscountCode(ctx context.Context, providerRef string) error
	ListOrdersByCode(ctx context.Context, code string) ([]Order, error)
}

// ProfileAnalyzer scores an influencer profile. Analysis runs in a separate
// system; the backend only holds the seam.
type ProfileAnalyzer interface {
	Analyze(ctx context.Context, instagramHandle string) (map[string]any, error)
}
