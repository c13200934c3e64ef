package commerce

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/miguelantunes/partnerflow-backend/pkg/config"
	pkgerrors "github.com/miguelantunes/partnerflow-backend/pkg/errors"
	"github.com/shopspring/decimal"
)

// HTTPProvider talks to the storefront's admin REST API.
type HTTPProvider struct {
	baseURL     string
	accessToken string
	priceRuleID string
	client      *http.Client
}

// NewHTTPProvider builds a provider from config.
func NewHTTPProvider(cfg config.CommerceConfig) (*HTTPProvider, error) {
	base := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if base == "" {
		return nil, fmt.Errorf("commerce base url required")
	}
	if strings.TrimSpace(cfg.AccessToken) == "" {
		return nil, fmt.Errorf("commerce access token required")
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &HTTPProvider{
		baseURL:     base,
		accessToken: cfg.AccessToken,
		priceRuleID: cfg.PriceRuleID,
		client:      &http.Client{Timeout: timeout},
	}, nil
}

type discountCodePayload struct {
	DiscountCode struct {
		ID   int64  `json:"id"`
		Code string `json:"code"`
	} `json:"discount_code"`
}

type orderListPayload struct {
	Orders []struct {
		ID         int64  `json:"id"`
		TotalPrice string `json:"total_price"`
		Currency   string `json:"currency"`
		CreatedAt  string `json:"created_at"`
	} `json:"orders"`
}

func (p *HTTPProvider) CreateDiscountCode(ctx context.Context, code string) (*DiscountCode, error) {
	if strings.TrimSpace(code) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "coupon code required")
	}
	body := map[string]any{"discount_code": map[string]string{"code": code}}
	endpoint := fmt.Sprintf("%s/price_rules/%s/discount_codes.json", p.baseURL, url.PathEscape(p.priceRuleID))

	var payload discountCodePayload
	if err := p.do(ctx, http.MethodPost, endpoint, body, &payload); err != nil {
		return nil, err
	}
	return &DiscountCode{
		ProviderRef: fmt.Sprintf("%d", payload.DiscountCode.ID),
		Code:        payload.DiscountCode.Code,
	}, nil
}

func (p *HTTPProvider) DeleteDiscountCode(ctx context.Context, providerRef string) error {
	if strings.TrimSpace(providerRef) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "provider ref required")
	}
	endpoint := fmt.Sprintf("%s/price_rules/%s/discount_codes/%s.json",
		p.baseURL, url.PathEscape(p.priceRuleID), url.PathEscape(providerRef))
	return p.do(ctx, http.MethodDelete, endpoint, nil, nil)
}

func (p *HTTPProvider) ListOrdersByCode(ctx context.Context, code string) ([]Order, error) {
	if strings.TrimSpace(code) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "coupon code required")
	}
	endpoint := fmt.Sprintf("%s/orders.json?status=any&discount_code=%s", p.baseURL, url.QueryEscape(code))

	var payload orderListPayload
	if err := p.do(ctx, http.MethodGet, endpoint, nil, &payload); err != nil {
		return nil, err
	}

	orders := make([]Order, 0, len(payload.Orders))
	for _, raw := range payload.Orders {
		total, err := decimal.NewFromString(raw.TotalPrice)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "parse order total")
		}
		placedAt, _ := time.Parse(time.RFC3339, raw.CreatedAt)
		orders = append(orders, Order{
			ProviderRef: fmt.Sprintf("%d", raw.ID),
			Total:       total,
			Currency:    raw.Currency,
			PlacedAt:    placedAt,
		})
	}
	return orders, nil
}

func (p *HTTPProvider) do(ctx context.Context, method, endpoint string, body any, out any) error {
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "marshal request")
		}
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "build request")
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Shopify-Access-Token", p.accessToken)

	resp, err := p.client.Do(req)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "commerce request")
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return pkgerrors.New(pkgerrors.CodeNotFound, "commerce resource not found")
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return pkgerrors.New(pkgerrors.CodeDependency, fmt.Sprintf("commerce responded %d", resp.StatusCode))
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "decode commerce response")
	}
	return nil
}
