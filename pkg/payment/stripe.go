package payment

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/client"
)

// ErrNotConfigured is returned when no provider secret key was supplied.
var ErrNotConfigured = errors.New("payment provider not configured")

// Intent is the subset of a provider payment intent the API hands to clients.
type Intent struct {
	ID           string `json:"id"`
	ClientSecret string `json:"clientSecret"`
	Amount       int64  `json:"amount"`
	Currency     string `json:"currency"`
}

// StripeProvider creates card payment intents through the Stripe API.
type StripeProvider struct {
	api      *client.API
	currency string
}

// NewStripeProvider builds a provider. An empty key yields a provider that always fails
// with ErrNotConfigured so the rest of the API can still start.
func NewStripeProvider(secretKey, currency string) *StripeProvider {
	if currency == "" {
		currency = string(stripe.CurrencyUSD)
	}
	p := &StripeProvider{currency: currency}
	if secretKey != "" {
		p.api = client.New(secretKey, nil)
	}
	return p
}

// CreateIntent requests a card payment intent for amountMinor units of the configured currency.
func (p *StripeProvider) CreateIntent(ctx context.Context, amountMinor int64, metadata map[string]string) (*Intent, error) {
	if p.api == nil {
		return nil, ErrNotConfigured
	}
	params := &stripe.PaymentIntentParams{
		Amount:             stripe.Int64(amountMinor),
		Currency:           stripe.String(p.currency),
		PaymentMethodTypes: stripe.StringSlice([]string{"card"}),
	}
	params.Context = ctx
	for k, v := range metadata {
		params.AddMetadata(k, v)
	}

	pi, err := p.api.PaymentIntents.New(params)
	if err != nil {
		return nil, fmt.Errorf("create payment intent: %w", err)
	}
	return &Intent{ID: pi.ID, ClientSecret: pi.ClientSecret, Amount: pi.Amount, Currency: string(pi.Currency)}, nil
}

// MinorUnits converts a major-unit price (49.99) into provider minor units (4999).
func MinorUnits(amount decimal.Decimal) int64 {
	return amount.Shift(2).Round(0).IntPart()
}
