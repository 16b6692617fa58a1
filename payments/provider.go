package payments

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/client"
)

const defaultCurrency = "usd"

// ErrInvalidAmount is returned for prices that cannot be charged.
var ErrInvalidAmount = errors.New("payment amount must be positive")

// Provider is the adapter interface for payment processors.
type Provider interface {
	// Name identifies the processor in logs.
	Name() string
	// CreateIntent registers an intent to charge amount (in minor units)
	// and returns the client secret the browser confirms it with.
	CreateIntent(ctx context.Context, amount int64, currency string) (clientSecret string, err error)
}

// ToMinorUnits converts a price in major currency units to an integer
// amount of minor units (cents).
func ToMinorUnits(price float64) (int64, error) {
	if math.IsNaN(price) || math.IsInf(price, 0) || price <= 0 {
		return 0, fmt.Errorf("%w: %v", ErrInvalidAmount, price)
	}
	amount := int64(math.Round(price * 100))
	if amount <= 0 {
		return 0, fmt.Errorf("%w: %v", ErrInvalidAmount, price)
	}
	return amount, nil
}

// StripeProvider creates card payment intents through the Stripe API.
type StripeProvider struct {
	api *client.API
}

// NewStripeProvider builds a provider for secretKey. A non-empty apiURL
// points the client at another endpoint, such as a local stripe-mock.
func NewStripeProvider(secretKey string, apiURL string) *StripeProvider {
	var backends *stripe.Backends
	if apiURL != "" {
		config := &stripe.BackendConfig{URL: stripe.String(apiURL)}
		backends = &stripe.Backends{
			API:     stripe.GetBackendWithConfig(stripe.APIBackend, config),
			Connect: stripe.GetBackendWithConfig(stripe.ConnectBackend, config),
			Uploads: stripe.GetBackendWithConfig(stripe.UploadsBackend, config),
		}
	}
	api := &client.API{}
	api.Init(secretKey, backends)
	return &StripeProvider{api: api}
}

func (p *StripeProvider) Name() string { return "stripe" }

func (p *StripeProvider) CreateIntent(ctx context.Context, amount int64, currency string) (string, error) {
	if currency == "" {
		currency = defaultCurrency
	}
	params := &stripe.PaymentIntentParams{
		Amount:             stripe.Int64(amount),
		Currency:           stripe.String(currency),
		PaymentMethodTypes: stripe.StringSlice([]string{"card"}),
	}
	params.Context = ctx

	intent, err := p.api.PaymentIntents.New(params)
	if err != nil {
		return "", fmt.Errorf("stripe: failed to create payment intent: %w", err)
	}
	return intent.ClientSecret, nil
}
