package payments

import (
	"context"

	"github.com/stripe/stripe-go/v84"
	checkoutsession "github.com/stripe/stripe-go/v84/checkout/session"

	"github.com/dcastano/veloshop-backend/pkg/paystack"
	pkgstripe "github.com/dcastano/veloshop-backend/pkg/stripe"
)

// StripeCheckoutClient exposes the subset of Stripe operations required by the
// payment service.
type StripeCheckoutClient interface {
	CreateSession(ctx context.Context, params *stripe.CheckoutSessionParams) (*stripe.CheckoutSession, error)
	RetrieveSession(ctx context.Context, id string) (*stripe.CheckoutSession, error)
}

// PaystackTransactionClient exposes the subset of Paystack operations required
// by the payment service.
type PaystackTransactionClient interface {
	InitializeTransaction(ctx context.Context, req paystack.InitializeRequest) (*paystack.Authorization, error)
	VerifyTransaction(ctx context.Context, reference string) (*paystack.Transaction, error)
}

type stripeClientWrapper struct{}

// NewStripeCheckoutClient adapts the SDK's checkout bindings to the service's
// gateway interface. The pkg/stripe client is required as proof the SDK key
// has been set; without it the wrapper refuses to construct.
func NewStripeCheckoutClient(client *pkgstripe.Client) StripeCheckoutClient {
	if client == nil {
		return nil
	}
	return &stripeClientWrapper{}
}

func (w *stripeClientWrapper) CreateSession(ctx context.Context, params *stripe.CheckoutSessionParams) (*stripe.CheckoutSession, error) {
	if params != nil {
		params.Context = ctx
	}
	return checkoutsession.New(params)
}

func (w *stripeClientWrapper) RetrieveSession(ctx context.Context, id string) (*stripe.CheckoutSession, error) {
	params := &stripe.CheckoutSessionParams{}
	params.Context = ctx
	return checkoutsession.Get(id, params)
}
