package payment

import (
	"context"
	"fmt"

	"homely/models"

	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/paymentmethod"
)

// MethodService lists a customer's saved payment methods for the payment
// step. Charging happens in the external billing pipeline after submission.
type MethodService interface {
	ListSavedMethods(ctx context.Context, stripeCustomerID string) ([]models.PaymentMethodSummary, error)
}

// StripeMethodService is the Stripe-backed implementation.
type StripeMethodService struct{}

func NewStripeMethodService() *StripeMethodService {
	return &StripeMethodService{}
}

// ListSavedMethods returns the customer's saved cards.
func (s *StripeMethodService) ListSavedMethods(ctx context.Context, stripeCustomerID string) ([]models.PaymentMethodSummary, error) {
	if stripeCustomerID == "" {
		return nil, fmt.Errorf("payment: missing stripe customer id")
	}

	params := &stripe.PaymentMethodListParams{
		Customer: stripe.String(stripeCustomerID),
		Type:     stripe.String(string(stripe.PaymentMethodTypeCard)),
	}
	params.Context = ctx

	var methods []models.PaymentMethodSummary
	iter := paymentmethod.List(params)
	for iter.Next() {
		pm := iter.PaymentMethod()
		summary := models.PaymentMethodSummary{ID: pm.ID}
		if pm.Card != nil {
			summary.Brand = string(pm.Card.Brand)
			summary.Last4 = pm.Card.Last4
		}
		methods = append(methods, summary)
	}
	if err := iter.Err(); err != nil {
		return nil, fmt.Errorf("payment: failed to list payment methods: %w", err)
	}
	return methods, nil
}
