package models

import "time"

// CustomerContext is the resolved session identity injected into the
// orchestrator. The address step depends on it being ready; a draft with a
// new address cannot be submitted without a resolvable customer.
type CustomerContext struct {
	CustomerID string `bson:"id" json:"id"`
	Name       string `bson:"name" json:"name"`
	Phone      string `bson:"phone" json:"phone"`
	FCMToken   string `bson:"fcmToken" json:"-"`
	StripeID   string `bson:"stripeId" json:"-"`
}

// SavedAddress is a stored address belonging to a customer.
type SavedAddress struct {
	ID        string    `bson:"id" json:"id"`
	Customer  string    `bson:"customerId" json:"customerId"`
	FullText  string    `bson:"fullText" json:"fullText"`
	Ward      string    `bson:"ward" json:"ward"`
	City      string    `bson:"city" json:"city"`
	Lat       *float64  `bson:"lat,omitempty" json:"lat,omitempty"`
	Lng       *float64  `bson:"lng,omitempty" json:"lng,omitempty"`
	IsDefault bool      `bson:"isDefault" json:"isDefault"`
	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
}

// PaymentMethodSummary is a saved payment method shown on the payment step.
type PaymentMethodSummary struct {
	ID    string `json:"id"`
	Brand string `json:"brand"`
	Last4 string `json:"last4"`
}
