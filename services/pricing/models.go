package pricing

import "homely/models"

// SingleRequest previews one occurrence.
type SingleRequest struct {
	ServiceID       string   `json:"serviceId"`
	ChoiceIDs       []string `json:"choiceIds,omitempty"`
	Quantity        int      `json:"quantity"`
	Timestamp       string   `json:"timestamp"`
	AddressID       string   `json:"addressId,omitempty"`
	City            string   `json:"city,omitempty"`
	PromoCode       string   `json:"promoCode,omitempty"`
	PaymentMethodID string   `json:"paymentMethodId,omitempty"`
}

// MultiRequest previews a list of composed occurrence timestamps.
type MultiRequest struct {
	ServiceID       string   `json:"serviceId"`
	ChoiceIDs       []string `json:"choiceIds,omitempty"`
	Quantity        int      `json:"quantity"`
	Timestamps      []string `json:"timestamps"`
	AddressID       string   `json:"addressId,omitempty"`
	City            string   `json:"city,omitempty"`
	PromoCode       string   `json:"promoCode,omitempty"`
	PaymentMethodID string   `json:"paymentMethodId,omitempty"`
}

// RecurringRequest previews a recurrence config verbatim. The server expands
// the series itself; it may disagree with the client on occurrence count due
// to holidays and blackouts it enforces, so an expanded date list is never
// sent.
type RecurringRequest struct {
	ServiceID       string             `json:"serviceId"`
	ChoiceIDs       []string           `json:"choiceIds,omitempty"`
	Quantity        int                `json:"quantity"`
	Recurrence      *models.Recurrence `json:"recurrence"`
	AddressID       string             `json:"addressId,omitempty"`
	City            string             `json:"city,omitempty"`
	PromoCode       string             `json:"promoCode,omitempty"`
	PaymentMethodID string             `json:"paymentMethodId,omitempty"`
}

type feeLineDTO struct {
	Name    string   `json:"name"`
	Amount  *float64 `json:"amount,omitempty"`
	Percent *float64 `json:"percent,omitempty"`
}

// previewResponse is the raw wire shape shared by all three preview
// endpoints. The server emits no variant tag; every variant-specific field
// is optional and classification happens by field presence in Normalize.
type previewResponse struct {
	Subtotal  *float64     `json:"subtotal,omitempty"`
	PerUnit   *float64     `json:"perUnit,omitempty"`
	Fees      []feeLineDTO `json:"fees,omitempty"`
	Discount  *float64     `json:"discount,omitempty"`
	Promotion string       `json:"promotion,omitempty"`
	Total     *float64     `json:"total,omitempty"`

	// Recurring shape.
	OccurrenceCount    *int     `json:"occurrenceCount,omitempty"`
	PricePerOccurrence *float64 `json:"pricePerOccurrence,omitempty"`

	// Multiple shape.
	BookingCount    *int     `json:"bookingCount,omitempty"`
	PricePerBooking *float64 `json:"pricePerBooking,omitempty"`
}
