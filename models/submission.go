package models

import "time"

// BookingDetails is the priced core of a Single/Multiple submission payload.
type BookingDetails struct {
	ServiceID     string   `json:"serviceId"`
	Quantity      int      `json:"quantity"`
	ChoiceIDs     []string `json:"choiceIds,omitempty"`
	ExpectedPrice float64  `json:"expectedPrice"`
	// PriceConfirmed is false when ExpectedPrice came from local arithmetic
	// rather than a fresh server preview.
	PriceConfirmed bool `json:"priceConfirmed"`
}

// Assignments carries the chosen worker when one was selected up front.
type Assignments struct {
	WorkerID string `json:"workerId"`
}

// OpenPostDetails is the published job post for open fulfillment.
type OpenPostDetails struct {
	Title     string   `json:"title"`
	ImageURLs []string `json:"imageUrls,omitempty"`
}

// SubmissionPayload is the single outbound request body built by the
// assembler. Exactly one temporal shape is populated: Occurrences for
// Single/Multiple, Recurrence for Recurring. Recurring payloads never carry
// BookingDetails or PaymentMethodID; each generated occurrence is billed
// independently later.
type SubmissionPayload struct {
	DraftID    string `json:"draftId"`
	CustomerID string `json:"customerId"`
	Mode       string `json:"bookingMode"`

	Occurrences []string    `json:"occurrences,omitempty"`
	Recurrence  *Recurrence `json:"recurrence,omitempty"`

	Location  Location `json:"location"`
	Note      string   `json:"note,omitempty"`
	PromoCode string   `json:"promoCode,omitempty"`

	BookingDetails  *BookingDetails  `json:"bookingDetails,omitempty"`
	Assignments     *Assignments     `json:"assignments,omitempty"`
	OpenPost        *OpenPostDetails `json:"openPost,omitempty"`
	PaymentMethodID string           `json:"paymentMethodId,omitempty"`
}

// OrderReceipt is the success result of a submission.
type OrderReceipt struct {
	OrderID   string    `json:"orderId"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"createdAt"`
}

// WorkerConflict is one per-worker scheduling conflict from the submission
// endpoint.
type WorkerConflict struct {
	WorkerID string `json:"workerId"`
	Reason   string `json:"reason"`
}
