package models

import "time"

// BookingMode decides how the draft's dates map to scheduled occurrences.
type BookingMode string

const (
	ModeSingle    BookingMode = "single"
	ModeMultiple  BookingMode = "multiple"
	ModeRecurring BookingMode = "recurring"
)

// FulfillmentType decides who performs the booked service.
type FulfillmentType string

const (
	FulfillAssignedWorker FulfillmentType = "assigned_worker"
	FulfillOpenPost       FulfillmentType = "open_post"
	FulfillAutoAssign     FulfillmentType = "auto_assign"
)

// RecurrenceType is the repetition shape of a recurring booking.
type RecurrenceType string

const (
	RecurWeekly  RecurrenceType = "weekly"
	RecurMonthly RecurrenceType = "monthly"
)

// ServiceOffering is the selected catalog entry (fed in by the catalog service).
type ServiceOffering struct {
	ID          string  `bson:"id" json:"id"`
	Name        string  `bson:"name" json:"name"`
	BasePrice   float64 `bson:"basePrice" json:"basePrice"`
	DurationMin int     `bson:"durationMin" json:"durationMin"`
}

// OptionSelection is one chosen service option. Uniqueness within a draft
// is enforced by ChoiceID.
type OptionSelection struct {
	OptionID        string  `json:"optionId"`
	ChoiceID        string  `json:"choiceId"`
	PriceAdjustment float64 `json:"priceAdjustment"`
}

// NewAddress is a fully specified address entered during the flow.
type NewAddress struct {
	FullText string   `json:"fullText"`
	Ward     string   `json:"ward"`
	City     string   `json:"city"`
	Lat      *float64 `json:"lat,omitempty"`
	Lng      *float64 `json:"lng,omitempty"`
}

// Location references a stored address or carries a new one. Exactly one of
// the two must be present at submission time.
type Location struct {
	AddressID  string      `json:"addressId,omitempty"`
	NewAddress *NewAddress `json:"newAddress,omitempty"`
}

// IsSet reports whether either address form is present.
func (l *Location) IsSet() bool {
	if l == nil {
		return false
	}
	return l.AddressID != "" || l.NewAddress != nil
}

// UsesNewAddress reports whether the location requires persisting a new address.
func (l *Location) UsesNewAddress() bool {
	return l != nil && l.AddressID == "" && l.NewAddress != nil
}

// Recurrence holds the schedule config for recurring bookings. Time of day
// lives here rather than on the draft.
type Recurrence struct {
	Type       RecurrenceType `json:"type"`
	DayIndices []int          `json:"dayIndices"` // weekly: 0=Sunday..6; monthly: day of month 1..31
	StartDate  string         `json:"startDate"`  // YYYY-MM-DD
	EndDate    string         `json:"endDate,omitempty"`
	Time       string         `json:"time"` // HH:MM
}

// Fulfillment is the chosen fulfillment mode. At most one mode is active.
type Fulfillment struct {
	Type      FulfillmentType `json:"type,omitempty"`
	WorkerID  string          `json:"workerId,omitempty"`
	PostTitle string          `json:"postTitle,omitempty"`
	Images    []string        `json:"images,omitempty"` // local upload references, resolved to URLs at submission
}

// Consents are the acknowledgements required before submission.
type Consents struct {
	Terms            bool `json:"terms"`
	ReschedulePolicy bool `json:"reschedulePolicy"`
}

// BookingDraft is the accumulated booking selection, owned exclusively by
// the draft orchestrator and persisted between steps in the session store.
type BookingDraft struct {
	DraftID    string `json:"draftId"`
	CustomerID string `json:"customerId"`

	Service         *ServiceOffering  `json:"service,omitempty"`
	SelectedOptions []OptionSelection `json:"selectedOptions,omitempty"`
	Location        *Location         `json:"location,omitempty"`
	Quantity        int               `json:"quantity"`

	Mode  BookingMode `json:"bookingMode"`
	Dates []string    `json:"dates,omitempty"` // YYYY-MM-DD, ordered
	Time  string      `json:"time,omitempty"`  // HH:MM, Single/Multiple only
	// LegacyDate is the single date field older clients still send.
	LegacyDate string      `json:"date,omitempty"`
	Recurrence *Recurrence `json:"recurrence,omitempty"`

	Fulfillment Fulfillment `json:"fulfillment"`

	Note            string   `json:"note,omitempty"`
	PromoCode       string   `json:"promoCode,omitempty"`
	PaymentMethodID string   `json:"paymentMethodId,omitempty"`
	Consents        Consents `json:"consents"`

	Step      WizardStep `json:"step"`
	Submitted bool       `json:"submitted"`
	OrderID   string     `json:"orderId,omitempty"`
	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt time.Time  `json:"updatedAt"`
}

// NewBookingDraft returns an empty draft in Single mode at the Service step.
func NewBookingDraft(draftID, customerID string) *BookingDraft {
	now := time.Now()
	return &BookingDraft{
		DraftID:    draftID,
		CustomerID: customerID,
		Quantity:   1,
		Mode:       ModeSingle,
		Step:       StepService,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
}

// SelectOption adds or replaces an option selection, keeping ChoiceID unique
// and preserving insertion order.
func (d *BookingDraft) SelectOption(sel OptionSelection) {
	for i, existing := range d.SelectedOptions {
		if existing.ChoiceID == sel.ChoiceID {
			d.SelectedOptions[i] = sel
			return
		}
	}
	d.SelectedOptions = append(d.SelectedOptions, sel)
}

// RemoveOption drops the selection with the given choice ID, if present.
func (d *BookingDraft) RemoveOption(choiceID string) {
	for i, existing := range d.SelectedOptions {
		if existing.ChoiceID == choiceID {
			d.SelectedOptions = append(d.SelectedOptions[:i], d.SelectedOptions[i+1:]...)
			return
		}
	}
}

// EffectiveDates returns the draft's dates, falling back to the legacy single
// date field when the list is empty.
func (d *BookingDraft) EffectiveDates() []string {
	if len(d.Dates) > 0 {
		return d.Dates
	}
	if d.LegacyDate != "" {
		return []string{d.LegacyDate}
	}
	return nil
}
