package draft

import (
	"context"

	"homely/models"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

// ScheduleInput carries the time step's fields. Mode switches clear only
// the fields owned by the previous mode's temporal shape.
type ScheduleInput struct {
	Mode       models.BookingMode `json:"bookingMode"`
	Dates      []string           `json:"dates,omitempty"`
	Time       string             `json:"time,omitempty"`
	Date       string             `json:"date,omitempty"` // legacy single-date field
	Recurrence *models.Recurrence `json:"recurrence,omitempty"`
}

// ExtrasInput carries the optional confirmation-step fields.
type ExtrasInput struct {
	Note            *string          `json:"note,omitempty"`
	PromoCode       *string          `json:"promoCode,omitempty"`
	PaymentMethodID *string          `json:"paymentMethodId,omitempty"`
	Consents        *models.Consents `json:"consents,omitempty"`
}

// DraftView is what the presentation layer reads back after every mutation:
// the draft plus its derived, atomically snapshotted price state.
type DraftView struct {
	Draft        *models.BookingDraft `json:"draft"`
	Preview      *models.PricePreview `json:"preview,omitempty"`
	PreviewError string               `json:"previewError,omitempty"`
}

// DraftService is the booking draft orchestrator: it exclusively owns the
// draft across wizard steps and coordinates the reconciler, sequencer and
// assembler.
type DraftService interface {
	StartDraft(ctx context.Context, customerID string) (*DraftView, error)
	GetDraft(ctx context.Context, draftID string) (*DraftView, error)
	SetService(ctx context.Context, draftID string, offering models.ServiceOffering, options []models.OptionSelection, quantity int) (*DraftView, error)
	SetLocation(ctx context.Context, draftID string, loc models.Location) (*DraftView, error)
	SetSchedule(ctx context.Context, draftID string, in ScheduleInput) (*DraftView, error)
	SetFulfillment(ctx context.Context, draftID string, f models.Fulfillment) (*DraftView, error)
	SetExtras(ctx context.Context, draftID string, in ExtrasInput) (*DraftView, error)
	GoToStep(ctx context.Context, draftID string, target models.WizardStep) (*DraftView, error)
	RetryPreview(ctx context.Context, draftID string) (*DraftView, error)
	Submit(ctx context.Context, draftID string, decide UploadDecisionFunc) (*models.OrderReceipt, error)
	Abandon(ctx context.Context, draftID string) error
}

// CustomerProvider resolves the ambient customer context: session identity
// and saved addresses. Injected at construction rather than polled from
// storage; Ready flips once the session is usable.
type CustomerProvider interface {
	Ready() bool
	Current(ctx context.Context, customerID string) (*models.CustomerContext, error)
	DefaultAddress(ctx context.Context, customerID string) (*models.SavedAddress, error)
}

// ReminderScheduler schedules the abandoned-draft reminder task.
type ReminderScheduler interface {
	ScheduleDraftReminder(draftID, customerID string) error
}

// Notifier delivers the best-effort post-submission push.
type Notifier interface {
	SendBookingPlaced(ctx context.Context, customerID, orderID string) error
}

// DefaultDraftService implements DraftService over the Redis session store.
type DefaultDraftService struct {
	Cache      *redis.Client
	Reconciler *PreviewReconciler
	Assembler  *SubmissionAssembler
	Customers  CustomerProvider
	Reminders  ReminderScheduler
	Notifier   Notifier
	Logger     *zap.Logger
}
