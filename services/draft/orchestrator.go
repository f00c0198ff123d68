package draft

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"homely/config"
	"homely/models"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const draftKeyPrefix = "draft:"

// StartDraft creates an empty draft, persists it to the session store and
// schedules the abandoned-draft reminder.
func (s *DefaultDraftService) StartDraft(ctx context.Context, customerID string) (*DraftView, error) {
	draftID := uuid.New().String()
	d := models.NewBookingDraft(draftID, customerID)

	if err := s.saveDraft(ctx, d); err != nil {
		return nil, err
	}

	if s.Reminders != nil {
		if err := s.Reminders.ScheduleDraftReminder(draftID, customerID); err != nil {
			// Reminder scheduling is best-effort; the draft still works.
			s.Logger.Warn("failed to schedule draft reminder", zap.String("draftId", draftID), zap.Error(err))
		}
	}

	s.Logger.Info("draft started", zap.String("draftId", draftID), zap.String("customerId", customerID))
	return s.view(d), nil
}

// GetDraft returns the draft with its current derived price state.
func (s *DefaultDraftService) GetDraft(ctx context.Context, draftID string) (*DraftView, error) {
	d, err := s.loadDraft(ctx, draftID)
	if err != nil {
		return nil, err
	}
	return s.view(d), nil
}

// SetService records the selected offering, its options and the quantity.
func (s *DefaultDraftService) SetService(ctx context.Context, draftID string, offering models.ServiceOffering, options []models.OptionSelection, quantity int) (*DraftView, error) {
	return s.mutate(ctx, draftID, func(d *models.BookingDraft) error {
		d.Service = &offering
		d.SelectedOptions = nil
		for _, sel := range options {
			d.SelectOption(sel)
		}
		if quantity > 0 {
			d.Quantity = quantity
		}
		return nil
	})
}

// SetLocation records the address choice. An empty location with a ready
// customer context falls back to the customer's default address.
func (s *DefaultDraftService) SetLocation(ctx context.Context, draftID string, loc models.Location) (*DraftView, error) {
	return s.mutate(ctx, draftID, func(d *models.BookingDraft) error {
		if loc.AddressID != "" && loc.NewAddress != nil {
			return NewValidationError("ambiguous_location", "Provide either a saved address or a new one, not both.")
		}
		if !loc.IsSet() {
			if s.Customers == nil || !s.Customers.Ready() {
				return NewValidationError("missing_location", "Select an address for this booking.")
			}
			saved, err := s.Customers.DefaultAddress(ctx, d.CustomerID)
			if err != nil || saved == nil {
				return NewValidationError("missing_location", "Select an address for this booking.")
			}
			loc = models.Location{AddressID: saved.ID}
		}
		d.Location = &loc
		return nil
	})
}

// SetSchedule records the temporal shape, switching modes if requested.
func (s *DefaultDraftService) SetSchedule(ctx context.Context, draftID string, in ScheduleInput) (*DraftView, error) {
	return s.mutate(ctx, draftID, func(d *models.BookingDraft) error {
		if in.Mode != "" {
			SwitchMode(d, in.Mode)
		}
		switch d.Mode {
		case models.ModeRecurring:
			if in.Recurrence != nil {
				d.Recurrence = in.Recurrence
			}
		default:
			if len(in.Dates) > 0 {
				d.Dates = in.Dates
			}
			if in.Date != "" {
				d.LegacyDate = in.Date
			}
			if in.Time != "" {
				d.Time = in.Time
			}
		}
		return nil
	})
}

// SetFulfillment records the fulfillment choice. At most one mode is active;
// setting a new one replaces the previous choice whole.
func (s *DefaultDraftService) SetFulfillment(ctx context.Context, draftID string, f models.Fulfillment) (*DraftView, error) {
	return s.mutate(ctx, draftID, func(d *models.BookingDraft) error {
		switch f.Type {
		case models.FulfillAssignedWorker:
			if f.WorkerID == "" {
				return NewValidationError("missing_worker", "Select a worker for this booking.")
			}
		case models.FulfillOpenPost:
			if f.PostTitle == "" {
				return NewValidationError("missing_post_title", "Give your job post a title.")
			}
		case models.FulfillAutoAssign:
		default:
			return NewValidationError("unknown_fulfillment", "Unknown fulfillment mode.")
		}
		d.Fulfillment = f
		return nil
	})
}

// SetExtras records note, promo code, payment method and consents.
func (s *DefaultDraftService) SetExtras(ctx context.Context, draftID string, in ExtrasInput) (*DraftView, error) {
	return s.mutate(ctx, draftID, func(d *models.BookingDraft) error {
		if in.Note != nil {
			d.Note = *in.Note
		}
		if in.PromoCode != nil {
			d.PromoCode = *in.PromoCode
		}
		if in.PaymentMethodID != nil {
			d.PaymentMethodID = *in.PaymentMethodID
		}
		if in.Consents != nil {
			d.Consents = *in.Consents
		}
		return nil
	})
}

// GoToStep navigates the wizard. Forward moves are gated by the sequencer;
// leaving the confirmation step invalidates any in-flight preview fetch.
func (s *DefaultDraftService) GoToStep(ctx context.Context, draftID string, target models.WizardStep) (*DraftView, error) {
	d, err := s.loadDraft(ctx, draftID)
	if err != nil {
		return nil, err
	}

	leftConfirmation, err := GoToStep(d, target)
	if err != nil {
		return nil, err
	}
	if leftConfirmation {
		s.Reconciler.Invalidate(draftID)
	}

	if err := s.saveDraft(ctx, d); err != nil {
		return nil, err
	}
	if target == models.StepConfirmation {
		s.Reconciler.Refresh(d)
	}
	return s.view(d), nil
}

// RetryPreview re-schedules a preview fetch after a failure.
func (s *DefaultDraftService) RetryPreview(ctx context.Context, draftID string) (*DraftView, error) {
	d, err := s.loadDraft(ctx, draftID)
	if err != nil {
		return nil, err
	}
	s.Reconciler.Refresh(d)
	return s.view(d), nil
}

// Submit runs the assembler. On success the draft goes terminal, its
// session entry is removed and the customer gets a best-effort push.
func (s *DefaultDraftService) Submit(ctx context.Context, draftID string, decide UploadDecisionFunc) (*models.OrderReceipt, error) {
	d, err := s.loadDraft(ctx, draftID)
	if err != nil {
		return nil, err
	}

	preview, _ := s.Reconciler.Current(draftID)
	receipt, err := s.Assembler.Submit(ctx, d, preview, decide)
	if err != nil {
		return nil, err
	}

	d.Submitted = true
	d.OrderID = receipt.OrderID
	d.Step = models.StepSuccess
	if err := s.saveDraft(ctx, d); err != nil {
		// The order exists; losing the session copy is not fatal.
		s.Logger.Warn("failed to persist terminal draft", zap.String("draftId", draftID), zap.Error(err))
	}
	s.Reconciler.Forget(draftID)

	if s.Notifier != nil {
		if err := s.Notifier.SendBookingPlaced(ctx, d.CustomerID, receipt.OrderID); err != nil {
			s.Logger.Warn("booking push failed", zap.String("orderId", receipt.OrderID), zap.Error(err))
		}
	}

	return receipt, nil
}

// Abandon drops the draft session on explicit restart.
func (s *DefaultDraftService) Abandon(ctx context.Context, draftID string) error {
	s.Reconciler.Forget(draftID)
	if err := s.Cache.Del(ctx, draftKeyPrefix+draftID).Err(); err != nil {
		return fmt.Errorf("failed to abandon draft: %w", err)
	}
	return nil
}

// mutate loads the draft, applies fn, persists, and refreshes the preview
// when the trigger inputs changed. Mutations on a terminal draft fail.
func (s *DefaultDraftService) mutate(ctx context.Context, draftID string, fn func(*models.BookingDraft) error) (*DraftView, error) {
	d, err := s.loadDraft(ctx, draftID)
	if err != nil {
		return nil, err
	}
	if d.Submitted {
		return nil, ErrDraftTerminal
	}

	before := Fingerprint(d)
	if err := fn(d); err != nil {
		return nil, err
	}
	if err := s.saveDraft(ctx, d); err != nil {
		return nil, err
	}

	if Fingerprint(d) != before {
		s.Reconciler.Refresh(d)
	}
	return s.view(d), nil
}

func (s *DefaultDraftService) view(d *models.BookingDraft) *DraftView {
	v := &DraftView{Draft: d}
	preview, lastErr := s.Reconciler.Current(d.DraftID)
	if preview == nil && d.Service != nil {
		preview = Estimate(d, s.Reconciler.occurrenceLimit)
	}
	v.Preview = preview
	if lastErr != nil {
		v.PreviewError = "The latest price could not be fetched. You can retry."
	}
	return v
}

func (s *DefaultDraftService) loadDraft(ctx context.Context, draftID string) (*models.BookingDraft, error) {
	data, err := s.Cache.Get(ctx, draftKeyPrefix+draftID).Result()
	if err == redis.Nil {
		return nil, ErrDraftNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load booking draft: %w", err)
	}
	var d models.BookingDraft
	if err := json.Unmarshal([]byte(data), &d); err != nil {
		return nil, fmt.Errorf("failed to parse booking draft: %w", err)
	}
	return &d, nil
}

func (s *DefaultDraftService) saveDraft(ctx context.Context, d *models.BookingDraft) error {
	d.UpdatedAt = time.Now()
	data, err := json.Marshal(d)
	if err != nil {
		return fmt.Errorf("failed to marshal booking draft: %w", err)
	}
	if err := s.Cache.Set(ctx, draftKeyPrefix+d.DraftID, data, config.DraftTTL()).Err(); err != nil {
		return fmt.Errorf("failed to store booking draft: %w", err)
	}
	return nil
}
