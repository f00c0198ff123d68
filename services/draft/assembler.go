package draft

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"homely/models"
	"homely/services/orders"

	"go.uber.org/zap"
)

// OrdersClient is the slice of the submission service the assembler needs.
type OrdersClient interface {
	Submit(ctx context.Context, payload *models.SubmissionPayload) (*models.OrderReceipt, error)
}

// ImageUploader uploads one open-post image and returns its stable URL.
type ImageUploader interface {
	UploadImage(ctx context.Context, ref string) (string, error)
}

// IdentityResolver reports whether a customer identity is currently
// resolvable. Submitting a new (non-referenced) address requires it.
type IdentityResolver interface {
	Ready() bool
}

// UploadDecision is the user's answer to a failed image upload.
type UploadDecision int

const (
	// DecisionAbort cancels the whole submission.
	DecisionAbort UploadDecision = iota
	// DecisionSkip continues the submission without the failed image.
	DecisionSkip
)

// UploadDecisionFunc is awaited once per failed image, before the next
// upload starts. Images are never dropped without this consent.
type UploadDecisionFunc func(imageRef string, uploadErr error) UploadDecision

// AssemblerPhase is the assembler's submission state machine position.
type AssemblerPhase int

const (
	PhaseIdle AssemblerPhase = iota
	PhaseValidating
	PhaseUploading
	PhaseSubmitting
	PhaseTerminal
)

// SubmissionAssembler turns a complete draft into exactly one outbound
// request: local validation, sequential image upload for open posts, then
// the submission call. At most one submission per draft is in flight; a
// second submit while one is pending is a no-op.
type SubmissionAssembler struct {
	orders           OrdersClient
	uploader         ImageUploader
	identity         IdentityResolver
	previewFreshness time.Duration
	occurrenceLimit  int
	logger           *zap.Logger

	mu       sync.Mutex
	inFlight map[string]AssemblerPhase
}

// NewSubmissionAssembler wires the assembler's collaborators.
func NewSubmissionAssembler(ordersClient OrdersClient, uploader ImageUploader, identity IdentityResolver, previewFreshness time.Duration, occurrenceLimit int, logger *zap.Logger) *SubmissionAssembler {
	if previewFreshness <= 0 {
		previewFreshness = 5 * time.Minute
	}
	if occurrenceLimit <= 0 {
		occurrenceLimit = 12
	}
	return &SubmissionAssembler{
		orders:           ordersClient,
		uploader:         uploader,
		identity:         identity,
		previewFreshness: previewFreshness,
		occurrenceLimit:  occurrenceLimit,
		logger:           logger,
		inFlight:         make(map[string]AssemblerPhase),
	}
}

// Phase reports the assembler state for a draft (Idle when none recorded).
func (a *SubmissionAssembler) Phase(draftID string) AssemblerPhase {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.inFlight[draftID]
}

// Validate runs the submission rules in order and returns the first
// violated one. Local failures never reach the server.
func (a *SubmissionAssembler) Validate(d *models.BookingDraft) error {
	// 1. Service, location and mode-required temporal fields.
	if d.Service == nil {
		return NewValidationError("missing_service", "Select a service before submitting.")
	}
	if !d.Location.IsSet() {
		return NewValidationError("missing_location", "Select a location before submitting.")
	}
	if fieldErrs := RequiredTemporalFields(d); len(fieldErrs) > 0 {
		return NewValidationError("missing_schedule", fieldErrs[0].Message)
	}

	// 2. Consents.
	if !d.Consents.Terms {
		return NewValidationError("terms_not_accepted", "Accept the terms of service to continue.")
	}
	if !d.Consents.ReschedulePolicy {
		return NewValidationError("policy_not_accepted", "Accept the reschedule policy to continue.")
	}

	// 3. Payment method. Recurring occurrences are billed independently
	// later, so recurring drafts skip this rule.
	if d.Mode != models.ModeRecurring && d.PaymentMethodID == "" {
		return NewValidationError("missing_payment_method", "Select a payment method to continue.")
	}

	// 4. Open post title.
	if d.Fulfillment.Type == models.FulfillOpenPost && d.Fulfillment.PostTitle == "" {
		return NewValidationError("missing_post_title", "Give your job post a title.")
	}

	// 5. A new address can only be persisted for a resolvable customer.
	if d.Location.UsesNewAddress() && (a.identity == nil || !a.identity.Ready()) {
		return NewValidationError("customer_not_resolved", "We could not verify your account. Please sign in again.")
	}

	return nil
}

// BuildPayload assembles the mode-specific request body. Single/Multiple
// carry bookingDetails with the expected price and the payment method;
// Recurring carries the recurrence config verbatim and never price or
// payment. A preview only counts as the confirmed price when it is fresh
// AND was computed from the draft's current inputs; a preview fingerprinted
// against superseded inputs falls back to the local estimate.
func (a *SubmissionAssembler) BuildPayload(d *models.BookingDraft, preview *models.PricePreview, imageURLs []string) *models.SubmissionPayload {
	payload := &models.SubmissionPayload{
		DraftID:    d.DraftID,
		CustomerID: d.CustomerID,
		Mode:       string(d.Mode),
		Note:       d.Note,
		PromoCode:  d.PromoCode,
	}
	if d.Location != nil {
		payload.Location = *d.Location
	}

	if d.Mode == models.ModeRecurring {
		payload.Recurrence = d.Recurrence
	} else {
		payload.Occurrences, _ = Occurrences(d, a.occurrenceLimit)

		details := &models.BookingDetails{
			ServiceID: d.Service.ID,
			Quantity:  d.Quantity,
		}
		for _, sel := range d.SelectedOptions {
			details.ChoiceIDs = append(details.ChoiceIDs, sel.ChoiceID)
		}
		if preview.FreshFor(a.previewFreshness) && preview.Fingerprint == Fingerprint(d) {
			details.ExpectedPrice = preview.Total
			details.PriceConfirmed = true
		} else {
			estimate := Estimate(d, a.occurrenceLimit)
			details.ExpectedPrice = estimate.Total
			details.PriceConfirmed = false
		}
		payload.BookingDetails = details
		payload.PaymentMethodID = d.PaymentMethodID
	}

	switch d.Fulfillment.Type {
	case models.FulfillAssignedWorker:
		payload.Assignments = &models.Assignments{WorkerID: d.Fulfillment.WorkerID}
	case models.FulfillOpenPost:
		payload.OpenPost = &models.OpenPostDetails{
			Title:     d.Fulfillment.PostTitle,
			ImageURLs: imageURLs,
		}
	}

	return payload
}

// uploadImages uploads open-post images strictly sequentially. Each failure
// is adjudicated through decide before the next upload starts, so the
// prompt always reflects exactly one image.
func (a *SubmissionAssembler) uploadImages(ctx context.Context, d *models.BookingDraft, decide UploadDecisionFunc) ([]string, error) {
	refs := d.Fulfillment.Images
	urls := make([]string, 0, len(refs))
	for _, ref := range refs {
		url, err := a.uploader.UploadImage(ctx, ref)
		if err == nil {
			urls = append(urls, url)
			continue
		}
		a.logger.Warn("image upload failed", zap.String("draftId", d.DraftID), zap.String("image", ref), zap.Error(err))
		if decide == nil || decide(ref, err) == DecisionAbort {
			return nil, fmt.Errorf("%w: %s", ErrUploadAborted, ref)
		}
		// Skipped with consent; move on to the next image.
	}
	return urls, nil
}

// Submit runs the full pipeline: Idle -> Validating -> (Uploading?) ->
// Submitting -> Terminal | Idle. The uploading phase only exists for open
// posts with pending images. Once started, the submission runs to
// completion even if the caller has navigated away.
func (a *SubmissionAssembler) Submit(ctx context.Context, d *models.BookingDraft, preview *models.PricePreview, decide UploadDecisionFunc) (*models.OrderReceipt, error) {
	if d.Submitted {
		return nil, ErrDraftTerminal
	}

	a.mu.Lock()
	if _, pending := a.inFlight[d.DraftID]; pending {
		a.mu.Unlock()
		return nil, ErrSubmissionInFlight
	}
	a.inFlight[d.DraftID] = PhaseValidating
	a.mu.Unlock()

	defer func() {
		a.mu.Lock()
		delete(a.inFlight, d.DraftID)
		a.mu.Unlock()
	}()

	if err := a.Validate(d); err != nil {
		return nil, err
	}

	var imageURLs []string
	if d.Fulfillment.Type == models.FulfillOpenPost && len(d.Fulfillment.Images) > 0 {
		a.setPhase(d.DraftID, PhaseUploading)
		urls, err := a.uploadImages(ctx, d, decide)
		if err != nil {
			return nil, err
		}
		imageURLs = urls
	}

	a.setPhase(d.DraftID, PhaseSubmitting)
	payload := a.BuildPayload(d, preview, imageURLs)

	receipt, err := a.orders.Submit(ctx, payload)
	if err != nil {
		return nil, a.classifySubmissionError(err)
	}

	a.setPhase(d.DraftID, PhaseTerminal)
	a.logger.Info("booking submitted", zap.String("draftId", d.DraftID), zap.String("orderId", receipt.OrderID))
	return receipt, nil
}

func (a *SubmissionAssembler) setPhase(draftID string, phase AssemblerPhase) {
	a.mu.Lock()
	a.inFlight[draftID] = phase
	a.mu.Unlock()
}

// classifySubmissionError converts transport and server failures into one
// user-facing message. Raw transport errors never surface.
func (a *SubmissionAssembler) classifySubmissionError(err error) error {
	var subErr *orders.SubmissionError
	switch {
	case errors.Is(err, orders.ErrRecurringTimeout):
		// The series may exist server-side; retrying risks duplicates.
		return NewValidationError("recurring_timeout",
			"Your request is taking longer than expected. Please check your orders in a few minutes before trying again.")
	case errors.As(err, &subErr):
		return NewValidationError("submission_rejected", subErr.UserMessage())
	default:
		a.logger.Error("submission transport failure", zap.Error(err))
		return NewValidationError("submission_failed", "The booking could not be submitted. Please try again.")
	}
}
