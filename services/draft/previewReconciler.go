package draft

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"sync"
	"time"

	"homely/models"
	"homely/services/pricing"

	"go.uber.org/zap"
)

// PricingClient is the slice of the pricing service the reconciler needs.
type PricingClient interface {
	PreviewSingle(ctx context.Context, req pricing.SingleRequest) (*models.PricePreview, error)
	PreviewMulti(ctx context.Context, req pricing.MultiRequest) (*models.PricePreview, error)
	PreviewRecurring(ctx context.Context, req pricing.RecurringRequest) (*models.PricePreview, error)
}

// PreviewReconciler keeps a normalized, current-as-of-last-stable-input
// price view per draft. At most one outstanding fetch per draft is
// authoritative: a result is applied only if no newer fetch was scheduled
// since and the inputs it was computed from still match the draft. Last
// relevant response wins, not last response.
type PreviewReconciler struct {
	pricing         PricingClient
	occurrenceLimit int
	fetchTimeout    time.Duration
	logger          *zap.Logger

	mu     sync.Mutex
	states map[string]*previewState
}

type previewState struct {
	gen     uint64 // latest scheduled generation
	wantFP  string // input fingerprint of the latest scheduled fetch
	cancel  context.CancelFunc
	current *models.PricePreview
	lastErr error
}

// NewPreviewReconciler builds a reconciler over the given pricing client.
func NewPreviewReconciler(client PricingClient, occurrenceLimit int, fetchTimeout time.Duration, logger *zap.Logger) *PreviewReconciler {
	if occurrenceLimit <= 0 {
		occurrenceLimit = 12
	}
	if fetchTimeout <= 0 {
		fetchTimeout = 15 * time.Second
	}
	return &PreviewReconciler{
		pricing:         client,
		occurrenceLimit: occurrenceLimit,
		fetchTimeout:    fetchTimeout,
		logger:          logger,
		states:          make(map[string]*previewState),
	}
}

// previewInputs is the trigger subset of the draft. Changing any of these
// schedules a new preview fetch.
type previewInputs struct {
	ServiceID       string              `json:"serviceId"`
	Choices         []string            `json:"choices"`
	Quantity        int                 `json:"quantity"`
	AddressID       string              `json:"addressId"`
	NewAddress      *models.NewAddress  `json:"newAddress,omitempty"`
	Mode            models.BookingMode  `json:"mode"`
	Dates           []string            `json:"dates"`
	Time            string              `json:"time"`
	Recurrence      *models.Recurrence  `json:"recurrence,omitempty"`
	Note            string              `json:"note"`
	PromoCode       string              `json:"promoCode"`
	PaymentMethodID string              `json:"paymentMethodId"`
}

// Fingerprint hashes the draft's preview trigger fields. Two drafts with the
// same fingerprint would produce the same preview request.
func Fingerprint(d *models.BookingDraft) string {
	in := previewInputs{
		Quantity:        d.Quantity,
		Mode:            d.Mode,
		Dates:           d.EffectiveDates(),
		Time:            d.Time,
		Recurrence:      d.Recurrence,
		Note:            d.Note,
		PromoCode:       d.PromoCode,
		PaymentMethodID: d.PaymentMethodID,
	}
	if d.Service != nil {
		in.ServiceID = d.Service.ID
	}
	for _, sel := range d.SelectedOptions {
		in.Choices = append(in.Choices, sel.ChoiceID)
	}
	if d.Location != nil {
		in.AddressID = d.Location.AddressID
		in.NewAddress = d.Location.NewAddress
	}

	raw, err := json.Marshal(in)
	if err != nil {
		return ""
	}
	sum := sha1.Sum(raw)
	return hex.EncodeToString(sum[:])
}

// Refresh schedules a preview fetch for the draft's current inputs. A fetch
// already in flight for older inputs is superseded: its context is cancelled
// and its eventual result discarded. Refresh returns immediately; results
// land via Current.
func (r *PreviewReconciler) Refresh(d *models.BookingDraft) {
	if d.Service == nil {
		return
	}
	fp := Fingerprint(d)

	r.mu.Lock()
	st := r.states[d.DraftID]
	if st == nil {
		st = &previewState{}
		r.states[d.DraftID] = st
	}
	if st.wantFP == fp && st.current != nil && !st.current.Stale {
		// Inputs unchanged and a good preview is already displayed.
		r.mu.Unlock()
		return
	}
	if st.cancel != nil {
		st.cancel()
	}
	st.gen++
	st.wantFP = fp
	gen := st.gen

	ctx, cancel := context.WithTimeout(context.Background(), r.fetchTimeout)
	st.cancel = cancel
	r.mu.Unlock()

	snapshot := *d
	go r.fetch(ctx, &snapshot, gen, fp)
}

func (r *PreviewReconciler) fetch(ctx context.Context, d *models.BookingDraft, gen uint64, fp string) {
	preview, err := r.dispatch(ctx, d)
	r.apply(d.DraftID, gen, fp, preview, err)
}

// dispatch picks the endpoint by booking mode. Recurring sends the config
// verbatim; the server owns the authoritative occurrence count.
func (r *PreviewReconciler) dispatch(ctx context.Context, d *models.BookingDraft) (*models.PricePreview, error) {
	choices := make([]string, 0, len(d.SelectedOptions))
	for _, sel := range d.SelectedOptions {
		choices = append(choices, sel.ChoiceID)
	}
	var addressID, city string
	if d.Location != nil {
		addressID = d.Location.AddressID
		if d.Location.NewAddress != nil {
			city = d.Location.NewAddress.City
		}
	}

	switch d.Mode {
	case models.ModeMultiple:
		stamps, _ := Occurrences(d, r.occurrenceLimit)
		return r.pricing.PreviewMulti(ctx, pricing.MultiRequest{
			ServiceID:       d.Service.ID,
			ChoiceIDs:       choices,
			Quantity:        d.Quantity,
			Timestamps:      stamps,
			AddressID:       addressID,
			City:            city,
			PromoCode:       d.PromoCode,
			PaymentMethodID: d.PaymentMethodID,
		})
	case models.ModeRecurring:
		return r.pricing.PreviewRecurring(ctx, pricing.RecurringRequest{
			ServiceID:       d.Service.ID,
			ChoiceIDs:       choices,
			Quantity:        d.Quantity,
			Recurrence:      d.Recurrence,
			AddressID:       addressID,
			City:            city,
			PromoCode:       d.PromoCode,
			PaymentMethodID: d.PaymentMethodID,
		})
	default:
		var stamp string
		if stamps, _ := Occurrences(d, 1); len(stamps) > 0 {
			stamp = stamps[0]
		}
		return r.pricing.PreviewSingle(ctx, pricing.SingleRequest{
			ServiceID:       d.Service.ID,
			ChoiceIDs:       choices,
			Quantity:        d.Quantity,
			Timestamp:       stamp,
			AddressID:       addressID,
			City:            city,
			PromoCode:       d.PromoCode,
			PaymentMethodID: d.PaymentMethodID,
		})
	}
}

// apply installs a fetch result if it is still relevant. A result is
// discarded when a newer fetch was scheduled since, or when the inputs it
// was computed from no longer match the draft.
func (r *PreviewReconciler) apply(draftID string, gen uint64, fp string, preview *models.PricePreview, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	st := r.states[draftID]
	if st == nil || gen != st.gen || fp != st.wantFP {
		if r.logger != nil {
			r.logger.Debug("discarding stale preview result", zap.String("draftId", draftID), zap.Uint64("gen", gen))
		}
		return
	}

	if err != nil {
		// Keep the last-known-good preview on screen, flagged stale.
		if st.current != nil {
			degraded := *st.current
			degraded.Stale = true
			st.current = &degraded
		}
		st.lastErr = err
		if r.logger != nil {
			r.logger.Warn("preview fetch failed", zap.String("draftId", draftID), zap.Error(err))
		}
		return
	}

	preview.Fingerprint = fp
	st.current = preview
	st.lastErr = nil
}

// Current returns a snapshot of the latest applicable preview and the last
// fetch error, if any. The returned preview is a copy; callers never see a
// half-applied update.
func (r *PreviewReconciler) Current(draftID string) (*models.PricePreview, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	st := r.states[draftID]
	if st == nil || st.current == nil {
		var lastErr error
		if st != nil {
			lastErr = st.lastErr
		}
		return nil, lastErr
	}
	snapshot := *st.current
	return &snapshot, st.lastErr
}

// Invalidate logically cancels any in-flight fetch for the draft, e.g. when
// the user leaves the confirmation step. The outstanding result, if it ever
// arrives, no longer applies.
func (r *PreviewReconciler) Invalidate(draftID string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	st := r.states[draftID]
	if st == nil {
		return
	}
	if st.cancel != nil {
		st.cancel()
		st.cancel = nil
	}
	st.gen++
	st.wantFP = ""
}

// Forget drops all reconciler state for a draft (terminal or expired).
func (r *PreviewReconciler) Forget(draftID string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if st := r.states[draftID]; st != nil && st.cancel != nil {
		st.cancel()
	}
	delete(r.states, draftID)
}

// Estimate computes the local price estimate used before the first server
// preview arrives and as the unconfirmed fallback at submission time.
func Estimate(d *models.BookingDraft, occurrenceLimit int) *models.PricePreview {
	if d.Service == nil {
		return nil
	}
	perUnit := d.Service.BasePrice
	for _, sel := range d.SelectedOptions {
		perUnit += sel.PriceAdjustment
	}
	perOccurrence := perUnit * float64(d.Quantity)

	occurrences, _ := Occurrences(d, occurrenceLimit)
	count := len(occurrences)
	if count == 0 {
		count = 1
	}

	p := &models.PricePreview{
		Variant:     models.PreviewSingle,
		Subtotal:    perOccurrence * float64(count),
		PerUnit:     perUnit,
		Total:       perOccurrence * float64(count),
		FetchedAt:   time.Now(),
		Unconfirmed: true,
	}
	switch d.Mode {
	case models.ModeMultiple:
		p.Variant = models.PreviewMultiple
	case models.ModeRecurring:
		p.Variant = models.PreviewRecurring
	}
	if count > 1 || d.Mode != models.ModeSingle {
		p.OccurrenceCount = count
		p.PerOccurrence = perOccurrence
	}
	return p
}
