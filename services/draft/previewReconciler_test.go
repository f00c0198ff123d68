package draft

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"homely/models"
	"homely/services/pricing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// stubPricing lets each test script the pricing responses per call.
type stubPricing struct {
	single    func(ctx context.Context, req pricing.SingleRequest) (*models.PricePreview, error)
	multi     func(ctx context.Context, req pricing.MultiRequest) (*models.PricePreview, error)
	recurring func(ctx context.Context, req pricing.RecurringRequest) (*models.PricePreview, error)
}

func (s *stubPricing) PreviewSingle(ctx context.Context, req pricing.SingleRequest) (*models.PricePreview, error) {
	return s.single(ctx, req)
}

func (s *stubPricing) PreviewMulti(ctx context.Context, req pricing.MultiRequest) (*models.PricePreview, error) {
	return s.multi(ctx, req)
}

func (s *stubPricing) PreviewRecurring(ctx context.Context, req pricing.RecurringRequest) (*models.PricePreview, error) {
	return s.recurring(ctx, req)
}

func serverPreview(total float64) *models.PricePreview {
	return &models.PricePreview{
		Variant:   models.PreviewSingle,
		Subtotal:  total,
		Total:     total,
		FetchedAt: time.Now(),
	}
}

func TestRefreshLastRelevantResponseWins(t *testing.T) {
	releaseSlow := make(chan struct{})
	stub := &stubPricing{
		single: func(ctx context.Context, req pricing.SingleRequest) (*models.PricePreview, error) {
			if req.PromoCode == "" {
				// The first fetch stalls until the test releases it,
				// long after a newer fetch has landed.
				<-releaseSlow
				return serverPreview(100), nil
			}
			return serverPreview(90), nil
		},
	}
	r := NewPreviewReconciler(stub, 12, time.Second, zap.NewNop())

	d := singleDraft()
	r.Refresh(d)

	d.PromoCode = "SAVE10"
	r.Refresh(d)

	require.Eventually(t, func() bool {
		p, _ := r.Current(d.DraftID)
		return p != nil && p.Total == 90
	}, time.Second, 5*time.Millisecond)

	close(releaseSlow)

	// The superseded fetch must never overwrite the newer result.
	assert.Never(t, func() bool {
		p, _ := r.Current(d.DraftID)
		return p == nil || p.Total != 90
	}, 200*time.Millisecond, 10*time.Millisecond)
}

func TestRefreshSkipsWhenInputsUnchanged(t *testing.T) {
	var calls int64
	stub := &stubPricing{
		single: func(ctx context.Context, req pricing.SingleRequest) (*models.PricePreview, error) {
			atomic.AddInt64(&calls, 1)
			return serverPreview(100), nil
		},
	}
	r := NewPreviewReconciler(stub, 12, time.Second, zap.NewNop())

	d := singleDraft()
	r.Refresh(d)
	require.Eventually(t, func() bool {
		p, _ := r.Current(d.DraftID)
		return p != nil
	}, time.Second, 5*time.Millisecond)

	r.Refresh(d)
	r.Refresh(d)
	assert.Equal(t, int64(1), atomic.LoadInt64(&calls))
}

func TestRefreshFailureKeepsLastKnownGoodAsStale(t *testing.T) {
	var fail atomic.Bool
	stub := &stubPricing{
		single: func(ctx context.Context, req pricing.SingleRequest) (*models.PricePreview, error) {
			if fail.Load() {
				return nil, errors.New("pricing unavailable")
			}
			return serverPreview(100), nil
		},
	}
	r := NewPreviewReconciler(stub, 12, time.Second, zap.NewNop())

	d := singleDraft()
	r.Refresh(d)
	require.Eventually(t, func() bool {
		p, _ := r.Current(d.DraftID)
		return p != nil && !p.Stale
	}, time.Second, 5*time.Millisecond)

	fail.Store(true)
	d.PromoCode = "SAVE10"
	r.Refresh(d)

	require.Eventually(t, func() bool {
		_, err := r.Current(d.DraftID)
		return err != nil
	}, time.Second, 5*time.Millisecond)

	p, err := r.Current(d.DraftID)
	require.Error(t, err)
	require.NotNil(t, p, "last-known-good preview must survive the failed refresh")
	assert.True(t, p.Stale)
	assert.Equal(t, 100.0, p.Total)
}

func TestInvalidateDiscardsInFlightResult(t *testing.T) {
	release := make(chan struct{})
	stub := &stubPricing{
		single: func(ctx context.Context, req pricing.SingleRequest) (*models.PricePreview, error) {
			<-release
			return serverPreview(100), nil
		},
	}
	r := NewPreviewReconciler(stub, 12, time.Second, zap.NewNop())

	d := singleDraft()
	r.Refresh(d)
	r.Invalidate(d.DraftID)
	close(release)

	assert.Never(t, func() bool {
		p, _ := r.Current(d.DraftID)
		return p != nil
	}, 200*time.Millisecond, 10*time.Millisecond)
}

func TestFingerprintTracksTriggerFields(t *testing.T) {
	a := singleDraft()
	b := singleDraft()
	assert.Equal(t, Fingerprint(a), Fingerprint(b))

	b.PromoCode = "SAVE10"
	assert.NotEqual(t, Fingerprint(a), Fingerprint(b))

	b.PromoCode = ""
	b.Note = "ring the bell"
	assert.NotEqual(t, Fingerprint(a), Fingerprint(b))
}

func TestFingerprintIgnoresNonTriggerFields(t *testing.T) {
	a := singleDraft()
	b := singleDraft()
	b.Step = models.StepConfirmation
	b.Consents = models.Consents{Terms: true, ReschedulePolicy: true}
	b.Fulfillment = models.Fulfillment{Type: models.FulfillAutoAssign}
	assert.Equal(t, Fingerprint(a), Fingerprint(b))
}

func TestEstimateSingle(t *testing.T) {
	d := singleDraft()
	d.Service.BasePrice = 100
	d.SelectedOptions = []models.OptionSelection{{OptionID: "o1", ChoiceID: "c1", PriceAdjustment: 20}}
	d.Quantity = 2

	p := Estimate(d, 12)
	require.NotNil(t, p)
	assert.True(t, p.Unconfirmed)
	assert.Equal(t, models.PreviewSingle, p.Variant)
	assert.Equal(t, 120.0, p.PerUnit)
	assert.Equal(t, 240.0, p.Total)
	assert.Zero(t, p.OccurrenceCount)
}

func TestEstimateMultiple(t *testing.T) {
	d := singleDraft()
	d.Mode = models.ModeMultiple
	d.Dates = []string{"2025-01-10", "2025-01-12", "2025-01-15"}

	p := Estimate(d, 12)
	require.NotNil(t, p)
	assert.Equal(t, models.PreviewMultiple, p.Variant)
	assert.Equal(t, 3, p.OccurrenceCount)
	assert.Equal(t, 100.0, p.PerOccurrence)
	assert.Equal(t, 300.0, p.Total)
}

func TestEstimateWithoutServiceIsNil(t *testing.T) {
	d := models.NewBookingDraft("d1", "c1")
	assert.Nil(t, Estimate(d, 12))
}
