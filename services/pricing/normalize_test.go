package pricing

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"homely/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func fp(v float64) *float64 { return &v }
func ip(v int) *int         { return &v }

func TestNormalizeSingleShape(t *testing.T) {
	p := normalize(&previewResponse{
		Subtotal: fp(200),
		PerUnit:  fp(100),
		Total:    fp(210),
	})

	assert.Equal(t, models.PreviewSingle, p.Variant)
	assert.Equal(t, 200.0, p.Subtotal)
	assert.Equal(t, 210.0, p.Total)
	assert.Zero(t, p.OccurrenceCount)
}

func TestNormalizeMultipleShape(t *testing.T) {
	p := normalize(&previewResponse{
		Subtotal:        fp(300),
		Total:           fp(315),
		BookingCount:    ip(3),
		PricePerBooking: fp(100),
	})

	assert.Equal(t, models.PreviewMultiple, p.Variant)
	assert.Equal(t, 3, p.OccurrenceCount)
	assert.Equal(t, 100.0, p.PerOccurrence)
}

func TestNormalizeRecurringShape(t *testing.T) {
	p := normalize(&previewResponse{
		Subtotal:           fp(1200),
		Total:              fp(1260),
		OccurrenceCount:    ip(12),
		PricePerOccurrence: fp(100),
	})

	assert.Equal(t, models.PreviewRecurring, p.Variant)
	assert.Equal(t, 12, p.OccurrenceCount)
	assert.Equal(t, 100.0, p.PerOccurrence)
}

func TestNormalizeClassifiesByPresenceNotValue(t *testing.T) {
	// A present-but-zero occurrence count is still a recurring preview, e.g.
	// a schedule fully covered by blackout days.
	p := normalize(&previewResponse{
		Total:              fp(0),
		OccurrenceCount:    ip(0),
		PricePerOccurrence: fp(100),
	})
	assert.Equal(t, models.PreviewRecurring, p.Variant)
	assert.Zero(t, p.OccurrenceCount)

	p = normalize(&previewResponse{
		Total:        fp(0),
		BookingCount: ip(0),
	})
	assert.Equal(t, models.PreviewMultiple, p.Variant)
}

func TestNormalizeRecurringNeedsBothFields(t *testing.T) {
	// occurrenceCount alone does not qualify as the recurring shape, and in
	// the absence of bookingCount the response falls through to single.
	p := normalize(&previewResponse{
		Total:           fp(100),
		OccurrenceCount: ip(4),
	})
	assert.Equal(t, models.PreviewSingle, p.Variant)
}

func TestNormalizeRecurringWinsOverMultiple(t *testing.T) {
	p := normalize(&previewResponse{
		Total:              fp(400),
		OccurrenceCount:    ip(4),
		PricePerOccurrence: fp(100),
		BookingCount:       ip(9),
	})
	assert.Equal(t, models.PreviewRecurring, p.Variant)
	assert.Equal(t, 4, p.OccurrenceCount)
}

func TestNormalizeFeeLines(t *testing.T) {
	p := normalize(&previewResponse{
		Subtotal: fp(200),
		Total:    fp(230),
		Fees: []feeLineDTO{
			{Name: "service fee", Amount: fp(10)},
			{Name: "platform fee", Percent: fp(10)},
			{Name: "mystery fee"}, // neither amount nor percent: dropped
		},
	})

	require.Len(t, p.Fees, 2)
	assert.Equal(t, models.FeeFlat, p.Fees[0].Kind)
	assert.Equal(t, 10.0, p.Fees[0].Amount)
	assert.Equal(t, models.FeePercent, p.Fees[1].Kind)
	assert.Equal(t, 10.0, p.Fees[1].Percent)
	assert.Equal(t, 20.0, p.Fees[1].Amount, "percent fees resolve against the subtotal")
}

func TestClientPreviewSingle(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/preview/single", r.URL.Path)
		assert.Equal(t, http.MethodPost, r.Method)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"subtotal":100,"perUnit":100,"total":110,"fees":[{"name":"service fee","amount":10}]}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, 5*time.Second, zap.NewNop())
	p, err := c.PreviewSingle(context.Background(), SingleRequest{ServiceID: "S1", Quantity: 1, Timestamp: "2025-02-01T10:00:00"})
	require.NoError(t, err)
	assert.Equal(t, models.PreviewSingle, p.Variant)
	assert.Equal(t, 110.0, p.Total)
	assert.False(t, p.FetchedAt.IsZero())
}

func TestClientUnavailableStatuses(t *testing.T) {
	for _, status := range []int{http.StatusBadGateway, http.StatusServiceUnavailable, http.StatusGatewayTimeout} {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(status)
		}))
		c := NewClient(srv.URL, 5*time.Second, zap.NewNop())
		_, err := c.PreviewRecurring(context.Background(), RecurringRequest{ServiceID: "S1"})
		assert.ErrorIs(t, err, ErrUnavailable, "status %d", status)
		srv.Close()
	}
}

func TestClientInvalidResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, 5*time.Second, zap.NewNop())
	_, err := c.PreviewMulti(context.Background(), MultiRequest{ServiceID: "S1"})
	assert.ErrorIs(t, err, ErrInvalidResponse)
}
