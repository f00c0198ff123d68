package orders

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"homely/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func testPayload() *models.SubmissionPayload {
	return &models.SubmissionPayload{
		DraftID:     "d1",
		CustomerID:  "c1",
		Mode:        "single",
		Occurrences: []string{"2025-02-01T10:00:00"},
		Location:    models.Location{AddressID: "addr-1"},
		BookingDetails: &models.BookingDetails{
			ServiceID:     "S1",
			Quantity:      1,
			ExpectedPrice: 110,
		},
		PaymentMethodID: "pm_123",
	}
}

func TestSubmitSuccess(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/orders", r.URL.Path)

		var got models.SubmissionPayload
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		assert.Equal(t, "d1", got.DraftID)
		assert.Equal(t, "pm_123", got.PaymentMethodID)

		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(models.OrderReceipt{OrderID: "ord-9", Status: "placed"})
	}))
	defer srv.Close()

	c := NewClient(srv.URL, 5*time.Second, zap.NewNop())
	receipt, err := c.Submit(context.Background(), testPayload())
	require.NoError(t, err)
	assert.Equal(t, "ord-9", receipt.OrderID)
}

func TestSubmitRecurringGatewayTimeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusGatewayTimeout)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, 5*time.Second, zap.NewNop())

	payload := testPayload()
	payload.Mode = "recurring"
	payload.Occurrences = nil
	payload.BookingDetails = nil
	payload.PaymentMethodID = ""
	payload.Recurrence = &models.Recurrence{Type: models.RecurWeekly, StartDate: "2025-01-06", DayIndices: []int{1}, Time: "09:00"}

	_, err := c.Submit(context.Background(), payload)
	assert.ErrorIs(t, err, ErrRecurringTimeout)
}

func TestSubmitNonRecurringGatewayTimeoutIsStructured(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusGatewayTimeout)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, 5*time.Second, zap.NewNop())
	_, err := c.Submit(context.Background(), testPayload())

	require.NotErrorIs(t, err, ErrRecurringTimeout)
	var subErr *SubmissionError
	require.ErrorAs(t, err, &subErr)
	assert.Equal(t, http.StatusGatewayTimeout, subErr.Status)
}

func TestSubmitStructuredRejection(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		w.Write([]byte(`{"errors":["date is in the past","promo code expired"]}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, 5*time.Second, zap.NewNop())
	_, err := c.Submit(context.Background(), testPayload())

	var subErr *SubmissionError
	require.ErrorAs(t, err, &subErr)
	assert.Equal(t, "date is in the past; promo code expired", subErr.UserMessage())
}

func TestSubmitUnstructuredRejectionFallsBack(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte("<html>gateway melted</html>"))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, 5*time.Second, zap.NewNop())
	_, err := c.Submit(context.Background(), testPayload())

	var subErr *SubmissionError
	require.ErrorAs(t, err, &subErr)
	assert.NotContains(t, subErr.UserMessage(), "gateway melted")
}

func TestUserMessagePrecedence(t *testing.T) {
	e := &SubmissionError{
		FieldErrors: []string{"field broken"},
		Conflicts:   []models.WorkerConflict{{WorkerID: "w1", Reason: "busy"}},
		Messages:    []string{"generic"},
		Message:     "single",
	}
	assert.Equal(t, "field broken", e.UserMessage())

	e.FieldErrors = nil
	assert.Equal(t, "w1: busy", e.UserMessage())

	e.Conflicts = nil
	assert.Equal(t, "generic", e.UserMessage())

	e.Messages = nil
	assert.Equal(t, "single", e.UserMessage())

	e.Message = ""
	assert.Equal(t, "The booking could not be submitted. Please try again.", e.UserMessage())
}
