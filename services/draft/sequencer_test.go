package draft

import (
	"testing"

	"homely/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCanEnterGatesForwardSteps(t *testing.T) {
	d := models.NewBookingDraft("d1", "c1")

	assert.NoError(t, CanEnter(d, models.StepService))
	assert.NoError(t, CanEnter(d, models.StepLocation), "only prior steps gate entry, not the target itself")
	assert.ErrorIs(t, CanEnter(d, models.StepTime), ErrStepLocked)

	d.Service = &models.ServiceOffering{ID: "S1"}
	assert.ErrorIs(t, CanEnter(d, models.StepTime), ErrStepLocked)

	d.Location = &models.Location{AddressID: "addr-1"}
	assert.NoError(t, CanEnter(d, models.StepTime))
	assert.ErrorIs(t, CanEnter(d, models.StepFulfillment), ErrStepLocked)

	d.Dates = []string{"2025-02-01"}
	d.Time = "10:00"
	assert.ErrorIs(t, CanEnter(d, models.StepConfirmation), ErrStepLocked)

	d.Fulfillment = models.Fulfillment{Type: models.FulfillAutoAssign}
	assert.NoError(t, CanEnter(d, models.StepConfirmation))

	assert.ErrorIs(t, CanEnter(d, models.StepSuccess), ErrStepLocked,
		"success is reachable only after submission")
	d.Submitted = true
	assert.NoError(t, CanEnter(d, models.StepSuccess))
}

func TestGoToStepForward(t *testing.T) {
	d := models.NewBookingDraft("d1", "c1")

	_, err := GoToStep(d, models.StepTime)
	require.ErrorIs(t, err, ErrStepLocked)
	assert.Equal(t, models.StepService, d.Step, "a refused move leaves the draft where it was")

	d.Service = &models.ServiceOffering{ID: "S1"}
	d.Location = &models.Location{AddressID: "addr-1"}
	left, err := GoToStep(d, models.StepTime)
	require.NoError(t, err)
	assert.False(t, left)
	assert.Equal(t, models.StepTime, d.Step)
}

func TestGoToStepBackwardAlwaysAllowed(t *testing.T) {
	d := models.NewBookingDraft("d1", "c1")
	d.Service = &models.ServiceOffering{ID: "S1"}
	d.Location = &models.Location{AddressID: "addr-1"}
	d.Dates = []string{"2025-02-01"}
	d.Time = "10:00"
	d.Step = models.StepTime

	left, err := GoToStep(d, models.StepService)
	require.NoError(t, err)
	assert.False(t, left)
	assert.Equal(t, models.StepService, d.Step)
	// Backward navigation never clears downstream fields.
	assert.Equal(t, []string{"2025-02-01"}, d.Dates)
	assert.Equal(t, "10:00", d.Time)
	assert.NotNil(t, d.Location)
}

func TestGoToStepLeavingConfirmationReported(t *testing.T) {
	d := models.NewBookingDraft("d1", "c1")
	d.Step = models.StepConfirmation

	left, err := GoToStep(d, models.StepTime)
	require.NoError(t, err)
	assert.True(t, left)
}

func TestGoToStepSuccessRequiresSubmission(t *testing.T) {
	d := models.NewBookingDraft("d1", "c1")
	d.Service = &models.ServiceOffering{ID: "S1"}
	d.Location = &models.Location{AddressID: "addr-1"}
	d.Dates = []string{"2025-02-01"}
	d.Time = "10:00"
	d.Fulfillment = models.Fulfillment{Type: models.FulfillAutoAssign}
	d.Step = models.StepConfirmation

	// A complete draft that was never submitted must not navigate into
	// success.
	_, err := GoToStep(d, models.StepSuccess)
	require.ErrorIs(t, err, ErrStepLocked)
	assert.Equal(t, models.StepConfirmation, d.Step)

	d.Submitted = true
	_, err = GoToStep(d, models.StepSuccess)
	require.NoError(t, err)
	assert.Equal(t, models.StepSuccess, d.Step)
}

func TestGoToStepSameStepIsNoop(t *testing.T) {
	d := models.NewBookingDraft("d1", "c1")
	d.Step = models.StepConfirmation

	left, err := GoToStep(d, models.StepConfirmation)
	require.NoError(t, err)
	assert.False(t, left)
}

func TestParseWizardStepRoundTrip(t *testing.T) {
	for _, step := range stepOrder {
		parsed, ok := models.ParseWizardStep(step.String())
		require.True(t, ok)
		assert.Equal(t, step, parsed)
	}
	_, ok := models.ParseWizardStep("checkout")
	assert.False(t, ok)
}
