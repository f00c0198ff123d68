package draft

import (
	"fmt"

	"homely/models"
)

// The sequencer gates forward navigation through the fixed step order.
// Backward navigation is always allowed and never clears downstream fields.

var stepOrder = []models.WizardStep{
	models.StepService,
	models.StepLocation,
	models.StepTime,
	models.StepFulfillment,
	models.StepConfirmation,
	models.StepSuccess,
}

// StepComplete reports whether the draft satisfies one step's requirements.
func StepComplete(d *models.BookingDraft, step models.WizardStep) bool {
	switch step {
	case models.StepService:
		return d.Service != nil
	case models.StepLocation:
		return d.Location.IsSet()
	case models.StepTime:
		return len(RequiredTemporalFields(d)) == 0
	case models.StepFulfillment:
		if d.Fulfillment.Type == "" {
			return false
		}
		if d.Fulfillment.Type == models.FulfillOpenPost && d.Fulfillment.PostTitle == "" {
			return false
		}
		return true
	case models.StepConfirmation:
		// Entering confirmation only needs the prior steps; its own
		// requirements (consents, payment) are checked at submission.
		return true
	case models.StepSuccess:
		return d.Submitted
	}
	return false
}

// CanEnter checks whether all logically prior steps are complete. It returns
// the first incomplete step wrapped in ErrStepLocked.
func CanEnter(d *models.BookingDraft, target models.WizardStep) error {
	// Success is only ever reached through a completed submission, never by
	// navigating into it.
	if target == models.StepSuccess && !d.Submitted {
		return fmt.Errorf("%w: booking not submitted", ErrStepLocked)
	}
	for _, step := range stepOrder {
		if step == target {
			return nil
		}
		if !StepComplete(d, step) {
			return fmt.Errorf("%w: %s", ErrStepLocked, step)
		}
	}
	return nil
}

// GoToStep moves the draft to the target step. Moving backward always
// succeeds; moving forward requires prior steps complete. Leaving the
// confirmation step logically cancels any in-flight preview fetch, which the
// orchestrator effects through the reconciler.
func GoToStep(d *models.BookingDraft, target models.WizardStep) (leftConfirmation bool, err error) {
	if target == d.Step {
		return false, nil
	}
	if target < d.Step {
		leftConfirmation = d.Step == models.StepConfirmation
		d.Step = target
		return leftConfirmation, nil
	}
	if err := CanEnter(d, target); err != nil {
		return false, err
	}
	d.Step = target
	return false, nil
}
