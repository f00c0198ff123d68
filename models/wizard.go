package models

// WizardStep is one slot in the fixed booking flow. Recurring drafts reuse
// the same slots with different field requirements.
type WizardStep int

const (
	StepService WizardStep = iota
	StepLocation
	StepTime
	StepFulfillment
	StepConfirmation
	StepSuccess
)

var stepNames = map[WizardStep]string{
	StepService:      "service",
	StepLocation:     "location",
	StepTime:         "time",
	StepFulfillment:  "fulfillment",
	StepConfirmation: "confirmation",
	StepSuccess:      "success",
}

func (s WizardStep) String() string {
	if name, ok := stepNames[s]; ok {
		return name
	}
	return "unknown"
}

// ParseWizardStep resolves a step name sent by the client.
func ParseWizardStep(name string) (WizardStep, bool) {
	for step, n := range stepNames {
		if n == name {
			return step, true
		}
	}
	return StepService, false
}
