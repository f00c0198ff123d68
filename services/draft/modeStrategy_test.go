package draft

import (
	"testing"

	"homely/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func singleDraft() *models.BookingDraft {
	d := models.NewBookingDraft("d1", "c1")
	d.Service = &models.ServiceOffering{ID: "S1", BasePrice: 100, DurationMin: 120}
	d.Dates = []string{"2025-02-01"}
	d.Time = "10:00"
	return d
}

func TestRequiredTemporalFieldsSingle(t *testing.T) {
	d := singleDraft()
	assert.Empty(t, RequiredTemporalFields(d))

	d.Time = ""
	errs := RequiredTemporalFields(d)
	require.Len(t, errs, 1)
	assert.Equal(t, "time", errs[0].Field)

	d.Time = "10:00"
	d.Dates = []string{"2025-02-01", "2025-02-02"}
	errs = RequiredTemporalFields(d)
	require.Len(t, errs, 1)
	assert.Equal(t, "dates", errs[0].Field)
}

func TestRequiredTemporalFieldsMultiple(t *testing.T) {
	d := singleDraft()
	d.Mode = models.ModeMultiple

	// One date is not enough for a multi-date booking.
	d.Dates = []string{"2025-01-10"}
	errs := RequiredTemporalFields(d)
	require.Len(t, errs, 1)
	assert.Equal(t, "dates", errs[0].Field)

	d.Dates = []string{"2025-01-10", "2025-01-12"}
	assert.Empty(t, RequiredTemporalFields(d))

	d.Time = ""
	errs = RequiredTemporalFields(d)
	require.Len(t, errs, 1)
	assert.Equal(t, "time", errs[0].Field)
}

func TestRequiredTemporalFieldsRecurring(t *testing.T) {
	d := models.NewBookingDraft("d1", "c1")
	d.Mode = models.ModeRecurring

	errs := RequiredTemporalFields(d)
	require.Len(t, errs, 1)
	assert.Equal(t, "recurrence", errs[0].Field)

	d.Recurrence = &models.Recurrence{Type: models.RecurWeekly}
	errs = RequiredTemporalFields(d)
	assert.Len(t, errs, 3) // start date, day indices, time

	d.Recurrence = &models.Recurrence{
		Type:       models.RecurWeekly,
		StartDate:  "2025-03-03",
		DayIndices: []int{1, 3},
		Time:       "08:00",
	}
	// End date stays optional: open-ended schedules are valid.
	assert.Empty(t, RequiredTemporalFields(d))
}

func TestOccurrencesMultipleComposesSharedTime(t *testing.T) {
	d := models.NewBookingDraft("d1", "c1")
	d.Mode = models.ModeMultiple
	d.Dates = []string{"2025-01-10", "2025-01-12", "2025-01-15"}
	d.Time = "09:00"

	stamps, more := Occurrences(d, 12)
	assert.False(t, more)
	assert.Equal(t, []string{
		"2025-01-10T09:00:00",
		"2025-01-12T09:00:00",
		"2025-01-15T09:00:00",
	}, stamps)
}

func TestOccurrencesLegacyDateFallback(t *testing.T) {
	d := models.NewBookingDraft("d1", "c1")
	d.LegacyDate = "2025-02-01"
	d.Time = "10:00"

	assert.Empty(t, RequiredTemporalFields(d))

	stamps, more := Occurrences(d, 12)
	assert.False(t, more)
	assert.Equal(t, []string{"2025-02-01T10:00:00"}, stamps)
}

func TestOccurrencesWeeklyRecurrence(t *testing.T) {
	d := models.NewBookingDraft("d1", "c1")
	d.Mode = models.ModeRecurring
	d.Recurrence = &models.Recurrence{
		Type:       models.RecurWeekly,
		DayIndices: []int{1}, // Mondays
		StartDate:  "2025-01-06", // a Monday
		EndDate:    "2025-01-27",
		Time:       "07:30",
	}

	stamps, more := Occurrences(d, 12)
	assert.False(t, more)
	assert.Equal(t, []string{
		"2025-01-06T07:30:00",
		"2025-01-13T07:30:00",
		"2025-01-20T07:30:00",
		"2025-01-27T07:30:00",
	}, stamps)
}

func TestOccurrencesRecurrenceRespectsLimit(t *testing.T) {
	d := models.NewBookingDraft("d1", "c1")
	d.Mode = models.ModeRecurring
	d.Recurrence = &models.Recurrence{
		Type:       models.RecurWeekly,
		DayIndices: []int{1, 3, 5},
		StartDate:  "2025-01-06",
		Time:       "07:30",
	}

	stamps, more := Occurrences(d, 5)
	assert.Len(t, stamps, 5)
	assert.True(t, more, "open-ended schedule must report more occurrences beyond the preview limit")
}

func TestOccurrencesMonthlyRecurrence(t *testing.T) {
	d := models.NewBookingDraft("d1", "c1")
	d.Mode = models.ModeRecurring
	d.Recurrence = &models.Recurrence{
		Type:       models.RecurMonthly,
		DayIndices: []int{1, 15},
		StartDate:  "2025-01-01",
		EndDate:    "2025-02-28",
		Time:       "12:00",
	}

	stamps, more := Occurrences(d, 12)
	assert.False(t, more)
	assert.Equal(t, []string{
		"2025-01-01T12:00:00",
		"2025-01-15T12:00:00",
		"2025-02-01T12:00:00",
		"2025-02-15T12:00:00",
	}, stamps)
}

func TestSwitchModeClearsOnlyTemporalFields(t *testing.T) {
	d := singleDraft()
	d.Location = &models.Location{AddressID: "addr-1"}
	d.SelectedOptions = []models.OptionSelection{{OptionID: "o1", ChoiceID: "c1", PriceAdjustment: 5}}

	SwitchMode(d, models.ModeRecurring)

	assert.Equal(t, models.ModeRecurring, d.Mode)
	assert.Empty(t, d.Dates)
	assert.Empty(t, d.Time)
	assert.Empty(t, d.LegacyDate)
	// Service, options and location survive the switch untouched.
	require.NotNil(t, d.Service)
	assert.Equal(t, "S1", d.Service.ID)
	assert.Len(t, d.SelectedOptions, 1)
	require.NotNil(t, d.Location)
	assert.Equal(t, "addr-1", d.Location.AddressID)
}

func TestSwitchModeFromRecurringClearsRecurrence(t *testing.T) {
	d := models.NewBookingDraft("d1", "c1")
	d.Mode = models.ModeRecurring
	d.Recurrence = &models.Recurrence{Type: models.RecurWeekly, StartDate: "2025-01-06", DayIndices: []int{1}, Time: "09:00"}

	SwitchMode(d, models.ModeSingle)

	assert.Equal(t, models.ModeSingle, d.Mode)
	assert.Nil(t, d.Recurrence)
}

func TestSwitchModeSameModeIsNoop(t *testing.T) {
	d := singleDraft()
	SwitchMode(d, models.ModeSingle)
	assert.Equal(t, []string{"2025-02-01"}, d.Dates)
	assert.Equal(t, "10:00", d.Time)
}
