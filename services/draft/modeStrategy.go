package draft

import (
	"fmt"
	"time"

	"homely/models"
)

// The mode strategy is the only place bookingMode forks behavior. The
// reconciler and assembler call in here and stay mode-agnostic.

// RequiredTemporalFields returns the missing-field errors for the draft's
// temporal shape. Empty result means the schedule is complete for its mode.
func RequiredTemporalFields(d *models.BookingDraft) []FieldError {
	var errs []FieldError
	dates := d.EffectiveDates()

	switch d.Mode {
	case models.ModeSingle:
		if len(dates) != 1 {
			errs = append(errs, FieldError{Field: "dates", Message: "a single booking needs exactly one date"})
		}
		if d.Time == "" {
			errs = append(errs, FieldError{Field: "time", Message: "a time of day is required"})
		}
	case models.ModeMultiple:
		if len(dates) < 2 {
			errs = append(errs, FieldError{Field: "dates", Message: "a multi-date booking needs at least two dates"})
		}
		if d.Time == "" {
			errs = append(errs, FieldError{Field: "time", Message: "a shared time of day is required"})
		}
	case models.ModeRecurring:
		r := d.Recurrence
		if r == nil {
			errs = append(errs, FieldError{Field: "recurrence", Message: "a recurrence schedule is required"})
			break
		}
		if r.StartDate == "" {
			errs = append(errs, FieldError{Field: "recurrence.startDate", Message: "a start date is required"})
		}
		if len(r.DayIndices) == 0 {
			errs = append(errs, FieldError{Field: "recurrence.dayIndices", Message: "at least one recurrence day is required"})
		}
		if r.Time == "" {
			errs = append(errs, FieldError{Field: "recurrence.time", Message: "a time of day is required"})
		}
	default:
		errs = append(errs, FieldError{Field: "bookingMode", Message: "unknown booking mode"})
	}
	return errs
}

// Occurrences composes the draft's schedule into ordered ISO timestamps.
// For Recurring only the first limit occurrences are generated; the server
// expands the authoritative series. The second return reports whether more
// occurrences exist beyond the limit.
func Occurrences(d *models.BookingDraft, limit int) ([]string, bool) {
	switch d.Mode {
	case models.ModeSingle, models.ModeMultiple:
		dates := d.EffectiveDates()
		out := make([]string, 0, len(dates))
		for _, date := range dates {
			out = append(out, composeTimestamp(date, d.Time))
		}
		return out, false
	case models.ModeRecurring:
		if d.Recurrence == nil {
			return nil, false
		}
		return recurrenceOccurrences(d.Recurrence, limit)
	}
	return nil, false
}

// recurrenceOccurrences walks forward from the start date collecting days
// matching the recurrence config, up to limit, bounded by the end date when
// one is set. Open-ended schedules scan at most two years ahead.
func recurrenceOccurrences(r *models.Recurrence, limit int) ([]string, bool) {
	start, err := time.Parse("2006-01-02", r.StartDate)
	if err != nil {
		return nil, false
	}

	var end time.Time
	if r.EndDate != "" {
		end, err = time.Parse("2006-01-02", r.EndDate)
		if err != nil {
			return nil, false
		}
	} else {
		end = start.AddDate(2, 0, 0)
	}

	wanted := make(map[int]bool, len(r.DayIndices))
	for _, idx := range r.DayIndices {
		wanted[idx] = true
	}

	var out []string
	for day := start; !day.After(end); day = day.AddDate(0, 0, 1) {
		var match bool
		switch r.Type {
		case models.RecurWeekly:
			match = wanted[int(day.Weekday())]
		case models.RecurMonthly:
			match = wanted[day.Day()]
		}
		if !match {
			continue
		}
		if len(out) == limit {
			return out, true
		}
		out = append(out, composeTimestamp(day.Format("2006-01-02"), r.Time))
	}
	return out, false
}

func composeTimestamp(date, hhmm string) string {
	return fmt.Sprintf("%sT%s:00", date, hhmm)
}

// SwitchMode changes the draft's booking mode, clearing only the fields
// owned by the previous mode's temporal shape. Service, options, location
// and everything else survive the switch.
func SwitchMode(d *models.BookingDraft, newMode models.BookingMode) {
	if d.Mode == newMode {
		return
	}
	switch d.Mode {
	case models.ModeSingle, models.ModeMultiple:
		d.Dates = nil
		d.Time = ""
		d.LegacyDate = ""
	case models.ModeRecurring:
		d.Recurrence = nil
	}
	d.Mode = newMode
}
