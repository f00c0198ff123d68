package pricing

import (
	"time"

	"homely/models"
)

// Normalize wraps a raw preview response into a tagged PricePreview at the
// client boundary, so downstream code never re-derives the discrimination.
//
// Contract (confirmed against observed service behavior, not a documented
// tag): a response carrying occurrenceCount together with a per-occurrence
// price is a recurring preview; one carrying bookingCount is a multi-date
// preview; anything else is a single preview. Classification is by field
// PRESENCE, not value — a present-but-zero occurrenceCount still classifies
// recurring. A response that legitimately has zero occurrences therefore
// must keep emitting the field; this is flagged with the pricing team as a
// contract to hold.
func normalize(raw *previewResponse) *models.PricePreview {
	p := &models.PricePreview{
		Variant:   models.PreviewSingle,
		Promotion: raw.Promotion,
		FetchedAt: time.Now(),
	}

	if raw.Subtotal != nil {
		p.Subtotal = *raw.Subtotal
	}
	if raw.PerUnit != nil {
		p.PerUnit = *raw.PerUnit
	}
	if raw.Discount != nil {
		p.Discount = *raw.Discount
	}
	if raw.Total != nil {
		p.Total = *raw.Total
	}

	subtotal := p.Subtotal
	for _, fee := range raw.Fees {
		line := models.FeeLine{Name: fee.Name}
		switch {
		case fee.Percent != nil:
			line.Kind = models.FeePercent
			line.Percent = *fee.Percent
			line.Amount = subtotal * *fee.Percent / 100
		case fee.Amount != nil:
			line.Kind = models.FeeFlat
			line.Amount = *fee.Amount
		default:
			continue
		}
		p.Fees = append(p.Fees, line)
	}

	switch {
	case raw.OccurrenceCount != nil && raw.PricePerOccurrence != nil:
		p.Variant = models.PreviewRecurring
		p.OccurrenceCount = *raw.OccurrenceCount
		p.PerOccurrence = *raw.PricePerOccurrence
	case raw.BookingCount != nil:
		p.Variant = models.PreviewMultiple
		p.OccurrenceCount = *raw.BookingCount
		if raw.PricePerBooking != nil {
			p.PerOccurrence = *raw.PricePerBooking
		}
	}

	return p
}
