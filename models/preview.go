package models

import "time"

// PreviewVariant tags which pricing response shape a preview came from.
type PreviewVariant string

const (
	PreviewSingle    PreviewVariant = "single"
	PreviewMultiple  PreviewVariant = "multiple"
	PreviewRecurring PreviewVariant = "recurring"
)

// FeeKind distinguishes flat fees from percent-of-subtotal fees.
type FeeKind string

const (
	FeeFlat    FeeKind = "flat"
	FeePercent FeeKind = "percent"
)

// FeeLine is one named fee in the preview breakdown.
type FeeLine struct {
	Name    string  `json:"name"`
	Kind    FeeKind `json:"kind"`
	Amount  float64 `json:"amount"`            // resolved amount in currency units
	Percent float64 `json:"percent,omitempty"` // set when Kind == FeePercent
}

// PricePreview is the normalized projection of a pricing response, regardless
// of which of the three wire shapes it arrived in. Previews are recomputed,
// never mutated; a replaced preview is discarded whole.
type PricePreview struct {
	Variant PreviewVariant `json:"variant"`

	Subtotal  float64   `json:"subtotal"`
	PerUnit   float64   `json:"perUnit"`
	Fees      []FeeLine `json:"fees,omitempty"`
	Discount  float64   `json:"discount,omitempty"`
	Promotion string    `json:"promotion,omitempty"`
	Total     float64   `json:"total"`

	// Occurrence figures for Multiple/Recurring. The grand total is not
	// simply PerOccurrence * OccurrenceCount once the server applies an
	// end-date cutoff or blackout days.
	OccurrenceCount int     `json:"occurrenceCount,omitempty"`
	PerOccurrence   float64 `json:"perOccurrence,omitempty"`

	// Fingerprint of the draft inputs this preview was computed from.
	Fingerprint string    `json:"fingerprint"`
	FetchedAt   time.Time `json:"fetchedAt"`

	// Stale marks a last-known-good preview whose refresh failed.
	Stale bool `json:"stale,omitempty"`
	// Unconfirmed marks a client-estimated fallback that never saw the server.
	Unconfirmed bool `json:"unconfirmed,omitempty"`
}

// FreshFor reports whether the preview is a confirmed server result no older
// than the given window.
func (p *PricePreview) FreshFor(window time.Duration) bool {
	if p == nil || p.Stale || p.Unconfirmed {
		return false
	}
	return time.Since(p.FetchedAt) <= window
}
