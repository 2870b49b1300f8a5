package risk

import (
	"errors"
	"fmt"
)

// ErrEmptyReadingSequence is returned when a category is supplied as an array
// with zero elements. An absent category is fine; an empty one is not.
var ErrEmptyReadingSequence = errors.New("category array cannot be empty")

// Features are the four scalar signals the scorer consumes. A nil pointer
// means "no signal", never zero.
type Features struct {
	Creatinine *float64
	Albumin    *float64
	SystolicBP *float64
	HeartRate  *float64
}

// Extract normalizes the request's measurement shapes into Features.
//
// Precedence: if either new-style grouping is present, only new-style
// extraction runs and legacy lab_vitals is ignored. New-style sequences use
// latest-reading semantics (last element); the legacy list uses a per-field
// safe mean across all points carrying that field.
func Extract(req *PredictRequest) (Features, error) {
	if req.RenalPanel != nil || req.Vitals != nil {
		var f Features
		panel, err := resolveGroup(req.RenalPanel, "renal_panel")
		if err != nil {
			return Features{}, err
		}
		vitals, err := resolveGroup(req.Vitals, "vitals")
		if err != nil {
			return Features{}, err
		}
		if panel != nil {
			f.Creatinine = panel.Creatinine
			f.Albumin = panel.Albumin
		}
		if vitals != nil {
			f.SystolicBP = vitals.SystolicBP
			f.HeartRate = vitals.HeartRate
		}
		return f, nil
	}

	if len(req.LabVitals) > 0 {
		return Features{
			Creatinine: safeMean(req.LabVitals, func(p LabVitalsPoint) *float64 { return p.Creatinine }),
			Albumin:    safeMean(req.LabVitals, func(p LabVitalsPoint) *float64 { return p.Albumin }),
			SystolicBP: safeMean(req.LabVitals, func(p LabVitalsPoint) *float64 { return p.SystolicBP }),
			HeartRate:  safeMean(req.LabVitals, func(p LabVitalsPoint) *float64 { return p.HeartRate }),
		}, nil
	}

	return Features{}, nil
}

// resolveGroup collapses a group to a single reading: the object itself, or
// the last element of a non-empty sequence.
func resolveGroup(g *ReadingGroup, category string) (*ClinicalReading, error) {
	if g == nil {
		return nil, nil
	}
	if g.isSeq {
		if len(g.sequence) == 0 {
			return nil, fmt.Errorf("%s: %w", category, ErrEmptyReadingSequence)
		}
		return &g.sequence[len(g.sequence)-1], nil
	}
	return g.single, nil
}

// safeMean averages one field across all points where it is present. If no
// point carries the field the result is nil, not zero.
func safeMean(points []LabVitalsPoint, field func(LabVitalsPoint) *float64) *float64 {
	var sum float64
	var n int
	for _, p := range points {
		if v := field(p); v != nil {
			sum += *v
			n++
		}
	}
	if n == 0 {
		return nil
	}
	mean := sum / float64(n)
	return &mean
}
