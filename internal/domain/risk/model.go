package risk

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Risk tiers, ordered. A tier is a monotonic bucketing of probability:
// >= 0.70 is high, >= 0.40 is moderate, everything below is low.
const (
	TierLow      = "Low Risk"
	TierModerate = "Moderate Risk"
	TierHigh     = "High Risk"
)

// Gender values accepted in demographics.
const (
	GenderMale   = "Male"
	GenderFemale = "Female"
	GenderOther  = "Other"
)

// Demographics is the immutable per-request demographic input.
type Demographics struct {
	Age    int    `json:"age"`
	Gender string `json:"gender"`
}

// Comorbidities are three independent boolean flags.
type Comorbidities struct {
	DiabetesMellitus bool `json:"diabetes_mellitus"`
	Hypertension     bool `json:"hypertension"`
	Anemia           bool `json:"anemia"`
}

// ClinicalReading is one measurement bundle. Every field is optional: a nil
// pointer means the measurement was not taken, which is distinct from zero.
type ClinicalReading struct {
	Creatinine       *float64 `json:"creatinine,omitempty"`
	Albumin          *float64 `json:"albumin,omitempty"`
	Urea             *float64 `json:"urea,omitempty"`
	Sodium           *float64 `json:"sodium,omitempty"`
	Potassium        *float64 `json:"potassium,omitempty"`
	Bicarbonate      *float64 `json:"bicarbonate,omitempty"`
	SystolicBP       *float64 `json:"systolic_bp,omitempty"`
	DiastolicBP      *float64 `json:"diastolic_bp,omitempty"`
	HeartRate        *float64 `json:"heart_rate,omitempty"`
	UrineProteinPct  *float64 `json:"urine_protein_pct,omitempty"`
	UrineBacteriaPct *float64 `json:"urine_bacteria_pct,omitempty"`
}

// ReadingGroup accepts either a single reading object or an ordered sequence
// of readings for one category (renal panel or vitals). The polymorphism is
// resolved once at the extraction boundary; the scorer never sees it.
type ReadingGroup struct {
	single   *ClinicalReading
	sequence []ClinicalReading
	isSeq    bool
}

// NewSingleReading builds a group holding one reading. Used by tests and
// callers constructing requests programmatically.
func NewSingleReading(r ClinicalReading) *ReadingGroup {
	return &ReadingGroup{single: &r}
}

// NewReadingSequence builds a group holding an ordered sequence of readings.
func NewReadingSequence(rs []ClinicalReading) *ReadingGroup {
	return &ReadingGroup{sequence: rs, isSeq: true}
}

func (g *ReadingGroup) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimLeft(data, " \t\r\n")
	if len(trimmed) > 0 && trimmed[0] == '[' {
		g.isSeq = true
		g.single = nil
		return json.Unmarshal(data, &g.sequence)
	}
	g.isSeq = false
	g.sequence = nil
	g.single = &ClinicalReading{}
	return json.Unmarshal(data, g.single)
}

func (g ReadingGroup) MarshalJSON() ([]byte, error) {
	if g.isSeq {
		return json.Marshal(g.sequence)
	}
	return json.Marshal(g.single)
}

// LabVitalsPoint is the backward-compatible time-series shape. The timestamp
// is accepted and carried but plays no role in scoring.
type LabVitalsPoint struct {
	Timestamp  string   `json:"timestamp"`
	Creatinine *float64 `json:"creatinine,omitempty"`
	Albumin    *float64 `json:"albumin,omitempty"`
	SystolicBP *float64 `json:"systolic_bp,omitempty"`
	HeartRate  *float64 `json:"heart_rate,omitempty"`
}

// PredictRequest is the scoring input. Either the new-style renal_panel/vitals
// groupings or the legacy lab_vitals list supply measurements; when both are
// present the new-style groupings win.
type PredictRequest struct {
	Demographics  Demographics     `json:"demographics"`
	Comorbidities Comorbidities    `json:"comorbidities"`
	RenalPanel    *ReadingGroup    `json:"renal_panel,omitempty"`
	Vitals        *ReadingGroup    `json:"vitals,omitempty"`
	LabVitals     []LabVitalsPoint `json:"lab_vitals,omitempty"`
}

// Validate checks the structural constraints the scorer relies on.
func (r *PredictRequest) Validate() error {
	if r.Demographics.Age < 0 || r.Demographics.Age > 120 {
		return fmt.Errorf("age must be between 0 and 120, got %d", r.Demographics.Age)
	}
	switch r.Demographics.Gender {
	case GenderMale, GenderFemale, GenderOther:
	default:
		return fmt.Errorf("gender must be one of Male, Female, Other, got %q", r.Demographics.Gender)
	}
	return nil
}

// Assessment is the scoring output handed back to the caller unchanged.
type Assessment struct {
	RiskLevel       string   `json:"risk_level"`
	Probability     float64  `json:"probability"`
	TopFeatures     []string `json:"top_features"`
	Recommendations []string `json:"recommendations"`
}

// Prediction maps to the predictions table: one audit-trail row per scored
// request, keyed by time.
type Prediction struct {
	ID          uuid.UUID `db:"id" json:"id"`
	PatientID   uuid.UUID `db:"patient_id" json:"patient_id"`
	RiskLevel   string    `db:"risk_level" json:"risk_level"`
	Probability float64   `db:"probability" json:"probability"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
}
