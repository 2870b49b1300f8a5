package risk

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// -- Mock patient directory --

type mockDirectory struct {
	known map[uuid.UUID]bool
}

func (m *mockDirectory) Exists(_ context.Context, id uuid.UUID) (bool, error) {
	return m.known[id], nil
}

// -- Mock prediction repository --

type mockPredictionRepo struct {
	records   []*Prediction
	createErr error
}

func (m *mockPredictionRepo) Create(_ context.Context, p *Prediction) error {
	if m.createErr != nil {
		return m.createErr
	}
	p.ID = uuid.New()
	p.CreatedAt = time.Now()
	m.records = append(m.records, p)
	return nil
}

func (m *mockPredictionRepo) ListByPatient(_ context.Context, patientID uuid.UUID, limit, offset int) ([]*Prediction, int, error) {
	var out []*Prediction
	for _, p := range m.records {
		if p.PatientID == patientID {
			out = append(out, p)
		}
	}
	return out, len(out), nil
}

func newTestService(known map[uuid.UUID]bool, repo *mockPredictionRepo) *Service {
	return NewService(&mockDirectory{known: known}, repo, zerolog.Nop())
}

func TestPredictRecordsHistory(t *testing.T) {
	patientID := uuid.New()
	repo := &mockPredictionRepo{}
	svc := newTestService(map[uuid.UUID]bool{patientID: true}, repo)

	req := &PredictRequest{
		Demographics:  Demographics{Age: 70, Gender: GenderMale},
		Comorbidities: Comorbidities{DiabetesMellitus: true, Hypertension: true},
		RenalPanel:    NewSingleReading(ClinicalReading{Creatinine: fp(2.0), Albumin: fp(3.0)}),
		Vitals:        NewSingleReading(ClinicalReading{SystolicBP: fp(170), HeartRate: fp(90)}),
	}

	got, err := svc.Predict(context.Background(), patientID, req)
	if err != nil {
		t.Fatalf("Predict: %v", err)
	}
	if got.RiskLevel != TierHigh {
		t.Errorf("risk_level = %q, want %q", got.RiskLevel, TierHigh)
	}
	if len(repo.records) != 1 {
		t.Fatalf("history records = %d, want 1", len(repo.records))
	}
	rec := repo.records[0]
	if rec.PatientID != patientID || rec.RiskLevel != got.RiskLevel || rec.Probability != got.Probability {
		t.Errorf("recorded %+v does not match assessment %+v", rec, got)
	}
}

func TestPredictUnknownPatient(t *testing.T) {
	svc := newTestService(map[uuid.UUID]bool{}, &mockPredictionRepo{})

	req := &PredictRequest{Demographics: Demographics{Age: 50, Gender: GenderMale}}
	_, err := svc.Predict(context.Background(), uuid.New(), req)
	if !errors.Is(err, ErrUnknownPatient) {
		t.Fatalf("err = %v, want ErrUnknownPatient", err)
	}
}

func TestPredictSwallowsHistoryFailure(t *testing.T) {
	patientID := uuid.New()
	repo := &mockPredictionRepo{createErr: errors.New("connection refused")}
	svc := newTestService(map[uuid.UUID]bool{patientID: true}, repo)

	req := &PredictRequest{Demographics: Demographics{Age: 50, Gender: GenderFemale}}
	got, err := svc.Predict(context.Background(), patientID, req)
	if err != nil {
		t.Fatalf("Predict should succeed despite history failure, got %v", err)
	}
	if got == nil || got.RiskLevel != TierLow {
		t.Errorf("assessment = %+v, want Low Risk", got)
	}
}

func TestPredictEmptySequenceRejected(t *testing.T) {
	patientID := uuid.New()
	svc := newTestService(map[uuid.UUID]bool{patientID: true}, &mockPredictionRepo{})

	req := &PredictRequest{
		Demographics: Demographics{Age: 50, Gender: GenderMale},
		RenalPanel:   NewReadingSequence(nil),
	}
	_, err := svc.Predict(context.Background(), patientID, req)
	if !errors.Is(err, ErrEmptyReadingSequence) {
		t.Fatalf("err = %v, want ErrEmptyReadingSequence", err)
	}
}

func TestHistoryUnknownPatient(t *testing.T) {
	svc := newTestService(map[uuid.UUID]bool{}, &mockPredictionRepo{})

	_, _, err := svc.History(context.Background(), uuid.New(), 20, 0)
	if !errors.Is(err, ErrUnknownPatient) {
		t.Fatalf("err = %v, want ErrUnknownPatient", err)
	}
}

func TestHistoryListsRecords(t *testing.T) {
	patientID := uuid.New()
	repo := &mockPredictionRepo{}
	svc := newTestService(map[uuid.UUID]bool{patientID: true}, repo)

	req := &PredictRequest{Demographics: Demographics{Age: 80, Gender: GenderMale}}
	for i := 0; i < 3; i++ {
		if _, err := svc.Predict(context.Background(), patientID, req); err != nil {
			t.Fatalf("Predict: %v", err)
		}
	}

	items, total, err := svc.History(context.Background(), patientID, 20, 0)
	if err != nil {
		t.Fatalf("History: %v", err)
	}
	if total != 3 || len(items) != 3 {
		t.Errorf("got %d items, total %d, want 3/3", len(items), total)
	}
}
