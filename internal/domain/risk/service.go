package risk

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// ErrUnknownPatient means the referenced patient does not exist; scoring is
// never invoked in that case.
var ErrUnknownPatient = errors.New("patient not found")

// PatientDirectory is the slice of the registry the risk service needs: an
// existence check before scoring.
type PatientDirectory interface {
	Exists(ctx context.Context, id uuid.UUID) (bool, error)
}

type Service struct {
	patients    PatientDirectory
	predictions PredictionRepository
	logger      zerolog.Logger
}

func NewService(patients PatientDirectory, predictions PredictionRepository, logger zerolog.Logger) *Service {
	return &Service{patients: patients, predictions: predictions, logger: logger}
}

// Predict verifies the patient, extracts features, scores them and appends
// the result to the prediction history. A history append failure is logged
// and swallowed: the assessment itself is the authoritative outcome.
func (s *Service) Predict(ctx context.Context, patientID uuid.UUID, req *PredictRequest) (*Assessment, error) {
	ok, err := s.patients.Exists(ctx, patientID)
	if err != nil {
		return nil, fmt.Errorf("verify patient: %w", err)
	}
	if !ok {
		return nil, ErrUnknownPatient
	}

	features, err := Extract(req)
	if err != nil {
		return nil, err
	}

	assessment := Score(req.Demographics, req.Comorbidities, features)

	record := &Prediction{
		PatientID:   patientID,
		RiskLevel:   assessment.RiskLevel,
		Probability: assessment.Probability,
	}
	if err := s.predictions.Create(ctx, record); err != nil {
		s.logger.Warn().Err(err).
			Str("patient_id", patientID.String()).
			Msg("failed to append prediction history")
	}

	s.logger.Info().
		Str("patient_id", patientID.String()).
		Str("risk_level", assessment.RiskLevel).
		Float64("probability", assessment.Probability).
		Msg("prediction scored")

	return &assessment, nil
}

// History lists a patient's past predictions, newest first.
func (s *Service) History(ctx context.Context, patientID uuid.UUID, limit, offset int) ([]*Prediction, int, error) {
	ok, err := s.patients.Exists(ctx, patientID)
	if err != nil {
		return nil, 0, fmt.Errorf("verify patient: %w", err)
	}
	if !ok {
		return nil, 0, ErrUnknownPatient
	}
	return s.predictions.ListByPatient(ctx, patientID, limit, offset)
}
