package risk

import (
	"context"

	"github.com/google/uuid"
)

// PredictionRepository persists the audit trail of scored requests.
type PredictionRepository interface {
	Create(ctx context.Context, p *Prediction) error
	ListByPatient(ctx context.Context, patientID uuid.UUID, limit, offset int) ([]*Prediction, int, error)
}
