package risk

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ckdrisk/ckdrisk/internal/platform/db"
)

type queryable interface {
	Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row
	Exec(ctx context.Context, sql string, args ...interface{}) (pgconn.CommandTag, error)
}

type PredictionRepoPG struct {
	pool *pgxpool.Pool
}

func NewPredictionRepoPG(pool *pgxpool.Pool) *PredictionRepoPG {
	return &PredictionRepoPG{pool: pool}
}

func (r *PredictionRepoPG) conn(ctx context.Context) queryable {
	if tx := db.TxFromContext(ctx); tx != nil {
		return tx
	}
	return r.pool
}

const predictionCols = `id, patient_id, risk_level, probability, created_at`

func scanPrediction(row pgx.Row) (*Prediction, error) {
	var p Prediction
	err := row.Scan(&p.ID, &p.PatientID, &p.RiskLevel, &p.Probability, &p.CreatedAt)
	return &p, err
}

func (r *PredictionRepoPG) Create(ctx context.Context, p *Prediction) error {
	q := `INSERT INTO predictions (patient_id, risk_level, probability)
		VALUES ($1, $2, $3)
		RETURNING id, created_at`
	return r.conn(ctx).QueryRow(ctx, q, p.PatientID, p.RiskLevel, p.Probability).
		Scan(&p.ID, &p.CreatedAt)
}

func (r *PredictionRepoPG) ListByPatient(ctx context.Context, patientID uuid.UUID, limit, offset int) ([]*Prediction, int, error) {
	var total int
	if err := r.conn(ctx).QueryRow(ctx,
		`SELECT COUNT(*) FROM predictions WHERE patient_id = $1`, patientID).Scan(&total); err != nil {
		return nil, 0, err
	}

	q := `SELECT ` + predictionCols + ` FROM predictions
		WHERE patient_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3`
	rows, err := r.conn(ctx).Query(ctx, q, patientID, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var items []*Prediction
	for rows.Next() {
		p, err := scanPrediction(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, p)
	}
	return items, total, rows.Err()
}
