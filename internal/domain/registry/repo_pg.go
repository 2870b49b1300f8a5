package registry

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

type PatientRepoPG struct {
	pool *pgxpool.Pool
}

func NewPatientRepoPG(pool *pgxpool.Pool) *PatientRepoPG {
	return &PatientRepoPG{pool: pool}
}

func (r *PatientRepoPG) conn(ctx context.Context) queryable {
	if tx := db.TxFromContext(ctx); tx != nil {
		return tx
	}
	return r.pool
}

const patientCols = `id, mrn, first_name, last_name, birth_date, gender, active, created_at, updated_at`

func scanPatient(row pgx.Row) (*Patient, error) {
	var p Patient
	err := row.Scan(&p.ID, &p.MRN, &p.FirstName, &p.LastName, &p.BirthDate, &p.Gender,
		&p.Active, &p.CreatedAt, &p.UpdatedAt)
	return &p, err
}

func (r *PatientRepoPG) Create(ctx context.Context, p *Patient) error {
	q := `INSERT INTO patients (mrn, first_name, last_name, birth_date, gender, active)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at, updated_at`
	return r.conn(ctx).QueryRow(ctx, q,
		p.MRN, p.FirstName, p.LastName, p.BirthDate, p.Gender, p.Active,
	).Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt)
}

func (r *PatientRepoPG) GetByID(ctx context.Context, id uuid.UUID) (*Patient, error) {
	q := `SELECT ` + patientCols + ` FROM patients WHERE id = $1`
	return scanPatient(r.conn(ctx).QueryRow(ctx, q, id))
}

func (r *PatientRepoPG) GetByMRN(ctx context.Context, mrn string) (*Patient, error) {
	q := `SELECT ` + patientCols + ` FROM patients WHERE mrn = $1`
	return scanPatient(r.conn(ctx).QueryRow(ctx, q, mrn))
}

func (r *PatientRepoPG) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	var exists bool
	err := r.conn(ctx).QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM patients WHERE id = $1)`, id).Scan(&exists)
	return exists, err
}

func (r *PatientRepoPG) Update(ctx context.Context, p *Patient) error {
	q := `UPDATE patients
		SET mrn = $2, first_name = $3, last_name = $4, birth_date = $5, gender = $6,
			active = $7, updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at`
	return r.conn(ctx).QueryRow(ctx, q,
		p.ID, p.MRN, p.FirstName, p.LastName, p.BirthDate, p.Gender, p.Active,
	).Scan(&p.UpdatedAt)
}

func (r *PatientRepoPG) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.conn(ctx).Exec(ctx, `DELETE FROM patients WHERE id = $1`, id)
	return err
}

func (r *PatientRepoPG) List(ctx context.Context, limit, offset int) ([]*Patient, int, error) {
	var total int
	if err := r.conn(ctx).QueryRow(ctx, `SELECT COUNT(*) FROM patients`).Scan(&total); err != nil {
		return nil, 0, err
	}

	q := `SELECT ` + patientCols + ` FROM patients
		ORDER BY last_name, first_name
		LIMIT $1 OFFSET $2`
	rows, err := r.conn(ctx).Query(ctx, q, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var items []*Patient
	for rows.Next() {
		p, err := scanPatient(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, p)
	}
	return items, total, rows.Err()
}
