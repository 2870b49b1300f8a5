package account

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

type UserRepoPG struct {
	pool *pgxpool.Pool
}

func NewUserRepoPG(pool *pgxpool.Pool) *UserRepoPG {
	return &UserRepoPG{pool: pool}
}

func (r *UserRepoPG) conn(ctx context.Context) queryable {
	if tx := db.TxFromContext(ctx); tx != nil {
		return tx
	}
	return r.pool
}

const userCols = `id, email, full_name, role, password_hash, active, created_at, updated_at`

func scanUser(row pgx.Row) (*User, error) {
	var u User
	err := row.Scan(&u.ID, &u.Email, &u.FullName, &u.Role, &u.PasswordHash,
		&u.Active, &u.CreatedAt, &u.UpdatedAt)
	return &u, err
}

func (r *UserRepoPG) Create(ctx context.Context, u *User) error {
	q := `INSERT INTO users (email, full_name, role, password_hash, active)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at, updated_at`
	return r.conn(ctx).QueryRow(ctx, q,
		u.Email, u.FullName, u.Role, u.PasswordHash, u.Active,
	).Scan(&u.ID, &u.CreatedAt, &u.UpdatedAt)
}

func (r *UserRepoPG) GetByEmail(ctx context.Context, email string) (*User, error) {
	q := `SELECT ` + userCols + ` FROM users WHERE email = $1`
	return scanUser(r.conn(ctx).QueryRow(ctx, q, email))
}

func (r *UserRepoPG) GetByID(ctx context.Context, id uuid.UUID) (*User, error) {
	q := `SELECT ` + userCols + ` FROM users WHERE id = $1`
	return scanUser(r.conn(ctx).QueryRow(ctx, q, id))
}
