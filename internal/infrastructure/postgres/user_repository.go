package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jhoicas/Pedidos-api/internal/domain"
	"github.com/jhoicas/Pedidos-api/internal/domain/entity"
	"github.com/jhoicas/Pedidos-api/internal/domain/repository"
)

var _ repository.UserRepository = (*UserRepo)(nil)

// UserRepo implementación del puerto UserRepository sobre PostgreSQL.
type UserRepo struct {
	pool *pgxpool.Pool
}

// NewUserRepository construye el adaptador de persistencia para usuarios.
func NewUserRepository(pool *pgxpool.Pool) *UserRepo {
	return &UserRepo{pool: pool}
}

// Create persiste el usuario y sus poderes en una transacción.
func (r *UserRepo) Create(ctx context.Context, user *entity.User) error {
	return pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		query := `
			INSERT INTO users (email, password_hash, name, contact_no, role, verified, active, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, NOW(), NOW())
			RETURNING id, created_at, updated_at`
		err := tx.QueryRow(ctx, query,
			user.Email, user.PasswordHash, user.Name, user.ContactNo, user.Role, user.Verified, user.Active,
		).Scan(&user.ID, &user.CreatedAt, &user.UpdatedAt)
		if err != nil {
			if isUniqueViolation(err) {
				return domain.ErrDuplicate
			}
			return fmt.Errorf("insert user: %w", err)
		}
		if len(user.Powers) == 0 {
			return nil
		}
		_, err = tx.Exec(ctx, `
			INSERT INTO user_powers (user_id, power_id)
			SELECT $1, id FROM powers WHERE name = ANY($2)
			ON CONFLICT DO NOTHING`, user.ID, user.Powers)
		if err != nil {
			return fmt.Errorf("insert user powers: %w", err)
		}
		return nil
	})
}

// FindByEmail obtiene un usuario con sus poderes; nil si no existe.
func (r *UserRepo) FindByEmail(ctx context.Context, email string) (*entity.User, error) {
	query := `
		SELECT u.id, u.email, u.password_hash, u.name, u.contact_no, u.role, u.verified, u.active,
			u.created_at, u.updated_at,
			COALESCE(array_agg(p.name ORDER BY p.name) FILTER (WHERE p.name IS NOT NULL), '{}')
		FROM users u
		LEFT JOIN user_powers up ON up.user_id = u.id
		LEFT JOIN powers p ON p.id = up.power_id
		WHERE lower(u.email) = lower($1)
		GROUP BY u.id`
	var u entity.User
	err := r.pool.QueryRow(ctx, query, email).Scan(
		&u.ID, &u.Email, &u.PasswordHash, &u.Name, &u.ContactNo, &u.Role, &u.Verified, &u.Active,
		&u.CreatedAt, &u.UpdatedAt, &u.Powers,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get user by email: %w", err)
	}
	return &u, nil
}

// EnsurePowers inserta los poderes que falten.
func (r *UserRepo) EnsurePowers(ctx context.Context, names []string) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO powers (name)
		SELECT unnest($1::text[])
		ON CONFLICT (name) DO NOTHING`, names)
	if err != nil {
		return fmt.Errorf("ensure powers: %w", err)
	}
	return nil
}
