package repository

import (
	"context"

	"github.com/jhoicas/Pedidos-api/internal/domain/entity"
)

// UserRepository define el puerto de persistencia para User (con sus poderes).
type UserRepository interface {
	// Create persiste el usuario y le asigna sus poderes.
	Create(ctx context.Context, user *entity.User) error
	FindByEmail(ctx context.Context, email string) (*entity.User, error)
	// EnsurePowers crea los poderes que falten (idempotente).
	EnsurePowers(ctx context.Context, names []string) error
}
