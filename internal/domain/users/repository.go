package users

import "context"

type Repository interface {
	// Create falla con ErrEmailTaken si el email ya existe.
	// La unicidad se resuelve en el repo para que dos registros
	// concurrentes con el mismo email no pasen los dos.
	Create(ctx context.Context, u User) error
	GetByID(ctx context.Context, id string) (User, error)
	GetByEmail(ctx context.Context, email string) (User, error)
}
