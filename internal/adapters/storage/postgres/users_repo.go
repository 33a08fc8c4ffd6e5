package postgres

import (
	"context"
	"database/sql"
	"errors"

	"pet-telehealth/internal/domain/users"

	"github.com/jackc/pgx/v5/pgconn"
)

type UsersRepo struct {
	db *sql.DB
}

func NewUsersRepo(db *sql.DB) *UsersRepo {
	return &UsersRepo{db: db}
}

func (r *UsersRepo) Create(ctx context.Context, u users.User) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO users (id, name, email, phone, password_hash, created_at)
		VALUES ($1,$2,$3,$4,$5,$6)
	`,
		u.ID,
		u.Name,
		u.Email,
		u.Phone,
		u.PasswordHash,
		u.CreatedAt,
	)
	if err != nil {
		// 23505 = unique_violation; el único índice único es el de email
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return users.ErrEmailTaken
		}
		return err
	}
	return nil
}

func (r *UsersRepo) GetByID(ctx context.Context, id string) (users.User, error) {
	return r.getBy(ctx, `WHERE id = $1`, id)
}

func (r *UsersRepo) GetByEmail(ctx context.Context, email string) (users.User, error) {
	return r.getBy(ctx, `WHERE email = $1`, email)
}

func (r *UsersRepo) getBy(ctx context.Context, where string, arg any) (users.User, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, name, email, phone, password_hash, created_at
		FROM users `+where, arg)

	var u users.User
	if err := row.Scan(
		&u.ID,
		&u.Name,
		&u.Email,
		&u.Phone,
		&u.PasswordHash,
		&u.CreatedAt,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return users.User{}, users.ErrNotFound
		}
		return users.User{}, err
	}

	return u, nil
}
