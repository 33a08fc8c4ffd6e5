package users

import (
	"context"
	"errors"
	"strings"
	"time"

	"pet-telehealth/internal/ports/auth"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrEmailTaken   = errors.New("user already exists")
	ErrUnauthorized = errors.New("invalid credentials")
	ErrNotFound     = errors.New("user not found")
)

type Service struct {
	repo   Repository
	issuer auth.TokenIssuer
	now    func() time.Time

	// bcryptCost se baja en tests para no pagar el costo por defecto.
	bcryptCost int
}

func NewService(repo Repository, issuer auth.TokenIssuer) *Service {
	return &Service{
		repo:       repo,
		issuer:     issuer,
		now:        time.Now,
		bcryptCost: bcrypt.DefaultCost,
	}
}

type RegisterInput struct {
	Name     string
	Email    string
	Password string
	Phone    string
}

// Register crea la cuenta y emite un token de sesión.
// El plaintext de la contraseña no se retiene: solo se guarda el hash.
func (s *Service) Register(ctx context.Context, in RegisterInput) (User, string, error) {
	name := strings.TrimSpace(in.Name)
	email := normalizeEmail(in.Email)
	phone := strings.TrimSpace(in.Phone)

	if name == "" || email == "" || in.Password == "" || phone == "" {
		return User{}, "", ErrInvalidInput
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), s.bcryptCost)
	if err != nil {
		return User{}, "", err
	}

	u := User{
		ID:           uuid.NewString(),
		Name:         name,
		Email:        email,
		Phone:        phone,
		PasswordHash: string(hash),
		CreatedAt:    s.now(),
	}

	if err := s.repo.Create(ctx, u); err != nil {
		return User{}, "", err
	}

	token, err := s.issuer.Issue(ctx, auth.Claims{UserID: u.ID, Email: u.Email})
	if err != nil {
		return User{}, "", err
	}

	return u, token, nil
}

// Login devuelve ErrUnauthorized tanto para email desconocido como para
// contraseña incorrecta; el caller no puede distinguir los casos
// (evita enumeración de cuentas).
func (s *Service) Login(ctx context.Context, email, password string) (User, string, error) {
	email = normalizeEmail(email)
	if email == "" || password == "" {
		return User{}, "", ErrInvalidInput
	}

	u, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		return User{}, "", ErrUnauthorized
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		return User{}, "", ErrUnauthorized
	}

	token, err := s.issuer.Issue(ctx, auth.Claims{UserID: u.ID, Email: u.Email})
	if err != nil {
		return User{}, "", err
	}

	return u, token, nil
}

func (s *Service) Resolve(ctx context.Context, id string) (User, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return User{}, ErrInvalidInput
	}
	return s.repo.GetByID(ctx, id)
}

// DisplayName resuelve el nombre visible de un usuario, con fallback
// genérico si la cuenta ya no existe. Lo usa el módulo de messages.
func (s *Service) DisplayName(ctx context.Context, id string) string {
	u, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return "User"
	}
	return u.Name
}

func normalizeEmail(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
