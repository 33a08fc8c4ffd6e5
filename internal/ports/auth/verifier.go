package auth

import "context"

// AuthVerifier verifica un token y devuelve claims o error.
type AuthVerifier interface {
	Verify(ctx context.Context, token string) (Claims, error)
}

// TokenIssuer emite un token de sesión firmado para un usuario.
// Lo usa el módulo de users en register/login; el resto de módulos
// nunca ven el token crudo, solo los claims resueltos.
type TokenIssuer interface {
	Issue(ctx context.Context, claims Claims) (string, error)
}
