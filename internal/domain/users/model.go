package users

import "time"

// User representa una cuenta registrada. El hash de la contraseña
// nunca sale del módulo; los handlers devuelven solo el perfil.
type User struct {
	ID           string
	Name         string
	Email        string
	Phone        string
	PasswordHash string

	CreatedAt time.Time
}
