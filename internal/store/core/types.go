package core

import "time"

type User struct {
	Username       string
	PasswordHash   string
	IsAdmin        bool
	Token          *string
	ExpirationDate *time.Time
	SMBPassword    string
}

// Certificate es un registro de contabilidad del lado del manager; el material
// criptográfico real vive en la PKI externa bajo el mismo ID.
// Username == nil significa certificado de invitado (sin dueño).
type Certificate struct {
	ID       string
	Username *string
	Label    *string
}

// IsGuest indica si el certificado no tiene usuario asignado.
func (c *Certificate) IsGuest() bool {
	return c.Username == nil || *c.Username == ""
}

// Owner devuelve el username dueño o "" para certificados de invitado.
func (c *Certificate) Owner() string {
	if c.Username == nil {
		return ""
	}
	return *c.Username
}

type Device struct {
	MAC  string
	Name string
}
