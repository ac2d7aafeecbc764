package handlers

import (
	"github.com/quin-vannatter/vpn-smb-manager/internal/store/core"
	"github.com/quin-vannatter/vpn-smb-manager/internal/vpn"
)

// UserDTO es la vista pública de un usuario. Nunca incluye password_hash,
// token ni expiration_date; la redacción es estructural, no por filtrado.
type UserDTO struct {
	Username    string `json:"username"`
	IsAdmin     bool   `json:"isAdmin"`
	SMBPassword string `json:"smbPassword,omitempty"`
	Connected   *bool  `json:"connected,omitempty"`
}

func toUserDTO(u *core.User) UserDTO {
	return UserDTO{
		Username:    u.Username,
		IsAdmin:     u.IsAdmin,
		SMBPassword: u.SMBPassword,
	}
}

func toUserSummary(u *core.User, connected bool) UserDTO {
	dto := toUserDTO(u)
	dto.SMBPassword = ""
	dto.Connected = &connected
	return dto
}

// CertificateDTO combina el registro persistido con el estado derivado.
type CertificateDTO struct {
	ID        string `json:"id"`
	Username  string `json:"username,omitempty"`
	Label     string `json:"label,omitempty"`
	Connected bool   `json:"connected"`
	Addr      string `json:"addr,omitempty"`
}

func toCertificateDTO(c *core.Certificate, state vpn.ConnectionRecord) CertificateDTO {
	dto := CertificateDTO{
		ID:        c.ID,
		Username:  c.Owner(),
		Connected: state.Connected,
		Addr:      state.HardwareAddr,
	}
	if c.Label != nil {
		dto.Label = *c.Label
	}
	return dto
}

type DeviceDTO struct {
	MAC  string `json:"mac"`
	Name string `json:"name"`
}
