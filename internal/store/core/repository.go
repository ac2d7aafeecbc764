package core

import "context"

type Repository interface {
	Ping(ctx context.Context) error
	Close()

	// Users
	GetUser(ctx context.Context, username string) (*User, error)
	GetUserByToken(ctx context.Context, token string) (*User, error)
	ListUsers(ctx context.Context) ([]User, error)
	CreateUser(ctx context.Context, u *User) error
	UpdateUser(ctx context.Context, u *User) error
	DeleteUser(ctx context.Context, username string) error
	AdminExists(ctx context.Context) (bool, error)

	// Certificates
	GetCertificate(ctx context.Context, id string) (*Certificate, error)
	ListCertificates(ctx context.Context, username string) ([]Certificate, error)
	ListGuestCertificates(ctx context.Context) ([]Certificate, error)
	CreateCertificate(ctx context.Context, c *Certificate) error
	DeleteCertificate(ctx context.Context, id string) error

	// Devices
	GetDevice(ctx context.Context, mac string) (*Device, error)
	ListDevices(ctx context.Context) ([]Device, error)
	UpsertDevice(ctx context.Context, d *Device) error
	DeleteDevice(ctx context.Context, mac string) error
}
