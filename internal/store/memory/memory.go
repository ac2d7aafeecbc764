// Package memory implementa core.Repository sobre maps en memoria.
// Se usa en tests y en modo dev sin base de datos.
package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/quin-vannatter/vpn-smb-manager/internal/store/core"
)

type Store struct {
	mu    sync.RWMutex
	users map[string]core.User
	certs map[string]core.Certificate
	devs  map[string]core.Device
}

func New() *Store {
	return &Store{
		users: make(map[string]core.User),
		certs: make(map[string]core.Certificate),
		devs:  make(map[string]core.Device),
	}
}

func (s *Store) Ping(ctx context.Context) error { return nil }
func (s *Store) Close()                         {}

func (s *Store) GetUser(ctx context.Context, username string) (*core.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := s.users[username]
	if !ok {
		return nil, core.ErrNotFound
	}
	cp := u
	return &cp, nil
}

func (s *Store) GetUserByToken(ctx context.Context, token string) (*core.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, u := range s.users {
		if u.Token != nil && *u.Token == token {
			cp := u
			return &cp, nil
		}
	}
	return nil, core.ErrNotFound
}

func (s *Store) ListUsers(ctx context.Context) ([]core.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]core.User, 0, len(s.users))
	for _, u := range s.users {
		out = append(out, u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Username < out[j].Username })
	return out, nil
}

func (s *Store) CreateUser(ctx context.Context, u *core.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.users[u.Username]; ok {
		return core.ErrConflict
	}
	s.users[u.Username] = *u
	return nil
}

func (s *Store) UpdateUser(ctx context.Context, u *core.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.users[u.Username]; !ok {
		return core.ErrNotFound
	}
	s.users[u.Username] = *u
	return nil
}

func (s *Store) DeleteUser(ctx context.Context, username string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.users, username)
	// Mismo efecto que el ON DELETE CASCADE del esquema.
	for id, c := range s.certs {
		if c.Username != nil && *c.Username == username {
			delete(s.certs, id)
		}
	}
	return nil
}

func (s *Store) AdminExists(ctx context.Context) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, u := range s.users {
		if u.IsAdmin {
			return true, nil
		}
	}
	return false, nil
}

func (s *Store) GetCertificate(ctx context.Context, id string) (*core.Certificate, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.certs[id]
	if !ok {
		return nil, core.ErrNotFound
	}
	cp := c
	return &cp, nil
}

func (s *Store) ListCertificates(ctx context.Context, username string) ([]core.Certificate, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []core.Certificate
	for _, c := range s.certs {
		if c.Username != nil && *c.Username == username {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *Store) ListGuestCertificates(ctx context.Context) ([]core.Certificate, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []core.Certificate
	for _, c := range s.certs {
		if c.Username == nil {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *Store) CreateCertificate(ctx context.Context, c *core.Certificate) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.certs[c.ID]; ok {
		return core.ErrConflict
	}
	s.certs[c.ID] = *c
	return nil
}

func (s *Store) DeleteCertificate(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.certs, id)
	return nil
}

func (s *Store) GetDevice(ctx context.Context, mac string) (*core.Device, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	d, ok := s.devs[mac]
	if !ok {
		return nil, core.ErrNotFound
	}
	cp := d
	return &cp, nil
}

func (s *Store) ListDevices(ctx context.Context) ([]core.Device, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]core.Device, 0, len(s.devs))
	for _, d := range s.devs {
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (s *Store) UpsertDevice(ctx context.Context, d *core.Device) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.devs[d.MAC] = *d
	return nil
}

func (s *Store) DeleteDevice(ctx context.Context, mac string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.devs, mac)
	return nil
}
