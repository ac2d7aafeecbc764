package pg

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/quin-vannatter/vpn-smb-manager/internal/store/core"
)

func (s *Store) GetDevice(ctx context.Context, mac string) (*core.Device, error) {
	var d core.Device
	err := s.pool.QueryRow(ctx, `SELECT mac, name FROM devices WHERE mac = $1`, mac).Scan(&d.MAC, &d.Name)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, core.ErrNotFound
		}
		return nil, err
	}
	return &d, nil
}

func (s *Store) ListDevices(ctx context.Context) ([]core.Device, error) {
	rows, err := s.pool.Query(ctx, `SELECT mac, name FROM devices ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []core.Device
	for rows.Next() {
		var d core.Device
		if err := rows.Scan(&d.MAC, &d.Name); err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

func (s *Store) UpsertDevice(ctx context.Context, d *core.Device) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO devices (mac, name) VALUES ($1, $2)
		ON CONFLICT (mac) DO UPDATE SET name = EXCLUDED.name`, d.MAC, d.Name)
	return err
}

func (s *Store) DeleteDevice(ctx context.Context, mac string) error {
	_, err := s.pool.Exec(ctx, `DELETE FROM devices WHERE mac = $1`, mac)
	return err
}
