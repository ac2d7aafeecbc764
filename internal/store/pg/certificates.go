package pg

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/quin-vannatter/vpn-smb-manager/internal/store/core"
)

func (s *Store) GetCertificate(ctx context.Context, id string) (*core.Certificate, error) {
	var c core.Certificate
	err := s.pool.QueryRow(ctx, `SELECT id, username, label FROM certificates WHERE id = $1`, id).
		Scan(&c.ID, &c.Username, &c.Label)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, core.ErrNotFound
		}
		return nil, err
	}
	return &c, nil
}

func (s *Store) ListCertificates(ctx context.Context, username string) ([]core.Certificate, error) {
	return s.listCertificates(ctx, `SELECT id, username, label FROM certificates WHERE username = $1`, username)
}

func (s *Store) ListGuestCertificates(ctx context.Context) ([]core.Certificate, error) {
	return s.listCertificates(ctx, `SELECT id, username, label FROM certificates WHERE username IS NULL`)
}

func (s *Store) listCertificates(ctx context.Context, q string, args ...any) ([]core.Certificate, error) {
	rows, err := s.pool.Query(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []core.Certificate
	for rows.Next() {
		var c core.Certificate
		if err := rows.Scan(&c.ID, &c.Username, &c.Label); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (s *Store) CreateCertificate(ctx context.Context, c *core.Certificate) error {
	_, err := s.pool.Exec(ctx, `INSERT INTO certificates (id, username, label) VALUES ($1, $2, $3)`,
		c.ID, c.Username, c.Label)
	if err != nil && isUniqueViolation(err) {
		return core.ErrConflict
	}
	return err
}

func (s *Store) DeleteCertificate(ctx context.Context, id string) error {
	_, err := s.pool.Exec(ctx, `DELETE FROM certificates WHERE id = $1`, id)
	return err
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
