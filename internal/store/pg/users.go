package pg

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/quin-vannatter/vpn-smb-manager/internal/store/core"
)

func (s *Store) GetUser(ctx context.Context, username string) (*core.User, error) {
	return s.scanUser(s.pool.QueryRow(ctx, `
		SELECT username, password_hash, is_admin, token, expiration_date, smb_password
		FROM users WHERE username = $1`, username))
}

func (s *Store) GetUserByToken(ctx context.Context, token string) (*core.User, error) {
	return s.scanUser(s.pool.QueryRow(ctx, `
		SELECT username, password_hash, is_admin, token, expiration_date, smb_password
		FROM users WHERE token = $1`, token))
}

func (s *Store) scanUser(row pgx.Row) (*core.User, error) {
	var u core.User
	err := row.Scan(&u.Username, &u.PasswordHash, &u.IsAdmin, &u.Token, &u.ExpirationDate, &u.SMBPassword)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, core.ErrNotFound
		}
		return nil, err
	}
	return &u, nil
}

func (s *Store) ListUsers(ctx context.Context) ([]core.User, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT username, password_hash, is_admin, token, expiration_date, smb_password
		FROM users ORDER BY username`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []core.User
	for rows.Next() {
		var u core.User
		if err := rows.Scan(&u.Username, &u.PasswordHash, &u.IsAdmin, &u.Token, &u.ExpirationDate, &u.SMBPassword); err != nil {
			return nil, err
		}
		out = append(out, u)
	}
	return out, rows.Err()
}

func (s *Store) CreateUser(ctx context.Context, u *core.User) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO users (username, password_hash, is_admin, token, expiration_date, smb_password)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		u.Username, u.PasswordHash, u.IsAdmin, u.Token, u.ExpirationDate, u.SMBPassword)
	if err != nil && isUniqueViolation(err) {
		return core.ErrConflict
	}
	return err
}

func (s *Store) UpdateUser(ctx context.Context, u *core.User) error {
	tag, err := s.pool.Exec(ctx, `
		UPDATE users SET password_hash=$2, is_admin=$3, token=$4, expiration_date=$5, smb_password=$6
		WHERE username=$1`,
		u.Username, u.PasswordHash, u.IsAdmin, u.Token, u.ExpirationDate, u.SMBPassword)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return core.ErrNotFound
	}
	return nil
}

func (s *Store) DeleteUser(ctx context.Context, username string) error {
	_, err := s.pool.Exec(ctx, `DELETE FROM users WHERE username = $1`, username)
	return err
}

func (s *Store) AdminExists(ctx context.Context) (bool, error) {
	var exists bool
	err := s.pool.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM users WHERE is_admin)`).Scan(&exists)
	return exists, err
}
