package storage

import (
	"context"
	"database/sql"
	"errors"

	"github.com/b3nnytran/ride-sharing/internal/models"
)

type PostgresUserStore struct {
	db *sql.DB
}

func NewPostgresUserStore(db *sql.DB) *PostgresUserStore {
	return &PostgresUserStore{db: db}
}

func (p *PostgresUserStore) CreateUser(ctx context.Context, u models.User) (models.User, error) {
	err := p.db.QueryRowContext(ctx,
		`INSERT INTO users(name, phone_number, password_hash) VALUES($1,$2,$3) RETURNING id, created_at`,
		u.Name, u.PhoneNumber, u.PasswordHash,
	).Scan(&u.ID, &u.CreatedAt)
	if isUniqueViolation(err) {
		return models.User{}, ErrConflict
	}
	if err != nil {
		return models.User{}, err
	}
	return u, nil
}

func (p *PostgresUserStore) GetUser(ctx context.Context, id int64) (models.User, error) {
	return p.scanUser(p.db.QueryRowContext(ctx,
		`SELECT id, name, phone_number, password_hash, created_at FROM users WHERE id=$1`, id))
}

func (p *PostgresUserStore) GetUserByPhone(ctx context.Context, phone string) (models.User, error) {
	return p.scanUser(p.db.QueryRowContext(ctx,
		`SELECT id, name, phone_number, password_hash, created_at FROM users WHERE phone_number=$1`, phone))
}

func (p *PostgresUserStore) ListUsers(ctx context.Context, offset, limit int) ([]models.User, error) {
	if limit <= 0 {
		limit = 100
	}
	rows, err := p.db.QueryContext(ctx,
		`SELECT id, name, phone_number, password_hash, created_at FROM users ORDER BY id OFFSET $1 LIMIT $2`,
		offset, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []models.User
	for rows.Next() {
		var u models.User
		if err := rows.Scan(&u.ID, &u.Name, &u.PhoneNumber, &u.PasswordHash, &u.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, u)
	}
	return out, rows.Err()
}

func (p *PostgresUserStore) scanUser(row *sql.Row) (models.User, error) {
	var u models.User
	err := row.Scan(&u.ID, &u.Name, &u.PhoneNumber, &u.PasswordHash, &u.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return models.User{}, ErrNotFound
	}
	if err != nil {
		return models.User{}, err
	}
	return u, nil
}
