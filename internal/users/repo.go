package users

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// RoleSuperAdmin is the only role allowed through the admin gate.
const RoleSuperAdmin = "super_admin"

var ErrNotFound = errors.New("user not found")

type User struct {
	ID           string
	Email        string
	PasswordHash string
	Role         string
}

type Repo struct {
	db *pgxpool.Pool
}

func NewRepo(db *pgxpool.Pool) *Repo {
	return &Repo{db: db}
}

// Role returns the role claim for the given user id.
func (r *Repo) Role(ctx context.Context, userID string) (string, error) {
	if userID == "" {
		return "", fmt.Errorf("user id required")
	}

	const q = `
select role
from users
where id = $1::uuid;
`
	var role string
	err := r.db.QueryRow(ctx, q, userID).Scan(&role)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", err
	}
	return role, nil
}

// GetByEmail loads a user for credential verification.
func (r *Repo) GetByEmail(ctx context.Context, email string) (*User, error) {
	if email == "" {
		return nil, fmt.Errorf("email required")
	}

	const q = `
select id::text, email, password_hash, role
from users
where email = $1;
`
	var u User
	err := r.db.QueryRow(ctx, q, email).Scan(&u.ID, &u.Email, &u.PasswordHash, &u.Role)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}
