package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid email or password")
)

type User struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
}

type UserRepo struct{ DB *pgxpool.Pool }

func (r *UserRepo) Create(ctx context.Context, email, password, name, role string) (*User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	u := User{ID: uuid.NewString(), Email: email, Name: name, Role: role}
	err = r.DB.QueryRow(ctx, `
		INSERT INTO users(id, email, password_hash, name, role)
		VALUES ($1,$2,$3,$4,$5) RETURNING created_at`,
		u.ID, u.Email, string(hash), u.Name, u.Role).Scan(&u.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, fmt.Errorf("%w: %s", ErrEmailTaken, email)
		}
		return nil, err
	}
	return &u, nil
}

func (r *UserRepo) Authenticate(ctx context.Context, email, password string) (*User, error) {
	var u User
	var hash string
	err := r.DB.QueryRow(ctx, `
		SELECT id, email, password_hash, name, role, created_at
		FROM users WHERE email=$1`, email).
		Scan(&u.ID, &u.Email, &hash, &u.Name, &u.Role, &u.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}
	if bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) != nil {
		return nil, ErrInvalidCredentials
	}
	return &u, nil
}
