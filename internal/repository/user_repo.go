package repository

import (
	"context"
	"errors"

	"AnyCademyAPI/internal/model"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type UserRepository struct {
	DB *pgxpool.Pool
}

func NewUserRepository(db *pgxpool.Pool) *UserRepository {
	return &UserRepository{DB: db}
}

// CreateUser inserts a new user and returns the generated id.
func (r *UserRepository) CreateUser(ctx context.Context, email, passwordHash, fullName, role string) (uuid.UUID, error) {
	id := uuid.New()
	q := `
		INSERT INTO users (userid, email, passwordhash, fullname, role, createdat)
		VALUES ($1, $2, $3, $4, $5, NOW())
	`
	if _, err := r.DB.Exec(ctx, q, id, email, passwordHash, fullName, role); err != nil {
		return uuid.Nil, err
	}
	return id, nil
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	var u model.User
	q := `
		SELECT userid, email, passwordhash, fullname, role, createdat, deletedat
		FROM users
		WHERE email=$1 AND deletedat IS NULL
	`
	if err := r.DB.QueryRow(ctx, q, email).Scan(
		&u.UserID, &u.Email, &u.PasswordHash, &u.FullName, &u.Role, &u.CreatedAt, &u.DeletedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &u, nil
}

func (r *UserRepository) GetByID(ctx context.Context, userID uuid.UUID) (*model.User, error) {
	var u model.User
	q := `
		SELECT userid, email, passwordhash, fullname, role, createdat, deletedat
		FROM users
		WHERE userid=$1 AND deletedat IS NULL
	`
	if err := r.DB.QueryRow(ctx, q, userID).Scan(
		&u.UserID, &u.Email, &u.PasswordHash, &u.FullName, &u.Role, &u.CreatedAt, &u.DeletedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &u, nil
}

func (r *UserRepository) EmailExists(ctx context.Context, email string) (bool, error) {
	var exists bool
	q := `SELECT EXISTS (SELECT 1 FROM users WHERE email=$1)`
	err := r.DB.QueryRow(ctx, q, email).Scan(&exists)
	return exists, err
}

// UpdateRole changes a user's role. The super-admin gate lives in the
// service, not here.
func (r *UserRepository) UpdateRole(ctx context.Context, userID uuid.UUID, role string) (bool, error) {
	tag, err := r.DB.Exec(ctx, `
		UPDATE users SET role=$2 WHERE userid=$1 AND deletedat IS NULL
	`, userID, role)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}
