package repository

import (
    "context"
    "database/sql"
    "errors"
    "strings"

    "github.com/iliyamo/ticket-inventory/internal/model"
    "github.com/iliyamo/ticket-inventory/internal/utils"
)

// UserRepo provides access to the 'users' table.
type UserRepo struct{ DB *sql.DB }

func NewUserRepo(db *sql.DB) *UserRepo { return &UserRepo{DB: db} }

// Create hashes the password, inserts the user and returns its ID.
func (r *UserRepo) Create(ctx context.Context, email, firstName, lastName, password string, cost int) (uint64, error) {
    email = strings.ToLower(strings.TrimSpace(email))
    hash, err := utils.HashPassword(password, cost)
    if err != nil {
        return 0, err
    }
    res, err := r.DB.ExecContext(ctx,
        "INSERT INTO users (email, first_name, last_name, password_hash) VALUES (?,?,?,?)",
        email, firstName, lastName, hash)
    if err != nil {
        // 1062 = MySQL duplicate entry
        if strings.Contains(strings.ToLower(err.Error()), "1062") {
            return 0, ErrEmailExists
        }
        return 0, err
    }
    id, err := res.LastInsertId()
    if err != nil {
        return 0, err
    }
    return uint64(id), nil
}

// GetByEmail fetches a user by normalized email.
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (model.User, error) {
    email = strings.ToLower(strings.TrimSpace(email))
    var u model.User
    err := r.DB.QueryRowContext(ctx,
        "SELECT id,email,first_name,last_name,password_hash,created_at FROM users WHERE email=? LIMIT 1",
        email).Scan(&u.ID, &u.Email, &u.FirstName, &u.LastName, &u.PasswordHash, &u.CreatedAt)
    if errors.Is(err, sql.ErrNoRows) {
        return model.User{}, ErrUserNotFound
    }
    return u, err
}

// GetByID fetches a user by id.
func (r *UserRepo) GetByID(ctx context.Context, id uint64) (model.User, error) {
    var u model.User
    err := r.DB.QueryRowContext(ctx,
        "SELECT id,email,first_name,last_name,password_hash,created_at FROM users WHERE id=? LIMIT 1",
        id).Scan(&u.ID, &u.Email, &u.FirstName, &u.LastName, &u.PasswordHash, &u.CreatedAt)
    if errors.Is(err, sql.ErrNoRows) {
        return model.User{}, ErrUserNotFound
    }
    return u, err
}
