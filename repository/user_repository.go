package repository

import (
	"database/sql"
	"fmt"
	"time"

	"sonicstream/model"
)

// UserRepository defines the interface for user data operations.
type UserRepository interface {
	CreateUser(user *model.User) (int64, error)
	GetUserByID(id int64) (*model.User, error)
	GetUserByUsername(username string) (*model.User, error)
	GetUserByEmail(email string) (*model.User, error)
	UpdateProfile(userID int64, username, email, fullName, avatar string) error
	UpdatePassword(userID int64, passwordHash string) error
	SetPremium(userID int64, until time.Time) error
	// SpendDownloadCredit decrements the credit balance by one, guarded
	// so the balance never goes negative. Returns false when no credit
	// was available to spend.
	SpendDownloadCredit(userID int64) (bool, error)
}

// mysqlUserRepository implements UserRepository for MySQL.
type mysqlUserRepository struct {
	db *sql.DB
}

// NewMySQLUserRepository creates a new mysqlUserRepository.
func NewMySQLUserRepository(db *sql.DB) UserRepository {
	return &mysqlUserRepository{db: db}
}

const userColumns = "id, username, email, password_hash, full_name, avatar, role, download_credits, premium_until, created_at, updated_at"

func scanUser(row *sql.Row) (*model.User, error) {
	user := &model.User{}
	err := row.Scan(&user.ID, &user.Username, &user.Email, &user.PasswordHash, &user.FullName,
		&user.Avatar, &user.Role, &user.DownloadCredits, &user.PremiumUntil, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil // User not found
		}
		return nil, fmt.Errorf("failed to scan user row: %w", err)
	}
	return user, nil
}

// CreateUser adds a new user to the database.
func (r *mysqlUserRepository) CreateUser(user *model.User) (int64, error) {
	query := "INSERT INTO users (username, email, password_hash, full_name, role, download_credits) VALUES (?, ?, ?, ?, ?, ?)"
	stmt, err := r.db.Prepare(query)
	if err != nil {
		return 0, fmt.Errorf("failed to prepare create user statement: %w", err)
	}
	defer stmt.Close()

	role := user.Role
	if role == "" {
		role = model.RoleStandard
	}

	res, err := stmt.Exec(user.Username, user.Email, user.PasswordHash, user.FullName, role, model.InitialDownloadCredits)
	if err != nil {
		if isDuplicateKeyError(err) {
			return 0, ErrDuplicateUser
		}
		return 0, fmt.Errorf("failed to execute create user statement: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get last insert ID for user: %w", err)
	}
	return id, nil
}

// GetUserByID retrieves a user by their ID.
func (r *mysqlUserRepository) GetUserByID(id int64) (*model.User, error) {
	query := fmt.Sprintf("SELECT %s FROM users WHERE id = ?", userColumns)
	return scanUser(r.db.QueryRow(query, id))
}

// GetUserByUsername retrieves a user by their username.
func (r *mysqlUserRepository) GetUserByUsername(username string) (*model.User, error) {
	query := fmt.Sprintf("SELECT %s FROM users WHERE username = ?", userColumns)
	return scanUser(r.db.QueryRow(query, username))
}

// GetUserByEmail retrieves a user by their email address.
func (r *mysqlUserRepository) GetUserByEmail(email string) (*model.User, error) {
	query := fmt.Sprintf("SELECT %s FROM users WHERE email = ?", userColumns)
	return scanUser(r.db.QueryRow(query, email))
}

// UpdateProfile updates the mutable profile fields. Empty values keep
// the stored ones.
func (r *mysqlUserRepository) UpdateProfile(userID int64, username, email, fullName, avatar string) error {
	query := `UPDATE users SET
		username = COALESCE(NULLIF(?, ''), username),
		email = COALESCE(NULLIF(?, ''), email),
		full_name = COALESCE(NULLIF(?, ''), full_name),
		avatar = COALESCE(NULLIF(?, ''), avatar),
		updated_at = NOW()
		WHERE id = ?`
	_, err := r.db.Exec(query, username, email, fullName, avatar, userID)
	if err != nil {
		if isDuplicateKeyError(err) {
			return ErrDuplicateUser
		}
		return fmt.Errorf("failed to update profile for user %d: %w", userID, err)
	}
	return nil
}

// UpdatePassword replaces the stored password hash.
func (r *mysqlUserRepository) UpdatePassword(userID int64, passwordHash string) error {
	query := "UPDATE users SET password_hash = ?, updated_at = NOW() WHERE id = ?"
	_, err := r.db.Exec(query, passwordHash, userID)
	if err != nil {
		return fmt.Errorf("failed to update password for user %d: %w", userID, err)
	}
	return nil
}

// SetPremium switches the account to the premium role with the given expiry.
func (r *mysqlUserRepository) SetPremium(userID int64, until time.Time) error {
	query := "UPDATE users SET role = ?, premium_until = ?, updated_at = NOW() WHERE id = ?"
	_, err := r.db.Exec(query, model.RolePremium, until, userID)
	if err != nil {
		return fmt.Errorf("failed to set premium for user %d: %w", userID, err)
	}
	return nil
}

// SpendDownloadCredit atomically decrements one credit. The guard in
// the WHERE clause makes concurrent spends safe: the balance cannot go
// below zero even when two downloads race.
func (r *mysqlUserRepository) SpendDownloadCredit(userID int64) (bool, error) {
	query := "UPDATE users SET download_credits = download_credits - 1, updated_at = NOW() WHERE id = ? AND download_credits > 0"
	res, err := r.db.Exec(query, userID)
	if err != nil {
		return false, fmt.Errorf("failed to spend download credit for user %d: %w", userID, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get affected rows for credit spend: %w", err)
	}
	return affected > 0, nil
}
