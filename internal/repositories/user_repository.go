package repositories

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"clientbook_backend/internal/models"
)

// UserRepository defines the interface for user account persistence.
type UserRepository interface {
	CreateUser(executor SQLExecutor, user *models.User, hashedPassword string) (int64, error)
	FindUserByUsername(username string) (*models.User, string, error) // Returns User, HashedPassword, Error
	FindUserByID(userID int64) (*models.User, error)
}

type userRepository struct {
	db *sql.DB
}

// NewUserRepository creates a new instance of UserRepository.
func NewUserRepository(db *sql.DB) UserRepository {
	return &userRepository{db: db}
}

// CreateUser inserts a new user. New users are active by default;
// CreatedAt and UpdatedAt are set to the current time.
func (r *userRepository) CreateUser(executor SQLExecutor, user *models.User, hashedPassword string) (int64, error) {
	query := `INSERT INTO users (username, password_hash, email, full_name, is_active, created_at, updated_at)
	          VALUES (?, ?, ?, ?, ?, ?, ?)`

	currentTime := time.Now().UTC()

	result, err := executor.Exec(query,
		user.Username,
		hashedPassword,
		user.Email,    // Can be nil
		user.FullName, // Can be nil
		true,
		currentTime,
		currentTime,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return 0, fmt.Errorf("%w: %v", ErrDuplicateKey, err)
		}
		return 0, fmt.Errorf("%w: creating user: %v", ErrDatabaseError, err)
	}

	userID, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("%w: reading inserted user id: %v", ErrDatabaseError, err)
	}
	return userID, nil
}

// FindUserByUsername retrieves a user together with their password hash.
func (r *userRepository) FindUserByUsername(username string) (*models.User, string, error) {
	user := &models.User{}
	query := `SELECT id, username, password_hash, email, full_name, is_active, created_at, updated_at
	          FROM users WHERE username = ?`

	var email, fullName sql.NullString
	var passwordHash string
	err := r.db.QueryRow(query, username).Scan(
		&user.ID, &user.Username, &passwordHash, &email, &fullName,
		&user.IsActive, &user.CreatedAt, &user.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, "", ErrNotFound
		}
		return nil, "", fmt.Errorf("%w: getting user by username: %v", ErrDatabaseError, err)
	}
	if email.Valid {
		user.Email = &email.String
	}
	if fullName.Valid {
		user.FullName = &fullName.String
	}
	return user, passwordHash, nil
}

// FindUserByID retrieves a user by their ID. The password hash is not loaded.
func (r *userRepository) FindUserByID(userID int64) (*models.User, error) {
	user := &models.User{}
	query := `SELECT id, username, email, full_name, is_active, created_at, updated_at
	          FROM users WHERE id = ?`

	var email, fullName sql.NullString
	err := r.db.QueryRow(query, userID).Scan(
		&user.ID, &user.Username, &email, &fullName,
		&user.IsActive, &user.CreatedAt, &user.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: getting user by ID %d: %v", ErrDatabaseError, userID, err)
	}
	if email.Valid {
		user.Email = &email.String
	}
	if fullName.Valid {
		user.FullName = &fullName.String
	}
	return user, nil
}
