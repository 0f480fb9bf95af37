package repositories

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"clientbook_backend/internal/models"

	"github.com/mattn/go-sqlite3" // for sqlite3.Error
)

// ClientRepository defines the interface for client-related database operations.
type ClientRepository interface {
	CreateClient(executor SQLExecutor, client *models.Client) (int64, error)
	GetClientByID(id int64) (*models.Client, error)
	GetClientByEmail(email string) (*models.Client, error)
	GetClients(params models.ClientListParams) ([]models.Client, int, error) // Clients, total count, error
	UpdateClient(executor SQLExecutor, client *models.Client) error
	DeleteClient(executor SQLExecutor, id int64) error
	GetClientStats() (*models.ClientStats, error)
}

type clientRepository struct {
	db *sql.DB
}

// NewClientRepository creates a new instance of ClientRepository.
func NewClientRepository(db *sql.DB) ClientRepository {
	return &clientRepository{db: db}
}

// sortColumns is the allow-list of ORDER BY targets. Anything not in this
// map falls back to created_at; column names are never interpolated from
// user input directly.
var sortColumns = map[string]string{
	"name":       "name",
	"email":      "email",
	"created_at": "created_at",
	"updated_at": "updated_at",
}

// isUniqueViolation reports whether err is a sqlite unique-constraint error.
func isUniqueViolation(err error) bool {
	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) {
		return sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique
	}
	return false
}

// CreateClient inserts a new client and returns the generated id.
func (r *clientRepository) CreateClient(executor SQLExecutor, client *models.Client) (int64, error) {
	query := `INSERT INTO clients (name, email, phone, created_at, updated_at)
	          VALUES (?, ?, ?, ?, ?)`

	currentTime := time.Now().UTC()
	if client.CreatedAt.IsZero() {
		client.CreatedAt = currentTime
	}
	if client.UpdatedAt.IsZero() {
		client.UpdatedAt = client.CreatedAt
	}

	var phone sql.NullString
	if client.Phone != nil {
		phone = sql.NullString{String: *client.Phone, Valid: true}
	}

	result, err := executor.Exec(query,
		client.Name, client.Email, phone, client.CreatedAt, client.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return 0, fmt.Errorf("%w: %v", ErrDuplicateKey, err)
		}
		return 0, fmt.Errorf("%w: creating client: %v", ErrDatabaseError, err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("%w: reading inserted client id: %v", ErrDatabaseError, err)
	}
	client.ID = id
	return id, nil
}

// GetClientByID retrieves a client by their ID.
func (r *clientRepository) GetClientByID(id int64) (*models.Client, error) {
	client := &models.Client{}
	query := `SELECT id, name, email, phone, created_at, updated_at
	          FROM clients WHERE id = ?`

	var phone sql.NullString
	err := r.db.QueryRow(query, id).Scan(
		&client.ID, &client.Name, &client.Email, &phone,
		&client.CreatedAt, &client.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: getting client by ID %d: %v", ErrDatabaseError, id, err)
	}
	if phone.Valid {
		client.Phone = &phone.String
	}
	return client, nil
}

// GetClientByEmail retrieves a client by their normalized email. Used by the
// service layer as the advisory uniqueness pre-check.
func (r *clientRepository) GetClientByEmail(email string) (*models.Client, error) {
	client := &models.Client{}
	query := `SELECT id, name, email, phone, created_at, updated_at
	          FROM clients WHERE email = ?`

	var phone sql.NullString
	err := r.db.QueryRow(query, email).Scan(
		&client.ID, &client.Name, &client.Email, &phone,
		&client.CreatedAt, &client.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: getting client by email: %v", ErrDatabaseError, err)
	}
	if phone.Valid {
		client.Phone = &phone.String
	}
	return client, nil
}

// GetClients retrieves a page of clients with optional search and sorting.
// The count query and the page query share the same WHERE clause so the
// returned total always matches the applied filter, including for pages
// past the end of the result set.
func (r *clientRepository) GetClients(params models.ClientListParams) ([]models.Client, int, error) {
	clients := []models.Client{}

	var whereClause string
	var whereArgs []interface{}
	if params.Search != nil && *params.Search != "" {
		searchPattern := "%" + strings.ToLower(*params.Search) + "%"
		whereClause = " WHERE (LOWER(name) LIKE ? OR LOWER(email) LIKE ?)"
		whereArgs = append(whereArgs, searchPattern, searchPattern)
	}

	totalCount := 0
	countQuery := "SELECT COUNT(*) FROM clients" + whereClause
	if err := r.db.QueryRow(countQuery, whereArgs...).Scan(&totalCount); err != nil {
		return nil, 0, fmt.Errorf("%w: counting clients: %v", ErrDatabaseError, err)
	}

	sortBy, ok := sortColumns[params.SortBy]
	if !ok {
		sortBy = "created_at"
	}
	sortDir := "DESC"
	if strings.EqualFold(params.SortDir, "ASC") {
		sortDir = "ASC"
	}

	var queryBuilder strings.Builder
	queryBuilder.WriteString(`SELECT id, name, email, phone, created_at, updated_at FROM clients`)
	queryBuilder.WriteString(whereClause)
	queryBuilder.WriteString(fmt.Sprintf(" ORDER BY %s %s", sortBy, sortDir))
	queryBuilder.WriteString(" LIMIT ? OFFSET ?")

	offset := (params.Page - 1) * params.PageSize
	args := append(append([]interface{}{}, whereArgs...), params.PageSize, offset)

	rows, err := r.db.Query(queryBuilder.String(), args...)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: querying clients: %v", ErrDatabaseError, err)
	}
	defer rows.Close()

	for rows.Next() {
		var client models.Client
		var phone sql.NullString
		if err := rows.Scan(
			&client.ID, &client.Name, &client.Email, &phone,
			&client.CreatedAt, &client.UpdatedAt,
		); err != nil {
			return nil, 0, fmt.Errorf("%w: scanning client: %v", ErrDatabaseError, err)
		}
		if phone.Valid {
			client.Phone = &phone.String
		}
		clients = append(clients, client)
	}
	if err = rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("%w: iterating client rows: %v", ErrDatabaseError, err)
	}

	return clients, totalCount, nil
}

// UpdateClient persists all fields of an existing client.
func (r *clientRepository) UpdateClient(executor SQLExecutor, client *models.Client) error {
	query := `UPDATE clients SET name = ?, email = ?, phone = ?, updated_at = ?
	          WHERE id = ?`

	client.UpdatedAt = time.Now().UTC()
	var phone sql.NullString
	if client.Phone != nil {
		phone = sql.NullString{String: *client.Phone, Valid: true}
	}

	result, err := executor.Exec(query,
		client.Name, client.Email, phone, client.UpdatedAt, client.ID,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: %v", ErrDuplicateKey, err)
		}
		return fmt.Errorf("%w: updating client ID %d: %v", ErrDatabaseError, client.ID, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: getting rows affected for updating client ID %d: %v", ErrDatabaseError, client.ID, err)
	}
	if rowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteClient removes a client from the database.
func (r *clientRepository) DeleteClient(executor SQLExecutor, id int64) error {
	query := `DELETE FROM clients WHERE id = ?`
	result, err := executor.Exec(query, id)
	if err != nil {
		return fmt.Errorf("%w: deleting client ID %d: %v", ErrDatabaseError, id, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: getting rows affected for deleting client ID %d: %v", ErrDatabaseError, id, err)
	}
	if rowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// GetClientStats aggregates counts over the whole table in a single scan.
func (r *clientRepository) GetClientStats() (*models.ClientStats, error) {
	stats := &models.ClientStats{}
	query := `SELECT COUNT(*),
	                 COUNT(phone),
	                 SUM(CASE WHEN created_at >= ? THEN 1 ELSE 0 END)
	          FROM clients`

	weekAgo := time.Now().UTC().AddDate(0, 0, -7)
	var newLastWeek sql.NullInt64
	err := r.db.QueryRow(query, weekAgo).Scan(
		&stats.TotalClients, &stats.WithPhone, &newLastWeek,
	)
	if err != nil {
		return nil, fmt.Errorf("%w: aggregating client stats: %v", ErrDatabaseError, err)
	}
	stats.WithoutPhone = stats.TotalClients - stats.WithPhone
	if newLastWeek.Valid {
		stats.NewLastSevenDays = int(newLastWeek.Int64)
	}
	return stats, nil
}
