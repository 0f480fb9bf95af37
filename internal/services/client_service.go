package services

import (
	"database/sql"
	"errors"
	"fmt"
	"regexp"
	"sort"
	"strings"

	"clientbook_backend/internal/models"
	"clientbook_backend/internal/repositories"
	"clientbook_backend/pkg/utils"
)

// --- Custom Service Errors for Client ---
var (
	ErrClientNotFound = errors.New("client not found")
	ErrEmailExists    = errors.New("email already exists")
)

// ValidationError carries one message per rejected field so handlers can
// return actionable details. It is classified structurally with errors.As,
// never by matching message text.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	names := make([]string, 0, len(e.Fields))
	for f := range e.Fields {
		names = append(names, f)
	}
	sort.Strings(names)
	return "validation failed: " + strings.Join(names, ", ")
}

// Field constraints.
const (
	maxNameLength  = 100
	maxEmailLength = 255
	maxPhoneLength = 20

	defaultPageSize = 10
	maxPageSize     = 100
	defaultSortBy   = "created_at"
)

// --- Client DTOs ---
type CreateClientRequest struct {
	Name  string  `json:"name"`
	Email string  `json:"email"`
	Phone *string `json:"phone"`
}

type UpdateClientRequest struct {
	Name  *string `json:"name"`
	Email *string `json:"email"`
	Phone *string `json:"phone"`
}

// --- ClientService Interface ---
type ClientService interface {
	CreateClient(req CreateClientRequest) (*models.Client, error)
	GetClientByID(clientID int64) (*models.Client, error)
	GetClients(page, pageSize int, search *string, sortBy, sortOrder string) ([]models.Client, int, error)
	UpdateClient(clientID int64, req UpdateClientRequest) (*models.Client, error)
	DeleteClient(clientID int64) error
	GetClientStats() (*models.ClientStats, error)
}

// --- clientService Implementation ---
type clientService struct {
	clientRepo repositories.ClientRepository
	db         *sql.DB
}

// NewClientService creates a new instance of ClientService.
func NewClientService(repo repositories.ClientRepository, db *sql.DB) ClientService {
	return &clientService{
		clientRepo: repo,
		db:         db,
	}
}

var (
	nameRegex  = regexp.MustCompile(`^[\p{L} .'\-]+$`)
	phoneRegex = regexp.MustCompile(`^\+?[0-9][0-9 \-().]{5,19}$`)
)

// allowedSortFields is the listing sort allow-list. Values outside it fall
// back to the default field silently rather than erroring; clients rely on
// that permissiveness.
var allowedSortFields = map[string]struct{}{
	"name":       {},
	"email":      {},
	"created_at": {},
	"updated_at": {},
}

// validateName trims and checks a name value. Returns the normalized value
// and a problem description, empty when valid.
func validateName(raw string) (string, string) {
	name := strings.TrimSpace(raw)
	if name == "" {
		return "", "name is required"
	}
	if len(name) > maxNameLength {
		return "", fmt.Sprintf("name must be at most %d characters", maxNameLength)
	}
	if !nameRegex.MatchString(name) {
		return "", "name may only contain letters, spaces, hyphens, apostrophes and periods"
	}
	return name, ""
}

// validateEmail trims, lowercases and checks an email value.
func validateEmail(raw string) (string, string) {
	email := strings.ToLower(strings.TrimSpace(raw))
	if email == "" {
		return "", "email is required"
	}
	if len(email) > maxEmailLength {
		return "", fmt.Sprintf("email must be at most %d characters", maxEmailLength)
	}
	if !utils.IsValidEmail(email) {
		return "", "email format is invalid"
	}
	return email, ""
}

// validatePhone checks an optional phone value. A value that trims to the
// empty string clears the field (stored as NULL, never as "").
func validatePhone(raw string) (*string, string) {
	phone := strings.TrimSpace(raw)
	if phone == "" {
		return nil, ""
	}
	if len(phone) > maxPhoneLength {
		return nil, fmt.Sprintf("phone must be at most %d characters", maxPhoneLength)
	}
	if !phoneRegex.MatchString(phone) {
		return nil, "phone may only contain digits, spaces, hyphens, parentheses, periods and a leading +"
	}
	return utils.NewNullString(phone), ""
}

// checkEmailAvailable is the advisory uniqueness pre-check. The unique index
// on clients.email remains the source of truth; a concurrent writer can
// still win the race, which surfaces as ErrDuplicateKey from the repository.
func (s *clientService) checkEmailAvailable(email string, selfID int64) error {
	existing, err := s.clientRepo.GetClientByEmail(email)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil
		}
		return fmt.Errorf("failed to check email uniqueness: %w", err)
	}
	if existing.ID != selfID {
		return ErrEmailExists
	}
	return nil
}

// CreateClient validates and stores a new client. Name and email are
// mandatory, phone is optional.
func (s *clientService) CreateClient(req CreateClientRequest) (*models.Client, error) {
	fields := map[string]string{}

	name, problem := validateName(req.Name)
	if problem != "" {
		fields["name"] = problem
	}
	email, problem := validateEmail(req.Email)
	if problem != "" {
		fields["email"] = problem
	}
	var phone *string
	if req.Phone != nil {
		phone, problem = validatePhone(*req.Phone)
		if problem != "" {
			fields["phone"] = problem
		}
	}
	if len(fields) > 0 {
		return nil, &ValidationError{Fields: fields}
	}

	if err := s.checkEmailAvailable(email, 0); err != nil {
		return nil, err
	}

	client := &models.Client{
		Name:  name,
		Email: email,
		Phone: phone,
	}

	id, err := s.clientRepo.CreateClient(s.db, client)
	if err != nil {
		if errors.Is(err, repositories.ErrDuplicateKey) {
			// Lost the race with a concurrent create; same outcome as the pre-check.
			return nil, ErrEmailExists
		}
		return nil, fmt.Errorf("failed to create client in repository: %w", err)
	}
	return s.clientRepo.GetClientByID(id)
}

// GetClientByID returns a single client or ErrClientNotFound.
func (s *clientService) GetClientByID(clientID int64) (*models.Client, error) {
	client, err := s.clientRepo.GetClientByID(clientID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrClientNotFound
		}
		return nil, fmt.Errorf("failed to get client by ID: %w", err)
	}
	return client, nil
}

// GetClients returns one page of clients plus the total count of matches.
// Out-of-range parameters are clamped, never rejected.
func (s *clientService) GetClients(page, pageSize int, search *string, sortBy, sortOrder string) ([]models.Client, int, error) {
	if page <= 0 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = defaultPageSize
	}
	if pageSize > maxPageSize {
		pageSize = maxPageSize
	}
	if _, ok := allowedSortFields[sortBy]; !ok {
		sortBy = defaultSortBy
	}
	sortDir := "DESC"
	if strings.EqualFold(sortOrder, "asc") {
		sortDir = "ASC"
	}

	params := models.ClientListParams{
		Page:     page,
		PageSize: pageSize,
		Search:   search,
		SortBy:   sortBy,
		SortDir:  sortDir,
	}

	clients, totalCount, err := s.clientRepo.GetClients(params)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to get clients: %w", err)
	}
	return clients, totalCount, nil
}

// UpdateClient applies a partial field set to an existing client. Supplying
// zero fields is a no-op that returns the current record.
func (s *clientService) UpdateClient(clientID int64, req UpdateClientRequest) (*models.Client, error) {
	client, err := s.clientRepo.GetClientByID(clientID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrClientNotFound
		}
		return nil, fmt.Errorf("failed to find client for update: %w", err)
	}

	// Validate every provided field first; the uniqueness pre-check only
	// runs once the whole payload is valid, so a 400-class problem is never
	// masked by a 409.
	fields := map[string]string{}
	var name, email string
	var phone *string

	if req.Name != nil {
		var problem string
		name, problem = validateName(*req.Name)
		if problem != "" {
			fields["name"] = problem
		}
	}
	if req.Email != nil {
		var problem string
		email, problem = validateEmail(*req.Email)
		if problem != "" {
			fields["email"] = problem
		}
	}
	if req.Phone != nil {
		var problem string
		phone, problem = validatePhone(*req.Phone)
		if problem != "" {
			fields["phone"] = problem
		}
	}
	if len(fields) > 0 {
		return nil, &ValidationError{Fields: fields}
	}

	changed := false
	if req.Name != nil {
		client.Name = name
		changed = true
	}
	if req.Email != nil {
		if email != client.Email {
			if err := s.checkEmailAvailable(email, clientID); err != nil {
				return nil, err
			}
		}
		client.Email = email
		changed = true
	}
	if req.Phone != nil {
		client.Phone = phone
		changed = true
	}
	if !changed {
		return client, nil
	}

	err = s.clientRepo.UpdateClient(s.db, client)
	if err != nil {
		if errors.Is(err, repositories.ErrDuplicateKey) {
			return nil, ErrEmailExists
		}
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrClientNotFound
		}
		return nil, fmt.Errorf("failed to update client in repository: %w", err)
	}
	return s.clientRepo.GetClientByID(clientID)
}

// DeleteClient removes a client. Deleting an absent id reports
// ErrClientNotFound, including on repeat deletes.
func (s *clientService) DeleteClient(clientID int64) error {
	_, err := s.clientRepo.GetClientByID(clientID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return ErrClientNotFound
		}
		return fmt.Errorf("failed to find client for deletion: %w", err)
	}

	err = s.clientRepo.DeleteClient(s.db, clientID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return ErrClientNotFound
		}
		return fmt.Errorf("failed to delete client: %w", err)
	}
	return nil
}

// GetClientStats returns aggregate counts, computed fresh on every call.
func (s *clientService) GetClientStats() (*models.ClientStats, error) {
	stats, err := s.clientRepo.GetClientStats()
	if err != nil {
		return nil, fmt.Errorf("failed to get client stats: %w", err)
	}
	return stats, nil
}
