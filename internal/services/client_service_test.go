package services

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"clientbook_backend/internal/models"
	"clientbook_backend/internal/repositories"
)

// MockClientRepository is a mock implementation of repositories.ClientRepository.
type MockClientRepository struct {
	mock.Mock
}

func (m *MockClientRepository) CreateClient(executor repositories.SQLExecutor, client *models.Client) (int64, error) {
	args := m.Called(executor, client)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockClientRepository) GetClientByID(id int64) (*models.Client, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Client), args.Error(1)
}

func (m *MockClientRepository) GetClientByEmail(email string) (*models.Client, error) {
	args := m.Called(email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Client), args.Error(1)
}

func (m *MockClientRepository) GetClients(params models.ClientListParams) ([]models.Client, int, error) {
	args := m.Called(params)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]models.Client), args.Int(1), args.Error(2)
}

func (m *MockClientRepository) UpdateClient(executor repositories.SQLExecutor, client *models.Client) error {
	args := m.Called(executor, client)
	return args.Error(0)
}

func (m *MockClientRepository) DeleteClient(executor repositories.SQLExecutor, id int64) error {
	args := m.Called(executor, id)
	return args.Error(0)
}

func (m *MockClientRepository) GetClientStats() (*models.ClientStats, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ClientStats), args.Error(1)
}

func strPtr(s string) *string { return &s }

func TestCreateClient_NormalizesNameAndEmail(t *testing.T) {
	repo := new(MockClientRepository)
	svc := NewClientService(repo, nil)

	repo.On("GetClientByEmail", "john@ex.com").Return(nil, repositories.ErrNotFound)
	repo.On("CreateClient", mock.Anything, mock.AnythingOfType("*models.Client")).
		Run(func(args mock.Arguments) {
			client := args.Get(1).(*models.Client)
			assert.Equal(t, "John Doe", client.Name)
			assert.Equal(t, "john@ex.com", client.Email)
			require.NotNil(t, client.Phone)
			assert.Equal(t, "555-1234", *client.Phone)
		}).
		Return(int64(7), nil)
	repo.On("GetClientByID", int64(7)).Return(&models.Client{
		ID: 7, Name: "John Doe", Email: "john@ex.com", Phone: strPtr("555-1234"),
	}, nil)

	client, err := svc.CreateClient(CreateClientRequest{
		Name:  "  John Doe  ",
		Email: "  JOHN@EX.com ",
		Phone: strPtr(" 555-1234 "),
	})
	require.NoError(t, err)
	assert.Equal(t, int64(7), client.ID)
	assert.Equal(t, "john@ex.com", client.Email)
	repo.AssertExpectations(t)
}

func TestCreateClient_Validation(t *testing.T) {
	tests := []struct {
		name       string
		req        CreateClientRequest
		wantFields []string
	}{
		{
			name:       "missing email",
			req:        CreateClientRequest{Name: "John Doe"},
			wantFields: []string{"email"},
		},
		{
			name:       "missing name",
			req:        CreateClientRequest{Email: "john@ex.com"},
			wantFields: []string{"name"},
		},
		{
			name:       "malformed email",
			req:        CreateClientRequest{Name: "John Doe", Email: "not-an-email"},
			wantFields: []string{"email"},
		},
		{
			name:       "name with forbidden characters",
			req:        CreateClientRequest{Name: "John123", Email: "john@ex.com"},
			wantFields: []string{"name"},
		},
		{
			name:       "bad phone shape",
			req:        CreateClientRequest{Name: "John Doe", Email: "john@ex.com", Phone: strPtr("call me maybe")},
			wantFields: []string{"phone"},
		},
		{
			name:       "name over length bound",
			req:        CreateClientRequest{Name: strings.Repeat("a", 101), Email: "john@ex.com"},
			wantFields: []string{"name"},
		},
		{
			name:       "email over length bound",
			req:        CreateClientRequest{Name: "John Doe", Email: strings.Repeat("a", 244) + "@example.com"},
			wantFields: []string{"email"},
		},
		{
			name:       "phone over length bound",
			req:        CreateClientRequest{Name: "John Doe", Email: "john@ex.com", Phone: strPtr(strings.Repeat("5", 21))},
			wantFields: []string{"phone"},
		},
		{
			name:       "everything wrong at once",
			req:        CreateClientRequest{Name: "", Email: "nope", Phone: strPtr("xyz")},
			wantFields: []string{"name", "email", "phone"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(MockClientRepository)
			svc := NewClientService(repo, nil)

			_, err := svc.CreateClient(tt.req)
			require.Error(t, err)

			var valErr *ValidationError
			require.ErrorAs(t, err, &valErr)
			for _, field := range tt.wantFields {
				assert.Contains(t, valErr.Fields, field)
			}
			repo.AssertNotCalled(t, "CreateClient")
		})
	}
}

func TestCreateClient_DuplicateFromPreCheck(t *testing.T) {
	repo := new(MockClientRepository)
	svc := NewClientService(repo, nil)

	repo.On("GetClientByEmail", "john@ex.com").Return(&models.Client{ID: 3, Email: "john@ex.com"}, nil)

	_, err := svc.CreateClient(CreateClientRequest{Name: "John Doe", Email: "john@ex.com"})
	assert.ErrorIs(t, err, ErrEmailExists)
	repo.AssertNotCalled(t, "CreateClient")
}

func TestCreateClient_DuplicateFromConstraint(t *testing.T) {
	// A concurrent create can pass the pre-check and then hit the unique
	// index; the outcome must be the same duplicate error, not a generic one.
	repo := new(MockClientRepository)
	svc := NewClientService(repo, nil)

	repo.On("GetClientByEmail", "john@ex.com").Return(nil, repositories.ErrNotFound)
	repo.On("CreateClient", mock.Anything, mock.Anything).Return(int64(0), repositories.ErrDuplicateKey)

	_, err := svc.CreateClient(CreateClientRequest{Name: "John Doe", Email: "john@ex.com"})
	assert.ErrorIs(t, err, ErrEmailExists)
}

func TestGetClientByID_NotFound(t *testing.T) {
	repo := new(MockClientRepository)
	svc := NewClientService(repo, nil)

	repo.On("GetClientByID", int64(99)).Return(nil, repositories.ErrNotFound)

	_, err := svc.GetClientByID(99)
	assert.ErrorIs(t, err, ErrClientNotFound)
}

func TestGetClients_SanitizesParams(t *testing.T) {
	tests := []struct {
		name       string
		page       int
		pageSize   int
		sortBy     string
		sortOrder  string
		wantParams models.ClientListParams
	}{
		{
			name: "defaults", page: 0, pageSize: 0, sortBy: "", sortOrder: "",
			wantParams: models.ClientListParams{Page: 1, PageSize: 10, SortBy: "created_at", SortDir: "DESC"},
		},
		{
			name: "invalid sort field falls back silently", page: 2, pageSize: 5, sortBy: "password", sortOrder: "asc",
			wantParams: models.ClientListParams{Page: 2, PageSize: 5, SortBy: "created_at", SortDir: "ASC"},
		},
		{
			name: "page size clamped to maximum", page: 1, pageSize: 5000, sortBy: "name", sortOrder: "asc",
			wantParams: models.ClientListParams{Page: 1, PageSize: 100, SortBy: "name", SortDir: "ASC"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(MockClientRepository)
			svc := NewClientService(repo, nil)

			repo.On("GetClients", tt.wantParams).Return([]models.Client{}, 0, nil)

			_, _, err := svc.GetClients(tt.page, tt.pageSize, nil, tt.sortBy, tt.sortOrder)
			require.NoError(t, err)
			repo.AssertExpectations(t)
		})
	}
}

func TestUpdateClient_EmptyRequestIsNoOp(t *testing.T) {
	repo := new(MockClientRepository)
	svc := NewClientService(repo, nil)

	existing := &models.Client{ID: 5, Name: "John Doe", Email: "john@ex.com"}
	repo.On("GetClientByID", int64(5)).Return(existing, nil)

	client, err := svc.UpdateClient(5, UpdateClientRequest{})
	require.NoError(t, err)
	assert.Equal(t, existing, client)
	repo.AssertNotCalled(t, "UpdateClient")
}

func TestUpdateClient_NotFound(t *testing.T) {
	repo := new(MockClientRepository)
	svc := NewClientService(repo, nil)

	repo.On("GetClientByID", int64(42)).Return(nil, repositories.ErrNotFound)

	_, err := svc.UpdateClient(42, UpdateClientRequest{Name: strPtr("New Name")})
	assert.ErrorIs(t, err, ErrClientNotFound)
}

func TestUpdateClient_EmailChangeChecksUniqueness(t *testing.T) {
	repo := new(MockClientRepository)
	svc := NewClientService(repo, nil)

	existing := &models.Client{ID: 5, Name: "John Doe", Email: "john@ex.com"}
	repo.On("GetClientByID", int64(5)).Return(existing, nil)
	repo.On("GetClientByEmail", "taken@ex.com").Return(&models.Client{ID: 6, Email: "taken@ex.com"}, nil)

	_, err := svc.UpdateClient(5, UpdateClientRequest{Email: strPtr("taken@ex.com")})
	assert.ErrorIs(t, err, ErrEmailExists)
	repo.AssertNotCalled(t, "UpdateClient")
}

func TestUpdateClient_ValidationBeforeDuplicateCheck(t *testing.T) {
	repo := new(MockClientRepository)
	svc := NewClientService(repo, nil)

	existing := &models.Client{ID: 5, Name: "John Doe", Email: "john@ex.com"}
	repo.On("GetClientByID", int64(5)).Return(existing, nil)

	// A bad name and a colliding email in the same request: the caller must
	// hear about the validation problem, not the conflict.
	_, err := svc.UpdateClient(5, UpdateClientRequest{
		Name:  strPtr("John123"),
		Email: strPtr("taken@ex.com"),
	})
	require.Error(t, err)

	var valErr *ValidationError
	require.ErrorAs(t, err, &valErr)
	assert.Contains(t, valErr.Fields, "name")
	repo.AssertNotCalled(t, "GetClientByEmail")
	repo.AssertNotCalled(t, "UpdateClient")
}

func TestUpdateClient_FieldOverLengthBound(t *testing.T) {
	repo := new(MockClientRepository)
	svc := NewClientService(repo, nil)

	existing := &models.Client{ID: 5, Name: "John Doe", Email: "john@ex.com"}
	repo.On("GetClientByID", int64(5)).Return(existing, nil)

	_, err := svc.UpdateClient(5, UpdateClientRequest{Name: strPtr(strings.Repeat("a", 101))})
	require.Error(t, err)

	var valErr *ValidationError
	require.ErrorAs(t, err, &valErr)
	assert.Contains(t, valErr.Fields, "name")
	repo.AssertNotCalled(t, "UpdateClient")
}

func TestUpdateClient_SameEmailSkipsPreCheck(t *testing.T) {
	repo := new(MockClientRepository)
	svc := NewClientService(repo, nil)

	existing := &models.Client{ID: 5, Name: "John Doe", Email: "john@ex.com"}
	repo.On("GetClientByID", int64(5)).Return(existing, nil)
	repo.On("UpdateClient", mock.Anything, mock.Anything).Return(nil)

	_, err := svc.UpdateClient(5, UpdateClientRequest{Email: strPtr("JOHN@ex.com")})
	require.NoError(t, err)
	repo.AssertNotCalled(t, "GetClientByEmail")
}

func TestDeleteClient_NotFound(t *testing.T) {
	repo := new(MockClientRepository)
	svc := NewClientService(repo, nil)

	repo.On("GetClientByID", int64(42)).Return(nil, repositories.ErrNotFound)

	err := svc.DeleteClient(42)
	assert.ErrorIs(t, err, ErrClientNotFound)
	repo.AssertNotCalled(t, "DeleteClient")
}

func TestDeleteClient_Success(t *testing.T) {
	repo := new(MockClientRepository)
	svc := NewClientService(repo, nil)

	repo.On("GetClientByID", int64(5)).Return(&models.Client{ID: 5}, nil)
	repo.On("DeleteClient", mock.Anything, int64(5)).Return(nil)

	require.NoError(t, svc.DeleteClient(5))
	repo.AssertExpectations(t)
}

func TestGetClientStats_WrapsRepositoryError(t *testing.T) {
	repo := new(MockClientRepository)
	svc := NewClientService(repo, nil)

	repo.On("GetClientStats").Return(nil, errors.New("disk on fire"))

	_, err := svc.GetClientStats()
	require.Error(t, err)
}
