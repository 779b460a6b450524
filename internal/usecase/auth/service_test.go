package auth

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/patrimonio/tracker-backend/internal/domain"
)

// MockUserRepository is a mock implementation of UserRepository for testing
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, user *domain.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

// stubIssuer avoids pulling real signing into usecase tests.
type stubIssuer struct{}

func (stubIssuer) Issue(userID uuid.UUID) (string, error) {
	return "token-for-" + userID.String(), nil
}

func TestRegister_Success(t *testing.T) {
	ctx := context.Background()
	mockRepo := new(MockUserRepository)
	service := NewService(mockRepo, stubIssuer{})

	mockRepo.On("Create", ctx, mock.MatchedBy(func(u *domain.User) bool {
		hashOK := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte("s3cret!")) == nil
		return u.Email == "ana@example.com" && u.Role == domain.RoleUser && hashOK
	})).Return(nil)

	result, err := service.Register(ctx, RegisterInput{
		Name:     " Ana ",
		Email:    " Ana@Example.com ",
		Password: "s3cret!",
	})

	require.NoError(t, err)
	assert.Equal(t, "Ana", result.User.Name)
	assert.Equal(t, "token-for-"+result.User.ID.String(), result.Token)
	mockRepo.AssertExpectations(t)
}

func TestRegister_EmailTaken(t *testing.T) {
	ctx := context.Background()
	mockRepo := new(MockUserRepository)
	service := NewService(mockRepo, stubIssuer{})

	mockRepo.On("Create", ctx, mock.Anything).Return(domain.ErrEmailTaken)

	_, err := service.Register(ctx, RegisterInput{
		Name:     "Ana",
		Email:    "ana@example.com",
		Password: "s3cret!",
	})

	assert.ErrorIs(t, err, domain.ErrEmailTaken)
}

func TestRegister_MissingFields(t *testing.T) {
	ctx := context.Background()
	mockRepo := new(MockUserRepository)
	service := NewService(mockRepo, stubIssuer{})

	_, err := service.Register(ctx, RegisterInput{Name: "Ana", Email: "ana@example.com"})
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = service.Register(ctx, RegisterInput{Name: "", Email: "ana@example.com", Password: "x"})
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = service.Register(ctx, RegisterInput{Name: "Ana", Email: "not-an-email", Password: "x"})
	assert.ErrorIs(t, err, domain.ErrValidation)

	mockRepo.AssertNotCalled(t, "Create")
}

func TestLogin_Success(t *testing.T) {
	ctx := context.Background()
	mockRepo := new(MockUserRepository)
	service := NewService(mockRepo, stubIssuer{})

	hash, err := bcrypt.GenerateFromPassword([]byte("s3cret!"), bcrypt.MinCost)
	require.NoError(t, err)

	user := &domain.User{
		ID:           uuid.New(),
		Name:         "Ana",
		Email:        "ana@example.com",
		PasswordHash: string(hash),
		Role:         domain.RoleUser,
	}
	mockRepo.On("GetByEmail", ctx, "ana@example.com").Return(user, nil)

	result, err := service.Login(ctx, "Ana@Example.com", "s3cret!")

	require.NoError(t, err)
	assert.Equal(t, user.ID, result.User.ID)
	assert.NotEmpty(t, result.Token)
}

func TestLogin_WrongPassword(t *testing.T) {
	ctx := context.Background()
	mockRepo := new(MockUserRepository)
	service := NewService(mockRepo, stubIssuer{})

	hash, err := bcrypt.GenerateFromPassword([]byte("s3cret!"), bcrypt.MinCost)
	require.NoError(t, err)

	mockRepo.On("GetByEmail", ctx, "ana@example.com").Return(&domain.User{
		ID:           uuid.New(),
		PasswordHash: string(hash),
	}, nil)

	_, err = service.Login(ctx, "ana@example.com", "wrong")
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
}

func TestLogin_UnknownEmail(t *testing.T) {
	ctx := context.Background()
	mockRepo := new(MockUserRepository)
	service := NewService(mockRepo, stubIssuer{})

	mockRepo.On("GetByEmail", ctx, "ghost@example.com").Return(nil, domain.ErrNotFound)

	_, err := service.Login(ctx, "ghost@example.com", "whatever")

	// Indistinguishable from a wrong password.
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
}
