package users

import (
	"context"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/matheusmosca/bookstore-api/internal/auth"
)

// MockRepository simula o repositório de usuários
type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) Create(ctx context.Context, user *User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockRepository) GetByUsername(ctx context.Context, username string) (*User, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*User), args.Error(1)
}

func (m *MockRepository) GetByID(ctx context.Context, id string) (*User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*User), args.Error(1)
}

func (m *MockRepository) ListAll(ctx context.Context) ([]User, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]User), args.Error(1)
}

func (m *MockRepository) UpdateProfile(ctx context.Context, username string, profile Profile) (*User, error) {
	args := m.Called(ctx, username, profile)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*User), args.Error(1)
}

func (m *MockRepository) UpdateRole(ctx context.Context, id, role string) error {
	args := m.Called(ctx, id, role)
	return args.Error(0)
}

func newTestUseCase(repo *MockRepository) *UserUseCase {
	userTokens := auth.NewTokenIssuer("user-secret", "bookstore-user", time.Hour)
	adminTokens := auth.NewTokenIssuer("admin-secret", "bookstore-admin", time.Hour)
	return NewUserUseCase(repo, userTokens, adminTokens, logrus.NewEntry(logrus.New()))
}

func TestRegister(t *testing.T) {
	// Arrange
	repo := new(MockRepository)
	uc := newTestUseCase(repo)

	repo.On("GetByUsername", mock.Anything, "john@example.com").Return(nil, ErrUserNotFound)
	repo.On("Create", mock.Anything, mock.AnythingOfType("*users.User")).Return(nil)

	// Act
	user, token, err := uc.Register(context.Background(), CredentialsRequest{
		Username: "john@example.com",
		Password: "secret123",
	})

	// Assert
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.Equal(t, auth.RoleUser, user.Role)
	assert.NotEqual(t, "secret123", user.PasswordHash)
	assert.True(t, user.CheckPassword("secret123"))
	repo.AssertExpectations(t)
}

func TestRegisterDuplicate(t *testing.T) {
	repo := new(MockRepository)
	uc := newTestUseCase(repo)

	existing := &User{ID: "u1", Username: "john@example.com"}
	repo.On("GetByUsername", mock.Anything, "john@example.com").Return(existing, nil)

	user, token, err := uc.Register(context.Background(), CredentialsRequest{
		Username: "john@example.com",
		Password: "secret123",
	})

	assert.ErrorIs(t, err, ErrUserAlreadyExists)
	assert.Nil(t, user)
	assert.Empty(t, token)
	repo.AssertNotCalled(t, "Create")
}

func TestLoginWrongPassword(t *testing.T) {
	repo := new(MockRepository)
	uc := newTestUseCase(repo)

	stored, err := NewUser("john@example.com", "right-password")
	require.NoError(t, err)
	repo.On("GetByUsername", mock.Anything, "john@example.com").Return(stored, nil)

	user, token, err := uc.Login(context.Background(), CredentialsRequest{
		Username: "john@example.com",
		Password: "wrong-password",
	})

	assert.ErrorIs(t, err, ErrInvalidPassword)
	assert.Nil(t, user)
	assert.Empty(t, token)
}

func TestLoginIssuesUserNamespaceToken(t *testing.T) {
	repo := new(MockRepository)
	uc := newTestUseCase(repo)

	stored, err := NewUser("john@example.com", "secret123")
	require.NoError(t, err)
	repo.On("GetByUsername", mock.Anything, "john@example.com").Return(stored, nil)

	_, token, err := uc.Login(context.Background(), CredentialsRequest{
		Username: "john@example.com",
		Password: "secret123",
	})
	require.NoError(t, err)

	// O token valida no namespace de usuário e não no administrativo
	userTokens := auth.NewTokenIssuer("user-secret", "bookstore-user", time.Hour)
	adminTokens := auth.NewTokenIssuer("admin-secret", "bookstore-admin", time.Hour)

	claims, err := userTokens.Verify(token)
	assert.NoError(t, err)
	assert.Equal(t, "john@example.com", claims.Username)

	_, err = adminTokens.Verify(token)
	assert.ErrorIs(t, err, auth.ErrInvalidToken)
}

func TestAdminLoginRejectsRegularUser(t *testing.T) {
	repo := new(MockRepository)
	uc := newTestUseCase(repo)

	stored, err := NewUser("john@example.com", "secret123")
	require.NoError(t, err)
	repo.On("GetByUsername", mock.Anything, "john@example.com").Return(stored, nil)

	user, token, err := uc.AdminLogin(context.Background(), CredentialsRequest{
		Username: "john@example.com",
		Password: "secret123",
	})

	assert.ErrorIs(t, err, ErrNotAdmin)
	assert.Nil(t, user)
	assert.Empty(t, token)
}

func TestAdminLogin(t *testing.T) {
	repo := new(MockRepository)
	uc := newTestUseCase(repo)

	stored, err := NewUser("root@example.com", "secret123")
	require.NoError(t, err)
	stored.Role = auth.RoleAdmin
	repo.On("GetByUsername", mock.Anything, "root@example.com").Return(stored, nil)

	user, token, err := uc.AdminLogin(context.Background(), CredentialsRequest{
		Username: "root@example.com",
		Password: "secret123",
	})

	require.NoError(t, err)
	assert.Equal(t, auth.RoleAdmin, user.Role)

	adminTokens := auth.NewTokenIssuer("admin-secret", "bookstore-admin", time.Hour)
	claims, err := adminTokens.Verify(token)
	assert.NoError(t, err)
	assert.True(t, claims.IsAdmin())
}

func TestExists(t *testing.T) {
	repo := new(MockRepository)
	uc := newTestUseCase(repo)

	repo.On("GetByUsername", mock.Anything, "known@example.com").
		Return(&User{ID: "u1", Username: "known@example.com"}, nil)
	repo.On("GetByUsername", mock.Anything, "unknown@example.com").Return(nil, ErrUserNotFound)

	exists, err := uc.Exists(context.Background(), "known@example.com")
	assert.NoError(t, err)
	assert.True(t, exists)

	exists, err = uc.Exists(context.Background(), "unknown@example.com")
	assert.NoError(t, err)
	assert.False(t, exists)
}

func TestGetProfileForbidden(t *testing.T) {
	repo := new(MockRepository)
	uc := newTestUseCase(repo)

	stranger := auth.Claims{UserID: "u9", Username: "other@example.com", Role: auth.RoleUser}
	_, err := uc.GetProfile(context.Background(), "john@example.com", stranger)

	assert.ErrorIs(t, err, ErrForbidden)
	repo.AssertNotCalled(t, "GetByUsername")
}

func TestGetProfileAsAdmin(t *testing.T) {
	repo := new(MockRepository)
	uc := newTestUseCase(repo)

	stored := &User{
		ID:       "u1",
		Username: "john@example.com",
		Profile:  Profile{Name: "John", Phone: "1199999", Address: "Rua A"},
	}
	repo.On("GetByUsername", mock.Anything, "john@example.com").Return(stored, nil)

	admin := auth.Claims{UserID: "u2", Username: "root@example.com", Role: auth.RoleAdmin}
	profile, err := uc.GetProfile(context.Background(), "john@example.com", admin)

	assert.NoError(t, err)
	assert.Equal(t, "John", profile.Name)
}

func TestUpdateRoleSelfChange(t *testing.T) {
	repo := new(MockRepository)
	uc := newTestUseCase(repo)

	acting := auth.Claims{UserID: "admin-1", Username: "root@example.com", Role: auth.RoleAdmin}
	user, err := uc.UpdateRole(context.Background(), "admin-1", auth.RoleUser, acting)

	assert.ErrorIs(t, err, ErrSelfRoleChange)
	assert.Nil(t, user)
	repo.AssertNotCalled(t, "UpdateRole")
}

func TestUpdateRoleInvalid(t *testing.T) {
	repo := new(MockRepository)
	uc := newTestUseCase(repo)

	acting := auth.Claims{UserID: "admin-1", Username: "root@example.com", Role: auth.RoleAdmin}
	user, err := uc.UpdateRole(context.Background(), "u1", "superuser", acting)

	assert.ErrorIs(t, err, ErrInvalidRole)
	assert.Nil(t, user)
}

func TestUpdateRole(t *testing.T) {
	repo := new(MockRepository)
	uc := newTestUseCase(repo)

	stored := &User{ID: "u1", Username: "john@example.com", Role: auth.RoleUser}
	repo.On("GetByID", mock.Anything, "u1").Return(stored, nil)
	repo.On("UpdateRole", mock.Anything, "u1", auth.RoleAdmin).Return(nil)

	acting := auth.Claims{UserID: "admin-1", Username: "root@example.com", Role: auth.RoleAdmin}
	user, err := uc.UpdateRole(context.Background(), "u1", auth.RoleAdmin, acting)

	require.NoError(t, err)
	assert.Equal(t, auth.RoleAdmin, user.Role)
	repo.AssertExpectations(t)
}
