package users

import (
	"context"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/matheusmosca/bookstore-api/internal/auth"
)

// UserUseCase contém a lógica de negócio de identidade e perfis
type UserUseCase struct {
	repository  Repository
	userTokens  *auth.TokenIssuer
	adminTokens *auth.TokenIssuer
	log         *logrus.Entry
}

// NewUserUseCase cria uma nova instância de UserUseCase. Os emissores de
// credencial dos dois namespaces são injetados na construção.
func NewUserUseCase(
	repository Repository,
	userTokens *auth.TokenIssuer,
	adminTokens *auth.TokenIssuer,
	log *logrus.Entry,
) *UserUseCase {
	return &UserUseCase{
		repository:  repository,
		userTokens:  userTokens,
		adminTokens: adminTokens,
		log:         log,
	}
}

// Register cadastra um novo usuário e emite uma credencial de usuário
func (uc *UserUseCase) Register(ctx context.Context, req CredentialsRequest) (*User, string, error) {
	if _, err := uc.repository.GetByUsername(ctx, req.Username); err == nil {
		return nil, "", ErrUserAlreadyExists
	} else if !errors.Is(err, ErrUserNotFound) {
		return nil, "", fmt.Errorf("failed to check existing user: %w", err)
	}

	user, err := NewUser(req.Username, req.Password)
	if err != nil {
		return nil, "", fmt.Errorf("failed to hash password: %w", err)
	}

	if err := uc.repository.Create(ctx, user); err != nil {
		return nil, "", fmt.Errorf("failed to create user: %w", err)
	}

	token, err := uc.userTokens.Issue(user.Claims())
	if err != nil {
		return nil, "", err
	}

	uc.log.Infof("✅ User registered: %s", user.Username)
	return user, token, nil
}

// Login autentica um usuário e emite uma credencial de usuário
func (uc *UserUseCase) Login(ctx context.Context, req CredentialsRequest) (*User, string, error) {
	user, err := uc.repository.GetByUsername(ctx, req.Username)
	if err != nil {
		return nil, "", err
	}

	if !user.CheckPassword(req.Password) {
		return nil, "", ErrInvalidPassword
	}

	token, err := uc.userTokens.Issue(user.Claims())
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}

// AdminLogin autentica um admin e emite uma credencial do namespace admin
func (uc *UserUseCase) AdminLogin(ctx context.Context, req CredentialsRequest) (*User, string, error) {
	user, err := uc.repository.GetByUsername(ctx, req.Username)
	if err != nil {
		return nil, "", err
	}

	if !user.CheckPassword(req.Password) {
		return nil, "", ErrInvalidPassword
	}

	if user.Role != auth.RoleAdmin {
		return nil, "", ErrNotAdmin
	}

	token, err := uc.adminTokens.Issue(user.Claims())
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}

// Exists verifica se um username já está cadastrado
func (uc *UserUseCase) Exists(ctx context.Context, username string) (bool, error) {
	_, err := uc.repository.GetByUsername(ctx, username)
	if errors.Is(err, ErrUserNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// GetProfile busca o perfil de um usuário; dono ou admin
func (uc *UserUseCase) GetProfile(ctx context.Context, username string, claims auth.Claims) (Profile, error) {
	if !claims.IsAdmin() && claims.Username != username {
		return Profile{}, ErrForbidden
	}

	user, err := uc.repository.GetByUsername(ctx, username)
	if err != nil {
		return Profile{}, err
	}
	return user.Profile, nil
}

// UpdateProfile grava o perfil de um usuário; dono ou admin
func (uc *UserUseCase) UpdateProfile(ctx context.Context, username string, profile Profile, claims auth.Claims) (Profile, error) {
	if !claims.IsAdmin() && claims.Username != username {
		return Profile{}, ErrForbidden
	}

	user, err := uc.repository.UpdateProfile(ctx, username, profile)
	if err != nil {
		return Profile{}, err
	}
	return user.Profile, nil
}

// ListAll busca todos os usuários (somente admin, garantido na rota)
func (uc *UserUseCase) ListAll(ctx context.Context) ([]User, error) {
	return uc.repository.ListAll(ctx)
}

// UpdateRole altera o papel de um usuário. O admin que executa a ação
// nunca pode alterar o próprio papel.
func (uc *UserUseCase) UpdateRole(ctx context.Context, userID, role string, acting auth.Claims) (*User, error) {
	if !ValidRole(role) {
		return nil, ErrInvalidRole
	}

	if acting.UserID == userID {
		return nil, ErrSelfRoleChange
	}

	user, err := uc.repository.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if err := uc.repository.UpdateRole(ctx, userID, role); err != nil {
		return nil, err
	}

	user.Role = role
	uc.log.Infof("✅ User %s role updated to %s", user.Username, role)
	return user, nil
}
