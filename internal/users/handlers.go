package users

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/matheusmosca/bookstore-api/internal/auth"
	"github.com/matheusmosca/bookstore-api/internal/httpapi"
)

// UserUseCaseInterface define a interface para o use case de usuários
type UserUseCaseInterface interface {
	Register(ctx context.Context, req CredentialsRequest) (*User, string, error)
	Login(ctx context.Context, req CredentialsRequest) (*User, string, error)
	AdminLogin(ctx context.Context, req CredentialsRequest) (*User, string, error)
	Exists(ctx context.Context, username string) (bool, error)
	GetProfile(ctx context.Context, username string, claims auth.Claims) (Profile, error)
	UpdateProfile(ctx context.Context, username string, profile Profile, claims auth.Claims) (Profile, error)
	ListAll(ctx context.Context) ([]User, error)
	UpdateRole(ctx context.Context, userID, role string, acting auth.Claims) (*User, error)
}

// UserHandler contém os handlers HTTP de identidade e perfis
type UserHandler struct {
	useCase UserUseCaseInterface
	dev     bool
}

// NewUserHandler cria uma nova instância de UserHandler
func NewUserHandler(useCase UserUseCaseInterface, dev bool) *UserHandler {
	return &UserHandler{useCase: useCase, dev: dev}
}

// Register cadastra um novo usuário
func (h *UserHandler) Register(c *gin.Context) {
	var req CredentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpapi.Error(c, http.StatusBadRequest, err.Error(), err, h.dev)
		return
	}

	user, token, err := h.useCase.Register(c.Request.Context(), req)
	if errors.Is(err, ErrUserAlreadyExists) {
		httpapi.Error(c, http.StatusBadRequest, "User already exists!", err, h.dev)
		return
	}
	if err != nil {
		httpapi.Error(c, http.StatusInternalServerError, "Failed to register user", err, h.dev)
		return
	}

	c.JSON(http.StatusCreated, AuthResponse{
		Message: "User registered successfully",
		Token:   token,
		User:    UserInfo{Username: user.Username, Role: user.Role},
	})
}

// Login autentica um usuário
func (h *UserHandler) Login(c *gin.Context) {
	var req CredentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpapi.Error(c, http.StatusBadRequest, err.Error(), err, h.dev)
		return
	}

	user, token, err := h.useCase.Login(c.Request.Context(), req)
	switch {
	case errors.Is(err, ErrUserNotFound):
		httpapi.Error(c, http.StatusNotFound, "User not found!", err, h.dev)
		return
	case errors.Is(err, ErrInvalidPassword):
		httpapi.Error(c, http.StatusUnauthorized, "Invalid password!", err, h.dev)
		return
	case err != nil:
		httpapi.Error(c, http.StatusInternalServerError, "Failed to login", err, h.dev)
		return
	}

	c.JSON(http.StatusOK, AuthResponse{
		Message: "Login successful",
		Token:   token,
		User:    UserInfo{Username: user.Username, Role: user.Role},
	})
}

// AdminLogin autentica um admin no namespace administrativo
func (h *UserHandler) AdminLogin(c *gin.Context) {
	var req CredentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpapi.Error(c, http.StatusBadRequest, err.Error(), err, h.dev)
		return
	}

	user, token, err := h.useCase.AdminLogin(c.Request.Context(), req)
	switch {
	case errors.Is(err, ErrUserNotFound):
		httpapi.Error(c, http.StatusNotFound, "Admin not found!", err, h.dev)
		return
	case errors.Is(err, ErrInvalidPassword):
		httpapi.Error(c, http.StatusUnauthorized, "Invalid password!", err, h.dev)
		return
	case errors.Is(err, ErrNotAdmin):
		httpapi.Error(c, http.StatusForbidden, "Access denied: User is not an admin", err, h.dev)
		return
	case err != nil:
		httpapi.Error(c, http.StatusInternalServerError, "Failed to login as admin", err, h.dev)
		return
	}

	c.JSON(http.StatusOK, AuthResponse{
		Message: "Authentication successful",
		Token:   token,
		User:    UserInfo{Username: user.Username, Role: user.Role},
	})
}

// CheckEmail verifica se um username já está cadastrado
func (h *UserHandler) CheckEmail(c *gin.Context) {
	var req struct {
		Username string `json:"username" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		httpapi.Error(c, http.StatusBadRequest, err.Error(), err, h.dev)
		return
	}

	exists, err := h.useCase.Exists(c.Request.Context(), req.Username)
	if err != nil {
		httpapi.Error(c, http.StatusInternalServerError, "Failed to check email", err, h.dev)
		return
	}

	c.JSON(http.StatusOK, gin.H{"exists": exists})
}

// GetProfile busca o perfil de um usuário (dono ou admin)
func (h *UserHandler) GetProfile(c *gin.Context) {
	claims, _ := auth.CurrentUser(c)

	profile, err := h.useCase.GetProfile(c.Request.Context(), c.Param("email"), claims)
	switch {
	case errors.Is(err, ErrForbidden):
		httpapi.Error(c, http.StatusForbidden, "Unauthorized access to this profile", err, h.dev)
		return
	case errors.Is(err, ErrUserNotFound):
		httpapi.Error(c, http.StatusNotFound, "User not found!", err, h.dev)
		return
	case err != nil:
		httpapi.Error(c, http.StatusInternalServerError, "Failed to get user profile", err, h.dev)
		return
	}

	c.JSON(http.StatusOK, gin.H{"profile": profile})
}

// UpdateProfile grava o perfil de um usuário (dono ou admin)
func (h *UserHandler) UpdateProfile(c *gin.Context) {
	var req struct {
		Profile Profile `json:"profile"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		httpapi.Error(c, http.StatusBadRequest, err.Error(), err, h.dev)
		return
	}

	claims, _ := auth.CurrentUser(c)

	profile, err := h.useCase.UpdateProfile(c.Request.Context(), c.Param("email"), req.Profile, claims)
	switch {
	case errors.Is(err, ErrForbidden):
		httpapi.Error(c, http.StatusForbidden, "Unauthorized access to this profile", err, h.dev)
		return
	case errors.Is(err, ErrUserNotFound):
		httpapi.Error(c, http.StatusNotFound, "User not found!", err, h.dev)
		return
	case err != nil:
		httpapi.Error(c, http.StatusInternalServerError, "Failed to update user profile", err, h.dev)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Profile updated successfully",
		"profile": profile,
	})
}

// ListAll lista todos os usuários (somente admin); o hash de senha nunca
// é serializado
func (h *UserHandler) ListAll(c *gin.Context) {
	result, err := h.useCase.ListAll(c.Request.Context())
	if err != nil {
		httpapi.Error(c, http.StatusInternalServerError, "Failed to get users", err, h.dev)
		return
	}

	c.JSON(http.StatusOK, result)
}

// UpdateRole altera o papel de um usuário (somente admin)
func (h *UserHandler) UpdateRole(c *gin.Context) {
	var req struct {
		Role string `json:"role" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		httpapi.Error(c, http.StatusBadRequest, err.Error(), err, h.dev)
		return
	}

	claims, _ := auth.CurrentUser(c)

	user, err := h.useCase.UpdateRole(c.Request.Context(), c.Param("userId"), req.Role, claims)
	switch {
	case errors.Is(err, ErrInvalidRole):
		httpapi.Error(c, http.StatusBadRequest, "Invalid role provided", err, h.dev)
		return
	case errors.Is(err, ErrSelfRoleChange):
		httpapi.Error(c, http.StatusForbidden, "You cannot change your own role", err, h.dev)
		return
	case errors.Is(err, ErrUserNotFound):
		httpapi.Error(c, http.StatusNotFound, "User not found", err, h.dev)
		return
	case err != nil:
		httpapi.Error(c, http.StatusInternalServerError, "Failed to update user role", err, h.dev)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "User role updated successfully",
		"user":    UserInfo{Username: user.Username, Role: user.Role},
	})
}
