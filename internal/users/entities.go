package users

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/matheusmosca/bookstore-api/internal/auth"
)

var (
	// ErrUserNotFound indica que o usuário não existe
	ErrUserNotFound = errors.New("user not found")
	// ErrUserAlreadyExists indica username já cadastrado
	ErrUserAlreadyExists = errors.New("user already exists")
	// ErrInvalidPassword indica senha incorreta no login
	ErrInvalidPassword = errors.New("invalid password")
	// ErrNotAdmin indica login administrativo de quem não é admin
	ErrNotAdmin = errors.New("user is not an admin")
	// ErrInvalidRole indica papel fora do conjunto user|admin
	ErrInvalidRole = errors.New("invalid role")
	// ErrSelfRoleChange indica admin tentando alterar o próprio papel
	ErrSelfRoleChange = errors.New("cannot change own role")
	// ErrForbidden indica acesso a perfil de outro usuário sem ser admin
	ErrForbidden = errors.New("forbidden profile access")
)

// Profile é o sub-documento opcional de perfil de um usuário
type Profile struct {
	Name    string `json:"name"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
}

// User representa um usuário do sistema
type User struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"`
	Role         string    `json:"role"`
	Profile      Profile   `json:"profile"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// NewUser cria um usuário comum com a senha já com hash
func NewUser(username, password string) (*User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	return &User{
		ID:           uuid.New().String(),
		Username:     username,
		PasswordHash: string(hash),
		Role:         auth.RoleUser,
		CreatedAt:    now,
		UpdatedAt:    now,
	}, nil
}

// CheckPassword compara a senha com o hash armazenado
func (u *User) CheckPassword(password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) == nil
}

// Claims devolve a identidade do usuário para emissão de credencial
func (u *User) Claims() auth.Claims {
	return auth.Claims{
		UserID:   u.ID,
		Username: u.Username,
		Role:     u.Role,
	}
}

// ValidRole indica se o papel pertence ao conjunto reconhecido
func ValidRole(role string) bool {
	return role == auth.RoleUser || role == auth.RoleAdmin
}

// CredentialsRequest representa registro e login
type CredentialsRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// AuthResponse é a resposta de registro/login com a credencial emitida
type AuthResponse struct {
	Message string   `json:"message"`
	Token   string   `json:"token"`
	User    UserInfo `json:"user"`
}

// UserInfo é a projeção pública de um usuário em respostas de autenticação
type UserInfo struct {
	Username string `json:"username"`
	Role     string `json:"role"`
}
