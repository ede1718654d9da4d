package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Papéis reconhecidos pelo sistema
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

var (
	// ErrInvalidToken indica token ausente, expirado ou assinado em outro namespace
	ErrInvalidToken = errors.New("invalid credentials")
)

// Claims representa a identidade verificada extraída de um token
type Claims struct {
	UserID   string
	Username string
	Role     string
}

// IsAdmin indica se a identidade possui papel administrativo
func (c Claims) IsAdmin() bool {
	return c.Role == RoleAdmin
}

type tokenClaims struct {
	Username string `json:"username"`
	Role     string `json:"role"`
	jwt.RegisteredClaims
}

// TokenIssuer emite e verifica credenciais de um único namespace.
// Instâncias distintas (usuário e admin) carregam segredos distintos,
// então um token de um namespace nunca valida no outro.
type TokenIssuer struct {
	secret   []byte
	audience string
	ttl      time.Duration
}

// NewTokenIssuer cria um emissor de tokens para o namespace informado
func NewTokenIssuer(secret, audience string, ttl time.Duration) *TokenIssuer {
	return &TokenIssuer{
		secret:   []byte(secret),
		audience: audience,
		ttl:      ttl,
	}
}

// Issue emite um token assinado com validade limitada
func (i *TokenIssuer) Issue(claims Claims) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, tokenClaims{
		Username: claims.Username,
		Role:     claims.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   claims.UserID,
			Audience:  jwt.ClaimStrings{i.audience},
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(i.ttl)),
		},
	})

	signed, err := token.SignedString(i.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// Verify valida o token e devolve a identidade embutida nele
func (i *TokenIssuer) Verify(tokenString string) (Claims, error) {
	var parsed tokenClaims
	token, err := jwt.ParseWithClaims(tokenString, &parsed, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return i.secret, nil
	}, jwt.WithAudience(i.audience))
	if err != nil || !token.Valid {
		return Claims{}, ErrInvalidToken
	}

	return Claims{
		UserID:   parsed.Subject,
		Username: parsed.Username,
		Role:     parsed.Role,
	}, nil
}
