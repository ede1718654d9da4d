package auth

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

const claimsKey = "authClaims"

func bearerToken(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return parts[1]
}

// RequireAuth aceita credenciais de qualquer namespace (usuário ou admin)
// e armazena a identidade verificada no contexto da requisição
func RequireAuth(user, admin *TokenIssuer) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c)
		if token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Access Denied. No token provided"})
			return
		}

		claims, err := user.Verify(token)
		if err != nil {
			claims, err = admin.Verify(token)
		}
		if err != nil {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"message": "Invalid credentials"})
			return
		}

		c.Set(claimsKey, claims)
		c.Next()
	}
}

// OptionalAuth anexa a identidade quando um token válido acompanha a
// requisição, mas nunca a rejeita. Usado na criação de pedidos, que é
// pública mas aproveita a identidade verificada quando ela existe.
func OptionalAuth(user, admin *TokenIssuer) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c)
		if token == "" {
			c.Next()
			return
		}

		claims, err := user.Verify(token)
		if err != nil {
			claims, err = admin.Verify(token)
		}
		if err == nil {
			c.Set(claimsKey, claims)
		}
		c.Next()
	}
}

// RequireAdmin aceita apenas credenciais do namespace administrativo
// emitidas para usuários com papel admin
func RequireAdmin(admin *TokenIssuer) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c)
		if token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Access Denied. No token provided"})
			return
		}

		claims, err := admin.Verify(token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"message": "Invalid credentials"})
			return
		}

		if !claims.IsAdmin() {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"message": "Access forbidden: Not an admin user"})
			return
		}

		c.Set(claimsKey, claims)
		c.Next()
	}
}

// CurrentUser devolve a identidade verificada da requisição, se houver
func CurrentUser(c *gin.Context) (Claims, bool) {
	value, ok := c.Get(claimsKey)
	if !ok {
		return Claims{}, false
	}
	claims, ok := value.(Claims)
	return claims, ok
}
