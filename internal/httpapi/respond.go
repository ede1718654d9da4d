package httpapi

import (
	"github.com/gin-gonic/gin"
)

// Error escreve a resposta de erro padrão da API. Detalhes internos só
// aparecem em modo de desenvolvimento.
func Error(c *gin.Context, status int, message string, err error, dev bool) {
	body := gin.H{"message": message}
	if dev && err != nil {
		body["error"] = err.Error()
	}
	c.JSON(status, body)
}
