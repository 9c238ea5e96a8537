package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"backoffice/api/internal/config"
	"backoffice/api/internal/models"
	"backoffice/api/internal/repository"
	"backoffice/api/internal/security"
)

const (
	SessionCookieName  = "token"
	ContextOperatorKey = "current_operator"
	ContextTokenKey    = "session_token"
)

// SessionAuth guards the administrative CRUD surface: the request must carry
// the session cookie, the token must verify, and the token must still match
// a live active-session row.
func SessionAuth(cfg *config.AppConfig, operators *repository.OperatorRepository, sessions *repository.SessionRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := c.Cookie(SessionCookieName)
		if err != nil || token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "No se encontró la cookie 'token' en la solicitud."})
			return
		}

		claims, err := security.ParseSessionToken(token, cfg.Security.TokenSecret)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Token inválido."})
			return
		}

		session, err := sessions.FindActiveByToken(c.Request.Context(), token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "El token no coincide con ninguna sesión activa."})
			return
		}

		if session.OperatorLogin != claims.Login {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "El token no coincide con ninguna sesión activa."})
			return
		}

		op, err := operators.FindByLogin(c.Request.Context(), claims.Login)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "No se encontró el operador."})
			return
		}

		c.Set(ContextTokenKey, token)
		c.Set(ContextOperatorKey, op)

		c.Next()
	}
}

// RequireAdmin restricts a route group to administrator operators.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		opVal, exists := c.Get(ContextOperatorKey)
		if !exists {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}
		op, ok := opVal.(models.Operator)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}

		if !op.Admin && !op.SuperAdmin {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "forbidden"})
			return
		}

		c.Next()
	}
}
