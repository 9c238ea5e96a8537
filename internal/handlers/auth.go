package handlers

import (
	"errors"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"backoffice/api/internal/middleware"
	"backoffice/api/internal/models"
	"backoffice/api/internal/service"
)

type validateRequest struct {
	Login  string `json:"operador_id"`
	Secret string `json:"clear"`
}

// operatorProfile is the payload shape the UI expects after verification.
// The failed-attempt counter and row id stay out of it.
type operatorProfile struct {
	Login      string                `json:"operador_id"`
	TaxID      string                `json:"rut"`
	FirstNames string                `json:"nombres"`
	LastNameP  string                `json:"apellido_paterno"`
	LastNameM  string                `json:"apellido_materno"`
	Modifiable string                `json:"modificable"`
	Email      string                `json:"email"`
	Status     models.OperatorStatus `json:"estado"`
	WebAccess  bool                  `json:"acceso_web"`
	Admin      bool                  `json:"operador_administrador"`
	GroupID    *int64                `json:"grupo"`
	CompanyID  *int64                `json:"empresa"`
	SuperAdmin bool                  `json:"superadmin"`
	CreatedAt  time.Time             `json:"fecha_creacion"`
}

func newOperatorProfile(op models.Operator) operatorProfile {
	return operatorProfile{
		Login:      op.Login,
		TaxID:      op.TaxID,
		FirstNames: op.FirstNames,
		LastNameP:  op.LastNameP,
		LastNameM:  op.LastNameM,
		Modifiable: op.Modifiable,
		Email:      op.Email,
		Status:     op.Status,
		WebAccess:  op.WebAccess,
		Admin:      op.Admin,
		GroupID:    op.GroupID,
		CompanyID:  op.CompanyID,
		SuperAdmin: op.SuperAdmin,
		CreatedAt:  op.CreatedAt,
	}
}

// requestIP prefers the direct connection address and falls back to the
// first X-Forwarded-For entry.
func requestIP(c *gin.Context) string {
	addr := c.Request.RemoteAddr
	if host, _, err := net.SplitHostPort(addr); err == nil {
		addr = host
	}
	if addr == "" {
		addr = c.GetHeader("X-Forwarded-For")
		if i := strings.Index(addr, ","); i >= 0 {
			addr = addr[:i]
		}
		addr = strings.TrimSpace(addr)
	}
	return addr
}

func (h HandlerSet) Validate(c *gin.Context) {
	var req validateRequest
	_ = c.ShouldBindJSON(&req)
	if req.Login == "" || req.Secret == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Se requieren 'operador_id' y 'clear'"})
		return
	}

	login, err := h.authService.Validate(c.Request.Context(), service.ValidateInput{
		Login:  req.Login,
		Secret: req.Secret,
		IP:     requestIP(c),
	})
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			c.JSON(http.StatusNotFound, gin.H{"error": "No existe un operador con esos datos"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"operador_id": login})
}

type verifyRequest struct {
	Login string `json:"operador_id"`
	Code  string `json:"cod_verificacion"`
}

func (h HandlerSet) Verify(c *gin.Context) {
	var req verifyRequest
	_ = c.ShouldBindJSON(&req)
	if req.Login == "" || req.Code == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Se requieren 'operador_id' y 'cod_verificacion'"})
		return
	}

	result, err := h.authService.Verify(c.Request.Context(), service.VerifyInput{
		Login: req.Login,
		Code:  req.Code,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrNoActiveSession):
			c.JSON(http.StatusNotFound, gin.H{"error": "No se encontró ninguna sesión activa para este operador."})
		case errors.Is(err, service.ErrCodeMismatch), errors.Is(err, service.ErrTooManyAttempts):
			c.JSON(http.StatusBadRequest, gin.H{"error": "El código de verificación no coincide con la sesión activa más reciente."})
		case errors.Is(err, service.ErrOperatorNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "No se encontró el operador."})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
		return
	}

	h.setSessionCookie(c, result.Token)
	c.JSON(http.StatusOK, gin.H{
		"message":  "Verificación exitosa.",
		"operador": newOperatorProfile(result.Operator),
		"modulos":  result.Entitlements,
	})
}

func (h HandlerSet) Logout(c *gin.Context) {
	token, err := c.Cookie(middleware.SessionCookieName)
	if err != nil || token == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "No se encontró la cookie 'token' en la solicitud."})
		return
	}

	if err := h.authService.Logout(c.Request.Context(), token); err != nil {
		if errors.Is(err, service.ErrActiveSessionNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "El token de la cookie no coincide con ninguna sesión activa."})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	h.clearSessionCookie(c)
	c.JSON(http.StatusOK, gin.H{"message": "Sesión eliminada correctamente."})
}

func (h HandlerSet) SessionByCookie(c *gin.Context) {
	token, err := c.Cookie(middleware.SessionCookieName)
	if err != nil || token == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "No se encontró la cookie 'token' en la solicitud."})
		return
	}

	info, err := h.authService.SessionByToken(c.Request.Context(), token)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrActiveSessionNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "El token en la cookie no coincide con ninguna sesión activa."})
		case errors.Is(err, service.ErrOperatorNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "No se encontró el operador relacionado a esta sesión activa."})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"sesion_activa": info.Session,
		"operador_data": info.Operator,
		"modulos":       info.Entitlements,
	})
}

func (h HandlerSet) SessionByTokenParam(c *gin.Context) {
	token := c.Param("token")

	info, err := h.authService.SessionByToken(c.Request.Context(), token)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrActiveSessionNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "El token no coincide con ninguna sesión activa."})
		case errors.Is(err, service.ErrOperatorNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "No se encontró el operador relacionado a esta sesión activa."})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"sesion_activa": info.Session,
		"operador_data": info.Operator,
		"modulos":       info.Entitlements,
	})
}

func (h HandlerSet) DeleteSessionByTokenParam(c *gin.Context) {
	token := c.Param("token")

	if err := h.authService.Logout(c.Request.Context(), token); err != nil {
		if errors.Is(err, service.ErrActiveSessionNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "El token no coincide con ninguna sesión activa."})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.Status(http.StatusNoContent)
}

func (h HandlerSet) setSessionCookie(c *gin.Context, token string) {
	c.SetSameSite(http.SameSiteNoneMode)
	c.SetCookie(middleware.SessionCookieName, token, int(h.cfg.Security.TokenTTL.Seconds()), "/", "", true, true)
}

func (h HandlerSet) clearSessionCookie(c *gin.Context) {
	c.SetSameSite(http.SameSiteNoneMode)
	c.SetCookie(middleware.SessionCookieName, "", -1, "/", "", true, true)
}
