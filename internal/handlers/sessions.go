package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"backoffice/api/internal/models"
	"backoffice/api/internal/repository"
)

func (h HandlerSet) ListLoginAudits(c *gin.Context) {
	limit, offset := listParams(c)
	audits, err := h.sessions.ListAudits(c.Request.Context(), limit, offset)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if audits == nil {
		audits = []models.LoginAudit{}
	}
	c.JSON(http.StatusOK, audits)
}

func (h HandlerSet) GetLoginAudit(c *gin.Context) {
	id := c.Param("id")
	audit, err := h.sessions.GetAuditByID(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrLoginAuditNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "No se encontró la sesión."})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, audit)
}

func (h HandlerSet) ListActiveSessions(c *gin.Context) {
	limit, offset := listParams(c)
	sessions, err := h.sessions.ListActive(c.Request.Context(), limit, offset)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if sessions == nil {
		sessions = []models.ActiveSession{}
	}
	c.JSON(http.StatusOK, sessions)
}

func (h HandlerSet) GetActiveSession(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	session, err := h.sessions.GetActiveByID(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrActiveSessionNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "No se encontró la sesión activa."})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, session)
}

func (h HandlerSet) DeleteActiveSession(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := h.sessions.DeleteActiveByID(c.Request.Context(), id); err != nil {
		if errors.Is(err, repository.ErrActiveSessionNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "No se encontró la sesión activa."})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.Status(http.StatusNoContent)
}
