package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"backoffice/api/internal/models"
	"backoffice/api/internal/repository"
)

type companyRequest struct {
	Name   string `json:"nombre" binding:"required"`
	TaxID  string `json:"rut"`
	Status int    `json:"estado"`
}

func (h HandlerSet) ListCompanies(c *gin.Context) {
	limit, offset := listParams(c)
	companies, err := h.companies.List(c.Request.Context(), limit, offset)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if companies == nil {
		companies = []models.Company{}
	}
	c.JSON(http.StatusOK, companies)
}

func (h HandlerSet) GetCompany(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	company, err := h.companies.GetByID(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrCompanyNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "No se encontró la empresa."})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, company)
}

func (h HandlerSet) CreateCompany(c *gin.Context) {
	var req companyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	company, err := h.companies.Create(c.Request.Context(), models.Company{
		Name:   req.Name,
		TaxID:  req.TaxID,
		Status: req.Status,
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, company)
}

func (h HandlerSet) UpdateCompany(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req companyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	err := h.companies.Update(c.Request.Context(), models.Company{
		ID:     id,
		Name:   req.Name,
		TaxID:  req.TaxID,
		Status: req.Status,
	})
	if err != nil {
		if errors.Is(err, repository.ErrCompanyNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "No se encontró la empresa."})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	company, err := h.companies.GetByID(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, company)
}

func (h HandlerSet) DeleteCompany(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := h.companies.Delete(c.Request.Context(), id); err != nil {
		if errors.Is(err, repository.ErrCompanyNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "No se encontró la empresa."})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.Status(http.StatusNoContent)
}
