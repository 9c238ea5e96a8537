package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"backoffice/api/internal/models"
	"backoffice/api/internal/repository"
)

type moduleRequest struct {
	Code     string  `json:"modulo" binding:"required"`
	Name     string  `json:"nombre" binding:"required"`
	MenuName *string `json:"nombre_menu"`
	Status   *int    `json:"estado"`
	Icon     *string `json:"icon"`
	Order    *int    `json:"orden"`
}

func (h HandlerSet) ListModules(c *gin.Context) {
	limit, offset := listParams(c)
	modules, err := h.modules.List(c.Request.Context(), limit, offset)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if modules == nil {
		modules = []models.Module{}
	}
	c.JSON(http.StatusOK, modules)
}

func (h HandlerSet) GetModule(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	module, err := h.modules.GetByID(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrModuleNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "No se encontró el módulo."})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, module)
}

func (h HandlerSet) CreateModule(c *gin.Context) {
	var req moduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	module, err := h.modules.Create(c.Request.Context(), models.Module{
		Code:     req.Code,
		Name:     req.Name,
		MenuName: req.MenuName,
		Status:   req.Status,
		Icon:     req.Icon,
		Order:    req.Order,
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, module)
}

func (h HandlerSet) UpdateModule(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req moduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	err := h.modules.Update(c.Request.Context(), models.Module{
		ID:       id,
		Code:     req.Code,
		Name:     req.Name,
		MenuName: req.MenuName,
		Status:   req.Status,
		Icon:     req.Icon,
		Order:    req.Order,
	})
	if err != nil {
		if errors.Is(err, repository.ErrModuleNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "No se encontró el módulo."})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	module, err := h.modules.GetByID(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, module)
}

func (h HandlerSet) DeleteModule(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := h.modules.Delete(c.Request.Context(), id); err != nil {
		if errors.Is(err, repository.ErrModuleNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "No se encontró el módulo."})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.Status(http.StatusNoContent)
}

type menuRequest struct {
	URL         string  `json:"url" binding:"required"`
	Text        string  `json:"texto"`
	Label       *string `json:"etiqueta"`
	Description string  `json:"descripcion"`
	Level       int     `json:"nivel_menu"`
	Order       *int    `json:"orden"`
	Modifiable  string  `json:"modificable"`
	SeparatorUp int     `json:"separador_up"`
	ModuleID    *int64  `json:"modulo"`
}

func (r menuRequest) toModel() models.Menu {
	modifiable := r.Modifiable
	if modifiable == "" {
		modifiable = "SI"
	}
	level := r.Level
	if level == 0 {
		level = 3
	}
	return models.Menu{
		URL:         r.URL,
		Text:        r.Text,
		Label:       r.Label,
		Description: r.Description,
		Level:       level,
		Order:       r.Order,
		Modifiable:  modifiable,
		SeparatorUp: r.SeparatorUp,
		ModuleID:    r.ModuleID,
	}
}

func (h HandlerSet) ListMenus(c *gin.Context) {
	limit, offset := listParams(c)
	menus, err := h.menus.List(c.Request.Context(), limit, offset)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if menus == nil {
		menus = []models.Menu{}
	}
	c.JSON(http.StatusOK, menus)
}

func (h HandlerSet) GetMenu(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	menu, err := h.menus.GetByID(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrMenuNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "No se encontró el menú."})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, menu)
}

func (h HandlerSet) CreateMenu(c *gin.Context) {
	var req menuRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	menu, err := h.menus.Create(c.Request.Context(), req.toModel())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, menu)
}

func (h HandlerSet) UpdateMenu(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req menuRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	menu := req.toModel()
	menu.ID = id
	if err := h.menus.Update(c.Request.Context(), menu); err != nil {
		if errors.Is(err, repository.ErrMenuNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "No se encontró el menú."})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	updated, err := h.menus.GetByID(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, updated)
}

func (h HandlerSet) DeleteMenu(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := h.menus.Delete(c.Request.Context(), id); err != nil {
		if errors.Is(err, repository.ErrMenuNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "No se encontró el menú."})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.Status(http.StatusNoContent)
}

type companyModuleRequest struct {
	CompanyID int64 `json:"empresa" binding:"required"`
	ModuleID  int64 `json:"modulo" binding:"required"`
	Status    int   `json:"estado"`
}

func (h HandlerSet) ListCompanyModules(c *gin.Context) {
	limit, offset := listParams(c)
	links, err := h.companyModules.List(c.Request.Context(), limit, offset)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if links == nil {
		links = []models.CompanyModule{}
	}
	c.JSON(http.StatusOK, links)
}

func (h HandlerSet) GetCompanyModule(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	link, err := h.companyModules.GetByID(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrCompanyModuleNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "No se encontró el módulo de la empresa."})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, link)
}

func (h HandlerSet) CreateCompanyModule(c *gin.Context) {
	var req companyModuleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	status := req.Status
	if status == 0 {
		status = 1
	}
	link, err := h.companyModules.Create(c.Request.Context(), models.CompanyModule{
		CompanyID: req.CompanyID,
		ModuleID:  req.ModuleID,
		Status:    status,
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, link)
}

func (h HandlerSet) UpdateCompanyModule(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req companyModuleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	err := h.companyModules.Update(c.Request.Context(), models.CompanyModule{
		ID:        id,
		CompanyID: req.CompanyID,
		ModuleID:  req.ModuleID,
		Status:    req.Status,
	})
	if err != nil {
		if errors.Is(err, repository.ErrCompanyModuleNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "No se encontró el módulo de la empresa."})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	link, err := h.companyModules.GetByID(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, link)
}

func (h HandlerSet) DeleteCompanyModule(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := h.companyModules.Delete(c.Request.Context(), id); err != nil {
		if errors.Is(err, repository.ErrCompanyModuleNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "No se encontró el módulo de la empresa."})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.Status(http.StatusNoContent)
}

type companyModuleMenuRequest struct {
	CompanyModuleID int64 `json:"empresa_modulo" binding:"required"`
	MenuID          int64 `json:"menu" binding:"required"`
}

func (h HandlerSet) ListCompanyModuleMenus(c *gin.Context) {
	limit, offset := listParams(c)
	links, err := h.companyModuleMenus.List(c.Request.Context(), limit, offset)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if links == nil {
		links = []models.CompanyModuleMenu{}
	}
	c.JSON(http.StatusOK, links)
}

func (h HandlerSet) GetCompanyModuleMenu(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	link, err := h.companyModuleMenus.GetByID(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrCompanyModuleMenuNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "No se encontró el menú del módulo."})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, link)
}

func (h HandlerSet) CreateCompanyModuleMenu(c *gin.Context) {
	var req companyModuleMenuRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	link, err := h.companyModuleMenus.Create(c.Request.Context(), models.CompanyModuleMenu{
		CompanyModuleID: req.CompanyModuleID,
		MenuID:          req.MenuID,
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, link)
}

func (h HandlerSet) DeleteCompanyModuleMenu(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := h.companyModuleMenus.Delete(c.Request.Context(), id); err != nil {
		if errors.Is(err, repository.ErrCompanyModuleMenuNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "No se encontró el menú del módulo."})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.Status(http.StatusNoContent)
}
