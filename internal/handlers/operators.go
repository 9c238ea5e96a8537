package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"backoffice/api/internal/models"
	"backoffice/api/internal/repository"
	"backoffice/api/internal/security"
)

type operatorRequest struct {
	Login      string `json:"operador_id" binding:"required"`
	Secret     string `json:"clear"`
	TaxID      string `json:"rut"`
	FirstNames string `json:"nombres"`
	LastNameP  string `json:"apellido_paterno"`
	LastNameM  string `json:"apellido_materno"`
	Modifiable string `json:"modificable"`
	Email      string `json:"email"`
	Status     int    `json:"estado"`
	WebAccess  bool   `json:"acceso_web"`
	Admin      bool   `json:"operador_administrador"`
	SuperAdmin bool   `json:"superadmin"`
	GroupID    *int64 `json:"grupo"`
	CompanyID  *int64 `json:"empresa"`
}

func (r operatorRequest) toModel() models.Operator {
	modifiable := r.Modifiable
	if modifiable == "" {
		modifiable = "SI"
	}
	return models.Operator{
		Login:      r.Login,
		TaxID:      r.TaxID,
		FirstNames: r.FirstNames,
		LastNameP:  r.LastNameP,
		LastNameM:  r.LastNameM,
		Modifiable: modifiable,
		Email:      r.Email,
		Status:     models.OperatorStatus(r.Status),
		WebAccess:  r.WebAccess,
		Admin:      r.Admin,
		SuperAdmin: r.SuperAdmin,
		GroupID:    r.GroupID,
		CompanyID:  r.CompanyID,
	}
}

func (h HandlerSet) ListOperators(c *gin.Context) {
	limit, offset := listParams(c)
	operators, err := h.operators.List(c.Request.Context(), limit, offset)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if operators == nil {
		operators = []models.Operator{}
	}
	c.JSON(http.StatusOK, operators)
}

func (h HandlerSet) GetOperator(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	op, err := h.operators.GetByID(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrOperatorNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "No se encontró el operador."})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, op)
}

func (h HandlerSet) CreateOperator(c *gin.Context) {
	var req operatorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.Secret == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Se requiere 'clear'"})
		return
	}

	// The secret is hashed before it touches the database; the cleartext
	// never leaves this handler.
	hash, err := security.HashSecret(req.Secret)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	op := req.toModel()
	op.SecretHash = hash

	created, err := h.operators.Create(c.Request.Context(), op)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, created)
}

func (h HandlerSet) UpdateOperator(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req operatorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	op := req.toModel()
	op.ID = id

	if err := h.operators.Update(c.Request.Context(), op); err != nil {
		if errors.Is(err, repository.ErrOperatorNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "No se encontró el operador."})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	if req.Secret != "" {
		hash, err := security.HashSecret(req.Secret)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		if err := h.operators.UpdateSecretHash(c.Request.Context(), id, hash); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
	}

	updated, err := h.operators.GetByID(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, updated)
}

func (h HandlerSet) DeleteOperator(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := h.operators.Delete(c.Request.Context(), id); err != nil {
		if errors.Is(err, repository.ErrOperatorNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "No se encontró el operador."})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.Status(http.StatusNoContent)
}

type operatorGroupRequest struct {
	Name        string `json:"nombre" binding:"required"`
	Description string `json:"descripcion"`
	CompanyID   *int64 `json:"empresa"`
}

func (h HandlerSet) ListOperatorGroups(c *gin.Context) {
	limit, offset := listParams(c)
	groups, err := h.groups.List(c.Request.Context(), limit, offset)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if groups == nil {
		groups = []models.OperatorGroup{}
	}
	c.JSON(http.StatusOK, groups)
}

func (h HandlerSet) GetOperatorGroup(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	group, err := h.groups.GetByID(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrOperatorGroupNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "No se encontró el grupo."})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, group)
}

func (h HandlerSet) CreateOperatorGroup(c *gin.Context) {
	var req operatorGroupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	group, err := h.groups.Create(c.Request.Context(), models.OperatorGroup{
		Name:        req.Name,
		Description: req.Description,
		CompanyID:   req.CompanyID,
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, group)
}

func (h HandlerSet) UpdateOperatorGroup(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req operatorGroupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	err := h.groups.Update(c.Request.Context(), models.OperatorGroup{
		ID:          id,
		Name:        req.Name,
		Description: req.Description,
		CompanyID:   req.CompanyID,
	})
	if err != nil {
		if errors.Is(err, repository.ErrOperatorGroupNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "No se encontró el grupo."})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	group, err := h.groups.GetByID(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, group)
}

func (h HandlerSet) DeleteOperatorGroup(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := h.groups.Delete(c.Request.Context(), id); err != nil {
		if errors.Is(err, repository.ErrOperatorGroupNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "No se encontró el grupo."})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.Status(http.StatusNoContent)
}

type operatorWarehouseRequest struct {
	OperatorID  int64 `json:"operador" binding:"required"`
	WarehouseID int64 `json:"bodega" binding:"required"`
}

func (h HandlerSet) ListOperatorWarehouses(c *gin.Context) {
	limit, offset := listParams(c)
	links, err := h.warehouses.List(c.Request.Context(), limit, offset)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if links == nil {
		links = []models.OperatorWarehouse{}
	}
	c.JSON(http.StatusOK, links)
}

func (h HandlerSet) GetOperatorWarehouse(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	link, err := h.warehouses.GetByID(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrOperatorWarehouseNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "No se encontró la bodega del operador."})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, link)
}

func (h HandlerSet) CreateOperatorWarehouse(c *gin.Context) {
	var req operatorWarehouseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	link, err := h.warehouses.Create(c.Request.Context(), models.OperatorWarehouse{
		OperatorID:  req.OperatorID,
		WarehouseID: req.WarehouseID,
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, link)
}

func (h HandlerSet) DeleteOperatorWarehouse(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := h.warehouses.Delete(c.Request.Context(), id); err != nil {
		if errors.Is(err, repository.ErrOperatorWarehouseNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "No se encontró la bodega del operador."})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.Status(http.StatusNoContent)
}

type operatorPointOfSaleRequest struct {
	OperatorID    int64 `json:"operador" binding:"required"`
	PointOfSaleID int64 `json:"punto_venta" binding:"required"`
}

func (h HandlerSet) ListOperatorPointsOfSale(c *gin.Context) {
	limit, offset := listParams(c)
	links, err := h.pointsOfSale.List(c.Request.Context(), limit, offset)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if links == nil {
		links = []models.OperatorPointOfSale{}
	}
	c.JSON(http.StatusOK, links)
}

func (h HandlerSet) GetOperatorPointOfSale(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	link, err := h.pointsOfSale.GetByID(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrOperatorPointOfSaleNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "No se encontró el punto de venta del operador."})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, link)
}

func (h HandlerSet) CreateOperatorPointOfSale(c *gin.Context) {
	var req operatorPointOfSaleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	link, err := h.pointsOfSale.Create(c.Request.Context(), models.OperatorPointOfSale{
		OperatorID:    req.OperatorID,
		PointOfSaleID: req.PointOfSaleID,
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, link)
}

func (h HandlerSet) DeleteOperatorPointOfSale(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := h.pointsOfSale.Delete(c.Request.Context(), id); err != nil {
		if errors.Is(err, repository.ErrOperatorPointOfSaleNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "No se encontró el punto de venta del operador."})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.Status(http.StatusNoContent)
}
