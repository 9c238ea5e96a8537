package models

import "time"

type OperatorStatus int

const (
	OperatorStatusInactive OperatorStatus = 0
	OperatorStatusActive   OperatorStatus = 1
)

// Operator is a login within a company ("operador"). The login handle doubles
// as the address the verification code is mailed to.
type Operator struct {
	ID                int64          `json:"id"`
	Login             string         `json:"operador_id"`
	SecretHash        []byte         `json:"-"`
	TaxID             string         `json:"rut"`
	FirstNames        string         `json:"nombres"`
	LastNameP         string         `json:"apellido_paterno"`
	LastNameM         string         `json:"apellido_materno"`
	Modifiable        string         `json:"modificable"`
	Email             string         `json:"email"`
	Status            OperatorStatus `json:"estado"`
	WebAccess         bool           `json:"acceso_web"`
	Admin             bool           `json:"operador_administrador"`
	SuperAdmin        bool           `json:"superadmin"`
	FailedConnections int            `json:"conexion_fallida"`
	GroupID           *int64         `json:"grupo"`
	CompanyID         *int64         `json:"empresa"`
	CreatedAt         time.Time      `json:"fecha_creacion"`
}

type OperatorGroup struct {
	ID          int64  `json:"id"`
	Name        string `json:"nombre"`
	Description string `json:"descripcion"`
	CompanyID   *int64 `json:"empresa"`
}

type OperatorWarehouse struct {
	ID          int64 `json:"id"`
	OperatorID  int64 `json:"operador"`
	WarehouseID int64 `json:"bodega"`
}

type OperatorPointOfSale struct {
	ID            int64 `json:"id"`
	OperatorID    int64 `json:"operador"`
	PointOfSaleID int64 `json:"punto_venta"`
}

// OperatorModule grants a company-module link to an operator. Not exposed as
// CRUD; read by the entitlement join.
type OperatorModule struct {
	ID              int64 `json:"id"`
	OperatorID      int64 `json:"operador"`
	CompanyModuleID int64 `json:"empresa_modulo"`
}
