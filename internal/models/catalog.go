package models

// Module is a functional area a company can enable ("modulos").
type Module struct {
	ID       int64   `json:"id"`
	Code     string  `json:"modulo"`
	Name     string  `json:"nombre"`
	MenuName *string `json:"nombre_menu"`
	Status   *int    `json:"estado"`
	Icon     *string `json:"icon"`
	Order    *int    `json:"orden"`
}

// Menu is a navigation entry, optionally under a module ("menus").
type Menu struct {
	ID          int64   `json:"id"`
	URL         string  `json:"url"`
	Text        string  `json:"texto"`
	Label       *string `json:"etiqueta"`
	Description string  `json:"descripcion"`
	Level       int     `json:"nivel_menu"`
	Order       *int    `json:"orden"`
	Modifiable  string  `json:"modificable"`
	SeparatorUp int     `json:"separador_up"`
	ModuleID    *int64  `json:"modulo"`
}

// CompanyModule links a company to a module with its own status
// ("empresa_modulos").
type CompanyModule struct {
	ID        int64 `json:"id"`
	CompanyID int64 `json:"empresa"`
	ModuleID  int64 `json:"modulo"`
	Status    int   `json:"estado"`
}

type CompanyModuleMenu struct {
	ID              int64 `json:"id"`
	CompanyModuleID int64 `json:"empresa_modulo"`
	MenuID          int64 `json:"menu"`
}

// Entitlement is one row of the operator-module entitlement join: the menu
// display name and icon of an enabled module plus the company-module link id.
type Entitlement struct {
	MenuName        string  `json:"nombre_menu"`
	CompanyModuleID int64   `json:"id"`
	Icon            *string `json:"icon"`
}
