package models

import "time"

// Company is a tenant ("empresa"); it owns operators and module entitlements.
type Company struct {
	ID        int64     `json:"id"`
	Name      string    `json:"nombre"`
	TaxID     string    `json:"rut"`
	Status    int       `json:"estado"`
	CreatedAt time.Time `json:"fecha_creacion"`
}
