package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"backoffice/api/internal/models"
)

// EntitlementRepository resolves which modules an operator may reach inside a
// company: grant -> company-module link -> module, both sides active.
type EntitlementRepository struct {
	pool *pgxpool.Pool
}

func NewEntitlementRepository(pool *pgxpool.Pool) *EntitlementRepository {
	return &EntitlementRepository{pool: pool}
}

func (r *EntitlementRepository) ListForOperator(ctx context.Context, operatorID int64, companyID int64) ([]models.Entitlement, error) {
	const query = `
		SELECT c.nombre_menu, b.id, c.icon
		FROM dm_sistema.operador_empresa_modulos AS a
		JOIN dm_sistema.empresa_modulos AS b ON a.empresa_modulo_id = b.id
		JOIN dm_sistema.modulos AS c ON b.modulo_id = c.id
		WHERE a.operador_id = $1
		  AND b.estado = 1
		  AND c.estado = 1
		  AND b.empresa_id = $2
		ORDER BY c.orden
	`
	rows, err := r.pool.Query(ctx, query, operatorID, companyID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	entitlements := make([]models.Entitlement, 0)
	for rows.Next() {
		var ent models.Entitlement
		var menuName *string
		if err := rows.Scan(&menuName, &ent.CompanyModuleID, &ent.Icon); err != nil {
			return nil, err
		}
		if menuName != nil {
			ent.MenuName = *menuName
		}
		entitlements = append(entitlements, ent)
	}
	return entitlements, rows.Err()
}
