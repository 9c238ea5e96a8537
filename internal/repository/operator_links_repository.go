package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"backoffice/api/internal/models"
)

var (
	ErrOperatorGroupNotFound       = errors.New("operator group not found")
	ErrOperatorWarehouseNotFound   = errors.New("operator warehouse not found")
	ErrOperatorPointOfSaleNotFound = errors.New("operator point of sale not found")
)

// OperatorGroupRepository manages operator groups ("operador_grupos").
type OperatorGroupRepository struct {
	pool *pgxpool.Pool
}

func NewOperatorGroupRepository(pool *pgxpool.Pool) *OperatorGroupRepository {
	return &OperatorGroupRepository{pool: pool}
}

func (r *OperatorGroupRepository) List(ctx context.Context, limit int, offset int) ([]models.OperatorGroup, error) {
	const query = `
		SELECT id, nombre, descripcion, empresa_id
		FROM dm_sistema.operador_grupos
		ORDER BY id
		LIMIT $1 OFFSET $2
	`
	rows, err := r.pool.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var groups []models.OperatorGroup
	for rows.Next() {
		var group models.OperatorGroup
		if err := rows.Scan(&group.ID, &group.Name, &group.Description, &group.CompanyID); err != nil {
			return nil, err
		}
		groups = append(groups, group)
	}
	return groups, rows.Err()
}

func (r *OperatorGroupRepository) GetByID(ctx context.Context, id int64) (models.OperatorGroup, error) {
	const query = `
		SELECT id, nombre, descripcion, empresa_id
		FROM dm_sistema.operador_grupos WHERE id = $1
	`
	var group models.OperatorGroup
	if err := r.pool.QueryRow(ctx, query, id).Scan(&group.ID, &group.Name, &group.Description, &group.CompanyID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.OperatorGroup{}, ErrOperatorGroupNotFound
		}
		return models.OperatorGroup{}, err
	}
	return group, nil
}

func (r *OperatorGroupRepository) Create(ctx context.Context, group models.OperatorGroup) (models.OperatorGroup, error) {
	const query = `
		INSERT INTO dm_sistema.operador_grupos (nombre, descripcion, empresa_id)
		VALUES ($1, $2, $3)
		RETURNING id
	`
	row := r.pool.QueryRow(ctx, query, group.Name, group.Description, group.CompanyID)
	if err := row.Scan(&group.ID); err != nil {
		return models.OperatorGroup{}, err
	}
	return group, nil
}

func (r *OperatorGroupRepository) Update(ctx context.Context, group models.OperatorGroup) error {
	const query = `
		UPDATE dm_sistema.operador_grupos SET nombre = $2, descripcion = $3, empresa_id = $4
		WHERE id = $1
	`
	cmd, err := r.pool.Exec(ctx, query, group.ID, group.Name, group.Description, group.CompanyID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrOperatorGroupNotFound
	}
	return nil
}

func (r *OperatorGroupRepository) Delete(ctx context.Context, id int64) error {
	const query = `DELETE FROM dm_sistema.operador_grupos WHERE id = $1`
	cmd, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrOperatorGroupNotFound
	}
	return nil
}

// OperatorWarehouseRepository manages warehouse assignments
// ("operador_bodegas").
type OperatorWarehouseRepository struct {
	pool *pgxpool.Pool
}

func NewOperatorWarehouseRepository(pool *pgxpool.Pool) *OperatorWarehouseRepository {
	return &OperatorWarehouseRepository{pool: pool}
}

func (r *OperatorWarehouseRepository) List(ctx context.Context, limit int, offset int) ([]models.OperatorWarehouse, error) {
	const query = `
		SELECT id, operador_id, bodega_id
		FROM dm_sistema.operador_bodegas
		ORDER BY id
		LIMIT $1 OFFSET $2
	`
	rows, err := r.pool.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var links []models.OperatorWarehouse
	for rows.Next() {
		var link models.OperatorWarehouse
		if err := rows.Scan(&link.ID, &link.OperatorID, &link.WarehouseID); err != nil {
			return nil, err
		}
		links = append(links, link)
	}
	return links, rows.Err()
}

func (r *OperatorWarehouseRepository) GetByID(ctx context.Context, id int64) (models.OperatorWarehouse, error) {
	const query = `
		SELECT id, operador_id, bodega_id
		FROM dm_sistema.operador_bodegas WHERE id = $1
	`
	var link models.OperatorWarehouse
	if err := r.pool.QueryRow(ctx, query, id).Scan(&link.ID, &link.OperatorID, &link.WarehouseID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.OperatorWarehouse{}, ErrOperatorWarehouseNotFound
		}
		return models.OperatorWarehouse{}, err
	}
	return link, nil
}

func (r *OperatorWarehouseRepository) Create(ctx context.Context, link models.OperatorWarehouse) (models.OperatorWarehouse, error) {
	const query = `
		INSERT INTO dm_sistema.operador_bodegas (operador_id, bodega_id)
		VALUES ($1, $2)
		RETURNING id
	`
	row := r.pool.QueryRow(ctx, query, link.OperatorID, link.WarehouseID)
	if err := row.Scan(&link.ID); err != nil {
		return models.OperatorWarehouse{}, err
	}
	return link, nil
}

func (r *OperatorWarehouseRepository) Delete(ctx context.Context, id int64) error {
	const query = `DELETE FROM dm_sistema.operador_bodegas WHERE id = $1`
	cmd, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrOperatorWarehouseNotFound
	}
	return nil
}

// OperatorPointOfSaleRepository manages point-of-sale assignments
// ("operador_punto_venta").
type OperatorPointOfSaleRepository struct {
	pool *pgxpool.Pool
}

func NewOperatorPointOfSaleRepository(pool *pgxpool.Pool) *OperatorPointOfSaleRepository {
	return &OperatorPointOfSaleRepository{pool: pool}
}

func (r *OperatorPointOfSaleRepository) List(ctx context.Context, limit int, offset int) ([]models.OperatorPointOfSale, error) {
	const query = `
		SELECT id, operador_id, punto_venta_id
		FROM dm_sistema.operador_punto_venta
		ORDER BY id
		LIMIT $1 OFFSET $2
	`
	rows, err := r.pool.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var links []models.OperatorPointOfSale
	for rows.Next() {
		var link models.OperatorPointOfSale
		if err := rows.Scan(&link.ID, &link.OperatorID, &link.PointOfSaleID); err != nil {
			return nil, err
		}
		links = append(links, link)
	}
	return links, rows.Err()
}

func (r *OperatorPointOfSaleRepository) GetByID(ctx context.Context, id int64) (models.OperatorPointOfSale, error) {
	const query = `
		SELECT id, operador_id, punto_venta_id
		FROM dm_sistema.operador_punto_venta WHERE id = $1
	`
	var link models.OperatorPointOfSale
	if err := r.pool.QueryRow(ctx, query, id).Scan(&link.ID, &link.OperatorID, &link.PointOfSaleID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.OperatorPointOfSale{}, ErrOperatorPointOfSaleNotFound
		}
		return models.OperatorPointOfSale{}, err
	}
	return link, nil
}

func (r *OperatorPointOfSaleRepository) Create(ctx context.Context, link models.OperatorPointOfSale) (models.OperatorPointOfSale, error) {
	const query = `
		INSERT INTO dm_sistema.operador_punto_venta (operador_id, punto_venta_id)
		VALUES ($1, $2)
		RETURNING id
	`
	row := r.pool.QueryRow(ctx, query, link.OperatorID, link.PointOfSaleID)
	if err := row.Scan(&link.ID); err != nil {
		return models.OperatorPointOfSale{}, err
	}
	return link, nil
}

func (r *OperatorPointOfSaleRepository) Delete(ctx context.Context, id int64) error {
	const query = `DELETE FROM dm_sistema.operador_punto_venta WHERE id = $1`
	cmd, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrOperatorPointOfSaleNotFound
	}
	return nil
}
