package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"backoffice/api/internal/models"
)

var (
	ErrModuleNotFound            = errors.New("module not found")
	ErrMenuNotFound              = errors.New("menu not found")
	ErrCompanyModuleNotFound     = errors.New("company module not found")
	ErrCompanyModuleMenuNotFound = errors.New("company module menu not found")
)

// ModuleRepository manages the module catalog ("modulos").
type ModuleRepository struct {
	pool *pgxpool.Pool
}

func NewModuleRepository(pool *pgxpool.Pool) *ModuleRepository {
	return &ModuleRepository{pool: pool}
}

func scanModule(row pgx.Row) (models.Module, error) {
	var m models.Module
	if err := row.Scan(
		&m.ID,
		&m.Code,
		&m.Name,
		&m.MenuName,
		&m.Status,
		&m.Icon,
		&m.Order,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.Module{}, ErrModuleNotFound
		}
		return models.Module{}, err
	}
	return m, nil
}

func (r *ModuleRepository) List(ctx context.Context, limit int, offset int) ([]models.Module, error) {
	const query = `
		SELECT id, modulo, nombre, nombre_menu, estado, icon, orden
		FROM dm_sistema.modulos
		ORDER BY id
		LIMIT $1 OFFSET $2
	`
	rows, err := r.pool.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var modules []models.Module
	for rows.Next() {
		m, err := scanModule(rows)
		if err != nil {
			return nil, err
		}
		modules = append(modules, m)
	}
	return modules, rows.Err()
}

func (r *ModuleRepository) GetByID(ctx context.Context, id int64) (models.Module, error) {
	const query = `
		SELECT id, modulo, nombre, nombre_menu, estado, icon, orden
		FROM dm_sistema.modulos WHERE id = $1
	`
	return scanModule(r.pool.QueryRow(ctx, query, id))
}

func (r *ModuleRepository) Create(ctx context.Context, m models.Module) (models.Module, error) {
	const query = `
		INSERT INTO dm_sistema.modulos (modulo, nombre, nombre_menu, estado, icon, orden)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id
	`
	row := r.pool.QueryRow(ctx, query, m.Code, m.Name, m.MenuName, m.Status, m.Icon, m.Order)
	if err := row.Scan(&m.ID); err != nil {
		return models.Module{}, err
	}
	return m, nil
}

func (r *ModuleRepository) Update(ctx context.Context, m models.Module) error {
	const query = `
		UPDATE dm_sistema.modulos SET
			modulo = $2, nombre = $3, nombre_menu = $4, estado = $5, icon = $6, orden = $7
		WHERE id = $1
	`
	cmd, err := r.pool.Exec(ctx, query, m.ID, m.Code, m.Name, m.MenuName, m.Status, m.Icon, m.Order)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrModuleNotFound
	}
	return nil
}

func (r *ModuleRepository) Delete(ctx context.Context, id int64) error {
	const query = `DELETE FROM dm_sistema.modulos WHERE id = $1`
	cmd, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrModuleNotFound
	}
	return nil
}

// MenuRepository manages navigation entries ("menus").
type MenuRepository struct {
	pool *pgxpool.Pool
}

func NewMenuRepository(pool *pgxpool.Pool) *MenuRepository {
	return &MenuRepository{pool: pool}
}

func scanMenu(row pgx.Row) (models.Menu, error) {
	var m models.Menu
	if err := row.Scan(
		&m.ID,
		&m.URL,
		&m.Text,
		&m.Label,
		&m.Description,
		&m.Level,
		&m.Order,
		&m.Modifiable,
		&m.SeparatorUp,
		&m.ModuleID,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.Menu{}, ErrMenuNotFound
		}
		return models.Menu{}, err
	}
	return m, nil
}

func (r *MenuRepository) List(ctx context.Context, limit int, offset int) ([]models.Menu, error) {
	const query = `
		SELECT id, url, texto, etiqueta, descripcion, nivel_menu, orden, modificable, separador_up, modulo_id
		FROM dm_sistema.menus
		ORDER BY id
		LIMIT $1 OFFSET $2
	`
	rows, err := r.pool.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var menus []models.Menu
	for rows.Next() {
		m, err := scanMenu(rows)
		if err != nil {
			return nil, err
		}
		menus = append(menus, m)
	}
	return menus, rows.Err()
}

func (r *MenuRepository) GetByID(ctx context.Context, id int64) (models.Menu, error) {
	const query = `
		SELECT id, url, texto, etiqueta, descripcion, nivel_menu, orden, modificable, separador_up, modulo_id
		FROM dm_sistema.menus WHERE id = $1
	`
	return scanMenu(r.pool.QueryRow(ctx, query, id))
}

func (r *MenuRepository) Create(ctx context.Context, m models.Menu) (models.Menu, error) {
	const query = `
		INSERT INTO dm_sistema.menus (url, texto, etiqueta, descripcion, nivel_menu, orden, modificable, separador_up, modulo_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id
	`
	row := r.pool.QueryRow(ctx, query,
		m.URL, m.Text, m.Label, m.Description, m.Level, m.Order, m.Modifiable, m.SeparatorUp, m.ModuleID)
	if err := row.Scan(&m.ID); err != nil {
		return models.Menu{}, err
	}
	return m, nil
}

func (r *MenuRepository) Update(ctx context.Context, m models.Menu) error {
	const query = `
		UPDATE dm_sistema.menus SET
			url = $2, texto = $3, etiqueta = $4, descripcion = $5, nivel_menu = $6,
			orden = $7, modificable = $8, separador_up = $9, modulo_id = $10
		WHERE id = $1
	`
	cmd, err := r.pool.Exec(ctx, query,
		m.ID, m.URL, m.Text, m.Label, m.Description, m.Level, m.Order, m.Modifiable, m.SeparatorUp, m.ModuleID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrMenuNotFound
	}
	return nil
}

func (r *MenuRepository) Delete(ctx context.Context, id int64) error {
	const query = `DELETE FROM dm_sistema.menus WHERE id = $1`
	cmd, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrMenuNotFound
	}
	return nil
}

// CompanyModuleRepository manages company-to-module links ("empresa_modulos").
type CompanyModuleRepository struct {
	pool *pgxpool.Pool
}

func NewCompanyModuleRepository(pool *pgxpool.Pool) *CompanyModuleRepository {
	return &CompanyModuleRepository{pool: pool}
}

func (r *CompanyModuleRepository) List(ctx context.Context, limit int, offset int) ([]models.CompanyModule, error) {
	const query = `
		SELECT id, empresa_id, modulo_id, estado
		FROM dm_sistema.empresa_modulos
		ORDER BY id
		LIMIT $1 OFFSET $2
	`
	rows, err := r.pool.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var links []models.CompanyModule
	for rows.Next() {
		var link models.CompanyModule
		if err := rows.Scan(&link.ID, &link.CompanyID, &link.ModuleID, &link.Status); err != nil {
			return nil, err
		}
		links = append(links, link)
	}
	return links, rows.Err()
}

func (r *CompanyModuleRepository) GetByID(ctx context.Context, id int64) (models.CompanyModule, error) {
	const query = `
		SELECT id, empresa_id, modulo_id, estado
		FROM dm_sistema.empresa_modulos WHERE id = $1
	`
	var link models.CompanyModule
	if err := r.pool.QueryRow(ctx, query, id).Scan(&link.ID, &link.CompanyID, &link.ModuleID, &link.Status); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.CompanyModule{}, ErrCompanyModuleNotFound
		}
		return models.CompanyModule{}, err
	}
	return link, nil
}

func (r *CompanyModuleRepository) Create(ctx context.Context, link models.CompanyModule) (models.CompanyModule, error) {
	const query = `
		INSERT INTO dm_sistema.empresa_modulos (empresa_id, modulo_id, estado)
		VALUES ($1, $2, $3)
		RETURNING id
	`
	row := r.pool.QueryRow(ctx, query, link.CompanyID, link.ModuleID, link.Status)
	if err := row.Scan(&link.ID); err != nil {
		return models.CompanyModule{}, err
	}
	return link, nil
}

func (r *CompanyModuleRepository) Update(ctx context.Context, link models.CompanyModule) error {
	const query = `
		UPDATE dm_sistema.empresa_modulos SET empresa_id = $2, modulo_id = $3, estado = $4
		WHERE id = $1
	`
	cmd, err := r.pool.Exec(ctx, query, link.ID, link.CompanyID, link.ModuleID, link.Status)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrCompanyModuleNotFound
	}
	return nil
}

func (r *CompanyModuleRepository) Delete(ctx context.Context, id int64) error {
	const query = `DELETE FROM dm_sistema.empresa_modulos WHERE id = $1`
	cmd, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrCompanyModuleNotFound
	}
	return nil
}

// CompanyModuleMenuRepository manages menu links under a company module
// ("empresa_modulos_menu").
type CompanyModuleMenuRepository struct {
	pool *pgxpool.Pool
}

func NewCompanyModuleMenuRepository(pool *pgxpool.Pool) *CompanyModuleMenuRepository {
	return &CompanyModuleMenuRepository{pool: pool}
}

func (r *CompanyModuleMenuRepository) List(ctx context.Context, limit int, offset int) ([]models.CompanyModuleMenu, error) {
	const query = `
		SELECT id, empresa_modulo_id, menu_id
		FROM dm_sistema.empresa_modulos_menu
		ORDER BY id
		LIMIT $1 OFFSET $2
	`
	rows, err := r.pool.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var links []models.CompanyModuleMenu
	for rows.Next() {
		var link models.CompanyModuleMenu
		if err := rows.Scan(&link.ID, &link.CompanyModuleID, &link.MenuID); err != nil {
			return nil, err
		}
		links = append(links, link)
	}
	return links, rows.Err()
}

func (r *CompanyModuleMenuRepository) GetByID(ctx context.Context, id int64) (models.CompanyModuleMenu, error) {
	const query = `
		SELECT id, empresa_modulo_id, menu_id
		FROM dm_sistema.empresa_modulos_menu WHERE id = $1
	`
	var link models.CompanyModuleMenu
	if err := r.pool.QueryRow(ctx, query, id).Scan(&link.ID, &link.CompanyModuleID, &link.MenuID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.CompanyModuleMenu{}, ErrCompanyModuleMenuNotFound
		}
		return models.CompanyModuleMenu{}, err
	}
	return link, nil
}

func (r *CompanyModuleMenuRepository) Create(ctx context.Context, link models.CompanyModuleMenu) (models.CompanyModuleMenu, error) {
	const query = `
		INSERT INTO dm_sistema.empresa_modulos_menu (empresa_modulo_id, menu_id)
		VALUES ($1, $2)
		RETURNING id
	`
	row := r.pool.QueryRow(ctx, query, link.CompanyModuleID, link.MenuID)
	if err := row.Scan(&link.ID); err != nil {
		return models.CompanyModuleMenu{}, err
	}
	return link, nil
}

func (r *CompanyModuleMenuRepository) Delete(ctx context.Context, id int64) error {
	const query = `DELETE FROM dm_sistema.empresa_modulos_menu WHERE id = $1`
	cmd, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrCompanyModuleMenuNotFound
	}
	return nil
}
