package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"backoffice/api/internal/models"
)

var ErrCompanyNotFound = errors.New("company not found")

type CompanyRepository struct {
	pool *pgxpool.Pool
}

func NewCompanyRepository(pool *pgxpool.Pool) *CompanyRepository {
	return &CompanyRepository{pool: pool}
}

func (r *CompanyRepository) List(ctx context.Context, limit int, offset int) ([]models.Company, error) {
	const query = `
		SELECT id, nombre, rut, estado, fecha_creacion
		FROM dm_sistema.empresas
		ORDER BY id
		LIMIT $1 OFFSET $2
	`
	rows, err := r.pool.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var companies []models.Company
	for rows.Next() {
		var company models.Company
		if err := rows.Scan(
			&company.ID,
			&company.Name,
			&company.TaxID,
			&company.Status,
			&company.CreatedAt,
		); err != nil {
			return nil, err
		}
		companies = append(companies, company)
	}
	return companies, rows.Err()
}

func (r *CompanyRepository) GetByID(ctx context.Context, id int64) (models.Company, error) {
	const query = `
		SELECT id, nombre, rut, estado, fecha_creacion
		FROM dm_sistema.empresas WHERE id = $1
	`
	var company models.Company
	if err := r.pool.QueryRow(ctx, query, id).Scan(
		&company.ID,
		&company.Name,
		&company.TaxID,
		&company.Status,
		&company.CreatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.Company{}, ErrCompanyNotFound
		}
		return models.Company{}, err
	}
	return company, nil
}

func (r *CompanyRepository) Create(ctx context.Context, company models.Company) (models.Company, error) {
	const query = `
		INSERT INTO dm_sistema.empresas (nombre, rut, estado, fecha_creacion)
		VALUES ($1, $2, $3, NOW())
		RETURNING id, fecha_creacion
	`
	row := r.pool.QueryRow(ctx, query, company.Name, company.TaxID, company.Status)
	if err := row.Scan(&company.ID, &company.CreatedAt); err != nil {
		return models.Company{}, err
	}
	return company, nil
}

func (r *CompanyRepository) Update(ctx context.Context, company models.Company) error {
	const query = `
		UPDATE dm_sistema.empresas SET nombre = $2, rut = $3, estado = $4
		WHERE id = $1
	`
	cmd, err := r.pool.Exec(ctx, query, company.ID, company.Name, company.TaxID, company.Status)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrCompanyNotFound
	}
	return nil
}

func (r *CompanyRepository) Delete(ctx context.Context, id int64) error {
	const query = `DELETE FROM dm_sistema.empresas WHERE id = $1`
	cmd, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrCompanyNotFound
	}
	return nil
}
