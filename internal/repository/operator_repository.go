package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"backoffice/api/internal/models"
)

var ErrOperatorNotFound = errors.New("operator not found")

const operatorColumns = `
	id, operador_id, clear, rut, nombres, apellido_paterno, apellido_materno,
	modificable, email, estado, acceso_web, operador_administrador, superadmin,
	conexion_fallida, grupo_id, empresa_id, fecha_creacion
`

type OperatorRepository struct {
	pool *pgxpool.Pool
}

func NewOperatorRepository(pool *pgxpool.Pool) *OperatorRepository {
	return &OperatorRepository{pool: pool}
}

func scanOperator(row pgx.Row) (models.Operator, error) {
	var op models.Operator
	if err := row.Scan(
		&op.ID,
		&op.Login,
		&op.SecretHash,
		&op.TaxID,
		&op.FirstNames,
		&op.LastNameP,
		&op.LastNameM,
		&op.Modifiable,
		&op.Email,
		&op.Status,
		&op.WebAccess,
		&op.Admin,
		&op.SuperAdmin,
		&op.FailedConnections,
		&op.GroupID,
		&op.CompanyID,
		&op.CreatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.Operator{}, ErrOperatorNotFound
		}
		return models.Operator{}, err
	}
	return op, nil
}

func (r *OperatorRepository) FindByLogin(ctx context.Context, login string) (models.Operator, error) {
	const query = `
		SELECT ` + operatorColumns + `
		FROM dm_sistema.operadores WHERE operador_id = $1
	`
	return scanOperator(r.pool.QueryRow(ctx, query, login))
}

func (r *OperatorRepository) GetByID(ctx context.Context, id int64) (models.Operator, error) {
	const query = `
		SELECT ` + operatorColumns + `
		FROM dm_sistema.operadores WHERE id = $1
	`
	return scanOperator(r.pool.QueryRow(ctx, query, id))
}

// IncrementFailedConnections bumps the failed-attempt counter after a wrong
// secret. Callers treat failures here as best-effort.
func (r *OperatorRepository) IncrementFailedConnections(ctx context.Context, login string) error {
	const query = `
		UPDATE dm_sistema.operadores
		SET conexion_fallida = conexion_fallida + 1
		WHERE operador_id = $1
	`
	cmd, err := r.pool.Exec(ctx, query, login)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrOperatorNotFound
	}
	return nil
}

func (r *OperatorRepository) List(ctx context.Context, limit int, offset int) ([]models.Operator, error) {
	const query = `
		SELECT ` + operatorColumns + `
		FROM dm_sistema.operadores
		ORDER BY id
		LIMIT $1 OFFSET $2
	`
	rows, err := r.pool.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var operators []models.Operator
	for rows.Next() {
		op, err := scanOperator(rows)
		if err != nil {
			return nil, err
		}
		operators = append(operators, op)
	}
	return operators, rows.Err()
}

func (r *OperatorRepository) Create(ctx context.Context, op models.Operator) (models.Operator, error) {
	const query = `
		INSERT INTO dm_sistema.operadores (
			operador_id, clear, rut, nombres, apellido_paterno, apellido_materno,
			modificable, email, estado, acceso_web, operador_administrador, superadmin,
			conexion_fallida, grupo_id, empresa_id, fecha_creacion
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, 0, $13, $14, NOW()
		)
		RETURNING id, fecha_creacion
	`
	row := r.pool.QueryRow(ctx, query,
		op.Login,
		op.SecretHash,
		op.TaxID,
		op.FirstNames,
		op.LastNameP,
		op.LastNameM,
		op.Modifiable,
		op.Email,
		op.Status,
		op.WebAccess,
		op.Admin,
		op.SuperAdmin,
		op.GroupID,
		op.CompanyID,
	)
	if err := row.Scan(&op.ID, &op.CreatedAt); err != nil {
		return models.Operator{}, err
	}
	return op, nil
}

func (r *OperatorRepository) Update(ctx context.Context, op models.Operator) error {
	const query = `
		UPDATE dm_sistema.operadores SET
			operador_id = $2, rut = $3, nombres = $4, apellido_paterno = $5,
			apellido_materno = $6, modificable = $7, email = $8, estado = $9,
			acceso_web = $10, operador_administrador = $11, superadmin = $12,
			grupo_id = $13, empresa_id = $14
		WHERE id = $1
	`
	cmd, err := r.pool.Exec(ctx, query,
		op.ID,
		op.Login,
		op.TaxID,
		op.FirstNames,
		op.LastNameP,
		op.LastNameM,
		op.Modifiable,
		op.Email,
		op.Status,
		op.WebAccess,
		op.Admin,
		op.SuperAdmin,
		op.GroupID,
		op.CompanyID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrOperatorNotFound
	}
	return nil
}

func (r *OperatorRepository) UpdateSecretHash(ctx context.Context, id int64, hash []byte) error {
	const query = `UPDATE dm_sistema.operadores SET clear = $2 WHERE id = $1`
	cmd, err := r.pool.Exec(ctx, query, id, hash)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrOperatorNotFound
	}
	return nil
}

func (r *OperatorRepository) Delete(ctx context.Context, id int64) error {
	const query = `DELETE FROM dm_sistema.operadores WHERE id = $1`
	cmd, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrOperatorNotFound
	}
	return nil
}
