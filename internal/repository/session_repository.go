package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"backoffice/api/internal/models"
)

var (
	ErrActiveSessionNotFound = errors.New("active session not found")
	ErrLoginAuditNotFound    = errors.New("login audit not found")
)

// SessionRepository persists the login audit log ("sesiones", append-only)
// and the active-session rows ("sesiones_activas") of the login ceremony.
type SessionRepository struct {
	pool *pgxpool.Pool
}

func NewSessionRepository(pool *pgxpool.Pool) *SessionRepository {
	return &SessionRepository{pool: pool}
}

const activeSessionColumns = `
	id, operador_id, sesion_id, fecha_registro, empresa_id, token, cod_verificacion
`

func scanActiveSession(row pgx.Row) (models.ActiveSession, error) {
	var session models.ActiveSession
	if err := row.Scan(
		&session.ID,
		&session.OperatorLogin,
		&session.AuditID,
		&session.RegisteredAt,
		&session.CompanyID,
		&session.Token,
		&session.VerificationCode,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.ActiveSession{}, ErrActiveSessionNotFound
		}
		return models.ActiveSession{}, err
	}
	return session, nil
}

// CreateLoginCeremony writes the audit row and its active-session row in one
// transaction, so a crash cannot leave an audit entry without the session
// that references it.
func (r *SessionRepository) CreateLoginCeremony(ctx context.Context, audit models.LoginAudit, session models.ActiveSession) (models.ActiveSession, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return models.ActiveSession{}, fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback(ctx)

	const auditQuery = `
		INSERT INTO dm_sistema.sesiones (id, ip, fecha, operador_id, empresa_id)
		VALUES ($1, $2, $3, $4, $5)
	`
	if _, err := tx.Exec(ctx, auditQuery,
		audit.ID,
		audit.IP,
		audit.Timestamp,
		audit.OperatorLogin,
		audit.CompanyID,
	); err != nil {
		return models.ActiveSession{}, fmt.Errorf("insert login audit: %w", err)
	}

	const sessionQuery = `
		INSERT INTO dm_sistema.sesiones_activas (operador_id, sesion_id, fecha_registro, empresa_id, token, cod_verificacion)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id
	`
	row := tx.QueryRow(ctx, sessionQuery,
		session.OperatorLogin,
		session.AuditID,
		session.RegisteredAt,
		session.CompanyID,
		session.Token,
		session.VerificationCode,
	)
	if err := row.Scan(&session.ID); err != nil {
		return models.ActiveSession{}, fmt.Errorf("insert active session: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return models.ActiveSession{}, fmt.Errorf("commit: %w", err)
	}
	return session, nil
}

// ListActiveByLogin returns the operator's active sessions, most recent
// first.
func (r *SessionRepository) ListActiveByLogin(ctx context.Context, login string) ([]models.ActiveSession, error) {
	const query = `
		SELECT ` + activeSessionColumns + `
		FROM dm_sistema.sesiones_activas
		WHERE operador_id = $1
		ORDER BY fecha_registro DESC
	`
	rows, err := r.pool.Query(ctx, query, login)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var sessions []models.ActiveSession
	for rows.Next() {
		session, err := scanActiveSession(rows)
		if err != nil {
			return nil, err
		}
		sessions = append(sessions, session)
	}
	return sessions, rows.Err()
}

// DeleteActiveOthers removes every active session of the operator except the
// surviving one. Verification uses it to reconcile down to a single row.
func (r *SessionRepository) DeleteActiveOthers(ctx context.Context, login string, keepID int64) error {
	const query = `
		DELETE FROM dm_sistema.sesiones_activas
		WHERE operador_id = $1 AND id <> $2
	`
	_, err := r.pool.Exec(ctx, query, login, keepID)
	return err
}

func (r *SessionRepository) FindActiveByToken(ctx context.Context, token string) (models.ActiveSession, error) {
	const query = `
		SELECT ` + activeSessionColumns + `
		FROM dm_sistema.sesiones_activas WHERE token = $1
	`
	return scanActiveSession(r.pool.QueryRow(ctx, query, token))
}

func (r *SessionRepository) DeleteActiveByToken(ctx context.Context, token string) error {
	const query = `DELETE FROM dm_sistema.sesiones_activas WHERE token = $1`
	cmd, err := r.pool.Exec(ctx, query, token)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrActiveSessionNotFound
	}
	return nil
}

func (r *SessionRepository) GetActiveByID(ctx context.Context, id int64) (models.ActiveSession, error) {
	const query = `
		SELECT ` + activeSessionColumns + `
		FROM dm_sistema.sesiones_activas WHERE id = $1
	`
	return scanActiveSession(r.pool.QueryRow(ctx, query, id))
}

func (r *SessionRepository) ListActive(ctx context.Context, limit int, offset int) ([]models.ActiveSession, error) {
	const query = `
		SELECT ` + activeSessionColumns + `
		FROM dm_sistema.sesiones_activas
		ORDER BY fecha_registro DESC
		LIMIT $1 OFFSET $2
	`
	rows, err := r.pool.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var sessions []models.ActiveSession
	for rows.Next() {
		session, err := scanActiveSession(rows)
		if err != nil {
			return nil, err
		}
		sessions = append(sessions, session)
	}
	return sessions, rows.Err()
}

func (r *SessionRepository) DeleteActiveByID(ctx context.Context, id int64) error {
	const query = `DELETE FROM dm_sistema.sesiones_activas WHERE id = $1`
	cmd, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrActiveSessionNotFound
	}
	return nil
}

// DeleteActiveExpired prunes active sessions registered before the cutoff,
// i.e. whose token expiry has already passed.
func (r *SessionRepository) DeleteActiveExpired(ctx context.Context, cutoff time.Time) (int64, error) {
	const query = `DELETE FROM dm_sistema.sesiones_activas WHERE fecha_registro < $1`
	cmd, err := r.pool.Exec(ctx, query, cutoff)
	if err != nil {
		return 0, err
	}
	return cmd.RowsAffected(), nil
}

func (r *SessionRepository) ListAudits(ctx context.Context, limit int, offset int) ([]models.LoginAudit, error) {
	const query = `
		SELECT id, ip, fecha, operador_id, empresa_id
		FROM dm_sistema.sesiones
		ORDER BY fecha DESC
		LIMIT $1 OFFSET $2
	`
	rows, err := r.pool.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var audits []models.LoginAudit
	for rows.Next() {
		var audit models.LoginAudit
		if err := rows.Scan(
			&audit.ID,
			&audit.IP,
			&audit.Timestamp,
			&audit.OperatorLogin,
			&audit.CompanyID,
		); err != nil {
			return nil, err
		}
		audits = append(audits, audit)
	}
	return audits, rows.Err()
}

func (r *SessionRepository) GetAuditByID(ctx context.Context, id string) (models.LoginAudit, error) {
	const query = `
		SELECT id, ip, fecha, operador_id, empresa_id
		FROM dm_sistema.sesiones WHERE id = $1
	`
	var audit models.LoginAudit
	if err := r.pool.QueryRow(ctx, query, id).Scan(
		&audit.ID,
		&audit.IP,
		&audit.Timestamp,
		&audit.OperatorLogin,
		&audit.CompanyID,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.LoginAudit{}, ErrLoginAuditNotFound
		}
		return models.LoginAudit{}, err
	}
	return audit, nil
}
