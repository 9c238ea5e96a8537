package service

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"backoffice/api/internal/config"
	"backoffice/api/internal/ids"
	"backoffice/api/internal/models"
	"backoffice/api/internal/repository"
	"backoffice/api/internal/security"
)

var (
	ErrInvalidCredentials    = errors.New("invalid credentials")
	ErrNoActiveSession       = errors.New("no active session")
	ErrCodeMismatch          = errors.New("verification code mismatch")
	ErrTooManyAttempts       = errors.New("too many verification attempts")
	ErrOperatorNotFound      = repository.ErrOperatorNotFound
	ErrActiveSessionNotFound = repository.ErrActiveSessionNotFound
)

type OperatorStore interface {
	FindByLogin(ctx context.Context, login string) (models.Operator, error)
	IncrementFailedConnections(ctx context.Context, login string) error
}

type SessionStore interface {
	CreateLoginCeremony(ctx context.Context, audit models.LoginAudit, session models.ActiveSession) (models.ActiveSession, error)
	ListActiveByLogin(ctx context.Context, login string) ([]models.ActiveSession, error)
	DeleteActiveOthers(ctx context.Context, login string, keepID int64) error
	FindActiveByToken(ctx context.Context, token string) (models.ActiveSession, error)
	DeleteActiveByToken(ctx context.Context, token string) error
}

type EntitlementStore interface {
	ListForOperator(ctx context.Context, operatorID int64, companyID int64) ([]models.Entitlement, error)
}

type CodeMailer interface {
	SendVerificationCode(ctx context.Context, recipient string, code string) error
}

// VerifyLimiter throttles repeated verification misses per operator login.
type VerifyLimiter interface {
	TooManyMisses(ctx context.Context, login string) (bool, error)
	RecordMiss(ctx context.Context, login string) error
	Reset(ctx context.Context, login string) error
}

type AuthService struct {
	operators    OperatorStore
	sessions     SessionStore
	entitlements EntitlementStore
	mailer       CodeMailer
	limiter      VerifyLimiter
	cfg          *config.AppConfig
	log          zerolog.Logger
}

func NewAuthService(
	operators OperatorStore,
	sessions SessionStore,
	entitlements EntitlementStore,
	mailer CodeMailer,
	limiter VerifyLimiter,
	cfg *config.AppConfig,
	log zerolog.Logger,
) *AuthService {
	return &AuthService{
		operators:    operators,
		sessions:     sessions,
		entitlements: entitlements,
		mailer:       mailer,
		limiter:      limiter,
		cfg:          cfg,
		log:          log,
	}
}

type ValidateInput struct {
	Login  string
	Secret string
	IP     string
}

// Validate runs the first login step: credential check, token mint, audit
// row, active-session row with a fresh one-time code, and the code mail.
// A new active session is always inserted; stale rows are reconciled at
// verification time.
func (s *AuthService) Validate(ctx context.Context, input ValidateInput) (string, error) {
	op, err := s.operators.FindByLogin(ctx, input.Login)
	if err != nil {
		if errors.Is(err, repository.ErrOperatorNotFound) {
			return "", ErrInvalidCredentials
		}
		return "", err
	}

	ok, err := security.VerifySecret(input.Secret, op.SecretHash)
	if err != nil || !ok {
		// The counter bump is best-effort: its failure must not mask the
		// not-found answer to the caller.
		if incErr := s.operators.IncrementFailedConnections(ctx, op.Login); incErr != nil {
			s.log.Warn().Err(incErr).Str("operador_id", op.Login).Msg("failed-connection increment failed")
		}
		return "", ErrInvalidCredentials
	}

	token, err := security.GenerateSessionToken(s.cfg.Security.TokenSecret, op.ID, op.Login, s.cfg.Security.TokenTTL)
	if err != nil {
		return "", err
	}

	code, err := security.GenerateVerificationCode()
	if err != nil {
		return "", err
	}

	now := time.Now()
	audit := models.LoginAudit{
		ID:            ids.New(),
		IP:            input.IP,
		Timestamp:     now,
		OperatorLogin: op.Login,
		CompanyID:     op.CompanyID,
	}
	session := models.ActiveSession{
		OperatorLogin:    op.Login,
		AuditID:          audit.ID,
		RegisteredAt:     now,
		CompanyID:        op.CompanyID,
		Token:            token,
		VerificationCode: code,
	}

	if _, err := s.sessions.CreateLoginCeremony(ctx, audit, session); err != nil {
		return "", err
	}

	// Delivery failure is logged, never surfaced: the operator can retry
	// validar to get a fresh code.
	if err := s.mailer.SendVerificationCode(ctx, op.Login, code); err != nil {
		s.log.Error().Err(err).Str("operador_id", op.Login).Msg("verification mail failed")
	}

	return op.Login, nil
}

type VerifyInput struct {
	Login string
	Code  string
}

type VerifyResult struct {
	Operator     models.Operator
	Entitlements []models.Entitlement
	Token        string
}

// Verify completes the ceremony: the supplied code must match the most
// recent active session; older rows are discarded so exactly one survives.
func (s *AuthService) Verify(ctx context.Context, input VerifyInput) (VerifyResult, error) {
	if s.limiter != nil {
		blocked, err := s.limiter.TooManyMisses(ctx, input.Login)
		if err != nil {
			s.log.Warn().Err(err).Str("operador_id", input.Login).Msg("verify limiter check failed")
		} else if blocked {
			return VerifyResult{}, ErrTooManyAttempts
		}
	}

	sessions, err := s.sessions.ListActiveByLogin(ctx, input.Login)
	if err != nil {
		return VerifyResult{}, err
	}
	if len(sessions) == 0 {
		return VerifyResult{}, ErrNoActiveSession
	}

	latest := sessions[0]
	if !security.VerificationCodeEqual(latest.VerificationCode, input.Code) {
		if s.limiter != nil {
			if err := s.limiter.RecordMiss(ctx, input.Login); err != nil {
				s.log.Warn().Err(err).Str("operador_id", input.Login).Msg("verify limiter record failed")
			}
		}
		return VerifyResult{}, ErrCodeMismatch
	}

	if err := s.sessions.DeleteActiveOthers(ctx, input.Login, latest.ID); err != nil {
		return VerifyResult{}, err
	}
	if s.limiter != nil {
		if err := s.limiter.Reset(ctx, input.Login); err != nil {
			s.log.Warn().Err(err).Str("operador_id", input.Login).Msg("verify limiter reset failed")
		}
	}

	op, err := s.operators.FindByLogin(ctx, input.Login)
	if err != nil {
		return VerifyResult{}, err
	}

	entitlements, err := s.resolveEntitlements(ctx, op)
	if err != nil {
		return VerifyResult{}, err
	}

	return VerifyResult{
		Operator:     op,
		Entitlements: entitlements,
		Token:        latest.Token,
	}, nil
}

// Logout deletes the active session matching the token. A second call with
// the same token reports not-found, which callers treat as already done.
func (s *AuthService) Logout(ctx context.Context, token string) error {
	return s.sessions.DeleteActiveByToken(ctx, token)
}

type SessionInfo struct {
	Session      models.ActiveSession
	Operator     models.Operator
	Entitlements []models.Entitlement
}

// SessionByToken is the read path behind the who-am-I endpoint: active
// session plus operator profile plus entitlements.
func (s *AuthService) SessionByToken(ctx context.Context, token string) (SessionInfo, error) {
	session, err := s.sessions.FindActiveByToken(ctx, token)
	if err != nil {
		return SessionInfo{}, err
	}

	op, err := s.operators.FindByLogin(ctx, session.OperatorLogin)
	if err != nil {
		return SessionInfo{}, err
	}

	entitlements, err := s.resolveEntitlements(ctx, op)
	if err != nil {
		return SessionInfo{}, err
	}

	return SessionInfo{
		Session:      session,
		Operator:     op,
		Entitlements: entitlements,
	}, nil
}

func (s *AuthService) resolveEntitlements(ctx context.Context, op models.Operator) ([]models.Entitlement, error) {
	if op.CompanyID == nil {
		return []models.Entitlement{}, nil
	}
	return s.entitlements.ListForOperator(ctx, op.ID, *op.CompanyID)
}
