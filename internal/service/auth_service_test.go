package service

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"backoffice/api/internal/config"
	"backoffice/api/internal/models"
	"backoffice/api/internal/repository"
	"backoffice/api/internal/security"
)

type fakeOperatorStore struct {
	operators  map[string]models.Operator
	failedIncr map[string]int
}

func newFakeOperatorStore(ops ...models.Operator) *fakeOperatorStore {
	s := &fakeOperatorStore{
		operators:  make(map[string]models.Operator),
		failedIncr: make(map[string]int),
	}
	for _, op := range ops {
		s.operators[op.Login] = op
	}
	return s
}

func (s *fakeOperatorStore) FindByLogin(_ context.Context, login string) (models.Operator, error) {
	op, ok := s.operators[login]
	if !ok {
		return models.Operator{}, repository.ErrOperatorNotFound
	}
	return op, nil
}

func (s *fakeOperatorStore) IncrementFailedConnections(_ context.Context, login string) error {
	s.failedIncr[login]++
	return nil
}

type fakeSessionStore struct {
	audits   []models.LoginAudit
	sessions []models.ActiveSession
	nextID   int64
}

func (s *fakeSessionStore) CreateLoginCeremony(_ context.Context, audit models.LoginAudit, session models.ActiveSession) (models.ActiveSession, error) {
	s.nextID++
	session.ID = s.nextID
	s.audits = append(s.audits, audit)
	s.sessions = append(s.sessions, session)
	return session, nil
}

func (s *fakeSessionStore) ListActiveByLogin(_ context.Context, login string) ([]models.ActiveSession, error) {
	var out []models.ActiveSession
	// Newest first, matching the repository's ORDER BY fecha_registro DESC.
	for i := len(s.sessions) - 1; i >= 0; i-- {
		if s.sessions[i].OperatorLogin == login {
			out = append(out, s.sessions[i])
		}
	}
	return out, nil
}

func (s *fakeSessionStore) DeleteActiveOthers(_ context.Context, login string, keepID int64) error {
	kept := s.sessions[:0]
	for _, sess := range s.sessions {
		if sess.OperatorLogin == login && sess.ID != keepID {
			continue
		}
		kept = append(kept, sess)
	}
	s.sessions = kept
	return nil
}

func (s *fakeSessionStore) FindActiveByToken(_ context.Context, token string) (models.ActiveSession, error) {
	for _, sess := range s.sessions {
		if sess.Token == token {
			return sess, nil
		}
	}
	return models.ActiveSession{}, repository.ErrActiveSessionNotFound
}

func (s *fakeSessionStore) DeleteActiveByToken(_ context.Context, token string) error {
	for i, sess := range s.sessions {
		if sess.Token == token {
			s.sessions = append(s.sessions[:i], s.sessions[i+1:]...)
			return nil
		}
	}
	return repository.ErrActiveSessionNotFound
}

type fakeEntitlementStore struct {
	rows map[int64][]models.Entitlement
}

func (s *fakeEntitlementStore) ListForOperator(_ context.Context, operatorID int64, _ int64) ([]models.Entitlement, error) {
	if rows, ok := s.rows[operatorID]; ok {
		return rows, nil
	}
	return []models.Entitlement{}, nil
}

type fakeMailer struct {
	sent []string
	err  error
}

func (m *fakeMailer) SendVerificationCode(_ context.Context, recipient, code string) error {
	if m.err != nil {
		return m.err
	}
	m.sent = append(m.sent, fmt.Sprintf("%s:%s", recipient, code))
	return nil
}

type fakeLimiter struct {
	misses  map[string]int
	blocked bool
	resets  int
}

func newFakeLimiter() *fakeLimiter {
	return &fakeLimiter{misses: make(map[string]int)}
}

func (l *fakeLimiter) TooManyMisses(_ context.Context, _ string) (bool, error) {
	return l.blocked, nil
}

func (l *fakeLimiter) RecordMiss(_ context.Context, login string) error {
	l.misses[login]++
	return nil
}

func (l *fakeLimiter) Reset(_ context.Context, _ string) error {
	l.resets++
	return nil
}

func testConfig() *config.AppConfig {
	return &config.AppConfig{
		Security: config.SecurityConfig{
			TokenSecret:       "test-secret",
			TokenTTL:          24 * time.Hour,
			VerifyMaxAttempts: 5,
			VerifyWindow:      15 * time.Minute,
		},
	}
}

func testOperator(t *testing.T, login, secret string) models.Operator {
	t.Helper()
	hash, err := security.HashSecret(secret)
	require.NoError(t, err)
	companyID := int64(7)
	return models.Operator{
		ID:         42,
		Login:      login,
		SecretHash: hash,
		FirstNames: "Ana",
		Status:     models.OperatorStatusActive,
		CompanyID:  &companyID,
	}
}

func newTestService(ops *fakeOperatorStore, sessions *fakeSessionStore, mailer *fakeMailer, limiter *fakeLimiter) *AuthService {
	icon := "fa-cart"
	ents := &fakeEntitlementStore{rows: map[int64][]models.Entitlement{
		42: {{MenuName: "Ventas", CompanyModuleID: 3, Icon: &icon}},
	}}
	return NewAuthService(ops, sessions, ents, mailer, limiter, testConfig(), zerolog.Nop())
}

func TestValidateSuccess(t *testing.T) {
	ops := newFakeOperatorStore(testOperator(t, "ana@example.com", "hunter2"))
	sessions := &fakeSessionStore{}
	mailer := &fakeMailer{}
	svc := newTestService(ops, sessions, mailer, newFakeLimiter())

	login, err := svc.Validate(context.Background(), ValidateInput{
		Login:  "ana@example.com",
		Secret: "hunter2",
		IP:     "203.0.113.9",
	})
	require.NoError(t, err)
	assert.Equal(t, "ana@example.com", login)

	require.Len(t, sessions.audits, 1)
	require.Len(t, sessions.sessions, 1)
	assert.Equal(t, "203.0.113.9", sessions.audits[0].IP)
	assert.Equal(t, sessions.audits[0].ID, sessions.sessions[0].AuditID)
	assert.Len(t, sessions.sessions[0].VerificationCode, 32)
	assert.NotEmpty(t, sessions.sessions[0].Token)

	claims, err := security.ParseSessionToken(sessions.sessions[0].Token, "test-secret")
	require.NoError(t, err)
	assert.Equal(t, int64(42), claims.OperatorID)
	assert.Equal(t, "ana@example.com", claims.Login)

	require.Len(t, mailer.sent, 1)
	assert.Equal(t, "ana@example.com:"+sessions.sessions[0].VerificationCode, mailer.sent[0])
	assert.Zero(t, ops.failedIncr["ana@example.com"])
}

func TestValidateUnknownOperator(t *testing.T) {
	svc := newTestService(newFakeOperatorStore(), &fakeSessionStore{}, &fakeMailer{}, newFakeLimiter())

	_, err := svc.Validate(context.Background(), ValidateInput{Login: "nadie@example.com", Secret: "x"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestValidateWrongSecretIncrementsCounter(t *testing.T) {
	ops := newFakeOperatorStore(testOperator(t, "ana@example.com", "hunter2"))
	sessions := &fakeSessionStore{}
	svc := newTestService(ops, sessions, &fakeMailer{}, newFakeLimiter())

	_, err := svc.Validate(context.Background(), ValidateInput{Login: "ana@example.com", Secret: "wrong"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	assert.Equal(t, 1, ops.failedIncr["ana@example.com"])
	assert.Empty(t, sessions.audits)
	assert.Empty(t, sessions.sessions)
}

func TestValidateMailFailureIsNotFatal(t *testing.T) {
	ops := newFakeOperatorStore(testOperator(t, "ana@example.com", "hunter2"))
	sessions := &fakeSessionStore{}
	mailer := &fakeMailer{err: errors.New("relay down")}
	svc := newTestService(ops, sessions, mailer, newFakeLimiter())

	_, err := svc.Validate(context.Background(), ValidateInput{Login: "ana@example.com", Secret: "hunter2"})
	require.NoError(t, err)
	assert.Len(t, sessions.sessions, 1)
}

func TestVerifyReconcilesToLatestSession(t *testing.T) {
	ops := newFakeOperatorStore(testOperator(t, "ana@example.com", "hunter2"))
	sessions := &fakeSessionStore{}
	svc := newTestService(ops, sessions, &fakeMailer{}, newFakeLimiter())

	ctx := context.Background()
	input := ValidateInput{Login: "ana@example.com", Secret: "hunter2", IP: "203.0.113.9"}
	_, err := svc.Validate(ctx, input)
	require.NoError(t, err)
	_, err = svc.Validate(ctx, input)
	require.NoError(t, err)

	require.Len(t, sessions.sessions, 2)
	require.Len(t, sessions.audits, 2)
	oldCode := sessions.sessions[0].VerificationCode
	latest := sessions.sessions[1]

	// The first session's code is stale once a second validar ran.
	_, err = svc.Verify(ctx, VerifyInput{Login: "ana@example.com", Code: oldCode})
	assert.ErrorIs(t, err, ErrCodeMismatch)

	result, err := svc.Verify(ctx, VerifyInput{Login: "ana@example.com", Code: latest.VerificationCode})
	require.NoError(t, err)
	assert.Equal(t, latest.Token, result.Token)
	assert.Equal(t, "ana@example.com", result.Operator.Login)
	require.Len(t, result.Entitlements, 1)
	assert.Equal(t, "Ventas", result.Entitlements[0].MenuName)

	// Audits are append-only; active sessions collapse to the survivor.
	assert.Len(t, sessions.audits, 2)
	require.Len(t, sessions.sessions, 1)
	assert.Equal(t, latest.ID, sessions.sessions[0].ID)
}

func TestVerifyNoActiveSession(t *testing.T) {
	svc := newTestService(newFakeOperatorStore(), &fakeSessionStore{}, &fakeMailer{}, newFakeLimiter())

	_, err := svc.Verify(context.Background(), VerifyInput{Login: "ana@example.com", Code: "deadbeef"})
	assert.ErrorIs(t, err, ErrNoActiveSession)
}

func TestVerifyMismatchRecordsMiss(t *testing.T) {
	ops := newFakeOperatorStore(testOperator(t, "ana@example.com", "hunter2"))
	sessions := &fakeSessionStore{}
	limiter := newFakeLimiter()
	svc := newTestService(ops, sessions, &fakeMailer{}, limiter)

	ctx := context.Background()
	_, err := svc.Validate(ctx, ValidateInput{Login: "ana@example.com", Secret: "hunter2"})
	require.NoError(t, err)

	_, err = svc.Verify(ctx, VerifyInput{Login: "ana@example.com", Code: "0000"})
	assert.ErrorIs(t, err, ErrCodeMismatch)
	assert.Equal(t, 1, limiter.misses["ana@example.com"])
	assert.Len(t, sessions.sessions, 1)
}

func TestVerifyBlockedByLimiter(t *testing.T) {
	ops := newFakeOperatorStore(testOperator(t, "ana@example.com", "hunter2"))
	limiter := newFakeLimiter()
	limiter.blocked = true
	svc := newTestService(ops, &fakeSessionStore{}, &fakeMailer{}, limiter)

	_, err := svc.Verify(context.Background(), VerifyInput{Login: "ana@example.com", Code: "deadbeef"})
	assert.ErrorIs(t, err, ErrTooManyAttempts)
}

func TestVerifySuccessResetsLimiter(t *testing.T) {
	ops := newFakeOperatorStore(testOperator(t, "ana@example.com", "hunter2"))
	sessions := &fakeSessionStore{}
	limiter := newFakeLimiter()
	svc := newTestService(ops, sessions, &fakeMailer{}, limiter)

	ctx := context.Background()
	_, err := svc.Validate(ctx, ValidateInput{Login: "ana@example.com", Secret: "hunter2"})
	require.NoError(t, err)

	_, err = svc.Verify(ctx, VerifyInput{Login: "ana@example.com", Code: sessions.sessions[0].VerificationCode})
	require.NoError(t, err)
	assert.Equal(t, 1, limiter.resets)
}

func TestVerifyOperatorWithoutCompanyGetsEmptyEntitlements(t *testing.T) {
	op := testOperator(t, "solo@example.com", "hunter2")
	op.CompanyID = nil
	ops := newFakeOperatorStore(op)
	sessions := &fakeSessionStore{}
	svc := newTestService(ops, sessions, &fakeMailer{}, newFakeLimiter())

	ctx := context.Background()
	_, err := svc.Validate(ctx, ValidateInput{Login: "solo@example.com", Secret: "hunter2"})
	require.NoError(t, err)

	result, err := svc.Verify(ctx, VerifyInput{Login: "solo@example.com", Code: sessions.sessions[0].VerificationCode})
	require.NoError(t, err)
	assert.NotNil(t, result.Entitlements)
	assert.Empty(t, result.Entitlements)
}

func TestLogoutIsNotIdempotent(t *testing.T) {
	ops := newFakeOperatorStore(testOperator(t, "ana@example.com", "hunter2"))
	sessions := &fakeSessionStore{}
	svc := newTestService(ops, sessions, &fakeMailer{}, newFakeLimiter())

	ctx := context.Background()
	_, err := svc.Validate(ctx, ValidateInput{Login: "ana@example.com", Secret: "hunter2"})
	require.NoError(t, err)
	token := sessions.sessions[0].Token

	require.NoError(t, svc.Logout(ctx, token))
	assert.ErrorIs(t, svc.Logout(ctx, token), ErrActiveSessionNotFound)
}

func TestSessionByToken(t *testing.T) {
	ops := newFakeOperatorStore(testOperator(t, "ana@example.com", "hunter2"))
	sessions := &fakeSessionStore{}
	svc := newTestService(ops, sessions, &fakeMailer{}, newFakeLimiter())

	ctx := context.Background()
	_, err := svc.Validate(ctx, ValidateInput{Login: "ana@example.com", Secret: "hunter2"})
	require.NoError(t, err)
	token := sessions.sessions[0].Token

	info, err := svc.SessionByToken(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, token, info.Session.Token)
	assert.Equal(t, "ana@example.com", info.Operator.Login)
	require.Len(t, info.Entitlements, 1)

	_, err = svc.SessionByToken(ctx, "no-such-token")
	assert.ErrorIs(t, err, ErrActiveSessionNotFound)
}
