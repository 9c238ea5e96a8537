package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"backoffice/api/internal/config"
	"backoffice/api/internal/models"
	"backoffice/api/internal/repository"
	"backoffice/api/internal/security"
	"backoffice/api/internal/service"
)

type stubOperators struct {
	byLogin map[string]models.Operator
	failed  map[string]int
}

func (s *stubOperators) FindByLogin(_ context.Context, login string) (models.Operator, error) {
	op, ok := s.byLogin[login]
	if !ok {
		return models.Operator{}, repository.ErrOperatorNotFound
	}
	return op, nil
}

func (s *stubOperators) IncrementFailedConnections(_ context.Context, login string) error {
	s.failed[login]++
	return nil
}

type stubSessions struct {
	rows   []models.ActiveSession
	nextID int64
}

func (s *stubSessions) CreateLoginCeremony(_ context.Context, _ models.LoginAudit, session models.ActiveSession) (models.ActiveSession, error) {
	s.nextID++
	session.ID = s.nextID
	s.rows = append(s.rows, session)
	return session, nil
}

func (s *stubSessions) ListActiveByLogin(_ context.Context, login string) ([]models.ActiveSession, error) {
	var out []models.ActiveSession
	for i := len(s.rows) - 1; i >= 0; i-- {
		if s.rows[i].OperatorLogin == login {
			out = append(out, s.rows[i])
		}
	}
	return out, nil
}

func (s *stubSessions) DeleteActiveOthers(_ context.Context, login string, keepID int64) error {
	kept := s.rows[:0]
	for _, row := range s.rows {
		if row.OperatorLogin == login && row.ID != keepID {
			continue
		}
		kept = append(kept, row)
	}
	s.rows = kept
	return nil
}

func (s *stubSessions) FindActiveByToken(_ context.Context, token string) (models.ActiveSession, error) {
	for _, row := range s.rows {
		if row.Token == token {
			return row, nil
		}
	}
	return models.ActiveSession{}, repository.ErrActiveSessionNotFound
}

func (s *stubSessions) DeleteActiveByToken(_ context.Context, token string) error {
	for i, row := range s.rows {
		if row.Token == token {
			s.rows = append(s.rows[:i], s.rows[i+1:]...)
			return nil
		}
	}
	return repository.ErrActiveSessionNotFound
}

type stubEntitlements struct{}

func (stubEntitlements) ListForOperator(_ context.Context, _ int64, _ int64) ([]models.Entitlement, error) {
	icon := "fa-gear"
	return []models.Entitlement{{MenuName: "Configuración", CompanyModuleID: 9, Icon: &icon}}, nil
}

type stubMailer struct{ sent int }

func (m *stubMailer) SendVerificationCode(_ context.Context, _ string, _ string) error {
	m.sent++
	return nil
}

type noopLimiter struct{}

func (noopLimiter) TooManyMisses(_ context.Context, _ string) (bool, error) { return false, nil }
func (noopLimiter) RecordMiss(_ context.Context, _ string) error            { return nil }
func (noopLimiter) Reset(_ context.Context, _ string) error                 { return nil }

type authTestEnv struct {
	router   *gin.Engine
	sessions *stubSessions
	mailer   *stubMailer
}

func newAuthTestEnv(t *testing.T) *authTestEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	hash, err := security.HashSecret("hunter2")
	require.NoError(t, err)
	companyID := int64(7)
	ops := &stubOperators{
		byLogin: map[string]models.Operator{
			"ana@example.com": {
				ID:         42,
				Login:      "ana@example.com",
				SecretHash: hash,
				FirstNames: "Ana",
				Email:      "ana@example.com",
				Status:     models.OperatorStatusActive,
				CompanyID:  &companyID,
			},
		},
		failed: make(map[string]int),
	}

	cfg := &config.AppConfig{
		Security: config.SecurityConfig{
			TokenSecret: "test-secret",
			TokenTTL:    24 * time.Hour,
		},
	}

	sessions := &stubSessions{}
	mailer := &stubMailer{}
	auth := service.NewAuthService(ops, sessions, stubEntitlements{}, mailer, noopLimiter{}, cfg, zerolog.Nop())

	h := HandlerSet{log: zerolog.Nop(), cfg: cfg, authService: auth}
	router := gin.New()
	h.Register(router.Group("/api"))

	return &authTestEnv{router: router, sessions: sessions, mailer: mailer}
}

func (e *authTestEnv) do(method, path, body string, cookie *http.Cookie) *httptest.ResponseRecorder {
	var reader *strings.Reader
	if body != "" {
		reader = strings.NewReader(body)
	} else {
		reader = strings.NewReader("")
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if cookie != nil {
		req.AddCookie(cookie)
	}
	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestValidateMissingFields(t *testing.T) {
	env := newAuthTestEnv(t)

	cases := []string{
		`{}`,
		`{"operador_id": "ana@example.com"}`,
		`{"clear": "hunter2"}`,
		`{"operador_id": "", "clear": ""}`,
		`not json`,
	}
	for _, payload := range cases {
		rec := env.do(http.MethodPost, "/api/operadores/validar", payload, nil)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.JSONEq(t, `{"error": "Se requieren 'operador_id' y 'clear'"}`, rec.Body.String())
	}
}

func TestValidateUnknownOperator(t *testing.T) {
	env := newAuthTestEnv(t)

	rec := env.do(http.MethodPost, "/api/operadores/validar", `{"operador_id": "nadie@example.com", "clear": "x"}`, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.JSONEq(t, `{"error": "No existe un operador con esos datos"}`, rec.Body.String())
}

func TestValidateWrongSecret(t *testing.T) {
	env := newAuthTestEnv(t)

	rec := env.do(http.MethodPost, "/api/operadores/validar", `{"operador_id": "ana@example.com", "clear": "wrong"}`, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Len(t, env.sessions.rows, 0)
}

func TestValidateThenVerify(t *testing.T) {
	env := newAuthTestEnv(t)

	rec := env.do(http.MethodPost, "/api/operadores/validar", `{"operador_id": "ana@example.com", "clear": "hunter2"}`, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"operador_id": "ana@example.com"}`, rec.Body.String())
	require.Len(t, env.sessions.rows, 1)
	assert.Equal(t, 1, env.mailer.sent)

	code := env.sessions.rows[0].VerificationCode
	rec = env.do(http.MethodPost, "/api/operadores/verificar",
		fmt.Sprintf(`{"operador_id": "ana@example.com", "cod_verificacion": %q}`, code), nil)
	require.Equal(t, http.StatusOK, rec.Code)

	body := decodeBody(t, rec)
	assert.Equal(t, "Verificación exitosa.", body["message"])

	profile, ok := body["operador"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "ana@example.com", profile["operador_id"])
	assert.NotContains(t, profile, "id")
	assert.NotContains(t, profile, "conexion_fallida")
	assert.NotContains(t, profile, "clear")

	menus, ok := body["modulos"].([]any)
	require.True(t, ok)
	require.Len(t, menus, 1)

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	cookie := cookies[0]
	assert.Equal(t, "token", cookie.Name)
	assert.Equal(t, env.sessions.rows[0].Token, cookie.Value)
	assert.Equal(t, "/", cookie.Path)
	assert.Equal(t, 86400, cookie.MaxAge)
	assert.True(t, cookie.Secure)
	assert.True(t, cookie.HttpOnly)
	assert.Equal(t, http.SameSiteNoneMode, cookie.SameSite)
}

func TestVerifyMissingFields(t *testing.T) {
	env := newAuthTestEnv(t)

	rec := env.do(http.MethodPost, "/api/operadores/verificar", `{"operador_id": "ana@example.com"}`, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"error": "Se requieren 'operador_id' y 'cod_verificacion'"}`, rec.Body.String())
}

func TestVerifyWithoutSession(t *testing.T) {
	env := newAuthTestEnv(t)

	rec := env.do(http.MethodPost, "/api/operadores/verificar",
		`{"operador_id": "ana@example.com", "cod_verificacion": "deadbeef"}`, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.JSONEq(t, `{"error": "No se encontró ninguna sesión activa para este operador."}`, rec.Body.String())
}

func TestVerifyCodeMismatch(t *testing.T) {
	env := newAuthTestEnv(t)

	rec := env.do(http.MethodPost, "/api/operadores/validar", `{"operador_id": "ana@example.com", "clear": "hunter2"}`, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = env.do(http.MethodPost, "/api/operadores/verificar",
		`{"operador_id": "ana@example.com", "cod_verificacion": "00000000000000000000000000000000"}`, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"error": "El código de verificación no coincide con la sesión activa más reciente."}`, rec.Body.String())
	// Mismatch does not consume the session.
	assert.Len(t, env.sessions.rows, 1)
}

func TestLogoutLifecycle(t *testing.T) {
	env := newAuthTestEnv(t)

	rec := env.do(http.MethodGet, "/api/operadores/logout", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.JSONEq(t, `{"error": "No se encontró la cookie 'token' en la solicitud."}`, rec.Body.String())

	rec = env.do(http.MethodPost, "/api/operadores/validar", `{"operador_id": "ana@example.com", "clear": "hunter2"}`, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	token := env.sessions.rows[0].Token
	cookie := &http.Cookie{Name: "token", Value: token}

	rec = env.do(http.MethodGet, "/api/operadores/logout", "", cookie)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"message": "Sesión eliminada correctamente."}`, rec.Body.String())

	cleared := rec.Result().Cookies()
	require.Len(t, cleared, 1)
	assert.Equal(t, "token", cleared[0].Name)
	assert.Less(t, cleared[0].MaxAge, 0)

	// Same token again: the session row is gone.
	rec = env.do(http.MethodGet, "/api/operadores/logout", "", cookie)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.JSONEq(t, `{"error": "El token de la cookie no coincide con ninguna sesión activa."}`, rec.Body.String())
}

func TestSessionByCookie(t *testing.T) {
	env := newAuthTestEnv(t)

	rec := env.do(http.MethodGet, "/api/operadores/sesiones-activas-token", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = env.do(http.MethodPost, "/api/operadores/validar", `{"operador_id": "ana@example.com", "clear": "hunter2"}`, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	token := env.sessions.rows[0].Token

	rec = env.do(http.MethodGet, "/api/operadores/sesiones-activas-token", "", &http.Cookie{Name: "token", Value: token})
	require.Equal(t, http.StatusOK, rec.Code)

	body := decodeBody(t, rec)
	assert.Contains(t, body, "sesion_activa")
	assert.Contains(t, body, "operador_data")
	assert.Contains(t, body, "modulos")
}

func TestSessionByTokenParam(t *testing.T) {
	env := newAuthTestEnv(t)

	rec := env.do(http.MethodPost, "/api/operadores/validar", `{"operador_id": "ana@example.com", "clear": "hunter2"}`, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	token := env.sessions.rows[0].Token

	rec = env.do(http.MethodGet, "/api/operadores/sesiones-activas-token/"+token, "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = env.do(http.MethodDelete, "/api/operadores/sesiones-activas-token/"+token, "", nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = env.do(http.MethodDelete, "/api/operadores/sesiones-activas-token/"+token, "", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.JSONEq(t, `{"error": "El token no coincide con ninguna sesión activa."}`, rec.Body.String())
}

func TestProtectedRoutesRequireCookie(t *testing.T) {
	env := newAuthTestEnv(t)

	for _, path := range []string{
		"/api/operadores/operadores",
		"/api/coreempresas/empresa",
		"/api/configuracion/modulos",
	} {
		rec := env.do(http.MethodGet, path, "", nil)
		assert.Equal(t, http.StatusUnauthorized, rec.Code, path)
	}

	rec := env.do(http.MethodGet, "/api/operadores/operadores", "", &http.Cookie{Name: "token", Value: "garbage"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.JSONEq(t, `{"error": "Token inválido."}`, rec.Body.String())
}
