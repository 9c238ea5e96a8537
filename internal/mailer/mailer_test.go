package mailer

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"backoffice/api/internal/config"
)

func newTestMailer(t *testing.T, handler http.HandlerFunc) *Mailer {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	return New(config.MailerConfig{
		RelayURL: server.URL,
		Sender:   "DM",
		Timeout:  5 * time.Second,
	})
}

func TestSendVerificationCode(t *testing.T) {
	var form map[string]string
	m := newTestMailer(t, func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		form = map[string]string{
			"destino": r.PostFormValue("destino"),
			"asunto":  r.PostFormValue("asunto"),
			"detalle": r.PostFormValue("detalle"),
			"from":    r.PostFormValue("from"),
		}
		w.WriteHeader(http.StatusOK)
	})

	err := m.SendVerificationCode(context.Background(), "ana@example.com", "deadbeefcafe")
	require.NoError(t, err)

	assert.Equal(t, "ana@example.com", form["destino"])
	assert.Equal(t, "Código de Verificación", form["asunto"])
	assert.Equal(t, "Hola, tu código de verificación es: deadbeefcafe", form["detalle"])
	assert.Equal(t, "DM", form["from"])
}

func TestSendRelayError(t *testing.T) {
	m := newTestMailer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})

	err := m.Send(context.Background(), "ana@example.com", "Asunto", "Detalle")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "502")
}
