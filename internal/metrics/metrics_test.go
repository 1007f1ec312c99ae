package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics_Counters(t *testing.T) {
	m := New()

	m.Registration("success")
	m.Registration("success")
	m.Login("incorrect_password")
	m.Verification("invalid_token")
	m.VerificationMail("failed")

	assert.Equal(t, 2.0, testutil.ToFloat64(m.registrations.WithLabelValues("success")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.logins.WithLabelValues("incorrect_password")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.verifications.WithLabelValues("invalid_token")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.verificationMail.WithLabelValues("failed")))
}

func TestMetrics_NilIsNoop(t *testing.T) {
	var m *Metrics

	assert.NotPanics(t, func() {
		m.Registration("success")
		m.Login("success")
		m.Verification("success")
		m.VerificationMail("sent")
	})
}

func TestMetrics_Handler(t *testing.T) {
	m := New()
	m.Login("success")

	rr := httptest.NewRecorder()
	m.Handler().ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rr.Code)

	body, err := io.ReadAll(rr.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), `auth_logins_total{result="success"} 1`)
}
