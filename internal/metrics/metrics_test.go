package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHandlerExposesCounters(t *testing.T) {
	m := New()
	m.OverdueScans.Inc()
	m.RemindersSent.WithLabelValues("sent").Add(2)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	body := rec.Body.String()
	assert.Contains(t, body, "lexdesk_overdue_scans_total 1")
	assert.Contains(t, body, `lexdesk_reminders_total{result="sent"} 2`)
}

func TestNewIsIsolated(t *testing.T) {
	assert.NotPanics(t, func() {
		New()
		New()
	})
}
