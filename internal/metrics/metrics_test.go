package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics_Counters(t *testing.T) {
	m := New()

	m.RecordSubmission(OutcomeAccepted)
	m.RecordSubmission(OutcomeAccepted)
	m.RecordSubmission(OutcomeInvalid)
	m.RecordView("about")
	m.RecordMissingAsset("portrait.jpg")

	assert.Equal(t, 2.0, testutil.ToFloat64(m.Submissions.WithLabelValues(OutcomeAccepted)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Submissions.WithLabelValues(OutcomeInvalid)))
	assert.Equal(t, 0.0, testutil.ToFloat64(m.Submissions.WithLabelValues(OutcomeStorageError)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.ViewRenders.WithLabelValues("about")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.AssetMissing.WithLabelValues("portrait.jpg")))
}

func TestMetrics_Handler(t *testing.T) {
	m := New()
	m.RecordView("contact")

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `portfolio_view_renders_total{view="contact"} 1`)
}
