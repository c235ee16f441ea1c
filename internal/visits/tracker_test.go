package visits

import (
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/ayush-velhal/portfolio/internal/database"
)

func newTestTracker(t *testing.T) *Tracker {
	t.Helper()
	db, err := database.Open(filepath.Join(t.TempDir(), "portfolio.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	tr, err := NewTracker(db, "test-salt", zaptest.NewLogger(t))
	require.NoError(t, err)
	return tr
}

func TestTracker_HashIP(t *testing.T) {
	tr := newTestTracker(t)

	h := tr.HashIP("203.0.113.7")
	assert.Len(t, h, 16)
	assert.Equal(t, h, tr.HashIP("203.0.113.7"))
	assert.NotEqual(t, h, tr.HashIP("203.0.113.8"))
}

func TestTracker_Counts(t *testing.T) {
	tr := newTestTracker(t)

	require.NoError(t, tr.Record("203.0.113.7", "about"))
	require.NoError(t, tr.Record("203.0.113.7", "about"))
	require.NoError(t, tr.Record("203.0.113.8", "about"))
	require.NoError(t, tr.Record("203.0.113.8", "contact"))

	stats, err := tr.Counts()
	require.NoError(t, err)
	assert.Equal(t, int64(4), stats.Total)
	assert.Equal(t, int64(2), stats.Unique)
	assert.Equal(t, []ViewStats{
		{View: "about", Total: 3, Unique: 2},
		{View: "contact", Total: 1, Unique: 1},
	}, stats.Views)
}

func TestTracker_CountsEmpty(t *testing.T) {
	stats, err := newTestTracker(t).Counts()
	require.NoError(t, err)
	assert.Equal(t, int64(0), stats.Total)
	assert.Empty(t, stats.Views)
}

func TestTracker_Cleanup(t *testing.T) {
	tr := newTestTracker(t)
	now := time.Date(2025, 9, 1, 12, 0, 0, 0, time.UTC)

	tr.now = func() time.Time { return now.Add(-Retention - time.Hour) }
	require.NoError(t, tr.Record("203.0.113.7", "about"))
	tr.now = func() time.Time { return now }
	require.NoError(t, tr.Record("203.0.113.7", "projects"))

	n, err := tr.Cleanup()
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	stats, err := tr.Counts()
	require.NoError(t, err)
	require.Len(t, stats.Views, 1)
	assert.Equal(t, "projects", stats.Views[0].View)
}

func TestTracker_Middleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	tr := newTestTracker(t)

	r := gin.New()
	r.Use(tr.Middleware())
	r.GET("/view/about", func(c *gin.Context) {
		c.Set(ViewKey, "about")
		c.String(http.StatusOK, "ok")
	})
	r.GET("/healthz", func(c *gin.Context) { c.String(http.StatusOK, "ok") })
	r.GET("/broken", func(c *gin.Context) {
		c.Set(ViewKey, "about")
		c.Status(http.StatusInternalServerError)
	})

	do := func(path string, dnt bool) {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		if dnt {
			req.Header.Set("DNT", "1")
		}
		r.ServeHTTP(httptest.NewRecorder(), req)
	}

	do("/view/about", false)
	do("/view/about", true)
	do("/healthz", false)
	do("/broken", false)

	stats, err := tr.Counts()
	require.NoError(t, err)
	assert.Equal(t, int64(1), stats.Total)
}
