// Package visits counts view renders without storing raw visitor IPs.
package visits

import (
	"crypto/rand"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ViewKey is the gin context key a handler sets to the slug of the view it
// rendered. Requests without it are not recorded.
const ViewKey = "visits.view"

// Retention is how long visit rows are kept.
const Retention = 365 * 24 * time.Hour

// ViewStats is the visit count for one view.
type ViewStats struct {
	View   string `json:"view"`
	Total  int64  `json:"total"`
	Unique int64  `json:"unique"`
}

// Stats summarizes all recorded visits.
type Stats struct {
	Total  int64       `json:"total"`
	Unique int64       `json:"unique"`
	Views  []ViewStats `json:"views"`
}

// Tracker records visits in SQLite with salted, truncated IP hashes.
type Tracker struct {
	db     *sql.DB
	salt   string
	logger *zap.Logger
	now    func() time.Time
}

const createVisitsTable = `
CREATE TABLE IF NOT EXISTS visits (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	hashed_ip TEXT NOT NULL,
	view TEXT NOT NULL,
	timestamp INTEGER NOT NULL
)`

// NewTracker prepares the visits table. An empty salt is replaced with a
// random one, so hashes are only comparable within one process lifetime.
func NewTracker(db *sql.DB, salt string, logger *zap.Logger) (*Tracker, error) {
	if _, err := db.Exec(createVisitsTable); err != nil {
		return nil, fmt.Errorf("failed to create visits table: %w", err)
	}
	if _, err := db.Exec(`CREATE INDEX IF NOT EXISTS idx_visits_view ON visits(view)`); err != nil {
		return nil, fmt.Errorf("failed to create visits index: %w", err)
	}
	if salt == "" {
		var err error
		if salt, err = GenerateSalt(); err != nil {
			return nil, err
		}
		logger.Info("Visit tracking uses a per-process salt; set VISIT_SALT to keep unique counts across restarts")
	}
	return &Tracker{db: db, salt: salt, logger: logger, now: time.Now}, nil
}

// GenerateSalt returns 32 random bytes, hex encoded.
func GenerateSalt() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("failed to generate salt: %w", err)
	}
	return hex.EncodeToString(b), nil
}

// HashIP returns the salted hash stored instead of ip.
func (t *Tracker) HashIP(ip string) string {
	sum := sha256.Sum256([]byte(ip + t.salt))
	return hex.EncodeToString(sum[:])[:16]
}

// Record stores one visit to view.
func (t *Tracker) Record(ip, view string) error {
	_, err := t.db.Exec(`
		INSERT INTO visits (hashed_ip, view, timestamp)
		VALUES (?, ?, ?)
	`, t.HashIP(ip), view, t.now().Unix())
	if err != nil {
		return fmt.Errorf("failed to record visit: %w", err)
	}
	return nil
}

// Cleanup deletes visits older than Retention and returns how many went.
func (t *Tracker) Cleanup() (int64, error) {
	cutoff := t.now().Add(-Retention).Unix()
	res, err := t.db.Exec(`DELETE FROM visits WHERE timestamp < ?`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to clean up visits: %w", err)
	}
	n, _ := res.RowsAffected()
	if n > 0 {
		t.logger.Info("Removed expired visit records", zap.Int64("rows", n))
	}
	return n, nil
}

// Counts returns total and unique visits overall and per view.
func (t *Tracker) Counts() (*Stats, error) {
	stats := &Stats{Views: []ViewStats{}}

	err := t.db.QueryRow(`SELECT COUNT(*), COUNT(DISTINCT hashed_ip) FROM visits`).
		Scan(&stats.Total, &stats.Unique)
	if err != nil {
		return nil, fmt.Errorf("failed to count visits: %w", err)
	}

	rows, err := t.db.Query(`
		SELECT view, COUNT(*), COUNT(DISTINCT hashed_ip)
		FROM visits
		GROUP BY view
		ORDER BY view
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to count visits per view: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var v ViewStats
		if err := rows.Scan(&v.View, &v.Total, &v.Unique); err != nil {
			return nil, fmt.Errorf("failed to read visit counts: %w", err)
		}
		stats.Views = append(stats.Views, v)
	}
	return stats, rows.Err()
}

// Middleware records the view a successful request rendered. Requests
// carrying "DNT: 1" are never recorded, and failures only get logged.
func (t *Tracker) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		view := c.GetString(ViewKey)
		if view == "" || c.Writer.Status() >= http.StatusBadRequest {
			return
		}
		if c.GetHeader("DNT") == "1" {
			return
		}
		if err := t.Record(c.ClientIP(), view); err != nil {
			t.logger.Warn("Error recording visit", zap.Error(err))
		}
	}
}
