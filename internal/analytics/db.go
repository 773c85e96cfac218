package analytics

import (
	"context"

	"github.com/uptrace/bun"
)

// DB reads edit history from the SQLite revision table.
type DB struct {
	bun *bun.DB
}

func NewDB(db *bun.DB) *DB {
	return &DB{bun: db}
}

// DailyRevisionMetrics summarizes the saves made on one UTC day.
type DailyRevisionMetrics struct {
	Date      string `bun:"save_date" json:"date"`
	Saves     int    `bun:"saves" json:"saves"`
	MaxEvents int    `bun:"max_events" json:"max_events"`
}

// GetDailyRevisions groups saved revisions by the day of their lastUpdated stamp.
func (db *DB) GetDailyRevisions(ctx context.Context) ([]DailyRevisionMetrics, error) {
	var daily []DailyRevisionMetrics
	err := db.bun.NewRaw(`
		SELECT
			substr(last_updated, 1, 10) AS save_date,
			COUNT(*) AS saves,
			MAX(event_count) AS max_events
		FROM
			document_revisions
		GROUP BY
			save_date
		ORDER BY
			save_date
	`).Scan(ctx, &daily)

	return daily, err
}
