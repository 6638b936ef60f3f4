// Package store owns the Postgres side of the system: connection setup,
// schema, synthetic seeding support and the snapshot loader the analytics
// core consumes. The core itself never touches the database.
package store

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"

	"github.com/commercedesk/affiliate-kpi/internal/models"
	"github.com/commercedesk/affiliate-kpi/internal/utils"
)

// Open connects to Postgres and verifies the connection, retrying the ping
// with exponential backoff while the database comes up.
func Open(ctx context.Context, dsn string) (*sqlx.DB, error) {
	db, err := sqlx.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	b := utils.NewBackoff(200*time.Millisecond, 4)
	if err := b.Do(ctx, func(int) error { return db.PingContext(ctx) }); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	return db, nil
}

// Loader reads the joined daily snapshot. The DSN and connection are injected
// by the caller; the loader holds no defaults of its own.
type Loader struct {
	db  *sqlx.DB
	log *slog.Logger
}

func NewLoader(db *sqlx.DB, log *slog.Logger) *Loader {
	return &Loader{db: db, log: log}
}

// Traffic is a daily aggregate per campaign; conversions may be absent for
// days with traffic but no sales, hence the left join and the COALESCE fills.
const snapshotQuery = `
SELECT
    t.date,
    t.campaign_id,
    t.device_type,
    t.channel,
    t.impressions,
    t.clicks,
    COALESCE(c.orders, 0)            AS orders,
    COALESCE(c.revenue, 0.0)         AS revenue,
    COALESCE(c.commission_paid, 0.0) AS commission_paid,
    p.partner_name,
    p.vertical,
    camp.campaign_name,
    camp.landing_page_variant
FROM traffic t
LEFT JOIN conversions c ON t.campaign_id = c.campaign_id AND t.date = c.date
JOIN campaigns camp ON t.campaign_id = camp.campaign_id
JOIN partners p ON camp.partner_id = p.partner_id
ORDER BY t.traffic_id`

// Load returns all joined records with nulls filled.
func (l *Loader) Load(ctx context.Context) ([]models.Record, error) {
	out := []models.Record{}
	if err := l.db.SelectContext(ctx, &out, snapshotQuery); err != nil {
		return nil, fmt.Errorf("load snapshot: %w", err)
	}
	utils.SnapshotRows.Set(float64(len(out)))
	l.log.Debug("snapshot loaded", slog.Int("rows", len(out)))
	return out, nil
}
