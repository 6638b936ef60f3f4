package store

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
)

const schema = `
CREATE TABLE IF NOT EXISTS partners (
    partner_id   INTEGER PRIMARY KEY,
    partner_name TEXT NOT NULL,
    vertical     TEXT NOT NULL,
    tier         TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS campaigns (
    campaign_id          INTEGER PRIMARY KEY,
    partner_id           INTEGER NOT NULL REFERENCES partners(partner_id),
    campaign_name        TEXT NOT NULL,
    vertical             TEXT NOT NULL,
    start_date           DATE NOT NULL,
    end_date             DATE NOT NULL,
    landing_page_variant TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS traffic (
    traffic_id  SERIAL PRIMARY KEY,
    campaign_id INTEGER NOT NULL REFERENCES campaigns(campaign_id),
    date        DATE NOT NULL,
    impressions INTEGER NOT NULL,
    clicks      INTEGER NOT NULL,
    device_type TEXT NOT NULL,
    channel     TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS conversions (
    conversion_id     SERIAL PRIMARY KEY,
    campaign_id       INTEGER NOT NULL REFERENCES campaigns(campaign_id),
    date              DATE NOT NULL,
    orders            INTEGER NOT NULL,
    revenue           DOUBLE PRECISION NOT NULL,
    commission_paid   DOUBLE PRECISION NOT NULL,
    new_customer_flag BOOLEAN NOT NULL DEFAULT FALSE
);

CREATE INDEX IF NOT EXISTS idx_traffic_campaign_date ON traffic(campaign_id, date);
CREATE INDEX IF NOT EXISTS idx_conversions_campaign_date ON conversions(campaign_id, date);
`

// EnsureSchema creates the four tables if they do not exist yet.
func EnsureSchema(ctx context.Context, db *sqlx.DB) error {
	if _, err := db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("ensure schema: %w", err)
	}
	return nil
}
