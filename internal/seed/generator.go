// Package seed populates the database with a deterministic synthetic history
// of partners, campaigns, daily traffic and conversions, for local
// development and demos.
package seed

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"math/rand"
	"time"

	"github.com/jmoiron/sqlx"
)

// Config controls the shape of the generated dataset. The seed is explicit so
// runs are reproducible; there is no package-level RNG.
type Config struct {
	Partners  int
	Campaigns int
	Days      int
	Seed      int64
}

type Generator struct {
	db  *sqlx.DB
	cfg Config
	rng *rand.Rand
	log *slog.Logger
	now func() time.Time
}

func New(db *sqlx.DB, cfg Config, log *slog.Logger) *Generator {
	return &Generator{
		db:  db,
		cfg: cfg,
		rng: rand.New(rand.NewSource(cfg.Seed)),
		log: log,
		now: time.Now,
	}
}

var (
	verticals = []string{"Tech", "Fashion", "Home", "Beauty", "Finance"}
	tiers     = []string{"Gold", "Silver", "Bronze"}
	suffixes  = []string{"Media", "Blog", "News", "Reviews"}
	devices   = []string{"Mobile", "Desktop", "Tablet"}
	channels  = []string{"Organic", "Social", "Email", "Paid Search"}
)

type partnerRow struct {
	id       int
	name     string
	vertical string
	tier     string
}

type campaignRow struct {
	id        int
	partnerID int
	name      string
	vertical  string
	variant   string
}

// Run generates and inserts the full dataset in one transaction.
func (g *Generator) Run(ctx context.Context) error {
	end := g.now().Truncate(24 * time.Hour)
	start := end.AddDate(0, 0, -g.cfg.Days)

	partners := g.makePartners()
	campaigns := g.makeCampaigns(partners)

	tx, err := g.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin seed tx: %w", err)
	}
	defer tx.Rollback()

	for _, p := range partners {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO partners (partner_id, partner_name, vertical, tier) VALUES ($1, $2, $3, $4)`,
			p.id, p.name, p.vertical, p.tier); err != nil {
			return fmt.Errorf("insert partner %d: %w", p.id, err)
		}
	}
	for _, c := range campaigns {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO campaigns (campaign_id, partner_id, campaign_name, vertical, start_date, end_date, landing_page_variant)
			 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
			c.id, c.partnerID, c.name, c.vertical, start, end, c.variant); err != nil {
			return fmt.Errorf("insert campaign %d: %w", c.id, err)
		}
	}

	trafficRows, conversionRows := 0, 0
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		factor := 1.0
		if wd := d.Weekday(); wd == time.Saturday || wd == time.Sunday {
			factor = 1.2
		}
		for _, c := range campaigns {
			// Campaigns go dark on some days.
			if g.rng.Float64() < 0.1 {
				continue
			}
			impressions := g.impressions(factor)
			clicks := g.clicks(impressions)
			if clicks == 0 {
				continue
			}
			if _, err := tx.ExecContext(ctx,
				`INSERT INTO traffic (campaign_id, date, impressions, clicks, device_type, channel)
				 VALUES ($1, $2, $3, $4, $5, $6)`,
				c.id, d, impressions, clicks, pick(g.rng, devices), pick(g.rng, channels)); err != nil {
				return fmt.Errorf("insert traffic: %w", err)
			}
			trafficRows++

			orders, revenue, commission := g.conversion(clicks, c.variant)
			if _, err := tx.ExecContext(ctx,
				`INSERT INTO conversions (campaign_id, date, orders, revenue, commission_paid, new_customer_flag)
				 VALUES ($1, $2, $3, $4, $5, $6)`,
				c.id, d, orders, revenue, commission, orders > 0 && g.rng.Intn(2) == 0); err != nil {
				return fmt.Errorf("insert conversion: %w", err)
			}
			conversionRows++
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit seed tx: %w", err)
	}
	g.log.Info("seed complete",
		slog.Int("partners", len(partners)),
		slog.Int("campaigns", len(campaigns)),
		slog.Int("traffic_rows", trafficRows),
		slog.Int("conversion_rows", conversionRows))
	return nil
}

func (g *Generator) makePartners() []partnerRow {
	out := make([]partnerRow, 0, g.cfg.Partners)
	for i := 1; i <= g.cfg.Partners; i++ {
		out = append(out, partnerRow{
			id:       i,
			name:     fmt.Sprintf("Partner_%d_%s", i, pick(g.rng, suffixes)),
			vertical: pick(g.rng, verticals),
			tier:     pick(g.rng, tiers),
		})
	}
	return out
}

func (g *Generator) makeCampaigns(partners []partnerRow) []campaignRow {
	out := make([]campaignRow, 0, g.cfg.Campaigns)
	for i := 1; i <= g.cfg.Campaigns; i++ {
		p := pick(g.rng, partners)
		out = append(out, campaignRow{
			id:        i,
			partnerID: p.id,
			name:      fmt.Sprintf("%s_Promo_%d", p.vertical, i),
			vertical:  p.vertical,
			variant:   pick(g.rng, []string{"A", "B"}),
		})
	}
	return out
}

// impressions draws from a lognormal(6, 1) scaled by the weekend factor,
// landing mostly in the ~400-1000 range.
func (g *Generator) impressions(factor float64) int {
	return int(math.Exp(g.rng.NormFloat64()+6.0) * factor)
}

// clicks applies a CTR between 0.5% and 3.5%, never exceeding impressions.
func (g *Generator) clicks(impressions int) int {
	ctr := uniformIn(g.rng, 0.005, 0.035)
	clicks := int(float64(impressions) * ctr)
	if clicks > impressions {
		clicks = impressions
	}
	return clicks
}

// conversion simulates daily orders for a traffic row. Variant B landing
// pages convert 15% better. Days without orders still produce a zero row.
func (g *Generator) conversion(clicks int, variant string) (orders int, revenue, commission float64) {
	cvr := uniformIn(g.rng, 0.02, 0.08)
	if variant == "B" {
		cvr *= 1.15
	}
	orders = binomial(g.rng, clicks, cvr)
	if orders == 0 {
		return 0, 0, 0
	}
	aov := g.rng.NormFloat64()*20 + 60
	if aov < 15 {
		aov = 15
	}
	revenue = round2(float64(orders) * aov)
	commission = round2(revenue * uniformIn(g.rng, 0.20, 0.40))
	return orders, revenue, commission
}

func pick[T any](rng *rand.Rand, s []T) T { return s[rng.Intn(len(s))] }

func uniformIn(rng *rand.Rand, lo, hi float64) float64 {
	return lo + rng.Float64()*(hi-lo)
}

func binomial(rng *rand.Rand, n int, p float64) int {
	k := 0
	for i := 0; i < n; i++ {
		if rng.Float64() < p {
			k++
		}
	}
	return k
}

func round2(f float64) float64 { return float64(int64(f*100+0.5)) / 100 }
