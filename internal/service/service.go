// Package service wires the loader to the analytics core and applies the
// presentation-side sorting and pagination the read API exposes. Each request
// recomputes from a fresh snapshot; nothing is cached between calls.
package service

import (
	"context"
	"log/slog"
	"net/url"
	"sort"
	"strconv"

	"github.com/commercedesk/affiliate-kpi/internal/analytics"
	"github.com/commercedesk/affiliate-kpi/internal/models"
	"github.com/commercedesk/affiliate-kpi/internal/report"
)

// Loader returns all joined records with nulls filled.
type Loader interface {
	Load(ctx context.Context) ([]models.Record, error)
}

type Service struct {
	loader Loader
	asm    *report.Assembler
	log    *slog.Logger
}

func New(loader Loader, asm *report.Assembler, log *slog.Logger) *Service {
	return &Service{loader: loader, asm: asm, log: log}
}

// Overview is the scalar KPI payload: the ratio bundle plus the raw totals.
type Overview struct {
	KPIs   models.KPIBundle    `json:"kpis"`
	Totals models.MetricTotals `json:"totals"`
	Rows   int                 `json:"rows"`
}

func (s *Service) Overview(ctx context.Context) (Overview, error) {
	records, err := s.loader.Load(ctx)
	if err != nil {
		return Overview{}, err
	}
	kpis, totals := analytics.CalculateKPIs(records)
	return Overview{KPIs: kpis, Totals: totals, Rows: len(records)}, nil
}

// Partners returns the (partner, vertical) performance table. Without a sort
// parameter rows keep the engine's first-seen group order.
func (s *Service) Partners(ctx context.Context, v url.Values) ([]models.PartnerRow, error) {
	records, err := s.loader.Load(ctx)
	if err != nil {
		return nil, err
	}
	rows := analytics.PartnerPerformance(records)

	if key := v.Get("sort"); key != "" {
		asc := v.Get("order") == "asc"
		sort.SliceStable(rows, func(i, j int) bool {
			a, b := partnerSortValue(rows[i], key), partnerSortValue(rows[j], key)
			if asc {
				return a < b
			}
			return a > b
		})
	}

	limit := atoiDef(v.Get("limit"), 100)
	offset := atoiDef(v.Get("offset"), 0)
	limit, offset = clampLimitOffset(limit, offset, len(rows))
	return paginate(rows, limit, offset), nil
}

// Campaigns returns the (campaign, landing-page variant) performance table.
func (s *Service) Campaigns(ctx context.Context, v url.Values) ([]models.CampaignRow, error) {
	records, err := s.loader.Load(ctx)
	if err != nil {
		return nil, err
	}
	rows := analytics.CampaignPerformance(records)

	if key := v.Get("sort"); key != "" {
		asc := v.Get("order") == "asc"
		sort.SliceStable(rows, func(i, j int) bool {
			a, b := campaignSortValue(rows[i], key), campaignSortValue(rows[j], key)
			if asc {
				return a < b
			}
			return a > b
		})
	}

	limit := atoiDef(v.Get("limit"), 100)
	offset := atoiDef(v.Get("offset"), 0)
	limit, offset = clampLimitOffset(limit, offset, len(rows))
	return paginate(rows, limit, offset), nil
}

// Quality runs the data-quality battery over a fresh snapshot.
func (s *Service) Quality(ctx context.Context) ([]models.Issue, error) {
	records, err := s.loader.Load(ctx)
	if err != nil {
		return nil, err
	}
	return analytics.RunChecks(records), nil
}

// Report renders the Markdown stakeholder report.
func (s *Service) Report(ctx context.Context) (string, error) {
	records, err := s.loader.Load(ctx)
	if err != nil {
		return "", err
	}
	kpis, totals := analytics.CalculateKPIs(records)
	partners := analytics.PartnerPerformance(records)
	issues := analytics.RunChecks(records)
	return s.asm.Build(kpis, totals, partners, issues), nil
}

func partnerSortValue(r models.PartnerRow, key string) float64 {
	switch key {
	case "revenue":
		return r.Revenue
	case "commission_paid":
		return r.CommissionPaid
	case "roi":
		return r.ROI
	case "ctr":
		return r.CTR
	case "conversion_rate":
		return r.ConversionRate
	case "epc":
		return r.EPC
	case "aov":
		return r.AOV
	case "impressions":
		return float64(r.Impressions)
	case "clicks":
		return float64(r.Clicks)
	case "orders":
		return float64(r.Orders)
	default:
		return r.Revenue
	}
}

func campaignSortValue(r models.CampaignRow, key string) float64 {
	switch key {
	case "revenue":
		return r.Revenue
	case "commission_paid":
		return r.CommissionPaid
	case "roi":
		return r.ROI
	case "ctr":
		return r.CTR
	case "conversion_rate":
		return r.ConversionRate
	case "epc":
		return r.EPC
	case "impressions":
		return float64(r.Impressions)
	case "clicks":
		return float64(r.Clicks)
	case "orders":
		return float64(r.Orders)
	default:
		return r.Revenue
	}
}

func paginate[T any](rows []T, limit, offset int) []T {
	if offset >= len(rows) {
		return []T{}
	}
	end := offset + limit
	if end > len(rows) {
		end = len(rows)
	}
	return rows[offset:end]
}

func atoiDef(s string, d int) int {
	v, err := strconv.Atoi(s)
	if err != nil {
		return d
	}
	return v
}

func clampLimitOffset(limit, offset, n int) (int, int) {
	if offset < 0 {
		offset = 0
	}
	if limit <= 0 {
		limit = n
	}
	if limit > 1000 {
		limit = 1000
	}
	if offset > n {
		offset = n
	}
	return limit, offset
}
