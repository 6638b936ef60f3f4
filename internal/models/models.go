package models

import "time"

// Record is one row of the joined daily snapshot: traffic left-joined to
// conversions on (campaign_id, date) plus the campaign and partner dimensions.
// The loader fills absent orders/revenue/commission with zeros.
type Record struct {
	Date               time.Time `db:"date" json:"date"`
	CampaignID         int64     `db:"campaign_id" json:"campaign_id"`
	DeviceType         string    `db:"device_type" json:"device_type"`
	Channel            string    `db:"channel" json:"channel"`
	Impressions        int64     `db:"impressions" json:"impressions"`
	Clicks             int64     `db:"clicks" json:"clicks"`
	Orders             int64     `db:"orders" json:"orders"`
	Revenue            float64   `db:"revenue" json:"revenue"`
	CommissionPaid     float64   `db:"commission_paid" json:"commission_paid"`
	PartnerName        string    `db:"partner_name" json:"partner_name"`
	Vertical           string    `db:"vertical" json:"vertical"`
	CampaignName       string    `db:"campaign_name" json:"campaign_name"`
	LandingPageVariant string    `db:"landing_page_variant" json:"landing_page_variant"`
}

// MetricTotals are the five base metrics summed over a snapshot or a group.
type MetricTotals struct {
	Impressions    int64   `json:"impressions"`
	Clicks         int64   `json:"clicks"`
	Orders         int64   `json:"orders"`
	Revenue        float64 `json:"revenue"`
	CommissionPaid float64 `json:"commission_paid"`
}

// KPIBundle holds the five derived ratios for the whole snapshot.
type KPIBundle struct {
	CTR            float64 `json:"ctr"`
	ConversionRate float64 `json:"conversion_rate"`
	EPC            float64 `json:"epc"`
	AOV            float64 `json:"aov"`
	ROI            float64 `json:"roi"`
}

// PartnerRow is one group of the (partner_name, vertical) performance table.
type PartnerRow struct {
	PartnerName string `json:"partner_name"`
	Vertical    string `json:"vertical"`
	MetricTotals
	CTR            float64 `json:"ctr"`
	ConversionRate float64 `json:"conversion_rate"`
	EPC            float64 `json:"epc"`
	AOV            float64 `json:"aov"`
	ROI            float64 `json:"roi"`
}

// CampaignRow is one group of the (campaign_name, landing_page_variant)
// performance table. It carries no AOV.
type CampaignRow struct {
	CampaignName       string `json:"campaign_name"`
	LandingPageVariant string `json:"landing_page_variant"`
	MetricTotals
	CTR            float64 `json:"ctr"`
	ConversionRate float64 `json:"conversion_rate"`
	EPC            float64 `json:"epc"`
	ROI            float64 `json:"roi"`
}

type Severity string

const (
	SeverityCritical Severity = "CRITICAL"
	SeverityWarning  Severity = "WARNING"
	SeverityInfo     Severity = "INFO"
	SeverityPassed   Severity = "PASSED"
)

// Issue is an advisory data-quality finding. Findings are never errors;
// callers decide whether to block on them or just log them.
type Issue struct {
	Severity Severity `json:"severity"`
	Message  string   `json:"message"`
}

func (i Issue) String() string { return string(i.Severity) + ": " + i.Message }
