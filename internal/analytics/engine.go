// Package analytics computes affiliate KPIs and data-quality findings over an
// immutable snapshot of joined daily records. Everything here is a pure
// function: no I/O, no shared state, safe for concurrent callers.
package analytics

import (
	"math"

	"github.com/commercedesk/affiliate-kpi/internal/models"
)

// SafeDivide returns num/den when den is positive and 0.0 otherwise. Negative
// denominators cannot occur in loaded data but fall back the same way.
func SafeDivide(num, den float64) float64 {
	if den > 0 {
		return num / den
	}
	return 0.0
}

// CalculateKPIs sums the five base metrics over the snapshot and derives the
// ratio bundle with guarded division. Callers need both the ratios and the
// raw totals, so both are returned.
func CalculateKPIs(records []models.Record) (models.KPIBundle, models.MetricTotals) {
	var t models.MetricTotals
	for _, r := range records {
		t.Impressions += r.Impressions
		t.Clicks += r.Clicks
		t.Orders += r.Orders
		t.Revenue += r.Revenue
		t.CommissionPaid += r.CommissionPaid
	}
	k := models.KPIBundle{
		CTR:            SafeDivide(float64(t.Clicks), float64(t.Impressions)),
		ConversionRate: SafeDivide(float64(t.Orders), float64(t.Clicks)),
		EPC:            SafeDivide(t.Revenue, float64(t.Clicks)),
		AOV:            SafeDivide(t.Revenue, float64(t.Orders)),
		ROI:            SafeDivide(t.Revenue-t.CommissionPaid, t.CommissionPaid),
	}
	return k, t
}

type partnerKey struct{ partner, vertical string }

type campaignKey struct{ campaign, variant string }

// PartnerPerformance groups the snapshot by (partner_name, vertical) and
// derives per-group ratios. Group order is first appearance in the input.
//
// Unlike CalculateKPIs, ratios here are computed with unguarded division and
// the whole row is swept for non-finite cells afterwards. A group with zero
// clicks therefore produces NaN/Inf first and 0 only through the sweep, which
// also zeroes any non-finite base-metric cell. Do not replace this with
// SafeDivide: the two strategies differ when several cells are non-finite at
// once, and downstream consumers depend on the swept behavior.
func PartnerPerformance(records []models.Record) []models.PartnerRow {
	idx := make(map[partnerKey]int)
	rows := make([]models.PartnerRow, 0)
	for _, r := range records {
		k := partnerKey{r.PartnerName, r.Vertical}
		i, ok := idx[k]
		if !ok {
			i = len(rows)
			idx[k] = i
			rows = append(rows, models.PartnerRow{PartnerName: r.PartnerName, Vertical: r.Vertical})
		}
		rows[i].Impressions += r.Impressions
		rows[i].Clicks += r.Clicks
		rows[i].Orders += r.Orders
		rows[i].Revenue += r.Revenue
		rows[i].CommissionPaid += r.CommissionPaid
	}
	for i := range rows {
		t := rows[i].MetricTotals
		rows[i].CTR = float64(t.Clicks) / float64(t.Impressions)
		rows[i].ConversionRate = float64(t.Orders) / float64(t.Clicks)
		rows[i].EPC = t.Revenue / float64(t.Clicks)
		rows[i].AOV = t.Revenue / float64(t.Orders)
		rows[i].ROI = (t.Revenue - t.CommissionPaid) / t.CommissionPaid
		sanitizePartnerRow(&rows[i])
	}
	return rows
}

// CampaignPerformance is PartnerPerformance keyed by (campaign_name,
// landing_page_variant). AOV is not computed for campaign groups.
func CampaignPerformance(records []models.Record) []models.CampaignRow {
	idx := make(map[campaignKey]int)
	rows := make([]models.CampaignRow, 0)
	for _, r := range records {
		k := campaignKey{r.CampaignName, r.LandingPageVariant}
		i, ok := idx[k]
		if !ok {
			i = len(rows)
			idx[k] = i
			rows = append(rows, models.CampaignRow{CampaignName: r.CampaignName, LandingPageVariant: r.LandingPageVariant})
		}
		rows[i].Impressions += r.Impressions
		rows[i].Clicks += r.Clicks
		rows[i].Orders += r.Orders
		rows[i].Revenue += r.Revenue
		rows[i].CommissionPaid += r.CommissionPaid
	}
	for i := range rows {
		t := rows[i].MetricTotals
		rows[i].CTR = float64(t.Clicks) / float64(t.Impressions)
		rows[i].ConversionRate = float64(t.Orders) / float64(t.Clicks)
		rows[i].EPC = t.Revenue / float64(t.Clicks)
		rows[i].ROI = (t.Revenue - t.CommissionPaid) / t.CommissionPaid
		sanitizeCampaignRow(&rows[i])
	}
	return rows
}

func zeroNonFinite(f float64) float64 {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return f
}

func sanitizePartnerRow(r *models.PartnerRow) {
	r.Revenue = zeroNonFinite(r.Revenue)
	r.CommissionPaid = zeroNonFinite(r.CommissionPaid)
	r.CTR = zeroNonFinite(r.CTR)
	r.ConversionRate = zeroNonFinite(r.ConversionRate)
	r.EPC = zeroNonFinite(r.EPC)
	r.AOV = zeroNonFinite(r.AOV)
	r.ROI = zeroNonFinite(r.ROI)
}

func sanitizeCampaignRow(r *models.CampaignRow) {
	r.Revenue = zeroNonFinite(r.Revenue)
	r.CommissionPaid = zeroNonFinite(r.CommissionPaid)
	r.CTR = zeroNonFinite(r.CTR)
	r.ConversionRate = zeroNonFinite(r.ConversionRate)
	r.EPC = zeroNonFinite(r.EPC)
	r.ROI = zeroNonFinite(r.ROI)
}
