package analytics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/commercedesk/affiliate-kpi/internal/models"
)

func day(s string) time.Time {
	t, _ := time.Parse("2006-01-02", s)
	return t
}

func rec(partner, vertical, campaign, variant string, impressions, clicks, orders int64, revenue, commission float64) models.Record {
	return models.Record{
		Date:               day("2025-08-01"),
		CampaignID:         1,
		DeviceType:         "Mobile",
		Channel:            "Organic",
		Impressions:        impressions,
		Clicks:             clicks,
		Orders:             orders,
		Revenue:            revenue,
		CommissionPaid:     commission,
		PartnerName:        partner,
		Vertical:           vertical,
		CampaignName:       campaign,
		LandingPageVariant: variant,
	}
}

func TestSafeDivide(t *testing.T) {
	tests := []struct {
		name     string
		num, den float64
		want     float64
	}{
		{"plain division", 10, 4, 2.5},
		{"zero denominator", 42, 0, 0},
		{"negative denominator", 10, -1, 0},
		{"zero numerator", 0, 5, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SafeDivide(tt.num, tt.den))
		})
	}
}

func TestCalculateKPIsEmpty(t *testing.T) {
	kpis, totals := CalculateKPIs(nil)
	assert.Equal(t, models.MetricTotals{}, totals)
	assert.Equal(t, models.KPIBundle{}, kpis)
}

func TestCalculateKPIsUsesTotalsNotRowAverages(t *testing.T) {
	records := []models.Record{
		rec("P1", "Tech", "Tech_Promo_1", "A", 100, 10, 2, 120, 30),
		rec("P1", "Tech", "Tech_Promo_1", "A", 50, 0, 0, 0, 0),
	}
	kpis, totals := CalculateKPIs(records)

	require.Equal(t, int64(150), totals.Impressions)
	require.Equal(t, int64(10), totals.Clicks)
	// 10/150, not mean(10/100, 0/50).
	assert.InDelta(t, 10.0/150.0, kpis.CTR, 1e-9)
	assert.InDelta(t, 0.2, kpis.ConversionRate, 1e-9)
	assert.InDelta(t, 12.0, kpis.EPC, 1e-9)
	assert.InDelta(t, 60.0, kpis.AOV, 1e-9)
	assert.InDelta(t, 3.0, kpis.ROI, 1e-9)
}

func TestCalculateKPIsIdempotent(t *testing.T) {
	records := []models.Record{
		rec("P1", "Tech", "Tech_Promo_1", "A", 100, 10, 2, 120, 30),
		rec("P2", "Home", "Home_Promo_2", "B", 500, 5, 1, 40, 10),
	}
	k1, t1 := CalculateKPIs(records)
	k2, t2 := CalculateKPIs(records)
	assert.Equal(t, k1, k2)
	assert.Equal(t, t1, t2)
}

func TestPartnerPerformanceGroupsInFirstSeenOrder(t *testing.T) {
	records := []models.Record{
		rec("P2", "Home", "Home_Promo_2", "B", 200, 20, 4, 200, 50),
		rec("P1", "Tech", "Tech_Promo_1", "A", 100, 10, 2, 120, 30),
		rec("P2", "Home", "Home_Promo_2", "B", 300, 30, 6, 300, 75),
	}
	rows := PartnerPerformance(records)

	require.Len(t, rows, 2)
	assert.Equal(t, "P2", rows[0].PartnerName)
	assert.Equal(t, "P1", rows[1].PartnerName)

	assert.Equal(t, int64(500), rows[0].Impressions)
	assert.Equal(t, int64(50), rows[0].Clicks)
	assert.Equal(t, int64(10), rows[0].Orders)
	assert.InDelta(t, 500.0, rows[0].Revenue, 1e-9)
	assert.InDelta(t, 0.1, rows[0].CTR, 1e-9)
	assert.InDelta(t, 0.2, rows[0].ConversionRate, 1e-9)
	assert.InDelta(t, 10.0, rows[0].EPC, 1e-9)
	assert.InDelta(t, 50.0, rows[0].AOV, 1e-9)
	assert.InDelta(t, 3.0, rows[0].ROI, 1e-9)
}

func TestPartnerPerformanceSameNameDifferentVertical(t *testing.T) {
	records := []models.Record{
		rec("P1", "Tech", "Tech_Promo_1", "A", 100, 10, 2, 120, 30),
		rec("P1", "Home", "Home_Promo_2", "B", 100, 10, 2, 120, 30),
	}
	rows := PartnerPerformance(records)
	assert.Len(t, rows, 2)
}

func TestPartnerPerformanceZeroClicksGroupIsSanitized(t *testing.T) {
	records := []models.Record{
		rec("P1", "Tech", "Tech_Promo_1", "A", 100, 0, 0, 0, 0),
		rec("P1", "Tech", "Tech_Promo_1", "A", 50, 0, 0, 0, 0),
	}
	rows := PartnerPerformance(records)

	require.Len(t, rows, 1)
	// 0/0 and x/0 land as 0 through the non-finite sweep, never NaN/Inf.
	assert.Zero(t, rows[0].CTR)
	assert.Zero(t, rows[0].ConversionRate)
	assert.Zero(t, rows[0].EPC)
	assert.Zero(t, rows[0].AOV)
	assert.Zero(t, rows[0].ROI)
}

func TestGroupedTotalsSumToOverallTotals(t *testing.T) {
	records := []models.Record{
		rec("P1", "Tech", "Tech_Promo_1", "A", 100, 10, 2, 120, 30),
		rec("P2", "Home", "Home_Promo_2", "B", 500, 5, 1, 40, 10),
		rec("P3", "Beauty", "Beauty_Promo_3", "A", 700, 70, 7, 900, 300),
		rec("P1", "Tech", "Tech_Promo_1", "B", 60, 6, 0, 0, 0),
	}
	_, overall := CalculateKPIs(records)

	var fromGroups models.MetricTotals
	for _, row := range PartnerPerformance(records) {
		fromGroups.Impressions += row.Impressions
		fromGroups.Clicks += row.Clicks
		fromGroups.Orders += row.Orders
		fromGroups.Revenue += row.Revenue
		fromGroups.CommissionPaid += row.CommissionPaid
	}
	assert.Equal(t, overall, fromGroups)

	fromGroups = models.MetricTotals{}
	for _, row := range CampaignPerformance(records) {
		fromGroups.Impressions += row.Impressions
		fromGroups.Clicks += row.Clicks
		fromGroups.Orders += row.Orders
		fromGroups.Revenue += row.Revenue
		fromGroups.CommissionPaid += row.CommissionPaid
	}
	assert.Equal(t, overall, fromGroups)
}

func TestCampaignPerformanceSplitsByVariant(t *testing.T) {
	records := []models.Record{
		rec("P1", "Tech", "Tech_Promo_1", "A", 100, 10, 2, 120, 30),
		rec("P1", "Tech", "Tech_Promo_1", "B", 200, 40, 8, 480, 120),
	}
	rows := CampaignPerformance(records)

	require.Len(t, rows, 2)
	assert.Equal(t, "A", rows[0].LandingPageVariant)
	assert.Equal(t, "B", rows[1].LandingPageVariant)
	assert.InDelta(t, 0.2, rows[1].CTR, 1e-9)
	assert.InDelta(t, 0.2, rows[1].ConversionRate, 1e-9)
	assert.InDelta(t, 12.0, rows[1].EPC, 1e-9)
	assert.InDelta(t, 3.0, rows[1].ROI, 1e-9)
}

func TestCampaignPerformanceZeroDenominators(t *testing.T) {
	records := []models.Record{
		rec("P1", "Tech", "Tech_Promo_1", "A", 0, 0, 0, 0, 0),
	}
	rows := CampaignPerformance(records)

	require.Len(t, rows, 1)
	assert.Zero(t, rows[0].CTR)
	assert.Zero(t, rows[0].ConversionRate)
	assert.Zero(t, rows[0].EPC)
	assert.Zero(t, rows[0].ROI)
}
