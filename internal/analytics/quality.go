package analytics

import (
	"fmt"
	"math"

	"github.com/commercedesk/affiliate-kpi/internal/models"
)

// RunChecks evaluates the fixed battery of data-quality checks in order:
// click/impression sanity, non-negativity, completeness, revenue outliers.
// Checks never short-circuit and never repair data; each only reports. When
// nothing fires the result is a single PASSED issue, so the slice is never
// empty.
func RunChecks(records []models.Record) []models.Issue {
	var issues []models.Issue

	badClicks := 0
	for _, r := range records {
		if r.Clicks > r.Impressions {
			badClicks++
		}
	}
	if badClicks > 0 {
		issues = append(issues, models.Issue{
			Severity: models.SeverityCritical,
			Message:  fmt.Sprintf("Found %d rows where Clicks > Impressions.", badClicks),
		})
	}

	negative := 0
	for _, r := range records {
		if r.Revenue < 0 || r.CommissionPaid < 0 {
			negative++
		}
	}
	if negative > 0 {
		issues = append(issues, models.Issue{
			Severity: models.SeverityCritical,
			Message:  fmt.Sprintf("Found %d rows with negative Revenue or Commission.", negative),
		})
	}

	missing := 0
	for _, r := range records {
		missing += missingCells(r)
	}
	if missing > 0 {
		issues = append(issues, models.Issue{
			Severity: models.SeverityWarning,
			Message:  fmt.Sprintf("Found %d missing values in dataset.", missing),
		})
	}

	if n := countOutliers(records); n > 0 {
		issues = append(issues, models.Issue{
			Severity: models.SeverityInfo,
			Message:  fmt.Sprintf("Detected %d revenue outliers (>3 Std Dev).", n),
		})
	}

	if len(issues) == 0 {
		issues = append(issues, models.Issue{
			Severity: models.SeverityPassed,
			Message:  "All data quality checks passed.",
		})
	}
	return issues
}

// missingCells counts cells the loader should have populated but did not:
// empty categorical/text columns and a zero date. Numeric columns cannot be
// missing after load since the join COALESCEs them.
func missingCells(r models.Record) int {
	n := 0
	if r.Date.IsZero() {
		n++
	}
	for _, s := range []string{r.DeviceType, r.Channel, r.PartnerName, r.Vertical, r.CampaignName, r.LandingPageVariant} {
		if s == "" {
			n++
		}
	}
	return n
}

// countOutliers z-scores the positive revenue values and counts |z| > 3.
// Sample standard deviation (n-1); fewer than two data points, or zero
// deviation, yields no outliers rather than propagating NaN.
func countOutliers(records []models.Record) int {
	var rev []float64
	for _, r := range records {
		if r.Revenue > 0 {
			rev = append(rev, r.Revenue)
		}
	}
	n := len(rev)
	if n < 2 {
		return 0
	}
	var sum float64
	for _, v := range rev {
		sum += v
	}
	mean := sum / float64(n)
	var ss float64
	for _, v := range rev {
		d := v - mean
		ss += d * d
	}
	std := math.Sqrt(ss / float64(n-1))
	if std == 0 {
		return 0
	}
	out := 0
	for _, v := range rev {
		if math.Abs((v-mean)/std) > 3 {
			out++
		}
	}
	return out
}
