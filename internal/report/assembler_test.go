package report

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/commercedesk/affiliate-kpi/internal/models"
)

func fixedAssembler() *Assembler {
	return &Assembler{now: func() time.Time {
		return time.Date(2025, 8, 25, 12, 0, 0, 0, time.UTC)
	}}
}

func samplePartners() []models.PartnerRow {
	return []models.PartnerRow{
		{
			PartnerName:  "Partner_2_Blog",
			Vertical:     "Home",
			MetricTotals: models.MetricTotals{Revenue: 500, CommissionPaid: 100, Orders: 10},
			ROI:          4.0,
			EPC:          5.0,
		},
		{
			PartnerName:  "Partner_1_Media",
			Vertical:     "Tech",
			MetricTotals: models.MetricTotals{Revenue: 900, CommissionPaid: 300, Orders: 9},
			ROI:          2.0,
			EPC:          9.0,
		},
		{
			PartnerName:  "Partner_3_News",
			Vertical:     "Beauty",
			MetricTotals: models.MetricTotals{Revenue: 50, CommissionPaid: 60, Orders: 1},
			ROI:          -0.17,
			EPC:          0.5,
		},
	}
}

func TestBuildReport(t *testing.T) {
	kpis := models.KPIBundle{ROI: 1.9}
	totals := models.MetricTotals{Revenue: 1450, CommissionPaid: 460, Orders: 20}
	issues := []models.Issue{{Severity: models.SeverityPassed, Message: "All data quality checks passed."}}

	md := fixedAssembler().Build(kpis, totals, samplePartners(), issues)

	assert.Contains(t, md, "**Generated on**: 2025-08-25 12:00:00")
	assert.Contains(t, md, "* **Total Revenue**: $1450.00")
	assert.Contains(t, md, "* **ROI**: 190.0%")
	assert.Contains(t, md, "PASSED: All data quality checks passed.")

	// Leaderboard sorts by revenue, engine order is not kept.
	first := strings.Index(md, "Partner_1_Media")
	second := strings.Index(md, "Partner_2_Blog")
	require.Positive(t, first)
	require.Positive(t, second)
	assert.Less(t, first, second)

	assert.Contains(t, md, "Found 1 partners with ROI < 1.0")
	assert.Contains(t, md, "Review agreements with: Partner_3_News.")
}

func TestBuildReportNoPartners(t *testing.T) {
	md := fixedAssembler().Build(models.KPIBundle{}, models.MetricTotals{}, nil, nil)
	assert.Contains(t, md, "Found 0 partners with ROI < 1.0")
	assert.NotContains(t, md, "Review agreements")
}

func TestWriteFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.md")
	require.NoError(t, WriteFile(path, "# hello\n"))

	got, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "# hello\n", string(got))
}
