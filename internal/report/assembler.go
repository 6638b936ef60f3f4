// Package report turns the analytics outputs into the Markdown stakeholder
// report. Formatting only; all numbers arrive precomputed.
package report

import (
	"fmt"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/commercedesk/affiliate-kpi/internal/models"
)

type Assembler struct {
	now func() time.Time
}

func NewAssembler() *Assembler { return &Assembler{now: time.Now} }

// Build renders the report. Partner rows arrive in engine (first-seen) order;
// the assembler sorts its own copy by revenue for presentation.
func (a *Assembler) Build(kpis models.KPIBundle, totals models.MetricTotals, partners []models.PartnerRow, issues []models.Issue) string {
	byRevenue := make([]models.PartnerRow, len(partners))
	copy(byRevenue, partners)
	sort.SliceStable(byRevenue, func(i, j int) bool { return byRevenue[i].Revenue > byRevenue[j].Revenue })

	var under []models.PartnerRow
	for _, p := range byRevenue {
		if p.ROI < 1.0 {
			under = append(under, p)
		}
	}

	var b strings.Builder
	b.WriteString("# Affiliate Commerce Stakeholder Report\n")
	fmt.Fprintf(&b, "**Generated on**: %s\n\n", a.now().Format("2006-01-02 15:04:05"))

	b.WriteString("## Executive Summary\n")
	fmt.Fprintf(&b, "* **Total Revenue**: $%.2f\n", totals.Revenue)
	fmt.Fprintf(&b, "* **Total Commission Paid**: $%.2f\n", totals.CommissionPaid)
	fmt.Fprintf(&b, "* **ROI**: %.1f%%\n", kpis.ROI*100)
	fmt.Fprintf(&b, "* **Total Orders**: %d\n\n", totals.Orders)

	b.WriteString("## Data Quality\n")
	for _, issue := range issues {
		fmt.Fprintf(&b, "* %s\n", issue.String())
	}
	b.WriteString("\n")

	b.WriteString("## Top Recommendations\n")
	b.WriteString("1. **Scale Top Performers**:\n")
	for i := 0; i < len(byRevenue) && i < 2; i++ {
		p := byRevenue[i]
		fmt.Fprintf(&b, "   - %s (Rev: $%.2f, ROI: %.2f)\n", p.PartnerName, p.Revenue, p.ROI)
	}
	b.WriteString("2. **Address Underperformance**:\n")
	fmt.Fprintf(&b, "   - Found %d partners with ROI < 1.0 (Negative Return).\n", len(under))
	if len(under) > 0 {
		names := make([]string, 0, 3)
		for i := 0; i < len(under) && i < 3; i++ {
			names = append(names, under[i].PartnerName)
		}
		fmt.Fprintf(&b, "   - Review agreements with: %s.\n", strings.Join(names, ", "))
	}
	b.WriteString("\n")

	b.WriteString("## Partner Leaderboard (Top 5)\n")
	b.WriteString("| Partner | Revenue | ROI | EPC |\n")
	b.WriteString("|---------|---------|-----|-----|\n")
	for i := 0; i < len(byRevenue) && i < 5; i++ {
		p := byRevenue[i]
		fmt.Fprintf(&b, "| %s | $%.2f | %.2f | $%.2f |\n", p.PartnerName, p.Revenue, p.ROI, p.EPC)
	}
	b.WriteString("\n")

	b.WriteString("## Next Steps\n")
	b.WriteString("* Deploy budget to high-ROI partners.\n")
	b.WriteString("* Investigate zero-conversion campaigns.\n")
	b.WriteString("* Monitor daily anomalies via the quality endpoint.\n")
	return b.String()
}

// WriteFile persists a rendered report.
func WriteFile(path, content string) error {
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	return nil
}
