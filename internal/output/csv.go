package output

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strconv"

	"github.com/labfinance/taxsim/internal/calculation"
	"github.com/labfinance/taxsim/internal/domain"
)

// CSVFormatter renders each report section as a CSV block. Blocks are
// separated by an empty line and start with their own header row.
type CSVFormatter struct{}

func (CSVFormatter) Name() string { return "csv" }

func (cf CSVFormatter) Format(report *Report) ([]byte, error) {
	if report.IsEmpty() {
		return nil, fmt.Errorf("nothing to format")
	}
	buf := &bytes.Buffer{}
	var blocks [][][]string
	if report.Simulation != nil {
		blocks = append(blocks, cf.simulationRows(report.Simulation))
	}
	if report.Advice != nil {
		blocks = append(blocks, cf.adviceRows(report.Advice))
	}
	if report.Audit != nil {
		blocks = append(blocks, cf.auditRows(report.Audit))
	}
	if len(report.Trend) > 0 {
		blocks = append(blocks, cf.trendRows(report.Trend))
	}

	for i, rows := range blocks {
		if i > 0 {
			buf.WriteString("\n")
		}
		w := csv.NewWriter(buf)
		if err := w.WriteAll(rows); err != nil {
			return nil, err
		}
	}
	return buf.Bytes(), nil
}

func (cf CSVFormatter) simulationRows(out *domain.SimulationOutput) [][]string {
	rows := [][]string{{
		"Reference", "Regime", "Label", "Base", "Federal", "Municipal", "Total",
		"PercentualReceita", "Best", "Current", "RBT12", "Folha12", "FatorR", "Annex",
	}}
	for _, s := range out.Scenarios {
		rows = append(rows, []string{
			out.Reference.String(),
			string(s.ID),
			s.Label,
			s.Base.StringFixed(2),
			s.FederalComponent.StringFixed(2),
			s.MunicipalComponent.StringFixed(2),
			s.Total.StringFixed(2),
			s.PercentualReceita.StringFixed(2),
			strconv.FormatBool(s.ID == out.BestScenario.ID),
			strconv.FormatBool(s.ID == out.CurrentRegime),
			out.RBT12.StringFixed(2),
			out.Folha12.StringFixed(2),
			out.FatorR.String(),
			string(out.Annex),
		})
	}
	return rows
}

func (cf CSVFormatter) adviceRows(advice *calculation.Advice) [][]string {
	adj := advice.Adjustment
	s := advice.Savings
	return [][]string{
		{"Reference", "FatorR", "Annex", "Status", "MonthlyIncrease", "AnnualIncrease",
			"ProjectedFatorR", "AdditionalCharges", "NetMonthlyBenefit",
			"MonthlyTaxIII", "MonthlyTaxV", "MonthlySavings", "AnnualSavings"},
		{
			advice.Reference.String(),
			advice.FatorR.String(),
			string(advice.Annex),
			string(adj.Status),
			adj.MonthlyIncrease.StringFixed(2),
			adj.AnnualIncrease.StringFixed(2),
			adj.ProjectedFatorR.String(),
			adj.AdditionalCharges.StringFixed(2),
			adj.NetMonthlyBenefit.StringFixed(2),
			s.MonthlyTaxIII.StringFixed(2),
			s.MonthlyTaxV.StringFixed(2),
			s.MonthlySavings.StringFixed(2),
			s.AnnualSavings.StringFixed(2),
		},
	}
}

func (cf CSVFormatter) auditRows(audit *domain.AuditResult) [][]string {
	rows := [][]string{{
		"Month", "Revenue", "Salaries", "Prolabore", "Charges", "Informal", "Excluded", "Payroll", "FatorR", "HasRevenue",
	}}
	for _, m := range audit.Months {
		rows = append(rows, []string{
			m.Month.String(),
			m.Revenue.StringFixed(2),
			m.Salaries.StringFixed(2),
			m.Prolabore.StringFixed(2),
			m.Charges.StringFixed(2),
			m.Informal.StringFixed(2),
			m.Excluded.StringFixed(2),
			m.Payroll.StringFixed(2),
			m.FatorR.String(),
			strconv.FormatBool(m.HasRevenue),
		})
	}
	return rows
}

func (cf CSVFormatter) trendRows(points []domain.TrendPoint) [][]string {
	rows := [][]string{{"Month", "RBT12", "Folha12", "FatorR", "Annex"}}
	for _, p := range points {
		rows = append(rows, []string{
			p.Month.String(),
			p.RBT12.StringFixed(2),
			p.Folha12.StringFixed(2),
			p.FatorR.String(),
			string(p.Annex),
		})
	}
	return rows
}
