package compare

import (
	"encoding/csv"
	"strings"
)

// CSVFormatter formats comparison results as CSV
type CSVFormatter struct{}

// Format generates CSV output for comparison results
func (cf *CSVFormatter) Format(compSet *ComparisonSet) (string, error) {
	var sb strings.Builder
	writer := csv.NewWriter(&sb)

	header := []string{
		"Reference",
		"Unit",
		"Type",
		"Revenue",
		"RBT12",
		"Folha12",
		"FatorR",
		"Annex",
		"CurrentRegime",
		"CurrentTotal",
		"EffectiveRate",
		"BestRegime",
		"BestTotal",
		"PotentialSavings",
		"TaxDiffFromBase",
		"TaxPctFromBase",
	}
	if err := writer.Write(header); err != nil {
		return "", err
	}

	reference := compSet.Reference.String()
	if err := writer.Write(cf.formatRow(reference, compSet.BaseResult, "base")); err != nil {
		return "", err
	}
	for i := range compSet.AlternativeResults {
		if err := writer.Write(cf.formatRow(reference, &compSet.AlternativeResults[i], "alternative")); err != nil {
			return "", err
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return "", err
	}

	return sb.String(), nil
}

// formatRow formats a comparison result as a CSV row
func (cf *CSVFormatter) formatRow(reference string, result *ComparisonResult, unitType string) []string {
	return []string{
		reference,
		result.UnitName,
		unitType,
		result.Revenue.StringFixed(2),
		result.RBT12.StringFixed(2),
		result.Folha12.StringFixed(2),
		result.FatorR.String(),
		string(result.Annex),
		string(result.CurrentRegime),
		result.CurrentTotal.StringFixed(2),
		result.EffectiveRate.StringFixed(2),
		string(result.BestRegime),
		result.BestTotal.StringFixed(2),
		result.PotentialSavings.StringFixed(2),
		result.TaxDiffFromBase.StringFixed(2),
		result.TaxPctFromBase.StringFixed(2),
	}
}
