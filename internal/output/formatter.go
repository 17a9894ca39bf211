package output

import (
	"fmt"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/labfinance/taxsim/internal/calculation"
	"github.com/labfinance/taxsim/internal/domain"
	"github.com/shopspring/decimal"
)

// Report bundles whatever a command produced. Formatters render only the
// sections that are set.
type Report struct {
	Simulation *domain.SimulationOutput `json:"simulation,omitempty"`
	Advice     *calculation.Advice      `json:"advice,omitempty"`
	Audit      *domain.AuditResult      `json:"audit,omitempty"`
	Trend      []domain.TrendPoint      `json:"trend,omitempty"`
}

// IsEmpty reports whether no section is set
func (r *Report) IsEmpty() bool {
	return r == nil || (r.Simulation == nil && r.Advice == nil && r.Audit == nil && len(r.Trend) == 0)
}

// Formatter renders a report into bytes
type Formatter interface {
	Name() string
	Format(report *Report) ([]byte, error)
}

// FormatterFunc adapts a function to the Formatter interface
type FormatterFunc struct {
	ID string
	F  func(report *Report) ([]byte, error)
}

func (f FormatterFunc) Name() string { return f.ID }

func (f FormatterFunc) Format(report *Report) ([]byte, error) { return f.F(report) }

var formatters = map[string]Formatter{
	"table":        TableFormatter{},
	"csv":          CSVFormatter{},
	"json":         JSONFormatter{Pretty: true},
	"json-compact": JSONFormatter{},
}

var formatAliases = map[string]string{
	"console": "table",
	"text":    "table",
}

// GetFormatterByName returns the formatter registered under name or alias, or nil
func GetFormatterByName(name string) Formatter {
	key := strings.ToLower(strings.TrimSpace(name))
	if alias, ok := formatAliases[key]; ok {
		key = alias
	}
	return formatters[key]
}

// AvailableFormats lists the registered formatter names
func AvailableFormats() []string {
	names := make([]string, 0, len(formatters))
	for name := range formatters {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// AvailableFormatAliases lists the accepted aliases
func AvailableFormatAliases() []string {
	names := make([]string, 0, len(formatAliases))
	for name := range formatAliases {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// WriteFormatted renders the report and writes it to path. An empty path
// generates a timestamped file name with the given extension.
func WriteFormatted(f Formatter, report *Report, path, ext string) (string, error) {
	data, err := f.Format(report)
	if err != nil {
		return "", fmt.Errorf("failed to format report: %w", err)
	}
	if path == "" {
		path = fmt.Sprintf("taxsim_report_%s.%s", time.Now().Format("20060102_150405"), ext)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write %s: %w", path, err)
	}
	return path, nil
}

// FormatCurrency formats an amount in reais with Brazilian separators
func FormatCurrency(amount decimal.Decimal) string {
	fixed := amount.Abs().StringFixed(2)
	intPart, frac, _ := strings.Cut(fixed, ".")

	var sb strings.Builder
	for i, r := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			sb.WriteByte('.')
		}
		sb.WriteRune(r)
	}

	sign := ""
	if amount.Round(2).IsNegative() {
		sign = "-"
	}
	return sign + "R$ " + sb.String() + "," + frac
}

// FormatPercentage formats a value already expressed in percent
func FormatPercentage(percent decimal.Decimal) string {
	return strings.Replace(percent.StringFixed(2), ".", ",", 1) + "%"
}

// FormatRatio formats a fraction as a percentage
func FormatRatio(ratio decimal.Decimal) string {
	return FormatPercentage(ratio.Mul(decimal.NewFromInt(100)))
}
