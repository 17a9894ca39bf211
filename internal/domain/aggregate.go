package domain

import (
	"github.com/shopspring/decimal"
)

// Bucket names a field of MonthlyAggregate
type Bucket string

const (
	BucketServiceRevenue        Bucket = "service_revenue"
	BucketOtherRevenue          Bucket = "other_revenue"
	BucketPayrollSalaries       Bucket = "payroll_salaries"
	BucketPayrollProlabore      Bucket = "payroll_prolabore"
	BucketPayrollCharges        Bucket = "payroll_charges"
	BucketInformalPayroll       Bucket = "informal_payroll"
	BucketExcludedPayroll       Bucket = "excluded_payroll"
	BucketInputsCost            Bucket = "inputs_cost"
	BucketThirdPartyServices    Bucket = "third_party_services"
	BucketAdministrativeExpense Bucket = "administrative_expense"
	BucketFinancialExpense      Bucket = "financial_expense"
	BucketTaxesPaid             Bucket = "taxes_paid"
)

// MonthlyAggregate is the categorized financial picture of one calendar month.
// A month without transactions is a valid all-zero record.
type MonthlyAggregate struct {
	Month YearMonth `yaml:"month" json:"month"`

	ServiceRevenue   decimal.Decimal `yaml:"service_revenue" json:"serviceRevenue"`
	OtherRevenue     decimal.Decimal `yaml:"other_revenue" json:"otherRevenue"`
	PayrollSalaries  decimal.Decimal `yaml:"payroll_salaries" json:"payrollSalaries"`
	PayrollProlabore decimal.Decimal `yaml:"payroll_prolabore" json:"payrollProlabore"`
	PayrollCharges   decimal.Decimal `yaml:"payroll_charges" json:"payrollCharges"`
	InformalPayroll  decimal.Decimal `yaml:"informal_payroll" json:"informalPayroll"`
	// ExcludedPayroll holds formal personnel cost from categories flagged as not counting toward Fator R.
	ExcludedPayroll       decimal.Decimal `yaml:"excluded_payroll" json:"excludedPayroll"`
	InputsCost            decimal.Decimal `yaml:"inputs_cost" json:"inputsCost"`
	ThirdPartyServices    decimal.Decimal `yaml:"third_party_services" json:"thirdPartyServices"`
	AdministrativeExpense decimal.Decimal `yaml:"administrative_expense" json:"administrativeExpense"`
	FinancialExpense      decimal.Decimal `yaml:"financial_expense" json:"financialExpense"`
	TaxesPaid             decimal.Decimal `yaml:"taxes_paid" json:"taxesPaid"`
}

// EmptyAggregate returns the all-zero aggregate of a month
func EmptyAggregate(month YearMonth) MonthlyAggregate {
	return MonthlyAggregate{Month: month}
}

// GrossRevenue is service plus other revenue
func (m MonthlyAggregate) GrossRevenue() decimal.Decimal {
	return m.ServiceRevenue.Add(m.OtherRevenue)
}

// FatorRPayroll is the payroll counted toward Fator R: salaries, pro-labore and charges
func (m MonthlyAggregate) FatorRPayroll() decimal.Decimal {
	return m.PayrollSalaries.Add(m.PayrollProlabore).Add(m.PayrollCharges)
}

// TotalPayroll includes informal and excluded payroll
func (m MonthlyAggregate) TotalPayroll() decimal.Decimal {
	return m.FatorRPayroll().Add(m.InformalPayroll).Add(m.ExcludedPayroll)
}

// TotalExpenses sums every expense bucket
func (m MonthlyAggregate) TotalExpenses() decimal.Decimal {
	return m.TotalPayroll().
		Add(m.InputsCost).
		Add(m.ThirdPartyServices).
		Add(m.AdministrativeExpense).
		Add(m.FinancialExpense).
		Add(m.TaxesPaid)
}

// IsZero reports whether every bucket is zero
func (m MonthlyAggregate) IsZero() bool {
	return m.GrossRevenue().IsZero() && m.TotalExpenses().IsZero()
}

// Add returns a copy of m with amount added to the given bucket
func (m MonthlyAggregate) Add(bucket Bucket, amount decimal.Decimal) MonthlyAggregate {
	switch bucket {
	case BucketServiceRevenue:
		m.ServiceRevenue = m.ServiceRevenue.Add(amount)
	case BucketOtherRevenue:
		m.OtherRevenue = m.OtherRevenue.Add(amount)
	case BucketPayrollSalaries:
		m.PayrollSalaries = m.PayrollSalaries.Add(amount)
	case BucketPayrollProlabore:
		m.PayrollProlabore = m.PayrollProlabore.Add(amount)
	case BucketPayrollCharges:
		m.PayrollCharges = m.PayrollCharges.Add(amount)
	case BucketInformalPayroll:
		m.InformalPayroll = m.InformalPayroll.Add(amount)
	case BucketExcludedPayroll:
		m.ExcludedPayroll = m.ExcludedPayroll.Add(amount)
	case BucketInputsCost:
		m.InputsCost = m.InputsCost.Add(amount)
	case BucketThirdPartyServices:
		m.ThirdPartyServices = m.ThirdPartyServices.Add(amount)
	case BucketFinancialExpense:
		m.FinancialExpense = m.FinancialExpense.Add(amount)
	case BucketTaxesPaid:
		m.TaxesPaid = m.TaxesPaid.Add(amount)
	default:
		m.AdministrativeExpense = m.AdministrativeExpense.Add(amount)
	}
	return m
}

// Validate checks that every amount is non-negative
func (m MonthlyAggregate) Validate() error {
	fields := map[Bucket]decimal.Decimal{
		BucketServiceRevenue:        m.ServiceRevenue,
		BucketOtherRevenue:          m.OtherRevenue,
		BucketPayrollSalaries:       m.PayrollSalaries,
		BucketPayrollProlabore:      m.PayrollProlabore,
		BucketPayrollCharges:        m.PayrollCharges,
		BucketInformalPayroll:       m.InformalPayroll,
		BucketExcludedPayroll:       m.ExcludedPayroll,
		BucketInputsCost:            m.InputsCost,
		BucketThirdPartyServices:    m.ThirdPartyServices,
		BucketAdministrativeExpense: m.AdministrativeExpense,
		BucketFinancialExpense:      m.FinancialExpense,
		BucketTaxesPaid:             m.TaxesPaid,
	}
	for _, bucket := range AllBuckets {
		if fields[bucket].IsNegative() {
			return NewParameterError(m.Month.String()+"."+string(bucket), "amount cannot be negative")
		}
	}
	return nil
}

// AllBuckets lists the aggregate fields in declaration order
var AllBuckets = []Bucket{
	BucketServiceRevenue,
	BucketOtherRevenue,
	BucketPayrollSalaries,
	BucketPayrollProlabore,
	BucketPayrollCharges,
	BucketInformalPayroll,
	BucketExcludedPayroll,
	BucketInputsCost,
	BucketThirdPartyServices,
	BucketAdministrativeExpense,
	BucketFinancialExpense,
	BucketTaxesPaid,
}
