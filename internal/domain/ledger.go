package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Direction is the side of a ledger entry
type Direction string

const (
	DirectionCredit Direction = "credit"
	DirectionDebit  Direction = "debit"
)

// TaxGroup is the fiscal grouping tag carried by a category
type TaxGroup string

const (
	TaxGroupServiceRevenue    TaxGroup = "receita_servicos"
	TaxGroupOtherRevenue      TaxGroup = "receita_outras"
	TaxGroupPersonnel         TaxGroup = "pessoal"
	TaxGroupInputs            TaxGroup = "insumos"
	TaxGroupThirdPartyService TaxGroup = "servicos_terceiros"
	TaxGroupAdministrative    TaxGroup = "administrativo"
	TaxGroupFinancial         TaxGroup = "financeiro"
	TaxGroupTaxes             TaxGroup = "impostos"
	TaxGroupNone              TaxGroup = ""
)

// PayrollSubtype classifies a personnel category without relying on its name
type PayrollSubtype string

const (
	PayrollSubtypeUnset     PayrollSubtype = ""
	PayrollSubtypeSalary    PayrollSubtype = "salario"
	PayrollSubtypeProlabore PayrollSubtype = "prolabore"
	PayrollSubtypeCharges   PayrollSubtype = "encargos"
)

// Valid reports whether the subtype is one of the known values (unset included)
func (s PayrollSubtype) Valid() bool {
	switch s {
	case PayrollSubtypeUnset, PayrollSubtypeSalary, PayrollSubtypeProlabore, PayrollSubtypeCharges:
		return true
	}
	return false
}

// Category is an entry of the ledger's category catalog
type Category struct {
	ID             uuid.UUID      `yaml:"id" json:"id"`
	Name           string         `yaml:"name" json:"name"`
	TaxGroup       TaxGroup       `yaml:"tax_group" json:"taxGroup"`
	IsInformal     bool           `yaml:"is_informal" json:"isInformal"`
	PayrollSubtype PayrollSubtype `yaml:"payroll_subtype,omitempty" json:"payrollSubtype,omitempty"`

	// CountsForFatorR is nil when the category was never classified.
	CountsForFatorR *bool `yaml:"counts_for_fator_r,omitempty" json:"countsForFatorR,omitempty"`
}

// IsPersonnel reports whether the category belongs to the personnel tax group
func (c Category) IsPersonnel() bool {
	return c.TaxGroup == TaxGroupPersonnel
}

// IsMappedForFatorR reports whether the Fator R inclusion flag was set explicitly
func (c Category) IsMappedForFatorR() bool {
	return c.CountsForFatorR != nil
}

// LedgerEntry is one raw transaction row supplied by the ledger collaborator
type LedgerEntry struct {
	ID          uuid.UUID       `yaml:"id,omitempty" json:"id"`
	Date        time.Time       `yaml:"date" json:"date"`
	Amount      decimal.Decimal `yaml:"amount" json:"amount"`
	Direction   Direction       `yaml:"direction" json:"direction"`
	Category    Category        `yaml:"-" json:"category"`
	CategoryID  uuid.UUID       `yaml:"category_id" json:"categoryId"`
	UnitID      string          `yaml:"unit_id,omitempty" json:"unitId,omitempty"`
	Description string          `yaml:"description,omitempty" json:"description,omitempty"`
}

// Month returns the calendar month of the entry
func (e LedgerEntry) Month() YearMonth {
	return YearMonthOf(e.Date)
}

// BoolPtr is a helper for optional flags
func BoolPtr(b bool) *bool {
	return &b
}
