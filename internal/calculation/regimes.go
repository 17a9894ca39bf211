package calculation

import (
	"fmt"
	"strconv"

	"github.com/labfinance/taxsim/internal/domain"
	"github.com/shopspring/decimal"
)

// RegimeBase is the shared input of every regime computation
type RegimeBase struct {
	RBT12          decimal.Decimal
	Folha12        decimal.Decimal
	MonthlyRevenue decimal.Decimal
	RevenueBasis   domain.RevenueBasis
	Annex          domain.Annex
	Params         *domain.TaxParameters
	Config         *domain.TaxConfig
}

// RegimeCalculator computes one regime's scenario from the shared base
type RegimeCalculator interface {
	Regime() domain.Regime
	Compute(base RegimeBase) (domain.RegimeScenario, error)
}

const (
	commentSimples   = "Alíquota efetiva progressiva sobre o RBT12; o anexo é definido pelo Fator R. O DAS já inclui o ISS."
	commentPresumido = "Presunção de lucro sobre serviços; PIS/COFINS cumulativos; adicional de IRPJ acima do limite mensal."
	commentReal      = "Estimativa simplificada: PIS/COFINS não cumulativos e alíquota combinada de IRPJ/CSLL sobre a receita, sem apuração de despesas dedutíveis."
	commentCBSIBS    = "Cenário pós-reforma com redução do setor de saúde; a transição 2026-2033 não é modelada."
)

func newScenario(regime domain.Regime, comment string, basis domain.RevenueBasis, base, federal, municipal, revenue decimal.Decimal) domain.RegimeScenario {
	federal = roundMoney(federal)
	municipal = roundMoney(municipal)
	total := federal.Add(municipal)
	return domain.RegimeScenario{
		ID:                 regime,
		Label:              regime.Label(),
		Base:               roundMoney(base),
		FederalComponent:   federal,
		MunicipalComponent: municipal,
		Total:              total,
		PercentualReceita:  percentOf(total, revenue),
		Comment:            comment,
		Detail: map[string]string{
			"revenue":       revenue.StringFixed(2),
			"revenue_basis": string(basis),
		},
	}
}

// SimplesNacional applies the progressive annex table selected by Fator R
type SimplesNacional struct {
	Brackets *BracketCalculator
}

func (SimplesNacional) Regime() domain.Regime { return domain.RegimeSimplesNacional }

func (s SimplesNacional) Compute(base RegimeBase) (domain.RegimeScenario, error) {
	calc := s.Brackets
	if calc == nil {
		calc = NewBracketCalculator()
	}
	table := base.Params.Table(base.Annex)
	rate, err := calc.EffectiveRate(base.RBT12, table)
	if err != nil {
		return domain.RegimeScenario{}, fmt.Errorf("simples nacional: %w", err)
	}
	tax := calc.MonthlyTax(rate, base.MonthlyRevenue)

	scenario := newScenario(domain.RegimeSimplesNacional, commentSimples, base.RevenueBasis, base.MonthlyRevenue, tax, decimal.Zero, base.MonthlyRevenue)
	scenario.Detail["annex"] = string(base.Annex)
	scenario.Detail["rbt12"] = base.RBT12.StringFixed(2)
	scenario.Detail["bracket"] = strconv.Itoa(rate.Bracket.Index)
	scenario.Detail["nominal_rate"] = rate.NominalRate.String()
	scenario.Detail["deduction"] = rate.Deduction.StringFixed(2)
	scenario.Detail["effective_rate"] = rate.EffectiveRate.StringFixed(6)
	if rate.Clamped {
		scenario.Detail["clamped"] = "true"
	}
	return scenario, nil
}

// LucroPresumido taxes a presumed profit margin of the revenue
type LucroPresumido struct{}

func (LucroPresumido) Regime() domain.Regime { return domain.RegimeLucroPresumido }

func (LucroPresumido) Compute(base RegimeBase) (domain.RegimeScenario, error) {
	p := base.Params
	revenue := base.MonthlyRevenue

	presumed := revenue.Mul(p.PresumptionRateServices)
	irpj := presumed.Mul(p.IRPJRate)
	monthlyThreshold := p.IRPJSurtaxThresholdAnnual.Div(twelve)
	surtax := decimal.Zero
	if presumed.GreaterThan(monthlyThreshold) {
		surtax = presumed.Sub(monthlyThreshold).Mul(p.IRPJSurtaxRate)
	}
	csll := presumed.Mul(p.CSLLRate)
	pisCofins := revenue.Mul(p.PISCumulativeRate.Add(p.COFINSCumulativeRate))
	federal := irpj.Add(surtax).Add(csll).Add(pisCofins)
	municipal := revenue.Mul(base.Config.ISSRate)

	scenario := newScenario(domain.RegimeLucroPresumido, commentPresumido, base.RevenueBasis, presumed, federal, municipal, revenue)
	scenario.Detail["presumption_rate"] = p.PresumptionRateServices.String()
	scenario.Detail["irpj"] = roundMoney(irpj).StringFixed(2)
	scenario.Detail["irpj_surtax"] = roundMoney(surtax).StringFixed(2)
	scenario.Detail["csll"] = roundMoney(csll).StringFixed(2)
	scenario.Detail["pis_cofins"] = roundMoney(pisCofins).StringFixed(2)
	scenario.Detail["iss_rate"] = base.Config.ISSRate.String()
	return scenario, nil
}

// LucroReal is an estimate: non-cumulative PIS/COFINS plus a blended IRPJ/CSLL rate over revenue
type LucroReal struct{}

func (LucroReal) Regime() domain.Regime { return domain.RegimeLucroReal }

func (LucroReal) Compute(base RegimeBase) (domain.RegimeScenario, error) {
	p := base.Params
	revenue := base.MonthlyRevenue

	pisCofins := revenue.Mul(p.PISNonCumulativeRate.Add(p.COFINSNonCumulativeRate))
	incomeTaxes := revenue.Mul(p.RealProfitBlendedRate)
	federal := pisCofins.Add(incomeTaxes)
	municipal := revenue.Mul(base.Config.ISSRate)

	scenario := newScenario(domain.RegimeLucroReal, commentReal, base.RevenueBasis, revenue, federal, municipal, revenue)
	scenario.Detail["pis_cofins"] = roundMoney(pisCofins).StringFixed(2)
	scenario.Detail["irpj_csll_estimate"] = roundMoney(incomeTaxes).StringFixed(2)
	scenario.Detail["blended_rate"] = p.RealProfitBlendedRate.String()
	scenario.Detail["estimate"] = "true"
	return scenario, nil
}

// CBSIBS is the post-reform consumption tax scenario with the health-sector reduction
type CBSIBS struct{}

func (CBSIBS) Regime() domain.Regime { return domain.RegimeCBSIBS }

func (CBSIBS) Compute(base RegimeBase) (domain.RegimeScenario, error) {
	p := base.Params
	revenue := base.MonthlyRevenue
	factor := decimal.NewFromInt(1).Sub(p.HealthSectorReduction)

	federal := revenue.Mul(p.CBSRate).Mul(factor)
	municipal := revenue.Mul(p.IBSRate).Mul(factor)

	scenario := newScenario(domain.RegimeCBSIBS, commentCBSIBS, base.RevenueBasis, revenue, federal, municipal, revenue)
	scenario.Detail["cbs_rate"] = p.CBSRate.String()
	scenario.Detail["ibs_rate"] = p.IBSRate.String()
	scenario.Detail["health_reduction"] = p.HealthSectorReduction.String()
	return scenario, nil
}

// ComparisonResult holds the four scenarios in declaration order and the cheapest one
type ComparisonResult struct {
	Scenarios []domain.RegimeScenario
	Best      domain.RegimeScenario
	Clamped   bool
}

// RegimeComparator runs every regime against the same base
type RegimeComparator struct {
	Calculators []RegimeCalculator
}

// NewRegimeComparator creates a comparator with the four regimes in declaration
// order: Simples Nacional, Lucro Presumido, Lucro Real, CBS/IBS.
func NewRegimeComparator(brackets *BracketCalculator) *RegimeComparator {
	return &RegimeComparator{
		Calculators: []RegimeCalculator{
			SimplesNacional{Brackets: brackets},
			LucroPresumido{},
			LucroReal{},
			CBSIBS{},
		},
	}
}

// Compare computes all scenarios and selects the minimal total. Ties go to the
// scenario declared first.
func (rc *RegimeComparator) Compare(base RegimeBase) (ComparisonResult, error) {
	if base.Params == nil || base.Config == nil {
		return ComparisonResult{}, fmt.Errorf("%w: regime base requires parameters and config", domain.ErrInvalidParameters)
	}
	result := ComparisonResult{Scenarios: make([]domain.RegimeScenario, 0, len(rc.Calculators))}
	for i, calc := range rc.Calculators {
		scenario, err := calc.Compute(base)
		if err != nil {
			return ComparisonResult{}, fmt.Errorf("failed to compute %s: %w", calc.Regime(), err)
		}
		if scenario.Detail["clamped"] == "true" {
			result.Clamped = true
		}
		result.Scenarios = append(result.Scenarios, scenario)
		if i == 0 || scenario.Total.LessThan(result.Best.Total) {
			result.Best = scenario
		}
	}
	return result, nil
}
