package transform

import (
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/labfinance/taxsim/internal/calculation"
	"github.com/labfinance/taxsim/internal/domain"
)

var reference = domain.NewYearMonth(2025, time.June)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

// createTestScenario is twelve months of 50k revenue, 6k salaries and 3k pro-labore under Simples
func createTestScenario(t *testing.T) *Scenario {
	t.Helper()
	months := domain.MonthRange(reference, calculation.WindowLength)
	aggregates := make([]domain.MonthlyAggregate, len(months))
	for i, m := range months {
		aggregates[i] = domain.MonthlyAggregate{
			Month:            m,
			ServiceRevenue:   dec("50000"),
			PayrollSalaries:  dec("6000"),
			PayrollProlabore: dec("3000"),
		}
	}
	s, err := NewScenario(calculation.NewEngine(), "Atual", calculation.SimulationRequest{
		Reference:  reference,
		Aggregates: aggregates,
		Config:     &domain.TaxConfig{Regime: domain.RegimeSimplesNacional, ISSRate: dec("0.05")},
	})
	require.NoError(t, err)
	return s
}

func simulate(t *testing.T, s *Scenario) *domain.SimulationOutput {
	t.Helper()
	out, err := calculation.NewEngine().Simulate(s.Request)
	require.NoError(t, err)
	return out
}

func TestNewScenario_AlignsWindow(t *testing.T) {
	s, err := NewScenario(calculation.NewEngine(), "Parcial", calculation.SimulationRequest{
		Reference: reference,
		Aggregates: []domain.MonthlyAggregate{
			{Month: reference, ServiceRevenue: dec("1000")},
		},
	})
	require.NoError(t, err)

	require.Len(t, s.Request.Aggregates, calculation.WindowLength)
	assert.Equal(t, reference.AddMonths(-11), s.Request.Aggregates[0].Month)
	assert.True(t, s.Request.Aggregates[0].ServiceRevenue.IsZero())
	assert.True(t, dec("1000").Equal(s.Request.Aggregates[11].ServiceRevenue))
	assert.Nil(t, s.Request.Entries)
}

func TestApplyTransforms_NilScenario(t *testing.T) {
	_, err := ApplyTransforms(nil, []ScenarioTransform{&RaiseProlabore{Amount: dec("100")}})
	assert.ErrorContains(t, err, "base scenario cannot be nil")
}

func TestApplyTransforms_EmptyTransforms(t *testing.T) {
	base := createTestScenario(t)

	result, err := ApplyTransforms(base, nil)
	require.NoError(t, err)
	assert.NotSame(t, base, result)
	assert.Equal(t, base.Request.Aggregates, result.Request.Aggregates)
}

func TestApplyTransforms_NilTransform(t *testing.T) {
	_, err := ApplyTransforms(createTestScenario(t), []ScenarioTransform{nil})
	assert.ErrorContains(t, err, "transform at index 0 is nil")
}

func TestRaiseProlabore_ReachesAnexoIII(t *testing.T) {
	base := createTestScenario(t)

	result, err := ApplyTransforms(base, []ScenarioTransform{&RaiseProlabore{Amount: dec("5000")}})
	require.NoError(t, err)

	out := simulate(t, result)
	assert.True(t, dec("0.28").Equal(out.FatorR), "got %s", out.FatorR)
	assert.Equal(t, domain.AnnexIII, out.Annex)
	simples, ok := out.Scenario(domain.RegimeSimplesNacional)
	require.True(t, ok)
	assert.True(t, dec("5280").Equal(simples.Total), "got %s", simples.Total)

	// base is untouched
	assert.True(t, dec("3000").Equal(base.Request.Aggregates[0].PayrollProlabore))
	assert.True(t, dec("8000").Equal(result.Request.Aggregates[0].PayrollProlabore))
}

func TestRaisePayroll_Validation(t *testing.T) {
	base := createTestScenario(t)

	tests := []struct {
		name      string
		transform ScenarioTransform
		wantErr   string
	}{
		{"zero amount", &RaiseProlabore{}, "amount cannot be zero"},
		{"negative result", &RaiseProlabore{Amount: dec("-3000.01")}, "raise_prolabore would become negative in 2024-07"},
		{"salary cut allowed", &RaiseSalaries{Amount: dec("-6000")}, ""},
		{"salary below zero", &RaiseSalaries{Amount: dec("-7000")}, "raise_salaries would become negative"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.transform.Validate(base)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			var tErr *TransformError
			require.True(t, errors.As(err, &tErr))
			assert.Equal(t, "validate", tErr.Operation)
			assert.ErrorContains(t, err, tt.wantErr)
		})
	}

	empty := &Scenario{Name: "vazio"}
	assert.ErrorContains(t, (&RaiseSalaries{Amount: dec("1")}).Validate(empty), "scenario has no monthly window")
}

func TestScaleRevenue(t *testing.T) {
	result, err := ApplyTransforms(createTestScenario(t), []ScenarioTransform{&ScaleRevenue{Factor: dec("1.1")}})
	require.NoError(t, err)

	out := simulate(t, result)
	assert.True(t, dec("660000").Equal(out.RBT12), "got %s", out.RBT12)
	assert.Equal(t, domain.AnnexV, out.Annex)

	err = (&ScaleRevenue{Factor: dec("0")}).Validate(createTestScenario(t))
	assert.ErrorContains(t, err, "factor must be positive")

	assert.Equal(t, "Aumentar a receita em 10,00%", (&ScaleRevenue{Factor: dec("1.1")}).Description())
	assert.Equal(t, "Reduzir a receita em 10,00%", (&ScaleRevenue{Factor: dec("0.9")}).Description())
}

func TestConfigTransforms(t *testing.T) {
	base := createTestScenario(t)

	result, err := ApplyTransforms(base, []ScenarioTransform{
		&SetRegime{Regime: domain.RegimeLucroPresumido},
		&SetISSRate{Rate: dec("0.02")},
		&SetRevenueBasis{Basis: domain.RevenueBasisRBT12Average},
	})
	require.NoError(t, err)

	assert.Equal(t, domain.RegimeLucroPresumido, result.Request.Config.Regime)
	assert.True(t, dec("0.02").Equal(result.Request.Config.ISSRate))
	assert.Equal(t, domain.RevenueBasisRBT12Average, result.Request.RevenueBasis)
	assert.Equal(t, domain.RegimeSimplesNacional, base.Request.Config.Regime)
	assert.True(t, dec("0.05").Equal(base.Request.Config.ISSRate))

	out := simulate(t, result)
	assert.Equal(t, domain.RegimeLucroPresumido, out.CurrentRegime)
}

func TestSetRegime_DefaultConfig(t *testing.T) {
	base := createTestScenario(t)
	base.Request.Config = nil

	result, err := ApplyTransforms(base, []ScenarioTransform{&SetRegime{Regime: domain.RegimeCBSIBS}})
	require.NoError(t, err)
	require.NotNil(t, result.Request.Config)
	assert.Equal(t, domain.RegimeCBSIBS, result.Request.Config.Regime)
	assert.True(t, domain.DefaultISSRate.Equal(result.Request.Config.ISSRate))
	assert.Nil(t, base.Request.Config)
}

func TestConfigTransforms_Validation(t *testing.T) {
	base := createTestScenario(t)

	err := (&SetRegime{Regime: "mei"}).Validate(base)
	assert.ErrorIs(t, err, domain.ErrInvalidConfig)

	err = (&SetISSRate{Rate: dec("1.5")}).Validate(base)
	assert.ErrorIs(t, err, domain.ErrInvalidConfig)

	err = (&SetRevenueBasis{Basis: "weekly"}).Validate(base)
	assert.ErrorIs(t, err, domain.ErrInvalidParameters)

	_, err = ApplyTransforms(base, []ScenarioTransform{&SetRegime{Regime: "mei"}})
	assert.ErrorContains(t, err, "transform set_regime validation failed")
}

func TestDescribe(t *testing.T) {
	got := Describe([]ScenarioTransform{
		&RaiseProlabore{Amount: dec("5000")},
		&RaiseSalaries{Amount: dec("-1000")},
		&SetRegime{Regime: domain.RegimeCBSIBS},
		&SetISSRate{Rate: dec("0.02")},
	})
	assert.Equal(t, "Aumentar o pró-labore em R$ 5.000,00/mês; Reduzir os salários em R$ 1.000,00/mês; Optar pelo CBS/IBS (Reforma); ISS municipal de 2,00%", got)
}

func TestTransformError(t *testing.T) {
	cause := errors.New("boom")
	err := NewTransformError("set_regime", "apply", "failed", cause)
	assert.Equal(t, "transform set_regime (apply): failed: boom", err.Error())
	assert.ErrorIs(t, err, cause)

	assert.Equal(t, "transform x (validate): bad", NewTransformError("x", "validate", "bad", nil).Error())
}
