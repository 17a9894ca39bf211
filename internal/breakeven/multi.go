package breakeven

import (
	"context"
	"fmt"

	"github.com/labfinance/taxsim/internal/domain"
	"github.com/labfinance/taxsim/internal/output"
)

// regimes in the order the comparator declares them
var regimes = []domain.Regime{
	domain.RegimeSimplesNacional,
	domain.RegimeLucroPresumido,
	domain.RegimeLucroReal,
	domain.RegimeCBSIBS,
}

// CrossoverAll runs req.RegimeA against every other regime. RegimeB is ignored.
func (s *Solver) CrossoverAll(ctx context.Context, req CrossoverRequest) (*MultiResult, error) {
	multi := &MultiResult{
		Target:  req.Target,
		Regime:  req.RegimeA,
		Results: make([]CrossoverResult, 0, len(regimes)-1),
	}

	for _, other := range regimes {
		if other == req.RegimeA {
			continue
		}
		pair := req
		pair.RegimeB = other
		result, err := s.Crossover(ctx, pair)
		if err != nil {
			return nil, fmt.Errorf("crossover %s x %s: %w", req.RegimeA, other, err)
		}
		multi.Results = append(multi.Results, *result)
	}

	for i := range multi.Results {
		r := &multi.Results[i]
		if !r.Found {
			continue
		}
		if multi.Nearest == nil || r.Distance.Abs().LessThan(multi.Nearest.Distance.Abs()) {
			multi.Nearest = r
		}
	}
	multi.Recommendations = generateRecommendations(multi)

	return multi, nil
}

// generateRecommendations describes each crossover in Portuguese
func generateRecommendations(multi *MultiResult) []string {
	recommendations := []string{}
	for _, r := range multi.Results {
		if !r.Found {
			recommendations = append(recommendations, fmt.Sprintf(
				"%s é sempre mais barato que %s entre %s e %s de %s",
				r.CheaperBelow.Label(), other(r, r.CheaperBelow).Label(),
				output.FormatCurrency(r.Lower.Value), output.FormatCurrency(r.Upper.Value), r.Target.Label()))
			continue
		}
		recommendations = append(recommendations, fmt.Sprintf(
			"A partir de %s de %s, %s passa a ser mais barato que %s (atual %s)",
			output.FormatCurrency(r.Value), r.Target.Label(), r.CheaperAbove.Label(), r.CheaperBelow.Label(),
			output.FormatCurrency(r.Current.Value)))
	}
	if multi.Nearest != nil {
		recommendations = append(recommendations, fmt.Sprintf(
			"Ponto de virada mais próximo: %s x %s, a %s do valor atual",
			multi.Nearest.RegimeA.Label(), multi.Nearest.RegimeB.Label(), output.FormatCurrency(multi.Nearest.Distance.Abs())))
	}
	return recommendations
}

// other returns the regime of the pair that is not r
func other(res CrossoverResult, r domain.Regime) domain.Regime {
	if res.RegimeA == r {
		return res.RegimeB
	}
	return res.RegimeA
}
