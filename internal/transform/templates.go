package transform

import (
	"sort"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/labfinance/taxsim/internal/domain"
)

// TemplateRegistry manages built-in scenario templates
type TemplateRegistry struct {
	templates map[string]Template
}

// Template represents a named collection of transforms
type Template struct {
	Name        string
	Description string
	Transforms  []ScenarioTransform
}

// NewTemplateRegistry creates an empty template registry
func NewTemplateRegistry() *TemplateRegistry {
	return &TemplateRegistry{
		templates: make(map[string]Template),
	}
}

// Register adds a template to the registry
func (tr *TemplateRegistry) Register(t Template) {
	tr.templates[strings.ToLower(t.Name)] = t
}

// Get retrieves a template by name (case-insensitive)
func (tr *TemplateRegistry) Get(name string) (Template, bool) {
	t, ok := tr.templates[strings.ToLower(name)]
	return t, ok
}

// List returns all registered template names, sorted
func (tr *TemplateRegistry) List() []string {
	names := make([]string, 0, len(tr.templates))
	for name := range tr.templates {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// CreateBuiltInTemplates creates a template registry with the common what-if
// questions of a lab unit.
func CreateBuiltInTemplates() *TemplateRegistry {
	registry := NewTemplateRegistry()

	// Regime options
	registry.Register(Template{
		Name:        "presumido",
		Description: "Opção pelo Lucro Presumido",
		Transforms:  []ScenarioTransform{&SetRegime{Regime: domain.RegimeLucroPresumido}},
	})
	registry.Register(Template{
		Name:        "real",
		Description: "Opção pelo Lucro Real",
		Transforms:  []ScenarioTransform{&SetRegime{Regime: domain.RegimeLucroReal}},
	})
	registry.Register(Template{
		Name:        "reforma",
		Description: "Migração para CBS/IBS",
		Transforms:  []ScenarioTransform{&SetRegime{Regime: domain.RegimeCBSIBS}},
	})

	// Revenue
	registry.Register(Template{
		Name:        "growth_10pct",
		Description: "Receita 10% maior em toda a janela",
		Transforms:  []ScenarioTransform{&ScaleRevenue{Factor: decimal.RequireFromString("1.10")}},
	})
	registry.Register(Template{
		Name:        "drop_10pct",
		Description: "Receita 10% menor em toda a janela",
		Transforms:  []ScenarioTransform{&ScaleRevenue{Factor: decimal.RequireFromString("0.90")}},
	})

	// Municipal
	registry.Register(Template{
		Name:        "iss_minimum",
		Description: "ISS na alíquota mínima de 2%",
		Transforms:  []ScenarioTransform{&SetISSRate{Rate: decimal.RequireFromString("0.02")}},
	})

	// Combination
	registry.Register(Template{
		Name:        "growth_10pct_reforma",
		Description: "Receita 10% maior e migração para CBS/IBS",
		Transforms: []ScenarioTransform{
			&ScaleRevenue{Factor: decimal.RequireFromString("1.10")},
			&SetRegime{Regime: domain.RegimeCBSIBS},
		},
	})

	return registry
}
