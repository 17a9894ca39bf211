package transform

import (
	"fmt"
	"sort"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/labfinance/taxsim/internal/domain"
)

// TransformRegistry creates transforms from their string specs, as given on
// the command line.
type TransformRegistry struct {
	factories map[string]TransformFactory
}

// TransformFactory is a function that creates a transform from parameters.
type TransformFactory func(params map[string]string) (ScenarioTransform, error)

// NewTransformRegistry creates a new registry with all built-in transforms registered.
func NewTransformRegistry() *TransformRegistry {
	registry := &TransformRegistry{
		factories: make(map[string]TransformFactory),
	}

	registry.Register("raise_prolabore", createRaiseProlabore)
	registry.Register("raise_salaries", createRaiseSalaries)
	registry.Register("scale_revenue", createScaleRevenue)
	registry.Register("set_regime", createSetRegime)
	registry.Register("set_iss_rate", createSetISSRate)
	registry.Register("set_basis", createSetRevenueBasis)

	return registry
}

// Register adds a transform factory to the registry.
func (r *TransformRegistry) Register(name string, factory TransformFactory) {
	r.factories[name] = factory
}

// Create creates a transform by name with the given parameters.
func (r *TransformRegistry) Create(name string, params map[string]string) (ScenarioTransform, error) {
	factory, exists := r.factories[name]
	if !exists {
		return nil, fmt.Errorf("unknown transform: %s", name)
	}

	return factory(params)
}

// List returns the sorted names of all registered transforms.
func (r *TransformRegistry) List() []string {
	names := make([]string, 0, len(r.factories))
	for name := range r.factories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ParseTransformSpec parses a transform specification string.
// Format: "transform_name:param1=value1,param2=value2"
// Example: "raise_prolabore:amount=5000"
func (r *TransformRegistry) ParseTransformSpec(spec string) (ScenarioTransform, error) {
	parts := strings.SplitN(spec, ":", 2)
	if len(parts) != 2 {
		return nil, fmt.Errorf("invalid transform spec format, expected 'name:params', got: %s", spec)
	}

	name := strings.TrimSpace(parts[0])
	paramsStr := strings.TrimSpace(parts[1])

	params := make(map[string]string)
	if paramsStr != "" {
		for _, paramPair := range strings.Split(paramsStr, ",") {
			kv := strings.SplitN(paramPair, "=", 2)
			if len(kv) != 2 {
				return nil, fmt.Errorf("invalid parameter format, expected 'key=value', got: %s", paramPair)
			}
			params[strings.TrimSpace(kv[0])] = strings.TrimSpace(kv[1])
		}
	}

	return r.Create(name, params)
}

// ParseTransformSpecs parses every spec in order
func (r *TransformRegistry) ParseTransformSpecs(specs []string) ([]ScenarioTransform, error) {
	transforms := make([]ScenarioTransform, 0, len(specs))
	for _, spec := range specs {
		t, err := r.ParseTransformSpec(spec)
		if err != nil {
			return nil, err
		}
		transforms = append(transforms, t)
	}
	return transforms, nil
}

// Factory functions for each transform

func decimalParam(transform string, params map[string]string, key string) (decimal.Decimal, error) {
	raw, ok := params[key]
	if !ok {
		return decimal.Zero, fmt.Errorf("%s requires '%s' parameter", transform, key)
	}
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid %s value: %w", key, err)
	}
	return d, nil
}

func createRaiseProlabore(params map[string]string) (ScenarioTransform, error) {
	amount, err := decimalParam("raise_prolabore", params, "amount")
	if err != nil {
		return nil, err
	}
	return &RaiseProlabore{Amount: amount}, nil
}

func createRaiseSalaries(params map[string]string) (ScenarioTransform, error) {
	amount, err := decimalParam("raise_salaries", params, "amount")
	if err != nil {
		return nil, err
	}
	return &RaiseSalaries{Amount: amount}, nil
}

func createScaleRevenue(params map[string]string) (ScenarioTransform, error) {
	factor, err := decimalParam("scale_revenue", params, "factor")
	if err != nil {
		return nil, err
	}
	return &ScaleRevenue{Factor: factor}, nil
}

func createSetRegime(params map[string]string) (ScenarioTransform, error) {
	regime, ok := params["regime"]
	if !ok {
		return nil, fmt.Errorf("set_regime requires 'regime' parameter")
	}
	return &SetRegime{Regime: domain.Regime(regime)}, nil
}

func createSetISSRate(params map[string]string) (ScenarioTransform, error) {
	rate, err := decimalParam("set_iss_rate", params, "rate")
	if err != nil {
		return nil, err
	}
	return &SetISSRate{Rate: rate}, nil
}

func createSetRevenueBasis(params map[string]string) (ScenarioTransform, error) {
	basis, ok := params["basis"]
	if !ok {
		return nil, fmt.Errorf("set_basis requires 'basis' parameter")
	}
	return &SetRevenueBasis{Basis: domain.RevenueBasis(basis)}, nil
}
