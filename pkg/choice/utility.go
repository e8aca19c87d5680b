package choice

import "sort"

// Input maps an attribute-bundle name to the named numeric attributes of one alternative.
type Input map[string]map[string]float64

// UtilityFunction computes the systematic utility of one alternative from its attributes.
// Implementations must be pure; a single instance is shared by every copy of a tree.
type UtilityFunction interface {
	Evaluate(attrs map[string]float64) (float64, error)
}

// UtilityFunc adapts a plain function to UtilityFunction.
type UtilityFunc func(attrs map[string]float64) (float64, error)

// Evaluate calls f.
func (f UtilityFunc) Evaluate(attrs map[string]float64) (float64, error) {
	return f(attrs)
}

// Constant returns a utility function that ignores its attributes.
func Constant(u float64) UtilityFunction {
	return UtilityFunc(func(map[string]float64) (float64, error) { return u, nil })
}

// Linear is an intercept plus a weighted sum of attributes.
type Linear struct {
	Intercept    float64
	Coefficients map[string]float64
}

// Evaluate returns Intercept + Σ coefficient·attribute.
// Every attribute with a coefficient must be present.
func (l Linear) Evaluate(attrs map[string]float64) (float64, error) {
	names := make([]string, 0, len(l.Coefficients))
	for name := range l.Coefficients {
		names = append(names, name)
	}
	// Fixed summation order keeps results bit-identical across runs.
	sort.Strings(names)

	u := l.Intercept
	for _, name := range names {
		v, ok := attrs[name]
		if !ok {
			return 0, &InputError{Attribute: name}
		}
		u += l.Coefficients[name] * v
	}
	return u, nil
}

// RandomSource supplies uniform draws in [0, 1).
// *math/rand.Rand and *math/rand/v2.Rand both satisfy it.
type RandomSource interface {
	Float64() float64
}
