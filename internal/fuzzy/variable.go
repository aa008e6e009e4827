package fuzzy

import "fmt"

// Term is one linguistic value of a variable, e.g. "left_big" or "ZE".
type Term struct {
	Name string
	MF   Triangle
}

// Variable is a linguistic variable: a sampled universe of discourse plus
// a set of named terms over it. The same type serves antecedent (input)
// and consequent (output) variables.
type Variable struct {
	Name     string
	Universe []float64

	terms map[string]Term
	order []string
}

// NewVariable builds a variable over the inclusive range [min, max] sampled
// every step. Samples are what defuzzification integrates over, so step
// controls output resolution.
func NewVariable(name string, min, max, step float64, terms []Term) (*Variable, error) {
	if name == "" {
		return nil, fmt.Errorf("variable name must not be empty")
	}
	if step <= 0 {
		return nil, fmt.Errorf("variable %q: step must be positive, got %v", name, step)
	}
	if max <= min {
		return nil, fmt.Errorf("variable %q: universe [%v, %v] is empty", name, min, max)
	}
	if len(terms) == 0 {
		return nil, fmt.Errorf("variable %q: at least one term is required", name)
	}

	var universe []float64
	for x := min; x <= max+step/2; x += step {
		universe = append(universe, x)
	}

	v := &Variable{
		Name:     name,
		Universe: universe,
		terms:    make(map[string]Term, len(terms)),
	}
	for _, t := range terms {
		if _, dup := v.terms[t.Name]; dup {
			return nil, fmt.Errorf("variable %q: duplicate term %q", name, t.Name)
		}
		if err := t.MF.validate(); err != nil {
			return nil, fmt.Errorf("variable %q, term %q: %w", name, t.Name, err)
		}
		v.terms[t.Name] = t
		v.order = append(v.order, t.Name)
	}
	return v, nil
}

// Term returns the named term, or an error listing what exists.
func (v *Variable) Term(name string) (Term, error) {
	t, ok := v.terms[name]
	if !ok {
		return Term{}, fmt.Errorf("variable %q has no term %q (have %v)", v.Name, name, v.order)
	}
	return t, nil
}

// Terms returns the term names in definition order.
func (v *Variable) Terms() []string {
	out := make([]string, len(v.order))
	copy(out, v.order)
	return out
}

// Degree returns the membership of x in the named term.
func (v *Variable) Degree(term string, x float64) (float64, error) {
	t, err := v.Term(term)
	if err != nil {
		return 0, err
	}
	return t.MF.Degree(x), nil
}
