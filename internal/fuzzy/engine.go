package fuzzy

import (
	"context"
	"fmt"

	"github.com/vk/fuzztruck/internal/ctxlog"
)

// Engine is a complete Mamdani controller: input variables, one output
// variable, a rule base, and a defuzzification method. Compute is pure
// with respect to the engine; no activation state is retained between
// calls, so one engine may serve consecutive control cycles.
type Engine struct {
	inputs map[string]*Variable
	output *Variable
	rules  []Rule
	defuzz Defuzzifier
	method string
}

// NewEngine validates the rule base against the variables and returns a
// ready engine. Every rule must reference known input variables and terms
// and conclude on a term of the output variable.
func NewEngine(inputs []*Variable, output *Variable, rules []Rule, method string) (*Engine, error) {
	if output == nil {
		return nil, fmt.Errorf("engine requires an output variable")
	}
	if len(rules) == 0 {
		return nil, fmt.Errorf("engine requires at least one rule")
	}
	defuzz, err := LookupDefuzzifier(method)
	if err != nil {
		return nil, err
	}

	in := make(map[string]*Variable, len(inputs))
	for _, v := range inputs {
		if v.Name == output.Name {
			return nil, fmt.Errorf("variable %q cannot be both input and output", v.Name)
		}
		if _, dup := in[v.Name]; dup {
			return nil, fmt.Errorf("duplicate input variable %q", v.Name)
		}
		in[v.Name] = v
	}

	for _, r := range rules {
		for _, c := range r.When {
			v, ok := in[c.Variable]
			if !ok {
				return nil, fmt.Errorf("rule %q references unknown input variable %q", r.String(), c.Variable)
			}
			if _, err := v.Term(c.Term); err != nil {
				return nil, fmt.Errorf("rule %q: %w", r.String(), err)
			}
		}
		if r.Then.Variable != output.Name {
			return nil, fmt.Errorf("rule %q concludes on %q, want output variable %q", r.String(), r.Then.Variable, output.Name)
		}
		if _, err := output.Term(r.Then.Term); err != nil {
			return nil, fmt.Errorf("rule %q: %w", r.String(), err)
		}
	}

	return &Engine{
		inputs: in,
		output: output,
		rules:  rules,
		defuzz: defuzz,
		method: method,
	}, nil
}

// Output returns the output variable's name.
func (e *Engine) Output() string {
	return e.output.Name
}

// Inputs returns the names of the input variables the engine expects.
func (e *Engine) Inputs() []string {
	names := make([]string, 0, len(e.inputs))
	for name := range e.inputs {
		names = append(names, name)
	}
	return names
}

// Compute runs one inference cycle: fuzzify the crisp inputs, fire every
// rule, aggregate the clipped consequents by max, and defuzzify. Inputs
// outside a variable's universe simply fall off its membership functions;
// a missing input is an error.
func (e *Engine) Compute(ctx context.Context, crisp map[string]float64) (float64, error) {
	logger := ctxlog.FromContext(ctx)

	for name := range e.inputs {
		if _, ok := crisp[name]; !ok {
			return 0, fmt.Errorf("no crisp value supplied for input %q", name)
		}
	}

	aggregated := make([]float64, len(e.output.Universe))
	fired := 0
	for _, r := range e.rules {
		act, err := r.activation(e.inputs, crisp)
		if err != nil {
			return 0, err
		}
		if act == 0 {
			continue
		}
		fired++
		term, err := e.output.Term(r.Then.Term)
		if err != nil {
			return 0, err
		}
		for i, z := range e.output.Universe {
			clipped := term.MF.Degree(z)
			if act < clipped {
				clipped = act
			}
			if clipped > aggregated[i] {
				aggregated[i] = clipped
			}
		}
	}
	if fired == 0 {
		return 0, fmt.Errorf("inputs %v: %w", crisp, ErrNoActivation)
	}

	out, err := e.defuzz(e.output.Universe, aggregated)
	if err != nil {
		return 0, err
	}
	logger.Debug("Inference cycle complete.", "fired", fired, "method", e.method, "output", out)
	return out, nil
}
