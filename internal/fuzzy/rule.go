package fuzzy

import (
	"fmt"
	"sort"
	"strings"
)

// Clause pairs a variable with one of its terms, e.g. x_position=left_big.
type Clause struct {
	Variable string
	Term     string
}

// Rule maps a conjunction of input clauses to an output term. Antecedent
// clauses combine with min; the resulting activation clips the consequent.
type Rule struct {
	When []Clause
	Then Clause
}

// String renders the rule in a stable, human-readable form for logs and
// error messages.
func (r Rule) String() string {
	parts := make([]string, len(r.When))
	for i, c := range r.When {
		parts[i] = c.Variable + "=" + c.Term
	}
	sort.Strings(parts)
	return fmt.Sprintf("IF %s THEN %s=%s", strings.Join(parts, " AND "), r.Then.Variable, r.Then.Term)
}

// activation computes the rule's firing strength for the given crisp
// inputs, resolving each clause against the engine's input variables.
func (r Rule) activation(inputs map[string]*Variable, crisp map[string]float64) (float64, error) {
	if len(r.When) == 0 {
		return 0, fmt.Errorf("rule %q has an empty antecedent", r.String())
	}
	act := 1.0
	for _, c := range r.When {
		v, ok := inputs[c.Variable]
		if !ok {
			return 0, fmt.Errorf("rule %q references unknown input variable %q", r.String(), c.Variable)
		}
		x, ok := crisp[c.Variable]
		if !ok {
			return 0, fmt.Errorf("no crisp value supplied for input %q", c.Variable)
		}
		d, err := v.Degree(c.Term, x)
		if err != nil {
			return 0, fmt.Errorf("rule %q: %w", r.String(), err)
		}
		if d < act {
			act = d
		}
	}
	return act, nil
}
