package config

import (
	"fmt"
	"sort"
)

// Role distinguishes antecedent from consequent variables.
type Role string

const (
	RoleInput  Role = "input"
	RoleOutput Role = "output"
)

// Model is the unified, format-agnostic representation of a controller
// definition, regardless of whether it came from HCL files or the built-in
// profile.
type Model struct {
	Controller *Controller
	Variables  map[string]*Variable
	Rules      []*Rule
	Session    *Session
}

// Variable describes one linguistic variable and how its universe is
// partitioned into terms. Exactly one of Partitions and Terms is set:
// Partitions names evenly spaced overlapping triangles; Terms gives
// explicit triangle points.
type Variable struct {
	Name       string
	Role       Role
	Min        float64
	Max        float64
	Step       float64
	Partitions []string
	Terms      []*Term
}

// Term is an explicitly specified triangular term.
type Term struct {
	Name   string
	Points [3]float64
}

// Controller wires the fuzzy engine to the simulator: which wire fields
// feed which variables, how values scale between wire units and variable
// universes, and how the aggregate output becomes a crisp command.
type Controller struct {
	Name        string
	Defuzzifier string
	Output      string
	Bind        Bind
	Scale       Scale
}

// Bind maps wire fields to input variable names. An empty name means the
// field is ignored; the stock truck controller, for instance, never looks
// at y.
type Bind struct {
	X     string
	Y     string
	Angle string
}

// Scale holds the multipliers applied to wire fields before fuzzification
// and the divisor applied to the defuzzified output before it is sent as a
// steering command. Zero values are normalized to 1 by Validate.
type Scale struct {
	X      float64
	Y      float64
	Angle  float64
	Output float64
}

// Rule is the format-agnostic representation of a `rule` block: a
// conjunction of variable=term pairs implying an output term.
type Rule struct {
	When map[string]string
	Then string
}

// Session carries connection settings for a drive session.
type Session struct {
	Host      string
	Port      int
	MaxCycles int
}

// Validate checks the structural integrity of the model: the controller
// block is present, every rule references declared variables and terms,
// bindings point at input variables, and the output is a declared output
// variable. It also normalizes zero scale factors to 1.
func (m *Model) Validate() error {
	if m.Controller == nil {
		return fmt.Errorf("model has no controller block")
	}
	if len(m.Variables) == 0 {
		return fmt.Errorf("model declares no variables")
	}
	if len(m.Rules) == 0 {
		return fmt.Errorf("model declares no rules")
	}

	for name, v := range m.Variables {
		if err := v.validate(); err != nil {
			return err
		}
		if name != v.Name {
			return fmt.Errorf("variable keyed %q but named %q", name, v.Name)
		}
	}

	out, ok := m.Variables[m.Controller.Output]
	if !ok {
		return fmt.Errorf("controller output %q is not a declared variable", m.Controller.Output)
	}
	if out.Role != RoleOutput {
		return fmt.Errorf("controller output %q must have role %q, has %q", out.Name, RoleOutput, out.Role)
	}

	bound := make(map[string]struct{})
	for _, b := range []struct {
		field string
		name  string
	}{
		{"x", m.Controller.Bind.X},
		{"y", m.Controller.Bind.Y},
		{"angle", m.Controller.Bind.Angle},
	} {
		if b.name == "" {
			continue
		}
		v, ok := m.Variables[b.name]
		if !ok {
			return fmt.Errorf("bind %s = %q: not a declared variable", b.field, b.name)
		}
		if v.Role != RoleInput {
			return fmt.Errorf("bind %s = %q: variable must have role %q", b.field, b.name, RoleInput)
		}
		bound[b.name] = struct{}{}
	}
	if len(bound) == 0 {
		return fmt.Errorf("controller binds no wire fields to variables")
	}
	// Every input needs a crisp value each cycle, so an input no wire
	// field feeds would only fail later, on the first inference.
	for _, name := range m.InputNames() {
		if _, ok := bound[name]; !ok {
			return fmt.Errorf("input variable %q is not bound to any wire field", name)
		}
	}

	for i, r := range m.Rules {
		if len(r.When) == 0 {
			return fmt.Errorf("rule %d has an empty when clause", i)
		}
		for varName, termName := range r.When {
			v, ok := m.Variables[varName]
			if !ok {
				return fmt.Errorf("rule %d references unknown variable %q", i, varName)
			}
			if v.Role != RoleInput {
				return fmt.Errorf("rule %d conditions on %q, which is not an input variable", i, varName)
			}
			if !v.hasTerm(termName) {
				return fmt.Errorf("rule %d: variable %q has no term %q", i, varName, termName)
			}
		}
		if !out.hasTerm(r.Then) {
			return fmt.Errorf("rule %d: output variable %q has no term %q", i, out.Name, r.Then)
		}
	}

	if m.Controller.Scale.X == 0 {
		m.Controller.Scale.X = 1
	}
	if m.Controller.Scale.Y == 0 {
		m.Controller.Scale.Y = 1
	}
	if m.Controller.Scale.Angle == 0 {
		m.Controller.Scale.Angle = 1
	}
	if m.Controller.Scale.Output == 0 {
		m.Controller.Scale.Output = 1
	}
	return nil
}

// InputNames returns the names of input-role variables, sorted.
func (m *Model) InputNames() []string {
	var names []string
	for name, v := range m.Variables {
		if v.Role == RoleInput {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names
}

func (v *Variable) validate() error {
	switch v.Role {
	case RoleInput, RoleOutput:
	default:
		return fmt.Errorf("variable %q: role must be %q or %q, got %q", v.Name, RoleInput, RoleOutput, v.Role)
	}
	if v.Max <= v.Min {
		return fmt.Errorf("variable %q: universe [%v, %v] is empty", v.Name, v.Min, v.Max)
	}
	if v.Step <= 0 {
		return fmt.Errorf("variable %q: step must be positive, got %v", v.Name, v.Step)
	}
	if len(v.Partitions) > 0 && len(v.Terms) > 0 {
		return fmt.Errorf("variable %q: partitions and explicit terms are mutually exclusive", v.Name)
	}
	if len(v.Partitions) == 0 && len(v.Terms) == 0 {
		return fmt.Errorf("variable %q: needs either partitions or term blocks", v.Name)
	}
	if len(v.Partitions) == 1 {
		return fmt.Errorf("variable %q: a partition needs at least 2 names", v.Name)
	}
	seen := make(map[string]struct{})
	for _, name := range v.termNames() {
		if _, dup := seen[name]; dup {
			return fmt.Errorf("variable %q: duplicate term %q", v.Name, name)
		}
		seen[name] = struct{}{}
	}
	return nil
}

func (v *Variable) termNames() []string {
	if len(v.Partitions) > 0 {
		return v.Partitions
	}
	names := make([]string, len(v.Terms))
	for i, t := range v.Terms {
		names[i] = t.Name
	}
	return names
}

func (v *Variable) hasTerm(name string) bool {
	for _, t := range v.termNames() {
		if t == name {
			return true
		}
	}
	return false
}
