// Package controller assembles a runnable fuzzy controller from a config
// model: it builds the inference engine and applies the wire-field
// bindings and scaling the model declares, turning simulator poses into
// steering commands.
package controller

import (
	"context"
	"fmt"
	"sort"

	"github.com/vk/fuzztruck/internal/config"
	"github.com/vk/fuzztruck/internal/fuzzy"
	"github.com/vk/fuzztruck/internal/wire"
)

// Controller owns a fuzzy engine plus the translation between wire units
// and the engine's variable universes.
type Controller struct {
	name   string
	engine *fuzzy.Engine
	bind   config.Bind
	scale  config.Scale
	bounds map[string][2]float64
}

// New builds a controller from a validated config model.
func New(model *config.Model) (*Controller, error) {
	if err := model.Validate(); err != nil {
		return nil, err
	}

	var inputs []*fuzzy.Variable
	var output *fuzzy.Variable
	bounds := make(map[string][2]float64)
	for _, name := range sortedVariableNames(model) {
		v := model.Variables[name]
		fv, err := buildVariable(v)
		if err != nil {
			return nil, err
		}
		if v.Role == config.RoleOutput {
			if output != nil {
				return nil, fmt.Errorf("more than one output variable declared (%q and %q)", output.Name, v.Name)
			}
			output = fv
		} else {
			inputs = append(inputs, fv)
			bounds[v.Name] = [2]float64{v.Min, v.Max}
		}
	}

	rules := make([]fuzzy.Rule, 0, len(model.Rules))
	for _, r := range model.Rules {
		rules = append(rules, buildRule(r, model.Controller.Output))
	}

	engine, err := fuzzy.NewEngine(inputs, output, rules, model.Controller.Defuzzifier)
	if err != nil {
		return nil, err
	}
	return &Controller{
		name:   model.Controller.Name,
		engine: engine,
		bind:   model.Controller.Bind,
		scale:  model.Controller.Scale,
		bounds: bounds,
	}, nil
}

// Name returns the controller's configured name.
func (c *Controller) Name() string {
	return c.name
}

// Steer runs one inference cycle for a simulator pose and returns the
// steering command, clamped to the protocol bounds. The clamp matters when
// scaled universes exceed the wire range, e.g. a shouldered output term
// defuzzifying slightly past the divisor.
func (c *Controller) Steer(ctx context.Context, st wire.State) (float64, error) {
	crisp := make(map[string]float64, 3)
	if c.bind.X != "" {
		crisp[c.bind.X] = c.clamp(c.bind.X, st.X*c.scale.X)
	}
	if c.bind.Y != "" {
		crisp[c.bind.Y] = c.clamp(c.bind.Y, st.Y*c.scale.Y)
	}
	if c.bind.Angle != "" {
		crisp[c.bind.Angle] = c.clamp(c.bind.Angle, st.Angle*c.scale.Angle)
	}

	out, err := c.engine.Compute(ctx, crisp)
	if err != nil {
		return 0, err
	}

	steer := out / c.scale.Output
	if steer > wire.MaxSteering {
		steer = wire.MaxSteering
	}
	if steer < wire.MinSteering {
		steer = wire.MinSteering
	}
	return steer, nil
}

// clamp pins a scaled wire value to the variable's universe. The wire
// allows poses the universe does not cover exactly — the simulator can
// report an angle of 180 against the stock [0,179] universe — and outside
// the universe every term degree is zero, so no rule could fire.
func (c *Controller) clamp(name string, v float64) float64 {
	b, ok := c.bounds[name]
	if !ok {
		return v
	}
	if v < b[0] {
		return b[0]
	}
	if v > b[1] {
		return b[1]
	}
	return v
}

func buildVariable(v *config.Variable) (*fuzzy.Variable, error) {
	var terms []fuzzy.Term
	if len(v.Partitions) > 0 {
		var err error
		terms, err = fuzzy.AutoPartition(v.Min, v.Max, v.Partitions)
		if err != nil {
			return nil, fmt.Errorf("variable %q: %w", v.Name, err)
		}
	} else {
		for _, t := range v.Terms {
			terms = append(terms, fuzzy.Term{
				Name: t.Name,
				MF:   fuzzy.Triangle{A: t.Points[0], B: t.Points[1], C: t.Points[2]},
			})
		}
	}
	return fuzzy.NewVariable(v.Name, v.Min, v.Max, v.Step, terms)
}

// buildRule converts a config rule into an engine rule. Clause order is
// made deterministic by sorting on variable name; conjunction is
// commutative so this changes nothing semantically.
func buildRule(r *config.Rule, output string) fuzzy.Rule {
	vars := make([]string, 0, len(r.When))
	for v := range r.When {
		vars = append(vars, v)
	}
	sort.Strings(vars)

	clauses := make([]fuzzy.Clause, len(vars))
	for i, v := range vars {
		clauses[i] = fuzzy.Clause{Variable: v, Term: r.When[v]}
	}
	return fuzzy.Rule{
		When: clauses,
		Then: fuzzy.Clause{Variable: output, Term: r.Then},
	}
}

func sortedVariableNames(model *config.Model) []string {
	names := make([]string, 0, len(model.Variables))
	for name := range model.Variables {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
