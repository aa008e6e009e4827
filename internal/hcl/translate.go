package hcl

import (
	"fmt"

	"github.com/vk/fuzztruck/internal/config"
	"github.com/vk/fuzztruck/internal/schema"
)

// translate converts the merged HCL schema into the agnostic config model,
// applying format-level defaults (step 1, centroid defuzzification).
// Structural validation is the model's job, not the translator's.
func (l *Loader) translate(root *schema.Root) (*config.Model, error) {
	if len(root.Controllers) != 1 {
		return nil, fmt.Errorf("exactly one controller block is required, found %d", len(root.Controllers))
	}
	if len(root.Sessions) > 1 {
		return nil, fmt.Errorf("at most one session block is allowed, found %d", len(root.Sessions))
	}

	model := &config.Model{
		Controller: translateController(root.Controllers[0]),
		Variables:  make(map[string]*config.Variable, len(root.Variables)),
	}

	for _, v := range root.Variables {
		cv, err := translateVariable(v)
		if err != nil {
			return nil, err
		}
		if _, dup := model.Variables[cv.Name]; dup {
			return nil, fmt.Errorf("variable %q declared more than once", cv.Name)
		}
		model.Variables[cv.Name] = cv
	}

	for _, r := range root.Rules {
		model.Rules = append(model.Rules, &config.Rule{When: r.When, Then: r.Then})
	}

	if len(root.Sessions) == 1 {
		s := root.Sessions[0]
		model.Session = &config.Session{Host: s.Host, Port: s.Port, MaxCycles: s.MaxCycles}
	}
	return model, nil
}

func translateController(c *schema.Controller) *config.Controller {
	out := &config.Controller{
		Name:        c.Name,
		Defuzzifier: c.Defuzzifier,
		Output:      c.Output,
	}
	if out.Defuzzifier == "" {
		out.Defuzzifier = "centroid"
	}
	if c.Bind != nil {
		out.Bind = config.Bind{X: c.Bind.X, Y: c.Bind.Y, Angle: c.Bind.Angle}
	}
	if c.Scale != nil {
		out.Scale = config.Scale{X: c.Scale.X, Y: c.Scale.Y, Angle: c.Scale.Angle, Output: c.Scale.Output}
	}
	return out
}

func translateVariable(v *schema.Variable) (*config.Variable, error) {
	if len(v.Universe) != 2 {
		return nil, fmt.Errorf("variable %q: universe must be [min, max], got %d values", v.Name, len(v.Universe))
	}
	cv := &config.Variable{
		Name:       v.Name,
		Role:       config.Role(v.Role),
		Min:        v.Universe[0],
		Max:        v.Universe[1],
		Step:       v.Step,
		Partitions: v.Partitions,
	}
	if cv.Step == 0 {
		cv.Step = 1
	}
	for _, t := range v.Terms {
		if len(t.Points) != 3 {
			return nil, fmt.Errorf("variable %q, term %q: points must be [a, b, c], got %d values", v.Name, t.Name, len(t.Points))
		}
		cv.Terms = append(cv.Terms, &config.Term{
			Name:   t.Name,
			Points: [3]float64{t.Points[0], t.Points[1], t.Points[2]},
		})
	}
	return cv, nil
}
