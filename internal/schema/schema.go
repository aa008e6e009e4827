// Package schema holds the HCL-tagged structs that controller definition
// files decode into. These are format-specific; the hcl package translates
// them into the agnostic config model.
package schema

import "github.com/hashicorp/hcl/v2"

// Root captures every top-level block a definition file may contain.
// Blocks of all kinds may be spread across multiple files.
type Root struct {
	Controllers []*Controller `hcl:"controller,block"`
	Variables   []*Variable   `hcl:"variable,block"`
	Rules       []*Rule       `hcl:"rule,block"`
	Sessions    []*Session    `hcl:"session,block"`
	Remain      hcl.Body      `hcl:",remain"`
}

// Controller is the `controller` block: engine-level wiring.
type Controller struct {
	Name        string `hcl:"name,label"`
	Defuzzifier string `hcl:"defuzzifier,optional"`
	Output      string `hcl:"output"`
	Bind        *Bind  `hcl:"bind,block"`
	Scale       *Scale `hcl:"scale,block"`
}

// Bind maps wire fields to variable names inside a controller block.
type Bind struct {
	X     string `hcl:"x,optional"`
	Y     string `hcl:"y,optional"`
	Angle string `hcl:"angle,optional"`
}

// Scale holds wire-to-universe multipliers and the output divisor.
type Scale struct {
	X      float64 `hcl:"x,optional"`
	Y      float64 `hcl:"y,optional"`
	Angle  float64 `hcl:"angle,optional"`
	Output float64 `hcl:"output,optional"`
}

// Variable is a `variable` block. Universe is [min, max]; the partitions
// attribute and term blocks are mutually exclusive ways to define terms.
type Variable struct {
	Name       string    `hcl:"name,label"`
	Role       string    `hcl:"role"`
	Universe   []float64 `hcl:"universe"`
	Step       float64   `hcl:"step,optional"`
	Partitions []string  `hcl:"partitions,optional"`
	Terms      []*Term   `hcl:"term,block"`
}

// Term is an explicit triangular term with points [a, b, c].
type Term struct {
	Name   string    `hcl:"name,label"`
	Points []float64 `hcl:"points"`
}

// Rule is a `rule` block: a conjunction of variable=term pairs implying an
// output term.
type Rule struct {
	When map[string]string `hcl:"when"`
	Then string            `hcl:"then"`
}

// Session is the `session` block with connection settings.
type Session struct {
	Host      string `hcl:"host,optional"`
	Port      int    `hcl:"port,optional"`
	MaxCycles int    `hcl:"max_cycles,optional"`
}
