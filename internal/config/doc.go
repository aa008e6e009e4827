// Package config defines the format-agnostic model of a fuzzy controller
// definition: linguistic variables, the rule base, controller wiring
// (defuzzifier, input bindings, scaling), and session settings. The Loader
// interface decouples the model from any concrete file format; the HCL
// implementation lives in the hcl package. The built-in truck profile in
// the profile package produces the same model programmatically.
package config
