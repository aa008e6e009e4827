// Package hcl provides the concrete HCL implementation of the config.Loader
// interface. It parses controller definition files, decodes them into the
// schema structs, and translates the result into the format-agnostic config
// model.
package hcl
