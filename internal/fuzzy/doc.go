// Package fuzzy implements a small Mamdani-style fuzzy inference engine:
// triangular membership functions over sampled universes, rule evaluation
// with min/max composition, and pluggable defuzzification.
//
// The engine is deliberately scoped to what the truck controller needs.
// Antecedents are conjunctions, consequents clip (min) their output term,
// and rule activations aggregate by max before defuzzification.
package fuzzy
