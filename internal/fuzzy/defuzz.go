package fuzzy

import (
	"errors"
	"fmt"
	"sort"
)

// ErrNoActivation is returned when no rule fired for the supplied inputs,
// so the aggregated output set has zero area and no crisp value exists.
var ErrNoActivation = errors.New("no rule activation: crisp output cannot be calculated")

// Defuzzifier reduces an aggregated fuzzy set, sampled as parallel
// universe/membership slices, to a single crisp value.
type Defuzzifier func(universe, membership []float64) (float64, error)

// defuzzifiers is the method registry. Methods are looked up by the name
// used in controller configuration.
var defuzzifiers = map[string]Defuzzifier{
	"centroid": Centroid,
	"bisector": Bisector,
	"mom":      MeanOfMaximum,
}

// LookupDefuzzifier resolves a method name from the registry.
func LookupDefuzzifier(name string) (Defuzzifier, error) {
	d, ok := defuzzifiers[name]
	if !ok {
		return nil, fmt.Errorf("unknown defuzzifier %q (have %v)", name, DefuzzifierNames())
	}
	return d, nil
}

// DefuzzifierNames lists the registered method names, sorted.
func DefuzzifierNames() []string {
	names := make([]string, 0, len(defuzzifiers))
	for name := range defuzzifiers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Centroid is the center-of-gravity method: sum(x*mu) / sum(mu).
func Centroid(universe, membership []float64) (float64, error) {
	var num, den float64
	for i, mu := range membership {
		num += universe[i] * mu
		den += mu
	}
	if den == 0 {
		return 0, ErrNoActivation
	}
	return num / den, nil
}

// Bisector returns the sample that splits the area under the membership
// curve in half.
func Bisector(universe, membership []float64) (float64, error) {
	var total float64
	for _, mu := range membership {
		total += mu
	}
	if total == 0 {
		return 0, ErrNoActivation
	}
	var running float64
	for i, mu := range membership {
		running += mu
		if running >= total/2 {
			return universe[i], nil
		}
	}
	return universe[len(universe)-1], nil
}

// MeanOfMaximum averages the samples at which membership is maximal.
func MeanOfMaximum(universe, membership []float64) (float64, error) {
	max := 0.0
	for _, mu := range membership {
		if mu > max {
			max = mu
		}
	}
	if max == 0 {
		return 0, ErrNoActivation
	}
	var sum float64
	var n int
	const eps = 1e-9
	for i, mu := range membership {
		if mu >= max-eps {
			sum += universe[i]
			n++
		}
	}
	return sum / float64(n), nil
}
