// Package profile provides the built-in truck-backing controller: the
// model the application falls back to when the user supplies no definition
// files. It is exactly what a user could write in HCL, built
// programmatically.
package profile

import "github.com/vk/fuzztruck/internal/config"

// Partition names, in universe order.
var (
	xTerms = []string{"left_big", "left_medium", "centered", "right_medium", "right_big"}

	angleTerms = []string{
		"large_below_90", "medium_below_90", "small_below_90",
		"at_90",
		"small_above_90", "medium_above_90", "large_above_90",
	}

	movementTerms = []string{"NB", "NM", "NS", "ZE", "PS", "PM", "PB"}
)

// steering is the full rule grid: for each horizontal position term, the
// movement term per angle term (same order as angleTerms). Positive
// movement turns the truck counter-clockwise.
var steering = map[string][7]string{
	"left_big":     {"PB", "PB", "PB", "PB", "PM", "NB", "NB"},
	"left_medium":  {"PB", "PB", "PM", "PM", "PS", "NM", "NM"},
	"centered":     {"PB", "PM", "PS", "ZE", "NM", "NM", "NB"},
	"right_medium": {"PB", "PM", "PS", "NM", "NS", "PM", "PM"},
	"right_big":    {"PM", "PS", "ZE", "NB", "NM", "PB", "PB"},
}

// Truck returns the stock truck-backing controller model.
//
// The wire reports x in [0,1]; the x_position universe is [0,10], hence
// the x scale of 10. The movement universe is degrees of heading change in
// [-30,30]; dividing by 30 yields the wire steering command in [-1,1].
func Truck() *config.Model {
	model := &config.Model{
		Controller: &config.Controller{
			Name:        "truck",
			Defuzzifier: "centroid",
			Output:      "movement",
			Bind: config.Bind{
				X:     "x_position",
				Angle: "truck_angle",
			},
			Scale: config.Scale{
				X:      10,
				Angle:  1,
				Output: 30,
			},
		},
		Variables: map[string]*config.Variable{
			"x_position": {
				Name:       "x_position",
				Role:       config.RoleInput,
				Min:        0,
				Max:        10,
				Step:       1,
				Partitions: xTerms,
			},
			"truck_angle": {
				Name:       "truck_angle",
				Role:       config.RoleInput,
				Min:        0,
				Max:        179,
				Step:       1,
				Partitions: angleTerms,
			},
			"movement": {
				Name:       "movement",
				Role:       config.RoleOutput,
				Min:        -30,
				Max:        30,
				Step:       1,
				Partitions: movementTerms,
			},
		},
	}

	for _, xTerm := range xTerms {
		row := steering[xTerm]
		for i, angleTerm := range angleTerms {
			model.Rules = append(model.Rules, &config.Rule{
				When: map[string]string{
					"x_position":  xTerm,
					"truck_angle": angleTerm,
				},
				Then: row[i],
			})
		}
	}
	return model
}
