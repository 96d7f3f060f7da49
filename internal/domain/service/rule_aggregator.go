package service

import "math"

// NumVariables is the number of fuzzified clinical variables.
const NumVariables = 5

// Variable order inside an aggregation input.
const (
	VarAge = iota
	VarSystolicBP
	VarCholesterol
	VarBMI
	VarSmoking
)

// highRiskMinHighBands is the number of high bands that, with no low band
// present, classifies a combination as high risk.
const highRiskMinHighBands = 3

type band int

const (
	bandLow band = iota
	bandMedium
	bandHigh
	numBands
)

// Activations are the aggregated firing strengths of the three risk outputs.
type Activations struct {
	Low    float64
	Medium float64
	High   float64
	// Fallback is set when no rule fired and Medium was forced to 1.
	Fallback bool
}

// combination is one cell of the rule grid: a band per variable.
type combination [NumVariables]band

// rule fires output with the strength of its weakest cell.
type rule struct {
	cells  combination
	output band
}

// ruleGrid lists every band combination with its output band. It is built once
// and never mutated.
var ruleGrid = buildRuleGrid()

func buildRuleGrid() []rule {
	size := 1
	for i := 0; i < NumVariables; i++ {
		size *= int(numBands)
	}

	grid := make([]rule, 0, size)

	for code := 0; code < size; code++ {
		var c combination
		rest := code
		for i := 0; i < NumVariables; i++ {
			c[i] = band(rest % int(numBands))
			rest /= int(numBands)
		}
		grid = append(grid, rule{cells: c, output: classify(c)})
	}
	return grid
}

// classify maps a band combination onto the risk output it fires.
// All low is low risk; no low band with a majority of high bands is high risk;
// everything else is medium risk.
func classify(c combination) band {
	lows, highs := 0, 0
	for _, b := range c {
		switch b {
		case bandLow:
			lows++
		case bandHigh:
			highs++
		}
	}
	switch {
	case lows == NumVariables:
		return bandLow
	case lows == 0 && highs >= highRiskMinHighBands:
		return bandHigh
	default:
		return bandMedium
	}
}

// Aggregate combines the per-variable degrees into risk activations. Each rule
// fires with the minimum (fuzzy AND) of its degrees and each output takes the
// maximum (fuzzy OR) over its rules.
func Aggregate(inputs [NumVariables]Degrees) Activations {
	var strength [numBands]float64

	for _, r := range ruleGrid {
		s := 1.0
		for i, b := range r.cells {
			s = math.Min(s, inputs[i].band(b))
			if s == 0 {
				break
			}
		}
		if s > strength[r.output] {
			strength[r.output] = s
		}
	}

	act := Activations{
		Low:    strength[bandLow],
		Medium: strength[bandMedium],
		High:   strength[bandHigh],
	}
	if act.Low == 0 && act.Medium == 0 && act.High == 0 {
		act.Medium = 1
		act.Fallback = true
	}
	return act
}
