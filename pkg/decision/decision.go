// Package decision evaluates the expected cost of the three candidate
// redesign actions against Monte-Carlo samples of the true yield strength.
package decision

import (
	"sort"

	"github.com/tensio-x/tensio/pkg/stats"
)

// Action is one of the candidate responses to the strength assessment.
type Action string

const (
	// NoAction leaves the component as designed.
	NoAction Action = "no_action"
	// IncreaseResistance reinforces the component, raising effective
	// capacity by the action's strength multiplier.
	IncreaseResistance Action = "increase_resistance"
	// ChangeOperation reduces operating load, which scales the same way.
	ChangeOperation Action = "change_operation"
)

// Actions returns all candidate actions in stable evaluation order.
func Actions() []Action {
	return []Action{NoAction, IncreaseResistance, ChangeOperation}
}

// ActionCost is the fixed cost of carrying out an action and the factor it
// applies to effective strength. Multipliers above 1 model a redesign that
// raises capacity; NoAction uses 1.
type ActionCost struct {
	FixedCost          float64 `json:"fixed_cost"`
	StrengthMultiplier float64 `json:"strength_multiplier"`
}

// CostTable maps each action to its cost model.
type CostTable map[Action]ActionCost

// DefaultFailureCost is the consequence cost of a structural failure.
const DefaultFailureCost = 1_000_000.0

// DefaultCostTable returns the cost model of the redesign study.
func DefaultCostTable() CostTable {
	return CostTable{
		NoAction:           {FixedCost: 0, StrengthMultiplier: 1.0},
		IncreaseResistance: {FixedCost: 5_000, StrengthMultiplier: 1.1},
		ChangeOperation:    {FixedCost: 3_000, StrengthMultiplier: 1.25},
	}
}

// Outcome is the evaluated cost of one action.
type Outcome struct {
	Action       Action  `json:"action"`
	PFail        float64 `json:"p_fail"`
	ExpectedCost float64 `json:"expected_cost"`
}

// Result holds one Outcome per action, in the order of Actions().
type Result []Outcome

// Sorted returns a copy ordered by expected cost ascending. Ties keep the
// evaluation order, so NoAction wins a dead heat.
func (r Result) Sorted() Result {
	out := make(Result, len(r))
	copy(out, r)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].ExpectedCost < out[j].ExpectedCost
	})
	return out
}

// Best returns the minimum-expected-cost outcome.
func (r Result) Best() Outcome {
	return r.Sorted()[0]
}

// ExpectedCosts evaluates every action against the strength samples. For
// each action the failure probability is the empirical fraction of samples
// whose multiplied strength falls below the threshold, and the expected
// cost is the action's fixed cost plus that probability times failureCost.
func ExpectedCosts(strengthSamples []float64, threshold float64, table CostTable, failureCost float64) (Result, error) {
	if len(strengthSamples) == 0 {
		return nil, &stats.InsufficientDataError{Stage: "expected cost evaluation", Size: 0, Min: 1}
	}

	result := make(Result, 0, len(table))
	for _, action := range Actions() {
		cost, ok := table[action]
		if !ok {
			return nil, &stats.InvalidParameterError{
				Param:  string(action),
				Value:  0,
				Reason: "cost table has no entry for action",
			}
		}
		failures := 0
		for _, strength := range strengthSamples {
			if strength*cost.StrengthMultiplier < threshold {
				failures++
			}
		}
		pFail := float64(failures) / float64(len(strengthSamples))
		result = append(result, Outcome{
			Action:       action,
			PFail:        pFail,
			ExpectedCost: cost.FixedCost + pFail*failureCost,
		})
	}
	return result, nil
}
