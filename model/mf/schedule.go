// Copyright 2026 tankopoisk Project Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package mf

import "math"

// Phase is the outcome of the latest iteration.
type Phase int

const (
	// Improved means the cost decreased.
	Improved Phase = iota
	// Stalled means the cost did not decrease.
	Stalled
)

func (p Phase) String() string {
	switch p {
	case Improved:
		return "improved"
	case Stalled:
		return "stalled"
	default:
		return "unknown"
	}
}

// State is the learning rate controller record after an iteration. Cost is
// the cost of the current parameters and PreviousCost the cost before the
// iteration. The next iteration is compared against Cost.
type State struct {
	Iteration    int
	Alpha        float64
	PreviousCost float64
	Cost         float64
	Phase        Phase
}

// NewState returns the record before the first iteration.
func NewState(alpha float64) State {
	return State{
		Alpha:        alpha,
		PreviousCost: math.Inf(1),
		Cost:         math.Inf(1),
		Phase:        Improved,
	}
}

// Schedule adapts the learning rate to the cost: Growth after an improving
// iteration and Decay otherwise.
type Schedule struct {
	Growth float64
	Decay  float64
}

// NewSchedule returns a schedule that keeps the rate on improvement and halves it on a stall.
func NewSchedule() Schedule {
	return Schedule{Growth: 1, Decay: 0.5}
}

// Advance returns the record following state given the cost of the new parameters.
func (s Schedule) Advance(state State, cost float64) State {
	next := State{
		Iteration:    state.Iteration + 1,
		PreviousCost: state.Cost,
		Cost:         cost,
	}
	if cost < state.Cost {
		next.Phase = Improved
		next.Alpha = state.Alpha * s.Growth
	} else {
		next.Phase = Stalled
		next.Alpha = state.Alpha * s.Decay
	}
	return next
}
