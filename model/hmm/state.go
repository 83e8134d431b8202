package hmm

import (
	"fmt"
	"math"

	"github.com/nexussynth/nexussynth/model/gmm"
)

// TransitionEps is the tolerance used when validating that a
// Transition's probabilities sum to one.
const TransitionEps = 1e-6

// Transition holds a state's outgoing probabilities: staying put,
// advancing to the next state, or exiting the model entirely.
type Transition struct {
	SelfLoopProb  float64
	NextStateProb float64
	ExitProb      float64
}

// Validate reports whether the three probabilities sum to one within
// TransitionEps.
func (t Transition) Validate() error {
	sum := t.SelfLoopProb + t.NextStateProb + t.ExitProb
	if math.Abs(sum-1) > TransitionEps {
		return fmt.Errorf("hmm: transition probabilities sum to %v, want 1", sum)
	}
	return nil
}

// renormalized returns a copy scaled so the three probabilities sum to
// exactly one, guarding against a degenerate all-zero transition.
func (t Transition) renormalized() Transition {
	sum := t.SelfLoopProb + t.NextStateProb + t.ExitProb
	if sum <= 0 {
		return Transition{SelfLoopProb: 1}
	}
	return Transition{
		SelfLoopProb:  t.SelfLoopProb / sum,
		NextStateProb: t.NextStateProb / sum,
		ExitProb:      t.ExitProb / sum,
	}
}

// State is one HmmState: an emission mixture plus its outgoing
// transition probabilities.
type State struct {
	StateID    int
	Emission   *gmm.Mixture
	Transition Transition
}

// NewState returns a State with id and emission, and the given
// transition renormalized to sum to one.
func NewState(id int, emission *gmm.Mixture, transition Transition) *State {
	return &State{
		StateID:    id,
		Emission:   emission,
		Transition: transition.renormalized(),
	}
}

func (s *State) logSelf() float64 {
	return math.Log(s.Transition.SelfLoopProb)
}

func (s *State) logNext() float64 {
	return math.Log(s.Transition.NextStateProb)
}

// logEmission returns log b_i(o) for observation o.
func (s *State) logEmission(o []float64) (float64, error) {
	return s.Emission.LogLikelihood(o)
}
