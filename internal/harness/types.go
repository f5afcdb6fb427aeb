package harness

import (
	"github.com/roach88/beaconreg/internal/engine"
)

// Result is the outcome of a scenario execution.
type Result struct {
	// Pass indicates overall test success.
	// True if every expectation matched.
	Pass bool `json:"pass"`

	// Errors contains validation error messages.
	// Empty if Pass is true.
	Errors []string `json:"errors,omitempty"`

	// Registration is the engine result; nil when registration failed.
	Registration *engine.Result `json:"-"`

	// Unresolved lists unreachable scanners when registration failed
	// with a disconnection.
	Unresolved []int `json:"unresolved,omitempty"`

	// Snapshot is the canonical JSON compared against golden files.
	Snapshot []byte `json:"-"`
}

// NewResult creates a new passing result.
func NewResult() *Result {
	return &Result{
		Pass:   true,
		Errors: []string{},
	}
}

// AddError adds a validation error and marks the result as failed.
func (r *Result) AddError(err string) {
	r.Errors = append(r.Errors, err)
	r.Pass = false
}
