package harness

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/roach88/beaconreg/internal/align"
)

// Scenario defines a registration test scenario.
type Scenario struct {
	// Name uniquely identifies this scenario and names its golden file.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// Input is the scanner report path, relative to the scenario file.
	// LoadScenario resolves it.
	Input string `yaml:"input"`

	// Threshold overrides the default vote threshold when non-nil.
	Threshold *int `yaml:"threshold,omitempty"`

	// Strategy overrides the link strategy when non-empty.
	Strategy string `yaml:"strategy,omitempty"`

	// Reference overrides the reference scanner when non-nil.
	Reference *int `yaml:"reference,omitempty"`

	// RunID is an optional fixed run id.
	// If empty, defaults to "test-run-default".
	RunID string `yaml:"run_id,omitempty"`

	// Expect is the expected outcome.
	Expect Expectation `yaml:"expect"`
}

// Expectation lists the checks applied to a scenario's outcome.
// Unset fields are not checked.
type Expectation struct {
	// Beacons is the expected distinct beacon count.
	Beacons *int `yaml:"beacons,omitempty"`

	// MaxDistance is the expected largest scanner separation.
	MaxDistance *int `yaml:"max_distance,omitempty"`

	// Unresolved, when set, expects registration to fail with exactly
	// these scanners unreachable.
	Unresolved []int `yaml:"unresolved,omitempty"`

	// Positions maps scanner id to its expected [x, y, z] position in the
	// reference frame. Subset match - only listed scanners are checked.
	Positions map[int][]int `yaml:"positions,omitempty"`
}

// ExpectsDisconnection reports whether the scenario expects a failure.
func (e Expectation) ExpectsDisconnection() bool {
	return len(e.Unresolved) > 0
}

// LoadScenario reads and parses a scenario YAML file.
// Returns an error if the file doesn't exist, is malformed,
// contains unknown fields (typos), or is missing required fields.
// The input path is resolved relative to the scenario file.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}

	// Strict decoding catches typos like "max_distnace:".
	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if scenario.Input != "" && !filepath.IsAbs(scenario.Input) {
		scenario.Input = filepath.Join(filepath.Dir(path), scenario.Input)
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}

	return &scenario, nil
}

// LoadScenarios loads every *.yaml and *.yml file in dir, sorted by file
// name. The first invalid scenario aborts the load.
func LoadScenarios(dir string) ([]*Scenario, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario directory: %w", err)
	}

	var names []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if ext := filepath.Ext(e.Name()); ext == ".yaml" || ext == ".yml" {
			names = append(names, e.Name())
		}
	}
	slices.Sort(names)

	scenarios := make([]*Scenario, 0, len(names))
	seen := make(map[string]string, len(names))
	for _, name := range names {
		sc, err := LoadScenario(filepath.Join(dir, name))
		if err != nil {
			return nil, fmt.Errorf("%s: %w", name, err)
		}
		if prev, dup := seen[sc.Name]; dup {
			return nil, fmt.Errorf("%s: scenario name %q already used by %s", name, sc.Name, prev)
		}
		seen[sc.Name] = name
		scenarios = append(scenarios, sc)
	}
	return scenarios, nil
}

// validateScenario checks that required fields are present and valid.
func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}
	if strings.ContainsAny(s.Name, `/\ `) {
		return fmt.Errorf("name %q must not contain slashes or spaces", s.Name)
	}

	if s.Description == "" {
		return fmt.Errorf("description is required")
	}

	if s.Input == "" {
		return fmt.Errorf("input is required")
	}

	if s.Threshold != nil && *s.Threshold < 1 {
		return fmt.Errorf("threshold must be at least 1, got %d", *s.Threshold)
	}

	if _, err := align.ParseStrategy(s.Strategy); err != nil {
		return err
	}

	if s.Reference != nil && *s.Reference < 0 {
		return fmt.Errorf("reference must not be negative, got %d", *s.Reference)
	}

	return validateExpectation(s.Expect)
}

func validateExpectation(e Expectation) error {
	if e.ExpectsDisconnection() {
		if e.Beacons != nil || e.MaxDistance != nil || len(e.Positions) > 0 {
			return fmt.Errorf("expect.unresolved cannot be combined with beacons, max_distance or positions")
		}
		return nil
	}

	if e.Beacons == nil && e.MaxDistance == nil && len(e.Positions) == 0 {
		return fmt.Errorf("expect must set at least one of beacons, max_distance, positions, unresolved")
	}

	for id, pos := range e.Positions {
		if len(pos) != 3 {
			return fmt.Errorf("expect.positions[%d] must have 3 coordinates, got %d", id, len(pos))
		}
	}
	return nil
}
