// Package harness runs registration scenarios described in YAML.
//
// A scenario names a scanner report, optional engine settings and the
// expected outcome:
//
//	name: canonical
//	description: Five scanners, four links
//	input: ../reports/canonical.txt
//	threshold: 12
//	strategy: first
//	reference: 0
//	expect:
//	  beacons: 79
//	  max_distance: 3621
//	  positions:
//	    1: [68, -1246, -43]
//
// A scenario expecting a disconnection lists the unreachable scanners
// instead:
//
//	expect:
//	  unresolved: [2]
//
// Run registers the report with a fixed run id and checks every expectation.
// RunWithGolden additionally compares a canonical JSON snapshot of the
// outcome against testdata/golden/<name>.golden, so any change in links,
// poses or merged beacons shows up as a golden diff.
//
// Usage:
//
//	scenario, err := harness.LoadScenario("testdata/scenarios/canonical.yaml")
//	result, err := harness.Run(ctx, scenario)
//	if !result.Pass {
//	    for _, e := range result.Errors { ... }
//	}
package harness
