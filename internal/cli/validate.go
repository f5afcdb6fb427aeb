package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/beaconreg/internal/scan"
)

// ValidationResult holds the summary of a well-formed report.
type ValidationResult struct {
	Valid    bool           `json:"valid"`
	Scanners int            `json:"scanners"`
	Beacons  int            `json:"beacons"`
	Counts   []ScannerCount `json:"counts"`
}

// ScannerCount is the beacon count of one scanner block.
type ScannerCount struct {
	ID      int    `json:"id"`
	Label   string `json:"label"`
	Beacons int    `json:"beacons"`
}

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate <report>",
		Short: "Check a scanner report without registering it",
		Long: `Parse a scanner report and report its scanners and beacon counts.

Faster than register for checking that a report is well formed: headers,
coordinates, empty blocks and duplicate beacons are all checked.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true, // Don't print usage on errors
		SilenceErrors: true, // Don't print errors - we handle our own error output
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(rootOpts, args[0], cmd)
		},
	}

	return cmd
}

func runValidate(opts *RootOptions, path string, cmd *cobra.Command) error {
	formatter := newFormatter(opts, cmd)

	clouds, err := scan.ParseFile(path)
	if err != nil {
		return parseError(formatter, err)
	}

	result := ValidationResult{
		Valid:    true,
		Scanners: len(clouds),
		Beacons:  scan.TotalBeacons(clouds),
		Counts:   make([]ScannerCount, len(clouds)),
	}
	for i, c := range clouds {
		result.Counts[i] = ScannerCount{ID: c.ID, Label: c.Label, Beacons: c.Len()}
	}

	if formatter.IsJSON() {
		return formatter.Success(result)
	}

	w := formatter.Writer
	fmt.Fprintf(w, "✓ %s: %d scanners, %d beacon reports\n", path, result.Scanners, result.Beacons)
	if opts.Verbose {
		for _, c := range result.Counts {
			fmt.Fprintf(w, "  scanner %s: %d beacons\n", c.Label, c.Beacons)
		}
	}
	return nil
}
