package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/beaconreg/internal/align"
	"github.com/roach88/beaconreg/internal/geom"
	"github.com/roach88/beaconreg/internal/store"
)

// ShowOptions holds flags for the show command.
type ShowOptions struct {
	*RootOptions
	Database string
	RunID    string
	Beacons  bool
}

// ShowOutput is the JSON payload of the show command.
type ShowOutput struct {
	Run     store.Run     `json:"run"`
	Poses   []geom.Pose   `json:"poses"`
	Links   []align.Edge  `json:"links"`
	Beacons []geom.Point3 `json:"beacons,omitempty"`
}

// NewShowCommand creates the show command.
func NewShowCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ShowOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Show a recorded run",
		Long: `Show a recorded run: its settings, every scanner's pose and the links
found between scanners.

Examples:
  beaconreg show --db runs.db --run 0190b6c2-...
  beaconreg show --db runs.db --run 0190b6c2-... --beacons --format json`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runShow(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite database (required)")
	cmd.Flags().StringVar(&opts.RunID, "run", "", "run id (required)")
	cmd.Flags().BoolVar(&opts.Beacons, "beacons", false, "include merged beacon positions")
	_ = cmd.MarkFlagRequired("db")
	_ = cmd.MarkFlagRequired("run")

	return cmd
}

func runShow(opts *ShowOptions, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd)
	ctx := context.Background()

	st, err := openStore(formatter, opts.Database)
	if err != nil {
		return err
	}
	defer st.Close()

	rec, err := st.ReadRunRecord(ctx, opts.RunID)
	if err != nil {
		return readRunError(formatter, opts.RunID, err)
	}

	out := ShowOutput{Run: rec.Run, Poses: rec.Poses, Links: rec.Links}
	if opts.Beacons {
		out.Beacons = rec.Beacons
	}

	if formatter.IsJSON() {
		return formatter.Success(out)
	}

	w := formatter.Writer
	r := rec.Run
	fmt.Fprintf(w, "Run %s (seq %d)\n", r.ID, r.Seq)
	if r.Source != "" {
		fmt.Fprintf(w, "Source: %s\n", r.Source)
	}
	fmt.Fprintf(w, "Settings: threshold=%d strategy=%s reference=%d\n", r.Threshold, r.Strategy, r.Reference)
	fmt.Fprintf(w, "Beacons: %d\n", r.BeaconCount)
	fmt.Fprintf(w, "Max distance: %d\n", r.MaxDistance)

	fmt.Fprintln(w, "Scanners:")
	for id, p := range out.Poses {
		fmt.Fprintf(w, "  %d: position %s rotation %v\n", id, p.T, p.R)
	}

	fmt.Fprintln(w, "Links:")
	for _, l := range out.Links {
		fmt.Fprintf(w, "  %d-%d: overlap %d\n", l.A, l.B, l.Overlap)
	}

	if opts.Beacons {
		fmt.Fprintln(w, "Merged beacons:")
		for _, b := range out.Beacons {
			fmt.Fprintln(w, b)
		}
	}
	return nil
}
