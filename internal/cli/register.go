package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/roach88/beaconreg/internal/align"
	"github.com/roach88/beaconreg/internal/engine"
	"github.com/roach88/beaconreg/internal/geom"
	"github.com/roach88/beaconreg/internal/scan"
	"github.com/roach88/beaconreg/internal/store"
)

// RegisterOptions holds flags for the register command.
type RegisterOptions struct {
	*RootOptions
	EngineFlags
	Beacons  bool
	Database string

	// RunIDs allows overriding the run id generator (for testing).
	// If nil, defaults to UUIDv7Generator.
	RunIDs engine.RunIDGenerator
}

// RegisterOutput is the JSON payload of the register command.
type RegisterOutput struct {
	RunID       string        `json:"run_id"`
	InputHash   string        `json:"input_hash"`
	ResultHash  string        `json:"result_hash"`
	Config      engine.Config `json:"config"`
	BeaconCount int           `json:"beacon_count"`
	MaxDistance int           `json:"max_distance"`
	Positions   []geom.Point3 `json:"positions"`
	Links       []align.Edge  `json:"links"`
	Beacons     []geom.Point3 `json:"beacons,omitempty"`
	Seq         int64         `json:"seq,omitempty"`
}

// NewRegisterCommand creates the register command.
func NewRegisterCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &RegisterOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "register <report>",
		Short: "Register a scanner report",
		Long: `Register every scanner in a report into the frame of the reference scanner.

Prints the number of distinct beacons and the largest Manhattan distance
between two scanners. With --db the run is recorded for later inspection
and verification.

Exit codes:
  0 - All scanners registered
  1 - Some scanners could not be linked to the reference
  2 - Command error (unreadable report, invalid settings, database error)

Examples:
  beaconreg register report.txt
  beaconreg register report.txt --threshold 11 --strategy unique
  beaconreg register report.txt --db runs.db --format json`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRegister(opts, args[0], cmd)
		},
	}

	opts.EngineFlags.bind(cmd)
	cmd.Flags().BoolVar(&opts.Beacons, "beacons", false, "list merged beacon positions")
	cmd.Flags().StringVar(&opts.Database, "db", "", "record the run in this SQLite database")

	return cmd
}

func runRegister(opts *RegisterOptions, path string, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd)
	logger := newLogger(opts.RootOptions, cmd.ErrOrStderr())

	cfg, db, err := resolveConfig(opts.RootOptions, &opts.EngineFlags, cmd)
	if err != nil {
		return configError(formatter, err)
	}
	if opts.Database != "" {
		db = opts.Database
	}

	clouds, err := scan.ParseFile(path)
	if err != nil {
		return parseError(formatter, err)
	}
	formatter.VerboseLog("Parsed %d scanners, %d beacon reports", len(clouds), scan.TotalBeacons(clouds))

	runIDs := opts.RunIDs
	if runIDs == nil {
		runIDs = engine.UUIDv7Generator{}
	}
	eng := engine.New(cfg, engine.WithLogger(logger), engine.WithRunIDGenerator(runIDs))

	ctx, stop := signalContext(cmd)
	defer stop()

	res, err := eng.Register(ctx, clouds)
	if err != nil {
		return registrationError(formatter, err)
	}

	resultHash, err := res.Hash()
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to hash result", err)
	}

	out := RegisterOutput{
		RunID:       res.RunID,
		InputHash:   res.InputHash,
		ResultHash:  resultHash,
		Config:      res.Config,
		BeaconCount: res.BeaconCount(),
		MaxDistance: res.MaxDistance,
		Positions:   res.Positions(),
		Links:       res.Links,
	}
	if opts.Beacons {
		out.Beacons = res.Beacons
	}

	if db != "" {
		seq, err := recordRun(ctx, db, res, path)
		if err != nil {
			formatter.Error(ErrCodeDatabase, err.Error(), nil)
			return WrapExitError(ExitCommandError, "failed to record run", err)
		}
		out.Seq = seq
		logger.Debug("run recorded", "db", db, "run_id", res.RunID, "seq", seq)
	}

	if formatter.IsJSON() {
		return formatter.Success(out)
	}
	return outputRegisterText(formatter, out, opts.Verbose)
}

// recordRun writes res to the database at path with the next seq.
func recordRun(ctx context.Context, path string, res *engine.Result, source string) (int64, error) {
	st, err := store.Open(path)
	if err != nil {
		return 0, err
	}
	defer st.Close()

	last, err := st.LastSeq(ctx)
	if err != nil {
		return 0, err
	}
	clock := engine.NewClockAt(last)

	rec, err := store.NewRunRecord(res, clock.Next(), source)
	if err != nil {
		return 0, err
	}
	if _, err := st.WriteRun(ctx, rec); err != nil {
		return 0, err
	}
	return rec.Seq, nil
}

func outputRegisterText(f *OutputFormatter, out RegisterOutput, verbose bool) error {
	w := f.Writer
	fmt.Fprintf(w, "Beacons: %d\n", out.BeaconCount)
	fmt.Fprintf(w, "Max distance: %d\n", out.MaxDistance)

	if verbose {
		fmt.Fprintf(w, "Run: %s\n", out.RunID)
		if out.Seq > 0 {
			fmt.Fprintf(w, "Recorded as seq %d\n", out.Seq)
		}
		fmt.Fprintln(w, "Scanners:")
		for id, p := range out.Positions {
			fmt.Fprintf(w, "  %d: %s\n", id, p)
		}
	}

	if len(out.Beacons) > 0 {
		fmt.Fprintln(w, "Merged beacons:")
		for _, b := range out.Beacons {
			fmt.Fprintln(w, b)
		}
	}
	return nil
}

// signalContext returns the command's context cancelled on SIGINT/SIGTERM.
func signalContext(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	parent := cmd.Context()
	if parent == nil {
		parent = context.Background()
	}
	return signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
}

// configError reports a settings problem as a command error.
func configError(f *OutputFormatter, err error) error {
	var le *LoadError
	var re *engine.RegistrationError
	switch {
	case errors.As(err, &le):
		f.Error(le.Code, le.Error(), nil)
	case errors.As(err, &re):
		f.Error(string(re.Code), re.Message, nil)
	default:
		f.Error(ErrCodeGeneric, err.Error(), nil)
	}
	return WrapExitError(ExitCommandError, "invalid configuration", err)
}

// parseError reports an unreadable or malformed report as a command error.
func parseError(f *OutputFormatter, err error) error {
	var pe *scan.ParseError
	if errors.As(err, &pe) {
		f.Error(pe.Code, pe.Error(), nil)
	} else {
		f.Error(ErrCodeGeneric, err.Error(), nil)
	}
	return WrapExitError(ExitCommandError, "failed to read report", err)
}

// registrationError maps engine failures to exit codes: a disconnection is
// a failure of the registration itself, anything else is a command error.
func registrationError(f *OutputFormatter, err error) error {
	var re *engine.RegistrationError
	if !errors.As(err, &re) {
		f.Error(ErrCodeGeneric, err.Error(), nil)
		return WrapExitError(ExitCommandError, "registration aborted", err)
	}

	if re.Code == engine.ErrCodeDisconnected {
		f.Error(string(re.Code), re.Error(), map[string]any{"unresolved": re.Unresolved})
		return WrapExitError(ExitFailure, "registration incomplete", err)
	}

	f.Error(string(re.Code), re.Message, re.Details)
	return WrapExitError(ExitCommandError, "registration failed", err)
}
