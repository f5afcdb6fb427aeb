package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/beaconreg/internal/canon"
	"github.com/roach88/beaconreg/internal/engine"
	"github.com/roach88/beaconreg/internal/scan"
)

// VerifyOptions holds flags for the verify command.
type VerifyOptions struct {
	*RootOptions
	Database string
	RunID    string
}

// VerifyOutput is the outcome of re-registering a recorded run.
type VerifyOutput struct {
	RunID              string `json:"run_id"`
	Match              bool   `json:"match"`
	InputMatch         bool   `json:"input_match"`
	RecordedInputHash  string `json:"recorded_input_hash"`
	InputHash          string `json:"input_hash"`
	RecordedResultHash string `json:"recorded_result_hash"`
	ResultHash         string `json:"result_hash,omitempty"`
}

// NewVerifyCommand creates the verify command.
func NewVerifyCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &VerifyOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "verify <report>",
		Short: "Re-register a report and compare it with a recorded run",
		Long: `Register a report again with the settings of a recorded run and check
that both the input and the result hash match.

Exit codes:
  0 - Input and result match the recorded run
  1 - Hash mismatch
  2 - Command error (run not found, unreadable report, etc.)

Examples:
  beaconreg verify --db runs.db --run 0190b6c2-... report.txt`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runVerify(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite database (required)")
	cmd.Flags().StringVar(&opts.RunID, "run", "", "run id to verify against (required)")
	_ = cmd.MarkFlagRequired("db")
	_ = cmd.MarkFlagRequired("run")

	return cmd
}

func runVerify(opts *VerifyOptions, path string, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd)
	logger := newLogger(opts.RootOptions, cmd.ErrOrStderr())

	st, err := openStore(formatter, opts.Database)
	if err != nil {
		return err
	}
	defer st.Close()

	run, err := st.ReadRun(context.Background(), opts.RunID)
	if err != nil {
		return readRunError(formatter, opts.RunID, err)
	}

	clouds, err := scan.ParseFile(path)
	if err != nil {
		return parseError(formatter, err)
	}

	out := VerifyOutput{
		RunID:              run.ID,
		RecordedInputHash:  run.InputHash,
		InputHash:          canon.MustInputHash(clouds),
		RecordedResultHash: run.ResultHash,
	}
	out.InputMatch = out.InputHash == run.InputHash

	// A different input cannot reproduce the recorded result; skip the
	// registration and report the input mismatch alone.
	if out.InputMatch {
		ctx, stop := signalContext(cmd)
		defer stop()

		eng := engine.New(run.Config(), engine.WithLogger(logger), engine.WithRunIDGenerator(engine.NewFixedGenerator(run.ID)))
		res, err := eng.Register(ctx, clouds)
		if err != nil {
			return registrationError(formatter, err)
		}
		if out.ResultHash, err = res.Hash(); err != nil {
			return WrapExitError(ExitCommandError, "failed to hash result", err)
		}
		out.Match = out.ResultHash == run.ResultHash
	}

	if !out.Match {
		msg := "result hash does not match recorded run"
		if !out.InputMatch {
			msg = "input hash does not match recorded run"
		}
		if formatter.IsJSON() {
			if err := formatter.Failure("E_VERIFY_MISMATCH", msg, out); err != nil {
				return err
			}
		} else {
			outputVerifyText(formatter, out, opts.Verbose)
		}
		return NewExitError(ExitFailure, msg)
	}

	if formatter.IsJSON() {
		return formatter.Success(out)
	}
	outputVerifyText(formatter, out, opts.Verbose)
	return nil
}

func outputVerifyText(f *OutputFormatter, out VerifyOutput, verbose bool) {
	w := f.Writer
	switch {
	case out.Match:
		fmt.Fprintf(w, "✓ run %s reproduced\n", out.RunID)
	case !out.InputMatch:
		fmt.Fprintf(w, "✗ run %s: input hash does not match\n", out.RunID)
	default:
		fmt.Fprintf(w, "✗ run %s: result hash does not match\n", out.RunID)
	}

	if verbose || !out.Match {
		fmt.Fprintf(w, "  input:  recorded %s, got %s\n", out.RecordedInputHash, out.InputHash)
		if out.ResultHash != "" {
			fmt.Fprintf(w, "  result: recorded %s, got %s\n", out.RecordedResultHash, out.ResultHash)
		}
	}
}
