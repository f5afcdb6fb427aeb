package cli

import (
	"fmt"
	"os"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	cueerrors "cuelang.org/go/cue/errors"
	"cuelang.org/go/cue/token"
	"github.com/spf13/cobra"

	"github.com/roach88/beaconreg/internal/align"
	"github.com/roach88/beaconreg/internal/engine"
)

// configSchema constrains config files. Fields left out take the defaults.
const configSchema = `
#Config: {
	threshold: *12 | (int & >=1)
	strategy:  *"first" | "unique"
	workers:   *0 | (int & >=0)
	reference: *0 | (int & >=0)
	db?:       string
}
`

// FileConfig is the decoded content of a config file.
type FileConfig struct {
	Threshold int    `json:"threshold"`
	Strategy  string `json:"strategy"`
	Workers   int    `json:"workers"`
	Reference int    `json:"reference"`
	DB        string `json:"db,omitempty"`
}

// Engine returns the engine configuration described by the file.
func (c FileConfig) Engine() engine.Config {
	return engine.Config{
		Threshold: c.Threshold,
		Strategy:  align.Strategy(c.Strategy),
		Workers:   c.Workers,
		Reference: c.Reference,
	}
}

// LoadError represents an error that occurred while loading a config file.
type LoadError struct {
	Code    string
	Message string
	Pos     token.Pos // CUE position if available
}

func (e *LoadError) Error() string {
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s:%d:%d: %s: %s", e.Pos.Filename(), e.Pos.Line(), e.Pos.Column(), e.Code, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Error code constants for CLI-level failures. Report parsing uses the
// E2xx codes from internal/scan.
const (
	ErrCodeGeneric       = "E001" // Generic/unknown error
	ErrCodeNotFound      = "E005" // Path not found
	ErrCodeConfigSyntax  = "E010" // Config file does not parse
	ErrCodeConfigInvalid = "E011" // Config file violates the schema
	ErrCodeDatabase      = "E020" // Database open/read/write failed
	ErrCodeRunNotFound   = "E021" // Run id not in the database
)

// LoadConfig reads a CUE config file and validates it against the schema.
// Unknown fields are rejected because #Config is closed.
func LoadConfig(path string) (FileConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return FileConfig{}, &LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("config file: %v", err)}
	}

	ctx := cuecontext.New()
	schema := ctx.CompileString(configSchema).LookupPath(cue.ParsePath("#Config"))
	if err := schema.Err(); err != nil {
		return FileConfig{}, fmt.Errorf("config schema: %w", err)
	}

	value := ctx.CompileBytes(data, cue.Filename(path))
	if err := value.Err(); err != nil {
		return FileConfig{}, newCUELoadError(ErrCodeConfigSyntax, err)
	}

	unified := schema.Unify(value)
	if err := unified.Validate(cue.Concrete(true)); err != nil {
		return FileConfig{}, newCUELoadError(ErrCodeConfigInvalid, err)
	}

	var cfg FileConfig
	if err := unified.Decode(&cfg); err != nil {
		return FileConfig{}, newCUELoadError(ErrCodeConfigInvalid, err)
	}
	return cfg, nil
}

func newCUELoadError(code string, err error) *LoadError {
	le := &LoadError{Code: code, Message: cueerrors.Details(err, nil)}
	if positions := cueerrors.Positions(err); len(positions) > 0 {
		le.Pos = positions[0]
	}
	return le
}

// EngineFlags holds the registration flags shared by register and verify.
type EngineFlags struct {
	Threshold int
	Strategy  string
	Workers   int
	Reference int
}

func (f *EngineFlags) bind(cmd *cobra.Command) {
	defaults := engine.DefaultConfig()
	cmd.Flags().IntVar(&f.Threshold, "threshold", defaults.Threshold, "minimum agreeing beacons for a link")
	cmd.Flags().StringVar(&f.Strategy, "strategy", string(defaults.Strategy), "link strategy (first|unique)")
	cmd.Flags().IntVar(&f.Workers, "workers", defaults.Workers, "concurrent pair searches (0 = GOMAXPROCS)")
	cmd.Flags().IntVar(&f.Reference, "reference", defaults.Reference, "scanner whose frame is the global frame")
}

// resolveConfig layers defaults, the optional config file and flags that
// were set explicitly, in that order. It also returns the config file's db
// path, if any.
func resolveConfig(opts *RootOptions, flags *EngineFlags, cmd *cobra.Command) (engine.Config, string, error) {
	cfg := engine.DefaultConfig()
	var db string

	if opts.Config != "" {
		fc, err := LoadConfig(opts.Config)
		if err != nil {
			return engine.Config{}, "", err
		}
		cfg = fc.Engine()
		db = fc.DB
	}

	changed := cmd.Flags().Changed
	if changed("threshold") {
		cfg.Threshold = flags.Threshold
	}
	if changed("strategy") {
		strategy, err := align.ParseStrategy(flags.Strategy)
		if err != nil {
			return engine.Config{}, "", err
		}
		cfg.Strategy = strategy
	}
	if changed("workers") {
		cfg.Workers = flags.Workers
	}
	if changed("reference") {
		cfg.Reference = flags.Reference
	}

	if err := cfg.Validate(); err != nil {
		return engine.Config{}, "", err
	}
	return cfg, db, nil
}
