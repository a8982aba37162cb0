// Package cli defines the Cobra command for the topsis batch tool.
package cli

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/MikeSquared-Agency/Topsis/internal/config"
	"github.com/MikeSquared-Agency/Topsis/internal/scoring"
	"github.com/MikeSquared-Agency/Topsis/internal/table"
)

const usage = "topsis <InputDataFile> <Weights> <Impacts> <OutputFileName>"

type options struct {
	configPath string
	precision  int
	verbose    bool
}

// NewRootCmd builds the topsis command.
func NewRootCmd(version string) *cobra.Command {
	opts := &options{}
	cmd := &cobra.Command{
		Use:   usage,
		Short: "Rank alternatives in a CSV file with TOPSIS",
		Long: `Topsis ranks the alternatives of a decision matrix by their relative
closeness to the ideal solution.

The input CSV holds one alternative per row: an identifier in the first
column followed by numeric criterion values. Weights and impacts are
comma-separated, one per criterion, impacts being + (higher is better) or
- (lower is better). The output CSV repeats the input and appends
"Topsis Score" and "Rank" columns.

Example:
  topsis data.csv "1,1,1,2" "+,+,-,+" result.csv`,
		Version:       version,
		Args:          exactArgs(4),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, opts, args)
		},
	}
	cmd.Flags().StringVar(&opts.configPath, "config", "", "path to a YAML config file")
	cmd.Flags().IntVar(&opts.precision, "precision", 0, "decimals written for scores, -1 for shortest (default from config)")
	cmd.Flags().BoolVarP(&opts.verbose, "verbose", "v", false, "log pipeline details to stderr")
	return cmd
}

// Execute runs the command and exits 1 on any error.
func Execute(version string) {
	if err := NewRootCmd(version).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", Message(err))
		os.Exit(1)
	}
}

func exactArgs(n int) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if len(args) != n {
			return fmt.Errorf("usage: %s", usage)
		}
		return nil
	}
}

func run(cmd *cobra.Command, opts *options, args []string) error {
	input, weights, impacts, output := args[0], args[1], args[2], args[3]

	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return err
	}
	precision := cfg.Output.Precision
	if cmd.Flags().Changed("precision") {
		if opts.precision < -1 {
			return fmt.Errorf("precision must be >= -1, got %d", opts.precision)
		}
		precision = opts.precision
	}
	logCfg := cfg.Logging
	logCfg.Level = "warn"
	if opts.verbose {
		logCfg.Level = "debug"
	}
	logger := logCfg.NewLogger(cmd.ErrOrStderr())

	t, err := table.ReadFile(input)
	if err != nil {
		return err
	}

	res, err := scoring.NewScorer(logger, nil).Run(t, weights, impacts)
	if err != nil {
		return err
	}
	if err := table.WriteFile(output, res, precision); err != nil {
		return err
	}

	report(cmd.OutOrStdout(), output)
	return nil
}

func report(w io.Writer, output string) {
	fmt.Fprintln(w, "TOPSIS completed successfully!")
	fmt.Fprintln(w, "Output saved to:", output)
}

// Message renders err for the terminal. Pipeline errors show their reason and
// the column or alternative at fault; other errors print unchanged.
func Message(err error) string {
	var se *scoring.Error
	if !errors.As(err, &se) {
		return err.Error()
	}
	switch {
	case se.Column != "":
		return fmt.Sprintf("%s (column %q)", se.Reason, se.Column)
	case se.Row != "":
		return fmt.Sprintf("%s (alternative %q)", se.Reason, se.Row)
	default:
		return se.Reason
	}
}
