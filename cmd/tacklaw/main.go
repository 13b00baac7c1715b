// Command tacklaw computes rate-dependent adhesion amplification curves.
//
// Two sweep commands share one flag surface: `tacklaw nu` walks the
// dimensionless frequency directly, `tacklaw rate` walks the experimental
// unloading rate and maps each point through the calibrated power law.
// `tacklaw config init` writes the default YAML configuration.
package main

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/lmittmann/tint"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/alexshd/tacklaw"
)

var rootCmd = &cobra.Command{
	Use:   "tacklaw",
	Short: "Adhesion amplification curves for power-law viscoelastic solids",
	Long: `tacklaw sweeps the effective surface energy amplification Γ_eff of a
power-law viscoelastic adhesion model across log-spaced parameter grids,
one curve per tail exponent n.

The subcommand picks the swept axis (nu or rate); grid bounds from flags
or the config file apply to that axis. Unset numeric flags fall back to
the published sweep: k=0.10, n in {0.2, 0.4, 0.6, 0.8, 1.6}, 200 points.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		initLogging(viper.GetBool("verbose"))
		return loadConfigFile()
	},
}

var nuCmd = &cobra.Command{
	Use:   "nu",
	Short: "Sweep the dimensionless frequency ν (published span 1e-2 to 1e8)",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runSweep(cmd.Context(), tacklaw.GridNu)
	},
}

var rateCmd = &cobra.Command{
	Use:   "rate",
	Short: "Sweep the unloading rate r_u (published span 1e-2 to 1e10)",
	Long: `Sweeps the experimental unloading rate. Each grid point is converted to
the dimensionless frequency through ν = C1·(r_u/C2)^1.171 before solving,
and the output carries both coordinates.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runSweep(cmd.Context(), tacklaw.GridUnloadingRate)
	},
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Configuration file helpers",
}

var configInitCmd = &cobra.Command{
	Use:   "init [path]",
	Short: "Write the default sweep configuration as YAML",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runConfigInit,
}

var (
	configPath string
	forceInit  bool
)

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&configPath, "config", "", "YAML config file (default: ./tacklaw.yaml when present)")
	pf.Bool("verbose", false, "debug logging")

	pf.Float64("k", 0.10, "stress ratio σ₀/σ_c, strictly inside (0,1)")
	pf.StringSlice("n", nil, "tail exponents (default 0.2,0.4,0.6,0.8,1.6)")
	pf.Float64("min", 0, "grid lower bound (0 = published default)")
	pf.Float64("max", 0, "grid upper bound (0 = published default)")
	pf.Int("points", 0, "grid points (0 = published 200)")
	pf.Float64("tol", 0, "fixed-point tolerance (0 = 1e-10)")
	pf.Int("max-iter", 0, "fixed-point iteration cap (0 = 200)")
	pf.Int("digits", 0, "target decimal digits per evaluation (0 = 20)")
	pf.Int("workers", 0, "solver goroutines (0 = GOMAXPROCS)")
	pf.StringP("output", "o", "-", "CSV file path, or - for a table on stdout")

	viper.BindPFlag("verbose", pf.Lookup("verbose"))
	viper.BindPFlag("k", pf.Lookup("k"))
	viper.BindPFlag("exponents", pf.Lookup("n"))
	viper.BindPFlag("grid.min", pf.Lookup("min"))
	viper.BindPFlag("grid.max", pf.Lookup("max"))
	viper.BindPFlag("grid.points", pf.Lookup("points"))
	viper.BindPFlag("solve.tol", pf.Lookup("tol"))
	viper.BindPFlag("solve.max_iter", pf.Lookup("max-iter"))
	viper.BindPFlag("solve.eval.digits", pf.Lookup("digits"))
	viper.BindPFlag("workers", pf.Lookup("workers"))
	viper.BindPFlag("output", pf.Lookup("output"))

	viper.SetEnvPrefix("TACKLAW")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	configInitCmd.Flags().BoolVar(&forceInit, "force", false, "overwrite an existing file")
	configCmd.AddCommand(configInitCmd)
	rootCmd.AddCommand(nuCmd, rateCmd, configCmd)
}

func initLogging(verbose bool) {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(
		tint.NewHandler(os.Stderr, &tint.Options{
			Level:      level,
			TimeFormat: "15:04:05",
		}),
	))
}

// loadConfigFile reads an explicit --config path (missing file is an error)
// or falls back to ./tacklaw.yaml (missing file is fine).
func loadConfigFile() error {
	if configPath != "" {
		viper.SetConfigFile(configPath)
		if err := viper.ReadInConfig(); err != nil {
			return fmt.Errorf("read config: %w", err)
		}
		slog.Debug("config loaded", "path", viper.ConfigFileUsed())
		return nil
	}

	viper.SetConfigName("tacklaw")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return nil
		}
		return fmt.Errorf("read config: %w", err)
	}
	slog.Debug("config loaded", "path", viper.ConfigFileUsed())
	return nil
}

// buildSweepConfig starts from the published preset for the chosen axis and
// overlays everything the user set; zero means "keep the preset".
func buildSweepConfig(variable tacklaw.GridVariable) (tacklaw.SweepConfig, error) {
	cfg := tacklaw.DefaultSweepConfig()
	if variable == tacklaw.GridUnloadingRate {
		cfg = tacklaw.DefaultRateSweepConfig()
	}

	cfg.K = viper.GetFloat64("k")
	if raw := viper.GetStringSlice("exponents"); len(raw) > 0 {
		ns := make([]float64, 0, len(raw))
		for _, s := range raw {
			n, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
			if err != nil {
				return cfg, fmt.Errorf("exponent %q is not a number", s)
			}
			ns = append(ns, n)
		}
		cfg.Exponents = ns
	}
	if v := viper.GetFloat64("grid.min"); v != 0 {
		cfg.Grid.Min = v
	}
	if v := viper.GetFloat64("grid.max"); v != 0 {
		cfg.Grid.Max = v
	}
	if v := viper.GetInt("grid.points"); v != 0 {
		cfg.Grid.Points = v
	}
	if v := viper.GetFloat64("solve.tol"); v != 0 {
		cfg.Solve.Tol = v
	}
	if v := viper.GetInt("solve.max_iter"); v != 0 {
		cfg.Solve.MaxIter = v
	}
	if v := viper.GetInt("solve.eval.digits"); v != 0 {
		cfg.Solve.Eval.Digits = v
	}
	if v := viper.GetInt("solve.eval.max_terms"); v != 0 {
		cfg.Solve.Eval.MaxTerms = v
	}
	if v := viper.GetInt("solve.eval.max_refinements"); v != 0 {
		cfg.Solve.Eval.MaxRefinements = v
	}
	cfg.Workers = viper.GetInt("workers")

	return cfg, cfg.Validate()
}

func runSweep(ctx context.Context, variable tacklaw.GridVariable) error {
	cfg, err := buildSweepConfig(variable)
	if err != nil {
		return err
	}

	slog.Info("sweep starting",
		"axis", string(variable),
		"k", cfg.K,
		"curves", len(cfg.Exponents),
		"points", cfg.Grid.Points,
		"span", fmt.Sprintf("[%g, %g]", cfg.Grid.Min, cfg.Grid.Max),
	)

	start := time.Now()
	report, err := tacklaw.RunSweep(ctx, cfg)
	if err != nil {
		return err
	}

	stats := report.Stats()
	slog.Info("sweep finished",
		"converged", stats.Converged,
		"failed", stats.Failed,
		"max_iterations", stats.MaxIterations,
		"elapsed", time.Since(start).Round(time.Millisecond),
	)
	for i, f := range report.Failures {
		if i == 5 {
			slog.Warn("more failures omitted", "omitted", len(report.Failures)-5)
			break
		}
		slog.Warn("point failed", "n", f.N, "x", f.X, "err", f.Err)
	}

	out := viper.GetString("output")
	if out == "" || out == "-" {
		if err := writeTable(os.Stdout, report); err != nil {
			return err
		}
	} else {
		fh, err := os.Create(out)
		if err != nil {
			return err
		}
		werr := writeCSV(fh, report)
		if cerr := fh.Close(); werr == nil {
			werr = cerr
		}
		if werr != nil {
			return werr
		}
		slog.Info("curves written", "path", out, "rows", stats.Converged)
	}

	if report.HasFailures() {
		return fmt.Errorf("%d of %d points failed", stats.Failed, stats.Points)
	}
	return nil
}

func writeTable(w io.Writer, report *tacklaw.Report) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "n\tx\tν\tΓ_eff\titers")
	for _, curve := range report.Curves {
		for _, p := range curve.Points {
			fmt.Fprintf(tw, "%g\t%.6g\t%.6g\t%.12f\t%d\n",
				curve.N, p.X, p.Nu, p.Gamma, p.Iterations)
		}
	}
	return tw.Flush()
}

func writeCSV(w io.Writer, report *tacklaw.Report) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"n", "x", "nu", "gamma", "iterations"}); err != nil {
		return err
	}
	for _, curve := range report.Curves {
		for _, p := range curve.Points {
			rec := []string{
				strconv.FormatFloat(curve.N, 'g', -1, 64),
				strconv.FormatFloat(p.X, 'g', -1, 64),
				strconv.FormatFloat(p.Nu, 'g', -1, 64),
				strconv.FormatFloat(p.Gamma, 'g', -1, 64),
				strconv.Itoa(p.Iterations),
			}
			if err := cw.Write(rec); err != nil {
				return err
			}
		}
	}
	cw.Flush()
	return cw.Error()
}

func runConfigInit(cmd *cobra.Command, args []string) error {
	path := "tacklaw.yaml"
	if len(args) == 1 {
		path = args[0]
	}
	if !forceInit {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("%s already exists (use --force to overwrite)", path)
		}
	}

	data, err := yaml.Marshal(tacklaw.DefaultSweepConfig())
	if err != nil {
		return err
	}
	header := "# tacklaw sweep configuration.\n" +
		"# The subcommand (nu or rate) picks grid.variable; bounds apply to that axis.\n"
	if err := os.WriteFile(path, append([]byte(header), data...), 0o644); err != nil {
		return err
	}

	slog.Info("config written", "path", path)
	return nil
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		slog.Error("tacklaw failed", "err", err)
		os.Exit(1)
	}
}
