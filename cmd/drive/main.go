// Command drive is the stable invocation surface for the benchmark core
// (§6, §10.4): drive -b <benchmark> -c <config> [--create] [--load]
// [--execute] [--clear] [--runscript <path>]. Schema creation, data
// loading, and result-file formatting are out-of-scope external
// collaborators (§1 Non-goals); this binary only logs that they were
// requested and wires the in-scope --execute path to the Orchestrator.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	bench "github.com/oltpgo/tpccdrive"
	_ "github.com/oltpgo/tpccdrive/dialect"
)

var (
	flagBenchmark string
	flagConfig    string
	flagCreate    bool
	flagLoad      bool
	flagExecute   bool
	flagClear     bool
	flagRunscript string
)

func newRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "drive",
		Short: "Run the multi-DBMS transactional workload core",
		RunE:  runDrive,
	}
	cmd.PersistentFlags().StringVarP(&flagBenchmark, "benchmark", "b", "", "benchmark name (required)")
	cmd.PersistentFlags().StringVarP(&flagConfig, "config", "c", "", "path to a YAML RunConfig (required)")
	cmd.Flags().BoolVar(&flagCreate, "create", false, "create schema (delegated to an external DDL collaborator)")
	cmd.Flags().BoolVar(&flagLoad, "load", false, "load initial data (delegated to an external loader collaborator)")
	cmd.Flags().BoolVar(&flagExecute, "execute", false, "run the configured phases against the dialect under test")
	cmd.Flags().BoolVar(&flagClear, "clear", false, "drop schema (delegated to an external DDL collaborator)")
	cmd.Flags().StringVar(&flagRunscript, "runscript", "", "run a SQL script and exit before the workload loop")
	cmd.MarkPersistentFlagRequired("benchmark")
	cmd.MarkPersistentFlagRequired("config")
	return cmd
}

func main() {
	if err := newRootCommand().Execute(); err != nil {
		bench.Errorf("drive: %v", err)
		os.Exit(1)
	}
}

func runDrive(cmd *cobra.Command, args []string) error {
	if flagRunscript != "" {
		bench.Infof("runscript %s requested: script execution is an external collaborator's responsibility (§1)", flagRunscript)
		return nil
	}

	overrides := bench.NewProperties()
	overrides.Add(bench.PropertyBenchmark, flagBenchmark)

	cfg, err := bench.LoadRunConfig(flagConfig, overrides)
	if err != nil {
		return fmt.Errorf("loading run config: %w", err)
	}
	bench.Infof("loaded run %s: benchmark=%s dialect=%s terminals=%d", cfg.RunID, cfg.Benchmark, cfg.Dialect, cfg.TotalTerminals)

	if flagCreate {
		bench.Infof("--create requested: schema DDL is an external collaborator's responsibility (§1)")
	}
	if flagLoad {
		bench.Infof("--load requested: initial data load is an external collaborator's responsibility (§1)")
	}
	if flagClear {
		bench.Infof("--clear requested: schema teardown is an external collaborator's responsibility (§1)")
	}
	if !flagExecute {
		return nil
	}

	warehouses, err := cfg.Props.GetIntDefault("warehouses", cfg.TotalTerminals)
	if err != nil {
		return err
	}
	registry, err := bench.DemoRegistry(warehouses, cfg.Props)
	if err != nil {
		return fmt.Errorf("building demo transaction registry: %w", err)
	}

	ctx := context.Background()
	orch, err := bench.NewOrchestrator(ctx, cfg, registry)
	if err != nil {
		return fmt.Errorf("starting orchestrator: %w", err)
	}

	result, err := orch.Run(ctx)
	if err != nil {
		return fmt.Errorf("running benchmark: %w", err)
	}

	printSummary(result)
	return nil
}

// printSummary is a stand-in for the out-of-scope result-file formatter
// (§1): it writes a plain per-phase summary to stdout so --execute has a
// visible outcome without depending on an external reporting collaborator.
func printSummary(result *bench.RunResult) {
	fmt.Printf("run %s completed in %s\n", result.RunID, result.WallClock())
	for phaseID, stats := range result.PhaseStats {
		fmt.Printf("phase %s: count=%d mean=%.0fns p95=%dns p99=%dns\n",
			phaseID, stats.Count, stats.Mean, stats.Percentiles[0.95], stats.Percentiles[0.99])
		for outcome, n := range result.PhaseOutcomeHistograms[phaseID] {
			fmt.Printf("  %s: %d\n", outcome, n)
		}
	}
}
