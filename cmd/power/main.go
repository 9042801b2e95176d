package main

import (
	"os"

	"github.com/spf13/cobra"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "power",
		Short: "Charger equity evaluation and equity-aware placement optimization",
	}

	rootCmd.AddCommand(validateCmd())
	rootCmd.AddCommand(evaluateCmd())
	rootCmd.AddCommand(optimizeCmd())
	rootCmd.AddCommand(sweepCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func validateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate [project-path]",
		Short: "Validate the zone table and matrices without solving anything",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			return runValidate(args[0])
		},
	}
}

func evaluateCmd() *cobra.Command {
	var opts evaluateOptions

	cmd := &cobra.Command{
		Use:   "evaluate [project-path]",
		Short: "Compute disparity of an equity indicator over the current inventory",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			return runEvaluate(args[0], opts)
		},
	}

	cmd.Flags().StringVarP(&opts.indicator, "indicator", "i", "char_capacity_per_capita", "equity indicator")
	cmd.Flags().StringVarP(&opts.group, "group", "g", "income_level", "demographic attribute")
	cmd.Flags().StringVarP(&opts.disparity, "disparity", "d", "gini_coefficient", "disparity index")
	cmd.Flags().BoolVar(&opts.all, "all", false, "evaluate every indicator with the chosen group and index")
	return cmd
}

func optimizeCmd() *cobra.Command {
	var opts optimizeOptions

	cmd := &cobra.Command{
		Use:   "optimize [project-path]",
		Short: "Solve one charger-placement model and print the allocation",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			return runOptimize(args[0], opts)
		},
	}

	cmd.Flags().StringVarP(&opts.indicator, "indicator", "i", "char_capacity_per_capita", "equity indicator")
	cmd.Flags().StringVarP(&opts.group, "group", "g", "income_level", "demographic attribute")
	cmd.Flags().StringVarP(&opts.disparity, "disparity", "d", "mean_abs_dev", "disparity index")
	cmd.Flags().Float64VarP(&opts.budget, "budget", "b", 0, "total and per-zone added capacity cap (kW)")
	cmd.Flags().Float64VarP(&opts.weight, "weight", "w", 1, "between-group weight in [0,1]")
	cmd.Flags().Float64Var(&opts.exclusivity, "exclusivity", 0, "fraction of added capacity kept exclusive to the installing zone")
	cmd.Flags().Float64Var(&opts.timeLimit, "time-limit", 0, "solver time limit in seconds (0 = default)")
	cmd.Flags().StringVar(&opts.iisPath, "iis", "", "write an infeasibility report to this path when the model has no solution")
	cmd.Flags().BoolVar(&opts.jsonOut, "json", false, "emit the full result as JSON")
	return cmd
}

func sweepCmd() *cobra.Command {
	var opts sweepOptions

	cmd := &cobra.Command{
		Use:   "sweep [project-path]",
		Short: "Run the full parameter sweep described by the project's run.yaml",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			return runSweep(args[0], opts)
		},
	}

	cmd.Flags().BoolVar(&opts.noProgress, "no-progress", false, "disable the progress bar")
	cmd.Flags().Int64Var(&opts.seed, "seed", 0, "random seed for stochastic solver backends")
	return cmd
}
