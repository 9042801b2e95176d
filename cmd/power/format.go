package main

import (
	"fmt"

	"github.com/rttri/PoWER/pkg/disparity"
	"github.com/rttri/PoWER/pkg/equity"
	"github.com/rttri/PoWER/pkg/opt"
	"github.com/rttri/PoWER/pkg/region"
	"github.com/rttri/PoWER/pkg/validation"
)

func printValidationReport(r *validation.Report) {
	if len(r.Errors) > 0 {
		fmt.Printf("ERRORS (%d):\n", len(r.Errors))
		for _, e := range r.Errors {
			fmt.Printf("  [%s] %s\n", e.Level, e.Message)
			if e.Field != "" && e.ActualValue != nil {
				fmt.Printf("    -> %s = %v\n", e.Field, e.ActualValue)
			}
			if e.Expected != "" {
				fmt.Printf("    expected: %s\n", e.Expected)
			}
			for _, s := range e.Suggestions {
				fmt.Printf("    * %s\n", s)
			}
		}
		fmt.Println()
	}

	if len(r.Warnings) > 0 {
		fmt.Printf("WARNINGS (%d):\n", len(r.Warnings))
		for _, w := range r.Warnings {
			fmt.Printf("  [%s] %s\n", w.Level, w.Message)
			if w.Expected != "" {
				fmt.Printf("    expected: %s\n", w.Expected)
			}
			for _, s := range w.Suggestions {
				fmt.Printf("    * %s\n", s)
			}
		}
		fmt.Println()
	}

	if len(r.Info) > 0 {
		fmt.Printf("INFO (%d):\n", len(r.Info))
		for _, i := range r.Info {
			fmt.Printf("  [%s] %s\n", i.Level, i.Message)
		}
		fmt.Println()
	}

	if r.Valid {
		fmt.Printf("Result: VALID (%s)\n", r.Summary)
	} else {
		fmt.Printf("Result: INVALID (%s)\n", r.Summary)
	}
}

func printEquityScores(ind equity.Indicator, attr region.Attribute, index disparity.Index, inter float64, intra []equity.GroupScore) {
	fmt.Printf("%s by %s (%s)\n", ind, attr, index)
	fmt.Printf("  inter-group: %.6f\n", inter)
	for _, g := range intra {
		fmt.Printf("  intra %-20s %.6f\n", g.Label+":", g.Score)
	}
	fmt.Println()
}

func printOptimizeResult(ds *equity.Dataset, res *opt.Result) {
	fmt.Printf("Status: %s\n", res.Status)
	if !res.Feasible {
		fmt.Println("No feasible allocation found.")
		return
	}

	fmt.Printf("Objective: %.6f (between %.6f, within %.6f)\n",
		res.Objective, res.Between, res.Within)
	if !res.Optimal {
		fmt.Println("Incumbent accepted before proven optimality.")
	}
	fmt.Println()

	fmt.Printf("%-14s %14s %18s %14s\n", "Zone", "Added kW", "Equivalent kW", "Indicator")
	var total float64
	for i, z := range ds.Table.Zones {
		if res.Added[i] == 0 {
			continue
		}
		fmt.Printf("%-14s %14.2f %18.2f %14.6f\n",
			z.ID, res.Added[i], res.EquivalentCap[i], res.Indicator[i])
		total += res.Added[i]
	}
	fmt.Printf("%-14s %14.2f\n", "TOTAL", total)
}
