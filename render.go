package main

import (
	"fmt"
	"strings"

	"lanbench/bench"
)

func renderTable(results []bench.Result) {
	// prepare data
	longest := len("File")

	for _, result := range results {
		if len(result.Target.Path) > longest {
			longest = len(result.Target.Path)
		}
	}

	// header
	fmt.Printf("┌%s┐\n", strings.Repeat("-", longest+66))
	fmt.Printf("| %-9s  %-*s  %10s  %10s  %10s  %10s  %3s |\n",
		"Operation", longest, "File", "Mean ms", "StdDev ms", "Min ms", "Max ms", "N")
	fmt.Printf("├%s┤\n", strings.Repeat("-", longest+66))

	// line of each (operation, file) pair
	format := fmt.Sprintf("| %%-9s  %%-%ds  %%10.1f  %%10.1f  %%10.1f  %%10.1f  %%3d |\n", longest)

	for _, result := range results {
		report := result.Report

		if report == nil {
			continue
		}

		fmt.Printf(format,
			result.Operation,
			result.Target.Path,
			float64(report.Mean.Microseconds())/1000.0,
			float64(report.StdDev.Microseconds())/1000.0,
			float64(report.Min.Microseconds())/1000.0,
			float64(report.Max.Microseconds())/1000.0,
			report.Count,
		)
	}

	// footer
	fmt.Printf("└%s┘\n", strings.Repeat("-", longest+66))
}
