package main

import (
	"fmt"
	"io"
	"time"

	"ophelia/internal/buildpipeline"
	"ophelia/internal/observ"
)

func printStageTimings(out io.Writer, timings *buildpipeline.Timings) {
	if out == nil || timings == nil {
		return
	}
	for _, stage := range buildpipeline.Stages {
		if timings.Has(stage) {
			fmt.Fprintf(out, "%-8s %.1f ms\n", stage, toMillis(timings.Duration(stage)))
		}
	}
	fmt.Fprintf(out, "%-8s %.1f ms\n", "total", toMillis(timings.Sum(buildpipeline.Stages...)))
}

// printPhaseReport печатает отчёт фаз одного файла
func printPhaseReport(out io.Writer, path string, rep observ.Report) {
	fmt.Fprintf(out, "timings for %s:\n", path)
	for _, p := range rep.Phases {
		fmt.Fprintf(out, "  %-10s %8.3f ms", p.Name, p.DurationMS)
		if p.Note != "" {
			fmt.Fprintf(out, "  (%s)", p.Note)
		}
		fmt.Fprintln(out)
	}
	fmt.Fprintf(out, "  %-10s %8.3f ms\n", "total", rep.TotalMS)
}

func toMillis(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}
