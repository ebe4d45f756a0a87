package main

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"ferry/internal/pipeline"
)

func maybePrintTimings(cmd *cobra.Command, timings pipeline.Timings) error {
	show, err := cmd.Root().PersistentFlags().GetBool("timings")
	if err != nil {
		return err
	}
	if show {
		printStageTimings(os.Stdout, timings)
	}
	return nil
}

func printStageTimings(out io.Writer, timings pipeline.Timings) {
	if out == nil {
		return
	}
	stages := []struct {
		stage pipeline.Stage
		label string
	}{
		{pipeline.StageScan, "scanned"},
		{pipeline.StageParse, "parsed"},
		{pipeline.StageResolve, "resolved"},
		{pipeline.StageGenerate, "generated"},
		{pipeline.StageWrite, "wrote"},
	}
	for _, s := range stages {
		if timings.Has(s.stage) {
			fmt.Fprintf(out, "%s %.1f ms\n", s.label, toMillis(timings.Duration(s.stage)))
		}
	}
}

func toMillis(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}
