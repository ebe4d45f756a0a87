package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"ferry/internal/diag"
	"ferry/internal/diagfmt"
	"ferry/internal/driver"
)

var checkCmd = &cobra.Command{
	Use:   "check [flags] [path]",
	Short: "Validate schemas without writing anything",
	Long: `Check runs the full pipeline including code generation and reports every
diagnostic, but never touches the output directories. Intended for CI.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runCheck,
}

func init() {
	checkCmd.Flags().String("format", "pretty", "diagnostic format (pretty|short|json)")
	checkCmd.Flags().Int("jobs", 0, "max parallel parse workers (0=auto)")
	checkCmd.Flags().String("target", "", "override the [bridge].target triple")
}

func runCheck(cmd *cobra.Command, args []string) error {
	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return fmt.Errorf("failed to get format flag: %w", err)
	}

	stopProfiling, err := setupProfiling(cmd)
	if err != nil {
		return err
	}
	defer stopProfiling()

	req, _, err := projectRequest(cmd, args)
	if err != nil {
		return err
	}

	res, err := driver.Check(cmd.Context(), req)
	if err != nil {
		return err
	}

	switch format {
	case "pretty":
		if printErr := printDiagnostics(cmd, res.Bag, res.FileSet); printErr != nil {
			return printErr
		}
	case "short":
		output := diag.FormatGoldenDiagnostics(res.Bag.Items(), res.FileSet, true)
		if output != "" {
			fmt.Fprintln(os.Stdout, output)
		}
	case "json":
		maxDiagnostics, flagErr := cmd.Root().PersistentFlags().GetInt("max-diagnostics")
		if flagErr != nil {
			return flagErr
		}
		jsonOpts := diagfmt.JSONOpts{
			IncludePositions: true,
			IncludeNotes:     true,
			Max:              maxDiagnostics,
		}
		if jsonErr := diagfmt.JSON(os.Stdout, res.Bag, res.FileSet, jsonOpts); jsonErr != nil {
			return fmt.Errorf("failed to format diagnostics: %w", jsonErr)
		}
	default:
		return fmt.Errorf("unknown format: %s", format)
	}

	if timingsErr := maybePrintTimings(cmd, res.Timings); timingsErr != nil {
		return timingsErr
	}

	if !res.Ok() {
		cmd.SilenceUsage = true
		cmd.SilenceErrors = true
		return fmt.Errorf("") // Silent error - diagnostics already printed
	}

	quiet, err := cmd.Root().PersistentFlags().GetBool("quiet")
	if err != nil {
		return err
	}
	if !quiet && format == "pretty" {
		fmt.Fprintf(os.Stdout, "ok: %d modules\n", len(res.Modules))
	}
	return nil
}
