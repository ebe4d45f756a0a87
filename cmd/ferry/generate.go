// Package main implements the ferry CLI.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"ferry/internal/driver"
)

var generateCmd = &cobra.Command{
	Use:   "generate [flags] [path]",
	Short: "Generate bridge glue for a ferry project",
	Long: `Generate compiles every *.fy schema of a ferry project into Go, Swift
and C sources, using ferry.toml as the project definition.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runGenerate,
}

func init() {
	generateCmd.Flags().String("ui", "auto", "user interface (auto|on|off)")
	generateCmd.Flags().Bool("force", false, "regenerate even when cached artifacts are current")
	generateCmd.Flags().Bool("no-cache", false, "skip the on-disk artifact cache entirely")
	generateCmd.Flags().Int("jobs", 0, "max parallel parse workers (0=auto)")
	generateCmd.Flags().String("target", "", "override the [bridge].target triple")
}

func runGenerate(cmd *cobra.Command, args []string) error {
	uiValue, err := cmd.Flags().GetString("ui")
	if err != nil {
		return err
	}
	uiModeValue, err := readUIMode(uiValue)
	if err != nil {
		return err
	}
	force, err := cmd.Flags().GetBool("force")
	if err != nil {
		return err
	}
	noCache, err := cmd.Flags().GetBool("no-cache")
	if err != nil {
		return err
	}

	stopProfiling, err := setupProfiling(cmd)
	if err != nil {
		return err
	}
	defer stopProfiling()

	req, manifest, err := projectRequest(cmd, args)
	if err != nil {
		return err
	}
	req.Force = force
	if !noCache {
		cache, cacheErr := driver.OpenDiskCache("ferry")
		if cacheErr != nil {
			// Кэш не критичен: предупреждаем и генерируем без него.
			fmt.Fprintf(os.Stderr, "warning: artifact cache unavailable: %v\n", cacheErr)
		} else {
			req.Cache = cache
		}
	}

	files, err := driver.ListSchemaFiles(req.SchemaDir)
	if err != nil {
		return fmt.Errorf("failed to scan %s: %w", req.SchemaDir, err)
	}

	var res *driver.Result
	if shouldUseTUI(uiModeValue) && len(files) > 0 {
		res, err = runWithUI(cmd.Context(), "ferry generate", files, req, driver.Generate)
	} else {
		res, err = driver.Generate(cmd.Context(), req)
	}
	if err != nil {
		return err
	}

	if printErr := printDiagnostics(cmd, res.Bag, res.FileSet); printErr != nil {
		return printErr
	}
	if timingsErr := maybePrintTimings(cmd, res.Timings); timingsErr != nil {
		return timingsErr
	}

	quiet, err := cmd.Root().PersistentFlags().GetBool("quiet")
	if err != nil {
		return err
	}
	if !res.Ok() {
		// Suppress cobra usage output on diagnostic errors
		cmd.SilenceUsage = true
		cmd.SilenceErrors = true
		return fmt.Errorf("") // Silent error - diagnostics already printed
	}
	if !quiet {
		for _, written := range res.Written {
			fmt.Fprintf(os.Stdout, "wrote %s\n", formatPathForOutput(manifest.Root, written))
		}
		cached := 0
		for _, mr := range res.Modules {
			if mr.FromCache {
				cached++
			}
		}
		if cached > 0 {
			fmt.Fprintf(os.Stdout, "generated %d modules (%d from cache)\n", len(res.Modules), cached)
		} else {
			fmt.Fprintf(os.Stdout, "generated %d modules\n", len(res.Modules))
		}
	}
	return nil
}

func formatPathForOutput(root, path string) string {
	if root == "" || path == "" {
		return path
	}
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return path
	}
	if strings.HasPrefix(rel, "..") {
		return path
	}
	return filepath.ToSlash(rel)
}
