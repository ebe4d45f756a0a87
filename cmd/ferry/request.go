package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"ferry/internal/driver"
	"ferry/internal/project"
	"ferry/internal/version"
)

// projectRequest discovers the ferry.toml manifest starting at the optional
// path argument and turns it into a pipeline request. Flag overrides win
// over manifest values.
func projectRequest(cmd *cobra.Command, args []string) (driver.Request, *project.Manifest, error) {
	startDir := "."
	if len(args) == 1 && args[0] != "" {
		startDir = args[0]
	}

	manifest, err := project.Discover(startDir)
	if err != nil {
		return driver.Request{}, nil, err
	}

	maxDiagnostics, err := cmd.Root().PersistentFlags().GetInt("max-diagnostics")
	if err != nil {
		return driver.Request{}, nil, fmt.Errorf("failed to get max-diagnostics flag: %w", err)
	}
	jobs, err := cmd.Flags().GetInt("jobs")
	if err != nil {
		return driver.Request{}, nil, fmt.Errorf("failed to get jobs flag: %w", err)
	}
	targetOverride, err := cmd.Flags().GetString("target")
	if err != nil {
		return driver.Request{}, nil, fmt.Errorf("failed to get target flag: %w", err)
	}

	req := driver.Request{
		SchemaDir:      manifest.SchemaDir(),
		OutGoDir:       manifest.OutGoDir(),
		OutSwiftDir:    manifest.OutSwiftDir(),
		OutHeaderDir:   manifest.OutHeaderDir(),
		Prefix:         manifest.Config.Bridge.Prefix,
		TargetTriple:   manifest.Config.Bridge.Target,
		GoPackage:      manifest.Config.Bridge.GoPackage,
		RuntimeImport:  manifest.Config.Bridge.Runtime,
		Jobs:           jobs,
		MaxDiagnostics: maxDiagnostics,
		ToolVersion:    version.Tool(),
	}
	if targetOverride != "" {
		req.TargetTriple = targetOverride
	}
	return req, manifest, nil
}
