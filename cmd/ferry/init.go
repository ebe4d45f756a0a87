package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"ferry/internal/project"
)

var initCmd = &cobra.Command{
	Use:   "init [path|name]",
	Short: "Initialize a new ferry project",
	Long: `Initialize a new ferry project by creating a project manifest (ferry.toml)
and an example bridge schema (schema/demo.fy). If [path|name] is omitted,
initializes the current directory. If a non-existing name is provided, a
directory will be created.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runInit,
}

// runInit scaffolds a ferry project at the target path: the ferry.toml
// manifest, the schema directory and one example schema. It refuses to
// run when ferry.toml already exists.
func runInit(cmd *cobra.Command, args []string) error {
	// Resolve target directory
	var target string
	if len(args) == 0 || args[0] == "." {
		wd, err := os.Getwd()
		if err != nil {
			return err
		}
		target = wd
	} else {
		// treat as path or name relative to cwd
		arg := args[0]
		if !filepath.IsAbs(arg) {
			wd, err := os.Getwd()
			if err != nil {
				return err
			}
			target = filepath.Join(wd, arg)
		} else {
			target = arg
		}
	}

	// Ensure directory exists
	if st, err := os.Stat(target); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			if err = os.MkdirAll(target, 0o755); err != nil {
				return fmt.Errorf("failed to create directory %q: %w", target, err)
			}
		} else {
			return err
		}
	} else if !st.IsDir() {
		return fmt.Errorf("%q is not a directory", target)
	}

	// Determine project name from directory basename
	name := strings.TrimSpace(filepath.Base(target))
	if name == "" || name == "." || name == string(filepath.Separator) {
		name = "ferry-project"
	}

	// Create manifest file if not exists
	manifestPath := filepath.Join(target, project.ManifestName)
	if _, err := os.Stat(manifestPath); err == nil {
		return fmt.Errorf("project already initialized: %s exists", manifestPath)
	}

	if err := os.WriteFile(manifestPath, []byte(buildDefaultManifest(name)), os.FileMode(0o600)); err != nil {
		return fmt.Errorf("failed to write manifest: %w", err)
	}

	// Create the schema directory with one example schema
	schemaDir := filepath.Join(target, "schema")
	if err := os.MkdirAll(schemaDir, 0o755); err != nil {
		return fmt.Errorf("failed to create schema directory: %w", err)
	}
	schemaPath := filepath.Join(schemaDir, "demo.fy")
	createdSchema := false
	if _, err := os.Stat(schemaPath); errors.Is(err, os.ErrNotExist) {
		if err := os.WriteFile(schemaPath, []byte(defaultSchema()), 0o600); err != nil {
			return fmt.Errorf("failed to write demo.fy: %w", err)
		}
		createdSchema = true
	}

	rel := target
	if wd, err := os.Getwd(); err == nil {
		if r, err2 := filepath.Rel(wd, target); err2 == nil {
			rel = r
		}
	}
	fmt.Fprintf(os.Stdout, "Initialized ferry project in %s\n", rel)
	fmt.Fprintf(os.Stdout, "  - ferry.toml\n")
	if createdSchema {
		fmt.Fprintf(os.Stdout, "  - schema/demo.fy\n")
	} else {
		fmt.Fprintf(os.Stdout, "  - schema/demo.fy (existing)\n")
	}
	return nil
}

// buildDefaultManifest returns a minimal TOML manifest for a ferry project
// using the provided package name.
func buildDefaultManifest(name string) string {
	return fmt.Sprintf(`# Ferry project manifest
[package]
name = "%s"

[bridge]
schema = "schema"
out_go = "generated/go"
out_swift = "generated/swift"
out_header = "generated/include"
`, name)
}

// defaultSchema returns the example schema used when initializing a project.
func defaultSchema() string {
	return `// Example ferry bridge schema.
// Run "ferry generate" to produce Go, Swift and C glue for it.

bridge demo

struct Point {
    x: Float64,
    y: Float64,
}

enum Status {
    Idle,
    Busy,
    Failed,
}
`
}
