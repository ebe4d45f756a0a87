package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"ferry/internal/diagfmt"
	"ferry/internal/driver"
)

var parseCmd = &cobra.Command{
	Use:   "parse [flags] <file.fy|directory>",
	Short: "Parse schema files and output their AST",
	Long:  `Parse analyzes a *.fy schema file or all schemas in a directory and outputs their abstract syntax trees`,
	Args:  cobra.ExactArgs(1),
	RunE:  runParse,
}

func init() {
	parseCmd.Flags().String("format", "pretty", "output format (pretty|json)")
}

func runParse(cmd *cobra.Command, args []string) error {
	filePath := args[0]

	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return fmt.Errorf("failed to get format flag: %w", err)
	}
	maxDiagnostics, err := cmd.Root().PersistentFlags().GetInt("max-diagnostics")
	if err != nil {
		return fmt.Errorf("failed to get max-diagnostics flag: %w", err)
	}
	quiet, err := cmd.Root().PersistentFlags().GetBool("quiet")
	if err != nil {
		return fmt.Errorf("failed to get quiet flag: %w", err)
	}

	// Проверяем, файл это или директория
	st, err := os.Stat(filePath)
	if err != nil {
		return fmt.Errorf("failed to stat path: %w", err)
	}

	files := []string{filePath}
	if st.IsDir() {
		files, err = driver.ListSchemaFiles(filePath)
		if err != nil {
			return fmt.Errorf("failed to scan %s: %w", filePath, err)
		}
		if len(files) == 0 {
			return fmt.Errorf("no *.fy files under %s", filePath)
		}
	}

	results := make([]*driver.ParseResult, 0, len(files))
	for _, file := range files {
		result, parseErr := driver.Parse(file, maxDiagnostics)
		if parseErr != nil {
			return fmt.Errorf("parsing failed: %w", parseErr)
		}
		if result.Bag.Len() > 0 {
			if printErr := printDiagnostics(cmd, result.Bag, result.FileSet); printErr != nil {
				return printErr
			}
		}
		results = append(results, result)
	}

	switch format {
	case "pretty":
		for idx, r := range results {
			if !quiet && len(results) > 1 {
				fmt.Fprintf(os.Stdout, "== %s ==\n", r.File.Path)
			}
			if r.AST != nil {
				if dumpErr := diagfmt.FormatASTPretty(os.Stdout, r.AST, r.FileSet); dumpErr != nil {
					return dumpErr
				}
			}
			if !quiet && idx < len(results)-1 {
				fmt.Fprintln(os.Stdout)
			}
		}
	case "json":
		if len(results) == 1 {
			return diagfmt.FormatASTJSON(os.Stdout, results[0].AST)
		}
		output := make(map[string]*diagfmt.ASTNodeOutput, len(results))
		for _, r := range results {
			if r.AST == nil {
				output[r.File.Path] = nil
				continue
			}
			node, buildErr := diagfmt.BuildASTJSON(r.AST)
			if buildErr != nil {
				return buildErr
			}
			// Ensure distinct pointer per iteration
			nodeCopy := node
			output[r.File.Path] = &nodeCopy
		}
		encoder := json.NewEncoder(os.Stdout)
		encoder.SetIndent("", "  ")
		return encoder.Encode(output)
	default:
		return fmt.Errorf("unknown format: %s", format)
	}
	return nil
}
