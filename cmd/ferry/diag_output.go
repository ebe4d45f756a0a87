package main

import (
	"os"

	"github.com/spf13/cobra"

	"ferry/internal/diag"
	"ferry/internal/diagfmt"
	"ferry/internal/source"
)

// printDiagnostics renders the run's diagnostics to stderr, honoring the
// persistent --color flag.
func printDiagnostics(cmd *cobra.Command, bag *diag.Bag, fs *source.FileSet) error {
	if bag == nil || bag.Len() == 0 {
		return nil
	}
	colorFlag, err := cmd.Root().PersistentFlags().GetString("color")
	if err != nil {
		return err
	}
	useColor := colorFlag == "on" || (colorFlag == "auto" && isTerminal(os.Stderr))
	opts := diagfmt.PrettyOpts{
		Color:     useColor,
		Context:   2,
		ShowNotes: true,
	}
	diagfmt.Pretty(os.Stderr, bag, fs, opts)
	return nil
}
