package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/tliron/commonlog"

	"github.com/dhamidi/sol/sol/codebase"
)

func newCheckCmd() *cobra.Command {
	var watch bool
	var verbose bool

	cmd := &cobra.Command{
		Use:   "check [path...]",
		Short: "Check Sol source files and report diagnostics",
		Long: `Check scans files or directory trees of .sol files and prints a
report for every diagnostic found. The exit status is 1 when any
diagnostics are reported.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if verbose {
				commonlog.Configure(1, nil)
			}
			paths := args
			if len(paths) == 0 {
				paths = []string{"."}
			}

			if watch {
				if len(paths) != 1 {
					return fmt.Errorf("--watch takes exactly one directory")
				}
				info, err := os.Stat(paths[0])
				if err != nil {
					return fmt.Errorf("checking %s: %w", paths[0], err)
				}
				if !info.IsDir() {
					return fmt.Errorf("--watch requires a directory, got %s", paths[0])
				}
				w := codebase.NewFileWatcher(codebase.New(paths[0]))
				w.OnChange(func(f *codebase.FileInfo) {
					if len(f.Diagnostics) == 0 {
						fmt.Printf("%s: ok\n", f.Path)
						return
					}
					printDiagnostics(f)
				})
				w.Start()
				select {}
			}

			problems := 0
			for _, path := range paths {
				info, err := os.Stat(path)
				if err != nil {
					return fmt.Errorf("checking %s: %w", path, err)
				}
				var cb *codebase.Codebase
				if info.IsDir() {
					cb = codebase.New(path)
					if err := cb.ScanAll(); err != nil {
						return fmt.Errorf("scanning %s: %w", path, err)
					}
				} else {
					cb = codebase.New(filepath.Dir(path))
					if err := cb.ScanFile(path); err != nil {
						return fmt.Errorf("checking %s: %w", path, err)
					}
				}
				for _, f := range cb.Files() {
					printDiagnostics(f)
				}
				problems += cb.DiagnosticCount()
			}
			if problems > 0 {
				fmt.Printf("found %d problems\n", problems)
				os.Exit(1)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&watch, "watch", false, "keep running and re-check files as they change")
	cmd.Flags().BoolVar(&verbose, "verbose", false, "enable info logging")

	return cmd
}

func printDiagnostics(f *codebase.FileInfo) {
	for _, d := range f.Diagnostics {
		fmt.Print(d.Report())
		fmt.Println()
	}
}
