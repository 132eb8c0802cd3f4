// Command tclint is the CLI entry point for the tclint driver façade: it
// reads one or more Tcl/SDC/XDC/UPF files, runs the requested subcommand
// (lint, format, symbols), and reports results with a process exit code a
// CI pipeline can gate on.
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/tclint-dev/tclint"
	"github.com/tclint-dev/tclint/config"
	"github.com/tclint-dev/tclint/internal/plugin"
	"github.com/tclint-dev/tclint/internal/registry"
)

// configError marks a failure to load configuration or plugin specs, as
// distinct from violations found during a successful lint/format run - the
// two map to different process exit codes (spec §6).
type configError struct{ err error }

func (e *configError) Error() string { return e.err.Error() }
func (e *configError) Unwrap() error { return e.err }

const (
	exitOK          = 0
	exitViolations  = 1
	exitConfigError = 2
)

func main() {
	os.Exit(run())
}

func run() int {
	var pluginPaths []string
	var quiet bool

	rootCmd := &cobra.Command{
		Use:           "tclint",
		Short:         "Static analysis and formatting for Tcl, SDC, XDC, and UPF sources",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().StringSliceVar(&pluginPaths, "plugin", nil, "path to a JSON command-spec file to register")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "suppress warning-level output")

	lintCmd := &cobra.Command{
		Use:   "lint <file>...",
		Short: "Report rule violations for one or more files",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLint(args, pluginPaths, quiet)
		},
	}

	var write bool
	formatCmd := &cobra.Command{
		Use:   "format <file>...",
		Short: "Reformat one or more files to the configured style",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runFormat(args, pluginPaths, write)
		},
	}
	formatCmd.Flags().BoolVarP(&write, "write", "w", false, "write the formatted result back to each file instead of printing it")

	symbolsCmd := &cobra.Command{
		Use:   "symbols <file>",
		Short: "List top-level proc/namespace/variable declarations",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSymbols(args[0])
		},
	}

	rootCmd.AddCommand(lintCmd, formatCmd, symbolsCmd)

	exitCode := exitOK
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "tclint: %v\n", err)
		var cfgErr *configError
		if errors.As(err, &cfgErr) {
			exitCode = exitConfigError
		} else {
			exitCode = exitViolations
		}
	}
	return exitCode
}

func runLint(paths []string, pluginPaths []string, quiet bool) error {
	specs, err := loadPluginSpecs(pluginPaths)
	if err != nil {
		return &configError{err: err}
	}
	cfg := config.Default()

	foundIssues := false
	for _, path := range paths {
		src, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("reading %s: %w", path, err)
		}
		violations, err := tclint.Lint(src, tclint.Options{Config: cfg, Path: path, PluginSpecs: specs})
		if err != nil {
			return fmt.Errorf("linting %s: %w", path, err)
		}
		for _, v := range violations {
			if quiet && v.Severity == "warning" {
				continue
			}
			fmt.Printf("%s:%d:%d: %s: %s [%s]\n", path, v.Span.Start.Line, v.Span.Start.Col, v.Severity, v.Message, v.RuleID)
			foundIssues = true
		}
	}
	if foundIssues {
		return fmt.Errorf("violations found")
	}
	return nil
}

func runFormat(paths []string, pluginPaths []string, write bool) error {
	specs, err := loadPluginSpecs(pluginPaths)
	if err != nil {
		return &configError{err: err}
	}
	cfg := config.Default()

	for _, path := range paths {
		src, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("reading %s: %w", path, err)
		}
		out, _, err := tclint.Format(src, tclint.Options{Config: cfg, Path: path, PluginSpecs: specs})
		if err != nil {
			return fmt.Errorf("formatting %s: %w", path, err)
		}
		if write {
			if err := os.WriteFile(path, out, 0o644); err != nil {
				return fmt.Errorf("writing %s: %w", path, err)
			}
			continue
		}
		fmt.Print(string(out))
	}
	return nil
}

func runSymbols(path string) error {
	src, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}
	symbols, err := tclint.Symbols(src)
	if err != nil {
		return fmt.Errorf("inspecting %s: %w", path, err)
	}
	for _, s := range symbols {
		fmt.Printf("%s:%d: %s %s\n", path, s.Span.Span().Start.Line, s.Kind, s.Name)
	}
	return nil
}

func loadPluginSpecs(paths []string) ([]*registry.CommandSpec, error) {
	var all []*registry.CommandSpec
	for _, p := range paths {
		data, err := os.ReadFile(p)
		if err != nil {
			return nil, fmt.Errorf("reading plugin %s: %w", p, err)
		}
		specs, err := plugin.Load(data)
		if err != nil {
			return nil, fmt.Errorf("loading plugin %s: %w", p, err)
		}
		all = append(all, specs...)
	}
	return all, nil
}
