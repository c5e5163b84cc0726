// Package cmd wires the core schema-model and migration-planner
// subsystem (the ir/diff/plan/refine/importer/catalog packages) into the
// `exo schema` command surface, grounded on the teacher's cmd/root.go:
// a package-level RootCmd, a PersistentPreRun that installs the process
// logger, and subcommands registered from init().
package cmd

import (
	"fmt"
	"log/slog"
	"os"
	"runtime"

	"github.com/exograph/exoschema/cmd/schema"
	"github.com/exograph/exoschema/internal/version"
	"github.com/exograph/exoschema/internal/xlog"
	"github.com/spf13/cobra"
)

var debug bool

var RootCmd = &cobra.Command{
	Use:   "exo",
	Short: "Schema model and migration planner",
	Long: fmt.Sprintf(`exo plans and applies PostgreSQL schema migrations from a declarative data model.

Version: %s %s/%s

Commands:
  schema create    Render DDL to bootstrap an empty database
  schema migrate   Diff the live database against the model and apply
  schema verify    Diff the live database against the model and report drift
  schema import    Generate model source from an existing database

Use "exo schema [command] --help" for more information about a command.`,
		version.Version(), runtime.GOOS, runtime.GOARCH),
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		setupLogger()
	},
}

func init() {
	RootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "Enable debug logging")
	RootCmd.AddCommand(schema.Cmd)
	RootCmd.AddCommand(versionCmd)
}

func setupLogger() {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})
	xlog.SetGlobal(slog.New(handler), debug)
}

// Execute runs RootCmd, translating a returned error into exit code 1
// unless the error already carries a more specific code (spec.md §6).
func Execute() {
	if err := RootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(schema.ExitCodeFor(err))
	}
}
