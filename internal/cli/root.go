// Package cli wires the reportmap commands: the web server and a local
// analyze command that prints reports for files on disk.
package cli

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/JonMunkholm/reportmap/internal/config"
)

// app carries the state shared by all subcommands.
type app struct {
	cfgFile string
	envFile string
	cfg     *config.Config
}

// Execute is the entry point called by main.main().
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "✗ Error:", err)
		os.Exit(1)
	}
}

// NewRootCmd builds the command tree. Each call returns independent commands
// and flags.
func NewRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:   "reportmap",
		Short: "Map the structure of bank report exports",
		Long: `reportmap loads bank report exports (CSV, TXT, XLSX, XLS) and describes
their structure: columns, inferred types, distinct and null counts, example
values and the first rows.`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: a.loadConfig,
	}

	root.PersistentFlags().StringVar(&a.cfgFile, "config", "", "YAML config file (default: environment only)")
	root.PersistentFlags().StringVar(&a.envFile, "env-file", ".env", "dotenv file loaded before the environment is read")

	root.AddCommand(newServeCmd(a), newAnalyzeCmd(a))
	return root
}

// loadConfig applies the dotenv file, then reads and validates configuration.
// A missing dotenv file is not an error.
func (a *app) loadConfig(cmd *cobra.Command, _ []string) error {
	if a.envFile != "" {
		if err := godotenv.Overload(a.envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("load %s: %w", a.envFile, err)
		}
	}

	cfg, err := config.Load(a.cfgFile)
	if err != nil {
		return err
	}
	a.cfg = cfg
	return nil
}
