package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/JonMunkholm/reportmap/internal/core"
	"github.com/JonMunkholm/reportmap/internal/loader"
	"github.com/JonMunkholm/reportmap/internal/logging"
)

// Output formats of the analyze command.
const (
	formatMarkdown = "markdown"
	formatJSON     = "json"
	formatYAML     = "yaml"
)

func newAnalyzeCmd(a *app) *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "analyze <file>...",
		Short: "Print the structural report of local files",
		Long: `Analyze loads each file the same way the upload page does and prints one
report per file. Files that fail are reported on stderr; the remaining files
are still analyzed and the command exits non-zero at the end.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			format = strings.ToLower(strings.TrimSpace(format))
			switch format {
			case formatMarkdown, formatJSON, formatYAML:
			default:
				return fmt.Errorf("unsupported --format: %s (use markdown|json|yaml)", format)
			}

			// Logs go to stderr so stdout carries only reports.
			logger, closer, err := logging.SetupWithConsole(a.cfg.Logging, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer closer.Close()

			service := core.NewService(logger, core.OptionsFromConfig(a.cfg))

			results := make([]core.FileResult, len(args))
			var files []loader.File
			var slots []int
			for i, path := range args {
				results[i].FileName = path
				f, err := os.Open(path)
				if err != nil {
					results[i].Err = err
					continue
				}
				defer f.Close()
				files = append(files, f)
				slots = append(slots, i)
			}

			if len(files) > 0 {
				batch, err := service.AnalyzeBatch(cmd.Context(), files)
				if err != nil {
					return err
				}
				for j, res := range batch {
					results[slots[j]] = res
				}
			}

			reports := make([]*core.FileReport, 0, len(results))
			failed := 0
			for _, res := range results {
				if res.Err != nil {
					failed++
					fmt.Fprintf(cmd.ErrOrStderr(), "✗ %s: %v\n", res.FileName, res.Err)
					continue
				}
				reports = append(reports, res.Report)
			}

			if err := writeReports(cmd.OutOrStdout(), format, reports); err != nil {
				return err
			}

			if failed > 0 {
				return fmt.Errorf("%d of %d files failed", failed, len(results))
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", formatMarkdown, "output format: markdown|json|yaml")
	return cmd
}

// writeReports prints reports in the chosen format. JSON is a single array;
// YAML is one document per report.
func writeReports(w io.Writer, format string, reports []*core.FileReport) error {
	switch format {
	case formatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(reports)
	case formatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		for _, r := range reports {
			if err := enc.Encode(r); err != nil {
				return err
			}
		}
		return enc.Close()
	default:
		for i, r := range reports {
			if i > 0 {
				fmt.Fprintln(w)
			}
			if _, err := io.WriteString(w, r.Markdown()); err != nil {
				return err
			}
		}
		return nil
	}
}
