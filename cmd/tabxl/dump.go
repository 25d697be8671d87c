package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/ukaji3/tabxl-go/pkg/tabxl"
	"github.com/ukaji3/tabxl-go/pkg/tabxl/models"
	"github.com/ukaji3/tabxl-go/pkg/tabxl/output"
	"github.com/ukaji3/tabxl-go/pkg/tabxl/reader"
)

type dumpOptions struct {
	outputPath string
	tablesDir  string
	pretty     bool
	noHeader   bool
	raw        bool
	records    bool
}

func newDumpCmd() *cobra.Command {
	var opts dumpOptions
	cmd := &cobra.Command{
		Use:   "dump [input.xlsx]",
		Short: "Print the sheets of a workbook as JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDump(cmd, args[0], opts)
		},
	}

	cmd.Flags().StringVarP(&opts.outputPath, "output", "o", "", "Output file path (default: stdout)")
	cmd.Flags().StringVar(&opts.tablesDir, "tables-dir", "", "Directory for per-sheet output files")
	cmd.Flags().BoolVar(&opts.pretty, "pretty", false, "Pretty-print JSON output")
	cmd.Flags().BoolVar(&opts.noHeader, "no-header", false, "Treat the first row as data")
	cmd.Flags().BoolVar(&opts.raw, "raw", false, "Read every value as text")
	cmd.Flags().BoolVar(&opts.records, "records", false, "Print the first sheet as an array of objects")
	return cmd
}

func runDump(cmd *cobra.Command, inputPath string, opts dumpOptions) error {
	f, err := tabxl.New(inputPath)
	if err != nil {
		return err
	}

	set, err := f.ToTableSet(&reader.Options{
		UseHeaderRow:     reader.Bool(!opts.noHeader),
		InferColumnTypes: reader.Bool(!opts.raw),
	})
	if err != nil {
		return fmt.Errorf("read failed: %w", err)
	}

	var jsonData []byte
	if opts.records {
		jsonData, err = output.RecordsToJSON(set.Tables[0], opts.pretty)
	} else {
		jsonData, err = output.ToJSON(set, opts.pretty)
	}
	if err != nil {
		return fmt.Errorf("serialization failed: %w", err)
	}

	if opts.outputPath != "" {
		if err := os.WriteFile(opts.outputPath, jsonData, 0644); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
	} else if opts.tablesDir == "" {
		fmt.Fprintln(cmd.OutOrStdout(), string(jsonData))
	}

	if opts.tablesDir != "" {
		if err := writeTableFiles(set, opts.tablesDir, opts.pretty); err != nil {
			return fmt.Errorf("failed to write sheet files: %w", err)
		}
	}
	return nil
}

func writeTableFiles(set *models.TableSet, dir string, pretty bool) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	for _, table := range set.Tables {
		jsonData, err := output.TableToJSON(table, pretty)
		if err != nil {
			return err
		}

		filename := filepath.Join(dir, table.Name+".json")
		if err := os.WriteFile(filename, jsonData, 0644); err != nil {
			return err
		}
	}
	return nil
}
