package main

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/ukaji3/tabxl-go/pkg/tabxl"
	"github.com/ukaji3/tabxl-go/pkg/tabxl/models"
)

var dateLayouts = []string{time.RFC3339Nano, "2006-01-02 15:04:05", "2006-01-02"}

type convertOptions struct {
	configPath string
	encoding   string
	delimiter  string
}

func newConvertCmd() *cobra.Command {
	var opts convertOptions
	cmd := &cobra.Command{
		Use:   "convert [input.csv] [output.xlsx]",
		Short: "Convert a CSV file to a workbook",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConvert(args[0], args[1], opts)
		},
	}

	cmd.Flags().StringVar(&opts.configPath, "config", "", "YAML sheet config (column kinds and formulas)")
	cmd.Flags().StringVar(&opts.encoding, "encoding", "utf-8", "Input code page, e.g. windows-1252, iso-8859-1, cp437")
	cmd.Flags().StringVar(&opts.delimiter, "delimiter", ",", `Field delimiter; "tab" or "\t" for tabs`)
	return cmd
}

func runConvert(inputPath, outputPath string, opts convertOptions) error {
	f, err := tabxl.New(outputPath)
	if err != nil {
		return err
	}
	comma, err := parseDelimiter(opts.delimiter)
	if err != nil {
		return err
	}
	cfg := &SheetConfig{}
	if opts.configPath != "" {
		if cfg, err = loadConfig(opts.configPath); err != nil {
			return err
		}
	}

	in, err := os.Open(inputPath)
	if err != nil {
		return err
	}
	defer in.Close()
	r, err := decoder(opts.encoding, in)
	if err != nil {
		return err
	}

	name := cfg.Sheet
	if name == "" {
		name = strings.TrimSuffix(filepath.Base(inputPath), filepath.Ext(inputPath))
	}
	table, err := readCSV(r, comma, name, cfg)
	if err != nil {
		return fmt.Errorf("%s: %w", inputPath, err)
	}

	if err := f.SetSource(table); err != nil {
		return err
	}
	f.Bind(table.Name, cfg.bindings())
	saved, err := f.Save()
	if err != nil {
		return err
	}
	log.Infof("wrote %d rows to %s", len(table.Rows), saved)
	return nil
}

func parseDelimiter(s string) (rune, error) {
	switch s {
	case "tab", `\t`:
		return '\t', nil
	}
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError || size != len(s) {
		return 0, fmt.Errorf("delimiter must be a single character, got %q", s)
	}
	return r, nil
}

// readCSV builds a table from CSV text whose first record is the header.
// Configured kinds are applied; unconfigured columns are numbers when every
// non-empty value is a decimal number and text otherwise.
func readCSV(r io.Reader, comma rune, name string, cfg *SheetConfig) (*models.Table, error) {
	cr := csv.NewReader(r)
	cr.Comma = comma
	cr.FieldsPerRecord = -1
	records, err := cr.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, errors.New("no header row")
	}

	header := records[0]
	header[0] = strings.TrimPrefix(header[0], "\ufeff")
	body := records[1:]

	table := models.NewTable(name)
	for i, h := range header {
		kind := models.KindUnknown
		if col, ok := cfg.column(h); ok {
			kind = col.Kind
		}
		if kind == models.KindUnknown {
			kind = inferKind(body, i)
		}
		table.AddColumn(h, kind)
	}
	for _, col := range cfg.Columns {
		if _, ok := table.ColumnIndex(col.Name); !ok {
			table.AddColumn(col.Name, col.Kind)
		}
	}

	for n, record := range body {
		if len(record) > len(header) {
			return nil, fmt.Errorf("record %d has %d fields but the header has %d", n+2, len(record), len(header))
		}
		values := make([]any, len(record))
		for i, s := range record {
			values[i] = parseField(s, table.Columns[i].Kind)
		}
		if err := table.AddRow(values...); err != nil {
			return nil, fmt.Errorf("record %d: %w", n+2, err)
		}
	}
	return table, nil
}

func inferKind(records [][]string, col int) models.Kind {
	filled := false
	for _, record := range records {
		if col >= len(record) || record[col] == "" {
			continue
		}
		if _, err := decimal.NewFromString(strings.TrimSpace(record[col])); err != nil {
			return models.KindText
		}
		filled = true
	}
	if filled {
		return models.KindNumber
	}
	return models.KindText
}

// parseField converts CSV text for a column of the given kind. Text that does not
// parse is kept as a string and written as text.
func parseField(s string, kind models.Kind) any {
	if s == "" {
		return nil
	}
	switch kind {
	case models.KindNumber:
		if d, err := decimal.NewFromString(strings.TrimSpace(s)); err == nil {
			return d
		}
	case models.KindDate:
		for _, layout := range dateLayouts {
			if t, err := time.Parse(layout, strings.TrimSpace(s)); err == nil {
				return t
			}
		}
	}
	return s
}
