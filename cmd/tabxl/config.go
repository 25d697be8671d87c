package main

import (
	"fmt"
	"os"

	"github.com/ukaji3/tabxl-go/pkg/tabxl/formula"
	"github.com/ukaji3/tabxl-go/pkg/tabxl/models"
	"gopkg.in/yaml.v3"
)

// SheetConfig describes how a CSV file becomes a sheet.
//
//	sheet: Orders
//	columns:
//	  - name: Quantity
//	    kind: number
//	  - name: Total
//	    kind: number
//	    formula: "=B{row}*C{row}"
type SheetConfig struct {
	Sheet   string         `yaml:"sheet"`
	Columns []ColumnConfig `yaml:"columns"`
}

// ColumnConfig types a CSV column or, when absent from the CSV header, appends a
// computed column. Formula is a template where {row} is the worksheet row number.
type ColumnConfig struct {
	Name    string      `yaml:"name"`
	Kind    models.Kind `yaml:"kind"`
	Formula string      `yaml:"formula"`
}

func loadConfig(path string) (*SheetConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var cfg SheetConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	for i, c := range cfg.Columns {
		if c.Name == "" {
			return nil, fmt.Errorf("invalid config %s: column %d has no name", path, i+1)
		}
	}
	return &cfg, nil
}

func (c *SheetConfig) column(name string) (ColumnConfig, bool) {
	for _, col := range c.Columns {
		if col.Name == name {
			return col, true
		}
	}
	return ColumnConfig{}, false
}

// bindings returns the formula bindings of the configured columns, nil if none.
func (c *SheetConfig) bindings() *formula.Bindings {
	b := formula.NewBindings()
	for _, col := range c.Columns {
		if col.Formula != "" {
			b.Column(col.Name, formula.Template(col.Formula))
		}
	}
	if b.Empty() {
		return nil
	}
	return b
}
