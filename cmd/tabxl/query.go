package main

import (
	"database/sql"
	"fmt"

	_ "github.com/ncruces/go-sqlite3/driver"
	_ "github.com/ncruces/go-sqlite3/embed"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/ukaji3/tabxl-go/pkg/tabxl"
	"github.com/ukaji3/tabxl-go/pkg/tabxl/adapters/sqltable"
)

func newQueryCmd() *cobra.Command {
	var sheet string
	cmd := &cobra.Command{
		Use:   "query [database] [sql] [output.xlsx]",
		Short: "Write the result of a SQLite query to a workbook",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runQuery(cmd, args[0], args[1], args[2], sheet)
		},
	}
	cmd.Flags().StringVar(&sheet, "sheet", "Query", "Sheet name")
	return cmd
}

func runQuery(cmd *cobra.Command, dbPath, query, outputPath, sheet string) error {
	// Reject a bad output name before touching the database
	f, err := tabxl.New(outputPath)
	if err != nil {
		return err
	}

	db, err := sql.Open("sqlite3", "file:"+dbPath+"?mode=ro")
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	table, err := sqltable.Query(cmd.Context(), db, sheet, query)
	if err != nil {
		return err
	}
	if err := f.SetSource(table); err != nil {
		return err
	}
	saved, err := f.Save()
	if err != nil {
		return err
	}
	log.Infof("wrote %d rows to %s", len(table.Rows), saved)
	return nil
}
