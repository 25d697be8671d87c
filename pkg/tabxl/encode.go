// Package tabxl converts tables, table sets and record sequences into xlsx
// workbooks and reads workbooks back into tables.
package tabxl

import (
	"github.com/ukaji3/tabxl-go/pkg/tabxl/models"
	"github.com/ukaji3/tabxl-go/pkg/tabxl/reader"
	"github.com/ukaji3/tabxl-go/pkg/tabxl/source"
	"github.com/ukaji3/tabxl-go/pkg/tabxl/writer"
)

// Encode serializes src into xlsx bytes. src is anything source.New accepts.
func Encode(src any, opts writer.Options) ([]byte, error) {
	ds, err := source.New(src)
	if err != nil {
		return nil, err
	}
	return encode(ds, opts)
}

func encode(ds *source.DataSource, opts writer.Options) ([]byte, error) {
	wb, err := writer.FromSource(ds, opts)
	if err != nil {
		return nil, err
	}
	return writer.Write(wb)
}

// Decode parses xlsx or xls bytes. A nil opts uses reader.DefaultOptions.
func Decode(data []byte, opts *reader.Options) (*models.TableSet, error) {
	return reader.Read(data, readOptions(opts))
}

func readOptions(opts *reader.Options) reader.Options {
	if opts == nil {
		return reader.DefaultOptions()
	}
	return *opts
}
