// Package reader parses xlsx and legacy xls workbooks into tables.
package reader

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	log "github.com/sirupsen/logrus"
	"github.com/ukaji3/tabxl-go/pkg/tabxl/errs"
	"github.com/ukaji3/tabxl-go/pkg/tabxl/models"
	"github.com/xuri/excelize/v2"
)

var (
	// zipMagic starts every OOXML (xlsx) container.
	zipMagic = []byte("PK\x03\x04")
	// cfbMagic starts every OLE compound file (legacy xls, encrypted xlsx).
	cfbMagic = []byte{0xD0, 0xCF, 0x11, 0xE0, 0xA1, 0xB1, 0x1A, 0xE1}
)

// ReadFile reads the workbook at path. The table set is named after the file.
func ReadFile(path string, opts Options) (*models.TableSet, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", errs.ErrNotFound, path)
	}
	if err != nil {
		return nil, err
	}
	return read(filepath.Base(path), data, opts)
}

// Read parses an in-memory workbook, one table per sheet in workbook order.
func Read(data []byte, opts Options) (*models.TableSet, error) {
	return read("", data, opts)
}

func read(name string, data []byte, opts Options) (*models.TableSet, error) {
	var (
		grids []grid
		err   error
	)
	switch {
	case bytes.HasPrefix(data, zipMagic):
		grids, err = readOOXML(data, opts.ShouldInferColumnTypes())
	case bytes.HasPrefix(data, cfbMagic):
		grids, err = readCompound(data)
	default:
		err = errors.New("neither an xlsx nor an xls container")
	}
	if err != nil {
		return nil, &errs.FileFormatError{Name: name, Err: err}
	}

	set := models.NewTableSet(name)
	for _, g := range grids {
		set.Add(buildTable(g, opts))
	}
	log.Debugf("read %d sheets from %q", len(set.Tables), name)
	return set, nil
}

// readOOXML reads raw cell values when types are inferred and displayed text
// otherwise.
func readOOXML(data []byte, raw bool) ([]grid, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	defer f.Close()

	grids, err := extractGrids(f, raw)
	if err != nil {
		return nil, err
	}
	if len(grids) == 0 {
		return nil, errors.New("workbook has no worksheets")
	}
	return grids, nil
}
