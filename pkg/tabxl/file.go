package tabxl

import (
	"errors"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
	"github.com/ukaji3/tabxl-go/pkg/tabxl/formula"
	"github.com/ukaji3/tabxl-go/pkg/tabxl/models"
	"github.com/ukaji3/tabxl-go/pkg/tabxl/reader"
	"github.com/ukaji3/tabxl-go/pkg/tabxl/source"
	"github.com/ukaji3/tabxl-go/pkg/tabxl/writer"
)

// ValidExtensions lists the accepted file extensions. Matching ignores case.
var ValidExtensions = []string{".xls", ".xlsx"}

// File is a spreadsheet file on disk, optionally bound to a data source to save.
type File struct {
	name     string
	source   *source.DataSource
	formulas map[string]*formula.Bindings
}

// New returns a File for name. The file itself is not touched.
func New(name string) (*File, error) {
	if err := validateName(name); err != nil {
		return nil, err
	}
	return &File{name: name}, nil
}

// Create returns a File bound to src. A blank name becomes a unique .xlsx file
// in the temporary directory.
func Create(src any, name string) (*File, error) {
	ds, err := source.New(src)
	if err != nil {
		return nil, err
	}
	return create(ds, name)
}

// CreateRecords is Create for a typed record slice.
func CreateRecords[T any](items []T, name string) (*File, error) {
	seq, err := source.FromSlice(items)
	if err != nil {
		return nil, err
	}
	ds, err := source.Wrap(seq)
	if err != nil {
		return nil, err
	}
	return create(ds, name)
}

func create(ds *source.DataSource, name string) (*File, error) {
	if strings.TrimSpace(name) == "" {
		name = tempName()
	}
	f, err := New(name)
	if err != nil {
		return nil, err
	}
	f.source = ds
	return f, nil
}

func tempName() string {
	return filepath.Join(os.TempDir(), uuid.NewString()+".xlsx")
}

// FileName returns the file name.
func (f *File) FileName() string {
	return f.name
}

// Extension returns the lower-case extension, including the dot.
func (f *File) Extension() string {
	return strings.ToLower(filepath.Ext(f.name))
}

// SetSource binds the data to save.
func (f *File) SetSource(src any) error {
	ds, err := source.New(src)
	if err != nil {
		return err
	}
	f.source = ds
	return nil
}

// Bind attaches formula bindings to the named sheet. Duplicate table names are
// bound by their written name, such as "Data (2)". A nil b removes them.
func (f *File) Bind(sheet string, b *formula.Bindings) *File {
	if b == nil {
		delete(f.formulas, sheet)
		return f
	}
	if f.formulas == nil {
		f.formulas = make(map[string]*formula.Bindings)
	}
	f.formulas[sheet] = b
	return f
}

// Save writes the data source to FileName.
func (f *File) Save() (string, error) {
	return f.SaveAs(f.name)
}

// SaveAs writes the data source to name and returns it. The name and data source
// are validated before anything is written.
func (f *File) SaveAs(name string) (string, error) {
	if err := validateName(name); err != nil {
		return "", err
	}
	if f.source == nil {
		return "", ErrDataSourceNotSet
	}

	data, err := encode(f.source, writer.Options{Formulas: f.formulas})
	if err != nil {
		return "", NewError("save", name, err)
	}
	if err := os.WriteFile(name, data, 0o644); err != nil {
		return "", NewError("save", name, err)
	}
	log.Debugf("saved %q (%d bytes)", name, len(data))
	return name, nil
}

// ToTableSet reads every sheet of the file. A nil opts uses reader.DefaultOptions.
func (f *File) ToTableSet(opts *reader.Options) (*models.TableSet, error) {
	set, err := reader.ReadFile(f.name, readOptions(opts))
	if err != nil {
		return nil, err
	}
	log.Debugf("loaded %q: %d tables", f.name, len(set.Tables))
	return set, nil
}

// ToTable reads the first sheet of the file.
func (f *File) ToTable(opts *reader.Options) (*models.Table, error) {
	set, err := f.ToTableSet(opts)
	if err != nil {
		return nil, err
	}
	if len(set.Tables) == 0 {
		return nil, NewError("load", f.name, errors.New("workbook has no sheets"))
	}
	return set.Tables[0], nil
}

func validateName(name string) error {
	if strings.TrimSpace(name) == "" {
		return ErrFileNameEmpty
	}
	ext := filepath.Ext(name)
	if !slices.ContainsFunc(ValidExtensions, func(v string) bool { return strings.EqualFold(v, ext) }) {
		return &ExtensionError{Extension: ext}
	}
	return nil
}
