package tabxl

import (
	"database/sql"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
	"github.com/ukaji3/tabxl-go/pkg/tabxl/formula"
	"github.com/ukaji3/tabxl-go/pkg/tabxl/models"
	"github.com/ukaji3/tabxl-go/pkg/tabxl/reader"
	"github.com/ukaji3/tabxl-go/pkg/tabxl/source"
	"github.com/ukaji3/tabxl-go/pkg/tabxl/writer"
	"github.com/xuri/excelize/v2"
)

type person struct {
	Name   string
	Age    int
	Double int
}

func people() []person {
	return []person{{Name: "Alice", Age: 15}, {Name: "Bob", Age: 60}}
}

func peopleTable() *models.Table {
	table := models.NewTable("People").
		AddColumn("Name", models.KindText).
		AddColumn("Age", models.KindNumber)
	_ = table.AddRow("Alice", 15)
	_ = table.AddRow("Bob", 60)
	return table
}

type FileSuite struct {
	suite.Suite
	dir string
}

func TestFileSuite(t *testing.T) {
	suite.Run(t, new(FileSuite))
}

func (s *FileSuite) SetupTest() {
	s.dir = s.T().TempDir()
}

func (s *FileSuite) path(name string) string {
	return filepath.Join(s.dir, name)
}

func (s *FileSuite) TestNew_Extensions() {
	tests := []struct {
		name    string
		wantErr error
	}{
		{"book.xlsx", nil},
		{"book.xls", nil},
		{"BOOK.XLSX", nil},
		{"dir/book.Xls", nil},
		{"book.txt", ErrInvalidExtension},
		{"book", ErrInvalidExtension},
		{"book.xlsx.bak", ErrInvalidExtension},
		{"", ErrFileNameEmpty},
		{"   ", ErrFileNameEmpty},
	}

	for _, tt := range tests {
		f, err := New(tt.name)
		if tt.wantErr == nil {
			s.NoError(err, tt.name)
			s.Equal(tt.name, f.FileName())
			continue
		}
		s.ErrorIs(err, tt.wantErr, tt.name)
		s.Nil(f, tt.name)
	}
}

func (s *FileSuite) TestExtensionError_Message() {
	_, err := New("report.txt")
	var extErr *ExtensionError
	s.Require().True(errors.As(err, &extErr))
	s.Equal(".txt", extErr.Extension)
	s.Equal("File extension .txt is not recognized as valid.", err.Error())
}

func (s *FileSuite) TestExtension_LowerCase() {
	f, err := New("Book.XLSX")
	s.Require().NoError(err)
	s.Equal(".xlsx", f.Extension())
}

func (s *FileSuite) TestSave_WithoutSource() {
	name := s.path("empty.xlsx")
	f, err := New(name)
	s.Require().NoError(err)

	_, err = f.Save()
	s.ErrorIs(err, ErrDataSourceNotSet)
	s.Equal("Data source is not set.", err.Error())
	s.NoFileExists(name)
}

func (s *FileSuite) TestSaveAs_InvalidExtensionWritesNothing() {
	f, err := Create(peopleTable(), s.path("people.xlsx"))
	s.Require().NoError(err)

	target := s.path("people.txt")
	_, err = f.SaveAs(target)
	s.ErrorIs(err, ErrInvalidExtension)
	s.NoFileExists(target)
	s.NoFileExists(f.FileName())
}

func (s *FileSuite) TestSaveAs_BlankName() {
	f, err := Create(peopleTable(), s.path("people.xlsx"))
	s.Require().NoError(err)

	_, err = f.SaveAs(" ")
	s.ErrorIs(err, ErrFileNameEmpty)
	s.Equal("File name cannot be null or empty.", ErrFileNameEmpty.Error())
}

func (s *FileSuite) TestSaveAs_WritesGivenName() {
	f, err := Create(peopleTable(), s.path("people.xlsx"))
	s.Require().NoError(err)

	target := s.path("copy.xlsx")
	saved, err := f.SaveAs(target)
	s.Require().NoError(err)
	s.Equal(target, saved)
	s.FileExists(target)
	s.NoFileExists(f.FileName())
}

func (s *FileSuite) TestSaveAs_WriteFailure() {
	f, err := Create(peopleTable(), s.path("missing/people.xlsx"))
	s.Require().NoError(err)

	_, err = f.Save()
	var fileErr *Error
	s.Require().True(errors.As(err, &fileErr))
	s.Equal("save", fileErr.Op)
	s.ErrorIs(err, fs.ErrNotExist)
}

func (s *FileSuite) TestCreate_RejectsInvalidSources() {
	_, err := Create(nil, "")
	s.ErrorIs(err, ErrInvalidInput)

	_, err = Create((*models.Table)(nil), "")
	s.ErrorIs(err, ErrInvalidInput)

	_, err = CreateRecords[person](nil, "")
	s.ErrorIs(err, ErrInvalidInput)

	_, err = Create(42, "")
	s.ErrorIs(err, ErrUnsupportedSourceKind)
	s.Contains(err.Error(), "Data source must be a table, a table set, or a record sequence")
}

func (s *FileSuite) TestCreate_TempName() {
	f, err := Create(peopleTable(), "")
	s.Require().NoError(err)

	name := f.FileName()
	s.Equal(os.TempDir(), filepath.Dir(name))
	s.Equal(".xlsx", filepath.Ext(name))
	_, err = uuid.Parse(strings.TrimSuffix(filepath.Base(name), ".xlsx"))
	s.NoError(err)

	other, err := Create(peopleTable(), "")
	s.Require().NoError(err)
	s.NotEqual(name, other.FileName())
}

func (s *FileSuite) TestRoundTrip_Table() {
	f, err := Create(peopleTable(), s.path("people.xlsx"))
	s.Require().NoError(err)
	_, err = f.Save()
	s.Require().NoError(err)

	table, err := f.ToTable(nil)
	s.Require().NoError(err)
	s.Equal("People", table.Name)
	s.Equal([]models.Column{
		{Name: "Name", Kind: models.KindText},
		{Name: "Age", Kind: models.KindNumber},
	}, table.Columns)
	s.Equal([][]any{{"Alice", 15.0}, {"Bob", 60.0}}, table.Rows)
}

func (s *FileSuite) TestRoundTrip_TableSet() {
	orders := models.NewTable("Orders").AddColumn("Id", models.KindNumber)
	s.Require().NoError(orders.AddRow(7))

	f, err := Create(models.NewTableSet("Book", peopleTable(), orders), s.path("book.xls"))
	s.Require().NoError(err)
	_, err = f.Save()
	s.Require().NoError(err)

	set, err := f.ToTableSet(&reader.Options{InferColumnTypes: reader.Bool(false)})
	s.Require().NoError(err)
	s.Equal("book.xls", set.Name)
	s.Require().Len(set.Tables, 2)
	s.Equal([][]any{{"7"}}, set.Tables[1].Rows)
}

func (s *FileSuite) TestRoundTrip_Records() {
	f, err := CreateRecords(people(), s.path("records.xlsx"))
	s.Require().NoError(err)
	_, err = f.Save()
	s.Require().NoError(err)

	table, err := f.ToTable(nil)
	s.Require().NoError(err)
	s.Equal(source.DefaultSheetName, table.Name)
	s.Equal([][]any{{"Alice", 15.0, 0.0}, {"Bob", 60.0, 0.0}}, table.Rows)
}

type measurement struct {
	Code  string
	Ratio float64
	Count int64
	Note  sql.NullString
}

func (s *FileSuite) TestRoundTrip_RecordValues() {
	rows := []measurement{
		{"007", 1.0 / 3, 9007199254740991, sql.NullString{Valid: true}},
		{"1e3", 123456789.123456789, -42, sql.NullString{}},
		{" 5 ", 2.0 / 3, 0, sql.NullString{String: "42", Valid: true}},
	}
	f, err := CreateRecords(rows, s.path("values.xlsx"))
	s.Require().NoError(err)
	_, err = f.Save()
	s.Require().NoError(err)

	table, err := f.ToTable(nil)
	s.Require().NoError(err)
	s.Equal([]models.Column{
		{Name: "Code", Kind: models.KindText},
		{Name: "Ratio", Kind: models.KindNumber},
		{Name: "Count", Kind: models.KindNumber},
		{Name: "Note", Kind: models.KindText},
	}, table.Columns)
	s.Equal([][]any{
		{"007", 1.0 / 3, 9007199254740991.0, ""},
		{"1e3", 123456789.123456789, -42.0, nil},
		{" 5 ", 2.0 / 3, 0.0, "42"},
	}, table.Rows)
}

func (s *FileSuite) TestRoundTrip_EmptyRecords() {
	f, err := CreateRecords([]person{}, s.path("none.xlsx"))
	s.Require().NoError(err)
	_, err = f.Save()
	s.Require().NoError(err)

	table, err := f.ToTable(nil)
	s.Require().NoError(err)
	s.Len(table.Columns, 3)
	s.Empty(table.Rows)
}

func (s *FileSuite) TestBind_Formulas() {
	f, err := CreateRecords(people(), s.path("formulas.xlsx"))
	s.Require().NoError(err)
	f.Bind(source.DefaultSheetName, formula.NewBindings().Column("Double", formula.Template("B{row}*2")))
	_, err = f.Save()
	s.Require().NoError(err)

	xf, err := excelize.OpenFile(f.FileName())
	s.Require().NoError(err)
	defer xf.Close()
	for _, cell := range []string{"C2", "C3"} {
		text, err := xf.GetCellFormula(source.DefaultSheetName, cell)
		s.Require().NoError(err)
		s.Equal("B"+cell[1:]+"*2", text)
	}

	// unbinding restores the plain values
	f.Bind(source.DefaultSheetName, nil)
	_, err = f.Save()
	s.Require().NoError(err)
	table, err := f.ToTable(nil)
	s.Require().NoError(err)
	s.Equal(0.0, table.Rows[0][2])
}

func (s *FileSuite) TestToTable_NotFound() {
	f, err := New(s.path("missing.xlsx"))
	s.Require().NoError(err)

	_, err = f.ToTable(nil)
	s.ErrorIs(err, ErrNotFound)
}

func (s *FileSuite) TestEncode_TypedAndUntypedIdentical() {
	untyped, err := Encode(people(), writer.Options{})
	s.Require().NoError(err)

	seq, err := source.FromSlice(people())
	s.Require().NoError(err)
	typed, err := Encode(seq, writer.Options{})
	s.Require().NoError(err)

	s.Equal(untyped, typed)
}

func (s *FileSuite) TestEncode_Idempotent() {
	first, err := Encode(peopleTable(), writer.Options{})
	s.Require().NoError(err)
	second, err := Encode(peopleTable(), writer.Options{})
	s.Require().NoError(err)
	s.Equal(first, second)
}

func (s *FileSuite) TestDecode() {
	data, err := Encode(peopleTable(), writer.Options{})
	s.Require().NoError(err)

	set, err := Decode(data, nil)
	s.Require().NoError(err)
	s.Equal([][]any{{"Alice", 15.0}, {"Bob", 60.0}}, set.Tables[0].Rows)

	_, err = Decode([]byte("not a workbook"), nil)
	s.ErrorIs(err, ErrFileFormat)
}
