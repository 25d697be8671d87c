package models

// TableSet is an ordered collection of tables.
type TableSet struct {
	// Name is the set name (the book name when read from a file).
	Name string `json:"name,omitempty"`
	// Tables lists the tables in order; each becomes one sheet.
	Tables []*Table `json:"tables"`
}

// NewTableSet creates a set holding the given tables.
func NewTableSet(name string, tables ...*Table) *TableSet {
	return &TableSet{
		Name:   name,
		Tables: tables,
	}
}

// Add appends a table.
func (s *TableSet) Add(t *Table) *TableSet {
	s.Tables = append(s.Tables, t)
	return s
}

// Table returns the first table with the given name.
func (s *TableSet) Table(name string) (*Table, bool) {
	for _, t := range s.Tables {
		if t != nil && t.Name == name {
			return t, true
		}
	}
	return nil, false
}
