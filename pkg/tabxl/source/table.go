package source

import (
	"fmt"
	"iter"
	"sync"

	"github.com/ukaji3/tabxl-go/pkg/tabxl/errs"
	"github.com/ukaji3/tabxl-go/pkg/tabxl/models"
	"github.com/ukaji3/tabxl-go/pkg/tabxl/schema"
)

// SingleTable is the one-table variant.
type SingleTable struct {
	part *tablePart
}

// NewSingleTable wraps a table.
func NewSingleTable(t *models.Table) (*SingleTable, error) {
	if t == nil {
		return nil, fmt.Errorf("%w: table is nil", errs.ErrInvalidInput)
	}
	return &SingleTable{part: newTablePart(t, 0)}, nil
}

// Kind returns KindSingleTable.
func (s *SingleTable) Kind() Kind {
	return KindSingleTable
}

// Parts returns the table as the only part.
func (s *SingleTable) Parts() []Part {
	return []Part{s.part}
}

// TableSet is the table collection variant. Each table is one part.
type TableSet struct {
	parts []Part
}

// NewTableSet wraps a table set. Nil tables inside the set are rejected.
func NewTableSet(set *models.TableSet) (*TableSet, error) {
	if set == nil {
		return nil, fmt.Errorf("%w: table set is nil", errs.ErrInvalidInput)
	}
	parts := make([]Part, len(set.Tables))
	for i, t := range set.Tables {
		if t == nil {
			return nil, fmt.Errorf("%w: table %d of the set is nil", errs.ErrInvalidInput, i)
		}
		parts[i] = newTablePart(t, i)
	}
	return &TableSet{parts: parts}, nil
}

// Kind returns KindTableSet.
func (s *TableSet) Kind() Kind {
	return KindTableSet
}

// Parts returns one part per table, in set order.
func (s *TableSet) Parts() []Part {
	return s.parts
}

type tablePart struct {
	name    string
	table   *models.Table
	columns func() ([]schema.ColumnInfo, error)
}

func newTablePart(t *models.Table, position int) *tablePart {
	name := t.Name
	if name == "" {
		name = PositionalName(position)
	}
	return &tablePart{
		name:  name,
		table: t,
		columns: sync.OnceValues(func() ([]schema.ColumnInfo, error) {
			columns, err := schema.ForTable(t)
			if err != nil {
				return nil, err
			}
			return schema.Infos(columns), nil
		}),
	}
}

func (p *tablePart) Name() string {
	return p.name
}

func (p *tablePart) Columns() ([]schema.ColumnInfo, error) {
	return p.columns()
}

func (p *tablePart) Rows() iter.Seq[[]any] {
	return func(yield func([]any) bool) {
		columns, err := p.columns()
		if err != nil {
			return
		}
		for _, record := range p.table.Rows {
			if !yield(project(columns, record)) {
				return
			}
		}
	}
}
