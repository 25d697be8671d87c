package source

import (
	"fmt"
	"iter"
	"reflect"
	"slices"
	"sync"

	"github.com/ukaji3/tabxl-go/pkg/tabxl/errs"
	"github.com/ukaji3/tabxl-go/pkg/tabxl/schema"
)

// TypedSequence is the record sequence variant bound to a concrete type T. It is
// also its own single Part.
type TypedSequence[T any] struct {
	name    string
	seq     iter.Seq[T]
	columns func() ([]schema.ColumnInfo, error)
}

// FromSlice builds a restartable sequence over items. A nil slice is rejected.
func FromSlice[T any](items []T) (*TypedSequence[T], error) {
	if items == nil {
		return nil, fmt.Errorf("%w: record slice is nil", errs.ErrInvalidInput)
	}
	s := &TypedSequence[T]{name: DefaultSheetName, seq: slices.Values(items)}
	s.columns = recordColumns(reflect.TypeFor[T](), func(yield func(any) bool) {
		for _, v := range items {
			if !yield(v) {
				return
			}
		}
	})
	return s, nil
}

// FromSeq builds a sequence over seq. It is restartable only if seq is.
func FromSeq[T any](seq iter.Seq[T]) (*TypedSequence[T], error) {
	if seq == nil {
		return nil, fmt.Errorf("%w: record sequence is nil", errs.ErrInvalidInput)
	}
	s := &TypedSequence[T]{name: DefaultSheetName, seq: seq}
	s.columns = recordColumns(reflect.TypeFor[T](), nil)
	return s, nil
}

// Named sets the sheet name.
func (s *TypedSequence[T]) Named(name string) *TypedSequence[T] {
	if name != "" {
		s.name = name
	}
	return s
}

// Kind returns KindTypedSequence.
func (s *TypedSequence[T]) Kind() Kind {
	return KindTypedSequence
}

// Parts returns the sequence itself.
func (s *TypedSequence[T]) Parts() []Part {
	return []Part{s}
}

// Name returns the sheet name.
func (s *TypedSequence[T]) Name() string {
	return s.name
}

// Columns resolves the schema of T.
func (s *TypedSequence[T]) Columns() ([]schema.ColumnInfo, error) {
	return s.columns()
}

// Rows yields one row per record.
func (s *TypedSequence[T]) Rows() iter.Seq[[]any] {
	return func(yield func([]any) bool) {
		columns, err := s.columns()
		if err != nil {
			return
		}
		for v := range s.seq {
			if !yield(project(columns, v)) {
				return
			}
		}
	}
}

// recordSequence is the record sequence variant built by New from a slice, array
// or channel whose element type is only known at run time.
type recordSequence struct {
	value   reflect.Value
	columns func() ([]schema.ColumnInfo, error)
}

func newRecordSequence(rv reflect.Value) (*recordSequence, error) {
	t := rv.Type()
	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
		if t.Elem().Kind() == reflect.Uint8 {
			return nil, &errs.UnsupportedSourceError{Type: t.String()}
		}
		s := &recordSequence{value: rv}
		s.columns = recordColumns(t.Elem(), func(yield func(any) bool) {
			for i := range rv.Len() {
				if !yield(rv.Index(i).Interface()) {
					return
				}
			}
		})
		return s, nil
	case reflect.Chan:
		if t.ChanDir()&reflect.RecvDir == 0 {
			return nil, &errs.UnsupportedSourceError{Type: t.String()}
		}
		s := &recordSequence{value: rv}
		s.columns = recordColumns(t.Elem(), nil)
		return s, nil
	}
	return nil, &errs.UnsupportedSourceError{Type: t.String()}
}

func (s *recordSequence) Kind() Kind {
	return KindTypedSequence
}

func (s *recordSequence) Parts() []Part {
	return []Part{s}
}

func (s *recordSequence) Name() string {
	return DefaultSheetName
}

func (s *recordSequence) Columns() ([]schema.ColumnInfo, error) {
	return s.columns()
}

func (s *recordSequence) Rows() iter.Seq[[]any] {
	return func(yield func([]any) bool) {
		columns, err := s.columns()
		if err != nil {
			return
		}
		if s.value.Kind() == reflect.Chan {
			s.drain(columns, yield)
			return
		}
		for i := range s.value.Len() {
			if !yield(project(columns, s.value.Index(i).Interface())) {
				return
			}
		}
	}
}

// drain receives until the channel is closed. A drained channel yields nothing.
func (s *recordSequence) drain(columns []schema.ColumnInfo, yield func([]any) bool) {
	for {
		v, ok := s.value.Recv()
		if !ok || !yield(project(columns, v.Interface())) {
			return
		}
	}
}

// recordColumns resolves the columns of an element type once. Interface element
// types take the dynamic type of the first non-nil element when the values can be
// inspected without consuming them (peek is nil for single-pass sources).
func recordColumns(elem reflect.Type, peek iter.Seq[any]) func() ([]schema.ColumnInfo, error) {
	return sync.OnceValues(func() ([]schema.ColumnInfo, error) {
		t := elem
		if t.Kind() == reflect.Interface && peek != nil {
			for v := range peek {
				if !isNil(v) {
					t = reflect.TypeOf(v)
					break
				}
			}
		}
		columns, err := schema.ForType(t)
		if err != nil {
			return nil, err
		}
		return schema.Infos(columns), nil
	})
}
