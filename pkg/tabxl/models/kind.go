// Package models defines the tabular data structures shared by the reader and writer.
package models

import (
	"fmt"
	"strings"
)

// Kind is the declared kind of a column.
type Kind uint8

const (
	// KindUnknown marks a column whose values are written as their display text.
	KindUnknown Kind = iota
	// KindText marks a textual column.
	KindText
	// KindNumber marks a numeric column.
	KindNumber
	// KindBoolean marks a boolean column.
	KindBoolean
	// KindDate marks a date/time column.
	KindDate
)

var kindNames = [...]string{
	KindUnknown: "unknown",
	KindText:    "text",
	KindNumber:  "number",
	KindBoolean: "boolean",
	KindDate:    "date",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("kind(%d)", k)
}

// MarshalText renders the kind by name.
func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// UnmarshalText parses a kind name as accepted by ParseKind.
func (k *Kind) UnmarshalText(text []byte) error {
	parsed, err := ParseKind(string(text))
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}

// ParseKind parses a kind name (case-insensitive). The empty string is KindUnknown.
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "unknown":
		return KindUnknown, nil
	case "text", "string":
		return KindText, nil
	case "number", "numeric":
		return KindNumber, nil
	case "boolean", "bool":
		return KindBoolean, nil
	case "date", "datetime", "time":
		return KindDate, nil
	}
	return KindUnknown, fmt.Errorf("unknown column kind %q", s)
}
