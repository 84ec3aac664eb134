package schema

import (
	"fmt"
	"strings"
)

// Type is the data type a column's cells must parse as.
type Type string

const (
	TypeString  Type = "str"
	TypeInteger Type = "int"
	TypeDate    Type = "date"
)

func (t Type) valid() bool {
	switch t {
	case TypeString, TypeInteger, TypeDate:
		return true
	}
	return false
}

// Column describes one logical spreadsheet column. Name is the lower-cased
// header text; TranslatedName, when set, is the field name used once a row
// has been translated for reconciliation. MaxLength of zero means unlimited
// and only applies to TypeString.
type Column struct {
	Name           string `yaml:"name"`
	Type           Type   `yaml:"type"`
	AllowNull      bool   `yaml:"allow_null"`
	MaxLength      int    `yaml:"max_length"`
	TranslatedName string `yaml:"translated_name"`
}

// Canonical returns the translated name, or Name when none is set.
func (c Column) Canonical() string {
	if c.TranslatedName != "" {
		return c.TranslatedName
	}
	return c.Name
}

// Value returns the raw cell for this column; absent keys read as "".
func (c Column) Value(row map[string]string) string {
	return row[c.Name]
}

func (c Column) Trimmed(row map[string]string) string {
	return strings.TrimSpace(row[c.Name])
}

func (c Column) HasValue(row map[string]string) bool {
	return c.Trimmed(row) != ""
}

func (c Column) validate() error {
	if strings.TrimSpace(c.Name) == "" {
		return fmt.Errorf("column name required")
	}
	if !c.Type.valid() {
		return fmt.Errorf("column %q: unknown type %q", c.Name, c.Type)
	}
	if c.MaxLength < 0 {
		return fmt.Errorf("column %q: negative max_length", c.Name)
	}
	if c.MaxLength > 0 && c.Type != TypeString {
		return fmt.Errorf("column %q: max_length only applies to %s columns", c.Name, TypeString)
	}
	return nil
}
