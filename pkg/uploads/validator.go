package uploads

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/phage-catalogue/platform/pkg/lookups"
	"github.com/phage-catalogue/platform/pkg/schema"
	"github.com/phage-catalogue/platform/pkg/specimens"
	"github.com/phage-catalogue/platform/pkg/spreadsheet"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Source is a buffered spreadsheet.
type Source interface {
	ColumnNames() []string
	Rows() []spreadsheet.Row
}

// SpecimenFinder loads specimens by key, returning specimens.ErrNotFound for
// unknown keys.
type SpecimenFinder interface {
	Get(ctx context.Context, id uint) (*specimens.Specimen, error)
}

// LookupFinder matches lookup names exactly, returning lookups.ErrNotFound
// when there is no match.
type LookupFinder interface {
	Find(ctx context.Context, kind lookups.Kind, name string) (*lookups.Lookup, error)
}

type Validator struct {
	catalogue schema.Catalogue
	specimens SpecimenFinder
	lookups   LookupFinder
}

func NewValidator(catalogue schema.Catalogue, specimenFinder SpecimenFinder, lookupFinder LookupFinder) *Validator {
	return &Validator{catalogue: catalogue, specimens: specimenFinder, lookups: lookupFinder}
}

// pass is one subtype's field-level check.
type pass struct {
	kind    specimens.Kind
	set     schema.Set
	species string
}

func (v *Validator) passes() []pass {
	passes := make([]pass, 0, len(specimens.Kinds))
	for _, kind := range specimens.Kinds {
		switch kind {
		case specimens.KindBacterium:
			passes = append(passes, pass{kind, v.catalogue.BacteriumFull, schema.ColumnBacterialSpecies})
		case specimens.KindPhage:
			passes = append(passes, pass{kind, v.catalogue.PhageFull, schema.ColumnHostSpecies})
		}
	}
	return passes
}

// Validate returns every problem found in source, in a stable order with
// duplicates removed. A missing column stops validation before any row is
// checked. The error is only set when a lookup against the database fails.
//
// Ambiguity and insufficiency messages number rows by their position among
// all data rows. Field messages number rows by their position among the rows
// complete for the subtype being checked.
func (v *Validator) Validate(ctx context.Context, source Source) ([]string, error) {
	msgs := newMessages()

	present := make(map[string]struct{})
	for _, name := range source.ColumnNames() {
		present[name] = struct{}{}
	}
	for _, name := range v.catalogue.UploadAll.Names() {
		if _, ok := present[name]; !ok {
			msgs.add(fmt.Sprintf("Missing column '%s'", name))
		}
	}
	if msgs.len() > 0 {
		return msgs.list, nil
	}

	rows := source.Rows()

	anyBacterium := RowsWithAnyFields(rows, v.catalogue.BacteriumOnly)
	anyPhage := RowsWithAnyFields(rows, v.catalogue.PhageOnly)
	for i := range rows {
		if anyBacterium[i] && anyPhage[i] {
			msgs.add(fmt.Sprintf("Row %d: contains columns for both bacteria and phages", i+1))
		}
	}

	passes := v.passes()
	complete := make([][]bool, len(passes))
	for p, ps := range passes {
		complete[p] = RowsWithAllFields(rows, ps.set)
	}
	for i := range rows {
		enough := false
		for p := range passes {
			enough = enough || complete[p][i]
		}
		if !enough {
			msgs.add(fmt.Sprintf("Row %d: does not contain enough information", i+1))
		}
	}

	title := cases.Title(language.English)
	for p, ps := range passes {
		for i, row := range Filter(rows, complete[p]) {
			n := i + 1
			for _, c := range ps.set.Columns() {
				if msg := checkField(c, row); msg != "" {
					msgs.add(fmt.Sprintf("Row %d: %s: %s", n, c.Name, msg))
				}
			}

			msg, err := v.checkKey(ctx, ps.kind, row)
			if err != nil {
				return nil, err
			}
			if msg != "" {
				msgs.add(fmt.Sprintf("Row %d: %s", n, msg))
			}

			exists, err := v.speciesExists(ctx, row[ps.species])
			if err != nil {
				return nil, err
			}
			if !exists {
				msgs.add(fmt.Sprintf("Row %d: %s does not exist", n, title.String(ps.species)))
			}
		}
	}

	return msgs.list, nil
}

func checkField(c schema.Column, row spreadsheet.Row) string {
	if !c.HasValue(row) {
		if !c.AllowNull {
			return "Data is missing"
		}
		return ""
	}
	switch c.Type {
	case schema.TypeString:
		if c.MaxLength > 0 && utf8.RuneCountInString(c.Value(row)) > c.MaxLength {
			return fmt.Sprintf("Text is longer than %d characters", c.MaxLength)
		}
	case schema.TypeInteger:
		if _, ok := schema.ParseInteger(c.Value(row)); !ok {
			return "Invalid value"
		}
	case schema.TypeDate:
		if _, ok := schema.ParseDate(c.Value(row)); !ok {
			return "Invalid value"
		}
	}
	return ""
}

// checkKey leaves keys that are not whole numbers to the field check.
func (v *Validator) checkKey(ctx context.Context, kind specimens.Kind, row spreadsheet.Row) (string, error) {
	key, ok := v.catalogue.UploadAll.Lookup(schema.ColumnKey)
	if !ok || !key.HasValue(row) {
		return "", nil
	}
	id, ok := schema.ParseInteger(key.Value(row))
	if !ok {
		return "", nil
	}
	if id <= 0 {
		return "Key does not exist", nil
	}

	s, err := v.specimens.Get(ctx, uint(id))
	if errors.Is(err, specimens.ErrNotFound) {
		return "Key does not exist", nil
	}
	if err != nil {
		return "", fmt.Errorf("checking key %d: %w", id, err)
	}
	if s.Kind != kind {
		return "Key is for the wrong type of specimen", nil
	}
	return "", nil
}

// speciesExists treats a blank name as present.
func (v *Validator) speciesExists(ctx context.Context, name string) (bool, error) {
	if strings.TrimSpace(name) == "" {
		return true, nil
	}
	_, err := v.lookups.Find(ctx, lookups.KindSpecies, name)
	if errors.Is(err, lookups.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("checking species %q: %w", name, err)
	}
	return true, nil
}

type messages struct {
	list []string
	seen map[string]struct{}
}

func newMessages() *messages {
	return &messages{list: []string{}, seen: make(map[string]struct{})}
}

func (m *messages) add(msg string) {
	if _, dup := m.seen[msg]; dup {
		return
	}
	m.seen[msg] = struct{}{}
	m.list = append(m.list, msg)
}

func (m *messages) len() int { return len(m.list) }
