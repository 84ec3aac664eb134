package schema

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Column names referenced by code outside the schema itself.
const (
	ColumnKey              = "key"
	ColumnBacterialSpecies = "bacterial species"
	ColumnHostSpecies      = "host species"
)

// Catalogue holds every column set used by uploads. Build it once at startup
// and pass it to the components that need it.
type Catalogue struct {
	Common        Set
	BacteriumOnly Set
	PhageOnly     Set
	BacteriumFull Set
	PhageFull     Set
	UploadAll     Set
}

// File is the on-disk layout of a column schema file.
type File struct {
	Common    []Column `yaml:"common"`
	Bacterium []Column `yaml:"bacterium"`
	Phage     []Column `yaml:"phage"`
}

func NewCatalogue(common, bacterium, phage Set) Catalogue {
	return Catalogue{
		Common:        common,
		BacteriumOnly: bacterium,
		PhageOnly:     phage,
		BacteriumFull: common.Union("bacterium full", bacterium),
		PhageFull:     common.Union("phage full", phage),
		UploadAll:     common.Union("upload", bacterium, phage),
	}
}

func Default() Catalogue {
	return NewCatalogue(
		NewSet("specimen", defaultFile.Common...),
		NewSet("bacterium", defaultFile.Bacterium...),
		NewSet("phage", defaultFile.Phage...),
	)
}

// Load reads a column schema file. An empty path yields Default.
func Load(path string) (Catalogue, error) {
	if path == "" {
		return Default(), nil
	}
	content, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return Catalogue{}, fmt.Errorf("reading column schema: %w", err)
	}
	return Parse(content)
}

func Parse(content []byte) (Catalogue, error) {
	var f File
	if err := yaml.Unmarshal(content, &f); err != nil {
		return Catalogue{}, fmt.Errorf("parsing column schema: %w", err)
	}
	if len(f.Common) == 0 || len(f.Bacterium) == 0 || len(f.Phage) == 0 {
		return Catalogue{}, errors.New("column schema needs common, bacterium and phage columns")
	}

	seen := make(map[string]struct{})
	normalise := func(columns []Column) ([]Column, error) {
		out := make([]Column, len(columns))
		for i, c := range columns {
			c.Name = strings.ToLower(strings.TrimSpace(c.Name))
			if err := c.validate(); err != nil {
				return nil, err
			}
			if _, dup := seen[c.Name]; dup {
				return nil, fmt.Errorf("column %q defined twice", c.Name)
			}
			seen[c.Name] = struct{}{}
			out[i] = c
		}
		return out, nil
	}

	common, err := normalise(f.Common)
	if err != nil {
		return Catalogue{}, err
	}
	bacterium, err := normalise(f.Bacterium)
	if err != nil {
		return Catalogue{}, err
	}
	phage, err := normalise(f.Phage)
	if err != nil {
		return Catalogue{}, err
	}

	return NewCatalogue(
		NewSet("specimen", common...),
		NewSet("bacterium", bacterium...),
		NewSet("phage", phage...),
	), nil
}

var defaultFile = File{
	Common: []Column{
		{Name: ColumnKey, Type: TypeInteger, AllowNull: true},
		{Name: "freezer", Type: TypeInteger},
		{Name: "drawer", Type: TypeInteger},
		{Name: "box_number", Type: TypeString, MaxLength: 100},
		{Name: "position", Type: TypeString, MaxLength: 20},
		{Name: "description", Type: TypeString},
		{Name: "project", Type: TypeString, MaxLength: 100},
		{Name: "date", Type: TypeDate, TranslatedName: "sample_date"},
		{Name: "storage method", Type: TypeString, MaxLength: 100, TranslatedName: "storage_method"},
		{Name: "name", Type: TypeString},
		{Name: "staff member", Type: TypeString, MaxLength: 100, TranslatedName: "staff_member"},
		{Name: "notes", Type: TypeString},
	},
	Bacterium: []Column{
		{Name: ColumnBacterialSpecies, Type: TypeString, MaxLength: 100, TranslatedName: "species"},
		{Name: "strain", Type: TypeString, MaxLength: 100},
		{Name: "media", Type: TypeString, MaxLength: 100, TranslatedName: "medium"},
		{Name: "plasmid name", Type: TypeString, MaxLength: 100, TranslatedName: "plasmid"},
		{Name: "resistance marker", Type: TypeString, MaxLength: 100, TranslatedName: "resistance_marker"},
	},
	Phage: []Column{
		{Name: "phage id", Type: TypeString, MaxLength: 100, TranslatedName: "phage_identifier"},
		{Name: ColumnHostSpecies, Type: TypeString, MaxLength: 100, TranslatedName: "host"},
	},
}
