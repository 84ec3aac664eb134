package specimens

import (
	"strconv"
	"time"

	"github.com/phage-catalogue/platform/pkg/lookups"
	"gorm.io/datatypes"
)

// Kind is the specimen subtype stored in the type column.
type Kind string

const (
	KindBacterium Kind = "Bacterium"
	KindPhage     Kind = "Phage"
)

var Kinds = []Kind{KindBacterium, KindPhage}

func (k Kind) Valid() bool {
	switch k {
	case KindBacterium, KindPhage:
		return true
	}
	return false
}

// Canonical field names of a translated upload row.
const (
	FieldKey              = "key"
	FieldFreezer          = "freezer"
	FieldDrawer           = "drawer"
	FieldBoxNumber        = "box_number"
	FieldPosition         = "position"
	FieldDescription      = "description"
	FieldProject          = "project"
	FieldSampleDate       = "sample_date"
	FieldStorageMethod    = "storage_method"
	FieldName             = "name"
	FieldStaffMember      = "staff_member"
	FieldNotes            = "notes"
	FieldSpecies          = "species"
	FieldStrain           = "strain"
	FieldMedium           = "medium"
	FieldPlasmid          = "plasmid"
	FieldResistanceMarker = "resistance_marker"
	FieldPhageIdentifier  = "phage_identifier"
	FieldHost             = "host"
)

// Fields is one row keyed by canonical field name.
type Fields map[string]string

// Specimen is a bacterium or phage. Lookup references that do not apply to
// the specimen's kind stay nil.
type Specimen struct {
	ID          uint           `json:"id" gorm:"primaryKey;column:id"`
	Kind        Kind           `json:"type" gorm:"column:type;size:20;not null;index"`
	Freezer     int            `json:"freezer" gorm:"column:freezer"`
	Drawer      int            `json:"drawer" gorm:"column:drawer"`
	Position    string         `json:"position" gorm:"column:position;size:20"`
	Name        string         `json:"name" gorm:"column:name"`
	Description string         `json:"description" gorm:"column:description"`
	Notes       string         `json:"notes" gorm:"column:notes"`
	SampleDate  datatypes.Date `json:"sample_date" gorm:"column:sample_date"`

	BoxNumberID     *uint           `json:"-" gorm:"column:box_number_id"`
	BoxNumber       *lookups.Lookup `json:"box_number,omitempty" gorm:"foreignKey:BoxNumberID"`
	ProjectID       *uint           `json:"-" gorm:"column:project_id"`
	Project         *lookups.Lookup `json:"project,omitempty" gorm:"foreignKey:ProjectID"`
	StorageMethodID *uint           `json:"-" gorm:"column:storage_method_id"`
	StorageMethod   *lookups.Lookup `json:"storage_method,omitempty" gorm:"foreignKey:StorageMethodID"`
	StaffMemberID   *uint           `json:"-" gorm:"column:staff_member_id"`
	StaffMember     *lookups.Lookup `json:"staff_member,omitempty" gorm:"foreignKey:StaffMemberID"`

	SpeciesID          *uint           `json:"-" gorm:"column:species_id"`
	Species            *lookups.Lookup `json:"species,omitempty" gorm:"foreignKey:SpeciesID"`
	StrainID           *uint           `json:"-" gorm:"column:strain_id"`
	Strain             *lookups.Lookup `json:"strain,omitempty" gorm:"foreignKey:StrainID"`
	MediumID           *uint           `json:"-" gorm:"column:medium_id"`
	Medium             *lookups.Lookup `json:"medium,omitempty" gorm:"foreignKey:MediumID"`
	PlasmidID          *uint           `json:"-" gorm:"column:plasmid_id"`
	Plasmid            *lookups.Lookup `json:"plasmid,omitempty" gorm:"foreignKey:PlasmidID"`
	ResistanceMarkerID *uint           `json:"-" gorm:"column:resistance_marker_id"`
	ResistanceMarker   *lookups.Lookup `json:"resistance_marker,omitempty" gorm:"foreignKey:ResistanceMarkerID"`

	PhageIdentifierID *uint           `json:"-" gorm:"column:phage_identifier_id"`
	PhageIdentifier   *lookups.Lookup `json:"phage_identifier,omitempty" gorm:"foreignKey:PhageIdentifierID"`
	HostID            *uint           `json:"-" gorm:"column:host_id"`
	Host              *lookups.Lookup `json:"host,omitempty" gorm:"foreignKey:HostID"`

	CreatedAt time.Time `json:"created_at" gorm:"column:created_at"`
	UpdatedAt time.Time `json:"updated_at" gorm:"column:updated_at"`
}

func (Specimen) TableName() string {
	return "specimens"
}

func (s *Specimen) IsBacterium() bool { return s.Kind == KindBacterium }

func (s *Specimen) IsPhage() bool { return s.Kind == KindPhage }

// reference pairs a lookup relation with its foreign key column.
type reference struct {
	field  string
	kind   lookups.Kind
	id     **uint
	lookup **lookups.Lookup
}

// references lists the lookup relations that apply to the specimen's kind,
// shared ones first.
func (s *Specimen) references() []reference {
	refs := []reference{
		{FieldBoxNumber, lookups.KindBoxNumber, &s.BoxNumberID, &s.BoxNumber},
		{FieldProject, lookups.KindProject, &s.ProjectID, &s.Project},
		{FieldStorageMethod, lookups.KindStorageMethod, &s.StorageMethodID, &s.StorageMethod},
		{FieldStaffMember, lookups.KindStaffMember, &s.StaffMemberID, &s.StaffMember},
	}
	switch s.Kind {
	case KindBacterium:
		refs = append(refs,
			reference{FieldSpecies, lookups.KindSpecies, &s.SpeciesID, &s.Species},
			reference{FieldStrain, lookups.KindStrain, &s.StrainID, &s.Strain},
			reference{FieldMedium, lookups.KindMedium, &s.MediumID, &s.Medium},
			reference{FieldPlasmid, lookups.KindPlasmid, &s.PlasmidID, &s.Plasmid},
			reference{FieldResistanceMarker, lookups.KindResistanceMarker, &s.ResistanceMarkerID, &s.ResistanceMarker},
		)
	case KindPhage:
		refs = append(refs,
			reference{FieldPhageIdentifier, lookups.KindPhageIdentifier, &s.PhageIdentifierID, &s.PhageIdentifier},
			reference{FieldHost, lookups.KindSpecies, &s.HostID, &s.Host},
		)
	}
	return refs
}

// Fields flattens the specimen into canonical upload fields. Lookup
// relations must be loaded.
func (s *Specimen) Fields() Fields {
	f := Fields{
		FieldKey:         strconv.FormatUint(uint64(s.ID), 10),
		FieldFreezer:     strconv.Itoa(s.Freezer),
		FieldDrawer:      strconv.Itoa(s.Drawer),
		FieldPosition:    s.Position,
		FieldDescription: s.Description,
		FieldSampleDate:  time.Time(s.SampleDate).Format("2006-01-02"),
		FieldName:        s.Name,
		FieldNotes:       s.Notes,
	}
	for _, ref := range s.references() {
		f[ref.field] = (*ref.lookup).String()
	}
	return f
}
