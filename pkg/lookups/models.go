package lookups

import (
	"fmt"
	"time"
)

// Kind names one family of lookup values. Species doubles as the phage host.
type Kind string

const (
	KindSpecies          Kind = "species"
	KindStrain           Kind = "strain"
	KindMedium           Kind = "medium"
	KindPlasmid          Kind = "plasmid"
	KindResistanceMarker Kind = "resistance_marker"
	KindPhageIdentifier  Kind = "phage_identifier"
	KindProject          Kind = "project"
	KindStorageMethod    Kind = "storage_method"
	KindStaffMember      Kind = "staff_member"
	KindBoxNumber        Kind = "box_number"
)

var Kinds = []Kind{
	KindSpecies,
	KindStrain,
	KindMedium,
	KindPlasmid,
	KindResistanceMarker,
	KindPhageIdentifier,
	KindProject,
	KindStorageMethod,
	KindStaffMember,
	KindBoxNumber,
}

func ParseKind(s string) (Kind, error) {
	for _, k := range Kinds {
		if string(k) == s {
			return k, nil
		}
	}
	return "", fmt.Errorf("unknown lookup kind %q", s)
}

// Lookup is a small named reference value. Names are unique per kind.
type Lookup struct {
	ID        uint      `json:"id" gorm:"primaryKey;column:id"`
	Kind      Kind      `json:"kind" gorm:"column:kind;size:50;not null;uniqueIndex:idx_lookup_kind_name"`
	Name      string    `json:"name" gorm:"column:name;size:100;not null;uniqueIndex:idx_lookup_kind_name"`
	CreatedAt time.Time `json:"created_at" gorm:"column:created_at"`
}

func (Lookup) TableName() string {
	return "lookups"
}

func (l *Lookup) String() string {
	if l == nil {
		return ""
	}
	return l.Name
}
