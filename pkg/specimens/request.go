package specimens

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/phage-catalogue/platform/pkg/schema"
)

var errMissingField = errors.New("required")

type ValidationError struct {
	reason error
}

func (e ValidationError) Error() string {
	return e.reason.Error()
}

func (e ValidationError) Unwrap() error {
	return e.reason
}

func IsValidationError(err error) bool {
	var ve ValidationError
	return errors.As(err, &ve)
}

// SaveRequest is the JSON body accepted when adding or editing a specimen.
// Fields that do not apply to the target kind are ignored.
type SaveRequest struct {
	SampleDate    string `json:"sample_date"`
	Freezer       *int   `json:"freezer"`
	Drawer        *int   `json:"drawer"`
	Position      string `json:"position"`
	Name          string `json:"name"`
	Description   string `json:"description"`
	Notes         string `json:"notes"`
	BoxNumber     string `json:"box_number"`
	Project       string `json:"project"`
	StorageMethod string `json:"storage_method"`
	StaffMember   string `json:"staff_member"`

	Species          string `json:"species"`
	Strain           string `json:"strain"`
	Medium           string `json:"medium"`
	Plasmid          string `json:"plasmid"`
	ResistanceMarker string `json:"resistance_marker"`

	PhageIdentifier string `json:"phage_identifier"`
	Host            string `json:"host"`
}

type fieldRule struct {
	field     string
	required  bool
	maxLength int
}

var commonRules = []fieldRule{
	{FieldSampleDate, true, 0},
	{FieldFreezer, true, 0},
	{FieldDrawer, true, 0},
	{FieldPosition, true, 20},
	{FieldDescription, true, 0},
	{FieldProject, true, 100},
	{FieldStorageMethod, true, 100},
	{FieldStaffMember, true, 100},
	{FieldBoxNumber, false, 100},
	{FieldName, false, 0},
	{FieldNotes, false, 0},
}

var kindRules = map[Kind][]fieldRule{
	KindBacterium: {
		{FieldSpecies, true, 100},
		{FieldStrain, true, 100},
		{FieldMedium, true, 100},
		{FieldPlasmid, true, 100},
		{FieldResistanceMarker, true, 100},
	},
	KindPhage: {
		{FieldPhageIdentifier, true, 100},
		{FieldHost, true, 100},
	},
}

// fields converts the request to a row of canonical fields, trimmed.
func (req SaveRequest) fields(kind Kind) Fields {
	f := Fields{
		FieldSampleDate:    req.SampleDate,
		FieldPosition:      req.Position,
		FieldName:          req.Name,
		FieldDescription:   req.Description,
		FieldNotes:         req.Notes,
		FieldBoxNumber:     req.BoxNumber,
		FieldProject:       req.Project,
		FieldStorageMethod: req.StorageMethod,
		FieldStaffMember:   req.StaffMember,
	}
	if req.Freezer != nil {
		f[FieldFreezer] = strconv.Itoa(*req.Freezer)
	}
	if req.Drawer != nil {
		f[FieldDrawer] = strconv.Itoa(*req.Drawer)
	}
	switch kind {
	case KindBacterium:
		f[FieldSpecies] = req.Species
		f[FieldStrain] = req.Strain
		f[FieldMedium] = req.Medium
		f[FieldPlasmid] = req.Plasmid
		f[FieldResistanceMarker] = req.ResistanceMarker
	case KindPhage:
		f[FieldPhageIdentifier] = req.PhageIdentifier
		f[FieldHost] = req.Host
	}
	for k, v := range f {
		f[k] = strings.TrimSpace(v)
	}
	return f
}

// validateFields checks presence, length and the sample date. Every problem is
// reported in one error.
func validateFields(kind Kind, f Fields) error {
	rules := append(append([]fieldRule{}, commonRules...), kindRules[kind]...)

	var problems []string
	for _, rule := range rules {
		value := f[rule.field]
		if value == "" {
			if rule.required {
				problems = append(problems, fmt.Sprintf("%s: %v", rule.field, errMissingField))
			}
			continue
		}
		if rule.maxLength > 0 && utf8.RuneCountInString(value) > rule.maxLength {
			problems = append(problems, fmt.Sprintf("%s: longer than %d characters", rule.field, rule.maxLength))
		}
	}
	if v := f[FieldSampleDate]; v != "" {
		if _, ok := schema.ParseDate(v); !ok {
			problems = append(problems, FieldSampleDate+": invalid date")
		}
	}

	if len(problems) > 0 {
		return ValidationError{reason: errors.New(strings.Join(problems, "; "))}
	}
	return nil
}
