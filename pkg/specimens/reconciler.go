package specimens

import (
	"context"
	"fmt"
	"strings"

	"github.com/phage-catalogue/platform/pkg/lookups"
	"github.com/phage-catalogue/platform/pkg/schema"
	"gorm.io/datatypes"
)

// Store is the keyed specimen storage the reconciler writes to.
type Store interface {
	Get(ctx context.Context, id uint) (*Specimen, error)
	Save(ctx context.Context, s *Specimen) error
}

// LookupResolver returns the lookup called name, creating it when absent.
// Blank names resolve to nil.
type LookupResolver interface {
	Resolve(ctx context.Context, kind lookups.Kind, name string) (*lookups.Lookup, error)
}

// Summary counts the outcome of a reconciliation run.
type Summary struct {
	Created int `json:"created"`
	Updated int `json:"updated"`
}

func (s Summary) Total() int { return s.Created + s.Updated }

func (s *Summary) Add(other Summary) {
	s.Created += other.Created
	s.Updated += other.Updated
}

// Reconciler turns validated rows into created or updated specimens.
type Reconciler struct {
	store    Store
	resolver LookupResolver
}

func NewReconciler(store Store, resolver LookupResolver) *Reconciler {
	return &Reconciler{store: store, resolver: resolver}
}

// UpsertAll reconciles rows in order and stops at the first failure. Callers
// own the transaction that makes the run all-or-nothing.
func (r *Reconciler) UpsertAll(ctx context.Context, kind Kind, rows []Fields) (Summary, error) {
	var summary Summary
	for i, row := range rows {
		_, created, err := r.upsert(ctx, kind, row)
		if err != nil {
			return summary, fmt.Errorf("row %d: %w", i+1, err)
		}
		if created {
			summary.Created++
		} else {
			summary.Updated++
		}
	}
	return summary, nil
}

// Upsert loads the specimen named by the row's key, or starts a new one when
// the key is blank, then assigns every field and saves it.
func (r *Reconciler) Upsert(ctx context.Context, kind Kind, row Fields) (*Specimen, error) {
	s, _, err := r.upsert(ctx, kind, row)
	return s, err
}

func (r *Reconciler) upsert(ctx context.Context, kind Kind, row Fields) (*Specimen, bool, error) {
	if !kind.Valid() {
		return nil, false, fmt.Errorf("unknown specimen kind %q", kind)
	}

	s, err := r.load(ctx, kind, row[FieldKey])
	if err != nil {
		return nil, false, err
	}
	created := s == nil
	if created {
		s = &Specimen{Kind: kind}
	}

	for _, ref := range s.references() {
		l, err := r.resolver.Resolve(ctx, ref.kind, row[ref.field])
		if err != nil {
			return nil, false, fmt.Errorf("resolving %s: %w", ref.field, err)
		}
		*ref.lookup = l
		*ref.id = nil
		if l != nil {
			id := l.ID
			*ref.id = &id
		}
	}

	if err := assignScalars(s, row); err != nil {
		return nil, false, err
	}

	if err := r.store.Save(ctx, s); err != nil {
		return nil, false, fmt.Errorf("saving specimen: %w", err)
	}
	return s, created, nil
}

// load returns nil for a blank key.
func (r *Reconciler) load(ctx context.Context, kind Kind, key string) (*Specimen, error) {
	key = strings.TrimSpace(key)
	if key == "" {
		return nil, nil
	}
	id, ok := schema.ParseInteger(key)
	if !ok || id <= 0 {
		return nil, fmt.Errorf("key %q: %w", key, ErrNotFound)
	}
	s, err := r.store.Get(ctx, uint(id))
	if err != nil {
		return nil, fmt.Errorf("key %d: %w", id, err)
	}
	if s.Kind != kind {
		return nil, fmt.Errorf("key %d: %w", id, ErrWrongKind)
	}
	return s, nil
}

func assignScalars(s *Specimen, row Fields) error {
	freezer, ok := schema.ParseInteger(row[FieldFreezer])
	if !ok {
		return fmt.Errorf("freezer %q is not a whole number", row[FieldFreezer])
	}
	drawer, ok := schema.ParseInteger(row[FieldDrawer])
	if !ok {
		return fmt.Errorf("drawer %q is not a whole number", row[FieldDrawer])
	}
	date, ok := schema.ParseDate(row[FieldSampleDate])
	if !ok {
		return fmt.Errorf("sample date %q is not a date", row[FieldSampleDate])
	}

	s.Freezer = int(freezer)
	s.Drawer = int(drawer)
	s.SampleDate = datatypes.Date(date)
	s.Position = strings.ToUpper(row[FieldPosition])
	s.Name = row[FieldName]
	s.Description = row[FieldDescription]
	s.Notes = row[FieldNotes]
	return nil
}
