package lookups

import (
	"context"
	"strings"

	"github.com/phage-catalogue/platform/pkg/common/logger"
	"github.com/phage-catalogue/platform/pkg/observability/metrics"
	"gorm.io/gorm"
)

type Service struct {
	repo  *Repository
	cache Cache
	// pending counts creations held back until RecordCreated. Only services
	// from WithDB have one.
	pending map[Kind]int
}

// NewService builds the lookup service. cache may be nil.
func NewService(repo *Repository, cache Cache) *Service {
	return &Service{repo: repo, cache: cache}
}

// WithDB returns a service bound to db, typically a transaction, sharing the
// same cache. Lookups it creates are only counted once RecordCreated is
// called after the transaction commits.
func (s *Service) WithDB(db *gorm.DB) *Service {
	return &Service{repo: NewRepository(db), cache: s.cache, pending: make(map[Kind]int)}
}

// RecordCreated reports the lookups created through a service from WithDB.
func (s *Service) RecordCreated() {
	for kind, n := range s.pending {
		metrics.ObserveLookupCreated(string(kind), n)
		delete(s.pending, kind)
	}
}

func (s *Service) observeCreated(kind Kind) {
	if s.pending != nil {
		s.pending[kind]++
		return
	}
	metrics.ObserveLookupCreated(string(kind), 1)
}

// Resolve returns the lookup called name, registering it when it does not
// exist yet. Blank names resolve to nil.
func (s *Service) Resolve(ctx context.Context, kind Kind, name string) (*Lookup, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, nil
	}
	l, created, err := s.repo.GetOrCreate(ctx, kind, name)
	if err != nil {
		return nil, err
	}
	if created {
		s.observeCreated(kind)
		logger.Log.WithFields(map[string]interface{}{
			"kind": kind,
			"name": name,
		}).Debug("registered lookup value")
	}
	return l, nil
}

// Find returns ErrNotFound for blank or unknown names.
func (s *Service) Find(ctx context.Context, kind Kind, name string) (*Lookup, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrNotFound
	}
	return s.repo.Find(ctx, kind, name)
}

// Choices lists the names of kind, served from the cache when possible.
func (s *Service) Choices(ctx context.Context, kind Kind) ([]string, error) {
	if s.cache != nil {
		names, ok := s.cache.Get(ctx, kind)
		metrics.ObserveLookupCache(ok)
		if ok {
			return names, nil
		}
	}
	names, err := s.repo.Names(ctx, kind)
	if err != nil {
		return nil, err
	}
	if names == nil {
		names = []string{}
	}
	if s.cache != nil {
		s.cache.Set(ctx, kind, names)
	}
	return names, nil
}

// Invalidate drops cached choices; with no kinds every kind is dropped.
func (s *Service) Invalidate(ctx context.Context, kinds ...Kind) {
	if s.cache == nil {
		return
	}
	if len(kinds) == 0 {
		kinds = Kinds
	}
	s.cache.Delete(ctx, kinds...)
}

// Seed registers names under kind, skipping blanks and names that differ only
// by case from one already seen. It returns how many were new.
func (s *Service) Seed(ctx context.Context, kind Kind, names []string) (int, error) {
	seen := make(map[string]struct{}, len(names))
	created := 0
	for _, raw := range names {
		name := strings.TrimSpace(raw)
		folded := strings.ToLower(name)
		if name == "" {
			continue
		}
		if _, dup := seen[folded]; dup {
			continue
		}
		seen[folded] = struct{}{}

		_, isNew, err := s.repo.GetOrCreate(ctx, kind, name)
		if err != nil {
			return created, err
		}
		if isNew {
			s.observeCreated(kind)
			created++
		}
	}
	if created > 0 {
		s.Invalidate(ctx, kind)
	}
	return created, nil
}
