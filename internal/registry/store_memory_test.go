package registry

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"recrusearch/internal/domain"
	"recrusearch/pkg/platform/sentinel"
)

type MemoryStoreSuite struct {
	suite.Suite
	store *MemoryStore
}

func TestMemoryStoreSuite(t *testing.T) {
	suite.Run(t, new(MemoryStoreSuite))
}

func (s *MemoryStoreSuite) SetupTest() {
	s.store = NewMemoryStore()
}

func (s *MemoryStoreSuite) newResearcher(authority domain.Authority) *domain.Researcher {
	return domain.NewResearcher(authority, "MIT", "credentials-hash", time.Now().UTC())
}

func (s *MemoryStoreSuite) TestCreate() {
	ctx := context.Background()

	s.Run("first create succeeds and sets revision", func() {
		rec := s.newResearcher("r1")
		s.NoError(s.store.Create(ctx, rec))
		s.Equal(uint64(1), rec.Revision())
	})

	s.Run("duplicate key conflicts", func() {
		err := s.store.Create(ctx, s.newResearcher("r1"))
		s.ErrorIs(err, sentinel.ErrConflict)
	})

	s.Run("invalid record never becomes durable", func() {
		bad := s.newResearcher("")
		s.Error(s.store.Create(ctx, bad))
		_, err := s.store.Load(ctx, bad.Key())
		s.ErrorIs(err, sentinel.ErrNotFound)
	})
}

func (s *MemoryStoreSuite) TestLoad() {
	ctx := context.Background()

	s.Run("missing key reports not found", func() {
		_, err := s.store.Load(ctx, domain.DeriveKey(domain.NamespaceResearcher, "ghost"))
		s.ErrorIs(err, sentinel.ErrNotFound)
	})

	s.Run("loaded record does not alias stored state", func() {
		s.Require().NoError(s.store.Create(ctx, s.newResearcher("r2")))

		first, err := s.store.Load(ctx, domain.DeriveKey(domain.NamespaceResearcher, "r2"))
		s.Require().NoError(err)
		first.(*domain.Researcher).Institution = "mutated"

		second, err := s.store.Load(ctx, domain.DeriveKey(domain.NamespaceResearcher, "r2"))
		s.Require().NoError(err)
		s.Equal("MIT", second.(*domain.Researcher).Institution)
	})
}

func (s *MemoryStoreSuite) TestCommit() {
	ctx := context.Background()

	s.Run("update bumps revision", func() {
		s.Require().NoError(s.store.Create(ctx, s.newResearcher("r3")))
		rec, err := s.store.Load(ctx, domain.DeriveKey(domain.NamespaceResearcher, "r3"))
		s.Require().NoError(err)

		researcher := rec.(*domain.Researcher)
		researcher.IsVerified = true
		s.NoError(s.store.Commit(ctx, researcher))
		s.Equal(uint64(2), researcher.Revision())

		reloaded, err := s.store.Load(ctx, researcher.Key())
		s.Require().NoError(err)
		s.True(reloaded.(*domain.Researcher).IsVerified)
	})

	s.Run("stale revision conflicts", func() {
		s.Require().NoError(s.store.Create(ctx, s.newResearcher("r4")))
		key := domain.DeriveKey(domain.NamespaceResearcher, "r4")

		a, err := s.store.Load(ctx, key)
		s.Require().NoError(err)
		b, err := s.store.Load(ctx, key)
		s.Require().NoError(err)

		s.NoError(s.store.Commit(ctx, a))
		s.ErrorIs(s.store.Commit(ctx, b), sentinel.ErrConflict)
	})

	s.Run("zero revision inserts", func() {
		enrollment := domain.NewEnrollment("owner", "participant", time.Now().UTC())
		s.NoError(s.store.Commit(ctx, enrollment))
		s.Equal(uint64(1), enrollment.Revision())
	})

	s.Run("zero revision insert conflicts when record exists", func() {
		dup := domain.NewEnrollment("owner", "participant", time.Now().UTC())
		s.ErrorIs(s.store.Commit(ctx, dup), sentinel.ErrConflict)
	})

	s.Run("batch is all or nothing", func() {
		s.Require().NoError(s.store.Create(ctx, s.newResearcher("r5")))
		rec, err := s.store.Load(ctx, domain.DeriveKey(domain.NamespaceResearcher, "r5"))
		s.Require().NoError(err)

		researcher := rec.(*domain.Researcher)
		researcher.StudiesCreated = 7
		stale := s.newResearcher("r5")
		stale.SetRevision(99)

		s.ErrorIs(s.store.Commit(ctx, researcher, stale), sentinel.ErrConflict)

		reloaded, err := s.store.Load(ctx, researcher.Key())
		s.Require().NoError(err)
		s.Zero(reloaded.(*domain.Researcher).StudiesCreated)
	})
}
