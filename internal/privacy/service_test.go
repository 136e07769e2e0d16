package privacy

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"recrusearch/internal/domain"
	"recrusearch/internal/registry"
	dErrors "recrusearch/pkg/domain-errors"
	audit "recrusearch/pkg/platform/audit"
	auditmemory "recrusearch/pkg/platform/audit/store/memory"
)

type PrivacyServiceSuite struct {
	suite.Suite
	store   *registry.MemoryStore
	service *Service
}

func TestPrivacyServiceSuite(t *testing.T) {
	suite.Run(t, new(PrivacyServiceSuite))
}

func (s *PrivacyServiceSuite) SetupTest() {
	ctx := context.Background()
	now := time.Now().UTC()

	s.store = registry.NewMemoryStore()
	s.service = NewService(s.store, audit.NewPublisher(auditmemory.New()), nil, slog.Default())

	s.Require().NoError(s.store.Create(ctx, domain.NewParticipant("p1", "proof-of-eligibility", now)))
	s.Require().NoError(s.store.Create(ctx, domain.NewResearcher("r1", "MIT", "cred-hash", now)))
}

func (s *PrivacyServiceSuite) TestGrant() {
	ctx := context.Background()

	s.Run("grant to unknown researcher rejected", func() {
		err := s.service.Grant(ctx, "p1", "ghost", "profile")
		s.True(dErrors.Is(err, dErrors.CodeNotFound))
	})

	s.Run("grant opens access", func() {
		s.Require().NoError(s.service.Grant(ctx, "p1", "r1", "profile"))

		ok, err := s.service.HasAccess(ctx, "p1", "r1")
		s.Require().NoError(err)
		s.True(ok)
	})

	s.Run("double grant rejected", func() {
		err := s.service.Grant(ctx, "p1", "r1", "profile")
		s.True(dErrors.Is(err, dErrors.CodeAlreadyExists))
	})
}

func (s *PrivacyServiceSuite) TestRevoke() {
	ctx := context.Background()

	s.Run("revoking a grant that never existed rejected", func() {
		err := s.service.Revoke(ctx, "p1", "r1")
		s.True(dErrors.Is(err, dErrors.CodeNotFound))
	})

	s.Run("revoke closes access but keeps the decision history", func() {
		s.Require().NoError(s.service.Grant(ctx, "p1", "r1", "profile"))
		s.Require().NoError(s.service.Revoke(ctx, "p1", "r1"))

		ok, err := s.service.HasAccess(ctx, "p1", "r1")
		s.Require().NoError(err)
		s.False(ok)

		grant, err := s.service.loadGrant(ctx, "p1", "r1")
		s.Require().NoError(err)
		s.NotNil(grant.RevokedAt)
	})

	s.Run("revoking an already revoked grant rejected", func() {
		err := s.service.Revoke(ctx, "p1", "r1")
		s.True(dErrors.Is(err, dErrors.CodeNotFound))
	})

	s.Run("regrant after revocation reactivates", func() {
		s.Require().NoError(s.service.Grant(ctx, "p1", "r1", "profile+history"))

		ok, err := s.service.HasAccess(ctx, "p1", "r1")
		s.Require().NoError(err)
		s.True(ok)
	})
}
