package consent

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

type ConsentServiceSuite struct {
	suite.Suite
	store   *registry.MemoryStore
	mint    *MemoryMint
	service *Service
}

func TestConsentServiceSuite(t *testing.T) {
	suite.Run(t, new(ConsentServiceSuite))
}

func (s *ConsentServiceSuite) SetupTest() {
	ctx := context.Background()

	s.store = registry.NewMemoryStore()
	s.mint = NewMemoryMint()
	s.service = NewService(s.store, s.mint, audit.NewPublisher(auditmemory.New()), nil, slog.Default())

	s.Require().NoError(s.store.Create(ctx, domain.NewConsentRegistry()))
	s.Require().NoError(s.store.Create(ctx,
		domain.NewParticipant("p1", "proof-of-eligibility", time.Now().UTC())))
}

func (s *ConsentServiceSuite) TestIssue() {
	ctx := context.Background()

	s.Run("nobody consents on another's behalf", func() {
		err := s.service.Issue(ctx, "p2", "p1", "v1", "doc-hash")
		s.True(dErrors.Is(err, dErrors.CodeUnauthorizedConsent))
	})

	s.Run("empty version or hash rejected", func() {
		err := s.service.Issue(ctx, "p1", "p1", "", "doc-hash")
		s.True(dErrors.Is(err, dErrors.CodeBadRequest))
	})

	s.Run("issue mints a capability and counts it", func() {
		s.Require().NoError(s.service.Issue(ctx, "p1", "p1", "v1", "doc-hash"))

		participant, err := registry.LoadParticipant(ctx, s.store, "p1")
		s.Require().NoError(err)
		s.True(participant.HasActiveConsent)
		s.Require().NotNil(participant.Consent)
		s.Equal("v1", participant.Consent.Version)

		holder, live := s.mint.Holder(participant.Consent.TokenRef)
		s.True(live)
		s.Equal(domain.Authority("p1"), holder)

		reg, err := registry.LoadConsentRegistry(ctx, s.store)
		s.Require().NoError(err)
		s.Equal(uint64(1), reg.TotalIssued)
	})

	s.Run("reissue replaces the active capability", func() {
		participant, err := registry.LoadParticipant(ctx, s.store, "p1")
		s.Require().NoError(err)
		oldRef := participant.Consent.TokenRef

		s.Require().NoError(s.service.Issue(ctx, "p1", "p1", "v2", "doc-hash-2"))

		participant, err = registry.LoadParticipant(ctx, s.store, "p1")
		s.Require().NoError(err)
		s.Equal("v2", participant.Consent.Version)
		s.NotEqual(oldRef, participant.Consent.TokenRef)

		_, live := s.mint.Holder(oldRef)
		s.False(live, "replaced capability is burned")

		reg, err := registry.LoadConsentRegistry(ctx, s.store)
		s.Require().NoError(err)
		s.Equal(uint64(2), reg.TotalIssued)
	})

	s.Run("suspended participant cannot consent", func() {
		participant, err := registry.LoadParticipant(ctx, s.store, "p1")
		s.Require().NoError(err)
		participant.Suspended = true
		s.Require().NoError(s.store.Commit(ctx, participant))

		err = s.service.Issue(ctx, "p1", "p1", "v3", "doc-hash-3")
		s.True(dErrors.Is(err, dErrors.CodeUnauthorized))
	})
}

func (s *ConsentServiceSuite) TestRevoke() {
	ctx := context.Background()

	s.Run("revoking without active consent rejected", func() {
		err := s.service.Revoke(ctx, "p1")
		s.True(dErrors.Is(err, dErrors.CodeNoActiveConsent))
	})

	s.Run("revoke burns the capability and keeps history", func() {
		s.Require().NoError(s.service.Issue(ctx, "p1", "p1", "v1", "doc-hash"))
		participant, err := registry.LoadParticipant(ctx, s.store, "p1")
		s.Require().NoError(err)
		tokenRef := participant.Consent.TokenRef

		s.Require().NoError(s.service.Revoke(ctx, "p1"))

		participant, err = registry.LoadParticipant(ctx, s.store, "p1")
		s.Require().NoError(err)
		s.False(participant.HasActiveConsent)
		s.NotNil(participant.Consent, "consent record survives revocation")
		s.NotNil(participant.ConsentRevokedAt)

		_, live := s.mint.Holder(tokenRef)
		s.False(live)

		reg, err := registry.LoadConsentRegistry(ctx, s.store)
		s.Require().NoError(err)
		s.Equal(uint64(1), reg.TotalRevoked)
	})

	s.Run("second revoke rejected", func() {
		err := s.service.Revoke(ctx, "p1")
		s.True(dErrors.Is(err, dErrors.CodeNoActiveConsent))
	})
}
