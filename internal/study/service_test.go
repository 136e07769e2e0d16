package study

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"recrusearch/internal/domain"
	"recrusearch/internal/escrow"
	"recrusearch/internal/registry"
	dErrors "recrusearch/pkg/domain-errors"
	audit "recrusearch/pkg/platform/audit"
	auditmemory "recrusearch/pkg/platform/audit/store/memory"
	"recrusearch/pkg/platform/sentinel"
)

const (
	adminAuthority = domain.Authority("admin-1")
	researcher1    = domain.Authority("researcher-1")
	participant1   = domain.Authority("participant-1")
)

type StudyServiceSuite struct {
	suite.Suite
	store   *registry.MemoryStore
	ledger  *escrow.MemoryLedger
	events  *auditmemory.Store
	service *Service
}

func TestStudyServiceSuite(t *testing.T) {
	suite.Run(t, new(StudyServiceSuite))
}

func (s *StudyServiceSuite) SetupTest() {
	ctx := context.Background()
	logger := slog.Default()

	s.store = registry.NewMemoryStore()
	s.ledger = escrow.NewMemoryLedger()
	s.events = auditmemory.New()
	s.service = NewService(s.store, escrow.NewService(s.ledger, logger), s.ledger,
		audit.NewPublisher(s.events), nil, logger)

	now := time.Now().UTC()
	s.Require().NoError(s.store.Create(ctx, domain.NewAdmin(adminAuthority, now)))

	researcher := domain.NewResearcher(researcher1, "MIT", "cred-hash", now)
	researcher.IsVerified = true
	s.Require().NoError(s.store.Create(ctx, researcher))

	s.Require().NoError(s.store.Create(ctx,
		domain.NewParticipant(participant1, "proof-of-eligibility", now)))

	s.ledger.Mint(domain.MainTokenAccount(researcher1), 10_000)
}

func (s *StudyServiceSuite) createStudy() *domain.Study {
	study, err := s.service.Create(context.Background(), researcher1, CreateParams{
		Title:           "Sleep Patterns",
		Description:     "A longitudinal study of sleep",
		CriteriaHash:    "criteria-hash",
		RewardAmount:    1000,
		MaxParticipants: 10,
	})
	s.Require().NoError(err)
	return study
}

func (s *StudyServiceSuite) TestCreate() {
	ctx := context.Background()

	s.Run("unverified researcher cannot create", func() {
		unverified := domain.NewResearcher("researcher-2", "ETH", "hash", time.Now().UTC())
		s.Require().NoError(s.store.Create(ctx, unverified))

		_, err := s.service.Create(ctx, "researcher-2", CreateParams{
			Title: "t", RewardAmount: 1, MaxParticipants: 1,
		})
		s.True(dErrors.Is(err, dErrors.CodeResearcherNotVerified))
	})

	s.Run("unregistered authority cannot create", func() {
		_, err := s.service.Create(ctx, "ghost", CreateParams{
			Title: "t", RewardAmount: 1, MaxParticipants: 1,
		})
		s.True(dErrors.Is(err, dErrors.CodeNotFound))
	})

	s.Run("invalid parameters rejected", func() {
		_, err := s.service.Create(ctx, researcher1, CreateParams{
			Title: strings.Repeat("x", domain.MaxTitleLen+1), RewardAmount: 1, MaxParticipants: 1,
		})
		s.True(dErrors.Is(err, dErrors.CodeInvalidStudyParameters))
	})

	s.Run("create bumps researcher counters", func() {
		study := s.createStudy()
		s.True(study.IsActive)

		researcher, err := registry.LoadResearcher(ctx, s.store, researcher1)
		s.Require().NoError(err)
		s.Equal(uint32(1), researcher.StudiesCreated)
		s.Equal(uint32(1), researcher.ActiveStudies)
	})

	s.Run("second study per researcher rejected", func() {
		_, err := s.service.Create(ctx, researcher1, CreateParams{
			Title: "Another", RewardAmount: 1, MaxParticipants: 1,
		})
		s.True(dErrors.Is(err, dErrors.CodeAlreadyExists))
	})
}

func (s *StudyServiceSuite) TestJoin() {
	ctx := context.Background()
	s.createStudy()

	s.Run("unregistered participant cannot join", func() {
		err := s.service.Join(ctx, "ghost", researcher1)
		s.True(dErrors.Is(err, dErrors.CodeNotFound))
	})

	s.Run("join records enrollment and counters", func() {
		s.Require().NoError(s.service.Join(ctx, participant1, researcher1))

		study, err := registry.LoadStudy(ctx, s.store, researcher1)
		s.Require().NoError(err)
		s.Equal(uint32(1), study.CurrentParticipants)

		participant, err := registry.LoadParticipant(ctx, s.store, participant1)
		s.Require().NoError(err)
		s.Equal(uint32(1), participant.ActiveStudies)

		enrollment, err := registry.LoadEnrollment(ctx, s.store, researcher1, participant1)
		s.Require().NoError(err)
		s.False(enrollment.Completed())
	})

	s.Run("double join rejected", func() {
		err := s.service.Join(ctx, participant1, researcher1)
		s.True(dErrors.Is(err, dErrors.CodeAlreadyExists))
	})

	s.Run("suspended participant cannot join", func() {
		suspended := domain.NewParticipant("participant-2", "proof-of-eligibility", time.Now().UTC())
		suspended.Suspended = true
		s.Require().NoError(s.store.Create(ctx, suspended))

		err := s.service.Join(ctx, "participant-2", researcher1)
		s.True(dErrors.Is(err, dErrors.CodeUnauthorized))
	})
}

func (s *StudyServiceSuite) TestJoinCapacityAndStatus() {
	ctx := context.Background()
	s.createStudy()

	s.Run("inactive study rejects joins", func() {
		s.Require().NoError(s.service.UpdateStatus(ctx, adminAuthority, researcher1, domain.StudyStatusInactive))
		err := s.service.Join(ctx, participant1, researcher1)
		s.True(dErrors.Is(err, dErrors.CodeStudyInactive))
		s.Require().NoError(s.service.UpdateStatus(ctx, adminAuthority, researcher1, domain.StudyStatusActive))
	})

	s.Run("full study rejects joins", func() {
		study, err := registry.LoadStudy(ctx, s.store, researcher1)
		s.Require().NoError(err)
		study.CurrentParticipants = study.MaxParticipants
		s.Require().NoError(s.store.Commit(ctx, study))

		err = s.service.Join(ctx, participant1, researcher1)
		s.True(dErrors.Is(err, dErrors.CodeStudyAtCapacity))
	})
}

func (s *StudyServiceSuite) TestTrackProgress() {
	ctx := context.Background()
	s.createStudy()
	s.Require().NoError(s.service.Join(ctx, participant1, researcher1))

	s.Run("progress out of range rejected", func() {
		err := s.service.TrackProgress(ctx, participant1, researcher1, 101)
		s.True(dErrors.Is(err, dErrors.CodeInvalidProgress))
		err = s.service.TrackProgress(ctx, participant1, researcher1, -1)
		s.True(dErrors.Is(err, dErrors.CodeInvalidProgress))
	})

	s.Run("non-participant cannot report progress", func() {
		outsider := domain.NewParticipant("outsider", "proof-of-eligibility", time.Now().UTC())
		s.Require().NoError(s.store.Create(ctx, outsider))

		err := s.service.TrackProgress(ctx, "outsider", researcher1, 10)
		s.True(dErrors.Is(err, dErrors.CodeNotAParticipant))
	})

	s.Run("progress lands on study and enrollment", func() {
		s.Require().NoError(s.service.TrackProgress(ctx, participant1, researcher1, 50))

		study, err := registry.LoadStudy(ctx, s.store, researcher1)
		s.Require().NoError(err)
		s.Equal(uint8(50), study.Progress)

		enrollment, err := registry.LoadEnrollment(ctx, s.store, researcher1, participant1)
		s.Require().NoError(err)
		s.Equal(uint8(50), enrollment.Progress)
	})
}

func (s *StudyServiceSuite) TestSubmitFeedback() {
	ctx := context.Background()
	s.createStudy()
	s.Require().NoError(s.service.Join(ctx, participant1, researcher1))

	s.Run("rating out of range rejected", func() {
		err := s.service.SubmitFeedback(ctx, participant1, researcher1, 0, "ok")
		s.True(dErrors.Is(err, dErrors.CodeInvalidRating))
		err = s.service.SubmitFeedback(ctx, participant1, researcher1, 6, "ok")
		s.True(dErrors.Is(err, dErrors.CodeInvalidRating))
	})

	s.Run("oversized feedback rejected", func() {
		err := s.service.SubmitFeedback(ctx, participant1, researcher1, 4,
			strings.Repeat("x", domain.MaxFeedbackLen+1))
		s.True(dErrors.Is(err, dErrors.CodeFeedbackTooLong))
	})

	s.Run("non-participant cannot submit", func() {
		err := s.service.SubmitFeedback(ctx, "outsider", researcher1, 4, "great")
		s.True(dErrors.Is(err, dErrors.CodeNotAParticipant))
	})

	s.Run("feedback goes to the audit sink, not the study", func() {
		s.Require().NoError(s.service.SubmitFeedback(ctx, participant1, researcher1, 5, "well run"))

		events, err := s.events.ListByActor(ctx, string(participant1))
		s.Require().NoError(err)

		var found bool
		for _, e := range events {
			if e.Action == audit.ActionStudyFeedback {
				found = true
				s.Equal(uint8(5), e.Rating)
				s.Equal("well run", e.Feedback)
			}
		}
		s.True(found, "expected a study.feedback event")
	})
}

// TestCompleteLifecycle walks the whole reward path: join, partial progress,
// premature completion rejected, full progress, payout, exactly-once.
func (s *StudyServiceSuite) TestCompleteLifecycle() {
	ctx := context.Background()
	s.createStudy()
	s.Require().NoError(s.service.Join(ctx, participant1, researcher1))

	s.Run("completion before full progress rejected", func() {
		s.Require().NoError(s.service.TrackProgress(ctx, participant1, researcher1, 50))
		err := s.service.Complete(ctx, researcher1, participant1)
		s.True(dErrors.Is(err, dErrors.CodeStudyNotCompleted))
	})

	s.Run("only the owner completes", func() {
		err := s.service.Complete(ctx, participant1, participant1)
		s.True(dErrors.Is(err, dErrors.CodeNotFound), "non-owner has no study record")
	})

	s.Run("completing a non-participant rejected", func() {
		s.Require().NoError(s.service.TrackProgress(ctx, participant1, researcher1, 100))
		err := s.service.Complete(ctx, researcher1, "ghost")
		s.True(dErrors.Is(err, dErrors.CodeNotAParticipant))
	})

	s.Run("completion pays the reward and settles counters", func() {
		s.Require().NoError(s.service.Complete(ctx, researcher1, participant1))

		from, _ := s.ledger.BalanceOf(ctx, domain.MainTokenAccount(researcher1))
		to, _ := s.ledger.BalanceOf(ctx, domain.MainTokenAccount(participant1))
		s.Equal(uint64(9_000), from)
		s.Equal(uint64(1_000), to)
		s.Equal(uint64(10_000), from+to, "token supply is conserved")

		study, err := registry.LoadStudy(ctx, s.store, researcher1)
		s.Require().NoError(err)
		s.Equal(uint32(1), study.CompletedParticipants)

		participant, err := registry.LoadParticipant(ctx, s.store, participant1)
		s.Require().NoError(err)
		s.Zero(participant.ActiveStudies)
		s.Equal(uint32(1), participant.CompletedStudies)

		researcher, err := registry.LoadResearcher(ctx, s.store, researcher1)
		s.Require().NoError(err)
		s.Equal(uint32(1), researcher.TotalParticipants)

		enrollment, err := registry.LoadEnrollment(ctx, s.store, researcher1, participant1)
		s.Require().NoError(err)
		s.True(enrollment.Completed())
	})

	s.Run("second completion for the same participation rejected", func() {
		err := s.service.Complete(ctx, researcher1, participant1)
		s.True(dErrors.Is(err, dErrors.CodeConflict))

		from, _ := s.ledger.BalanceOf(ctx, domain.MainTokenAccount(researcher1))
		s.Equal(uint64(9_000), from, "no second payout")
	})
}

func (s *StudyServiceSuite) TestCreateLostInsertRace() {
	ctx := context.Background()

	existing := domain.NewStudy(researcher1, "Sleep Patterns", "d", "h", 1000, 10, time.Now().UTC())
	s.Require().NoError(s.store.Create(ctx, existing))

	// The racing store hides the study from the pre-check, so the create only
	// learns about the concurrent insert when its own commit loses the race.
	racing := &racingStore{MemoryStore: s.store, hidden: existing.Key(), misses: 1}
	svc := NewService(racing, escrow.NewService(s.ledger, slog.Default()), s.ledger,
		audit.NewPublisher(s.events), nil, slog.Default())

	_, err := svc.Create(ctx, researcher1, CreateParams{
		Title: "Another", RewardAmount: 1, MaxParticipants: 1,
	})
	s.True(dErrors.Is(err, dErrors.CodeAlreadyExists))
}

// TestCompletePaysLinkedWallet checks that a linked wallet redirects the
// payout to the wallet's token account and accumulates the reward history.
func (s *StudyServiceSuite) TestCompletePaysLinkedWallet() {
	ctx := context.Background()
	s.createStudy()
	s.Require().NoError(s.service.Join(ctx, participant1, researcher1))
	s.Require().NoError(s.service.TrackProgress(ctx, participant1, researcher1, 100))

	now := time.Now().UTC()
	wallet := domain.NewParticipantWallet(participant1,
		"7xKXtg2CW87d97TXJSDpbD5jBkheTqA83TZRuJosgAsU", now)
	wallet.MainTokenAccount = "token:external-wallet:main"
	participant, err := registry.LoadParticipant(ctx, s.store, participant1)
	s.Require().NoError(err)
	participant.WalletKey = wallet.Key().String()
	s.Require().NoError(s.store.Commit(ctx, wallet, participant))

	s.Require().NoError(s.service.Complete(ctx, researcher1, participant1))

	linked, err := registry.LoadWallet(ctx, s.store, participant1)
	s.Require().NoError(err)
	s.Equal(uint64(1_000), linked.TotalRewards)
	s.NotNil(linked.LastRewardAt)

	walletAccount, _ := s.ledger.BalanceOf(ctx, linked.MainTokenAccount)
	defaultAccount, _ := s.ledger.BalanceOf(ctx, domain.MainTokenAccount(participant1))
	from, _ := s.ledger.BalanceOf(ctx, domain.MainTokenAccount(researcher1))
	s.Equal(uint64(1_000), walletAccount, "payout lands on the wallet's account")
	s.Zero(defaultAccount, "default account untouched once a wallet is linked")
	s.Equal(uint64(10_000), walletAccount+from, "token supply is conserved")
}

func (s *StudyServiceSuite) TestCompleteUnderfunded() {
	ctx := context.Background()
	s.createStudy()
	s.Require().NoError(s.service.Join(ctx, participant1, researcher1))
	s.Require().NoError(s.service.TrackProgress(ctx, participant1, researcher1, 100))

	// Drain the funding account below the reward.
	s.Require().NoError(s.ledger.Transfer(ctx, domain.MainTokenAccount(researcher1), "elsewhere", 9_500))

	err := s.service.Complete(ctx, researcher1, participant1)
	s.True(dErrors.Is(err, dErrors.CodeInsufficientFunds))

	enrollment, err := registry.LoadEnrollment(ctx, s.store, researcher1, participant1)
	s.Require().NoError(err)
	s.False(enrollment.Completed(), "failed payout leaves the participation open")
}

func (s *StudyServiceSuite) TestUpdateStatus() {
	ctx := context.Background()
	s.createStudy()

	s.Run("non-admin cannot override status", func() {
		err := s.service.UpdateStatus(ctx, researcher1, researcher1, domain.StudyStatusSuspended)
		s.True(dErrors.Is(err, dErrors.CodeUnauthorized))
	})

	s.Run("admin override flips activity", func() {
		s.Require().NoError(s.service.UpdateStatus(ctx, adminAuthority, researcher1, domain.StudyStatusSuspended))
		study, err := registry.LoadStudy(ctx, s.store, researcher1)
		s.Require().NoError(err)
		s.Equal(domain.StudyStatusSuspended, study.Status)
		s.False(study.IsActive)
	})
}

// racingStore misses the hidden key for the first n Loads, emulating another
// writer inserting the record between a pre-check and the commit.
type racingStore struct {
	*registry.MemoryStore
	hidden domain.RecordKey
	misses int
}

func (s *racingStore) Load(ctx context.Context, key domain.RecordKey) (domain.Record, error) {
	if key == s.hidden && s.misses > 0 {
		s.misses--
		return nil, fmt.Errorf("load %s: %w", key, sentinel.ErrNotFound)
	}
	return s.MemoryStore.Load(ctx, key)
}
