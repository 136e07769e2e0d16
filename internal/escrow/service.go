package escrow

import (
	"context"
	"errors"
	"log/slog"

	dErrors "recrusearch/pkg/domain-errors"
	"recrusearch/pkg/platform/sentinel"
)

// Service validates funding and performs the exactly-once reward transfer.
// It is invoked by the study lifecycle engine inside completeStudy.
type Service struct {
	ledger Ledger
	logger *slog.Logger
}

func NewService(ledger Ledger, logger *slog.Logger) *Service {
	return &Service{ledger: ledger, logger: logger}
}

// PayReward checks the funding account's available balance and moves amount
// to the participant's account. Total supply is conserved: the sum of the two
// balances is identical before and after, and a failure leaves both legs
// untouched.
func (s *Service) PayReward(ctx context.Context, fromAccount, toAccount string, amount uint64) error {
	if amount == 0 {
		return dErrors.New(dErrors.CodeInvalidStudyParameters, "reward amount must be positive")
	}
	balance, err := s.ledger.BalanceOf(ctx, fromAccount)
	if err != nil {
		return dErrors.Newf(dErrors.CodeInternal, "query balance of %s: %v", fromAccount, err)
	}
	if balance < amount {
		return dErrors.Newf(dErrors.CodeInsufficientFunds,
			"account %s holds %d, reward requires %d", fromAccount, balance, amount)
	}
	// Re-validated inside the ledger as well: the balance check above is
	// advisory, the transfer itself is the atomic debit-then-credit.
	if err := s.ledger.Transfer(ctx, fromAccount, toAccount, amount); err != nil {
		if errors.Is(err, sentinel.ErrConflict) {
			return dErrors.Newf(dErrors.CodeInsufficientFunds,
				"account %s cannot cover reward of %d", fromAccount, amount)
		}
		return dErrors.Newf(dErrors.CodeInternal,
			"transfer %d from %s: %v", amount, fromAccount, err)
	}
	s.logger.InfoContext(ctx, "reward paid",
		"from", fromAccount,
		"to", toAccount,
		"amount", amount,
	)
	return nil
}
