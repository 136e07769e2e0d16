package domain

import (
	"time"

	dErrors "recrusearch/pkg/domain-errors"
)

// External wallet addresses are base58-encoded public keys.
const (
	minWalletAddressLen = 32
	maxWalletAddressLen = 44
)

// ParticipantWallet links a participant to an external wallet and the token
// accounts rewards are paid into. Immutable once initialized; re-linking is
// rejected by the key derivation.
type ParticipantWallet struct {
	Meta
	Participant         Authority  `json:"participant"`
	ExternalAddress     string     `json:"external_address"`
	IsInitialized       bool       `json:"is_initialized"`
	MainTokenAccount    string     `json:"main_token_account"`
	PrivacyTokenAccount string     `json:"privacy_token_account"`
	TotalRewards        uint64     `json:"total_rewards"`
	LastRewardAt        *time.Time `json:"last_reward_at,omitempty"`
	MetadataURI         string     `json:"metadata_uri,omitempty"`
	LinkedAt            time.Time  `json:"linked_at"`
}

func NewParticipantWallet(participant Authority, externalAddress string, now time.Time) *ParticipantWallet {
	return &ParticipantWallet{
		Participant:         participant,
		ExternalAddress:     externalAddress,
		IsInitialized:       true,
		MainTokenAccount:    MainTokenAccount(participant),
		PrivacyTokenAccount: PrivacyTokenAccount(participant),
		LinkedAt:            now,
	}
}

// MainTokenAccount derives the default reward account for an authority.
// Researchers fund rewards from it; participants without a linked wallet are
// paid into it.
func MainTokenAccount(a Authority) string {
	return "token:" + string(a) + ":main"
}

// PrivacyTokenAccount derives the account used for privacy-grant accounting.
func PrivacyTokenAccount(a Authority) string {
	return "token:" + string(a) + ":privacy"
}

func (w *ParticipantWallet) Key() RecordKey {
	return DeriveKey(NamespaceWallet, w.Participant)
}

func (w *ParticipantWallet) Validate() error {
	if w.Participant.IsZero() {
		return dErrors.New(dErrors.CodeBadRequest, "wallet participant must not be empty")
	}
	return ValidateWalletAddress(w.ExternalAddress)
}

// ValidateWalletAddress checks the shape of an external wallet address. The
// registry never derives keys from it; it only refuses obvious garbage.
func ValidateWalletAddress(addr string) error {
	if len(addr) < minWalletAddressLen || len(addr) > maxWalletAddressLen {
		return dErrors.Newf(dErrors.CodeInvalidWalletAddress,
			"wallet address must be %d..%d characters", minWalletAddressLen, maxWalletAddressLen)
	}
	for _, r := range addr {
		switch {
		case r >= '1' && r <= '9', r >= 'A' && r <= 'H', r >= 'J' && r <= 'N',
			r >= 'P' && r <= 'Z', r >= 'a' && r <= 'k', r >= 'm' && r <= 'z':
		default:
			return dErrors.Newf(dErrors.CodeInvalidWalletAddress,
				"wallet address contains non-base58 character %q", r)
		}
	}
	return nil
}

// AddReward records a paid reward on the wallet.
func (w *ParticipantWallet) AddReward(amount uint64, now time.Time) {
	w.TotalRewards += amount
	w.LastRewardAt = &now
}
