// Package jwttoken issues and validates authority tokens. The registry never
// sees raw signatures; a validated token subject is the invoking authority
// for every transition.
package jwttoken

import (
	"context"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"recrusearch/internal/platform/middleware"
	dErrors "recrusearch/pkg/domain-errors"
)

// Claims are the authority-token claims.
type Claims struct {
	Authority string `json:"authority"`
	jwt.RegisteredClaims
}

// RevocationList answers whether a token ID has been revoked before expiry.
type RevocationList interface {
	IsRevoked(ctx context.Context, jti string) (bool, error)
	RevokeToken(ctx context.Context, jti string, ttl time.Duration) error
}

// Service handles authority-token creation and validation.
type Service struct {
	signingKey []byte
	issuer     string
	audience   string
	revocation RevocationList
}

func NewService(signingKey, issuer, audience string, revocation RevocationList) *Service {
	return &Service{
		signingKey: []byte(signingKey),
		issuer:     issuer,
		audience:   audience,
		revocation: revocation,
	}
}

// GenerateAuthorityToken signs a token asserting the given authority.
func (s *Service) GenerateAuthorityToken(authority string, expiresIn time.Duration) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		Authority: authority,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(expiresIn)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			Issuer:    s.issuer,
			Audience:  []string{s.audience},
			Subject:   authority,
			ID:        uuid.NewString(),
		},
	})
	return token.SignedString(s.signingKey)
}

// ValidateToken parses, verifies, and checks the revocation list.
func (s *Service) ValidateToken(ctx context.Context, tokenString string) (*middleware.AuthorityClaims, error) {
	parsed, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrTokenUnverifiable
		}
		return s.signingKey, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, dErrors.New(dErrors.CodeUnauthorized, "token has expired")
		}
		return nil, dErrors.New(dErrors.CodeUnauthorized, "invalid token")
	}
	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid {
		return nil, dErrors.New(dErrors.CodeUnauthorized, "invalid token claims")
	}
	if s.revocation != nil {
		revoked, err := s.revocation.IsRevoked(ctx, claims.ID)
		if err != nil {
			return nil, dErrors.New(dErrors.CodeInternal, "revocation check failed")
		}
		if revoked {
			return nil, dErrors.New(dErrors.CodeUnauthorized, "token has been revoked")
		}
	}
	return &middleware.AuthorityClaims{Authority: claims.Authority, TokenID: claims.ID}, nil
}

// RevokeToken invalidates a token for its remaining lifetime.
func (s *Service) RevokeToken(ctx context.Context, jti string, ttl time.Duration) error {
	if s.revocation == nil {
		return nil
	}
	return s.revocation.RevokeToken(ctx, jti, ttl)
}
