package jwttoken

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"recrusearch/internal/jwttoken/revocation"
	dErrors "recrusearch/pkg/domain-errors"
)

func newTestService() *Service {
	return NewService("test-signing-key", "recrusearch", "recrusearch-api", revocation.NewMemoryTRL())
}

func TestGenerateAndValidate(t *testing.T) {
	ctx := context.Background()
	svc := newTestService()

	token, err := svc.GenerateAuthorityToken("researcher-1", time.Hour)
	require.NoError(t, err)

	claims, err := svc.ValidateToken(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, "researcher-1", claims.Authority)
	assert.NotEmpty(t, claims.TokenID)
}

func TestValidateRejections(t *testing.T) {
	ctx := context.Background()
	svc := newTestService()

	t.Run("garbage token rejected", func(t *testing.T) {
		_, err := svc.ValidateToken(ctx, "not.a.token")
		assert.True(t, dErrors.Is(err, dErrors.CodeUnauthorized))
	})

	t.Run("expired token rejected", func(t *testing.T) {
		token, err := svc.GenerateAuthorityToken("researcher-1", -time.Minute)
		require.NoError(t, err)

		_, err = svc.ValidateToken(ctx, token)
		assert.True(t, dErrors.Is(err, dErrors.CodeUnauthorized))
	})

	t.Run("token signed with another key rejected", func(t *testing.T) {
		other := NewService("different-key", "recrusearch", "recrusearch-api", nil)
		token, err := other.GenerateAuthorityToken("researcher-1", time.Hour)
		require.NoError(t, err)

		_, err = svc.ValidateToken(ctx, token)
		assert.True(t, dErrors.Is(err, dErrors.CodeUnauthorized))
	})
}

func TestRevocation(t *testing.T) {
	ctx := context.Background()
	svc := newTestService()

	token, err := svc.GenerateAuthorityToken("researcher-1", time.Hour)
	require.NoError(t, err)

	claims, err := svc.ValidateToken(ctx, token)
	require.NoError(t, err)

	require.NoError(t, svc.RevokeToken(ctx, claims.TokenID, time.Hour))

	_, err = svc.ValidateToken(ctx, token)
	assert.True(t, dErrors.Is(err, dErrors.CodeUnauthorized))
}
