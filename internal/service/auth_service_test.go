package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/soulbliss/soulbliss-api/internal/dto"
	appErrors "github.com/soulbliss/soulbliss-api/pkg/errors"
)

func newTestAuthService() *AuthService {
	return NewAuthService(nil, nil, AuthConfig{AccessTokenSecret: "secret", AccessTokenExpiry: time.Hour, Issuer: "soulbliss"})
}

func TestIssueAndValidateToken(t *testing.T) {
	svc := newTestAuthService()

	resp, err := svc.IssueToken(context.Background(), dto.TokenRequest{Email: "buyer@soulbliss.io", Name: "Buyer"})
	require.NoError(t, err)
	require.NotEmpty(t, resp.Token)

	claims, err := svc.ValidateToken(resp.Token)
	require.NoError(t, err)
	assert.Equal(t, "buyer@soulbliss.io", claims.Email)
	assert.Equal(t, "soulbliss", claims.Issuer)
}

func TestIssueTokenRequiresEmail(t *testing.T) {
	svc := newTestAuthService()

	_, err := svc.IssueToken(context.Background(), dto.TokenRequest{Email: "nope"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, appErrors.ErrValidation))
}

func TestValidateTokenRejectsForeignSecret(t *testing.T) {
	other := NewAuthService(nil, nil, AuthConfig{AccessTokenSecret: "other", AccessTokenExpiry: time.Hour})
	resp, err := other.IssueToken(context.Background(), dto.TokenRequest{Email: "buyer@soulbliss.io"})
	require.NoError(t, err)

	_, err = newTestAuthService().ValidateToken(resp.Token)
	require.Error(t, err)
	assert.Equal(t, 401, appErrors.FromError(err).Status)
}

func TestValidateTokenRejectsExpired(t *testing.T) {
	svc := newTestAuthService()
	svc.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	resp, err := svc.IssueToken(context.Background(), dto.TokenRequest{Email: "buyer@soulbliss.io"})
	require.NoError(t, err)

	svc.now = time.Now
	_, err = svc.ValidateToken(resp.Token)
	require.Error(t, err)
	assert.True(t, errors.Is(err, appErrors.ErrUnauthorized))
}

func TestValidateTokenRejectsGarbage(t *testing.T) {
	_, err := newTestAuthService().ValidateToken("not.a.jwt")
	assert.True(t, errors.Is(err, appErrors.ErrUnauthorized))
}
