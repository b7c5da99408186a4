package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/spec-kit/helpdesk-core/internal/domain"
	"github.com/spec-kit/helpdesk-core/pkg/util"
)

func TestTokenRoundTrip(t *testing.T) {
	tm := NewTokenManager("test-secret", 60)
	actor := domain.Actor{
		ID:             42,
		Name:           "jordan",
		Role:           domain.RoleTechnician,
		Classification: domain.ClassificationSupervisor,
	}

	token, expiresAt, err := tm.GenerateToken(actor)
	require.NoError(t, err)
	require.NotEmpty(t, token)
	assert.False(t, expiresAt.IsZero())

	parsed, err := tm.ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, actor, *parsed)
}

func TestParseTokenRejectsWrongSecret(t *testing.T) {
	token, _, err := NewTokenManager("secret-a", 60).GenerateToken(domain.Actor{ID: 1})
	require.NoError(t, err)

	_, err = NewTokenManager("secret-b", 60).ParseToken(token)
	assert.Error(t, err)
}

func TestParseTokenRejectsGarbage(t *testing.T) {
	tm := NewTokenManager("test-secret", 60)
	_, err := tm.ParseToken("not.a.token")
	assert.Error(t, err)
}

func TestDirectoryAuthenticate(t *testing.T) {
	dir := NewDirectory()
	actor := domain.Actor{ID: 7, Name: "casey", Role: domain.RoleWorker}
	require.NoError(t, dir.Register("Casey", "hunter22", bcrypt.MinCost, actor))

	got, err := dir.Authenticate("  casey ", "hunter22")
	require.NoError(t, err)
	assert.Equal(t, actor, *got)

	_, err = dir.Authenticate("casey", "wrong")
	assert.True(t, util.HasCode(err, util.CodeUnauthorized))

	_, err = dir.Authenticate("nobody", "hunter22")
	assert.True(t, util.HasCode(err, util.CodeUnauthorized))
}
