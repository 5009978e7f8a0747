package identity

import (
	"testing"
	"time"

	apperrors "github.com/Rishu1724/TextMeIfYouCan/pkg/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJWTProvider_IssueVerify(t *testing.T) {
	p := NewJWTProvider("test-secret", time.Hour)

	token, err := p.Issue("u-123")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	uid, err := p.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, "u-123", uid)
}

func TestJWTProvider_RejectsWrongSecret(t *testing.T) {
	issuer := NewJWTProvider("secret-a", time.Hour)
	verifier := NewJWTProvider("secret-b", time.Hour)

	token, err := issuer.Issue("u-123")
	require.NoError(t, err)

	_, err = verifier.Verify(token)
	assert.Equal(t, apperrors.CodeUnauthenticated, apperrors.CodeOf(err))
}

func TestJWTProvider_RejectsExpiredToken(t *testing.T) {
	p := NewJWTProvider("test-secret", -time.Minute)

	token, err := p.Issue("u-123")
	require.NoError(t, err)

	_, err = p.Verify(token)
	assert.Equal(t, apperrors.CodeUnauthenticated, apperrors.CodeOf(err))
}

func TestJWTProvider_RejectsGarbage(t *testing.T) {
	p := NewJWTProvider("test-secret", time.Hour)

	for _, token := range []string{"", "not-a-jwt", "a.b.c"} {
		_, err := p.Verify(token)
		assert.Error(t, err, "token %q", token)
	}
}
