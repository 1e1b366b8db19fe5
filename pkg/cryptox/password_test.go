package cryptox

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestHashAndVerifyPassword(t *testing.T) {
	SetPepperPath(filepath.Join(t.TempDir(), "pepper"))

	hash, err := HashPassword("Passw0rd")
	require.NoError(t, err)
	require.Contains(t, hash, "$argon2id$v=19$")

	require.NoError(t, VerifyPassword("Passw0rd", hash))
	require.ErrorIs(t, VerifyPassword("passw0rd", hash), ErrPasswordMismatch)
}

func TestHashPasswordProducesUniqueSalts(t *testing.T) {
	SetPepperPath(filepath.Join(t.TempDir(), "pepper"))

	a, err := HashPassword("Passw0rd")
	require.NoError(t, err)
	b, err := HashPassword("Passw0rd")
	require.NoError(t, err)
	require.NotEqual(t, a, b)
}

func TestVerifyPasswordRejectsMalformedHash(t *testing.T) {
	SetPepperPath(filepath.Join(t.TempDir(), "pepper"))

	for _, hash := range []string{
		"",
		"not-a-hash",
		"$bcrypt$v=19$m=19456,t=2,p=1$c2FsdA$aGFzaA",
		"$argon2id$v=18$m=19456,t=2,p=1$c2FsdA$aGFzaA",
	} {
		require.Error(t, VerifyPassword("Passw0rd", hash), "hash %q", hash)
	}
}

func TestGeneratePasswordSatisfiesPolicy(t *testing.T) {
	for range 20 {
		pw, err := GeneratePassword()
		require.NoError(t, err)
		require.NoError(t, ValidateStrength(pw))
	}
}

func TestValidateStrength(t *testing.T) {
	t.Parallel()

	cases := []struct {
		password string
		want     error
	}{
		{"Passw0rd", nil},
		{"Sh0rt", ErrPasswordTooShort},
		{"PASSW0RD", ErrPasswordNoLower},
		{"passw0rd", ErrPasswordNoUpper},
		{"Password", ErrPasswordNoDigit},
		{"", ErrPasswordTooShort},
	}

	for _, tc := range cases {
		err := ValidateStrength(tc.password)
		if tc.want == nil {
			require.NoError(t, err, "password %q", tc.password)
		} else {
			require.ErrorIs(t, err, tc.want, "password %q", tc.password)
		}
	}
}

func TestFingerprintTokenIsDeterministic(t *testing.T) {
	t.Parallel()

	a := FingerprintToken("some-token")
	b := FingerprintToken("some-token")
	c := FingerprintToken("other-token")

	require.Equal(t, a, b)
	require.NotEqual(t, a, c)
	require.Len(t, a, 43)
}
