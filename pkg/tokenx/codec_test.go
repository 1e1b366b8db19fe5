package tokenx

import (
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
)

const testIssuer = "identity-test"

func testSecret(b byte) []byte {
	s := make([]byte, 32)
	for i := range s {
		s[i] = b
	}
	return s
}

func newTestCodec(t *testing.T) *Codec {
	t.Helper()
	codec, err := NewCodec(testSecret('k'), testIssuer)
	require.NoError(t, err)
	return codec
}

func TestNewCodecRejectsWeakSecret(t *testing.T) {
	t.Parallel()

	_, err := NewCodec([]byte("short"), testIssuer)
	require.ErrorIs(t, err, ErrWeakSecret)
}

func TestIssueAndVerifyRoundTrip(t *testing.T) {
	t.Parallel()
	codec := newTestCodec(t)

	raw, err := codec.Issue("user-1", "ADMIN", KindAccess, time.Minute, 0)
	require.NoError(t, err)

	claims, err := codec.Verify(raw, KindAccess)
	require.NoError(t, err)
	require.Equal(t, "user-1", claims.Subject)
	require.Equal(t, "ADMIN", claims.Role)
	require.Equal(t, KindAccess, claims.Kind)
}

func TestVerifyRejectsKindMismatchBothWays(t *testing.T) {
	t.Parallel()
	codec := newTestCodec(t)

	access, err := codec.Issue("user-1", "USER", KindAccess, time.Minute, 0)
	require.NoError(t, err)
	refresh, err := codec.Issue("user-1", "", KindRefresh, time.Minute, 0)
	require.NoError(t, err)

	_, err = codec.Verify(access, KindRefresh)
	require.ErrorIs(t, err, ErrInvalid)
	_, err = codec.Verify(refresh, KindAccess)
	require.ErrorIs(t, err, ErrInvalid)
}

func TestVerifyRejectsExpiredToken(t *testing.T) {
	t.Parallel()
	codec := newTestCodec(t)

	raw, err := codec.Issue("user-1", "USER", KindAccess, -time.Minute, 0)
	require.NoError(t, err)

	_, err = codec.Verify(raw, KindAccess)
	require.ErrorIs(t, err, ErrExpired)
}

func TestVerifyRejectsForeignSignature(t *testing.T) {
	t.Parallel()
	codec := newTestCodec(t)

	other, err := NewCodec(testSecret('x'), testIssuer)
	require.NoError(t, err)

	raw, err := other.Issue("user-1", "USER", KindAccess, time.Minute, 0)
	require.NoError(t, err)

	_, err = codec.Verify(raw, KindAccess)
	require.ErrorIs(t, err, ErrInvalid)
}

func TestVerifyExpiredForgeryIsInvalidNotExpired(t *testing.T) {
	t.Parallel()
	codec := newTestCodec(t)

	other, err := NewCodec(testSecret('x'), testIssuer)
	require.NoError(t, err)

	raw, err := other.Issue("user-1", "USER", KindAccess, -time.Minute, 0)
	require.NoError(t, err)

	_, err = codec.Verify(raw, KindAccess)
	require.ErrorIs(t, err, ErrInvalid)
}

func TestVerifyRejectsWrongIssuer(t *testing.T) {
	t.Parallel()
	codec := newTestCodec(t)

	other, err := NewCodec(testSecret('k'), "someone-else")
	require.NoError(t, err)

	raw, err := other.Issue("user-1", "USER", KindAccess, time.Minute, 0)
	require.NoError(t, err)

	_, err = codec.Verify(raw, KindAccess)
	require.ErrorIs(t, err, ErrInvalid)
}

func TestVerifyRejectsAlgNone(t *testing.T) {
	t.Parallel()
	codec := newTestCodec(t)

	claims := newClaims("user-1", "USER", KindAccess, time.Minute, 0, testIssuer, time.Now().UTC())
	unsigned, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).
		SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = codec.Verify(unsigned, KindAccess)
	require.ErrorIs(t, err, ErrInvalid)
}

func TestVerifyRejectsGarbage(t *testing.T) {
	t.Parallel()
	codec := newTestCodec(t)

	for _, raw := range []string{"", "garbage", strings.Repeat("a.", 40)} {
		_, err := codec.Verify(raw, KindAccess)
		require.ErrorIs(t, err, ErrInvalid)
	}
}

func TestPurposeTokenCarriesTokenVersion(t *testing.T) {
	t.Parallel()
	codec := newTestCodec(t)

	raw, err := codec.Issue("user-1", "", KindReset, time.Minute, 7)
	require.NoError(t, err)

	claims, err := codec.Verify(raw, KindReset)
	require.NoError(t, err)
	require.Equal(t, int64(7), claims.TokenVersion)
}
