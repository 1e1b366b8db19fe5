package httpx

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tabwriterlabs/identity/pkg/tokenx"
)

type staticSource map[string]Principal

func (s staticSource) LoadPrincipal(_ context.Context, id string) (Principal, error) {
	p, ok := s[id]
	if !ok {
		return Principal{}, ErrPrincipalNotFound
	}
	if p.Role == "blocked" {
		return Principal{}, ErrPrincipalBlocked
	}
	return p, nil
}

func newTestCodec(t *testing.T) *tokenx.Codec {
	t.Helper()
	codec, err := tokenx.NewCodec([]byte("test-secret-0123456789abcdef-012345"), "httpx-test")
	require.NoError(t, err)
	return codec
}

func echoPrincipal() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		p, _ := PrincipalFromContext(r.Context())
		WriteData(w, http.StatusOK, p)
	})
}

func doAuth(t *testing.T, handler http.Handler, authz string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if authz != "" {
		req.Header.Set("Authorization", authz)
	}
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) Envelope {
	t.Helper()
	var envelope Envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	return envelope
}

func TestAuthenticate(t *testing.T) {
	codec := newTestCodec(t)
	src := staticSource{
		"user-1":  {ID: "user-1", Email: "u@example.com", Role: "USER"},
		"blocked": {ID: "blocked", Role: "blocked"},
	}
	handler := Chain(echoPrincipal(), Authenticate(codec, src))

	t.Run("valid token injects principal", func(t *testing.T) {
		token, err := codec.Issue("user-1", "USER", tokenx.KindAccess, tokenx.DefaultAccessTTL, 0)
		require.NoError(t, err)

		rec := doAuth(t, handler, "Bearer "+token)
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), "user-1")
	})

	t.Run("missing header", func(t *testing.T) {
		rec := doAuth(t, handler, "")
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Equal(t, CodeTokenInvalid, decodeEnvelope(t, rec).Code)
	})

	t.Run("expired token", func(t *testing.T) {
		token, err := codec.Issue("user-1", "USER", tokenx.KindAccess, -time.Minute, 0)
		require.NoError(t, err)

		rec := doAuth(t, handler, "Bearer "+token)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Equal(t, CodeTokenExpired, decodeEnvelope(t, rec).Code)
	})

	t.Run("refresh token rejected on access gate", func(t *testing.T) {
		token, err := codec.Issue("user-1", "USER", tokenx.KindRefresh, tokenx.DefaultRefreshTTL, 0)
		require.NoError(t, err)

		rec := doAuth(t, handler, "Bearer "+token)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Equal(t, CodeTokenInvalid, decodeEnvelope(t, rec).Code)
	})

	t.Run("deleted account", func(t *testing.T) {
		token, err := codec.Issue("gone", "USER", tokenx.KindAccess, tokenx.DefaultAccessTTL, 0)
		require.NoError(t, err)

		rec := doAuth(t, handler, "Bearer "+token)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("blocked account", func(t *testing.T) {
		token, err := codec.Issue("blocked", "USER", tokenx.KindAccess, tokenx.DefaultAccessTTL, 0)
		require.NoError(t, err)

		rec := doAuth(t, handler, "Bearer "+token)
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("garbage token", func(t *testing.T) {
		rec := doAuth(t, handler, "Bearer not.a.jwt")
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Equal(t, CodeTokenInvalid, decodeEnvelope(t, rec).Code)
	})
}

func TestRequireRole(t *testing.T) {
	codec := newTestCodec(t)
	src := staticSource{
		"admin-1": {ID: "admin-1", Role: "ADMIN"},
		"user-1":  {ID: "user-1", Role: "USER"},
	}
	handler := Chain(echoPrincipal(),
		Authenticate(codec, src),
		RequireRole("ADMIN"),
	)

	t.Run("admin passes", func(t *testing.T) {
		token, err := codec.Issue("admin-1", "ADMIN", tokenx.KindAccess, tokenx.DefaultAccessTTL, 0)
		require.NoError(t, err)

		rec := doAuth(t, handler, "Bearer "+token)
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("user rejected, no hierarchy shortcuts", func(t *testing.T) {
		token, err := codec.Issue("user-1", "USER", tokenx.KindAccess, tokenx.DefaultAccessTTL, 0)
		require.NoError(t, err)

		rec := doAuth(t, handler, "Bearer "+token)
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("role checked without authn is a 401", func(t *testing.T) {
		bare := Chain(echoPrincipal(), RequireRole("ADMIN"))
		rec := doAuth(t, bare, "")
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}
