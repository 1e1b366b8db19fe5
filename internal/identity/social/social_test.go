package social

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tabwriterlabs/identity/internal/identity/domain"
)

func TestRegistryUnknownProvider(t *testing.T) {
	r := NewRegistry()
	_, err := r.Verify(context.Background(), domain.ProviderGoogle, "token")
	assert.ErrorIs(t, err, ErrUnknownProvider)
}

func TestGoogleVerifier(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer good-token" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"email":"alice@example.com","email_verified":true,"name":"Alice"}`))
	}))
	defer srv.Close()

	v := &GoogleVerifier{client: srv.Client(), url: srv.URL}

	profile, err := v.Verify(context.Background(), "good-token")
	require.NoError(t, err)
	assert.Equal(t, "alice@example.com", profile.Email)
	assert.Equal(t, "Alice", profile.Name)

	_, err = v.Verify(context.Background(), "bad-token")
	assert.ErrorIs(t, err, ErrAssertionInvalid)
}

func TestFacebookVerifier(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Query().Get("access_token") {
		case "good-token":
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"id":"42","name":"Bob","email":"bob@example.com"}`))
		case "no-email-token":
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"id":"42","name":"Bob"}`))
		default:
			w.WriteHeader(http.StatusBadRequest)
		}
	}))
	defer srv.Close()

	v := &FacebookVerifier{client: srv.Client(), url: srv.URL}

	profile, err := v.Verify(context.Background(), "good-token")
	require.NoError(t, err)
	assert.Equal(t, "bob@example.com", profile.Email)

	_, err = v.Verify(context.Background(), "no-email-token")
	assert.ErrorIs(t, err, ErrNoEmail)

	_, err = v.Verify(context.Background(), "bad-token")
	assert.ErrorIs(t, err, ErrAssertionInvalid)
}

func TestLinkedInVerifier(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer good-token" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"email":"carol@example.com","name":"Carol"}`))
	}))
	defer srv.Close()

	v := &LinkedInVerifier{client: srv.Client(), url: srv.URL}

	profile, err := v.Verify(context.Background(), "good-token")
	require.NoError(t, err)
	assert.Equal(t, "carol@example.com", profile.Email)

	_, err = v.Verify(context.Background(), "expired")
	assert.ErrorIs(t, err, ErrAssertionInvalid)
}
