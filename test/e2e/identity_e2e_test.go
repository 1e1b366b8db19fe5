package e2e

import (
	"context"
	"io"
	"log/slog"
	"net/http/httptest"
	"path/filepath"
	"regexp"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	httpapi "github.com/tabwriterlabs/identity/internal/identity/http"
	"github.com/tabwriterlabs/identity/internal/identity/service"
	"github.com/tabwriterlabs/identity/internal/identity/social"
	"github.com/tabwriterlabs/identity/internal/identity/store/drivers/sqlite"
	"github.com/tabwriterlabs/identity/pkg/cryptox"
	"github.com/tabwriterlabs/identity/pkg/httpx"
	"github.com/tabwriterlabs/identity/pkg/identsdk"
	"github.com/tabwriterlabs/identity/pkg/mailx"
	"github.com/tabwriterlabs/identity/pkg/tokenx"
)

// mailbox collects outgoing mail for the whole suite.
type mailbox struct {
	mu       sync.Mutex
	messages []mailx.Message
}

func (m *mailbox) Send(_ context.Context, msg mailx.Message) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.messages = append(m.messages, msg)
	return nil
}

var tokenLinkRe = regexp.MustCompile(`token=([A-Za-z0-9._~-]+)`)

func (m *mailbox) lastToken(t *testing.T) string {
	t.Helper()
	m.mu.Lock()
	defer m.mu.Unlock()
	require.NotEmpty(t, m.messages)
	match := tokenLinkRe.FindStringSubmatch(m.messages[len(m.messages)-1].HTML)
	require.Len(t, match, 2)
	return match[1]
}

type env struct {
	client *identsdk.Client
	mail   *mailbox
	server *httptest.Server
}

func newEnv(t *testing.T) *env {
	t.Helper()
	cryptox.SetPepperPath(filepath.Join(t.TempDir(), "pepper"))

	relaxed := httpx.RateLimitConfig{RequestsPerWindow: 10000, Window: time.Minute, Burst: 10000}
	restoreStrict, restoreModerate := httpx.StrictLimit, httpx.ModerateLimit
	httpx.StrictLimit, httpx.ModerateLimit = relaxed, relaxed
	t.Cleanup(func() { httpx.StrictLimit, httpx.ModerateLimit = restoreStrict, restoreModerate })

	st, err := sqlite.NewStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })
	require.NoError(t, st.ApplyMigrations())

	sessionCodec, err := tokenx.NewCodec([]byte("e2e-session-secret-0123456789abcdef"), "identity-e2e")
	require.NoError(t, err)
	purposeCodec, err := tokenx.NewCodec([]byte("e2e-purpose-secret-0123456789abcdef"), "identity-e2e")
	require.NoError(t, err)

	mail := &mailbox{}
	authSvc := &service.AuthService{
		Store:        st,
		SessionCodec: sessionCodec,
		PurposeCodec: purposeCodec,
		Social:       social.NewRegistry(),
		Mail:         mail,
		FrontendURL:  "https://app.example.com",
		AccessTTL:    tokenx.DefaultAccessTTL,
		RefreshTTL:   tokenx.DefaultRefreshTTL,
		PurposeTTL:   tokenx.DefaultPurposeTTL,
	}

	boot := &service.BootstrapService{
		Store:         st,
		AdminEmail:    "admin@example.com",
		AdminName:     "Admin",
		AdminPassword: "Adm1npassword",
	}
	require.NoError(t, boot.EnsureAdmin(context.Background()))

	router := httpapi.NewRouter(sessionCodec, "e2e", st, slog.New(slog.NewTextHandler(io.Discard, nil)))
	router.AuthService = authSvc
	router.UserService = &service.UserService{Store: st}
	router.ApplyRoutes()

	server := httptest.NewServer(router)
	t.Cleanup(server.Close)

	return &env{
		client: identsdk.NewClient(server.URL),
		mail:   mail,
		server: server,
	}
}

func TestRegisterLoginRefreshLogout(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	session, err := e.client.Register(ctx, "alice@example.com", "Alice", "Sup3rsecret")
	require.NoError(t, err)
	assert.Equal(t, "alice@example.com", session.User().Email)
	assert.Equal(t, "USER", session.User().Role)

	me, err := session.Me(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Alice", me.Name)

	// A fresh login replaces the stored session.
	login, err := e.client.Login(ctx, "alice@example.com", "Sup3rsecret")
	require.NoError(t, err)

	_, refresh, err := login.Tokens(ctx)
	require.NoError(t, err)

	rotated, err := e.client.Refresh(ctx, refresh)
	require.NoError(t, err)
	assert.NotEqual(t, refresh, rotated.RefreshToken)

	// The consumed refresh token is dead.
	_, err = e.client.Refresh(ctx, refresh)
	var apiErr *identsdk.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, 401, apiErr.StatusCode)

	// Logout, then the rotated token dies too.
	relogin, err := e.client.Login(ctx, "alice@example.com", "Sup3rsecret")
	require.NoError(t, err)
	require.NoError(t, relogin.Logout(ctx))

	_, rotatedRefresh, _ := relogin.Tokens(ctx)
	_, err = e.client.Refresh(ctx, rotatedRefresh)
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, 401, apiErr.StatusCode)
}

func TestWrongCredentials(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	_, err := e.client.Login(ctx, "admin@example.com", "wrong-password")
	var apiErr *identsdk.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, 401, apiErr.StatusCode)

	// Unknown email is indistinguishable from a wrong password.
	_, err2 := e.client.Login(ctx, "ghost@example.com", "wrong-password")
	var apiErr2 *identsdk.APIError
	require.ErrorAs(t, err2, &apiErr2)
	assert.Equal(t, apiErr.StatusCode, apiErr2.StatusCode)
	assert.Equal(t, apiErr.Message, apiErr2.Message)
}

func TestPasswordRecoveryJourney(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	_, err := e.client.Register(ctx, "bob@example.com", "Bob", "Or1ginalpass")
	require.NoError(t, err)

	require.NoError(t, e.client.ForgotPassword(ctx, "bob@example.com"))
	token := e.mail.lastToken(t)

	require.NoError(t, e.client.ResetPassword(ctx, token, "Fr3shpassword"))

	// Old password is gone, new one works.
	_, err = e.client.Login(ctx, "bob@example.com", "Or1ginalpass")
	assert.Error(t, err)

	_, err = e.client.Login(ctx, "bob@example.com", "Fr3shpassword")
	require.NoError(t, err)

	// Token burns on first use.
	err = e.client.ResetPassword(ctx, token, "Th1rdpassword")
	var apiErr *identsdk.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, 401, apiErr.StatusCode)
}

func TestInvitationJourney(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	admin, err := e.client.Login(ctx, "admin@example.com", "Adm1npassword")
	require.NoError(t, err)

	invited, err := admin.InviteUser(ctx, "carol@example.com", "Carol", "USER")
	require.NoError(t, err)
	assert.False(t, invited.Active)

	token := e.mail.lastToken(t)

	session, err := e.client.AcceptInvitation(ctx, token, "Car0lpassword")
	require.NoError(t, err)
	assert.True(t, session.User().Active)

	// Second acceptance is rejected.
	_, err = e.client.AcceptInvitation(ctx, token, "Oth3rpassword")
	var apiErr *identsdk.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, 409, apiErr.StatusCode)
}

func TestAdminManagementJourney(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	userSession, err := e.client.Register(ctx, "dave@example.com", "Dave", "Dav3password")
	require.NoError(t, err)
	userID := userSession.User().ID

	admin, err := e.client.Login(ctx, "admin@example.com", "Adm1npassword")
	require.NoError(t, err)

	users, err := admin.ListUsers(ctx)
	require.NoError(t, err)
	assert.Len(t, users, 2)

	// Regular users cannot touch the admin surface.
	_, err = userSession.ListUsers(ctx)
	var apiErr *identsdk.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, 403, apiErr.StatusCode)

	// Block Dave; his session dies immediately.
	blocked, err := admin.UpdateUser(ctx, userID, identsdk.UpdateUserRequest{
		Name:    "Dave",
		Role:    "USER",
		Active:  true,
		Blocked: true,
	})
	require.NoError(t, err)
	assert.True(t, blocked.Blocked)

	_, err = userSession.Me(ctx)
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, 403, apiErr.StatusCode)

	_, err = e.client.Login(ctx, "dave@example.com", "Dav3password")
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, 403, apiErr.StatusCode)

	// Unblock and delete.
	_, err = admin.UpdateUser(ctx, userID, identsdk.UpdateUserRequest{
		Name: "Dave", Role: "USER", Active: true, Blocked: false,
	})
	require.NoError(t, err)

	require.NoError(t, admin.DeleteUser(ctx, userID))

	_, err = admin.GetUser(ctx, userID)
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, 404, apiErr.StatusCode)
}

func TestChangePasswordJourney(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	session, err := e.client.Register(ctx, "erin@example.com", "Erin", "Er1npassword")
	require.NoError(t, err)

	require.NoError(t, session.ChangePassword(ctx, "Er1npassword", "N3werinpass"))

	_, err = e.client.Login(ctx, "erin@example.com", "N3werinpass")
	require.NoError(t, err)
}

func TestHealthEndpoints(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	live, err := e.client.Livez(ctx)
	require.NoError(t, err)
	assert.Equal(t, "ok", live.Status)

	ready, err := e.client.Readyz(ctx)
	require.NoError(t, err)
	assert.Equal(t, "ok", ready.Status)
	require.NotNil(t, ready.Checks)
	assert.Equal(t, "ok", ready.Checks.Database)
}
