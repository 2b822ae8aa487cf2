package auth_test

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/jrsteele09/lankaconnect-client/apierror"
	"github.com/jrsteele09/lankaconnect-client/auth"
	"github.com/jrsteele09/lankaconnect-client/auth/sessions"
	"github.com/jrsteele09/lankaconnect-client/auth/sessions/repofakes"
	"github.com/jrsteele09/lankaconnect-client/internal/errors"
	"github.com/jrsteele09/lankaconnect-client/internal/mockapi"
	"github.com/jrsteele09/lankaconnect-client/transport"
	"github.com/jrsteele09/lankaconnect-client/users"
	"github.com/stretchr/testify/require"
)

const (
	testEmail    = "nimal@example.com"
	testPassword = "vesak-lanterns"
)

var (
	loginRoute   = "POST " + mockapi.RouteAuthLogin
	refreshRoute = "POST " + mockapi.RouteAuthRefresh
	logoutRoute  = "POST " + mockapi.RouteAuthLogout
	profileRoute = "GET " + mockapi.RouteAuthProfile
)

type testFixture struct {
	api     *mockapi.Server
	baseURL string
	store   *repofakes.FakeStore
	client  *transport.Client
	session *auth.Session
	user    users.User
}

func setupTestFixture(t *testing.T, opts ...mockapi.Option) *testFixture {
	api, ts := mockapi.Start(t, opts...)
	u, err := api.AddUser(mockapi.SeedUser{Email: testEmail, Password: testPassword, FirstName: "Nimal", LastName: "Perera"})
	require.NoError(t, err)

	f := &testFixture{api: api, baseURL: ts.URL + mockapi.BasePath, store: repofakes.NewFakeStore(), user: u}
	f.client, f.session = f.newSession()
	return f
}

// newSession builds a second process's view of the same store and server.
func (f *testFixture) newSession(opts ...auth.SessionOption) (*transport.Client, *auth.Session) {
	client := transport.New(transport.Config{BaseURL: f.baseURL, Timeout: 5 * time.Second})
	return client, auth.NewSession(client, f.store, opts...)
}

func (f *testFixture) login(t *testing.T) {
	t.Helper()
	_, err := f.session.Login(context.Background(), auth.LoginRequest{Email: testEmail, Password: testPassword})
	require.NoError(t, err)
}

func TestLoginPersistsSession(t *testing.T) {
	f := setupTestFixture(t)

	u, err := f.session.Login(context.Background(), auth.LoginRequest{Email: testEmail, Password: testPassword})
	require.NoError(t, err)
	require.Equal(t, f.user.UserID, u.UserID)

	st := f.session.State()
	require.True(t, st.IsAuthenticated())
	require.Equal(t, st.AccessToken, f.client.AuthToken())

	saved := f.store.Snapshot()
	require.Equal(t, st.AccessToken, saved[sessions.KeyAccessToken])
	require.Equal(t, st.RefreshToken, saved[sessions.KeyRefreshToken])
	var savedUser users.User
	require.NoError(t, json.Unmarshal([]byte(saved[sessions.KeyUser]), &savedUser))
	require.Equal(t, "Nimal Perera", savedUser.DisplayName())
}

func TestLoginValidatesLocally(t *testing.T) {
	f := setupTestFixture(t)

	_, err := f.session.Login(context.Background(), auth.LoginRequest{Email: "not-an-email", Password: ""})
	require.ErrorIs(t, err, apierror.ErrValidation)
	apiErr, _ := apierror.As(err)
	require.ElementsMatch(t, []string{"email", "password"}, apiErr.Fields())
	require.Equal(t, 0, f.api.Calls(loginRoute))
	require.False(t, f.session.IsAuthenticated())
}

func TestLoginFailureLeavesSessionEmpty(t *testing.T) {
	f := setupTestFixture(t)

	_, err := f.session.Login(context.Background(), auth.LoginRequest{Email: testEmail, Password: "wrong-password"})
	require.ErrorIs(t, err, apierror.ErrUnauthorized)
	require.False(t, f.session.IsAuthenticated())
	require.Empty(t, f.store.Snapshot())
}

func TestLoginSurvivesStoreFailure(t *testing.T) {
	f := setupTestFixture(t)
	f.store.SetFailing(true)

	f.login(t)
	require.True(t, f.session.IsAuthenticated())
}

func TestLogoutClearsEvenWhenServerFails(t *testing.T) {
	f := setupTestFixture(t)
	f.login(t)

	f.api.FailNext(logoutRoute, http.StatusInternalServerError)
	require.NoError(t, f.session.Logout(context.Background()))

	require.Equal(t, 1, f.api.Calls(logoutRoute))
	require.False(t, f.session.IsAuthenticated())
	require.Empty(t, f.client.AuthToken())
	require.Empty(t, f.store.Snapshot())
}

func TestRehydrate(t *testing.T) {
	f := setupTestFixture(t)

	client, other := f.newSession()
	ok, err := other.Rehydrate()
	require.NoError(t, err)
	require.False(t, ok)

	f.login(t)
	ok, err = other.Rehydrate()
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, f.session.State(), other.State())
	require.Equal(t, f.client.AuthToken(), client.AuthToken())

	_, err = auth.NewRepository(client).GetProfile(context.Background())
	require.NoError(t, err)
}

func TestRehydrateDropsExpiredSessionWithoutRefreshToken(t *testing.T) {
	f := setupTestFixture(t)
	f.login(t)
	require.NoError(t, f.store.Remove(sessions.KeyRefreshToken))

	later := func() time.Time { return time.Now().Add(2 * time.Hour) }
	client, other := f.newSession(auth.WithClock(later))
	ok, err := other.Rehydrate()
	require.NoError(t, err)
	require.False(t, ok)
	require.Empty(t, client.AuthToken())
	require.NotEmpty(t, f.store.Snapshot()[sessions.KeyAccessToken], "rehydrate never writes the store")
}

func TestRehydrateReportsStoreFailure(t *testing.T) {
	f := setupTestFixture(t)
	f.store.SetFailing(true)

	_, err := f.session.Rehydrate()
	require.ErrorIs(t, err, errors.ErrStoreUnavailable)
}

func TestUnauthorizedRefreshesAndRetries(t *testing.T) {
	f := setupTestFixture(t)
	f.login(t)
	before := f.session.State()

	f.api.RevokeAccessTokens()
	profile, err := f.session.Repository().GetProfile(context.Background())
	require.NoError(t, err)
	require.Equal(t, testEmail, profile.Email)

	require.Equal(t, 1, f.api.Calls(refreshRoute))
	require.Equal(t, 2, f.api.Calls(profileRoute))

	after := f.session.State()
	require.NotEqual(t, before.AccessToken, after.AccessToken)
	require.NotEqual(t, before.RefreshToken, after.RefreshToken)
	require.Equal(t, after.AccessToken, f.client.AuthToken())
	require.Equal(t, after.AccessToken, f.store.Snapshot()[sessions.KeyAccessToken])
}

func TestConcurrentRefreshesShareOneRequest(t *testing.T) {
	f := setupTestFixture(t)
	f.login(t)
	f.api.RevokeAccessTokens()
	release := f.api.Hold(refreshRoute)

	const callers = 5
	var (
		wg      sync.WaitGroup
		started sync.WaitGroup
		tokens  = make([]string, callers)
		errs    = make([]error, callers)
	)
	started.Add(callers)
	for i := range callers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			started.Done()
			tokens[i], errs[i] = f.session.Refresh(context.Background())
		}()
	}
	started.Wait()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	require.NoError(t, f.api.WaitForCalls(ctx, refreshRoute, 1))
	time.Sleep(50 * time.Millisecond)
	release()
	wg.Wait()

	require.Equal(t, 1, f.api.Calls(refreshRoute))
	for i := range callers {
		require.NoError(t, errs[i])
		require.Equal(t, tokens[0], tokens[i])
	}
}

func TestFailedRefreshClearsSession(t *testing.T) {
	f := setupTestFixture(t)
	f.login(t)

	f.api.RevokeAccessTokens()
	f.api.RevokeRefreshTokens()
	_, err := f.session.Repository().GetProfile(context.Background())
	require.ErrorIs(t, err, apierror.ErrUnauthorized)

	require.Equal(t, 1, f.api.Calls(refreshRoute))
	require.False(t, f.session.IsAuthenticated())
	require.Empty(t, f.client.AuthToken())
	require.Empty(t, f.store.Snapshot())
}

func TestRefreshWithoutRefreshToken(t *testing.T) {
	f := setupTestFixture(t)

	_, err := f.session.Refresh(context.Background())
	require.ErrorIs(t, err, errors.ErrNoRefreshToken)
	require.Equal(t, 0, f.api.Calls(refreshRoute))
}

func TestEnsureFresh(t *testing.T) {
	t.Run("long lived token is left alone", func(t *testing.T) {
		f := setupTestFixture(t)
		f.login(t)
		require.NoError(t, f.session.EnsureFresh(context.Background()))
		require.Equal(t, 0, f.api.Calls(refreshRoute))
	})

	t.Run("token inside the leeway is refreshed", func(t *testing.T) {
		f := setupTestFixture(t, mockapi.WithAccessTokenTTL(auth.RefreshLeeway-time.Minute))
		f.login(t)
		require.NoError(t, f.session.EnsureFresh(context.Background()))
		require.Equal(t, 1, f.api.Calls(refreshRoute))
	})

	t.Run("signed out", func(t *testing.T) {
		f := setupTestFixture(t)
		require.ErrorIs(t, f.session.EnsureFresh(context.Background()), errors.ErrNotAuthenticated)
	})
}

func TestUpdateUser(t *testing.T) {
	f := setupTestFixture(t)
	err := f.session.UpdateUser(func(u *users.User) { u.FirstName = "x" })
	require.ErrorIs(t, err, errors.ErrNotAuthenticated)

	f.login(t)
	require.NoError(t, f.session.UpdateUser(func(u *users.User) {
		u.PreferredMetroAreaIDs = []string{"39111111-1111-1111-1111-111111111001"}
	}))
	require.Len(t, f.session.User().PreferredMetroAreaIDs, 1)

	var saved users.User
	require.NoError(t, json.Unmarshal([]byte(f.store.Snapshot()[sessions.KeyUser]), &saved))
	require.Equal(t, f.session.User().PreferredMetroAreaIDs, saved.PreferredMetroAreaIDs)
}

func TestWatchStoreFollowsOtherProcesses(t *testing.T) {
	f := setupTestFixture(t)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- f.session.WatchStore(ctx) }()
	require.Eventually(t, func() bool { return f.store.Watching() == 1 }, time.Second, 5*time.Millisecond)

	access, refresh, err := f.api.IssueTokens(f.user.UserID)
	require.NoError(t, err)
	f.store.ExternalWrite(sessions.KeyRefreshToken, refresh)
	f.store.ExternalWrite(sessions.KeyAccessToken, access)
	require.True(t, f.session.IsAuthenticated())
	require.Equal(t, access, f.client.AuthToken())

	f.store.ExternalWrite(sessions.KeyAccessToken, "")
	require.False(t, f.session.IsAuthenticated())

	cancel()
	require.NoError(t, <-done)
}

type plainStore struct {
	sessions.Store
}

func TestWatchStoreUnsupported(t *testing.T) {
	client := transport.New(transport.DefaultConfig())
	s := auth.NewSession(client, plainStore{repofakes.NewFakeStore()})
	require.ErrorIs(t, s.WatchStore(context.Background()), errors.ErrUnsupported)
}
