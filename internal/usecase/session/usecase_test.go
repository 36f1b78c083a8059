package session

import (
	"context"
	"errors"
	"testing"

	"altrion-client/internal/adapter/repository/redisstore"
	"altrion-client/internal/domain/apperr"
	"altrion-client/internal/domain/form"
	domain "altrion-client/internal/domain/session"
	"altrion-client/internal/store"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeAuthAPI struct {
	loginErr  error
	meErr     error
	logoutHit int
}

func (f *fakeAuthAPI) Login(_ context.Context, in form.Login) (*domain.AuthResponse, error) {
	if f.loginErr != nil {
		return nil, f.loginErr
	}
	return &domain.AuthResponse{
		User:   domain.User{ID: "u1", Email: in.Email, Name: "Ada Lovelace", DisplayName: "Ada"},
		Tokens: domain.Tokens{AccessToken: "tok-1"},
	}, nil
}

func (f *fakeAuthAPI) Signup(_ context.Context, in form.Signup) (*domain.AuthResponse, error) {
	return &domain.AuthResponse{
		User:   domain.User{ID: "u2", Email: in.Email, Name: in.Name},
		Tokens: domain.Tokens{AccessToken: "tok-2"},
	}, nil
}

func (f *fakeAuthAPI) Logout(context.Context) { f.logoutHit++ }

func (f *fakeAuthAPI) Me(context.Context) (*domain.User, error) {
	if f.meErr != nil {
		return nil, f.meErr
	}
	return &domain.User{ID: "u1", Email: "ada@example.com", Name: "Ada King"}, nil
}

func (f *fakeAuthAPI) OAuthURL(p domain.OAuthProvider) (string, error) {
	if !p.Valid() {
		return "", apperr.NewValidationError("provider", "bad")
	}
	return "http://api/auth/" + string(p), nil
}

func (f *fakeAuthAPI) ForgotPassword(context.Context, form.ForgotPassword) error { return nil }

func (f *fakeAuthAPI) ResetPassword(context.Context, form.ResetPassword) error { return nil }

type fixture struct {
	uc     *Usecase
	api    *fakeAuthAPI
	auth   *store.AuthStore
	prefs  *store.PrefsStore
	resets int
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	kv := redisstore.NewDocumentStore(rdb, "")

	f := &fixture{api: &fakeAuthAPI{}, auth: store.NewAuthStore(kv, nil), prefs: store.NewPrefsStore(kv)}
	f.uc = NewUsecase(f.api, f.auth, f.prefs, nil, ResetFunc(func(context.Context) error {
		f.resets++
		return nil
	}))
	return f
}

var login = form.Login{Email: "ada@example.com", Password: "Secret123"}

func TestLogin_FirstTimeGoesToOnboarding(t *testing.T) {
	f := newFixture(t)
	res, err := f.uc.Login(context.Background(), login)
	require.NoError(t, err)
	assert.Equal(t, RouteOnboarding, res.Redirect)
	assert.True(t, res.Session.IsAuthenticated)
	assert.Equal(t, "tok-1", f.auth.Token())
	assert.False(t, f.auth.State().IsLoading)
}

func TestLogin_WithDisplayNameGoesToDashboard(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.prefs.SetDisplayName(context.Background(), "Ada"))
	res, err := f.uc.Login(context.Background(), login)
	require.NoError(t, err)
	assert.Equal(t, RouteDashboard, res.Redirect)
}

func TestLogin_FailureRecordsMessage(t *testing.T) {
	f := newFixture(t)
	f.api.loginErr = apperr.NewAPIError(401, "", map[string]any{"message": "Invalid credentials"})

	_, err := f.uc.Login(context.Background(), login)
	require.Error(t, err)
	st := f.auth.State()
	assert.False(t, st.IsAuthenticated)
	assert.False(t, st.IsLoading)
	assert.Equal(t, "Invalid credentials", st.Error)
}

func TestSignupThenOnboard(t *testing.T) {
	f := newFixture(t)
	res, err := f.uc.Signup(context.Background(), form.Signup{
		Name: "Grace Hopper", Email: "grace@example.com", Password: "Secret123", ConfirmPassword: "Secret123",
	})
	require.NoError(t, err)
	assert.Equal(t, RouteOnboarding, res.Redirect)

	_, err = f.uc.Onboard(context.Background(), form.Onboarding{DisplayName: "G"})
	var verr *apperr.ValidationError
	require.ErrorAs(t, err, &verr)

	res, err = f.uc.Onboard(context.Background(), form.Onboarding{DisplayName: " Grace "})
	require.NoError(t, err)
	assert.True(t, res.Session.HasCompletedOnboarding)
	name, err := f.uc.DisplayName(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Grace", name)
}

func TestLogout_ClearsLocalState(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	_, err := f.uc.Login(ctx, login)
	require.NoError(t, err)
	require.NoError(t, f.prefs.SetDisplayName(ctx, "Ada"))
	_, err = f.prefs.MergeConnectedAccounts(ctx, []string{"chase"})
	require.NoError(t, err)

	res, err := f.uc.Logout(ctx)
	require.NoError(t, err)
	assert.Equal(t, RouteLogin, res.Redirect)
	assert.Equal(t, 1, f.api.logoutHit)
	assert.Equal(t, 1, f.resets)
	assert.False(t, f.auth.IsAuthenticated())
	name, _ := f.prefs.DisplayName(ctx)
	assert.Empty(t, name)
	ids, _ := f.prefs.ConnectedAccounts(ctx)
	assert.Empty(t, ids)
}

func TestLogout_ReportsResetFailure(t *testing.T) {
	f := newFixture(t)
	boom := errors.New("redis gone")
	f.uc.resets = append(f.uc.resets, ResetFunc(func(context.Context) error { return boom }))

	_, err := f.uc.Logout(context.Background())
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 1, f.resets)
}

func TestMe_UnauthorizedSignsOut(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	_, err := f.uc.Login(ctx, login)
	require.NoError(t, err)

	u, err := f.uc.Me(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Ada King", u.Name)
	assert.Equal(t, "Ada King", f.auth.Session().User.Name)

	f.api.meErr = apperr.NewAPIError(401, "", nil)
	_, err = f.uc.Me(ctx)
	require.Error(t, err)
	assert.False(t, f.auth.IsAuthenticated())
}

func TestOAuthURL(t *testing.T) {
	f := newFixture(t)
	url, err := f.uc.OAuthURL("GitHub")
	require.NoError(t, err)
	assert.Equal(t, "http://api/auth/github", url)

	_, err = f.uc.OAuthURL("myspace")
	assert.Error(t, err)
}
