package service

import (
	"context"
	"errors"
	"mapmyroute_backend/internal/config"
	"mapmyroute_backend/internal/identity"
	"mapmyroute_backend/internal/model"
	"mapmyroute_backend/internal/util"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeVerifier struct {
	tokens map[string]*identity.Identity
}

func (f fakeVerifier) Verify(_ context.Context, token string) (*identity.Identity, error) {
	if id, ok := f.tokens[token]; ok {
		return id, nil
	}
	return nil, errors.New("bad token")
}

func newAuth(t *testing.T, verifier identity.TokenVerifier) (*testEnv, *AuthService) {
	e := newEnv(t)
	cfg := &config.Config{JWT: config.JWTConfig{Secret: "test-secret", ExpireTime: time.Hour}}
	return e, NewAuthService(e.userRepo, cfg, verifier)
}

func TestRegisterAndLogin(t *testing.T) {
	_, auth := newAuth(t, nil)

	res, err := auth.Register("ada@example.com", "s3cret", "Ada")
	require.NoError(t, err)
	assert.NotEmpty(t, res.AccessToken)
	assert.Equal(t, "ada@example.com", res.User.Email)
	assert.Equal(t, "Ada", res.User.Name)

	_, err = auth.Register("ada@example.com", "other", "")
	assert.ErrorIs(t, err, util.ErrEmailRegistered)

	logged, err := auth.Login("ada@example.com", "s3cret")
	require.NoError(t, err)
	assert.Equal(t, res.User.ID, logged.User.ID)

	_, err = auth.Login("ada@example.com", "wrong")
	assert.ErrorIs(t, err, util.ErrInvalidCredentials)
	_, err = auth.Login("nobody@example.com", "s3cret")
	assert.ErrorIs(t, err, util.ErrInvalidCredentials)
}

func TestLoginRejectsPasswordlessAccount(t *testing.T) {
	e, auth := newAuth(t, nil)
	uid := "firebase-uid"
	require.NoError(t, e.userRepo.Create(&model.User{Email: model.NullableString("fb@example.com"), UID: &uid}))

	_, err := auth.Login("fb@example.com", "")
	assert.ErrorIs(t, err, util.ErrInvalidCredentials)
}

func TestResolveTokenWithJWT(t *testing.T) {
	e, auth := newAuth(t, nil)
	res, err := auth.Register("ada@example.com", "pw", "Ada")
	require.NoError(t, err)

	user, err := auth.ResolveToken(context.Background(), res.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, res.User.ID, user.ID)

	_, err = auth.ResolveToken(context.Background(), "garbage")
	assert.ErrorIs(t, err, util.ErrInvalidToken)

	ghost, err := util.GenerateJWT(&model.User{BaseModel: model.BaseModel{ID: 999}}, "test-secret", time.Hour)
	require.NoError(t, err)
	_, err = auth.ResolveToken(context.Background(), ghost)
	assert.ErrorIs(t, err, util.ErrUserNotFound)

	require.NoError(t, e.userRepo.DeleteWithData(res.User.ID))
	_, err = auth.ResolveToken(context.Background(), res.AccessToken)
	assert.ErrorIs(t, err, util.ErrUserNotFound)
}

func TestFirebaseLoginCreatesAndLinksUsers(t *testing.T) {
	verifier := fakeVerifier{tokens: map[string]*identity.Identity{
		"new":  {UID: "uid-new", Email: "new@example.com", EmailVerified: true, Name: "New", Picture: "http://pic"},
		"link": {UID: "uid-link", Email: "ada@example.com", EmailVerified: true, Name: "Ada", Picture: "http://ada"},
	}}
	_, auth := newAuth(t, verifier)

	created, err := auth.FirebaseLogin(context.Background(), "new")
	require.NoError(t, err)
	require.NotNil(t, created.UID)
	assert.Equal(t, "uid-new", *created.UID)
	assert.Equal(t, "http://pic", created.Picture)
	assert.Equal(t, "new@example.com", created.EmailAddress())

	again, err := auth.ResolveToken(context.Background(), "new")
	require.NoError(t, err)
	assert.Equal(t, created.ID, again.ID)

	registered, err := auth.Register("ada@example.com", "pw", "Ada")
	require.NoError(t, err)
	linked, err := auth.FirebaseLogin(context.Background(), "link")
	require.NoError(t, err)
	assert.Equal(t, registered.User.ID, linked.ID)
	assert.Equal(t, "uid-link", *linked.UID)

	_, err = auth.FirebaseLogin(context.Background(), "unknown")
	assert.ErrorIs(t, err, util.ErrInvalidToken)
}

func TestFirebaseUnverifiedEmailDoesNotLink(t *testing.T) {
	verifier := fakeVerifier{tokens: map[string]*identity.Identity{
		"intruder": {UID: "uid-intruder", Email: "victim@example.com", Name: "Mallory"},
	}}
	_, auth := newAuth(t, verifier)

	victim, err := auth.Register("victim@example.com", "pw", "Victim")
	require.NoError(t, err)

	user, err := auth.ResolveToken(context.Background(), "intruder")
	require.NoError(t, err)
	assert.NotEqual(t, victim.User.ID, user.ID)
	assert.Nil(t, user.Email)

	owner, err := auth.Login("victim@example.com", "pw")
	require.NoError(t, err)
	assert.Equal(t, victim.User.ID, owner.User.ID)

	stored, err := auth.UserRepo.FindByID(victim.User.ID)
	require.NoError(t, err)
	assert.Nil(t, stored.UID)
}

func TestFirebaseDoesNotRelinkAnotherUID(t *testing.T) {
	verifier := fakeVerifier{tokens: map[string]*identity.Identity{
		"first":  {UID: "uid-1", Email: "ada@example.com", EmailVerified: true},
		"second": {UID: "uid-2", Email: "ada@example.com", EmailVerified: true},
	}}
	_, auth := newAuth(t, verifier)

	first, err := auth.FirebaseLogin(context.Background(), "first")
	require.NoError(t, err)
	second, err := auth.FirebaseLogin(context.Background(), "second")
	require.NoError(t, err)
	assert.NotEqual(t, first.ID, second.ID)
	assert.Nil(t, second.Email)

	stored, err := auth.UserRepo.FindByID(first.ID)
	require.NoError(t, err)
	assert.Equal(t, "uid-1", *stored.UID)
}

func TestFirebaseUsersWithoutEmail(t *testing.T) {
	verifier := fakeVerifier{tokens: map[string]*identity.Identity{
		"phone":     {UID: "p1", Name: "Phone"},
		"anonymous": {UID: "p2"},
	}}
	_, auth := newAuth(t, verifier)

	first, err := auth.FirebaseLogin(context.Background(), "phone")
	require.NoError(t, err)
	second, err := auth.FirebaseLogin(context.Background(), "anonymous")
	require.NoError(t, err)
	assert.NotEqual(t, first.ID, second.ID)
	assert.Nil(t, second.Email)

	again, err := auth.ResolveToken(context.Background(), "anonymous")
	require.NoError(t, err)
	assert.Equal(t, second.ID, again.ID)
}

func TestDeleteAccountRemovesData(t *testing.T) {
	e := newEnv(t)
	u := e.user(t, "a@example.com")
	keep := e.user(t, "b@example.com")
	p := e.path(t, u.ID, model.Roadmap{Title: "Go"}, task(1, "a", model.TaskPending, nil))
	e.path(t, keep.ID, model.Roadmap{Title: "Keep"}, task(1, "b", model.TaskPending, nil))
	e.history.Record(u.ID, model.HistoryRoadmap, "in", "out")

	require.NoError(t, NewUserService(e.userRepo).DeleteAccount(u.ID))

	_, err := e.userRepo.FindByID(u.ID)
	assert.Error(t, err)
	tasks, err := e.planRepo.ListByPath(p.ID)
	require.NoError(t, err)
	assert.Empty(t, tasks)
	entries, err := e.history.List(u.ID)
	require.NoError(t, err)
	assert.Empty(t, entries)

	kept, err := e.planRepo.ListByUser(keep.ID)
	require.NoError(t, err)
	assert.Len(t, kept, 1)
}
