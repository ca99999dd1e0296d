package service

import (
	"context"
	"testing"
	"time"

	"enapm-backend/internal/clock"
	"enapm-backend/internal/fault"
	"enapm-backend/internal/repository/memory"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newUserFixture() (UserService, *memory.Store) {
	clk := clock.Fixed(time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC))
	store := memory.NewStore(clk)
	svc := NewUserService(memory.NewUnitOfWork(store), &FakeAuthService{})
	return svc, store
}

func TestSignupWithPassword(t *testing.T) {
	svc, store := newUserFixture()

	user, session, err := svc.SignupWithPassword(context.Background(), SignupCommand{
		Email: "a@example.com", Username: "alex", Password: "hunter2!",
	})
	require.NoError(t, err)
	assert.Equal(t, "a@example.com", user.Email)
	assert.Equal(t, "hashed:hunter2!", user.PasswordHash)
	assert.NotEmpty(t, session.Token)

	stored, err := store.Users.Find(context.Background(), user.Ref)
	require.NoError(t, err)
	assert.Equal(t, user.Email, stored.Email)
}

func TestSignupDuplicateEmail(t *testing.T) {
	svc, _ := newUserFixture()

	_, _, err := svc.SignupWithPassword(context.Background(), SignupCommand{
		Email: "a@example.com", Username: "alex", Password: "hunter2!",
	})
	require.NoError(t, err)

	_, _, err = svc.SignupWithPassword(context.Background(), SignupCommand{
		Email: "A@Example.com", Username: "other", Password: "hunter3!",
	})
	assert.ErrorIs(t, err, fault.ErrEmailAlreadyUsed)
}

func TestLoginWithPassword(t *testing.T) {
	svc, _ := newUserFixture()

	_, _, err := svc.SignupWithPassword(context.Background(), SignupCommand{
		Email: "a@example.com", Username: "alex", Password: "hunter2!",
	})
	require.NoError(t, err)

	user, session, err := svc.LoginWithPassword(context.Background(), "a@example.com", "hunter2!")
	require.NoError(t, err)
	assert.Equal(t, "a@example.com", user.Email)
	assert.NotEmpty(t, session.Token)
}

func TestLoginDoesNotRevealWhichPartFailed(t *testing.T) {
	svc, _ := newUserFixture()

	_, _, err := svc.SignupWithPassword(context.Background(), SignupCommand{
		Email: "a@example.com", Username: "alex", Password: "hunter2!",
	})
	require.NoError(t, err)

	_, _, wrongPassword := svc.LoginWithPassword(context.Background(), "a@example.com", "nope")
	_, _, unknownEmail := svc.LoginWithPassword(context.Background(), "b@example.com", "hunter2!")

	assert.ErrorIs(t, wrongPassword, fault.ErrIncorrectCredentials)
	assert.ErrorIs(t, unknownEmail, fault.ErrIncorrectCredentials)
	assert.Equal(t, wrongPassword.Error(), unknownEmail.Error())
}
