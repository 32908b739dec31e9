package identity

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStaticProviderSignInAndOut(t *testing.T) {
	p := NewStaticProvider(Account{ID: "acct-1", Email: "ru@example.com"})

	require.Nil(t, p.Current())

	a, err := p.SignIn(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "acct-1", a.ID)
	require.NotNil(t, p.Current())

	require.NoError(t, p.SignOut())
	assert.Nil(t, p.Current())
}

func TestOnAuthChangeDeliversCurrentStateImmediately(t *testing.T) {
	p := NewStaticProvider(Account{ID: "acct-1"})
	_, err := p.SignIn(context.Background())
	require.NoError(t, err)

	var got []*Account
	cancel := p.OnAuthChange(func(a *Account) { got = append(got, a) })
	defer cancel()

	require.Len(t, got, 1)
	assert.Equal(t, "acct-1", got[0].ID)
}

func TestOnAuthChangeNotifiesOnTransitions(t *testing.T) {
	p := NewStaticProvider(Account{ID: "acct-1"})

	var got []*Account
	cancel := p.OnAuthChange(func(a *Account) { got = append(got, a) })
	defer cancel()

	_, err := p.SignIn(context.Background())
	require.NoError(t, err)
	require.NoError(t, p.SignOut())

	// Initial nil state, then the sign-in, then the sign-out.
	require.Len(t, got, 3)
	assert.Nil(t, got[0])
	assert.NotNil(t, got[1])
	assert.Nil(t, got[2])
}

func TestOnAuthChangeCancelStopsDelivery(t *testing.T) {
	p := NewStaticProvider(Account{ID: "acct-1"})

	calls := 0
	cancel := p.OnAuthChange(func(*Account) { calls++ })
	cancel()

	_, err := p.SignIn(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, calls)
}

func TestIsAuthError(t *testing.T) {
	authErr := &AuthError{Message: "access_denied"}

	assert.True(t, IsAuthError(authErr))
	assert.True(t, IsAuthError(fmt.Errorf("sign-in: %w", authErr)))
	assert.False(t, IsAuthError(errors.New("network down")))
	assert.False(t, IsAuthError(nil))
}
