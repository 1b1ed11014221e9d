//go:build acceptance
// +build acceptance

package acceptance

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/networkteam/shopcheck/pages"
)

func TestSmokeCritical_Login(t *testing.T) {
	t.Parallel()

	t.Run("valid credentials", func(t *testing.T) {
		t.Parallel()
		_, home := openHome(t)

		login, err := pages.Loaded(home.GoToLogin())
		require.NoError(t, err, "login page should be loaded")

		user := testData().Users.Valid
		account, err := login.Login(user.Email, user.Password)
		require.NoError(t, err)

		assert.True(t, account.IsLoggedIn(), "user should be logged in")
	})

	t.Run("invalid credentials", func(t *testing.T) {
		t.Parallel()
		_, home := openHome(t)

		login, err := pages.Loaded(home.GoToLogin())
		require.NoError(t, err, "login page should be loaded")

		user := testData().Users.Invalid
		_, err = login.Login(user.Email, user.Password)
		require.NoError(t, err)

		require.True(t, login.IsErrorDisplayed(), "error message should be displayed")
		msg := login.ErrorMessage()
		assert.True(t, pages.ContainsFold(msg, "warning", "no match"), "unexpected error message %q", msg)
	})

	t.Run("empty credentials", func(t *testing.T) {
		t.Parallel()
		_, home := openHome(t)

		login, err := pages.Loaded(home.GoToLogin())
		require.NoError(t, err, "login page should be loaded")

		_, err = login.Login("", "")
		require.NoError(t, err)

		assert.True(t, login.IsErrorDisplayed(), "error message should be displayed")
	})

	t.Run("logout", func(t *testing.T) {
		t.Parallel()
		_, home := openHome(t)
		account := loginAsValidUser(t, home)

		home, err := pages.Loaded(account.Logout())
		require.NoError(t, err, "home page should be loaded after logout")

		assert.False(t, home.IsUserLoggedIn(), "user should be logged out")
	})
}
