package wizard

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCallback(t *testing.T) {
	cb, err := ParseCallback("http://localhost:5173/oauth-callback?token=abc&provider=google&needsPasswordSetup=true&userType=jobseeker&state=gulf")
	require.NoError(t, err)
	assert.Equal(t, &Callback{
		Token:              "abc",
		Provider:           "google",
		UserType:           "jobseeker",
		State:              "gulf",
		NeedsPasswordSetup: true,
		Flavor:             FlavorJobseeker,
	}, cb)

	cb, err = ParseCallback("http://localhost:5173/employer-oauth-callback/?token=abc&userType=employer&state=employer")
	require.NoError(t, err)
	assert.Equal(t, FlavorEmployer, cb.Flavor)
	assert.False(t, cb.NeedsPasswordSetup)

	cb, err = ParseCallback("http://localhost:5173/employer-login?error=employer_setup_failed")
	require.NoError(t, err)
	assert.Equal(t, "employer_setup_failed", cb.Error)
	assert.Empty(t, cb.Token)

	_, err = ParseCallback("")
	assert.Error(t, err)
	_, err = ParseCallback("http://[::1")
	assert.Error(t, err)
}

func TestFlavorLoginPath(t *testing.T) {
	assert.Equal(t, "/login", FlavorJobseeker.LoginPath())
	assert.Equal(t, "/employer-login", FlavorEmployer.LoginPath())
	assert.Equal(t, FlavorEmployer, flavorFor("admin"))
	assert.Equal(t, FlavorJobseeker, flavorFor(""))
}
