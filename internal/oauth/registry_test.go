package oauth

import (
	"testing"

	"jobportal/internal/config"
	"jobportal/internal/featureflags"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseIntent(t *testing.T) {
	tests := map[string]Intent{
		"employer":   IntentEmployer,
		" EMPLOYER ": IntentEmployer,
		"gulf":       IntentGulf,
		"":           IntentNone,
		"admin":      IntentNone,
	}
	for raw, want := range tests {
		assert.Equal(t, want, ParseIntent(raw), raw)
	}
	assert.True(t, IntentEmployer.IsEmployer())
	assert.False(t, IntentGulf.IsEmployer())
}

func TestRegistryFromConfig(t *testing.T) {
	full := &config.Config{
		GoogleClientID:       "g",
		GoogleClientSecret:   "gs",
		GoogleRedirectURL:    "http://localhost/api/oauth/google/callback",
		FacebookClientID:     "f",
		FacebookClientSecret: "fs",
		FacebookRedirectURL:  "http://localhost/api/oauth/facebook/callback",
	}

	tests := []struct {
		name  string
		cfg   *config.Config
		flags string
		want  []string
	}{
		{"Both Enabled", full, "oauth_facebook=on", []string{Facebook, Google}},
		{"Facebook Flag Off", full, "oauth_facebook=off", []string{Google}},
		{"Facebook Flag Missing", full, "", []string{Google}},
		{"Nothing Configured", &config.Config{}, "oauth_facebook=on", []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := RegistryFromConfig(tt.cfg, featureflags.NewManager(tt.flags))
			assert.Equal(t, tt.want, r.Names())
		})
	}
}

func TestRegistry_Get(t *testing.T) {
	r := NewRegistry(NewGoogle(ProviderConfig{ClientID: "c", ClientSecret: "s", RedirectURL: "http://x"}))

	p, err := r.Get(" Google ")
	require.NoError(t, err)
	assert.Equal(t, Google, p.Name())

	_, err = r.Get("facebook")
	assert.ErrorIs(t, err, ErrProviderDisabled)

	_, err = r.Get("github")
	assert.ErrorIs(t, err, ErrUnknownProvider)
}
