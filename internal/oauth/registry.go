package oauth

import (
	"fmt"
	"sort"
	"strings"

	"jobportal/internal/config"
	"jobportal/internal/featureflags"
)

// Registry holds the providers enabled for this deployment.
type Registry struct {
	providers map[string]Provider
}

// NewRegistry returns an empty registry.
func NewRegistry(providers ...Provider) *Registry {
	r := &Registry{providers: make(map[string]Provider)}
	for _, p := range providers {
		r.Register(p)
	}
	return r
}

// RegistryFromConfig enables Google when its credentials are configured and
// Facebook when its credentials are configured and the oauth_facebook flag is on.
func RegistryFromConfig(cfg *config.Config, flags *featureflags.Manager) *Registry {
	r := NewRegistry()
	if cfg.GoogleEnabled() {
		r.Register(NewGoogle(ProviderConfig{
			ClientID:     cfg.GoogleClientID,
			ClientSecret: cfg.GoogleClientSecret,
			RedirectURL:  cfg.GoogleRedirectURL,
		}))
	}
	if cfg.FacebookEnabled() && flags.Globally(featureflags.OAuthFacebook) {
		r.Register(NewFacebook(ProviderConfig{
			ClientID:     cfg.FacebookClientID,
			ClientSecret: cfg.FacebookClientSecret,
			RedirectURL:  cfg.FacebookRedirectURL,
		}))
	}
	return r
}

func (r *Registry) Register(p Provider) {
	r.providers[p.Name()] = p
}

// Get returns the named provider. Known but unconfigured providers yield
// ErrProviderDisabled so callers can tell a typo from a deployment gap.
func (r *Registry) Get(name string) (Provider, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	if p, ok := r.providers[name]; ok {
		return p, nil
	}
	switch name {
	case Google, Facebook:
		return nil, fmt.Errorf("%w: %s", ErrProviderDisabled, name)
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownProvider, name)
}

// Names lists enabled providers in sorted order.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.providers))
	for name := range r.providers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
