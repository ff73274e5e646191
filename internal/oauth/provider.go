// Package oauth adapts third-party identity providers to the login flow.
package oauth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"jobportal/internal/observability"

	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/oauth2"
)

// Provider names.
const (
	Google   = "google"
	Facebook = "facebook"
)

var (
	ErrUnknownProvider     = errors.New("unknown oauth provider")
	ErrProviderDisabled    = errors.New("oauth provider is not configured")
	ErrExchangeFailed      = errors.New("oauth code exchange failed")
	ErrProfileFetch        = errors.New("oauth profile request failed")
	ErrIncompleteProfile   = errors.New("oauth profile is missing id or email")
	ErrRefreshUnsupported  = errors.New("oauth provider does not issue refresh tokens")
	ErrMissingRefreshToken = errors.New("no refresh token stored")
)

// Profile is the verified identity returned by a provider.
type Profile struct {
	Provider       string
	ProviderUserID string
	Email          string
	DisplayName    string
	GivenName      string
	FamilyName     string
	PictureURL     string
	EmailVerified  bool
}

// Provider wraps one third-party OAuth flow.
type Provider interface {
	Name() string
	AuthCodeURL(state string) string
	Exchange(ctx context.Context, code string) (*oauth2.Token, error)
	FetchProfile(ctx context.Context, token *oauth2.Token) (*Profile, error)
	Refresh(ctx context.Context, token *oauth2.Token) (*oauth2.Token, error)
}

// ProviderConfig holds client credentials. Endpoint and ProfileURL default to the
// provider's public values when empty.
type ProviderConfig struct {
	ClientID     string
	ClientSecret string
	RedirectURL  string
	Endpoint     oauth2.Endpoint
	ProfileURL   string
	// HTTPClient is used for token and profile calls when set.
	HTTPClient *http.Client
}

type baseProvider struct {
	name       string
	config     *oauth2.Config
	profileURL string
	httpClient *http.Client
}

func newBase(name string, cfg ProviderConfig, endpoint oauth2.Endpoint, profileURL string, scopes []string) baseProvider {
	if cfg.Endpoint.AuthURL != "" || cfg.Endpoint.TokenURL != "" {
		endpoint = cfg.Endpoint
	}
	if cfg.ProfileURL != "" {
		profileURL = cfg.ProfileURL
	}
	return baseProvider{
		name: name,
		config: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			RedirectURL:  cfg.RedirectURL,
			Endpoint:     endpoint,
			Scopes:       scopes,
		},
		profileURL: profileURL,
		httpClient: cfg.HTTPClient,
	}
}

func (b baseProvider) Name() string { return b.name }

func (b baseProvider) clientContext(ctx context.Context) context.Context {
	if b.httpClient == nil {
		return ctx
	}
	return context.WithValue(ctx, oauth2.HTTPClient, b.httpClient)
}

func (b baseProvider) Exchange(ctx context.Context, code string) (*oauth2.Token, error) {
	ctx, span := observability.StartClientSpan(ctx, "oauth.exchange", attribute.String("oauth.provider", b.name))
	token, err := b.config.Exchange(b.clientContext(ctx), code)
	if err != nil {
		err = fmt.Errorf("%w: %s: %v", ErrExchangeFailed, b.name, err)
	}
	observability.EndSpan(span, err)
	return token, err
}

// fetchJSON GETs the profile endpoint with the token and decodes the body into dest.
func (b baseProvider) fetchJSON(ctx context.Context, token *oauth2.Token, dest any) (err error) {
	ctx, span := observability.StartClientSpan(ctx, "oauth.profile", attribute.String("oauth.provider", b.name))
	defer func() { observability.EndSpan(span, err) }()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, b.profileURL, nil)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrProfileFetch, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := b.config.Client(b.clientContext(ctx), token).Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrProfileFetch, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("%w: status %d: %s", ErrProfileFetch, resp.StatusCode, strings.TrimSpace(string(body)))
	}
	if err := json.NewDecoder(resp.Body).Decode(dest); err != nil {
		return fmt.Errorf("%w: decode: %v", ErrProfileFetch, err)
	}
	return nil
}

func (b baseProvider) refresh(ctx context.Context, token *oauth2.Token) (*oauth2.Token, error) {
	if token == nil || token.RefreshToken == "" {
		return nil, ErrMissingRefreshToken
	}
	// An expired copy forces the token source to hit the token endpoint.
	stale := &oauth2.Token{RefreshToken: token.RefreshToken}
	fresh, err := b.config.TokenSource(b.clientContext(ctx), stale).Token()
	if err != nil {
		return nil, fmt.Errorf("%w: refresh: %v", ErrExchangeFailed, err)
	}
	if fresh.RefreshToken == "" {
		fresh.RefreshToken = token.RefreshToken
	}
	return fresh, nil
}

func (p *Profile) validate() error {
	p.Email = strings.ToLower(strings.TrimSpace(p.Email))
	if p.ProviderUserID == "" || p.Email == "" {
		return ErrIncompleteProfile
	}
	return nil
}
