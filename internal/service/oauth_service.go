package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"jobportal/internal/middleware"
	"jobportal/internal/models"
	"jobportal/internal/oauth"
	"jobportal/internal/observability"

	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/oauth2"
)

// Resolver finds or creates the account for a provider profile.
type Resolver interface {
	Resolve(ctx context.Context, profile *oauth.Profile, token *oauth2.Token) (*models.User, error)
}

// Promoter upgrades an account to employer.
type Promoter interface {
	Promote(ctx context.Context, user *models.User) error
}

// CallbackInput carries the query parameters of a provider callback.
type CallbackInput struct {
	Provider string
	Code     string
	State    string
	// Error is the provider's error parameter, set when the user denied consent.
	Error string
}

// OAuthService orchestrates provider login: state, exchange, profile, account
// resolution, employer promotion and the final redirect.
type OAuthService struct {
	providers *oauth.Registry
	states    oauth.StateStore
	resolver  Resolver
	promoter  Promoter
	issuer    *TokenIssuer
}

func NewOAuthService(
	providers *oauth.Registry,
	states oauth.StateStore,
	resolver Resolver,
	promoter Promoter,
	issuer *TokenIssuer,
) *OAuthService {
	return &OAuthService{
		providers: providers,
		states:    states,
		resolver:  resolver,
		promoter:  promoter,
		issuer:    issuer,
	}
}

// Begin stores a state nonce bound to the requested intent and returns the
// provider authorization URL.
func (s *OAuthService) Begin(ctx context.Context, providerName, rawState string) (string, error) {
	provider, err := s.providers.Get(providerName)
	if err != nil {
		return "", err
	}
	nonce, err := s.states.Save(ctx, oauth.PendingLogin{
		Provider: provider.Name(),
		Intent:   oauth.ParseIntent(rawState),
	})
	if err != nil {
		return "", err
	}
	return provider.AuthCodeURL(nonce), nil
}

// AuthURLs returns a fresh authorization URL for every enabled provider. An
// employer userType binds the employer intent.
func (s *OAuthService) AuthURLs(ctx context.Context, userType string) (map[string]string, error) {
	intent := ""
	if strings.EqualFold(strings.TrimSpace(userType), string(models.UserTypeEmployer)) {
		intent = string(oauth.IntentEmployer)
	}

	urls := make(map[string]string)
	for _, name := range s.providers.Names() {
		u, err := s.Begin(ctx, name, intent)
		if err != nil {
			return nil, err
		}
		urls[name] = u
	}
	return urls, nil
}

// Complete finishes a provider callback and always returns a browser redirect:
// the wizard URL on success, otherwise the login page for the flow's role with
// an error flag. The returned error describes the failure for logging.
func (s *OAuthService) Complete(ctx context.Context, in CallbackInput) (redirect string, err error) {
	providerName := strings.ToLower(strings.TrimSpace(in.Provider))
	ctx, span := observability.StartSpan(ctx, "service.oauth_complete", attribute.String("oauth.provider", providerName))
	defer func() { observability.EndSpan(span, err) }()

	// The state is consumed first, even on a provider error, so the nonce cannot be replayed.
	pending, stateErr := s.states.Consume(ctx, in.State)
	employer := pending != nil && pending.Intent.IsEmployer()

	fail := func(outcome, code string, cause error) (string, error) {
		observability.OAuthLogins.WithLabelValues(providerName, outcome).Inc()
		return s.issuer.LoginErrorRedirect(employer, code), cause
	}

	if in.Error != "" {
		return fail(observability.OutcomeDenied, LoginErrorDenied, fmt.Errorf("provider returned error %q", in.Error))
	}
	if stateErr != nil {
		return fail(observability.OutcomeInvalidState, LoginErrorInvalidState, stateErr)
	}
	if pending.Provider != providerName {
		return fail(observability.OutcomeInvalidState, LoginErrorInvalidState,
			fmt.Errorf("state issued for %q used on %q callback", pending.Provider, providerName))
	}

	provider, err := s.providers.Get(providerName)
	if err != nil {
		return fail(observability.OutcomeProviderError, LoginErrorOAuthFailed, err)
	}
	if in.Code == "" {
		return fail(observability.OutcomeProviderError, LoginErrorOAuthFailed, errors.New("missing authorization code"))
	}

	token, err := provider.Exchange(ctx, in.Code)
	if err != nil {
		return fail(observability.OutcomeProviderError, LoginErrorOAuthFailed, err)
	}
	profile, err := provider.FetchProfile(ctx, token)
	if err != nil {
		return fail(observability.OutcomeProviderError, LoginErrorOAuthFailed, err)
	}

	user, err := s.resolver.Resolve(ctx, profile, token)
	if err != nil {
		return fail(observability.OutcomeAuthFailed, LoginErrorAuthFailed, err)
	}
	ctx = middleware.WithUserID(ctx, user.ID)

	if employer {
		if err := s.promoter.Promote(ctx, user); err != nil {
			return fail(observability.OutcomePromoteFailed, LoginErrorEmployerSetup, err)
		}
	}

	redirect, err = s.issuer.Redirect(user, pending.Intent)
	if err != nil {
		return fail(observability.OutcomeAuthFailed, LoginErrorAuthFailed, err)
	}

	observability.OAuthLogins.WithLabelValues(providerName, observability.OutcomeSuccess).Inc()
	middleware.Logger.InfoContext(ctx, "oauth login completed",
		"provider", providerName, "user_type", user.UserType, "intent", pending.Intent.String())
	return redirect, nil
}
