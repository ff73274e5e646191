package oauth

import (
	"context"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/endpoints"
)

const googleProfileURL = "https://www.googleapis.com/oauth2/v3/userinfo"

// GoogleProvider implements Provider for Google accounts.
type GoogleProvider struct {
	baseProvider
}

// NewGoogle builds the Google adapter. Offline access is requested so a refresh
// token is issued for later profile syncs.
func NewGoogle(cfg ProviderConfig) *GoogleProvider {
	return &GoogleProvider{
		baseProvider: newBase(Google, cfg, endpoints.Google, googleProfileURL,
			[]string{"openid", "email", "profile"}),
	}
}

func (g *GoogleProvider) AuthCodeURL(state string) string {
	return g.config.AuthCodeURL(state, oauth2.AccessTypeOffline, oauth2.SetAuthURLParam("prompt", "select_account"))
}

func (g *GoogleProvider) FetchProfile(ctx context.Context, token *oauth2.Token) (*Profile, error) {
	var payload struct {
		Sub           string `json:"sub"`
		Email         string `json:"email"`
		EmailVerified bool   `json:"email_verified"`
		Name          string `json:"name"`
		GivenName     string `json:"given_name"`
		FamilyName    string `json:"family_name"`
		Picture       string `json:"picture"`
	}
	if err := g.fetchJSON(ctx, token, &payload); err != nil {
		return nil, err
	}

	profile := &Profile{
		Provider:       Google,
		ProviderUserID: payload.Sub,
		Email:          payload.Email,
		DisplayName:    payload.Name,
		GivenName:      payload.GivenName,
		FamilyName:     payload.FamilyName,
		PictureURL:     payload.Picture,
		EmailVerified:  payload.EmailVerified,
	}
	if err := profile.validate(); err != nil {
		return nil, err
	}
	return profile, nil
}

func (g *GoogleProvider) Refresh(ctx context.Context, token *oauth2.Token) (*oauth2.Token, error) {
	return g.refresh(ctx, token)
}
