package oauth

import (
	"context"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/endpoints"
)

const facebookProfileURL = "https://graph.facebook.com/v19.0/me?fields=id,name,email,first_name,last_name,picture.type(large)"

// FacebookProvider implements Provider for Facebook accounts.
type FacebookProvider struct {
	baseProvider
}

func NewFacebook(cfg ProviderConfig) *FacebookProvider {
	return &FacebookProvider{
		baseProvider: newBase(Facebook, cfg, endpoints.Facebook, facebookProfileURL,
			[]string{"email", "public_profile"}),
	}
}

func (f *FacebookProvider) AuthCodeURL(state string) string {
	return f.config.AuthCodeURL(state)
}

// FetchProfile reads the Graph API "me" node. Facebook only returns confirmed
// addresses, so a present email counts as verified.
func (f *FacebookProvider) FetchProfile(ctx context.Context, token *oauth2.Token) (*Profile, error) {
	var payload struct {
		ID        string `json:"id"`
		Email     string `json:"email"`
		Name      string `json:"name"`
		FirstName string `json:"first_name"`
		LastName  string `json:"last_name"`
		Picture   struct {
			Data struct {
				URL string `json:"url"`
			} `json:"data"`
		} `json:"picture"`
	}
	if err := f.fetchJSON(ctx, token, &payload); err != nil {
		return nil, err
	}

	profile := &Profile{
		Provider:       Facebook,
		ProviderUserID: payload.ID,
		Email:          payload.Email,
		DisplayName:    payload.Name,
		GivenName:      payload.FirstName,
		FamilyName:     payload.LastName,
		PictureURL:     payload.Picture.Data.URL,
		EmailVerified:  payload.Email != "",
	}
	if err := profile.validate(); err != nil {
		return nil, err
	}
	return profile, nil
}

// Refresh is unsupported: Facebook issues long-lived access tokens instead.
func (f *FacebookProvider) Refresh(context.Context, *oauth2.Token) (*oauth2.Token, error) {
	return nil, ErrRefreshUnsupported
}
