package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"jobportal/internal/middleware"
	"jobportal/internal/models"
	"jobportal/internal/oauth"
	"jobportal/internal/repository"

	"golang.org/x/oauth2"
)

// AccountResolver maps a verified provider profile to a local account.
type AccountResolver struct {
	users repository.UserRepository
	now   func() time.Time
}

func NewAccountResolver(users repository.UserRepository) *AccountResolver {
	return &AccountResolver{users: users, now: time.Now}
}

// Resolve finds the account by provider identity, then by email (linking it),
// and creates a jobseeker account otherwise. Storage errors are wrapped in
// ErrAuthenticationFailed.
func (r *AccountResolver) Resolve(ctx context.Context, profile *oauth.Profile, token *oauth2.Token) (*models.User, error) {
	user, err := r.resolve(ctx, profile, token)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrAuthenticationFailed, err)
	}
	return user, nil
}

func (r *AccountResolver) resolve(ctx context.Context, profile *oauth.Profile, token *oauth2.Token) (*models.User, error) {
	provider := models.AuthProvider(profile.Provider)
	now := r.now().UTC()

	user, err := r.users.GetByOAuthIdentity(ctx, provider, profile.ProviderUserID)
	if err != nil {
		return nil, err
	}
	if user != nil {
		applyTokens(user, token)
		user.LastLoginAt = &now
		mergeProfile(user, profile)
		if err := r.users.Update(ctx, user); err != nil {
			return nil, err
		}
		return user, nil
	}

	// Matching or claiming an address requires the provider to vouch for it.
	if !profile.EmailVerified {
		return nil, ErrEmailNotVerified
	}

	user, err = r.users.GetByEmail(ctx, profile.Email)
	if err != nil {
		return nil, err
	}
	if user != nil {
		middleware.Logger.InfoContext(ctx, "linking oauth identity to existing account",
			"user_id", user.ID, "provider", profile.Provider, "previous_provider", user.Provider)
		oauthID := profile.ProviderUserID
		user.Provider = provider
		user.OAuthID = &oauthID
		applyTokens(user, token)
		mergeProfile(user, profile)
		user.IsEmailVerified = true
		user.LastLoginAt = &now
		if err := r.users.Update(ctx, user); err != nil {
			return nil, err
		}
		return user, nil
	}

	first, last := profileNames(profile)
	oauthID := profile.ProviderUserID
	user = &models.User{
		Email:             profile.Email,
		UserType:          models.UserTypeJobseeker,
		Provider:          provider,
		OAuthID:           &oauthID,
		FirstName:         first,
		LastName:          last,
		ProfilePicture:    profile.PictureURL,
		ProfileCompletion: models.OAuthSeedProfileCompletion,
		AccountStatus:     models.AccountActive,
		IsEmailVerified:   profile.EmailVerified,
		LastLoginAt:       &now,
	}
	applyTokens(user, token)
	if err := r.users.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

func applyTokens(user *models.User, token *oauth2.Token) {
	if token == nil {
		return
	}
	user.OAuthAccessToken = token.AccessToken
	// Providers omit the refresh token on repeat consent; keep the stored one.
	if token.RefreshToken != "" {
		user.OAuthRefreshToken = token.RefreshToken
	}
	if !token.Expiry.IsZero() {
		expiry := token.Expiry.UTC()
		user.OAuthTokenExpiry = &expiry
	} else {
		user.OAuthTokenExpiry = nil
	}
}

// mergeProfile fills empty local fields from the provider. Local values win.
func mergeProfile(user *models.User, profile *oauth.Profile) {
	first, last := profileNames(profile)
	if strings.TrimSpace(user.FirstName) == "" {
		user.FirstName = first
	}
	if strings.TrimSpace(user.LastName) == "" {
		user.LastName = last
	}
	if user.ProfilePicture == "" {
		user.ProfilePicture = profile.PictureURL
	}
	if profile.EmailVerified && strings.EqualFold(user.Email, profile.Email) {
		user.IsEmailVerified = true
	}
}

func profileNames(profile *oauth.Profile) (string, string) {
	first := strings.TrimSpace(profile.GivenName)
	last := strings.TrimSpace(profile.FamilyName)
	if first != "" || last != "" {
		return first, last
	}
	return splitDisplayName(profile.DisplayName)
}

// splitDisplayName puts the first word in the first name and the rest in the last name.
func splitDisplayName(name string) (string, string) {
	fields := strings.Fields(name)
	switch len(fields) {
	case 0:
		return "", ""
	case 1:
		return fields[0], ""
	default:
		return fields[0], strings.Join(fields[1:], " ")
	}
}
