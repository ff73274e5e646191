package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"jobportal/internal/cache"
	"jobportal/internal/featureflags"
	"jobportal/internal/middleware"
	"jobportal/internal/models"
	"jobportal/internal/oauth"
	"jobportal/internal/observability"
	"jobportal/internal/repository"
	"jobportal/internal/validation"

	"github.com/redis/go-redis/v9"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/oauth2"
)

// tokenRefreshLeeway refreshes provider tokens slightly before they expire.
const tokenRefreshLeeway = time.Minute

// ProfileView is the profile payload with the flags the completion wizard reads.
type ProfileView struct {
	User                  *models.User `json:"user"`
	RequiresPasswordSetup bool         `json:"requiresPasswordSetup"`
	HasPassword           bool         `json:"hasPassword"`
	PasswordSkipped       bool         `json:"passwordSkipped"`
	ProfileCompleted      bool         `json:"profileCompleted"`
}

// NewProfileView derives the wizard flags from u.
func NewProfileView(u *models.User) *ProfileView {
	return &ProfileView{
		User:                  u,
		RequiresPasswordSetup: u.RequiresPasswordSetup(),
		HasPassword:           u.HasPassword(),
		PasswordSkipped:       u.PasswordSkipped,
		ProfileCompleted:      u.ProfileCompleted(),
	}
}

// UpdateProfileInput is the body of a profile update.
type UpdateProfileInput struct {
	FirstName          string   `json:"first_name" validate:"required,max=100"`
	LastName           string   `json:"last_name" validate:"required,max=100"`
	Phone              string   `json:"phone" validate:"required,phone"`
	Headline           string   `json:"headline" validate:"max=255"`
	Summary            string   `json:"summary" validate:"max=5000"`
	CurrentLocation    string   `json:"current_location" validate:"max=255"`
	Region             string   `json:"region" validate:"max=50"`
	ExperienceYears    *int     `json:"experience_years" validate:"omitempty,min=0,max=60"`
	CurrentSalary      *int64   `json:"current_salary" validate:"omitempty,min=0"`
	ExpectedSalary     *int64   `json:"expected_salary" validate:"omitempty,min=0"`
	NoticePeriodDays   *int     `json:"notice_period_days" validate:"omitempty,min=0,max=365"`
	WillingToRelocate  *bool    `json:"willing_to_relocate"`
	Skills             []string `json:"skills" validate:"max=50,dive,max=100"`
	PreferredLocations []string `json:"preferred_locations" validate:"max=20,dive,max=100"`
}

func (in *UpdateProfileInput) normalize() {
	in.FirstName = strings.TrimSpace(in.FirstName)
	in.LastName = strings.TrimSpace(in.LastName)
	in.Phone = strings.TrimSpace(in.Phone)
	in.Headline = strings.TrimSpace(in.Headline)
	in.Summary = strings.TrimSpace(in.Summary)
	in.CurrentLocation = strings.TrimSpace(in.CurrentLocation)
	in.Region = strings.TrimSpace(in.Region)
	in.Skills = validation.NormalizeList(in.Skills)
	in.PreferredLocations = validation.NormalizeList(in.PreferredLocations)
}

// SetupService backs the first-login completion wizard.
type SetupService struct {
	users     repository.UserRepository
	rdb       *redis.Client
	flags     *featureflags.Manager
	providers *oauth.Registry
	validator *validation.Validator
	now       func() time.Time
}

// NewSetupService creates a SetupService. rdb may be nil.
func NewSetupService(
	users repository.UserRepository,
	rdb *redis.Client,
	flags *featureflags.Manager,
	providers *oauth.Registry,
) *SetupService {
	return &SetupService{
		users:     users,
		rdb:       rdb,
		flags:     flags,
		providers: providers,
		validator: validation.New(),
		now:       time.Now,
	}
}

// Profile returns the cached profile view for userID.
func (s *SetupService) Profile(ctx context.Context, userID uint) (*ProfileView, error) {
	var view ProfileView
	err := cache.CacheAside(ctx, s.rdb, cache.UserProfileKey(userID), &view, cache.UserProfileTTL, func() error {
		user, err := s.users.GetByID(ctx, userID)
		if err != nil {
			return err
		}
		view = *NewProfileView(user)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &view, nil
}

// SetupPassword stores the first local password of an OAuth account.
func (s *SetupService) SetupPassword(ctx context.Context, userID uint, password string) (*ProfileView, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user.HasPassword() {
		return nil, ErrPasswordAlreadySet
	}
	if !user.IsOAuthAccount() {
		return nil, ErrNotOAuthAccount
	}
	if err := validation.ValidatePassword(password); err != nil {
		return nil, models.NewValidationError(err.Error())
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	hashed := string(hash)
	user.Password = &hashed
	user.PasswordSkipped = false
	if err := s.users.Update(ctx, user); err != nil {
		return nil, err
	}

	observability.SetupSteps.WithLabelValues(observability.StepPasswordSet).Inc()
	return NewProfileView(user), nil
}

// SkipPasswordSetup records that the user chose not to create a password.
// Accounts that do not need a password are returned unchanged.
func (s *SetupService) SkipPasswordSetup(ctx context.Context, userID uint) (*ProfileView, error) {
	if !s.flags.Enabled(featureflags.PasswordSkip, userID) {
		return nil, ErrPasswordSkipDisabled
	}
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !user.NeedsPasswordSetup() || user.PasswordSkipped {
		return NewProfileView(user), nil
	}

	user.PasswordSkipped = true
	if err := s.users.Update(ctx, user); err != nil {
		return nil, err
	}
	observability.SetupSteps.WithLabelValues(observability.StepPasswordSkipped).Inc()
	return NewProfileView(user), nil
}

// UpdateProfile validates and applies the profile form and recomputes the completion score.
func (s *SetupService) UpdateProfile(ctx context.Context, userID uint, in UpdateProfileInput) (*ProfileView, error) {
	in.normalize()
	if err := s.validator.Struct(in); err != nil {
		var fieldErrs validation.FieldErrors
		if errors.As(err, &fieldErrs) {
			appErr := models.NewValidationError("Invalid profile")
			appErr.Err = fieldErrs
			return nil, appErr
		}
		return nil, models.NewInternalError(err)
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	user.FirstName = in.FirstName
	user.LastName = in.LastName
	user.Phone = in.Phone
	user.Headline = in.Headline
	user.Summary = in.Summary
	user.CurrentLocation = in.CurrentLocation
	if in.Region != "" {
		user.Region = in.Region
	}
	user.ExperienceYears = in.ExperienceYears
	user.CurrentSalary = in.CurrentSalary
	user.ExpectedSalary = in.ExpectedSalary
	user.NoticePeriodDays = in.NoticePeriodDays
	if in.WillingToRelocate != nil {
		user.WillingToRelocate = *in.WillingToRelocate
	}
	user.Skills = in.Skills
	user.PreferredLocations = in.PreferredLocations
	user.ProfileCompletion = ProfileCompletion(user)

	if err := s.users.Update(ctx, user); err != nil {
		return nil, err
	}
	observability.SetupSteps.WithLabelValues(observability.StepProfileUpdated).Inc()
	return NewProfileView(user), nil
}

// SyncProviderProfile re-pulls the Google profile, refreshing the stored access
// token first when it has expired, and fills empty local fields.
func (s *SetupService) SyncProviderProfile(ctx context.Context, userID uint) (*ProfileView, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user.Provider != models.ProviderGoogle || user.OAuthID == nil || user.OAuthAccessToken == "" {
		return nil, ErrProviderNotLinked
	}
	provider, err := s.providers.Get(oauth.Google)
	if err != nil {
		return nil, models.NewInternalError(err)
	}

	token := &oauth2.Token{
		AccessToken:  user.OAuthAccessToken,
		RefreshToken: user.OAuthRefreshToken,
		TokenType:    "Bearer",
	}
	if user.OAuthTokenExpiry != nil {
		token.Expiry = *user.OAuthTokenExpiry
	}
	if !token.Expiry.IsZero() && !s.now().Add(tokenRefreshLeeway).Before(token.Expiry) {
		fresh, err := provider.Refresh(ctx, token)
		if err != nil {
			return nil, models.NewUnauthorizedError(fmt.Sprintf("Google session expired, sign in again: %v", err))
		}
		token = fresh
	}

	profile, err := provider.FetchProfile(ctx, token)
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	if profile.ProviderUserID != *user.OAuthID {
		middleware.Logger.WarnContext(ctx, "provider profile does not match linked identity", "user_id", user.ID)
		return nil, ErrProviderNotLinked
	}

	applyTokens(user, token)
	mergeProfile(user, profile)
	user.ProfileCompletion = max(user.ProfileCompletion, ProfileCompletion(user))
	if err := s.users.Update(ctx, user); err != nil {
		return nil, err
	}
	observability.SetupSteps.WithLabelValues(observability.StepProviderSync).Inc()
	return NewProfileView(user), nil
}
