// Package models contains the persisted domain types and the API error taxonomy.
package models

import (
	"strings"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// UserType is the role of an account.
type UserType string

// Roles.
const (
	UserTypeJobseeker UserType = "jobseeker"
	UserTypeEmployer  UserType = "employer"
	UserTypeAdmin     UserType = "admin"
)

// AuthProvider names the identity provider that owns an account's login.
type AuthProvider string

// Providers.
const (
	ProviderLocal    AuthProvider = "local"
	ProviderGoogle   AuthProvider = "google"
	ProviderFacebook AuthProvider = "facebook"
)

// AccountStatus values.
const (
	AccountActive    = "active"
	AccountInactive  = "inactive"
	AccountSuspended = "suspended"
)

// OAuthSeedProfileCompletion is the completion score given to accounts created from a provider profile.
const OAuthSeedProfileCompletion = 25

// User is a job portal account.
type User struct {
	ID       uint         `gorm:"primaryKey" json:"id"`
	Email    string       `gorm:"uniqueIndex;size:255;not null" json:"email"`
	Password *string      `gorm:"size:255" json:"-"`
	UserType UserType     `gorm:"size:20;not null;default:jobseeker" json:"user_type"`
	Provider AuthProvider `gorm:"column:oauth_provider;size:20;not null;default:local;uniqueIndex:idx_users_oauth_identity" json:"oauth_provider"`
	// OAuthID is nil for local accounts so the composite unique index ignores them.
	OAuthID           *string    `gorm:"column:oauth_id;size:255;uniqueIndex:idx_users_oauth_identity" json:"-"`
	OAuthAccessToken  string     `gorm:"column:oauth_access_token;type:text" json:"-"`
	OAuthRefreshToken string     `gorm:"column:oauth_refresh_token;type:text" json:"-"`
	OAuthTokenExpiry  *time.Time `gorm:"column:oauth_token_expiry" json:"-"`

	FirstName          string                      `gorm:"size:100" json:"first_name"`
	LastName           string                      `gorm:"size:100" json:"last_name"`
	Phone              string                      `gorm:"size:30" json:"phone"`
	Headline           string                      `gorm:"size:255" json:"headline"`
	Summary            string                      `gorm:"type:text" json:"summary"`
	ProfilePicture     string                      `gorm:"size:1024" json:"profile_picture"`
	CurrentLocation    string                      `gorm:"size:255" json:"current_location"`
	Region             string                      `gorm:"size:50" json:"region"`
	ExperienceYears    *int                        `json:"experience_years"`
	CurrentSalary      *int64                      `json:"current_salary"`
	ExpectedSalary     *int64                      `json:"expected_salary"`
	NoticePeriodDays   *int                        `json:"notice_period_days"`
	WillingToRelocate  bool                        `gorm:"not null;default:false" json:"willing_to_relocate"`
	Skills             datatypes.JSONSlice[string] `gorm:"type:jsonb" json:"skills"`
	PreferredLocations datatypes.JSONSlice[string] `gorm:"type:jsonb" json:"preferred_locations"`

	ProfileCompletion int    `gorm:"not null;default:0" json:"profile_completion"`
	AccountStatus     string `gorm:"size:20;not null;default:active" json:"account_status"`
	IsEmailVerified   bool   `gorm:"not null;default:false" json:"is_email_verified"`
	PasswordSkipped   bool   `gorm:"not null;default:false" json:"password_skipped"`

	LastLoginAt *time.Time `json:"last_login_at,omitempty"`
	CompanyID   *uint      `gorm:"index" json:"company_id,omitempty"`
	Company     *Company   `gorm:"foreignKey:CompanyID" json:"company,omitempty"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// HasPassword reports whether a local password hash is stored.
func (u *User) HasPassword() bool {
	return u.Password != nil && *u.Password != ""
}

// IsOAuthAccount reports whether the account was created or linked through a provider.
func (u *User) IsOAuthAccount() bool {
	return u.Provider != "" && u.Provider != ProviderLocal
}

// NeedsPasswordSetup is the redirect flag: no password on a provider-owned account.
func (u *User) NeedsPasswordSetup() bool {
	return !u.HasPassword() && u.IsOAuthAccount()
}

// RequiresPasswordSetup is NeedsPasswordSetup unless the user explicitly skipped the step.
func (u *User) RequiresPasswordSetup() bool {
	return u.NeedsPasswordSetup() && !u.PasswordSkipped
}

// HasCoreProfile reports whether first name, last name and phone are all set.
func (u *User) HasCoreProfile() bool {
	return strings.TrimSpace(u.FirstName) != "" &&
		strings.TrimSpace(u.LastName) != "" &&
		strings.TrimSpace(u.Phone) != ""
}

// ProfileCompleted is the server-side completion flag exposed to clients.
func (u *User) ProfileCompleted() bool {
	return u.HasCoreProfile()
}

// IsEmployer reports whether the account has employer privileges.
func (u *User) IsEmployer() bool {
	return u.UserType == UserTypeEmployer || u.UserType == UserTypeAdmin
}

// IsGulfRegion reports whether the user belongs to the Gulf region.
func (u *User) IsGulfRegion() bool {
	return strings.EqualFold(strings.TrimSpace(u.Region), "gulf")
}

// DisplayName joins first and last name, falling back to the email local part.
func (u *User) DisplayName() string {
	name := strings.TrimSpace(strings.TrimSpace(u.FirstName) + " " + strings.TrimSpace(u.LastName))
	if name != "" {
		return name
	}
	if at := strings.IndexByte(u.Email, '@'); at > 0 {
		return u.Email[:at]
	}
	return u.Email
}
