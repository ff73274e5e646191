// Package wizard drives the first-login completion flow: it reads the OAuth
// callback, fetches the profile and walks the user through password and
// profile setup before handing off to the right dashboard.
package wizard

import "strings"

// Status is the derived setup state of an account.
type Status int

const (
	NeedsPassword Status = iota
	NeedsProfile
	Complete
)

func (s Status) String() string {
	switch s {
	case NeedsPassword:
		return "needs_password"
	case NeedsProfile:
		return "needs_profile"
	default:
		return "complete"
	}
}

// Signals are the profile facts setup completeness is derived from.
type Signals struct {
	HasPassword bool
	// PasswordSkipped is the server flag or the local marker.
	PasswordSkipped bool
	// RequiresPasswordSetup is the server's own verdict.
	RequiresPasswordSetup bool
	HasCoreProfile        bool
	HasPhone              bool
	ProfileCompleted      bool
}

// SignalsFrom derives Signals from a fetched profile and the local skip marker.
func SignalsFrom(p *Profile, localSkip bool) Signals {
	u := p.User
	return Signals{
		HasPassword:           p.HasPassword,
		PasswordSkipped:       p.PasswordSkipped || localSkip,
		RequiresPasswordSetup: p.RequiresPasswordSetup,
		HasCoreProfile:        filled(u.FirstName) && filled(u.LastName) && filled(u.Phone),
		HasPhone:              filled(u.Phone),
		ProfileCompleted:      p.ProfileCompleted,
	}
}

// StatusOf reports which step, if any, the user still has to complete.
// Setup is complete once a password exists or was skipped and a phone is on
// file. Otherwise a required password comes first, then missing core fields.
func StatusOf(s Signals) Status {
	if (s.HasPassword || s.PasswordSkipped) && s.HasPhone {
		return Complete
	}
	if s.RequiresPasswordSetup && !s.HasPassword && !s.PasswordSkipped {
		return NeedsPassword
	}
	if !s.HasCoreProfile && !s.ProfileCompleted {
		return NeedsProfile
	}
	return Complete
}

func filled(s string) bool {
	return strings.TrimSpace(s) != ""
}
