package wizard

import (
	"errors"
	"net/url"
	"strconv"
	"strings"
)

// Flavor is the role a wizard page was built for.
type Flavor string

const (
	FlavorJobseeker Flavor = "jobseeker"
	FlavorEmployer  Flavor = "employer"
)

// Paths the wizard redirects to.
const (
	EmployerCallbackPath = "/employer-oauth-callback"
	JobseekerLoginPath   = "/login"
	EmployerLoginPath    = "/employer-login"
	DashboardPath        = "/dashboard"
	EmployerDashboard    = "/employer-dashboard"
	GulfDashboardPath    = "/gulf-dashboard"
)

const stateGulf = "gulf"

// Callback is the query string the backend appended to the wizard URL.
type Callback struct {
	Token              string
	Provider           string
	UserType           string
	State              string
	Error              string
	NeedsPasswordSetup bool
	Flavor             Flavor
}

// ParseCallback reads a wizard URL. The path selects the flavor.
func ParseCallback(raw string) (*Callback, error) {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return nil, err
	}
	if u.Path == "" && u.RawQuery == "" {
		return nil, errors.New("callback URL has no query")
	}

	q := u.Query()
	cb := &Callback{
		Token:    q.Get("token"),
		Provider: q.Get("provider"),
		UserType: q.Get("userType"),
		State:    q.Get("state"),
		Error:    q.Get("error"),
		Flavor:   FlavorJobseeker,
	}
	cb.NeedsPasswordSetup, _ = strconv.ParseBool(q.Get("needsPasswordSetup"))
	if strings.TrimRight(u.Path, "/") == EmployerCallbackPath {
		cb.Flavor = FlavorEmployer
	}
	return cb, nil
}

// LoginPath is the login page matching the flavor.
func (f Flavor) LoginPath() string {
	if f == FlavorEmployer {
		return EmployerLoginPath
	}
	return JobseekerLoginPath
}

// flavorFor maps an account role to the wizard flavor it belongs on.
func flavorFor(userType string) Flavor {
	switch userType {
	case "employer", "admin":
		return FlavorEmployer
	default:
		return FlavorJobseeker
	}
}
