package wizard

import (
	"context"
	"errors"
	"net/http"
	"time"
)

// State is a wizard screen.
type State string

const (
	StateLoading       State = "loading"
	StatePasswordSetup State = "password-setup"
	StateProfileSetup  State = "profile-setup"
	StateSuccess       State = "success"
	StateError         State = "error"
)

// Delays before a terminal state redirects.
const (
	ErrorRedirectDelay   = 3 * time.Second
	SuccessRedirectDelay = 1500 * time.Millisecond
)

// ErrWrongState is returned by an action the current screen does not offer.
var ErrWrongState = errors.New("wizard: action not available in this state")

// Machine is the completion wizard. It is not safe for concurrent use; every
// action is a single user-paced step.
type Machine struct {
	api     API
	markers MarkerCache

	cb       *Callback
	state    State
	profile  *Profile
	target   string
	message  string
	degraded bool
}

// NewMachine creates a wizard over api. A nil markers keeps markers in memory.
func NewMachine(api API, markers MarkerCache) *Machine {
	if markers == nil {
		markers = NewMemoryMarkerCache()
	}
	return &Machine{api: api, markers: markers, state: StateLoading}
}

func (m *Machine) State() State { return m.state }

// Profile is the last profile fetched or returned by the backend. It is nil
// until the first successful call.
func (m *Machine) Profile() *Profile { return m.profile }

// Target is the path to redirect to once the state is terminal.
func (m *Machine) Target() string { return m.target }

// Message is the last user-facing error or notice.
func (m *Machine) Message() string { return m.message }

// Degraded reports that the profile could not be loaded and the wizard fell
// back to password setup.
func (m *Machine) Degraded() bool { return m.degraded }

// Terminal reports whether the wizard is done.
func (m *Machine) Terminal() bool {
	return m.state == StateSuccess || m.state == StateError
}

// RedirectDelay is how long a terminal screen stays up.
func (m *Machine) RedirectDelay() time.Duration {
	if m.state == StateError {
		return ErrorRedirectDelay
	}
	return SuccessRedirectDelay
}

// Start consumes the callback and moves to the first screen.
func (m *Machine) Start(ctx context.Context, cb *Callback) State {
	m.cb = cb
	m.state = StateLoading

	switch {
	case cb == nil:
		return m.fail("Sign-in did not complete. Please try again.")
	case cb.Error != "":
		return m.fail("Sign-in failed: " + cb.Error)
	case cb.Token == "":
		return m.fail("No session was returned. Please sign in again.")
	}

	m.api.SetToken(cb.Token)
	if err := m.refresh(ctx); err != nil {
		if IsAuthError(err) {
			return m.fail("Your session was rejected. Please sign in again.")
		}
		// A token holder finishes setup instead of being logged out.
		m.degraded = true
		m.message = "We could not load your profile. You can still set a password."
		m.state = StatePasswordSetup
		return m.state
	}

	if want := flavorFor(m.profile.User.UserType); want != cb.Flavor {
		m.state = StateError
		m.target = want.LoginPath()
		m.message = "This account signs in from a different page."
		return m.state
	}

	return m.advance()
}

// SubmitPassword validates locally, then sets the password.
func (m *Machine) SubmitPassword(ctx context.Context, password, confirmation string) error {
	if m.state != StatePasswordSetup {
		return ErrWrongState
	}
	if err := ValidatePassword(password, confirmation); err != nil {
		m.message = err.Error()
		return err
	}

	p, err := m.api.SetupPassword(ctx, password)
	if err != nil {
		var apiErr *APIError
		if errors.As(err, &apiErr) && apiErr.Status == http.StatusConflict {
			// Already set elsewhere; move on with fresh flags.
			if ferr := m.refresh(ctx); ferr == nil {
				m.degraded = false
				m.advance()
				return nil
			}
		}
		m.message = errorMessage(err)
		return err
	}

	m.profile = p
	m.degraded = false
	m.message = ""
	m.advance()
	return nil
}

// Skip records that the user skipped password setup. The server write is
// best effort: unless the server refuses outright, the local marker carries
// the choice until the next profile fetch.
func (m *Machine) Skip(ctx context.Context) error {
	if m.state != StatePasswordSetup {
		return ErrWrongState
	}

	p, err := m.api.SkipPassword(ctx)
	switch {
	case err == nil:
		m.profile = p
	case IsAuthError(err):
		m.message = errorMessage(err)
		return err
	}

	if m.profile == nil {
		if ferr := m.refresh(ctx); ferr != nil {
			m.message = errorMessage(ferr)
			return ferr
		}
	}
	if err != nil {
		_ = m.markers.Set(m.profile.User.ID, m.profile.User.Email)
	}

	m.degraded = false
	m.message = ""
	m.advance()
	return nil
}

// SubmitProfile saves the profile dialog and finishes the wizard.
func (m *Machine) SubmitProfile(ctx context.Context, form ProfileForm) error {
	if m.state != StateProfileSetup {
		return ErrWrongState
	}

	update, err := form.Update()
	if err != nil {
		m.message = err.Error()
		return err
	}

	p, err := m.api.UpdateProfile(ctx, update)
	if err != nil {
		m.message = errorMessage(err)
		return err
	}
	m.profile = p

	// Re-fetch so server-derived flags settle; the update response is enough if this fails.
	_ = m.refresh(ctx)

	m.message = ""
	m.succeed()
	return nil
}

func (m *Machine) refresh(ctx context.Context) error {
	p, err := m.api.Profile(ctx)
	if err != nil {
		return err
	}
	m.profile = p
	_ = m.markers.Clear(p.User.ID, p.User.Email)
	return nil
}

func (m *Machine) advance() State {
	u := m.profile.User
	switch StatusOf(SignalsFrom(m.profile, m.markers.Has(u.ID, u.Email))) {
	case NeedsPassword:
		m.state = StatePasswordSetup
	case NeedsProfile:
		m.state = StateProfileSetup
	default:
		m.succeed()
	}
	return m.state
}

func (m *Machine) succeed() {
	m.state = StateSuccess
	m.target = m.successTarget()
}

func (m *Machine) successTarget() string {
	if m.cb != nil && m.cb.State == stateGulf {
		return GulfDashboardPath
	}
	if m.profile != nil && m.profile.User.IsGulf() {
		return GulfDashboardPath
	}
	if m.cb != nil && m.cb.Flavor == FlavorEmployer {
		return EmployerDashboard
	}
	return DashboardPath
}

func (m *Machine) fail(message string) State {
	m.state = StateError
	m.message = message
	m.target = JobseekerLoginPath
	if m.cb != nil {
		m.target = m.cb.Flavor.LoginPath()
	}
	return m.state
}

func errorMessage(err error) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	return err.Error()
}
