package wizard

import (
	"strconv"
	"strings"

	"jobportal/internal/validation"
)

// ValidatePassword runs the password policy locally, before any request is made.
func ValidatePassword(password, confirmation string) error {
	return validation.ValidatePasswordPair(password, confirmation)
}

// ProfileForm holds the profile dialog as typed.
type ProfileForm struct {
	FirstName          string
	LastName           string
	Phone              string
	Headline           string
	Summary            string
	CurrentLocation    string
	ExperienceYears    string
	CurrentSalary      string
	ExpectedSalary     string
	NoticePeriodDays   string
	WillingToRelocate  string
	Skills             string
	PreferredLocations string
}

// ProfileUpdate is the body of PUT /api/user/update-profile.
type ProfileUpdate struct {
	FirstName          string   `json:"first_name"`
	LastName           string   `json:"last_name"`
	Phone              string   `json:"phone"`
	Headline           string   `json:"headline,omitempty"`
	Summary            string   `json:"summary,omitempty"`
	CurrentLocation    string   `json:"current_location,omitempty"`
	ExperienceYears    *int     `json:"experience_years,omitempty"`
	CurrentSalary      *int64   `json:"current_salary,omitempty"`
	ExpectedSalary     *int64   `json:"expected_salary,omitempty"`
	NoticePeriodDays   *int     `json:"notice_period_days,omitempty"`
	WillingToRelocate  *bool    `json:"willing_to_relocate,omitempty"`
	Skills             []string `json:"skills"`
	PreferredLocations []string `json:"preferred_locations"`
}

// FormFromProfile prefills the dialog with what the server already knows.
func FormFromProfile(p *Profile) ProfileForm {
	u := p.User
	f := ProfileForm{
		FirstName:          u.FirstName,
		LastName:           u.LastName,
		Phone:              u.Phone,
		Headline:           u.Headline,
		Summary:            u.Summary,
		CurrentLocation:    u.CurrentLocation,
		Skills:             strings.Join(u.Skills, ", "),
		PreferredLocations: strings.Join(u.PreferredLocations, ", "),
	}
	if u.ExperienceYears != nil {
		f.ExperienceYears = strconv.Itoa(*u.ExperienceYears)
	}
	if u.WillingToRelocate {
		f.WillingToRelocate = "yes"
	}
	return f
}

// Update validates the form and converts it to a request body. Only the first
// name, last name and phone are required.
func (f ProfileForm) Update() (*ProfileUpdate, error) {
	errs := validation.FieldErrors{}
	out := &ProfileUpdate{
		FirstName:          strings.TrimSpace(f.FirstName),
		LastName:           strings.TrimSpace(f.LastName),
		Phone:              strings.TrimSpace(f.Phone),
		Headline:           strings.TrimSpace(f.Headline),
		Summary:            strings.TrimSpace(f.Summary),
		CurrentLocation:    strings.TrimSpace(f.CurrentLocation),
		Skills:             validation.SplitList(f.Skills),
		PreferredLocations: validation.SplitList(f.PreferredLocations),
	}

	for field, v := range map[string]string{
		"first_name": out.FirstName,
		"last_name":  out.LastName,
		"phone":      out.Phone,
	} {
		if v == "" {
			errs[field] = "is required"
		}
	}

	out.ExperienceYears = parseInt(errs, "experience_years", f.ExperienceYears)
	out.NoticePeriodDays = parseInt(errs, "notice_period_days", f.NoticePeriodDays)
	out.CurrentSalary = parseInt64(errs, "current_salary", f.CurrentSalary)
	out.ExpectedSalary = parseInt64(errs, "expected_salary", f.ExpectedSalary)

	switch strings.ToLower(strings.TrimSpace(f.WillingToRelocate)) {
	case "":
	case "y", "yes", "true":
		v := true
		out.WillingToRelocate = &v
	case "n", "no", "false":
		v := false
		out.WillingToRelocate = &v
	default:
		errs["willing_to_relocate"] = "must be yes or no"
	}

	if len(errs) > 0 {
		return nil, errs
	}
	return out, nil
}

func parseInt(errs validation.FieldErrors, field, raw string) *int {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		errs[field] = "must be a whole number"
		return nil
	}
	return &n
}

func parseInt64(errs validation.FieldErrors, field, raw string) *int64 {
	raw = strings.TrimSpace(strings.ReplaceAll(raw, ",", ""))
	if raw == "" {
		return nil
	}
	n, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || n < 0 {
		errs[field] = "must be a whole number"
		return nil
	}
	return &n
}
