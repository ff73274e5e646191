package tui

import (
	"jobportal/internal/wizard"

	"github.com/charmbracelet/bubbles/textinput"
)

func newInput(placeholder, value string, limit int) textinput.Model {
	in := textinput.New()
	in.Placeholder = placeholder
	in.CharLimit = limit
	in.Width = 48
	in.SetValue(value)
	return in
}

func passwordFields() []field {
	pw := newInput("at least 8 characters", "", 72)
	pw.EchoMode = textinput.EchoPassword
	confirm := newInput("repeat password", "", 72)
	confirm.EchoMode = textinput.EchoPassword
	return []field{
		{label: "Password", input: pw},
		{label: "Confirm password", input: confirm},
	}
}

// Profile dialog order; formFromValues reads values back in the same order.
func profileFields(f wizard.ProfileForm) []field {
	return []field{
		{label: "First name *", input: newInput("", f.FirstName, 100)},
		{label: "Last name *", input: newInput("", f.LastName, 100)},
		{label: "Phone *", input: newInput("+971 50 123 4567", f.Phone, 30)},
		{label: "Headline", input: newInput("Backend engineer", f.Headline, 255)},
		{label: "Summary", input: newInput("", f.Summary, 5000)},
		{label: "Current location", input: newInput("Dubai", f.CurrentLocation, 255)},
		{label: "Years of experience", input: newInput("", f.ExperienceYears, 2)},
		{label: "Current salary", input: newInput("", f.CurrentSalary, 15)},
		{label: "Expected salary", input: newInput("", f.ExpectedSalary, 15)},
		{label: "Notice period (days)", input: newInput("", f.NoticePeriodDays, 3)},
		{label: "Willing to relocate (yes/no)", input: newInput("", f.WillingToRelocate, 5)},
		{label: "Skills (comma separated)", input: newInput("Go, PostgreSQL", f.Skills, 1000)},
		{label: "Preferred locations (comma separated)", input: newInput("Dubai, Riyadh", f.PreferredLocations, 1000)},
	}
}

func formFromValues(v []string) wizard.ProfileForm {
	return wizard.ProfileForm{
		FirstName:          v[0],
		LastName:           v[1],
		Phone:              v[2],
		Headline:           v[3],
		Summary:            v[4],
		CurrentLocation:    v[5],
		ExperienceYears:    v[6],
		CurrentSalary:      v[7],
		ExpectedSalary:     v[8],
		NoticePeriodDays:   v[9],
		WillingToRelocate:  v[10],
		Skills:             v[11],
		PreferredLocations: v[12],
	}
}
