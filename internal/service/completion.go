package service

import (
	"strings"

	"jobportal/internal/models"
)

// ProfileCompletion scores how much of the profile is filled in, 0 to 100.
func ProfileCompletion(u *models.User) int {
	score := 0
	add := func(ok bool, weight int) {
		if ok {
			score += weight
		}
	}

	add(filled(u.FirstName), 10)
	add(filled(u.LastName), 10)
	add(filled(u.Phone), 15)
	add(filled(u.Headline), 10)
	add(filled(u.Summary), 10)
	add(filled(u.CurrentLocation), 5)
	add(u.ExperienceYears != nil, 10)
	add(len(u.Skills) > 0, 15)
	add(len(u.PreferredLocations) > 0, 5)
	add(filled(u.ProfilePicture), 5)
	add(u.IsEmailVerified, 5)

	if score > 100 {
		return 100
	}
	return score
}

func filled(s string) bool {
	return strings.TrimSpace(s) != ""
}
