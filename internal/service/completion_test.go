package service

import (
	"testing"

	"jobportal/internal/models"

	"github.com/stretchr/testify/assert"
)

func TestProfileCompletion(t *testing.T) {
	years := 4
	full := &models.User{
		FirstName:          "Amal",
		LastName:           "Haddad",
		Phone:              "+971501234567",
		Headline:           "Backend engineer",
		Summary:            "Builds APIs",
		CurrentLocation:    "Dubai",
		ExperienceYears:    &years,
		Skills:             []string{"Go"},
		PreferredLocations: []string{"Doha"},
		ProfilePicture:     "https://img.example.com/a.png",
		IsEmailVerified:    true,
	}

	tests := []struct {
		name string
		user *models.User
		want int
	}{
		{"empty", &models.User{}, 0},
		{"core only", &models.User{FirstName: "A", LastName: "B", Phone: "1"}, 35},
		{"whitespace ignored", &models.User{FirstName: "  ", Headline: "\t"}, 0},
		{"full", full, 100},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ProfileCompletion(tt.user), tt.name)
	}
}
