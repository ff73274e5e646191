// Package seed provides helpers to create demo data for the application
// database. These helpers are intended for development and testing only.
package seed

import (
	"fmt"
	"strings"
	"time"

	"jobportal/internal/models"
	"jobportal/internal/service"
	"jobportal/internal/validation"

	"github.com/brianvoe/gofakeit/v6"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// DemoPassword is the password of every seeded local account.
const DemoPassword = "Password123"

var (
	demoSkills = []string{
		"Go", "PostgreSQL", "Redis", "Kubernetes", "React", "TypeScript", "Accounting",
		"Sales", "Customer Service", "Project Management", "AutoCAD", "Nursing", "Arabic",
	}
	demoLocations  = []string{"Dubai", "Abu Dhabi", "Riyadh", "Doha", "Muscat", "Bengaluru", "Mumbai", "Pune"}
	demoIndustries = []string{"Technology", "Construction", "Healthcare", "Hospitality", "Finance", "Retail"}
)

// Options configures a seeding run.
type Options struct {
	OAuthJobseekers int
	LocalJobseekers int
	Employers       int
	// SkipBcrypt stores a cheap hash for local accounts; dev speed only.
	SkipBcrypt bool
}

// Factory builds domain entities and persists them to the database.
type Factory struct {
	db   *gorm.DB
	opts Options
	fake *gofakeit.Faker
	hash *string
}

// NewFactory creates a Factory bound to db. seed 0 picks a random seed.
func NewFactory(db *gorm.DB, opts Options, seed int64) *Factory {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &Factory{db: db, opts: opts, fake: gofakeit.New(seed)}
}

func (f *Factory) passwordHash() (*string, error) {
	if f.hash != nil {
		return f.hash, nil
	}
	cost := bcrypt.DefaultCost
	if f.opts.SkipBcrypt {
		cost = bcrypt.MinCost
	}
	raw, err := bcrypt.GenerateFromPassword([]byte(DemoPassword), cost)
	if err != nil {
		return nil, err
	}
	h := string(raw)
	f.hash = &h
	return f.hash, nil
}

func (f *Factory) baseUser() *models.User {
	first := f.fake.FirstName()
	last := f.fake.LastName()
	u := &models.User{
		Email:           fmt.Sprintf("%s.%s.%d@example.com", strings.ToLower(first), strings.ToLower(last), f.fake.Number(1000, 9999)),
		UserType:        models.UserTypeJobseeker,
		Provider:        models.ProviderLocal,
		FirstName:       first,
		LastName:        last,
		AccountStatus:   models.AccountActive,
		IsEmailVerified: true,
	}
	if f.fake.Bool() {
		u.Region = "gulf"
	}
	return u
}

// fillProfile gives u a finished jobseeker profile.
func (f *Factory) fillProfile(u *models.User) {
	years := f.fake.Number(0, 20)
	salary := int64(f.fake.Number(30, 250)) * 1000
	u.Phone = f.fake.Phone()
	u.Headline = f.fake.JobTitle()
	u.Summary = f.fake.Sentence(20)
	u.CurrentLocation = f.fake.RandomString(demoLocations)
	u.ExperienceYears = &years
	u.ExpectedSalary = &salary
	u.WillingToRelocate = f.fake.Bool()
	u.Skills = validation.NormalizeList([]string{
		f.fake.RandomString(demoSkills), f.fake.RandomString(demoSkills), f.fake.RandomString(demoSkills),
	})
	u.PreferredLocations = []string{f.fake.RandomString(demoLocations)}
}

// CreateOAuthJobseeker creates a Google-linked account that has not finished
// the completion wizard: no password and no phone.
func (f *Factory) CreateOAuthJobseeker(overrides ...func(*models.User)) (*models.User, error) {
	u := f.baseUser()
	oauthID := f.fake.DigitN(21)
	u.Provider = models.ProviderGoogle
	u.OAuthID = &oauthID
	u.ProfilePicture = fmt.Sprintf("https://i.pravatar.cc/150?u=%s", f.fake.UUID())
	for _, o := range overrides {
		o(u)
	}
	u.ProfileCompletion = service.ProfileCompletion(u)
	if err := f.db.Create(u).Error; err != nil {
		return nil, err
	}
	return u, nil
}

// CreateLocalJobseeker creates a password account with a complete profile.
func (f *Factory) CreateLocalJobseeker(overrides ...func(*models.User)) (*models.User, error) {
	hash, err := f.passwordHash()
	if err != nil {
		return nil, err
	}
	u := f.baseUser()
	u.Password = hash
	f.fillProfile(u)
	for _, o := range overrides {
		o(u)
	}
	u.ProfileCompletion = service.ProfileCompletion(u)
	if err := f.db.Create(u).Error; err != nil {
		return nil, err
	}
	return u, nil
}

// CreateEmployer creates an employer account together with its company.
func (f *Factory) CreateEmployer(overrides ...func(*models.User)) (*models.User, error) {
	hash, err := f.passwordHash()
	if err != nil {
		return nil, err
	}
	u := f.baseUser()
	u.UserType = models.UserTypeEmployer
	u.Password = hash
	u.Phone = f.fake.Phone()
	for _, o := range overrides {
		o(u)
	}

	name := f.fake.Company()
	company := &models.Company{
		Name:         name,
		Slug:         fmt.Sprintf("%s-%s", validation.Slugify(name), strings.ToLower(f.fake.LetterN(6))),
		ContactEmail: u.Email,
		ContactPhone: u.Phone,
		Website:      f.fake.URL(),
		Industry:     f.fake.RandomString(demoIndustries),
		Region:       u.Region,
		IsActive:     true,
	}

	err = f.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(company).Error; err != nil {
			return err
		}
		u.CompanyID = &company.ID
		u.ProfileCompletion = service.ProfileCompletion(u)
		return tx.Create(u).Error
	})
	if err != nil {
		return nil, err
	}
	u.Company = company
	return u, nil
}
