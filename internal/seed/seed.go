package seed

import (
	"fmt"

	"jobportal/internal/middleware"
	"jobportal/internal/models"

	"gorm.io/gorm"
)

// Result counts what a run created.
type Result struct {
	OAuthJobseekers int
	LocalJobseekers int
	Employers       int
}

// Seeder populates the database with demo accounts.
type Seeder struct {
	db      *gorm.DB
	factory *Factory
}

// NewSeeder creates a Seeder. seed 0 picks a random seed.
func NewSeeder(db *gorm.DB, opts Options, seed int64) *Seeder {
	return &Seeder{db: db, factory: NewFactory(db, opts, seed)}
}

// Run creates the configured number of each account kind.
func (s *Seeder) Run() (*Result, error) {
	opts := s.factory.opts
	res := &Result{}

	for range opts.OAuthJobseekers {
		if _, err := s.factory.CreateOAuthJobseeker(); err != nil {
			return res, fmt.Errorf("oauth jobseeker: %w", err)
		}
		res.OAuthJobseekers++
	}
	for range opts.LocalJobseekers {
		if _, err := s.factory.CreateLocalJobseeker(); err != nil {
			return res, fmt.Errorf("local jobseeker: %w", err)
		}
		res.LocalJobseekers++
	}
	for range opts.Employers {
		if _, err := s.factory.CreateEmployer(); err != nil {
			return res, fmt.Errorf("employer: %w", err)
		}
		res.Employers++
	}

	middleware.Logger.Info("seed complete",
		"oauth_jobseekers", res.OAuthJobseekers,
		"local_jobseekers", res.LocalJobseekers,
		"employers", res.Employers)
	return res, nil
}

// ClearAll removes every user and company, soft-deleted rows included.
func (s *Seeder) ClearAll() error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Session(&gorm.Session{AllowGlobalUpdate: true}).Unscoped().Delete(&models.User{}).Error; err != nil {
			return err
		}
		return tx.Session(&gorm.Session{AllowGlobalUpdate: true}).Unscoped().Delete(&models.Company{}).Error
	})
}
