package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"jobportal/internal/middleware"
	"jobportal/internal/models"
	"jobportal/internal/observability"
	"jobportal/internal/repository"
	"jobportal/internal/validation"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const defaultSlugAttempts = 5

// EmployerPromoter turns a jobseeker into an employer with a fresh company.
type EmployerPromoter struct {
	db           *gorm.DB
	users        repository.UserRepository
	companies    repository.CompanyRepository
	slugSuffix   func() string
	slugAttempts int
}

func NewEmployerPromoter(db *gorm.DB, users repository.UserRepository, companies repository.CompanyRepository) *EmployerPromoter {
	return &EmployerPromoter{
		db:           db,
		users:        users,
		companies:    companies,
		slugSuffix:   randomSlugSuffix,
		slugAttempts: defaultSlugAttempts,
	}
}

// Promote creates the company and flips the role in one transaction. Users that
// are already employers or admins are left alone. On failure nothing is
// persisted and user is not modified.
func (p *EmployerPromoter) Promote(ctx context.Context, user *models.User) (err error) {
	if user.IsEmployer() {
		return nil
	}

	ctx, span := observability.StartSpan(ctx, "service.employer_promotion")
	defer func() { observability.EndSpan(span, err) }()

	promoted := *user
	var company models.Company

	err = p.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		company = models.Company{
			Name:         companyName(user),
			ContactEmail: user.Email,
			ContactPhone: user.Phone,
			Region:       user.Region,
			IsActive:     true,
		}
		if err := p.createWithUniqueSlug(ctx, tx, &company); err != nil {
			return err
		}

		promoted.UserType = models.UserTypeEmployer
		promoted.CompanyID = &company.ID
		return p.users.WithTx(tx).Update(ctx, &promoted)
	})
	if err != nil {
		observability.EmployerPromotions.WithLabelValues(observability.OutcomePromoteFailed).Inc()
		return fmt.Errorf("%w: %w", ErrPromotionFailed, err)
	}

	promoted.Company = &company
	*user = promoted
	p.users.InvalidateCache(ctx, user.ID)
	observability.EmployerPromotions.WithLabelValues(observability.OutcomeSuccess).Inc()
	middleware.Logger.InfoContext(ctx, "user promoted to employer",
		"user_id", user.ID, "company_id", company.ID, "slug", company.Slug)
	return nil
}

// createWithUniqueSlug inserts company under a savepoint per attempt so a slug
// collision does not abort the enclosing transaction.
func (p *EmployerPromoter) createWithUniqueSlug(ctx context.Context, tx *gorm.DB, company *models.Company) error {
	base := validation.Slugify(company.Name)
	companies := p.companies.WithTx(tx)

	for attempt := 0; attempt < p.slugAttempts; attempt++ {
		slug := base + "-" + p.slugSuffix()
		taken, err := companies.SlugExists(ctx, slug)
		if err != nil {
			return err
		}
		if taken {
			continue
		}

		company.Slug = slug
		err = tx.Transaction(func(sp *gorm.DB) error {
			return p.companies.WithTx(sp).Create(ctx, company)
		})
		if errors.Is(err, repository.ErrSlugTaken) {
			company.ID = 0
			continue
		}
		return err
	}
	return ErrSlugExhausted
}

func companyName(user *models.User) string {
	name := strings.TrimSpace(user.DisplayName())
	if name == "" {
		return "My Company"
	}
	return name + "'s Company"
}

func randomSlugSuffix() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")[:6]
}
