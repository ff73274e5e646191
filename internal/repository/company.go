package repository

import (
	"context"
	"errors"

	"jobportal/internal/models"
	"jobportal/internal/observability"

	"gorm.io/gorm"
)

// ErrSlugTaken is returned by CompanyRepository.Create when the slug is already used.
var ErrSlugTaken = errors.New("company slug already taken")

// CompanyRepository defines persistence operations for companies.
type CompanyRepository interface {
	GetByID(ctx context.Context, id uint) (*models.Company, error)
	SlugExists(ctx context.Context, slug string) (bool, error)
	Create(ctx context.Context, company *models.Company) error
	WithTx(tx *gorm.DB) CompanyRepository
}

type companyRepository struct {
	db *gorm.DB
}

// NewCompanyRepository returns a new CompanyRepository implementation.
func NewCompanyRepository(db *gorm.DB) CompanyRepository {
	return &companyRepository{db: db}
}

func (r *companyRepository) WithTx(tx *gorm.DB) CompanyRepository {
	return &companyRepository{db: tx}
}

func (r *companyRepository) GetByID(ctx context.Context, id uint) (*models.Company, error) {
	var company models.Company
	if err := readDB(r.db).WithContext(ctx).First(&company, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Company", id)
		}
		return nil, models.NewInternalError(err)
	}
	return &company, nil
}

// SlugExists includes soft-deleted rows since the unique index does.
func (r *companyRepository) SlugExists(ctx context.Context, slug string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Unscoped().Model(&models.Company{}).Where("slug = ?", slug).Count(&count).Error; err != nil {
		return false, models.NewInternalError(err)
	}
	return count > 0, nil
}

func (r *companyRepository) Create(ctx context.Context, company *models.Company) error {
	defer observability.TrackQuery("create", "companies")()

	if err := r.db.WithContext(ctx).Create(company).Error; err != nil {
		if isUniqueConstraintError(err) {
			return ErrSlugTaken
		}
		return models.NewInternalError(err)
	}
	return nil
}
