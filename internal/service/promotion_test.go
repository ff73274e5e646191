package service

import (
	"context"
	"errors"
	"testing"

	"jobportal/internal/cache"
	"jobportal/internal/models"
	"jobportal/internal/repository"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func seedJobseeker(t *testing.T, db *gorm.DB) *models.User {
	t.Helper()
	u := &models.User{
		Email:     "amal@example.com",
		UserType:  models.UserTypeJobseeker,
		Provider:  models.ProviderGoogle,
		OAuthID:   strPtr("g-1"),
		FirstName: "Amal",
		LastName:  "Haddad",
	}
	require.NoError(t, db.Create(u).Error)
	return u
}

func sequenceSuffix(values ...string) func() string {
	i := 0
	return func() string {
		v := values[i%len(values)]
		i++
		return v
	}
}

func TestPromote_CreatesCompanyAndSwitchesRole(t *testing.T) {
	db := newTestDB(t)
	user := seedJobseeker(t, db)
	p := NewEmployerPromoter(db, repository.NewUserRepository(db, nil), repository.NewCompanyRepository(db))
	p.slugSuffix = sequenceSuffix("k3x9q2")

	require.NoError(t, p.Promote(context.Background(), user))

	assert.Equal(t, models.UserTypeEmployer, user.UserType)
	require.NotNil(t, user.CompanyID)
	require.NotNil(t, user.Company)
	assert.Equal(t, "Amal Haddad's Company", user.Company.Name)
	assert.Equal(t, "amal-haddad-s-company-k3x9q2", user.Company.Slug)

	var stored models.User
	require.NoError(t, db.First(&stored, user.ID).Error)
	assert.Equal(t, models.UserTypeEmployer, stored.UserType)
	assert.Equal(t, *user.CompanyID, *stored.CompanyID)

	var company models.Company
	require.NoError(t, db.First(&company, *stored.CompanyID).Error)
	assert.Equal(t, "amal@example.com", company.ContactEmail)
	assert.True(t, company.IsActive)
}

// cachingReader simulates a profile read landing inside the promotion
// transaction: right after the role update it caches the pre-commit view.
type cachingReader struct {
	repository.UserRepository
	mr *miniredis.Miniredis
}

func (c cachingReader) WithTx(tx *gorm.DB) repository.UserRepository {
	return cachingReader{c.UserRepository.WithTx(tx), c.mr}
}

func (c cachingReader) Update(ctx context.Context, user *models.User) error {
	if err := c.UserRepository.Update(ctx, user); err != nil {
		return err
	}
	return c.mr.Set(cache.UserProfileKey(user.ID), `{"user":{"user_type":"jobseeker"}}`)
}

func TestPromote_InvalidatesProfileCacheAfterCommit(t *testing.T) {
	db := newTestDB(t)
	user := seedJobseeker(t, db)
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	users := cachingReader{repository.NewUserRepository(db, rdb), mr}
	p := NewEmployerPromoter(db, users, repository.NewCompanyRepository(db))
	p.slugSuffix = sequenceSuffix("c4ch3d")

	require.NoError(t, p.Promote(context.Background(), user))
	assert.Equal(t, models.UserTypeEmployer, user.UserType)
	assert.False(t, mr.Exists(cache.UserProfileKey(user.ID)), "stale jobseeker view must not outlive the commit")
}

func TestPromote_IsIdempotentByRole(t *testing.T) {
	db := newTestDB(t)
	p := NewEmployerPromoter(db, repository.NewUserRepository(db, nil), repository.NewCompanyRepository(db))

	for _, role := range []models.UserType{models.UserTypeEmployer, models.UserTypeAdmin} {
		user := &models.User{ID: 9, UserType: role}
		require.NoError(t, p.Promote(context.Background(), user))
		assert.Nil(t, user.CompanyID)
	}
	assert.Zero(t, countRows(t, db, &models.Company{}))
}

func TestPromote_SkipsTakenSlugs(t *testing.T) {
	db := newTestDB(t)
	user := seedJobseeker(t, db)
	require.NoError(t, db.Create(&models.Company{Name: "Other", Slug: "amal-haddad-s-company-aaaaaa"}).Error)

	p := NewEmployerPromoter(db, repository.NewUserRepository(db, nil), repository.NewCompanyRepository(db))
	p.slugSuffix = sequenceSuffix("aaaaaa", "bbbbbb")

	require.NoError(t, p.Promote(context.Background(), user))
	assert.Equal(t, "amal-haddad-s-company-bbbbbb", user.Company.Slug)
	assert.Equal(t, int64(2), countRows(t, db, &models.Company{}))
}

// racingSlugs hides existing slugs from the pre-check, as if another
// transaction inserted them concurrently.
type racingSlugs struct {
	repository.CompanyRepository
}

func (r racingSlugs) SlugExists(context.Context, string) (bool, error) { return false, nil }

func (r racingSlugs) WithTx(tx *gorm.DB) repository.CompanyRepository {
	return racingSlugs{r.CompanyRepository.WithTx(tx)}
}

func TestPromote_RetriesUniqueViolationInsideTransaction(t *testing.T) {
	db := newTestDB(t)
	user := seedJobseeker(t, db)
	require.NoError(t, db.Create(&models.Company{Name: "Other", Slug: "amal-haddad-s-company-aaaaaa"}).Error)

	p := NewEmployerPromoter(db, repository.NewUserRepository(db, nil), racingSlugs{repository.NewCompanyRepository(db)})
	p.slugSuffix = sequenceSuffix("aaaaaa", "cccccc")

	require.NoError(t, p.Promote(context.Background(), user))
	assert.Equal(t, "amal-haddad-s-company-cccccc", user.Company.Slug)

	var stored models.User
	require.NoError(t, db.First(&stored, user.ID).Error)
	assert.Equal(t, models.UserTypeEmployer, stored.UserType)
}

func TestPromote_SlugExhaustionRollsBack(t *testing.T) {
	db := newTestDB(t)
	user := seedJobseeker(t, db)
	require.NoError(t, db.Create(&models.Company{Name: "Other", Slug: "amal-haddad-s-company-aaaaaa"}).Error)

	p := NewEmployerPromoter(db, repository.NewUserRepository(db, nil), repository.NewCompanyRepository(db))
	p.slugSuffix = sequenceSuffix("aaaaaa")

	err := p.Promote(context.Background(), user)
	assert.ErrorIs(t, err, ErrPromotionFailed)
	assert.ErrorIs(t, err, ErrSlugExhausted)
	assert.Equal(t, models.UserTypeJobseeker, user.UserType)
}

func TestPromote_FailedRoleUpdateLeavesNoOrphanCompany(t *testing.T) {
	db := newTestDB(t)
	user := seedJobseeker(t, db)

	require.NoError(t, db.Callback().Update().Before("gorm:update").Register("test:fail_users", func(tx *gorm.DB) {
		if tx.Statement.Table == "users" {
			_ = tx.AddError(errors.New("simulated write failure"))
		}
	}))

	p := NewEmployerPromoter(db, repository.NewUserRepository(db, nil), repository.NewCompanyRepository(db))
	err := p.Promote(context.Background(), user)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrPromotionFailed)

	assert.Equal(t, models.UserTypeJobseeker, user.UserType, "in-memory user untouched")
	assert.Nil(t, user.CompanyID)
	assert.Nil(t, user.Company)

	assert.Zero(t, countRows(t, db, &models.Company{}), "company insert rolled back")
	var stored models.User
	require.NoError(t, db.First(&stored, user.ID).Error)
	assert.Equal(t, models.UserTypeJobseeker, stored.UserType)
	assert.Nil(t, stored.CompanyID)
}

func TestPromote_RollsBackOnInsertFailure(t *testing.T) {
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer sqlDB.Close()
	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT count\(\*\) FROM "companies"`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	mock.ExpectExec(`^SAVEPOINT`).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery(`INSERT INTO "companies"`).WillReturnError(errors.New("disk full"))
	mock.ExpectExec(`ROLLBACK TO SAVEPOINT`).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	p := NewEmployerPromoter(db, repository.NewUserRepository(db, nil), repository.NewCompanyRepository(db))
	user := &models.User{ID: 5, Email: "omar@example.com", UserType: models.UserTypeJobseeker, FirstName: "Omar"}

	err = p.Promote(context.Background(), user)
	assert.ErrorIs(t, err, ErrPromotionFailed)
	assert.Equal(t, models.UserTypeJobseeker, user.UserType)
	assert.NoError(t, mock.ExpectationsWereMet())
}
