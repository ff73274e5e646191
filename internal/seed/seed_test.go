package seed

import (
	"testing"

	"jobportal/internal/database"
	"jobportal/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func openSQLite(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	require.NoError(t, database.AutoMigrate(db))
	return db
}

func TestSeeder_Run(t *testing.T) {
	db := openSQLite(t)
	s := NewSeeder(db, Options{OAuthJobseekers: 3, LocalJobseekers: 2, Employers: 2, SkipBcrypt: true}, 42)

	res, err := s.Run()
	require.NoError(t, err)
	assert.Equal(t, &Result{OAuthJobseekers: 3, LocalJobseekers: 2, Employers: 2}, res)

	var users []models.User
	require.NoError(t, db.Preload("Company").Find(&users).Error)
	require.Len(t, users, 7)

	var oauth, employers int
	for _, u := range users {
		switch {
		case u.UserType == models.UserTypeEmployer:
			employers++
			require.NotNil(t, u.Company)
			assert.NotEmpty(t, u.Company.Slug)
			require.True(t, u.HasPassword())
			assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(*u.Password), []byte(DemoPassword)))
		case u.IsOAuthAccount():
			oauth++
			assert.True(t, u.RequiresPasswordSetup())
			assert.False(t, u.ProfileCompleted())
		default:
			assert.True(t, u.ProfileCompleted())
			assert.NotEmpty(t, u.Skills)
		}
	}
	assert.Equal(t, 3, oauth)
	assert.Equal(t, 2, employers)

	var companies int64
	require.NoError(t, db.Model(&models.Company{}).Count(&companies).Error)
	assert.Equal(t, int64(2), companies)
}

func TestSeeder_ClearAll(t *testing.T) {
	db := openSQLite(t)
	s := NewSeeder(db, Options{OAuthJobseekers: 1, Employers: 1, SkipBcrypt: true}, 7)
	_, err := s.Run()
	require.NoError(t, err)

	require.NoError(t, s.ClearAll())

	var n int64
	require.NoError(t, db.Unscoped().Model(&models.User{}).Count(&n).Error)
	assert.Zero(t, n)
	require.NoError(t, db.Unscoped().Model(&models.Company{}).Count(&n).Error)
	assert.Zero(t, n)
}

func TestFactory_Overrides(t *testing.T) {
	db := openSQLite(t)
	f := NewFactory(db, Options{SkipBcrypt: true}, 1)

	u, err := f.CreateOAuthJobseeker(func(u *models.User) { u.Email = "fixed@example.com" })
	require.NoError(t, err)
	assert.Equal(t, "fixed@example.com", u.Email)
	assert.Equal(t, models.ProviderGoogle, u.Provider)
	require.NotNil(t, u.OAuthID)
}
