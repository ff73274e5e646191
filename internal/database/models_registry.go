package database

import "jobportal/internal/models"

// PersistentModels returns the authoritative set of schema-managed GORM models.
func PersistentModels() []any {
	return []any{
		&models.Company{},
		&models.User{},
	}
}
