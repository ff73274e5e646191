package database

import (
	"testing"

	"jobportal/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmbeddedMigrations(t *testing.T) {
	all := GetMigrations()
	require.Len(t, all, 3)

	for i, m := range all {
		assert.Equal(t, i+1, m.Version)
		assert.NotEmpty(t, m.UpScript)
		assert.NotEmpty(t, m.DownScript)
	}

	m := GetMigrationByVersion(3)
	require.NotNil(t, m)
	assert.Equal(t, "000003_add_users_password_skipped", m.String())
	assert.Contains(t, m.UpScript, "password_skipped")
	assert.Nil(t, GetMigrationByVersion(99))
}

func TestPendingMigrations(t *testing.T) {
	pending := pendingMigrations([]int{1, 2}, GetMigrations())
	require.Len(t, pending, 1)
	assert.Equal(t, 3, pending[0].Version)
}

func TestSchemaPolicy(t *testing.T) {
	tests := []struct {
		mode    string
		env     string
		runSQL  bool
		runAuto bool
		wantErr bool
	}{
		{"", "development", true, false, false},
		{"sql", "production", true, false, false},
		{"auto", "development", false, true, false},
		{"auto", "production", false, false, true},
		{"hybrid", "development", true, true, false},
		{"hybrid", "staging", true, false, false},
		{"bogus", "development", false, false, true},
	}

	for _, tt := range tests {
		t.Run(tt.mode+"/"+tt.env, func(t *testing.T) {
			runSQL, runAuto, err := schemaPolicy(&config.Config{DBSchemaMode: tt.mode, Env: tt.env})
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.runSQL, runSQL)
			assert.Equal(t, tt.runAuto, runAuto)
		})
	}
}
