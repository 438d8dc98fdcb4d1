package services

import (
	"fmt"
	"strings"
	"testing"

	"github.com/Zalotleh/wellness-hub-sub005/config"
	"github.com/Zalotleh/wellness-hub-sub005/models"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// setupTestDB opens a fresh in-memory database with the full schema. The
// DSN is keyed by test name so parallel tests do not share state.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", name)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, config.Migrate(db))
	return db
}

func createTestUser(t *testing.T, db *gorm.DB, email string) models.User {
	t.Helper()
	user := models.User{
		Email:    email,
		Password: "x",
		FullName: "Test User",
		Timezone: "UTC",
	}
	require.NoError(t, db.Create(&user).Error)
	return user
}
