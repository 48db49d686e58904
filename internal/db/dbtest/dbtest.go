// Package dbtest opens isolated in-memory SQLite databases for tests.
package dbtest

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/oggyb/crush-reveal/internal/db"
)

// Open returns a migrated in-memory database private to t.
func Open(t *testing.T) *gorm.DB {
	t.Helper()

	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", name)
	database, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		NowFunc:                func() time.Time { return time.Now().UTC().Truncate(time.Millisecond) },
		SkipDefaultTransaction: true,
		TranslateError:         true,
		Logger:                 logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := database.DB()
	require.NoError(t, err)
	// shared-cache memory databases report SQLITE_LOCKED under concurrent writers
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	require.NoError(t, db.Migrate(database))
	return database
}

// CreateUsers inserts one user per username and returns them in order.
func CreateUsers(t *testing.T, database *gorm.DB, usernames ...string) []db.User {
	t.Helper()

	users := make([]db.User, 0, len(usernames))
	for _, u := range usernames {
		users = append(users, db.User{
			Username:     u,
			Email:        u + "@campus.test",
			FullName:     strings.ToUpper(u[:1]) + u[1:] + " Tester",
			Branch:       "CSE",
			Year:         "3",
			PasswordHash: "x",
		})
	}
	require.NoError(t, database.Create(&users).Error)
	return users
}
