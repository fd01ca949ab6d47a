package repository

import (
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/noah-isme/roomfinder-bot/internal/models"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Discard})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(&models.Building{}, &models.Floor{}, &models.Classroom{}, &models.UserActivity{}))
	return db
}

func createBuildingWithFloors(t *testing.T, db *gorm.DB, name string, floors int) (models.Building, []models.Floor) {
	t.Helper()
	building := models.Building{Name: name}
	require.NoError(t, db.Create(&building).Error)

	created := make([]models.Floor, 0, floors)
	for i := 1; i <= floors; i++ {
		floor := models.Floor{Number: i, BuildingID: building.ID}
		require.NoError(t, db.Omit("Building").Create(&floor).Error)
		created = append(created, floor)
	}
	return building, created
}
