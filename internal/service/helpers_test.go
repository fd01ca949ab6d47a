package service

import (
	"context"
	"fmt"
	"io"
	"testing"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/noah-isme/roomfinder-bot/internal/models"
	"github.com/noah-isme/roomfinder-bot/internal/repository"
)

func testLogger() zerolog.Logger {
	return zerolog.New(io.Discard)
}

func setupServiceDB(t *testing.T) *gorm.DB {
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

type campus struct {
	db         *gorm.DB
	buildings  repository.BuildingRepository
	floors     repository.FloorRepository
	classrooms repository.ClassroomRepository
	activities repository.UserActivityRepository
	seed       SeedService
	lookup     LookupService
	activity   ActivityService
}

func newCampus(t *testing.T) *campus {
	t.Helper()
	db := setupServiceDB(t)
	c := &campus{
		db:         db,
		buildings:  repository.NewBuildingRepository(db),
		floors:     repository.NewFloorRepository(db),
		classrooms: repository.NewClassroomRepository(db),
		activities: repository.NewUserActivityRepository(db),
	}
	c.seed = NewSeedService(c.buildings, c.floors, c.classrooms, DefaultBuildings, testLogger())
	c.lookup = NewLookupService(c.buildings, c.floors, c.classrooms, testLogger())
	c.activity = NewActivityService(c.activities, testLogger())
	return c
}

func newSeededCampus(t *testing.T) *campus {
	t.Helper()
	c := newCampus(t)
	_, err := c.seed.Seed(context.Background())
	require.NoError(t, err)
	return c
}

func (c *campus) counts(t *testing.T) (int64, int64, int64) {
	t.Helper()
	ctx := context.Background()
	buildings, err := c.buildings.Count(ctx)
	require.NoError(t, err)
	floors, err := c.floors.Count(ctx)
	require.NoError(t, err)
	classrooms, err := c.classrooms.Count(ctx)
	require.NoError(t, err)
	return buildings, floors, classrooms
}
